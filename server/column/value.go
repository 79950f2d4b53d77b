package column

import (
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// Kind 当前值的类别
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindShort
	KindLong
	KindFloat
	KindDouble
	KindByte
	KindBool
	KindDate
	KindTime
	KindTimestamp
	KindBytes
	KindDecimal
	KindObject
	KindURL
	KindStream
)

var kindNames = [...]string{
	KindNull:      "null",
	KindString:    "string",
	KindInt:       "int",
	KindShort:     "short",
	KindLong:      "long",
	KindFloat:     "float",
	KindDouble:    "double",
	KindByte:      "byte",
	KindBool:      "boolean",
	KindDate:      "date",
	KindTime:      "time",
	KindTimestamp: "timestamp",
	KindBytes:     "bytes",
	KindDecimal:   "decimal",
	KindObject:    "object",
	KindURL:       "url",
	KindStream:    "stream",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Value 列的当前值，一次只有一种表示；nil 表示 SQL NULL
type Value interface {
	Kind() Kind
	value()
}

type (
	StringValue    string
	IntValue       int32
	ShortValue     int16
	LongValue      int64
	FloatValue     float32
	DoubleValue    float64
	ByteValue      int8
	BoolValue      bool
	DateValue      time.Time
	TimeValue      time.Time
	TimestampValue time.Time
	BytesValue     []byte
)

// DecimalValue 任意精度十进制
type DecimalValue struct {
	decimal.Decimal
}

// ObjectValue 其他 Go 值，编码时按字符串处理
type ObjectValue struct {
	V interface{}
}

type URLValue struct {
	URL *url.URL
}

// StreamValue 参数流，Length 为 -1 时读到 EOF
type StreamValue struct {
	R      io.Reader
	Length int
}

func (StringValue) Kind() Kind    { return KindString }
func (IntValue) Kind() Kind       { return KindInt }
func (ShortValue) Kind() Kind     { return KindShort }
func (LongValue) Kind() Kind      { return KindLong }
func (FloatValue) Kind() Kind     { return KindFloat }
func (DoubleValue) Kind() Kind    { return KindDouble }
func (ByteValue) Kind() Kind      { return KindByte }
func (BoolValue) Kind() Kind      { return KindBool }
func (DateValue) Kind() Kind      { return KindDate }
func (TimeValue) Kind() Kind      { return KindTime }
func (TimestampValue) Kind() Kind { return KindTimestamp }
func (BytesValue) Kind() Kind     { return KindBytes }
func (DecimalValue) Kind() Kind   { return KindDecimal }
func (ObjectValue) Kind() Kind    { return KindObject }
func (URLValue) Kind() Kind       { return KindURL }
func (StreamValue) Kind() Kind    { return KindStream }

func (StringValue) value()    {}
func (IntValue) value()       {}
func (ShortValue) value()     {}
func (LongValue) value()      {}
func (FloatValue) value()     {}
func (DoubleValue) value()    {}
func (ByteValue) value()      {}
func (BoolValue) value()      {}
func (DateValue) value()      {}
func (TimeValue) value()      {}
func (TimestampValue) value() {}
func (BytesValue) value()     {}
func (DecimalValue) value()   {}
func (ObjectValue) value()    {}
func (URLValue) value()       {}
func (StreamValue) value()    {}

// KindOf nil 值返回 KindNull
func KindOf(v Value) Kind {
	if v == nil {
		return KindNull
	}
	return v.Kind()
}

// FromAny 把常见 Go 值包装为 Value，time.Time 视为时间戳
func FromAny(v interface{}) Value {
	switch x := v.(type) {
	case nil:
		return nil
	case Value:
		return x
	case string:
		return StringValue(x)
	case int:
		return LongValue(x)
	case int8:
		return ByteValue(x)
	case int16:
		return ShortValue(x)
	case int32:
		return IntValue(x)
	case int64:
		return LongValue(x)
	case uint8:
		return ShortValue(x)
	case uint16:
		return IntValue(x)
	case uint32:
		return LongValue(x)
	case float32:
		return FloatValue(x)
	case float64:
		return DoubleValue(x)
	case bool:
		return BoolValue(x)
	case []byte:
		return BytesValue(x)
	case time.Time:
		return TimestampValue(x)
	case decimal.Decimal:
		return DecimalValue{x}
	case *url.URL:
		if x == nil {
			return nil
		}
		return URLValue{x}
	case io.Reader:
		return StreamValue{R: x, Length: -1}
	}
	return ObjectValue{V: v}
}
