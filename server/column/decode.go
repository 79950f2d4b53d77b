package column

import (
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zhukovaskychina/xdb2-client/server/codec"
	"github.com/zhukovaskychina/xdb2-client/server/common"
	"github.com/zhukovaskychina/xdb2-client/server/lob"
	"github.com/zhukovaskychina/xdb2-client/util"
)

// field 返回列在 buf 中的起始位置
func (c *Column) field(buf []byte, rowOffset int) (int, error) {
	if err := c.checkDescribed(); err != nil {
		return 0, err
	}
	start := rowOffset + c.desc.Offset
	if start < 0 || start+c.desc.Length > len(buf) {
		return 0, common.Internal("row buffer too short for column " + c.desc.Name)
	}
	return start, nil
}

// varData 读取长度前缀，图形类型的前缀按字符计数。前缀超过声明长度时截到声明长度。
func (c *Column) varData(buf []byte, start int) (dataStart, n int) {
	t := c.desc.Type
	prefix := t.prefixSize()
	var count int
	if prefix == 2 {
		count = int(util.ReadUB2Byte2Int(buf[start:]))
	} else {
		count = util.ReadUB4Byte2Int(buf[start:])
	}
	if t.IsGraphic() {
		count *= 2
	}
	if room := c.desc.Length - prefix; count > room || count < 0 {
		count = room
	}
	return start + prefix, count
}

// rawData 不含长度前缀的字段字节，直接引用 buf
func (c *Column) rawData(buf []byte, start int) []byte {
	if c.desc.Type.prefixSize() == 0 {
		return buf[start : start+c.desc.Length]
	}
	from, n := c.varData(buf, start)
	return buf[from : from+n]
}

func (c *Column) decodeString(raw []byte) (string, error) {
	if s, ok := c.stringCache.Get(raw); ok {
		return s.(string), nil
	}
	s, err := c.conv.Decode(raw)
	if err != nil {
		return "", err
	}
	c.stringCache.Set(raw, s)
	return s, nil
}

func (c *Column) decodeTemporal(raw []byte) (Value, error) {
	base := c.desc.Type.Base()
	cache := c.dateCache
	if base != TypeDate {
		cache = c.timeCache
	}
	if v, ok := cache.Get(raw); ok {
		return v.(Value), nil
	}
	s, err := c.conv.Decode(raw)
	if err != nil {
		return nil, err
	}
	var v Value
	switch base {
	case TypeDate:
		t, err := ParseDate(s, c.opts.DateFormat, time.UTC)
		if err != nil {
			return nil, err
		}
		v = DateValue(t)
	case TypeTime:
		t, err := ParseTime(s, c.opts.TimeFormat, time.UTC)
		if err != nil {
			return nil, err
		}
		v = TimeValue(t)
	default:
		t, err := ParseTimestamp(s, time.UTC)
		if err != nil {
			return nil, err
		}
		v = TimestampValue(t)
	}
	cache.Set(raw, v)
	return v, nil
}

func (c *Column) scaledInt(v int64, natural Value) Value {
	if c.desc.Scale > 0 {
		return DecimalValue{decimal.New(v, int32(-c.desc.Scale))}
	}
	return natural
}

func (c *Column) locator(buf []byte, start int) *lob.Locator {
	_, handle := util.ReadInt32(buf, start)
	return lob.NewLocator(handle, c.opts.Retriever, c.desc.LOBMaxSize)
}

func readAll(b lob.Blob) ([]byte, error) {
	n, err := b.Length()
	if err != nil {
		return nil, err
	}
	return b.Bytes(1, int(n))
}

// decode 把线上字节转换为该类型的自然值
func (c *Column) decode(buf []byte, rowOffset int) (Value, error) {
	start, err := c.field(buf, rowOffset)
	if err != nil {
		return nil, err
	}
	switch c.desc.Type.Base() {
	case TypeSmallInt:
		_, v := util.ReadInt16(buf, start)
		return c.scaledInt(int64(v), ShortValue(v)), nil
	case TypeInteger:
		_, v := util.ReadInt32(buf, start)
		return c.scaledInt(int64(v), IntValue(v)), nil
	case TypeBigInt:
		_, v := util.ReadInt64(buf, start)
		return c.scaledInt(v, LongValue(v)), nil
	case TypeFloat:
		if c.desc.Length == 4 {
			_, v := util.ReadFloat32(buf, start)
			return FloatValue(v), nil
		}
		_, v := util.ReadFloat64(buf, start)
		return DoubleValue(v), nil
	case TypeDecimal:
		d, err := codec.DecodePacked(buf, start, c.desc.Precision, c.desc.Scale)
		if err != nil {
			return nil, err
		}
		return DecimalValue{d}, nil
	case TypeNumeric:
		d, err := codec.DecodeZoned(buf, start, c.desc.Precision, c.desc.Scale)
		if err != nil {
			return nil, err
		}
		return DecimalValue{d}, nil
	case TypeDecFloat:
		s, err := codec.DecodeDecFloat(buf, start, c.desc.Length)
		if err != nil {
			return nil, err
		}
		switch s {
		case "Infinity":
			return DoubleValue(math.Inf(1)), nil
		case "-Infinity":
			return DoubleValue(math.Inf(-1)), nil
		case "NaN", "-NaN", "sNaN", "-sNaN":
			return DoubleValue(math.NaN()), nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil, common.NewErr(common.ErrInvalidDecimalData, s)
		}
		return DecimalValue{d}, nil
	case TypeBoolean:
		b := buf[start]
		return BoolValue(b != 0x00 && b != 0xF0), nil
	case TypeDate, TypeTime, TypeTimestamp:
		return c.decodeTemporal(c.rawData(buf, start))
	case TypeBinary, TypeVarBinary, TypeRowID, TypeBlob:
		raw := c.rawData(buf, start)
		return BytesValue(append([]byte(nil), raw...)), nil
	case TypeBlobLocator:
		b, err := readAll(c.locator(buf, start))
		if err != nil {
			return nil, err
		}
		return BytesValue(b), nil
	case TypeClobLocator, TypeDBClobLocator, TypeXMLLocator:
		b, err := readAll(c.locator(buf, start))
		if err != nil {
			return nil, err
		}
		s, err := c.conv.Decode(b)
		if err != nil {
			return nil, err
		}
		return StringValue(s), nil
	}
	if c.conv != nil {
		s, err := c.decodeString(c.rawData(buf, start))
		if err != nil {
			return nil, err
		}
		return StringValue(s), nil
	}
	return nil, common.Internal("no decoder for " + c.desc.Type.Name())
}

// DecodeValue 返回列的自然值
func (c *Column) DecodeValue(buf []byte, rowOffset int) (Value, error) {
	return c.decode(buf, rowOffset)
}

func (c *Column) GetString(buf []byte, rowOffset int) (string, error) {
	switch c.desc.Type.Base() {
	case TypeDecFloat:
		start, err := c.field(buf, rowOffset)
		if err != nil {
			return "", err
		}
		return codec.DecodeDecFloat(buf, start, c.desc.Length)
	case TypeDecimal, TypeNumeric:
		v, err := c.decode(buf, rowOffset)
		if err != nil {
			return "", err
		}
		return v.(DecimalValue).StringFixed(int32(c.desc.Scale)), nil
	}
	v, err := c.decode(buf, rowOffset)
	if err != nil {
		return "", err
	}
	return valueToString(v)
}

func (c *Column) GetInt64(buf []byte, rowOffset int) (int64, error) {
	v, err := c.decode(buf, rowOffset)
	if err != nil {
		return 0, err
	}
	return valueToInteger(v, minLong, maxLong)
}

func (c *Column) GetInt32(buf []byte, rowOffset int) (int32, error) {
	v, err := c.decode(buf, rowOffset)
	if err != nil {
		return 0, err
	}
	n, err := valueToInteger(v, minInt, maxInt)
	return int32(n), err
}

func (c *Column) GetInt16(buf []byte, rowOffset int) (int16, error) {
	v, err := c.decode(buf, rowOffset)
	if err != nil {
		return 0, err
	}
	n, err := valueToInteger(v, minShort, maxShort)
	return int16(n), err
}

func (c *Column) GetByte(buf []byte, rowOffset int) (int8, error) {
	v, err := c.decode(buf, rowOffset)
	if err != nil {
		return 0, err
	}
	n, err := valueToInteger(v, minByte, maxByte)
	return int8(n), err
}

func (c *Column) GetFloat64(buf []byte, rowOffset int) (float64, error) {
	v, err := c.decode(buf, rowOffset)
	if err != nil {
		return 0, err
	}
	return valueToDouble(v)
}

func (c *Column) GetFloat32(buf []byte, rowOffset int) (float32, error) {
	v, err := c.decode(buf, rowOffset)
	if err != nil {
		return 0, err
	}
	return valueToFloat(v)
}

func (c *Column) GetBool(buf []byte, rowOffset int) (bool, error) {
	v, err := c.decode(buf, rowOffset)
	if err != nil {
		return false, err
	}
	return valueToBool(v)
}

func (c *Column) GetBigDecimal(buf []byte, rowOffset int) (decimal.Decimal, error) {
	v, err := c.decode(buf, rowOffset)
	if err != nil {
		return decimal.Zero, err
	}
	return valueToDecimal(v)
}

func (c *Column) location(loc *time.Location) *time.Location {
	if loc == nil {
		return c.opts.Location
	}
	return loc
}

// GetDate 线上的日期字段不带时区，按 loc 解释
func (c *Column) GetDate(buf []byte, rowOffset int, loc *time.Location) (time.Time, error) {
	return c.getTemporal(buf, rowOffset, KindDate, c.location(loc))
}

func (c *Column) GetTime(buf []byte, rowOffset int, loc *time.Location) (time.Time, error) {
	return c.getTemporal(buf, rowOffset, KindTime, c.location(loc))
}

func (c *Column) GetTimestamp(buf []byte, rowOffset int, loc *time.Location) (time.Time, error) {
	return c.getTemporal(buf, rowOffset, KindTimestamp, c.location(loc))
}

func (c *Column) getTemporal(buf []byte, rowOffset int, want Kind, loc *time.Location) (time.Time, error) {
	v, err := c.decode(buf, rowOffset)
	if err != nil {
		return time.Time{}, err
	}
	// 缓存的时间值是 UTC 下的字段，换到调用方的时区
	switch x := v.(type) {
	case DateValue:
		v = DateValue(inLocation(time.Time(x), loc))
	case TimeValue:
		v = TimeValue(inLocation(time.Time(x), loc))
	case TimestampValue:
		v = TimestampValue(inLocation(time.Time(x), loc))
	}
	return valueToTime(v, want, loc)
}

func inLocation(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	h, mi, s := t.Clock()
	return time.Date(y, m, d, h, mi, s, t.Nanosecond(), loc)
}

// GetBytes 二进制类型返回数据副本，字符类型返回未转换的原始字节
func (c *Column) GetBytes(buf []byte, rowOffset int) ([]byte, error) {
	t := c.desc.Type
	if t.IsCharacter() || t.IsGraphic() {
		start, err := c.field(buf, rowOffset)
		if err != nil {
			return nil, err
		}
		return append([]byte(nil), c.rawData(buf, start)...), nil
	}
	v, err := c.decode(buf, rowOffset)
	if err != nil {
		return nil, err
	}
	if _, ok := v.(BytesValue); !ok {
		return nil, mismatch(v, "bytes")
	}
	return valueToBytes(v)
}

func (c *Column) GetURL(buf []byte, rowOffset int) (*url.URL, error) {
	s, err := c.GetString(buf, rowOffset)
	if err != nil {
		return nil, err
	}
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return nil, common.Mismatch("not a URL: " + s)
	}
	return u, nil
}

// GetBlob 内联 LOB 和二进制列引用行缓冲，定位符按需取数
func (c *Column) GetBlob(buf []byte, rowOffset int) (lob.Blob, error) {
	start, err := c.field(buf, rowOffset)
	if err != nil {
		return nil, err
	}
	t := c.desc.Type
	switch {
	case t.Base() == TypeBlobLocator:
		return c.locator(buf, start), nil
	case t.IsBinary():
		from, n := start, c.desc.Length
		if t.prefixSize() > 0 {
			from, n = c.varData(buf, start)
		}
		return lob.NewInline(buf, from, n, c.desc.Length-t.prefixSize()), nil
	}
	return nil, common.Mismatch("cannot convert " + t.Name() + " to Blob")
}

func (c *Column) GetClob(buf []byte, rowOffset int) (*lob.Clob, error) {
	start, err := c.field(buf, rowOffset)
	if err != nil {
		return nil, err
	}
	t := c.desc.Type
	switch {
	case t.Base() == TypeClobLocator || t.Base() == TypeDBClobLocator || t.Base() == TypeXMLLocator:
		return lob.NewClob(c.locator(buf, start), c.conv), nil
	case t.IsCharacter() || t.IsGraphic():
		from, n := start, c.desc.Length
		if t.prefixSize() > 0 {
			from, n = c.varData(buf, start)
		}
		return lob.NewClob(lob.NewInline(buf, from, n, c.desc.Length-t.prefixSize()), c.conv), nil
	}
	return nil, common.Mismatch("cannot convert " + t.Name() + " to Clob")
}

// GetObject 返回与列类型对应的 Go 值，LOB 列返回句柄
func (c *Column) GetObject(buf []byte, rowOffset int) (interface{}, error) {
	switch c.desc.Type.Base() {
	case TypeBlob, TypeBlobLocator:
		return c.GetBlob(buf, rowOffset)
	case TypeClob, TypeDBClob, TypeXML, TypeClobLocator, TypeDBClobLocator, TypeXMLLocator:
		return c.GetClob(buf, rowOffset)
	case TypeDatalink:
		return c.GetURL(buf, rowOffset)
	case TypeDecFloat:
		s, err := c.GetString(buf, rowOffset)
		if err != nil {
			return nil, err
		}
		if d, err := decimal.NewFromString(s); err == nil {
			return d, nil
		}
		return s, nil
	}
	v, err := c.decode(buf, rowOffset)
	if err != nil {
		return nil, err
	}
	switch x := v.(type) {
	case StringValue:
		return string(x), nil
	case ShortValue:
		return int16(x), nil
	case IntValue:
		return int32(x), nil
	case LongValue:
		return int64(x), nil
	case FloatValue:
		return float32(x), nil
	case DoubleValue:
		return float64(x), nil
	case DecimalValue:
		return x.Decimal, nil
	case BoolValue:
		return bool(x), nil
	case DateValue:
		return inLocation(time.Time(x), c.opts.Location), nil
	case TimeValue:
		return inLocation(time.Time(x), c.opts.Location), nil
	case TimestampValue:
		return inLocation(time.Time(x), c.opts.Location), nil
	case BytesValue:
		return []byte(x), nil
	}
	return nil, common.Internal("unexpected decoded kind " + KindOf(v).String())
}
