package column

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zhukovaskychina/xdb2-client/server/codec"
	"github.com/zhukovaskychina/xdb2-client/server/common"
	"github.com/zhukovaskychina/xdb2-client/util"
)

// 整数目标类型的取值范围
const (
	minByte  = math.MinInt8
	maxByte  = math.MaxInt8
	minShort = math.MinInt16
	maxShort = math.MaxInt16
	minInt   = math.MinInt32
	maxInt   = math.MaxInt32
	minLong  = math.MinInt64
	maxLong  = math.MaxInt64
)

func mismatch(v Value, target string) error {
	return common.Mismatch(fmt.Sprintf("cannot convert %s to %s", KindOf(v), target))
}

func outOfRange(v interface{}, target string) error {
	return common.Mismatch(fmt.Sprintf("value %v out of range for %s", v, target))
}

func targetName(max int64) string {
	switch max {
	case maxByte:
		return "byte"
	case maxShort:
		return "short"
	case maxInt:
		return "int"
	}
	return "long"
}

// floatToInteger 截断前先和目标范围比较
func floatToInteger(f float64, min, max int64) (int64, error) {
	if math.IsNaN(f) || f < float64(min) {
		return 0, outOfRange(f, targetName(max))
	}
	if max == maxLong {
		// float64(MaxInt64) 舍入为 2^63
		if f >= math.MaxInt64 {
			return 0, outOfRange(f, targetName(max))
		}
	} else if f > float64(max) {
		return 0, outOfRange(f, targetName(max))
	}
	return int64(f), nil
}

func checkInteger(v, min, max int64) (int64, error) {
	if v < min || v > max {
		return 0, outOfRange(v, targetName(max))
	}
	return v, nil
}

// stringToInteger 小于 2^53 时走浮点路径，否则按数字串精确解析
func stringToInteger(s string, min, max int64) (int64, error) {
	f, err := codec.ParseDouble(s)
	if err != nil {
		return 0, err
	}
	if math.Abs(f) < codec.ExactLongThreshold {
		return floatToInteger(f, min, max)
	}
	v, err := codec.ParseLong(s)
	if err != nil {
		return 0, err
	}
	return checkInteger(v, min, max)
}

func valueToInteger(v Value, min, max int64) (int64, error) {
	switch x := v.(type) {
	case ByteValue:
		return checkInteger(int64(x), min, max)
	case ShortValue:
		return checkInteger(int64(x), min, max)
	case IntValue:
		return checkInteger(int64(x), min, max)
	case LongValue:
		return checkInteger(int64(x), min, max)
	case FloatValue:
		return floatToInteger(float64(x), min, max)
	case DoubleValue:
		return floatToInteger(float64(x), min, max)
	case DecimalValue:
		f, _ := x.Float64()
		return floatToInteger(f, min, max)
	case StringValue:
		return stringToInteger(string(x), min, max)
	case BoolValue:
		if x {
			return 1, nil
		}
		return 0, nil
	case BytesValue:
		if len(x) < 1 || len(x) > 8 {
			return 0, mismatch(v, targetName(max))
		}
		return checkInteger(util.ReadBigEndian(x), min, max)
	case ObjectValue:
		return stringToInteger(fmt.Sprint(x.V), min, max)
	}
	return 0, mismatch(v, targetName(max))
}

func valueToDouble(v Value) (float64, error) {
	switch x := v.(type) {
	case ByteValue:
		return float64(x), nil
	case ShortValue:
		return float64(x), nil
	case IntValue:
		return float64(x), nil
	case LongValue:
		return float64(x), nil
	case FloatValue:
		return float64(x), nil
	case DoubleValue:
		return float64(x), nil
	case DecimalValue:
		f, _ := x.Float64()
		return f, nil
	case StringValue:
		return codec.ParseDouble(string(x))
	case BoolValue:
		if x {
			return 1, nil
		}
		return 0, nil
	case ObjectValue:
		return codec.ParseDouble(fmt.Sprint(x.V))
	}
	return 0, mismatch(v, "double")
}

func valueToFloat(v Value) (float32, error) {
	f, err := valueToDouble(v)
	if err != nil {
		return 0, err
	}
	if !math.IsInf(f, 0) && math.Abs(f) > math.MaxFloat32 {
		return 0, outOfRange(f, "float")
	}
	return float32(f), nil
}

func parseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, common.Mismatch("not a number: " + s)
	}
	return d, nil
}

func valueToDecimal(v Value) (decimal.Decimal, error) {
	switch x := v.(type) {
	case ByteValue:
		return decimal.New(int64(x), 0), nil
	case ShortValue:
		return decimal.New(int64(x), 0), nil
	case IntValue:
		return decimal.New(int64(x), 0), nil
	case LongValue:
		return decimal.New(int64(x), 0), nil
	case FloatValue:
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Zero, outOfRange(f, "decimal")
		}
		return decimal.NewFromFloat32(float32(x)), nil
	case DoubleValue:
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Zero, outOfRange(f, "decimal")
		}
		return decimal.NewFromFloat(f), nil
	case DecimalValue:
		return x.Decimal, nil
	case StringValue:
		return parseDecimal(string(x))
	case BoolValue:
		if x {
			return decimal.New(1, 0), nil
		}
		return decimal.Zero, nil
	case ObjectValue:
		return parseDecimal(fmt.Sprint(x.V))
	}
	return decimal.Zero, mismatch(v, "decimal")
}

// decimalString 保留原有的小数位数
func decimalString(d decimal.Decimal) string {
	if exp := d.Exponent(); exp < 0 {
		return d.StringFixed(-exp)
	}
	return d.String()
}

func valueToString(v Value) (string, error) {
	switch x := v.(type) {
	case StringValue:
		return string(x), nil
	case ByteValue:
		return strconv.FormatInt(int64(x), 10), nil
	case ShortValue:
		return strconv.FormatInt(int64(x), 10), nil
	case IntValue:
		return strconv.FormatInt(int64(x), 10), nil
	case LongValue:
		return strconv.FormatInt(int64(x), 10), nil
	case FloatValue:
		return formatFloat(float64(x), 32), nil
	case DoubleValue:
		return formatFloat(float64(x), 64), nil
	case DecimalValue:
		return decimalString(x.Decimal), nil
	case BoolValue:
		if x {
			return "1", nil
		}
		return "0", nil
	case DateValue:
		return FormatDate(time.Time(x), DateISO, 1), nil
	case TimeValue:
		return FormatTime(time.Time(x), TimeJIS, 0), nil
	case TimestampValue:
		return FormatTimestamp(time.Time(x)), nil
	case BytesValue:
		return util.HexString(x), nil
	case URLValue:
		return x.URL.String(), nil
	case ObjectValue:
		return fmt.Sprint(x.V), nil
	case StreamValue:
		b, err := readStream(x)
		return string(b), err
	}
	return "", mismatch(v, "string")
}

func formatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'g', -1, bits)
}

func valueToBytes(v Value) ([]byte, error) {
	switch x := v.(type) {
	case BytesValue:
		return x, nil
	case StringValue:
		b, err := util.ParseHexString(string(x))
		if err != nil {
			return nil, common.Mismatch("not a hex string: " + string(x))
		}
		return b, nil
	case StreamValue:
		return readStream(x)
	}
	return nil, mismatch(v, "bytes")
}

func valueToBool(v Value) (bool, error) {
	switch x := v.(type) {
	case BoolValue:
		return bool(x), nil
	case StringValue:
		s := strings.TrimSpace(string(x))
		switch strings.ToLower(s) {
		case "true", "y", "yes":
			return true, nil
		case "false", "n", "no", "":
			return false, nil
		}
		f, err := codec.ParseDouble(s)
		if err != nil {
			return false, err
		}
		return f != 0, nil
	case DecimalValue:
		return !x.IsZero(), nil
	case ByteValue, ShortValue, IntValue, LongValue, FloatValue, DoubleValue:
		f, _ := valueToDouble(v)
		return f != 0, nil
	}
	return false, mismatch(v, "boolean")
}

// valueToTime want 为 KindDate、KindTime 或 KindTimestamp
func valueToTime(v Value, want Kind, loc *time.Location) (time.Time, error) {
	var t time.Time
	switch x := v.(type) {
	case DateValue:
		if want == KindTime {
			return t, mismatch(v, want.String())
		}
		t = time.Time(x)
	case TimeValue:
		if want == KindDate {
			return t, mismatch(v, want.String())
		}
		t = time.Time(x)
	case TimestampValue:
		t = time.Time(x)
	case StringValue:
		var err error
		if t, err = parseAny(string(x), want, loc); err != nil {
			return t, err
		}
	default:
		return t, mismatch(v, want.String())
	}
	t = t.In(loc)
	switch want {
	case KindDate:
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
	case KindTime:
		h, mi, s := t.Clock()
		return time.Date(1970, 1, 1, h, mi, s, 0, loc), nil
	}
	return t, nil
}

// parseAny 字符串按目标类型的 ISO 或 JIS 写法解析
func parseAny(s string, want Kind, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	switch want {
	case KindDate:
		if len(s) > 10 {
			return ParseTimestamp(s, loc)
		}
		return ParseDate(s, DateISO, loc)
	case KindTime:
		if len(s) > 8 {
			return ParseTimestamp(s, loc)
		}
		return ParseTime(s, TimeJIS, loc)
	}
	return ParseTimestamp(s, loc)
}

func readStream(s StreamValue) ([]byte, error) {
	if s.R == nil {
		return nil, common.Mismatch("nil stream")
	}
	var r io.Reader = s.R
	if s.Length >= 0 {
		r = io.LimitReader(s.R, int64(s.Length))
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, common.Internal(err.Error())
	}
	return b, nil
}
