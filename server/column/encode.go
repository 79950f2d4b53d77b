package column

import (
	"math"
	"strings"
	"time"

	"github.com/zhukovaskychina/xdb2-client/logger"
	"github.com/zhukovaskychina/xdb2-client/server/codec"
	"github.com/zhukovaskychina/xdb2-client/server/common"
	"github.com/zhukovaskychina/xdb2-client/server/lob"
	"github.com/zhukovaskychina/xdb2-client/util"
)

// EncodeInto 把当前值按列的线上格式写到 buf[rowOffset+Offset:]。NULL 不写任何字节，
// 由调用方设置指示符。值超出列容量时先写入截断后的前缀，再返回 *common.DataTruncation。
func (c *Column) EncodeInto(buf []byte, rowOffset int) error {
	start, err := c.field(buf, rowOffset)
	if err != nil {
		return err
	}
	if c.value == nil {
		return nil
	}
	err = c.encode(buf, start)
	if common.IsTruncation(err) {
		logger.Debugf("column %d (%s) truncated on encode: %v", c.index, c.desc.Type.Name(), err)
	}
	return err
}

func (c *Column) encode(buf []byte, start int) error {
	v := c.value
	t := c.desc.Type
	switch t.Base() {
	case TypeSmallInt, TypeInteger, TypeBigInt:
		return c.encodeInteger(buf, start)
	case TypeFloat:
		if c.desc.Length == 4 {
			f, err := valueToFloat(v)
			if err != nil {
				return err
			}
			util.PutFloat32(buf, start, f)
			return nil
		}
		f, err := valueToDouble(v)
		if err != nil {
			return err
		}
		util.PutFloat64(buf, start, f)
		return nil
	case TypeDecimal, TypeNumeric:
		d, err := valueToDecimal(v)
		if err != nil {
			return err
		}
		var tr *codec.Truncation
		if t.Base() == TypeDecimal {
			tr, err = codec.EncodePacked(buf, start, c.desc.Precision, c.desc.Scale, d)
		} else {
			tr, err = codec.EncodeZoned(buf, start, c.desc.Precision, c.desc.Scale, d)
		}
		if err != nil {
			return err
		}
		if tr != nil {
			return c.truncation(tr.DataSize, tr.TransferSize)
		}
		return nil
	case TypeDecFloat:
		s, err := decFloatString(v)
		if err != nil {
			return err
		}
		return codec.EncodeDecFloat(buf, start, c.desc.Length, s)
	case TypeBoolean:
		b, err := valueToBool(v)
		if err != nil {
			return err
		}
		buf[start] = util.ConvertBool2Byte(b)
		return nil
	case TypeDate, TypeTime, TypeTimestamp:
		return c.encodeTemporal(buf, start)
	case TypeBinary, TypeVarBinary, TypeRowID, TypeBlob:
		b, err := valueToBytes(v)
		if err != nil {
			return err
		}
		return c.putField(buf, start, b, 1, []byte{0x00}, nil)
	case TypeBlobLocator, TypeClobLocator, TypeDBClobLocator, TypeXMLLocator:
		return c.encodeLocator(buf, start)
	}
	if c.conv == nil {
		return common.Internal("no encoder for " + t.Name())
	}
	s, err := valueToString(v)
	if err != nil {
		return err
	}
	if t.Base() == TypeChar && strings.ContainsRune(s, 0) {
		return common.Mismatch("NUL in character value")
	}
	b, err := c.conv.Encode(s)
	if err != nil {
		return common.Mismatch(err.Error())
	}
	unit := 1
	if t.IsGraphic() {
		unit = 2
	}
	return c.putField(buf, start, b, unit, c.conv.Blank(), c.conv)
}

// putField 写入定长或变长字段。unit 为每个长度单位的字节数，截断信息按该单位计数。
// conv 不为空时截断点退到完整字符边界。
func (c *Column) putField(buf []byte, start int, data []byte, unit int, pad []byte, conv codec.Converter) error {
	prefix := c.desc.Type.prefixSize()
	room := c.desc.Length - prefix
	room -= room % unit
	n := len(data)
	if n > room {
		n = room
		if conv != nil {
			n = conv.Fit(data, room)
		}
	}
	n -= n % unit
	copy(buf[start+prefix:], data[:n])
	if prefix == 0 {
		util.FillBytes(buf, start+n, start+c.desc.Length, pad)
	} else {
		count := n / unit
		if prefix == 2 {
			util.PutUB2(buf, start, uint16(count))
		} else {
			util.PutUB4(buf, start, uint32(count))
		}
	}
	if n < len(data) {
		return c.truncation(len(data)/unit, n/unit)
	}
	return nil
}

func (c *Column) encodeInteger(buf []byte, start int) error {
	var min, max int64
	switch c.desc.Type.Base() {
	case TypeSmallInt:
		min, max = minShort, maxShort
	case TypeInteger:
		min, max = minInt, maxInt
	default:
		min, max = minLong, maxLong
	}
	var n int64
	if c.desc.Scale > 0 {
		d, err := valueToDecimal(c.value)
		if err != nil {
			return err
		}
		shifted := d.Shift(int32(c.desc.Scale))
		whole := shifted.Truncate(0)
		if !whole.BigInt().IsInt64() {
			return outOfRange(d, targetName(max))
		}
		if n, err = checkInteger(whole.IntPart(), min, max); err != nil {
			return err
		}
		c.putInteger(buf, start, n)
		if !whole.Equal(shifted) {
			digits := strings.Replace(shifted.Abs().String(), ".", "", 1)
			return c.truncation(len(digits), len(whole.Abs().String()))
		}
		return nil
	}
	n, err := valueToInteger(c.value, min, max)
	if err != nil {
		return err
	}
	c.putInteger(buf, start, n)
	return nil
}

func (c *Column) putInteger(buf []byte, start int, n int64) {
	switch c.desc.Type.Base() {
	case TypeSmallInt:
		util.PutInt16(buf, start, int16(n))
	case TypeInteger:
		util.PutInt32(buf, start, int32(n))
	default:
		util.PutInt64(buf, start, n)
	}
}

func decFloatString(v Value) (string, error) {
	switch x := v.(type) {
	case DoubleValue:
		return formatFloat(float64(x), 64), nil
	case FloatValue:
		return formatFloat(float64(x), 32), nil
	case DecimalValue:
		return x.String(), nil
	case StringValue:
		return strings.TrimSpace(string(x)), nil
	}
	d, err := valueToDecimal(v)
	if err != nil {
		return "", err
	}
	return d.String(), nil
}

func (c *Column) encodeTemporal(buf []byte, start int) error {
	loc := c.opts.Location
	var s string
	switch c.desc.Type.Base() {
	case TypeDate:
		t, err := valueToTime(c.value, KindDate, loc)
		if err != nil {
			return err
		}
		s = FormatDate(t, c.opts.DateFormat, c.opts.DateSeparator)
	case TypeTime:
		t, err := valueToTime(c.value, KindTime, loc)
		if err != nil {
			return err
		}
		s = FormatTime(t, c.opts.TimeFormat, c.opts.TimeSeparator)
	default:
		t, err := valueToTime(c.value, KindTimestamp, loc)
		if err != nil {
			return err
		}
		s = FormatTimestampWire(t)
	}
	b, err := c.conv.Encode(s)
	if err != nil {
		return common.Mismatch(err.Error())
	}
	return c.putField(buf, start, b, 1, c.conv.Blank(), c.conv)
}

// encodeLocator 参数只能传已有的定位符句柄
func (c *Column) encodeLocator(buf []byte, start int) error {
	switch x := c.value.(type) {
	case IntValue:
		util.PutInt32(buf, start, int32(x))
		return nil
	case LongValue:
		if x < math.MinInt32 || x > math.MaxInt32 {
			return outOfRange(int64(x), "locator")
		}
		util.PutInt32(buf, start, int32(x))
		return nil
	case ObjectValue:
		if l, ok := x.V.(*lob.Locator); ok {
			util.PutInt32(buf, start, l.Handle())
			return nil
		}
	}
	return common.NotSupported("writing " + KindOf(c.value).String() + " through a LOB locator")
}

// SetTime 便于按类型设置时间值
func (c *Column) SetTime(t time.Time) {
	switch c.desc.Type.Base() {
	case TypeDate:
		c.value = DateValue(t)
	case TypeTime:
		c.value = TimeValue(t)
	default:
		c.value = TimestampValue(t)
	}
}
