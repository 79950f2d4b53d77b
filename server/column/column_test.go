package column

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhukovaskychina/xdb2-client/server/codec"
	"github.com/zhukovaskychina/xdb2-client/server/common"
	"github.com/zhukovaskychina/xdb2-client/server/lob"
)

// testOptions 时间值按 UTC 编解码，结果不依赖运行环境的时区
func testOptions() Options {
	opts := DefaultOptions()
	opts.Location = time.UTC
	return opts
}

func describe(t *testing.T, opts Options, d Description) *Column {
	t.Helper()
	c := NewColumn(1, true, opts)
	require.NoError(t, c.Describe(d))
	return c
}

func ebcdic(t *testing.T, b []byte) string {
	t.Helper()
	conv, err := codec.ConverterFor(codec.CCSIDEbcdicUS)
	require.NoError(t, err)
	s, err := conv.Decode(b)
	require.NoError(t, err)
	return s
}

func TestDescribe(t *testing.T) {
	t.Run("remap no conversion CCSID", func(t *testing.T) {
		for _, tc := range []struct {
			in, out SQLType
		}{
			{TypeVarchar | 1, TypeVarBinary | 1},
			{TypeChar, TypeBinary},
			{TypeLongVarchar, TypeVarBinary},
			{TypeBlob, TypeBlob},
		} {
			c := describe(t, testOptions(), Description{Type: tc.in, Length: 12, CCSID: codec.CCSIDNoConversion})
			assert.Equal(t, tc.out, c.Type())
			assert.Equal(t, 12, c.Length())
		}
	})

	t.Run("for bit data", func(t *testing.T) {
		c := describe(t, testOptions(), Description{Type: TypeChar, Length: 4, CCSID: 37, ForBitData: true})
		assert.Equal(t, TypeBinary, c.Type())
	})

	t.Run("only once", func(t *testing.T) {
		c := describe(t, testOptions(), Description{Type: TypeInteger, Length: 4})
		err := c.Describe(Description{Type: TypeSmallInt, Length: 2})
		assert.True(t, common.IsInternal(err))
		assert.Equal(t, TypeInteger, c.Type())
	})

	t.Run("unknown type", func(t *testing.T) {
		err := NewColumn(1, false, testOptions()).Describe(Description{Type: 100, Length: 4})
		assert.True(t, common.IsInternal(err))
	})

	t.Run("length inconsistent with type", func(t *testing.T) {
		for name, d := range map[string]Description{
			"zero length":     {Type: TypeChar, Length: 0, CCSID: 37},
			"no room prefix":  {Type: TypeVarchar, Length: 1, CCSID: 37},
			"lob prefix":      {Type: TypeBlob, Length: 3},
			"smallint":        {Type: TypeSmallInt, Length: 4},
			"integer":         {Type: TypeInteger, Length: 2},
			"bigint":          {Type: TypeBigInt, Length: 4},
			"float":           {Type: TypeFloat, Length: 6},
			"decfloat":        {Type: TypeDecFloat, Length: 12},
			"boolean":         {Type: TypeBoolean, Length: 0},
			"wide boolean":    {Type: TypeBoolean, Length: 2},
			"locator":         {Type: TypeClobLocator, Length: 8, CCSID: 37},
			"packed too long": {Type: TypeDecimal, Length: 2, Precision: 9},
			"packed no digit": {Type: TypeDecimal, Length: 3},
			"zoned too long":  {Type: TypeNumeric, Length: 3, Precision: 5},
		} {
			t.Run(name, func(t *testing.T) {
				c := NewColumn(1, false, testOptions())
				err := c.Describe(d)
				assert.True(t, common.IsInternal(err), "%v", err)
				assert.False(t, c.Described())
			})
		}
	})

	t.Run("rejected metadata never reaches the buffer", func(t *testing.T) {
		c := NewColumn(1, false, testOptions())
		require.Error(t, c.Describe(Description{Type: TypeDecimal, Length: 2, Precision: 9}))
		assert.NotPanics(t, func() {
			c.SetValue(IntValue(1))
			err := c.EncodeInto(make([]byte, 2), 0)
			assert.True(t, common.IsInternal(err))
		})

		b := NewColumn(2, false, testOptions())
		require.Error(t, b.Describe(Description{Type: TypeBoolean}))
		assert.NotPanics(t, func() {
			_, err := b.GetBool([]byte{}, 0)
			assert.True(t, common.IsInternal(err))
		})
	})

	t.Run("unsupported CCSID", func(t *testing.T) {
		err := NewColumn(1, false, testOptions()).Describe(Description{Type: TypeVarchar, Length: 10, CCSID: 290})
		assert.True(t, common.IsDataTypeMismatch(err))
	})

	t.Run("not described", func(t *testing.T) {
		_, err := NewColumn(1, false, testOptions()).GetString(make([]byte, 10), 0)
		assert.True(t, common.IsInternal(err))
	})
}

func TestDeclaredLength(t *testing.T) {
	cases := []struct {
		typ       SQLType
		length    int
		precision int
		want      int
	}{
		{TypeVarchar, 12, 0, 10},
		{TypeVarBinary, 12, 0, 10},
		{TypeDatalink, 202, 0, 200},
		{TypeLongVarchar, 32002, 0, 32000},
		{TypeRowID, 42, 0, 40},
		{TypeVarGraphic, 22, 0, 10},
		{TypeLongVarGraphic, 102, 0, 50},
		{TypeBlob, 1004, 0, 1000},
		{TypeClob, 1004, 0, 1000},
		{TypeDBClob, 1004, 0, 500},
		{TypeGraphic, 20, 0, 10},
		{TypeDecimal, 6, 11, 11},
		{TypeNumeric, 11, 11, 11},
		{TypeBlobLocator, 4, 0, 1 << 20},
		{TypeClobLocator | 1, 4, 0, 1 << 20},
		{TypeTimestamp, 26, 0, 26},
		{TypeTime, 8, 0, 8},
		{TypeDate, 10, 0, 10},
		{TypeDecFloat, 8, 0, 16},
		{TypeDecFloat, 16, 0, 34},
		{TypeInteger, 4, 0, 4},
		{TypeChar, 7, 0, 7},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DeclaredLength(tc.typ, tc.length, tc.precision, 1<<20), tc.typ.Name())
	}
	assert.Equal(t, "VARCHAR", (TypeVarchar | 1).Name())
	assert.True(t, (TypeVarchar | 1).Nullable())
	assert.Equal(t, TypeVarchar, (TypeVarchar | 1).Base())
}

func TestSetValue(t *testing.T) {
	c := NewColumn(1, true, testOptions())
	assert.True(t, c.IsNull())
	assert.Equal(t, KindNull, c.ActiveKind())

	c.SetValue(IntValue(5))
	assert.Equal(t, KindInt, c.ActiveKind())
	assert.False(t, c.IsNull())

	c.SetValue(StringValue("x"))
	assert.Equal(t, KindString, c.ActiveKind())
	assert.Equal(t, StringValue("x"), c.Value())

	c.SetValue(FromAny(nil))
	assert.True(t, c.IsNull())

	assert.Equal(t, KindDecimal, FromAny(decimal.New(1, 0)).Kind())
	assert.Equal(t, KindTimestamp, FromAny(time.Now()).Kind())
	assert.Equal(t, KindObject, FromAny(struct{}{}).Kind())
}

func TestNullEncodeWritesNothing(t *testing.T) {
	c := describe(t, testOptions(), Description{Type: TypeInteger | 1, Length: 4})
	buf := []byte{0xAA, 0xBB, 0xCC, 0xDD}
	c.SetValue(nil)
	require.NoError(t, c.EncodeInto(buf, 0))
	assert.Equal(t, []byte{0xAA, 0xBB, 0xCC, 0xDD}, buf)
}

func TestVarcharTruncation(t *testing.T) {
	c := describe(t, testOptions(), Description{Type: TypeVarchar, Length: 12, CCSID: 37, Offset: 2})
	buf := make([]byte, 20)
	c.SetValue(StringValue("ABCDEFGHIJK"))

	err := c.EncodeInto(buf, 0)
	tr, ok := common.AsTruncation(err)
	require.True(t, ok)
	assert.Equal(t, 11, tr.DataSize)
	assert.Equal(t, 10, tr.TransferSize)
	assert.True(t, tr.Parameter)
	assert.Equal(t, 1, tr.Index)
	assert.Equal(t, []byte{0x00, 0x0A}, buf[2:4])

	s, err := c.GetString(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "ABCDEFGHIJ", s)

	c.SetValue(StringValue("ABCDEFGHIJ"))
	assert.NoError(t, c.EncodeInto(buf, 0))
}

func TestMultiByteTruncation(t *testing.T) {
	cases := []struct {
		name     string
		typ      SQLType
		length   int
		ccsid    int
		value    string
		data     int
		transfer int
		prefix   []byte
		want     string
	}{
		{"utf-8 varchar", TypeVarchar, 6, codec.CCSIDUTF8, "aé€x", 7, 3, []byte{0x00, 0x03}, "aé"},
		{"utf-8 char", TypeChar, 4, codec.CCSIDUTF8, "aé€x", 7, 3, nil, "aé "},
		{"gbk", TypeVarchar, 5, codec.CCSIDGBK, "中文", 4, 2, []byte{0x00, 0x02}, "中"},
		{"gb18030 four byte", TypeVarchar, 6, codec.CCSIDGB18030, "a😀", 5, 1, []byte{0x00, 0x01}, "a"},
		{"utf-16 surrogate pair", TypeVarGraphic, 6, codec.CCSIDUTF16, "a😀", 3, 1, []byte{0x00, 0x01}, "a"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := describe(t, testOptions(), Description{Type: tc.typ, Length: tc.length, CCSID: tc.ccsid})
			buf := make([]byte, tc.length)
			c.SetValue(StringValue(tc.value))

			tr, ok := common.AsTruncation(c.EncodeInto(buf, 0))
			require.True(t, ok)
			assert.Equal(t, tc.data, tr.DataSize)
			assert.Equal(t, tc.transfer, tr.TransferSize)
			if tc.prefix != nil {
				assert.Equal(t, tc.prefix, buf[:2])
			}

			s, err := c.GetString(buf, 0)
			require.NoError(t, err)
			assert.Equal(t, tc.want, s)
		})
	}
}

func TestCharPadding(t *testing.T) {
	c := describe(t, testOptions(), Description{Type: TypeChar, Length: 5, CCSID: 37})
	buf := make([]byte, 5)
	c.SetValue(StringValue("AB"))
	require.NoError(t, c.EncodeInto(buf, 0))
	assert.Equal(t, []byte{0xC1, 0xC2, 0x40, 0x40, 0x40}, buf)

	s, err := c.GetString(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "AB   ", s)

	raw, err := c.GetBytes(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, buf, raw)
}

func TestGraphic(t *testing.T) {
	c := describe(t, testOptions(), Description{Type: TypeVarGraphic, Length: 10, CCSID: codec.CCSIDUCS2})
	assert.Equal(t, 4, c.DeclaredLength())
	buf := make([]byte, 10)
	c.SetValue(StringValue("héllo"))
	tr, ok := common.AsTruncation(c.EncodeInto(buf, 0))
	require.True(t, ok)
	assert.Equal(t, 5, tr.DataSize)
	assert.Equal(t, 4, tr.TransferSize)
	assert.Equal(t, []byte{0x00, 0x04}, buf[:2])

	s, err := c.GetString(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "héll", s)

	g := describe(t, testOptions(), Description{Type: TypeGraphic, Length: 6, CCSID: codec.CCSIDUCS2})
	gbuf := make([]byte, 6)
	g.SetValue(StringValue("A"))
	require.NoError(t, g.EncodeInto(gbuf, 0))
	assert.Equal(t, []byte{0x00, 0x41, 0x00, 0x20, 0x00, 0x20}, gbuf)
}

func TestNumericNarrowing(t *testing.T) {
	short := describe(t, testOptions(), Description{Type: TypeSmallInt, Length: 2})
	buf := make([]byte, 2)

	short.SetValue(DoubleValue(40000.0))
	assert.True(t, common.IsDataTypeMismatch(short.EncodeInto(buf, 0)))

	short.SetValue(DoubleValue(100.0))
	require.NoError(t, short.EncodeInto(buf, 0))
	v, err := short.GetInt16(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, int16(100), v)

	dbl := describe(t, testOptions(), Description{Type: TypeFloat, Length: 8})
	dbuf := make([]byte, 8)
	dbl.SetValue(DoubleValue(40000.0))
	require.NoError(t, dbl.EncodeInto(dbuf, 0))
	_, err = dbl.GetInt16(dbuf, 0)
	assert.True(t, common.IsDataTypeMismatch(err))
	n, err := dbl.GetInt32(dbuf, 0)
	require.NoError(t, err)
	assert.Equal(t, int32(40000), n)
	_, err = dbl.GetByte(dbuf, 0)
	assert.True(t, common.IsDataTypeMismatch(err))
	_, err = dbl.GetDate(dbuf, 0, nil)
	assert.True(t, common.IsDataTypeMismatch(err))

	dbl.SetValue(DoubleValue(math.Pow(2, 63)))
	require.NoError(t, dbl.EncodeInto(dbuf, 0))
	_, err = dbl.GetInt64(dbuf, 0)
	assert.True(t, common.IsDataTypeMismatch(err))
}

func TestStringToInteger(t *testing.T) {
	c := describe(t, testOptions(), Description{Type: TypeVarchar, Length: 42, CCSID: 37})
	buf := make([]byte, 42)
	set := func(s string) {
		c.SetValue(StringValue(s))
		require.NoError(t, c.EncodeInto(buf, 0))
	}

	set("12.7")
	n, err := c.GetInt32(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, int32(12), n)

	set("32767.5")
	_, err = c.GetInt16(buf, 0)
	assert.True(t, common.IsDataTypeMismatch(err))

	set("9007199254740993")
	l, err := c.GetInt64(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(9007199254740993), l)

	set("9007199254740993.00")
	l, err = c.GetInt64(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(9007199254740993), l)

	set("9223372036854775808")
	_, err = c.GetInt64(buf, 0)
	assert.True(t, common.IsDataTypeMismatch(err))

	set("abc")
	_, err = c.GetInt32(buf, 0)
	assert.True(t, common.IsDataTypeMismatch(err))
	_, err = c.GetFloat64(buf, 0)
	assert.True(t, common.IsDataTypeMismatch(err))

	set("2023-03-05")
	d, err := c.GetDate(buf, 0, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 3, 5, 0, 0, 0, 0, time.UTC), d)
}

func TestPackedColumn(t *testing.T) {
	c := describe(t, testOptions(), Description{Type: TypeDecimal, Length: 3, Precision: 5, Scale: 2})
	buf := make([]byte, 3)

	c.SetValue(StringValue("123.45"))
	require.NoError(t, c.EncodeInto(buf, 0))
	assert.Equal(t, []byte{0x12, 0x34, 0x5F}, buf)

	s, err := c.GetString(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "123.45", s)

	n, err := c.GetInt32(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, int32(123), n)

	f, err := c.GetFloat64(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, 123.45, f)

	_, err = c.GetTimestamp(buf, 0, nil)
	assert.True(t, common.IsDataTypeMismatch(err))

	c.SetValue(IntValue(7))
	require.NoError(t, c.EncodeInto(buf, 0))
	s, _ = c.GetString(buf, 0)
	assert.Equal(t, "7.00", s)

	c.SetValue(StringValue("1234.5"))
	assert.True(t, common.IsTruncation(c.EncodeInto(buf, 0)))

	obj, err := c.GetObject(buf, 0)
	require.NoError(t, err)
	assert.IsType(t, decimal.Decimal{}, obj)
}

func TestZonedColumn(t *testing.T) {
	c := describe(t, testOptions(), Description{Type: TypeNumeric, Length: 4, Precision: 4, Scale: 1})
	buf := make([]byte, 4)
	c.SetValue(DecimalValue{decimal.RequireFromString("-12.5")})
	require.NoError(t, c.EncodeInto(buf, 0))
	assert.Equal(t, []byte{0xF0, 0xF1, 0xF2, 0xD5}, buf)

	d, err := c.GetBigDecimal(buf, 0)
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.RequireFromString("-12.5")))
	s, _ := c.GetString(buf, 0)
	assert.Equal(t, "-12.5", s)
}

func TestScaledInteger(t *testing.T) {
	c := describe(t, testOptions(), Description{Type: TypeInteger, Length: 4, Scale: 2})
	buf := make([]byte, 4)
	c.SetValue(StringValue("123.456"))
	assert.True(t, common.IsTruncation(c.EncodeInto(buf, 0)))
	assert.Equal(t, []byte{0x00, 0x00, 0x30, 0x39}, buf)

	s, err := c.GetString(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "123.45", s)
}

func TestTimestamp(t *testing.T) {
	c := describe(t, testOptions(), Description{Type: TypeTimestamp, Length: 26, CCSID: 37})
	buf := make([]byte, 26)
	c.SetValue(TimestampValue(time.Date(2023, 3, 5, 14, 7, 9, 123456000, time.UTC)))
	require.NoError(t, c.EncodeInto(buf, 0))
	assert.Equal(t, "2023-03-05-14.07.09.123456", ebcdic(t, buf))

	s, err := c.GetString(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "2023-03-05 14:07:09.123456", s)
	assert.Len(t, s, 26)

	ts, err := c.GetTimestamp(buf, 0, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 3, 5, 14, 7, 9, 123456000, time.UTC), ts)

	d, err := c.GetDate(buf, 0, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 3, 5, 0, 0, 0, 0, time.UTC), d)

	_, err = c.GetInt32(buf, 0)
	assert.True(t, common.IsDataTypeMismatch(err))
}

func TestDateAndTimeFormats(t *testing.T) {
	opts := testOptions()
	opts.DateFormat = DateUSA
	opts.TimeFormat = TimeUSA
	date := describe(t, opts, Description{Type: TypeDate, Length: 10, CCSID: 37})
	buf := make([]byte, 10)
	date.SetValue(DateValue(time.Date(2023, 3, 5, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, date.EncodeInto(buf, 0))
	assert.Equal(t, "03/05/2023", ebcdic(t, buf))
	s, err := date.GetString(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "2023-03-05", s)

	tm := describe(t, opts, Description{Type: TypeTime, Length: 8, CCSID: 37})
	tbuf := make([]byte, 8)
	tm.SetValue(StringValue("14:07:09"))
	require.NoError(t, tm.EncodeInto(tbuf, 0))
	assert.Equal(t, "02:07 PM", ebcdic(t, tbuf))
	got, err := tm.GetTime(tbuf, 0, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(1970, 1, 1, 14, 7, 0, 0, time.UTC), got)

	_, err = tm.GetDate(tbuf, 0, time.UTC)
	assert.True(t, common.IsDataTypeMismatch(err))
}

func TestVarBinary(t *testing.T) {
	c := describe(t, testOptions(), Description{Type: TypeVarBinary, Length: 10})
	buf := make([]byte, 10)
	c.SetValue(BytesValue{0x01, 0x02})
	require.NoError(t, c.EncodeInto(buf, 0))
	assert.Equal(t, []byte{0x00, 0x02, 0x01, 0x02}, buf[:4])

	s, err := c.GetString(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "0102", s)

	n, err := c.GetInt32(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, int32(258), n)

	_, err = c.GetFloat64(buf, 0)
	assert.True(t, common.IsDataTypeMismatch(err))
	_, err = c.GetDate(buf, 0, nil)
	assert.True(t, common.IsDataTypeMismatch(err))

	c.SetValue(StringValue("CAFE"))
	require.NoError(t, c.EncodeInto(buf, 0))
	b, err := c.GetBytes(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xCA, 0xFE}, b)

	c.SetValue(StringValue("xyz"))
	assert.True(t, common.IsDataTypeMismatch(c.EncodeInto(buf, 0)))

	blob, err := c.GetBlob(buf, 0)
	require.NoError(t, err)
	n64, _ := blob.Length()
	assert.Equal(t, int64(2), n64)
}

func TestBinaryZeroPadding(t *testing.T) {
	c := describe(t, testOptions(), Description{Type: TypeBinary, Length: 4})
	buf := []byte{9, 9, 9, 9}
	c.SetValue(BytesValue{0xAB})
	require.NoError(t, c.EncodeInto(buf, 0))
	assert.Equal(t, []byte{0xAB, 0, 0, 0}, buf)
}

func TestDecFloatColumn(t *testing.T) {
	c := describe(t, testOptions(), Description{Type: TypeDecFloat, Length: 8})
	assert.Equal(t, 16, c.DeclaredLength())
	buf := make([]byte, 8)

	c.SetValue(StringValue("-7.50"))
	require.NoError(t, c.EncodeInto(buf, 0))
	s, err := c.GetString(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "-7.50", s)
	f, err := c.GetFloat64(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, -7.5, f)

	c.SetValue(DoubleValue(math.Inf(1)))
	require.NoError(t, c.EncodeInto(buf, 0))
	s, _ = c.GetString(buf, 0)
	assert.Equal(t, "Infinity", s)
	f, err = c.GetFloat64(buf, 0)
	require.NoError(t, err)
	assert.True(t, math.IsInf(f, 1))
	_, err = c.GetBigDecimal(buf, 0)
	assert.True(t, common.IsDataTypeMismatch(err))
}

func TestBoolean(t *testing.T) {
	c := describe(t, testOptions(), Description{Type: TypeBoolean, Length: 1})
	buf := make([]byte, 1)
	c.SetValue(BoolValue(true))
	require.NoError(t, c.EncodeInto(buf, 0))
	assert.Equal(t, byte(1), buf[0])
	s, _ := c.GetString(buf, 0)
	assert.Equal(t, "1", s)

	c.SetValue(StringValue("false"))
	require.NoError(t, c.EncodeInto(buf, 0))
	b, err := c.GetBool(buf, 0)
	require.NoError(t, err)
	assert.False(t, b)

	c.SetValue(DateValue(time.Now()))
	assert.True(t, common.IsDataTypeMismatch(c.EncodeInto(buf, 0)))
}

func TestGetObject(t *testing.T) {
	c := describe(t, testOptions(), Description{Type: TypeInteger, Length: 4, Offset: 4})
	buf := make([]byte, 8)
	c.SetValue(LongValue(-3))
	require.NoError(t, c.EncodeInto(buf, 0))
	obj, err := c.GetObject(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, int32(-3), obj)

	_, err = c.GetObject(buf[:6], 0)
	assert.True(t, common.IsInternal(err))
}

type clobRetriever struct {
	data []byte
}

func (r clobRetriever) RetrieveLOBData(handle int32, offset int64, size int, cb lob.Callback) error {
	cb.NewLOBLength(int64(len(r.data)))
	if size > 0 {
		cb.NewLOBData(37, size)
		cb.NewLOBSegment(r.data, int(offset), size)
	}
	return nil
}

func TestClobLocator(t *testing.T) {
	opts := testOptions()
	opts.Retriever = clobRetriever{data: []byte{0xC8, 0xC5, 0xD3, 0xD3, 0xD6}}
	c := describe(t, opts, Description{Type: TypeClobLocator, Length: 4, CCSID: 37})
	buf := []byte{0, 0, 0, 42}

	s, err := c.GetString(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "HELLO", s)

	clob, err := c.GetClob(buf, 0)
	require.NoError(t, err)
	sub, err := clob.SubString(2, 3)
	require.NoError(t, err)
	assert.Equal(t, "ELL", sub)

	c.SetValue(IntValue(42))
	out := make([]byte, 4)
	require.NoError(t, c.EncodeInto(out, 0))
	assert.Equal(t, buf, out)

	c.SetValue(StringValue("data"))
	assert.True(t, common.IsNotSupported(c.EncodeInto(out, 0)))
}

func TestInlineClob(t *testing.T) {
	c := describe(t, testOptions(), Description{Type: TypeClob, Length: 12, CCSID: codec.CCSIDUTF8})
	buf := make([]byte, 12)
	c.SetValue(StringValue("hello"))
	require.NoError(t, c.EncodeInto(buf, 0))
	assert.Equal(t, []byte{0, 0, 0, 5}, buf[:4])

	obj, err := c.GetObject(buf, 0)
	require.NoError(t, err)
	clob, ok := obj.(*lob.Clob)
	require.True(t, ok)
	s, err := clob.String()
	require.NoError(t, err)
	assert.Equal(t, "hello", s)
}

func TestDatalink(t *testing.T) {
	c := describe(t, testOptions(), Description{Type: TypeDatalink, Length: 52, CCSID: 37})
	buf := make([]byte, 52)
	c.SetValue(StringValue("http://host/file.txt"))
	require.NoError(t, c.EncodeInto(buf, 0))
	u, err := c.GetURL(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "host", u.Host)
}

func TestStringCache(t *testing.T) {
	opts := testOptions()
	opts.StringCacheSize = 4
	c := describe(t, opts, Description{Type: TypeChar, Length: 3, CCSID: 37})
	buf := []byte{0xC1, 0xC2, 0xC3}
	for i := 0; i < 3; i++ {
		s, err := c.GetString(buf, 0)
		require.NoError(t, err)
		assert.Equal(t, "ABC", s)
	}
	hits, misses := c.CacheStats()
	assert.Equal(t, uint64(2), hits)
	assert.Equal(t, uint64(1), misses)

	c.InvalidateCaches()
	_, _ = c.GetString(buf, 0)
	_, misses = c.CacheStats()
	assert.Equal(t, uint64(2), misses)
}

func TestTypeByName(t *testing.T) {
	for name, want := range map[string]SQLType{
		"varchar":         TypeVarchar,
		"LONG  VARCHAR":   TypeLongVarchar,
		"BLOB":            TypeBlob,
		"blob locator":    TypeBlobLocator,
		"XML":             TypeXML,
		"double":          TypeFloat,
		"DECFLOAT":        TypeDecFloat,
		"long vargraphic": TypeLongVarGraphic,
	} {
		got, ok := TypeByName(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}
	_, ok := TypeByName("CURSOR")
	assert.False(t, ok)
}
