package protocol

import (
	"bytes"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhukovaskychina/xdb2-client/server/column"
	"github.com/zhukovaskychina/xdb2-client/server/common"
	"github.com/zhukovaskychina/xdb2-client/server/rowcache"
	"github.com/zhukovaskychina/xdb2-client/util"
)

// testOptions 时间值按 UTC 编解码，结果不依赖运行环境的时区
func testOptions() column.Options {
	opts := column.DefaultOptions()
	opts.Location = time.UTC
	return opts
}

func buildMetadata(t *testing.T) *ResultMetadata {
	t.Helper()
	b := NewMetadataBuilder()
	b.Describe(3, column.DateISO, column.TimeISO, 1, 1, 0)
	require.NoError(t, b.FieldDescription(0, column.TypeInteger, 4, 0, 0, 0, 0, 0, 0))
	require.NoError(t, b.FieldName(0, "ID"))
	require.NoError(t, b.FieldDescription(1, column.TypeVarchar|1, 12, 0, 0, 37, 0, 0, 0))
	require.NoError(t, b.FieldName(1, "NAME"))
	require.NoError(t, b.FieldLabel(1, "Customer name"))
	require.NoError(t, b.FieldDescription(2, column.TypeDecimal|1, 3, 2, 5, 0, 0, 0, 0))
	require.NoError(t, b.FieldName(2, "AMOUNT"))
	require.NoError(t, b.FieldTable(2, "LIB", "ORDERS"))
	m, err := b.Build()
	require.NoError(t, err)
	return m
}

func TestMetadataBuilder(t *testing.T) {
	m := buildMetadata(t)
	assert.Equal(t, 3, m.ColumnCount())
	assert.Equal(t, 19, m.RowSize())
	assert.Equal(t, 4, m.Offset(1))
	assert.Equal(t, 16, m.Offset(2))

	f, err := m.Field(2)
	require.NoError(t, err)
	assert.Equal(t, "ORDERS", f.Table)
	_, err = m.Field(3)
	assert.True(t, common.IsDescriptorIndex(err))

	cols, err := m.Columns(testOptions(), false)
	require.NoError(t, err)
	require.Len(t, cols, 3)
	assert.Equal(t, "Customer name", cols[1].Label())
	assert.Equal(t, 10, cols[1].DeclaredLength())
	assert.Equal(t, 2, cols[1].Index())

	b := NewMetadataBuilder()
	assert.True(t, common.IsInternal(b.FieldName(0, "x")))
	b.Describe(1, 0, 0, 0, 0, 2)
	assert.True(t, common.IsDescriptorIndex(b.FieldName(1, "x")))
	require.NoError(t, b.FieldDescription(0, column.TypeInteger, 4, 0, 0, 0, 0, 0, 0))
	_, err = b.Build()
	assert.True(t, common.IsInternal(err))
}

func TestBatchLoad(t *testing.T) {
	b := NewResultData(2, 2, 4)
	require.NoError(t, b.NewRowData(0, []byte{0, 0, 0, 1}))
	require.NoError(t, b.NewRowData(1, []byte{0, 0, 0, 2}))
	require.NoError(t, b.NewIndicator(1, 1, IndicatorNull))
	assert.True(t, common.IsDescriptorIndex(b.NewIndicator(0, 2, 0)))
	assert.True(t, common.IsInternal(b.NewRowData(2, nil)))

	rc := rowcache.New()
	require.NoError(t, b.Load(rc))
	assert.Equal(t, 2, rc.RowCount())
	rc.Advance()
	rc.Advance()
	null, err := rc.IsNull(1)
	require.NoError(t, err)
	assert.True(t, null)
	row, _ := rc.Row()
	assert.Equal(t, []byte{0, 0, 0, 2}, row)
}

func TestSlotAllocator(t *testing.T) {
	a := NewSlotAllocator(1, 2)
	x, err := a.Acquire()
	require.NoError(t, err)
	y, err := a.Acquire()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, []int{x, y})
	_, err = a.Acquire()
	assert.True(t, common.IsInternal(err))

	require.NoError(t, a.Release(x))
	assert.True(t, common.IsInternal(a.Release(x)))
	z, err := a.Acquire()
	require.NoError(t, err)
	assert.Equal(t, x, z)

	big := NewSlotAllocator(0, 100)
	var wg sync.WaitGroup
	ids := make(chan int, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := big.Acquire()
			if err == nil {
				ids <- id
			}
		}()
	}
	wg.Wait()
	close(ids)
	seen := map[int]bool{}
	for id := range ids {
		assert.False(t, seen[id])
		seen[id] = true
	}
	assert.Len(t, seen, 100)
	assert.Equal(t, 100, big.InUse())
}

func TestParameterBlock(t *testing.T) {
	b := NewMetadataBuilder()
	b.Describe(2, column.DateISO, column.TimeISO, 1, 1, 0)
	require.NoError(t, b.FieldDescription(0, column.TypeSmallInt|1, 2, 0, 0, 0, 0, 0, 0))
	require.NoError(t, b.FieldDescription(1, column.TypeChar|1, 3, 0, 0, 37, 0, 0, 0))
	m, err := b.Build()
	require.NoError(t, err)

	p, err := NewParameterBlockFromMetadata(7, m, testOptions())
	require.NoError(t, err)
	require.NoError(t, p.Set(1, column.IntValue(5)))
	require.NoError(t, p.Set(2, nil))
	assert.True(t, common.IsDescriptorIndex(p.Set(3, nil)))

	out, err := p.Encode()
	require.NoError(t, err)
	assert.Equal(t, []byte{
		0, 0, 0, 7,
		0, 0, 0, 1,
		0, 2,
		0, 2,
		0, 0, 0, 5,
		0, 0, 0xFF, 0xFF,
		0, 5, 0, 0, 0,
	}, out)

	out, err = p.EncodeBatch([][]column.Value{
		{column.IntValue(1), column.StringValue("A")},
		{column.IntValue(2), column.StringValue("ABCD")},
	})
	tr, ok := common.AsTruncation(err)
	require.True(t, ok)
	assert.Equal(t, 2, tr.Index)
	assert.True(t, tr.Parameter)
	require.Len(t, out, ParameterHeaderSize+8+10)
	assert.Equal(t, []byte{0, 1, 0xC1, 0x40, 0x40, 0, 2, 0xC1, 0xC2, 0xC3}, out[ParameterHeaderSize+8:])

	_, err = p.EncodeBatch([][]column.Value{{column.StringValue("x"), nil}})
	assert.True(t, common.IsDataTypeMismatch(err))
}

func sampleBatch() *RowBatch {
	b := NewResultData(3, 2, 5)
	for i := 0; i < 3; i++ {
		_ = b.NewRowData(i, []byte{byte(i), 1, 2, 3, 4})
	}
	_ = b.NewIndicator(2, 0, IndicatorNull)
	return b
}

func TestCaptureRoundTrip(t *testing.T) {
	for _, c := range []CompressType{CompressNone, CompressSnappy, CompressLZ4} {
		t.Run(c.String(), func(t *testing.T) {
			var buf bytes.Buffer
			w, err := NewCaptureWriter(&buf, c)
			require.NoError(t, err)
			require.NoError(t, w.WriteBatch(sampleBatch()))
			require.NoError(t, w.WriteBatch(NewResultData(0, 2, 5)))
			require.NoError(t, w.Close())

			r, err := NewCaptureReader(&buf)
			require.NoError(t, err)
			assert.Equal(t, c, r.Compression())
			got, err := r.ReadBatch()
			require.NoError(t, err)
			assert.Equal(t, sampleBatch(), got)
			empty, err := r.ReadBatch()
			require.NoError(t, err)
			assert.Equal(t, 0, empty.RowCount)
			_, err = r.ReadBatch()
			assert.Equal(t, io.EOF, err)
		})
	}
}

func TestCaptureCorruptHeader(t *testing.T) {
	forged := func(rows uint32, cols uint16, rowSize uint32) *bytes.Reader {
		data := append(append([]byte(nil), captureMagic...), byte(CompressNone))
		data = util.WriteUB4(data, rows)
		data = util.WriteUB2(data, cols)
		data = util.WriteUB4(data, rowSize)
		return bytes.NewReader(data)
	}
	for name, in := range map[string]*bytes.Reader{
		"huge rows":       forged(0xFFFFFFFF, 1, 0xFFFFFFFF),
		"huge indicators": forged(0xFFFFFFFF, 0xFFFF, 0),
		"just over limit": forged(1, 0, MaxCaptureBatchBytes+1),
	} {
		t.Run(name, func(t *testing.T) {
			r, err := NewCaptureReader(in)
			require.NoError(t, err)
			_, err = r.ReadBatch()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "exceeds")
		})
	}

	t.Run("within limit but short", func(t *testing.T) {
		r, err := NewCaptureReader(forged(2, 1, 8))
		require.NoError(t, err)
		_, err = r.ReadBatch()
		require.Error(t, err)
		assert.NotContains(t, err.Error(), "exceeds")
	})
}

func TestCaptureFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "rows.cap")
	w, err := CreateCaptureFile(path, CompressSnappy)
	require.NoError(t, err)
	require.NoError(t, w.WriteBatch(sampleBatch()))
	require.NoError(t, w.Close())

	r, err := OpenCaptureFile(path)
	require.NoError(t, err)
	defer r.Close()
	got, err := r.ReadBatch()
	require.NoError(t, err)
	assert.True(t, got.Null(2, 0))

	_, err = NewCaptureReader(bytes.NewReader([]byte("not a capture")))
	assert.Error(t, err)

	_, err = ParseCompressType("zip")
	assert.Error(t, err)
	ct, err := ParseCompressType("LZ4")
	require.NoError(t, err)
	assert.Equal(t, CompressLZ4, ct)
}

const layout = `
date_format = "usa"
time_format = "jis"
date_separator = "/"
time_separator = ":"

[[column]]
name = "ID"
type = "integer"

[[column]]
name = "NAME"
type = "varchar"
nullable = true
length = 22
ccsid = 37

[[column]]
name = "PRICE"
type_code = 485
precision = 7
scale = 2

[[column]]
name = "DOC"
type = "clob locator"
ccsid = 1208
lob_max_size = 1048576
`

func TestParseLayout(t *testing.T) {
	m, err := ParseLayout([]byte(layout))
	require.NoError(t, err)
	assert.Equal(t, 4, m.ColumnCount())
	assert.Equal(t, column.DateUSA, m.DateFormat())
	assert.Equal(t, column.TimeJIS, m.TimeFormat())
	assert.Equal(t, 4+22+4+4, m.RowSize())

	f, _ := m.Field(2)
	assert.Equal(t, column.TypeDecimal|1, f.Type)
	assert.Equal(t, 4, f.Length)

	cols, err := m.Columns(testOptions(), false)
	require.NoError(t, err)
	assert.Equal(t, 1048576, cols[3].DeclaredLength())

	_, err = ParseLayout([]byte("[[column]]\ntype = \"CURSOR\"\n"))
	assert.Error(t, err)
	_, err = ParseLayout([]byte("date_format = \"xyz\"\n"))
	assert.Error(t, err)
}
