// Package resultset 在行缓存和列描述之上提供按列取值的游标。
// NULL 单元格返回零值，调用方用 WasNull 区分。
package resultset

import (
	"io"
	"net/url"
	"strings"
	"time"

	jerrors "github.com/juju/errors"
	"github.com/shopspring/decimal"

	"github.com/zhukovaskychina/xdb2-client/logger"
	"github.com/zhukovaskychina/xdb2-client/server/column"
	"github.com/zhukovaskychina/xdb2-client/server/common"
	"github.com/zhukovaskychina/xdb2-client/server/lob"
	"github.com/zhukovaskychina/xdb2-client/server/protocol"
	"github.com/zhukovaskychina/xdb2-client/server/rowcache"
)

// BatchSource 提供后续的块取结果，没有更多数据时返回 io.EOF
type BatchSource interface {
	ReadBatch() (*protocol.RowBatch, error)
}

type ResultSet struct {
	meta    *protocol.ResultMetadata
	cols    []*column.Column
	cache   *rowcache.RowCache
	source  BatchSource
	wasNull bool
	eof     bool
	closed  bool
	rows    int
}

// New source 为 nil 时只能通过 Load 装入数据
func New(meta *protocol.ResultMetadata, opts column.Options, source BatchSource) (*ResultSet, error) {
	cols, err := meta.Columns(opts, false)
	if err != nil {
		return nil, jerrors.Trace(err)
	}
	cache := rowcache.New()
	cache.Init(0, len(cols), meta.RowSize())
	return &ResultSet{meta: meta, cols: cols, cache: cache, source: source}, nil
}

func (rs *ResultSet) Metadata() *protocol.ResultMetadata {
	return rs.meta
}

func (rs *ResultSet) Columns() []*column.Column {
	return rs.cols
}

// Load 装入一批数据，游标回到批首之前
func (rs *ResultSet) Load(b *protocol.RowBatch) error {
	if b.RowSize != rs.meta.RowSize() || b.ColumnCount != len(rs.cols) {
		return common.Internal("batch layout does not match result metadata")
	}
	if err := b.Load(rs.cache); err != nil {
		return jerrors.Trace(err)
	}
	for _, c := range rs.cols {
		c.InvalidateCaches()
	}
	return nil
}

// Next 前进一行，当前批次读完后向 source 取下一批
func (rs *ResultSet) Next() (bool, error) {
	if rs.closed {
		return false, common.Internal("result set closed")
	}
	for {
		if rs.cache.Advance() < rs.cache.RowCount() {
			rs.rows++
			return true, nil
		}
		if rs.source == nil || rs.eof {
			return false, nil
		}
		b, err := rs.source.ReadBatch()
		if err == io.EOF {
			rs.eof = true
			return false, nil
		}
		if err != nil {
			return false, jerrors.Trace(err)
		}
		logger.Debugf("result set fetched %d rows", b.RowCount)
		if err := rs.Load(b); err != nil {
			return false, err
		}
	}
}

// RowNumber 已经读过的行数
func (rs *ResultSet) RowNumber() int {
	return rs.rows
}

func (rs *ResultSet) Close() {
	rs.closed = true
}

func (rs *ResultSet) WasNull() bool {
	return rs.wasNull
}

// FindColumn 按列名或标签查找，不区分大小写，返回从 1 开始的序号
func (rs *ResultSet) FindColumn(name string) (int, error) {
	for i, c := range rs.cols {
		if strings.EqualFold(c.Name(), name) || strings.EqualFold(c.Label(), name) {
			return i + 1, nil
		}
	}
	return 0, common.Mismatch("no column named " + name)
}

// cell 返回列、行缓冲和行偏移；单元格为 NULL 时 null 为 true
func (rs *ResultSet) cell(index int) (c *column.Column, buf []byte, off int, null bool, err error) {
	if rs.closed {
		return nil, nil, 0, false, common.Internal("result set closed")
	}
	if index < 1 || index > len(rs.cols) {
		return nil, nil, 0, false, common.DescriptorIndex(index, len(rs.cols))
	}
	if null, err = rs.cache.IsNull(index - 1); err != nil {
		return nil, nil, 0, false, err
	}
	rs.wasNull = null
	if off, err = rs.cache.RowOffset(); err != nil {
		return nil, nil, 0, false, err
	}
	return rs.cols[index-1], rs.cache.Buffer(), off, null, nil
}

func (rs *ResultSet) GetString(index int) (string, error) {
	c, buf, off, null, err := rs.cell(index)
	if err != nil || null {
		return "", err
	}
	return c.GetString(buf, off)
}

func (rs *ResultSet) GetInt64(index int) (int64, error) {
	c, buf, off, null, err := rs.cell(index)
	if err != nil || null {
		return 0, err
	}
	return c.GetInt64(buf, off)
}

func (rs *ResultSet) GetInt32(index int) (int32, error) {
	c, buf, off, null, err := rs.cell(index)
	if err != nil || null {
		return 0, err
	}
	return c.GetInt32(buf, off)
}

func (rs *ResultSet) GetInt16(index int) (int16, error) {
	c, buf, off, null, err := rs.cell(index)
	if err != nil || null {
		return 0, err
	}
	return c.GetInt16(buf, off)
}

func (rs *ResultSet) GetByte(index int) (int8, error) {
	c, buf, off, null, err := rs.cell(index)
	if err != nil || null {
		return 0, err
	}
	return c.GetByte(buf, off)
}

func (rs *ResultSet) GetFloat64(index int) (float64, error) {
	c, buf, off, null, err := rs.cell(index)
	if err != nil || null {
		return 0, err
	}
	return c.GetFloat64(buf, off)
}

func (rs *ResultSet) GetFloat32(index int) (float32, error) {
	c, buf, off, null, err := rs.cell(index)
	if err != nil || null {
		return 0, err
	}
	return c.GetFloat32(buf, off)
}

func (rs *ResultSet) GetBool(index int) (bool, error) {
	c, buf, off, null, err := rs.cell(index)
	if err != nil || null {
		return false, err
	}
	return c.GetBool(buf, off)
}

func (rs *ResultSet) GetBigDecimal(index int) (decimal.Decimal, error) {
	c, buf, off, null, err := rs.cell(index)
	if err != nil || null {
		return decimal.Zero, err
	}
	return c.GetBigDecimal(buf, off)
}

func (rs *ResultSet) GetDate(index int, loc *time.Location) (time.Time, error) {
	c, buf, off, null, err := rs.cell(index)
	if err != nil || null {
		return time.Time{}, err
	}
	return c.GetDate(buf, off, loc)
}

func (rs *ResultSet) GetTime(index int, loc *time.Location) (time.Time, error) {
	c, buf, off, null, err := rs.cell(index)
	if err != nil || null {
		return time.Time{}, err
	}
	return c.GetTime(buf, off, loc)
}

func (rs *ResultSet) GetTimestamp(index int, loc *time.Location) (time.Time, error) {
	c, buf, off, null, err := rs.cell(index)
	if err != nil || null {
		return time.Time{}, err
	}
	return c.GetTimestamp(buf, off, loc)
}

func (rs *ResultSet) GetBytes(index int) ([]byte, error) {
	c, buf, off, null, err := rs.cell(index)
	if err != nil || null {
		return nil, err
	}
	return c.GetBytes(buf, off)
}

func (rs *ResultSet) GetObject(index int) (interface{}, error) {
	c, buf, off, null, err := rs.cell(index)
	if err != nil || null {
		return nil, err
	}
	return c.GetObject(buf, off)
}

func (rs *ResultSet) GetBlob(index int) (lob.Blob, error) {
	c, buf, off, null, err := rs.cell(index)
	if err != nil || null {
		return nil, err
	}
	return c.GetBlob(buf, off)
}

func (rs *ResultSet) GetClob(index int) (*lob.Clob, error) {
	c, buf, off, null, err := rs.cell(index)
	if err != nil || null {
		return nil, err
	}
	return c.GetClob(buf, off)
}

func (rs *ResultSet) GetURL(index int) (*url.URL, error) {
	c, buf, off, null, err := rs.cell(index)
	if err != nil || null {
		return nil, err
	}
	return c.GetURL(buf, off)
}
