package protocol

import (
	jerrors "github.com/juju/errors"

	"github.com/zhukovaskychina/xdb2-client/server/common"
	"github.com/zhukovaskychina/xdb2-client/server/rowcache"
)

// IndicatorNull 指示符为负表示 NULL
const IndicatorNull int16 = -1

// RowBatch 一次块取的结果：定长行和每个单元格的 2 字节指示符
type RowBatch struct {
	RowCount    int
	ColumnCount int
	RowSize     int
	Indicators  []int16
	Rows        []byte
}

// NewResultData 对应块取的首个回调
func NewResultData(rowCount, columnCount, rowSize int) *RowBatch {
	return &RowBatch{
		RowCount:    rowCount,
		ColumnCount: columnCount,
		RowSize:     rowSize,
		Indicators:  make([]int16, rowCount*columnCount),
		Rows:        make([]byte, rowCount*rowSize),
	}
}

func (b *RowBatch) NewIndicator(row, col int, indicator int16) error {
	if row < 0 || row >= b.RowCount {
		return common.Internal("indicator row out of range")
	}
	if col < 0 || col >= b.ColumnCount {
		return common.DescriptorIndex(col+1, b.ColumnCount)
	}
	b.Indicators[row*b.ColumnCount+col] = indicator
	return nil
}

func (b *RowBatch) NewRowData(row int, raw []byte) error {
	if row < 0 || row >= b.RowCount {
		return common.Internal("row data index out of range")
	}
	copy(b.Rows[row*b.RowSize:(row+1)*b.RowSize], raw)
	return nil
}

func (b *RowBatch) Null(row, col int) bool {
	return b.Indicators[row*b.ColumnCount+col] < 0
}

// Row 第 row 行的数据，直接引用
func (b *RowBatch) Row(row int) []byte {
	return b.Rows[row*b.RowSize : (row+1)*b.RowSize]
}

func (b *RowBatch) validate() error {
	if b.RowCount < 0 || b.ColumnCount < 0 || b.RowSize < 0 {
		return common.Internal("negative batch dimension")
	}
	if len(b.Indicators) != b.RowCount*b.ColumnCount || len(b.Rows) != b.RowCount*b.RowSize {
		return common.Internal("batch buffers do not match dimensions")
	}
	return nil
}

// Load 把整批数据装入行缓存
func (b *RowBatch) Load(rc *rowcache.RowCache) error {
	if err := b.validate(); err != nil {
		return jerrors.Trace(err)
	}
	rc.Init(b.RowCount, b.ColumnCount, b.RowSize)
	for row := 0; row < b.RowCount; row++ {
		if err := rc.StoreRow(row, b.Row(row)); err != nil {
			return jerrors.Trace(err)
		}
		for col := 0; col < b.ColumnCount; col++ {
			if b.Null(row, col) {
				if err := rc.SetNull(row, col, true); err != nil {
					return jerrors.Trace(err)
				}
			}
		}
	}
	return nil
}
