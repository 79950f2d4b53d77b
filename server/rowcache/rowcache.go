// Package rowcache 保存一次块取得到的定长行及其空值标记。
// 单游标、单线程使用，不加锁。
package rowcache

import (
	"github.com/zhukovaskychina/xdb2-client/logger"
	"github.com/zhukovaskychina/xdb2-client/server/common"
)

// RowCache 一批定长行的扁平缓冲
type RowCache struct {
	rowCount    int
	columnCount int
	rowSize     int

	rows  []byte
	nulls []bool

	// cursor 始终在 [-1, rowCount) 内，越过最后一行后置 done
	cursor int
	done   bool
}

func New() *RowCache {
	return &RowCache{cursor: -1}
}

// Init 按新的批次大小重置，容量不足时才重新分配，游标回到第一行之前
func (rc *RowCache) Init(rowCount, columnCount, rowSize int) {
	need := rowCount * rowSize
	if cap(rc.rows) < need {
		logger.Debugf("row cache grow rows %d -> %d bytes", cap(rc.rows), need)
		rc.rows = make([]byte, need)
	} else {
		rc.rows = rc.rows[:need]
	}
	cells := rowCount * columnCount
	if cap(rc.nulls) < cells {
		rc.nulls = make([]bool, cells)
	} else {
		rc.nulls = rc.nulls[:cells]
		for i := range rc.nulls {
			rc.nulls[i] = false
		}
	}
	rc.rowCount = rowCount
	rc.columnCount = columnCount
	rc.rowSize = rowSize
	rc.cursor = -1
	rc.done = false
}

func (rc *RowCache) RowCount() int {
	return rc.rowCount
}

func (rc *RowCache) ColumnCount() int {
	return rc.columnCount
}

func (rc *RowCache) RowSize() int {
	return rc.rowSize
}

// Capacity 行缓冲的字节容量
func (rc *RowCache) Capacity() int {
	return cap(rc.rows)
}

// Advance 游标前移一行，返回新位置；返回 RowCount 表示本批结束
func (rc *RowCache) Advance() int {
	if rc.cursor+1 < rc.rowCount {
		rc.cursor++
		return rc.cursor
	}
	rc.done = true
	return rc.rowCount
}

// Cursor 当前行，-1 表示第一行之前
func (rc *RowCache) Cursor() int {
	return rc.cursor
}

// Valid 游标是否指向一行
func (rc *RowCache) Valid() bool {
	return !rc.done && rc.cursor >= 0
}

func (rc *RowCache) checkRow(row int) error {
	if row < 0 || row >= rc.rowCount {
		return common.Internal("row index out of range")
	}
	return nil
}

// StoreRow 复制一行数据，多余的字节被忽略，不足部分补 0
func (rc *RowCache) StoreRow(row int, data []byte) error {
	if err := rc.checkRow(row); err != nil {
		return err
	}
	dst := rc.rows[row*rc.rowSize : (row+1)*rc.rowSize]
	n := copy(dst, data)
	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
	return nil
}

// SetNull column 从 0 开始
func (rc *RowCache) SetNull(row, column int, null bool) error {
	if err := rc.checkRow(row); err != nil {
		return err
	}
	if column < 0 || column >= rc.columnCount {
		return common.DescriptorIndex(column+1, rc.columnCount)
	}
	rc.nulls[row*rc.columnCount+column] = null
	return nil
}

// IsNull 读取当前行的空值标记，column 从 0 开始
func (rc *RowCache) IsNull(column int) (bool, error) {
	if column < 0 || column >= rc.columnCount {
		return false, common.DescriptorIndex(column+1, rc.columnCount)
	}
	if !rc.Valid() {
		return false, common.Internal("no current row")
	}
	return rc.nulls[rc.cursor*rc.columnCount+column], nil
}

// Buffer 整个行缓冲，配合 RowOffset 交给列解码
func (rc *RowCache) Buffer() []byte {
	return rc.rows
}

// RowOffset 当前行在缓冲中的偏移
func (rc *RowCache) RowOffset() (int, error) {
	if !rc.Valid() {
		return 0, common.Internal("no current row")
	}
	return rc.cursor * rc.rowSize, nil
}

// Row 当前行的切片，直接引用缓冲
func (rc *RowCache) Row() ([]byte, error) {
	off, err := rc.RowOffset()
	if err != nil {
		return nil, err
	}
	return rc.rows[off : off+rc.rowSize], nil
}
