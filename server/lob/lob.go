package lob

import (
	"github.com/zhukovaskychina/xdb2-client/server/common"
)

// Blob 字节区间读取契约，位置从 1 开始
type Blob interface {
	Length() (int64, error)
	Bytes(pos int64, length int) ([]byte, error)
	Position(pattern []byte, start int64) (int64, error)
	SetBytes(pos int64, b []byte) (int, error)
	Truncate(length int64) error
}

// Retriever 由网络层实现：按定位符分块取数，取数过程中同步回调 Callback
type Retriever interface {
	RetrieveLOBData(handle int32, offset int64, size int, cb Callback) error
}

// Callback 与主机端 LOB 数据回调一一对应
type Callback interface {
	NewLOBLength(length int64)
	NewLOBData(ccsid int, length int)
	NewLOBSegment(buf []byte, offset, length int)
}

func checkRange(pos int64, length int, total int64) error {
	if pos < 1 || length < 0 || pos > total+1 {
		return common.NewErr(common.ErrInvalidLOBPosition, pos, length)
	}
	return nil
}

func clip(pos int64, length int, total int64) int {
	avail := total - (pos - 1)
	if int64(length) > avail {
		return int(avail)
	}
	return length
}
