package lob

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/zhukovaskychina/xdb2-client/logger"
	"github.com/zhukovaskychina/xdb2-client/server/common"
)

// Locator 服务器端 LOB 句柄，数据在请求时才分块拉取
type Locator struct {
	handle    int32
	retriever Retriever
	maxSize   int
	length    int64
	ccsid     int

	// 当前请求的接收缓冲
	pending  []byte
	received int
}

func NewLocator(handle int32, retriever Retriever, maxSize int) *Locator {
	return &Locator{handle: handle, retriever: retriever, maxSize: maxSize, length: -1}
}

func (l *Locator) Handle() int32 {
	return l.handle
}

// CCSID 最近一次数据回调报告的 CCSID
func (l *Locator) CCSID() int {
	return l.ccsid
}

func (l *Locator) retrieve(offset int64, size int) error {
	if l.retriever == nil {
		return common.NewErr(common.ErrLOBRetrieval, "no retriever for locator")
	}
	logger.Debugf("retrieve LOB locator %d offset=%d size=%d", l.handle, offset, size)
	if err := l.retriever.RetrieveLOBData(l.handle, offset, size, (*locatorCallback)(l)); err != nil {
		return errors.Wrapf(err, "retrieve LOB locator %d", l.handle)
	}
	return nil
}

// Length 未知时发一个零长度请求探测
func (l *Locator) Length() (int64, error) {
	if l.length >= 0 {
		return l.length, nil
	}
	if err := l.retrieve(0, 0); err != nil {
		return 0, err
	}
	if l.length < 0 {
		return 0, common.NewErr(common.ErrLOBRetrieval, "length not reported")
	}
	return l.length, nil
}

func (l *Locator) Bytes(pos int64, length int) ([]byte, error) {
	total, err := l.Length()
	if err != nil {
		return nil, err
	}
	if err := checkRange(pos, length, total); err != nil {
		return nil, err
	}
	n := clip(pos, length, total)
	if n == 0 {
		return []byte{}, nil
	}
	l.pending = make([]byte, n)
	l.received = 0
	defer func() { l.pending = nil }()

	// 每次请求不超过 maxSize 字节
	chunk := n
	if l.maxSize > 0 && chunk > l.maxSize {
		chunk = l.maxSize
	}
	for done := 0; done < n; done += chunk {
		size := chunk
		if n-done < size {
			size = n - done
		}
		if err := l.retrieve(pos-1+int64(done), size); err != nil {
			return nil, err
		}
		if l.received < done+size {
			return nil, common.NewErr(common.ErrLOBRetrieval,
				fmt.Sprintf("locator %d returned %d of %d bytes", l.handle, l.received, n))
		}
	}
	return l.pending[:l.received], nil
}

func (l *Locator) Position(pattern []byte, start int64) (int64, error) {
	return 0, common.NotSupported("LOB locator Position")
}

func (l *Locator) SetBytes(pos int64, b []byte) (int, error) {
	return 0, common.NotSupported("LOB locator SetBytes")
}

func (l *Locator) Truncate(length int64) error {
	return common.NotSupported("LOB locator Truncate")
}

type locatorCallback Locator

func (c *locatorCallback) NewLOBLength(length int64) {
	c.length = length
}

func (c *locatorCallback) NewLOBData(ccsid int, length int) {
	c.ccsid = ccsid
}

// NewLOBSegment 数据为 buf[offset:offset+length]，按顺序追加
func (c *locatorCallback) NewLOBSegment(buf []byte, offset, length int) {
	if c.pending == nil {
		return
	}
	c.received += copy(c.pending[c.received:], buf[offset:offset+length])
}
