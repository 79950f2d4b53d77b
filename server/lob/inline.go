package lob

import (
	"bytes"
	"io"

	"github.com/zhukovaskychina/xdb2-client/server/common"
)

// Inline 指向行缓冲中的 LOB 数据，只在该行槽位未被覆盖前有效
type Inline struct {
	buf      []byte
	offset   int
	length   int
	capacity int
}

// NewInline 引用 buf[offset:offset+length]，capacity 为列声明的最大长度
func NewInline(buf []byte, offset, length, capacity int) *Inline {
	if capacity < length {
		capacity = length
	}
	return &Inline{buf: buf, offset: offset, length: length, capacity: capacity}
}

func (l *Inline) Length() (int64, error) {
	return int64(l.length), nil
}

// Capacity 声明长度，写入不会超过它
func (l *Inline) Capacity() int {
	return l.capacity
}

func (l *Inline) Bytes(pos int64, length int) ([]byte, error) {
	if err := checkRange(pos, length, int64(l.length)); err != nil {
		return nil, err
	}
	n := clip(pos, length, int64(l.length))
	start := l.offset + int(pos) - 1
	out := make([]byte, n)
	copy(out, l.buf[start:start+n])
	return out, nil
}

func (l *Inline) Position(pattern []byte, start int64) (int64, error) {
	if start < 1 || start > int64(l.length)+1 {
		return 0, common.NewErr(common.ErrInvalidLOBPosition, start, len(pattern))
	}
	data := l.buf[l.offset+int(start)-1 : l.offset+l.length]
	idx := bytes.Index(data, pattern)
	if idx < 0 {
		return -1, nil
	}
	return start + int64(idx), nil
}

// SetBytes 原地写入共享的行缓冲，超出声明长度的部分被截断
func (l *Inline) SetBytes(pos int64, b []byte) (int, error) {
	if pos < 1 || pos > int64(l.length)+1 {
		return 0, common.NewErr(common.ErrInvalidLOBPosition, pos, len(b))
	}
	room := l.capacity - int(pos-1)
	n := len(b)
	if n > room {
		n = room
	}
	start := l.offset + int(pos) - 1
	copy(l.buf[start:start+n], b[:n])
	if end := int(pos-1) + n; end > l.length {
		l.length = end
	}
	if n < len(b) {
		return n, common.NewTruncation(0, false, false, len(b), n)
	}
	return n, nil
}

// Truncate 只缩短逻辑长度，不重新分配
func (l *Inline) Truncate(length int64) error {
	if length < 0 || length > int64(l.length) {
		return common.NewErr(common.ErrInvalidLOBPosition, length, l.length)
	}
	l.length = int(length)
	return nil
}

func (l *Inline) Reader() io.Reader {
	return bytes.NewReader(l.buf[l.offset : l.offset+l.length])
}
