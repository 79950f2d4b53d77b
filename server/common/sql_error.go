package common

import (
	"errors"
	"fmt"
	"strings"

	jerrors "github.com/juju/errors"
)

// SQLError 带稳定错误码和 SQLSTATE 的错误
type SQLError struct {
	Code    uint16
	State   string
	Message string
	kind    ErrorKind
}

func (e *SQLError) Error() string {
	return fmt.Sprintf("[%s] %s", e.State, e.Message)
}

func (e *SQLError) Kind() ErrorKind {
	return e.kind
}

// NewErr 根据错误码模板创建错误，参数不足的占位符会被去掉
func NewErr(code uint16, args ...interface{}) *SQLError {
	def, ok := errDefs[code]
	if !ok {
		def = errDefs[ErrInternal]
		args = []interface{}{fmt.Sprintf("unknown error code %d", code)}
	}
	return &SQLError{
		Code:    code,
		State:   def.state,
		Message: formatMessage(def.message, args),
		kind:    def.kind,
	}
}

func formatMessage(template string, args []interface{}) string {
	n := strings.Count(template, "%v")
	if len(args) >= n {
		return fmt.Sprintf(template, args[:n]...)
	}
	if idx := strings.Index(template, ":"); idx > 0 && len(args) == 0 {
		return template[:idx]
	}
	padded := make([]interface{}, n)
	copy(padded, args)
	for i := len(args); i < n; i++ {
		padded[i] = "?"
	}
	return fmt.Sprintf(template, padded...)
}

// DataTruncation 值被截断：写入时数据已部分写入，读取时返回截断后的值
type DataTruncation struct {
	Index        int
	Parameter    bool
	Read         bool
	DataSize     int
	TransferSize int
}

func (e *DataTruncation) Error() string {
	what := "column"
	if e.Parameter {
		what = "parameter"
	}
	dir := "write"
	if e.Read {
		dir = "read"
	}
	return fmt.Sprintf("[01004] Data truncation on %s of %s %d: data size %d, transfer size %d",
		dir, what, e.Index, e.DataSize, e.TransferSize)
}

func (e *DataTruncation) Kind() ErrorKind {
	return KindTruncation
}

func NewTruncation(index int, parameter, read bool, dataSize, transferSize int) *DataTruncation {
	return &DataTruncation{
		Index:        index,
		Parameter:    parameter,
		Read:         read,
		DataSize:     dataSize,
		TransferSize: transferSize,
	}
}

type kinded interface {
	Kind() ErrorKind
}

// KindOf 返回错误链上第一个可分类错误的类别
func KindOf(err error) ErrorKind {
	var k kinded
	if errors.As(err, &k) || errors.As(jerrors.Cause(err), &k) {
		return k.Kind()
	}
	return KindUnknown
}

func IsDataTypeMismatch(err error) bool { return KindOf(err) == KindDataTypeMismatch }
func IsTruncation(err error) bool       { return KindOf(err) == KindTruncation }
func IsInternal(err error) bool         { return KindOf(err) == KindInternal }
func IsNotSupported(err error) bool     { return KindOf(err) == KindFunctionNotSupported }
func IsDescriptorIndex(err error) bool  { return KindOf(err) == KindDescriptorIndex }

// AsTruncation 取出截断信息
func AsTruncation(err error) (*DataTruncation, bool) {
	var t *DataTruncation
	if errors.As(err, &t) || errors.As(jerrors.Cause(err), &t) {
		return t, true
	}
	return nil, false
}

func Mismatch(args ...interface{}) *SQLError {
	return NewErr(ErrDataTypeMismatch, args...)
}

func Internal(args ...interface{}) *SQLError {
	return NewErr(ErrInternal, args...)
}

func NotSupported(what string) *SQLError {
	return NewErr(ErrFunctionNotSupported, what)
}

func DescriptorIndex(index, count int) *SQLError {
	return NewErr(ErrInvalidDescriptorIdx, index, count)
}
