package common

// 错误码，State 为对应的 SQLSTATE
const (
	ErrDataTypeMismatch     uint16 = 7006
	ErrInvalidDescriptorIdx uint16 = 7009
	ErrDataTruncation       uint16 = 1004
	ErrInternal             uint16 = 9999
	ErrFunctionNotSupported uint16 = 1001
	ErrInvalidCCSID         uint16 = 7010
	ErrInvalidDecimalData   uint16 = 7011
	ErrLOBRetrieval         uint16 = 7012
	ErrInvalidLOBPosition   uint16 = 7013
)

// ErrorKind 错误分类
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindDataTypeMismatch
	KindTruncation
	KindInternal
	KindFunctionNotSupported
	KindDescriptorIndex
)

func (k ErrorKind) String() string {
	switch k {
	case KindDataTypeMismatch:
		return "DataTypeMismatch"
	case KindTruncation:
		return "Truncation"
	case KindInternal:
		return "InternalError"
	case KindFunctionNotSupported:
		return "FunctionNotSupported"
	case KindDescriptorIndex:
		return "DescriptorIndex"
	}
	return "Unknown"
}

type errDef struct {
	state   string
	kind    ErrorKind
	message string
}

var errDefs = map[uint16]errDef{
	ErrDataTypeMismatch:     {"07006", KindDataTypeMismatch, "Data type mismatch: %v"},
	ErrInvalidDescriptorIdx: {"07009", KindDescriptorIndex, "Descriptor index not valid: %v (count %v)"},
	ErrDataTruncation:       {"01004", KindTruncation, "Data truncation"},
	ErrInternal:             {"HY000", KindInternal, "Internal driver error: %v"},
	ErrFunctionNotSupported: {"IM001", KindFunctionNotSupported, "Function not supported: %v"},
	ErrInvalidCCSID:         {"07006", KindDataTypeMismatch, "CCSID %v is not supported"},
	ErrInvalidDecimalData:   {"07006", KindDataTypeMismatch, "Decimal data error: %v"},
	ErrLOBRetrieval:         {"HY000", KindInternal, "LOB retrieval failed: %v"},
	ErrInvalidLOBPosition:   {"07006", KindDataTypeMismatch, "Position %v or length %v not valid"},
}
