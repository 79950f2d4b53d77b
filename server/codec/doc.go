// Package codec holds the stateless transforms between host wire bytes and
// values: packed and zoned decimal, DECFLOAT (densely packed decimal),
// CCSID character conversion and decimal string normalization.
//
// All functions work on caller supplied buffers and offsets. Conversion
// failures are returned as *common.SQLError of kind DataTypeMismatch.
// Truncation while encoding is not an error at this level: the partial value
// is written and a *Truncation describing it is returned so the caller can
// attach its column or parameter index.
package codec

// Truncation 描述一次编码截断，单位由调用方决定（数字位数或字节数）
type Truncation struct {
	DataSize     int
	TransferSize int
}
