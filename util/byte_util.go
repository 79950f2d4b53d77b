package util

import (
	"encoding/hex"
	"strings"
)

const hexDigits = "0123456789ABCDEF"

// HexString 以大写十六进制输出字节，和主机端的 hex 字面量一致
func HexString(buff []byte) string {
	out := make([]byte, len(buff)*2)
	for i, b := range buff {
		out[i*2] = hexDigits[b>>4]
		out[i*2+1] = hexDigits[b&0x0F]
	}
	return string(out)
}

// ParseHexString 是 HexString 的逆操作，奇数长度时左补 0
func ParseHexString(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if len(s)%2 == 1 {
		s = "0" + s
	}
	return hex.DecodeString(s)
}

// FillBytes 用 pad 填充 buff[from:to]
func FillBytes(buff []byte, from, to int, pad []byte) {
	if len(pad) == 0 {
		return
	}
	for i := from; i < to; i++ {
		buff[i] = pad[(i-from)%len(pad)]
	}
}

// GrowBytes 保证容量至少为 size，从不收缩
func GrowBytes(buff []byte, size int) []byte {
	if cap(buff) >= size {
		return buff[:size]
	}
	nb := make([]byte, size)
	copy(nb, buff)
	return nb
}
