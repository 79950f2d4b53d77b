package codec

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/zhukovaskychina/xdb2-client/server/common"
)

const (
	signPositive byte = 0x0F
	signNegative byte = 0x0D
)

// PackedLength 精度为 precision 的压缩十进制字节数
func PackedLength(precision int) int {
	return precision/2 + 1
}

func isNegativeSign(nibble byte) (negative bool, ok bool) {
	switch nibble {
	case 0x0B, 0x0D:
		return true, true
	case 0x0A, 0x0C, 0x0E, 0x0F:
		return false, true
	}
	return false, false
}

// DecodePacked 解码压缩十进制：每字节两位数字，末字节低半字节为符号
func DecodePacked(buf []byte, offset, precision, scale int) (decimal.Decimal, error) {
	n := PackedLength(precision)
	if precision <= 0 || offset < 0 || offset+n > len(buf) {
		return decimal.Zero, common.NewErr(common.ErrInvalidDecimalData, "packed field out of buffer")
	}
	field := buf[offset : offset+n]
	negative, ok := isNegativeSign(field[n-1] & 0x0F)
	if !ok {
		return decimal.Zero, common.NewErr(common.ErrInvalidDecimalData, "bad packed sign nibble")
	}
	// 偶数精度时首个高半字节是填充位
	skip := 2*n - 1 - precision
	digits := make([]byte, 0, precision)
	for i := 0; i < 2*n-1; i++ {
		b := field[i/2]
		var nibble byte
		if i%2 == 0 {
			nibble = b >> 4
		} else {
			nibble = b & 0x0F
		}
		if nibble > 9 {
			return decimal.Zero, common.NewErr(common.ErrInvalidDecimalData, "bad packed digit nibble")
		}
		if i < skip {
			continue
		}
		digits = append(digits, '0'+nibble)
	}
	return digitsToDecimal(digits, negative, scale), nil
}

func digitsToDecimal(digits []byte, negative bool, scale int) decimal.Decimal {
	if len(digits) <= 18 {
		var v int64
		for _, d := range digits {
			v = v*10 + int64(d-'0')
		}
		if negative {
			v = -v
		}
		return decimal.New(v, int32(-scale))
	}
	bi, _ := new(big.Int).SetString(string(digits), 10)
	if negative {
		bi.Neg(bi)
	}
	return decimal.NewFromBigInt(bi, int32(-scale))
}

// unscaledDigits 按 scale 截断后返回无符号的整数位数字串，以及截断信息
func unscaledDigits(d decimal.Decimal, precision, scale int) (string, bool, *Truncation) {
	negative := d.Sign() < 0
	abs := d.Abs()

	intDigits := len(abs.Truncate(0).String())
	if abs.LessThan(decimal.New(1, 0)) {
		intDigits = 0
	}
	fracDigits := 0
	if exp := int(abs.Exponent()); exp < 0 {
		fracDigits = -exp
		trimmed := strings.TrimRight(abs.String(), "0")
		if i := strings.IndexByte(trimmed, '.'); i >= 0 {
			fracDigits = len(trimmed) - i - 1
		} else {
			fracDigits = 0
		}
	}

	cut := abs.Truncate(int32(scale))
	digits := cut.Shift(int32(scale)).Truncate(0).String()
	digits = strings.TrimLeft(digits, "0")

	var tr *Truncation
	if fracDigits > scale || intDigits > precision-scale {
		dataSize := intDigits + fracDigits
		if fracDigits < scale {
			dataSize = intDigits + scale
		}
		keepInt := intDigits
		if keepInt > precision-scale {
			keepInt = precision - scale
		}
		tr = &Truncation{DataSize: dataSize, TransferSize: keepInt + scale}
	}
	if len(digits) > precision {
		digits = digits[len(digits)-precision:]
	}
	if strings.Trim(digits, "0") == "" {
		negative = false
	}
	return digits, negative, tr
}

// EncodePacked 按 precision/scale 写入压缩十进制。多余的小数位截断，超出的高位
// 丢弃；两种情况都会先写入再返回截断信息。字段超出 buf 时返回错误，不写任何字节。
func EncodePacked(buf []byte, offset, precision, scale int, d decimal.Decimal) (*Truncation, error) {
	n := PackedLength(precision)
	if precision <= 0 || offset < 0 || offset+n > len(buf) {
		return nil, common.Internal("packed field out of buffer")
	}
	digits, negative, tr := unscaledDigits(d, precision, scale)
	field := buf[offset : offset+n]
	for i := range field {
		field[i] = 0
	}
	// 从符号位往前填充
	nibble := 2*n - 1
	sign := signPositive
	if negative {
		sign = signNegative
	}
	field[n-1] = sign
	for i := len(digits) - 1; i >= 0; i-- {
		nibble--
		v := digits[i] - '0'
		if nibble%2 == 0 {
			field[nibble/2] |= v << 4
		} else {
			field[nibble/2] |= v
		}
	}
	return tr, nil
}
