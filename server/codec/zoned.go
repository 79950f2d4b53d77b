package codec

import (
	"github.com/shopspring/decimal"

	"github.com/zhukovaskychina/xdb2-client/server/common"
)

const (
	zoneEBCDIC byte = 0xF0
	zoneASCII  byte = 0x30
)

// DecodeZoned 解码区位十进制：每字节一位，高半字节为区位，末字节高半字节为符号
func DecodeZoned(buf []byte, offset, precision, scale int) (decimal.Decimal, error) {
	if precision <= 0 || offset < 0 || offset+precision > len(buf) {
		return decimal.Zero, common.NewErr(common.ErrInvalidDecimalData, "zoned field out of buffer")
	}
	field := buf[offset : offset+precision]
	digits := make([]byte, precision)
	negative := false
	for i, b := range field {
		zone := b & 0xF0
		digit := b & 0x0F
		if digit > 9 {
			return decimal.Zero, common.NewErr(common.ErrInvalidDecimalData, "bad zoned digit")
		}
		if i == precision-1 {
			if zone == zoneASCII {
				zone = zoneEBCDIC
			}
			neg, ok := isNegativeSign(zone >> 4)
			if !ok {
				return decimal.Zero, common.NewErr(common.ErrInvalidDecimalData, "bad zoned sign")
			}
			negative = neg
		} else if zone != zoneEBCDIC && zone != zoneASCII {
			return decimal.Zero, common.NewErr(common.ErrInvalidDecimalData, "bad zone nibble")
		}
		digits[i] = '0' + digit
	}
	return digitsToDecimal(digits, negative, scale), nil
}

// EncodeZoned 写入区位十进制，截断规则同 EncodePacked
func EncodeZoned(buf []byte, offset, precision, scale int, d decimal.Decimal) (*Truncation, error) {
	if precision <= 0 || offset < 0 || offset+precision > len(buf) {
		return nil, common.Internal("zoned field out of buffer")
	}
	digits, negative, tr := unscaledDigits(d, precision, scale)
	field := buf[offset : offset+precision]
	pad := precision - len(digits)
	for i := range field {
		v := byte(0)
		if i >= pad {
			v = digits[i-pad] - '0'
		}
		field[i] = zoneEBCDIC | v
	}
	if negative {
		field[precision-1] = signNegative<<4 | field[precision-1]&0x0F
	}
	return tr, nil
}
