package codec

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/zhukovaskychina/xdb2-client/server/common"
)

// FormatDecimal 把任意数字串的小数位调整为 scale 位。
// 小数位被截短，或整数位数超过 precision-scale 时 truncated 为 true；
// 整数部分总是完整保留，由调用方决定如何写入。
func FormatDecimal(s string, precision, scale int) (out string, truncated bool, err error) {
	s = strings.TrimSpace(s)
	if strings.ContainsAny(s, "eE") {
		d, perr := decimal.NewFromString(s)
		if perr != nil {
			return "", false, common.Mismatch("not a number: " + s)
		}
		s = d.String()
	}

	sign := ""
	switch {
	case strings.HasPrefix(s, "-"):
		sign = "-"
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}

	intPart, fracPart := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
	}
	if intPart == "" && fracPart == "" {
		return "", false, common.Mismatch("not a number: " + s)
	}
	if !allDigits(intPart) || !allDigits(fracPart) {
		return "", false, common.Mismatch("not a number: " + s)
	}

	intPart = strings.TrimLeft(intPart, "0")
	if len(intPart) > precision-scale {
		truncated = true
	}
	if len(fracPart) > scale {
		fracPart = fracPart[:scale]
		truncated = true
	} else if len(fracPart) < scale {
		fracPart += strings.Repeat("0", scale-len(fracPart))
	}
	if intPart == "" {
		intPart = "0"
	}

	var sb strings.Builder
	sb.WriteString(sign)
	sb.WriteString(intPart)
	if scale > 0 {
		sb.WriteByte('.')
		sb.WriteString(fracPart)
	}
	return sb.String(), truncated, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
