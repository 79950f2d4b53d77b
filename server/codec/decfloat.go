package codec

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v2"

	"github.com/zhukovaskychina/xdb2-client/server/common"
	"github.com/zhukovaskychina/xdb2-client/util"
)

const (
	DecFloat16Size = 8
	DecFloat34Size = 16
)

type decFloatFormat struct {
	size      int
	digits    int
	expBits   int
	bias      int
	maxAdjExp int32
	minAdjExp int32
}

var (
	decimal64  = decFloatFormat{size: 8, digits: 16, expBits: 8, bias: 398, maxAdjExp: 384, minAdjExp: -383}
	decimal128 = decFloatFormat{size: 16, digits: 34, expBits: 12, bias: 6176, maxAdjExp: 6144, minAdjExp: -6143}
)

func (f decFloatFormat) maxExp() int { return int(f.maxAdjExp) - (f.digits - 1) }
func (f decFloatFormat) minExp() int { return int(f.minAdjExp) - (f.digits - 1) }

func formatFor(size int) (decFloatFormat, error) {
	switch size {
	case DecFloat16Size:
		return decimal64, nil
	case DecFloat34Size:
		return decimal128, nil
	}
	return decFloatFormat{}, common.Internal("DECFLOAT length " + strconv.Itoa(size))
}

// DecFloatPrecision 8 字节为 16 位，16 字节为 34 位
func DecFloatPrecision(size int) int {
	if size == DecFloat16Size {
		return 16
	}
	return 34
}

const (
	combinationInfinity = 0x1E
	combinationNaN      = 0x1F
)

// DecodeDecFloat 把 DECFLOAT 字段解码为规范的科学计数字符串
func DecodeDecFloat(buf []byte, offset, size int) (string, error) {
	f, err := formatFor(size)
	if err != nil {
		return "", err
	}
	if offset < 0 || offset+size > len(buf) {
		return "", common.Mismatch("DECFLOAT field out of buffer")
	}
	field := buf[offset : offset+size]

	negative := util.ReadBits(field, 0, 1) == 1
	combination := util.ReadBits(field, 1, 5)
	expCont := util.ReadBits(field, 6, f.expBits)

	sign := ""
	if negative {
		sign = "-"
	}
	switch {
	case combination == combinationInfinity:
		return sign + "Infinity", nil
	case combination == combinationNaN:
		if expCont>>uint(f.expBits-1) == 1 {
			return sign + "sNaN", nil
		}
		return sign + "NaN", nil
	}

	var expMSB, msd uint64
	if combination>>3 != 3 {
		expMSB = combination >> 3
		msd = combination & 7
	} else {
		expMSB = (combination >> 1) & 3
		msd = 8 | combination&1
	}
	exponent := int(expMSB<<uint(f.expBits)|expCont) - f.bias

	var sb strings.Builder
	sb.WriteByte('0' + byte(msd))
	declets := (f.digits - 1) / 3
	start := 6 + f.expBits
	for i := 0; i < declets; i++ {
		sb.WriteString(threeDigits(decodeDeclet(uint16(util.ReadBits(field, start+i*10, 10)))))
	}
	coefficient := strings.TrimLeft(sb.String(), "0")
	if coefficient == "" {
		coefficient = "0"
	}
	return sign + toScientificString(coefficient, exponent), nil
}

func threeDigits(v int) string {
	return string([]byte{'0' + byte(v/100), '0' + byte(v/10%10), '0' + byte(v%10)})
}

// toScientificString 按通用十进制算术规范的 to-scientific-string 规则输出
func toScientificString(coefficient string, exponent int) string {
	adjusted := exponent + len(coefficient) - 1
	if exponent <= 0 && adjusted >= -6 {
		if exponent == 0 {
			return coefficient
		}
		point := len(coefficient) + exponent
		if point > 0 {
			return coefficient[:point] + "." + coefficient[point:]
		}
		return "0." + strings.Repeat("0", -point) + coefficient
	}
	var sb strings.Builder
	sb.WriteByte(coefficient[0])
	if len(coefficient) > 1 {
		sb.WriteByte('.')
		sb.WriteString(coefficient[1:])
	}
	sb.WriteByte('E')
	if adjusted >= 0 {
		sb.WriteByte('+')
	}
	sb.WriteString(strconv.Itoa(adjusted))
	return sb.String()
}

func parseSpecial(s string) (negative bool, combination uint64, signaling bool, ok bool) {
	t := strings.ToLower(strings.TrimSpace(s))
	if strings.HasPrefix(t, "-") {
		negative = true
		t = t[1:]
	} else if strings.HasPrefix(t, "+") {
		t = t[1:]
	}
	switch t {
	case "inf", "infinity":
		return negative, combinationInfinity, false, true
	case "nan":
		return negative, combinationNaN, false, true
	case "snan":
		return negative, combinationNaN, true, true
	}
	return false, 0, false, false
}

// EncodeDecFloat 按半偶舍入到 16 或 34 位有效数字后编码，指数超出范围时报错
func EncodeDecFloat(buf []byte, offset, size int, s string) error {
	f, err := formatFor(size)
	if err != nil {
		return err
	}
	if offset < 0 || offset+size > len(buf) {
		return common.Internal("DECFLOAT field out of buffer")
	}
	field := buf[offset : offset+size]
	for i := range field {
		field[i] = 0
	}

	if negative, combination, signaling, ok := parseSpecial(s); ok {
		if negative {
			util.WriteBits(field, 0, 1, 1)
		}
		util.WriteBits(field, 1, 5, combination)
		if signaling {
			util.WriteBits(field, 6, 1, 1)
		}
		return nil
	}

	d, _, err := apd.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return common.Mismatch("DECFLOAT value " + s)
	}
	ctx := apd.Context{
		Precision:   uint32(f.digits),
		MaxExponent: f.maxAdjExp,
		MinExponent: f.minAdjExp,
		Rounding:    apd.RoundHalfEven,
	}
	cond, err := ctx.Round(d, d)
	if err != nil || cond.Overflow() || d.Form != apd.Finite {
		return common.Mismatch("DECFLOAT overflow " + s)
	}

	coefficient := d.Coeff.String()
	exponent := int(d.Exponent)
	if exponent > f.maxExp() {
		// 指数钳位：系数补零
		if coefficient != "0" {
			coefficient += strings.Repeat("0", exponent-f.maxExp())
		}
		exponent = f.maxExp()
	}
	if exponent < f.minExp() {
		if coefficient != "0" {
			return common.Mismatch("DECFLOAT underflow " + s)
		}
		exponent = f.minExp()
	}
	if len(coefficient) > f.digits {
		return common.Mismatch("DECFLOAT overflow " + s)
	}
	coefficient = strings.Repeat("0", f.digits-len(coefficient)) + coefficient

	biased := uint64(exponent + f.bias)
	expMSB := biased >> uint(f.expBits)
	expCont := biased & (1<<uint(f.expBits) - 1)
	msd := uint64(coefficient[0] - '0')
	var combination uint64
	if msd < 8 {
		combination = expMSB<<3 | msd
	} else {
		combination = 0x18 | expMSB<<1 | msd&1
	}

	if d.Negative {
		util.WriteBits(field, 0, 1, 1)
	}
	util.WriteBits(field, 1, 5, combination)
	util.WriteBits(field, 6, f.expBits, expCont)
	start := 6 + f.expBits
	for i := 0; i < (f.digits-1)/3; i++ {
		group := coefficient[1+i*3 : 4+i*3]
		v, _ := strconv.Atoi(group)
		util.WriteBits(field, start+i*10, 10, uint64(encodeDeclet(v)))
	}
	return nil
}
