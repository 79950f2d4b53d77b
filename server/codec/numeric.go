package codec

import (
	"math"
	"strconv"
	"strings"

	"github.com/zhukovaskychina/xdb2-client/server/common"
)

// ExactLongThreshold 2^53，低于此值的 float64 可以精确表示整数
const ExactLongThreshold = 1 << 53

// ParseLong 把数字串转换为 int64：先按 float64 解析，绝对值小于 2^53 时直接截断；
// 否则改为按数字串精确解析，并去掉末尾的纯数字小数部分。
func ParseLong(s string) (int64, error) {
	s = strings.TrimSpace(s)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, common.Mismatch("not a number: " + s)
	}
	if math.Abs(f) < ExactLongThreshold {
		return int64(f), nil
	}

	digits := strings.TrimPrefix(s, "+")
	if i := strings.IndexByte(digits, '.'); i >= 0 {
		if !allDigits(digits[i+1:]) {
			return longFromFloat(f, s)
		}
		digits = digits[:i]
	}
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return 0, common.Mismatch("value out of range: " + s)
		}
		return longFromFloat(f, s)
	}
	return v, nil
}

// longFromFloat 处理带指数的写法
func longFromFloat(f float64, s string) (int64, error) {
	if f >= math.MaxInt64 || f < math.MinInt64 || math.IsNaN(f) {
		return 0, common.Mismatch("value out of range: " + s)
	}
	return int64(f), nil
}

// ParseDouble 解析数字串为 float64，溢出视为类型不匹配
func ParseDouble(s string) (float64, error) {
	s = strings.TrimSpace(s)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, common.Mismatch("not a number: " + s)
	}
	return f, nil
}
