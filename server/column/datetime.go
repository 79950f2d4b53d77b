package column

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/zhukovaskychina/xdb2-client/server/common"
)

// 日期格式码
const (
	DateJUL = iota
	DateMDY
	DateDMY
	DateYMD
	DateUSA
	DateISO
	DateEUR
	DateJIS
)

// 时间格式码
const (
	TimeHMS = iota
	TimeUSA
	TimeISO
	TimeEUR
	TimeJIS
)

var (
	dateSeparators = [...]byte{'/', '-', '.', ',', ' '}
	timeSeparators = [...]byte{':', '.', ',', ' '}
)

// TimestampLength 线上和输出格式的时间戳长度
const TimestampLength = 26

func dateSeparator(code int) byte {
	if code >= 0 && code < len(dateSeparators) {
		return dateSeparators[code]
	}
	return '/'
}

func timeSeparator(code int) byte {
	if code >= 0 && code < len(timeSeparators) {
		return timeSeparators[code]
	}
	return ':'
}

// DateFormatCode 配置名转换为格式码
func DateFormatCode(name string) (int, bool) {
	switch strings.ToLower(name) {
	case "jul":
		return DateJUL, true
	case "mdy":
		return DateMDY, true
	case "dmy":
		return DateDMY, true
	case "ymd":
		return DateYMD, true
	case "usa":
		return DateUSA, true
	case "iso":
		return DateISO, true
	case "eur":
		return DateEUR, true
	case "jis":
		return DateJIS, true
	}
	return 0, false
}

func TimeFormatCode(name string) (int, bool) {
	switch strings.ToLower(name) {
	case "hms":
		return TimeHMS, true
	case "usa":
		return TimeUSA, true
	case "iso":
		return TimeISO, true
	case "eur":
		return TimeEUR, true
	case "jis":
		return TimeJIS, true
	}
	return 0, false
}

// DateSeparatorCode 分隔符字符转换为格式码
func DateSeparatorCode(sep string) (int, bool) {
	for i, c := range dateSeparators {
		if sep == string(c) {
			return i, true
		}
	}
	return 0, false
}

func TimeSeparatorCode(sep string) (int, bool) {
	for i, c := range timeSeparators {
		if sep == string(c) {
			return i, true
		}
	}
	return 0, false
}

// twoDigitYear 00-39 为 20xx，40-99 为 19xx
func twoDigitYear(yy int) int {
	if yy < 40 {
		return 2000 + yy
	}
	return 1900 + yy
}

func pad2(v int) string {
	if v < 10 {
		return "0" + strconv.Itoa(v)
	}
	return strconv.Itoa(v)
}

// DateLength 某日期格式在线上占用的字符数
func DateLength(format int) int {
	switch format {
	case DateJUL:
		return 6
	case DateMDY, DateDMY, DateYMD:
		return 8
	}
	return 10
}

// FormatDate 按列的日期格式输出
func FormatDate(t time.Time, format, sepCode int) string {
	sep := string(dateSeparator(sepCode))
	y, m, d := t.Date()
	yy := pad2(y % 100)
	switch format {
	case DateJUL:
		return yy + sep + fmt.Sprintf("%03d", t.YearDay())
	case DateMDY:
		return pad2(int(m)) + sep + pad2(d) + sep + yy
	case DateDMY:
		return pad2(d) + sep + pad2(int(m)) + sep + yy
	case DateYMD:
		return yy + sep + pad2(int(m)) + sep + pad2(d)
	case DateUSA:
		return fmt.Sprintf("%02d/%02d/%04d", int(m), d, y)
	case DateEUR:
		return fmt.Sprintf("%02d.%02d.%04d", d, int(m), y)
	}
	return fmt.Sprintf("%04d-%02d-%02d", y, int(m), d)
}

func atoiField(s string, field string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, common.Mismatch(field + " " + strconv.Quote(s))
	}
	return v, nil
}

func checkDate(y, m, d int, s string) error {
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return common.Mismatch("date out of range " + strconv.Quote(s))
	}
	if t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC); t.Day() != d {
		return common.Mismatch("date out of range " + strconv.Quote(s))
	}
	return nil
}

// ParseDate 按列的日期格式解析，分隔符不做校验
func ParseDate(s string, format int, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) < DateLength(format) {
		return time.Time{}, common.Mismatch("date " + strconv.Quote(s))
	}
	var y, m, d int
	var err error
	field := func(from, to int) int {
		if err != nil {
			return 0
		}
		var v int
		v, err = atoiField(s[from:to], "date")
		return v
	}
	switch format {
	case DateJUL:
		y = twoDigitYear(field(0, 2))
		day := field(3, 6)
		if err != nil {
			return time.Time{}, err
		}
		if day < 1 || day > 366 {
			return time.Time{}, common.Mismatch("date out of range " + strconv.Quote(s))
		}
		return time.Date(y, 1, day, 0, 0, 0, 0, loc), nil
	case DateMDY:
		m, d, y = field(0, 2), field(3, 5), twoDigitYear(field(6, 8))
	case DateDMY:
		d, m, y = field(0, 2), field(3, 5), twoDigitYear(field(6, 8))
	case DateYMD:
		y, m, d = twoDigitYear(field(0, 2)), field(3, 5), field(6, 8)
	case DateUSA:
		m, d, y = field(0, 2), field(3, 5), field(6, 10)
	case DateEUR:
		d, m, y = field(0, 2), field(3, 5), field(6, 10)
	default:
		y, m, d = field(0, 4), field(5, 7), field(8, 10)
	}
	if err != nil {
		return time.Time{}, err
	}
	if err := checkDate(y, m, d, s); err != nil {
		return time.Time{}, err
	}
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, loc), nil
}

// FormatTime 按列的时间格式输出，USA 格式为 "hh:mm AM"
func FormatTime(t time.Time, format, sepCode int) string {
	h, mi, sec := t.Clock()
	switch format {
	case TimeUSA:
		ampm := "AM"
		hh := h
		if h >= 12 {
			ampm = "PM"
			hh -= 12
		}
		if hh == 0 {
			hh = 12
		}
		return pad2(hh) + ":" + pad2(mi) + " " + ampm
	case TimeISO, TimeEUR:
		return pad2(h) + "." + pad2(mi) + "." + pad2(sec)
	case TimeJIS:
		return pad2(h) + ":" + pad2(mi) + ":" + pad2(sec)
	}
	sep := string(timeSeparator(sepCode))
	return pad2(h) + sep + pad2(mi) + sep + pad2(sec)
}

// ParseTime 解析 8 字符的时间，返回 1970-01-01 当天的时刻
func ParseTime(s string, format int, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) < 8 {
		return time.Time{}, common.Mismatch("time " + strconv.Quote(s))
	}
	h, err := atoiField(s[0:2], "time")
	if err != nil {
		return time.Time{}, err
	}
	mi, err := atoiField(s[3:5], "time")
	if err != nil {
		return time.Time{}, err
	}
	sec := 0
	if format == TimeUSA || strings.HasSuffix(s, "M") {
		if h > 12 {
			return time.Time{}, common.Mismatch("time out of range " + strconv.Quote(s))
		}
		switch strings.ToUpper(s[6:8]) {
		case "AM":
			if h == 12 {
				h = 0
			}
		case "PM":
			if h != 12 {
				h += 12
			}
		default:
			return time.Time{}, common.Mismatch("time " + strconv.Quote(s))
		}
	} else if sec, err = atoiField(s[6:8], "time"); err != nil {
		return time.Time{}, err
	}
	if h < 0 || h > 24 || mi < 0 || mi > 59 || sec < 0 || sec > 59 {
		return time.Time{}, common.Mismatch("time out of range " + strconv.Quote(s))
	}
	// 24 点只允许 24:00:00
	if h == 24 && (mi != 0 || sec != 0) {
		return time.Time{}, common.Mismatch("time out of range " + strconv.Quote(s))
	}
	return time.Date(1970, 1, 1, h, mi, sec, 0, loc), nil
}

// FormatTimestampWire 线上格式 YYYY-MM-DD-HH.MM.SS.ffffff
func FormatTimestampWire(t time.Time) string {
	y, m, d := t.Date()
	h, mi, sec := t.Clock()
	return fmt.Sprintf("%04d-%02d-%02d-%02d.%02d.%02d.%06d", y, int(m), d, h, mi, sec, t.Nanosecond()/1000)
}

// FormatTimestamp 输出格式 YYYY-MM-DD HH:MM:SS.ffffff，固定 26 个字符
func FormatTimestamp(t time.Time) string {
	y, m, d := t.Date()
	h, mi, sec := t.Clock()
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d.%06d", y, int(m), d, h, mi, sec, t.Nanosecond()/1000)
}

// ParseTimestamp 同时接受线上格式和输出格式，小数部分可省略或不足 6 位
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) < 19 {
		if len(s) == 10 {
			return ParseDate(s, DateISO, loc)
		}
		return time.Time{}, common.Mismatch("timestamp " + strconv.Quote(s))
	}
	date, err := ParseDate(s[:10], DateISO, loc)
	if err != nil {
		return time.Time{}, err
	}
	clock, err := ParseTime(s[11:19], TimeJIS, loc)
	if err != nil {
		return time.Time{}, err
	}
	nanos := 0
	if len(s) > 19 {
		if s[19] != '.' && s[19] != ',' {
			return time.Time{}, common.Mismatch("timestamp " + strconv.Quote(s))
		}
		frac := s[20:]
		if len(frac) > 9 {
			frac = frac[:9]
		}
		if frac != "" {
			v, err := atoiField(frac, "timestamp")
			if err != nil {
				return time.Time{}, err
			}
			for i := len(frac); i < 9; i++ {
				v *= 10
			}
			nanos = v
		}
	}
	y, m, d := date.Date()
	h, mi, sec := clock.Clock()
	return time.Date(y, m, d, h, mi, sec, nanos, loc), nil
}
