package codec

import (
	"bytes"
	"strconv"
	"strings"
	"sync"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/piex/transcode"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"

	"github.com/zhukovaskychina/xdb2-client/server/common"
	"github.com/zhukovaskychina/xdb2-client/util"
)

// 常用 CCSID
const (
	CCSIDEbcdicUS     = 37
	CCSIDLatin1       = 819
	CCSIDEbcdicLatin1 = 1047
	CCSIDEbcdicEuro   = 1140
	CCSIDUTF16        = 1200
	CCSIDUTF8         = 1208
	CCSIDWindows1252  = 1252
	CCSIDGBK          = 1386
	CCSIDGB18030      = 1392
	CCSIDUCS2         = 13488
	CCSIDNoConversion = 65535
)

// Converter 在主机字节和字符串之间转换，长度由调用方给定的切片决定。
// 非法输入一律返回 DataTypeMismatch，不做替换字符。
type Converter interface {
	CCSID() int
	Decode(b []byte) (string, error)
	Encode(s string) ([]byte, error)
	// Blank 为一个空格字符的编码，用于定长字段填充
	Blank() []byte
	// DoubleByte 表示每个字符固定占两个字节
	DoubleByte() bool
	// Fit 返回 Encode 结果 b 中不超过 room 字节的最长完整字符前缀长度
	Fit(b []byte, room int) int
}

type encodingConverter struct {
	ccsid      int
	enc        encoding.Encoding
	blank      []byte
	doubleByte bool
}

func (c *encodingConverter) CCSID() int       { return c.ccsid }
func (c *encodingConverter) Blank() []byte    { return c.blank }
func (c *encodingConverter) DoubleByte() bool { return c.doubleByte }

func (c *encodingConverter) Decode(b []byte) (string, error) {
	if c.doubleByte {
		if len(b)%2 != 0 {
			return "", common.Mismatch("odd byte length " + strconv.Itoa(len(b)) + " for CCSID " + strconv.Itoa(c.ccsid))
		}
		if err := checkSurrogates(b); err != nil {
			return "", err
		}
	}
	out, err := c.enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", common.Mismatch(err.Error())
	}
	return string(out), nil
}

func (c *encodingConverter) Encode(s string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return nil, common.Mismatch("CCSID " + strconv.Itoa(c.ccsid) + ": invalid UTF-8 string")
	}
	out, err := c.enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, common.Mismatch("CCSID " + strconv.Itoa(c.ccsid) + ": " + err.Error())
	}
	return out, nil
}

func (c *encodingConverter) Fit(b []byte, room int) int {
	if room >= len(b) {
		return len(b)
	}
	if !c.doubleByte {
		return room
	}
	n := room - room%2
	// 不拆开代理对
	if n >= 2 && isHighSurrogate(b[n-2:]) {
		n -= 2
	}
	return n
}

func isHighSurrogate(b []byte) bool {
	u := util.ReadUB2Byte2Int(b)
	return u >= 0xD800 && u < 0xDC00
}

// checkSurrogates UTF-16 中的代理项必须成对出现
func checkSurrogates(b []byte) error {
	for i := 0; i+1 < len(b); i += 2 {
		r1 := rune(util.ReadUB2Byte2Int(b[i:]))
		if !utf16.IsSurrogate(r1) {
			continue
		}
		if i+3 < len(b) {
			r2 := rune(util.ReadUB2Byte2Int(b[i+2:]))
			if utf16.DecodeRune(r1, r2) != utf8.RuneError {
				i += 2
				continue
			}
		}
		return common.Mismatch("unpaired UTF-16 surrogate at byte " + strconv.Itoa(i))
	}
	return nil
}

type utf8Converter struct{}

func (utf8Converter) CCSID() int       { return CCSIDUTF8 }
func (utf8Converter) Blank() []byte    { return []byte{' '} }
func (utf8Converter) DoubleByte() bool { return false }

func (utf8Converter) Decode(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", common.Mismatch("invalid UTF-8 data")
	}
	return string(b), nil
}

func (utf8Converter) Encode(s string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return nil, common.Mismatch("invalid UTF-8 string")
	}
	return []byte(s), nil
}

func (utf8Converter) Fit(b []byte, room int) int {
	if room >= len(b) {
		return len(b)
	}
	n := room
	for n > 0 && !utf8.RuneStart(b[n]) {
		n--
	}
	return n
}

// transcode 的转换状态是包级变量
var transcodeMu sync.Mutex

// gbkConverter GBK 与 GB18030，解码走 transcode，编码走 x/text
type gbkConverter struct {
	encodingConverter
	name string
}

func (c *gbkConverter) Decode(b []byte) (string, error) {
	transcodeMu.Lock()
	s := transcode.FromByteArray(b).Decode(c.name).ToString()
	transcodeMu.Unlock()
	if strings.ContainsRune(s, utf8.RuneError) {
		// 只有源字节本身编码了 U+FFFD 才能原样编回
		back, err := c.enc.NewEncoder().Bytes([]byte(s))
		if err != nil || !bytes.Equal(back, b) {
			return "", common.Mismatch("invalid " + c.name + " data")
		}
	}
	return s, nil
}

// Fit 按前导字节判断字符宽度：0x81-0xFE 开头为双字节，GB18030 第二字节为数字时为四字节
func (c *gbkConverter) Fit(b []byte, room int) int {
	if room >= len(b) {
		return len(b)
	}
	i := 0
	for i < len(b) {
		w := 1
		if b[i] >= 0x81 && b[i] <= 0xFE {
			w = 2
			if c.ccsid == CCSIDGB18030 && i+1 < len(b) && b[i+1] >= '0' && b[i+1] <= '9' {
				w = 4
			}
		}
		if i+w > room {
			break
		}
		i += w
	}
	return i
}

var (
	convertersMu sync.RWMutex
	converters   = map[int]Converter{}
)

func newSingleByte(ccsid int, cm *charmap.Charmap) Converter {
	blank, _ := cm.NewEncoder().Bytes([]byte(" "))
	return &encodingConverter{ccsid: ccsid, enc: cm, blank: blank}
}

func newConverter(ccsid int) (Converter, error) {
	switch ccsid {
	case CCSIDEbcdicUS:
		return newSingleByte(ccsid, charmap.CodePage037), nil
	case CCSIDEbcdicLatin1:
		return newSingleByte(ccsid, charmap.CodePage1047), nil
	case CCSIDEbcdicEuro:
		return newSingleByte(ccsid, charmap.CodePage1140), nil
	case CCSIDLatin1:
		return newSingleByte(ccsid, charmap.ISO8859_1), nil
	case CCSIDWindows1252:
		return newSingleByte(ccsid, charmap.Windows1252), nil
	case CCSIDUTF8:
		return utf8Converter{}, nil
	case CCSIDUTF16, CCSIDUCS2:
		return &encodingConverter{
			ccsid:      ccsid,
			enc:        unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
			blank:      []byte{0x00, 0x20},
			doubleByte: true,
		}, nil
	case CCSIDGBK:
		return &gbkConverter{encodingConverter{ccsid: ccsid, enc: simplifiedchinese.GBK, blank: []byte{' '}}, "GBK"}, nil
	case CCSIDGB18030:
		return &gbkConverter{encodingConverter{ccsid: ccsid, enc: simplifiedchinese.GB18030, blank: []byte{' '}}, "GB18030"}, nil
	}
	return nil, common.NewErr(common.ErrInvalidCCSID, ccsid)
}

// ConverterFor 返回 CCSID 对应的转换器，结果会被缓存
func ConverterFor(ccsid int) (Converter, error) {
	convertersMu.RLock()
	c, ok := converters[ccsid]
	convertersMu.RUnlock()
	if ok {
		return c, nil
	}
	c, err := newConverter(ccsid)
	if err != nil {
		return nil, err
	}
	convertersMu.Lock()
	converters[ccsid] = c
	convertersMu.Unlock()
	return c, nil
}

// SupportedCCSID 判断 CCSID 是否可转换
func SupportedCCSID(ccsid int) bool {
	_, err := ConverterFor(ccsid)
	return err == nil
}
