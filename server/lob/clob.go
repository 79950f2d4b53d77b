package lob

import (
	"unicode/utf8"

	"github.com/zhukovaskychina/xdb2-client/server/codec"
	"github.com/zhukovaskychina/xdb2-client/server/common"
)

// Clob 在 Blob 之上按 CCSID 解码字符
type Clob struct {
	blob Blob
	conv codec.Converter
}

func NewClob(blob Blob, conv codec.Converter) *Clob {
	return &Clob{blob: blob, conv: conv}
}

func (c *Clob) Blob() Blob {
	return c.blob
}

func (c *Clob) width() int {
	if c.conv.DoubleByte() {
		return 2
	}
	return 1
}

// fixedWidth 单字节或纯双字节编码可以直接按字节区间定位字符
func (c *Clob) fixedWidth() bool {
	switch c.conv.CCSID() {
	case codec.CCSIDUTF8, codec.CCSIDGBK, codec.CCSIDGB18030:
		return false
	}
	return true
}

func (c *Clob) all() (string, error) {
	n, err := c.blob.Length()
	if err != nil {
		return "", err
	}
	b, err := c.blob.Bytes(1, int(n))
	if err != nil {
		return "", err
	}
	return c.conv.Decode(b)
}

// Length 字符数
func (c *Clob) Length() (int64, error) {
	if c.fixedWidth() {
		n, err := c.blob.Length()
		return n / int64(c.width()), err
	}
	s, err := c.all()
	if err != nil {
		return 0, err
	}
	return int64(utf8.RuneCountInString(s)), nil
}

func (c *Clob) SubString(pos int64, length int) (string, error) {
	if c.fixedWidth() {
		w := c.width()
		b, err := c.blob.Bytes((pos-1)*int64(w)+1, length*w)
		if err != nil {
			return "", err
		}
		return c.conv.Decode(b)
	}
	s, err := c.all()
	if err != nil {
		return "", err
	}
	runes := []rune(s)
	if err := checkRange(pos, length, int64(len(runes))); err != nil {
		return "", err
	}
	n := clip(pos, length, int64(len(runes)))
	return string(runes[pos-1 : pos-1+int64(n)]), nil
}

func (c *Clob) String() (string, error) {
	return c.all()
}

func (c *Clob) Position(search string, start int64) (int64, error) {
	return 0, common.NotSupported("Clob Position")
}

// SetString 仅支持定宽编码
func (c *Clob) SetString(pos int64, s string) (int, error) {
	if !c.fixedWidth() {
		return 0, common.NotSupported("Clob SetString for variable width CCSID")
	}
	b, err := c.conv.Encode(s)
	if err != nil {
		return 0, err
	}
	w := c.width()
	n, err := c.blob.SetBytes((pos-1)*int64(w)+1, b)
	return n / w, err
}
