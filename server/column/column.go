package column

import (
	"strconv"
	"time"

	"github.com/zhukovaskychina/xdb2-client/server/codec"
	"github.com/zhukovaskychina/xdb2-client/server/common"
	"github.com/zhukovaskychina/xdb2-client/server/lob"
)

// Options 连接级的编解码设置，同一语句的所有列共享
type Options struct {
	DateFormat    int
	DateSeparator int
	TimeFormat    int
	TimeSeparator int

	// DefaultCCSID 描述中 CCSID 为 0 的单字节字符列使用
	DefaultCCSID int

	// 缓存条目数，0 表示不缓存
	StringCacheSize int
	DateCacheSize   int
	TimeCacheSize   int

	LOBMaxSize int
	Retriever  lob.Retriever

	// Location 未指定时区的时间值使用的时区，默认 time.Local
	Location *time.Location
}

// DefaultOptions ISO 日期时间格式，不启用缓存
func DefaultOptions() Options {
	return Options{
		DateFormat:    DateISO,
		DateSeparator: 1,
		TimeFormat:    TimeISO,
		TimeSeparator: 1,
		DefaultCCSID:  codec.CCSIDEbcdicUS,
		Location:      time.Local,
	}
}

// Description describe 阶段得到的列元数据
type Description struct {
	Name   string
	Label  string
	Schema string
	Table  string

	Type       SQLType
	Length     int
	Scale      int
	Precision  int
	CCSID      int
	ForBitData bool

	// Offset 列在行内的字节偏移
	Offset     int
	LOBMaxSize int

	Updatable     bool
	AutoIncrement bool
}

// Column 一个结果列或参数标记。类型元数据在 Describe 后不再改变，
// 当前值每次访问都会被替换。
type Column struct {
	index     int
	parameter bool
	opts      Options

	desc      Description
	described bool
	conv      codec.Converter

	value Value

	stringCache *decodeCache
	dateCache   *decodeCache
	timeCache   *decodeCache
}

// NewColumn index 从 1 开始
func NewColumn(index int, parameter bool, opts Options) *Column {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Column{
		index:       index,
		parameter:   parameter,
		opts:        opts,
		stringCache: newDecodeCache(opts.StringCacheSize),
		dateCache:   newDecodeCache(opts.DateCacheSize),
		timeCache:   newDecodeCache(opts.TimeCacheSize),
	}
}

// Describe 设置类型元数据，只能调用一次。CCSID 65535 或 ForBitData 时字符类型改按二进制处理。
func (c *Column) Describe(d Description) error {
	if c.described {
		return common.Internal("column already described")
	}
	if !d.Type.Known() {
		return common.Internal("unknown SQL type " + d.Type.Name())
	}
	d.Type = Remap(d.Type, d.CCSID, d.ForBitData)
	if d.LOBMaxSize == 0 {
		d.LOBMaxSize = c.opts.LOBMaxSize
	}
	if err := checkLength(d); err != nil {
		return err
	}

	if c.needsConverter(d.Type) {
		ccsid := d.CCSID
		if ccsid == 0 {
			ccsid = c.opts.DefaultCCSID
			if ccsid == 0 {
				ccsid = codec.CCSIDEbcdicUS
			}
			if d.Type.IsGraphic() {
				ccsid = codec.CCSIDUCS2
			}
		}
		conv, err := codec.ConverterFor(ccsid)
		if err != nil {
			return err
		}
		c.conv = conv
		d.CCSID = ccsid
	}
	c.desc = d
	c.described = true
	return nil
}

// checkLength 长度与类型不符的元数据在访问缓冲区前拒绝
func checkLength(d Description) error {
	bad := func() error {
		return common.Internal(d.Type.Name() + " length " + strconv.Itoa(d.Length) +
			" precision " + strconv.Itoa(d.Precision))
	}
	if d.Length <= 0 || d.Type.prefixSize() > d.Length {
		return bad()
	}
	exact := func(sizes ...int) error {
		for _, n := range sizes {
			if d.Length == n {
				return nil
			}
		}
		return bad()
	}
	switch d.Type.Base() {
	case TypeSmallInt:
		return exact(2)
	case TypeInteger:
		return exact(4)
	case TypeBigInt:
		return exact(8)
	case TypeFloat:
		return exact(4, 8)
	case TypeDecFloat:
		return exact(codec.DecFloat16Size, codec.DecFloat34Size)
	case TypeBoolean:
		return exact(1)
	case TypeBlobLocator, TypeClobLocator, TypeDBClobLocator, TypeXMLLocator:
		return exact(4)
	case TypeDecimal:
		if d.Precision <= 0 || codec.PackedLength(d.Precision) > d.Length {
			return bad()
		}
	case TypeNumeric:
		if d.Precision <= 0 || d.Precision > d.Length {
			return bad()
		}
	}
	return nil
}

func (c *Column) needsConverter(t SQLType) bool {
	switch {
	case t.IsCharacter(), t.IsGraphic(), t.IsTemporal():
		return true
	}
	switch t.Base() {
	case TypeClobLocator, TypeDBClobLocator, TypeXMLLocator:
		return true
	}
	return false
}

func (c *Column) Index() int {
	return c.index
}

func (c *Column) IsParameter() bool {
	return c.parameter
}

func (c *Column) Described() bool {
	return c.described
}

// Description 返回元数据副本
func (c *Column) Description() Description {
	return c.desc
}

func (c *Column) Name() string {
	return c.desc.Name
}

// Label 没有标签时返回列名
func (c *Column) Label() string {
	if c.desc.Label != "" {
		return c.desc.Label
	}
	return c.desc.Name
}

func (c *Column) Type() SQLType {
	return c.desc.Type
}

func (c *Column) Length() int {
	return c.desc.Length
}

func (c *Column) Scale() int {
	return c.desc.Scale
}

func (c *Column) CCSID() int {
	return c.desc.CCSID
}

func (c *Column) Offset() int {
	return c.desc.Offset
}

func (c *Column) Nullable() bool {
	return c.desc.Type.Nullable()
}

func (c *Column) DeclaredLength() int {
	return DeclaredLength(c.desc.Type, c.desc.Length, c.desc.Precision, c.desc.LOBMaxSize)
}

func (c *Column) Precision() int {
	return Precision(c.desc.Type, c.desc.Length, c.desc.Precision, c.desc.LOBMaxSize)
}

func (c *Column) DisplaySize() int {
	return DisplaySize(c.desc.Type, c.desc.Length, c.desc.Precision, c.desc.Scale, c.desc.LOBMaxSize)
}

// SetValue 替换当前值，nil 表示 NULL
func (c *Column) SetValue(v Value) {
	c.value = v
}

func (c *Column) Value() Value {
	return c.value
}

func (c *Column) IsNull() bool {
	return c.value == nil
}

func (c *Column) ActiveKind() Kind {
	return KindOf(c.value)
}

// InvalidateCaches 行缓冲被整体替换后调用
func (c *Column) InvalidateCaches() {
	c.stringCache.Purge()
	c.dateCache.Purge()
	c.timeCache.Purge()
}

// CacheStats 字符串缓存的命中率，未启用时为 0
func (c *Column) CacheStats() (hits, misses uint64) {
	if c.stringCache == nil {
		return 0, 0
	}
	return c.stringCache.HitCount(), c.stringCache.MissCount()
}

func (c *Column) checkDescribed() error {
	if !c.described {
		return common.Internal("column " + strconv.Itoa(c.index) + " not described")
	}
	return nil
}

func (c *Column) truncation(dataSize, transferSize int) error {
	return common.NewTruncation(c.index, c.parameter, false, dataSize, transferSize)
}
