package protocol

import (
	jerrors "github.com/juju/errors"

	"github.com/zhukovaskychina/xdb2-client/server/column"
	"github.com/zhukovaskychina/xdb2-client/server/common"
)

// FieldDescription 一个列或参数的 describe 信息
type FieldDescription struct {
	Type            column.SQLType
	Length          int
	Scale           int
	Precision       int
	CCSID           int
	JoinRefPosition int
	AttributeBitmap int
	LOBMaxSize      int
	ForBitData      bool

	Name          string
	Label         string
	Schema        string
	Table         string
	AutoIncrement bool
	Updatable     bool
}

// ResultMetadata describe 阶段的结果，构造后不可修改
type ResultMetadata struct {
	dateFormat    int
	timeFormat    int
	dateSeparator int
	timeSeparator int
	rowSize       int
	fields        []FieldDescription
	offsets       []int
}

func (m *ResultMetadata) ColumnCount() int {
	return len(m.fields)
}

func (m *ResultMetadata) RowSize() int {
	return m.rowSize
}

func (m *ResultMetadata) DateFormat() int {
	return m.dateFormat
}

func (m *ResultMetadata) TimeFormat() int {
	return m.timeFormat
}

func (m *ResultMetadata) DateSeparator() int {
	return m.dateSeparator
}

func (m *ResultMetadata) TimeSeparator() int {
	return m.timeSeparator
}

// Field index 从 0 开始
func (m *ResultMetadata) Field(index int) (FieldDescription, error) {
	if index < 0 || index >= len(m.fields) {
		return FieldDescription{}, common.DescriptorIndex(index+1, len(m.fields))
	}
	return m.fields[index], nil
}

// Offset 列在行内的偏移，按字段顺序紧密排列
func (m *ResultMetadata) Offset(index int) int {
	return m.offsets[index]
}

// Options 在连接级设置之上应用本次 describe 的日期时间格式
func (m *ResultMetadata) Options(base column.Options) column.Options {
	base.DateFormat = m.dateFormat
	base.TimeFormat = m.timeFormat
	base.DateSeparator = m.dateSeparator
	base.TimeSeparator = m.timeSeparator
	return base
}

// Columns 为每个字段创建并 describe 一个列
func (m *ResultMetadata) Columns(base column.Options, parameter bool) ([]*column.Column, error) {
	opts := m.Options(base)
	cols := make([]*column.Column, len(m.fields))
	for i, f := range m.fields {
		c := column.NewColumn(i+1, parameter, opts)
		err := c.Describe(column.Description{
			Name:          f.Name,
			Label:         f.Label,
			Schema:        f.Schema,
			Table:         f.Table,
			Type:          f.Type,
			Length:        f.Length,
			Scale:         f.Scale,
			Precision:     f.Precision,
			CCSID:         f.CCSID,
			ForBitData:    f.ForBitData,
			Offset:        m.offsets[i],
			LOBMaxSize:    f.LOBMaxSize,
			Updatable:     f.Updatable,
			AutoIncrement: f.AutoIncrement,
		})
		if err != nil {
			return nil, jerrors.Annotatef(err, "describe column %d (%s)", i+1, f.Name)
		}
		cols[i] = c
	}
	return cols, nil
}

// MetadataBuilder 接收协议解析过程中的 describe 回调，最后生成 ResultMetadata
type MetadataBuilder struct {
	m       ResultMetadata
	started bool
}

func NewMetadataBuilder() *MetadataBuilder {
	return &MetadataBuilder{}
}

// Describe 必须先于字段回调调用
func (b *MetadataBuilder) Describe(columnCount, dateFormat, timeFormat, dateSep, timeSep, rowSize int) {
	b.m = ResultMetadata{
		dateFormat:    dateFormat,
		timeFormat:    timeFormat,
		dateSeparator: dateSep,
		timeSeparator: timeSep,
		rowSize:       rowSize,
		fields:        make([]FieldDescription, columnCount),
	}
	b.started = true
}

func (b *MetadataBuilder) field(index int) (*FieldDescription, error) {
	if !b.started {
		return nil, common.Internal("field callback before describe")
	}
	if index < 0 || index >= len(b.m.fields) {
		return nil, common.DescriptorIndex(index+1, len(b.m.fields))
	}
	return &b.m.fields[index], nil
}

func (b *MetadataBuilder) FieldDescription(index int, typ column.SQLType, length, scale, precision, ccsid,
	joinRefPosition, attributeBitmap, lobMaxSize int) error {
	f, err := b.field(index)
	if err != nil {
		return err
	}
	f.Type = typ
	f.Length = length
	f.Scale = scale
	f.Precision = precision
	f.CCSID = ccsid
	f.JoinRefPosition = joinRefPosition
	f.AttributeBitmap = attributeBitmap
	f.LOBMaxSize = lobMaxSize
	return nil
}

func (b *MetadataBuilder) FieldName(index int, name string) error {
	f, err := b.field(index)
	if err != nil {
		return err
	}
	f.Name = name
	return nil
}

func (b *MetadataBuilder) FieldLabel(index int, label string) error {
	f, err := b.field(index)
	if err != nil {
		return err
	}
	f.Label = label
	return nil
}

func (b *MetadataBuilder) FieldTable(index int, schema, table string) error {
	f, err := b.field(index)
	if err != nil {
		return err
	}
	f.Schema = schema
	f.Table = table
	return nil
}

func (b *MetadataBuilder) FieldAttributes(index int, autoIncrement, updatable, forBitData bool) error {
	f, err := b.field(index)
	if err != nil {
		return err
	}
	f.AutoIncrement = autoIncrement
	f.Updatable = updatable
	f.ForBitData = forBitData
	return nil
}

// Build 校验类型和行长度，计算列偏移
func (b *MetadataBuilder) Build() (*ResultMetadata, error) {
	if !b.started {
		return nil, common.Internal("describe not received")
	}
	m := b.m
	m.fields = append([]FieldDescription(nil), b.m.fields...)
	m.offsets = make([]int, len(m.fields))
	offset := 0
	for i, f := range m.fields {
		if !f.Type.Known() {
			return nil, jerrors.Annotatef(common.Internal("unknown SQL type "+f.Type.Name()), "field %d", i+1)
		}
		if f.Length <= 0 {
			return nil, jerrors.Annotatef(common.Internal("field length not positive"), "field %d", i+1)
		}
		m.offsets[i] = offset
		offset += f.Length
	}
	if m.rowSize == 0 {
		m.rowSize = offset
	}
	if offset > m.rowSize {
		return nil, common.Internal("row size smaller than sum of field lengths")
	}
	return &m, nil
}
