package protocol

import (
	jerrors "github.com/juju/errors"

	"github.com/zhukovaskychina/xdb2-client/logger"
	"github.com/zhukovaskychina/xdb2-client/server/column"
	"github.com/zhukovaskychina/xdb2-client/server/common"
	"github.com/zhukovaskychina/xdb2-client/util"
)

// ParameterHeaderSize 一致性令牌、行数、列数、指示符长度、行长度
const ParameterHeaderSize = 4 + 4 + 2 + 2 + 4

const indicatorSize = 2

// ParameterBlock 把参数标记的值编码为请求中的参数数据块：
//
//	int32 consistency token
//	int32 row count
//	int16 column count
//	int16 indicator size (2)
//	int32 row size
//	row count * column count 个 int16 指示符，0 或 -1
//	row count * row size 字节的行数据
type ParameterBlock struct {
	token   int32
	params  []*column.Column
	rowSize int
}

// NewParameterBlock params 须已按参数 describe 信息 describe
func NewParameterBlock(token int32, params []*column.Column, rowSize int) *ParameterBlock {
	return &ParameterBlock{token: token, params: params, rowSize: rowSize}
}

// NewParameterBlockFromMetadata 由参数 describe 结果创建参数列
func NewParameterBlockFromMetadata(token int32, m *ResultMetadata, opts column.Options) (*ParameterBlock, error) {
	params, err := m.Columns(opts, true)
	if err != nil {
		return nil, jerrors.Trace(err)
	}
	return NewParameterBlock(token, params, m.RowSize()), nil
}

func (p *ParameterBlock) Params() []*column.Column {
	return p.params
}

// Param index 从 1 开始
func (p *ParameterBlock) Param(index int) (*column.Column, error) {
	if index < 1 || index > len(p.params) {
		return nil, common.DescriptorIndex(index, len(p.params))
	}
	return p.params[index-1], nil
}

// Set 设置第 index 个参数的值
func (p *ParameterBlock) Set(index int, v column.Value) error {
	c, err := p.Param(index)
	if err != nil {
		return err
	}
	c.SetValue(v)
	return nil
}

// Encode 用参数当前的值编码一行。截断不会中止编码，整块写完后返回第一个截断。
func (p *ParameterBlock) Encode() ([]byte, error) {
	return p.encode(1, func(int) error { return nil })
}

// EncodeBatch 每行依次设置参数值后编码
func (p *ParameterBlock) EncodeBatch(rows [][]column.Value) ([]byte, error) {
	return p.encode(len(rows), func(r int) error {
		if len(rows[r]) != len(p.params) {
			return common.DescriptorIndex(len(rows[r]), len(p.params))
		}
		for i, v := range rows[r] {
			p.params[i].SetValue(v)
		}
		return nil
	})
}

func (p *ParameterBlock) encode(rowCount int, load func(row int) error) ([]byte, error) {
	cols := len(p.params)
	indicators := ParameterHeaderSize
	data := indicators + rowCount*cols*indicatorSize
	buff := make([]byte, 0, data+rowCount*p.rowSize)
	buff = util.WriteUB4(buff, uint32(p.token))
	buff = util.WriteUB4(buff, uint32(rowCount))
	buff = util.WriteUB2(buff, uint16(cols))
	buff = util.WriteUB2(buff, indicatorSize)
	buff = util.WriteUB4(buff, uint32(p.rowSize))
	buff = util.GrowBytes(buff, data+rowCount*p.rowSize)

	var warning error
	for row := 0; row < rowCount; row++ {
		if err := load(row); err != nil {
			return nil, jerrors.Annotatef(err, "parameter row %d", row)
		}
		rowOffset := data + row*p.rowSize
		for i, c := range p.params {
			ind := indicators + (row*cols+i)*indicatorSize
			if c.IsNull() {
				util.PutInt16(buff, ind, IndicatorNull)
				continue
			}
			util.PutInt16(buff, ind, 0)
			if err := c.EncodeInto(buff, rowOffset); err != nil {
				if !common.IsTruncation(err) {
					return nil, jerrors.Annotatef(err, "parameter %d", i+1)
				}
				if warning == nil {
					warning = err
				}
			}
		}
	}
	if warning != nil {
		logger.Debugf("parameter block encoded with truncation: %v", warning)
	}
	return buff, warning
}
