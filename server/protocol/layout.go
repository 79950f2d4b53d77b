package protocol

import (
	"io/ioutil"

	jerrors "github.com/juju/errors"
	"github.com/pelletier/go-toml"

	"github.com/zhukovaskychina/xdb2-client/server/codec"
	"github.com/zhukovaskychina/xdb2-client/server/column"
)

// LoadLayoutFile 读取 TOML 描述的结果集布局：
//
//	date_format = "iso"
//	time_format = "iso"
//	date_separator = "-"
//	time_separator = "."
//	row_size = 0          # 0 表示按字段长度求和
//
//	[[column]]
//	name = "ID"
//	type = "INTEGER"      # 或 type_code = 496
//	nullable = true
//	length = 4
//	precision = 0
//	scale = 0
//	ccsid = 37
//	for_bit_data = false
//	lob_max_size = 0
func LoadLayoutFile(path string) (*ResultMetadata, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, jerrors.Annotatef(err, "read layout %s", path)
	}
	m, err := ParseLayout(data)
	if err != nil {
		return nil, jerrors.Annotatef(err, "layout %s", path)
	}
	return m, nil
}

func ParseLayout(data []byte) (*ResultMetadata, error) {
	tree, err := toml.LoadBytes(data)
	if err != nil {
		return nil, jerrors.Trace(err)
	}

	dateFormat, ok := column.DateFormatCode(getString(tree, "date_format", "iso"))
	if !ok {
		return nil, jerrors.Errorf("unknown date_format %q", getString(tree, "date_format", ""))
	}
	timeFormat, ok := column.TimeFormatCode(getString(tree, "time_format", "iso"))
	if !ok {
		return nil, jerrors.Errorf("unknown time_format %q", getString(tree, "time_format", ""))
	}
	dateSep, ok := column.DateSeparatorCode(getString(tree, "date_separator", "-"))
	if !ok {
		return nil, jerrors.Errorf("unknown date_separator %q", getString(tree, "date_separator", ""))
	}
	timeSep, ok := column.TimeSeparatorCode(getString(tree, "time_separator", "."))
	if !ok {
		return nil, jerrors.Errorf("unknown time_separator %q", getString(tree, "time_separator", ""))
	}

	var columns []*toml.Tree
	if v := tree.Get("column"); v != nil {
		if columns, ok = v.([]*toml.Tree); !ok {
			return nil, jerrors.New("column must be an array of tables")
		}
	}

	b := NewMetadataBuilder()
	b.Describe(len(columns), dateFormat, timeFormat, dateSep, timeSep, getInt(tree, "row_size", 0))
	for i, ct := range columns {
		typ, err := layoutType(ct)
		if err != nil {
			return nil, jerrors.Annotatef(err, "column %d", i+1)
		}
		length := getInt(ct, "length", 0)
		if length == 0 {
			length = defaultLength(typ, getInt(ct, "precision", 0))
		}
		if err := b.FieldDescription(i, typ, length, getInt(ct, "scale", 0), getInt(ct, "precision", 0),
			getInt(ct, "ccsid", 0), 0, 0, getInt(ct, "lob_max_size", 0)); err != nil {
			return nil, jerrors.Trace(err)
		}
		if err := b.FieldName(i, getString(ct, "name", "")); err != nil {
			return nil, jerrors.Trace(err)
		}
		if label := getString(ct, "label", ""); label != "" {
			if err := b.FieldLabel(i, label); err != nil {
				return nil, jerrors.Trace(err)
			}
		}
		if err := b.FieldAttributes(i, getBool(ct, "auto_increment"), getBool(ct, "updatable"),
			getBool(ct, "for_bit_data")); err != nil {
			return nil, jerrors.Trace(err)
		}
	}
	return b.Build()
}

func layoutType(ct *toml.Tree) (column.SQLType, error) {
	var typ column.SQLType
	if code := getInt(ct, "type_code", 0); code != 0 {
		typ = column.SQLType(code)
	} else {
		name := getString(ct, "type", "")
		t, ok := column.TypeByName(name)
		if !ok {
			return 0, jerrors.Errorf("unknown type %q", name)
		}
		typ = t
	}
	if getBool(ct, "nullable") {
		typ |= 1
	}
	if !typ.Known() {
		return 0, jerrors.Errorf("unknown type code %d", int(typ))
	}
	return typ, nil
}

// defaultLength 定长类型可以省略 length
func defaultLength(t column.SQLType, precision int) int {
	switch t.Base() {
	case column.TypeSmallInt:
		return 2
	case column.TypeInteger:
		return 4
	case column.TypeBigInt:
		return 8
	case column.TypeFloat:
		return 8
	case column.TypeDecimal:
		return codec.PackedLength(precision)
	case column.TypeNumeric:
		return precision
	case column.TypeDecFloat:
		return codec.DecFloat34Size
	case column.TypeDate:
		return 10
	case column.TypeTime:
		return 8
	case column.TypeTimestamp:
		return column.TimestampLength
	case column.TypeBoolean:
		return 1
	case column.TypeBlobLocator, column.TypeClobLocator, column.TypeDBClobLocator, column.TypeXMLLocator:
		return 4
	}
	return 0
}

func getString(t *toml.Tree, key, def string) string {
	if s, ok := t.Get(key).(string); ok {
		return s
	}
	return def
}

func getInt(t *toml.Tree, key string, def int) int {
	if v, ok := t.Get(key).(int64); ok {
		return int(v)
	}
	return def
}

func getBool(t *toml.Tree, key string) bool {
	v, _ := t.Get(key).(bool)
	return v
}
