package column

import (
	"fmt"
	"strings"

	"github.com/zhukovaskychina/xdb2-client/server/codec"
)

// SQLType 主机 SQLDA 类型码，偶数为不可空，奇数为可空
type SQLType int

const (
	TypeDate           SQLType = 384
	TypeTime           SQLType = 388
	TypeTimestamp      SQLType = 392
	TypeDatalink       SQLType = 396
	TypeBlob           SQLType = 404
	TypeClob           SQLType = 408
	TypeDBClob         SQLType = 412
	TypeVarchar        SQLType = 448
	TypeChar           SQLType = 452
	TypeLongVarchar    SQLType = 456
	TypeVarGraphic     SQLType = 464
	TypeGraphic        SQLType = 468
	TypeLongVarGraphic SQLType = 472
	TypeFloat          SQLType = 480
	TypeDecimal        SQLType = 484
	TypeNumeric        SQLType = 488
	TypeBigInt         SQLType = 492
	TypeInteger        SQLType = 496
	TypeSmallInt       SQLType = 500
	TypeRowID          SQLType = 904
	TypeVarBinary      SQLType = 908
	TypeBinary         SQLType = 912
	TypeBlobLocator    SQLType = 960
	TypeClobLocator    SQLType = 964
	TypeDBClobLocator  SQLType = 968
	TypeXML            SQLType = 988
	TypeDecFloat       SQLType = 996
	TypeBoolean        SQLType = 2436
	TypeXMLLocator     SQLType = 2452
)

var typeNames = map[SQLType]string{
	TypeDate:           "DATE",
	TypeTime:           "TIME",
	TypeTimestamp:      "TIMESTAMP",
	TypeDatalink:       "DATALINK",
	TypeBlob:           "BLOB",
	TypeClob:           "CLOB",
	TypeDBClob:         "DBCLOB",
	TypeVarchar:        "VARCHAR",
	TypeChar:           "CHAR",
	TypeLongVarchar:    "LONG VARCHAR",
	TypeVarGraphic:     "VARGRAPHIC",
	TypeGraphic:        "GRAPHIC",
	TypeLongVarGraphic: "LONG VARGRAPHIC",
	TypeFloat:          "FLOAT",
	TypeDecimal:        "DECIMAL",
	TypeNumeric:        "NUMERIC",
	TypeBigInt:         "BIGINT",
	TypeInteger:        "INTEGER",
	TypeSmallInt:       "SMALLINT",
	TypeRowID:          "ROWID",
	TypeVarBinary:      "VARBINARY",
	TypeBinary:         "BINARY",
	TypeBlobLocator:    "BLOB",
	TypeClobLocator:    "CLOB",
	TypeDBClobLocator:  "DBCLOB",
	TypeXML:            "XML",
	TypeDecFloat:       "DECFLOAT",
	TypeBoolean:        "BOOLEAN",
	TypeXMLLocator:     "XML",
}

// Base 去掉可空位
func (t SQLType) Base() SQLType {
	return t &^ 1
}

func (t SQLType) Nullable() bool {
	return t&1 == 1
}

func (t SQLType) Known() bool {
	_, ok := typeNames[t.Base()]
	return ok
}

func (t SQLType) Name() string {
	if n, ok := typeNames[t.Base()]; ok {
		return n
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(t))
}

func (t SQLType) String() string {
	return t.Name()
}

// IsCharacter 单字节或混合字节的字符类型
func (t SQLType) IsCharacter() bool {
	switch t.Base() {
	case TypeChar, TypeVarchar, TypeLongVarchar, TypeClob, TypeDatalink, TypeXML:
		return true
	}
	return false
}

// IsGraphic 双字节字符类型，长度前缀按字符计数
func (t SQLType) IsGraphic() bool {
	switch t.Base() {
	case TypeGraphic, TypeVarGraphic, TypeLongVarGraphic, TypeDBClob:
		return true
	}
	return false
}

func (t SQLType) IsBinary() bool {
	switch t.Base() {
	case TypeBinary, TypeVarBinary, TypeRowID, TypeBlob:
		return true
	}
	return false
}

func (t SQLType) IsLocator() bool {
	switch t.Base() {
	case TypeBlobLocator, TypeClobLocator, TypeDBClobLocator, TypeXMLLocator:
		return true
	}
	return false
}

func (t SQLType) IsLOB() bool {
	switch t.Base() {
	case TypeBlob, TypeClob, TypeDBClob, TypeXML:
		return true
	}
	return t.IsLocator()
}

func (t SQLType) IsTemporal() bool {
	switch t.Base() {
	case TypeDate, TypeTime, TypeTimestamp:
		return true
	}
	return false
}

func (t SQLType) IsNumeric() bool {
	switch t.Base() {
	case TypeSmallInt, TypeInteger, TypeBigInt, TypeFloat, TypeDecimal, TypeNumeric, TypeDecFloat:
		return true
	}
	return false
}

// prefixSize 变长字段长度前缀的字节数，定长字段为 0
func (t SQLType) prefixSize() int {
	switch t.Base() {
	case TypeVarchar, TypeLongVarchar, TypeVarGraphic, TypeLongVarGraphic,
		TypeVarBinary, TypeRowID, TypeDatalink:
		return 2
	case TypeBlob, TypeClob, TypeDBClob, TypeXML:
		return 4
	}
	return 0
}

// Remap CCSID 65535 或 FOR BIT DATA 的字符列按二进制处理，长度和可空位不变
func Remap(t SQLType, ccsid int, forBitData bool) SQLType {
	if ccsid != codec.CCSIDNoConversion && !forBitData {
		return t
	}
	nullable := t & 1
	switch t.Base() {
	case TypeVarchar, TypeLongVarchar:
		return TypeVarBinary | nullable
	case TypeChar:
		return TypeBinary | nullable
	}
	return t
}

// DeclaredLength 元数据报告的列长度：字符类型为字符数，十进制为精度
func DeclaredLength(t SQLType, byteLength, precision, lobMaxSize int) int {
	switch t.Base() {
	case TypeVarchar, TypeVarBinary, TypeDatalink, TypeLongVarchar, TypeRowID:
		return byteLength - 2
	case TypeVarGraphic, TypeLongVarGraphic:
		return (byteLength - 2) / 2
	case TypeBlob, TypeClob, TypeXML:
		return byteLength - 4
	case TypeDBClob:
		return (byteLength - 4) / 2
	case TypeGraphic:
		return byteLength / 2
	case TypeDecimal, TypeNumeric:
		return precision
	case TypeBlobLocator, TypeClobLocator, TypeDBClobLocator, TypeXMLLocator:
		return lobMaxSize
	case TypeTimestamp:
		return 26
	case TypeTime:
		return 8
	case TypeDate:
		return 10
	case TypeDecFloat:
		return codec.DecFloatPrecision(byteLength)
	}
	return byteLength
}

// Precision 数值类型的十进制精度，其余类型同 DeclaredLength
func Precision(t SQLType, byteLength, precision, lobMaxSize int) int {
	switch t.Base() {
	case TypeSmallInt:
		return 5
	case TypeInteger:
		return 10
	case TypeBigInt:
		return 19
	case TypeFloat:
		if byteLength == 4 {
			return 24
		}
		return 53
	case TypeBoolean:
		return 1
	}
	return DeclaredLength(t, byteLength, precision, lobMaxSize)
}

// DisplaySize 以字符计的最大显示宽度
func DisplaySize(t SQLType, byteLength, precision, scale, lobMaxSize int) int {
	switch t.Base() {
	case TypeSmallInt:
		return 6
	case TypeInteger:
		return 11
	case TypeBigInt:
		return 20
	case TypeFloat:
		if byteLength == 4 {
			return 13
		}
		return 22
	case TypeDecimal, TypeNumeric:
		if scale > 0 {
			return precision + 2
		}
		return precision + 1
	case TypeDecFloat:
		return codec.DecFloatPrecision(byteLength) + 8
	case TypeBinary, TypeVarBinary, TypeRowID:
		return 2 * DeclaredLength(t, byteLength, precision, lobMaxSize)
	case TypeBoolean:
		return 5
	}
	return DeclaredLength(t, byteLength, precision, lobMaxSize)
}

// TypeByName 按类型名查找不可空的类型码，定位符写作 "BLOB LOCATOR" 等
func TypeByName(name string) (SQLType, bool) {
	n := strings.ToUpper(strings.Join(strings.Fields(name), " "))
	switch n {
	case "BLOB LOCATOR":
		return TypeBlobLocator, true
	case "CLOB LOCATOR":
		return TypeClobLocator, true
	case "DBCLOB LOCATOR":
		return TypeDBClobLocator, true
	case "XML LOCATOR":
		return TypeXMLLocator, true
	case "DOUBLE", "REAL":
		return TypeFloat, true
	}
	for t, tn := range typeNames {
		if tn == n && !t.IsLocator() {
			return t, true
		}
	}
	return 0, false
}
