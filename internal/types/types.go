// Package types is the minor-type registry: the bijection between the
// engine's closed enumeration of scalar types, their Arrow representations,
// their wire type-ids (used by tagged unions), and host Go values.
package types

import (
	"fmt"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/ncruces/go-strftime"
)

// MinorType is the closed enumeration of physical scalar representations.
type MinorType int

const (
	Null MinorType = iota
	Bit
	TinyInt
	BigInt
	Float8
	VarChar
	VarBinary
	Keyword
	ExtensionType
	TimestampMilli
	Duration
)

func (m MinorType) String() string {
	switch m {
	case Null:
		return "NULL"
	case Bit:
		return "BIT"
	case TinyInt:
		return "TINYINT"
	case BigInt:
		return "BIGINT"
	case Float8:
		return "FLOAT8"
	case VarChar:
		return "VARCHAR"
	case VarBinary:
		return "VARBINARY"
	case Keyword:
		return "KEYWORD"
	case ExtensionType:
		return "EXTENSIONTYPE"
	case TimestampMilli:
		return "TIMESTAMP_MILLI"
	case Duration:
		return "DURATION"
	default:
		return fmt.Sprintf("MinorType(%d)", int(m))
	}
}

// TypeID is the stable small integer used by dense-union discriminants and
// by append_object's dispatch table.
type TypeID int8

const (
	IDNull           TypeID = 1
	IDBigInt         TypeID = 2
	IDFloat8         TypeID = 3
	IDVarBinary      TypeID = 4
	IDVarChar        TypeID = 5
	IDBit            TypeID = 6
	IDTinyInt        TypeID = 7
	IDKeyword        TypeID = 8
	IDExtensionType  TypeID = 9
	IDTimestampMilli TypeID = 10
	IDDuration       TypeID = 18
)

var minorToID = map[MinorType]TypeID{
	Null:           IDNull,
	BigInt:         IDBigInt,
	Float8:         IDFloat8,
	VarBinary:      IDVarBinary,
	VarChar:        IDVarChar,
	Bit:            IDBit,
	TinyInt:        IDTinyInt,
	Keyword:        IDKeyword,
	ExtensionType:  IDExtensionType,
	TimestampMilli: IDTimestampMilli,
	Duration:       IDDuration,
}

var idToMinor map[TypeID]MinorType

func init() {
	idToMinor = make(map[TypeID]MinorType, len(minorToID))
	for mt, id := range minorToID {
		idToMinor[id] = mt
	}
}

// ID returns the type-id for a minor type.
func (m MinorType) ID() TypeID { return minorToID[m] }

// MinorTypeByID looks up a minor type from its wire type-id.
func MinorTypeByID(id TypeID) (MinorType, bool) {
	mt, ok := idToMinor[id]
	return mt, ok
}

// Arrow returns the arrow.DataType used to back a minor type's value vector.
func (m MinorType) Arrow() arrow.DataType {
	switch m {
	case Null:
		return arrow.Null
	case Bit:
		return arrow.FixedWidthTypes.Boolean
	case TinyInt:
		return arrow.PrimitiveTypes.Int8
	case BigInt:
		return arrow.PrimitiveTypes.Int64
	case Float8:
		return arrow.PrimitiveTypes.Float64
	case VarChar, Keyword:
		return arrow.BinaryTypes.String
	case VarBinary, ExtensionType:
		return arrow.BinaryTypes.Binary
	case TimestampMilli:
		return arrow.FixedWidthTypes.Timestamp_ms
	case Duration:
		return arrow.FixedWidthTypes.Duration_ms
	default:
		return nil
	}
}

// FormatTimestampMilli renders a TIMESTAMP_MILLI value the way the CLI's
// query output and logs do, sharing modernc.org/sqlite's own strftime
// dependency rather than hand-rolling a time layout string.
func FormatTimestampMilli(t time.Time) string {
	return strftime.Format("%Y-%m-%d %H:%M:%S.%f", t)
}

// FromArrow maps an arrow.DataType back to a minor type. Returns false for
// types with no minor-type counterpart.
func FromArrow(dt arrow.DataType) (MinorType, bool) {
	if dt == nil {
		return Null, false
	}
	switch dt.ID() {
	case arrow.NULL:
		return Null, true
	case arrow.BOOL:
		return Bit, true
	case arrow.INT8:
		return TinyInt, true
	case arrow.INT64:
		return BigInt, true
	case arrow.FLOAT64:
		return Float8, true
	case arrow.STRING, arrow.LARGE_STRING:
		return VarChar, true
	case arrow.BINARY, arrow.LARGE_BINARY:
		return VarBinary, true
	case arrow.TIMESTAMP:
		return TimestampMilli, true
	case arrow.DURATION:
		return Duration, true
	default:
		return Null, false
	}
}
