// types package contains the public API types
// that are shared between the REST layer and the database layer
package types

import (
	"fmt"
	"net/http"
)

// ColumnType is the declared type a bind value is converted to.
// Names follow the CQL type names.
type ColumnType string

const (
	TypeText      ColumnType = "text"
	TypeAscii     ColumnType = "ascii"
	TypeVarchar   ColumnType = "varchar"
	TypeInt       ColumnType = "int"
	TypeSmallInt  ColumnType = "smallint"
	TypeTinyInt   ColumnType = "tinyint"
	TypeBigInt    ColumnType = "bigint"
	TypeCounter   ColumnType = "counter"
	TypeFloat     ColumnType = "float"
	TypeDouble    ColumnType = "double"
	TypeDecimal   ColumnType = "decimal"
	TypeVarint    ColumnType = "varint"
	TypeBoolean   ColumnType = "boolean"
	TypeTimestamp ColumnType = "timestamp"
	TypeTime      ColumnType = "time"
	TypeUUID      ColumnType = "uuid"
	TypeTimeUUID  ColumnType = "timeuuid"
	TypeBlob      ColumnType = "blob"
)

var columnTypes = map[ColumnType]bool{
	TypeText: true, TypeAscii: true, TypeVarchar: true,
	TypeInt: true, TypeSmallInt: true, TypeTinyInt: true, TypeBigInt: true, TypeCounter: true,
	TypeFloat: true, TypeDouble: true, TypeDecimal: true, TypeVarint: true,
	TypeBoolean: true, TypeTimestamp: true, TypeTime: true,
	TypeUUID: true, TypeTimeUUID: true, TypeBlob: true,
}

func ParseColumnType(name string) (ColumnType, error) {
	t := ColumnType(name)
	if !columnTypes[t] {
		return "", fmt.Errorf("invalid column type: %s", name)
	}
	return t, nil
}

// Route represents a request route to be served
type Route struct {
	Method  string
	Pattern string
	Handler http.Handler
}
