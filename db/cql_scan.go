package db

import (
	"fmt"
	"math/big"
	"reflect"
	"time"

	"github.com/gocql/gocql"
	"gopkg.in/inf.v0"
)

// scanCqlRow reads the current row into a map keyed by column name. Values
// that have no JSON representation (bigint, uuid) are read as strings.
func scanCqlRow(scanner gocql.Scanner, columns []gocql.ColumnInfo) (map[string]interface{}, error) {
	values := make([]interface{}, len(columns))
	for i, column := range columns {
		dest := cqlDestination(column.TypeInfo)
		if dest == nil {
			return nil, fmt.Errorf("support for CQL type not found: %s", column.TypeInfo.Type().String())
		}
		values[i] = dest
	}

	if err := scanner.Scan(values...); err != nil {
		return nil, err
	}

	row := make(map[string]interface{}, len(columns))
	for i, column := range columns {
		// dereference once, leaving a typed nil pointer for null columns
		row[column.Name] = reflect.Indirect(reflect.ValueOf(values[i])).Interface()
	}
	return row, nil
}

func cqlDestination(info gocql.TypeInfo) interface{} {
	switch info.Type() {
	case gocql.TypeVarchar, gocql.TypeAscii, gocql.TypeInet, gocql.TypeText,
		gocql.TypeBigInt, gocql.TypeCounter, gocql.TypeTimeUUID, gocql.TypeUUID:
		return new(*string)
	case gocql.TypeBoolean:
		return new(*bool)
	case gocql.TypeFloat:
		return new(*float32)
	case gocql.TypeDouble:
		return new(*float64)
	case gocql.TypeInt:
		return new(*int)
	case gocql.TypeSmallInt:
		return new(*int16)
	case gocql.TypeTinyInt:
		return new(*int8)
	case gocql.TypeDecimal:
		return new(*inf.Dec)
	case gocql.TypeVarint:
		return new(*big.Int)
	case gocql.TypeTimestamp:
		return new(*time.Time)
	default:
		return nil
	}
}
