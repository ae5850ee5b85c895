package types

import (
	"encoding"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/gocql/gocql"
	"gopkg.in/inf.v0"

	"github.com/datastax/urlquery/query"
)

// CoercionError reports a bind value that could not be converted to the declared column type.
type CoercionError struct {
	Field string
	Value string
	Type  ColumnType
	Err   error
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("value %q of field %s is not a valid %s", e.Value, e.Field, e.Type)
}

func (e *CoercionError) Unwrap() error {
	return e.Err
}

type fromStringFn func(value string) (interface{}, error)

// Bind converts the values produced for the filters of q into typed parameters.
// values[i] belongs to the i-th filter and is converted with the type declared
// for that filter's field; fields without a declared type are bound as text.
func Bind(q *query.Query, values []string, columns map[string]ColumnType) ([]interface{}, error) {
	filters := q.Filters()
	if len(filters) != len(values) {
		return nil, fmt.Errorf("got %d values for %d filters", len(values), len(filters))
	}

	params := make([]interface{}, len(values))
	for i, value := range values {
		field := filters[i].Field
		columnType, ok := columns[field]
		if !ok {
			columnType = TypeText
		}

		param, err := FromString(value, columnType)
		if err != nil {
			return nil, &CoercionError{Field: field, Value: value, Type: columnType, Err: err}
		}
		params[i] = param
	}

	return params, nil
}

// FromString converts a raw query value to the Go representation used for columnType.
func FromString(value string, columnType ColumnType) (interface{}, error) {
	return converterPerType(columnType)(value)
}

func converterPerType(columnType ColumnType) fromStringFn {
	switch columnType {
	case TypeInt:
		return intOfSize(strconv.IntSize, func(n int64) interface{} { return int(n) })
	case TypeSmallInt:
		return intOfSize(16, func(n int64) interface{} { return int16(n) })
	case TypeTinyInt:
		return intOfSize(8, func(n int64) interface{} { return int8(n) })
	case TypeBigInt, TypeCounter:
		return intOfSize(64, func(n int64) interface{} { return n })
	case TypeFloat:
		return StringToFloat32
	case TypeDouble:
		return StringToFloat64
	case TypeBoolean:
		return StringToBool
	case TypeTimestamp:
		return StringToTime
	case TypeDecimal:
		return StringToDecimal
	case TypeVarint:
		return StringToBigInt
	case TypeBlob:
		return Base64StringToByteArray
	case TypeTime:
		return CqlFormattedStringToDuration
	case TypeUUID, TypeTimeUUID:
		return StringToUUID
	}

	return identityFn
}

func identityFn(value string) (interface{}, error) {
	return value, nil
}

func intOfSize(bitSize int, convert func(int64) interface{}) fromStringFn {
	return func(value string) (interface{}, error) {
		n, err := strconv.ParseInt(value, 10, bitSize)
		if err != nil {
			return nil, err
		}
		return convert(n), nil
	}
}

func StringToFloat32(value string) (interface{}, error) {
	f, err := strconv.ParseFloat(value, 32)
	if err != nil {
		return nil, err
	}
	return float32(f), nil
}

func StringToFloat64(value string) (interface{}, error) {
	return strconv.ParseFloat(value, 64)
}

func StringToBool(value string) (interface{}, error) {
	return strconv.ParseBool(value)
}

func StringToTime(value string) (interface{}, error) {
	var t time.Time
	if err := t.UnmarshalText([]byte(value)); err != nil {
		return nil, err
	}
	return t, nil
}

func StringToUUID(value string) (interface{}, error) {
	return gocql.ParseUUID(value)
}

func Base64StringToByteArray(value string) (interface{}, error) {
	return base64.StdEncoding.DecodeString(value)
}

// CqlFormattedStringToDuration parses hh:mm:ss[.fffffffff]
func CqlFormattedStringToDuration(value string) (interface{}, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return nil, errors.New("time has wrong format")
	}

	secs := parts[2]
	nanos := "0"
	if strings.Contains(parts[2], ".") {
		secParts := strings.Split(parts[2], ".")
		secs = secParts[0]
		nanos = secParts[1]
		// Pad right zeros
		if len(nanos) < 9 {
			nanos = nanos + strings.Repeat("0", 9-len(nanos))
		}
	}

	duration, err := time.ParseDuration(fmt.Sprintf("%sh%sm%ss%sns", parts[0], parts[1], secs, nanos))
	if err != nil {
		return nil, errors.New("time has wrong format")
	}
	return duration, nil
}

func unmarshallerFromText(factory func() encoding.TextUnmarshaler) fromStringFn {
	return func(value string) (interface{}, error) {
		t := factory()
		if err := t.UnmarshalText([]byte(value)); err != nil {
			return nil, err
		}
		return t, nil
	}
}

var StringToDecimal = unmarshallerFromText(func() encoding.TextUnmarshaler {
	return &inf.Dec{}
})

var StringToBigInt = unmarshallerFromText(func() encoding.TextUnmarshaler {
	return &big.Int{}
})
