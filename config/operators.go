package config

import (
	"fmt"

	"github.com/datastax/urlquery/query"
)

// Operators is the set of filter operators a resource accepts.
type Operators int

const (
	OpEq Operators = 1 << iota
	OpNe
	OpGt
	OpGe
	OpLt
	OpLe
)

// AllOperators accepts every operator of the filter grammar.
const AllOperators = OpEq | OpNe | OpGt | OpGe | OpLt | OpLe

func Ops(ops ...string) (Operators, error) {
	var o Operators
	err := o.Add(ops...)
	return o, err
}

func (o *Operators) Set(ops Operators)             { *o |= ops }
func (o *Operators) Clear(ops Operators)           { *o &= ^ops }
func (o Operators) IsSupported(ops Operators) bool { return o&ops != 0 }

// Supports reports whether filters using op are accepted.
func (o Operators) Supports(op query.Operator) bool {
	return o.IsSupported(1 << uint(op))
}

func (o *Operators) Add(ops ...string) error {
	for _, token := range ops {
		op, ok := query.ParseOperator(token)
		if !ok {
			return fmt.Errorf("invalid operator: %s", token)
		}
		o.Set(1 << uint(op))
	}
	return nil
}
