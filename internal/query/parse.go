package query

import (
	"fmt"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/shlex"

	"github.com/dmitrijs2005/usersapi/internal/common"
	"github.com/dmitrijs2005/usersapi/internal/schema"
)

// Clause is a single comparison read from a query string.
type Clause struct {
	Path  string
	Op    string
	Value string
}

var operators = map[string]struct{}{
	"=": {}, "!=": {}, "<": {}, "<=": {}, ">": {}, ">=": {},
}

const conjunction = "AND"

// Parse splits a query string into clauses. The empty string parses to no
// clauses.
func Parse(q string) ([]Clause, error) {
	if strings.TrimSpace(q) == "" {
		return nil, nil
	}

	tokens, err := shlex.Split(q)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed query %q: %v", common.ErrorValidation, q, err)
	}

	var clauses []Clause
	for i := 0; i < len(tokens); {
		if len(tokens)-i < 3 {
			return nil, fmt.Errorf("%w: incomplete comparison in %q", common.ErrorValidation, q)
		}
		c := Clause{Path: tokens[i], Op: tokens[i+1], Value: tokens[i+2]}
		if _, ok := operators[c.Op]; !ok {
			return nil, fmt.Errorf("%w: unknown operator %q", common.ErrorValidation, c.Op)
		}
		clauses = append(clauses, c)
		i += 3

		if i == len(tokens) {
			break
		}
		if !strings.EqualFold(tokens[i], conjunction) {
			return nil, fmt.Errorf("%w: expected AND, got %q", common.ErrorValidation, tokens[i])
		}
		i++
		if i == len(tokens) {
			return nil, fmt.Errorf("%w: dangling AND in %q", common.ErrorValidation, q)
		}
	}
	return clauses, nil
}

// ToSQL binds clauses to the columns of obj. Values of int fields are
// converted to integers; every value ends up as a bound parameter.
func ToSQL(clauses []Clause, obj *schema.Object) (sq.Sqlizer, error) {
	and := sq.And{}
	for _, c := range clauses {
		field, column, err := obj.Resolve(c.Path)
		if err != nil {
			return nil, err
		}

		var value any = c.Value
		if field.Kind == schema.KindInt {
			n, err := strconv.ParseInt(c.Value, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %s expects an integer, got %q", common.ErrorValidation, c.Path, c.Value)
			}
			value = n
		}

		switch c.Op {
		case "=":
			and = append(and, sq.Eq{column: value})
		case "!=":
			and = append(and, sq.NotEq{column: value})
		case "<":
			and = append(and, sq.Lt{column: value})
		case "<=":
			and = append(and, sq.LtOrEq{column: value})
		case ">":
			and = append(and, sq.Gt{column: value})
		case ">=":
			and = append(and, sq.GtOrEq{column: value})
		default:
			return nil, fmt.Errorf("%w: unknown operator %q", common.ErrorValidation, c.Op)
		}
	}
	return and, nil
}
