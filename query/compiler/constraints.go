package compiler

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/sbelzile-nexapp/cotton/query/ast"
)

const (
	betweenOperator    = "between"
	notBetweenOperator = "not between"
	inOperator         = "in"
	notInOperator      = "not in"
)

// collectConstraints builds the WHERE, ORDER BY, LIMIT and OFFSET
// fragments shared by select, update and delete. Absent steps emit nothing.
func collectConstraints(acc *accumulator, c ast.Constraints) ([]string, error) {
	var parts []string

	for i, where := range c.Wheres {
		expr, err := whereExpression(acc, where)
		if err != nil {
			return nil, err
		}
		parts = append(parts, wherePrefix(i, where.Type), expr)
	}

	if len(c.Orders) > 0 {
		orders := make([]string, len(c.Orders))
		for i, order := range c.Orders {
			orders[i] = fmt.Sprintf("%s %s", order.Column, direction(order.Direction))
		}
		parts = append(parts, "ORDER BY", strings.Join(orders, ", "))
	}

	if c.Limit != nil && *c.Limit > 0 {
		parts = append(parts, fmt.Sprintf("LIMIT %d", *c.Limit))
	}

	if c.Offset != nil && *c.Offset > 0 {
		parts = append(parts, fmt.Sprintf("OFFSET %d", *c.Offset))
	}

	return parts, nil
}

// wherePrefix returns the keyword leading the where clause at index.
// The first clause always opens with WHERE, even for an Or clause.
func wherePrefix(index int, t ast.WhereType) string {
	if index == 0 {
		if t == ast.WhereNot {
			return "WHERE NOT"
		}
		return "WHERE"
	}

	switch t {
	case ast.WhereNot:
		return "AND NOT"
	case ast.WhereOr:
		return "OR"
	default:
		return "AND"
	}
}

func whereExpression(acc *accumulator, where ast.Where) (string, error) {
	operator := strings.ToLower(strings.Join(strings.Fields(where.Operator), " "))
	if !acc.dialect.SupportsOperator(operator) {
		return "", newError(ErrUnsupportedOperator, "operator '%s' is not supported", where.Operator)
	}

	column := acc.quote(where.Column)

	switch operator {
	case betweenOperator, notBetweenOperator:
		bounds, ok := sequence(where.Value)
		if !ok || len(bounds) != 2 {
			return "", newError(ErrBetweenArity, "BETWEEN must have two values")
		}
		low := acc.toDatabaseValue(bounds[0])
		high := acc.toDatabaseValue(bounds[1])
		return fmt.Sprintf("%s %s %s and %s", column, operator, low, high), nil
	case inOperator, notInOperator:
		if emptyList(where.Value) {
			return "", newError(ErrEmptyList, "IN must have at least one value")
		}
	}

	return fmt.Sprintf("%s %s %s", column, where.Operator, acc.toDatabaseValue(where.Value)), nil
}

// emptyList reports whether an IN value would render as NULL or ().
func emptyList(value interface{}) bool {
	if isNil(value) {
		return true
	}
	if _, ok := value.(driver.Valuer); ok {
		return false
	}
	elements, ok := sequence(value)
	return ok && len(elements) == 0
}

func direction(d ast.SortDirection) ast.SortDirection {
	if strings.EqualFold(string(d), string(ast.Desc)) {
		return ast.Desc
	}
	return ast.Asc
}
