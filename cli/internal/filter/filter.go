// Package filter parses textual where expressions into query constraints.
package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sbelzile-nexapp/cotton/query/ast"
)

// Parse converts an expression such as
//
//	age >= 18 and not name like 'a%' or id in (1, 2)
//
// into where conditions in source order. A leading "not" or an "and not"
// produces a negated condition; "or not" cannot be expressed by a single
// condition and is rejected.
func Parse(input string) ([]ast.Where, error) {
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}

	expr, err := parser.ParseString("where", input)
	if err != nil {
		return nil, fmt.Errorf("invalid where expression: %w", err)
	}

	first, err := expr.Head.where()
	if err != nil {
		return nil, err
	}
	if expr.Head.Not {
		first.Type = ast.WhereNot
	}
	wheres := []ast.Where{first}

	for _, c := range expr.Tail {
		w, err := c.Condition.where()
		if err != nil {
			return nil, err
		}

		switch conjunction := strings.ToLower(c.Conjunction); {
		case conjunction == "or" && c.Condition.Not:
			return nil, fmt.Errorf("%s: \"or not\" is not supported", c.Condition.Pos)
		case conjunction == "or":
			w.Type = ast.WhereOr
		case c.Condition.Not:
			w.Type = ast.WhereNot
		}
		wheres = append(wheres, w)
	}

	return wheres, nil
}

// ParseAll parses several expressions and concatenates the conditions.
func ParseAll(inputs []string) ([]ast.Where, error) {
	var wheres []ast.Where
	for _, input := range inputs {
		parsed, err := Parse(input)
		if err != nil {
			return nil, err
		}
		wheres = append(wheres, parsed...)
	}
	return wheres, nil
}

func (c *condition) where() (ast.Where, error) {
	if c.Between != nil {
		low, err := c.Between.Low.convert()
		if err != nil {
			return ast.Where{}, err
		}
		high, err := c.Between.High.convert()
		if err != nil {
			return ast.Where{}, err
		}
		return ast.Where{Column: c.Column, Operator: "between", Value: []interface{}{low, high}}, nil
	}

	operator := strings.ToLower(strings.Join(c.Compare.Operator, " "))
	isList := c.Compare.Value.List != nil
	isIn := operator == "in" || operator == "not in"
	if isIn && !isList {
		return ast.Where{}, fmt.Errorf("%s: %s requires a parenthesized list", c.Pos, operator)
	}
	if !isIn && isList {
		return ast.Where{}, fmt.Errorf("%s: a list is only valid with in", c.Pos)
	}

	v, err := c.Compare.Value.convert()
	if err != nil {
		return ast.Where{}, err
	}
	return ast.Where{Column: c.Column, Operator: operator, Value: v}, nil
}

func (v *value) convert() (interface{}, error) {
	switch {
	case v.Null:
		return nil, nil
	case v.Bool != nil:
		return strings.EqualFold(*v.Bool, "true"), nil
	case v.Number != nil:
		if !strings.Contains(*v.Number, ".") {
			if n, err := strconv.ParseInt(*v.Number, 10, 64); err == nil {
				return n, nil
			}
		}
		f, err := strconv.ParseFloat(*v.Number, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid number %s", v.Pos, *v.Number)
		}
		return f, nil
	case v.String != nil:
		s := *v.String
		return strings.ReplaceAll(s[1:len(s)-1], "''", "'"), nil
	default:
		list := make([]interface{}, len(v.List))
		for i, item := range v.List {
			if item.List != nil {
				return nil, fmt.Errorf("%s: nested lists are not supported", item.Pos)
			}
			converted, err := item.convert()
			if err != nil {
				return nil, err
			}
			list[i] = converted
		}
		return list, nil
	}
}
