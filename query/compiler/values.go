package compiler

import (
	"database/sql/driver"
	"reflect"
	"strings"
	"time"

	"github.com/sbelzile-nexapp/cotton/query/dialect"
)

// accumulator collects the bound values of a single Compile call.
type accumulator struct {
	dialect dialect.Dialect
	values  []interface{}
}

func newAccumulator(d dialect.Dialect) *accumulator {
	return &accumulator{dialect: d, values: []interface{}{}}
}

func (a *accumulator) quote(name string) string {
	return a.dialect.QuoteIdentifier(name)
}

// toDatabaseValue turns a literal into SQL text. Every value except NULL is
// bound and replaced by a placeholder; sequences become a parenthesized
// placeholder list. A driver.Valuer is bound as a single value even when it
// is a slice type.
func (a *accumulator) toDatabaseValue(value interface{}) string {
	if isNil(value) {
		return "NULL"
	}

	if v, ok := value.(driver.Valuer); ok {
		return a.bind(v)
	}

	if elements, ok := sequence(value); ok {
		placeholders := make([]string, len(elements))
		for i, element := range elements {
			placeholders[i] = a.toDatabaseValue(element)
		}
		return "(" + strings.Join(placeholders, ", ") + ")"
	}

	switch v := value.(type) {
	case time.Time:
		return a.bind(a.dialect.FormatTime(v))
	case bool:
		return a.bind(a.dialect.Bool(v))
	}

	// Dereference pointers so *bool and *time.Time get the same coercion.
	if rv := reflect.ValueOf(value); rv.Kind() == reflect.Ptr {
		return a.toDatabaseValue(rv.Elem().Interface())
	}

	// Named bool types coerce like bool.
	if rv := reflect.ValueOf(value); rv.Kind() == reflect.Bool {
		return a.bind(a.dialect.Bool(rv.Bool()))
	}

	return a.bind(value)
}

// bind appends value and returns the placeholder referencing it.
func (a *accumulator) bind(value interface{}) string {
	a.values = append(a.values, value)
	return a.dialect.Placeholder(len(a.values))
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Chan, reflect.Func:
		return rv.IsNil()
	}
	return false
}

// sequence reports whether value is a slice or array and returns its
// elements. Byte slices are blobs, not sequences.
func sequence(value interface{}) ([]interface{}, bool) {
	if elements, ok := value.([]interface{}); ok {
		return elements, true
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}

	elements := make([]interface{}, rv.Len())
	for i := range elements {
		elements[i] = rv.Index(i).Interface()
	}
	return elements, true
}
