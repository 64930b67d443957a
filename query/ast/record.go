package ast

import "sort"

// Field is a single column/value pair of a Record
type Field struct {
	Column string
	Value  interface{}
}

// Record is an ordered mapping of column to value. The slice order is the
// iteration order used when emitting columns.
type Record []Field

// RecordFromMap builds a Record from a map. Go maps have no iteration
// order, so columns are sorted to keep compilation deterministic.
func RecordFromMap(m map[string]interface{}) Record {
	columns := make([]string, 0, len(m))
	for column := range m {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	record := make(Record, 0, len(columns))
	for _, column := range columns {
		record = append(record, Field{Column: column, Value: m[column]})
	}
	return record
}

// Get returns the value stored for column and whether it is present
func (r Record) Get(column string) (interface{}, bool) {
	for _, f := range r {
		if f.Column == column {
			return f.Value, true
		}
	}
	return nil, false
}

// Set replaces the value of an existing column or appends a new one.
func (r Record) Set(column string, value interface{}) Record {
	for i, f := range r {
		if f.Column == column {
			r[i].Value = value
			return r
		}
	}
	return append(r, Field{Column: column, Value: value})
}

// Columns returns the record's columns in order
func (r Record) Columns() []string {
	columns := make([]string, len(r))
	for i, f := range r {
		columns[i] = f.Column
	}
	return columns
}
