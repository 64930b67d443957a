// Package queryfile reads JSON query descriptions used by the CLI.
package queryfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/sbelzile-nexapp/cotton/query/ast"
)

// File is the JSON form of a query description:
//
//	{
//	  "type": "select",
//	  "table": "users",
//	  "columns": ["id", "name"],
//	  "where": [{"column": "age", "operator": ">", "value": 18}],
//	  "orderBy": [{"column": "id", "direction": "desc"}],
//	  "limit": 10,
//	  "requires": ">= 0.1"
//	}
//
// Values of insert, replace and update are an object or an array of
// objects; column order follows the document. A value written as
// {"$date": "2024-01-02T03:04:05Z"} is bound as a time.
type File struct {
	Type      string      `json:"type"`
	Table     string      `json:"table"`
	Columns   []string    `json:"columns,omitempty"`
	Where     []Condition `json:"where,omitempty"`
	OrderBy   []Order     `json:"orderBy,omitempty"`
	Limit     *int        `json:"limit,omitempty"`
	Offset    *int        `json:"offset,omitempty"`
	Values    Records     `json:"values,omitempty"`
	Returning []string    `json:"returning,omitempty"`
	Requires  string      `json:"requires,omitempty"`
}

// Condition is a where clause. Type is "and" (default), "not" or "or".
type Condition struct {
	Column   string `json:"column"`
	Operator string `json:"operator"`
	Value    Value  `json:"value"`
	Type     string `json:"type,omitempty"`
}

// Order is an order by clause. Direction defaults to ascending.
type Order struct {
	Column    string `json:"column"`
	Direction string `json:"direction,omitempty"`
}

// Value is a decoded JSON value with numbers narrowed to int64 where
// possible and $date objects converted to time.Time.
type Value struct {
	V interface{}
}

// UnmarshalJSON implements json.Unmarshaler
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	normalized, err := normalize(raw)
	if err != nil {
		return err
	}
	v.V = normalized
	return nil
}

// Records holds the rows of an insert or the assignments of an update
type Records []ast.Record

// UnmarshalJSON accepts a single object or an array of objects and keeps
// the key order of each object.
func (r *Records) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}

	switch tok {
	case nil:
		*r = nil
		return nil
	case json.Delim('{'):
		record, err := decodeRecord(dec)
		if err != nil {
			return err
		}
		*r = Records{record}
		return nil
	case json.Delim('['):
		records := Records{}
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return err
			}
			if tok != json.Delim('{') {
				return fmt.Errorf("values: expected an object, got %v", tok)
			}
			record, err := decodeRecord(dec)
			if err != nil {
				return err
			}
			records = append(records, record)
		}
		if _, err := dec.Token(); err != nil {
			return err
		}
		*r = records
		return nil
	default:
		return fmt.Errorf("values: expected an object or an array, got %v", tok)
	}
}

// decodeRecord reads object members after the opening brace
func decodeRecord(dec *json.Decoder) (ast.Record, error) {
	record := ast.Record{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		column, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("values: expected a column name, got %v", tok)
		}

		var raw interface{}
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		value, err := normalize(raw)
		if err != nil {
			return nil, fmt.Errorf("values.%s: %w", column, err)
		}
		record = record.Set(column, value)
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return record, nil
}

func normalize(raw interface{}) (interface{}, error) {
	switch v := raw.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, nil
		}
		return v.Float64()
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			n, err := normalize(item)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case map[string]interface{}:
		date, ok := v["$date"].(string)
		if !ok || len(v) != 1 {
			return nil, errors.New(`objects are only supported as {"$date": "<RFC 3339 time>"}`)
		}
		t, err := time.Parse(time.RFC3339Nano, date)
		if err != nil {
			return nil, fmt.Errorf("invalid $date: %w", err)
		}
		return t, nil
	default:
		return v, nil
	}
}

// Read decodes a query file. Unknown fields are rejected.
func Read(r io.Reader) (*File, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode query file: %w", err)
	}
	return &f, nil
}

// Load reads and decodes the query file at path on fs
func Load(fs afero.Fs, path string) (*File, error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open query file: %w", err)
	}
	defer file.Close()

	f, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Query converts the file into a query description. extra conditions are
// appended after the file's own where clauses.
func (f *File) Query(extra ...ast.Where) (ast.Query, error) {
	wheres, err := f.wheres()
	if err != nil {
		return nil, err
	}
	wheres = append(wheres, extra...)

	orders, err := f.orders()
	if err != nil {
		return nil, err
	}

	constraints := ast.Constraints{
		Wheres: wheres,
		Orders: orders,
		Limit:  f.Limit,
		Offset: f.Offset,
	}

	switch ast.NodeType(strings.ToLower(f.Type)) {
	case ast.NodeTypeSelect:
		return &ast.SelectQuery{TableName: f.Table, Columns: f.Columns, Constraints: constraints}, nil

	case ast.NodeTypeInsert, ast.NodeTypeReplace:
		if hasConstraints(constraints) {
			return nil, fmt.Errorf("%s does not accept where, orderBy, limit or offset", f.Type)
		}
		return &ast.InsertQuery{
			TableName: f.Table,
			Records:   f.Values,
			Replace:   strings.EqualFold(f.Type, string(ast.NodeTypeReplace)),
			Returning: f.Returning,
		}, nil

	case ast.NodeTypeUpdate:
		if len(f.Values) > 1 {
			return nil, errors.New("update takes a single values object")
		}
		var values ast.Record
		if len(f.Values) == 1 {
			values = f.Values[0]
		}
		return &ast.UpdateQuery{TableName: f.Table, Values: values, Returning: f.Returning, Constraints: constraints}, nil

	case ast.NodeTypeDelete:
		return &ast.DeleteQuery{TableName: f.Table, Constraints: constraints}, nil

	default:
		return nil, fmt.Errorf("unknown query type %q", f.Type)
	}
}

func (f *File) wheres() ([]ast.Where, error) {
	wheres := make([]ast.Where, 0, len(f.Where))
	for i, c := range f.Where {
		var whereType ast.WhereType
		switch strings.ToLower(c.Type) {
		case "", "and":
			whereType = ast.WhereDefault
		case "not":
			whereType = ast.WhereNot
		case "or":
			whereType = ast.WhereOr
		default:
			return nil, fmt.Errorf("where[%d]: unknown type %q", i, c.Type)
		}
		wheres = append(wheres, ast.Where{
			Column:   c.Column,
			Operator: c.Operator,
			Value:    c.Value.V,
			Type:     whereType,
		})
	}
	return wheres, nil
}

func (f *File) orders() ([]ast.Order, error) {
	orders := make([]ast.Order, 0, len(f.OrderBy))
	for i, o := range f.OrderBy {
		switch strings.ToUpper(o.Direction) {
		case "", string(ast.Asc):
			orders = append(orders, ast.Order{Column: o.Column, Direction: ast.Asc})
		case string(ast.Desc):
			orders = append(orders, ast.Order{Column: o.Column, Direction: ast.Desc})
		default:
			return nil, fmt.Errorf("orderBy[%d]: unknown direction %q", i, o.Direction)
		}
	}
	return orders, nil
}

func hasConstraints(c ast.Constraints) bool {
	return len(c.Wheres) > 0 || len(c.Orders) > 0 || c.Limit != nil || c.Offset != nil
}
