// Package ast defines the query description consumed by the compiler.
package ast

// Query is an immutable description of a single statement.
type Query interface {
	Type() NodeType
	Table() string
}

// NodeType represents the kind of statement a Query describes
type NodeType string

const (
	NodeTypeSelect  NodeType = "select"
	NodeTypeInsert  NodeType = "insert"
	NodeTypeReplace NodeType = "replace"
	NodeTypeUpdate  NodeType = "update"
	NodeTypeDelete  NodeType = "delete"
)

// SelectQuery reads rows from a table.
// An empty Columns list selects every column.
type SelectQuery struct {
	TableName string
	Columns   []string
	Constraints
}

func (q *SelectQuery) Type() NodeType { return NodeTypeSelect }
func (q *SelectQuery) Table() string  { return q.TableName }

// InsertQuery inserts one or more records. With Replace set it
// compiles to REPLACE INTO instead of INSERT INTO.
type InsertQuery struct {
	TableName string
	Records   []Record
	Replace   bool
	Returning []string
}

func (q *InsertQuery) Type() NodeType {
	if q.Replace {
		return NodeTypeReplace
	}
	return NodeTypeInsert
}

func (q *InsertQuery) Table() string { return q.TableName }

// UpdateQuery sets column values on matching rows
type UpdateQuery struct {
	TableName string
	Values    Record
	Returning []string
	Constraints
}

func (q *UpdateQuery) Type() NodeType { return NodeTypeUpdate }
func (q *UpdateQuery) Table() string  { return q.TableName }

// DeleteQuery removes matching rows. It never compiles without at least
// one where clause.
type DeleteQuery struct {
	TableName string
	Constraints
}

func (q *DeleteQuery) Type() NodeType { return NodeTypeDelete }
func (q *DeleteQuery) Table() string  { return q.TableName }

// Constraints holds the clauses appended after the primary clause of a
// select, update or delete.
type Constraints struct {
	Wheres []Where
	Orders []Order
	Limit  *int
	Offset *int
}

// Where is a single predicate. For the "between" operator Value must be a
// two element sequence.
type Where struct {
	Column   string
	Operator string
	Value    interface{}
	Type     WhereType
}

// WhereType controls the keyword joining a where clause to the previous one
type WhereType int

const (
	WhereDefault WhereType = iota
	WhereNot
	WhereOr
)

func (t WhereType) String() string {
	switch t {
	case WhereNot:
		return "not"
	case WhereOr:
		return "or"
	default:
		return "default"
	}
}

// Order represents a single ORDER BY entry
type Order struct {
	Column    string
	Direction SortDirection
}

// SortDirection represents sort direction
type SortDirection string

const (
	Asc  SortDirection = "ASC"
	Desc SortDirection = "DESC"
)
