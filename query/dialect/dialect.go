// Package dialect holds the per-database rules the compiler relies on:
// identifier quoting, placeholder syntax, boolean and date coercion.
package dialect

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

const (
	MySQL    = "mysql"
	Postgres = "postgres"
	SQLite   = "sqlite"
)

// ErrUnsupported is matched by every UnsupportedError
var ErrUnsupported = errors.New("unsupported dialect")

// Dialect describes the syntax of one target database
type Dialect interface {
	// Name returns the dialect tag.
	Name() string
	// QuoteIdentifier quotes a table or column name.
	QuoteIdentifier(name string) string
	// Placeholder returns the token for the value bound at position
	// (1-based, counting the value just bound).
	Placeholder(position int) string
	// Bool converts a boolean into the value handed to the driver.
	Bool(b bool) interface{}
	// FormatTime renders a time as the dialect's date-time text.
	FormatTime(t time.Time) string
	// SupportsOperator reports whether a where operator, lower case with
	// single spaces, is accepted by the dialect.
	SupportsOperator(operator string) bool
}

// commonOperators are accepted by every dialect.
var commonOperators = operatorSet(
	"=", "!=", "<>", "<", "<=", ">", ">=",
	"like", "not like",
	"in", "not in",
	"is", "is not",
	"between", "not between",
)

func operatorSet(operators ...string) map[string]bool {
	set := make(map[string]bool, len(operators))
	for _, op := range operators {
		set[op] = true
	}
	return set
}

func supports(extra map[string]bool, operator string) bool {
	return commonOperators[operator] || extra[operator]
}

// UnsupportedError is returned for an unknown dialect tag
type UnsupportedError struct {
	Name string
}

// Error implements the error interface.
func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("dialect '%s' is not supported yet", e.Name)
}

// Is reports whether target is ErrUnsupported.
func (e *UnsupportedError) Is(target error) bool {
	return target == ErrUnsupported
}

var dialects = map[string]Dialect{
	MySQL:    mysqlDialect{},
	Postgres: postgresDialect{},
	SQLite:   sqliteDialect{},
}

// Get returns the dialect registered for name
func Get(name string) (Dialect, error) {
	if d, ok := dialects[name]; ok {
		return d, nil
	}
	return nil, &UnsupportedError{Name: name}
}

// Names returns the supported dialect tags in sorted order
func Names() []string {
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
