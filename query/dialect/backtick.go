package dialect

import (
	"strings"
	"time"
)

const dateTimeLayout = "2006-01-02 15:04:05"

var (
	mysqlOperators  = operatorSet("regexp", "not regexp", "rlike", "not rlike")
	sqliteOperators = operatorSet("glob", "not glob", "regexp", "not regexp", "match")
)

type mysqlDialect struct{}

func (mysqlDialect) Name() string                       { return MySQL }
func (mysqlDialect) QuoteIdentifier(name string) string { return quoteBacktick(name) }
func (mysqlDialect) Placeholder(int) string             { return "?" }
func (mysqlDialect) Bool(b bool) interface{}            { return boolToInt(b) }
func (mysqlDialect) FormatTime(t time.Time) string      { return t.UTC().Format(dateTimeLayout) }
func (mysqlDialect) SupportsOperator(op string) bool    { return supports(mysqlOperators, op) }

type sqliteDialect struct{}

func (sqliteDialect) Name() string                       { return SQLite }
func (sqliteDialect) QuoteIdentifier(name string) string { return quoteBacktick(name) }
func (sqliteDialect) Placeholder(int) string             { return "?" }
func (sqliteDialect) Bool(b bool) interface{}            { return boolToInt(b) }
func (sqliteDialect) FormatTime(t time.Time) string      { return t.UTC().Format(dateTimeLayout) }
func (sqliteDialect) SupportsOperator(op string) bool    { return supports(sqliteOperators, op) }

// quoteBacktick quotes an identifier for MySQL and SQLite, doubling any
// embedded backtick.
func quoteBacktick(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
