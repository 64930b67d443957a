package dialect

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

const postgresTimeLayout = "2006-01-02 15:04:05.999999-07:00"

var postgresOperators = operatorSet(
	"ilike", "not ilike",
	"~", "~*", "!~", "!~*",
	"similar to", "not similar to",
	"is distinct from", "is not distinct from",
)

type postgresDialect struct{}

func (postgresDialect) Name() string { return Postgres }

// QuoteIdentifier wraps name in double quotes. The name is treated as a
// single identifier, so a dot stays inside the quotes.
func (postgresDialect) QuoteIdentifier(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func (postgresDialect) Placeholder(position int) string {
	return fmt.Sprintf("$%d", position)
}

func (postgresDialect) Bool(b bool) interface{} { return b }

func (postgresDialect) FormatTime(t time.Time) string {
	return t.Format(postgresTimeLayout)
}

func (postgresDialect) SupportsOperator(op string) bool {
	return supports(postgresOperators, op)
}
