package dialect_test

import (
	"errors"
	"testing"
	"time"

	"github.com/sbelzile-nexapp/cotton/query/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_Unsupported(t *testing.T) {
	d, err := dialect.Get("oracle")
	require.Error(t, err)
	assert.Nil(t, d)
	assert.EqualError(t, err, "dialect 'oracle' is not supported yet")
	assert.True(t, errors.Is(err, dialect.ErrUnsupported))
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"mysql", "postgres", "sqlite"}, dialect.Names())
}

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		dialect string
		input   string
		want    string
	}{
		{dialect.Postgres, "users", `"users"`},
		{dialect.Postgres, `we"ird`, `"we""ird"`},
		{dialect.Postgres, "public.users", `"public.users"`},
		{dialect.MySQL, "users", "`users`"},
		{dialect.MySQL, "we`ird", "`we``ird`"},
		{dialect.SQLite, "users", "`users`"},
	}

	for _, tt := range tests {
		t.Run(tt.dialect+"/"+tt.input, func(t *testing.T) {
			d, err := dialect.Get(tt.dialect)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.QuoteIdentifier(tt.input))
		})
	}
}

func TestPlaceholder(t *testing.T) {
	pg, _ := dialect.Get(dialect.Postgres)
	my, _ := dialect.Get(dialect.MySQL)
	lite, _ := dialect.Get(dialect.SQLite)

	assert.Equal(t, "$1", pg.Placeholder(1))
	assert.Equal(t, "$12", pg.Placeholder(12))
	assert.Equal(t, "?", my.Placeholder(3))
	assert.Equal(t, "?", lite.Placeholder(3))
}

func TestBool(t *testing.T) {
	pg, _ := dialect.Get(dialect.Postgres)
	my, _ := dialect.Get(dialect.MySQL)
	lite, _ := dialect.Get(dialect.SQLite)

	assert.Equal(t, true, pg.Bool(true))
	assert.Equal(t, 1, my.Bool(true))
	assert.Equal(t, 0, my.Bool(false))
	assert.Equal(t, 1, lite.Bool(true))
}

func TestFormatTime(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	ts := time.Date(2024, time.March, 5, 14, 30, 15, 0, loc)

	my, _ := dialect.Get(dialect.MySQL)
	lite, _ := dialect.Get(dialect.SQLite)
	pg, _ := dialect.Get(dialect.Postgres)

	assert.Equal(t, "2024-03-05 12:30:15", my.FormatTime(ts))
	assert.Equal(t, "2024-03-05 12:30:15", lite.FormatTime(ts))
	assert.Equal(t, "2024-03-05 14:30:15+02:00", pg.FormatTime(ts))
}

func TestSupportsOperator(t *testing.T) {
	pg, _ := dialect.Get(dialect.Postgres)
	my, _ := dialect.Get(dialect.MySQL)
	lite, _ := dialect.Get(dialect.SQLite)

	for _, d := range []dialect.Dialect{pg, my, lite} {
		for _, op := range []string{"=", "<>", "like", "not in", "is not", "not between"} {
			assert.True(t, d.SupportsOperator(op), "%s %s", d.Name(), op)
		}
		assert.False(t, d.SupportsOperator("= 1; drop table t; --"), d.Name())
		assert.False(t, d.SupportsOperator("NOT IN"), "operators arrive normalized")
	}

	assert.True(t, pg.SupportsOperator("~*"))
	assert.True(t, pg.SupportsOperator("ilike"))
	assert.False(t, my.SupportsOperator("ilike"))
	assert.True(t, my.SupportsOperator("regexp"))
	assert.True(t, lite.SupportsOperator("glob"))
	assert.False(t, pg.SupportsOperator("glob"))
}
