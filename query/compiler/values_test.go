package compiler

import (
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/sbelzile-nexapp/cotton/query/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAccumulator(t *testing.T, name string) *accumulator {
	d, err := dialect.Get(name)
	require.NoError(t, err)
	return newAccumulator(d)
}

type flag bool

func TestToDatabaseValue(t *testing.T) {
	active := true
	var missing *time.Time
	when := time.Date(2020, time.February, 29, 23, 59, 59, 0, time.UTC)

	tests := []struct {
		name       string
		value      interface{}
		wantText   string
		wantValues []interface{}
	}{
		{"nil", nil, "NULL", []interface{}{}},
		{"typed nil pointer", missing, "NULL", []interface{}{}},
		{"nil slice", []int(nil), "NULL", []interface{}{}},
		{"string", "x", "?", []interface{}{"x"}},
		{"bool", false, "?", []interface{}{0}},
		{"bool pointer", &active, "?", []interface{}{1}},
		{"named bool", flag(true), "?", []interface{}{1}},
		{"named bool in sequence", []flag{false, true}, "(?, ?)", []interface{}{0, 1}},
		{"time", when, "?", []interface{}{"2020-02-29 23:59:59"}},
		{"time pointer", &when, "?", []interface{}{"2020-02-29 23:59:59"}},
		{"sequence", []interface{}{1, nil, true}, "(?, NULL, ?)", []interface{}{1, 1}},
		{"typed sequence", []string{"a", "b"}, "(?, ?)", []interface{}{"a", "b"}},
		{"empty sequence", []int{}, "()", []interface{}{}},
		{"bytes are not a sequence", []byte("raw"), "?", []interface{}{[]byte("raw")}},
		{"valuer slice is a single value", pq.StringArray{"a", "b"}, "?", []interface{}{pq.StringArray{"a", "b"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := newTestAccumulator(t, dialect.SQLite)
			assert.Equal(t, tt.wantText, acc.toDatabaseValue(tt.value))
			assert.Equal(t, tt.wantValues, acc.values)
		})
	}
}

func TestToDatabaseValue_PostgresNumbering(t *testing.T) {
	acc := newTestAccumulator(t, dialect.Postgres)

	assert.Equal(t, "$1", acc.toDatabaseValue("a"))
	assert.Equal(t, "NULL", acc.toDatabaseValue(nil))
	assert.Equal(t, "($2, NULL, $3)", acc.toDatabaseValue([]interface{}{true, nil, 4}))
	assert.Equal(t, "$4", acc.toDatabaseValue(5))
	assert.Equal(t, []interface{}{"a", true, 4, 5}, acc.values)
}
