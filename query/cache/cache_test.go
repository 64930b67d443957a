package cache

import (
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/sbelzile-nexapp/cotton/query/ast"
	"github.com/sbelzile-nexapp/cotton/query/compiler"
	"github.com/sbelzile-nexapp/cotton/query/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stmt(text string, values ...interface{}) *compiler.Statement {
	return &compiler.Statement{Text: text, Values: values}
}

func TestCache_GetSet(t *testing.T) {
	c := New(2, 0)

	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Set("a", stmt("SELECT 1;", 1))
	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "SELECT 1;", got.Text)

	got.Values[0] = 99
	again, _ := c.Get("a")
	assert.Equal(t, []interface{}{1}, again.Values)

	stats := c.Stats()
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.Size)
	assert.InDelta(t, 66.67, stats.HitRate, 0.01)
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := New(2, 0)
	c.Set("a", stmt("a"))
	c.Set("b", stmt("b"))

	_, _ = c.Get("a")
	c.Set("c", stmt("c"))

	_, ok := c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, int64(1), c.Stats().Evictions)
}

func TestCache_TTL(t *testing.T) {
	c := New(10, time.Millisecond)
	c.Set("a", stmt("a"))

	time.Sleep(5 * time.Millisecond)

	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Stats().Size)
}

func TestCache_Invalidate(t *testing.T) {
	c := New(10, 0)
	c.Set("postgres:users:1", stmt("1"))
	c.Set("mysql:users:2", stmt("2"))
	c.Set("mysql:posts:3", stmt("3"))

	c.InvalidatePattern("*:users:*")
	assert.Equal(t, 1, c.Stats().Size)

	c.Invalidate("mysql:posts:3")
	assert.Equal(t, 0, c.Stats().Size)

	c.Set("x", stmt("x"))
	c.Clear()
	assert.Equal(t, Stats{MaxSize: 10}, c.Stats())
}

func TestKey(t *testing.T) {
	limit := 5
	otherLimit := 5
	a := &ast.SelectQuery{TableName: "users", Constraints: ast.Constraints{
		Wheres: []ast.Where{{Column: "id", Operator: "=", Value: 1}},
		Limit:  &limit,
	}}
	b := &ast.SelectQuery{TableName: "users", Constraints: ast.Constraints{
		Wheres: []ast.Where{{Column: "id", Operator: "=", Value: 1}},
		Limit:  &otherLimit,
	}}
	c := &ast.SelectQuery{TableName: "users", Constraints: ast.Constraints{
		Wheres: []ast.Where{{Column: "id", Operator: "=", Value: "1"}},
		Limit:  &limit,
	}}

	assert.Equal(t, Key(dialect.MySQL, a), Key(dialect.MySQL, b))
	assert.NotEqual(t, Key(dialect.MySQL, a), Key(dialect.MySQL, c))
	assert.NotEqual(t, Key(dialect.MySQL, a), Key(dialect.Postgres, a))
	assert.True(t, matchesPattern(Key(dialect.MySQL, a), "mysql:users:*"))

	insert := &ast.InsertQuery{TableName: "users", Records: []ast.Record{{{Column: "id", Value: 1}}}}
	replace := &ast.InsertQuery{TableName: "users", Records: insert.Records, Replace: true}
	assert.NotEqual(t, Key(dialect.SQLite, insert), Key(dialect.SQLite, replace))
}

type tagged struct {
	label *string
}

func (t tagged) Value() (driver.Value, error) {
	return *t.label, nil
}

func TestKey_FollowsPointersInsideValues(t *testing.T) {
	label := "draft"
	v := tagged{label: &label}
	q := &ast.SelectQuery{TableName: "posts", Constraints: ast.Constraints{
		Wheres: []ast.Where{{Column: "state", Operator: "=", Value: v}},
	}}

	before := Key(dialect.SQLite, q)
	assert.Equal(t, before, Key(dialect.SQLite, q))

	label = "published"
	assert.NotEqual(t, before, Key(dialect.SQLite, q))

	other := "draft"
	same := &ast.SelectQuery{TableName: "posts", Constraints: ast.Constraints{
		Wheres: []ast.Where{{Column: "state", Operator: "=", Value: tagged{label: &other}}},
	}}
	label = "draft"
	assert.Equal(t, Key(dialect.SQLite, q), Key(dialect.SQLite, same))
}

func TestKey_MapsAndCycles(t *testing.T) {
	type node struct {
		Name string
		Next *node
	}
	loop := &node{Name: "a"}
	loop.Next = loop

	a := &ast.InsertQuery{TableName: "t", Records: []ast.Record{{
		{Column: "meta", Value: map[string]int{"x": 1, "y": 2}},
		{Column: "loop", Value: loop},
	}}}
	b := &ast.InsertQuery{TableName: "t", Records: []ast.Record{{
		{Column: "meta", Value: map[string]int{"y": 2, "x": 1}},
		{Column: "loop", Value: loop},
	}}}
	assert.Equal(t, Key(dialect.MySQL, a), Key(dialect.MySQL, b))

	loop.Name = "b"
	assert.NotEqual(t, Key(dialect.MySQL, a), Key(dialect.MySQL, &ast.InsertQuery{TableName: "t", Records: []ast.Record{{
		{Column: "meta", Value: map[string]int{"x": 1, "y": 2}},
		{Column: "loop", Value: &node{Name: "a"}},
	}}}))
}

func TestCompiler_Memoizes_MutatedValuer(t *testing.T) {
	inner, err := compiler.New(dialect.SQLite)
	require.NoError(t, err)
	c := NewCompiler(inner, New(10, 0))

	label := "draft"
	q := &ast.DeleteQuery{TableName: "posts", Constraints: ast.Constraints{
		Wheres: []ast.Where{{Column: "state", Operator: "=", Value: tagged{label: &label}}},
	}}

	first, err := c.Compile(q)
	require.NoError(t, err)
	label = "published"
	second, err := c.Compile(q)
	require.NoError(t, err)

	assert.Equal(t, int64(0), c.Cache().Stats().Hits)
	assert.Equal(t, 2, c.Cache().Stats().Size)
	assert.NotSame(t, first, second)
}

func TestCompiler_TypedNilQuery(t *testing.T) {
	inner, err := compiler.New(dialect.MySQL)
	require.NoError(t, err)
	c := NewCompiler(inner, New(10, 0))

	stmt, err := c.Compile((*ast.UpdateQuery)(nil))
	assert.Nil(t, stmt)
	assert.True(t, errors.Is(err, compiler.ErrInvalidQuery))
	assert.Equal(t, 0, c.Cache().Stats().Size)
}

func TestCompiler_Memoizes(t *testing.T) {
	inner, err := compiler.New(dialect.Postgres)
	require.NoError(t, err)

	c := NewCompiler(inner, New(10, 0))
	q := &ast.DeleteQuery{TableName: "users", Constraints: ast.Constraints{
		Wheres: []ast.Where{{Column: "id", Operator: "=", Value: 1}},
	}}

	first, err := c.Compile(q)
	require.NoError(t, err)
	second, err := c.Compile(q)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, `DELETE FROM "users" WHERE "id" = $1;`, second.Text)
	assert.Equal(t, int64(1), c.Cache().Stats().Hits)

	_, err = c.Compile(&ast.DeleteQuery{TableName: "users"})
	assert.Error(t, err)
	assert.Equal(t, 1, c.Cache().Stats().Size)
}
