package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbelzile-nexapp/cotton/query/ast"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []ast.Where
	}{
		{
			name:  "empty",
			input: "  ",
			want:  nil,
		},
		{
			name:  "single comparison",
			input: "age >= 18",
			want:  []ast.Where{{Column: "age", Operator: ">=", Value: int64(18)}},
		},
		{
			name:  "string with escaped quote",
			input: "name = 'o''brien'",
			want:  []ast.Where{{Column: "name", Operator: "=", Value: "o'brien"}},
		},
		{
			name:  "float and negative numbers",
			input: "score > 1.5 and delta < -3",
			want: []ast.Where{
				{Column: "score", Operator: ">", Value: 1.5},
				{Column: "delta", Operator: "<", Value: int64(-3)},
			},
		},
		{
			name:  "leading not",
			input: "not active = true",
			want:  []ast.Where{{Column: "active", Operator: "=", Value: true, Type: ast.WhereNot}},
		},
		{
			name:  "and, and not, or",
			input: "a = 1 AND NOT b like 'x%' or c <> 'y'",
			want: []ast.Where{
				{Column: "a", Operator: "=", Value: int64(1)},
				{Column: "b", Operator: "like", Value: "x%", Type: ast.WhereNot},
				{Column: "c", Operator: "<>", Value: "y", Type: ast.WhereOr},
			},
		},
		{
			name:  "is null and is not null",
			input: "deleted_at is null and email IS NOT NULL",
			want: []ast.Where{
				{Column: "deleted_at", Operator: "is", Value: nil},
				{Column: "email", Operator: "is not", Value: nil},
			},
		},
		{
			name:  "in and not in",
			input: "id in (1, 2, 3) and role not in ('admin')",
			want: []ast.Where{
				{Column: "id", Operator: "in", Value: []interface{}{int64(1), int64(2), int64(3)}},
				{Column: "role", Operator: "not in", Value: []interface{}{"admin"}},
			},
		},
		{
			name:  "between followed by and",
			input: "age between 18 and 65 and name not ilike 'bo%'",
			want: []ast.Where{
				{Column: "age", Operator: "between", Value: []interface{}{int64(18), int64(65)}},
				{Column: "name", Operator: "not ilike", Value: "bo%"},
			},
		},
		{
			name:  "keyword prefixed identifiers",
			input: "notes = 'x' or index != 2",
			want: []ast.Where{
				{Column: "notes", Operator: "=", Value: "x"},
				{Column: "index", Operator: "!=", Value: int64(2), Type: ast.WhereOr},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing value", "age >"},
		{"unknown operator", "age ~ 3"},
		{"or not", "a = 1 or not b = 2"},
		{"in without list", "id in 3"},
		{"list without in", "id = (1, 2)"},
		{"nested list", "id in ((1))"},
		{"unterminated string", "name = 'abc"},
		{"dangling conjunction", "a = 1 and"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestParseAll(t *testing.T) {
	got, err := ParseAll([]string{"a = 1", "b = 2 or c = 3"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, ast.WhereDefault, got[1].Type)
	assert.Equal(t, ast.WhereOr, got[2].Type)

	_, err = ParseAll([]string{"a = 1", "b >"})
	assert.Error(t, err)
}
