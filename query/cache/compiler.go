package cache

import (
	"github.com/sbelzile-nexapp/cotton/internal/debug"
	"github.com/sbelzile-nexapp/cotton/query/ast"
	"github.com/sbelzile-nexapp/cotton/query/compiler"
)

// Compiler memoizes the statements produced by a compiler.Compiler.
// Failed compilations are never cached.
type Compiler struct {
	compiler *compiler.Compiler
	cache    *Cache
}

// NewCompiler wraps c with cache
func NewCompiler(c *compiler.Compiler, cache *Cache) *Compiler {
	return &Compiler{compiler: c, cache: cache}
}

// Compile returns the cached statement for q, compiling it on a miss.
func (c *Compiler) Compile(q ast.Query) (*compiler.Statement, error) {
	if isNilQuery(q) {
		return c.compiler.Compile(q)
	}

	key := Key(c.compiler.Dialect(), q)
	if stmt, ok := c.cache.Get(key); ok {
		debug.Debug("statement cache hit", "key", key)
		return stmt, nil
	}

	stmt, err := c.compiler.Compile(q)
	if err != nil {
		return nil, err
	}

	debug.Debug("statement cache miss", "key", key)
	c.cache.Set(key, stmt)
	return stmt, nil
}

// Cache returns the underlying cache
func (c *Compiler) Cache() *Cache {
	return c.cache
}
