package reporttpl

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/reporttpl/reporttpl/datasource"
)

// Context scopes one evaluation the way caddy.Context scopes one
// config load: it carries a logger, a correlation ID, and a
// memoization cache so that two path variables referencing the same
// named data source within a single evaluation trigger exactly one
// load, not one per reference.
type Context struct {
	logger *zap.Logger
	id     uuid.UUID

	mu    sync.Mutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	data any
	err  error
	done bool
}

// NewContext creates a Context for one evaluation. A nil logger falls
// back to zap.NewNop(), matching how Caddy modules tolerate a missing
// logger during tests.
func NewContext(logger *zap.Logger) *Context {
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.New()
	return &Context{
		logger: logger.With(zap.String("evaluation_id", id.String())),
		id:     id,
		cache:  map[string]cacheEntry{},
	}
}

// Logger returns the zap logger scoped to this evaluation.
func (c *Context) Logger() *zap.Logger { return c.logger }

// ID returns this evaluation's correlation ID.
func (c *Context) ID() uuid.UUID { return c.id }

// memoizedSource wraps src so that Load is invoked at most once per
// evaluation for a given source name, with every subsequent caller
// replayed the first call's result.
func (c *Context) memoizedSource(name string, src datasource.Source) datasource.Source {
	return memoizedLoader{ctx: c, name: name, inner: src}
}

type memoizedLoader struct {
	ctx   *Context
	name  string
	inner datasource.Source
}

func (m memoizedLoader) Load(ctx context.Context) (any, error) {
	m.ctx.mu.Lock()
	if entry, ok := m.ctx.cache[m.name]; ok && entry.done {
		m.ctx.mu.Unlock()
		return entry.data, entry.err
	}
	m.ctx.mu.Unlock()

	data, err := m.inner.Load(ctx)

	m.ctx.mu.Lock()
	m.ctx.cache[m.name] = cacheEntry{data: data, err: err, done: true}
	m.ctx.mu.Unlock()

	return data, err
}
