package cart

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/packfinderz-cart/pkg/logger"
	"github.com/hashicorp/golang-lru/simplelru"
	"go.uber.org/multierr"
)

const (
	sessionKeyPrefix = "session"

	// DefaultMaxSessions bounds how many engines a Provider keeps in memory.
	DefaultMaxSessions = 1024
)

var errSessionRequired = errors.New("cart session id required")

// ProviderOptions configures a Provider.
type ProviderOptions struct {
	KV             KVStore
	Key            string
	PersistTimeout time.Duration
	Logger         *logger.Logger
	Metrics        Recorder
	// MaxSessions caps the live engines; the least recently used one is
	// flushed and dropped when a new session would exceed it.
	MaxSessions int
}

// Provider hands out one engine per cart session, each reading and writing
// its own scoped copy of the storage key.
type Provider struct {
	opts    ProviderOptions
	logg    *logger.Logger
	mu      sync.Mutex
	engines *simplelru.LRU
	evicted []*Engine
}

func NewProvider(opts ProviderOptions) (*Provider, error) {
	if opts.KV == nil {
		return nil, errKVRequired
	}
	if opts.Key == "" {
		opts.Key = DefaultStorageKey
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = DefaultMaxSessions
	}
	logg := opts.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	p := &Provider{opts: opts, logg: logg}
	engines, err := simplelru.NewLRU(opts.MaxSessions, p.onEvict)
	if err != nil {
		return nil, err
	}
	p.engines = engines
	return p, nil
}

// onEvict runs under p.mu; the engines are flushed once the lock is released.
func (p *Provider) onEvict(_ interface{}, value interface{}) {
	if engine, ok := value.(*Engine); ok {
		p.evicted = append(p.evicted, engine)
	}
}

// Get returns the engine for sessionID, loading it from storage on first use.
func (p *Provider) Get(ctx context.Context, sessionID string) (*Engine, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, errSessionRequired
	}

	p.mu.Lock()
	if cached, ok := p.engines.Get(sessionID); ok {
		p.mu.Unlock()
		return cached.(*Engine), nil
	}

	engine, err := New(p.logg.WithSessionID(ctx, sessionID), Options{
		KV:             NewScopedKV(p.opts.KV, sessionKeyPrefix, sessionID),
		Key:            p.opts.Key,
		PersistTimeout: p.opts.PersistTimeout,
		Logger:         p.logg,
		Metrics:        p.opts.Metrics,
	})
	if err != nil {
		p.mu.Unlock()
		return nil, err
	}
	p.engines.Add(sessionID, engine)
	evicted := p.takeEvicted()
	p.mu.Unlock()

	if len(evicted) > 0 {
		if err := flushAll(ctx, evicted); err != nil {
			p.logg.WarnErr(ctx, "failed to flush evicted cart sessions", err)
		}
	}
	return engine, nil
}

// Sessions reports how many engines are live.
func (p *Provider) Sessions() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.engines.Len()
}

// Close flushes every live engine and forgets them.
func (p *Provider) Close(ctx context.Context) error {
	p.mu.Lock()
	p.engines.Purge()
	engines := p.takeEvicted()
	p.mu.Unlock()

	return flushAll(ctx, engines)
}

func (p *Provider) takeEvicted() []*Engine {
	engines := p.evicted
	p.evicted = nil
	return engines
}

func flushAll(ctx context.Context, engines []*Engine) error {
	var err error
	for _, engine := range engines {
		err = multierr.Append(err, engine.Flush(ctx))
	}
	return err
}

type engineCtxKey struct{}

// WithEngine binds e to ctx for downstream consumers.
func WithEngine(ctx context.Context, e *Engine) context.Context {
	return context.WithValue(ctx, engineCtxKey{}, e)
}

// FromContext returns the engine bound to ctx, or a MissingProviderError.
func FromContext(ctx context.Context) (*Engine, error) {
	if ctx != nil {
		if e, ok := ctx.Value(engineCtxKey{}).(*Engine); ok && e != nil && e.ready {
			return e, nil
		}
	}
	return nil, &MissingProviderError{Op: "FromContext"}
}

// MustFromContext is FromContext for callers that treat a missing engine as fatal.
func MustFromContext(ctx context.Context) *Engine {
	e, err := FromContext(ctx)
	if err != nil {
		panic(err)
	}
	return e
}
