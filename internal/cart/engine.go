package cart

import (
	"context"
	"sync"
	"time"

	"github.com/angelmondragon/packfinderz-cart/pkg/logger"
)

// Listener is called after a mutation replaced the snapshot.
type Listener func(s *Snapshot)

// Options configures an Engine.
type Options struct {
	KV             KVStore
	Key            string
	PersistTimeout time.Duration
	Logger         *logger.Logger
	Metrics        Recorder
}

// Engine owns one cart's snapshot. Every mutation goes through it; callers
// only ever see copies or immutable snapshots.
type Engine struct {
	mu        sync.Mutex
	ready     bool
	snapshot  *Snapshot
	persister *Persister
	logg      *logger.Logger
	rec       Recorder

	listenerMu sync.Mutex
	listeners  map[int]Listener
	nextID     int
}

// New builds an engine and initializes it from storage.
func New(ctx context.Context, opts Options) (*Engine, error) {
	if opts.KV == nil {
		return nil, errKVRequired
	}
	logg := opts.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	rec := opts.Metrics
	if rec == nil {
		rec = noopRecorder{}
	}

	persister := NewPersister(opts.KV, opts.Key, opts.PersistTimeout, logg, rec)
	return &Engine{
		ready:     true,
		snapshot:  persister.Load(ctx),
		persister: persister,
		logg:      logg,
		rec:       rec,
		listeners: map[int]Listener{},
	}, nil
}

func (e *Engine) mustBeReady(op string) {
	if e == nil || !e.ready {
		panic(&MissingProviderError{Op: op})
	}
}

// Snapshot returns the current snapshot.
func (e *Engine) Snapshot() *Snapshot {
	e.mustBeReady("Snapshot")
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot
}

// Items returns a copy of the current lines.
func (e *Engine) Items() []Line {
	return e.Snapshot().Lines()
}

// Totals derives count and subtotal from the current snapshot.
func (e *Engine) Totals() Totals {
	return ComputeTotals(e.Snapshot())
}

func (e *Engine) AddItem(ctx context.Context, p Product, qty int) *Snapshot {
	e.mustBeReady("AddItem")
	return e.apply(ctx, OpAddItem, func(s *Snapshot) *Snapshot {
		return AddItem(s, p, qty)
	})
}

func (e *Engine) RemoveItem(ctx context.Context, id string) *Snapshot {
	e.mustBeReady("RemoveItem")
	return e.apply(ctx, OpRemoveItem, func(s *Snapshot) *Snapshot {
		return RemoveItem(s, id)
	})
}

func (e *Engine) UpdateQuantity(ctx context.Context, id string, qty int) *Snapshot {
	e.mustBeReady("UpdateQuantity")
	return e.apply(ctx, OpUpdateQuantity, func(s *Snapshot) *Snapshot {
		return UpdateQuantity(s, id, qty)
	})
}

func (e *Engine) Clear(ctx context.Context) *Snapshot {
	e.mustBeReady("Clear")
	return e.apply(ctx, OpClear, Clear)
}

// Flush writes the current snapshot to storage and reports the outcome.
func (e *Engine) Flush(ctx context.Context) error {
	e.mustBeReady("Flush")
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.persister.Save(ctx, e.snapshot)
}

// Subscribe registers fn for change notifications. The returned func
// removes it again.
func (e *Engine) Subscribe(fn Listener) func() {
	e.mustBeReady("Subscribe")
	if fn == nil {
		return func() {}
	}
	e.listenerMu.Lock()
	id := e.nextID
	e.nextID++
	e.listeners[id] = fn
	e.listenerMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.listenerMu.Lock()
			delete(e.listeners, id)
			e.listenerMu.Unlock()
		})
	}
}

func (e *Engine) apply(ctx context.Context, op string, mutate func(*Snapshot) *Snapshot) *Snapshot {
	e.mu.Lock()
	prev := e.snapshot
	next := mutate(prev)
	if next == prev {
		e.mu.Unlock()
		e.rec.ObserveMutation(op, false)
		return prev
	}
	e.snapshot = next
	e.save(ctx, op, next)
	e.mu.Unlock()

	e.rec.ObserveMutation(op, true)
	e.notify(next)
	return next
}

// save runs under e.mu so writes reach the store in mutation order.
func (e *Engine) save(ctx context.Context, op string, s *Snapshot) {
	if err := e.persister.Save(ctx, s); err != nil {
		ctx = e.logg.WithFields(ctx, map[string]any{"op": op, "key": e.persister.Key()})
		e.logg.WarnErr(ctx, "cart.save.failed", err)
	}
}

func (e *Engine) notify(s *Snapshot) {
	e.listenerMu.Lock()
	listeners := make([]Listener, 0, len(e.listeners))
	for _, fn := range e.listeners {
		listeners = append(listeners, fn)
	}
	e.listenerMu.Unlock()

	for _, fn := range listeners {
		fn(s)
	}
}
