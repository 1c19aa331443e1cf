package cart

import (
	"context"
	"time"

	"github.com/angelmondragon/packfinderz-cart/pkg/logger"
)

// DefaultStorageKey is the single key a cart snapshot is stored under.
const DefaultStorageKey = "cart.items"

// Persister synchronizes snapshots with a KVStore. It is best-effort: Load
// never fails and Save failures are left to the caller to swallow.
type Persister struct {
	kv      KVStore
	key     string
	timeout time.Duration
	logg    *logger.Logger
	rec     Recorder
}

func NewPersister(kv KVStore, key string, timeout time.Duration, logg *logger.Logger, rec Recorder) *Persister {
	if key == "" {
		key = DefaultStorageKey
	}
	if logg == nil {
		logg = logger.Nop()
	}
	if rec == nil {
		rec = noopRecorder{}
	}
	return &Persister{kv: kv, key: key, timeout: timeout, logg: logg, rec: rec}
}

func (p *Persister) Key() string {
	return p.key
}

// Load reads the stored snapshot. A missing key, a read error, malformed JSON
// or a non-array value all yield the empty snapshot.
func (p *Persister) Load(ctx context.Context) *Snapshot {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	raw, found, err := p.kv.Get(ctx, p.key)
	p.rec.ObservePersist(PhaseLoad, time.Since(start))
	if err != nil {
		p.rec.IncPersistFailure(PhaseLoad)
		p.logg.WarnErr(p.logg.WithField(ctx, "key", p.key), "cart.load.failed", err)
		return Empty()
	}
	if !found || raw == "" {
		return Empty()
	}

	lines, dropped, ok := decodeLines(raw)
	if !ok {
		p.rec.IncPersistFailure(PhaseLoad)
		p.logg.Warn(p.logg.WithField(ctx, "key", p.key), "cart.load.malformed")
		return Empty()
	}
	if dropped > 0 {
		p.logg.Warn(p.logg.WithFields(ctx, map[string]any{"key": p.key, "dropped": dropped}), "cart.load.dropped_records")
	}
	return NewSnapshot(lines)
}

// Save writes s under the storage key.
func (p *Persister) Save(ctx context.Context, s *Snapshot) error {
	payload, err := encodeLines(s)
	if err != nil {
		p.rec.IncPersistFailure(PhaseSave)
		return err
	}

	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	err = p.kv.Set(ctx, p.key, payload)
	p.rec.ObservePersist(PhaseSave, time.Since(start))
	if err != nil {
		p.rec.IncPersistFailure(PhaseSave)
		return err
	}
	return nil
}

// withTimeout detaches from the caller's cancellation; only p.timeout bounds
// a storage call, so a dropped request cannot lose a write.
func (p *Persister) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithoutCancel(ctx)
	if p.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.timeout)
}
