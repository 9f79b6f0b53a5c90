// internal/refresh/refresh.go
// Package refresh coordinates background fetches from the process adapter and
// the registry scraper behind a non-blocking "latest known state" surface for
// the UI. It owns all per-source refresh state, serializes fetches to at most
// one in flight per source, and is the only writer to the disk cache.
package refresh

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/mwiater/ollamadash/internal/cache"
	"github.com/mwiater/ollamadash/internal/logging"
	"github.com/mwiater/ollamadash/internal/ollamacli"
	"github.com/mwiater/ollamadash/internal/registry"
)

// Source identifies one of the coordinated data feeds.
type Source int

const (
	// SourceModels is the local model inventory (`ollama list`).
	SourceModels Source = iota
	// SourceRunning is the running-process listing (`ollama ps`).
	SourceRunning
	// SourceCatalog is the scraped remote registry catalog.
	SourceCatalog
)

// String names the source for logs and tests.
func (s Source) String() string {
	switch s {
	case SourceModels:
		return "models"
	case SourceRunning:
		return "running"
	case SourceCatalog:
		return "catalog"
	default:
		return "unknown"
	}
}

// Phase is the lifecycle position of one source.
type Phase int

const (
	// Idle means no fetch has been attempted yet.
	Idle Phase = iota
	// InFlight means a background fetch is currently executing.
	InFlight
	// Succeeded means the last fetch completed and Data is current.
	Succeeded
	// Failed means the last fetch failed; LastGood retains prior data.
	Failed
)

// Snapshot is a read-only copy of one source's state. Data holds
// []ollamacli.Model, []ollamacli.RunningModel or []registry.RemoteModel
// depending on the source.
type Snapshot struct {
	Phase     Phase
	Data      any
	LastGood  any
	Err       error
	UpdatedAt time.Time
	FromCache bool
}

// Event is the completion notification delivered to the UI after a background
// fetch finishes.
type Event struct {
	Source   Source
	Snapshot Snapshot
}

// Adapter is the slice of the process adapter the coordinator drives.
type Adapter interface {
	ListModels(ctx context.Context) ([]ollamacli.Model, error)
	ListRunning(ctx context.Context) ([]ollamacli.RunningModel, error)
}

// Scraper is the slice of the registry client the coordinator drives.
type Scraper interface {
	FetchCatalog(ctx context.Context) ([]registry.RemoteModel, error)
	FetchTags(ctx context.Context, model string) ([]registry.ModelTag, error)
}

// Options configures a Coordinator.
type Options struct {
	// TTL is the freshness window: Succeeded data older than this triggers a
	// new fetch on the next request.
	TTL time.Duration
	// PollInterval drives the periodic running-process refresh.
	PollInterval time.Duration
	// Notify receives completion events. It must not block; the TUI passes
	// program.Send.
	Notify func(Event)
}

// Coordinator owns refresh state for every source.
type Coordinator struct {
	adapter Adapter
	scraper Scraper
	store   *cache.Store
	opts    Options

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	states map[Source]*sourceState
	now    func() time.Time
}

type sourceState struct {
	phase     Phase
	data      any
	lastGood  any
	err       error
	updatedAt time.Time
	fromCache bool
}

// catalogCacheKey is the disk cache key for the scraped catalog payload.
const catalogCacheKey = "catalog"

// New builds a Coordinator over the given adapter, scraper and cache store.
func New(a Adapter, s Scraper, store *cache.Store, opts Options) *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	if opts.Notify == nil {
		opts.Notify = func(Event) {}
	}
	return &Coordinator{
		adapter: a,
		scraper: s,
		store:   store,
		opts:    opts,
		ctx:     ctx,
		cancel:  cancel,
		states: map[Source]*sourceState{
			SourceModels:  {},
			SourceRunning: {},
			SourceCatalog: {},
		},
		now: time.Now,
	}
}

// Snapshot returns the current state of a source without side effects.
func (c *Coordinator) Snapshot(source Source) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.states[source].snapshot()
}

// Request returns the source's current state immediately and, when the state
// is Idle, Failed, stale, or force is set, launches a background fetch. A
// request while a fetch is in flight is a no-op: requests coalesce onto the
// existing fetch rather than starting a duplicate.
func (c *Coordinator) Request(source Source, force bool) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.states[source]
	if st.phase == InFlight {
		return st.snapshot()
	}

	stale := st.phase == Succeeded && c.now().Sub(st.updatedAt) >= c.opts.TTL
	if !force && !stale && st.phase != Idle && st.phase != Failed {
		return st.snapshot()
	}

	st.phase = InFlight
	go c.fetch(source, force)
	return st.snapshot()
}

// fetch runs one background fetch for source and publishes the completion.
// Results arriving after Close are discarded.
func (c *Coordinator) fetch(source Source, force bool) {
	data, fromCache, err := c.load(source, force)

	c.mu.Lock()
	if c.ctx.Err() != nil {
		c.mu.Unlock()
		return
	}

	st := c.states[source]
	st.updatedAt = c.now()
	st.fromCache = fromCache
	if err != nil {
		st.phase = Failed
		st.err = err
		logging.Event("refresh %s failed: %v", source, err)
	} else {
		st.phase = Succeeded
		st.data = data
		st.lastGood = data
		st.err = nil
	}
	snap := st.snapshot()
	c.mu.Unlock()

	c.opts.Notify(Event{Source: source, Snapshot: snap})
}

// load dispatches one fetch to the right backend. Catalog data flows through
// the disk cache: a fresh cached payload short-circuits the network, a
// successful scrape is written through, and a scrape failure leaves the cache
// untouched so a broken upstream layout cannot destroy known-good data.
func (c *Coordinator) load(source Source, force bool) (any, bool, error) {
	switch source {
	case SourceModels:
		data, err := c.adapter.ListModels(c.ctx)
		return data, false, err

	case SourceRunning:
		data, err := c.adapter.ListRunning(c.ctx)
		return data, false, err

	case SourceCatalog:
		if !force && c.store != nil {
			if payload, ok := c.store.Get(catalogCacheKey); ok {
				var cached []registry.RemoteModel
				if jsonErr := json.Unmarshal(payload, &cached); jsonErr == nil && len(cached) > 0 {
					return cached, true, nil
				}
			}
		}
		data, err := c.scraper.FetchCatalog(c.ctx)
		if err != nil {
			return nil, false, err
		}
		c.persist(catalogCacheKey, data)
		return data, false, nil

	default:
		return nil, false, nil
	}
}

// Tags returns the version tags for one model, served from the disk cache
// within the freshness window and scraped (then written through) otherwise.
// Unlike the three polled sources this is an on-demand lookup, but it still
// routes through the coordinator so cache writes have a single owner.
func (c *Coordinator) Tags(ctx context.Context, model string) ([]registry.ModelTag, error) {
	key := "tags/" + model
	if c.store != nil {
		if payload, ok := c.store.Get(key); ok {
			var cached []registry.ModelTag
			if err := json.Unmarshal(payload, &cached); err == nil && len(cached) > 0 {
				return cached, nil
			}
		}
	}

	tags, err := c.scraper.FetchTags(ctx, model)
	if err != nil {
		return nil, err
	}
	c.persist(key, tags)
	return tags, nil
}

// persist best-effort writes a payload through to the disk cache.
func (c *Coordinator) persist(key string, data any) {
	if c.store == nil {
		return
	}
	payload, err := json.Marshal(data)
	if err != nil {
		logging.Event("cache encode %s: %v", key, err)
		return
	}
	if err := c.store.Put(key, payload); err != nil {
		logging.Event("cache write %s: %v", key, err)
	}
}

// StartPolling launches the fixed-interval running-process refresh. The
// ticker goroutine stops when the coordinator is closed.
func (c *Coordinator) StartPolling() {
	interval := c.opts.PollInterval
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-c.ctx.Done():
				return
			case <-ticker.C:
				c.Request(SourceRunning, true)
			}
		}
	}()
}

// Close abandons all in-flight fetches and stops polling. It never waits for
// a fetch to finish: late results are discarded on arrival.
func (c *Coordinator) Close() {
	c.cancel()
}

// snapshot copies the mutable state. Caller holds the lock.
func (s *sourceState) snapshot() Snapshot {
	return Snapshot{
		Phase:     s.phase,
		Data:      s.data,
		LastGood:  s.lastGood,
		Err:       s.err,
		UpdatedAt: s.updatedAt,
		FromCache: s.fromCache,
	}
}
