// Package navigator exposes the load-coordination engine: it resolves a
// source's inventory, orders format candidates, executes loads with retry
// and an advisory timeout, caches the results, and publishes outcomes
// through the process-wide registry and a lifecycle event stream.
package navigator

import (
	"net/http"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/expozr/navigator/internal/cache"
	"github.com/expozr/navigator/internal/events"
	"github.com/expozr/navigator/internal/fetch"
	"github.com/expozr/navigator/internal/loader"
	"github.com/expozr/navigator/internal/logging"
	"github.com/expozr/navigator/internal/registry"
	"github.com/expozr/navigator/internal/script"
	"github.com/expozr/navigator/internal/strategy"
	"github.com/expozr/navigator/pkg/types"
)

// Navigator coordinates cargo loads for one consuming process. All methods
// are safe for concurrent use; concurrent first-time loads of the same
// (source, cargo) key are collapsed into a single attempt sequence.
type Navigator struct {
	mu      sync.RWMutex
	cfg     types.Config
	sources map[string]types.SourceReference
	results map[string]*types.LoadedCargo

	store      types.Store
	ownStore   bool
	fetcher    *fetch.Client
	strategies *strategy.Registry
	loader     *loader.Loader
	bus        *events.Bus
	reg        *registry.Registry
	log        zerolog.Logger

	flight singleflight.Group
}

// Option customizes a Navigator at construction.
type Option func(*options)

type options struct {
	log       zerolog.Logger
	logSet    bool
	store     types.Store
	transport http.RoundTripper
	sandbox   script.Sandbox
	evaluator strategy.NativeEvaluator
	reg       *registry.Registry
	sources   []types.SourceReference
}

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.log = log; o.logSet = true }
}

// WithStore supplies a pre-built cache store instead of the one selected
// by Config.CacheStrategy. The caller keeps ownership and must close it.
func WithStore(store types.Store) Option {
	return func(o *options) { o.store = store }
}

// WithTransport sets the HTTP transport used for inventory and artifact
// fetches. Tests point this at in-process servers.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// WithSources registers source references up front, keyed by their
// effective alias.
func WithSources(refs ...types.SourceReference) Option {
	return func(o *options) { o.sources = append(o.sources, refs...) }
}

// withSandbox swaps the script sandbox. Exercised by tests; embedders that
// need a custom execution model can load through their own strategies.
func withSandbox(sb script.Sandbox) Option {
	return func(o *options) { o.sandbox = sb }
}

// withNativeEvaluator enables the native-module strategy, which makes the
// environment native-module-capable for candidate ordering.
func withNativeEvaluator(ev strategy.NativeEvaluator) Option {
	return func(o *options) { o.evaluator = ev }
}

// withRegistry points the Navigator at a private registry instead of the
// process-wide one. Used by tests for isolation.
func withRegistry(r *registry.Registry) Option {
	return func(o *options) { o.reg = r }
}

// New builds a Navigator from cfg. A zero cfg is rejected; start from
// types.DefaultConfig.
func New(cfg types.Config, opts ...Option) (*Navigator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if !o.logSet {
		o.log = logging.Nop()
	}
	if o.sandbox == nil {
		o.sandbox = script.NewGoja(nil)
	}
	if o.reg == nil {
		o.reg = registry.Global()
	}

	store := o.store
	ownStore := false
	if store == nil {
		var err error
		store, err = cache.New(cfg)
		if err != nil {
			return nil, err
		}
		ownStore = true
	}

	fetcher := fetch.New(o.transport)
	strategies := strategy.Defaults(fetcher, o.sandbox, o.evaluator)

	n := &Navigator{
		cfg:        cfg,
		sources:    make(map[string]types.SourceReference),
		results:    make(map[string]*types.LoadedCargo),
		store:      store,
		ownStore:   ownStore,
		fetcher:    fetcher,
		strategies: strategies,
		loader:     loader.New(strategies, o.log),
		bus:        events.NewBus(o.log),
		reg:        o.reg,
		log:        o.log,
	}
	for _, ref := range o.sources {
		n.AddSource(ref)
	}
	return n, nil
}

// AddSource registers (or replaces) a source reference under its
// effective alias.
func (n *Navigator) AddSource(ref types.SourceReference) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sources[ref.EffectiveAlias()] = ref
}

// resolveSource maps a caller-supplied source name to its reference: a
// registered alias wins, anything else is treated as a location URL.
func (n *Navigator) resolveSource(source string) (types.SourceReference, error) {
	n.mu.RLock()
	ref, ok := n.sources[source]
	n.mu.RUnlock()
	if ok {
		return ref, nil
	}

	ref = types.SourceReference{Location: source}
	if err := ref.Validate(); err != nil {
		return types.SourceReference{}, err
	}
	return ref, nil
}

// On subscribes fn to the named lifecycle event and returns an
// unsubscribe function.
func (n *Navigator) On(event string, fn types.Listener) func() {
	return n.bus.On(event, fn)
}

// UpdateConfig merges the patch into the live configuration. Loads already
// in flight keep the values they started with.
func (n *Navigator) UpdateConfig(patch types.ConfigPatch) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	next := patch.Apply(n.cfg)
	if err := next.Validate(); err != nil {
		return err
	}
	n.cfg = next
	return nil
}

// config returns a copy of the live configuration.
func (n *Navigator) config() types.Config {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.cfg
}

// Lookup reads a payload from the registry's canonical location. The
// registry is preferred over any convenience binding a strategy may have
// created inside its execution scope.
func (n *Navigator) Lookup(alias, cargo string) (any, bool) {
	return n.reg.Lookup(alias, cargo)
}

// Close releases the Navigator's resources: the cache store when it owns
// one, and idle HTTP connections.
func (n *Navigator) Close() error {
	var err error
	if n.ownStore {
		err = n.store.Close()
	}
	if cerr := n.fetcher.Close(); err == nil {
		err = cerr
	}
	return err
}
