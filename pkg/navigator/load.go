package navigator

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/expozr/navigator/internal/candidates"
	"github.com/expozr/navigator/internal/loader"
	"github.com/expozr/navigator/internal/logging"
	"github.com/expozr/navigator/pkg/types"
)

// LoadCargo resolves and loads one named cargo from a source (a registered
// alias or a location URL). The first successful load per (source, cargo)
// key is recorded in the result table and the process-wide registry;
// subsequent calls are served from the table without another attempt
// sequence, as a copy with ServedFromCache set. Concurrent first-time calls
// for one key are collapsed into a single attempt sequence.
//
// A nil opts means defaults. With opts.SuppressErrors a failed load
// returns (nil, nil) after the cargo:error event has fired.
func (n *Navigator) LoadCargo(ctx context.Context, source, cargo string, opts *types.LoadOptions) (*types.LoadedCargo, error) {
	o := types.LoadOptions{}
	if opts != nil {
		o = *opts
	}

	ref, err := n.resolveSource(source)
	if err != nil {
		return nil, n.loadFailed(source, cargo, o, err)
	}
	alias := ref.EffectiveAlias()
	key := alias + "/" + cargo

	if cached := n.cachedResult(key); cached != nil {
		n.bus.Emit(types.Event{Name: types.EventCacheHit, Source: alias, Cargo: cargo, Key: key})
		return cached, nil
	}

	result, err, _ := n.flight.Do(key, func() (any, error) {
		// Re-check under the flight: a concurrent caller may have just
		// populated the table.
		if cached := n.cachedResult(key); cached != nil {
			return cached, nil
		}
		return n.loadFresh(ctx, ref, cargo, o)
	})
	if err != nil {
		return nil, n.loadFailed(alias, cargo, o, err)
	}
	return result.(*types.LoadedCargo), nil
}

// cachedResult returns the result-table entry for key, when present, as a
// shallow copy with ServedFromCache set. The stored entry is never mutated
// after publication, so instances earlier callers hold stay race-free.
func (n *Navigator) cachedResult(key string) *types.LoadedCargo {
	n.mu.Lock()
	defer n.mu.Unlock()
	loaded := n.results[key]
	if loaded == nil {
		return nil
	}
	served := *loaded
	served.ServedFromCache = true
	return &served
}

// loadFailed emits the cargo:error event and applies SuppressErrors.
func (n *Navigator) loadFailed(alias, cargo string, o types.LoadOptions, err error) error {
	n.bus.Emit(types.Event{Name: types.EventCargoError, Source: alias, Cargo: cargo, Err: err})
	if o.SuppressErrors {
		n.log.Warn().Str("source", alias).Str("cargo", cargo).Err(err).Msg("load failed, errors suppressed")
		return nil
	}
	return err
}

// loadFresh runs one full attempt sequence: inventory, candidate
// generation, format-ordered probing, then publication to the result table
// and the registry.
func (n *Navigator) loadFresh(ctx context.Context, ref types.SourceReference, cargo string, o types.LoadOptions) (*types.LoadedCargo, error) {
	alias := ref.EffectiveAlias()

	inv, err := n.inventoryFor(ctx, ref)
	if err != nil {
		return nil, err
	}

	desc, err := inv.Cargo(cargo)
	if err != nil {
		return nil, err
	}
	if err := checkDependencies(desc, inv); err != nil {
		return nil, err
	}

	n.bus.Emit(types.Event{Name: types.EventCargoLoading, Source: alias, Cargo: cargo})

	base, err := url.Parse(ref.Location)
	if err != nil {
		return nil, types.ErrSourceLocationInvalid
	}

	cfg := n.config()
	cands := candidates.Generate(base, desc, o, cfg, n.strategies)

	// Strategies pick the logger back up with logging.FromContext.
	ctx = logging.WithContext(ctx, n.log)
	result, err := n.loader.Load(ctx, cands, loader.Params{
		Timeout:  pickDuration(o.Timeout, cfg.Timeout),
		Attempts: pickInt(o.Attempts, cfg.Attempts),
		Delay:    cfg.RetryDelay,
		Backoff:  cfg.Backoff,
		Slot:     outputSlot(desc),
		Strategy: o.Strategy,
		Exports:  o.Exports,
	})
	if err != nil {
		return nil, err
	}

	loaded := &types.LoadedCargo{
		Payload:      result.Payload,
		Descriptor:   desc,
		Source:       inv.Source,
		LoadedAt:     time.Now(),
		FormatUsed:   result.Format,
		StrategyUsed: result.Strategy,
	}

	key := alias + "/" + cargo
	n.mu.Lock()
	n.results[key] = loaded
	n.mu.Unlock()
	n.reg.Bind(alias, cargo, result.Payload)

	n.bus.Emit(types.Event{Name: types.EventCargoLoaded, Source: alias, Cargo: cargo})
	n.log.Info().
		Str("source", alias).
		Str("cargo", cargo).
		Str("format", string(result.Format)).
		Str("url", result.URL).
		Msg("cargo loaded")
	return loaded, nil
}

// outputSlot reads the agreed scope slot for universal-wrapper execution
// from the descriptor metadata. Empty means scope-diff scraping.
func outputSlot(desc types.CargoDescriptor) string {
	if desc.Metadata == nil {
		return ""
	}
	slot, _ := desc.Metadata["globalName"].(string)
	return slot
}

func pickDuration(override, fallback time.Duration) time.Duration {
	if override > 0 {
		return override
	}
	return fallback
}

func pickInt(override, fallback int) int {
	if override > 0 {
		return override
	}
	return fallback
}

// Preload warms the result table for the named cargo (or every cargo the
// inventory declares when names is empty). It is best effort: individual
// failures are logged and reported through cargo:error events, completions
// interleave in no guaranteed order, and Preload itself never fails.
func (n *Navigator) Preload(ctx context.Context, source string, names ...string) {
	if len(names) == 0 {
		inv, err := n.GetInventory(ctx, source)
		if err != nil {
			n.log.Warn().Str("source", source).Err(err).Msg("preload skipped, inventory unavailable")
			return
		}
		for name := range inv.CargoIndex {
			names = append(names, name)
		}
	}

	var wg sync.WaitGroup
	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			opts := types.LoadOptions{SuppressErrors: true}
			if _, err := n.LoadCargo(ctx, source, name, &opts); err != nil {
				// SuppressErrors already absorbed load failures; this
				// only fires for source resolution problems.
				n.log.Warn().Str("source", source).Str("cargo", name).Err(err).Msg("preload failed")
			}
		}(name)
	}
	wg.Wait()
}

// Reset clears the cache store and the in-process result table, then
// notifies listeners. Registry bindings survive: the process-wide
// namespace is append-only.
func (n *Navigator) Reset(ctx context.Context) error {
	n.mu.Lock()
	n.results = make(map[string]*types.LoadedCargo)
	n.mu.Unlock()

	err := n.store.Clear(ctx)
	n.bus.Emit(types.Event{Name: types.EventNavigatorReset})
	return err
}
