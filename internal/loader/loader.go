// Package loader implements the format-ordered loader: it probes an
// ordered candidate list one at a time, wrapping every attempt in the
// retry executor and the advisory timeout, and stops at the first success.
//
// Candidates are never raced concurrently. Loading the same remote payload
// twice can duplicate its execution side effects, so the state machine is
// strictly sequential: Idle -> Probing(candidate i) -> Succeeded, or on to
// the next candidate, ending in Exhausted.
package loader

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/expozr/navigator/internal/candidates"
	"github.com/expozr/navigator/internal/retry"
	"github.com/expozr/navigator/internal/strategy"
	"github.com/expozr/navigator/pkg/types"
)

// State names one position in the per-load state machine. Exposed for
// observation in tests and debug logging.
type State string

const (
	StateIdle      State = "idle"
	StateProbing   State = "probing"
	StateSucceeded State = "succeeded"
	StateExhausted State = "exhausted"
)

// Params carries the per-load knobs the orchestrator resolved from its
// configuration and the call options.
type Params struct {
	Timeout  time.Duration
	Attempts int
	Delay    time.Duration
	Backoff  float64

	// Slot is the agreed output binding for scoped execution.
	Slot string

	// Strategy, when set, pins every probe to the named strategy instead
	// of the one mapped from each candidate's format.
	Strategy types.StrategyTag

	// Exports are the requested named exports; empty means the default
	// export or the whole payload.
	Exports []string

	// Observe, when set, receives every state transition.
	Observe func(State, candidates.Candidate)
}

// Result is a successful probe.
type Result struct {
	Payload  any
	Format   types.Format
	Strategy types.StrategyTag
	URL      string
}

// CandidateFailure records why one candidate did not resolve.
type CandidateFailure struct {
	Candidate candidates.Candidate
	Err       error
}

// ExhaustedError aggregates the per-candidate failures after every
// candidate has been tried.
type ExhaustedError struct {
	Failures []CandidateFailure
}

func (e *ExhaustedError) Error() string {
	if len(e.Failures) == 0 {
		return "no loadable candidates"
	}
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = fmt.Sprintf("%s (%s): %v", f.Candidate.URL, f.Candidate.Format, f.Err)
	}
	return "all candidates failed: " + strings.Join(parts, "; ")
}

// Loader probes candidates through the strategy registry.
type Loader struct {
	strategies *strategy.Registry
	log        zerolog.Logger
}

// New creates a loader over the given strategy registry.
func New(strategies *strategy.Registry, log zerolog.Logger) *Loader {
	return &Loader{strategies: strategies, log: log}
}

// Load tries each candidate in order and returns the first success. Every
// attempt is retried per Params and bounded by the advisory timeout. On
// exhaustion the per-candidate failures come back as one *ExhaustedError.
func (l *Loader) Load(ctx context.Context, cands []candidates.Candidate, p Params) (Result, error) {
	observe := p.Observe
	if observe == nil {
		observe = func(State, candidates.Candidate) {}
	}
	observe(StateIdle, candidates.Candidate{})

	exhausted := &ExhaustedError{}
	for _, cand := range cands {
		observe(StateProbing, cand)

		payload, tag, err := l.probe(ctx, cand, p)
		if err != nil {
			l.log.Debug().
				Str("url", cand.URL).
				Str("format", string(cand.Format)).
				Err(err).
				Msg("candidate failed")
			exhausted.Failures = append(exhausted.Failures, CandidateFailure{Candidate: cand, Err: err})
			if ctx.Err() != nil {
				break
			}
			continue
		}

		payload, err = ExtractExports(payload, p.Exports)
		if err != nil {
			exhausted.Failures = append(exhausted.Failures, CandidateFailure{Candidate: cand, Err: err})
			continue
		}

		observe(StateSucceeded, cand)
		return Result{
			Payload:  payload,
			Format:   cand.Format,
			Strategy: tag,
			URL:      cand.URL,
		}, nil
	}

	observe(StateExhausted, candidates.Candidate{})
	return Result{}, exhausted
}

// probe runs one candidate: retry around the timeout around the strategy.
func (l *Loader) probe(ctx context.Context, cand candidates.Candidate, p Params) (any, types.StrategyTag, error) {
	format := cand.Format
	if p.Strategy != "" {
		format = types.Format(p.Strategy)
	}
	st, ok := l.strategies.For(format)
	if !ok {
		return nil, "", fmt.Errorf("no strategy registered for format %q", format)
	}

	req := strategy.Request{URL: cand.URL, Slot: p.Slot}
	opName := fmt.Sprintf("load %s", cand.URL)

	payload, err := retry.Do(ctx, func(ctx context.Context) (any, error) {
		return retry.WithTimeout(ctx, opName, p.Timeout, func(ctx context.Context) (any, error) {
			return st.AttemptLoad(ctx, req)
		})
	}, p.Attempts, p.Delay, p.Backoff)
	if err != nil {
		return nil, "", err
	}
	return payload, st.Tag(), nil
}
