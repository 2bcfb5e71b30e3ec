package strategy

import (
	"context"
	"fmt"

	"github.com/expozr/navigator/internal/fetch"
	"github.com/expozr/navigator/internal/logging"
	"github.com/expozr/navigator/internal/script"
	"github.com/expozr/navigator/pkg/types"
)

// NativeEvaluator evaluates a native-module (import/export) artifact. The
// default sandbox has no native-module support, so the ESM strategy stays
// unsupported until an embedding host registers an evaluator of its own.
type NativeEvaluator interface {
	Evaluate(ctx context.Context, source string) (any, error)
}

// Defaults builds the stock strategy registry over one fetch client and
// sandbox: scoped execution for umd, module execution for cjs, and an esm
// slot that reports itself unsupported when evaluator is nil.
func Defaults(client *fetch.Client, sandbox script.Sandbox, evaluator NativeEvaluator) *Registry {
	r := NewRegistry()
	r.Register(types.FormatESM, &ESM{Client: client, Evaluator: evaluator})
	r.Register(types.FormatUMD, &UMD{Client: client, Sandbox: sandbox})
	r.Register(types.FormatCJS, &CJS{Client: client, Sandbox: sandbox})
	return r
}

// ESM loads native-module artifacts through a pluggable evaluator.
type ESM struct {
	Client    *fetch.Client
	Evaluator NativeEvaluator
}

func (s *ESM) Tag() types.StrategyTag { return types.StrategyESM }

func (s *ESM) Supported() bool { return s.Evaluator != nil }

func (s *ESM) AttemptLoad(ctx context.Context, req Request) (any, error) {
	if s.Evaluator == nil {
		return nil, fmt.Errorf("native-module loading is not supported in this environment")
	}
	source, err := s.Client.Text(ctx, req.URL)
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Debug().Str("url", req.URL).Msg("evaluating native-module artifact")
	return s.Evaluator.Evaluate(ctx, source)
}

// UMD loads universal-wrapper artifacts: the script runs in an isolated
// scope and its payload is read back from the agreed output slot.
type UMD struct {
	Client  *fetch.Client
	Sandbox script.Sandbox
}

func (s *UMD) Tag() types.StrategyTag { return types.StrategyUMD }

func (s *UMD) Supported() bool { return s.Sandbox != nil }

func (s *UMD) AttemptLoad(ctx context.Context, req Request) (any, error) {
	source, err := s.Client.Text(ctx, req.URL)
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Debug().Str("url", req.URL).Str("slot", req.Slot).Msg("running universal-wrapper artifact")
	return s.Sandbox.ExecuteScoped(ctx, source, req.Slot)
}

// CJS loads legacy-synchronous artifacts through the sandbox's module
// wrapper and returns module.exports.
type CJS struct {
	Client  *fetch.Client
	Sandbox script.Sandbox
}

func (s *CJS) Tag() types.StrategyTag { return types.StrategyCJS }

func (s *CJS) Supported() bool { return s.Sandbox != nil }

func (s *CJS) AttemptLoad(ctx context.Context, req Request) (any, error) {
	source, err := s.Client.Text(ctx, req.URL)
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Debug().Str("url", req.URL).Msg("running module-wrapper artifact")
	return s.Sandbox.ExecuteModule(ctx, source)
}
