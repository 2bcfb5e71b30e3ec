package script

import (
	"context"
	"errors"
	"fmt"

	"github.com/dop251/goja"
)

// Sandbox execution errors.
var (
	ErrNoPayload          = errors.New("script produced no payload")
	ErrAmbiguousPayload   = errors.New("script produced multiple candidate payloads")
	ErrRequireUnsupported = errors.New("require is not available in the sandbox")
)

// Goja executes artifacts on a fresh goja VM per call, so one script can
// never observe another's scope.
type Goja struct {
	filter GlobalFilter
}

// NewGoja creates a sandbox with the given incidental-global filter.
// A nil filter means DefaultGlobalFilter.
func NewGoja(filter GlobalFilter) *Goja {
	if filter == nil {
		filter = DefaultGlobalFilter
	}
	return &Goja{filter: filter}
}

// newVM builds a VM with the browser-style scope aliases universal
// wrappers probe for. The aliases all point at the VM's own global object.
func (g *Goja) newVM() *goja.Runtime {
	vm := goja.New()
	globalObj := vm.GlobalObject()
	vm.Set("window", globalObj)
	vm.Set("self", globalObj)
	vm.Set("global", globalObj)
	return vm
}

// run executes source on vm, interrupting the VM if ctx ends first.
func run(ctx context.Context, vm *goja.Runtime, source string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	watchDone := make(chan struct{})
	defer close(watchDone)
	go func() {
		select {
		case <-ctx.Done():
			vm.Interrupt(ctx.Err())
		case <-watchDone:
		}
	}()

	_, err := vm.RunString(source)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("executing script: %w", err)
	}
	return nil
}

// ExecuteScoped runs source in a fresh scope and reads back the payload
// slot. With an explicit slot the binding of that name is returned. Without
// one, the global scope is diffed around the execution and the single
// surviving new binding wins; zero or several survivors are errors rather
// than guesses.
func (g *Goja) ExecuteScoped(ctx context.Context, source, slot string) (any, error) {
	vm := g.newVM()
	globalObj := vm.GlobalObject()

	before := make(map[string]bool)
	for _, key := range globalObj.Keys() {
		before[key] = true
	}

	if err := run(ctx, vm, source); err != nil {
		return nil, err
	}

	if slot != "" {
		v := globalObj.Get(slot)
		if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
			return nil, fmt.Errorf("%w: slot %q is empty", ErrNoPayload, slot)
		}
		return v.Export(), nil
	}

	var added []string
	for _, key := range globalObj.Keys() {
		if before[key] || g.filter(key) {
			continue
		}
		added = append(added, key)
	}

	switch len(added) {
	case 0:
		return nil, ErrNoPayload
	case 1:
		return globalObj.Get(added[0]).Export(), nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrAmbiguousPayload, added)
	}
}

// ExecuteModule runs source with module/exports injected and returns
// module.exports. The injected require always throws: artifact dependency
// resolution happens at build time, not inside the sandbox.
func (g *Goja) ExecuteModule(ctx context.Context, source string) (any, error) {
	vm := g.newVM()

	module := vm.NewObject()
	exports := vm.NewObject()
	if err := module.Set("exports", exports); err != nil {
		return nil, fmt.Errorf("preparing module scope: %w", err)
	}
	vm.Set("module", module)
	vm.Set("exports", exports)
	vm.Set("require", func(call goja.FunctionCall) goja.Value {
		name := call.Argument(0).String()
		panic(vm.NewGoError(fmt.Errorf("%w: %q", ErrRequireUnsupported, name)))
	})

	if err := run(ctx, vm, source); err != nil {
		return nil, err
	}

	result := module.Get("exports")
	if result == nil || goja.IsUndefined(result) || goja.IsNull(result) {
		return nil, ErrNoPayload
	}
	return result.Export(), nil
}
