package host

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/numrt"
	"github.com/wippyai/numrt/abi"
	"github.com/wippyai/numrt/errors"
)

// Guest is an instantiated guest module.
type Guest struct {
	mod      api.Module
	compiled wazero.CompiledModule
}

// Name returns the instance name.
func (g *Guest) Name() string {
	return g.mod.Name()
}

// Memory returns the guest's linear memory, or nil if it has none.
func (g *Guest) Memory() numrt.Memory {
	return abi.WrapMemory(g.mod.Memory())
}

// Call invokes an exported guest function. A trap closes the guest and
// the returned error wraps the *sys.ExitError carrying the trap code.
func (g *Guest) Call(ctx context.Context, name string, args ...uint64) ([]uint64, error) {
	fn := g.mod.ExportedFunction(name)
	if fn == nil {
		return nil, errors.NotFound(errors.PhaseRuntime, "function", name)
	}
	res, err := fn.Call(ctx, args...)
	if err != nil {
		return nil, errors.New(errors.PhaseRuntime, errors.KindTrap).
			Symbol(name).
			Cause(err).
			Build()
	}
	return res, nil
}

// Close releases the instance and its compiled module.
func (g *Guest) Close(ctx context.Context) error {
	err := g.mod.Close(ctx)
	if cerr := g.compiled.Close(ctx); err == nil {
		err = cerr
	}
	return err
}
