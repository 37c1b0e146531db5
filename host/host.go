package host

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/numrt"
	"github.com/wippyai/numrt/abi"
	"github.com/wippyai/numrt/errors"
	"github.com/wippyai/numrt/export"
)

// Host owns a wazero runtime with the numrt host module registered in it.
type Host struct {
	runtime wazero.Runtime
	table   *export.Table
	module  api.Module
	cfg     Config
	guests  atomic.Uint64
	mu      sync.Mutex
}

// New creates a runtime and the export table. The host module itself is
// registered by Instantiate, or on the first Load.
func New(ctx context.Context, cfg Config) (*Host, error) {
	cfg = cfg.withDefaults()

	table, err := export.Default()
	if err != nil {
		return nil, err
	}

	runtimeCfg := wazero.NewRuntimeConfig()
	if cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}

	return &Host{
		runtime: wazero.NewRuntimeWithConfig(ctx, runtimeCfg),
		table:   table,
		cfg:     cfg,
	}, nil
}

// Runtime returns the underlying wazero runtime.
func (h *Host) Runtime() wazero.Runtime {
	return h.runtime
}

// Table returns the export table.
func (h *Host) Table() *export.Table {
	return h.table
}

// ModuleName returns the name guests import numrt exports from.
func (h *Host) ModuleName() string {
	return h.cfg.ModuleName
}

// Instantiate registers the host module. Calling it again is a no-op.
func (h *Host) Instantiate(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.module != nil {
		return nil
	}

	builder := h.runtime.NewHostModuleBuilder(h.cfg.ModuleName)
	for _, e := range h.table.All() {
		builder.NewFunctionBuilder().
			WithGoModuleFunction(h.bind(e), e.Params, e.Results).
			WithName(e.Symbol).
			Export(e.Symbol)
		Logger().Debug("export registered",
			zap.String("symbol", e.Symbol),
			zap.String("signature", e.Signature()))
	}

	mod, err := builder.Instantiate(ctx)
	if err != nil {
		return errors.Registration(errors.PhaseHost, h.cfg.ModuleName, "*", err)
	}
	h.module = mod

	Logger().Info("host module instantiated",
		zap.String("module", h.cfg.ModuleName),
		zap.Int("exports", h.table.Len()))
	return nil
}

// bind adapts an export to wazero. The guest's own memory backs the call.
func (h *Host) bind(e *export.Export) api.GoModuleFunc {
	return func(ctx context.Context, mod api.Module, stack []uint64) {
		c := &export.Call{
			Mem:   memoryOf(mod),
			Stack: stack,
			Fatal: func(msg string, code uint32) {
				Logger().Warn("guest trapped",
					zap.String("symbol", e.Symbol),
					zap.String("message", msg),
					zap.Uint32("code", code))
				h.cfg.Fatal(ctx, mod, msg, code)
			},
		}
		e.Invoke(ctx, c)
	}
}

func memoryOf(mod api.Module) numrt.Memory {
	if mod != nil {
		if m := mod.Memory(); m != nil {
			return abi.WrapMemory(m)
		}
	}
	// no memory: every access fails and traps
	return abi.NewBuffer(0)
}

// CheckImports reports the functions a compiled guest imports from the
// host module that the export table does not provide.
func (h *Host) CheckImports(compiled wazero.CompiledModule) error {
	var missing []string
	for _, f := range compiled.ImportedFunctions() {
		mod, name, ok := f.Import()
		if !ok || mod != h.cfg.ModuleName {
			continue
		}
		if _, found := h.table.Lookup(name); !found {
			missing = append(missing, mod+"#"+name)
		}
	}
	if len(missing) > 0 {
		return errors.NewMissingImportsError(missing)
	}
	return nil
}

// Load compiles and instantiates a guest module against the host module.
func (h *Host) Load(ctx context.Context, wasm []byte) (*Guest, error) {
	if err := h.Instantiate(ctx); err != nil {
		return nil, err
	}

	compiled, err := h.runtime.CompileModule(ctx, wasm)
	if err != nil {
		return nil, errors.Load("compile guest", err)
	}
	if err := h.CheckImports(compiled); err != nil {
		_ = compiled.Close(ctx)
		return nil, err
	}

	name := "guest-" + strconv.FormatUint(h.guests.Add(1), 10)
	mod, err := h.runtime.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName(name))
	if err != nil {
		_ = compiled.Close(ctx)
		return nil, errors.Instantiation(err)
	}

	Logger().Debug("guest loaded", zap.String("name", name))
	return &Guest{mod: mod, compiled: compiled}, nil
}

// Close releases the runtime. All guests are closed with it.
func (h *Host) Close(ctx context.Context) error {
	return h.runtime.Close(ctx)
}
