package host

import (
	"context"

	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/sys"
)

// DefaultModuleName is the import module guests use for numrt exports.
const DefaultModuleName = "numrt"

// TrapFunc receives a failed trapping export on behalf of the guest module
// that called it. It must not return; returning ends in a panic carrying
// the trap error.
type TrapFunc func(ctx context.Context, mod api.Module, msg string, code uint32)

// Config holds configuration for host creation.
type Config struct {
	// Fatal handles traps. Nil means ExitTrap.
	Fatal TrapFunc

	// ModuleName is the host module name. Empty means DefaultModuleName.
	ModuleName string

	// MemoryLimitPages sets the maximum guest memory in 64KiB pages.
	// 0 means the wazero default.
	MemoryLimitPages uint32
}

func (c Config) withDefaults() Config {
	if c.ModuleName == "" {
		c.ModuleName = DefaultModuleName
	}
	if c.Fatal == nil {
		c.Fatal = ExitTrap
	}
	return c
}

// ExitTrap closes the calling module with the trap code as its exit code
// and unwinds the guest call. The call returns a *sys.ExitError.
func ExitTrap(ctx context.Context, mod api.Module, _ string, code uint32) {
	if mod != nil {
		_ = mod.CloseWithExitCode(ctx, code)
	}
	panic(sys.NewExitError(code))
}
