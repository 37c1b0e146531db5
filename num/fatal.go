package num

import (
	"github.com/wippyai/numrt/errors"
)

// Trap codes passed to the FatalHandler.
const (
	TrapOverflow    uint32 = 1
	TrapOutOfBounds uint32 = 2
	TrapMemory      uint32 = 3
)

// FatalHandler receives control when a trapping operation fails. It must
// not return; the usual implementation terminates the calling guest.
type FatalHandler func(msg string, code uint32)

// Fatal transfers control to h and never returns. A nil handler, or one
// that returns anyway, ends in a panic carrying a trap error.
func Fatal(h FatalHandler, msg string, code uint32) {
	if h != nil {
		h(msg, code)
	}
	panic(errors.Trap(msg, code))
}
