package armv7a

import (
	"time"

	"github.com/haltpoint/armv7a-debugcore/logger"
)

// Options configures a Core at construction. The zero value is usable:
// it selects the reference poll interval and an unbounded ITE poll
// ceiling, matching the behavior the spec describes.
type Options struct {
	// BaseAddress is the debug component's physical base address.
	BaseAddress uint64

	// HaltPollInterval is the sleep between DBGDSCR reads inside
	// wait_for_core_halted. Zero selects the reference default of 1ms.
	// A caller driving a high-latency network-attached probe may widen
	// this; a caller on a fast local link may narrow it.
	HaltPollInterval time.Duration

	// ITRPollLimit bounds the number of tight-loop DBGDSCR polls the
	// instruction transfer engine will perform waiting for instruction
	// completion, DTR-TX fill or DTR-RX fill. Zero (the default) means
	// no ceiling, matching the reference behavior; a non-zero value
	// guards against livelocking on a malfunctioning target.
	ITRPollLimit int

	// Logger receives protocol trace and warning entries. A nil Logger
	// is replaced with a small private one of default capacity.
	Logger *logger.Logger
}

const defaultHaltPollInterval = time.Millisecond
