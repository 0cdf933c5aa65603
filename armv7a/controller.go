package armv7a

import (
	"time"

	"github.com/haltpoint/armv7a-debugcore/logger"
)

// CoreInformation is returned by the operations that transition the core
// to a halted state, carrying the program counter observed immediately
// after the transition.
type CoreInformation struct {
	PC uint32
}

// InstructionSet identifies the instruction set the core is currently
// executing, derived from CPSR.T.
type InstructionSet int

const (
	InstructionSetA32 InstructionSet = iota
	InstructionSetThumb2
)

func (s InstructionSet) String() string {
	if s == InstructionSetThumb2 {
		return "Thumb2"
	}
	return "A32"
}

// Core is the ARMv7-A external debug controller. It owns all
// per-session state - the register cache, the cached halt status, the
// lazily-discovered breakpoint unit count - for a single debug
// attachment, and is the only exported entry point into this package.
//
// Core is not safe for concurrent use; see the package doc comment.
type Core struct {
	mem      Memory
	resetSeq ResetSequencer
	logger   *logger.Logger

	baseAddress      uint64
	haltPollInterval time.Duration
	itrPollLimit     int

	initialized  bool
	currentState Status
	cache        registerCache
	itrEnabled   bool

	numBreakpoints      uint32
	numBreakpointsKnown bool
}

// NewCore constructs a Core bound to mem for instruction/data transfer
// and resetSeq for reset handling. Construction does not itself touch
// the target; call Status (or any operation that polls DBGDSCR, such as
// Halt) to perform the first-attachment read described in the
// specification's Initialization section.
func NewCore(mem Memory, resetSeq ResetSequencer, opts Options) *Core {
	interval := opts.HaltPollInterval
	if interval <= 0 {
		interval = defaultHaltPollInterval
	}

	l := opts.Logger
	if l == nil {
		l = logger.NewLogger(512)
	}

	return &Core{
		mem:              mem,
		resetSeq:         resetSeq,
		logger:           l,
		baseAddress:      opts.BaseAddress,
		haltPollInterval: interval,
		itrPollLimit:     opts.ITRPollLimit,
	}
}

// ite is a stateless view used to reach the instruction transfer engine's
// methods; it carries no state of its own beyond the *Core it wraps.
func (c *Core) ite() instructionTransfer {
	return instructionTransfer{c: c}
}

// --- low level MMIO helpers -------------------------------------------------

func (c *Core) readReg(op string, addr uint64) (uint32, error) {
	v, err := c.mem.ReadWord32(addr)
	if err != nil {
		return 0, errTransport(op, err)
	}
	return v, nil
}

func (c *Core) writeReg(op string, addr uint64, value uint32) error {
	if err := c.mem.WriteWord32(addr, value); err != nil {
		return errTransport(op, err)
	}
	return nil
}

func (c *Core) readDSCR(op string) (dscr, error) {
	v, err := c.readReg(op, addrDBGDSCR(c.baseAddress))
	if err != nil {
		return 0, err
	}
	return dscr(v), nil
}

// pollUntil polls pred in a tight loop (no sleep) until it reports true,
// an error, or the configured ITR poll ceiling is reached. A zero
// ceiling (the default) polls without bound, matching reference
// behavior.
func (c *Core) pollUntil(op string, pred func() (bool, error)) error {
	for i := 0; c.itrPollLimit == 0 || i < c.itrPollLimit; i++ {
		done, err := pred()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
	c.logger.Logf(logger.Allow, "ite", "%s: poll ceiling (%d) reached", op, c.itrPollLimit)
	return errTimeout(op)
}

// --- initialization & status -------------------------------------------------

// Status reads DBGDSCR and returns the core's current status, updating
// the cached state. The first call on a fresh Core additionally marks
// the session initialized; subsequent constructions against the same
// in-memory Core reuse this state rather than re-polling.
func (c *Core) Status() (Status, error) {
	d, err := c.readDSCR("status")
	if err != nil {
		return Status{}, err
	}

	wasHalted := c.initialized && c.currentState.Halted

	s := Status{Halted: d.halted()}
	if s.Halted {
		s.Reason = d.haltReason()
	}

	if c.initialized && wasHalted && !s.Halted {
		c.logger.Log(logger.Allow, "controller", "core transitioned from halted to running without a debugger-issued run")
	}

	c.initialized = true
	c.currentState = s
	return s, nil
}

// status returns the cached status without polling hardware, falling
// back to a real poll if the session has not yet been initialized. Most
// internal call sites that need "is the core halted right now" go
// through this rather than Status, to avoid doubling up on traffic
// within a single operation that already knows the answer.
func (c *Core) status() Status {
	if !c.initialized {
		s, err := c.Status()
		if err != nil {
			return Status{}
		}
		return s
	}
	return c.currentState
}

// CoreHalted reports whether the core is currently halted, using the
// cached status. Call Status first if a fresh poll is required.
func (c *Core) CoreHalted() bool {
	return c.status().Halted
}

// WaitForCoreHalted polls DBGDSCR at the configured interval (1ms by
// default) until the core reports halted, or timeout elapses.
func (c *Core) WaitForCoreHalted(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		s, err := c.Status()
		if err != nil {
			return err
		}
		if s.Halted {
			return nil
		}
		if !time.Now().Before(deadline) {
			return errTimeout("wait_for_core_halted")
		}
		time.Sleep(c.haltPollInterval)
	}
}

// --- halt / run / reset -------------------------------------------------

// Halt requests the core halt, if it is not already halted, and returns
// its program counter once halted.
func (c *Core) Halt(timeout time.Duration) (CoreInformation, error) {
	s := c.status()
	if s.Halted {
		if _, err := c.Status(); err != nil {
			return CoreInformation{}, err
		}
		return c.currentPCInfo()
	}

	if err := c.writeReg("halt", addrDBGDRCR(c.baseAddress), drcrHaltRequest()); err != nil {
		return CoreInformation{}, err
	}

	if err := c.WaitForCoreHalted(timeout); err != nil {
		return CoreInformation{}, err
	}

	c.cache.reset()

	if _, err := c.Status(); err != nil {
		return CoreInformation{}, err
	}

	return c.currentPCInfo()
}

func (c *Core) currentPCInfo() (CoreInformation, error) {
	pc, err := c.ReadCoreReg(RegPC)
	if err != nil {
		return CoreInformation{}, err
	}
	return CoreInformation{PC: pc}, nil
}

// Run flushes dirty cached registers and resumes the core, if it is not
// already running.
func (c *Core) Run() error {
	if !c.status().Halted {
		return nil
	}

	if err := c.flushWriteback(); err != nil {
		return err
	}

	if err := c.writeReg("run", addrDBGDRCR(c.baseAddress), drcrRestartRequest()); err != nil {
		return err
	}

	if err := c.pollUntil("run", func() (bool, error) {
		d, err := c.readDSCR("run")
		if err != nil {
			return false, err
		}
		return d.restarted(), nil
	}); err != nil {
		return err
	}

	c.currentState = Status{Halted: false}
	_, err := c.Status()
	return err
}

// Reset delegates to the external debug sequence to perform a system
// reset, then invalidates the register cache. Unlike halt/run, reset
// does not itself wait for any particular core state - the sequence
// hook is responsible for whatever synchronization it needs.
func (c *Core) Reset() error {
	if err := c.resetSeq.ResetSystem(c.mem, Armv7a, c.baseAddress); err != nil {
		return errTransport("reset", err)
	}
	c.cache.reset()
	c.itrEnabled = false
	return nil
}

// ResetAndHalt resets the core and halts it as early as the reset-catch
// mechanism allows, returning its program counter.
func (c *Core) ResetAndHalt(timeout time.Duration) (CoreInformation, error) {
	if err := c.resetSeq.ResetCatchSet(c.mem, Armv7a, c.baseAddress); err != nil {
		return CoreInformation{}, errTransport("reset_and_halt", err)
	}

	if err := c.resetSeq.ResetSystem(c.mem, Armv7a, c.baseAddress); err != nil {
		return CoreInformation{}, errTransport("reset_and_halt", err)
	}

	if err := c.writeReg("reset_and_halt", addrDBGDRCR(c.baseAddress), drcrHaltRequest()); err != nil {
		return CoreInformation{}, err
	}

	if err := c.resetSeq.ResetCatchClear(c.mem, Armv7a, c.baseAddress); err != nil {
		return CoreInformation{}, errTransport("reset_and_halt", err)
	}

	if err := c.WaitForCoreHalted(timeout); err != nil {
		return CoreInformation{}, err
	}

	if _, err := c.Status(); err != nil {
		return CoreInformation{}, err
	}

	c.cache.reset()
	c.itrEnabled = false

	return c.currentPCInfo()
}

// OnSessionStop performs a best-effort flush of any dirty cached
// registers if the core is currently halted. The caller decides whether
// a returned error is fatal to shutdown.
func (c *Core) OnSessionStop() error {
	if !c.status().Halted {
		return nil
	}
	return c.flushWriteback()
}

// InstructionSet reports whether the core is currently executing A32 or
// Thumb2, derived from CPSR.T (bit 5).
func (c *Core) InstructionSet() (InstructionSet, error) {
	cpsr, err := c.ReadCoreReg(RegCPSR)
	if err != nil {
		return InstructionSetA32, err
	}
	if cpsr&(1<<5) != 0 {
		return InstructionSetThumb2, nil
	}
	return InstructionSetA32, nil
}

// FPUSupport always fails: floating-point register access is an explicit
// non-goal of this controller.
func (c *Core) FPUSupport() error {
	return errUnsupported("fpu_support")
}

// EnableBreakpoints exists for interface parity with debug-core
// implementations that can disable hardware breakpoints globally. This
// controller's breakpoints are always enabled, so it is a no-op.
func (c *Core) EnableBreakpoints(bool) {}

// HWBreakpointsEnabled always reports true; see EnableBreakpoints.
func (c *Core) HWBreakpointsEnabled() bool {
	return true
}
