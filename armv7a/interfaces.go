package armv7a

// Memory is the transport the controller rides on. It performs 32-bit
// word accesses at a physical address within the debug component's
// register bank, or anywhere in the target's address space for
// instruction-synthesized memory transactions. Accesses are always
// word-aligned; Core never asks for anything else.
//
// Implementations surface transport failures (bus errors, link timeouts)
// as plain errors; Core wraps them as [ErrTransport] and never interprets
// them further.
type Memory interface {
	ReadWord32(addr uint64) (uint32, error)
	WriteWord32(addr uint64, value uint32) error
}

// CoreType identifies the architecture variant passed to a ResetSequencer.
// Armv7a is the only value this package produces; the type exists so that
// a ResetSequencer implementation shared across architectures can switch
// on it.
type CoreType int

// Armv7a is the sole CoreType this package drives.
const Armv7a = CoreType(0)

// ResetSequencer performs the device-specific reset handshake. It is
// supplied by the caller and invoked by name; this package has no opinion
// about how reset is actually asserted on the target (NRST line, a
// vendor-specific system-reset register, …).
//
// baseAddr is the debug component's physical base address, passed through
// so a sequencer that needs to poke debug registers during reset (e.g. to
// hold the core in reset-catch) knows where to find them.
type ResetSequencer interface {
	ResetSystem(mem Memory, core CoreType, baseAddr uint64) error
	ResetCatchSet(mem Memory, core CoreType, baseAddr uint64) error
	ResetCatchClear(mem Memory, core CoreType, baseAddr uint64) error
}
