package armv7a

import "fmt"

// Kind categorises an *Error. Callers discriminate with errors.Is against
// the Err* sentinels below rather than comparing Kind directly, since a
// future Kind may gain payload fields without changing its identity.
type Kind int

const (
	// KindNotHalted means the operation requires the core to be halted and
	// it was not.
	KindNotHalted Kind = iota

	// KindInvalidRegisterNumber means a register index fell outside
	// [0..=16].
	KindInvalidRegisterNumber

	// KindDataAbort means a synchronous or asynchronous abort was flagged
	// after an instruction issued through the ITR. Sticky abort bits have
	// already been cleared by the time this error is returned.
	KindDataAbort

	// KindTimeout means a bounded wait exceeded its deadline.
	KindTimeout

	// KindTransport wraps an error surfaced by the Memory interface or a
	// ResetSequencer. The underlying error is unchanged and available via
	// errors.Unwrap.
	KindTransport

	// KindInvalidAddress means an address exceeded the 32-bit range this
	// controller supports.
	KindInvalidAddress

	// KindUnsupported means the caller asked for a capability this core
	// does not implement (e.g. FPU register access).
	KindUnsupported
)

func (k Kind) String() string {
	switch k {
	case KindNotHalted:
		return "not halted"
	case KindInvalidRegisterNumber:
		return "invalid register number"
	case KindDataAbort:
		return "data abort"
	case KindTimeout:
		return "timeout"
	case KindTransport:
		return "transport"
	case KindInvalidAddress:
		return "invalid address"
	case KindUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// Error is the sole error type this package returns. Use errors.Is against
// the Err* sentinels to discriminate by Kind, and errors.As to recover
// register/address detail or an underlying transport error.
type Error struct {
	Kind Kind

	// Reg is set for KindInvalidRegisterNumber.
	Reg int

	// Addr is set for KindInvalidAddress.
	Addr uint64

	// Op names the operation that failed, for context in the message
	// (e.g. "read_core_reg", "step").
	Op string

	// Err is the wrapped cause, set for KindTransport.
	Err error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindInvalidRegisterNumber:
		return fmt.Sprintf("%s: invalid register number %d", e.Op, e.Reg)
	case KindInvalidAddress:
		return fmt.Sprintf("%s: invalid address %#x", e.Op, e.Addr)
	case KindTransport:
		return fmt.Sprintf("%s: transport: %v", e.Op, e.Err)
	default:
		if e.Op == "" {
			return e.Kind.String()
		}
		return fmt.Sprintf("%s: %s", e.Op, e.Kind.String())
	}
}

// Unwrap exposes the wrapped transport error, if any, to errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is one of the Err* sentinels of the same Kind,
// so that errors.Is(err, ErrNotHalted) works without a type assertion.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels for use with errors.Is. Their fields are not populated; compare
// only the Kind.
var (
	ErrNotHalted             = &Error{Kind: KindNotHalted}
	ErrInvalidRegisterNumber = &Error{Kind: KindInvalidRegisterNumber}
	ErrDataAbort             = &Error{Kind: KindDataAbort}
	ErrTimeout               = &Error{Kind: KindTimeout}
	ErrTransport             = &Error{Kind: KindTransport}
	ErrInvalidAddress        = &Error{Kind: KindInvalidAddress}
	ErrUnsupported           = &Error{Kind: KindUnsupported}
)

func errNotHalted(op string) error {
	return &Error{Kind: KindNotHalted, Op: op}
}

func errInvalidRegister(op string, reg int) error {
	return &Error{Kind: KindInvalidRegisterNumber, Op: op, Reg: reg}
}

func errDataAbort(op string) error {
	return &Error{Kind: KindDataAbort, Op: op}
}

func errTimeout(op string) error {
	return &Error{Kind: KindTimeout, Op: op}
}

func errTransport(op string, err error) error {
	return &Error{Kind: KindTransport, Op: op, Err: err}
}

func errInvalidAddress(op string, addr uint64) error {
	return &Error{Kind: KindInvalidAddress, Op: op, Addr: addr}
}

func errUnsupported(op string) error {
	return &Error{Kind: KindUnsupported, Op: op}
}
