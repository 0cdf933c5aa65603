package armv7a

// bcr is a typed view over a 32-bit DBGBCR[n] (breakpoint control
// register) word.
type bcr uint32

// breakpoint type (BT) field values, DBGBCR[n][23:20].
const (
	btAddressMatch    = 0b0000
	btAddressMismatch = 0b0100
)

const (
	bcrEShift   = 0
	bcrPMCShift = 1
	bcrPMCMask  = 0x3
	bcrHMC      = 13
	bcrBASShift = 5
	bcrBASMask  = 0xf
	bcrBTShift  = 20
	bcrBTMask   = 0xf
)

func (b bcr) enabled() bool {
	return uint32(b)&(1<<bcrEShift) != 0
}

func (b bcr) breakpointType() uint32 {
	return (uint32(b) >> bcrBTShift) & bcrBTMask
}

// newBCR builds a DBGBCR[n] word with the fixed field combination this
// controller always uses: PMC=0b11 (match in any mode), HMC=1 (match in
// hyp/monitor context), BAS=0b1111 (all four bytes of the word), and the
// caller-supplied breakpoint type and enable bit.
func newBCR(breakpointType uint32, enabled bool) bcr {
	const pmc = 0b11
	var e uint32
	if enabled {
		e = 1
	}
	return bcr(
		e<<bcrEShift |
			pmc<<bcrPMCShift |
			1<<bcrHMC |
			0b1111<<bcrBASShift |
			(breakpointType&bcrBTMask)<<bcrBTShift,
	)
}
