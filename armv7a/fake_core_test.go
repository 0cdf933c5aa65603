package armv7a

// fakeCore is a hand-rolled stand-in for a real ARMv7-A debug component.
// It implements Memory directly over a flat register bank addressed by
// the same offsets offsets.go computes, and it interprets the small,
// fixed instruction set encoder.go emits well enough to make the
// controller's ITE round trips behave like a real core would. It does
// not decode arbitrary A32 - only the handful of instruction shapes this
// package ever synthesizes.
type fakeCore struct {
	base uint64

	regs [15]uint32 // r0..r14
	pc   uint32
	cpsr uint32

	targetMem map[uint32]uint32

	dtrrx uint32
	dtrtx uint32
	dscrV dscr

	didrV   didr
	numBRP  uint32
	bvr     [16]uint32
	bcr     [16]uint32

	resetCount      int
	resetCatchSet   bool
	resetCatchClear bool

	// failDataAbort, when set, makes the next executed instruction raise
	// a data abort instead of completing normally.
	failDataAbort bool
}

func newFakeCore(base uint64, numBRP uint32) *fakeCore {
	f := &fakeCore{
		base:      base,
		targetMem: make(map[uint32]uint32),
		numBRP:    numBRP,
	}
	f.didrV = didr((numBRP - 1) << didrBRPSShift)
	f.dscrV = f.dscrV.withBit(dscrHalted, true)
	return f
}

func (f *fakeCore) halt() {
	f.dscrV = f.dscrV.withBit(dscrHalted, true)
	f.dscrV = f.dscrV.withBit(dscrRestarted, false)
}

func (f *fakeCore) run() {
	f.dscrV = f.dscrV.withBit(dscrHalted, false)
	f.dscrV = f.dscrV.withBit(dscrRestarted, true)

	// The fake does not model free-running execution: its PC moves only
	// when an armed mismatch breakpoint sits on it, in which case it
	// retires one instruction and halts. An address-match breakpoint on
	// the current PC halts at once. If nothing fires, the fake stays
	// running.
	for unit := uint32(0); unit < f.numBRP; unit++ {
		ctrl := bcr(f.bcr[unit])
		if !ctrl.enabled() {
			continue
		}
		addr := f.bvr[unit]
		switch ctrl.breakpointType() {
		case btAddressMatch:
			if f.pc == addr {
				f.dscrV = f.dscrV.withBit(dscrHalted, true)
			}
		case btAddressMismatch:
			if f.pc == addr {
				f.pc += 4
			}
			f.dscrV = f.dscrV.withBit(dscrHalted, true)
		}
	}
}

func (f *fakeCore) ReadWord32(addr uint64) (uint32, error) {
	switch addr {
	case addrDBGDIDR(f.base):
		return uint32(f.didrV), nil
	case addrDBGDTRRX(f.base):
		return f.dtrrx, nil
	case addrDBGDSCR(f.base):
		return uint32(f.dscrV), nil
	case addrDBGDTRTX(f.base):
		return f.dtrtx, nil
	}
	for unit := uint32(0); unit < 16; unit++ {
		if addr == addrDBGBVR(f.base, unit) {
			return f.bvr[unit], nil
		}
		if addr == addrDBGBCR(f.base, unit) {
			return f.bcr[unit], nil
		}
	}
	return 0, errUnsupported("fake read")
}

func (f *fakeCore) WriteWord32(addr uint64, value uint32) error {
	switch addr {
	case addrDBGDTRRX(f.base):
		f.dtrrx = value
		f.dscrV = f.dscrV.withBit(dscrRXFullL, true)
		return nil
	case addrDBGDSCR(f.base):
		f.dscrV = dscr(value)
		return nil
	case addrDBGITR(f.base):
		f.execute(value)
		return nil
	case addrDBGDRCR(f.base):
		switch {
		case value&(1<<drcrHRQ) != 0:
			f.halt()
		case value&(1<<drcrRRQ) != 0:
			f.run()
		case value&(1<<drcrCSE) != 0:
			f.dscrV = f.dscrV.withBit(dscrSDAbortL, false).withBit(dscrADAbortL, false)
		}
		return nil
	}
	for unit := uint32(0); unit < 16; unit++ {
		if addr == addrDBGBVR(f.base, unit) {
			f.bvr[unit] = value
			return nil
		}
		if addr == addrDBGBCR(f.base, unit) {
			f.bcr[unit] = value
			return nil
		}
	}
	return errUnsupported("fake write")
}

// execute interprets insn well enough to service every encoder.go shape,
// then marks the transfer complete (and TX full, for MCR and LDC) as if
// polling had observed it instantly.
func (f *fakeCore) execute(insn uint32) {
	f.dscrV = f.dscrV.withBit(dscrRXFullL, false)

	if f.failDataAbort {
		f.failDataAbort = false
		f.dscrV = f.dscrV.withBit(dscrSDAbortL, true)
		f.dscrV = f.dscrV.withBit(dscrInstrCompL, true)
		return
	}

	rd := (insn >> 12) & 0xf
	rn := (insn >> 16) & 0xf
	load20 := (insn >> 20) & 1

	switch {
	case insn&0x0F000010 == 0x0E000010: // MCR/MRC, coproc 14
		if load20 == 1 { // MRC: DTRRX -> Rd
			f.setReg(rd, f.dtrrx)
		} else { // MCR: Rd -> DTRTX
			f.dtrtx = f.getReg(rd)
			f.dscrV = f.dscrV.withBit(dscrTXFullL, true)
		}

	case insn&0x0E100000 == 0x0C100000: // LDC: [Rn], #off -> DTRTX (implicit c5, no gpr write)
		addr := f.getRegOrPC(rn)
		f.dtrtx = f.targetMem[addr]
		f.dscrV = f.dscrV.withBit(dscrTXFullL, true)
		f.bumpPostIndex(rn, insn)

	case insn&0x0E100000 == 0x0C000000: // STC: DTRRX -> [Rn], #off
		addr := f.getRegOrPC(rn)
		f.targetMem[addr] = f.dtrrx
		f.bumpPostIndex(rn, insn)

	case insn&0x0FE00FF0 == 0x01A00000 && insn&0xf0 == 0: // MOV Rd, Rm
		rm := insn & 0xf
		f.setReg(rd, f.getRegOrPC(rm))

	case insn&0x0FBF0FFF == 0x010F0000: // MRS Rd, CPSR
		f.setReg(rd, f.cpsr)

	case insn&0x0FFFFFF0 == 0x0128F000: // MSR CPSR_f, Rm (mask field must select flags only)
		rm := insn & 0xf
		f.cpsr = (f.cpsr &^ cpsrFlagsMask) | (f.getReg(rm) & cpsrFlagsMask)

	case insn&0x0FFFFFF0 == 0x012FFF10: // BX Rn
		rn := insn & 0xf
		f.pc = f.getReg(rn)
	}

	f.dscrV = f.dscrV.withBit(dscrInstrCompL, true)
}

func (f *fakeCore) bumpPostIndex(rn uint32, insn uint32) {
	add := (insn >> 23) & 1
	imm8 := insn & 0xff
	delta := imm8 * 4
	cur := f.getRegOrPC(rn)
	if add == 1 {
		cur += delta
	} else {
		cur -= delta
	}
	f.setReg(rn, cur)
}

func (f *fakeCore) getReg(reg uint32) uint32 {
	if reg == 15 {
		return f.pc + pcPipelineOffset
	}
	return f.regs[reg]
}

func (f *fakeCore) getRegOrPC(reg uint32) uint32 {
	return f.getReg(reg)
}

func (f *fakeCore) setReg(reg uint32, value uint32) {
	if reg == 15 {
		f.pc = value
		return
	}
	f.regs[reg] = value
}

type fakeResetSequencer struct {
	f *fakeCore
}

func (r fakeResetSequencer) ResetSystem(mem Memory, core CoreType, baseAddr uint64) error {
	r.f.resetCount++
	r.f.pc = 0
	return nil
}

func (r fakeResetSequencer) ResetCatchSet(mem Memory, core CoreType, baseAddr uint64) error {
	r.f.resetCatchSet = true
	return nil
}

func (r fakeResetSequencer) ResetCatchClear(mem Memory, core CoreType, baseAddr uint64) error {
	r.f.resetCatchClear = true
	r.f.halt()
	return nil
}

const testBase = 0x80000000

func newTestCore(numBRP uint32) (*Core, *fakeCore) {
	f := newFakeCore(testBase, numBRP)
	c := NewCore(f, fakeResetSequencer{f: f}, Options{BaseAddress: testBase})
	return c, f
}
