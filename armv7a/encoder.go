package armv7a

// This file encodes the small, fixed set of A32 instructions the debug
// controller smuggles through DBGITR. Every function here is pure: given
// the same operands it always returns the same 32-bit instruction word,
// and none of them touch the target.
//
// Field positions follow the ARM Architecture Reference Manual encoding
// tables. The condition field is always AL (0b1110) - the controller has
// no use for conditional execution, since every instruction it issues
// runs alone, outside of any normal instruction stream.
const condAL = 0b1110 << 28

// encMCR builds `MCR coproc, opc1, Rd, CRn, CRm, opc2` - move from an ARM
// register into a coprocessor register. The controller uses this as
// `MCR p14, 0, Rd, c0, c5, 0` to push Rd into DBGDTRTX.
func encMCR(coproc, opc1, rd, crn, crm, opc2 uint32) uint32 {
	const load = 0 // L=0: store (MCR, not MRC)
	return condAL |
		0b1110<<24 |
		(opc1&0x7)<<21 |
		load<<20 |
		(crn&0xf)<<16 |
		(rd&0xf)<<12 |
		(coproc&0xf)<<8 |
		(opc2&0x7)<<5 |
		1<<4 |
		(crm & 0xf)
}

// encMRC builds `MRC coproc, opc1, Rd, CRn, CRm, opc2` - move to an ARM
// register from a coprocessor register. The controller uses this as
// `MRC p14, 0, Rd, c0, c5, 0` to pull DBGDTRRX into Rd.
func encMRC(coproc, opc1, rd, crn, crm, opc2 uint32) uint32 {
	const load = 1 // L=1: load (MRC, not MCR)
	return condAL |
		0b1110<<24 |
		(opc1&0x7)<<21 |
		load<<20 |
		(crn&0xf)<<16 |
		(rd&0xf)<<12 |
		(coproc&0xf)<<8 |
		(opc2&0x7)<<5 |
		1<<4 |
		(crm & 0xf)
}

// encLDC builds `LDC coproc, CRd, [Rn], #offset` - coprocessor load with
// post-indexed addressing. The controller uses this as
// `LDC p14, c5, [r0], #4` to stream a 32-bit target memory word into
// DBGDTRTX.
//
// offset must be a multiple of 4 in [-1020, 1020]; it is encoded as an
// 8-bit word count with a sign bit, per the LDC/STC encoding.
func encLDC(coproc, crd, rn uint32, offset int32) uint32 {
	const load = 1
	return encLDCSTC(coproc, crd, rn, offset, load)
}

// encSTC builds `STC coproc, CRd, [Rn], #offset` - coprocessor store with
// post-indexed addressing. The controller uses this as
// `STC p14, c5, [r0], #4` to push DBGDTRRX out to a 32-bit target memory
// word.
func encSTC(coproc, crd, rn uint32, offset int32) uint32 {
	const store = 0
	return encLDCSTC(coproc, crd, rn, offset, store)
}

// encLDCSTC is the shared post-indexed coprocessor transfer encoding used
// by both encLDC (load=1) and encSTC (load=0).
func encLDCSTC(coproc, crd, rn uint32, offset int32, load uint32) uint32 {
	const (
		postIndexed = 0 // P=0: add offset after the transfer
		writeback   = 1 // W=1: required alongside P=0 for post-indexing
		normalForm  = 0 // N=0: the standard (non-long) transfer
	)

	add := uint32(1)
	abs := offset
	if abs < 0 {
		add = 0
		abs = -abs
	}
	imm8 := (uint32(abs) / 4) & 0xff

	return condAL |
		0b110<<25 |
		postIndexed<<24 |
		add<<23 |
		normalForm<<22 |
		writeback<<21 |
		load<<20 |
		(rn&0xf)<<16 |
		(crd&0xf)<<12 |
		(coproc&0xf)<<8 |
		imm8
}

// encMOV builds `MOV Rd, Rm` - the data-processing MOV with a register
// operand and no shift. The controller uses this as `MOV r0, pc` to read
// the program counter into the scratch register.
func encMOV(rd, rm uint32) uint32 {
	const movOpcode = 0b1101
	return condAL |
		movOpcode<<21 |
		(rd&0xf)<<12 |
		(rm & 0xf)
}

// encMRS builds `MRS Rd, CPSR` - move the current program status register
// into an ARM register. The controller uses this to read CPSR via the
// scratch register, since CPSR cannot be read any other way from the
// debug port.
func encMRS(rd uint32) uint32 {
	return condAL |
		0b00010<<23 | // R=0 selects CPSR (bit 22, folded into this field)
		0b1111<<16 |
		(rd&0xf)<<12
}

// encMSRCPSRFlags builds `MSR CPSR_f, Rm` - write only the flag field
// (N,Z,C,V) of CPSR from Rm, leaving every other CPSR bit untouched. The
// controller uses this for the conservative CPSR writeback described in
// the register-write section: it never touches mode or interrupt-mask
// bits from this path.
func encMSRCPSRFlags(rm uint32) uint32 {
	const maskFlagsOnly = 0b1000 // mask field: f (flags, PSR[31:24]) only
	return condAL |
		0b00010<<23 | // R=0 selects CPSR (bit 22, folded into this field)
		0b10<<20 |
		maskFlagsOnly<<16 |
		0b1111<<12 |
		(rm & 0xf)
}

// encBX builds `BX Rn` - branch and exchange to the address in Rn,
// switching instruction set according to Rn's bit 0. Used during register
// writeback to relocate the program counter: DBGBVR/DBGDSCR expose no
// other way to set PC directly.
func encBX(rn uint32) uint32 {
	const bxFixedBits = 0x012FFF10
	return condAL | bxFixedBits | (rn & 0xf)
}
