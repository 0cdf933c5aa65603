package armv7a

// This file implements target memory I/O. Every access is mediated by
// CPU execution - the debugger loads the scratch register with the
// target address and issues an LDC/STC through the instruction transfer
// engine - which guarantees cache and MMU coherency for free. There is
// no separate "flush" path to get right.

const maxAddress32 = 0xFFFFFFFF

// ReadWord32 reads one 32-bit word from the target's memory at addr.
func (c *Core) ReadWord32(addr uint64) (uint32, error) {
	if addr > maxAddress32 {
		return 0, errInvalidAddress("read_word_32", addr)
	}

	if err := c.loadScratchAddress(uint32(addr)); err != nil {
		return 0, err
	}

	insn := encLDC(14, 5, scratchReg, 4)
	return c.ite().executeWithResult("read_word_32", insn)
}

// WriteWord32 writes one 32-bit word to the target's memory at addr.
func (c *Core) WriteWord32(addr uint64, data uint32) error {
	if addr > maxAddress32 {
		return errInvalidAddress("write_word_32", addr)
	}

	if err := c.loadScratchAddress(uint32(addr)); err != nil {
		return err
	}

	insn := encSTC(14, 5, scratchReg, 4)
	return c.ite().executeWithInput("write_word_32", insn, data)
}

// loadScratchAddress ensures the scratch register is cached dirty, then
// writes addr into it with an MRC from DBGDTRRX, ready for an immediately
// following LDC/STC.
func (c *Core) loadScratchAddress(addr uint32) error {
	if err := c.ensureScratchDirty(); err != nil {
		return err
	}
	insn := encMRC(14, 0, scratchReg, 0, 5, 0)
	return c.ite().executeWithInput("memory", insn, addr)
}

// ReadWord8 reads a single byte from the target's memory at addr, via
// the enclosing 32-bit word.
func (c *Core) ReadWord8(addr uint64) (uint8, error) {
	word, err := c.ReadWord32(addr &^ 3)
	if err != nil {
		return 0, err
	}
	shift := uint(addr&3) * 8
	return uint8(word >> shift), nil
}

// WriteWord8 writes a single byte to the target's memory at addr, via a
// read-modify-write of the enclosing 32-bit word.
func (c *Core) WriteWord8(addr uint64, data uint8) error {
	base := addr &^ 3
	word, err := c.ReadWord32(base)
	if err != nil {
		return err
	}

	shift := uint(addr&3) * 8
	word &^= 0xff << shift
	word |= uint32(data) << shift

	return c.WriteWord32(base, word)
}

// ReadDWord64 reads a 64-bit quantity as two consecutive 32-bit
// accesses, low word first, at addr and addr+4.
func (c *Core) ReadDWord64(addr uint64) (uint64, error) {
	lo, err := c.ReadWord32(addr)
	if err != nil {
		return 0, err
	}
	hi, err := c.ReadWord32(addr + 4)
	if err != nil {
		return 0, err
	}
	return uint64(hi)<<32 | uint64(lo), nil
}

// WriteDWord64 writes a 64-bit quantity as two consecutive 32-bit
// accesses, low word first, at addr and addr+4.
func (c *Core) WriteDWord64(addr uint64, data uint64) error {
	if err := c.WriteWord32(addr, uint32(data)); err != nil {
		return err
	}
	return c.WriteWord32(addr+4, uint32(data>>32))
}

// ReadMemory32 reads count consecutive 32-bit words starting at addr, by
// repeated single-word reads.
func (c *Core) ReadMemory32(addr uint64, count int) ([]uint32, error) {
	out := make([]uint32, count)
	for i := range out {
		v, err := c.ReadWord32(addr + uint64(i)*4)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// WriteMemory32 writes data as consecutive 32-bit words starting at
// addr, by repeated single-word writes.
func (c *Core) WriteMemory32(addr uint64, data []uint32) error {
	for i, v := range data {
		if err := c.WriteWord32(addr+uint64(i)*4, v); err != nil {
			return err
		}
	}
	return nil
}

// ReadMemory8 reads count consecutive bytes starting at addr, by
// repeated single-byte reads.
func (c *Core) ReadMemory8(addr uint64, count int) ([]uint8, error) {
	out := make([]uint8, count)
	for i := range out {
		v, err := c.ReadWord8(addr + uint64(i))
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// WriteMemory8 writes data as consecutive bytes starting at addr, by
// repeated single-byte writes.
func (c *Core) WriteMemory8(addr uint64, data []uint8) error {
	for i, v := range data {
		if err := c.WriteWord8(addr+uint64(i), v); err != nil {
			return err
		}
	}
	return nil
}

// Flush is a no-op: every access in this file is CPU-mediated and
// therefore already coherent with the target's caches and MMU. It
// exists for interface parity with memory implementations that buffer
// writes.
func (c *Core) Flush() error {
	return nil
}
