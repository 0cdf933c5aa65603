package armv7a

import "github.com/haltpoint/armv7a-debugcore/logger"

// pcPipelineOffset is the amount A32 reads of PC overshoot by: the value
// `MOV r0, pc` observes is the address of that instruction plus 8, due
// to the A32 three-stage pipeline. The controller normalizes this away
// so callers see the "debug-visible" PC.
const pcPipelineOffset = 8

// ReadCoreReg returns the value of register reg (0..=14 general-purpose,
// 15 for PC, 16 for CPSR). A cached value is returned without hardware
// traffic; otherwise the value is fetched, cached, and returned.
func (c *Core) ReadCoreReg(reg int) (uint32, error) {
	if reg < RegR0 || reg > RegCPSR {
		return 0, errInvalidRegister("read_core_reg", reg)
	}

	if v, ok := c.cache.get(reg); ok {
		return v, nil
	}

	if !c.status().Halted {
		return 0, errNotHalted("read_core_reg")
	}

	var value uint32
	var err error

	switch {
	case reg <= RegR14:
		insn := encMCR(14, 0, uint32(reg), 0, 5, 0)
		value, err = c.ite().executeWithResult("read_core_reg", insn)

	case reg == RegPC:
		value, err = c.readPC()

	case reg == RegCPSR:
		value, err = c.readViaScratch(encMRS(scratchReg))
	}

	if err != nil {
		return 0, err
	}

	c.cache.setClean(reg, value)
	return value, nil
}

// readPC executes `MOV r0, pc` and reads the result back through r0,
// subtracting the A32 pipeline offset.
func (c *Core) readPC() (uint32, error) {
	v, err := c.readViaScratch(encMOV(scratchReg, RegPC))
	if err != nil {
		return 0, err
	}
	return v - pcPipelineOffset, nil
}

// readViaScratch ensures the scratch register's real value is preserved
// (caching it dirty if it is not already cached), runs insn - which is
// expected to deposit its result in the scratch register - then reads
// the scratch register back out via the MCR trick.
func (c *Core) readViaScratch(insn uint32) (uint32, error) {
	if err := c.ensureScratchDirty(); err != nil {
		return 0, err
	}

	if _, err := c.ite().execute("read_core_reg", insn); err != nil {
		return 0, err
	}

	readBack := encMCR(14, 0, scratchReg, 0, 5, 0)
	return c.ite().executeWithResult("read_core_reg", readBack)
}

// ensureScratchDirty guarantees the cache holds a dirty entry for the
// scratch register, reading its live value first if the cache does not
// already have an entry for it. This is the invariant that lets every
// routine that clobbers R0 be restored by the next writeback.
func (c *Core) ensureScratchDirty() error {
	if c.cache.isDirty(scratchReg) {
		return nil
	}

	value, ok := c.cache.get(scratchReg)
	if !ok {
		insn := encMCR(14, 0, scratchReg, 0, 5, 0)
		v, err := c.ite().executeWithResult("read_core_reg", insn)
		if err != nil {
			return err
		}
		value = v
	}

	c.cache.setDirty(scratchReg, value)
	return nil
}

// WriteCoreReg stages value for register reg. No hardware traffic is
// generated here; the write is deferred to the next Run, which flushes
// every dirty slot.
func (c *Core) WriteCoreReg(reg int, value uint32) error {
	if reg < RegR0 || reg > RegCPSR {
		return errInvalidRegister("write_core_reg", reg)
	}
	c.cache.setDirty(reg, value)
	return nil
}

// flushWriteback pushes every dirty cache slot to the core, in ascending
// register order, then empties the cache. Called by Run before resuming,
// and by OnSessionStop on a best-effort basis at shutdown.
//
// PC and CPSR writeback both go via the scratch register, and may
// therefore stage a fresh dirty entry for it mid-flush (to preserve
// whatever value the debuggee actually had there). dirtySlots is
// re-queried on every iteration, rather than snapshotted once, so that
// entry is itself flushed before the cache is cleared.
func (c *Core) flushWriteback() error {
	for {
		slots := c.cache.dirtySlots()
		if len(slots) == 0 {
			break
		}
		reg := slots[0]
		value, _ := c.cache.get(reg)

		switch {
		case reg <= RegR14:
			insn := encMRC(14, 0, uint32(reg), 0, 5, 0)
			if err := c.ite().executeWithInput("run", insn, value); err != nil {
				return err
			}

		case reg == RegPC:
			if err := c.ensureScratchDirty(); err != nil {
				return err
			}
			load := encMRC(14, 0, scratchReg, 0, 5, 0)
			if err := c.ite().executeWithInput("run", load, value); err != nil {
				return err
			}
			branch := encBX(scratchReg)
			if _, err := c.ite().execute("run", branch); err != nil {
				return err
			}

		case reg == RegCPSR:
			if err := c.writebackCPSR(value); err != nil {
				return err
			}
		}

		c.cache.setClean(reg, value)
	}

	c.cache.reset()
	return nil
}

// cpsrFlagsMask covers N, Z, C, V - the only CPSR bits this controller
// will writeback. See the CPSR writeback open question in the spec: mode
// and interrupt-mask bits are never silently poked from the debugger.
const cpsrFlagsMask = 0xf0000000

// writebackCPSR writes only the flag bits (N,Z,C,V) of the staged CPSR
// value via `MSR CPSR_f`. If the non-flag bits of value differ from the
// last value this controller observed for CPSR, the write is skipped
// entirely and a warning logged - this controller does not implement
// privilege-level transitions.
func (c *Core) writebackCPSR(value uint32) error {
	current, err := c.readViaScratch(encMRS(scratchReg))
	if err != nil {
		return err
	}

	if value&^cpsrFlagsMask != current&^cpsrFlagsMask {
		c.logger.Log(logger.Allow, "controller", "dropped CPSR writeback: non-flag bits changed, which this controller does not support")
		return nil
	}

	merged := (current &^ cpsrFlagsMask) | (value & cpsrFlagsMask)

	if err := c.ensureScratchDirty(); err != nil {
		return err
	}
	load := encMRC(14, 0, scratchReg, 0, 5, 0)
	if err := c.ite().executeWithInput("run", load, merged); err != nil {
		return err
	}

	msr := encMSRCPSRFlags(scratchReg)
	_, err = c.ite().execute("run", msr)
	return err
}
