package armv7a

import "github.com/haltpoint/armv7a-debugcore/logger"

// instructionTransfer executes exactly one A32 instruction on a halted
// core via DBGITR, and moves at most one word in and/or out over the DTR
// data ports. It holds no state of its own beyond a read/write handle on
// the owning Core - every entry point here assumes the core is already
// halted, and none of them touch the register cache.
type instructionTransfer struct {
	c *Core
}

// execute runs insn on the core with no data transfer. It is the common
// path every other entry point builds on: it lazily enables ITR, writes
// the instruction, polls for completion, and clears a data abort should
// one be flagged.
func (ite instructionTransfer) execute(op string, insn uint32) (dscr, error) {
	c := ite.c

	if !c.status().Halted {
		return 0, errNotHalted(op)
	}

	if err := ite.ensureITREN(op); err != nil {
		return 0, err
	}

	if err := c.writeReg(op, addrDBGITR(c.baseAddress), insn); err != nil {
		return 0, err
	}

	var d dscr
	if err := c.pollUntil(op, func() (bool, error) {
		var err error
		d, err = c.readDSCR(op)
		if err != nil {
			return false, err
		}
		return d.instrCompL(), nil
	}); err != nil {
		return 0, err
	}

	if d.sdAbortL() || d.adAbortL() {
		c.logger.Logf(logger.Allow, "ite", "%s: data abort flagged, clearing sticky bits", op)
		if err := c.writeReg(op, addrDBGDRCR(c.baseAddress), drcrClearStickyErrors()); err != nil {
			return 0, err
		}
		return 0, errDataAbort(op)
	}

	return d, nil
}

// executeWithResult runs insn and returns the single word it deposited in
// DBGDTRTX.
func (ite instructionTransfer) executeWithResult(op string, insn uint32) (uint32, error) {
	c := ite.c

	if _, err := ite.execute(op, insn); err != nil {
		return 0, err
	}

	if err := c.pollUntil(op, func() (bool, error) {
		d, err := c.readDSCR(op)
		if err != nil {
			return false, err
		}
		return d.txFullL(), nil
	}); err != nil {
		return 0, err
	}

	return c.readReg(op, addrDBGDTRTX(c.baseAddress))
}

// executeWithInput writes input to DBGDTRRX, waits until DBGDSCR reports
// DTRRX full, then runs insn with no further data transfer.
func (ite instructionTransfer) executeWithInput(op string, insn uint32, input uint32) error {
	c := ite.c

	if !c.status().Halted {
		return errNotHalted(op)
	}

	if err := c.writeReg(op, addrDBGDTRRX(c.baseAddress), input); err != nil {
		return err
	}

	if err := c.pollUntil(op, func() (bool, error) {
		d, err := c.readDSCR(op)
		if err != nil {
			return false, err
		}
		return d.rxFullL(), nil
	}); err != nil {
		return err
	}

	_, err := ite.execute(op, insn)
	return err
}

// ensureITREN enables instruction transfer for the session, the first
// time any instruction is executed.
func (ite instructionTransfer) ensureITREN(op string) error {
	c := ite.c
	if c.itrEnabled {
		return nil
	}

	d, err := c.readDSCR(op)
	if err != nil {
		return err
	}
	d = d.withITREN(true)
	if err := c.writeReg(op, addrDBGDSCR(c.baseAddress), uint32(d)); err != nil {
		return err
	}
	c.itrEnabled = true
	return nil
}
