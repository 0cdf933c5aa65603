package armv7a

// AvailableBreakpointUnits returns the number of hardware breakpoint
// units this core implements, reading DBGDIDR.BRPS once and caching the
// result for the life of the session.
func (c *Core) AvailableBreakpointUnits() (uint32, error) {
	if c.numBreakpointsKnown {
		return c.numBreakpoints, nil
	}

	v, err := c.readReg("available_breakpoint_units", addrDBGDIDR(c.baseAddress))
	if err != nil {
		return 0, err
	}

	c.numBreakpoints = didr(v).breakpointUnits()
	c.numBreakpointsKnown = true
	return c.numBreakpoints, nil
}

// SetHWBreakpoint programs breakpoint unit with an address-match
// breakpoint at addr.
func (c *Core) SetHWBreakpoint(unit uint32, addr uint64) error {
	if addr > maxAddress32 {
		return errInvalidAddress("set_hw_breakpoint", addr)
	}

	if err := c.writeReg("set_hw_breakpoint", addrDBGBVR(c.baseAddress, unit), uint32(addr)); err != nil {
		return err
	}

	ctrl := newBCR(btAddressMatch, true)
	return c.writeReg("set_hw_breakpoint", addrDBGBCR(c.baseAddress, unit), uint32(ctrl))
}

// ClearHWBreakpoint disables breakpoint unit, zeroing both its value and
// control registers.
func (c *Core) ClearHWBreakpoint(unit uint32) error {
	if err := c.writeReg("clear_hw_breakpoint", addrDBGBVR(c.baseAddress, unit), 0); err != nil {
		return err
	}
	return c.writeReg("clear_hw_breakpoint", addrDBGBCR(c.baseAddress, unit), 0)
}

// HWBreakpoints returns, in unit order, the address each breakpoint unit
// is currently programmed with, or nil for a disabled unit. Its length
// always equals AvailableBreakpointUnits.
func (c *Core) HWBreakpoints() ([]*uint64, error) {
	n, err := c.AvailableBreakpointUnits()
	if err != nil {
		return nil, err
	}

	out := make([]*uint64, n)
	for unit := uint32(0); unit < n; unit++ {
		ctrlWord, err := c.readReg("hw_breakpoints", addrDBGBCR(c.baseAddress, unit))
		if err != nil {
			return nil, err
		}
		if !bcr(ctrlWord).enabled() {
			continue
		}

		addrWord, err := c.readReg("hw_breakpoints", addrDBGBVR(c.baseAddress, unit))
		if err != nil {
			return nil, err
		}
		addr := uint64(addrWord)
		out[unit] = &addr
	}

	return out, nil
}
