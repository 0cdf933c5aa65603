package armv7a

import "time"

// stepHaltTimeout bounds how long Step waits for the mismatch breakpoint
// to fire. A single instruction retiring should never take anywhere
// close to this; it exists only to turn a wedged core into an error
// instead of a permanent hang.
const stepHaltTimeout = 100 * time.Millisecond

// Step executes exactly one instruction and leaves the core halted
// again, by programming the last available hardware breakpoint unit as
// an address-mismatch breakpoint on the current PC, running, and waiting
// for it to fire. This controller implements no other form of
// single-step, so Step fails outright on a core with zero breakpoint
// units.
//
// The unit is restored to whatever it held before Step was called,
// whether or not Step succeeds.
func (c *Core) Step() (CoreInformation, error) {
	n, err := c.AvailableBreakpointUnits()
	if err != nil {
		return CoreInformation{}, err
	}
	if n == 0 {
		return CoreInformation{}, errUnsupported("step")
	}
	unit := n - 1

	if !c.status().Halted {
		return CoreInformation{}, errNotHalted("step")
	}

	savedAddr, err := c.readReg("step", addrDBGBVR(c.baseAddress, unit))
	if err != nil {
		return CoreInformation{}, err
	}
	savedCtrl, err := c.readReg("step", addrDBGBCR(c.baseAddress, unit))
	if err != nil {
		return CoreInformation{}, err
	}
	restore := func() error {
		if err := c.writeReg("step", addrDBGBVR(c.baseAddress, unit), savedAddr); err != nil {
			return err
		}
		return c.writeReg("step", addrDBGBCR(c.baseAddress, unit), savedCtrl)
	}

	pc, err := c.ReadCoreReg(RegPC)
	if err != nil {
		return CoreInformation{}, err
	}

	if err := c.writeReg("step", addrDBGBVR(c.baseAddress, unit), pc); err != nil {
		restore()
		return CoreInformation{}, err
	}
	mismatch := newBCR(btAddressMismatch, true)
	if err := c.writeReg("step", addrDBGBCR(c.baseAddress, unit), uint32(mismatch)); err != nil {
		restore()
		return CoreInformation{}, err
	}

	if err := c.Run(); err != nil {
		restore()
		return CoreInformation{}, err
	}

	waitErr := c.WaitForCoreHalted(stepHaltTimeout)

	if err := restore(); err != nil {
		return CoreInformation{}, err
	}
	if waitErr != nil {
		return CoreInformation{}, waitErr
	}

	return c.currentPCInfo()
}
