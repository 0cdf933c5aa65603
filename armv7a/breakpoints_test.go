package armv7a

import "testing"

func TestAvailableBreakpointUnitsCached(t *testing.T) {
	c, f := newTestCore(4)

	n, err := c.AvailableBreakpointUnits()
	if err != nil {
		t.Fatalf("AvailableBreakpointUnits: %v", err)
	}
	if n != 4 {
		t.Errorf("AvailableBreakpointUnits = %d, want 4", n)
	}

	f.didrV = didr(0) // hardware "changes"; cached count should not notice
	n, err = c.AvailableBreakpointUnits()
	if err != nil {
		t.Fatalf("AvailableBreakpointUnits: %v", err)
	}
	if n != 4 {
		t.Errorf("cached AvailableBreakpointUnits = %d, want 4", n)
	}
}

func TestSetAndClearHWBreakpoint(t *testing.T) {
	c, f := newTestCore(4)

	if err := c.SetHWBreakpoint(1, 0x8040); err != nil {
		t.Fatalf("SetHWBreakpoint: %v", err)
	}
	if f.bvr[1] != 0x8040 {
		t.Errorf("bvr[1] = %#x, want %#x", f.bvr[1], 0x8040)
	}
	if !bcr(f.bcr[1]).enabled() {
		t.Error("bcr[1] should be enabled")
	}
	if bcr(f.bcr[1]).breakpointType() != btAddressMatch {
		t.Error("bcr[1] should be an address-match breakpoint")
	}

	if err := c.ClearHWBreakpoint(1); err != nil {
		t.Fatalf("ClearHWBreakpoint: %v", err)
	}
	if f.bvr[1] != 0 || f.bcr[1] != 0 {
		t.Error("unit 1 should be fully zeroed after Clear")
	}
}

func TestSetHWBreakpointInvalidAddress(t *testing.T) {
	c, _ := newTestCore(4)
	if err := c.SetHWBreakpoint(0, 0x100000000); err == nil {
		t.Error("expected an error for an address outside the 32-bit range")
	}
}

func TestHWBreakpointsLengthMatchesUnitCount(t *testing.T) {
	c, _ := newTestCore(6)
	bps, err := c.HWBreakpoints()
	if err != nil {
		t.Fatalf("HWBreakpoints: %v", err)
	}
	if len(bps) != 6 {
		t.Errorf("len(HWBreakpoints()) = %d, want 6", len(bps))
	}
}

func TestHWBreakpointsReportsEnabledAndDisabledUnits(t *testing.T) {
	c, _ := newTestCore(4)

	if err := c.SetHWBreakpoint(2, 0x9000); err != nil {
		t.Fatalf("SetHWBreakpoint: %v", err)
	}

	bps, err := c.HWBreakpoints()
	if err != nil {
		t.Fatalf("HWBreakpoints: %v", err)
	}

	for unit, addr := range bps {
		if unit == 2 {
			if addr == nil || *addr != 0x9000 {
				t.Errorf("unit 2 = %v, want pointer to 0x9000", addr)
			}
			continue
		}
		if addr != nil {
			t.Errorf("unit %d = %v, want nil (disabled)", unit, *addr)
		}
	}
}
