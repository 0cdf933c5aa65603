package armv7a

// RegisterInfo describes one entry of the static ARM register catalog:
// its debugger-facing name and the index this package's ReadCoreReg and
// WriteCoreReg accept for it.
type RegisterInfo struct {
	Name  string
	Index int
}

// registerCatalog is built once and never mutated; Registers returns it
// directly since callers are expected to only read it.
var registerCatalog = [numRegs]RegisterInfo{
	{Name: "r0", Index: RegR0},
	{Name: "r1", Index: RegR1},
	{Name: "r2", Index: RegR2},
	{Name: "r3", Index: RegR3},
	{Name: "r4", Index: RegR4},
	{Name: "r5", Index: RegR5},
	{Name: "r6", Index: RegR6},
	{Name: "r7", Index: RegR7},
	{Name: "r8", Index: RegR8},
	{Name: "r9", Index: RegR9},
	{Name: "r10", Index: RegR10},
	{Name: "r11", Index: RegR11},
	{Name: "r12", Index: RegR12},
	{Name: "sp", Index: RegR13},
	{Name: "lr", Index: RegR14},
	{Name: "pc", Index: RegPC},
	{Name: "cpsr", Index: RegCPSR},
}

// Registers returns the static catalog of registers this controller
// exposes, in index order. The slice is the package's own backing array;
// callers must not modify it.
func (c *Core) Registers() []RegisterInfo {
	return registerCatalog[:]
}

// Architecture identifies the instruction set family this controller
// drives. It is always "Arm"; the value exists for parity with
// debug-core implementations that support more than one family.
func (c *Core) Architecture() string {
	return "Arm"
}

// CoreType returns the architecture variant this controller drives. See
// [CoreType] and [Armv7a].
func (c *Core) CoreType() CoreType {
	return Armv7a
}
