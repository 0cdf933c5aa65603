// Package armv7a drives an ARMv7-A processor through its memory-mapped
// external debug interface: DBGDSCR, DBGDRCR, DBGDIDR, DBGITR, the DTR
// data ports and the DBGBVR/DBGBCR breakpoint unit pairs.
//
// The processor itself is never addressed directly. Everything the
// controller learns about core state - the program counter, CPSR, the
// general-purpose registers - is smuggled out by writing a short ARM
// instruction into DBGITR while the core is halted and reading back
// whatever that instruction pushed into the data transfer registers. The
// [Core] type is the only exported entry point; the instruction encoder,
// the register map types and the instruction transfer engine are
// implementation detail it composes.
//
// Core is not safe for concurrent use. Every operation assumes exclusive
// ownership of the underlying [Memory] and of the Core value itself; a
// caller sharing one Core across goroutines must serialize access with its
// own lock.
package armv7a
