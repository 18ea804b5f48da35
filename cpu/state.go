// state.go - plain CPU state: registers, flags, PC/SP, latches, and owned memory

package cpu

// State is the complete, copyable state of one 8080 CPU. It holds no
// behavior beyond accessors and two compound operations, CopyTo and
// Equal — decode/execute lives on CPU in execute.go.
type State struct {
	memory     []byte
	registers  [7]byte // B,C,D,E,H,L,A; see storageIndex
	pc         uint16
	sp         uint16
	flags      byte
	waitCycles uint8

	halt              bool
	interruptsEnabled bool
}

// Reserved flags bit 1 is always set per Intel convention; bits 3 and 5
// are always clear.
const resetFlags byte = 0x02

// NewState returns a CPU state with no memory allocated. Call
// SetMemorySize before using it.
func NewState() *State {
	return &State{flags: resetFlags}
}

// Reset restores the power-on/CP/M-load defaults: pc=0x0100, sp=0,
// flags=0x02, halt=false, interruptsEnabled=false, waitCycles=0. Memory
// contents and size are untouched.
func (s *State) Reset() {
	s.pc = 0x0100
	s.sp = 0
	s.flags = resetFlags
	s.halt = false
	s.interruptsEnabled = false
	s.waitCycles = 0
	for i := range s.registers {
		s.registers[i] = 0
	}
}

// MemorySize returns the configured memory size.
func (s *State) MemorySize() uint32 { return uint32(len(s.memory)) }

// SetMemorySize reallocates the memory buffer to exactly size bytes,
// zero-filled. A size of 0 releases the buffer (memory is non-nil iff
// memorySize > 0).
func (s *State) SetMemorySize(size uint32) {
	if size == 0 {
		s.memory = nil
		return
	}
	s.memory = make([]byte, size)
}

// Memory returns the raw backing buffer. Callers needing bounds-checked
// access should use CPU.Read8/Write8/etc. instead.
func (s *State) Memory() []byte { return s.memory }

func (s *State) PC() uint16     { return s.pc }
func (s *State) SetPC(pc uint16) { s.pc = pc }

func (s *State) SP() uint16     { return s.sp }
func (s *State) SetSP(sp uint16) { s.sp = sp }

// Register returns the raw register slot by storage index (0..6,
// corresponding to B,C,D,E,H,L,A in that order). Use CPU.ReadRegister8 for
// code-based access (register code M is not stored here).
func (s *State) Register(index uint8) byte { return s.registers[index] }

func (s *State) SetRegister(index uint8, v byte) { s.registers[index] = v }

// Flags returns the raw flags byte. Bit 1 is always 1; bits 3 and 5 are
// always 0 as a consequence of how SetFlag masks individual bits.
func (s *State) Flags() byte { return s.flags }

func (s *State) SetFlags(f byte) { s.flags = f }

func (s *State) WaitCycles() uint8        { return s.waitCycles }
func (s *State) SetWaitCycles(n uint8)    { s.waitCycles = n }

func (s *State) Halt() bool      { return s.halt }
func (s *State) SetHalt(h bool)  { s.halt = h }

func (s *State) InterruptsEnabled() bool     { return s.interruptsEnabled }
func (s *State) SetInterruptsEnabled(e bool) { s.interruptsEnabled = e }

// CopyTo deep-copies every scalar field into dst. If copyMemory is true,
// dst's memory buffer is reallocated to exactly match s's size and its
// contents copied; otherwise dst's memory is released.
func (s *State) CopyTo(dst *State, copyMemory bool) {
	dst.pc = s.pc
	dst.sp = s.sp
	dst.flags = s.flags
	dst.waitCycles = s.waitCycles
	dst.halt = s.halt
	dst.interruptsEnabled = s.interruptsEnabled
	dst.registers = s.registers

	if copyMemory && len(s.memory) > 0 {
		dst.memory = make([]byte, len(s.memory))
		copy(dst.memory, s.memory)
	} else {
		dst.memory = nil
	}
}

// Equal reports structural equality of every scalar field, and, if
// compareRAM is set, byte-exact equality of the memory buffers (sizes
// must match).
func (s *State) Equal(other *State, compareRAM bool) bool {
	if s.pc != other.pc || s.sp != other.sp || s.flags != other.flags || s.waitCycles != other.waitCycles {
		return false
	}
	if s.halt != other.halt || s.interruptsEnabled != other.interruptsEnabled {
		return false
	}
	if s.registers != other.registers {
		return false
	}

	if compareRAM {
		if len(s.memory) != len(other.memory) {
			return false
		}
		for i := range s.memory {
			if s.memory[i] != other.memory[i] {
				return false
			}
		}
	}

	return true
}
