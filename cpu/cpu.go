// cpu.go - CPU core: owns a State, a memory bus, and the fetch-decode-execute loop

package cpu

import "log"

// CPU wraps a State with bounded memory access, optional I/O hooks, and the
// execution engine. A CPU is owned exclusively by one goroutine; nothing
// here is internally synchronized.
type CPU struct {
	state *State

	// InFunc/OutFunc back the IN/OUT instructions. When either is nil,
	// executing the corresponding instruction returns an IOPortError
	// instead of calling it. A host installs these (or an interrupt trap)
	// to emulate ports.
	InFunc  func(port byte) byte
	OutFunc func(port byte, value byte)

	Logger *log.Logger
}

// NewCPU returns a CPU with a freshly allocated memory buffer of the given
// size and register state reset to its power-on defaults.
func NewCPU(memorySize uint32) *CPU {
	c := &CPU{state: NewState()}
	c.state.SetMemorySize(memorySize)
	c.state.Reset()
	return c
}

// State exposes the underlying CPU state for direct inspection/mutation
// (e.g. a host loading a ROM image or a test asserting on registers).
func (c *CPU) State() *State { return c.state }

func (c *CPU) logf(format string, args ...any) {
	if c.Logger != nil {
		c.Logger.Printf(format, args...)
	}
}
