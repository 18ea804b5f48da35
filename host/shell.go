// shell.go - host shell: owns a CPU, I/O buffers, and the interrupt trap registry

package host

import (
	"fmt"
	"sort"

	"github.com/go8080/emu8080/cpu"
)

// Handler reacts to a trap firing. Implementations read/write CPU state
// through the Host passed to HandleTrap and append to its output/error
// streams; they must not call Host.Run recursively.
type Handler interface {
	HandleTrap(trap *InterruptTrap, host *Host) error
}

// InterruptTrap fires Handler once the CPU's PC equals Address, checked
// only between instructions: never mid-instruction, only when
// waitCycles == 0.
type InterruptTrap struct {
	ID      string
	Address uint16
	Handler Handler
}

// Host is the sample driver shape: one CPU, three byte streams, and a
// set of address-keyed traps.
type Host struct {
	CPU *cpu.CPU

	output []byte
	input  []byte
	errors []byte

	traps map[string]*InterruptTrap
}

// New returns a Host wrapping a freshly constructed 64KB-memory CPU.
func New() *Host {
	return &Host{
		CPU:   cpu.NewCPU(0x10000),
		traps: make(map[string]*InterruptTrap),
	}
}

// RegisterTrap installs handler at address under id. Re-registering an id
// already in use is an error, mirroring the original's "already
// registered" guard.
func (h *Host) RegisterTrap(id string, address uint16, handler Handler) error {
	if handler == nil {
		return fmt.Errorf("host: trap %q: handler must not be nil", id)
	}
	if _, exists := h.traps[id]; exists {
		return fmt.Errorf("host: trap %q is already registered", id)
	}
	h.traps[id] = &InterruptTrap{ID: id, Address: address, Handler: handler}
	return nil
}

// RemoveTrap unregisters the trap with the given id, if any.
func (h *Host) RemoveTrap(id string) {
	delete(h.traps, id)
}

// Trap returns the registered trap with the given id, or nil.
func (h *Host) Trap(id string) *InterruptTrap {
	return h.traps[id]
}

// Run fires any trap whose address matches the current PC (only when no
// instruction is mid-flight), then advances the CPU by one cycle.
func (h *Host) Run() error {
	pc := h.CPU.State().PC()

	if h.CPU.State().WaitCycles() == 0 {
		ids := make([]string, 0, len(h.traps))
		for id := range h.traps {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		for _, id := range ids {
			trap := h.traps[id]
			if trap.Address == pc {
				if err := trap.Handler.HandleTrap(trap, h); err != nil {
					return err
				}
			}
		}
	}

	return h.CPU.ExecuteCycle()
}

// AppendOutput appends to the output stream (e.g. from a CP/M BDOS-style
// console-write trap).
func (h *Host) AppendOutput(s string) { h.output = append(h.output, s...) }

// AppendError appends to the error stream.
func (h *Host) AppendError(s string) { h.errors = append(h.errors, s...) }

// SetInput replaces the input stream's contents.
func (h *Host) SetInput(s string) { h.input = []byte(s) }

// AppendInput appends to the input stream.
func (h *Host) AppendInput(s string) { h.input = append(h.input, s...) }

// OutputStream returns the accumulated output, clearing it unless clear
// is false.
func (h *Host) OutputStream(clear bool) string {
	s := string(h.output)
	if clear {
		h.output = nil
	}
	return s
}

// ErrorStream returns the accumulated error text, clearing it unless
// clear is false.
func (h *Host) ErrorStream(clear bool) string {
	s := string(h.errors)
	if clear {
		h.errors = nil
	}
	return s
}

// InputStream returns the accumulated input, clearing it unless clear is
// false.
func (h *Host) InputStream(clear bool) string {
	s := string(h.input)
	if clear {
		h.input = nil
	}
	return s
}
