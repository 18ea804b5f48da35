// lua.go - Lua-scriptable interrupt traps

package host

import (
	"fmt"
	"os"

	lua "github.com/yuin/gopher-lua"

	"github.com/go8080/emu8080/cpu"
)

// LuaTrap runs a Lua script each time its address fires. The firing CPU's
// registers are exposed as the globals cpu_a, cpu_bc, cpu_de, and cpu_hl;
// mem_read(addr) and mem_write(addr, value) give the script direct memory
// access, and append_output(s) writes to the host's output stream. The
// script must define a top-level handle() function, called after the
// globals are set, letting a user re-target the CP/M BDOS emulation (or
// emulate a different monitor ROM) without recompiling the driver.
type LuaTrap struct {
	Script string // Lua source, executed fresh on every invocation
}

// NewLuaTrapFromFile reads a Lua script from filename.
func NewLuaTrapFromFile(filename string) (*LuaTrap, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("host: failed to read Lua trap %q: %w", filename, err)
	}
	return &LuaTrap{Script: string(data)}, nil
}

// HandleTrap implements Handler by loading the script into a fresh Lua
// state, exposing the firing CPU's registers and the host's I/O as Lua
// globals, then calling the script's top-level handle() function.
func (t *LuaTrap) HandleTrap(trap *InterruptTrap, host *Host) error {
	L := lua.NewState()
	defer L.Close()

	a, err := host.CPU.ReadRegister8(cpu.RegisterA)
	if err != nil {
		return err
	}
	bc, err := host.CPU.ReadRegister16(cpu.RegisterPairBC, false)
	if err != nil {
		return err
	}
	de, err := host.CPU.ReadRegister16(cpu.RegisterPairDE, false)
	if err != nil {
		return err
	}
	hl, err := host.CPU.ReadRegister16(cpu.RegisterPairHL, false)
	if err != nil {
		return err
	}

	L.SetGlobal("cpu_a", lua.LNumber(a))
	L.SetGlobal("cpu_bc", lua.LNumber(bc))
	L.SetGlobal("cpu_de", lua.LNumber(de))
	L.SetGlobal("cpu_hl", lua.LNumber(hl))
	L.SetGlobal("mem_read", L.NewFunction(luaMemRead(host.CPU)))
	L.SetGlobal("mem_write", L.NewFunction(luaMemWrite(host.CPU)))
	L.SetGlobal("append_output", L.NewFunction(luaAppendOutput(host)))

	if err := L.DoString(t.Script); err != nil {
		return fmt.Errorf("host: Lua trap %q failed to load: %w", trap.ID, err)
	}

	handle := L.GetGlobal("handle")
	if handle.Type() != lua.LTFunction {
		return fmt.Errorf("host: Lua trap %q must define a top-level handle() function", trap.ID)
	}
	if err := L.CallByParam(lua.P{Fn: handle, NRet: 0, Protect: true}); err != nil {
		return fmt.Errorf("host: Lua trap %q failed: %w", trap.ID, err)
	}
	return nil
}

// luaMemRead returns a Lua-callable reading a single byte: mem_read(addr).
func luaMemRead(c *cpu.CPU) func(*lua.LState) int {
	return func(L *lua.LState) int {
		addr := uint16(L.CheckInt(1))
		v, err := c.Read8(addr)
		if err != nil {
			L.RaiseError("%s", err.Error())
			return 0
		}
		L.Push(lua.LNumber(v))
		return 1
	}
}

// luaMemWrite returns a Lua-callable writing a single byte:
// mem_write(addr, value). This is the script's only way to mutate machine
// state beyond appending output, letting a trap emulate a monitor ROM
// call that pokes memory (e.g. a block-move BDOS function) rather than
// only observing it.
func luaMemWrite(c *cpu.CPU) func(*lua.LState) int {
	return func(L *lua.LState) int {
		addr := uint16(L.CheckInt(1))
		value := byte(L.CheckInt(2))
		if err := c.Write8(addr, value); err != nil {
			L.RaiseError("%s", err.Error())
		}
		return 0
	}
}

// luaAppendOutput returns a Lua-callable appending to the host's output
// stream: append_output(s).
func luaAppendOutput(h *Host) func(*lua.LState) int {
	return func(L *lua.LState) int {
		h.AppendOutput(L.CheckString(1))
		return 0
	}
}
