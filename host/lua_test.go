// lua_test.go - Lua-scriptable trap globals and the handle() contract

package host

import (
	"strings"
	"testing"

	"github.com/go8080/emu8080/cpu"
)

func TestLuaTrapExposesRegistersAsGlobals(t *testing.T) {
	h := New()
	if err := h.CPU.WriteRegister8(cpu.RegisterA, 0x42); err != nil {
		t.Fatal(err)
	}
	if err := h.CPU.WriteRegister16(cpu.RegisterPairBC, 0x1234, false); err != nil {
		t.Fatal(err)
	}
	if err := h.CPU.WriteRegister16(cpu.RegisterPairDE, 0x5678, false); err != nil {
		t.Fatal(err)
	}
	if err := h.CPU.WriteRegister16(cpu.RegisterPairHL, 0x9abc, false); err != nil {
		t.Fatal(err)
	}

	trap := &LuaTrap{Script: `
function handle()
  append_output(string.format("a=%x bc=%x de=%x hl=%x", cpu_a, cpu_bc, cpu_de, cpu_hl))
end
`}
	it := &InterruptTrap{ID: "probe", Address: 0x0010}
	if err := trap.HandleTrap(it, h); err != nil {
		t.Fatal(err)
	}
	if got, want := h.OutputStream(true), "a=42 bc=1234 de=5678 hl=9abc"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestLuaTrapCanWriteMemory(t *testing.T) {
	h := New()
	trap := &LuaTrap{Script: `
function handle()
  mem_write(0x0200, 0x7f)
end
`}
	it := &InterruptTrap{ID: "poke", Address: 0x0020}
	if err := trap.HandleTrap(it, h); err != nil {
		t.Fatal(err)
	}
	b, err := h.CPU.Read8(0x0200)
	if err != nil {
		t.Fatal(err)
	}
	if b != 0x7f {
		t.Fatalf("memory at 0x0200 = 0x%02X, want 0x7F", b)
	}
}

func TestLuaTrapCanReadMemory(t *testing.T) {
	h := New()
	if err := h.CPU.Write8(0x0300, 0x55); err != nil {
		t.Fatal(err)
	}
	trap := &LuaTrap{Script: `
function handle()
  append_output(string.format("%x", mem_read(0x0300)))
end
`}
	it := &InterruptTrap{ID: "peek", Address: 0x0030}
	if err := trap.HandleTrap(it, h); err != nil {
		t.Fatal(err)
	}
	if got := h.OutputStream(true); got != "55" {
		t.Fatalf("output = %q, want %q", got, "55")
	}
}

func TestLuaTrapRequiresHandleFunction(t *testing.T) {
	h := New()
	trap := &LuaTrap{Script: `append_output("no handle here")`}
	it := &InterruptTrap{ID: "missing", Address: 0x0040}
	err := trap.HandleTrap(it, h)
	if err == nil {
		t.Fatal("expected an error when the script defines no handle() function")
	}
	if !strings.Contains(err.Error(), "handle()") {
		t.Fatalf("error = %q, want it to mention handle()", err.Error())
	}
}
