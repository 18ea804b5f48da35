// main_test.go - CLI argument parsing and the CP/M BDOS trap handler

package main

import (
	"testing"

	"github.com/go8080/emu8080/cpu"
	"github.com/go8080/emu8080/host"
)

func TestParseLuaTrapArg(t *testing.T) {
	got, err := parseLuaTrapArg("greet=0100.lua")
	if err != nil {
		t.Fatal(err)
	}
	want := luaTrapArg{id: "greet", address: 0x0100, path: "0100.lua"}
	if got != want {
		t.Fatalf("parseLuaTrapArg() = %+v, want %+v", got, want)
	}
}

func TestParseLuaTrapArgRejectsMalformed(t *testing.T) {
	cases := []string{"noequals.lua", "id=noext", "=0100.lua", "id=.lua"}
	for _, c := range cases {
		if _, err := parseLuaTrapArg(c); err == nil {
			t.Errorf("parseLuaTrapArg(%q) succeeded, want an error", c)
		}
	}
}

func TestCpmOSHaltsOnResetVector(t *testing.T) {
	h := host.New()
	trap := &host.InterruptTrap{ID: "reset", Address: 0x0000}
	if err := cpmOS{}.HandleTrap(trap, h); err != nil {
		t.Fatal(err)
	}
	if !h.CPU.State().Halt() {
		t.Fatal("expected halt to be set after the reset vector fires")
	}
}

func TestCpmOSPrintsDollarTerminatedString(t *testing.T) {
	h := host.New()
	if err := h.CPU.WriteRegister8(cpu.RegisterC, 9); err != nil {
		t.Fatal(err)
	}
	if err := h.CPU.WriteRegister16(cpu.RegisterPairDE, 0x0200, true); err != nil {
		t.Fatal(err)
	}
	if err := h.CPU.WriteBytes(0x0200, []byte("hi$there")); err != nil {
		t.Fatal(err)
	}

	trap := &host.InterruptTrap{ID: "msg", Address: 0x0005}
	if err := cpmOS{}.HandleTrap(trap, h); err != nil {
		t.Fatal(err)
	}
	if got := h.OutputStream(true); got != "hi" {
		t.Fatalf("output = %q, want %q", got, "hi")
	}
}

func TestCpmOSPrintsSingleCharacter(t *testing.T) {
	h := host.New()
	if err := h.CPU.WriteRegister8(cpu.RegisterC, 2); err != nil {
		t.Fatal(err)
	}
	if err := h.CPU.WriteRegister8(cpu.RegisterE, 'X'); err != nil {
		t.Fatal(err)
	}

	trap := &host.InterruptTrap{ID: "msg", Address: 0x0005}
	if err := cpmOS{}.HandleTrap(trap, h); err != nil {
		t.Fatal(err)
	}
	if got := h.OutputStream(true); got != "X" {
		t.Fatalf("output = %q, want %q", got, "X")
	}
}

func TestCpmOSRejectsUnknownVector(t *testing.T) {
	h := host.New()
	trap := &host.InterruptTrap{ID: "mystery", Address: 0x0010}
	if err := cpmOS{}.HandleTrap(trap, h); err == nil {
		t.Fatal("expected an error for an unregistered interrupt vector")
	}
}
