// main.go - sample CP/M-style driver for package host

package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/go8080/emu8080/cpu"
	"github.com/go8080/emu8080/host"
)

const usage = `Usage: emu8080 [-debug] [-copy-output] [-trap id=addr.lua]... <romfile>`

// cpmOS implements host.Handler for the two CP/M BDOS vectors a .COM image
// traps through: a reset at 0x0 and the console-write call at 0x5
// (function 9 prints a '$'-terminated string from DE, function 2 prints
// the single character in E).
type cpmOS struct{}

func (cpmOS) HandleTrap(trap *host.InterruptTrap, h *host.Host) error {
	switch trap.Address {
	case 0x0:
		h.CPU.State().SetHalt(true)
		return nil

	case 0x5:
		c, err := h.CPU.ReadRegister8(cpu.RegisterC)
		if err != nil {
			return err
		}
		switch c {
		case 9:
			addr, err := h.CPU.ReadRegister16(cpu.RegisterPairDE, true)
			if err != nil {
				return err
			}
			var sb strings.Builder
			for {
				b, err := h.CPU.Read8(addr)
				if err != nil {
					return err
				}
				if b == '$' {
					break
				}
				sb.WriteByte(b)
				addr++
			}
			h.AppendOutput(sb.String())
		case 2:
			e, err := h.CPU.ReadRegister8(cpu.RegisterE)
			if err != nil {
				return err
			}
			h.AppendOutput(string(rune(e)))
		}
		return nil

	default:
		return fmt.Errorf("emu8080: unknown interrupt vector 0x%X", trap.Address)
	}
}

// luaTrapArg is a parsed "-trap id=addr.lua" argument.
type luaTrapArg struct {
	id      string
	address uint16
	path    string
}

func parseLuaTrapArg(s string) (luaTrapArg, error) {
	id, rest, ok := strings.Cut(s, "=")
	if !ok || id == "" {
		return luaTrapArg{}, fmt.Errorf("-trap argument %q must look like id=addr.lua", s)
	}
	addrHex, ok := strings.CutSuffix(rest, ".lua")
	if !ok || addrHex == "" {
		return luaTrapArg{}, fmt.Errorf("-trap argument %q must look like id=addr.lua", s)
	}
	addr, err := strconv.ParseUint(addrHex, 16, 16)
	if err != nil {
		return luaTrapArg{}, fmt.Errorf("-trap argument %q: invalid hex address: %w", s, err)
	}
	return luaTrapArg{id: id, address: uint16(addr), path: rest}, nil
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func main() {
	var (
		debug      bool
		copyOutput bool
		luaTraps   []luaTrapArg
		romfile    string
	)

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; {
		case arg == "-debug":
			debug = true
		case arg == "-copy-output":
			copyOutput = true
		case arg == "-trap":
			i++
			if i >= len(args) {
				fmt.Fprintln(os.Stderr, usage)
				os.Exit(1)
			}
			t, err := parseLuaTrapArg(args[i])
			if err != nil {
				fail(err)
			}
			luaTraps = append(luaTraps, t)
		case strings.HasPrefix(arg, "-"):
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(1)
		default:
			if romfile != "" {
				fmt.Fprintln(os.Stderr, usage)
				os.Exit(1)
			}
			romfile = arg
		}
	}
	if romfile == "" {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	h := host.New()
	if debug {
		h.CPU.Logger = log.New(os.Stderr, "emu8080: ", log.LstdFlags)
	}

	if err := h.LoadROM(romfile); err != nil {
		fail(err)
	}

	cpm := cpmOS{}
	if err := h.RegisterTrap("reset", 0x0, cpm); err != nil {
		fail(err)
	}
	if err := h.RegisterTrap("msg", 0x5, cpm); err != nil {
		fail(err)
	}

	for _, t := range luaTraps {
		trap, err := host.NewLuaTrapFromFile(t.path)
		if err != nil {
			fail(err)
		}
		if err := h.RegisterTrap(t.id, t.address, trap); err != nil {
			fail(err)
		}
	}

	var printed strings.Builder
	for {
		if err := h.Run(); err != nil {
			fail(err)
		}
		if out := h.OutputStream(true); out != "" {
			fmt.Print(out)
			printed.WriteString(out)
		}
		if h.CPU.State().Halt() {
			break
		}
	}
	fmt.Println()

	if copyOutput {
		h.AppendOutput(printed.String())
		if err := h.CopyOutputToClipboard(); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}
