// format.go - argument-format dispatch table for the textual encoder

package asm

import (
	"fmt"

	"github.com/go8080/emu8080/cpu"
)

// ArgumentFormat classifies how a mnemonic's operand string is shaped,
// driving both extractArguments and buildInstruction.
type ArgumentFormat int

const (
	FormatInstructionOnly ArgumentFormat = iota
	FormatOneRegister8
	FormatTwoRegister8s
	FormatOneRegister16
	FormatOneRegister16Restricted
	FormatOneRegister16PSWAllowed
	FormatOneImmediate8
	FormatOneImmediate16
	FormatOneVector
	FormatOnePort
	FormatOneRegister8OneImmediate8
	FormatOneRegister16OneImmediate16
	FormatOneConditionCode
	FormatOneConditionCodeOneImmediate16
)

// DetermineFormat maps a lowercased mnemonic token to its argument shape.
// jCC/cCC/rCC (conditional jump/call/return) are recognized by prefix
// rather than a literal table entry, since the condition mnemonic is part
// of the token itself (e.g. "jnz", "cpe", "rm").
func DetermineFormat(instr string) (ArgumentFormat, error) {
	switch instr {
	case "mov":
		return FormatTwoRegister8s, nil
	case "mvi":
		return FormatOneRegister8OneImmediate8, nil
	case "lxi":
		return FormatOneRegister16OneImmediate16, nil
	case "lda", "sta", "lhld", "shld", "jmp", "call":
		return FormatOneImmediate16, nil
	case "ldax", "stax":
		return FormatOneRegister16Restricted, nil
	case "xchg", "daa", "rlc", "rrc", "ral", "rar", "cma", "cmc", "stc",
		"ret", "pchl", "xthl", "sphl", "ei", "di", "hlt", "nop":
		return FormatInstructionOnly, nil
	case "add", "adc", "sub", "sbb", "inr", "dcr", "ana", "ora", "xra", "cmp":
		return FormatOneRegister8, nil
	case "adi", "aci", "sui", "sbi", "ani", "ori", "xri", "cpi":
		return FormatOneImmediate8, nil
	case "inx", "dcx", "dad":
		return FormatOneRegister16, nil
	case "rst":
		return FormatOneVector, nil
	case "push", "pop":
		return FormatOneRegister16PSWAllowed, nil
	case "in", "out":
		return FormatOnePort, nil
	}

	if len(instr) > 1 {
		switch instr[0] {
		case 'j', 'c':
			if IsValidConditionCode(instr[1:]) {
				return FormatOneConditionCodeOneImmediate16, nil
			}
		case 'r':
			if IsValidConditionCode(instr[1:]) {
				return FormatOneConditionCode, nil
			}
		}
	}

	return 0, &EncodeError{Reason: fmt.Sprintf("unknown instruction %q", instr)}
}

func register8ForString(s string) (byte, error) {
	switch s {
	case "a":
		return cpu.RegisterA, nil
	case "b":
		return cpu.RegisterB, nil
	case "c":
		return cpu.RegisterC, nil
	case "d":
		return cpu.RegisterD, nil
	case "e":
		return cpu.RegisterE, nil
	case "h":
		return cpu.RegisterH, nil
	case "l":
		return cpu.RegisterL, nil
	case "m":
		return cpu.RegisterM, nil
	}
	return 0, &EncodeError{Reason: fmt.Sprintf("unknown register %q", s)}
}

func register16ForString(s string) (byte, error) {
	switch s {
	case "bc", "b":
		return cpu.RegisterPairBC, nil
	case "de", "d":
		return cpu.RegisterPairDE, nil
	case "hl", "h":
		return cpu.RegisterPairHL, nil
	case "sp":
		return cpu.RegisterPairSP, nil
	}
	return 0, &EncodeError{Reason: fmt.Sprintf("unknown register pair %q", s)}
}
