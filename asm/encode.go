// encode.go - textual mnemonic to 1-3 opcode bytes

package asm

import (
	"fmt"
	"strings"

	"github.com/go8080/emu8080/bitutil"
	"github.com/go8080/emu8080/cpu"
)

// Encode translates a single assembly line into its 1-3 byte encoding.
// Hex immediates are prefixed with `$`, except RST vectors and IN/OUT
// port numbers which are bare hex.
func Encode(line string) ([]byte, error) {
	s := bitutil.Normalize(line)
	if s == "" {
		return nil, &EncodeError{Reason: "empty instruction"}
	}

	space := strings.IndexByte(s, ' ')
	instr := s
	operand := ""
	if space >= 0 {
		instr = s[:space]
		operand = bitutil.StripWhitespace(s[space:])
	}

	format, err := DetermineFormat(instr)
	if err != nil {
		return nil, err
	}

	arg1, arg2, err := extractArguments(instr, operand, format)
	if err != nil {
		return nil, err
	}

	return buildInstruction(instr, arg1, arg2)
}

func extractArguments(instr, operand string, format ArgumentFormat) (arg1, arg2 uint16, err error) {
	switch format {
	case FormatInstructionOnly:
		if operand != "" {
			return 0, 0, &EncodeError{Reason: fmt.Sprintf("%q takes no operands", instr)}
		}
		return 0, 0, nil

	case FormatOneRegister8:
		r, err := register8ForString(operand)
		if err != nil {
			return 0, 0, err
		}
		return uint16(r), 0, nil

	case FormatTwoRegister8s:
		parts := strings.SplitN(operand, ",", 2)
		if len(parts) != 2 {
			return 0, 0, &EncodeError{Reason: fmt.Sprintf("%q needs two comma-separated registers", instr)}
		}
		r1, err := register8ForString(parts[0])
		if err != nil {
			return 0, 0, err
		}
		r2, err := register8ForString(parts[1])
		if err != nil {
			return 0, 0, err
		}
		return uint16(r1), uint16(r2), nil

	case FormatOneRegister16, FormatOneRegister16Restricted, FormatOneRegister16PSWAllowed:
		r, err := extractRegister16(operand, format)
		return uint16(r), 0, err

	case FormatOneImmediate8:
		v, err := extractImmediate(operand, 2)
		return v, 0, err

	case FormatOneImmediate16:
		v, err := extractImmediate(operand, 4)
		return v, 0, err

	case FormatOneVector:
		v, err := extractBareHex(operand, 1)
		return v, 0, err

	case FormatOnePort:
		v, err := extractBareHex(operand, 2)
		return v, 0, err

	case FormatOneRegister8OneImmediate8:
		parts := strings.SplitN(operand, ",", 2)
		if len(parts) != 2 {
			return 0, 0, &EncodeError{Reason: fmt.Sprintf("%q needs a register and an immediate", instr)}
		}
		r, err := register8ForString(parts[0])
		if err != nil {
			return 0, 0, err
		}
		v, err := extractImmediate(parts[1], 2)
		if err != nil {
			return 0, 0, err
		}
		return uint16(r), v, nil

	case FormatOneRegister16OneImmediate16:
		parts := strings.SplitN(operand, ",", 2)
		if len(parts) != 2 {
			return 0, 0, &EncodeError{Reason: fmt.Sprintf("%q needs a register pair and an immediate", instr)}
		}
		rp, err := extractRegister16(parts[0], FormatOneRegister16)
		if err != nil {
			return 0, 0, err
		}
		v, err := extractImmediate(parts[1], 4)
		if err != nil {
			return 0, 0, err
		}
		return uint16(rp), v, nil

	case FormatOneConditionCode:
		cc, err := ReadConditionCode(instr[1:])
		return uint16(cc), 0, err

	case FormatOneConditionCodeOneImmediate16:
		cc, err := ReadConditionCode(instr[1:])
		if err != nil {
			return 0, 0, err
		}
		v, err := extractImmediate(operand, 4)
		if err != nil {
			return 0, 0, err
		}
		return uint16(cc), v, nil
	}

	return 0, 0, &EncodeError{Reason: fmt.Sprintf("unhandled argument format for %q", instr)}
}

func extractRegister16(operand string, format ArgumentFormat) (byte, error) {
	if operand == "sp" {
		if format == FormatOneRegister16PSWAllowed {
			return 0, &EncodeError{Reason: "sp not valid here, use psw"}
		}
		return cpu.RegisterPairSP, nil
	}
	if operand == "psw" {
		if format != FormatOneRegister16PSWAllowed {
			return 0, &EncodeError{Reason: "psw not valid here"}
		}
		return cpu.RegisterPairPSW, nil
	}
	if len(operand) != 1 {
		return 0, &EncodeError{Reason: fmt.Sprintf("invalid register pair %q", operand)}
	}
	c := operand[0]
	if c != 'b' && c != 'd' && c != 'h' {
		return 0, &EncodeError{Reason: fmt.Sprintf("invalid register pair %q", operand)}
	}
	if format == FormatOneRegister16Restricted && c != 'b' && c != 'd' {
		return 0, &EncodeError{Reason: fmt.Sprintf("register pair %q not valid here", operand)}
	}
	return register16ForString(operand)
}

// extractImmediate parses a `$`-prefixed hex operand no longer than
// maxDigits.
func extractImmediate(operand string, maxDigits int) (uint16, error) {
	if len(operand) < 1 || operand[0] != '$' {
		return 0, &EncodeError{Reason: fmt.Sprintf("expected $-prefixed hex immediate, got %q", operand)}
	}
	hex := operand[1:]
	if len(hex) > maxDigits || !bitutil.IsValidHex(hex) {
		return 0, &EncodeError{Reason: fmt.Sprintf("invalid hex immediate %q", operand)}
	}
	v, err := bitutil.ParseHex16(hex)
	if err != nil {
		return 0, &EncodeError{Reason: err.Error()}
	}
	return v, nil
}

// extractBareHex parses an operand that is plain hex digits (no `$`
// prefix), as used by RST vectors and IN/OUT ports.
func extractBareHex(operand string, maxDigits int) (uint16, error) {
	if len(operand) > maxDigits || !bitutil.IsValidHex(operand) {
		return 0, &EncodeError{Reason: fmt.Sprintf("invalid hex value %q", operand)}
	}
	v, err := bitutil.ParseHex16(operand)
	if err != nil {
		return 0, &EncodeError{Reason: err.Error()}
	}
	return v, nil
}

// buildInstruction constructs the 1-3 byte encoding for instr given its
// already-validated arguments.
func buildInstruction(instr string, arg1, arg2 uint16) ([]byte, error) {
	switch instr {
	case "mov":
		return []byte{0b01000000 | byte(arg1)<<3 | byte(arg2)}, nil
	case "mvi":
		return []byte{0b110 | byte(arg1)<<3, byte(arg2)}, nil
	case "lxi":
		return []byte{0x01 | byte(arg1)<<4, byte(arg2), byte(arg2 >> 8)}, nil
	case "lda":
		return []byte{0b00111010, byte(arg1), byte(arg1 >> 8)}, nil
	case "sta":
		return []byte{0b00110010, byte(arg1), byte(arg1 >> 8)}, nil
	case "lhld":
		return []byte{0b00101010, byte(arg1), byte(arg1 >> 8)}, nil
	case "shld":
		return []byte{0b00100010, byte(arg1), byte(arg1 >> 8)}, nil
	case "ldax":
		return []byte{0b1010 | byte(arg1)<<4}, nil
	case "stax":
		return []byte{0b10 | byte(arg1)<<4}, nil
	case "xchg":
		return []byte{0b11101011}, nil
	case "add":
		return []byte{0b10000000 | byte(arg1)}, nil
	case "adi":
		return []byte{0b11000110, byte(arg1)}, nil
	case "adc":
		return []byte{0b10001000 | byte(arg1)}, nil
	case "aci":
		return []byte{0b11001110, byte(arg1)}, nil
	case "sub":
		return []byte{0b10010000 | byte(arg1)}, nil
	case "sui":
		return []byte{0b11010110, byte(arg1)}, nil
	case "sbb":
		return []byte{0b10011000 | byte(arg1)}, nil
	case "sbi":
		return []byte{0b11011110, byte(arg1)}, nil
	case "inr":
		return []byte{0b100 | byte(arg1)<<3}, nil
	case "dcr":
		return []byte{0b101 | byte(arg1)<<3}, nil
	case "inx":
		return []byte{0b11 | byte(arg1)<<4}, nil
	case "dcx":
		return []byte{0b1011 | byte(arg1)<<4}, nil
	case "dad":
		return []byte{0b00001001 | byte(arg1)<<4}, nil
	case "daa":
		return []byte{0b00100111}, nil
	case "ana":
		return []byte{0b10100000 | byte(arg1)}, nil
	case "ora":
		return []byte{0b10110000 | byte(arg1)}, nil
	case "xra":
		return []byte{0b10101000 | byte(arg1)}, nil
	case "cmp":
		return []byte{0b10111000 | byte(arg1)}, nil
	case "ani":
		return []byte{0b11100110, byte(arg1)}, nil
	case "ori":
		return []byte{0b11110110, byte(arg1)}, nil
	case "xri":
		return []byte{0b11101110, byte(arg1)}, nil
	case "cpi":
		return []byte{0b11111110, byte(arg1)}, nil
	case "rlc":
		return []byte{0b00000111}, nil
	case "rrc":
		return []byte{0b00001111}, nil
	case "ral":
		return []byte{0b00010111}, nil
	case "rar":
		return []byte{0b00011111}, nil
	case "cma":
		return []byte{0b00101111}, nil
	case "cmc":
		return []byte{0b00111111}, nil
	case "stc":
		return []byte{0b00110111}, nil
	case "jmp":
		return []byte{0b11000011, byte(arg1), byte(arg1 >> 8)}, nil
	case "call":
		return []byte{0b11001101, byte(arg1), byte(arg1 >> 8)}, nil
	case "ret":
		return []byte{0b11001001}, nil
	case "rst":
		return []byte{0b11000111 | byte(arg1)<<3}, nil
	case "pchl":
		return []byte{0b11101001}, nil
	case "push":
		return []byte{0b11000101 | byte(arg1)<<4}, nil
	case "pop":
		return []byte{0b11000001 | byte(arg1)<<4}, nil
	case "xthl":
		return []byte{0b11100011}, nil
	case "sphl":
		return []byte{0b11111001}, nil
	case "in":
		return []byte{0b11011011, byte(arg1)}, nil
	case "out":
		return []byte{0b11010011, byte(arg1)}, nil
	case "ei":
		return []byte{0b11111011}, nil
	case "di":
		return []byte{0b11110011}, nil
	case "hlt":
		return []byte{0b01110110}, nil
	case "nop":
		return []byte{0b00000000}, nil
	}

	if len(instr) > 1 {
		switch instr[0] {
		case 'j':
			if IsValidConditionCode(instr[1:]) {
				return []byte{0b11000010 | byte(arg1)<<3, byte(arg2), byte(arg2 >> 8)}, nil
			}
		case 'c':
			if IsValidConditionCode(instr[1:]) {
				return []byte{0b11000100 | byte(arg1)<<3, byte(arg2), byte(arg2 >> 8)}, nil
			}
		case 'r':
			if IsValidConditionCode(instr[1:]) {
				return []byte{0b11000000 | byte(arg1)<<3}, nil
			}
		}
	}

	return nil, &EncodeError{Reason: fmt.Sprintf("invalid instruction %q", instr)}
}
