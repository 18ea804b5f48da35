// decode.go - fixed 256-entry mnemonic table and byte-stream disassembly

package asm

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/go8080/emu8080/cpu"
)

// mnemonicTable holds one canonical template per opcode byte. Entries
// ending in a trailing comma or a bare mnemonic take an appended
// immediate; see Decode.
var mnemonicTable = [256]string{
	"nop", "lxi b,", "stax b", "inx b",
	"inr b", "dcr b", "mvi b,", "rlc", "nop", "dad b", "ldax b", "dcx b",
	"inr c", "dcr c", "mvi c,", "rrc", "nop", "lxi d,", "stax d", "inx d",
	"inr d", "dcr d", "mvi d,", "ral", "nop", "dad d", "ldax d", "dcx d",
	"inr e", "dcr e", "mvi e,", "rar", "nop", "lxi h,", "shld", "inx h",
	"inr h", "dcr h", "mvi h,", "daa", "nop", "dad h", "lhld", "dcx h",
	"inr l", "dcr l", "mvi l,", "cma", "nop", "lxi sp,", "sta", "inx sp",
	"inr M", "dcr M", "mvi M,", "stc", "nop", "dad sp", "lda", "dcx sp",
	"inr a", "dcr a", "mvi a,", "cmc", "mov b, b", "mov b, c", "mov b, d",
	"mov b, e", "mov b, h", "mov b, l", "mov b, M", "mov b, a", "mov c, b", "mov c, c",
	"mov c, d", "mov c, e", "mov c, h", "mov c, l", "mov c, M", "mov c, a", "mov d, b",
	"mov d, c", "mov d, d", "mov d, e", "mov d, h", "mov d, l", "mov d, M", "mov d, a",
	"mov e, b", "mov e, c", "mov e, d", "mov e, e", "mov e, h", "mov e, l", "mov e, M",
	"mov e, a", "mov h, b", "mov h, c", "mov h, d", "mov h, e", "mov h, h", "mov h, l",
	"mov h, M", "mov h, a", "mov l, b", "mov l, c", "mov l, d", "mov l, e", "mov l, h",
	"mov l, l", "mov l, M", "mov l, a", "mov M, b", "mov M, c", "mov M, d", "mov M, e",
	"mov M, h", "mov M, l", "hlt", "mov M, a", "mov a, b", "mov a, c", "mov a, d",
	"mov a, e", "mov a, h", "mov a, l", "mov a, M", "mov a, a", "add b", "add c",
	"add d", "add e", "add h", "add l", "add M", "add a", "adc b", "adc c",
	"adc d", "adc e", "adc h", "adc l", "adc M", "adc a", "sub b", "sub c",
	"sub d", "sub e", "sub h", "sub l", "sub M", "sub a", "sbb b", "sbb c",
	"sbb d", "sbb e", "sbb h", "sbb l", "sbb M", "sbb a", "ana b", "ana c",
	"ana d", "ana e", "ana h", "ana l", "ana M", "ana a", "xra b", "xra c",
	"xra d", "xra e", "xra h", "xra l", "xra M", "xra a", "ora b", "ora c",
	"ora d", "ora e", "ora h", "ora l", "ora M", "ora a", "cmp b", "cmp c",
	"cmp d", "cmp e", "cmp h", "cmp l", "cmp M", "cmp a", "rnz", "pop b",
	"jnz", "jmp", "cnz", "push b", "adi", "rst 0", "rz", "ret", "jz",
	"jmp", "cz", "call", "aci", "rst 1", "rnc", "pop d", "jnc", "out",
	"cnc", "push d", "sui", "rst 2", "rc", "ret", "jc", "in", "cc",
	"call", "sbi", "rst 3", "rpo", "pop h", "jpo", "xthl", "cpo", "push h",
	"ani", "rst 4", "rpe", "pchl", "jpe", "xchg", "cpe", "call", "xri",
	"rst 5", "rp", "pop psw", "jp", "di", "cp", "push psw", "ori",
	"rst 6", "rm", "sphl", "jm", "ei", "cm", "call", "cpi", "rst 7",
}

// InstructionLength reports the byte count of the instruction whose first
// byte is opcode: 3 for LXI/SHLD/LHLD/STA/LDA/JMP/JCC/CALL/CCC, 2 for
// MVI/ADI/ACI/SUI/SBI/ANI/XRI/ORI/CPI/IN/OUT, 1 otherwise.
func InstructionLength(opcode byte) int {
	if opcode == 0xD3 || opcode == 0xDB {
		return 2
	}
	if opcode&0b111 == 0b110 && (opcode&0xF0 < 0x40 || opcode&0xF0 > 0xB0) {
		return 2
	}

	if opcode&0xCF == 0x01 ||
		opcode == 0x22 || opcode == 0x32 || opcode == 0x2A || opcode == 0x3A ||
		opcode == 0xC3 || opcode == 0xCB ||
		opcode&0xCF == 0xC2 || opcode&0xCF == 0xC4 ||
		opcode&0xCF == 0xCA || opcode&0xCF == 0xCC || opcode&0xCF == 0xCD {
		return 3
	}

	return 1
}

// usesBareHexImmediate reports whether opcode's immediate should be
// rendered without a `$` prefix (IN/OUT ports and RST vectors).
func usesBareHexImmediate(opcode byte) bool {
	return opcode == 0xD3 || opcode == 0xDB || opcode&0xC7 == 0xC7
}

// Decode disassembles the instruction at the start of bytes, returning its
// canonical mnemonic and length in bytes (1-3). bytes must have enough
// room for the full instruction.
func Decode(bytes []byte) (string, int, error) {
	if len(bytes) == 0 {
		return "", 0, &cpu.DecodeError{Opcode: 0}
	}

	opcode := bytes[0]
	length := InstructionLength(opcode)
	if len(bytes) < length {
		return "", 0, &cpu.DecodeError{Opcode: opcode}
	}

	text := mnemonicTable[opcode]

	if length == 2 {
		if usesBareHexImmediate(opcode) {
			text += fmt.Sprintf(" %x", bytes[1])
		} else {
			text += fmt.Sprintf(" $%x", bytes[1])
		}
	} else if length == 3 {
		immediate := uint16(bytes[1]) | uint16(bytes[2])<<8
		text += fmt.Sprintf(" $%x", immediate)
	}

	return text, length, nil
}

// disassembleLinear walks a contiguous byte range, one instruction at a
// time, stopping at the slice's end (a final partial instruction is
// silently omitted).
func disassembleLinear(data []byte) []string {
	var lines []string
	for i := 0; i < len(data); {
		text, length, err := Decode(data[i:])
		if err != nil {
			break
		}
		lines = append(lines, text)
		i += length
	}
	return lines
}

// instructionBoundaries walks memory once, sequentially, recording the
// offset of every instruction's first byte. A final truncated instruction
// (not enough bytes left for its declared length) ends the walk without
// being recorded, matching disassembleLinear's own truncation behavior.
func instructionBoundaries(memory []byte) []int {
	var starts []int
	for i := 0; i < len(memory); {
		length := InstructionLength(memory[i])
		if i+length > len(memory) {
			break
		}
		starts = append(starts, i)
		i += length
	}
	return starts
}

// DisassembleRange disassembles a full memory image by first walking it
// once, sequentially, to find every real instruction boundary
// (instructionBoundaries), then grouping those boundaries into windows of
// roughly chunkSize bytes and decoding each window concurrently. Because
// every window starts exactly on an instruction boundary rather than at a
// raw i*chunkSize offset, no window ever begins mid-instruction, so a
// worker never mistakes a trailing operand byte for a fresh opcode:
// windows never need to agree on a resync point because they're carved on
// boundaries the sequential pre-pass already agreed on. chunkSize must be
// at least 3 (the longest instruction) and only bounds window size, not
// correctness. Only the image's own trailing partial instruction, if any,
// is dropped, exactly as disassembleLinear would drop it in a single pass.
func DisassembleRange(ctx context.Context, memory []byte, chunkSize int) ([]string, error) {
	if chunkSize < 3 {
		return nil, fmt.Errorf("asm: chunk size %d too small, need at least 3", chunkSize)
	}
	if len(memory) == 0 {
		return nil, nil
	}

	starts := instructionBoundaries(memory)
	if len(starts) == 0 {
		return nil, nil
	}

	var windows [][2]int
	for i := 0; i < len(starts); {
		begin := starts[i]
		target := begin + chunkSize
		j := i + 1
		for j < len(starts) && starts[j] < target {
			j++
		}
		end := len(memory)
		if j < len(starts) {
			end = starts[j]
		}
		windows = append(windows, [2]int{begin, end})
		i = j
	}

	results := make([][]string, len(windows))

	g, ctx := errgroup.WithContext(ctx)
	for i, w := range windows {
		i, w := i, w
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			results[i] = disassembleLinear(memory[w[0]:w[1]])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []string
	for _, chunk := range results {
		out = append(out, chunk...)
	}
	return out, nil
}
