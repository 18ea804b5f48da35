// execute.go - cycle-budgeted fetch-decode-execute loop

package cpu

import "github.com/go8080/emu8080/bitutil"

// ExecuteCycle is the pacing wrapper a host calls once per tick. If the
// CPU is halted it is a no-op. Otherwise it either decrements the
// outstanding wait-cycle counter, or — once that counter reaches zero —
// fetches and executes the next instruction and stores its cycle cost
// (minus the one it just consumed) as the new wait count.
func (c *CPU) ExecuteCycle() error {
	if c.state.Halt() {
		return nil
	}

	if wait := c.state.WaitCycles(); wait > 0 {
		c.state.SetWaitCycles(wait - 1)
		return nil
	}

	cycles, err := c.ExecuteInstruction()
	if err != nil {
		return err
	}
	c.state.SetWaitCycles(cycles - 1)
	return nil
}

// fetch8 reads the byte at PC and advances PC by 1.
func (c *CPU) fetch8() (byte, error) {
	pc := c.state.PC()
	v, err := c.Read8(pc)
	if err != nil {
		return 0, err
	}
	c.state.SetPC(pc + 1)
	return v, nil
}

// fetch16 reads the word at PC and advances PC by 2.
func (c *CPU) fetch16() (uint16, error) {
	pc := c.state.PC()
	v, err := c.Read16(pc)
	if err != nil {
		return 0, err
	}
	c.state.SetPC(pc + 2)
	return v, nil
}

// ExecuteInstruction fetches, decodes, and executes exactly one
// instruction, returning its machine-cycle cost. The program counter has
// already advanced past the opcode byte(s) by the time any error from
// this call reaches the caller, so the caller may inspect state.
func (c *CPU) ExecuteInstruction() (uint8, error) {
	instruction, err := c.fetch8()
	if err != nil {
		return 0, err
	}

	field := bitutil.ExtractBits(instruction, 7, 2)

	switch field {
	case 0b00:
		return c.execField00(instruction)
	case 0b01:
		return c.execField01(instruction)
	case 0b10:
		return c.execField10(instruction)
	default: // 0b11
		return c.execField11(instruction)
	}
}

// execField00 handles the transfer/arithmetic-immediate/increment/rotate
// family (top two bits 00).
func (c *CPU) execField00(instruction byte) (uint8, error) {
	opcode := bitutil.ExtractBits(instruction, 1, 3)

	switch opcode {
	case 0b000:
		return 4, nil // nop

	case 0b110: // mvi d, imm8
		imm, err := c.fetch8()
		if err != nil {
			return 0, err
		}
		dest := bitutil.ExtractBits(instruction, 4, 3)
		if err := c.WriteRegister8(dest, imm); err != nil {
			return 0, err
		}
		if dest == RegisterM {
			return 10, nil
		}
		return 7, nil

	case 0b111: // rotates, daa, cma, stc, cmc
		return 4, c.execRotateGroup(bitutil.ExtractBits(instruction, 4, 3))

	case 0b010: // ldax/lhld/lda or stax/shld/sta
		return c.execLoadStore(instruction)

	case 0b001: // dad rp or lxi rp, imm16
		return c.execDadOrLxi(instruction)
	}

	if bitutil.ExtractBits(instruction, 3, 1) == 0b1 {
		return c.execInrDcr(instruction)
	}
	return c.execInxDcx(instruction)
}

func (c *CPU) execRotateGroup(opcode byte) error {
	switch opcode {
	case 0b000:
		return c.Rlc()
	case 0b001:
		return c.Rrc()
	case 0b010:
		return c.Ral()
	case 0b011:
		return c.Rar()
	case 0b100:
		return c.Daa()
	case 0b101:
		return c.Cma()
	case 0b110:
		c.Stc()
		return nil
	case 0b111:
		c.Cmc()
		return nil
	}
	return &DomainError{Kind: "rotate/misc opcode", Value: opcode}
}

func (c *CPU) execLoadStore(instruction byte) (uint8, error) {
	rp := bitutil.ExtractBits(instruction, 5, 2)

	if bitutil.ExtractBits(instruction, 4, 1) == 0b1 {
		switch rp {
		case 0b11: // lda addr
			addr, err := c.fetch16()
			if err != nil {
				return 0, err
			}
			v, err := c.Read8(addr)
			if err != nil {
				return 0, err
			}
			return 13, c.WriteRegister8(RegisterA, v)

		case 0b10: // lhld addr
			addr, err := c.fetch16()
			if err != nil {
				return 0, err
			}
			v, err := c.Read16(addr)
			if err != nil {
				return 0, err
			}
			return 16, c.WriteRegister16(RegisterPairHL, v, true)

		default: // ldax rp
			addr, err := c.ReadRegister16(rp, true)
			if err != nil {
				return 0, err
			}
			v, err := c.Read8(addr)
			if err != nil {
				return 0, err
			}
			return 7, c.WriteRegister8(RegisterA, v)
		}
	}

	switch rp {
	case 0b11: // sta addr
		addr, err := c.fetch16()
		if err != nil {
			return 0, err
		}
		v, err := c.ReadRegister8(RegisterA)
		if err != nil {
			return 0, err
		}
		return 13, c.Write8(addr, v)

	case 0b10: // shld addr
		addr, err := c.fetch16()
		if err != nil {
			return 0, err
		}
		v, err := c.ReadRegister16(RegisterPairHL, true)
		if err != nil {
			return 0, err
		}
		return 16, c.Write16(addr, v)

	default: // stax rp
		addr, err := c.ReadRegister16(rp, true)
		if err != nil {
			return 0, err
		}
		v, err := c.ReadRegister8(RegisterA)
		if err != nil {
			return 0, err
		}
		return 7, c.Write8(addr, v)
	}
}

func (c *CPU) execDadOrLxi(instruction byte) (uint8, error) {
	rp := bitutil.ExtractBits(instruction, 5, 2)

	if bitutil.ExtractBits(instruction, 4, 1) == 0b1 { // dad rp
		value, err := c.ReadRegister16(rp, true)
		if err != nil {
			return 0, err
		}
		hl, err := c.ReadRegister16(RegisterPairHL, true)
		if err != nil {
			return 0, err
		}
		sum := uint32(value) + uint32(hl)
		if err := c.WriteRegister16(RegisterPairHL, uint16(sum), true); err != nil {
			return 0, err
		}
		c.SetFlag(FlagC, sum > 0xFFFF)
		return 10, nil
	}

	// lxi rp, imm16
	value, err := c.fetch16()
	if err != nil {
		return 0, err
	}
	return 10, c.WriteRegister16(rp, value, true)
}

func (c *CPU) execInrDcr(instruction byte) (uint8, error) {
	opcode := bitutil.ExtractBits(instruction, 1, 2)
	dest := bitutil.ExtractBits(instruction, 4, 3)

	cycles := uint8(5)
	if dest == RegisterM {
		cycles = 10
	}

	value, err := c.ReadRegister8(dest)
	if err != nil {
		return 0, err
	}

	switch opcode {
	case 0b00: // inr
		c.SetFlag(FlagA, (value&0xF) == 0xF)
		value++
	case 0b01: // dcr
		value--
		c.SetFlag(FlagA, (value&0xF) == 0xF)
	default:
		return 0, &DomainError{Kind: "INR/DCR opcode", Value: opcode}
	}

	if err := c.WriteRegister8(dest, value); err != nil {
		return 0, err
	}
	c.CalculateSZP(value)
	return cycles, nil
}

func (c *CPU) execInxDcx(instruction byte) (uint8, error) {
	rp := bitutil.ExtractBits(instruction, 5, 2)
	value, err := c.ReadRegister16(rp, true)
	if err != nil {
		return 0, err
	}

	if bitutil.ExtractBits(instruction, 4, 1) == 0b1 {
		err = c.WriteRegister16(rp, value-1, true) // dcx
	} else {
		err = c.WriteRegister16(rp, value+1, true) // inx
	}
	return 5, err
}

// execField01 handles MOV and HLT (top two bits 01).
func (c *CPU) execField01(instruction byte) (uint8, error) {
	if instruction == 0b01110110 { // hlt
		c.state.SetHalt(true)
		c.logf("halted")
		return 7, nil
	}

	dest := bitutil.ExtractBits(instruction, 4, 3)
	source := bitutil.ExtractBits(instruction, 1, 3)

	value, err := c.ReadRegister8(source)
	if err != nil {
		return 0, err
	}
	if err := c.WriteRegister8(dest, value); err != nil {
		return 0, err
	}

	if dest == RegisterM || source == RegisterM {
		return 7, nil
	}
	return 5, nil
}

// execField10 handles accumulator ALU with a register source (top two
// bits 10).
func (c *CPU) execField10(instruction byte) (uint8, error) {
	opcode := bitutil.ExtractBits(instruction, 4, 3)
	source := bitutil.ExtractBits(instruction, 1, 3)

	value, err := c.ReadRegister8(source)
	if err != nil {
		return 0, err
	}
	if err := c.arithmetic(opcode, value); err != nil {
		return 0, err
	}

	if source == RegisterM {
		return 7, nil
	}
	return 4, nil
}

// execField11 handles control flow, stack, I/O, and immediate-ALU (top
// two bits 11).
func (c *CPU) execField11(instruction byte) (uint8, error) {
	switch instruction {
	case 0b11000011, 0b11001011: // jmp addr
		addr, err := c.fetch16()
		if err != nil {
			return 0, err
		}
		c.state.SetPC(addr)
		return 10, nil

	case 0b11111011: // ei
		c.state.SetInterruptsEnabled(true)
		c.logf("interrupts enabled")
		return 4, nil

	case 0b11110011: // di
		c.state.SetInterruptsEnabled(false)
		c.logf("interrupts disabled")
		return 4, nil

	case 0b11100011: // xthl
		hl, err := c.ReadRegister16(RegisterPairHL, true)
		if err != nil {
			return 0, err
		}
		top, err := c.Pop()
		if err != nil {
			return 0, err
		}
		if err := c.Push(hl); err != nil {
			return 0, err
		}
		return 18, c.WriteRegister16(RegisterPairHL, top, true)

	case 0b11101011: // xchg
		de, err := c.ReadRegister16(RegisterPairDE, true)
		if err != nil {
			return 0, err
		}
		hl, err := c.ReadRegister16(RegisterPairHL, true)
		if err != nil {
			return 0, err
		}
		if err := c.WriteRegister16(RegisterPairHL, de, true); err != nil {
			return 0, err
		}
		return 5, c.WriteRegister16(RegisterPairDE, hl, true)

	case 0b11101001: // pchl
		hl, err := c.ReadRegister16(RegisterPairHL, true)
		if err != nil {
			return 0, err
		}
		c.state.SetPC(hl)
		return 5, nil

	case 0b11111001: // sphl
		hl, err := c.ReadRegister16(RegisterPairHL, true)
		if err != nil {
			return 0, err
		}
		c.state.SetSP(hl)
		return 5, nil

	case 0b11011011: // in port
		port, err := c.fetch8()
		if err != nil {
			return 0, err
		}
		if c.InFunc == nil {
			return 0, &IOPortError{Port: port, Out: false}
		}
		return 10, c.WriteRegister8(RegisterA, c.InFunc(port))

	case 0b11010011: // out port
		port, err := c.fetch8()
		if err != nil {
			return 0, err
		}
		a, err := c.ReadRegister8(RegisterA)
		if err != nil {
			return 0, err
		}
		if c.OutFunc == nil {
			return 0, &IOPortError{Port: port, Out: true}
		}
		c.OutFunc(port, a)
		return 10, nil

	case 0b11001001, 0b11011001: // ret
		return 10, c.Return()
	}

	switch instruction & 0xF {
	case 0x1: // pop rp
		rp := bitutil.ExtractBits(instruction, 5, 2)
		value, err := c.Pop()
		if err != nil {
			return 0, err
		}
		return 10, c.WriteRegister16(rp, value, false)

	case 0x5: // push rp
		rp := bitutil.ExtractBits(instruction, 5, 2)
		value, err := c.ReadRegister16(rp, false)
		if err != nil {
			return 0, err
		}
		return 11, c.Push(value)

	case 0x6: // adi/sui/ani/ori
		opcode := bitutil.ExtractBits(instruction, 4, 3)
		value, err := c.fetch8()
		if err != nil {
			return 0, err
		}
		return 7, c.arithmetic(opcode, value)

	case 0xD: // call addr
		addr, err := c.fetch16()
		if err != nil {
			return 0, err
		}
		return 17, c.Call(addr)

	case 0xE: // aci/sbi/xri/cpi
		opcode := bitutil.ExtractBits(instruction, 4, 3)
		value, err := c.fetch8()
		if err != nil {
			return 0, err
		}
		return 7, c.arithmetic(opcode, value)
	}

	opcode := bitutil.ExtractBits(instruction, 1, 3)

	switch opcode {
	case 0b000: // rcc
		condition := bitutil.ExtractBits(instruction, 4, 3)
		met, err := c.ConditionMet(condition)
		if err != nil {
			return 0, err
		}
		if met {
			if err := c.Return(); err != nil {
				return 0, err
			}
			return 11, nil
		}
		return 5, nil

	case 0b010: // jcc
		addr, err := c.fetch16()
		if err != nil {
			return 0, err
		}
		condition := bitutil.ExtractBits(instruction, 4, 3)
		met, err := c.ConditionMet(condition)
		if err != nil {
			return 0, err
		}
		if met {
			c.state.SetPC(addr)
		}
		return 10, nil

	case 0b100: // ccc
		addr, err := c.fetch16()
		if err != nil {
			return 0, err
		}
		condition := bitutil.ExtractBits(instruction, 4, 3)
		met, err := c.ConditionMet(condition)
		if err != nil {
			return 0, err
		}
		if met {
			if err := c.Call(addr); err != nil {
				return 0, err
			}
			return 17, nil
		}
		return 11, nil

	case 0b111: // rst n
		n := bitutil.ExtractBits(instruction, 4, 3)
		if err := c.Call(uint16(n) * 8); err != nil {
			return 0, err
		}
		return 11, nil
	}

	return 0, &DecodeError{Opcode: instruction}
}
