// registers.go - register/register-pair codes and code-indexed access

package cpu

// Register codes, fixed by the 8080 ISA.
const (
	RegisterB byte = 0b000
	RegisterC byte = 0b001
	RegisterD byte = 0b010
	RegisterE byte = 0b011
	RegisterH byte = 0b100
	RegisterL byte = 0b101
	RegisterM byte = 0b110 // memory indirect through HL; not stored in State.registers
	RegisterA byte = 0b111
)

// Register pair codes. Code 0b11 means SP for most instructions, or PSW
// for PUSH/POP — callers select via the spAvailable parameter.
const (
	RegisterPairBC  byte = 0b00
	RegisterPairDE  byte = 0b01
	RegisterPairHL  byte = 0b10
	RegisterPairSP  byte = 0b11
	RegisterPairPSW byte = 0b11
)

// storageIndex maps a register code to its slot in State.registers, which
// stores B,C,D,E,H,L,A in that order. Codes B..L map to their own value;
// A (code 0b111) maps to slot 6.
func storageIndex(r byte) byte {
	if r == RegisterA {
		return 6
	}
	return r
}

// ReadRegister8 reads register r. Code RegisterM reads the byte at
// address HL instead of a stored register.
func (c *CPU) ReadRegister8(r byte) (byte, error) {
	if r > 0b111 {
		return 0, &DomainError{Kind: "register", Value: r}
	}
	if r == RegisterM {
		addr, err := c.ReadRegister16(RegisterPairHL, true)
		if err != nil {
			return 0, err
		}
		return c.Read8(addr)
	}
	v := c.state.Register(storageIndex(r))
	c.logf("read 0x%02X from register %d", v, r)
	return v, nil
}

// WriteRegister8 writes value to register r. Code RegisterM writes the
// byte at address HL instead of a stored register.
func (c *CPU) WriteRegister8(r byte, value byte) error {
	if r > 0b111 {
		return &DomainError{Kind: "register", Value: r}
	}
	if r == RegisterM {
		addr, err := c.ReadRegister16(RegisterPairHL, true)
		if err != nil {
			return err
		}
		return c.Write8(addr, value)
	}
	c.state.SetRegister(storageIndex(r), value)
	c.logf("wrote 0x%02X to register %d", value, r)
	return nil
}

// ReadRegister16 reads register pair rp. For code 0b11, spAvailable
// selects between SP and the packed PSW ((A<<8)|flags).
func (c *CPU) ReadRegister16(rp byte, spAvailable bool) (uint16, error) {
	switch rp {
	case RegisterPairBC:
		hi, _ := c.ReadRegister8(RegisterB)
		lo, _ := c.ReadRegister8(RegisterC)
		return uint16(hi)<<8 | uint16(lo), nil
	case RegisterPairDE:
		hi, _ := c.ReadRegister8(RegisterD)
		lo, _ := c.ReadRegister8(RegisterE)
		return uint16(hi)<<8 | uint16(lo), nil
	case RegisterPairHL:
		hi, _ := c.ReadRegister8(RegisterH)
		lo, _ := c.ReadRegister8(RegisterL)
		return uint16(hi)<<8 | uint16(lo), nil
	case RegisterPairSP:
		if spAvailable {
			return c.state.SP(), nil
		}
		a, _ := c.ReadRegister8(RegisterA)
		return uint16(a)<<8 | uint16(c.state.Flags()), nil
	}
	return 0, &DomainError{Kind: "register pair", Value: rp}
}

// WriteRegister16 writes value to register pair rp. For code 0b11,
// spAvailable selects between SP and splitting value into A (high) and
// flags (low) for the PSW.
func (c *CPU) WriteRegister16(rp byte, value uint16, spAvailable bool) error {
	hi := byte(value >> 8)
	lo := byte(value)

	switch rp {
	case RegisterPairBC:
		if err := c.WriteRegister8(RegisterB, hi); err != nil {
			return err
		}
		return c.WriteRegister8(RegisterC, lo)
	case RegisterPairDE:
		if err := c.WriteRegister8(RegisterD, hi); err != nil {
			return err
		}
		return c.WriteRegister8(RegisterE, lo)
	case RegisterPairHL:
		if err := c.WriteRegister8(RegisterH, hi); err != nil {
			return err
		}
		return c.WriteRegister8(RegisterL, lo)
	case RegisterPairSP:
		if spAvailable {
			c.state.SetSP(value)
			return nil
		}
		c.state.SetFlags((lo & ^byte(0x28)) | resetFlags)
		return c.WriteRegister8(RegisterA, hi)
	}
	return &DomainError{Kind: "register pair", Value: rp}
}
