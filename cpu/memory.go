// memory.go - bounds-checked byte/word access over the CPU's owned memory buffer

package cpu

// Read8 returns the byte at addr, failing with AddressingError if addr is
// outside [0, memorySize).
func (c *CPU) Read8(addr uint16) (byte, error) {
	if uint32(addr) >= c.state.MemorySize() {
		return 0, &AddressingError{Addr: uint32(addr), MemorySize: c.state.MemorySize()}
	}
	v := c.state.memory[addr]
	c.logf("read 0x%02X from addr 0x%04X", v, addr)
	return v, nil
}

// Write8 stores value at addr, failing with AddressingError if addr is
// outside [0, memorySize).
func (c *CPU) Write8(addr uint16, value byte) error {
	if uint32(addr) >= c.state.MemorySize() {
		return &AddressingError{Addr: uint32(addr), MemorySize: c.state.MemorySize()}
	}
	c.state.memory[addr] = value
	c.logf("wrote 0x%02X to addr 0x%04X", value, addr)
	return nil
}

// Read16 returns the little-endian word at addr (low byte at addr, high
// byte at addr+1).
func (c *CPU) Read16(addr uint16) (uint16, error) {
	if uint32(addr)+1 >= c.state.MemorySize() {
		return 0, &AddressingError{Addr: uint32(addr) + 1, MemorySize: c.state.MemorySize()}
	}
	lo := c.state.memory[addr]
	hi := c.state.memory[addr+1]
	v := uint16(hi)<<8 | uint16(lo)
	c.logf("read 0x%04X from addr 0x%04X", v, addr)
	return v, nil
}

// Write16 stores the little-endian word value at addr (low byte at addr,
// high byte at addr+1).
func (c *CPU) Write16(addr uint16, value uint16) error {
	if uint32(addr)+1 >= c.state.MemorySize() {
		return &AddressingError{Addr: uint32(addr) + 1, MemorySize: c.state.MemorySize()}
	}
	c.state.memory[addr] = byte(value)
	c.state.memory[addr+1] = byte(value >> 8)
	c.logf("wrote 0x%04X to addr 0x%04X", value, addr)
	return nil
}

// WriteBytes copies bytes into memory starting at addr.
func (c *CPU) WriteBytes(addr uint16, data []byte) error {
	end := uint32(addr) + uint32(len(data))
	if end > c.state.MemorySize() {
		return &AddressingError{Addr: end, MemorySize: c.state.MemorySize()}
	}
	copy(c.state.memory[addr:], data)
	c.logf("wrote 0x%X bytes to addr 0x%04X", len(data), addr)
	return nil
}

// ReadBytes returns a copy of size bytes starting at addr.
func (c *CPU) ReadBytes(addr uint16, size uint16) ([]byte, error) {
	end := uint32(addr) + uint32(size)
	if end > c.state.MemorySize() {
		return nil, &AddressingError{Addr: end, MemorySize: c.state.MemorySize()}
	}
	out := make([]byte, size)
	copy(out, c.state.memory[addr:end])
	return out, nil
}
