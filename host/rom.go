// rom.go - ROM image loading

package host

import (
	"fmt"
	"os"
)

// loadAddress is where a CP/M-style .COM image is conventionally based.
const loadAddress = 0x0100

// LoadROM reads filename and writes its bytes into CPU memory starting at
// loadAddress (0x0100), then sets PC to loadAddress.
func (h *Host) LoadROM(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("host: failed to read ROM %q: %w", filename, err)
	}
	return h.LoadROMData(data)
}

// LoadROMData writes data into CPU memory starting at loadAddress and
// sets PC to loadAddress.
func (h *Host) LoadROMData(data []byte) error {
	if uint32(loadAddress)+uint32(len(data)) > h.CPU.State().MemorySize() {
		return fmt.Errorf("host: ROM of %d bytes does not fit at 0x%04X in %d bytes of memory",
			len(data), loadAddress, h.CPU.State().MemorySize())
	}
	if err := h.CPU.WriteBytes(loadAddress, data); err != nil {
		return err
	}
	h.CPU.State().SetPC(loadAddress)
	return nil
}
