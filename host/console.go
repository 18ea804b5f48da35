// console.go - raw-mode stdin reader feeding the host's input stream

package host

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// ConsoleReader puts a terminal into raw mode so a host can pull
// keystrokes one byte at a time rather than through line-buffered stdin.
// Neither the sample driver's CP/M trap nor LuaTrap reads from it.
type ConsoleReader struct {
	fd       int
	file     *os.File
	oldState *term.State
}

// NewConsoleReader puts fd (typically int(os.Stdin.Fd())) into raw mode.
// Call Close when done.
func NewConsoleReader(fd int) (*ConsoleReader, error) {
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("host: failed to set raw mode: %w", err)
	}
	return &ConsoleReader{fd: fd, file: os.NewFile(uintptr(fd), "console"), oldState: oldState}, nil
}

// ReadByte blocks for a single byte from the raw terminal.
func (r *ConsoleReader) ReadByte() (byte, error) {
	var buf [1]byte
	if _, err := r.file.Read(buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// Close returns the terminal to its state before NewConsoleReader.
func (r *ConsoleReader) Close() error {
	return term.Restore(r.fd, r.oldState)
}
