// clipboard.go - copying the output stream to the system clipboard

package host

import (
	"fmt"
	"sync"

	"golang.design/x/clipboard"
)

var (
	clipboardOnce sync.Once
	clipboardOK   bool
)

// CopyOutputToClipboard writes the host's current output stream to the
// system clipboard without clearing it. clipboard.Init is lazily run
// once per process, matching the guard a GUI frontend would use before
// its first paste/copy.
func (h *Host) CopyOutputToClipboard() error {
	clipboardOnce.Do(func() {
		clipboardOK = clipboard.Init() == nil
	})
	if !clipboardOK {
		return fmt.Errorf("host: clipboard unavailable on this platform")
	}

	clipboard.Write(clipboard.FmtText, []byte(h.OutputStream(false)))
	return nil
}
