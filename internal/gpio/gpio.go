// Package gpio provides the panel button input with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Reader reads the panel button.
type Reader interface {
	// Read returns whether the panel button is pressed.
	// The raw line is active-low: raw 0 = pressed.
	Read() (bool, error)

	// Close releases GPIO resources.
	Close() error
}

// Defaults (BCM numbering on gpiochip0).
const (
	DefaultChip      = "gpiochip0"
	DefaultPanelLine = 17
)
