// Package expander drives the I2C port expanders of the appliance: the
// TCA6424 carrying the buttons and the multiplexed display, the PCA9557
// status LEDs, and the PCF8574 as an alternate button source.
package expander

import (
	"fmt"

	"github.com/sweeney/seg-clock/internal/bus"
)

// TCA6424 register map. Each function has three consecutive port
// registers.
const (
	TCA6424Address = 0x22

	tcaInput  = 0x00
	tcaOutput = 0x04
	tcaConfig = 0x0C // bit set = input

	// tcaAutoIncrement in the command byte advances the register pointer
	// after each data byte. Without it a multi-byte write repeats on one
	// register.
	tcaAutoIncrement = 0x80
)

// Port assignment on the TCA6424.
const (
	portButtons  = 0
	portSegments = 1
	portDigits   = 2
)

// TCA6424 reads the button register on port 0 and drives the display
// segments on port 1 and the digit enables on port 2.
type TCA6424 struct {
	bus  bus.Bus
	addr uint8
}

// NewTCA6424 creates a driver. Call Configure before use.
func NewTCA6424(b bus.Bus, addr uint8) *TCA6424 {
	if addr == 0 {
		addr = TCA6424Address
	}
	return &TCA6424{bus: b, addr: addr}
}

// Configure makes port 0 an input and ports 1 and 2 outputs, with the
// display blanked.
func (t *TCA6424) Configure() error {
	if err := t.bus.WriteRegister(t.addr, tcaAutoIncrement|(tcaOutput+portSegments), []byte{0x00, 0x00}); err != nil {
		return fmt.Errorf("tca6424 blank: %w", err)
	}
	if err := t.bus.WriteRegister(t.addr, tcaAutoIncrement|tcaConfig, []byte{0xFF, 0x00, 0x00}); err != nil {
		return fmt.Errorf("tca6424 config: %w", err)
	}
	return nil
}

// ReadButtons returns the raw button port. Buttons are active-low.
func (t *TCA6424) ReadButtons() (byte, error) {
	var buf [1]byte
	if err := t.bus.ReadRegister(t.addr, tcaInput+portButtons, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// WriteSegments latches the segment byte.
func (t *TCA6424) WriteSegments(seg byte) error {
	return t.bus.WriteRegister(t.addr, tcaOutput+portSegments, []byte{seg})
}

// WriteDigits drives the digit enables.
func (t *TCA6424) WriteDigits(mask byte) error {
	return t.bus.WriteRegister(t.addr, tcaOutput+portDigits, []byte{mask})
}
