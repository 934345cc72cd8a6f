package expander

import (
	"fmt"

	"github.com/sweeney/seg-clock/internal/bus"
)

// PCA9557 register map.
const (
	PCA9557Address = 0x18

	pcaOutput   = 0x01
	pcaPolarity = 0x02
	pcaConfig   = 0x03 // bit set = input
)

// Status LEDs on the PCA9557.
const (
	LEDAlarm     byte = 1 << 0 // alarm enabled
	LEDCountdown byte = 1 << 1 // countdown running
	LEDRinging   byte = 1 << 2 // ring episode in progress
)

// PCA9557 drives the active-low status LEDs.
type PCA9557 struct {
	bus     bus.Bus
	addr    uint8
	current byte
	valid   bool
}

// NewPCA9557 creates a driver. Call Configure before use.
func NewPCA9557(b bus.Bus, addr uint8) *PCA9557 {
	if addr == 0 {
		addr = PCA9557Address
	}
	return &PCA9557{bus: b, addr: addr}
}

// Configure makes every pin a non-inverted output with all LEDs off.
func (p *PCA9557) Configure() error {
	if err := p.bus.WriteRegister(p.addr, pcaOutput, []byte{0xFF}); err != nil {
		return fmt.Errorf("pca9557 output: %w", err)
	}
	if err := p.bus.WriteRegister(p.addr, pcaPolarity, []byte{0x00}); err != nil {
		return fmt.Errorf("pca9557 polarity: %w", err)
	}
	if err := p.bus.WriteRegister(p.addr, pcaConfig, []byte{0x00}); err != nil {
		return fmt.Errorf("pca9557 config: %w", err)
	}
	p.current, p.valid = 0, true
	return nil
}

// SetLEDs lights the LEDs in mask and turns the rest off. Unchanged masks
// are not rewritten.
func (p *PCA9557) SetLEDs(mask byte) error {
	if p.valid && mask == p.current {
		return nil
	}
	if err := p.bus.WriteRegister(p.addr, pcaOutput, []byte{^mask}); err != nil {
		p.valid = false
		return err
	}
	p.current, p.valid = mask, true
	return nil
}

// LEDs returns the last mask written.
func (p *PCA9557) LEDs() byte {
	return p.current
}
