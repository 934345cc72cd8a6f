package expander

import (
	"tinygo.org/x/drivers/pcf8574"

	"github.com/sweeney/seg-clock/internal/bus"
)

// PCF8574Buttons reads the packed button byte from a PCF8574. Every pin is
// held high so that a pressed key pulls its bit low.
type PCF8574Buttons struct {
	dev *pcf8574.Device
}

// NewPCF8574Buttons configures the expander at addr (0 selects the default).
func NewPCF8574Buttons(b bus.Bus, addr uint8) (*PCF8574Buttons, error) {
	dev := pcf8574.New(b)
	dev.Configure(pcf8574.Config{Address: addr})
	if err := dev.SetAll(0xFF); err != nil {
		return nil, err
	}
	return &PCF8574Buttons{dev: dev}, nil
}

// ReadButtons returns the pin levels.
func (p *PCF8574Buttons) ReadButtons() (byte, error) {
	r, err := p.dev.Read()
	if err != nil {
		return 0, err
	}
	return byte(r), nil
}
