package bus

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
)

// Periph is a Bus backed by a host I2C adapter. host.Init must have been
// called first.
type Periph struct {
	bus i2c.BusCloser
}

// Open opens the named I2C bus. An empty name selects the first bus found.
func Open(name string) (*Periph, error) {
	b, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", name, err)
	}
	return &Periph{bus: b}, nil
}

// Tx performs one combined write/read transaction.
func (p *Periph) Tx(addr uint16, w, r []byte) error {
	return p.bus.Tx(addr, w, r)
}

// WriteRegister writes buf starting at register reg.
func (p *Periph) WriteRegister(addr, reg uint8, buf []byte) error {
	return writeRegister(p, addr, reg, buf)
}

// ReadRegister fills buf starting at register reg.
func (p *Periph) ReadRegister(addr, reg uint8, buf []byte) error {
	return readRegister(p, addr, reg, buf)
}

// Close releases the bus.
func (p *Periph) Close() error {
	return p.bus.Close()
}

func (p *Periph) String() string {
	return p.bus.String()
}
