package bus

import (
	"fmt"
	"log"
	"sync/atomic"
)

// Counting wraps a Bus and counts failed transactions. Errors are logged
// (first and every 100th) and still returned to the caller, so a transient
// glitch never stops the control loop.
type Counting struct {
	bus    Bus
	name   string
	errors atomic.Uint64
	total  atomic.Uint64
}

// NewCounting wraps b. name prefixes log lines.
func NewCounting(name string, b Bus) *Counting {
	return &Counting{bus: b, name: name}
}

func (c *Counting) Tx(addr uint16, w, r []byte) error {
	return c.check(addr, c.bus.Tx(addr, w, r))
}

func (c *Counting) WriteRegister(addr, reg uint8, buf []byte) error {
	return c.check(uint16(addr), c.bus.WriteRegister(addr, reg, buf))
}

func (c *Counting) ReadRegister(addr, reg uint8, buf []byte) error {
	return c.check(uint16(addr), c.bus.ReadRegister(addr, reg, buf))
}

func (c *Counting) check(addr uint16, err error) error {
	c.total.Add(1)
	if err == nil {
		return nil
	}
	n := c.errors.Add(1)
	if n == 1 || n%100 == 0 {
		log.Printf("%s: device %#02x error (%d so far): %v", c.name, addr, n, err)
	}
	return fmt.Errorf("device %#02x: %w", addr, err)
}

// Errors returns the number of failed transactions.
func (c *Counting) Errors() uint64 {
	return c.errors.Load()
}

// Transactions returns the number of attempted transactions.
func (c *Counting) Transactions() uint64 {
	return c.total.Load()
}
