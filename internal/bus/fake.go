package bus

import (
	"errors"
	"sync"
)

// ErrNoDevice is returned by Fake for an address with no device attached.
var ErrNoDevice = errors.New("no device at address")

// Write records one register write on a Fake.
type Write struct {
	Addr uint16
	Reg  uint8
	Data []byte
}

// Fake is an in-memory bus. Register devices are 256-byte register files
// addressed by the first written byte. Raw devices (no register pointer,
// like the PCF8574) hold a single byte.
//
// Plain register devices always advance the pointer across a transfer.
// Command devices, like the TCA6424, only advance it when bit 7 of the
// command byte is set; otherwise every byte lands on the same register.
type Fake struct {
	mu sync.Mutex

	regs map[uint16]*[256]byte
	raw  map[uint16]byte
	cmd  map[uint16]bool

	// Writes records every register write in order.
	Writes []Write

	// Err, if set, fails every transaction.
	Err error
}

// NewFake creates an empty bus.
func NewFake() *Fake {
	return &Fake{
		regs: make(map[uint16]*[256]byte),
		raw:  make(map[uint16]byte),
		cmd:  make(map[uint16]bool),
	}
}

// AddDevice attaches a register device at addr.
func (f *Fake) AddDevice(addr uint16) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.regs[addr] = new([256]byte)
}

// AddCommandDevice attaches a register device at addr whose command byte
// carries the auto-increment flag in bit 7.
func (f *Fake) AddCommandDevice(addr uint16) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.regs[addr] = new([256]byte)
	f.cmd[addr] = true
}

// AddRaw attaches a register-less device at addr holding v.
func (f *Fake) AddRaw(addr uint16, v byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.raw[addr] = v
}

// SetRegister sets a register value directly.
func (f *Fake) SetRegister(addr uint16, reg, v uint8) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.regs[addr]; ok {
		r[reg] = v
	}
}

// Register returns a register value.
func (f *Fake) Register(addr uint16, reg uint8) byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.regs[addr]; ok {
		return r[reg]
	}
	return 0
}

// SetRaw sets the byte a raw device returns.
func (f *Fake) SetRaw(addr uint16, v byte) {
	f.AddRaw(addr, v)
}

// Raw returns the last byte written to a raw device.
func (f *Fake) Raw(addr uint16) byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.raw[addr]
}

// Tx emulates one transaction.
func (f *Fake) Tx(addr uint16, w, r []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}

	if _, ok := f.raw[addr]; ok {
		if len(w) > 0 {
			f.raw[addr] = w[len(w)-1]
		}
		for i := range r {
			r[i] = f.raw[addr]
		}
		return nil
	}

	regs, ok := f.regs[addr]
	if !ok {
		return ErrNoDevice
	}
	if len(w) == 0 {
		return nil
	}
	reg, step := w[0], uint8(1)
	if f.cmd[addr] {
		if reg&autoIncrement == 0 {
			step = 0
		}
		reg &^= autoIncrement
	}
	if data := w[1:]; len(data) > 0 {
		f.Writes = append(f.Writes, Write{Addr: addr, Reg: w[0], Data: append([]byte(nil), data...)})
		for i, b := range data {
			regs[reg+uint8(i)*step] = b
		}
	}
	for i := range r {
		r[i] = regs[reg+uint8(i)*step]
	}
	return nil
}

const autoIncrement = 0x80

func (f *Fake) WriteRegister(addr, reg uint8, buf []byte) error {
	return writeRegister(f, addr, reg, buf)
}

func (f *Fake) ReadRegister(addr, reg uint8, buf []byte) error {
	return readRegister(f, addr, reg, buf)
}

// Reset forgets recorded writes.
func (f *Fake) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Writes = nil
}
