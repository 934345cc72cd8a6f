// Package bus provides register access to I2C peripherals.
// The real implementation uses periph.io on Linux.
// The fake implementation allows testing without hardware.
//
// Every Bus also satisfies tinygo.org/x/drivers.I2C so the same bus can be
// handed to the tinygo device drivers.
package bus

// Bus is an I2C bus with register helpers.
type Bus interface {
	// Tx writes w then reads len(r) bytes from the device at addr.
	Tx(addr uint16, w, r []byte) error

	// WriteRegister writes buf starting at register reg.
	WriteRegister(addr uint8, reg uint8, buf []byte) error

	// ReadRegister fills buf starting at register reg.
	ReadRegister(addr uint8, reg uint8, buf []byte) error
}

type txer interface {
	Tx(addr uint16, w, r []byte) error
}

func writeRegister(b txer, addr, reg uint8, buf []byte) error {
	w := make([]byte, 0, len(buf)+1)
	w = append(w, reg)
	w = append(w, buf...)
	return b.Tx(uint16(addr), w, nil)
}

func readRegister(b txer, addr, reg uint8, buf []byte) error {
	return b.Tx(uint16(addr), []byte{reg}, buf)
}
