package bus

import (
	"errors"
	"testing"
)

func TestFakeRegisters(t *testing.T) {
	f := NewFake()
	f.AddDevice(0x22)

	if err := f.WriteRegister(0x22, 0x04, []byte{0xAA, 0xBB}); err != nil {
		t.Fatalf("write: %v", err)
	}
	buf := make([]byte, 2)
	if err := f.ReadRegister(0x22, 0x04, buf); err != nil {
		t.Fatalf("read: %v", err)
	}
	if buf[0] != 0xAA || buf[1] != 0xBB {
		t.Errorf("read back %x", buf)
	}
	if len(f.Writes) != 1 || f.Writes[0].Reg != 0x04 {
		t.Errorf("writes: %+v", f.Writes)
	}
}

func TestFakeCommandDeviceAutoIncrement(t *testing.T) {
	f := NewFake()
	f.AddCommandDevice(0x22)

	// Without bit 7 every byte lands on register 0x0C.
	if err := f.WriteRegister(0x22, 0x0C, []byte{0x11, 0x22, 0x33}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := f.Register(0x22, 0x0C); got != 0x33 {
		t.Errorf("reg 0x0c: got %#x, want 0x33", got)
	}
	if got := f.Register(0x22, 0x0D); got != 0 {
		t.Errorf("reg 0x0d written without auto-increment: %#x", got)
	}

	if err := f.WriteRegister(0x22, 0x80|0x04, []byte{0xAA, 0xBB}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if f.Register(0x22, 0x04) != 0xAA || f.Register(0x22, 0x05) != 0xBB {
		t.Errorf("auto-increment write: got %#x %#x", f.Register(0x22, 0x04), f.Register(0x22, 0x05))
	}
	buf := make([]byte, 2)
	if err := f.ReadRegister(0x22, 0x80|0x04, buf); err != nil {
		t.Fatalf("read: %v", err)
	}
	if buf[0] != 0xAA || buf[1] != 0xBB {
		t.Errorf("auto-increment read: %x", buf)
	}
	if got := f.Writes[1].Reg; got != 0x84 {
		t.Errorf("recorded command byte: got %#x, want 0x84", got)
	}
}

func TestFakeRawDevice(t *testing.T) {
	f := NewFake()
	f.AddRaw(0x20, 0xF0)

	var buf [1]byte
	if err := f.Tx(0x20, nil, buf[:]); err != nil {
		t.Fatalf("read: %v", err)
	}
	if buf[0] != 0xF0 {
		t.Errorf("raw read: got %#x", buf[0])
	}

	if err := f.Tx(0x20, []byte{0x0F}, nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	if f.Raw(0x20) != 0x0F {
		t.Errorf("raw write: got %#x", f.Raw(0x20))
	}
}

func TestFakeMissingDevice(t *testing.T) {
	f := NewFake()
	err := f.WriteRegister(0x50, 0, []byte{1})
	if !errors.Is(err, ErrNoDevice) {
		t.Errorf("expected ErrNoDevice, got %v", err)
	}
}

func TestCountingCountsErrors(t *testing.T) {
	f := NewFake()
	f.AddDevice(0x18)
	c := NewCounting("test", f)

	if err := c.WriteRegister(0x18, 1, []byte{0}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Errors() != 0 {
		t.Errorf("errors: got %d, want 0", c.Errors())
	}

	f.Err = errors.New("nack")
	for i := 0; i < 3; i++ {
		err := c.ReadRegister(0x18, 0, make([]byte, 1))
		if !errors.Is(err, f.Err) {
			t.Fatalf("error not wrapped: %v", err)
		}
	}
	if c.Errors() != 3 {
		t.Errorf("errors: got %d, want 3", c.Errors())
	}
	if c.Transactions() != 4 {
		t.Errorf("transactions: got %d, want 4", c.Transactions())
	}
}
