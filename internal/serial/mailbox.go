package serial

// Mailbox holds at most one received line until the main loop takes it.
// A line arriving while the slot is full is rejected.
type Mailbox struct {
	slot chan string
}

// NewMailbox creates an empty mailbox.
func NewMailbox() *Mailbox {
	return &Mailbox{slot: make(chan string, 1)}
}

// Put stores line if the slot is free. It never blocks.
func (m *Mailbox) Put(line string) bool {
	select {
	case m.slot <- line:
		return true
	default:
		return false
	}
}

// Take removes the pending line, if any. It never blocks.
func (m *Mailbox) Take() (string, bool) {
	select {
	case line := <-m.slot:
		return line, true
	default:
		return "", false
	}
}

// C returns the slot for use in a select.
func (m *Mailbox) C() <-chan string {
	return m.slot
}
