package mqtt

import "log"

// bufferedMsg is a serialized message waiting for the broker.
type bufferedMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// outbox holds what was published while the broker was unreachable.
//
// Appliance events queue in a fixed-capacity FIFO that drops the oldest when
// full. A retained message replaces the broker's state for its topic, so only
// the newest one per topic is kept; those are replayed after the events so
// the broker ends on the current lifecycle state.
//
// Not safe for concurrent use; RealPublisher guards it with its mutex.
type outbox struct {
	events  []bufferedMsg
	head    int // next write position
	count   int
	dropped int // events overwritten since the last drain

	retained map[string]bufferedMsg
	topics   []string // retained topics, first seen first
}

func newOutbox(capacity int) *outbox {
	if capacity < 1 {
		capacity = 1
	}
	return &outbox{
		events:   make([]bufferedMsg, capacity),
		retained: make(map[string]bufferedMsg),
	}
}

func (o *outbox) push(msg bufferedMsg) {
	if msg.retained {
		if _, ok := o.retained[msg.topic]; !ok {
			o.topics = append(o.topics, msg.topic)
		}
		o.retained[msg.topic] = msg
		return
	}

	n := len(o.events)
	o.events[o.head] = msg
	o.head = (o.head + 1) % n
	if o.count < n {
		o.count++
		return
	}
	if o.dropped == 0 {
		log.Printf("mqtt: outbox full (%d events), dropping oldest", n)
	}
	o.dropped++
}

// drain returns the queued events oldest first, then the retained state per
// topic, and empties the outbox.
func (o *outbox) drain() []bufferedMsg {
	if o.len() == 0 {
		return nil
	}

	n := len(o.events)
	out := make([]bufferedMsg, 0, o.len())
	start := (o.head - o.count + n) % n
	for i := 0; i < o.count; i++ {
		out = append(out, o.events[(start+i)%n])
	}
	for _, topic := range o.topics {
		out = append(out, o.retained[topic])
	}

	if o.dropped > 0 {
		log.Printf("mqtt: %d events were dropped while disconnected", o.dropped)
	}
	o.count, o.head, o.dropped = 0, 0, 0
	o.topics = o.topics[:0]
	clear(o.retained)
	return out
}

func (o *outbox) len() int {
	return o.count + len(o.retained)
}
