package display

// fieldGroups maps an edit field pointer (1..3) to the physical digits of
// its group in upright orientation. Index 0 is unused: no field selected.
var fieldGroups = map[Kind][4]byte{
	KindTime:      {0, 0x0C, 0x30, 0xC0},
	KindDate:      {0, 0x0F, 0x30, 0xC0},
	KindAlarm:     {0, 0x0C, 0x30, 0xC0},
	KindCountdown: {0, 0x0C, 0x30, 0xC0},
}

// Open enables every digit.
const Open byte = 0xFF

// Group returns the digit mask of field ptr on screen k. Flip mode mirrors
// the group because the display is read upside down.
func Group(k Kind, ptr int, flip bool) byte {
	groups, ok := fieldGroups[k]
	if !ok || ptr < 1 || ptr > 3 {
		return 0
	}
	g := groups[ptr]
	if flip {
		g = reverse(g)
	}
	return g
}

// BlinkMask returns the digit-enable mask for the current blink phase.
// ptr 0 is fully open. Otherwise the selected group is suppressed while
// visible is false.
func BlinkMask(k Kind, ptr int, flip, visible bool) byte {
	if ptr == 0 || visible {
		return Open
	}
	return Open &^ Group(k, ptr, flip)
}

// RingMask blinks the whole display during a ring episode.
func RingMask(visible bool) byte {
	if visible {
		return Open
	}
	return 0
}

func reverse(b byte) byte {
	var r byte
	for i := 0; i < 8; i++ {
		if b&(1<<i) != 0 {
			r |= 1 << (7 - i)
		}
	}
	return r
}
