package display

// Segment bits of one digit.
const (
	segA byte = 1 << iota
	segB
	segC
	segD
	segE
	segF
	segG
	segDP
)

// normalGlyphs maps a character to its segment pattern with the display
// mounted upright.
var normalGlyphs = map[rune]byte{
	' ': 0,
	'0': segA | segB | segC | segD | segE | segF,
	'1': segB | segC,
	'2': segA | segB | segD | segE | segG,
	'3': segA | segB | segC | segD | segG,
	'4': segB | segC | segF | segG,
	'5': segA | segC | segD | segF | segG,
	'6': segA | segC | segD | segE | segF | segG,
	'7': segA | segB | segC,
	'8': segA | segB | segC | segD | segE | segF | segG,
	'9': segA | segB | segC | segD | segF | segG,
	'A': segA | segB | segC | segE | segF | segG,
	'b': segC | segD | segE | segF | segG,
	'c': segD | segE | segG,
	'd': segB | segC | segD | segE | segG,
	'E': segA | segD | segE | segF | segG,
	'F': segA | segE | segF | segG,
	'o': segC | segD | segE | segG,
	'L': segD | segE | segF,
	'-': segG,
}

// flippedGlyphs holds the same characters rotated by 180 degrees for a
// display read upside down: a<->d, b<->e, c<->f.
var flippedGlyphs = map[rune]byte{
	' ': 0,
	'0': 0x3f,
	'1': 0x30,
	'2': 0x5b,
	'3': 0x79,
	'4': 0x74,
	'5': 0x6d,
	'6': 0x6f,
	'7': 0x38,
	'8': 0x7f,
	'9': 0x7d,
	'A': 0x7e,
	'b': 0x67,
	'c': 0x43,
	'd': 0x73,
	'E': 0x4f,
	'F': 0x4e,
	'o': 0x63,
	'L': 0x07,
	'-': 0x40,
}

// Glyph returns the segment pattern for r. Unknown characters are blank.
func Glyph(r rune, flip bool) byte {
	if flip {
		return flippedGlyphs[r]
	}
	return normalGlyphs[r]
}
