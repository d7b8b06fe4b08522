// Package level holds the map grid: one packed band bitfield per cell plus the
// texture indices of every surface the cell can show.
package level

// Bits is the packed band field of a cell. A set band bit means that band is
// solid.
type Bits uint8

// Band bits. SkyBit marks the cell as part of the map proper and is set on
// every valid kind.
const (
	CeilingBit Bits = 0b10000
	HighBit    Bits = 0b01000
	LowBit     Bits = 0b00100
	WallBit    Bits = 0b00010
	SkyBit     Bits = 0b00001
)

// Has reports whether every bit of mask is set.
func (b Bits) Has(mask Bits) bool {
	return b&mask == mask
}

// Kind names one of the valid band combinations.
type Kind int

const (
	Sky Kind = iota
	SkySingleBlock
	SkyFloatingBlock
	SkyDoubleBlock
	LowRoom
	LowRoomSingleBlock
	Corridor
	Wall
	HighRoom
	HighRoomSingleBlock
	HighRoomFloatingBlock
	HighRoomDoubleBlock

	kindCount
)

var kindBits = [kindCount]Bits{
	Sky:                   0b00001,
	SkySingleBlock:        0b00011,
	SkyFloatingBlock:      0b00101,
	SkyDoubleBlock:        0b00111,
	LowRoom:               0b11001,
	LowRoomSingleBlock:    0b11011,
	Corridor:              0b11101,
	Wall:                  0b11111,
	HighRoom:              0b10001,
	HighRoomSingleBlock:   0b10011,
	HighRoomFloatingBlock: 0b10101,
	HighRoomDoubleBlock:   0b10111,
}

var kindNames = [kindCount]string{
	Sky:                   "sky",
	SkySingleBlock:        "sky-single-block",
	SkyFloatingBlock:      "sky-floating-block",
	SkyDoubleBlock:        "sky-double-block",
	LowRoom:               "low-room",
	LowRoomSingleBlock:    "low-room-single-block",
	Corridor:              "corridor",
	Wall:                  "wall",
	HighRoom:              "high-room",
	HighRoomSingleBlock:   "high-room-single-block",
	HighRoomFloatingBlock: "high-room-floating-block",
	HighRoomDoubleBlock:   "high-room-double-block",
}

// Kinds returns every kind in declaration order.
func Kinds() []Kind {
	ks := make([]Kind, kindCount)
	for i := range ks {
		ks[i] = Kind(i)
	}
	return ks
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k >= 0 && k < kindCount
}

// Bits returns the packed band field for k. Invalid kinds map to zero.
func (k Kind) Bits() Bits {
	if !k.Valid() {
		return 0
	}
	return kindBits[k]
}

func (k Kind) String() string {
	if !k.Valid() {
		return "unknown"
	}
	return kindNames[k]
}

// Next returns the kind after k, wrapping around.
func (k Kind) Next() Kind {
	return (k + 1) % kindCount
}

// Prev returns the kind before k, wrapping around.
func (k Kind) Prev() Kind {
	return (k + kindCount - 1) % kindCount
}

// KindFromBits maps a band field back to its kind. ok is false for patterns
// that are not one of the declared kinds.
func KindFromBits(b Bits) (Kind, bool) {
	for k, kb := range kindBits {
		if kb == b {
			return Kind(k), true
		}
	}
	return 0, false
}

// ParseKind looks a kind up by its String form.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), true
		}
	}
	return 0, false
}
