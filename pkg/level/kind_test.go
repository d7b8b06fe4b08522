package level

import "testing"

func TestKindBits(t *testing.T) {
	tests := []struct {
		kind Kind
		bits Bits
	}{
		{Sky, 0b00001},
		{SkySingleBlock, 0b00011},
		{SkyFloatingBlock, 0b00101},
		{SkyDoubleBlock, 0b00111},
		{LowRoom, 0b11001},
		{LowRoomSingleBlock, 0b11011},
		{Corridor, 0b11101},
		{Wall, 0b11111},
		{HighRoom, 0b10001},
		{HighRoomSingleBlock, 0b10011},
		{HighRoomFloatingBlock, 0b10101},
		{HighRoomDoubleBlock, 0b10111},
	}

	if len(tests) != len(Kinds()) {
		t.Fatalf("table covers %d kinds, want %d", len(tests), len(Kinds()))
	}

	for _, tc := range tests {
		t.Run(tc.kind.String(), func(t *testing.T) {
			if got := tc.kind.Bits(); got != tc.bits {
				t.Errorf("Bits() = %05b, want %05b", got, tc.bits)
			}
			k, ok := KindFromBits(tc.bits)
			if !ok || k != tc.kind {
				t.Errorf("KindFromBits(%05b) = %v, %v", tc.bits, k, ok)
			}
			if !tc.bits.Has(SkyBit) {
				t.Errorf("%v lacks the sky marker", tc.kind)
			}
			parsed, ok := ParseKind(tc.kind.String())
			if !ok || parsed != tc.kind {
				t.Errorf("ParseKind(%q) = %v, %v", tc.kind.String(), parsed, ok)
			}
		})
	}
}

func TestKindFromBitsRejectsUnknown(t *testing.T) {
	known := map[Bits]bool{}
	for _, k := range Kinds() {
		known[k.Bits()] = true
	}
	for b := Bits(0); b < 32; b++ {
		_, ok := KindFromBits(b)
		if ok != known[b] {
			t.Errorf("KindFromBits(%05b) ok = %v, want %v", b, ok, known[b])
		}
	}
}

func TestKindCycle(t *testing.T) {
	if Wall.Next().Prev() != Wall {
		t.Error("Next/Prev do not invert")
	}
	if HighRoomDoubleBlock.Next() != Sky {
		t.Error("Next does not wrap")
	}
	if Sky.Prev() != HighRoomDoubleBlock {
		t.Error("Prev does not wrap")
	}
	if Kind(99).Bits() != 0 || Kind(99).String() != "unknown" {
		t.Error("invalid kind not reported")
	}
}
