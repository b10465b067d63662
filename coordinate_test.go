package cmap

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestNativeComponentBitAndShift(t *testing.T) {
	c := NewNativeComponent(uint8(0b1011_0100))
	require.Equal(t, 0, c.Bit(0))
	require.Equal(t, 0, c.Bit(1))
	require.Equal(t, 1, c.Bit(2))
	require.Equal(t, 1, c.Bit(7))

	shifted := c.ShiftRight1()
	require.Equal(t, 1, shifted.Bit(1))
	require.Equal(t, 0, shifted.Bit(7))
}

func TestUint128BitAndShiftCarry(t *testing.T) {
	// hi=1, lo=0: bit 64 set, everything else clear. Shifting right once
	// must carry hi's bottom bit into lo's top bit.
	c := NewUint128Component(1, 0)
	require.Equal(t, 1, c.Bit(64))
	require.Equal(t, 0, c.Bit(63))

	shifted := c.ShiftRight1()
	require.Equal(t, 1, shifted.Bit(63))
	require.Equal(t, 0, shifted.Bit(64))
}

func TestUint128Equal(t *testing.T) {
	a := NewUint128Component(7, 9)
	b := NewUint128Component(7, 9)
	c := NewUint128Component(7, 10)
	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
}

func TestUint256BitAndShift(t *testing.T) {
	v := new(uint256.Int).SetUint64(1)
	v.Lsh(v, 200) // bit 200 set
	c := NewUint256Component(v)

	require.Equal(t, 1, c.Bit(200))
	require.Equal(t, 0, c.Bit(199))

	shifted := c.ShiftRight1()
	require.Equal(t, 1, shifted.Bit(199))
}

func TestUint256Equal(t *testing.T) {
	a := NewUint256Component(new(uint256.Int).SetUint64(42))
	b := NewUint256Component(new(uint256.Int).SetUint64(42))
	cc := NewUint256Component(new(uint256.Int).SetUint64(43))
	require.True(t, a.Equal(b))
	require.False(t, a.Equal(cc))
}

// childIndex packs axis a's bit at level into bit (D-1-a) of the
// result, MSB-first in axis order (§4.1).
func TestChildIndexAxisOrdering(t *testing.T) {
	// dim=3, level 0: axis0 bit -> result bit 2, axis1 -> bit 1, axis2 -> bit 0.
	c := NewCoordinate(8, 3, 1, 0, 0)
	require.Equal(t, 0b100, childIndex(c, 0))

	c2 := NewCoordinate(8, 3, 0, 1, 0)
	require.Equal(t, 0b010, childIndex(c2, 0))

	c3 := NewCoordinate(8, 3, 0, 0, 1)
	require.Equal(t, 0b001, childIndex(c3, 0))

	c4 := NewCoordinate(8, 3, 1, 1, 1)
	require.Equal(t, 0b111, childIndex(c4, 0))
}

func TestCoordinateEqualAndShift(t *testing.T) {
	a := NewCoordinate(16, 2, 4, 8)
	b := NewCoordinate(16, 2, 4, 8)
	c := NewCoordinate(16, 2, 4, 9)
	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))

	shifted := a.ShiftRight1()
	expect := NewCoordinate(16, 2, 2, 4)
	require.True(t, shifted.Equal(expect))
}

func TestNewCoordinatePanicsOnMismatch(t *testing.T) {
	require.Panics(t, func() {
		NewCoordinate(16, 3, 1, 2)
	})
	require.Panics(t, func() {
		NewCoordinate(17, 2, 1, 2)
	})
}

func TestComponentBytesWidths(t *testing.T) {
	require.Len(t, NewNativeComponent(uint8(1)).Bytes(), 1)
	require.Len(t, NewNativeComponent(uint16(1)).Bytes(), 2)
	require.Len(t, NewNativeComponent(uint32(1)).Bytes(), 4)
	require.Len(t, NewNativeComponent(uint64(1)).Bytes(), 8)
	require.Len(t, NewUint128Component(0, 1).Bytes(), 16)
	require.Len(t, NewUint256Component(new(uint256.Int).SetUint64(1)).Bytes(), 32)
}
