package cmap

import (
	"encoding/binary"

	"github.com/holiman/uint256"
)

// Component is one axis of a Coordinate: an unsigned integer of width W.
// It is boxed behind an interface, rather than a Go generics type
// parameter, because W=128 and W=256 need wrapper types regardless
// (native Go has no 128/256-bit integer), and a uniform representation
// keeps D a genuine runtime parameter across every supported width, per
// §9's note on languages without value-generic integers.
type Component interface {
	// Bit returns bit pos of the component, 0 or 1. pos must be in
	// [0, width-1] for the component's width.
	Bit(pos int) int

	// ShiftRight1 returns a new Component equal to this one shifted
	// right by one bit, zero-filled at the top (logical shift, per §6).
	ShiftRight1() Component

	// Equal reports whether this component has the same value as other.
	// other is assumed to be of the same concrete width.
	Equal(other Component) bool

	// Bytes returns the component's value as big-endian bytes, sized to
	// its width. Used by the optional digest package (C11); the core
	// never needs a byte form of a coordinate.
	Bytes() []byte
}

// Coordinate is an ordered tuple of D Components. Equality is
// component-wise (§3).
type Coordinate []Component

// Equal reports whether two coordinates of the same dimension are
// component-wise equal.
func (c Coordinate) Equal(other Coordinate) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		if !c[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

// ShiftRight1 returns the coordinate with every axis shifted right by
// one bit, the per-entry transform §4.3's resize performs before dedup.
func (c Coordinate) ShiftRight1() Coordinate {
	out := make(Coordinate, len(c))
	for i, comp := range c {
		out[i] = comp.ShiftRight1()
	}
	return out
}

// childIndex computes the D-bit child selector for a node at level,
// packing axis a's bit at level into bit position (D-1-a) of the result,
// MSB-first in axis order, exactly as §4.1 specifies. This ordering is
// on-wire behavior and must not be reordered.
func childIndex(c Coordinate, level int) int {
	idx := 0
	d := len(c)
	for a := 0; a < d; a++ {
		idx |= c[a].Bit(level) << uint(d-1-a)
	}
	return idx
}

// NewCoordinate builds a Coordinate of dim axes, each width bits wide,
// from native uint64 values (one per axis, truncated to width bits).
// It is the ergonomic constructor for callers who don't need a 128 or
// 256-bit axis value wider than 64 bits; see NewUint128Component and
// NewUint256Component for those. It panics on an unsupported width or a
// parts/dim length mismatch.
func NewCoordinate(width, dim int, parts ...uint64) Coordinate {
	if len(parts) != dim {
		panic("cmap: NewCoordinate: len(parts) must equal dim")
	}
	c := make(Coordinate, dim)
	for i, p := range parts {
		switch width {
		case 8:
			c[i] = NewNativeComponent(uint8(p))
		case 16:
			c[i] = NewNativeComponent(uint16(p))
		case 32:
			c[i] = NewNativeComponent(uint32(p))
		case 64:
			c[i] = NewNativeComponent(p)
		case 128:
			c[i] = NewUint128Component(0, p)
		case 256:
			c[i] = NewUint256Component(new(uint256.Int).SetUint64(p))
		default:
			panic(ErrInvalidWidth)
		}
	}
	return c
}

// nativeUint implements Component for the native machine widths.
type nativeUint[T uint8 | uint16 | uint32 | uint64] struct {
	v T
}

// NewNativeComponent wraps a native unsigned integer as a Component of
// width 8, 16, 32 or 64, selected by T.
func NewNativeComponent[T uint8 | uint16 | uint32 | uint64](v T) Component {
	return nativeUint[T]{v: v}
}

func (n nativeUint[T]) Bit(pos int) int {
	return int((n.v >> uint(pos)) & 1)
}

func (n nativeUint[T]) ShiftRight1() Component {
	return nativeUint[T]{v: n.v >> 1}
}

func (n nativeUint[T]) Equal(other Component) bool {
	o, ok := other.(nativeUint[T])
	return ok && o.v == n.v
}

// Uint returns the native value underlying a width-8/16/32/64 component.
// Reaching it from a Component takes a type assertion to the matching
// nativeUint instantiation, which panics on a component of another width.
func (n nativeUint[T]) Uint() T {
	return n.v
}

func (n nativeUint[T]) Bytes() []byte {
	var buf [8]byte
	switch v := any(n.v).(type) {
	case uint8:
		return []byte{v}
	case uint16:
		binary.BigEndian.PutUint16(buf[:2], v)
		return append([]byte(nil), buf[:2]...)
	case uint32:
		binary.BigEndian.PutUint32(buf[:4], v)
		return append([]byte(nil), buf[:4]...)
	case uint64:
		binary.BigEndian.PutUint64(buf[:8], v)
		return append([]byte(nil), buf[:8]...)
	default:
		return nil
	}
}

// uint128 is a hand-rolled 128-bit unsigned integer, in the same spirit
// as the teacher's own bignum_hbls.go shim for scalars wider than a
// machine word: two uint64 halves, high first.
type uint128 struct {
	hi, lo uint64
}

// NewUint128Component builds a width-128 Component from big-endian halves.
func NewUint128Component(hi, lo uint64) Component {
	return uint128{hi: hi, lo: lo}
}

func (u uint128) Bit(pos int) int {
	if pos < 64 {
		return int((u.lo >> uint(pos)) & 1)
	}
	return int((u.hi >> uint(pos-64)) & 1)
}

func (u uint128) ShiftRight1() Component {
	lo := (u.lo >> 1) | ((u.hi & 1) << 63)
	hi := u.hi >> 1
	return uint128{hi: hi, lo: lo}
}

func (u uint128) Equal(other Component) bool {
	o, ok := other.(uint128)
	return ok && o.hi == u.hi && o.lo == u.lo
}

func (u uint128) Bytes() []byte {
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[:8], u.hi)
	binary.BigEndian.PutUint64(buf[8:], u.lo)
	return buf[:]
}

// uint256Component wraps holiman/uint256.Int, the module's W=256
// component type.
type uint256Component struct {
	v *uint256.Int
}

// NewUint256Component builds a width-256 Component from a *uint256.Int.
// The value is copied; the caller retains ownership of v.
func NewUint256Component(v *uint256.Int) Component {
	cp := new(uint256.Int).Set(v)
	return uint256Component{v: cp}
}

func (u uint256Component) Bit(pos int) int {
	shifted := new(uint256.Int).Rsh(u.v, uint(pos))
	return int(shifted.Uint64() & 1)
}

func (u uint256Component) ShiftRight1() Component {
	out := new(uint256.Int).Rsh(u.v, 1)
	return uint256Component{v: out}
}

func (u uint256Component) Equal(other Component) bool {
	o, ok := other.(uint256Component)
	return ok && o.v.Eq(u.v)
}

func (u uint256Component) Bytes() []byte {
	b := u.v.Bytes32()
	return b[:]
}
