package cmap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// sumMerge folds incoming into acc by addition, the running example used
// throughout §8's concrete scenarios.
func sumMerge(acc, incoming *int) {
	*acc += *incoming
}

func coord3(x, y, z uint64) Coordinate {
	return NewCoordinate(32, 3, x, y, z)
}

func newSumMap() *Map[int] {
	return New(Config{Width: 32, Dim: 3}, sumMerge)
}

// S1: two distinct coordinates, no collision.
func TestScenarioS1(t *testing.T) {
	m := newSumMap()
	m.Insert(coord3(0, 0, 0), 1)
	m.Insert(coord3(1, 0, 0), 2)

	require.Equal(t, 2, m.Size())
	it := m.Find(coord3(0, 0, 0))
	require.False(t, it.Done())
	require.Equal(t, 1, *it.Value())
}

// S2: 9 inserts into a D=3 tree (bucket capacity 8) force exactly one
// split; size and iteration count both land on 9.
func TestScenarioS2(t *testing.T) {
	m := newSumMap()
	for i := uint64(0); i < 8; i++ {
		m.Insert(coord3(i, 0, 0), 1)
	}
	m.Insert(coord3(8, 0, 0), 1)

	require.Equal(t, 9, m.Size())

	seen := map[[3]uint64]bool{}
	count := 0
	for it := m.Begin(); !it.Done(); it.Next() {
		count++
		c := it.Coord()
		key := [3]uint64{}
		for i, comp := range c {
			key[i] = uint64(comp.(nativeUint[uint32]).Uint())
		}
		require.False(t, seen[key], "duplicate coordinate in iteration")
		seen[key] = true
	}
	require.Equal(t, 9, count)
}

// S3: inserting the same coordinate twice merges via sumMerge.
func TestScenarioS3(t *testing.T) {
	m := newSumMap()
	m.Insert(coord3(0, 0, 0), 1)
	m.Insert(coord3(0, 0, 0), 1)

	require.Equal(t, 1, m.Size())
	it := m.Find(coord3(0, 0, 0))
	require.Equal(t, 2, *it.Value())
}

// S4: resizing the 9-entry tree from S2 collapses (0,0,0)'s 8 siblings
// into one fused entry of value 8, leaving (4,0,0) at value 1.
func TestScenarioS4(t *testing.T) {
	m := newSumMap()
	for i := uint64(0); i < 8; i++ {
		m.Insert(coord3(i, 0, 0), 1)
	}
	m.Insert(coord3(8, 0, 0), 1)

	m.Resize()

	require.Equal(t, 2, m.Size())
	require.Equal(t, 1, m.NumResizes())

	it := m.Find(coord3(0, 0, 0))
	require.False(t, it.Done())
	require.Equal(t, 8, *it.Value())

	it2 := m.Find(coord3(4, 0, 0))
	require.False(t, it2.Done())
	require.Equal(t, 1, *it2.Value())
}

// S5: insert 100 random entries in D=2/W=16, erase them all one at a
// time via Erase(Begin()), checking P2 after every step.
func TestScenarioS5(t *testing.T) {
	m := New(Config{Width: 16, Dim: 2}, sumMerge)

	rng := uint64(88172645463325252) // xorshift64 seed
	next := func() uint64 {
		rng ^= rng << 13
		rng ^= rng >> 7
		rng ^= rng << 17
		return rng
	}

	seen := map[[2]uint16]bool{}
	n := 0
	for n < 100 {
		x := uint16(next())
		y := uint16(next())
		key := [2]uint16{x, y}
		if seen[key] {
			continue
		}
		seen[key] = true
		m.Insert(NewCoordinate(16, 2, uint64(x), uint64(y)), 1)
		n++
	}
	require.Equal(t, 100, m.Size())

	for !m.Empty() {
		before := m.Size()
		got := m.Erase(m.Begin().Coord())
		require.Equal(t, 1, got)
		require.Equal(t, before-1, m.Size())
		require.Equal(t, m.Size(), subtreeSize(m.root), "P2: size must equal computed subtree size")
	}
	require.True(t, m.Empty())
}

// S6: range-erase removes exactly the requested count and preserves P2.
func TestScenarioS6(t *testing.T) {
	m := New(Config{Width: 16, Dim: 2}, sumMerge)
	total := 200
	for i := 0; i < total; i++ {
		m.Insert(NewCoordinate(16, 2, uint64(i), uint64(i*7+3)), 1)
	}
	require.Equal(t, total, m.Size())

	first := m.Begin()
	for i := 0; i < 4; i++ {
		first.Next()
	}
	last := first
	for i := 0; i < 120; i++ {
		last.Next()
	}

	removed := m.EraseRange(first, last)
	require.Equal(t, 120, removed)
	require.Equal(t, total-120, m.Size())
	require.Equal(t, m.Size(), subtreeSize(m.root))
}

// P1/P3: size tracks distinct coordinates, forward and reverse
// iteration both yield exactly Size() items.
func TestIterationCounts(t *testing.T) {
	m := newSumMap()
	coords := []Coordinate{
		coord3(1, 2, 3), coord3(4, 5, 6), coord3(7, 8, 9), coord3(1, 2, 3),
	}
	for _, c := range coords {
		m.Insert(c, 1)
	}
	require.Equal(t, 3, m.Size())

	fwd := 0
	for it := m.Begin(); !it.Done(); it.Next() {
		fwd++
	}
	require.Equal(t, 3, fwd)

	rev := 0
	for it := m.RBegin(); !it.Done(); it.Next() {
		rev++
	}
	require.Equal(t, 3, rev)
}

// P4: insert(c, v1); insert(c, v2) stores merge(v1, v2).
func TestMergeOnCollision(t *testing.T) {
	m := newSumMap()
	m.Insert(coord3(9, 9, 9), 3)
	m.Insert(coord3(9, 9, 9), 4)
	it := m.Find(coord3(9, 9, 9))
	require.Equal(t, 7, *it.Value())
}

// P6: resize's size delta equals the number of merges it performed,
// measured with an instrumented payload that counts merge calls, summed
// over every entry that survives the resize.
type countingPayload struct {
	val    int
	merges int
}

func TestResizeMergeCountMatchesSizeDelta(t *testing.T) {
	merge := func(acc, incoming *countingPayload) {
		acc.val += incoming.val
		acc.merges += incoming.merges + 1
	}
	m := New(Config{Width: 32, Dim: 3}, merge)
	for i := uint64(0); i < 8; i++ {
		m.Insert(coord3(i, 0, 0), countingPayload{val: 1})
	}
	m.Insert(coord3(8, 0, 0), countingPayload{val: 1})

	before := m.Size()
	m.Resize()
	after := m.Size()

	it := m.Find(coord3(0, 0, 0))
	require.False(t, it.Done())
	merges := 0
	for cur := m.Begin(); !cur.Done(); cur.Next() {
		merges += cur.Value().merges
	}
	require.Equal(t, before-after, merges)
}

// P8: erase then contains is false; size decreases by exactly 1 iff
// present.
func TestEraseThenContains(t *testing.T) {
	m := newSumMap()
	m.Insert(coord3(1, 1, 1), 1)
	require.Equal(t, 1, m.Erase(coord3(1, 1, 1)))
	require.False(t, m.Contains(coord3(1, 1, 1)))
	require.Equal(t, 0, m.Size())
	require.Equal(t, 0, m.Erase(coord3(1, 1, 1)))
}

// P9: prune is idempotent.
func TestPruneIdempotent(t *testing.T) {
	m := newSumMap()
	for i := uint64(0); i < 8; i++ {
		m.Insert(coord3(i, 0, 0), 1)
	}
	m.Insert(coord3(8, 0, 0), 1)
	m.Erase(coord3(8, 0, 0))

	var before []Coordinate
	for it := m.Begin(); !it.Done(); it.Next() {
		before = append(before, it.Coord())
	}

	m.Prune()
	m.Prune()

	var after []Coordinate
	for it := m.Begin(); !it.Done(); it.Next() {
		after = append(after, it.Coord())
	}
	require.Equal(t, len(before), len(after))
	require.Equal(t, m.Size(), len(after))
}

// P10: clear resets size, resize counter and emptiness.
func TestClear(t *testing.T) {
	m := newSumMap()
	m.Insert(coord3(1, 2, 3), 1)
	m.Resize()
	m.Clear()

	require.Equal(t, 0, m.Size())
	require.Equal(t, 0, m.NumResizes())
	require.True(t, m.Empty())
}

// Get (operator[]) creates a zero-value entry on miss and returns a
// mutable reference to it.
func TestGetCreatesOnMiss(t *testing.T) {
	m := newSumMap()
	v := m.Get(coord3(5, 5, 5))
	require.Equal(t, 0, *v)
	*v = 42
	it := m.Find(coord3(5, 5, 5))
	require.Equal(t, 42, *it.Value())
}

func TestInvalidConfigPanics(t *testing.T) {
	require.Panics(t, func() {
		New(Config{Width: 33, Dim: 2}, sumMerge)
	})
	require.Panics(t, func() {
		New(Config{Width: 32, Dim: 9}, sumMerge)
	})
}
