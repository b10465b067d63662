package cmap

// entry is a (coordinate, payload) pair, the unit of storage inside a
// leaf's bucket (§3).
type entry[T any] struct {
	coord Coordinate
	value T
}
