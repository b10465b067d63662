// Package digest computes an optional content fingerprint for a
// cmap.Map's live coordinate set, using the same IPA commitment scheme
// the teacher trie commits its own nodes with (config_ipa.go's
// IPAConfig/Commit pattern, crypto/crypto.go's Fr/Point aliases). It is
// a supplementary operation: nothing in §4 or §8 of the specification
// requires it, and no invariant depends on it.
package digest

import (
	"github.com/crate-crypto/go-ipa/bandersnatch/fr"
	"github.com/crate-crypto/go-ipa/banderwagon"
	"github.com/crate-crypto/go-ipa/ipa"

	"github.com/coordtree/cmap"
)

// Iterable is the subset of cmap.Map's forward-iteration surface Digest
// needs. Kept narrow so digest never has to import the full container
// API surface.
type Iterable[T any] interface {
	Begin() cmap.Iterator[T]
}

// config is built lazily and cached per process, mirroring
// config_ipa.go's GetConfig() singleton — the IPA setup is expensive and
// has no per-Map state, so every Digest call shares one.
var config *ipa.IPAConfig

func getConfig() (*ipa.IPAConfig, error) {
	if config != nil {
		return config, nil
	}
	cfg, err := ipa.NewIPASettings()
	if err != nil {
		return nil, err
	}
	config = cfg
	return config, nil
}

// Digest walks m in forward iteration order, folds each coordinate's
// canonical big-endian bytes into bandersnatch/fr.Element scalars,
// commits them in config-width batches via the IPA config (mirroring
// IPAConfig.CommitToPoly), and serializes the resulting commitment
// points into one fingerprint. Two maps with the same live coordinate
// set, walked in the same order, produce the same digest; it says
// nothing about payload contents, which the container treats as opaque.
func Digest[T any](m Iterable[T]) ([]byte, error) {
	cfg, err := getConfig()
	if err != nil {
		return nil, err
	}

	const batchWidth = 256

	var out []byte
	batch := make([]fr.Element, 0, batchWidth)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		poly := make([]fr.Element, batchWidth)
		copy(poly, batch)
		commitment := cfg.Commit(poly)
		points := []*banderwagon.Element{&commitment}
		encoded := banderwagon.ElementsToBytesUncompressed(points)
		out = append(out, encoded[0][:]...)
		batch = batch[:0]
	}

	it := m.Begin()
	for !it.Done() {
		coord := it.Coord()
		for _, comp := range coord {
			var elem fr.Element
			elem.SetBytesLE(leftPad32(comp.Bytes()))
			batch = append(batch, elem)
			if len(batch) == batchWidth {
				flush()
			}
		}
		it.Next()
	}
	flush()

	return out, nil
}

// leftPad32 pads (or truncates, for the 256-bit component case which is
// already exactly 32 bytes) b to 32 bytes, matching
// crypto.FromLEBytes's alignment handling.
func leftPad32(b []byte) []byte {
	if len(b) >= 32 {
		return b[len(b)-32:]
	}
	out := make([]byte, 32)
	copy(out[32-len(b):], b)
	return out
}
