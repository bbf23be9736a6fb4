package nut

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Digest returns a 64-bit xxHash of the texture's format, dimensions and
// every mip level of every surface. The hash ID is not included, so the
// same image stored under two IDs has the same digest.
func (t *Texture) Digest() uint64 {
	d := xxhash.New()

	var hdr [16]byte
	binary.LittleEndian.PutUint32(hdr[0:], uint32(t.Width))  //nolint:gosec // hash input only
	binary.LittleEndian.PutUint32(hdr[4:], uint32(t.Height)) //nolint:gosec // hash input only
	hdr[8] = uint8(t.Format)
	hdr[9] = uint8(len(t.Surfaces))  //nolint:gosec // hash input only
	hdr[10] = uint8(t.MipmapCount()) //nolint:gosec // hash input only
	_, _ = d.Write(hdr[:])

	var size [4]byte
	for _, mip := range t.AllMipmaps() {
		binary.LittleEndian.PutUint32(size[:], uint32(len(mip))) //nolint:gosec // hash input only
		_, _ = d.Write(size[:])
		_, _ = d.Write(mip)
	}

	return d.Sum64()
}

// IdenticalTextures groups hash IDs of textures with equal digests. Only
// groups with more than one member are returned, in first occurrence order.
func (f *File) IdenticalTextures() [][]uint32 {
	index := make(map[uint64]int, len(f.Textures))
	var groups [][]uint32
	for i := range f.Textures {
		sum := f.Textures[i].Digest()
		g, ok := index[sum]
		if !ok {
			index[sum] = len(groups)
			groups = append(groups, []uint32{f.Textures[i].HashID})
			continue
		}
		groups[g] = append(groups[g], f.Textures[i].HashID)
	}

	out := groups[:0]
	for _, g := range groups {
		if len(g) > 1 {
			out = append(out, g)
		}
	}

	return out
}
