package nut

import (
	"fmt"

	"github.com/woozymasta/nut/cursor"
)

// Variant identifies one of the on-disk container layouts.
type Variant uint8

const (
	// VariantNTP3 is the big-endian DDS layout.
	VariantNTP3 Variant = iota
	// VariantNTWD is the little-endian DDS layout.
	VariantNTWD
	// VariantNTWU is the big-endian GX2 tiled layout (decode only).
	VariantNTWU
)

const (
	magicNTP3 = "NTP3"
	magicNTWD = "NTWD"
	magicNTWU = "NTWU"
)

// Magic returns the 4-byte signature of the variant.
func (v Variant) Magic() string {
	switch v {
	case VariantNTWD:
		return magicNTWD
	case VariantNTWU:
		return magicNTWU
	default:
		return magicNTP3
	}
}

func (v Variant) String() string {
	return v.Magic()
}

// Surface holds one face of a texture as a mip chain, largest level first.
type Surface struct {
	Mipmaps [][]byte
}

// Texture is one entry of a container.
// It holds either 1 surface or 6 surfaces (cubemap), every surface with the
// same number of mipmaps.
type Texture struct {
	// HashID is the lookup key materials use to reference the texture.
	HashID uint32
	Width  int
	Height int
	Format FormatCode
	// DDS is set for textures decoded from the DDS layouts, clear for GX2.
	DDS      bool
	Surfaces []Surface
}

// MipmapCount returns the number of mip levels per surface.
func (t *Texture) MipmapCount() int {
	if len(t.Surfaces) == 0 {
		return 0
	}

	return len(t.Surfaces[0].Mipmaps)
}

// IsCubemap reports whether the texture has six faces.
func (t *Texture) IsCubemap() bool {
	return len(t.Surfaces) == cubemapFaces
}

// AllMipmaps returns every mipmap of every surface in storage order.
func (t *Texture) AllMipmaps() [][]byte {
	out := make([][]byte, 0, len(t.Surfaces)*t.MipmapCount())
	for _, s := range t.Surfaces {
		out = append(out, s.Mipmaps...)
	}

	return out
}

func (t *Texture) String() string {
	return fmt.Sprintf("%X", t.HashID)
}

// validate checks the surface and mip rules required for encoding.
func (t *Texture) validate() error {
	switch n := len(t.Surfaces); {
	case n == 1 || n == cubemapFaces:
	case n > 1 && n < cubemapFaces:
		return fmt.Errorf("%w: %w: %d for texture 0x%X", ErrUnsupportedSurfaceCount, ErrUnsupportedCubemapFaceCount, n, t.HashID)
	default:
		return fmt.Errorf("%w: %d for texture 0x%X", ErrUnsupportedSurfaceCount, n, t.HashID)
	}

	mips := t.MipmapCount()
	if mips == 0 {
		return fmt.Errorf("%w: texture 0x%X", ErrEmptyMipmaps, t.HashID)
	}
	if mips > maxUint8 {
		return fmt.Errorf("%w: %d mipmaps for texture 0x%X", ErrSizeOverflow, mips, t.HashID)
	}
	for i, s := range t.Surfaces {
		if len(s.Mipmaps) != mips {
			return fmt.Errorf("%w: surface %d has %d, surface 0 has %d for texture 0x%X",
				ErrMipmapCountMismatch, i, len(s.Mipmaps), mips, t.HashID)
		}
	}

	if t.Width < 0 || t.Width > maxUint16 || t.Height < 0 || t.Height > maxUint16 {
		return fmt.Errorf("%w: %dx%d for texture 0x%X", ErrSizeOverflow, t.Width, t.Height, t.HashID)
	}
	if !t.Format.Known() {
		return fmt.Errorf("%w: code %d for texture 0x%X", ErrUnsupportedPixelFormat, uint8(t.Format), t.HashID)
	}

	return nil
}

// File is a decoded texture container.
type File struct {
	Version    uint16
	Endianness cursor.Endianness
	// Variant records the layout the file was decoded from. Encoding picks
	// NTP3 or NTWD from Endianness.
	Variant Variant
	// Textures keeps storage order.
	Textures []Texture
}

// NewFile returns an empty container using the shared-data layout.
func NewFile(endian cursor.Endianness) *File {
	v := VariantNTP3
	if endian == cursor.Little {
		v = VariantNTWD
	}

	return &File{Version: versionSharedData, Endianness: endian, Variant: v}
}

// Lookup returns the first texture with the given hash ID.
func (f *File) Lookup(hashID uint32) (*Texture, bool) {
	for i := range f.Textures {
		if f.Textures[i].HashID == hashID {
			return &f.Textures[i], true
		}
	}

	return nil, false
}

// DuplicateIDs returns hash IDs used by more than one texture, in first
// occurrence order. Duplicates are legal in the format but make Lookup
// ambiguous.
func (f *File) DuplicateIDs() []uint32 {
	seen := make(map[uint32]int, len(f.Textures))
	var dups []uint32
	for _, t := range f.Textures {
		seen[t.HashID]++
		if seen[t.HashID] == 2 {
			dups = append(dups, t.HashID)
		}
	}

	return dups
}
