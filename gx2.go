package nut

import "fmt"

// gx2Surface is the tiled surface descriptor stored in NTWU textures.
type gx2Surface struct {
	Dim       uint32
	Width     uint32
	Height    uint32
	Depth     uint32
	NumMips   uint32
	Format    uint32
	AA        uint32
	Use       uint32
	ImageSize uint32
	ImagePtr  uint32
	MipSize   uint32
	MipPtr    uint32
	TileMode  uint32
	Swizzle   uint32
	Alignment uint32
	Pitch     uint32
}

func readGX2Surface(r *fieldReader) gx2Surface {
	return gx2Surface{
		Dim:       r.u32(),
		Width:     r.u32(),
		Height:    r.u32(),
		Depth:     r.u32(),
		NumMips:   r.u32(),
		Format:    r.u32(),
		AA:        r.u32(),
		Use:       r.u32(),
		ImageSize: r.u32(),
		ImagePtr:  r.u32(),
		MipSize:   r.u32(),
		MipPtr:    r.u32(),
		TileMode:  r.u32(),
		Swizzle:   r.u32(),
		Alignment: r.u32(),
		Pitch:     r.u32(),
	}
}

// gx2BitsPerPixel returns bits per pixel, or per 4x4 block for BCn, of a
// GX2 surface format. Unknown formats return 0.
func gx2BitsPerPixel(format uint32) int {
	switch format & 0x3f {
	case 0x01, 0x02: // R8, R4G4
		return 8
	case 0x05, 0x07, 0x08, 0x0a, 0x0b: // R16, R8G8, R5G6B5, R5G5B5A1, R4G4B4A4
		return 16
	case 0x19, 0x1a, 0x1b: // R10G10B10A2, R8G8B8A8, A2B10G10R10
		return 32
	case 0x1f: // R16G16B16A16
		return 64
	case 0x31, 0x34: // BC1, BC4
		return 64
	case 0x32, 0x33, 0x35: // BC2, BC3, BC5
		return 128
	default:
		return 0
	}
}

// readGX2Texture decodes one NTWU texture and returns the next header pointer.
//
// Mip level 0 starts at the data offset. Level 1 is relative to the data
// offset and every later level is relative to level 1. Each level stores
// all faces back to back.
func (d *decoder) readGX2Texture(headerPtr int) (Texture, int, error) {
	r := &fieldReader{c: d.c}
	r.seek(headerPtr)

	h, err := d.readTexHeader(r)
	if err != nil {
		return Texture{}, 0, err
	}
	cubemap := h.surfaces == cubemapFaces

	dataOffset := headerPtr + int(r.u32())
	r.u32() // mip data offset, implied by the mip offset table
	gx2Offset := headerPtr + int(r.u32())
	r.u32()

	cubemapSize := 0
	if cubemap {
		cubemapSize = int(r.u32())
		r.u32()
		r.skip(8)
	}

	// imageSize covers level 0 of every face, mipSize every other level
	imageSize, mipSize := 0, 0
	if h.mipCount == 1 {
		if cubemap {
			imageSize = cubemapSize
		} else {
			imageSize = h.dataSize
		}
	} else {
		imageSize = int(r.u32())
		mipSize = int(r.u32())
		r.skip((h.mipCount - 2) * 4)
		r.align(dataAlignment)
	}

	hashID := readGIDX(r)

	r.seek(gx2Offset)
	surf := readGX2Surface(r)

	mipOffsets := make([]int, h.mipCount)
	for level := 1; level < h.mipCount; level++ {
		mipOffsets[level] = mipOffsets[1] + int(r.u32())
	}
	if r.err != nil {
		return Texture{}, 0, fmt.Errorf("%w: %w", ErrReadHeader, r.err)
	}

	d.log.Debug("nut gx2 surface",
		"format", surf.Format, "tileMode", surf.TileMode, "swizzle", surf.Swizzle,
		"pitch", surf.Pitch, "width", surf.Width, "imageSize", imageSize, "mipSize", mipSize)

	tex := Texture{
		HashID:   hashID,
		Width:    h.width,
		Height:   h.height,
		Format:   h.format,
		Surfaces: make([]Surface, h.surfaces),
	}
	for s := range tex.Surfaces {
		tex.Surfaces[s].Mipmaps = make([][]byte, 0, h.mipCount)
	}

	minSize := gx2BitsPerPixel(surf.Format) / 8
	w, hgt := h.width, h.height
	for level := 0; level < h.mipCount; level++ {
		pitch := int(surf.Pitch)
		if w > 0 {
			if div := int(surf.Width) / w; div > 0 {
				pitch /= div
			}
		}

		var size int
		switch {
		case h.mipCount == 1:
			size = imageSize
		case level+1 == h.mipCount:
			size = mipSize + mipOffsets[1] - mipOffsets[level]
		default:
			size = mipOffsets[level+1] - mipOffsets[level]
		}
		size /= h.surfaces
		if size < 0 {
			return Texture{}, 0, fmt.Errorf("%w: level %d size %d", ErrInvalidMipLayout, level, size)
		}

		trim := size
		if trim < minSize {
			trim = minSize
		}

		for s := 0; s < h.surfaces; s++ {
			tiled, err := d.c.Section(dataOffset+mipOffsets[level]+size*s, size)
			if err != nil {
				return Texture{}, 0, fmt.Errorf("%w: surface %d level %d: %w", ErrReadMipmap, s, level, err)
			}

			linear, err := d.opts.Deswizzle(tiled, w, hgt, surf.Format, surf.TileMode, pitch, surf.Swizzle)
			if err != nil {
				return Texture{}, 0, fmt.Errorf("%w: surface %d level %d: %w", ErrDeswizzle, s, level, err)
			}
			if len(linear) < trim {
				return Texture{}, 0, fmt.Errorf("%w: surface %d level %d: got %d bytes, need %d",
					ErrDeswizzle, s, level, len(linear), trim)
			}

			mip := make([]byte, trim)
			copy(mip, linear)
			tex.Surfaces[s].Mipmaps = append(tex.Surfaces[s].Mipmaps, mip)
		}

		w = mipDimension(w, 1)
		hgt = mipDimension(hgt, 1)
	}

	return tex, headerPtr + h.headerSize, nil
}
