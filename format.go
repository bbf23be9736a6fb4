package nut

import (
	"fmt"

	"github.com/woozymasta/bcn"
)

// FormatCode is the on-disk pixel format byte of a texture header.
type FormatCode uint8

// Known format codes.
const (
	FormatDXT1   FormatCode = 0
	FormatDXT3   FormatCode = 1
	FormatDXT5   FormatCode = 2
	FormatRGB565 FormatCode = 8
	FormatRGBA16 FormatCode = 12
	FormatRGBA8  FormatCode = 14
	FormatABGR8  FormatCode = 16
	FormatRGBA   FormatCode = 17
	FormatBC4    FormatCode = 21
	FormatBC5    FormatCode = 22
)

type formatInfo struct {
	name   string
	pixel  bcn.Format
	rotate bool
}

var formatTable = map[FormatCode]formatInfo{
	FormatDXT1:   {name: "DXT1", pixel: bcn.FormatDXT1},
	FormatDXT3:   {name: "DXT3", pixel: bcn.FormatDXT3},
	FormatDXT5:   {name: "DXT5", pixel: bcn.FormatDXT5},
	FormatRGB565: {name: "RGB565", pixel: bcn.FormatUnknown},
	FormatRGBA16: {name: "RGBA16", pixel: bcn.FormatUnknown},
	FormatRGBA8:  {name: "RGBA8", pixel: bcn.FormatRGBA8, rotate: true},
	FormatABGR8:  {name: "ABGR8", pixel: bcn.FormatUnknown},
	FormatRGBA:   {name: "RGBA", pixel: bcn.FormatRGBA8, rotate: true},
	FormatBC4:    {name: "BC4", pixel: bcn.FormatBC4},
	FormatBC5:    {name: "BC5", pixel: bcn.FormatBC5},
}

// Known reports whether c has an on-disk mapping.
func (c FormatCode) Known() bool {
	_, ok := formatTable[c]
	return ok
}

// PixelFormat returns the generic pixel format for c, or bcn.FormatUnknown
// for formats the BCn codec does not model.
func (c FormatCode) PixelFormat() bcn.Format {
	return formatTable[c].pixel
}

// rotated reports whether pixels of c are channel rotated on disk.
func (c FormatCode) rotated() bool {
	return formatTable[c].rotate
}

func (c FormatCode) String() string {
	if info, ok := formatTable[c]; ok {
		return info.name
	}

	return fmt.Sprintf("FormatCode(%d)", uint8(c))
}

// FormatCodeFor maps a generic pixel format to the code written on disk.
func FormatCodeFor(format bcn.Format) (FormatCode, error) {
	switch format {
	case bcn.FormatDXT1:
		return FormatDXT1, nil
	case bcn.FormatDXT3:
		return FormatDXT3, nil
	case bcn.FormatDXT5:
		return FormatDXT5, nil
	case bcn.FormatBC4:
		return FormatBC4, nil
	case bcn.FormatBC5:
		return FormatBC5, nil
	case bcn.FormatRGBA8:
		return FormatRGBA, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedPixelFormat, format)
	}
}

func detectFormat(header *bcn.DDSHeader, dx10 *bcn.DDSHeaderDX10) (bcn.Format, string) {
	if dx10 != nil {
		format := mapDxgiFormat(dx10.DXGIFormat)
		return format, fmt.Sprintf("DXGI %d", dx10.DXGIFormat)
	}

	pf := header.PixelFormat
	if (pf.Flags & bcn.DDSPFFourCC) != 0 {
		fourCCStr := intToFourCC(pf.FourCC)
		switch fourCCStr {
		case "DXT1":
			return bcn.FormatDXT1, fourCCStr
		case "DXT2", "DXT3":
			return bcn.FormatDXT3, fourCCStr
		case "DXT4", "DXT5":
			return bcn.FormatDXT5, fourCCStr
		case "ATI1", "BC4U", "BC4S":
			return bcn.FormatBC4, fourCCStr
		case "ATI2", "BC5U", "BC5S":
			return bcn.FormatBC5, fourCCStr
		default:
			return bcn.FormatUnknown, fourCCStr
		}
	}

	if (pf.Flags&bcn.DDSPFRGB) != 0 && (pf.Flags&bcn.DDSPFAlphaPixels) != 0 && pf.RGBBitCount == 32 {
		if pf.RBitMask == 0x000000ff && pf.GBitMask == 0x0000ff00 &&
			pf.BBitMask == 0x00ff0000 && pf.ABitMask == 0xff000000 {
			return bcn.FormatRGBA8, "RGBA8"
		}
		if pf.RBitMask == 0x00ff0000 && pf.GBitMask == 0x0000ff00 &&
			pf.BBitMask == 0x000000ff && pf.ABitMask == 0xff000000 {
			return bcn.FormatBGRA8, "BGRA8"
		}
	}

	return bcn.FormatUnknown, "UNKNOWN"
}

func mapDxgiFormat(dxgiFormat uint32) bcn.Format {
	switch dxgiFormat {
	case 71:
		return bcn.FormatDXT1
	case 74:
		return bcn.FormatDXT3
	case 77:
		return bcn.FormatDXT5
	case 80:
		return bcn.FormatBC4
	case 83:
		return bcn.FormatBC5
	case 87:
		return bcn.FormatBGRA8
	case 28:
		return bcn.FormatRGBA8
	default:
		return bcn.FormatUnknown
	}
}

func intToFourCC(value uint32) string {
	return string([]byte{
		byte(value & 0xff),
		byte((value >> 8) & 0xff),
		byte((value >> 16) & 0xff),
		byte((value >> 24) & 0xff),
	})
}

func makeFourCC(a, b, c, d byte) uint32 {
	return uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24
}

// expectedDataLength returns the byte size of one mip level, or -1 when the
// format has no fixed layout.
func expectedDataLength(format bcn.Format, width, height int) int {
	blocksW := (width + 3) / 4
	blocksH := (height + 3) / 4
	switch format {
	case bcn.FormatDXT1, bcn.FormatBC4:
		return blocksW * blocksH * 8
	case bcn.FormatDXT3, bcn.FormatDXT5, bcn.FormatBC5:
		return blocksW * blocksH * 16
	case bcn.FormatRGBA8, bcn.FormatBGRA8:
		return width * height * 4
	default:
		return -1
	}
}

func makeDDSHeader(width, height, mipMapCount uint32, format bcn.Format) (*bcn.DDSHeader, error) {
	flags := uint32(bcn.DDSFlagCaps | bcn.DDSFlagHeight | bcn.DDSFlagWidth | bcn.DDSFlagPixelFormat)
	caps := uint32(bcn.DDSCapsTexture)
	if mipMapCount > 1 {
		flags |= bcn.DDSFlagMipmapCount
		caps |= bcn.DDSCapsComplex | bcn.DDSCapsMipmap
	}

	hdr := &bcn.DDSHeader{
		Size:        bcn.DDSHeaderSize,
		Flags:       flags,
		Height:      height,
		Width:       width,
		Depth:       1,
		MipMapCount: mipMapCount,
		Caps:        caps,
	}
	hdr.PixelFormat.Size = bcn.DDSPixelFormatSize

	fourCC := func(a, b, c, d byte) {
		hdr.Flags |= bcn.DDSFlagLinearSize
		hdr.PixelFormat.Flags = bcn.DDSPFFourCC
		hdr.PixelFormat.FourCC = makeFourCC(a, b, c, d)
		hdr.PitchOrLinearSize = uint32(expectedDataLength(format, int(width), int(height))) //nolint:gosec // bounded by u16 dimensions
	}

	switch format {
	case bcn.FormatDXT1:
		fourCC('D', 'X', 'T', '1')
	case bcn.FormatDXT3:
		fourCC('D', 'X', 'T', '3')
	case bcn.FormatDXT5:
		fourCC('D', 'X', 'T', '5')
	case bcn.FormatBC4:
		fourCC('A', 'T', 'I', '1')
	case bcn.FormatBC5:
		fourCC('A', 'T', 'I', '2')
	case bcn.FormatRGBA8:
		hdr.Flags |= bcn.DDSFlagPitch
		hdr.PixelFormat.Flags = bcn.DDSPFRGB | bcn.DDSPFAlphaPixels
		hdr.PixelFormat.RGBBitCount = 32
		hdr.PixelFormat.RBitMask = 0x000000ff
		hdr.PixelFormat.GBitMask = 0x0000ff00
		hdr.PixelFormat.BBitMask = 0x00ff0000
		hdr.PixelFormat.ABitMask = 0xff000000
		hdr.PitchOrLinearSize = width * 4
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPixelFormat, format)
	}

	return hdr, nil
}
