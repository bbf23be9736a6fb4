package nut

import (
	"fmt"
	"log/slog"

	"github.com/woozymasta/nut/cursor"
)

// DeswizzleFunc converts one tiled GX2 surface slice into linear bytes.
// pitch is already scaled to the mip level being converted.
type DeswizzleFunc func(data []byte, width, height int, format, tileMode uint32, pitch int, swizzle uint32) ([]byte, error)

// DecodeOptions configures decoding.
type DecodeOptions struct {
	// Deswizzle is required for NTWU files and unused otherwise.
	Deswizzle DeswizzleFunc
	// Logger receives debug traces of header fields. Nil discards them.
	Logger *slog.Logger
}

// ReadFile reads and decodes a container file. Wrapped payloads (zlib,
// LZ4, zstd, Yaz0) are unpacked first.
// Nil opts uses defaults.
func ReadFile(path string, opts *DecodeOptions) (*File, error) {
	c, err := cursor.Open(path, cursor.Big)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenFile, err)
	}

	return decodeCursor(c, opts)
}

// Decode decodes a container from memory. Wrapped payloads are unpacked
// first. Nil opts uses defaults.
func Decode(data []byte, opts *DecodeOptions) (*File, error) {
	data, err := cursor.Load(data)
	if err != nil {
		return nil, err
	}

	return decodeCursor(cursor.New(data, cursor.Big), opts)
}

type decoder struct {
	c       *cursor.Cursor
	file    *File
	opts    DecodeOptions
	log     *slog.Logger
	version uint16
}

func decodeCursor(c *cursor.Cursor, opts *DecodeOptions) (*File, error) {
	d := &decoder{c: c, file: &File{}}
	if opts != nil {
		d.opts = *opts
	}
	d.log = d.opts.Logger
	if d.log == nil {
		d.log = slog.New(slog.DiscardHandler)
	}

	// magic and version are big endian in every variant
	c.SetEndianness(cursor.Big)
	magic, err := c.ReadFixedString(4)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadHeader, err)
	}
	version, err := c.ReadU16()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadHeader, err)
	}

	f := d.file
	f.Version = version
	d.version = version

	switch magic {
	case magicNTP3:
		f.Variant, f.Endianness = VariantNTP3, cursor.Big
	case magicNTWD:
		f.Variant, f.Endianness = VariantNTWD, cursor.Little
	case magicNTWU:
		f.Variant, f.Endianness = VariantNTWU, cursor.Big
		if d.opts.Deswizzle == nil {
			return nil, ErrNoDeswizzler
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMagic, magic)
	}
	c.SetEndianness(f.Endianness)

	count, err := c.ReadU16()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadHeader, err)
	}
	d.log.Debug("nut header", "variant", f.Variant, "version", version, "count", count)

	f.Textures = make([]Texture, 0, count)
	headerPtr := firstHeaderOffset
	for i := 0; i < int(count); i++ {
		var (
			tex  Texture
			next int
		)
		if f.Variant == VariantNTWU {
			tex, next, err = d.readGX2Texture(headerPtr)
		} else {
			tex, next, err = d.readDDSTexture(headerPtr)
		}
		if err != nil {
			return nil, fmt.Errorf("texture %d at 0x%x: %w", i, headerPtr, err)
		}
		f.Textures = append(f.Textures, tex)
		headerPtr = next
	}

	return f, nil
}

// texHeader holds the fields shared by every variant's texture header.
type texHeader struct {
	totalSize  int
	dataSize   int
	headerSize int
	mipCount   int
	format     FormatCode
	width      int
	height     int
	caps2      uint32
	surfaces   int
}

// readTexHeader reads the fixed fields up to and including caps2.
func (d *decoder) readTexHeader(r *fieldReader) (texHeader, error) {
	var h texHeader
	h.totalSize = int(r.u32())
	r.skip(4)
	h.dataSize = int(r.u32())
	h.headerSize = int(r.u16())
	r.skip(2)

	// single bytes, so their offsets do not depend on endianness
	r.skip(1)
	h.mipCount = int(r.u8())
	r.skip(1)
	h.format = FormatCode(r.u8())
	h.width = int(r.u16())
	h.height = int(r.u16())
	r.skip(4)
	h.caps2 = r.u32()
	if r.err != nil {
		return h, fmt.Errorf("%w: %w", ErrReadHeader, r.err)
	}

	if !h.format.Known() {
		return h, fmt.Errorf("%w: code %d", ErrUnsupportedPixelFormat, uint8(h.format))
	}
	if h.mipCount == 0 {
		return h, ErrEmptyMipmaps
	}
	surfaces, err := surfaceCountFromCaps(h.caps2)
	if err != nil {
		return h, fmt.Errorf("%w: %w: caps2 0x%x", ErrUnsupportedSurfaceCount, err, h.caps2)
	}
	h.surfaces = surfaces

	d.log.Debug("nut texture",
		"format", h.format, "width", h.width, "height", h.height,
		"mipmaps", h.mipCount, "surfaces", h.surfaces, "headerSize", h.headerSize)

	return h, nil
}

// readGIDX reads the eXt and GIDX blocks and returns the hash ID.
func readGIDX(r *fieldReader) uint32 {
	r.skip(extBlockSize)
	r.skip(4)
	r.u32()
	id := r.u32()
	r.skip(4)

	return id
}

// readDDSTexture decodes one NTP3/NTWD texture and returns the next header
// pointer.
func (d *decoder) readDDSTexture(headerPtr int) (Texture, int, error) {
	r := &fieldReader{c: d.c}
	r.seek(headerPtr)

	h, err := d.readTexHeader(r)
	if err != nil {
		return Texture{}, 0, err
	}
	cubemap := h.surfaces == cubemapFaces

	var dataOffset int
	offsetField := int(r.u32())
	if d.version < versionSharedData {
		dataOffset = headerPtr + h.headerSize
	} else {
		dataOffset = headerPtr + offsetField
	}
	r.skip(12)

	// repeated size of one face, level 0
	cubemapSize := 0
	if cubemap {
		cubemapSize = int(r.u32())
		r.u32()
		r.skip(8)
	}

	mipSizes := make([]int, h.mipCount)
	padSlices := false
	if h.mipCount == 1 {
		if cubemap {
			mipSizes[0] = cubemapSize
			padSlices = true
		} else {
			mipSizes[0] = h.dataSize
		}
	} else {
		for i := range mipSizes {
			mipSizes[i] = int(r.u32())
		}
		r.align(dataAlignment)
	}

	hashID := readGIDX(r)
	if r.err != nil {
		return Texture{}, 0, fmt.Errorf("%w: %w", ErrReadHeader, r.err)
	}

	tex := Texture{
		HashID:   hashID,
		Width:    h.width,
		Height:   h.height,
		Format:   h.format,
		DDS:      true,
		Surfaces: make([]Surface, h.surfaces),
	}
	for s := range tex.Surfaces {
		tex.Surfaces[s].Mipmaps = make([][]byte, h.mipCount)
		for level, size := range mipSizes {
			mip, err := d.c.Section(dataOffset, size)
			if err != nil {
				return Texture{}, 0, fmt.Errorf("%w: surface %d level %d: %w", ErrReadMipmap, s, level, err)
			}
			mip = unpadMip(mip, h.format, mipDimension(h.width, level), mipDimension(h.height, level))
			if h.format.rotated() {
				rotateFromDisk(mip)
			}
			tex.Surfaces[s].Mipmaps[level] = mip

			// face sizes are stored unpadded while the faces themselves are padded
			if padSlices {
				size = alignUp(size, dataAlignment)
			}
			dataOffset += size
		}
	}

	next := headerPtr + h.headerSize
	if d.version < versionSharedData {
		next = headerPtr + h.totalSize
	}

	return tex, next, nil
}

// fieldReader wraps a cursor and keeps the first error, so fixed headers
// read as straight-line code and are checked once.
type fieldReader struct {
	c   *cursor.Cursor
	err error
}

func (r *fieldReader) u8() uint8 {
	if r.err != nil {
		return 0
	}
	v, err := r.c.ReadU8()
	r.err = err

	return v
}

func (r *fieldReader) u16() uint16 {
	if r.err != nil {
		return 0
	}
	v, err := r.c.ReadU16()
	r.err = err

	return v
}

func (r *fieldReader) u32() uint32 {
	if r.err != nil {
		return 0
	}
	v, err := r.c.ReadU32()
	r.err = err

	return v
}

func (r *fieldReader) skip(n int) {
	if r.err == nil {
		r.err = r.c.Skip(n)
	}
}

func (r *fieldReader) seek(pos int) {
	if r.err == nil {
		r.err = r.c.Seek(pos)
	}
}

func (r *fieldReader) align(n int) {
	if r.err == nil {
		r.err = r.c.Align(n)
	}
}
