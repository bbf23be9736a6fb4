package nut

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/woozymasta/nut/cursor"
)

// EncodeOptions configures encoding.
type EncodeOptions struct {
	// Compression wraps the whole output. The zero value writes it plain.
	Compression cursor.Compression
	// Logger receives debug traces of header fields. Nil discards them.
	Logger *slog.Logger
}

// WriteFile encodes f and writes it to path.
// Nil opts uses defaults.
func WriteFile(path string, f *File, opts *EncodeOptions) error {
	data, err := Encode(f, opts)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // asset files are world readable
		return fmt.Errorf("%w: %q: %v", ErrCreateFile, path, err)
	}

	return nil
}

// texturePlan holds the per-texture values computed before any output.
type texturePlan struct {
	mipCount   uint8
	width      uint16
	height     uint16
	headerSize int
	dataSize   int
}

// Encode builds an NTP3 (big endian) or NTWD (little endian) container.
//
// Versions above 0x200 are written as 0x200. For 0x200 every payload follows
// the last header; for older versions each payload follows its own header.
// f is not modified. Nil opts uses defaults.
func Encode(f *File, opts *EncodeOptions) ([]byte, error) {
	var o EncodeOptions
	if opts != nil {
		o = *opts
	}
	log := o.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	if f == nil {
		return nil, ErrNilFile
	}

	count, err := u16FromInt(len(f.Textures))
	if err != nil {
		return nil, fmt.Errorf("%w: %d textures", err, len(f.Textures))
	}

	// validate everything before emitting a byte
	plans := make([]texturePlan, len(f.Textures))
	headerLength := 0
	for i := range f.Textures {
		t := &f.Textures[i]
		if err := t.validate(); err != nil {
			return nil, fmt.Errorf("texture %d: %w", i, err)
		}

		p := texturePlan{headerSize: entryHeaderSize(t.MipmapCount(), t.IsCubemap())}
		if p.mipCount, err = u8FromInt(t.MipmapCount()); err != nil {
			return nil, fmt.Errorf("texture %d: %w", i, err)
		}
		if p.width, err = u16FromInt(t.Width); err != nil {
			return nil, fmt.Errorf("texture %d: %w", i, err)
		}
		if p.height, err = u16FromInt(t.Height); err != nil {
			return nil, fmt.Errorf("texture %d: %w", i, err)
		}
		for _, mip := range t.AllMipmaps() {
			p.dataSize += alignUp(len(mip), dataAlignment)
		}
		if _, err := u32FromInt(p.dataSize + p.headerSize); err != nil {
			return nil, fmt.Errorf("texture %d: %w: %d data bytes", i, err, p.dataSize)
		}

		plans[i] = p
		headerLength += p.headerSize
	}

	version := f.Version
	if version > versionSharedData {
		version = versionSharedData
	}
	variant := VariantNTP3
	if f.Endianness == cursor.Little {
		variant = VariantNTWD
	}
	log.Debug("nut encode", "variant", variant, "version", version, "count", count)

	out := cursor.NewWriter(cursor.Big)
	data := cursor.NewWriter(f.Endianness)

	// magic and version stay big endian
	out.WriteFixedString(variant.Magic(), 4)
	out.WriteU16(version)
	out.SetEndianness(f.Endianness)
	out.WriteU16(count)
	out.WriteU32(0)
	out.WriteU32(0)

	for i := range f.Textures {
		t := &f.Textures[i]
		p := plans[i]

		out.WriteU32(uint32(p.dataSize + p.headerSize)) //nolint:gosec // checked in plan
		out.WriteU32(0)
		out.WriteU32(uint32(p.dataSize)) //nolint:gosec // checked in plan
		out.WriteU16(uint16(p.headerSize))
		out.WriteU16(0)

		out.WriteU8(0)
		out.WriteU8(p.mipCount)
		out.WriteU8(0)
		out.WriteU8(uint8(t.Format))
		out.WriteU16(p.width)
		out.WriteU16(p.height)
		out.WriteU32(0)
		out.WriteU32(capsForSurfaces(len(t.Surfaces)))

		// offset from this header to its payload: the headers not written
		// yet, this one included, plus the payloads already queued
		if version < versionSharedData {
			out.WriteU32(0)
		} else {
			out.WriteU32(uint32(headerLength + data.Len())) //nolint:gosec // bounded by plan sizes
		}
		headerLength -= p.headerSize
		out.WriteU32(0)
		out.WriteU32(0)
		out.WriteU32(0)

		if t.IsCubemap() {
			faceSize := uint32(len(t.Surfaces[0].Mipmaps[0])) //nolint:gosec // bounded by plan sizes
			out.WriteU32(faceSize)
			out.WriteU32(faceSize)
			out.WriteU32(0)
			out.WriteU32(0)
		}

		for s, surface := range t.Surfaces {
			for _, mip := range surface.Mipmaps {
				if t.Format.rotated() {
					mip = rotatedToDisk(mip)
				}
				start := data.Len()
				data.WriteBytes(mip)
				if err := data.Pad(dataAlignment); err != nil {
					return nil, err
				}
				if p.mipCount > 1 && s == 0 {
					out.WriteU32(uint32(data.Len() - start)) //nolint:gosec // bounded by plan sizes
				}
			}
		}
		if err := out.Pad(dataAlignment); err != nil {
			return nil, err
		}

		out.WriteBytes(extMagic)
		out.WriteU32(0x20)
		out.WriteU32(extBlockSize)
		out.WriteU32(0)

		out.WriteBytes(gidxMagic)
		out.WriteU32(gidxBlockSize)
		out.WriteU32(t.HashID)
		out.WriteU32(0)

		log.Debug("nut texture", "hashID", t.String(), "format", t.Format,
			"headerSize", p.headerSize, "dataSize", p.dataSize)

		if version < versionSharedData {
			out.WriteBytes(data.Bytes())
			data = cursor.NewWriter(f.Endianness)
		}
	}

	if version >= versionSharedData {
		out.WriteBytes(data.Bytes())
	}

	wrapped, err := cursor.Wrap(out.Bytes(), o.Compression)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompressOutput, err)
	}

	return wrapped, nil
}
