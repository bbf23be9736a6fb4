package nut

import (
	"fmt"
	"io"

	"github.com/woozymasta/bcn"
)

// DDS is a standalone DDS image: a header and all mip levels back to back,
// largest first.
type DDS struct {
	Header *bcn.DDSHeader
	Data   []byte
}

// DDSTranscoder converts a texture to a DDS image.
type DDSTranscoder func(*Texture) (*DDS, error)

// WriteTo writes the DDS magic, header and payload to w.
func (d *DDS) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	if err := bcn.WriteDDSMagic(cw); err != nil {
		return cw.n, fmt.Errorf("%w: %v", ErrWriteDDSMagic, err)
	}
	if err := bcn.WriteDDSHeader(cw, d.Header); err != nil {
		return cw.n, fmt.Errorf("%w: %v", ErrWriteDDSHeader, err)
	}
	if _, err := cw.Write(d.Data); err != nil {
		return cw.n, fmt.Errorf("%w: %v", ErrWriteDDSData, err)
	}

	return cw.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)

	return n, err
}

// TranscodeDDS builds a DDS image from a single-surface texture. Mip levels
// are trimmed to their exact size, dropping the container's alignment
// padding.
func TranscodeDDS(t *Texture) (*DDS, error) {
	if len(t.Surfaces) != 1 {
		return nil, fmt.Errorf("%w: %d surfaces", ErrUnsupportedSurfaceCount, len(t.Surfaces))
	}
	format := t.Format.PixelFormat()
	if format == bcn.FormatUnknown {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPixelFormat, t.Format)
	}

	w32, err := u32FromInt(t.Width)
	if err != nil {
		return nil, err
	}
	h32, err := u32FromInt(t.Height)
	if err != nil {
		return nil, err
	}
	mip32, err := u32FromInt(t.MipmapCount())
	if err != nil {
		return nil, err
	}
	if mip32 == 0 {
		return nil, ErrEmptyMipmaps
	}

	header, err := makeDDSHeader(w32, h32, mip32, format)
	if err != nil {
		return nil, err
	}

	var data []byte
	for level, mip := range t.Surfaces[0].Mipmaps {
		trimmed, err := trimMip(mip, format, mipDimension(t.Width, level), mipDimension(t.Height, level))
		if err != nil {
			return nil, fmt.Errorf("mipmap %d: %w", level, err)
		}
		data = append(data, trimmed...)
	}

	return &DDS{Header: header, Data: data}, nil
}

// TranscodeDDS converts every texture with fn, or with TranscodeDDS when fn
// is nil. The result is indexed like f.Textures.
func (f *File) TranscodeDDS(fn DDSTranscoder) ([]*DDS, error) {
	if fn == nil {
		fn = TranscodeDDS
	}

	out := make([]*DDS, len(f.Textures))
	for i := range f.Textures {
		d, err := fn(&f.Textures[i])
		if err != nil {
			return nil, fmt.Errorf("texture %s: %w", f.Textures[i].String(), err)
		}
		out[i] = d
	}

	return out, nil
}

// ReadDDS imports a DDS image as a single-surface texture with the given
// hash ID. BGRA8 data is swizzled to RGBA8 and stored as FormatRGBA.
func ReadDDS(r io.Reader, hashID uint32) (*Texture, error) {
	header, dx10, err := readDDSHeaders(r)
	if err != nil {
		return nil, err
	}

	format, name := detectFormat(header, dx10)
	swapRB := false
	if format == bcn.FormatBGRA8 {
		format, swapRB = bcn.FormatRGBA8, true
	}
	code, err := FormatCodeFor(format)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, name)
	}

	if _, err := u16FromInt(int(header.Width)); err != nil {
		return nil, fmt.Errorf("%w: width %d", err, header.Width)
	}
	if _, err := u16FromInt(int(header.Height)); err != nil {
		return nil, fmt.Errorf("%w: height %d", err, header.Height)
	}

	mipCount := 1
	if (header.Caps&bcn.DDSCapsMipmap) != 0 && header.MipMapCount > 0 {
		mipCount = int(header.MipMapCount)
	}

	t := &Texture{
		HashID:   hashID,
		Width:    int(header.Width),
		Height:   int(header.Height),
		Format:   code,
		DDS:      true,
		Surfaces: []Surface{{Mipmaps: make([][]byte, mipCount)}},
	}

	for level := range mipCount {
		size := expectedDataLength(format, mipDimension(t.Width, level), mipDimension(t.Height, level))
		mip := make([]byte, size)
		if _, err := io.ReadFull(r, mip); err != nil {
			return nil, fmt.Errorf("%w: mipmap %d: %v", ErrDDSDataRead, level, err)
		}
		if swapRB {
			for p := 0; p+4 <= len(mip); p += 4 {
				mip[p], mip[p+2] = mip[p+2], mip[p]
			}
		}
		t.Surfaces[0].Mipmaps[level] = mip
	}

	if err := t.validate(); err != nil {
		return nil, err
	}

	return t, nil
}

func readDDSHeaders(r io.Reader) (*bcn.DDSHeader, *bcn.DDSHeaderDX10, error) {
	header, err := bcn.ReadDDSHeader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrDDSHeaderRead, err)
	}

	dx10, err := bcn.ReadDDSHeaderDX10(r, header)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrDDSDX10Read, err)
	}

	return header, dx10, nil
}
