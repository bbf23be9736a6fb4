package nut

import (
	"bytes"
	"encoding/binary"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/woozymasta/nut/cursor"
)

// pattern returns n deterministic bytes seeded by seed.
func pattern(n int, seed byte) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = byte(i*31) + seed
	}

	return out
}

func testLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func singleTexture(id uint32, format FormatCode, w, h int, mips ...[]byte) Texture {
	return Texture{
		HashID:   id,
		Width:    w,
		Height:   h,
		Format:   format,
		DDS:      true,
		Surfaces: []Surface{{Mipmaps: mips}},
	}
}

func cubemapTexture(id uint32, format FormatCode, w, h int, mipSizes ...int) Texture {
	tex := Texture{HashID: id, Width: w, Height: h, Format: format, DDS: true}
	for face := 0; face < cubemapFaces; face++ {
		var s Surface
		for level, size := range mipSizes {
			s.Mipmaps = append(s.Mipmaps, pattern(size, byte(face*16+level)))
		}
		tex.Surfaces = append(tex.Surfaces, s)
	}

	return tex
}

func sampleFile(endian cursor.Endianness, version uint16) *File {
	f := NewFile(endian)
	f.Version = version
	f.Textures = []Texture{
		singleTexture(0x40001001, FormatDXT1, 8, 8, pattern(32, 1)),
		singleTexture(0x40001002, FormatDXT5, 16, 16, pattern(256, 2), pattern(64, 3), pattern(16, 4)),
		singleTexture(0x40001003, FormatRGBA, 4, 4, pattern(64, 5)),
		cubemapTexture(0x40001004, FormatDXT1, 4, 4, 8),
		cubemapTexture(0x40001005, FormatDXT1, 16, 16, 128, 32),
		singleTexture(0x40001006, FormatDXT1, 8, 8, pattern(32, 6), pattern(8, 7), pattern(8, 8), pattern(8, 9)),
	}

	return f
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		endian  cursor.Endianness
		version uint16
		variant Variant
		magic   string
	}{
		{name: "ntp3-shared", endian: cursor.Big, version: 0x0200, variant: VariantNTP3, magic: "NTP3"},
		{name: "ntp3-inline", endian: cursor.Big, version: 0x0100, variant: VariantNTP3, magic: "NTP3"},
		{name: "ntwd-shared", endian: cursor.Little, version: 0x0200, variant: VariantNTWD, magic: "NTWD"},
		{name: "ntwd-inline", endian: cursor.Little, version: 0x0100, variant: VariantNTWD, magic: "NTWD"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			in := sampleFile(tc.endian, tc.version)
			data, err := Encode(in, nil)
			require.NoError(t, err)
			require.Equal(t, tc.magic, string(data[:4]))
			require.Equal(t, tc.version, binary.BigEndian.Uint16(data[4:6]))

			out, err := Decode(data, nil)
			require.NoError(t, err)
			require.Equal(t, tc.variant, out.Variant)
			require.Equal(t, tc.endian, out.Endianness)
			require.Equal(t, tc.version, out.Version)
			require.Equal(t, in.Textures, out.Textures)

			again, err := Encode(out, nil)
			require.NoError(t, err)
			require.Equal(t, data, again)
		})
	}
}

func TestEncodeLayout(t *testing.T) {
	t.Parallel()

	in := sampleFile(cursor.Big, 0x0200)
	data, err := Encode(in, nil)
	require.NoError(t, err)

	be := binary.BigEndian
	require.Equal(t, uint16(len(in.Textures)), be.Uint16(data[6:8]))

	headerPtr := firstHeaderOffset
	dataStart := firstHeaderOffset
	for i := range in.Textures {
		dataStart += entryHeaderSize(in.Textures[i].MipmapCount(), in.Textures[i].IsCubemap())
	}

	expectedData := dataStart
	for i := range in.Textures {
		tex := &in.Textures[i]
		h := data[headerPtr:]

		totalSize := int(be.Uint32(h[0:]))
		dataSize := int(be.Uint32(h[8:]))
		headerSize := int(be.Uint16(h[12:]))
		require.Equal(t, entryHeaderSize(tex.MipmapCount(), tex.IsCubemap()), headerSize, "texture %d", i)
		require.Equal(t, totalSize, dataSize+headerSize, "texture %d", i)
		require.Equal(t, byte(tex.MipmapCount()), h[17])
		require.Equal(t, byte(tex.Format), h[19])
		require.Equal(t, capsForSurfaces(len(tex.Surfaces)), be.Uint32(h[28:]))

		payload := headerPtr + int(be.Uint32(h[32:]))
		require.Equal(t, expectedData, payload, "texture %d", i)
		require.Zero(t, payload%dataAlignment, "texture %d payload at 0x%x", i, payload)

		// every level starts aligned and the table lists the stored sizes
		table := 0x30
		if tex.IsCubemap() {
			table = 0x40
		}
		chunk := payload
		for s, surface := range tex.Surfaces {
			for level, mip := range surface.Mipmaps {
				require.Zero(t, chunk%dataAlignment, "texture %d surface %d level %d at 0x%x", i, s, level, chunk)
				stored := alignUp(len(mip), dataAlignment)
				if tex.MipmapCount() > 1 && s == 0 {
					require.Equal(t, uint32(stored), be.Uint32(h[table+4*level:]), "texture %d level %d", i, level)
				}

				want := mip
				if tex.Format.rotated() {
					want = rotatedToDisk(mip)
				}
				require.Equal(t, want, data[chunk:chunk+len(mip)], "texture %d surface %d level %d", i, s, level)
				require.Equal(t, make([]byte, stored-len(mip)), data[chunk+len(mip):chunk+stored])
				chunk += stored
			}
		}
		require.Equal(t, payload+dataSize, chunk, "texture %d", i)

		require.Equal(t, extMagic, h[headerSize-0x20:headerSize-0x1c])
		require.Equal(t, gidxMagic, h[headerSize-0x10:headerSize-0x0c])
		require.Equal(t, tex.HashID, be.Uint32(h[headerSize-0x08:]))

		expectedData += dataSize
		headerPtr += headerSize
	}
	require.Equal(t, expectedData, len(data))
}

func TestRoundTripUnalignedMips(t *testing.T) {
	t.Parallel()

	textures := []Texture{
		singleTexture(0x40002001, FormatDXT1, 8, 8, pattern(32, 1), pattern(8, 2), pattern(8, 3), pattern(8, 4)),
		singleTexture(0x40002002, FormatDXT1, 4, 4, pattern(8, 5)),
		singleTexture(0x40002003, FormatBC4, 2, 2, pattern(8, 6)),
		singleTexture(0x40002004, FormatRGBA, 2, 2, pattern(16, 7), pattern(4, 8)),
		cubemapTexture(0x40002005, FormatDXT1, 8, 8, 32, 8),
	}

	for _, endian := range []cursor.Endianness{cursor.Big, cursor.Little} {
		for _, version := range []uint16{0x0100, 0x0200} {
			f := NewFile(endian)
			f.Version = version
			f.Textures = textures

			data, err := Encode(f, nil)
			require.NoError(t, err)

			out, err := Decode(data, nil)
			require.NoError(t, err, "version 0x%x", version)
			require.Equal(t, f.Textures, out.Textures, "version 0x%x", version)

			again, err := Encode(out, nil)
			require.NoError(t, err)
			require.Equal(t, data, again, "version 0x%x", version)
		}
	}
}

func TestEncodeNilFile(t *testing.T) {
	t.Parallel()

	data, err := Encode(nil, nil)
	require.Nil(t, data)
	require.ErrorIs(t, err, ErrNilFile)

	path := filepath.Join(t.TempDir(), "nil.nut")
	require.ErrorIs(t, WriteFile(path, nil, nil), ErrNilFile)
	_, err = os.Stat(path)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestEncodeMipTable(t *testing.T) {
	t.Parallel()

	f := NewFile(cursor.Big)
	// level sizes that are not multiples of 16 are padded on disk
	f.Textures = []Texture{singleTexture(1, FormatDXT1, 16, 16, pattern(128, 0), pattern(32, 1), pattern(8, 2))}

	data, err := Encode(f, nil)
	require.NoError(t, err)

	h := data[firstHeaderOffset:]
	require.Equal(t, uint32(128+32+16), binary.BigEndian.Uint32(h[8:]))
	require.Equal(t, uint32(128), binary.BigEndian.Uint32(h[0x30:]))
	require.Equal(t, uint32(32), binary.BigEndian.Uint32(h[0x34:]))
	require.Equal(t, uint32(16), binary.BigEndian.Uint32(h[0x38:]))
}

func TestEncodeVersionClamp(t *testing.T) {
	t.Parallel()

	in := sampleFile(cursor.Little, 0x0300)
	data, err := Encode(in, nil)
	require.NoError(t, err)
	require.Equal(t, uint16(0x0200), binary.BigEndian.Uint16(data[4:6]))
	require.Equal(t, uint16(0x0300), in.Version)

	out, err := Decode(data, nil)
	require.NoError(t, err)
	require.Equal(t, uint16(0x0200), out.Version)
	require.Equal(t, in.Textures, out.Textures)
}

func TestEncodeValidation(t *testing.T) {
	t.Parallel()

	mip := pattern(16, 0)
	tests := []struct {
		name    string
		tex     Texture
		wantErr []error
	}{
		{
			name:    "no-surfaces",
			tex:     Texture{Format: FormatDXT1, Width: 4, Height: 4},
			wantErr: []error{ErrUnsupportedSurfaceCount},
		},
		{
			name: "three-surfaces",
			tex: Texture{Format: FormatDXT1, Width: 4, Height: 4, Surfaces: []Surface{
				{Mipmaps: [][]byte{mip}}, {Mipmaps: [][]byte{mip}}, {Mipmaps: [][]byte{mip}},
			}},
			wantErr: []error{ErrUnsupportedSurfaceCount, ErrUnsupportedCubemapFaceCount},
		},
		{
			name:    "seven-surfaces",
			tex:     Texture{Format: FormatDXT1, Width: 4, Height: 4, Surfaces: make([]Surface, 7)},
			wantErr: []error{ErrUnsupportedSurfaceCount},
		},
		{
			name:    "empty-mipmaps",
			tex:     singleTexture(1, FormatDXT1, 4, 4),
			wantErr: []error{ErrEmptyMipmaps},
		},
		{
			name:    "unknown-format",
			tex:     singleTexture(1, FormatCode(99), 4, 4, mip),
			wantErr: []error{ErrUnsupportedPixelFormat},
		},
		{
			name:    "oversized",
			tex:     singleTexture(1, FormatDXT1, 70000, 4, mip),
			wantErr: []error{ErrSizeOverflow},
		},
		{
			name: "uneven-cubemap",
			tex: func() Texture {
				tex := cubemapTexture(1, FormatDXT1, 4, 4, 16, 16)
				tex.Surfaces[3].Mipmaps = tex.Surfaces[3].Mipmaps[:1]
				return tex
			}(),
			wantErr: []error{ErrMipmapCountMismatch},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := NewFile(cursor.Big)
			f.Textures = []Texture{singleTexture(7, FormatDXT1, 4, 4, mip), tc.tex}

			data, err := Encode(f, nil)
			require.Nil(t, data)
			for _, want := range tc.wantErr {
				require.ErrorIs(t, err, want)
			}
		})
	}
}

// rgbaFixture is a hand-built NTP3 file holding one 4x4 RGBA texture
// (format 17) whose pixels are stored channel rotated.
func rgbaFixture(id uint32) []byte {
	be := binary.BigEndian
	var b []byte
	b = append(b, "NTP3"...)
	b = be.AppendUint16(b, 0x0200)
	b = be.AppendUint16(b, 1)
	b = append(b, make([]byte, 8)...)

	b = be.AppendUint32(b, 64+0x50) // total size
	b = be.AppendUint32(b, 0)
	b = be.AppendUint32(b, 64) // data size
	b = be.AppendUint16(b, 0x50)
	b = be.AppendUint16(b, 0)
	b = append(b, 0, 1, 0, 17)
	b = be.AppendUint16(b, 4)
	b = be.AppendUint16(b, 4)
	b = be.AppendUint32(b, 0)
	b = be.AppendUint32(b, 0)    // caps2
	b = be.AppendUint32(b, 0x50) // data offset
	b = append(b, make([]byte, 12)...)
	b = append(b, 'e', 'X', 't', 0)
	b = be.AppendUint32(b, 0x20)
	b = be.AppendUint32(b, 0x10)
	b = be.AppendUint32(b, 0)
	b = append(b, 'G', 'I', 'D', 'X')
	b = be.AppendUint32(b, 0x10)
	b = be.AppendUint32(b, id)
	b = be.AppendUint32(b, 0)

	for p := 0; p < 16; p++ {
		b = append(b, 0xf0, byte(p), byte(p+0x40), byte(p+0x80))
	}

	return b
}

func TestDecodeRotatedRGBA(t *testing.T) {
	t.Parallel()

	raw := rgbaFixture(0x40002001)
	f, err := Decode(raw, nil)
	require.NoError(t, err)
	require.Len(t, f.Textures, 1)

	tex := f.Textures[0]
	require.Equal(t, FormatRGBA, tex.Format)
	require.Equal(t, uint32(0x40002001), tex.HashID)
	require.True(t, tex.DDS)

	mip := tex.Surfaces[0].Mipmaps[0]
	require.Len(t, mip, 64)
	for p := 0; p < 16; p++ {
		require.Equal(t, []byte{byte(p), byte(p + 0x40), byte(p + 0x80), 0xf0}, mip[p*4:p*4+4], "pixel %d", p)
	}

	before := bytes.Clone(mip)
	out, err := Encode(f, nil)
	require.NoError(t, err)
	require.Equal(t, raw, out)
	require.Equal(t, before, f.Textures[0].Surfaces[0].Mipmaps[0])
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()

	valid, err := Encode(sampleFile(cursor.Big, 0x0200), nil)
	require.NoError(t, err)

	// the fourth texture is a single-mip cubemap
	cubePtr := firstHeaderOffset + 0x50 + 0x60 + 0x50

	patch := func(at int, b ...byte) []byte {
		out := bytes.Clone(valid)
		copy(out[at:], b)
		return out
	}

	tests := []struct {
		name    string
		data    []byte
		wantErr []error
	}{
		{name: "unknown-magic", data: patch(0, 'N', 'T', 'X', 'X'), wantErr: []error{ErrUnknownMagic}},
		{name: "short-header", data: valid[:5], wantErr: []error{ErrReadHeader, cursor.ErrBufferUnderrun}},
		{name: "unknown-format", data: patch(firstHeaderOffset+19, 5), wantErr: []error{ErrUnsupportedPixelFormat}},
		{name: "zero-mipmaps", data: patch(firstHeaderOffset+17, 0), wantErr: []error{ErrEmptyMipmaps}},
		{
			name:    "partial-cubemap",
			data:    patch(cubePtr+28, 0, 0, 0x06, 0x00),
			wantErr: []error{ErrUnsupportedSurfaceCount, ErrUnsupportedCubemapFaceCount},
		},
		{name: "truncated-header", data: valid[:firstHeaderOffset+0x30], wantErr: []error{ErrReadHeader, cursor.ErrBufferUnderrun}},
		{name: "truncated-data", data: valid[:len(valid)-1], wantErr: []error{ErrReadMipmap, cursor.ErrBufferUnderrun}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f, err := Decode(tc.data, nil)
			require.Nil(t, f)
			for _, want := range tc.wantErr {
				require.ErrorIs(t, err, want)
			}
		})
	}
}

func TestCompressedRoundTrip(t *testing.T) {
	t.Parallel()

	for _, c := range []cursor.Compression{
		cursor.CompressionZlib,
		cursor.CompressionLZ4,
		cursor.CompressionZstd,
		cursor.CompressionYaz0,
	} {
		c := c
		t.Run(c.String(), func(t *testing.T) {
			t.Parallel()

			in := sampleFile(cursor.Big, 0x0200)
			plain, err := Encode(in, nil)
			require.NoError(t, err)

			wrapped, err := Encode(in, &EncodeOptions{Compression: c})
			require.NoError(t, err)
			require.Equal(t, c, cursor.Detect(wrapped))

			out, err := Decode(wrapped, nil)
			require.NoError(t, err)
			require.Equal(t, in.Textures, out.Textures)

			again, err := Encode(out, nil)
			require.NoError(t, err)
			require.Equal(t, plain, again)
		})
	}
}

func TestReadWriteFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "textures.nut")
	in := sampleFile(cursor.Little, 0x0200)
	require.NoError(t, WriteFile(path, in, &EncodeOptions{Compression: cursor.CompressionZlib}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, []byte{0x78, 0x9c}, raw[:2])

	out, err := ReadFile(path, nil)
	require.NoError(t, err)
	require.Equal(t, VariantNTWD, out.Variant)
	require.Equal(t, in.Textures, out.Textures)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.nut"), nil)
	require.ErrorIs(t, err, ErrOpenFile)

	err = WriteFile(filepath.Join(t.TempDir(), "missing", "out.nut"), in, nil)
	require.ErrorIs(t, err, ErrCreateFile)
}

func TestLookupAndDuplicates(t *testing.T) {
	t.Parallel()

	f := sampleFile(cursor.Big, 0x0200)
	f.Textures = append(f.Textures, singleTexture(0x40001002, FormatDXT1, 4, 4, pattern(8, 9)))

	tex, ok := f.Lookup(0x40001002)
	require.True(t, ok)
	require.Equal(t, FormatDXT5, tex.Format)

	_, ok = f.Lookup(0xdeadbeef)
	require.False(t, ok)

	require.Equal(t, []uint32{0x40001002}, f.DuplicateIDs())

	// duplicates are still encoded and decoded in order
	data, err := Encode(f, nil)
	require.NoError(t, err)
	out, err := Decode(data, nil)
	require.NoError(t, err)
	require.Equal(t, f.Textures, out.Textures)
}

func TestDecodeLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	data, err := Encode(sampleFile(cursor.Big, 0x0200), &EncodeOptions{Logger: testLogger(&buf)})
	require.NoError(t, err)
	require.Contains(t, buf.String(), "nut encode")

	buf.Reset()
	_, err = Decode(data, &DecodeOptions{Logger: testLogger(&buf)})
	require.NoError(t, err)
	require.Contains(t, buf.String(), "variant=NTP3")
}
