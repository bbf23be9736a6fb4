package cursor

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/woozymasta/nut/yaz0"
)

// Compression identifies a whole-file payload wrapper.
type Compression uint8

const (
	// CompressionNone stores the payload as is.
	CompressionNone Compression = iota
	// CompressionZlib wraps the payload in a zlib stream (0x78 0x9C header).
	CompressionZlib
	// CompressionLZ4 wraps the payload in an LZ4 frame.
	CompressionLZ4
	// CompressionZstd wraps the payload in a Zstandard frame.
	CompressionZstd
	// CompressionYaz0 wraps the payload in a Yaz0 stream.
	CompressionYaz0
)

var (
	zlibMagic = []byte{0x78, 0x9c}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZlib:
		return "zlib"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	case CompressionYaz0:
		return "yaz0"
	default:
		return fmt.Sprintf("Compression(%d)", uint8(c))
	}
}

// Detect reports which wrapper, if any, data starts with.
func Detect(data []byte) Compression {
	switch {
	case len(data) > 2 && bytes.HasPrefix(data, zlibMagic):
		return CompressionZlib
	case bytes.HasPrefix(data, lz4Magic):
		return CompressionLZ4
	case bytes.HasPrefix(data, zstdMagic):
		return CompressionZstd
	case yaz0.IsYaz0(data):
		return CompressionYaz0
	default:
		return CompressionNone
	}
}

// Load unwraps data when it starts with a known wrapper signature and
// returns it unchanged otherwise.
func Load(data []byte) ([]byte, error) {
	kind := Detect(data)

	var (
		out []byte
		err error
	)
	switch kind {
	case CompressionNone:
		return data, nil
	case CompressionZlib:
		// the two header bytes are skipped, a missing adler32 trailer is tolerated
		r := flate.NewReader(bytes.NewReader(data[len(zlibMagic):]))
		out, err = io.ReadAll(r)
		_ = r.Close()
	case CompressionLZ4:
		out, err = io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
	case CompressionZstd:
		var dec *zstd.Decoder
		dec, err = zstd.NewReader(nil)
		if err == nil {
			out, err = dec.DecodeAll(data, nil)
			dec.Close()
		}
	case CompressionYaz0:
		out, err = yaz0.Decode(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInflate, kind, err)
	}

	return out, nil
}

// Wrap compresses data with the given wrapper so that Load reverses it.
func Wrap(data []byte, c Compression) ([]byte, error) {
	var buf bytes.Buffer

	switch c {
	case CompressionNone:
		return data, nil
	case CompressionZlib:
		w := zlib.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrDeflate, c, err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrDeflate, c, err)
		}
	case CompressionLZ4:
		w := lz4.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrDeflate, c, err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrDeflate, c, err)
		}
	case CompressionZstd:
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrDeflate, c, err)
		}
		out := enc.EncodeAll(data, nil)
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrDeflate, c, err)
		}
		return out, nil
	case CompressionYaz0:
		return yaz0.Encode(data), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, uint8(c))
	}

	return buf.Bytes(), nil
}
