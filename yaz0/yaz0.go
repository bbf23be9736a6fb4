/*
Package yaz0 implements the Yaz0 LZ77-style compression format.

A Yaz0 stream starts with a 16-byte big-endian header: the "Yaz0" magic,
the uncompressed size and eight reserved bytes. The body is a sequence of
groups, each led by a code byte whose bits (most significant first) select
either a literal byte or a back reference into already decoded output.
Back references may overlap the bytes they produce.
*/
package yaz0

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// Magic is the stream signature.
	Magic = "Yaz0"

	// HeaderSize is the offset of the first code byte.
	HeaderSize = 0x10

	maxDistance = 0x1000
	maxLength   = 0xff + 0x12
	minLength   = 3
)

var (
	// ErrCorruptStream indicates the stream ended early or referenced data
	// outside the decoded output.
	ErrCorruptStream = errors.New("corrupt yaz0 stream")
	// ErrShortHeader indicates the input is smaller than the stream header.
	ErrShortHeader = errors.New("yaz0 header truncated")
)

// IsYaz0 reports whether data starts with the Yaz0 magic.
func IsYaz0(data []byte) bool {
	return len(data) >= len(Magic) && string(data[:len(Magic)]) == Magic
}

// DecompressedSize returns the uncompressed size declared in the header.
func DecompressedSize(data []byte) (int, error) {
	if len(data) < HeaderSize {
		return 0, fmt.Errorf("%w: %d bytes", ErrShortHeader, len(data))
	}

	return int(binary.BigEndian.Uint32(data[4:8])), nil
}

// Decode inflates a complete Yaz0 stream. The magic is not validated;
// callers that need that check use IsYaz0.
func Decode(data []byte) ([]byte, error) {
	size, err := DecompressedSize(data)
	if err != nil {
		return nil, err
	}

	src := data[HeaderSize:]
	// a source byte can never expand past one maximal run
	if size < 0 || uint64(binary.BigEndian.Uint32(data[4:8])) > uint64(len(src))*maxLength {
		return nil, fmt.Errorf("%w: declared size %d exceeds what %d source bytes can produce",
			ErrCorruptStream, binary.BigEndian.Uint32(data[4:8]), len(src))
	}
	dst := make([]byte, size)

	srcPos, dstPos := 0, 0
	var code byte
	validBits := 0

	for dstPos < size {
		if validBits == 0 {
			if srcPos >= len(src) {
				return nil, fmt.Errorf("%w: code byte at %d, decoded %d of %d", ErrCorruptStream, srcPos, dstPos, size)
			}
			code = src[srcPos]
			srcPos++
			validBits = 8
		}

		if code&0x80 != 0 {
			if srcPos >= len(src) {
				return nil, fmt.Errorf("%w: literal at %d, decoded %d of %d", ErrCorruptStream, srcPos, dstPos, size)
			}
			dst[dstPos] = src[srcPos]
			dstPos++
			srcPos++
		} else {
			if srcPos+2 > len(src) {
				return nil, fmt.Errorf("%w: back reference at %d, decoded %d of %d", ErrCorruptStream, srcPos, dstPos, size)
			}
			b1, b2 := src[srcPos], src[srcPos+1]
			srcPos += 2

			dist := int(b1&0x0f)<<8 | int(b2)
			copySrc := dstPos - (dist + 1)

			n := int(b1 >> 4)
			if n == 0 {
				if srcPos >= len(src) {
					return nil, fmt.Errorf("%w: run length at %d, decoded %d of %d", ErrCorruptStream, srcPos, dstPos, size)
				}
				n = int(src[srcPos]) + 0x12
				srcPos++
			} else {
				n += 2
			}

			if copySrc < 0 {
				return nil, fmt.Errorf("%w: distance %d before output start at %d", ErrCorruptStream, dist+1, dstPos)
			}
			if dstPos+n > size {
				return nil, fmt.Errorf("%w: run of %d overflows %d byte output at %d", ErrCorruptStream, n, size, dstPos)
			}

			// forward byte copy, the source may overlap the run itself
			for i := 0; i < n; i++ {
				dst[dstPos] = dst[copySrc]
				copySrc++
				dstPos++
			}
		}

		code <<= 1
		validBits--
	}

	return dst, nil
}

// Encode compresses src into a Yaz0 stream using greedy matching.
func Encode(src []byte) []byte {
	out := make([]byte, HeaderSize, HeaderSize+len(src)+len(src)/8+1)
	copy(out, Magic)
	binary.BigEndian.PutUint32(out[4:8], uint32(len(src))) //nolint:gosec // stream format is 32-bit

	pos := 0
	for pos < len(src) {
		codeIdx := len(out)
		out = append(out, 0)
		var code byte

		for bit := 0; bit < 8 && pos < len(src); bit++ {
			dist, n := findMatch(src, pos)
			if n < minLength {
				code |= 0x80 >> bit
				out = append(out, src[pos])
				pos++
				continue
			}

			d := dist - 1
			if n >= 0x12 {
				out = append(out, byte(d>>8), byte(d), byte(n-0x12))
			} else {
				out = append(out, byte(n-2)<<4|byte(d>>8), byte(d))
			}
			pos += n
		}

		out[codeIdx] = code
	}

	return out
}

// findMatch returns the longest earlier match for src[pos:] within the window.
func findMatch(src []byte, pos int) (int, int) {
	start := pos - maxDistance
	if start < 0 {
		start = 0
	}
	limit := len(src) - pos
	if limit > maxLength {
		limit = maxLength
	}

	bestDist, bestLen := 0, 0
	for i := pos - 1; i >= start; i-- {
		n := 0
		for n < limit && src[i+n] == src[pos+n] {
			n++
		}
		if n > bestLen {
			bestDist, bestLen = pos-i, n
			if n == limit {
				break
			}
		}
	}

	return bestDist, bestLen
}
