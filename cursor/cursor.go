/*
Package cursor implements an endianness-aware sequential reader and writer
over an in-memory byte buffer.

A Cursor owns its buffer, a position and a byte order. Reads fail with
ErrBufferUnderrun instead of crossing the end of the buffer. Writes at the
cursor and at absolute offsets grow the buffer, zero-filling any gap.

Load and Open transparently unwrap zlib, LZ4 frame, Zstandard and Yaz0
payloads before the cursor is created.

A Cursor is not safe for concurrent use.
*/
package cursor

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrBufferUnderrun indicates a read or seek past the buffer boundary.
	ErrBufferUnderrun = errors.New("buffer underrun")
	// ErrInvalidAlignment indicates a non-positive alignment.
	ErrInvalidAlignment = errors.New("invalid alignment")
	// ErrOpenFile indicates the source file could not be read.
	ErrOpenFile = errors.New("open file failed")
	// ErrInflate indicates a wrapped payload could not be unpacked.
	ErrInflate = errors.New("inflate payload failed")
	// ErrDeflate indicates a payload could not be wrapped.
	ErrDeflate = errors.New("deflate payload failed")
	// ErrUnknownCompression indicates an unsupported Compression value.
	ErrUnknownCompression = errors.New("unknown compression")
)

// Cursor is a positioned view over a growable byte buffer.
type Cursor struct {
	buf    []byte
	pos    int
	endian Endianness
}

// New wraps data without inspecting it. The cursor takes ownership of data.
func New(data []byte, endian Endianness) *Cursor {
	return &Cursor{buf: data, endian: endian}
}

// NewWriter returns an empty cursor for building output.
func NewWriter(endian Endianness) *Cursor {
	return &Cursor{endian: endian}
}

// Open reads a file, unwraps compressed payloads and returns a cursor at 0.
func Open(path string, endian Endianness) (*Cursor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrOpenFile, path, err)
	}

	data, err = Load(data)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", path, err)
	}

	return New(data, endian), nil
}

// Bytes returns the underlying buffer.
func (c *Cursor) Bytes() []byte { return c.buf }

// Len returns the buffer length.
func (c *Cursor) Len() int { return len(c.buf) }

// Pos returns the current position.
func (c *Cursor) Pos() int { return c.pos }

// Remaining returns the number of bytes between the position and the end.
func (c *Cursor) Remaining() int {
	if c.pos >= len(c.buf) {
		return 0
	}

	return len(c.buf) - c.pos
}

// Endianness returns the byte order used for multi-byte values.
func (c *Cursor) Endianness() Endianness { return c.endian }

// SetEndianness switches the byte order for subsequent operations.
func (c *Cursor) SetEndianness(e Endianness) { c.endian = e }

// Seek moves to an absolute position within [0, Len()].
func (c *Cursor) Seek(pos int) error {
	if pos < 0 || pos > len(c.buf) {
		return fmt.Errorf("%w: seek to %d, length %d", ErrBufferUnderrun, pos, len(c.buf))
	}
	c.pos = pos

	return nil
}

// Skip moves the position by n bytes.
func (c *Cursor) Skip(n int) error {
	return c.Seek(c.pos + n)
}

// Align advances the position to the next multiple of n.
func (c *Cursor) Align(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidAlignment, n)
	}

	return c.Seek(alignUp(c.pos, n))
}

// Section returns a copy of size bytes at an absolute offset without moving
// the cursor.
func (c *Cursor) Section(offset, size int) ([]byte, error) {
	if offset < 0 || size < 0 || offset > len(c.buf)-size {
		return nil, fmt.Errorf("%w: section %d+%d, length %d", ErrBufferUnderrun, offset, size, len(c.buf))
	}

	out := make([]byte, size)
	copy(out, c.buf[offset:offset+size])

	return out, nil
}

func alignUp(v, n int) int {
	if r := v % n; r != 0 {
		return v + n - r
	}

	return v
}
