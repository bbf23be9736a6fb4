package cursor

import (
	"fmt"
	"math"

	"github.com/woozymasta/nut/half"
)

// grow extends the buffer with zeros so that it holds at least n bytes.
func (c *Cursor) grow(n int) {
	if n <= len(c.buf) {
		return
	}
	if n <= cap(c.buf) {
		tail := c.buf[len(c.buf):n]
		clear(tail)
		c.buf = c.buf[:n]
		return
	}
	c.buf = append(c.buf, make([]byte, n-len(c.buf))...)
}

// put writes b at the cursor and advances past it.
func (c *Cursor) put(b []byte) {
	c.grow(c.pos + len(b))
	copy(c.buf[c.pos:], b)
	c.pos += len(b)
}

// putAt writes b at an absolute offset without moving the cursor.
func (c *Cursor) putAt(offset int, b []byte) error {
	if offset < 0 {
		return fmt.Errorf("%w: write at %d", ErrBufferUnderrun, offset)
	}
	c.grow(offset + len(b))
	copy(c.buf[offset:], b)

	return nil
}

// WriteU8 writes one byte.
func (c *Cursor) WriteU8(v uint8) {
	c.put([]byte{v})
}

// WriteI8 writes one signed byte.
func (c *Cursor) WriteI8(v int8) {
	c.WriteU8(uint8(v)) //nolint:gosec // two's complement reinterpretation
}

// WriteU16 writes a 16-bit unsigned value.
func (c *Cursor) WriteU16(v uint16) {
	var b [2]byte
	c.endian.Engine().PutUint16(b[:], v)
	c.put(b[:])
}

// WriteI16 writes a 16-bit signed value.
func (c *Cursor) WriteI16(v int16) {
	c.WriteU16(uint16(v)) //nolint:gosec // two's complement reinterpretation
}

// WriteU24 writes the low 24 bits of v.
func (c *Cursor) WriteU24(v uint32) {
	if c.endian == Little {
		c.put([]byte{byte(v), byte(v >> 8), byte(v >> 16)})
		return
	}
	c.put([]byte{byte(v >> 16), byte(v >> 8), byte(v)})
}

// WriteU32 writes a 32-bit unsigned value.
func (c *Cursor) WriteU32(v uint32) {
	var b [4]byte
	c.endian.Engine().PutUint32(b[:], v)
	c.put(b[:])
}

// WriteI32 writes a 32-bit signed value.
func (c *Cursor) WriteI32(v int32) {
	c.WriteU32(uint32(v)) //nolint:gosec // two's complement reinterpretation
}

// WriteU64 writes a 64-bit unsigned value.
func (c *Cursor) WriteU64(v uint64) {
	var b [8]byte
	c.endian.Engine().PutUint64(b[:], v)
	c.put(b[:])
}

// WriteF32 writes a binary32 float.
func (c *Cursor) WriteF32(v float32) {
	c.WriteU32(math.Float32bits(v))
}

// WriteHalfFloat narrows v to binary16 and writes it.
func (c *Cursor) WriteHalfFloat(v float32) {
	c.WriteU16(half.FromFloat32(v))
}

// WriteBytes writes b as is.
func (c *Cursor) WriteBytes(b []byte) {
	c.put(b)
}

// WriteFixedString writes s truncated or zero padded to n bytes.
func (c *Cursor) WriteFixedString(s string, n int) {
	b := make([]byte, n)
	copy(b, s)
	c.put(b)
}

// WriteCString writes s followed by a zero byte.
func (c *Cursor) WriteCString(s string) {
	c.put(append([]byte(s), 0))
}

// Pad writes zero bytes until the position is a multiple of n.
func (c *Cursor) Pad(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidAlignment, n)
	}
	c.put(make([]byte, alignUp(c.pos, n)-c.pos))

	return nil
}

// WriteU16At writes a 16-bit value at an absolute offset.
func (c *Cursor) WriteU16At(offset int, v uint16) error {
	var b [2]byte
	c.endian.Engine().PutUint16(b[:], v)

	return c.putAt(offset, b[:])
}

// WriteU32At writes a 32-bit value at an absolute offset.
func (c *Cursor) WriteU32At(offset int, v uint32) error {
	var b [4]byte
	c.endian.Engine().PutUint32(b[:], v)

	return c.putAt(offset, b[:])
}

// WriteBytesAt writes b at an absolute offset.
func (c *Cursor) WriteBytesAt(offset int, b []byte) error {
	return c.putAt(offset, b)
}
