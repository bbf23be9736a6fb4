package cursor

import (
	"fmt"
	"math"

	"github.com/woozymasta/nut/half"
)

// take returns the next n bytes and advances past them.
func (c *Cursor) take(n int) ([]byte, error) {
	if n < 0 || c.pos > len(c.buf)-n {
		return nil, fmt.Errorf("%w: read %d at %d, length %d", ErrBufferUnderrun, n, c.pos, len(c.buf))
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n

	return b, nil
}

// ReadU8 reads one byte.
func (c *Cursor) ReadU8() (uint8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}

	return b[0], nil
}

// ReadI8 reads one signed byte.
func (c *Cursor) ReadI8() (int8, error) {
	v, err := c.ReadU8()
	return int8(v), err //nolint:gosec // two's complement reinterpretation
}

// ReadU16 reads a 16-bit unsigned value.
func (c *Cursor) ReadU16() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}

	return c.endian.Engine().Uint16(b), nil
}

// ReadI16 reads a 16-bit signed value.
func (c *Cursor) ReadI16() (int16, error) {
	v, err := c.ReadU16()
	return int16(v), err //nolint:gosec // two's complement reinterpretation
}

// ReadU24 reads a 24-bit unsigned value.
func (c *Cursor) ReadU24() (uint32, error) {
	b, err := c.take(3)
	if err != nil {
		return 0, err
	}
	if c.endian == Little {
		return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16, nil
	}

	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2]), nil
}

// ReadU32 reads a 32-bit unsigned value.
func (c *Cursor) ReadU32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}

	return c.endian.Engine().Uint32(b), nil
}

// ReadI32 reads a 32-bit signed value.
func (c *Cursor) ReadI32() (int32, error) {
	v, err := c.ReadU32()
	return int32(v), err //nolint:gosec // two's complement reinterpretation
}

// ReadU64 reads a 64-bit unsigned value.
func (c *Cursor) ReadU64() (uint64, error) {
	b, err := c.take(8)
	if err != nil {
		return 0, err
	}

	return c.endian.Engine().Uint64(b), nil
}

// ReadF32 reads a binary32 float.
func (c *Cursor) ReadF32() (float32, error) {
	v, err := c.ReadU32()
	if err != nil {
		return 0, err
	}

	return math.Float32frombits(v), nil
}

// ReadHalfFloat reads a binary16 float widened to float32.
func (c *Cursor) ReadHalfFloat() (float32, error) {
	v, err := c.ReadU16()
	if err != nil {
		return 0, err
	}

	return half.ToFloat32(v), nil
}

// ReadBytes reads a copy of the next n bytes.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	b, err := c.take(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)

	return out, nil
}

// ReadFixedString reads n bytes as a string, zero bytes included.
func (c *Cursor) ReadFixedString(n int) (string, error) {
	b, err := c.take(n)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// ReadCString reads up to the next zero byte and consumes it. A string
// running into the end of the buffer is returned as is.
func (c *Cursor) ReadCString() string {
	start := c.pos
	for c.pos < len(c.buf) && c.buf[c.pos] != 0 {
		c.pos++
	}
	s := string(c.buf[start:c.pos])
	if c.pos < len(c.buf) {
		c.pos++
	}

	return s
}
