package cursor

import "encoding/binary"

// Engine combines ByteOrder and AppendByteOrder from encoding/binary.
//
// Both binary.LittleEndian and binary.BigEndian satisfy it.
type Engine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// Endianness selects the byte order of multi-byte values.
type Endianness uint8

const (
	// Big is most significant byte first.
	Big Endianness = iota
	// Little is least significant byte first.
	Little
)

// Engine returns the byte order engine for e.
func (e Endianness) Engine() Engine {
	if e == Little {
		return binary.LittleEndian
	}

	return binary.BigEndian
}

func (e Endianness) String() string {
	if e == Little {
		return "Little"
	}

	return "Big"
}
