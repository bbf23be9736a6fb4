// Package half converts between IEEE-754 binary16 and binary32 values.
//
// Both directions are bit exact: every binary16 pattern survives a trip
// through float32 and back, including signed zeros, infinities and NaN
// payloads.
package half

import "math"

// Float16 is a raw binary16 bit pattern.
type Float16 uint16

// Float32 returns the binary32 value of h.
func (h Float16) Float32() float32 {
	return ToFloat32(uint16(h))
}

// FromFloat returns the binary16 pattern nearest to f.
func FromFloat(f float32) Float16 {
	return Float16(FromFloat32(f))
}

// ToFloat32 widens a binary16 bit pattern to float32.
func ToFloat32(bits uint16) float32 {
	hbits := uint32(bits)
	mant := hbits & 0x03ff
	exp := hbits & 0x7c00

	switch {
	case exp == 0x7c00:
		// NaN/Inf, payload kept
		exp = 0x3fc00
	case exp != 0:
		// exp - 15 + 127, still shifted by 10
		exp += 0x1c000
	case mant != 0:
		// subnormal: shift until the implicit bit surfaces
		exp = 0x1c400
		for {
			mant <<= 1
			exp -= 0x400
			if mant&0x400 != 0 {
				break
			}
		}
		mant &= 0x3ff
	}

	return math.Float32frombits((hbits&0x8000)<<16 | (exp|mant)<<13)
}

// FromFloat32 narrows f to a binary16 bit pattern with round to nearest,
// ties away from zero.
// Values too large become signed infinity, values below the smallest
// subnormal become signed zero.
func FromFloat32(f float32) uint16 {
	fbits := math.Float32bits(f)
	sign := (fbits >> 16) & 0x8000
	abs := fbits & 0x7fffffff
	val := abs + 0x1000

	if val >= 0x47800000 {
		if abs >= 0x47800000 {
			if val < 0x7f800000 {
				return uint16(sign | 0x7c00)
			}
			if abs > 0x7f800000 {
				payload := (abs & 0x007fffff) >> 13
				if payload == 0 {
					payload = 0x200
				}
				return uint16(sign | 0x7c00 | payload)
			}
			return uint16(sign | 0x7c00)
		}
		// rounding alone would overflow
		return uint16(sign | 0x7bff)
	}
	if val >= 0x38800000 {
		return uint16(sign | (val-0x38000000)>>13)
	}
	if val < 0x33000000 {
		return uint16(sign)
	}

	exp := abs >> 23
	m := abs&0x7fffff | 0x800000
	m += 0x800000 >> (exp - 102)
	return uint16(sign | m>>(126-exp))
}
