// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/nut

package nut

const (
	maxUint8  = int(^uint8(0))
	maxUint16 = int(^uint16(0))
	maxUint32 = uint64(^uint32(0))
)

// u8FromInt converts an int to a uint8.
func u8FromInt(n int) (uint8, error) {
	if n < 0 || n > maxUint8 {
		return 0, ErrSizeOverflow
	}

	return uint8(n), nil
}

// u16FromInt converts an int to a uint16.
func u16FromInt(n int) (uint16, error) {
	if n < 0 || n > maxUint16 {
		return 0, ErrSizeOverflow
	}

	// #nosec G115 -- bounds checked above.
	return uint16(n), nil
}

// u32FromInt converts an int to a uint32.
func u32FromInt(n int) (uint32, error) {
	if n < 0 || uint64(n) > maxUint32 {
		return 0, ErrSizeOverflow
	}

	// #nosec G115 -- bounds checked above.
	return uint32(n), nil
}
