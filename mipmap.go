package nut

// mipDimension calculates the dimension of a mipmap level.
func mipDimension(base, level int) int {
	result := base >> level
	if result < 1 {
		return 1
	}

	return result
}

// alignUp rounds v up to the next multiple of n.
func alignUp(v, n int) int {
	if r := v % n; r != 0 {
		return v + n - r
	}

	return v
}

// mipDataLength returns the exact byte size of one level of format code c,
// or -1 when the code has no fixed layout.
func mipDataLength(c FormatCode, width, height int) int {
	switch c {
	case FormatRGB565:
		return width * height * 2
	case FormatABGR8:
		return width * height * 4
	case FormatRGBA16:
		return width * height * 8
	default:
		return expectedDataLength(c.PixelFormat(), width, height)
	}
}

// unpadMip drops the alignment padding stored after a level. Data that is
// short, or longer than one alignment unit past the exact size, is kept
// as is.
func unpadMip(mip []byte, c FormatCode, width, height int) []byte {
	exact := mipDataLength(c, width, height)
	if exact <= 0 {
		return mip
	}
	if pad := len(mip) - exact; pad > 0 && pad < dataAlignment {
		return mip[:exact:exact]
	}

	return mip
}
