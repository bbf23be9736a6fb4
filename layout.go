package nut

const (
	// versionSharedData is the first version that stores all payloads after
	// every header, with header-relative data offsets.
	versionSharedData = 0x0200

	firstHeaderOffset = 0x10
	dataAlignment     = 0x10

	entryHeaderBase  = 0x50
	cubemapExtraSize = 0x10
	extBlockSize     = 0x10
	gidxBlockSize    = 0x10

	cubemapFaces = 6

	caps2Cubemap         = 0x200
	caps2CubemapAllFaces = 0xfe00
)

var (
	extMagic  = []byte{'e', 'X', 't', 0}
	gidxMagic = []byte{'G', 'I', 'D', 'X'}
)

// entryHeaderSize returns the on-disk size of one texture header.
func entryHeaderSize(mipCount int, cubemap bool) int {
	size := entryHeaderBase
	if cubemap {
		size += cubemapExtraSize
	}
	if mipCount > 1 {
		size = alignUp(size+mipCount*4, dataAlignment)
	}

	return size
}

// surfaceCountFromCaps derives the face count from DDS caps2 bits.
func surfaceCountFromCaps(caps2 uint32) (int, error) {
	if caps2&caps2Cubemap != caps2Cubemap {
		return 1, nil
	}
	if caps2&caps2CubemapAllFaces != caps2CubemapAllFaces {
		return 0, ErrUnsupportedCubemapFaceCount
	}

	return cubemapFaces, nil
}

// capsForSurfaces is the inverse of surfaceCountFromCaps.
func capsForSurfaces(n int) uint32 {
	if n == cubemapFaces {
		return caps2CubemapAllFaces
	}

	return 0
}
