package nut

import "errors"

var (
	// ErrUnknownMagic indicates the file does not start with a NUT magic.
	ErrUnknownMagic = errors.New("unknown container magic")
	// ErrUnsupportedPixelFormat indicates a format code with no mapping.
	ErrUnsupportedPixelFormat = errors.New("unsupported pixel format")
	// ErrUnsupportedSurfaceCount indicates a texture without exactly 1 or 6 surfaces.
	ErrUnsupportedSurfaceCount = errors.New("unsupported surface count")
	// ErrUnsupportedCubemapFaceCount indicates a cubemap without all six faces.
	ErrUnsupportedCubemapFaceCount = errors.New("unsupported cubemap face count")
	// ErrNilFile indicates a nil container was passed for encoding.
	ErrNilFile = errors.New("nil container")
	// ErrSizeOverflow indicates a size or dimension exceeds field limits.
	ErrSizeOverflow = errors.New("size overflow")
	// ErrEmptyMipmaps indicates a surface without mipmaps.
	ErrEmptyMipmaps = errors.New("empty mipmaps")
	// ErrMipmapCountMismatch indicates surfaces of one texture with different mip counts.
	ErrMipmapCountMismatch = errors.New("mipmap count mismatch")
	// ErrMipmapSizeMismatch indicates mipmap payload size mismatch.
	ErrMipmapSizeMismatch = errors.New("mipmap size mismatch")
	// ErrInvalidMipLayout indicates negative or inconsistent mip offsets.
	ErrInvalidMipLayout = errors.New("invalid mip layout")
	// ErrNoDeswizzler indicates a tiled texture was found without a deswizzler.
	ErrNoDeswizzler = errors.New("no deswizzler for tiled texture")
	// ErrDeswizzle indicates the deswizzler failed or returned too little data.
	ErrDeswizzle = errors.New("deswizzle failed")
	// ErrReadHeader indicates a texture header could not be read.
	ErrReadHeader = errors.New("reading texture header failed")
	// ErrReadMipmap indicates mipmap data could not be sliced.
	ErrReadMipmap = errors.New("reading mipmap failed")
	// ErrOpenFile indicates NUT file open failed.
	ErrOpenFile = errors.New("open file failed")
	// ErrCreateFile indicates file creation failed.
	ErrCreateFile = errors.New("create file failed")
	// ErrCompressOutput indicates wrapping the encoded output failed.
	ErrCompressOutput = errors.New("compress output failed")
	// ErrDuplicateTextureID indicates texture IDs would collide after rebasing.
	ErrDuplicateTextureID = errors.New("duplicate texture id")
	// ErrDDSHeaderRead indicates DDS header read failed.
	ErrDDSHeaderRead = errors.New("reading DDS header failed")
	// ErrDDSDX10Read indicates DDS DX10 header read failed.
	ErrDDSDX10Read = errors.New("reading DDS DX10 header failed")
	// ErrDDSDataRead indicates DDS mip data read failed.
	ErrDDSDataRead = errors.New("reading DDS data failed")
	// ErrWriteDDSMagic indicates DDS magic write failed.
	ErrWriteDDSMagic = errors.New("writing DDS magic failed")
	// ErrWriteDDSHeader indicates DDS header write failed.
	ErrWriteDDSHeader = errors.New("writing DDS header failed")
	// ErrWriteDDSData indicates DDS payload write failed.
	ErrWriteDDSData = errors.New("writing DDS data failed")
	// ErrMipLevel indicates a mip level outside the texture's chain.
	ErrMipLevel = errors.New("mip level out of range")
	// ErrDecodeImage indicates image decode failed.
	ErrDecodeImage = errors.New("decode image failed")
)
