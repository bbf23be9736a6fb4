package nut

// Channel-rotated formats store each 4-byte pixel shifted by one byte
// relative to the in-memory order. A trailing partial pixel is left alone.

// rotateFromDisk moves channel 0 to channel 3 in place.
func rotateFromDisk(mip []byte) {
	for t := 0; t+4 <= len(mip); t += 4 {
		mip[t], mip[t+1], mip[t+2], mip[t+3] = mip[t+1], mip[t+2], mip[t+3], mip[t]
	}
}

// rotatedToDisk returns a copy of mip with channel 3 moved to channel 0.
// It is the exact inverse of rotateFromDisk, so files written here match
// the channel order existing tools write and read back unchanged.
func rotatedToDisk(mip []byte) []byte {
	out := make([]byte, len(mip))
	copy(out, mip)
	for t := 0; t+4 <= len(out); t += 4 {
		out[t], out[t+1], out[t+2], out[t+3] = out[t+3], out[t], out[t+1], out[t+2]
	}

	return out
}
