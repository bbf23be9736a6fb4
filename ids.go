package nut

import "fmt"

// ChangeTextureIDs rebases every hash ID onto newID: the upper three bytes
// are taken from newID and the low byte of each ID is kept. It refuses to
// change anything when two textures share a low byte, since they would end
// up with the same ID.
func (f *File) ChangeTextureIDs(newID uint32) error {
	if f.HasDuplicateLowByte() {
		return fmt.Errorf("%w: textures share a low byte", ErrDuplicateTextureID)
	}

	base := newID &^ 0xff
	for i := range f.Textures {
		f.Textures[i].HashID = base | f.Textures[i].HashID&0xff
	}

	return nil
}

// HasDuplicateLowByte reports whether two textures share the low byte of
// their hash IDs.
func (f *File) HasDuplicateLowByte() bool {
	var seen [256]bool
	for _, t := range f.Textures {
		b := t.HashID & 0xff
		if seen[b] {
			return true
		}
		seen[b] = true
	}

	return false
}
