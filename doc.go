/*
Package nut reads and writes NUT texture containers as used by console
fighting games.

A container holds a list of textures, each addressed by a 32-bit hash ID.
Every texture is either a single surface or a six face cubemap, and every
surface holds the same mip chain. Three on-disk variants exist:

  - NTP3: big endian, DDS style payloads.
  - NTWD: little endian, DDS style payloads.
  - NTWU: big endian, GX2 tiled payloads. Decoding needs a DeswizzleFunc.

Files may be wrapped in zlib, LZ4, zstd or Yaz0; Decode and ReadFile unwrap
them transparently and EncodeOptions.Compression wraps the output.

Mipmaps are kept in memory channel order. Formats stored channel rotated on
disk (RGBA8 codes 14 and 17) are rotated on decode and encode; the caller's
textures are never modified by Encode.

TranscodeDDS and ReadDDS convert single-surface textures to and from DDS
images, and Texture.Image decodes a mip level for preview.
*/
package nut
