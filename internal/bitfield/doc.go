// Package bitfield packs and unpacks integers at arbitrary bit offsets.
//
// Little endian fields fill each byte starting at its least significant bit;
// big endian fields start at the most significant bit. A field of n bits
// starting at bit s occupies bytes s/8 through (s+n-1)/8.
//
// This package is internal to stream.
package bitfield
