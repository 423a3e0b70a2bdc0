package resource

import "encoding/binary"

// Uint32 reads one little-endian uint32 and advances the cursor.
func (r *Reader) Uint32() (uint32, error) {
	b, err := r.Bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// Uint16 reads one little-endian uint16 and advances the cursor.
func (r *Reader) Uint16() (uint16, error) {
	b, err := r.Bytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// Uint8 reads one byte and advances the cursor.
func (r *Reader) Uint8() (uint8, error) {
	b, err := r.Bytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Uint16Array reads count little-endian uint16 values as a zero-copy
// slice. Only valid on little-endian hosts; spec §6 fixes the wire
// format to little-endian, matching every platform this module targets.
func (r *Reader) Uint16Array(count int64) ([]uint16, error) {
	return Slice[uint16](r, count)
}

// Uint32Array reads count little-endian uint32 values as a zero-copy
// slice.
func (r *Reader) Uint32Array(count int64) ([]uint32, error) {
	return Slice[uint32](r, count)
}
