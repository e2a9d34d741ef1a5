package io

// Codec-aware versions of the basic types. They can be converted to and from
// the respective Go types freely and serve as elements of Array, Map,
// Optional and Box.
type (
	// U8 is an 8-bit unsigned integer written as is.
	U8 uint8
	// U16 is a 16-bit unsigned integer in little-endian format.
	U16 uint16
	// U32 is a 32-bit unsigned integer in little-endian format.
	U32 uint32
	// U64 is a 64-bit unsigned integer in little-endian format.
	U64 uint64
	// Bool is a boolean written as a 0/1 byte.
	Bool bool
	// Size is a length or a count, written as U64.
	Size int
	// String is a size-prefixed UTF-8 string.
	String string
	// Bytes is a size-prefixed byte slice.
	Bytes []byte
)

// SizeLen is the number of bytes taken by a size value.
const SizeLen = 8

// EncodeBinary implements the Writable interface.
func (v U8) EncodeBinary(w *BinWriter) { w.WriteB(uint8(v)) }

// DecodeBinary implements the Readable interface.
func (v *U8) DecodeBinary(r *BinReader) { *v = U8(r.ReadB()) }

// Size returns the encoded size of v.
func (U8) Size() int { return 1 }

// EncodeBinary implements the Writable interface.
func (v U16) EncodeBinary(w *BinWriter) { w.WriteU16LE(uint16(v)) }

// DecodeBinary implements the Readable interface.
func (v *U16) DecodeBinary(r *BinReader) { *v = U16(r.ReadU16LE()) }

// Size returns the encoded size of v.
func (U16) Size() int { return 2 }

// EncodeBinary implements the Writable interface.
func (v U32) EncodeBinary(w *BinWriter) { w.WriteU32LE(uint32(v)) }

// DecodeBinary implements the Readable interface.
func (v *U32) DecodeBinary(r *BinReader) { *v = U32(r.ReadU32LE()) }

// Size returns the encoded size of v.
func (U32) Size() int { return 4 }

// EncodeBinary implements the Writable interface.
func (v U64) EncodeBinary(w *BinWriter) { w.WriteU64LE(uint64(v)) }

// DecodeBinary implements the Readable interface.
func (v *U64) DecodeBinary(r *BinReader) { *v = U64(r.ReadU64LE()) }

// Size returns the encoded size of v.
func (U64) Size() int { return 8 }

// EncodeBinary implements the Writable interface.
func (v Bool) EncodeBinary(w *BinWriter) { w.WriteBool(bool(v)) }

// DecodeBinary implements the Readable interface.
func (v *Bool) DecodeBinary(r *BinReader) { *v = Bool(r.ReadBool()) }

// Size returns the encoded size of v.
func (Bool) Size() int { return 1 }

// EncodeBinary implements the Writable interface.
func (v Size) EncodeBinary(w *BinWriter) { w.WriteSize(int(v)) }

// DecodeBinary implements the Readable interface.
func (v *Size) DecodeBinary(r *BinReader) { *v = Size(r.ReadSize()) }

// Size returns the encoded size of v.
func (Size) Size() int { return SizeLen }

// EncodeBinary implements the Writable interface.
func (v String) EncodeBinary(w *BinWriter) { w.WriteString(string(v)) }

// DecodeBinary implements the Readable interface.
func (v *String) DecodeBinary(r *BinReader) { *v = String(r.ReadString()) }

// Size returns the encoded size of v.
func (v String) Size() int { return SizeLen + len(v) }

// EncodeBinary implements the Writable interface.
func (v Bytes) EncodeBinary(w *BinWriter) { w.WriteVarBytes(v) }

// DecodeBinary implements the Readable interface.
func (v *Bytes) DecodeBinary(r *BinReader) { *v = r.ReadVarBytes() }

// Size returns the encoded size of v.
func (v Bytes) Size() int { return SizeLen + len(v) }
