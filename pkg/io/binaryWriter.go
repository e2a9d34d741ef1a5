package io

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// BinWriter is a convenient wrapper around an io.Writer and err object.
// Used to simplify error handling when writing into an io.Writer
// from a struct with many fields. Bytes written before an error are not
// rolled back, the underlying io.Writer keeps whatever it has received.
type BinWriter struct {
	w   io.Writer
	Err error
	uv  [8]byte
}

// Encodable is a constraint for a pointer to T that can be encoded.
type Encodable[T any] interface {
	*T
	Writable
}

// NewBinWriterFromIO makes a BinWriter from io.Writer.
func NewBinWriterFromIO(iow io.Writer) *BinWriter {
	return &BinWriter{w: iow}
}

// WriteU64LE writes a uint64 value into the underlying io.Writer in
// little-endian format.
func (w *BinWriter) WriteU64LE(u64 uint64) {
	binary.LittleEndian.PutUint64(w.uv[:8], u64)
	w.WriteBytes(w.uv[:8])
}

// WriteU32LE writes a uint32 value into the underlying io.Writer in
// little-endian format.
func (w *BinWriter) WriteU32LE(u32 uint32) {
	binary.LittleEndian.PutUint32(w.uv[:4], u32)
	w.WriteBytes(w.uv[:4])
}

// WriteU16LE writes a uint16 value into the underlying io.Writer in
// little-endian format.
func (w *BinWriter) WriteU16LE(u16 uint16) {
	binary.LittleEndian.PutUint16(w.uv[:2], u16)
	w.WriteBytes(w.uv[:2])
}

// WriteB writes a byte into the underlying io.Writer.
func (w *BinWriter) WriteB(u8 byte) {
	w.uv[0] = u8
	w.WriteBytes(w.uv[:1])
}

// WriteBool writes a boolean value into the underlying io.Writer encoded as
// a byte with values of 0 or 1.
func (w *BinWriter) WriteBool(b bool) {
	var i byte
	if b {
		i = 1
	}
	w.WriteB(i)
}

// WriteSize writes a size value as uint64. Negative sizes are not
// representable and set ErrUnsupportedSize.
func (w *BinWriter) WriteSize(n int) {
	if w.Err != nil {
		return
	}
	if n < 0 {
		w.Err = fmt.Errorf("%w: negative size %d", ErrUnsupportedSize, n)
		return
	}
	w.WriteU64LE(uint64(n))
}

// WriteArray writes a slice arr into w prefixed with its length. Note that
// nil slices and empty slices are gonna be treated the same resulting in an
// equal zero-length array encoded.
func WriteArray[Slice ~[]E, E Writable](w *BinWriter, arr Slice) {
	w.WriteSize(len(arr))
	for i := range arr {
		if w.Err != nil {
			return
		}
		arr[i].EncodeBinary(w)
	}
}

// WriteMap writes a map m into w prefixed with the number of pairs. Pairs
// are written in map iteration order which is not stable between calls.
func WriteMap[M ~map[K]V, K interface {
	comparable
	Writable
}, V Writable](w *BinWriter, m M) {
	w.WriteSize(len(m))
	for k, v := range m {
		if w.Err != nil {
			return
		}
		k.EncodeBinary(w)
		v.EncodeBinary(w)
	}
}

// WriteOptional writes a presence flag followed by *v if v is not nil.
func WriteOptional[T any, PT Encodable[T]](w *BinWriter, v *T) {
	w.WriteBool(v != nil)
	if v != nil && w.Err == nil {
		PT(v).EncodeBinary(w)
	}
}

// WriteBox writes *v exactly as T is written, the pointer itself is not
// visible in the stream. v can't be nil.
func WriteBox[T any, PT Encodable[T]](w *BinWriter, v *T) {
	if w.Err != nil {
		return
	}
	if v == nil {
		w.Err = fmt.Errorf("%w: can't write boxed %T", ErrNilPointer, v)
		return
	}
	PT(v).EncodeBinary(w)
}

// WriteBytes writes a variable byte into the underlying io.Writer without prefix.
func (w *BinWriter) WriteBytes(b []byte) {
	if w.Err != nil {
		return
	}
	_, w.Err = w.w.Write(b)
}

// WriteVarBytes writes a variable length byte array into the underlying io.Writer.
func (w *BinWriter) WriteVarBytes(b []byte) {
	w.WriteSize(len(b))
	w.WriteBytes(b)
}

// WriteString writes a variable length string into the underlying io.Writer.
func (w *BinWriter) WriteString(s string) {
	w.WriteSize(len(s))
	if w.Err != nil {
		return
	}
	_, w.Err = io.WriteString(w.w, s)
}

// Grow tries to increase the underlying buffer capacity so that at least n bytes
// can be written without reallocation. If the writer is not a buffer, this is a no-op.
func (w *BinWriter) Grow(n int) {
	if b, ok := w.w.(*bytes.Buffer); ok {
		b.Grow(n)
	}
}
