package io

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"unicode/utf8"
)

// MaxArraySize is the default limit for any length-prefixed value (number of
// bytes for strings and byte slices, number of elements for arrays and maps)
// that can be decoded.
const MaxArraySize = 0x1000000

// preallocLimit is the maximum number of elements reserved for an array or a
// map before they're actually read from the stream.
const preallocLimit = 1024

// BinReader is a convenient wrapper around a io.Reader and err object.
// Used to simplify error handling when reading into a struct with many fields.
// Once Err is set, all subsequent reads are no-ops returning zero values.
type BinReader struct {
	r       io.Reader
	uv      [8]byte
	maxSize int
	Err     error
}

// NewBinReaderFromIO makes a BinReader from io.Reader.
func NewBinReaderFromIO(ior io.Reader) *BinReader {
	return &BinReader{r: ior}
}

// NewBinReaderFromBuf makes a BinReader from byte buffer.
func NewBinReaderFromBuf(b []byte) *BinReader {
	return NewBinReaderFromIO(bytes.NewReader(b))
}

// SetMaxSize sets the limit for length prefixes read without an explicit
// one. Non-positive n restores MaxArraySize.
func (r *BinReader) SetMaxSize(n int) {
	r.maxSize = n
}

// MaxSize returns the limit used for length prefixes read without an
// explicit one.
func (r *BinReader) MaxSize() int {
	if r.maxSize > 0 {
		return r.maxSize
	}
	return MaxArraySize
}

// ReadBytes fills b with exactly len(b) bytes from the underlying io.Reader.
// io.EOF is set if no bytes were available, io.ErrUnexpectedEOF if only some
// of them were.
func (r *BinReader) ReadBytes(b []byte) {
	if r.Err != nil {
		return
	}
	_, r.Err = io.ReadFull(r.r, b)
}

// ReadB reads a byte from the underlying io.Reader.
func (r *BinReader) ReadB() byte {
	r.ReadBytes(r.uv[:1])
	if r.Err != nil {
		return 0
	}
	return r.uv[0]
}

// ReadU16LE reads a little-endian encoded uint16 value from the underlying
// io.Reader.
func (r *BinReader) ReadU16LE() uint16 {
	r.ReadBytes(r.uv[:2])
	if r.Err != nil {
		return 0
	}
	return binary.LittleEndian.Uint16(r.uv[:2])
}

// ReadU32LE reads a little-endian encoded uint32 value from the underlying
// io.Reader.
func (r *BinReader) ReadU32LE() uint32 {
	r.ReadBytes(r.uv[:4])
	if r.Err != nil {
		return 0
	}
	return binary.LittleEndian.Uint32(r.uv[:4])
}

// ReadU64LE reads a little-endian encoded uint64 value from the underlying
// io.Reader.
func (r *BinReader) ReadU64LE() uint64 {
	r.ReadBytes(r.uv[:8])
	if r.Err != nil {
		return 0
	}
	return binary.LittleEndian.Uint64(r.uv[:8])
}

// ReadBool reads a boolean value encoded in a zero/non-zero byte from the
// underlying io.Reader.
func (r *BinReader) ReadBool() bool {
	return r.ReadB() != 0
}

// ReadSize reads a size value (uint64 on the wire) and converts it to int.
// Values that don't fit into int set ErrUnsupportedSize.
func (r *BinReader) ReadSize() int {
	u := r.ReadU64LE()
	if r.Err != nil {
		return 0
	}
	if u > math.MaxInt {
		r.Err = fmt.Errorf("%w: %d doesn't fit into int", ErrUnsupportedSize, u)
		return 0
	}
	return int(u)
}

// readLen reads a length prefix and checks it against the limit, which is
// r.MaxSize() unless specified by the caller.
func (r *BinReader) readLen(what string, maxSize []int) int {
	n := r.ReadSize()
	if r.Err != nil {
		return 0
	}
	ms := r.MaxSize()
	if len(maxSize) != 0 {
		ms = maxSize[0]
	}
	if n > ms {
		r.Err = fmt.Errorf("%w: %s is too big (%d > %d)", ErrTooLarge, what, n, ms)
		return 0
	}
	return n
}

// readExact reads n bytes growing the buffer as the data arrives, so that a
// bogus length can't make it allocate more than the stream actually has.
func (r *BinReader) readExact(n int) []byte {
	if r.Err != nil {
		return nil
	}
	if n == 0 {
		return []byte{}
	}
	var buf bytes.Buffer
	buf.Grow(min(n, bytes.MinRead))
	m, err := io.CopyN(&buf, r.r, int64(n))
	if err != nil {
		if errors.Is(err, io.EOF) && m > 0 {
			err = io.ErrUnexpectedEOF
		}
		r.Err = err
		return nil
	}
	return buf.Bytes()
}

// ReadVarBytes reads a size-prefixed byte slice from the underlying reader.
// The size can't exceed r.MaxSize() unless the limit is given explicitly.
func (r *BinReader) ReadVarBytes(maxSize ...int) []byte {
	n := r.readLen("byte-slice", maxSize)
	return r.readExact(n)
}

// ReadString reads a size-prefixed UTF-8 string. All the declared bytes are
// consumed even if they're not valid UTF-8, in which case ErrInvalidData is
// set and an empty string is returned.
func (r *BinReader) ReadString(maxSize ...int) string {
	n := r.readLen("string", maxSize)
	b := r.readExact(n)
	if r.Err != nil {
		return ""
	}
	if !utf8.Valid(b) {
		r.Err = fmt.Errorf("%w: string is not valid UTF-8", ErrInvalidData)
		return ""
	}
	return string(b)
}

// ReadArray reads a size-prefixed sequence of T. Decoding stops at the first
// failing element and nil is returned in this case.
func ReadArray[T any, PT Decodable[T]](r *BinReader, maxSize ...int) []T {
	n := r.readLen("array", maxSize)
	if r.Err != nil {
		return nil
	}
	arr := make([]T, 0, min(n, preallocLimit))
	for i := 0; i < n; i++ {
		var elem T
		PT(&elem).DecodeBinary(r)
		if r.Err != nil {
			return nil
		}
		arr = append(arr, elem)
	}
	return arr
}

// ReadFixedArray reads a size-prefixed sequence into dst. The size stored in
// the stream must be exactly len(dst), ErrInvalidData is set otherwise.
func ReadFixedArray[T any, PT Decodable[T]](r *BinReader, dst []T) {
	n := r.ReadSize()
	if r.Err != nil {
		return
	}
	if n != len(dst) {
		r.Err = fmt.Errorf("%w: fixed array length mismatch (%d != %d)", ErrInvalidData, n, len(dst))
		return
	}
	for i := range dst {
		PT(&dst[i]).DecodeBinary(r)
		if r.Err != nil {
			return
		}
	}
}

// ReadMap reads a size-prefixed sequence of key-value pairs. If the same key
// is encountered more than once, the last value wins.
func ReadMap[K comparable, V any, PK Decodable[K], PV Decodable[V]](r *BinReader, maxSize ...int) map[K]V {
	n := r.readLen("map", maxSize)
	if r.Err != nil {
		return nil
	}
	m := make(map[K]V, min(n, preallocLimit))
	for i := 0; i < n; i++ {
		var (
			k K
			v V
		)
		PK(&k).DecodeBinary(r)
		PV(&v).DecodeBinary(r)
		if r.Err != nil {
			return nil
		}
		m[k] = v
	}
	return m
}

// ReadOptional reads a presence flag followed by T if it's set. It returns
// nil for absent values and on error.
func ReadOptional[T any, PT Decodable[T]](r *BinReader) *T {
	if !r.ReadBool() || r.Err != nil {
		return nil
	}
	return ReadBox[T, PT](r)
}

// ReadBox reads T and returns a pointer to it (nil on error).
func ReadBox[T any, PT Decodable[T]](r *BinReader) *T {
	if r.Err != nil {
		return nil
	}
	v := new(T)
	PT(v).DecodeBinary(r)
	if r.Err != nil {
		return nil
	}
	return v
}
