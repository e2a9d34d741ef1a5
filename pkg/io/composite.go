package io

// Array is a size-prefixed sequence of T. Any Array of codec types is
// itself a codec type, so arrays can be nested or used as map values.
type Array[T any, PT Element[T]] []T

// EncodeBinary implements the Writable interface.
func (a Array[T, PT]) EncodeBinary(w *BinWriter) {
	w.WriteSize(len(a))
	for i := range a {
		if w.Err != nil {
			return
		}
		PT(&a[i]).EncodeBinary(w)
	}
}

// DecodeBinary implements the Readable interface.
func (a *Array[T, PT]) DecodeBinary(r *BinReader) {
	*a = ReadArray[T, PT](r)
}

// Size returns the encoded size of a. It panics if T's size can't be
// calculated (T has no Size method and isn't a plain Go type).
func (a Array[T, PT]) Size() int {
	return mustSize(a)
}

func (a Array[T, PT]) sizeHint() (int, bool) {
	size := SizeLen
	for i := range a {
		s, ok := trySize(PT(&a[i]))
		if !ok {
			return 0, false
		}
		size += s
	}
	return size, true
}

// Map is a size-prefixed set of key-value pairs.
type Map[K comparable, V any, PK Element[K], PV Element[V]] map[K]V

// EncodeBinary implements the Writable interface.
func (m Map[K, V, PK, PV]) EncodeBinary(w *BinWriter) {
	w.WriteSize(len(m))
	for k, v := range m {
		if w.Err != nil {
			return
		}
		PK(&k).EncodeBinary(w)
		PV(&v).EncodeBinary(w)
	}
}

// DecodeBinary implements the Readable interface.
func (m *Map[K, V, PK, PV]) DecodeBinary(r *BinReader) {
	*m = ReadMap[K, V, PK, PV](r)
}

// Size returns the encoded size of m. It panics if K's or V's size can't be
// calculated.
func (m Map[K, V, PK, PV]) Size() int {
	return mustSize(m)
}

func (m Map[K, V, PK, PV]) sizeHint() (int, bool) {
	size := SizeLen
	for k, v := range m {
		ks, ok := trySize(PK(&k))
		if !ok {
			return 0, false
		}
		vs, ok := trySize(PV(&v))
		if !ok {
			return 0, false
		}
		size += ks + vs
	}
	return size, true
}

// Optional is a value of T that may be absent (nil Value). It's written as
// a presence flag followed by the value if it's present.
type Optional[T any, PT Element[T]] struct {
	Value *T
}

// Some returns a present Optional holding v.
func Some[T any, PT Element[T]](v T) Optional[T, PT] {
	return Optional[T, PT]{Value: &v}
}

// IsSome tells whether the value is present.
func (o Optional[T, PT]) IsSome() bool {
	return o.Value != nil
}

// EncodeBinary implements the Writable interface.
func (o Optional[T, PT]) EncodeBinary(w *BinWriter) {
	WriteOptional[T, PT](w, o.Value)
}

// DecodeBinary implements the Readable interface.
func (o *Optional[T, PT]) DecodeBinary(r *BinReader) {
	o.Value = ReadOptional[T, PT](r)
}

// Size returns the encoded size of o. It panics if T's size can't be
// calculated.
func (o Optional[T, PT]) Size() int {
	return mustSize(o)
}

func (o Optional[T, PT]) sizeHint() (int, bool) {
	if o.Value == nil {
		return 1, true
	}
	s, ok := trySize(PT(o.Value))
	return 1 + s, ok
}

// Box is an owned indirect T. It's written exactly as T itself.
type Box[T any, PT Element[T]] struct {
	Value *T
}

// NewBox returns a Box holding v.
func NewBox[T any, PT Element[T]](v T) Box[T, PT] {
	return Box[T, PT]{Value: &v}
}

// EncodeBinary implements the Writable interface. Nil Value sets
// ErrNilPointer.
func (b Box[T, PT]) EncodeBinary(w *BinWriter) {
	WriteBox[T, PT](w, b.Value)
}

// DecodeBinary implements the Readable interface.
func (b *Box[T, PT]) DecodeBinary(r *BinReader) {
	b.Value = ReadBox[T, PT](r)
}

// Size returns the encoded size of b. It panics if T's size can't be
// calculated.
func (b Box[T, PT]) Size() int {
	return mustSize(b)
}

func (b Box[T, PT]) sizeHint() (int, bool) {
	if b.Value == nil {
		return 0, true
	}
	return trySize(PT(b.Value))
}
