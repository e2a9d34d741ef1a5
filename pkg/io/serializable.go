package io

// Writable is implemented by values that know how to put themselves into the
// binary stream.
type Writable interface {
	EncodeBinary(*BinWriter)
}

// Readable is implemented by pointers to values that know how to restore
// themselves from the binary stream. Any decoding error is reported via
// BinReader's Err.
type Readable interface {
	DecodeBinary(*BinReader)
}

// Serializable defines the binary encoding/decoding interface.
type Serializable interface {
	Readable
	Writable
}

// Decodable is a constraint for a pointer to T that can be decoded into. It
// allows generic code to create T values and fill them from the stream.
type Decodable[T any] interface {
	*T
	Readable
}

// Element is a constraint for a pointer to T that can be both encoded and
// decoded. Composite codec types use it for their elements.
type Element[T any] interface {
	*T
	Serializable
}
