package io

import (
	"fmt"
	"reflect"
)

// Sizer is implemented by values that know their encoded size.
type Sizer interface {
	Size() int
}

// sizeHinter is implemented by composite types whose size is only known if
// all of their elements have a computable size.
type sizeHinter interface {
	sizeHint() (int, bool)
}

// GetSize returns the number of bytes value takes when encoded. Values
// implementing Sizer report it themselves; plain Go unsigned integers,
// booleans, ints (sizes), strings, slices, arrays and maps of those are
// handled via reflection. Non-nil pointers are treated as owned values (the
// pointer is transparent), nil pointers take no space. It panics for types
// that have no computable size.
func GetSize(value any) int {
	size, ok := sizeOf(reflect.ValueOf(value))
	if !ok {
		panic(fmt.Sprintf("unable to calculate GetSize, %T", value))
	}
	return size
}

// trySize is like GetSize, but returns false instead of panicking.
func trySize(value any) (int, bool) {
	return sizeOf(reflect.ValueOf(value))
}

func sizeOf(v reflect.Value) (int, bool) {
	if !v.IsValid() {
		return 0, false
	}
	if v.CanInterface() && (v.Kind() != reflect.Pointer || !v.IsNil()) {
		switch s := v.Interface().(type) {
		case sizeHinter:
			return s.sizeHint()
		case Sizer:
			return s.Size(), true
		}
	}
	switch v.Kind() {
	case reflect.Bool, reflect.Uint8:
		return 1, true
	case reflect.Uint16:
		return 2, true
	case reflect.Uint32:
		return 4, true
	case reflect.Uint64, reflect.Int:
		return 8, true
	case reflect.String:
		return SizeLen + v.Len(), true
	case reflect.Slice, reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return SizeLen + v.Len(), true
		}
		size := SizeLen
		for i := 0; i < v.Len(); i++ {
			s, ok := sizeOf(v.Index(i))
			if !ok {
				return 0, false
			}
			size += s
		}
		return size, true
	case reflect.Map:
		size := SizeLen
		iter := v.MapRange()
		for iter.Next() {
			ks, ok := sizeOf(iter.Key())
			if !ok {
				return 0, false
			}
			vs, ok := sizeOf(iter.Value())
			if !ok {
				return 0, false
			}
			size += ks + vs
		}
		return size, true
	case reflect.Pointer:
		if v.IsNil() {
			return 0, true
		}
		return sizeOf(v.Elem())
	default:
		return 0, false
	}
}

// mustSize returns the size hinted by h or panics if it's unknown.
func mustSize(h sizeHinter) int {
	size, ok := h.sizeHint()
	if !ok {
		panic(fmt.Sprintf("unable to calculate size of %T, element has no Size method", h))
	}
	return size
}
