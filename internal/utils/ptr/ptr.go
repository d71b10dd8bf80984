// Package ptr converts between values and the optional pointer fields of
// sample sheet payloads.
package ptr

// To creates a pointer to the given value.
func To[T any](v T) *T {
	return &v
}

// NonZero returns a pointer to v, or nil for the zero value. Blank barcode
// cells serialize as null rather than "".
func NonZero[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}
	return &v
}

// Deref returns *p, or the zero value when p is nil.
func Deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// DerefOr returns *p, or def when p is nil.
func DerefOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
