package cache

import "bytes"

// Equal reports whether a and b are the same JSON tree.
//
// Two nulls are equal, a null never equals a non-null, anything else is
// compared through its canonical serialization. A tree that cannot be
// serialized is never equal to anything.
func Equal(a, b Value) bool {
	if a.IsNull() || b.IsNull() {
		return a.IsNull() && b.IsNull()
	}

	ca, err := a.Canonical()
	if err != nil {
		return false
	}
	cb, err := b.Canonical()
	if err != nil {
		return false
	}

	return bytes.Equal(ca, cb)
}
