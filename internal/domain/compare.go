package domain

// equalPtr reports whether both pointers are nil or both point to equal values.
func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// equalOrOneNil reports whether the values are equal or at least one is absent.
func equalOrOneNil[T comparable](a, b *T) bool {
	return a == nil || b == nil || *a == *b
}

// firstNonNil prefers a concrete value, a's over b's.
func firstNonNil[T any](a, b *T) *T {
	if a != nil {
		return a
	}
	return b
}

// equalOrOneEmpty reports whether the slices are equal or at least one is empty.
func equalOrOneEmpty[S ~[]E, E any](a, b S, eq func(E, E) bool) bool {
	if len(a) == 0 || len(b) == 0 {
		return true
	}
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !eq(a[i], b[i]) {
			return false
		}
	}
	return true
}

func eq[T comparable](a, b T) bool {
	return a == b
}
