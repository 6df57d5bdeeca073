package common

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
//
// Parameters:
//   - values: a variadic list of values to check for non-zero status
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// NewKeys returns the distinct values of keys that are not present in seen, in first-seen order.
// The returned keys are also added to seen.
//
// Parameters:
//   - seen: the set of keys already accounted for (mutated)
//   - keys: candidate keys, possibly with duplicates
//
// Returns:
//   - []T: keys not previously in seen
func NewKeys[T comparable](seen map[T]struct{}, keys ...T) []T {
	var fresh []T
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		fresh = append(fresh, k)
	}
	return fresh
}
