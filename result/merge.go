package result

// Merge combines two Results whose failures are message lists. It returns a
// when both succeed, otherwise a Failure holding the concatenation of every
// failure list among the inputs in argument order.
func Merge[T any](a, b Result[T, []string]) Result[T, []string] {
	switch {
	case a.ok && b.ok:
		return a
	case a.ok:
		return Failure[T](append([]string(nil), b.err...))
	case b.ok:
		return Failure[T](append([]string(nil), a.err...))
	}

	msgs := make([]string, 0, len(a.err)+len(b.err))
	msgs = append(msgs, a.err...)
	msgs = append(msgs, b.err...)
	return Failure[T](msgs)
}

// MergeAll folds Merge over rs starting from Success of the zero value, so
// that independent checks accumulate their failures instead of stopping at
// the first one.
func MergeAll[T any](rs ...Result[T, []string]) Result[T, []string] {
	var zero T
	acc := Success[T, []string](zero)
	for _, r := range rs {
		acc = Merge(acc, r)
	}
	return acc
}
