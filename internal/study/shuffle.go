package study

import "math/rand"

// Shuffle returns a uniformly shuffled copy of items (Fisher-Yates).
// The input slice is never modified.
func Shuffle[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// PickRandom returns up to count items sampled uniformly without
// replacement. When count exceeds the input length, a copy of the whole
// input is returned (in shuffled order only when sampling was needed).
func PickRandom[T any](items []T, count int) []T {
	if count <= 0 {
		return []T{}
	}
	if len(items) <= count {
		out := make([]T, len(items))
		copy(out, items)
		return out
	}
	return Shuffle(items)[:count]
}
