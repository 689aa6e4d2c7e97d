package domain

import "math/rand"

// Shuffle permutes s in place using the provided source.
func Shuffle[T any](rng *rand.Rand, s []T) {
	rng.Shuffle(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })
}

// Shuffled returns a shuffled copy of s, leaving the input untouched.
func Shuffled[T any](rng *rand.Rand, s []T) []T {
	out := append([]T(nil), s...)
	Shuffle(rng, out)
	return out
}
