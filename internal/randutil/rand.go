// Package randutil builds the seeded generators behind deck shuffles and bot
// choices.
package randutil

import rand "math/rand/v2"

// weyl is the 64-bit golden-ratio increment used to space seed streams
const weyl = 0x9e3779b97f4a7c15

// New returns a PCG generator for seed. Equal seeds replay the same deals.
func New(seed int64) *rand.Rand {
	s := uint64(seed)
	return rand.New(rand.NewPCG(splitmix(s), splitmix(s+weyl)))
}

// Derive returns the seed of stream n below seed, so each game and each
// bot seat gets a generator of its own.
func Derive(seed int64, n int) int64 {
	return int64(splitmix(uint64(seed) + uint64(n+1)*weyl))
}

// splitmix is the SplitMix64 finaliser
func splitmix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
