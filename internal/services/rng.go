package services

import "math/rand"

// defaultSeed replaces a zero seed so that "no seed given" is still reproducible.
const defaultSeed int64 = 1

// NewRand returns a deterministic random source. A zero seed maps to defaultSeed.
// A *rand.Rand is not safe for concurrent use; give each heuristic its own.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = defaultSeed
	}
	return rand.New(rand.NewSource(seed))
}

// DeriveSeed mixes a parent seed and a stream id into an independent seed
// (SplitMix64 finalizer), so heuristics built from one base seed do not share
// a correlated stream.
func DeriveSeed(parent int64, stream uint64) int64 {
	x := uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return int64(x)
}

// shuffleTail performs a Fisher-Yates shuffle of a[from:] in place.
func shuffleTail(a []int, from int, rng *rand.Rand) {
	for i := len(a) - 1; i > from; i-- {
		j := from + rng.Intn(i-from+1)
		a[i], a[j] = a[j], a[i]
	}
}
