package layout

import "unicode/utf16"

// DefaultSeed is used when Options carries no seed.
const DefaultSeed uint32 = 1

// Rand is a small deterministic generator (Mulberry32) over 32 bits of
// state. The zero value is usable and equivalent to NewRand(0).
type Rand struct {
	state uint32
}

// NewRand returns a generator seeded with seed.
func NewRand(seed uint32) *Rand {
	return &Rand{state: seed}
}

// Reseed resets the generator to seed.
func (r *Rand) Reseed(seed uint32) {
	r.state = seed
}

// Uint32 returns the next 32 random bits.
func (r *Rand) Uint32() uint32 {
	r.state += 0x6d2b79f5
	t := r.state
	x := (t ^ (t >> 15)) * (1 | t)
	x ^= x + (x^(x>>7))*(61|x)
	return x ^ (x >> 14)
}

// Float64 returns a value in [0, 1).
func (r *Rand) Float64() float64 {
	return float64(r.Uint32()) / 4294967296
}

// SeedFromString derives a seed from s with 32-bit FNV-1a over its UTF-16
// code units. Different orderings of the same characters give different
// seeds.
func SeedFromString(s string) uint32 {
	h := uint32(2166136261)
	for _, u := range utf16.Encode([]rune(s)) {
		h ^= uint32(u)
		h *= 16777619
	}
	return h
}
