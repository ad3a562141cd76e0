// Package rng implements the keyed pseudo-random stream that seeds every
// synthetic water series. Arithmetic is 32-bit unsigned with wraparound, so
// a key produces the same draws on every platform and in the browser client.
package rng

import (
	"unicode/utf16"
)

const (
	foldOffset = 2166136261 // 0x811C9DC5
	foldPrime  = 16777619   // 0x01000193
	weylStep   = 0x6D2B79F5
	twoPow32   = 4294967296.0
)

// Fold reduces a key to a 32-bit seed with FNV-1a over its UTF-16 code units.
// Characters outside the BMP contribute both surrogate halves.
func Fold(key string) uint32 {
	h := uint32(foldOffset)
	for _, r := range key {
		if r > 0xFFFF {
			hi, lo := utf16.EncodeRune(r)
			h = (h ^ uint32(hi)) * foldPrime
			h = (h ^ uint32(lo)) * foldPrime
			continue
		}
		h = (h ^ uint32(r)) * foldPrime
	}
	return h
}

// Stream is one seeded sequence. It is not safe for concurrent use; each
// caller owns its own stream.
type Stream struct {
	state uint32
	draws int
}

// NewStream seeds a stream from key. Any string, including "", is valid.
func NewStream(key string) *Stream {
	return &Stream{state: Fold(key)}
}

// Next advances the stream and returns a value in [0, 1).
func (s *Stream) Next() float64 {
	s.state += weylStep
	s.draws++

	h := s.state
	t := (h ^ (h >> 15)) * (1 | h)
	t ^= t + (t^(t>>7))*(61|t)
	return float64(t^(t>>14)) / twoPow32
}

// Draws reports how many values have been taken from the stream.
func (s *Stream) Draws() int {
	return s.draws
}

// Seeded returns the draw function for key.
func Seeded(key string) func() float64 {
	return NewStream(key).Next
}
