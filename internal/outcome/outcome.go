// Package outcome draws the hidden card color committed at round start.
package outcome

import (
	crand "crypto/rand"
	"fmt"
	rand "math/rand/v2"
)

// Color is the hidden binary value a player must guess.
type Color string

const (
	White Color = "white"
	Black Color = "black"
)

// Parse converts a wire value into a Color.
func Parse(s string) (Color, error) {
	switch Color(s) {
	case White:
		return White, nil
	case Black:
		return Black, nil
	default:
		return "", fmt.Errorf("invalid color %q", s)
	}
}

func (c Color) String() string {
	return string(c)
}

// Opposite returns the other color.
func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

// Drawer produces one equiprobable color per call. The committed color is
// drawn exactly once per round, at round start.
type Drawer interface {
	Draw() Color
}

// CryptoDrawer draws from the operating system entropy source, making the
// committed color unpredictable ahead of the draw.
type CryptoDrawer struct{}

func NewCryptoDrawer() CryptoDrawer {
	return CryptoDrawer{}
}

func (CryptoDrawer) Draw() Color {
	var b [1]byte
	// crypto/rand.Read never returns an error as of Go 1.24.
	_, _ = crand.Read(b[:])
	if b[0]&1 == 0 {
		return White
	}
	return Black
}

const goldenRatio64 = 0x9e3779b97f4a7c15

// SeededDrawer produces a reproducible color sequence from an int64 seed.
// The seed is expanded into the two 64-bit PCG seeds with a splitmix-style
// mixer so all call sites get the same derivation.
type SeededDrawer struct {
	rng *rand.Rand
}

func NewSeededDrawer(seed int64) *SeededDrawer {
	u := uint64(seed)
	return &SeededDrawer{rng: rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))}
}

func (d *SeededDrawer) Draw() Color {
	if d.rng.Uint64()&1 == 0 {
		return White
	}
	return Black
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
