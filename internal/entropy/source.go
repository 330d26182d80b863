// Package entropy provides injectable randomness for the consequence
// policies (witness reporting, black-market detection, background
// traffic). Callers never sample global state; every stochastic
// decision takes a Source so tests and replays can pin the outcome.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	"math"
	mrand "math/rand"
	"sync"
)

// Source yields random values. Implementations must be safe for use
// from the single simulation goroutine; Seeded adds a lock so it can
// also back the HTTP layer.
type Source interface {
	// Float returns a uniform value in [0, 1).
	Float() float64
	// Normal returns a standard normal value.
	Normal() float64
}

// Seeded returns a deterministic Source for reproducible simulations.
func Seeded(seed int64) Source {
	return &seeded{rng: mrand.New(mrand.NewSource(seed))}
}

type seeded struct {
	mu  sync.Mutex
	rng *mrand.Rand
}

func (s *seeded) Float() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

func (s *seeded) Normal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.NormFloat64()
}

// Crypto returns a Source backed by crypto/rand, for runs where
// reproducibility is not wanted.
func Crypto() Source {
	return cryptoSource{}
}

type cryptoSource struct{}

func (cryptoSource) Float() float64 {
	return cryptoFloat()
}

func (cryptoSource) Normal() float64 {
	// Box-Muller over two uniform draws.
	u1 := cryptoFloat()
	u2 := cryptoFloat()
	if u1 <= 0 {
		u1 = math.SmallestNonzeroFloat64
	}
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

func cryptoFloat() float64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// Should never happen; 0.5 is a safe neutral draw.
		return 0.5
	}
	// Use only 53 bits for a uniform float64 in [0, 1).
	n := binary.LittleEndian.Uint64(buf[:]) >> 11
	return float64(n) / float64(1<<53)
}

// Fixed is a Source that always draws the same uniform value. A Fixed
// of 0.5 makes every "probability >= 0.5" policy fire deterministically,
// matching threshold-style decision semantics.
type Fixed float64

func (f Fixed) Float() float64 {
	return float64(f)
}

func (f Fixed) Normal() float64 {
	return 0
}
