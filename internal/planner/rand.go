package planner

import "math/rand"

// Rand is the random source behind the two jittered decisions the engine
// makes (base trip length, synthetic coordinates). Tests inject a seeded or
// constant implementation; the contract everywhere is only "a value in
// range", never a specific draw.
type Rand interface {
	// Float64 returns a value in [0,1).
	Float64() float64
	// Intn returns a value in [0,n).
	Intn(n int) int
}

type mathRand struct{ r *rand.Rand }

func (m mathRand) Float64() float64 { return m.r.Float64() }
func (m mathRand) Intn(n int) int   { return m.r.Intn(n) }

// NewRand returns a math/rand backed source with the given seed.
func NewRand(seed int64) Rand {
	return mathRand{r: rand.New(rand.NewSource(seed))}
}
