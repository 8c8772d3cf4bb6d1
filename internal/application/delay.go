package application

import (
	"math"
	"math/rand"
	"time"
)

const (
	DefaultDelayMeanMinutes   = 10.0
	DefaultDelayStdDevMinutes = 15.0
)

// DelayGenerator draws polling delays from a normal distribution so the
// polling cadence has no fixed pattern.
type DelayGenerator struct {
	mean   float64
	stdDev float64
	rng    *rand.Rand
}

// NewDelayGenerator seeds from the current time when src is nil.
func NewDelayGenerator(mean, stdDev float64, src rand.Source) *DelayGenerator {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &DelayGenerator{mean: mean, stdDev: stdDev, rng: rand.New(src)}
}

// Minutes returns a non-negative whole number of minutes. Negative and NaN
// draws clamp to zero; draws beyond math.MaxInt clamp to math.MaxInt.
func (g *DelayGenerator) Minutes() int {
	x := g.sample()
	switch {
	case x < 0 || math.IsNaN(x):
		return 0
	case x >= math.MaxInt:
		return math.MaxInt
	}
	return int(x)
}

func (g *DelayGenerator) sample() float64 {
	return g.rng.NormFloat64()*g.stdDev + g.mean
}
