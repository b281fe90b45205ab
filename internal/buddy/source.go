package buddy

import (
	"math/rand"
	"sync"
	"time"
)

// Random picks template indexes and typing jitter.
type Random interface {
	// Intn returns a value in [0, n). n is always > 0.
	Intn(n int) int
}

// Clock schedules the simulated typing delay.
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom returns a Random seeded from the wall clock.
func NewRandom() Random {
	return &lockedRand{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (r *lockedRand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(n)
}

type systemClock struct{}

// SystemClock waits on real timers.
func SystemClock() Clock {
	return systemClock{}
}

func (systemClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}
