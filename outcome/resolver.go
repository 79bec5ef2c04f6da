// Package outcome decides who wins a single match.
package outcome

import (
	"errors"
	"math/rand"
	"sync"
	"time"
)

const (
	// DefaultWinningPercentage используется, если у участника нет процента побед.
	DefaultWinningPercentage = 50.0

	skillWeight = 0.2
	luckWeight  = 0.8
)

var ErrSameCompetitor = errors.New("a competitor cannot face itself")

// Rand is the random source consumed by Resolve. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// Competitor is a snapshot of one side of a match.
type Competitor struct {
	ID                int
	WinningPercentage *float64
}

func NewCompetitor(id int, winningPercentage float64) Competitor {
	return Competitor{ID: id, WinningPercentage: &winningPercentage}
}

func (c Competitor) percentage() float64 {
	if c.WinningPercentage == nil {
		return DefaultWinningPercentage
	}
	return *c.WinningPercentage
}

// Result holds the decided winner together with the blended probability A had.
type Result struct {
	WinnerID     int
	LoserID      int
	ProbabilityA float64
}

// Probability returns A's final win probability for a given luck draw r.
// Skill share weighs 20%, the luck draw 80%, and the pair is renormalized to sum to 1.
func Probability(a, b Competitor, r float64) float64 {
	pa, pb := a.percentage(), b.percentage()

	skillA, skillB := 0.5, 0.5
	if total := pa + pb; total != 0 {
		skillA = pa / total
		skillB = pb / total
	}

	finalA := skillA*skillWeight + r*luckWeight
	finalB := skillB*skillWeight + (1-r)*luckWeight
	return finalA / (finalA + finalB)
}

// Resolve draws twice from rnd: once for the luck share, once to pick the winner.
func Resolve(a, b Competitor, rnd Rand) (Result, error) {
	if a.ID == b.ID {
		return Result{}, ErrSameCompetitor
	}
	probA := Probability(a, b, rnd.Float64())
	if rnd.Float64() < probA {
		return Result{WinnerID: a.ID, LoserID: b.ID, ProbabilityA: probA}, nil
	}
	return Result{WinnerID: b.ID, LoserID: a.ID, ProbabilityA: probA}, nil
}

// lockedSource делает *rand.Rand безопасным для конкурентного использования.
type lockedSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSource returns a goroutine-safe Rand. A zero seed seeds from the clock.
func NewSource(seed int64) Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &lockedSource{rnd: rand.New(rand.NewSource(seed))}
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Float64()
}

// Pick returns a uniform index in [0, n) using one draw from rnd.
func Pick(rnd Rand, n int) int {
	if n <= 1 {
		return 0
	}
	idx := int(rnd.Float64() * float64(n))
	if idx >= n {
		idx = n - 1
	}
	return idx
}
