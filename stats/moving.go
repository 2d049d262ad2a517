package stats

import "container/ring"
import "sync"
import "time"

// clock lets Population.SizeAvg's tests control what "now" means;
// production code always reads through realClock.
type clock interface {
	Now() time.Time
}

type realClock struct{}

func (r realClock) Now() time.Time { return time.Now() }

var clk clock = realClock{}

// CumulativeFloat64 is anything that accumulates a timeseries and
// reports an aggregate over some trailing window. MovingAvg is the
// only implementation; population.Population.SizeAvg holds one and
// samples it once per RunCycle with the post-cycle population size.
type CumulativeFloat64 interface {
	Add(v float64)
	Value() float64
	Valid() bool
}

// entry is one sample: a population-size reading and the time it was
// taken, so pruneLocked can tell which samples have aged out of the
// window.
type entry struct {
	V float64
	T time.Time
}

// ringStat holds entry values in a container/ring and drops any whose
// timestamp is older than the owning MovingAvg's Duration. It backs
// MovingAvg only; nothing else in this package needs a ring buffer.
type ringStat struct {
	mu sync.RWMutex
	r  *ring.Ring // always points to the earliest node added; r.Prev() is latest
}

// Valid is true once at least one sample is still within the window.
// Immediately after construction, or once every sample has aged out,
// SizeAvg.Value() has nothing meaningful to report.
func (s *ringStat) Valid() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.r != nil && s.r.Len() > 0
}

// Add records v as a new sample taken right now.
func (s *ringStat) Add(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addLocked(v, clk.Now())
}

// addLocked appends a sample at an explicit time, letting tests drive
// the ring without going through the wall clock.
func (s *ringStat) addLocked(v float64, t time.Time) {
	e := entry{v, t}
	n := ring.New(1)
	n.Value = e

	if s.r == nil {
		s.r = n
	} else {
		// s.r.Prev() is always the latest node added, so append to that
		s.r.Prev().Link(n)
	}
}

// pruneLocked walks forward from the oldest sample and unlinks every
// one older than Duration, since samples are always added in time
// order and the first still-fresh one marks where the live window
// begins.
func (a *MovingAvg) pruneLocked() {
	if a.r.r == nil {
		return
	}
	del := 0
	n := a.r.r.Len()
	for i := a.r.r; del < n; i = i.Next() {
		e := i.Value.(entry)
		if clk.Now().Sub(e.T) < a.Duration {
			// assume all elements after this one are at a later time
			break
		} else {
			del += 1
		}
	}
	if del == n {
		a.r.r = nil
	} else if del > 0 {
		p := a.r.r.Prev()
		p.Unlink(del)
		a.r.r = p.Next()
	}
}

// MovingAvg is a windowed average over a trailing Duration: the
// population driver uses one (SizeAvg) to smooth the post-cycle
// population count, pruning any sample older than Duration before
// every read or write.
type MovingAvg struct {
	Duration time.Duration
	r        ringStat
	mu       sync.Mutex
}

// Add records a new sample, e.g. the population's size right after a
// RunCycle completes, and prunes anything that just aged out.
func (a *MovingAvg) Add(v float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.r.Add(v)
	a.pruneLocked()
}

// Valid reports whether Value() currently reflects at least one
// unpruned data point.
func (a *MovingAvg) Valid() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pruneLocked()
	return a.r.Valid()
}

// Value returns the average of every sample still inside the window.
// Its result is undefined when Valid() is false (no RunCycle has
// reported a size recently enough to still be in-window).
func (a *MovingAvg) Value() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	num := 0
	avg := 0.0
	a.pruneLocked()
	if !a.r.Valid() {
		return avg
	}
	a.r.r.Do(func(i interface{}) {
		e := i.(entry)
		num += 1
		avg = (e.V + float64(num-1)*avg) / float64(num)
	})
	return avg
}

// Samples reports how many recorded values currently fall within the
// trailing window. Population's periodic report uses this to tell a
// freshly-seeded SizeAvg (one or two samples, easily dominated by a
// single noisy cycle) from one that has accumulated enough history
// across the window to be worth trusting.
func (a *MovingAvg) Samples() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pruneLocked()
	if a.r.r == nil {
		return 0
	}
	return a.r.r.Len()
}
