package domain

import (
	"math/rand/v2"
	"sync"
)

// Managed udder states. Counts outside this pair are left untouched.
const (
	UddersThree = 3
	UddersFour  = 4
)

// Trial thresholds out of TrialRange: a draw below the threshold changes state.
const (
	TrialRange        = 100
	DecreaseThreshold = 5
	IncreaseThreshold = 20
)

// Chooser draws uniformly from [0, n).
type Chooser interface {
	IntN(n int) int
}

// ChooserFunc adapts a function to Chooser.
type ChooserFunc func(n int) int

// IntN implements Chooser.
func (f ChooserFunc) IntN(n int) int { return f(n) }

// DefaultChooser uses the goroutine-safe top-level math/rand/v2 source.
func DefaultChooser() Chooser { return ChooserFunc(rand.IntN) }

// SeededChooser returns a deterministic chooser safe for concurrent use. The
// sequence is reproducible only when draws are not interleaved across goroutines.
func SeededChooser(seed uint64) Chooser {
	return &lockedChooser{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

type lockedChooser struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (c *lockedChooser) IntN(n int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.r.IntN(n)
}

// TransitionKind names the outcome of one udder trial.
type TransitionKind string

const (
	// TransitionDecreased moved a four-udder cow to three.
	TransitionDecreased TransitionKind = "decreased"
	// TransitionIncreased moved a three-udder cow to four.
	TransitionIncreased TransitionKind = "increased"
	// TransitionMilked kept a four-udder cow at four and produced Yield liters.
	TransitionMilked TransitionKind = "milked"
	// TransitionUnchanged kept a three-udder cow at three.
	TransitionUnchanged TransitionKind = "unchanged"
	// TransitionUnmanaged means the count was outside {3,4}; no trial ran.
	TransitionUnmanaged TransitionKind = "unmanaged"
)

// Transition reports one trial.
type Transition struct {
	Kind  TransitionKind `json:"kind"`
	From  int            `json:"from"`
	To    int            `json:"to"`
	Yield int            `json:"yield_liters,omitempty"`
}

// UdderMachine runs the two-state udder process over a record. It is the only
// writer of Record udder counts.
type UdderMachine struct {
	chooser Chooser
}

// NewUdderMachine returns a machine drawing from chooser, or DefaultChooser when nil.
func NewUdderMachine(chooser Chooser) *UdderMachine {
	if chooser == nil {
		chooser = DefaultChooser()
	}
	return &UdderMachine{chooser: chooser}
}

// Advance performs one trial on r. The read, draw and write happen under the
// record lock so concurrent trials on one record serialize.
func (m *UdderMachine) Advance(r *Record) Transition {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.udders.Get()
	if !ok {
		return Transition{Kind: TransitionUnmanaged}
	}
	switch n {
	case UddersFour:
		if m.chooser.IntN(TrialRange) < DecreaseThreshold {
			r.udders = Udders(UddersThree)
			return Transition{Kind: TransitionDecreased, From: UddersFour, To: UddersThree}
		}
		return Transition{Kind: TransitionMilked, From: UddersFour, To: UddersFour, Yield: Yield(r)}
	case UddersThree:
		if m.chooser.IntN(TrialRange) < IncreaseThreshold {
			r.udders = Udders(UddersFour)
			return Transition{Kind: TransitionIncreased, From: UddersThree, To: UddersFour}
		}
		return Transition{Kind: TransitionUnchanged, From: UddersThree, To: UddersThree}
	default:
		return Transition{Kind: TransitionUnmanaged, From: n, To: n}
	}
}
