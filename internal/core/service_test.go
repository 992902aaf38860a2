package core

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"herdcheck/pkg/domain"
	"herdcheck/testutil"
)

type recordingObserver struct {
	mu          sync.Mutex
	outcomes    []Outcome
	transitions []domain.TransitionKind
	loaded      int
	skipped     int
}

func (o *recordingObserver) ObserveLookup(outcome Outcome, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}

func (o *recordingObserver) ObserveTransition(kind domain.TransitionKind) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.transitions = append(o.transitions, kind)
}

func (o *recordingObserver) ObserveFeedRows(loaded, skipped int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.loaded += loaded
	o.skipped += skipped
}

func always(n int) domain.Chooser {
	return domain.ChooserFunc(func(int) int { return n })
}

// countingChooser counts draws so tests can assert the machine was not consulted.
type countingChooser struct {
	mu    sync.Mutex
	n     int
	draws int
}

func (c *countingChooser) IntN(int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draws++
	return c.n
}

func newService(t *testing.T, chooser domain.Chooser, data ...[]string) (*Service, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	reg := NewRegistry(WithLogger(logger))
	reg.Load(rows(data...))
	return NewService(reg, domain.NewUdderMachine(chooser), WithLogger(logger)), &buf
}

func udders(t *testing.T, svc *Service, id string) (int, bool) {
	t.Helper()
	rec, ok := svc.Registry().FindByID(id)
	if !ok {
		t.Fatalf("record %s missing", id)
	}
	return rec.Udders().Get()
}

func TestCheck_FourUddersMilked(t *testing.T) {
	svc, logs := newService(t, always(99), []string{"12345678", "cow", "3", "2", "4"})
	res := svc.Lookup("12345678")
	if res.Message != MsgFourUdders || res.Outcome != OutcomeFourUdders {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Transition == nil || res.Transition.Kind != domain.TransitionMilked || res.Transition.Yield != 5 {
		t.Fatalf("expected milked transition with yield 5, got %+v", res.Transition)
	}
	if n, _ := udders(t, svc, "12345678"); n != 4 {
		t.Fatalf("udders = %d, want 4", n)
	}
	if !strings.Contains(logs.String(), "liters=5") {
		t.Fatalf("expected yield in log, got %q", logs.String())
	}
}

func TestCheck_FourUddersDecrease(t *testing.T) {
	svc, logs := newService(t, always(0), []string{"12345678", "cow", "3", "2", "4"})
	if got := svc.Check("12345678"); got != MsgFourUdders {
		t.Fatalf("unexpected message %q", got)
	}
	if n, _ := udders(t, svc, "12345678"); n != 3 {
		t.Fatalf("udders = %d, want 3", n)
	}
	if !strings.Contains(logs.String(), "udders decreased") {
		t.Fatalf("expected decrease log, got %q", logs.String())
	}
	// The next check sees the new state.
	if got := svc.Check("12345678"); got != MsgThreeUdders {
		t.Fatalf("unexpected follow-up message %q", got)
	}
}

func TestCheck_ThreeUddersUnchanged(t *testing.T) {
	svc, _ := newService(t, always(99), []string{"12345678", "cow", "0", "0", "3"})
	res := svc.Lookup("12345678")
	if res.Message != MsgThreeUdders {
		t.Fatalf("unexpected message %q", res.Message)
	}
	if res.Transition == nil || res.Transition.Kind != domain.TransitionUnchanged {
		t.Fatalf("expected unchanged transition, got %+v", res.Transition)
	}
	if n, _ := udders(t, svc, "12345678"); n != 3 {
		t.Fatalf("udders = %d, want 3", n)
	}
}

func TestCheck_ThreeUddersIncrease(t *testing.T) {
	svc, _ := newService(t, always(0), []string{"12345678", "cow", "0", "0", "3"})
	if got := svc.Check("12345678"); got != MsgThreeUdders {
		t.Fatalf("unexpected message %q", got)
	}
	if n, _ := udders(t, svc, "12345678"); n != 4 {
		t.Fatalf("udders = %d, want 4", n)
	}
}

func TestCheck_Messages(t *testing.T) {
	chooser := &countingChooser{n: 50}
	svc, _ := newService(t, chooser,
		[]string{"87654321", "goat", "1", "0", ""},
		[]string{"55555555", "cow", "2", "1", ""},
		[]string{"22222222", "Cow", "2", "1", "7"},
		[]string{"33333333", "Sheep", "2", "1", "2"},
		[]string{"44444444", "GOAT", "2", "1", "4"},
	)
	cases := []struct {
		id      string
		outcome Outcome
		message string
	}{
		{"87654321", OutcomeGoat, MsgGoat},
		{"44444444", OutcomeGoat, MsgGoat},
		{"55555555", OutcomeUddersMissing, MsgUddersMissing},
		{"22222222", OutcomeUnusualUdders, "This cow has an unusual number of udders: 7"},
		{"33333333", OutcomeUnknownCategory, "Unknown animal type: Sheep"},
		{"99999999", OutcomeNotFound, "Animal 99999999 has not been found."},
		{"01234567", OutcomeInvalidID, MsgInvalidID},
		{"1234567", OutcomeInvalidID, MsgInvalidID},
		{"1234567x", OutcomeInvalidID, MsgInvalidID},
		{" 87654321", OutcomeInvalidID, MsgInvalidID},
	}
	for _, tc := range cases {
		t.Run(tc.id, func(t *testing.T) {
			res := svc.Lookup(tc.id)
			if res.Outcome != tc.outcome || res.Message != tc.message {
				t.Fatalf("Lookup(%q) = %s %q, want %s %q", tc.id, res.Outcome, res.Message, tc.outcome, tc.message)
			}
			if res.Transition != nil {
				t.Fatalf("no transition expected, got %+v", res.Transition)
			}
		})
	}
	if chooser.draws != 0 {
		t.Fatalf("machine drew %d times for non-managed records", chooser.draws)
	}
}

// The nil registry would panic on lookup, so passing proves invalid ids never reach it.
func TestCheck_InvalidIDSkipsRegistry(t *testing.T) {
	svc := NewService(nil, nil)
	if got := svc.Check("01234567"); got != MsgInvalidID {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestCheck_MessageStatesIDRule(t *testing.T) {
	if !strings.Contains(MsgInvalidID, "8 digits") || !strings.Contains(MsgInvalidID, "not start with 0") {
		t.Fatalf("invalid-id message must state the rule: %q", MsgInvalidID)
	}
}

func TestCheck_ObserverSeesOutcomesAndTransitions(t *testing.T) {
	obs := &recordingObserver{}
	reg := NewRegistry()
	reg.Load(rows([]string{"12345678", "cow", "3", "2", "4"}))
	svc := NewService(reg, domain.NewUdderMachine(always(99)), WithObserver(obs))
	svc.Check("12345678")
	svc.Check("00000000")
	if len(obs.outcomes) != 2 || obs.outcomes[0] != OutcomeFourUdders || obs.outcomes[1] != OutcomeInvalidID {
		t.Fatalf("unexpected outcomes %v", obs.outcomes)
	}
	if len(obs.transitions) != 1 || obs.transitions[0] != domain.TransitionMilked {
		t.Fatalf("unexpected transitions %v", obs.transitions)
	}
}

func TestCheck_ConcurrentSameIDKeepsStateBounded(t *testing.T) {
	svc, _ := newService(t, domain.SeededChooser(7),
		[]string{"12345678", "cow", "3", "2", "4"},
		[]string{"23456789", "cow", "1", "1", "3"},
	)
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := "12345678"
			if i%2 == 1 {
				id = "23456789"
			}
			msg := svc.Check(id)
			if msg != MsgFourUdders && msg != MsgThreeUdders {
				t.Errorf("unexpected message %q", msg)
			}
		}(i)
	}
	wg.Wait()
	for _, id := range []string{"12345678", "23456789"} {
		if n, ok := udders(t, svc, id); !ok || (n != 3 && n != 4) {
			t.Fatalf("%s udders = %d, want 3 or 4", id, n)
		}
	}
}

func TestCoreDoesNotImportTransports(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.TransportImportForbidden, "core stays transport agnostic")
}
