package core

import (
	"fmt"

	"herdcheck/pkg/domain"
)

// Outcome classifies a lookup.
type Outcome string

// Lookup outcomes, one per message shape.
const (
	OutcomeInvalidID       Outcome = "invalid_id"
	OutcomeNotFound        Outcome = "not_found"
	OutcomeUddersMissing   Outcome = "udders_missing"
	OutcomeFourUdders      Outcome = "four_udders"
	OutcomeThreeUdders     Outcome = "three_udders"
	OutcomeUnusualUdders   Outcome = "unusual_udders"
	OutcomeGoat            Outcome = "goat"
	OutcomeUnknownCategory Outcome = "unknown_category"
)

// Fixed lookup messages.
const (
	MsgInvalidID     = "Invalid ID: must be 8 digits and not start with 0."
	MsgUddersMissing = "This cow's udders information is missing."
	MsgFourUdders    = "This cow has 4 udders and can be milked!"
	MsgThreeUdders   = "This cow has 3 udders. Check if it needs any handling."
	MsgGoat          = "This is a goat, send it back to the mountain!"
)

// Result is the structured outcome of a lookup. Message is the text returned by Check.
type Result struct {
	ID         string             `json:"id"`
	Outcome    Outcome            `json:"outcome"`
	Message    string             `json:"message"`
	Record     *domain.RecordView `json:"record,omitempty"`
	Transition *domain.Transition `json:"transition,omitempty"`
}

// Service is the lookup entry point over a Registry.
type Service struct {
	registry *Registry
	machine  *domain.UdderMachine
	opts     options
}

// NewService wires a service to its registry and udder machine.
func NewService(registry *Registry, machine *domain.UdderMachine, opts ...Option) *Service {
	if machine == nil {
		machine = domain.NewUdderMachine(nil)
	}
	return &Service{registry: registry, machine: machine, opts: applyOptions(opts)}
}

// Registry returns the registry the service reads from.
func (s *Service) Registry() *Registry { return s.registry }

// Check validates rawID, resolves the record and returns a human-readable message.
func (s *Service) Check(rawID string) string {
	return s.Lookup(rawID).Message
}

// Lookup performs Check and returns the structured result. Every input yields a result.
func (s *Service) Lookup(rawID string) Result {
	start := s.opts.now()
	res := s.lookup(rawID)
	s.opts.observer.ObserveLookup(res.Outcome, s.opts.now().Sub(start))
	return res
}

func (s *Service) lookup(rawID string) Result {
	if !domain.ValidID(rawID) {
		return Result{ID: rawID, Outcome: OutcomeInvalidID, Message: MsgInvalidID}
	}
	rec, ok := s.registry.FindByID(rawID)
	if !ok {
		return Result{ID: rawID, Outcome: OutcomeNotFound, Message: fmt.Sprintf("Animal %s has not been found.", rawID)}
	}

	res := Result{ID: rawID}
	switch rec.Kind() {
	case domain.CategoryCow:
		s.checkCow(rec, &res)
	case domain.CategoryGoat:
		res.Outcome, res.Message = OutcomeGoat, MsgGoat
	default:
		res.Outcome, res.Message = OutcomeUnknownCategory, fmt.Sprintf("Unknown animal type: %s", rec.Category())
	}
	view := rec.View()
	res.Record = &view
	return res
}

// checkCow routes only three- and four-udder cows to the machine. The message
// follows the state the machine observed under the record lock.
func (s *Service) checkCow(rec *domain.Record, res *Result) {
	n, ok := rec.Udders().Get()
	switch {
	case !ok:
		res.Outcome, res.Message = OutcomeUddersMissing, MsgUddersMissing
		return
	case n != domain.UddersThree && n != domain.UddersFour:
		res.Outcome, res.Message = OutcomeUnusualUdders, unusualUdders(n)
		return
	}

	t := s.machine.Advance(rec)
	s.logTransition(rec, t)
	switch t.From {
	case domain.UddersFour:
		res.Outcome, res.Message = OutcomeFourUdders, MsgFourUdders
	case domain.UddersThree:
		res.Outcome, res.Message = OutcomeThreeUdders, MsgThreeUdders
	default:
		res.Outcome, res.Message = OutcomeUnusualUdders, unusualUdders(t.From)
		return
	}
	res.Transition = &t
}

func unusualUdders(n int) string {
	return fmt.Sprintf("This cow has an unusual number of udders: %d", n)
}

func (s *Service) logTransition(rec *domain.Record, t domain.Transition) {
	if t.Kind == domain.TransitionUnmanaged {
		return
	}
	s.opts.observer.ObserveTransition(t.Kind)
	log := s.opts.logger.With("id", rec.ID())
	switch t.Kind {
	case domain.TransitionDecreased:
		log.Info("udders decreased", "udders", t.To)
	case domain.TransitionIncreased:
		log.Info("udders increased", "udders", t.To)
	case domain.TransitionMilked:
		log.Info("cow milked", "liters", t.Yield)
	case domain.TransitionUnchanged:
		log.Info("udders unchanged", "udders", t.To)
	}
}
