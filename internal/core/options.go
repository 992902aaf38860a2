// Package core holds the record registry and the lookup service that
// validates identifiers, resolves records and drives udder transitions.
package core

import (
	"log/slog"
	"time"

	"herdcheck/pkg/domain"
)

// Observer receives lookup, transition and load events. Implementations must
// be safe for concurrent use.
type Observer interface {
	ObserveLookup(outcome Outcome, elapsed time.Duration)
	ObserveTransition(kind domain.TransitionKind)
	ObserveFeedRows(loaded, skipped int)
}

type noopObserver struct{}

func (noopObserver) ObserveLookup(Outcome, time.Duration)     {}
func (noopObserver) ObserveTransition(domain.TransitionKind) {}
func (noopObserver) ObserveFeedRows(int, int)                {}

type options struct {
	logger   *slog.Logger
	observer Observer
	now      func() time.Time
}

func defaultOptions() options {
	return options{
		logger:   slog.New(slog.DiscardHandler),
		observer: noopObserver{},
		now:      time.Now,
	}
}

// Option configures a Registry or Service.
type Option func(*options)

// WithLogger routes diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithObserver reports events to observer.
func WithObserver(observer Observer) Option {
	return func(o *options) {
		if observer != nil {
			o.observer = observer
		}
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
