package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/check-efy/internal/domain"
	"github.com/bnema/check-efy/internal/logx"
	"github.com/bnema/check-efy/internal/ports"
)

type State string

const (
	StatePolling    State = "polling"
	StateNotifying  State = "notifying"
	StateDelaying   State = "delaying"
	StateTerminated State = "terminated"
)

// DefaultSleepStep bounds how long a cancellation can go unnoticed while delaying.
const DefaultSleepStep = time.Minute

type WatcherConfig struct {
	Session domain.SessionID
	// SleepStep is the length of one delay unit. Zero means DefaultSleepStep.
	SleepStep time.Duration
}

// Watcher runs the polling loop: poll, notify when seats are available,
// wait a randomized delay, repeat until ctx is cancelled.
type Watcher struct {
	checker  ports.AvailabilityChecker
	notifier *Notifier
	delay    *DelayGenerator
	clock    ports.Clock
	log      logx.Logger

	session domain.SessionID
	step    time.Duration
	state   State
}

func NewWatcher(checker ports.AvailabilityChecker, notifier *Notifier, delay *DelayGenerator, clock ports.Clock, log logx.Logger, cfg WatcherConfig) *Watcher {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if cfg.Session == "" {
		cfg.Session = domain.DefaultSessionID
	}
	if cfg.SleepStep <= 0 {
		cfg.SleepStep = DefaultSleepStep
	}

	return &Watcher{
		checker:  checker,
		notifier: notifier,
		delay:    delay,
		clock:    clock,
		log:      log,
		session:  cfg.Session,
		step:     cfg.SleepStep,
	}
}

// Run loops until ctx is cancelled and then returns ctx.Err().
func (w *Watcher) Run(ctx context.Context) error {
	w.enter(StatePolling)

	for {
		if err := ctx.Err(); err != nil {
			w.enter(StateTerminated)
			return err
		}

		availability, err := w.Poll(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				w.enter(StateTerminated)
				return ctxErr
			}
			w.log.Warn("Availability check failed", logx.String("session", string(w.session)), logx.Err(err))
		}

		if err == nil && availability.Available {
			w.enter(StateNotifying)
			if notifyErr := w.notifier.Notify(ctx, availability); notifyErr != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					w.enter(StateTerminated)
					return ctxErr
				}
				w.log.Error("Notification cycle finished with failures", logx.Err(notifyErr))
			}
		}

		w.enter(StateDelaying)
		if err := w.wait(ctx, w.delay.Minutes()); err != nil {
			w.enter(StateTerminated)
			return err
		}

		w.enter(StatePolling)
	}
}

// Poll performs a single availability check for the watched session.
func (w *Watcher) Poll(ctx context.Context) (domain.Availability, error) {
	availability, err := w.checker.Check(ctx, w.session)
	if err != nil {
		return domain.Availability{}, fmt.Errorf("check session %s: %w", w.session, err)
	}
	return availability, nil
}

func (w *Watcher) wait(ctx context.Context, minutes int) error {
	w.log.Info(fmt.Sprintf("Waiting %d mins", minutes))

	for i := 0; i < minutes; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.clock.After(w.step):
		}
	}

	return nil
}

// State reports the loop's current state.
func (w *Watcher) State() State { return w.state }

func (w *Watcher) enter(state State) {
	w.state = state
	w.log.Debug("state", logx.String("state", string(state)))
}

// IsCancellation reports whether err ends the loop because of an interrupt.
func IsCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
