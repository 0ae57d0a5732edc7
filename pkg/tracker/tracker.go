// Package tracker drives one asynchronous generation job at a time: it
// submits the request, polls the backend status endpoint on an interval,
// reconciles each snapshot into client-visible state, and tears the polling
// loop down on completion, failure, cancel, or close.
package tracker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/reelcraft/reelcraft/pkg/job"
)

// DefaultPollInterval is the delay between consecutive status fetches.
const DefaultPollInterval = 2 * time.Second

// Request is a submittable job payload. Validate is called before any
// network traffic; a validation failure never reaches the backend.
type Request interface {
	Validate() error
}

// Service is the backend surface a tracker polls. Implemented by the
// per-kind clients in pkg/backend.
type Service[Req Request, R any] interface {
	Submit(ctx context.Context, req Req) (*job.Snapshot[R], error)
	Status(ctx context.Context, id string) (*job.Snapshot[R], error)
}

// Listener receives state transitions and step completions for a run.
// Callbacks are invoked outside the tracker's lock, from the goroutine that
// observed the change. OnStepCompleted fires exactly once per step name per
// run, regardless of how often the backend re-reports a completed step.
type Listener[R any] interface {
	OnState(jobID string, state job.State[R])
	OnStepCompleted(jobID string, step job.Step)
}

// Tracker owns the polling lifecycle for a single job kind. At most one
// loop is live per tracker: submitting again, cancelling, or resetting
// invalidates the previous loop via a generation token, so a late response
// from a superseded run can never mutate current state.
type Tracker[Req Request, R any] struct {
	svc      Service[Req, R]
	interval time.Duration
	listener Listener[R]
	logger   zerolog.Logger

	mu       sync.Mutex
	gen      uint64
	jobID    string
	state    job.State[R]
	steps    []job.Step
	cancel   context.CancelFunc
	done     chan struct{}
	finished bool
}

// New creates an idle tracker for the given backend service.
func New[Req Request, R any](svc Service[Req, R]) *Tracker[Req, R] {
	return &Tracker[Req, R]{
		svc:      svc,
		interval: DefaultPollInterval,
		logger:   log.With().Str("component", "tracker").Logger(),
		done:     closedChan(),
		finished: true,
	}
}

// WithInterval overrides the polling interval (useful for tests and for
// backends with different status cadence).
func (t *Tracker[Req, R]) WithInterval(d time.Duration) *Tracker[Req, R] {
	if d > 0 {
		t.interval = d
	}
	return t
}

// WithListener attaches a sink for state transitions and step completions.
func (t *Tracker[Req, R]) WithListener(l Listener[R]) *Tracker[Req, R] {
	t.listener = l
	return t
}

// WithLogger overrides the tracker's logger.
func (t *Tracker[Req, R]) WithLogger(logger zerolog.Logger) *Tracker[Req, R] {
	t.logger = logger
	return t
}

// Submit validates the request, tears down any previous run, submits the
// job, and starts the polling loop. It returns the backend job id. A
// validation failure is returned before any network call and leaves the
// tracker idle with the error recorded in its state.
func (t *Tracker[Req, R]) Submit(ctx context.Context, req Req) (string, error) {
	if err := req.Validate(); err != nil {
		t.mu.Lock()
		t.teardownLocked()
		t.state = job.State[R]{Err: err}
		t.steps = nil
		t.jobID = ""
		t.mu.Unlock()
		t.notifyState("", t.State())
		return "", err
	}

	t.mu.Lock()
	t.teardownLocked()
	gen := t.gen
	done := make(chan struct{})
	t.done = done
	t.finished = false
	t.state = job.State[R]{Generating: true}
	t.steps = nil
	t.jobID = ""
	t.mu.Unlock()
	t.notifyState("", job.State[R]{Generating: true})

	snap, err := t.svc.Submit(ctx, req)
	if err != nil {
		t.mu.Lock()
		current := gen == t.gen
		if current {
			t.state = job.State[R]{Err: err}
			t.finishLocked()
		}
		t.mu.Unlock()
		if current {
			t.notifyState("", t.State())
		}
		return "", err
	}

	loopCtx, cancel := context.WithCancel(context.Background())

	t.mu.Lock()
	if gen != t.gen {
		// Superseded while the submit round trip was in flight.
		t.mu.Unlock()
		cancel()
		return snap.ID, nil
	}
	t.cancel = cancel
	t.jobID = snap.ID
	t.mu.Unlock()

	t.logger.Info().
		Str("job_id", snap.ID).
		Str("status", string(snap.Status)).
		Msg("job submitted")

	if terminal := t.apply(gen, snap); terminal {
		cancel()
		return snap.ID, nil
	}

	go t.poll(loopCtx, gen, snap.ID)
	return snap.ID, nil
}

// poll fetches status until a terminal snapshot, a fetch failure, or
// cancellation. Exactly one request is in flight at any moment; the next
// fetch is armed only after the previous response has been applied.
func (t *Tracker[Req, R]) poll(ctx context.Context, gen uint64, id string) {
	timer := time.NewTimer(t.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		snap, err := t.svc.Status(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			// A dead status endpoint is terminal; unbounded polling against
			// an unreachable backend helps nobody.
			t.logger.Warn().Str("job_id", id).Err(err).Msg("status fetch failed, stopping poll loop")
			t.fail(gen, id, err)
			return
		}

		if terminal := t.apply(gen, snap); terminal {
			return
		}
		timer.Reset(t.interval)
	}
}

// apply reconciles a snapshot into tracker state. It is a no-op when the
// generation token no longer matches (run cancelled or superseded). Returns
// true when polling should stop.
func (t *Tracker[Req, R]) apply(gen uint64, snap *job.Snapshot[R]) bool {
	t.mu.Lock()
	if gen != t.gen {
		t.mu.Unlock()
		return true
	}

	next, completed := job.Reconcile(t.state, t.steps, snap)
	t.state = next
	t.steps = snap.Steps

	terminal := snap.Status.Terminal()
	if terminal {
		if t.cancel != nil {
			t.cancel()
			t.cancel = nil
		}
		t.finishLocked()
	}
	t.mu.Unlock()

	for _, step := range completed {
		t.logger.Debug().Str("job_id", snap.ID).Str("step", step.Name).Msg("step completed")
		if t.listener != nil {
			t.listener.OnStepCompleted(snap.ID, step)
		}
	}
	t.notifyState(snap.ID, next)

	return terminal
}

// fail records a transport failure as the terminal state of the current run.
func (t *Tracker[Req, R]) fail(gen uint64, id string, err error) {
	t.mu.Lock()
	if gen != t.gen {
		t.mu.Unlock()
		return
	}
	t.state.Generating = false
	t.state.Err = err
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.finishLocked()
	next := t.state
	t.mu.Unlock()

	t.notifyState(id, next)
}

// Cancel stops the polling loop immediately and marks the tracker as no
// longer generating. Result and error are left untouched: a user abort is
// not a backend failure. Cancellation is client-side only; the backend job
// keeps running to completion unobserved.
func (t *Tracker[Req, R]) Cancel() {
	t.mu.Lock()
	t.gen++
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.state.Generating = false
	t.finishLocked()
	id := t.jobID
	next := t.state
	t.mu.Unlock()

	t.notifyState(id, next)
}

// Reset cancels any in-flight run and clears all state back to idle. Safe
// to call at any time, including mid-poll, and idempotent.
func (t *Tracker[Req, R]) Reset() {
	t.mu.Lock()
	t.teardownLocked()
	t.state = job.State[R]{}
	t.steps = nil
	t.jobID = ""
	t.mu.Unlock()

	t.notifyState("", job.State[R]{})
}

// Close tears down the polling loop without emitting further listener
// callbacks. Owners must call it when the consumer goes away so an
// in-flight job cannot leak a timer or mutate state for a dead consumer.
func (t *Tracker[Req, R]) Close() {
	t.mu.Lock()
	t.teardownLocked()
	t.mu.Unlock()
}

// State returns a copy of the current tracker state.
func (t *Tracker[Req, R]) State() job.State[R] {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// JobID returns the backend id of the current (or last) run, if any.
func (t *Tracker[Req, R]) JobID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.jobID
}

// Wait blocks until the current run reaches a terminal state, is cancelled,
// or ctx expires, and returns the state at that point.
func (t *Tracker[Req, R]) Wait(ctx context.Context) (job.State[R], error) {
	t.mu.Lock()
	done := t.done
	t.mu.Unlock()

	select {
	case <-ctx.Done():
		return t.State(), ctx.Err()
	case <-done:
		return t.State(), nil
	}
}

// teardownLocked invalidates the current run: the loop context is
// cancelled, the generation token is bumped so any in-flight response is
// dropped on arrival, and waiters are released.
func (t *Tracker[Req, R]) teardownLocked() {
	t.gen++
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.finishLocked()
}

func (t *Tracker[Req, R]) finishLocked() {
	if !t.finished {
		t.finished = true
		close(t.done)
	}
}

func (t *Tracker[Req, R]) notifyState(id string, state job.State[R]) {
	if t.listener != nil {
		t.listener.OnState(id, state)
	}
}

func closedChan() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
