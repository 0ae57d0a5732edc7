package history

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/reelcraft/reelcraft/pkg/job"
)

// Recorder adapts a Store to the tracker listener contract so every state
// transition of a run is mirrored into history. ResultURL extracts the
// primary artifact URL from the kind-specific result payload.
type Recorder[R any] struct {
	store     *Store
	kind      job.Kind
	summary   string
	workspace string
	project   string
	resultURL func(*R) string
	logger    zerolog.Logger
}

// NewRecorder creates a recorder for one job kind.
func NewRecorder[R any](store *Store, kind job.Kind, resultURL func(*R) string) *Recorder[R] {
	return &Recorder[R]{
		store:     store,
		kind:      kind,
		resultURL: resultURL,
		logger:    log.With().Str("component", "history").Logger(),
	}
}

// WithSummary sets a short human-readable description stored alongside the
// entry (script excerpt, prompt, ...).
func (r *Recorder[R]) WithSummary(summary string) *Recorder[R] {
	if len(summary) > 120 {
		summary = summary[:117] + "..."
	}
	r.summary = summary
	return r
}

// WithScope attaches workspace and project identifiers to recorded entries.
func (r *Recorder[R]) WithScope(workspaceID, projectID string) *Recorder[R] {
	r.workspace = workspaceID
	r.project = projectID
	return r
}

// OnState mirrors a tracker state transition into the store. Transitions
// without a job id (validation failures, pre-submit resets) are skipped:
// there is nothing durable to key them by.
func (r *Recorder[R]) OnState(jobID string, state job.State[R]) {
	if jobID == "" {
		return
	}

	e := Entry{
		ID:          jobID,
		Kind:        r.kind,
		Summary:     r.summary,
		Progress:    state.Progress,
		WorkspaceID: r.workspace,
		ProjectID:   r.project,
	}
	switch {
	case state.Err != nil:
		e.Status = string(job.StatusError)
		e.Error = state.Err.Error()
	case state.Generating:
		e.Status = string(job.StatusProcessing)
	case state.Result != nil:
		e.Status = string(job.StatusCompleted)
		if r.resultURL != nil {
			e.ResultURL = r.resultURL(state.Result)
		}
	default:
		// Not generating, no result, no error: the user aborted the run.
		e.Status = StatusCancelled
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.store.Record(ctx, e); err != nil {
		r.logger.Warn().Str("job_id", jobID).Err(err).Msg("failed to record job state")
	}
}

// OnStepCompleted logs step completions; steps are not persisted
// individually, only the aggregate state is.
func (r *Recorder[R]) OnStepCompleted(jobID string, step job.Step) {
	r.logger.Debug().Str("job_id", jobID).Str("step", step.Name).Msg("pipeline step completed")
}
