// Package job defines the shared job model for asynchronous generation work.
//
// A generation job is owned by the backend; clients hold a read-only
// projection of it (Snapshot) and derive their visible state (State) from a
// sequence of snapshots via Reconcile. Jobs are parameterized by their result
// payload so each job kind (avatar video, speech synthesis, image-to-video)
// carries a strongly typed result instead of a loosely probed map.
package job

import "time"

// Kind identifies the pipeline a job runs through.
type Kind string

const (
	KindVideoGeneration Kind = "video_generation"
	KindTextToSpeech    Kind = "text_to_speech"
	KindImageToVideo    Kind = "image_to_video"
)

// Status is the backend-reported lifecycle state of a job.
//
// Anything that is not pending, completed, or error is treated as a
// processing sub-state (the backend reports pipeline-specific values such as
// "synthesizing" or "lipsync"); sub-states only affect the current step and
// progress, never the terminal-transition contract.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// Terminal reports whether no further transitions can occur.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// StepStatus is the lifecycle state of a single pipeline step.
type StepStatus string

const (
	StepPending    StepStatus = "pending"
	StepInProgress StepStatus = "in_progress"
	StepCompleted  StepStatus = "completed"
	StepFailed     StepStatus = "failed"
)

// Step is a named sub-phase of a job's pipeline. Steps are ordered and a
// step moves into completed at most once; Reconcile relies on that to emit
// step-complete events exactly once per step name.
type Step struct {
	Name        string     `json:"name"`
	Status      StepStatus `json:"status"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// Snapshot is the client-side projection of a backend job, as returned by
// the submit and status endpoints. Result is only populated on a terminal
// completed status and is immutable once set.
type Snapshot[R any] struct {
	ID          string    `json:"job_id"`
	Status      Status    `json:"status"`
	Steps       []Step    `json:"steps,omitempty"`
	Progress    int       `json:"progress_percentage"`
	CurrentStep string    `json:"current_step,omitempty"`
	Result      *R        `json:"result,omitempty"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
	UpdatedAt   time.Time `json:"updated_at,omitzero"`
}

// State is the tracker-visible state derived from snapshots. It is created
// empty at reset, mutated only by Reconcile while a run is active, and frozen
// once a terminal snapshot or a cancel is observed.
type State[R any] struct {
	Generating  bool
	Progress    int
	CurrentStep string
	Result      *R
	Err         error
}
