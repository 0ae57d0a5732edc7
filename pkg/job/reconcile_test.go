package job

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeResult struct {
	VideoURL string `json:"video_url"`
}

func snap(status Status, progress int, step string, steps ...Step) *Snapshot[fakeResult] {
	return &Snapshot[fakeResult]{
		ID:          "job-1",
		Status:      status,
		Progress:    progress,
		CurrentStep: step,
		Steps:       steps,
		UpdatedAt:   time.Now().UTC(),
	}
}

func TestReconcile_ProcessingUpdatesProgressAndStep(t *testing.T) {
	prev := State[fakeResult]{Generating: true}

	next, completed := Reconcile(prev, nil, snap(StatusProcessing, 45, "text_to_speech"))

	require.True(t, next.Generating)
	require.Equal(t, 45, next.Progress)
	require.Equal(t, "text_to_speech", next.CurrentStep)
	require.Nil(t, next.Result)
	require.NoError(t, next.Err)
	require.Empty(t, completed)
}

func TestReconcile_KeepsCurrentStepWhenSnapshotOmitsIt(t *testing.T) {
	prev := State[fakeResult]{Generating: true, Progress: 80, CurrentStep: "lipsync"}

	next, _ := Reconcile(prev, nil, snap(StatusCompleted, 100, "", Step{Name: "lipsync", Status: StepCompleted}))

	require.Equal(t, "lipsync", next.CurrentStep)
}

func TestReconcile_ProgressNeverRegresses(t *testing.T) {
	prev := State[fakeResult]{Generating: true, Progress: 60, CurrentStep: "lipsync"}

	// Backend re-estimation reports a lower value; projection holds at 60.
	next, _ := Reconcile(prev, nil, snap(StatusProcessing, 40, "lipsync"))

	require.Equal(t, 60, next.Progress)
}

func TestReconcile_CompletedTerminal(t *testing.T) {
	prev := State[fakeResult]{Generating: true, Progress: 80, CurrentStep: "lipsync"}
	latest := snap(StatusCompleted, 100, "lipsync")
	latest.Result = &fakeResult{VideoURL: "https://x/out.mp4"}

	next, _ := Reconcile(prev, nil, latest)

	require.False(t, next.Generating)
	require.Equal(t, 100, next.Progress)
	require.NotNil(t, next.Result)
	require.Equal(t, "https://x/out.mp4", next.Result.VideoURL)
	require.NoError(t, next.Err)
}

func TestReconcile_ErrorTerminal(t *testing.T) {
	prev := State[fakeResult]{Generating: true, Progress: 45, CurrentStep: "text_to_speech"}
	latest := snap(StatusError, 45, "")
	latest.Error = "voice model unavailable"

	next, _ := Reconcile(prev, nil, latest)

	require.False(t, next.Generating)
	require.Nil(t, next.Result)
	require.Error(t, next.Err)
	require.Equal(t, "voice model unavailable", next.Err.Error())

	var jobErr *JobError
	require.ErrorAs(t, next.Err, &jobErr)
	require.Equal(t, "job-1", jobErr.JobID)
}

func TestReconcile_Idempotent(t *testing.T) {
	prev := State[fakeResult]{Generating: true}
	latest := snap(StatusProcessing, 45, "text_to_speech",
		Step{Name: "text_to_speech", Status: StepCompleted},
		Step{Name: "lipsync", Status: StepInProgress},
	)

	first, completedFirst := Reconcile(prev, nil, latest)
	require.Len(t, completedFirst, 1)
	require.Equal(t, "text_to_speech", completedFirst[0].Name)

	// Re-applying the identical snapshot produces the same state and no
	// duplicate step completions.
	second, completedSecond := Reconcile(first, latest.Steps, latest)
	require.Equal(t, first, second)
	require.Empty(t, completedSecond)
}

func TestReconcile_StepCompletesExactlyOnceAcrossRepeatedPolls(t *testing.T) {
	state := State[fakeResult]{Generating: true}
	var prevSteps []Step

	sequence := []*Snapshot[fakeResult]{
		snap(StatusProcessing, 10, "text_to_speech", Step{Name: "text_to_speech", Status: StepInProgress}),
		snap(StatusProcessing, 45, "lipsync",
			Step{Name: "text_to_speech", Status: StepCompleted},
			Step{Name: "lipsync", Status: StepInProgress}),
		// Backend re-reports the already completed step several times.
		snap(StatusProcessing, 60, "lipsync",
			Step{Name: "text_to_speech", Status: StepCompleted},
			Step{Name: "lipsync", Status: StepInProgress}),
		snap(StatusProcessing, 80, "lipsync",
			Step{Name: "text_to_speech", Status: StepCompleted},
			Step{Name: "lipsync", Status: StepInProgress}),
		snap(StatusCompleted, 100, "lipsync",
			Step{Name: "text_to_speech", Status: StepCompleted},
			Step{Name: "lipsync", Status: StepCompleted}),
	}

	counts := map[string]int{}
	for _, s := range sequence {
		var completed []Step
		state, completed = Reconcile(state, prevSteps, s)
		prevSteps = s.Steps
		for _, step := range completed {
			counts[step.Name]++
		}
	}

	require.Equal(t, map[string]int{"text_to_speech": 1, "lipsync": 1}, counts)
}

func TestStatus_Terminal(t *testing.T) {
	require.True(t, StatusCompleted.Terminal())
	require.True(t, StatusError.Terminal())
	require.False(t, StatusPending.Terminal())
	require.False(t, StatusProcessing.Terminal())
	// Provider sub-states are non-terminal by definition.
	require.False(t, Status("lipsync_in_progress").Terminal())
}
