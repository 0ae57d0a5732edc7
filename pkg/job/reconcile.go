package job

// JobError is a failure reported by the backend on a terminal error status.
// The message is surfaced to the user verbatim.
type JobError struct {
	JobID   string
	Message string
}

func (e *JobError) Error() string {
	if e.Message == "" {
		return "generation failed"
	}
	return e.Message
}

// Reconcile merges the latest snapshot into the previous tracker state and
// returns the steps that completed with this observation.
//
// It is pure and idempotent: applying the same snapshot twice yields an
// identical state and an empty completed list the second time. Step
// completion is detected by comparing each completed step in the snapshot
// against the previously observed steps (matched by name); only the
// transition into completed is reported.
//
// Progress never moves backwards within a run: the backend occasionally
// re-estimates and reports a lower percentage, and the projection clamps
// that to the highest value seen so far. A terminal completed snapshot
// forces progress to 100.
func Reconcile[R any](prev State[R], prevSteps []Step, latest *Snapshot[R]) (State[R], []Step) {
	next := State[R]{
		Generating:  true,
		Progress:    max(prev.Progress, latest.Progress),
		CurrentStep: prev.CurrentStep,
	}
	if latest.CurrentStep != "" {
		next.CurrentStep = latest.CurrentStep
	}

	completed := completedSince(prevSteps, latest.Steps)

	switch latest.Status {
	case StatusCompleted:
		next.Generating = false
		next.Progress = 100
		next.Result = latest.Result
	case StatusError:
		next.Generating = false
		next.Result = nil
		next.Err = &JobError{JobID: latest.ID, Message: latest.Error}
	}

	return next, completed
}

// completedSince returns steps from latest that are completed now but were
// not completed in prev. Steps unseen in prev count as fresh completions.
func completedSince(prev, latest []Step) []Step {
	if len(latest) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(prev))
	for _, s := range prev {
		if s.Status == StepCompleted {
			seen[s.Name] = true
		}
	}

	var out []Step
	for _, s := range latest {
		if s.Status == StepCompleted && !seen[s.Name] {
			out = append(out, s)
		}
	}
	return out
}
