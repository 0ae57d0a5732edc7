package tracker

import "github.com/reelcraft/reelcraft/pkg/job"

type multiListener[R any] struct {
	listeners []Listener[R]
}

// Listeners combines several listeners into one; callbacks fan out in
// argument order. Nil entries are skipped.
func Listeners[R any](ls ...Listener[R]) Listener[R] {
	out := make([]Listener[R], 0, len(ls))
	for _, l := range ls {
		if l != nil {
			out = append(out, l)
		}
	}
	return &multiListener[R]{listeners: out}
}

func (m *multiListener[R]) OnState(jobID string, state job.State[R]) {
	for _, l := range m.listeners {
		l.OnState(jobID, state)
	}
}

func (m *multiListener[R]) OnStepCompleted(jobID string, step job.Step) {
	for _, l := range m.listeners {
		l.OnStepCompleted(jobID, step)
	}
}
