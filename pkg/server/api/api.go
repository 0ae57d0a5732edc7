package api

import (
	"context"
	"sync/atomic"

	"github.com/reelcraft/reelcraft/pkg/history"
)

// Deps holds dependencies for API handlers.
// This pattern enables dependency injection and easier testing.
type Deps struct {
	// History is the local job history store the API serves.
	History HistoryStore

	// Ready flag for readiness check
	Ready *atomic.Bool
}

// HistoryStore is the subset of history methods needed by the API.
// Defined here to ease mocking in handler tests.
type HistoryStore interface {
	List(ctx context.Context, f history.Filter) ([]history.Entry, error)
	Get(ctx context.Context, id string) (history.Entry, error)
}
