package artifacts

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"
)

// GCOptions controls artifact garbage collection.
type GCOptions struct {
	// DryRun reports what would be deleted without deleting it.
	DryRun bool

	// MaxAge removes artifacts saved longer ago than this. Zero disables
	// age-based collection.
	MaxAge time.Duration

	// MaxCount keeps at most this many artifacts, deleting the oldest
	// first. Zero disables count-based collection.
	MaxCount int
}

func (o GCOptions) enabled() bool {
	return o.MaxAge > 0 || o.MaxCount > 0
}

// GCResult summarizes a garbage collection run. GC keeps going when an
// individual deletion fails; those failures land in Errors.
type GCResult struct {
	Deleted       int
	DeletedJobIDs []string
	BytesFreed    int64
	Errors        []error
}

// GC removes artifacts violating the retention options: first everything
// older than MaxAge, then the oldest of what remains until MaxCount holds.
func (s *Store) GC(ctx context.Context, opts GCOptions) (*GCResult, error) {
	result := &GCResult{DeletedJobIDs: make([]string, 0)}
	if !opts.enabled() {
		return result, nil
	}

	metas, err := s.List(ctx)
	if err != nil {
		return result, fmt.Errorf("list artifacts: %w", err)
	}
	if len(metas) == 0 {
		return result, nil
	}

	// Oldest first.
	sort.Slice(metas, func(i, j int) bool {
		return metas[i].SavedAt.Before(metas[j].SavedAt)
	})

	toDelete := make([]Metadata, 0)
	if opts.MaxAge > 0 {
		cutoff := time.Now().Add(-opts.MaxAge)
		for _, m := range metas {
			if m.SavedAt.Before(cutoff) {
				toDelete = append(toDelete, m)
			}
		}
	}

	if opts.MaxCount > 0 {
		remaining := make([]Metadata, 0, len(metas))
		for _, m := range metas {
			marked := slices.ContainsFunc(toDelete, func(d Metadata) bool {
				return d.JobID == m.JobID
			})
			if !marked {
				remaining = append(remaining, m)
			}
		}
		if excess := len(remaining) - opts.MaxCount; excess > 0 {
			toDelete = append(toDelete, remaining[:excess]...)
		}
	}

	for _, m := range toDelete {
		if !opts.DryRun {
			if err := s.Delete(ctx, m.JobID); err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("delete artifact %s: %w", m.JobID, err))
				continue
			}
		}
		result.DeletedJobIDs = append(result.DeletedJobIDs, m.JobID)
		result.Deleted++
		result.BytesFreed += m.Size
	}

	return result, nil
}
