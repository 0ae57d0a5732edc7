package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/reelcraft/reelcraft/pkg/job"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_RecordAndGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	err := store.Record(ctx, Entry{
		ID:          "job-1",
		Kind:        job.KindVideoGeneration,
		Status:      "processing",
		Summary:     "Hello world script",
		Progress:    45,
		WorkspaceID: "ws-1",
		ProjectID:   "proj-1",
	})
	require.NoError(t, err)

	got, err := store.Get(ctx, "job-1")
	require.NoError(t, err)
	require.Equal(t, job.KindVideoGeneration, got.Kind)
	require.Equal(t, "processing", got.Status)
	require.Equal(t, 45, got.Progress)
	require.Equal(t, "ws-1", got.WorkspaceID)
	require.False(t, got.CreatedAt.IsZero())
	require.False(t, got.UpdatedAt.IsZero())
}

func TestStore_RecordUpsertsOnSameID(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, Entry{ID: "job-1", Kind: job.KindTextToSpeech, Status: "processing", Progress: 10}))

	first, err := store.Get(ctx, "job-1")
	require.NoError(t, err)

	time.Sleep(2 * time.Millisecond)
	require.NoError(t, store.Record(ctx, Entry{
		ID:        "job-1",
		Kind:      job.KindTextToSpeech,
		Status:    "completed",
		Progress:  100,
		ResultURL: "https://x/out.mp3",
	}))

	got, err := store.Get(ctx, "job-1")
	require.NoError(t, err)
	require.Equal(t, "completed", got.Status)
	require.Equal(t, 100, got.Progress)
	require.Equal(t, "https://x/out.mp3", got.ResultURL)
	require.Equal(t, first.CreatedAt, got.CreatedAt)
	require.True(t, got.UpdatedAt.After(first.UpdatedAt))
}

func TestStore_GetNotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Get(context.Background(), "missing")

	var nfe *NotFoundError
	require.ErrorAs(t, err, &nfe)
	require.Equal(t, "missing", nfe.ID)
}

func TestStore_ListFilters(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	entries := []Entry{
		{ID: "v-1", Kind: job.KindVideoGeneration, Status: "completed"},
		{ID: "v-2", Kind: job.KindVideoGeneration, Status: "error"},
		{ID: "t-1", Kind: job.KindTextToSpeech, Status: "completed"},
	}
	for _, e := range entries {
		require.NoError(t, store.Record(ctx, e))
	}

	all, err := store.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)

	videos, err := store.List(ctx, Filter{Kind: job.KindVideoGeneration})
	require.NoError(t, err)
	require.Len(t, videos, 2)

	completedVideos, err := store.List(ctx, Filter{Kind: job.KindVideoGeneration, Status: "completed"})
	require.NoError(t, err)
	require.Len(t, completedVideos, 1)
	require.Equal(t, "v-1", completedVideos[0].ID)

	limited, err := store.List(ctx, Filter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, limited, 2)
}

func TestRecorder_RecordsLifecycle(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	type result struct {
		VideoURL string
	}
	rec := NewRecorder(store, job.KindVideoGeneration, func(r *result) string { return r.VideoURL }).
		WithSummary("Hello").
		WithScope("ws-1", "proj-1")

	rec.OnState("job-1", job.State[result]{Generating: true, Progress: 45, CurrentStep: "text_to_speech"})

	got, err := store.Get(ctx, "job-1")
	require.NoError(t, err)
	require.Equal(t, "processing", got.Status)
	require.Equal(t, 45, got.Progress)
	require.Equal(t, "Hello", got.Summary)

	rec.OnState("job-1", job.State[result]{Progress: 100, Result: &result{VideoURL: "https://x/out.mp4"}})

	got, err = store.Get(ctx, "job-1")
	require.NoError(t, err)
	require.Equal(t, "completed", got.Status)
	require.Equal(t, "https://x/out.mp4", got.ResultURL)
}

func TestRecorder_ErrorAndCancelStates(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	type result struct{}
	rec := NewRecorder(store, job.KindImageToVideo, func(*result) string { return "" })

	rec.OnState("job-err", job.State[result]{Err: errors.New("render farm on fire")})
	got, err := store.Get(ctx, "job-err")
	require.NoError(t, err)
	require.Equal(t, "error", got.Status)
	require.Equal(t, "render farm on fire", got.Error)

	rec.OnState("job-cancel", job.State[result]{})
	got, err = store.Get(ctx, "job-cancel")
	require.NoError(t, err)
	require.Equal(t, StatusCancelled, got.Status)
}

func TestRecorder_SkipsEntriesWithoutJobID(t *testing.T) {
	store := openTestStore(t)

	type result struct{}
	rec := NewRecorder(store, job.KindVideoGeneration, func(*result) string { return "" })
	rec.OnState("", job.State[result]{Generating: true})

	all, err := store.List(context.Background(), Filter{})
	require.NoError(t, err)
	require.Empty(t, all)
}
