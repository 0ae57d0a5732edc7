package artifacts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/reelcraft/reelcraft/pkg/job"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "artifacts"))
	require.NoError(t, err)
	return store
}

func TestStoreSaveAndGet(t *testing.T) {
	store := newTestStore(t)

	meta, err := store.Save(context.Background(), Metadata{
		JobID:     "vid-1",
		Kind:      job.KindVideoGeneration,
		SourceURL: "https://cdn.example.com/vid-1.mp4",
		Filename:  "vid-1.mp4",
	}, strings.NewReader("video bytes"))
	require.NoError(t, err)
	require.Equal(t, int64(len("video bytes")), meta.Size)
	require.False(t, meta.SavedAt.IsZero())

	got, err := store.Get(context.Background(), "vid-1")
	require.NoError(t, err)
	require.Equal(t, meta, got)

	path, err := store.Path(context.Background(), "vid-1")
	require.NoError(t, err)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "video bytes", string(raw))
}

func TestStoreSaveStripsPathFromFilename(t *testing.T) {
	store := newTestStore(t)

	meta, err := store.Save(context.Background(), Metadata{
		JobID:    "vid-2",
		Kind:     job.KindVideoGeneration,
		Filename: "../../escape.mp4",
	}, strings.NewReader("x"))
	require.NoError(t, err)
	require.Equal(t, "escape.mp4", meta.Filename)

	path, err := store.Path(context.Background(), "vid-2")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(store.Root(), "vid-2", "escape.mp4"), path)
}

func TestStoreGetNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "missing")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	require.Equal(t, "missing", nf.JobID)
}

func TestStoreListNewestFirst(t *testing.T) {
	store := newTestStore(t)

	base := time.Now().UTC().Add(-time.Hour)
	for i, id := range []string{"old", "mid", "new"} {
		_, err := store.Save(context.Background(), Metadata{
			JobID:    id,
			Kind:     job.KindTextToSpeech,
			Filename: id + ".mp3",
			SavedAt:  base.Add(time.Duration(i) * time.Minute),
		}, strings.NewReader("audio"))
		require.NoError(t, err)
	}

	metas, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, metas, 3)
	require.Equal(t, "new", metas[0].JobID)
	require.Equal(t, "old", metas[2].JobID)
}

func TestStoreDelete(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Save(context.Background(), Metadata{
		JobID:    "vid-3",
		Filename: "vid-3.mp4",
	}, strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), "vid-3"))

	_, err = store.Get(context.Background(), "vid-3")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)

	err = store.Delete(context.Background(), "vid-3")
	require.ErrorAs(t, err, &nf)
}

func TestFetcherDownloadsResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/media/clip.mp4", r.URL.Path)
		_, _ = w.Write([]byte("rendered clip"))
	}))
	defer srv.Close()

	store := newTestStore(t)
	fetcher := NewFetcher(store).WithHTTPClient(srv.Client())

	meta, err := fetcher.Fetch(context.Background(), "vid-9", job.KindImageToVideo, srv.URL+"/media/clip.mp4")
	require.NoError(t, err)
	require.Equal(t, "clip.mp4", meta.Filename)
	require.Equal(t, int64(len("rendered clip")), meta.Size)

	path, err := store.Path(context.Background(), "vid-9")
	require.NoError(t, err)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "rendered clip", string(raw))
}

func TestFetcherRejectsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	store := newTestStore(t)
	fetcher := NewFetcher(store).WithHTTPClient(srv.Client())

	_, err := fetcher.Fetch(context.Background(), "vid-10", job.KindVideoGeneration, srv.URL+"/media/clip.mp4")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unexpected status 410")
}
