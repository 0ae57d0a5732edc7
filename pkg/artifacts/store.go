// Package artifacts stores downloaded generation results on disk. Each
// artifact lives in its own directory keyed by job ID, with a metadata.json
// next to the media file. Metadata access is guarded by file locks so
// concurrent CLI invocations do not corrupt it.
//
// Layout:
//
//	{root}/
//	  {job-id}/
//	    metadata.json
//	    {filename}
package artifacts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gofrs/flock"

	"github.com/reelcraft/reelcraft/pkg/job"
)

// NotFoundError reports a missing artifact.
type NotFoundError struct {
	JobID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no artifact stored for job %q", e.JobID)
}

// Metadata describes one stored artifact.
type Metadata struct {
	JobID     string    `json:"job_id"`
	Kind      job.Kind  `json:"kind"`
	SourceURL string    `json:"source_url"`
	Filename  string    `json:"filename"`
	Size      int64     `json:"size_bytes"`
	SavedAt   time.Time `json:"saved_at"`
}

// Store is a file-based artifact store rooted at a single directory.
type Store struct {
	root string
}

// Open prepares the store, creating the root directory if needed.
func Open(root string) (*Store, error) {
	if root == "" {
		return nil, errors.New("artifacts root directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create artifacts directory: %w", err)
	}
	return &Store{root: root}, nil
}

// Root returns the store's root directory.
func (s *Store) Root() string { return s.root }

// Save streams data into the artifact file for meta.JobID and writes its
// metadata. An existing artifact for the same job is replaced.
func (s *Store) Save(ctx context.Context, meta Metadata, data io.Reader) (Metadata, error) {
	if meta.JobID == "" {
		return Metadata{}, errors.New("artifact job ID is required")
	}
	if meta.Filename == "" {
		return Metadata{}, errors.New("artifact filename is required")
	}
	// The filename comes from a URL; never let it escape the job dir.
	meta.Filename = filepath.Base(meta.Filename)

	dir := s.jobDir(meta.JobID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Metadata{}, fmt.Errorf("create artifact directory: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, meta.Filename))
	if err != nil {
		return Metadata{}, fmt.Errorf("create artifact file: %w", err)
	}
	n, err := io.Copy(f, data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return Metadata{}, fmt.Errorf("write artifact file: %w", err)
	}
	meta.Size = n
	if meta.SavedAt.IsZero() {
		meta.SavedAt = time.Now().UTC()
	}

	if err := s.writeMetadata(meta); err != nil {
		return Metadata{}, err
	}
	return meta, nil
}

// Get returns the metadata for a stored artifact.
func (s *Store) Get(ctx context.Context, jobID string) (Metadata, error) {
	path := s.metadataPath(jobID)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Metadata{}, &NotFoundError{JobID: jobID}
	}

	lock := flock.New(path + ".lock")
	if err := lock.RLock(); err != nil {
		return Metadata{}, fmt.Errorf("lock artifact metadata: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	raw, err := os.ReadFile(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("read artifact metadata: %w", err)
	}
	var meta Metadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return Metadata{}, fmt.Errorf("parse artifact metadata: %w", err)
	}
	return meta, nil
}

// Path returns the absolute path of the stored media file for jobID.
func (s *Store) Path(ctx context.Context, jobID string) (string, error) {
	meta, err := s.Get(ctx, jobID)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.jobDir(jobID), meta.Filename), nil
}

// List returns all stored artifacts, newest first. Directories with
// unreadable metadata are skipped.
func (s *Store) List(ctx context.Context) ([]Metadata, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Metadata{}, nil
		}
		return nil, fmt.Errorf("read artifacts directory: %w", err)
	}

	metas := make([]Metadata, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Get(ctx, entry.Name())
		if err != nil {
			continue
		}
		metas = append(metas, meta)
	}
	sort.Slice(metas, func(i, j int) bool {
		return metas[i].SavedAt.After(metas[j].SavedAt)
	})
	return metas, nil
}

// Delete removes an artifact and its metadata.
func (s *Store) Delete(ctx context.Context, jobID string) error {
	dir := s.jobDir(jobID)
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		return &NotFoundError{JobID: jobID}
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("delete artifact: %w", err)
	}
	return nil
}

func (s *Store) writeMetadata(meta Metadata) error {
	path := s.metadataPath(meta.JobID)

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock artifact metadata: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	raw, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal artifact metadata: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write artifact metadata: %w", err)
	}
	return nil
}

func (s *Store) jobDir(jobID string) string {
	return filepath.Join(s.root, jobID)
}

func (s *Store) metadataPath(jobID string) string {
	return filepath.Join(s.jobDir(jobID), "metadata.json")
}
