package artifacts

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/reelcraft/reelcraft/pkg/job"
)

// Fetcher downloads finished results into a Store.
type Fetcher struct {
	store  *Store
	client *http.Client
}

// NewFetcher creates a fetcher writing into store.
func NewFetcher(store *Store) *Fetcher {
	return &Fetcher{
		store:  store,
		client: &http.Client{Timeout: 5 * time.Minute},
	}
}

// WithHTTPClient overrides the download client.
func (f *Fetcher) WithHTTPClient(c *http.Client) *Fetcher {
	f.client = c
	return f
}

// Fetch downloads sourceURL and stores it as the artifact for jobID.
func (f *Fetcher) Fetch(ctx context.Context, jobID string, kind job.Kind, sourceURL string) (Metadata, error) {
	filename, err := filenameFromURL(sourceURL)
	if err != nil {
		return Metadata{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return Metadata{}, fmt.Errorf("build download request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return Metadata{}, fmt.Errorf("download result: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Metadata{}, fmt.Errorf("download result: unexpected status %d", resp.StatusCode)
	}

	return f.store.Save(ctx, Metadata{
		JobID:     jobID,
		Kind:      kind,
		SourceURL: sourceURL,
		Filename:  filename,
	}, resp.Body)
}

func filenameFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse result url: %w", err)
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		return "", fmt.Errorf("result url %q has no file name", raw)
	}
	return name, nil
}
