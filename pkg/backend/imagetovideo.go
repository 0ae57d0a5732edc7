package backend

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/reelcraft/reelcraft/pkg/job"
)

// ImageToVideoRequest is the payload for animating a still image into a
// short clip from a hosted image URL.
type ImageToVideoRequest struct {
	ImageURL    string `json:"image_url"`
	Prompt      string `json:"prompt"`
	UserID      string `json:"user_id"`
	WorkspaceID string `json:"workspace_id,omitempty"`
}

// Validate checks required fields before submission.
func (r ImageToVideoRequest) Validate() error {
	switch {
	case r.ImageURL == "":
		return missing("image_url")
	case r.Prompt == "":
		return missing("prompt")
	case r.UserID == "":
		return missing("user_id")
	}
	return nil
}

// ImageToVideoResult is the payload of a completed image-to-video job.
type ImageToVideoResult struct {
	VideoURL        string `json:"video_url"`
	PreviewImageURL string `json:"preview_image_url,omitempty"`
}

// ImageToVideoService wraps the image-to-video endpoints.
type ImageToVideoService struct {
	client *Client
}

// Submit creates an image-to-video job from a hosted image URL.
func (s *ImageToVideoService) Submit(ctx context.Context, req ImageToVideoRequest) (*job.Snapshot[ImageToVideoResult], error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var snap job.Snapshot[ImageToVideoResult]
	if err := s.client.postJSON(ctx, "/api/v1/image-to-video/generate", req, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// SubmitFile creates an image-to-video job from a local image, uploaded as
// multipart form data.
func (s *ImageToVideoService) SubmitFile(ctx context.Context, filename string, file io.Reader, prompt, userID, workspaceID string) (*job.Snapshot[ImageToVideoResult], error) {
	if prompt == "" {
		return nil, missing("prompt")
	}
	if userID == "" {
		return nil, missing("user_id")
	}
	fields := map[string]string{
		"prompt":       prompt,
		"user_id":      userID,
		"workspace_id": workspaceID,
	}
	var snap job.Snapshot[ImageToVideoResult]
	if err := s.client.postMultipart(ctx, "/api/v1/image-to-video/from-file", filename, file, fields, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Status fetches the current snapshot of an image-to-video job.
func (s *ImageToVideoService) Status(ctx context.Context, id string) (*job.Snapshot[ImageToVideoResult], error) {
	var snap job.Snapshot[ImageToVideoResult]
	if err := s.client.getJSON(ctx, "/api/v1/image-to-video/status/"+id, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// ImageFileRequest is the payload for animating a local image file.
type ImageFileRequest struct {
	Path        string
	Prompt      string
	UserID      string
	WorkspaceID string
}

// Validate checks required fields before submission.
func (r ImageFileRequest) Validate() error {
	switch {
	case r.Path == "":
		return missing("file")
	case r.Prompt == "":
		return missing("prompt")
	case r.UserID == "":
		return missing("user_id")
	}
	return nil
}

// ImageToVideoFileService adapts local-file submissions to the same
// tracker contract as the URL-based service; status polling is shared.
type ImageToVideoFileService struct {
	client *Client
}

// ImageToVideoFromFile returns the file-upload image-to-video service.
func (c *Client) ImageToVideoFromFile() *ImageToVideoFileService {
	return &ImageToVideoFileService{client: c}
}

// Submit opens the image at req.Path and uploads it as a new job.
func (s *ImageToVideoFileService) Submit(ctx context.Context, req ImageFileRequest) (*job.Snapshot[ImageToVideoResult], error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	f, err := os.Open(req.Path)
	if err != nil {
		return nil, fmt.Errorf("open image file: %w", err)
	}
	defer f.Close()

	inner := ImageToVideoService{client: s.client}
	return inner.SubmitFile(ctx, filepath.Base(req.Path), f, req.Prompt, req.UserID, req.WorkspaceID)
}

// Status fetches the current snapshot of an image-to-video job.
func (s *ImageToVideoFileService) Status(ctx context.Context, id string) (*job.Snapshot[ImageToVideoResult], error) {
	inner := ImageToVideoService{client: s.client}
	return inner.Status(ctx, id)
}
