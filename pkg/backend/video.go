package backend

import (
	"context"

	"github.com/reelcraft/reelcraft/pkg/job"
)

// VideoRequest is the payload for an avatar video generation job: a script
// spoken by a chosen actor, lip-synced onto the actor's reference video.
type VideoRequest struct {
	Text          string `json:"text"`
	ActorID       string `json:"actor_id"`
	ActorVideoURL string `json:"actor_video_url"`
	Language      string `json:"language"`
	VoicePreset   string `json:"voice_preset,omitempty"`
	ProjectID     string `json:"project_id,omitempty"`
	UserID        string `json:"user_id"`
	WorkspaceID   string `json:"workspace_id"`
}

// Validate checks required fields before submission.
func (r VideoRequest) Validate() error {
	switch {
	case r.Text == "":
		return missing("text")
	case r.ActorID == "":
		return missing("actor_id")
	case r.ActorVideoURL == "":
		return missing("actor_video_url")
	case r.UserID == "":
		return missing("user_id")
	case r.WorkspaceID == "":
		return missing("workspace_id")
	}
	return nil
}

// VideoResult is the payload of a completed video generation job.
type VideoResult struct {
	VideoURL       string  `json:"video_url"`
	AudioURL       string  `json:"audio_url,omitempty"`
	ProcessingTime float64 `json:"processing_time,omitempty"`
	ThumbnailURL   string  `json:"thumbnail_url,omitempty"`
}

// VideoService wraps the video generation endpoints.
type VideoService struct {
	client *Client
}

// Submit creates a video generation job and returns its initial snapshot.
func (s *VideoService) Submit(ctx context.Context, req VideoRequest) (*job.Snapshot[VideoResult], error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var snap job.Snapshot[VideoResult]
	if err := s.client.postJSON(ctx, "/api/v1/video-generation/generate", req, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Status fetches the current snapshot of a video generation job.
func (s *VideoService) Status(ctx context.Context, id string) (*job.Snapshot[VideoResult], error) {
	var snap job.Snapshot[VideoResult]
	if err := s.client.getJSON(ctx, "/api/v1/video-generation/status/"+id, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}
