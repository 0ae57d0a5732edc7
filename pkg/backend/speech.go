package backend

import (
	"context"

	"github.com/reelcraft/reelcraft/pkg/job"
)

// SpeechRequest is the payload for a standalone text-to-speech job.
type SpeechRequest struct {
	Text        string `json:"text"`
	VoicePreset string `json:"voice_preset"`
	Language    string `json:"language,omitempty"`
	UserID      string `json:"user_id"`
	WorkspaceID string `json:"workspace_id,omitempty"`
}

// Validate checks required fields before submission.
func (r SpeechRequest) Validate() error {
	switch {
	case r.Text == "":
		return missing("text")
	case r.VoicePreset == "":
		return missing("voice_preset")
	case r.UserID == "":
		return missing("user_id")
	}
	return nil
}

// SpeechResult is the payload of a completed text-to-speech job.
type SpeechResult struct {
	AudioURL       string  `json:"audio_url"`
	ProcessingTime float64 `json:"processing_time,omitempty"`
}

// SpeechService wraps the text-to-speech endpoints. Unlike the other job
// kinds these live outside the /api/v1 prefix, matching the backend as
// deployed.
type SpeechService struct {
	client *Client
}

// Submit creates a speech synthesis job and returns its initial snapshot.
func (s *SpeechService) Submit(ctx context.Context, req SpeechRequest) (*job.Snapshot[SpeechResult], error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var snap job.Snapshot[SpeechResult]
	if err := s.client.postJSON(ctx, "/text-to-speech/generate", req, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Status fetches the current snapshot of a speech synthesis job.
func (s *SpeechService) Status(ctx context.Context, id string) (*job.Snapshot[SpeechResult], error) {
	var snap job.Snapshot[SpeechResult]
	if err := s.client.getJSON(ctx, "/text-to-speech/status/"+id, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}
