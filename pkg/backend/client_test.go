package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reelcraft/reelcraft/pkg/job"
)

func validVideoRequest() VideoRequest {
	return VideoRequest{
		Text:          "Hello",
		ActorID:       "42",
		ActorVideoURL: "https://x/42.mp4",
		Language:      "english",
		UserID:        "user-1",
		WorkspaceID:   "ws-1",
	}
}

func TestVideoService_SubmitAndStatus(t *testing.T) {
	var submitBody VideoRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/video-generation/generate":
			require.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
			require.NotEmpty(t, r.Header.Get("X-Request-ID"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&submitBody))
			_ = json.NewEncoder(w).Encode(map[string]any{
				"job_id":              "job-1",
				"status":              "pending",
				"progress_percentage": 0,
			})
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/video-generation/status/job-1":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"job_id":              "job-1",
				"status":              "completed",
				"progress_percentage": 100,
				"current_step":        "lipsync",
				"steps": []map[string]any{
					{"name": "text_to_speech", "status": "completed"},
					{"name": "lipsync", "status": "completed"},
				},
				"result": map[string]any{
					"video_url":       "https://x/out.mp4",
					"audio_url":       "https://x/out.mp3",
					"processing_time": 12.5,
				},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	svc := New(Config{BaseURL: srv.URL, APIKey: "secret"}).Video()

	snap, err := svc.Submit(context.Background(), validVideoRequest())
	require.NoError(t, err)
	require.Equal(t, "job-1", snap.ID)
	require.Equal(t, job.StatusPending, snap.Status)
	require.Equal(t, "42", submitBody.ActorID)
	require.Equal(t, "Hello", submitBody.Text)

	status, err := svc.Status(context.Background(), "job-1")
	require.NoError(t, err)
	require.True(t, status.Status.Terminal())
	require.Len(t, status.Steps, 2)
	require.NotNil(t, status.Result)
	require.Equal(t, "https://x/out.mp4", status.Result.VideoURL)
	require.InDelta(t, 12.5, status.Result.ProcessingTime, 0.001)
}

func TestVideoService_ValidationSkipsNetwork(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	svc := New(Config{BaseURL: srv.URL}).Video()

	req := validVideoRequest()
	req.ActorID = ""
	_, err := svc.Submit(context.Background(), req)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "actor_id", verr.Field)
	require.EqualValues(t, 0, calls.Load())
}

func TestVideoService_Non2xxIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	svc := New(Config{BaseURL: srv.URL}).Video()

	_, err := svc.Submit(context.Background(), validVideoRequest())

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	require.Equal(t, http.StatusBadGateway, terr.StatusCode)
	require.Contains(t, terr.Error(), "backend exploded")
}

func TestVideoService_ConnectionRefusedIsTransportError(t *testing.T) {
	svc := New(Config{BaseURL: "http://127.0.0.1:1"}).Video()

	_, err := svc.Status(context.Background(), "job-1")

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	require.Zero(t, terr.StatusCode)
}

func TestSpeechService_Paths(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewEncoder(w).Encode(map[string]any{"job_id": "tts-1", "status": "pending"})
	}))
	defer srv.Close()

	svc := New(Config{BaseURL: srv.URL}).Speech()

	snap, err := svc.Submit(context.Background(), SpeechRequest{Text: "Hello", VoicePreset: "warm", UserID: "user-1"})
	require.NoError(t, err)
	require.Equal(t, "tts-1", snap.ID)
	require.Equal(t, "/text-to-speech/generate", gotPath)

	_, err = svc.Status(context.Background(), "tts-1")
	require.NoError(t, err)
	require.Equal(t, "/text-to-speech/status/tts-1", gotPath)
}

func TestSpeechService_Validation(t *testing.T) {
	svc := New(Config{BaseURL: "http://127.0.0.1:1"}).Speech()

	_, err := svc.Submit(context.Background(), SpeechRequest{VoicePreset: "warm", UserID: "u"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "text", verr.Field)
}

func TestImageToVideoService_SubmitFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/image-to-video/from-file", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		require.Equal(t, "still.png", header.Filename)
		require.Equal(t, "make it rain", r.FormValue("prompt"))
		require.Equal(t, "user-1", r.FormValue("user_id"))

		_ = json.NewEncoder(w).Encode(map[string]any{"job_id": "i2v-1", "status": "pending"})
	}))
	defer srv.Close()

	svc := New(Config{BaseURL: srv.URL}).ImageToVideo()

	snap, err := svc.SubmitFile(context.Background(), "still.png", strings.NewReader("fake-png-bytes"), "make it rain", "user-1", "")
	require.NoError(t, err)
	require.Equal(t, "i2v-1", snap.ID)
}

func TestImageToVideoService_StatusResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/image-to-video/status/i2v-1", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"job_id": "i2v-1",
			"status": "completed",
			"result": map[string]any{
				"video_url":         "https://x/clip.mp4",
				"preview_image_url": "https://x/preview.png",
			},
		})
	}))
	defer srv.Close()

	svc := New(Config{BaseURL: srv.URL}).ImageToVideo()

	snap, err := svc.Status(context.Background(), "i2v-1")
	require.NoError(t, err)
	require.NotNil(t, snap.Result)
	require.Equal(t, "https://x/clip.mp4", snap.Result.VideoURL)
	require.Equal(t, "https://x/preview.png", snap.Result.PreviewImageURL)
}
