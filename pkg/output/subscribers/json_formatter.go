// Copyright 2025 Reelcraft Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package subscribers

import (
	"encoding/json"
	"io"
	"time"

	"github.com/reelcraft/reelcraft/pkg/output"
)

// JSONFormatter renders output events as one JSON object per line, for
// machine consumption (--output json).
type JSONFormatter struct {
	w   io.Writer
	enc *json.Encoder
}

// NewJSONFormatter creates a new JSONFormatter subscriber writing to w.
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{
		w:   w,
		enc: json.NewEncoder(w),
	}
}

// Name returns the subscriber identifier.
func (s *JSONFormatter) Name() string {
	return "json-formatter"
}

// ShouldHandle decides if this subscriber cares about the event.
// Diagnostic events are excluded from machine output as well; they go to
// the structured logger instead.
func (s *JSONFormatter) ShouldHandle(event output.OutputEvent) bool {
	return event.Type != output.EventDiag
}

// Handle encodes the event as a single JSON line.
func (s *JSONFormatter) Handle(event output.OutputEvent) {
	payload := map[string]any{
		"type":      string(event.Type),
		"timestamp": event.Timestamp.UTC().Format(time.RFC3339Nano),
	}
	if event.Message != "" {
		payload["message"] = event.Message
	}
	if event.Data != nil {
		payload["data"] = event.Data
	}
	_ = s.enc.Encode(payload)
}
