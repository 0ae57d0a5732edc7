// Copyright 2025 Reelcraft Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package output

import "time"

// contextKey is a type for context keys to avoid collisions
type contextKey string

// OutputKey is the context key for Output interface
const OutputKey contextKey = "output"

// OutputEventType defines the type of output event.
type OutputEventType string

const (
	// EventInfo represents a general information message (always visible)
	EventInfo OutputEventType = "info"

	// EventError represents an error message
	EventError OutputEventType = "error"

	// EventWarning represents a warning message
	EventWarning OutputEventType = "warning"

	// EventTable represents tabular data output
	EventTable OutputEventType = "table"

	// EventProgress represents a generation progress update
	EventProgress OutputEventType = "progress"

	// EventStep represents a completed pipeline step
	EventStep OutputEventType = "step"

	// EventDiag represents diagnostic information (only visible with -v/-vv)
	EventDiag OutputEventType = "diag"
)

// OutputLevel defines the verbosity level for diagnostic messages.
type OutputLevel int

const (
	// LevelNormal is the default level (always shown)
	LevelNormal OutputLevel = 0

	// LevelVerbose is shown with -v flag
	LevelVerbose OutputLevel = 1

	// LevelDebug is shown with -vv flag
	LevelDebug OutputLevel = 2
)

// OutputEvent represents a single output event emitted by business logic.
type OutputEvent struct {
	// Type identifies the event category (info, error, progress, etc.)
	Type OutputEventType

	// Level specifies verbosity level (only used for EventDiag)
	Level OutputLevel

	// Message is the primary text content
	Message string

	// Data contains structured data (e.g., table headers/rows, progress values)
	Data any

	// Metadata holds additional key-value pairs for diagnostic events
	Metadata map[string]any

	// Timestamp records when the event was created
	Timestamp time.Time
}

// Output is the primary interface for business logic to emit output events.
// Generation code reports progress through this interface without knowing
// about the underlying rendering format (human-friendly terminal, JSON).
type Output interface {
	// Info emits a general information message (always visible).
	Info(message string)

	// Error emits an error message.
	Error(err error)

	// Warning emits a warning message.
	Warning(message string)

	// Table emits tabular data with headers and rows.
	Table(headers []string, rows [][]string)

	// Progress emits a generation progress update (percent plus the
	// pipeline step currently running).
	Progress(percent int, step string)

	// StepCompleted reports a finished pipeline step for a job.
	StepCompleted(jobID, step string)

	// Diag emits diagnostic information (only visible with -v/-vv).
	Diag(level OutputLevel, message string, metadata map[string]any)
}

// Subscriber consumes output events from a stream. Formatters implement
// this to render events for a particular audience.
type Subscriber interface {
	// Name returns the subscriber identifier.
	Name() string

	// ShouldHandle decides if this subscriber cares about the event.
	ShouldHandle(event OutputEvent) bool

	// Handle processes an output event.
	Handle(event OutputEvent)
}
