// Copyright 2025 Reelcraft Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package subscribers

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/reelcraft/reelcraft/pkg/output"
)

// Lipgloss styles for terminal output
var (
	// Info style - normal messages
	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")) // Green

	// Error style - critical errors with icon
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")). // Red
			Bold(true)

	// Warning style - warnings with icon
	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")). // Yellow
			Bold(true)

	// Progress style - in-flight generation updates, dimmed
	progressStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")) // Light gray

	// Step style - completed pipeline steps
	stepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // Cyan

	// Table header style - bold headers with border
	tableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("62")). // Blue
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				Padding(0, 1)
)

// HumanFormatter renders human-friendly output (progress lines, tables,
// colors). Used when --output json is NOT requested.
type HumanFormatter struct {
	stdout       io.Writer
	stderr       io.Writer
	colorEnabled bool
}

// NewHumanFormatter creates a new HumanFormatter subscriber.
func NewHumanFormatter(stdout, stderr io.Writer, colorEnabled bool) *HumanFormatter {
	return &HumanFormatter{
		stdout:       stdout,
		stderr:       stderr,
		colorEnabled: colorEnabled,
	}
}

// Name returns the subscriber identifier.
func (s *HumanFormatter) Name() string {
	return "human-formatter"
}

// ShouldHandle decides if this subscriber cares about the event.
// HumanFormatter handles everything EXCEPT diagnostic events.
func (s *HumanFormatter) ShouldHandle(event output.OutputEvent) bool {
	return event.Type != output.EventDiag
}

// Handle processes an output event and renders it in human-friendly format.
func (s *HumanFormatter) Handle(event output.OutputEvent) {
	switch event.Type {
	case output.EventInfo:
		s.printInfo(event.Message)

	case output.EventError:
		s.printError(event.Message)

	case output.EventWarning:
		s.printWarning(event.Message)

	case output.EventTable:
		if data, ok := event.Data.(map[string]any); ok {
			headers, _ := data["headers"].([]string)
			rows, _ := data["rows"].([][]string)
			s.printTable(headers, rows)
		}

	case output.EventProgress:
		if data, ok := event.Data.(map[string]any); ok {
			percent, _ := data["percent"].(int)
			step, _ := data["step"].(string)
			s.printProgress(percent, step)
		}

	case output.EventStep:
		if data, ok := event.Data.(map[string]any); ok {
			step, _ := data["step"].(string)
			s.printStep(step)
		}
	}
}

func (s *HumanFormatter) printInfo(message string) {
	if !s.colorEnabled {
		_, _ = fmt.Fprintln(s.stdout, message)
		return
	}
	_, _ = fmt.Fprintln(s.stdout, infoStyle.Render(message))
}

func (s *HumanFormatter) printError(message string) {
	if !s.colorEnabled {
		_, _ = fmt.Fprintf(s.stderr, "Error: %s\n", message)
		return
	}
	_, _ = fmt.Fprintln(s.stderr, errorStyle.Render("✗ "+message))
}

func (s *HumanFormatter) printWarning(message string) {
	if !s.colorEnabled {
		_, _ = fmt.Fprintf(s.stderr, "Warning: %s\n", message)
		return
	}
	_, _ = fmt.Fprintln(s.stderr, warningStyle.Render("! "+message))
}

func (s *HumanFormatter) printProgress(percent int, step string) {
	line := fmt.Sprintf("⏳ %3d%%", percent)
	if step != "" {
		line += "  " + step
	}
	if !s.colorEnabled {
		_, _ = fmt.Fprintln(s.stdout, line)
		return
	}
	_, _ = fmt.Fprintln(s.stdout, progressStyle.Render(line))
}

func (s *HumanFormatter) printStep(step string) {
	line := "✓ " + step
	if !s.colorEnabled {
		_, _ = fmt.Fprintln(s.stdout, line)
		return
	}
	_, _ = fmt.Fprintln(s.stdout, stepStyle.Render(line))
}

func (s *HumanFormatter) printTable(headers []string, rows [][]string) {
	w := tabwriter.NewWriter(s.stdout, 0, 4, 2, ' ', 0)

	headerLine := ""
	for i, h := range headers {
		if i > 0 {
			headerLine += "\t"
		}
		if s.colorEnabled {
			headerLine += tableHeaderStyle.Render(h)
		} else {
			headerLine += h
		}
	}
	_, _ = fmt.Fprintln(w, headerLine)

	for _, row := range rows {
		line := ""
		for i, cell := range row {
			if i > 0 {
				line += "\t"
			}
			line += cell
		}
		_, _ = fmt.Fprintln(w, line)
	}
	_ = w.Flush()
}
