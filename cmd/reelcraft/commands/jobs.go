package commands

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/reelcraft/reelcraft/pkg/config"
	"github.com/reelcraft/reelcraft/pkg/history"
	"github.com/reelcraft/reelcraft/pkg/job"
)

// NewJobsCommand creates the 'jobs' command group for inspecting the
// local job history.
func NewJobsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "jobs",
		Short:   "Inspect recorded generation jobs",
		GroupID: "core",
	}

	cmd.AddCommand(newJobsListCommand())
	cmd.AddCommand(newJobsGetCommand())

	return cmd
}

func newJobsListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded jobs, newest first",
		Args:  cobra.NoArgs,
		RunE:  runJobsListCommand,
	}

	cmd.Flags().String("kind", "", "Filter by job kind (video_generation, text_to_speech, image_to_video)")
	cmd.Flags().String("status", "", "Filter by status (pending, processing, completed, error, cancelled)")
	cmd.Flags().Int("limit", 50, "Maximum number of jobs to show")

	return cmd
}

func runJobsListCommand(cmd *cobra.Command, args []string) error {
	out := setupOutputPipeline(cmd)

	cfg, err := configFromCommand(cmd)
	if err != nil {
		return err
	}
	store, err := requireHistory(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	kind, _ := cmd.Flags().GetString("kind")
	status, _ := cmd.Flags().GetString("status")
	limit, _ := cmd.Flags().GetInt("limit")

	entries, err := store.List(cmd.Context(), history.Filter{
		Kind:   job.Kind(kind),
		Status: status,
		Limit:  limit,
	})
	if err != nil {
		return fmt.Errorf("list jobs: %w", err)
	}
	if len(entries) == 0 {
		out.Info("No jobs recorded")
		return nil
	}

	headers := []string{"ID", "KIND", "STATUS", "PROGRESS", "UPDATED", "SUMMARY"}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.ID,
			string(e.Kind),
			e.Status,
			strconv.Itoa(e.Progress) + "%",
			e.UpdatedAt.Local().Format("2006-01-02 15:04:05"),
			e.Summary,
		})
	}
	out.Table(headers, rows)
	return nil
}

func newJobsGetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <job-id>",
		Short: "Show one recorded job",
		Args:  cobra.ExactArgs(1),
		RunE:  runJobsGetCommand,
	}

	cmd.Flags().String("format", "text", "Output format: text, json or yaml")

	return cmd
}

func runJobsGetCommand(cmd *cobra.Command, args []string) error {
	cfg, err := configFromCommand(cmd)
	if err != nil {
		return err
	}
	store, err := requireHistory(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	entry, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entry)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(entry)
	case "text":
		fmt.Fprintf(w, "ID:        %s\n", entry.ID)
		fmt.Fprintf(w, "Kind:      %s\n", entry.Kind)
		fmt.Fprintf(w, "Status:    %s\n", entry.Status)
		fmt.Fprintf(w, "Progress:  %d%%\n", entry.Progress)
		if entry.Summary != "" {
			fmt.Fprintf(w, "Summary:   %s\n", entry.Summary)
		}
		if entry.ResultURL != "" {
			fmt.Fprintf(w, "Result:    %s\n", entry.ResultURL)
		}
		if entry.Error != "" {
			fmt.Fprintf(w, "Error:     %s\n", entry.Error)
		}
		fmt.Fprintf(w, "Created:   %s\n", entry.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(w, "Updated:   %s\n", entry.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// requireHistory opens the history store or fails; the jobs commands are
// useless without one.
func requireHistory(cfg config.Config) (*history.Store, error) {
	if cfg.History.Path == "" {
		return nil, fmt.Errorf("job history is disabled (history.path is empty)")
	}
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return nil, fmt.Errorf("open job history: %w", err)
	}
	return store, nil
}
