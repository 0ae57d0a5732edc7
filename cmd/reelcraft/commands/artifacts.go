package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/reelcraft/reelcraft/pkg/artifacts"
)

// NewFetchCommand creates the 'fetch' command, which downloads the result
// of a finished job into the local artifact store.
func NewFetchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "fetch <job-id>",
		Short:   "Download a finished job's result",
		GroupID: "core",
		Args:    cobra.ExactArgs(1),
		RunE:    runFetchCommand,
	}

	cmd.Flags().String("dir", "", "Artifact directory (overrides artifacts.dir)")

	return cmd
}

func runFetchCommand(cmd *cobra.Command, args []string) error {
	out := setupOutputPipeline(cmd)

	cfg, err := configFromCommand(cmd)
	if err != nil {
		return err
	}
	if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
		cfg.Artifacts.Dir = dir
	}

	history, err := requireHistory(cfg)
	if err != nil {
		return err
	}
	defer history.Close()

	entry, err := history.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if entry.ResultURL == "" {
		return fmt.Errorf("job %s has no result to fetch (status %s)", entry.ID, entry.Status)
	}

	store, err := artifacts.Open(cfg.Artifacts.Dir)
	if err != nil {
		return err
	}

	meta, err := artifacts.NewFetcher(store).Fetch(cmd.Context(), entry.ID, entry.Kind, entry.ResultURL)
	if err != nil {
		return err
	}

	path, err := store.Path(cmd.Context(), meta.JobID)
	if err != nil {
		return err
	}
	out.Info(fmt.Sprintf("Saved %s (%d bytes)", path, meta.Size))
	return nil
}

// NewArtifactsCommand creates the 'artifacts' command group for managing
// downloaded results.
func NewArtifactsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "artifacts",
		Short:   "Manage downloaded results",
		GroupID: "core",
	}

	cmd.AddCommand(newArtifactsListCommand())
	cmd.AddCommand(newArtifactsGCCommand())

	return cmd
}

func newArtifactsListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List downloaded results, newest first",
		Args:  cobra.NoArgs,
		RunE:  runArtifactsListCommand,
	}
	return cmd
}

func runArtifactsListCommand(cmd *cobra.Command, args []string) error {
	out := setupOutputPipeline(cmd)

	cfg, err := configFromCommand(cmd)
	if err != nil {
		return err
	}
	store, err := artifacts.Open(cfg.Artifacts.Dir)
	if err != nil {
		return err
	}

	metas, err := store.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(metas) == 0 {
		out.Info("No artifacts stored")
		return nil
	}

	headers := []string{"JOB", "KIND", "FILE", "SIZE", "SAVED"}
	rows := make([][]string, 0, len(metas))
	for _, m := range metas {
		rows = append(rows, []string{
			m.JobID,
			string(m.Kind),
			m.Filename,
			strconv.FormatInt(m.Size, 10),
			m.SavedAt.Local().Format("2006-01-02 15:04:05"),
		})
	}
	out.Table(headers, rows)
	return nil
}

func newArtifactsGCCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gc",
		Short: "Delete old downloaded results",
		Args:  cobra.NoArgs,
		RunE:  runArtifactsGCCommand,
	}

	cmd.Flags().Duration("max-age", 0, "Delete artifacts older than this (e.g. 720h)")
	cmd.Flags().Int("max-count", 0, "Keep at most this many artifacts")
	cmd.Flags().Bool("dry-run", false, "Report what would be deleted without deleting")

	return cmd
}

func runArtifactsGCCommand(cmd *cobra.Command, args []string) error {
	out := setupOutputPipeline(cmd)

	cfg, err := configFromCommand(cmd)
	if err != nil {
		return err
	}
	store, err := artifacts.Open(cfg.Artifacts.Dir)
	if err != nil {
		return err
	}

	maxAge, _ := cmd.Flags().GetDuration("max-age")
	maxCount, _ := cmd.Flags().GetInt("max-count")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	if maxAge <= 0 && maxCount <= 0 {
		return fmt.Errorf("at least one of --max-age or --max-count is required")
	}

	result, err := store.GC(cmd.Context(), artifacts.GCOptions{
		DryRun:   dryRun,
		MaxAge:   maxAge,
		MaxCount: maxCount,
	})
	if err != nil {
		return err
	}
	for _, gcErr := range result.Errors {
		out.Error(gcErr)
	}

	verb := "Deleted"
	if dryRun {
		verb = "Would delete"
	}
	out.Info(fmt.Sprintf("%s %d artifacts (%d bytes)", verb, result.Deleted, result.BytesFreed))
	return nil
}
