package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reelcraft/reelcraft/cmd/reelcraft/internal/bind"
	"github.com/reelcraft/reelcraft/pkg/backend"
	"github.com/reelcraft/reelcraft/pkg/job"
)

// NewAnimateCommand creates the 'animate' command, which turns a still
// image into a short video clip.
func NewAnimateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "animate",
		Short:   "Animate a still image into a video clip",
		GroupID: "generate",
		Args:    cobra.NoArgs,
		RunE:    runAnimateCommand,
	}

	cmd.Flags().String("image-url", "", "URL of the image to animate")
	cmd.Flags().String("file", "", "Path to a local image file to animate")
	cmd.Flags().String("prompt", "", "Motion prompt describing the animation")
	cmd.Flags().Bool("wait", true, "Wait for the job to finish")

	return cmd
}

func runAnimateCommand(cmd *cobra.Command, args []string) error {
	opts := bind.BindAnimateOptions(cmd)
	if (opts.ImageURL == "") == (opts.FilePath == "") {
		return fmt.Errorf("exactly one of --image-url or --file is required")
	}

	cfg, err := configFromCommand(cmd)
	if err != nil {
		return err
	}

	client := backend.New(backend.Config{
		BaseURL: cfg.API.BaseURL,
		APIKey:  cfg.API.Key,
		Timeout: cfg.API.Timeout,
	})

	run := trackedRun[backend.ImageToVideoResult]{
		kind:      job.KindImageToVideo,
		summary:   opts.Prompt,
		resultURL: func(r *backend.ImageToVideoResult) string { return r.VideoURL },
	}

	if opts.FilePath != "" {
		req := backend.ImageFileRequest{
			Path:        opts.FilePath,
			Prompt:      opts.Prompt,
			UserID:      cfg.Identity.UserID,
			WorkspaceID: cfg.Identity.WorkspaceID,
		}
		return runTracked(cmd, client.ImageToVideoFromFile(), req, run)
	}

	req := backend.ImageToVideoRequest{
		ImageURL:    opts.ImageURL,
		Prompt:      opts.Prompt,
		UserID:      cfg.Identity.UserID,
		WorkspaceID: cfg.Identity.WorkspaceID,
	}
	return runTracked(cmd, client.ImageToVideo(), req, run)
}
