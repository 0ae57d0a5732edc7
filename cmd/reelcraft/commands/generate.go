package commands

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/reelcraft/reelcraft/cmd/reelcraft/internal/bind"
	"github.com/reelcraft/reelcraft/pkg/backend"
	"github.com/reelcraft/reelcraft/pkg/job"
)

// NewGenerateCommand creates the 'generate' command for avatar video
// generation: the actor speaks the script, lip-synced onto the actor's
// reference video.
func NewGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate [script]",
		Short:   "Generate an avatar video from a script",
		GroupID: "generate",
		Args:    cobra.MaximumNArgs(1),
		RunE:    runGenerateCommand,
	}

	cmd.Flags().String("text", "", "Script the actor speaks")
	cmd.Flags().String("actor", "", "Actor identifier")
	cmd.Flags().String("actor-video", "", "Reference video URL for the actor")
	cmd.Flags().String("language", "english", "Script language")
	cmd.Flags().String("voice", "", "Voice preset")
	cmd.Flags().String("project", "", "Project identifier to file the job under")
	cmd.Flags().Bool("wait", true, "Wait for the job to finish")

	return cmd
}

func runGenerateCommand(cmd *cobra.Command, args []string) error {
	cfg, err := configFromCommand(cmd)
	if err != nil {
		return err
	}

	req := bind.BindVideoOptions(cmd, args)
	req.UserID = cfg.Identity.UserID
	req.WorkspaceID = cfg.Identity.WorkspaceID

	log.Info().
		Str("command", "generate").
		Str("actor_id", req.ActorID).
		Msg("submitting video generation job")

	client := backend.New(backend.Config{
		BaseURL: cfg.API.BaseURL,
		APIKey:  cfg.API.Key,
		Timeout: cfg.API.Timeout,
	})

	return runTracked(cmd, client.Video(), req, trackedRun[backend.VideoResult]{
		kind:      job.KindVideoGeneration,
		summary:   req.Text,
		resultURL: func(r *backend.VideoResult) string { return r.VideoURL },
	})
}
