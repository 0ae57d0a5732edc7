package commands

import (
	"github.com/spf13/cobra"

	"github.com/reelcraft/reelcraft/cmd/reelcraft/internal/bind"
	"github.com/reelcraft/reelcraft/pkg/backend"
	"github.com/reelcraft/reelcraft/pkg/job"
)

// NewSpeechCommand creates the 'speech' command for standalone
// text-to-speech synthesis.
func NewSpeechCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "speech [text]",
		Short:   "Synthesize speech from text",
		GroupID: "generate",
		Args:    cobra.MaximumNArgs(1),
		RunE:    runSpeechCommand,
	}

	cmd.Flags().String("text", "", "Text to synthesize")
	cmd.Flags().String("voice", "", "Voice preset")
	cmd.Flags().String("language", "", "Text language")
	cmd.Flags().Bool("wait", true, "Wait for the job to finish")

	return cmd
}

func runSpeechCommand(cmd *cobra.Command, args []string) error {
	cfg, err := configFromCommand(cmd)
	if err != nil {
		return err
	}

	req := bind.BindSpeechOptions(cmd, args)
	req.UserID = cfg.Identity.UserID
	req.WorkspaceID = cfg.Identity.WorkspaceID

	client := backend.New(backend.Config{
		BaseURL: cfg.API.BaseURL,
		APIKey:  cfg.API.Key,
		Timeout: cfg.API.Timeout,
	})

	return runTracked(cmd, client.Speech(), req, trackedRun[backend.SpeechResult]{
		kind:      job.KindTextToSpeech,
		summary:   req.Text,
		resultURL: func(r *backend.SpeechResult) string { return r.AudioURL },
	})
}
