package commands

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/reelcraft/reelcraft/pkg/appctx"
	"github.com/reelcraft/reelcraft/pkg/cli"
	"github.com/reelcraft/reelcraft/pkg/config"
)

const cliExecutable = "reelcraft"

// NewCommand constructs the top-level reelcraft CLI command, wiring global
// flags, configuration loading, and logging.
func NewCommand() *cobra.Command {
	var (
		configFile     string
		verbosityCount int
		verbose        bool
	)

	cmd := &cobra.Command{
		Use:   cliExecutable,
		Short: "Reelcraft generates AI avatar videos, speech, and animated clips",
		Long: `Reelcraft submits generation jobs (avatar video, text-to-speech,
image-to-video) to the generation backend, polls their status, and reports
progress and results. Past runs are recorded in a local history database.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// .env is optional; it typically carries REELCRAFT_API_KEY.
			_ = godotenv.Load()

			mgr := config.NewManager()
			if err := mgr.Load(cmd.Flags(), configFile); err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			// Configure global log level based on verbosity flags.
			// If explicit --verbose is set, show debug and above.
			// Else use -v count: 0=>Error, 1=>Info, 2+=>Debug.
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				switch {
				case verbosityCount <= 0:
					zerolog.SetGlobalLevel(zerolog.ErrorLevel)
				case verbosityCount == 1:
					zerolog.SetGlobalLevel(zerolog.InfoLevel)
				default:
					zerolog.SetGlobalLevel(zerolog.DebugLevel)
				}
			}
			if mgr.Get().Log.Format == "json" {
				log.Logger = log.Output(cmd.ErrOrStderr())
			} else {
				log.Logger = log.Output(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()})
			}

			ctx := appctx.WithConfig(cmd.Context(), mgr)
			cmd.SetContext(ctx)
			if root := cmd.Root(); root != nil && root != cmd {
				root.SetContext(ctx)
			}
			return nil
		},
	}

	cmd.SilenceUsage = true

	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Configuration file path")
	cmd.PersistentFlags().CountVarP(&verbosityCount, "verbosity", "v", "Increase logging verbosity (repeatable)")
	cmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	cmd.PersistentFlags().String("output", "text", "Output format (text, json)")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	cmd.PersistentFlags().Bool("no-history", false, "Disable job history recording for this run")

	config.BindFlags(cmd.PersistentFlags())

	cmd.AddGroup(&cobra.Group{ID: "generate", Title: "Generation Commands"})
	cmd.AddGroup(&cobra.Group{ID: "core", Title: "Core Commands"})

	cmd.AddCommand(NewGenerateCommand())
	cmd.AddCommand(NewSpeechCommand())
	cmd.AddCommand(NewAnimateCommand())
	cmd.AddCommand(NewJobsCommand())
	cmd.AddCommand(NewFetchCommand())
	cmd.AddCommand(NewArtifactsCommand())
	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(cli.NewVersionCommand(cliExecutable))

	return cmd
}
