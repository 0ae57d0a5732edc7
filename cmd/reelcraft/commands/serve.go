package commands

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/reelcraft/reelcraft/pkg/server"
)

// NewServeCommand creates the 'serve' command, which exposes the recorded
// job history over a local HTTP API.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Serve the local job history API",
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE:    runServeCommand,
	}

	cmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
	cmd.Flags().Int("port", 0, "Listen port (overrides server.port)")

	return cmd
}

func runServeCommand(cmd *cobra.Command, args []string) error {
	cfg, err := configFromCommand(cmd)
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Server.Port = port
	}

	store, err := requireHistory(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("failed to close history store")
		}
	}()

	srv := server.New(cfg.Server, store)
	return srv.Run(cmd.Context())
}
