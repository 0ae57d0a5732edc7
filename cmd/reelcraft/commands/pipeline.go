package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/reelcraft/reelcraft/pkg/appctx"
	"github.com/reelcraft/reelcraft/pkg/config"
	"github.com/reelcraft/reelcraft/pkg/history"
	"github.com/reelcraft/reelcraft/pkg/job"
	"github.com/reelcraft/reelcraft/pkg/output"
	"github.com/reelcraft/reelcraft/pkg/output/subscribers"
	"github.com/reelcraft/reelcraft/pkg/tracker"
)

// setupOutputPipeline builds the output stream for a command based on the
// --output and --no-color flags.
func setupOutputPipeline(cmd *cobra.Command) output.Output {
	format, _ := cmd.Flags().GetString("output")
	noColor, _ := cmd.Flags().GetBool("no-color")

	stream := output.NewOutputEventStream()
	if format == "json" {
		stream.Subscribe(subscribers.NewJSONFormatter(cmd.OutOrStdout()))
	} else {
		stream.Subscribe(subscribers.NewHumanFormatter(cmd.OutOrStdout(), cmd.ErrOrStderr(), !noColor))
	}
	return output.NewDefaultOutput(stream)
}

// configFromCommand extracts the loaded config manager from the command
// context.
func configFromCommand(cmd *cobra.Command) (config.Config, error) {
	ctx := cmd.Context()
	if ctx == nil && cmd.Root() != nil {
		ctx = cmd.Root().Context()
	}
	mgr := appctx.ConfigFrom(ctx)
	if mgr == nil {
		return config.Config{}, fmt.Errorf("configuration missing from context")
	}
	return mgr.Get(), nil
}

// openHistory opens the history store unless disabled by flag or config.
// A nil store with nil error means history is off.
func openHistory(cmd *cobra.Command, cfg config.Config) (*history.Store, error) {
	if disabled, _ := cmd.Flags().GetBool("no-history"); disabled {
		return nil, nil
	}
	if cfg.History.Path == "" {
		return nil, nil
	}
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return nil, fmt.Errorf("open job history: %w", err)
	}
	return store, nil
}

// progressSink bridges tracker state transitions onto the output pipeline.
type progressSink[R any] struct {
	out output.Output
}

func (p *progressSink[R]) OnState(jobID string, state job.State[R]) {
	if state.Generating {
		p.out.Progress(state.Progress, state.CurrentStep)
	}
}

func (p *progressSink[R]) OnStepCompleted(jobID string, step job.Step) {
	p.out.StepCompleted(jobID, step.Name)
}

// trackedRun describes one generation command execution.
type trackedRun[R any] struct {
	kind      job.Kind
	summary   string
	resultURL func(*R) string
}

// runTracked submits req through a tracker wired to the output pipeline
// and (optionally) the history store, then waits for the terminal state
// unless --wait=false.
func runTracked[Req tracker.Request, R any](
	cmd *cobra.Command,
	svc tracker.Service[Req, R],
	req Req,
	run trackedRun[R],
) error {
	out := setupOutputPipeline(cmd)

	cfg, err := configFromCommand(cmd)
	if err != nil {
		return err
	}

	store, err := openHistory(cmd, cfg)
	if err != nil {
		return err
	}
	if store != nil {
		defer func() {
			if cerr := store.Close(); cerr != nil {
				log.Warn().Err(cerr).Msg("failed to close history store")
			}
		}()
	}

	listeners := []tracker.Listener[R]{&progressSink[R]{out: out}}
	if store != nil {
		listeners = append(listeners, history.NewRecorder(store, run.kind, run.resultURL).
			WithSummary(run.summary).
			WithScope(cfg.Identity.WorkspaceID, ""))
	}

	tr := tracker.New(svc).
		WithInterval(cfg.API.PollInterval).
		WithListener(tracker.Listeners(listeners...))
	defer tr.Close()

	ctx := cmd.Context()
	id, err := tr.Submit(ctx, req)
	if err != nil {
		out.Error(err)
		return err
	}
	out.Info(fmt.Sprintf("Job %s submitted", id))

	if wait, _ := cmd.Flags().GetBool("wait"); !wait {
		return nil
	}

	final, err := tr.Wait(ctx)
	if err != nil {
		// Interrupted while waiting; the loop is torn down by Close.
		out.Warning("interrupted, job keeps running on the backend")
		return err
	}
	if final.Err != nil {
		out.Error(final.Err)
		return final.Err
	}
	if final.Result == nil {
		out.Warning("generation cancelled")
		return nil
	}

	out.Info(fmt.Sprintf("Done: %s", run.resultURL(final.Result)))
	return nil
}
