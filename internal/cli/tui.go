package cli

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/tasktimer/internal/config"
	taskprogress "github.com/sandeepkv93/tasktimer/internal/progress"
	"github.com/sandeepkv93/tasktimer/internal/update"
)

func newTUICmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}
}

func runTUI(cmd *cobra.Command, opts *Options) error {
	return withRuntime(opts, func(rt *runtime) error {
		tasks := rt.load(cmd.Context())
		monitor := taskprogress.NewMonitor(buildAlerter(rt.cfg, cmd.ErrOrStderr()), rt.logger)
		m := update.NewModel(tasks, update.Deps{
			Store:         rt.store,
			Engine:        &rt.engine,
			Clock:         opts.Clock,
			Monitor:       monitor,
			Logger:        rt.logger,
			FrameInterval: rt.cfg.UI.FrameInterval,
			ProgressWidth: rt.cfg.UI.ProgressWidth,
		})
		rt.logger.Info("board opened", "tasks", len(tasks))
		program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithInput(opts.Stdin), tea.WithOutput(cmd.OutOrStdout()))
		if _, err := program.Run(); err != nil {
			rt.logger.Error("board failed", "error", err)
			return err
		}
		return nil
	})
}

// buildAlerter maps the alert settings onto concrete outputs. The bell goes to
// w so it does not interleave with the board's frames on stdout.
func buildAlerter(cfg config.Config, w io.Writer) taskprogress.Alerter {
	var out taskprogress.MultiAlerter
	if cfg.Alerts.Bell {
		out = append(out, taskprogress.BellAlerter{W: w})
	}
	if cfg.Alerts.Desktop {
		out = append(out, taskprogress.DesktopAlerter{})
	}
	if len(out) == 0 {
		return taskprogress.NoopAlerter{}
	}
	return out
}
