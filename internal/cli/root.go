package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/tasktimer/internal/clock"
	"github.com/sandeepkv93/tasktimer/internal/ids"
)

// Options carries the process edges so commands can be driven from tests.
type Options struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Clock  clock.Clock
	IDs    ids.Source

	configPath string
}

func (o *Options) defaults() {
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.Clock == nil {
		o.Clock = clock.System{}
	}
	if o.IDs == nil {
		o.IDs = ids.UUIDSource{}
	}
}

func NewRootCmd(opts *Options) *cobra.Command {
	opts.defaults()
	root := &cobra.Command{
		Use:   "tasktimer",
		Short: "Deadline-aware task and subtask tracker",
		Long: `tasktimer tracks tasks broken into subtasks, each with its own deadline.

Without a subcommand it opens the interactive board.`,
		RunE:          func(cmd *cobra.Command, args []string) error { return runTUI(cmd, opts) },
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(opts.Stdin)
	root.SetOut(opts.Stdout)
	root.SetErr(opts.Stderr)
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to config file")

	root.AddCommand(
		newTUICmd(opts),
		newAddCmd(opts),
		newSubCmd(opts),
		newListCmd(opts),
		newDoneCmd(opts),
		newRenameCmd(opts),
		newRepeatCmd(opts),
		newRmCmd(opts),
		newWatchCmd(opts),
		newExportCmd(opts),
		newImportCmd(opts),
		newConfigCmd(opts),
	)
	return root
}

// Execute runs the CLI against the real process.
func Execute(version string) error {
	root := NewRootCmd(&Options{})
	root.Version = version
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}
