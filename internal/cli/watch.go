package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/tasktimer/internal/model"
	taskprogress "github.com/sandeepkv93/tasktimer/internal/progress"
	"github.com/sandeepkv93/tasktimer/internal/scheduler"
	"github.com/sandeepkv93/tasktimer/internal/storage"
)

func newWatchCmd(opts *Options) *cobra.Command {
	var rescan time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stay in the foreground and alert when subtask deadlines pass",
		Long: `watch schedules every pending subtask deadline and raises the configured
alerts (terminal bell, desktop notification) as each one passes. The store is
re-read after every deadline and on the rescan interval, so edits made from
another process are picked up.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return withRuntime(opts, func(rt *runtime) error {
				w := newWatcher(rt, cmd.OutOrStdout())
				return w.run(ctx, rescan)
			})
		},
	}
	cmd.Flags().DurationVar(&rescan, "rescan", 30*time.Second, "How often to re-read the store")
	return cmd
}

type watcher struct {
	rt      *runtime
	out     io.Writer
	monitor *taskprogress.Monitor
	engine  *scheduler.Engine
}

func newWatcher(rt *runtime, out io.Writer) *watcher {
	return &watcher{
		rt:      rt,
		out:     out,
		monitor: taskprogress.NewMonitor(buildAlerter(rt.cfg, out), rt.logger),
		engine:  scheduler.NewEngine(rt.cfg.Scheduler.Buffer),
	}
}

func (w *watcher) run(ctx context.Context, rescan time.Duration) error {
	if rescan <= 0 {
		rescan = 30 * time.Second
	}
	w.engine.Start()
	defer w.engine.Stop()

	if _, err := w.sync(ctx); err != nil {
		return err
	}
	fmt.Fprintf(w.out, "watching %d deadlines, ctrl-c to stop\n", w.engine.Pending())

	ticker := time.NewTicker(rescan)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.rt.logger.Info("watch stopped", "dropped", w.engine.Dropped())
			return nil
		case ev, ok := <-w.engine.C():
			if !ok {
				return nil
			}
			w.rt.logger.Debug("deadline event", "task_id", ev.TaskID, "subtask_id", ev.SubTaskID)
			if _, err := w.sync(ctx); err != nil {
				return err
			}
		case <-ticker.C:
			if _, err := w.sync(ctx); err != nil {
				return err
			}
		}
	}
}

// sync re-reads the store, fires alerts for subtasks that went overdue since
// the last pass and reschedules the rest. A failed read skips the pass so the
// latch and the pending queue survive until the next good read.
func (w *watcher) sync(ctx context.Context) (int, error) {
	tasks, err := w.rt.store.Load(ctx)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		tasks = model.Collection{}
	case err != nil:
		w.rt.logger.Warn("watch skipped unreadable store", "error", err)
		return 0, nil
	}
	now := w.rt.opts.Clock.Now()
	frame := w.monitor.Evaluate(tasks, now, false)
	for _, n := range frame.Fired {
		fmt.Fprintf(w.out, "%s  %s: %s\n", now.Local().Format("15:04:05"), n.Title(), n.Body())
	}
	w.monitor.Signal(ctx, frame.Fired)

	upcoming, overdue := scheduler.Plan(tasks, now)
	if err := w.engine.Replace(upcoming); err != nil {
		return len(frame.Fired), fmt.Errorf("reschedule deadlines: %w", err)
	}
	w.rt.logger.Debug("watch synced", "upcoming", len(upcoming), "overdue", len(overdue), "fired", len(frame.Fired))
	return len(frame.Fired), nil
}
