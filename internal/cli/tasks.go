package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/tasktimer/internal/model"
	taskprogress "github.com/sandeepkv93/tasktimer/internal/progress"
	"github.com/sandeepkv93/tasktimer/internal/storage"
)

func newAddCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(opts, func(rt *runtime) error {
				ctx := cmd.Context()
				before := rt.load(ctx)
				next, err := rt.engine.AddTask(before, strings.Join(args, " "))
				if err != nil {
					return err
				}
				if err := rt.save(ctx, next); err != nil {
					return err
				}
				t := next[len(next)-1]
				rt.logger.Info("task added", "task_id", t.ID)
				fmt.Fprintf(cmd.OutOrStdout(), "added task %d %s (%s)\n", len(next), t.Name, t.ID)
				return nil
			})
		},
	}
}

func newSubCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "sub <task> <due> <name>",
		Short: "Add a subtask due after the given amount (30m, 2h, 3d, 1w, 2mo)",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := model.ParseDueSelection(args[1])
			if err != nil {
				return err
			}
			return withRuntime(opts, func(rt *runtime) error {
				ctx := cmd.Context()
				before := rt.load(ctx)
				parent, err := resolveTask(before, args[0])
				if err != nil {
					return err
				}
				due := sel.Resolve(opts.Clock.Now())
				next, err := rt.engine.AddSubTask(before, parent.ID, strings.Join(args[2:], " "), due)
				if err != nil {
					return err
				}
				if err := rt.save(ctx, next); err != nil {
					return err
				}
				t, _ := next.Find(parent.ID)
				st := t.SubTasks[len(t.SubTasks)-1]
				rt.logger.Info("subtask added", "task_id", t.ID, "subtask_id", st.ID, "due", st.DueDate)
				fmt.Fprintf(cmd.OutOrStdout(), "added subtask %s to %s, due in %s (%s)\n", st.Name, t.Name, sel, st.ID)
				return nil
			})
		},
	}
}

func newListCmd(opts *Options) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks with their progress",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(opts, func(rt *runtime) error {
				tasks := rt.load(cmd.Context())
				if asJSON {
					raw, err := storage.Encode(tasks)
					if err != nil {
						return err
					}
					_, err = fmt.Fprintln(cmd.OutOrStdout(), string(raw))
					return err
				}
				return writeList(cmd.OutOrStdout(), tasks, opts.Clock.Now())
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the stored JSON payload")
	return cmd
}

func writeList(w io.Writer, tasks model.Collection, now time.Time) error {
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(w, "no tasks")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, t := range tasks {
		p := taskprogress.ForTask(t, now)
		fmt.Fprintf(tw, "%d\t%s %s\t%3.0f%%\t%s\t%s\n", i+1, checkbox(t.IsCompleted), t.Name, p.Percent, p.Label, t.ID)
		for j, st := range t.SubTasks {
			sp := taskprogress.ForSubTask(st, now)
			fmt.Fprintf(tw, "  %d.%d\t%s %s\t%3.0f%%\t%s\t%s\n", i+1, j+1, checkbox(st.IsCompleted), st.Name, sp.Percent, sp.Label, st.ID)
		}
	}
	return tw.Flush()
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func newDoneCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "done <task> [subtask]",
		Short: "Toggle completion of a task or one of its subtasks",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(opts, func(rt *runtime) error {
				ctx := cmd.Context()
				before := rt.load(ctx)
				t, err := resolveTask(before, args[0])
				if err != nil {
					return err
				}
				var next model.Collection
				var name string
				if len(args) == 2 {
					st, err := resolveSubTask(t, args[1])
					if err != nil {
						return err
					}
					next = rt.engine.ToggleSubTask(before, t.ID, st.ID)
					name = st.Name
				} else {
					next = rt.engine.ToggleTask(before, t.ID)
					name = t.Name
				}
				if err := rt.save(ctx, next); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "toggled %s\n", name)
				return nil
			})
		},
	}
}

func newRenameCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <task> <name>",
		Short: "Rename a task",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(opts, func(rt *runtime) error {
				ctx := cmd.Context()
				before := rt.load(ctx)
				t, err := resolveTask(before, args[0])
				if err != nil {
					return err
				}
				next, err := rt.engine.RenameTask(before, t.ID, strings.Join(args[1:], " "))
				if err != nil {
					return err
				}
				if err := rt.save(ctx, next); err != nil {
					return err
				}
				renamed, _ := next.Find(t.ID)
				fmt.Fprintf(cmd.OutOrStdout(), "renamed %s to %s\n", t.Name, renamed.Name)
				return nil
			})
		},
	}
}

func newRepeatCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "repeat <task> [subtask]",
		Short: "Copy a task or subtask with a fresh window of the same length",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(opts, func(rt *runtime) error {
				ctx := cmd.Context()
				before := rt.load(ctx)
				t, err := resolveTask(before, args[0])
				if err != nil {
					return err
				}
				var next model.Collection
				var name string
				if len(args) == 2 {
					st, err := resolveSubTask(t, args[1])
					if err != nil {
						return err
					}
					next = rt.engine.RepeatSubTask(before, t.ID, st.ID)
					name = st.Name
				} else {
					next = rt.engine.RepeatTask(before, t.ID)
					name = t.Name
				}
				if err := rt.save(ctx, next); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "repeated %s\n", name)
				return nil
			})
		},
	}
}

func newRmCmd(opts *Options) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "rm <task> [subtask]",
		Aliases: []string{"delete"},
		Short:   "Delete a task or subtask",
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(opts, func(rt *runtime) error {
				ctx := cmd.Context()
				before := rt.load(ctx)
				t, err := resolveTask(before, args[0])
				if err != nil {
					return err
				}
				label := fmt.Sprintf("task %q", t.Name)
				var st model.SubTask
				if len(args) == 2 {
					st, err = resolveSubTask(t, args[1])
					if err != nil {
						return err
					}
					label = fmt.Sprintf("subtask %q", st.Name)
				}
				if !yes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "delete "+label+"?") {
					fmt.Fprintln(cmd.OutOrStdout(), "cancelled")
					return nil
				}
				next := rt.engine.DeleteTask(before, t.ID)
				if st.ID != "" {
					next = rt.engine.DeleteSubTask(before, t.ID, st.ID)
				}
				if err := rt.save(ctx, next); err != nil {
					return err
				}
				rt.logger.Info("deleted", "task_id", t.ID, "subtask_id", st.ID)
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", label)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
