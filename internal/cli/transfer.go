package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/tasktimer/internal/storage"
)

func newExportCmd(opts *Options) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the task collection as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(opts, func(rt *runtime) error {
				raw, err := storage.Encode(rt.load(cmd.Context()))
				if err != nil {
					return err
				}
				if output == "" || output == "-" {
					_, err = fmt.Fprintln(cmd.OutOrStdout(), string(raw))
					return err
				}
				if err := os.WriteFile(output, raw, 0o644); err != nil {
					return fmt.Errorf("write export: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", output)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination file (default stdout)")
	return cmd
}

func newImportCmd(opts *Options) *cobra.Command {
	var merge bool
	cmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Replace or extend the task collection from exported JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw []byte
			var err error
			if args[0] == "-" {
				raw, err = io.ReadAll(cmd.InOrStdin())
			} else {
				raw, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read import: %w", err)
			}
			incoming, dropped, err := storage.Decode(raw)
			if err != nil {
				return err
			}
			return withRuntime(opts, func(rt *runtime) error {
				ctx := cmd.Context()
				next := incoming
				skipped := 0
				if merge {
					next = rt.load(ctx)
					for _, t := range incoming {
						if next.HasID(t.ID) {
							skipped++
							continue
						}
						next = append(next, t)
					}
				}
				if err := rt.save(ctx, next); err != nil {
					return err
				}
				rt.logger.Info("import applied", "tasks", len(incoming)-skipped, "dropped", dropped, "skipped", skipped, "merge", merge)
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d tasks (%d invalid, %d already present)\n", len(incoming)-skipped, dropped, skipped)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&merge, "merge", false, "Append to the existing tasks instead of replacing them")
	return cmd
}
