package cli

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vk/propreg/internal/app"
)

func (r *runner) generateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Generate registrars and the manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := r.app.Generate(cmd.Context())
			if report != nil {
				r.printReport(report)
			}
			if errors.Is(err, app.ErrViolations) {
				return failure(err)
			}
			return err
		},
	}
}

func (r *runner) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report generated files that are missing, modified or stale",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			drift, err := r.app.Check(cmd.Context())
			for _, d := range drift {
				fmt.Fprintf(r.outW, "%s\t%s\n", d.Kind, d.Path)
				if d.Diff != "" {
					fmt.Fprint(r.outW, d.Diff)
				}
			}
			if errors.Is(err, app.ErrStale) {
				return failure(fmt.Errorf("%w; run propreg generate", err))
			}
			if err == nil {
				fmt.Fprintln(r.outW, "generated files are up to date")
			}
			return err
		},
	}
}

func (r *runner) cleanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove every output recorded in the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			removed, err := r.app.Clean(cmd.Context())
			for _, path := range removed {
				fmt.Fprintf(r.outW, "removed\t%s\n", path)
			}
			return err
		},
	}
}

func (r *runner) watchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Regenerate whenever Go sources change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return r.app.Watch(ctx, func(report *app.Report, err error) {
				if report != nil {
					r.printReport(report)
				}
				if err != nil {
					fmt.Fprintf(r.outW, "build failed: %v\n", err)
				}
			})
		},
	}
}

func (r *runner) manifestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "manifest",
		Short: "List manifest entries and verify each has a generated source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := r.app.Manifest(cmd.Context())
			for _, e := range entries {
				file := e.File
				if !e.Found() {
					file = "MISSING"
				}
				fmt.Fprintf(r.outW, "%s\t%s\n", e.Registrar, file)
			}
			if errors.Is(err, app.ErrManifestMismatch) {
				return failure(err)
			}
			return err
		},
	}
}

func (r *runner) printReport(report *app.Report) {
	fmt.Fprintf(r.outW, "generated %d registrar(s) in %d round(s)\n", len(report.Registrars), report.Rounds)
	for _, path := range report.Removed {
		fmt.Fprintf(r.outW, "removed\t%s\n", path)
	}
	for _, v := range report.Violations {
		fmt.Fprintf(r.outW, "violation\t%s\n", v)
	}
}
