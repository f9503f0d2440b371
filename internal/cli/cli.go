package cli

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vk/propreg/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// usageError marks invalid input: bad flags or settings.
func usageError(err error) error {
	return &ExitError{Code: 2, Message: err.Error()}
}

// failure marks an operation that ran and found a problem, such as stale
// files in check mode.
func failure(err error) error {
	return &ExitError{Code: 1, Message: err.Error()}
}

// Execute runs the propreg command line with args. Regular output goes to
// outW, logs go to errW. appOpts are passed on to the app, mostly for tests.
func Execute(ctx context.Context, args []string, outW, errW io.Writer, appOpts ...app.Option) error {
	r := &runner{outW: outW, errW: errW, appOpts: appOpts}
	root := r.rootCommand()
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	// Cobra skips PersistentPostRunE when RunE fails, so the app is closed
	// here as well.
	if cerr := r.close(ctx); cerr != nil && err == nil {
		err = failure(cerr)
	}
	var exitErr *ExitError
	if err != nil && !errors.As(err, &exitErr) && isUsageError(err) {
		return usageError(err)
	}
	return err
}

// NewRootCommand builds the command tree.
func NewRootCommand(outW, errW io.Writer, appOpts ...app.Option) *cobra.Command {
	r := &runner{outW: outW, errW: errW, appOpts: appOpts}
	return r.rootCommand()
}

func (r *runner) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "propreg",
		Short: "Generate registrars for configuration properties",
		Long: `propreg scans Go packages for struct fields declared with the property
marker type, generates one registrar per declaring top-level type and lists
every registrar in a service manifest.`,
		Version:            app.Version,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  r.setup,
		PersistentPostRunE: r.teardown,
	}
	root.SetOut(r.outW)
	root.SetErr(r.errW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	addSettingsFlags(root)
	root.AddCommand(
		r.generateCommand(),
		r.checkCommand(),
		r.cleanCommand(),
		r.watchCommand(),
		r.manifestCommand(),
	)
	return root
}

// runner carries the state shared by the subcommands of one invocation.
type runner struct {
	outW    io.Writer
	errW    io.Writer
	appOpts []app.Option
	app     *app.App
}

func (r *runner) setup(cmd *cobra.Command, _ []string) error {
	settings, err := resolveSettings(cmd)
	if err != nil {
		return usageError(err)
	}
	a, err := app.NewApp(cmd.Context(), r.errW, settings, r.appOpts...)
	if err != nil {
		return usageError(err)
	}
	r.app = a
	return nil
}

func (r *runner) teardown(cmd *cobra.Command, _ []string) error {
	return r.close(cmd.Context())
}

// close releases the app at most once.
func (r *runner) close(ctx context.Context) error {
	if r.app == nil {
		return nil
	}
	a := r.app
	r.app = nil
	return a.Close(ctx)
}

// isUsageError recognizes the argument errors cobra reports without going
// through the flag error func.
func isUsageError(err error) bool {
	msg := err.Error()
	for _, prefix := range []string{"unknown command", "accepts ", "requires "} {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return false
}
