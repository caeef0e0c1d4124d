package cli

import (
	"context"
	"os"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gofund/pkg/buildinfo"
	"github.com/matzehuels/gofund/pkg/gomod"
)

// Execute runs the gofund CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// The root command itself performs the funding discovery; login, logout,
// and whoami manage the saved Github credential.
//
// Logging:
//   - Default: warn level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands via
// loggerFromContext.
func Execute(ctx context.Context) error {
	var (
		verbose bool
		opts    fundOptions
	)

	root := &cobra.Command{
		Use:           "gofund",
		Short:         "gofund discovers funding links for your Go dependencies",
		Long:          `gofund inspects the dependencies of the Go module in the working directory, queries the Github API for their funding links and sponsorable owners, and prints the result as a tree grouped by identical link sets.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.WarnLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFund(cmd.Context(), os.Stdout, opts)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.Flags().StringVar(&opts.Token, "github-api-token", "", "Github API token (overrides environment and config file)")
	root.Flags().DurationVar(&opts.Timeout, "timeout", 0, "timeout for Github API requests (default 30s)")
	root.Flags().StringVar(&opts.Dir, "dir", "", "module directory to inspect (default current directory)")

	root.AddCommand(newLoginCmd())
	root.AddCommand(newLogoutCmd())
	root.AddCommand(newWhoamiCmd())

	return root.ExecuteContext(ctx)
}

// fundOptions carries the root command's flags into runFund.
type fundOptions struct {
	Token   string
	Timeout time.Duration
	Dir     string

	exec gomod.Executor // test seam; nil runs the real go tool
}
