package cli

import (
	"github.com/arthur-debert/codeguard/pkg/filesystem"
	"github.com/arthur-debert/codeguard/pkg/logging"
	"github.com/spf13/cobra"
)

func newCheckCmd(g *globalOptions) *cobra.Command {
	flags := &analysisFlags{}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: MsgCheckShort,
		Long: `Check resolves the files under the given paths (the project root by default),
evaluates every enabled rule on them in parallel and prints the violations.

Unchanged files are answered from the result cache. Explicit file arguments
are always analyzed, even when a path pattern excludes them.`,
		Example: `  # Check the whole project
  codeguard check

  # Check two directories, stop at the first error
  codeguard check --fail-fast pkg/ internal/

  # Machine-readable output for CI
  codeguard check --format junit > codeguard.xml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, g, flags, args)
		},
	}
	flags.register(cmd)
	return cmd
}

func runCheck(cmd *cobra.Command, g *globalOptions, flags *analysisFlags, args []string) error {
	logger := logging.GetLogger("cli.check")

	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if err := flags.apply(cmd, cfg); err != nil {
		return err
	}

	s, err := newSession(cfg, filesystem.NewOS())
	if err != nil {
		return err
	}

	files, err := s.resolve(rootsFor(cfg, args))
	if err != nil {
		return err
	}

	report, runErr := s.analyze(cmd.Context(), files)
	if err := s.render(cmd.OutOrStdout(), report); err != nil {
		return err
	}
	if runErr != nil {
		return runErr
	}

	logger.Info().
		Int("files", report.FilesAnalyzed).
		Int("errors", report.Counts.Error).
		Dur("duration", report.Duration).
		Msg("Check finished")

	if report.HasBlocking() {
		return &ExitError{Code: ExitViolations}
	}
	return nil
}
