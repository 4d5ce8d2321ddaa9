package cli

import (
	"github.com/arthur-debert/codeguard/internal/version"
	"github.com/arthur-debert/codeguard/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// ManHeader is the header shared by every generated man page
func ManHeader() *doc.GenManHeader {
	return &doc.GenManHeader{
		Title:   "CODEGUARD",
		Section: "1",
		Source:  "codeguard " + version.Short(),
		Manual:  "codeguard manual",
	}
}

func newManCmd(rootCmd *cobra.Command) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:    "man",
		Short:  MsgManShort,
		Long:   "Man writes the codeguard(1) page to stdout, or one page per command into --dir.",
		Args:   cobra.NoArgs,
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir != "" {
				if err := doc.GenManTree(rootCmd, ManHeader(), dir); err != nil {
					return errors.Wrapf(err, errors.ErrInternal, "failed to write man pages to %s", dir)
				}
				return nil
			}
			if err := doc.GenMan(rootCmd, ManHeader(), cmd.OutOrStdout()); err != nil {
				return errors.Wrap(err, errors.ErrInternal, "failed to generate man page")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", MsgFlagManDir)
	_ = cmd.MarkFlagDirname("dir")
	return cmd
}
