package cli

import (
	"fmt"
	"path/filepath"

	"github.com/arthur-debert/codeguard/pkg/config"
	"github.com/arthur-debert/codeguard/pkg/errors"
	"github.com/arthur-debert/codeguard/pkg/filesystem"
	"github.com/spf13/cobra"
)

func newConfigCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: MsgConfigShort,
	}
	cmd.AddCommand(newConfigShowCmd(g))
	cmd.AddCommand(newConfigInitCmd(g))
	return cmd
}

func newConfigShowCmd(g *globalOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: MsgConfigShowShort,
		Long: `Show prints the configuration codeguard runs with: defaults, the project
file and environment overrides merged, with category settings and overrides
folded into the rule list.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			if format != "toml" && format != "yaml" {
				return errors.Newf(errors.ErrInvalidInput, MsgErrUnknownArg, format, "toml or yaml")
			}
			data, err := config.Encode(cfg, format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "toml", MsgFlagConfigFormat)
	_ = cmd.RegisterFlagCompletionFunc("format", fixedCompletions("toml", "yaml"))
	return cmd
}

func newConfigInitCmd(g *globalOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: MsgConfigInitShort,
		Long: `Init writes .codeguard.toml with every default commented out and a few
example rules, ready to be edited.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := filesystem.NewOS()
			path := filepath.Join(g.root, config.ProjectFiles[0])
			if _, err := fs.Stat(path); err == nil && !force {
				return errors.Newf(errors.ErrExists, MsgErrExists, path).WithDetail("file", path)
			}
			if err := fs.WriteFile(path, []byte(config.GenerateConfigContent()), 0644); err != nil {
				return errors.Wrapf(err, errors.ErrInternal, "failed to write %s", path)
			}
			fmt.Fprintf(cmd.OutOrStdout(), MsgConfigCreated, path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, MsgFlagForce)
	return cmd
}
