package cli

import (
	"fmt"

	"github.com/arthur-debert/codeguard/pkg/cache"
	"github.com/arthur-debert/codeguard/pkg/errors"
	"github.com/arthur-debert/codeguard/pkg/filesystem"
	"github.com/spf13/cobra"
)

func newCacheCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: MsgCacheShort,
	}
	cmd.AddCommand(newCacheStatsCmd(g))
	cmd.AddCommand(newCacheClearCmd(g))
	return cmd
}

func newCacheStatsCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: MsgCacheStatsShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			engine, err := cfg.Engine()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			info, err := cache.Inspect(filesystem.NewOS(), cfg.CacheFile())
			if errors.IsErrorCode(err, errors.ErrNotFound) {
				fmt.Fprintf(out, MsgCacheMissing, cfg.CacheFile())
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(out, MsgCacheStatsFormat, info.Path, info.Entries, shortFingerprint(info.Fingerprint))
			fmt.Fprintf(out, "Written:     %s (%d bytes)\n", info.ModTime.Format("2006-01-02 15:04:05"), info.Size)
			if !info.Compatible(engine.Fingerprint()) {
				fmt.Fprintln(out, themeFor(out).Warning.Render(MsgCacheStale))
			}
			return nil
		},
	}
}

func newCacheClearCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: MsgCacheClearShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			if err := cache.Remove(filesystem.NewOS(), cfg.CacheFile()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), MsgCacheCleared, cfg.CacheFile())
			return nil
		},
	}
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}
