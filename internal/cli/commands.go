package cli

import (
	"embed"
	"io/fs"
	"os"

	"github.com/arthur-debert/codeguard/internal/version"
	"github.com/arthur-debert/codeguard/pkg/cobrax/topics"
	"github.com/arthur-debert/codeguard/pkg/config"
	"github.com/arthur-debert/codeguard/pkg/logging"
	"github.com/arthur-debert/codeguard/pkg/output"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

//go:embed help/*.md
var helpFiles embed.FS

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	verbosity  int
	configFile string
	root       string
}

func (g *globalOptions) loadConfig() (*config.Config, error) {
	return config.Load(g.root, config.LoadOptions{File: g.configFile})
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	g := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "codeguard",
		Short: MsgRootShort,
		Long: `codeguard scans a source tree for completeness and architectural-compliance
violations: placeholder markers, unfinished implementations and forbidden
cross-module imports. Rules are literal, structural or semantic patterns
configured in .codeguard.toml.

Exit status is 0 when no error-severity violation is found, 1 when at least
one is, and 2 on a configuration or usage error.`,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(g.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&g.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVarP(&g.configFile, "config", "c", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVarP(&g.root, "root", "C", ".", MsgFlagRoot)
	_ = rootCmd.MarkPersistentFlagFilename("config", "toml", "yaml", "yml")
	_ = rootCmd.MarkPersistentFlagDirname("root")

	rootCmd.AddGroup(
		&cobra.Group{ID: "analysis", Title: "Analysis:"},
		&cobra.Group{ID: "inspect", Title: "Inspection:"},
	)

	rootCmd.AddCommand(withGroup("analysis", newCheckCmd(g)))
	rootCmd.AddCommand(withGroup("analysis", newWatchCmd(g)))
	rootCmd.AddCommand(withGroup("inspect", newRulesCmd(g)))
	rootCmd.AddCommand(withGroup("inspect", newConfigCmd(g)))
	rootCmd.AddCommand(withGroup("inspect", newCacheCmd(g)))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd(rootCmd))
	rootCmd.AddCommand(newManCmd(rootCmd))

	installTopics(rootCmd)

	return rootCmd
}

func withGroup(id string, cmd *cobra.Command) *cobra.Command {
	cmd.GroupID = id
	return cmd
}

// installTopics wires the embedded help topics into the help command.
// Logging is not set up yet, so failures are silent.
func installTopics(rootCmd *cobra.Command) {
	sub, err := fs.Sub(helpFiles, "help")
	if err != nil {
		return
	}
	tm, err := topics.New(sub, topics.Options{
		Renderer: topics.NewGlamourRenderer(output.DetectColor(os.Stdout)),
	})
	if err != nil {
		return
	}
	tm.Install(rootCmd)
}
