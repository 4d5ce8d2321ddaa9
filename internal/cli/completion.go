package cli

import (
	"io"

	"github.com/arthur-debert/codeguard/pkg/errors"
	"github.com/spf13/cobra"
)

// Shells lists the shells completion scripts can be generated for
var Shells = []string{"bash", "zsh", "fish", "powershell"}

// GenerateCompletion writes the completion script for shell
func GenerateCompletion(rootCmd *cobra.Command, shell string, w io.Writer) error {
	var err error
	switch shell {
	case "bash":
		err = rootCmd.GenBashCompletionV2(w, true)
	case "zsh":
		err = rootCmd.GenZshCompletion(w)
	case "fish":
		err = rootCmd.GenFishCompletion(w, true)
	case "powershell":
		err = rootCmd.GenPowerShellCompletionWithDesc(w)
	default:
		return errors.Newf(errors.ErrInvalidInput, "unknown shell %q (supported: bash, zsh, fish, powershell)", shell)
	}
	if err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "failed to generate %s completion", shell)
	}
	return nil
}

func newCompletionCmd(rootCmd *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: MsgCompletionShort,
		Long: `To load completions:

Bash:
  $ source <(codeguard completion bash)

Zsh:
  $ codeguard completion zsh > "${fpath[1]}/_codeguard"

Fish:
  $ codeguard completion fish | source

PowerShell:
  PS> codeguard completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             Shells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return GenerateCompletion(rootCmd, args[0], cmd.OutOrStdout())
		},
	}
}
