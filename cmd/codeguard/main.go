package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/arthur-debert/codeguard/internal/cli"
	"github.com/arthur-debert/codeguard/pkg/output"
	"github.com/arthur-debert/codeguard/pkg/style"
	"github.com/charmbracelet/lipgloss"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd := cli.NewRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		if !cli.Silent(err) {
			theme := style.PlainTheme()
			if output.DetectColor(os.Stderr) {
				theme = style.NewTheme(lipgloss.NewRenderer(os.Stderr))
			}
			fmt.Fprintln(os.Stderr, theme.Error.Render(fmt.Sprintf(cli.MsgErrPrefix, err)))
		}
		os.Exit(cli.ExitCode(err))
	}
}
