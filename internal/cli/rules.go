package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/arthur-debert/codeguard/pkg/cobrax/topics"
	"github.com/arthur-debert/codeguard/pkg/errors"
	"github.com/arthur-debert/codeguard/pkg/matchers"
	"github.com/arthur-debert/codeguard/pkg/rules"
	"github.com/arthur-debert/codeguard/pkg/style"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newRulesCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: MsgRulesShort,
	}
	cmd.AddCommand(newRulesListCmd(g))
	cmd.AddCommand(newRulesExplainCmd(g))
	return cmd
}

func newRulesListCmd(g *globalOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: MsgRulesListShort,
		Long: `List prints the effective rule set: built-in rules merged with the project
configuration, category settings and overrides.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			return writeRules(cmd.OutOrStdout(), cfg.ResolvedRules(), format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", MsgFlagListFormat)
	_ = cmd.RegisterFlagCompletionFunc("format", fixedCompletions("text", "json", "yaml"))
	return cmd
}

func writeRules(w io.Writer, ruleSet []rules.PatternRule, format string) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(ruleSet)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(ruleSet); err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
		writeRuleTable(w, ruleSet, themeFor(w))
		return nil
	}
	return errors.Newf(errors.ErrInvalidInput, MsgErrUnknownArg, format, "text, json or yaml")
}

func writeRuleTable(w io.Writer, ruleSet []rules.PatternRule, theme style.Theme) {
	if len(ruleSet) == 0 {
		fmt.Fprintln(w, MsgNoRules)
		return
	}

	idWidth, kindWidth := len("RULE"), len("KIND")
	for _, r := range ruleSet {
		idWidth = max(idWidth, len(r.ID))
		kindWidth = max(kindWidth, len(r.Kind))
	}

	header := fmt.Sprintf("%-*s  %-*s  %-7s  %-8s  %s", idWidth, "RULE", kindWidth, "KIND", "LEVEL", "STATE", "CATEGORY")
	fmt.Fprintln(w, theme.Title.Render(header))

	for _, r := range ruleSet {
		state := "enabled"
		if !r.Enabled {
			state = "disabled"
		}
		line := fmt.Sprintf("%-*s  %-*s  %s  %-8s  %s",
			idWidth, r.ID,
			kindWidth, r.Kind,
			theme.SeverityLabel(r.Severity),
			state,
			r.Category)
		if !r.Enabled {
			line = theme.Muted.Render(line)
		}
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}

func newRulesExplainCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "explain <rule-id>",
		Short: MsgRulesExplainShort,
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			cfg, err := g.loadConfig()
			if err != nil || len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			var ids []string
			for _, r := range cfg.ResolvedRules() {
				ids = append(ids, r.ID)
			}
			return ids, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			for _, r := range cfg.ResolvedRules() {
				if r.ID == args[0] {
					out := cmd.OutOrStdout()
					renderer := topics.NewGlamourRenderer(colorFor(out))
					fmt.Fprint(out, renderer.Render(explainRule(r), ".md"))
					return nil
				}
			}
			return errors.Newf(errors.ErrNotFound, MsgErrNoRule, args[0]).WithDetail("rule", args[0])
		},
	}
}

// explainRule describes r as markdown
func explainRule(r rules.PatternRule) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", r.ID)
	if r.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", r.Description)
	}

	state := "enabled"
	if !r.Enabled {
		state = "disabled"
	}
	fmt.Fprintf(&b, "| Kind | Severity | State | Category |\n|---|---|---|---|\n")
	fmt.Fprintf(&b, "| %s | %s | %s | %s |\n\n", r.Kind, r.Severity, state, orDash(r.Category))

	b.WriteString("## Pattern\n\n")
	fmt.Fprintf(&b, "    %s\n\n", r.Pattern)
	var notes []string
	if !r.CaseSensitive && r.Kind == matchers.KindLiteral {
		notes = append(notes, "case insensitive")
	}
	if r.Scope != "" {
		notes = append(notes, "scope: "+r.Scope)
	}
	if r.Engine != "" {
		notes = append(notes, "engine: "+r.Engine)
	}
	if r.SourceRoot != "" {
		notes = append(notes, "source root: "+r.SourceRoot)
	}
	for _, n := range notes {
		fmt.Fprintf(&b, "- %s\n", n)
	}
	if len(notes) > 0 {
		b.WriteString("\n")
	}

	if len(r.Boundaries) > 0 {
		b.WriteString("## Boundaries\n\n")
		modules := make([]string, 0, len(r.Boundaries))
		for module := range r.Boundaries {
			modules = append(modules, module)
		}
		slices.Sort(modules)
		for _, module := range modules {
			fmt.Fprintf(&b, "- `%s` must not import %s\n", module, codeList(r.Boundaries[module]))
		}
		b.WriteString("\n")
	}

	if r.Message != "" {
		fmt.Fprintf(&b, "## Message\n\n    %s\n\n", r.Message)
	}

	var excl []string
	if r.Exclude.InTests {
		excl = append(excl, "test files and test functions")
	}
	if r.Exclude.InGenerated {
		excl = append(excl, "generated files")
	}
	if len(r.Exclude.FilePatterns) > 0 {
		excl = append(excl, "files matching "+codeList(r.Exclude.FilePatterns))
	}
	for _, a := range r.Exclude.Annotations {
		excl = append(excl, fmt.Sprintf("functions annotated `//%s` or `//%s %s`", a, a, r.ID))
	}
	if len(excl) > 0 {
		b.WriteString("## Skipped in\n\n")
		for _, e := range excl {
			fmt.Fprintf(&b, "- %s\n", e)
		}
	}
	return b.String()
}

func codeList(items []string) string {
	quoted := make([]string, len(items))
	for i, it := range items {
		quoted[i] = "`" + it + "`"
	}
	return strings.Join(quoted, ", ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func themeFor(w io.Writer) style.Theme {
	if colorFor(w) {
		return style.NewTheme(lipgloss.DefaultRenderer())
	}
	return style.PlainTheme()
}
