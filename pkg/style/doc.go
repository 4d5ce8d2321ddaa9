// Package style holds the terminal palette and lipgloss styles used by the
// text report and the CLI. Colors are adaptive so they work on light and
// dark backgrounds.
package style
