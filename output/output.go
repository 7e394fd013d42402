// Package output provides styled console output for Quill's headless commands.
//
// Functions use lipgloss for styling but abstract away the details from callers.
package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/simonhull/quill/sink"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("red")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	stderrStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("red"))

	verboseMode bool
)

// SetVerbose enables or disables verbose output for debugging.
// This should be called by the CLI when the --verbose flag is set.
func SetVerbose(v bool) {
	verboseMode = v
}

// IsVerbose reports whether verbose output is enabled.
func IsVerbose() bool {
	return verboseMode
}

// Success prints a success message with ✓ and green color.
//
// Example:
//
//	output.Success("Saved: main.rs")
func Success(msg string) {
	fmt.Println(successStyle.Render("✓ " + msg))
}

// Error prints an error message with ❌ emoji and red color.
// Use this for failures that need user attention.
func Error(msg string) {
	fmt.Println(errorStyle.Render("❌ " + msg))
}

// Warn prints a warning in yellow.
func Warn(msg string) {
	fmt.Println(warnStyle.Render("⚠ " + msg))
}

// Info prints an informational message with ℹ️ emoji and cyan color.
func Info(msg string) {
	fmt.Println(infoStyle.Render("ℹ️  " + msg))
}

// Step prints an indented step message in gray.
func Step(msg string) {
	fmt.Println(stepStyle.Render("   " + msg))
}

// Verbose prints a debug message with 🔍 emoji only if verbose mode is enabled.
func Verbose(msg string) {
	if verboseMode {
		fmt.Println(stepStyle.Render("🔍 " + msg))
	}
}

// Transcript prints captured command output. Prompt markers are dropped since
// there is no interactive panel to return to.
func Transcript(entries []sink.Entry) {
	for _, e := range entries {
		switch e.Kind {
		case sink.KindPrompt:
			continue
		case sink.KindCommand:
			fmt.Print(infoStyle.Render(strings.TrimSuffix(e.Text, "\n")) + "\n")
		case sink.KindStderr, sink.KindError:
			fmt.Print(renderLines(stderrStyle, e.Text))
		default:
			fmt.Print(e.Text)
		}
	}
}

// renderLines styles each line separately so trailing newlines survive.
func renderLines(style lipgloss.Style, text string) string {
	lines := strings.SplitAfter(text, "\n")
	var b strings.Builder
	for _, line := range lines {
		if line == "" {
			continue
		}
		body := strings.TrimSuffix(line, "\n")
		b.WriteString(style.Render(body))
		if strings.HasSuffix(line, "\n") {
			b.WriteString("\n")
		}
	}
	return b.String()
}
