package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/Dicklesworthstone/maglab/internal/tui/theme"
)

// CLIError represents a structured CLI error with remediation hints.
type CLIError struct {
	Message string // What failed
	Cause   string // Why it failed (optional)
	Hint    string // Fastest command/action to fix it (optional)
	Code    string // Error code for programmatic handling (optional)
}

// Error implements the error interface.
func (e *CLIError) Error() string {
	return e.Message
}

// NewCLIError creates a new CLI error with just a message.
func NewCLIError(msg string) *CLIError {
	return &CLIError{Message: msg}
}

// WithCause adds a cause to the error.
func (e *CLIError) WithCause(cause string) *CLIError {
	e.Cause = cause
	return e
}

// WithHint adds a remediation hint to the error.
func (e *CLIError) WithHint(hint string) *CLIError {
	e.Hint = hint
	return e
}

// WithCode adds an error code to the error.
func (e *CLIError) WithCode(code string) *CLIError {
	e.Code = code
	return e
}

// NotTerminalError is reported when the dashboard is started without a TTY.
func NotTerminalError() *CLIError {
	return NewCLIError("maglab needs an interactive terminal").
		WithCause("stdin or stdout is not a tty").
		WithHint("run it directly in a terminal, or use 'maglab layout' for scripted output").
		WithCode("NOT_A_TTY")
}

// ConfigError wraps a configuration load or validation failure.
func ConfigError(path string, err error) *CLIError {
	return NewCLIError("invalid configuration").
		WithCause(err.Error()).
		WithHint("check " + path + " or run 'maglab config show'").
		WithCode("CONFIG_INVALID")
}

// FormatCLIError formats a CLIError for terminal output. Colour is used only
// when color is true.
func FormatCLIError(e *CLIError, color bool) string {
	label := func(s string, _ lipgloss.Color) string { return s }
	if color {
		label = func(s string, c lipgloss.Color) string {
			return lipgloss.NewStyle().Foreground(c).Bold(true).Render(s)
		}
	}
	t := theme.FromName("")

	var sb strings.Builder
	sb.WriteString(label("Error: ", t.Error))
	sb.WriteString(e.Message)
	if e.Code != "" {
		sb.WriteString(" [" + e.Code + "]")
	}
	sb.WriteString("\n")
	if e.Cause != "" {
		sb.WriteString(label("  Cause: ", t.Subtext))
		sb.WriteString(e.Cause + "\n")
	}
	if e.Hint != "" {
		sb.WriteString(label("  Hint: ", t.Focus))
		sb.WriteString(e.Hint + "\n")
	}
	return sb.String()
}

// PrintError writes err to w. CLIErrors keep their cause and hint; other
// errors print as a single line.
func PrintError(w io.Writer, err error) {
	var cliErr *CLIError
	if !errors.As(err, &cliErr) {
		cliErr = NewCLIError(err.Error())
	}
	fmt.Fprint(w, FormatCLIError(cliErr, useColor(w)))
}

func useColor(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || theme.NoColorEnabled() {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}
