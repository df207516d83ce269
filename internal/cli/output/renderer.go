// Package output handles how command results reach the terminal. A
// Renderer carries the output mode (plain text, markdown, or JSON), the
// TTY state, and the styles commands use to format what they print.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// OutputMode selects how command results are rendered.
type OutputMode string

const (
	// ModeAuto picks text on a terminal and markdown when piped.
	ModeAuto OutputMode = "auto"
	// ModeText renders human-readable text.
	ModeText OutputMode = "text"
	// ModeMarkdown renders markdown suitable for docs and pipelines.
	ModeMarkdown OutputMode = "markdown"
	// ModeJSON renders machine-readable JSON.
	ModeJSON OutputMode = "json"
)

// Mode parses a mode string, falling back to auto for anything unknown.
func Mode(s string) OutputMode {
	switch OutputMode(strings.ToLower(s)) {
	case ModeText:
		return ModeText
	case ModeMarkdown:
		return ModeMarkdown
	case ModeJSON:
		return ModeJSON
	default:
		return ModeAuto
	}
}

// Renderer writes command output in the selected mode.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   OutputMode
	isTTY  bool
	styles Styles
}

// NewRenderer creates a renderer, detecting TTY state and color support
// from the output writer and environment.
func NewRenderer(out, errOut io.Writer, mode OutputMode) *Renderer {
	isTTY := false
	if f, ok := out.(*os.File); ok {
		isTTY = term.IsTerminal(int(f.Fd()))
	}
	if termenv.EnvNoColor() {
		isTTY = false
	}
	return NewRendererWithTTY(out, errOut, isTTY, mode)
}

// NewRendererWithTTY creates a renderer with an explicit TTY state. Tests
// use this to exercise both terminal and piped rendering.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode OutputMode) *Renderer {
	r := &Renderer{out: out, errOut: errOut, mode: mode, isTTY: isTTY}
	r.styles = newStyles(isTTY && r.EffectiveMode() == ModeText)
	return r
}

// Writer returns the destination for normal output.
func (r *Renderer) Writer() io.Writer { return r.out }

// ErrWriter returns the destination for errors and warnings.
func (r *Renderer) ErrWriter() io.Writer { return r.errOut }

// IsTTY reports whether output goes to a terminal.
func (r *Renderer) IsTTY() bool { return r.isTTY }

// Styles returns the renderer's styles. Unstyled when output is not a
// colored terminal.
func (r *Renderer) Styles() Styles { return r.styles }

// EffectiveMode resolves auto to a concrete mode: text on a terminal,
// markdown otherwise.
func (r *Renderer) EffectiveMode() OutputMode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

// Println writes a line of normal output.
func (r *Renderer) Println(a ...any) {
	fmt.Fprintln(r.out, a...)
}

// Printf writes formatted normal output.
func (r *Renderer) Printf(format string, a ...any) {
	fmt.Fprintf(r.out, format, a...)
}

// Header writes a section heading at the given level.
func (r *Renderer) Header(level int, text string) {
	if r.EffectiveMode() == ModeMarkdown {
		fmt.Fprintln(r.out, FormatHeader(level, text))
		fmt.Fprintln(r.out)
		return
	}
	style := r.styles.Header1
	if level > 1 {
		style = r.styles.Header2
	}
	fmt.Fprintln(r.out, style.Render(text))
}

// Success writes a success line.
func (r *Renderer) Success(msg string) {
	fmt.Fprintln(r.out, r.styles.Success.Render(msg))
}

// Warning writes a warning line to the error stream.
func (r *Renderer) Warning(msg string) {
	fmt.Fprintln(r.errOut, r.styles.Warning.Render("warning: "+msg))
}

// Error writes an error line to the error stream.
func (r *Renderer) Error(msg string) {
	fmt.Fprintln(r.errOut, r.styles.Error.Render("error: "+msg))
}

// StatusLine writes a per-item status entry, such as one generated file or
// one toolchain check.
func (r *Renderer) StatusLine(name, status, note string) {
	if r.EffectiveMode() == ModeMarkdown {
		line := fmt.Sprintf("- %s: %s", name, status)
		if note != "" {
			line += fmt.Sprintf(" (%s)", note)
		}
		fmt.Fprintln(r.out, line)
		return
	}

	glyph := r.statusGlyph(status)
	line := fmt.Sprintf("  %s %s", glyph, name)
	if note != "" {
		line += " " + r.styles.Muted.Render("("+note+")")
	}
	fmt.Fprintln(r.out, line)
}

func (r *Renderer) statusGlyph(status string) string {
	switch status {
	case "success", "ok":
		return r.styles.StatusSuccess.Render("✓")
	case "failed", "error":
		return r.styles.StatusFailed.Render("✗")
	case "warning":
		return r.styles.Warning.Render("!")
	default:
		return r.styles.Muted.Render("-")
	}
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

// FormatHeader renders a markdown heading.
func FormatHeader(level int, text string) string {
	return strings.Repeat("#", level) + " " + text
}

// FormatKeyValue renders a markdown key-value line.
func FormatKeyValue(key, value string) string {
	return fmt.Sprintf("**%s:** %s", key, value)
}
