package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want OutputMode
	}{
		{name: "text", in: "text", want: ModeText},
		{name: "markdown", in: "markdown", want: ModeMarkdown},
		{name: "json", in: "json", want: ModeJSON},
		{name: "auto", in: "auto", want: ModeAuto},
		{name: "uppercase", in: "JSON", want: ModeJSON},
		{name: "unknown falls back to auto", in: "yaml", want: ModeAuto},
		{name: "empty falls back to auto", in: "", want: ModeAuto},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Mode(tt.in))
		})
	}
}

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		name  string
		mode  OutputMode
		isTTY bool
		want  OutputMode
	}{
		{name: "auto on terminal", mode: ModeAuto, isTTY: true, want: ModeText},
		{name: "auto piped", mode: ModeAuto, isTTY: false, want: ModeMarkdown},
		{name: "explicit json wins over terminal", mode: ModeJSON, isTTY: true, want: ModeJSON},
		{name: "explicit text wins over pipe", mode: ModeText, isTTY: false, want: ModeText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRendererWithTTY(&bytes.Buffer{}, &bytes.Buffer{}, tt.isTTY, tt.mode)
			assert.Equal(t, tt.want, r.EffectiveMode())
		})
	}
}

func TestHeaderMarkdown(t *testing.T) {
	var out bytes.Buffer
	r := NewRendererWithTTY(&out, &bytes.Buffer{}, false, ModeMarkdown)

	r.Header(1, "Targets")

	assert.Equal(t, "# Targets\n\n", out.String())
}

func TestHeaderText(t *testing.T) {
	var out bytes.Buffer
	r := NewRendererWithTTY(&out, &bytes.Buffer{}, false, ModeText)

	r.Header(2, "Projects")

	assert.Equal(t, "Projects\n", out.String())
}

func TestStatusLineText(t *testing.T) {
	var out bytes.Buffer
	r := NewRendererWithTTY(&out, &bytes.Buffer{}, false, ModeText)

	r.StatusLine("BUILD", "success", "2 targets")

	assert.Equal(t, "  ✓ BUILD (2 targets)\n", out.String())
}

func TestStatusLineMarkdown(t *testing.T) {
	var out bytes.Buffer
	r := NewRendererWithTTY(&out, &bytes.Buffer{}, false, ModeMarkdown)

	r.StatusLine("BUILD", "failed", "")

	assert.Equal(t, "- BUILD: failed\n", out.String())
}

func TestWarningGoesToErrStream(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRendererWithTTY(&out, &errOut, false, ModeText)

	r.Warning("multiple app targets")

	assert.Empty(t, out.String())
	assert.Equal(t, "warning: multiple app targets\n", errOut.String())
}

func TestJSON(t *testing.T) {
	var out bytes.Buffer
	r := NewRendererWithTTY(&out, &bytes.Buffer{}, false, ModeJSON)

	require.NoError(t, r.JSON(map[string]int{"targets": 3}))

	var decoded map[string]int
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, 3, decoded["targets"])
	assert.Contains(t, out.String(), "\n")
}

func TestStylesDisabledWithoutTTY(t *testing.T) {
	var out bytes.Buffer
	r := NewRendererWithTTY(&out, &bytes.Buffer{}, false, ModeText)

	r.Success("done")
	r.Header(1, "Build")

	// No escape sequences without a terminal.
	assert.NotContains(t, out.String(), "\x1b[")
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "## Checks", FormatHeader(2, "Checks"))
	assert.Equal(t, "**Simulator:** iPhone 16", FormatKeyValue("Simulator", "iPhone 16"))
}
