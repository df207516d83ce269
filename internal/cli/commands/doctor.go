package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/catalyst-labs/catalyst/internal/cli/config"
	"github.com/catalyst-labs/catalyst/internal/cli/output"
	"github.com/catalyst-labs/catalyst/internal/toolchain"
)

// lookPath resolves an executable on PATH. Swapped in tests.
var lookPath = toolchain.LookPath

// DoctorOptions holds options for the doctor command.
type DoctorOptions struct {
	Format string // Output format: text, json
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	opts := &DoctorOptions{}

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that the required tools are available",
		Long: `Verify the environment catalyst needs: tuist, bazel, and xcrun on
PATH, plus a writable cache directory.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Run the environment check
  catalyst doctor

  # Output as JSON
  catalyst doctor --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json")

	return cmd
}

// ToolCheck is a single doctor check result.
type ToolCheck struct {
	Name   string `json:"name"`
	Group  string `json:"group"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail"`
}

// DoctorReport is the JSON output of the doctor command.
type DoctorReport struct {
	Checks  []ToolCheck `json:"checks"`
	Healthy bool        `json:"healthy"`
}

func runDoctor(cmd *cobra.Command, opts *DoctorOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	// Override renderer if format flag is set
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	report := runDoctorChecks(cmdCtx.Cfg)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(report)
	case output.ModeMarkdown:
		return renderDoctorMarkdown(r, report)
	default:
		return renderDoctorText(r, report)
	}
}

// runDoctorChecks probes the toolchain and environment.
func runDoctorChecks(cfg *config.Config) *DoctorReport {
	report := &DoctorReport{Healthy: true}

	tools := []struct {
		name string
		note string
	}{
		{"tuist", "required to read the project graph"},
		{"bazel", "required to build generated targets"},
		{"xcrun", "required for simulator deploys"},
	}
	for _, tool := range tools {
		check := ToolCheck{Name: tool.name, Group: "toolchain"}
		if path, ok := lookPath(tool.name); ok {
			check.OK = true
			check.Detail = path
		} else {
			check.Detail = fmt.Sprintf("not found on PATH, %s", tool.note)
			report.Healthy = false
		}
		report.Checks = append(report.Checks, check)
	}

	cacheCheck := ToolCheck{Name: "cache directory", Group: "environment", Detail: cfg.CacheDir}
	if err := os.MkdirAll(cfg.CacheDir, 0o750); err != nil {
		cacheCheck.Detail = fmt.Sprintf("not writable: %v", err)
		report.Healthy = false
	} else {
		cacheCheck.OK = true
	}
	report.Checks = append(report.Checks, cacheCheck)

	configCheck := ToolCheck{Name: "config file", Group: "environment", OK: true}
	if used := config.GetConfigFileUsed(); used != "" {
		configCheck.Detail = used
	} else {
		configCheck.Detail = "none found, using defaults"
	}
	report.Checks = append(report.Checks, configCheck)

	return report
}

func renderDoctorText(r *output.Renderer, report *DoctorReport) error {
	styles := r.Styles()
	titleCaser := cases.Title(language.English)

	r.Header(1, "Catalyst Doctor")

	currentGroup := ""
	for _, check := range report.Checks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println(styles.Header2.Render(titleCaser.String(currentGroup)))
		}
		status := "success"
		if !check.OK {
			status = "failed"
		}
		r.StatusLine(check.Name, status, check.Detail)
	}
	r.Println("")

	if report.Healthy {
		r.Success("Ready to build")
	} else {
		r.Warning("some tools are missing, builds will fail")
	}
	return nil
}

func renderDoctorMarkdown(r *output.Renderer, report *DoctorReport) error {
	titleCaser := cases.Title(language.English)

	r.Header(1, "Catalyst Doctor")

	currentGroup := ""
	for _, check := range report.Checks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Header(2, titleCaser.String(currentGroup))
		}
		status := "**[OK]**"
		if !check.OK {
			status = "**[MISSING]**"
		}
		r.Printf("- %s %s: %s\n", status, check.Name, check.Detail)
	}
	r.Println("")

	if report.Healthy {
		r.Println(output.FormatKeyValue("Status", "ready"))
	} else {
		r.Println(output.FormatKeyValue("Status", "missing tools"))
	}
	return nil
}
