package commands

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/catalyst-labs/catalyst/internal/cli/output"
	"github.com/catalyst-labs/catalyst/internal/pipeline"
	"github.com/catalyst-labs/catalyst/internal/watch"
)

// BuildOptions holds options for the build command.
type BuildOptions struct {
	Check bool
	Watch bool
}

// NewBuildCommand creates the build command.
func NewBuildCommand() *cobra.Command {
	opts := &BuildOptions{}

	cmd := &cobra.Command{
		Use:   "build [project-dir]",
		Short: "Generate bazel build files and build the workspace",
		Long: `Fetch the tuist dependency graph, generate BUILD, WORKSPACE and
Info.plist files for every project, and run bazel over the result.

The graph snapshot is saved to the cache directory so it can be
inspected later with 'catalyst graph --cached'.`,
		Example: `  # Build the project in the current directory
  catalyst build

  # Build a specific project
  catalyst build ./MyApp

  # Verify generated files are current without writing anything
  catalyst build --check

  # Rebuild whenever a Swift source changes
  catalyst build --watch`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Check, "check", false, "Report stale build files without writing or building")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Rebuild when Swift sources change")

	return cmd
}

// DriftError reports stale build files found in check mode.
type DriftError struct {
	Count int
}

func (e *DriftError) Error() string {
	return fmt.Sprintf("%d build files are out of date", e.Count)
}

func runBuild(cmd *cobra.Command, args []string, opts *BuildOptions) error {
	if opts.Check && opts.Watch {
		return fmt.Errorf("cannot combine --check with --watch")
	}

	cmdCtx := NewCommandContext(cmd)
	projectDir, err := resolveProjectDir(args)
	if err != nil {
		return err
	}

	pipeOpts := pipeline.Options{
		ProjectDir: projectDir,
		CacheDir:   cmdCtx.Cfg.CacheDir,
		CheckOnly:  opts.Check,
	}

	// Check mode is read-only, so it gets no history store.
	if opts.Check {
		p := cmdCtx.NewPipeline(nil)
		result, err := p.Build(cmd.Context(), pipeOpts)
		if err != nil {
			return err
		}
		return renderCheck(cmdCtx.Renderer, result, projectDir)
	}

	store, cleanup, err := cmdCtx.OpenStore(projectDir)
	if err != nil {
		return err
	}
	defer cleanup()
	p := cmdCtx.NewPipeline(store)

	if opts.Watch {
		return runBuildWatch(cmd, cmdCtx, p, pipeOpts)
	}

	start := time.Now()
	result, err := p.Build(cmd.Context(), pipeOpts)
	if err != nil {
		return err
	}
	return renderBuild(cmdCtx.Renderer, result, projectDir, time.Since(start))
}

func runBuildWatch(cmd *cobra.Command, cmdCtx *CommandContext, p *pipeline.Pipeline, pipeOpts pipeline.Options) error {
	r := cmdCtx.Renderer

	rebuild := func() {
		start := time.Now()
		result, err := p.Build(cmd.Context(), pipeOpts)
		if err != nil {
			r.Error(err.Error())
			return
		}
		_ = renderBuild(r, result, pipeOpts.ProjectDir, time.Since(start))
	}
	rebuild()

	w := watch.New(pipeOpts.ProjectDir, cmdCtx.Logger)
	r.Println("Watching for changes. Press Ctrl+C to stop.")
	return w.Watch(cmd.Context(), func(path string) {
		r.Printf("Changed: %s\n", filepath.Base(path))
		rebuild()
	})
}

// BuildReport is the JSON output of the build command.
type BuildReport struct {
	Projects  int      `json:"projects"`
	Targets   int      `json:"targets"`
	Files     []string `json:"files"`
	Skipped   []string `json:"skipped,omitempty"`
	Snapshot  string   `json:"snapshot"`
	ElapsedMS int64    `json:"elapsed_ms"`
}

// CheckReport is the JSON output of build --check.
type CheckReport struct {
	InSync bool         `json:"in_sync"`
	Drifts []DriftEntry `json:"drifts,omitempty"`
}

// DriftEntry is one stale build file in a check report.
type DriftEntry struct {
	Path string `json:"path"`
	Diff string `json:"diff"`
}

func renderBuild(r *output.Renderer, result *pipeline.Result, projectDir string, elapsed time.Duration) error {
	files := make([]string, 0, len(result.Artifacts))
	for _, a := range result.Artifacts {
		files = append(files, relativeTo(projectDir, a.Path()))
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(BuildReport{
			Projects:  result.Projects,
			Targets:   result.Targets,
			Files:     files,
			Skipped:   result.Skipped,
			Snapshot:  result.SnapshotPath,
			ElapsedMS: elapsed.Milliseconds(),
		})

	case output.ModeMarkdown:
		r.Header(1, "Build")
		for _, f := range files {
			r.StatusLine(f, "success", "")
		}
		r.Println("")
		r.Println(output.FormatKeyValue("Projects", fmt.Sprintf("%d", result.Projects)))
		r.Println(output.FormatKeyValue("Targets", fmt.Sprintf("%d", result.Targets)))
		r.Println(output.FormatKeyValue("Snapshot", result.SnapshotPath))
		r.Println(output.FormatKeyValue("Elapsed", elapsed.Round(time.Millisecond).String()))
		if len(result.Skipped) > 0 {
			r.Println(output.FormatKeyValue("Skipped", fmt.Sprintf("%d files outside their project", len(result.Skipped))))
		}
		return nil

	default:
		r.Header(1, "Build")
		for _, f := range files {
			r.StatusLine(f, "success", "")
		}
		if len(result.Skipped) > 0 {
			r.Warning(fmt.Sprintf("skipped %d files outside their project directory", len(result.Skipped)))
		}
		r.Println("")
		r.Success(fmt.Sprintf("Built %d targets across %d projects in %s",
			result.Targets, result.Projects, elapsed.Round(time.Millisecond)))
		return nil
	}
}

func renderCheck(r *output.Renderer, result *pipeline.Result, projectDir string) error {
	if len(result.Drifts) == 0 {
		if r.EffectiveMode() == output.ModeJSON {
			return r.JSON(CheckReport{InSync: true})
		}
		r.Success("Build files are up to date")
		return nil
	}

	if r.EffectiveMode() == output.ModeJSON {
		report := CheckReport{Drifts: make([]DriftEntry, 0, len(result.Drifts))}
		for _, d := range result.Drifts {
			report.Drifts = append(report.Drifts, DriftEntry{
				Path: relativeTo(projectDir, d.Path),
				Diff: d.Diff,
			})
		}
		if err := r.JSON(report); err != nil {
			return err
		}
		return &DriftError{Count: len(result.Drifts)}
	}

	for _, d := range result.Drifts {
		r.StatusLine(relativeTo(projectDir, d.Path), "failed", "out of date")
		r.Println(d.Diff)
	}
	return &DriftError{Count: len(result.Drifts)}
}

// relativeTo shortens path for display when it sits under base.
func relativeTo(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
