package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/catalyst-labs/catalyst/internal/cli/output"
	"github.com/catalyst-labs/catalyst/internal/pipeline"
)

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [project-dir]",
		Short: "Build the project and launch it in the iOS simulator",
		Long: `Generate build files, build the workspace with bazel, then deploy the
app to the iOS simulator: boot the device, install the built .ipa, and
launch the app by bundle identifier.

When the graph contains several app targets the first one is deployed
unless --target picks one by name.`,
		Example: `  # Build and launch on the default simulator
  catalyst run

  # Launch a specific app target on a specific device
  catalyst run --target Widget --simulator "iPhone 16 Pro"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, args)
		},
	}

	return cmd
}

// RunReport is the JSON output of the run command.
type RunReport struct {
	Target    string `json:"target"`
	BundleID  string `json:"bundle_id"`
	Simulator string `json:"simulator"`
	PID       string `json:"pid"`
	ElapsedMS int64  `json:"elapsed_ms"`
}

func runRun(cmd *cobra.Command, args []string) error {
	cmdCtx := NewCommandContext(cmd)
	projectDir, err := resolveProjectDir(args)
	if err != nil {
		return err
	}

	store, cleanup, err := cmdCtx.OpenStore(projectDir)
	if err != nil {
		return err
	}
	defer cleanup()
	p := cmdCtx.NewPipeline(store)

	start := time.Now()
	result, err := p.Run(cmd.Context(), pipeline.RunOptions{
		Options: pipeline.Options{
			ProjectDir: projectDir,
			CacheDir:   cmdCtx.Cfg.CacheDir,
		},
		Simulator:  cmdCtx.Cfg.Simulator,
		TargetHint: cmdCtx.Cfg.Target,
	})
	if err != nil {
		return err
	}

	return renderRun(cmdCtx.Renderer, result, cmdCtx.Cfg.Simulator, time.Since(start))
}

func renderRun(r *output.Renderer, result *pipeline.RunResult, simulator string, elapsed time.Duration) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(RunReport{
			Target:    result.Target.RuleName,
			BundleID:  result.Target.BundleID,
			Simulator: simulator,
			PID:       result.PID,
			ElapsedMS: elapsed.Milliseconds(),
		})

	case output.ModeMarkdown:
		r.Header(1, "Run")
		r.Println(output.FormatKeyValue("Target", result.Target.RuleName))
		r.Println(output.FormatKeyValue("Bundle ID", result.Target.BundleID))
		r.Println(output.FormatKeyValue("Simulator", simulator))
		r.Println(output.FormatKeyValue("PID", result.PID))
		r.Println(output.FormatKeyValue("Elapsed", elapsed.Round(time.Millisecond).String()))
		return nil

	default:
		r.Success(fmt.Sprintf("Launched %s (pid %s) on %s in %s",
			result.Target.BundleID, result.PID, simulator, elapsed.Round(time.Millisecond)))
		return nil
	}
}
