// Package pipeline orchestrates the catalyst flow: extract the tuist
// dependency graph, synthesize Bazel build files, persist the graph
// snapshot, drive the bazel build, and optionally deploy the app to the
// iOS simulator. Each stage halts the pipeline on failure.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/catalyst-labs/catalyst/internal/dag"
	"github.com/catalyst-labs/catalyst/internal/rules"
	"github.com/catalyst-labs/catalyst/internal/state"
	"github.com/catalyst-labs/catalyst/internal/toolchain"
	"github.com/catalyst-labs/catalyst/internal/tuist"
)

// Pipeline wires the tuist client, the rule synthesizer, and the external
// toolchain together.
type Pipeline struct {
	client *tuist.Client
	bazel  *toolchain.Bazel
	sim    *toolchain.Simulator
	store  *state.SQLiteStore
	logger *slog.Logger
}

// New creates a pipeline backed by the given runner. The store may be nil,
// in which case no invocation history is recorded.
func New(runner toolchain.Runner, store *state.SQLiteStore, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pipeline{
		client: tuist.NewClient(runner, logger),
		bazel:  toolchain.NewBazel(runner, logger),
		sim:    toolchain.NewSimulator(runner, logger),
		store:  store,
		logger: logger,
	}
}

// Options controls a build invocation.
type Options struct {
	// ProjectDir is the tuist project to convert and build.
	ProjectDir string
	// CacheDir is where the graph snapshot is persisted.
	CacheDir string
	// CheckOnly compares generated content against the files on disk
	// without writing or building anything.
	CheckOnly bool
}

// RunOptions controls a build-and-deploy invocation.
type RunOptions struct {
	Options
	// Simulator is the device to boot.
	Simulator string
	// TargetHint optionally names the app target to deploy.
	TargetHint string
}

// Result reports what a build produced.
type Result struct {
	Graph        *tuist.Graph
	Projects     int
	Targets      int
	Artifacts    []rules.Artifact
	Drifts       []rules.Drift
	Skipped      []string
	SnapshotPath string
}

// RunResult reports what a deployment produced, on top of the build.
type RunResult struct {
	*Result
	Target *tuist.AppTarget
	PID    string
}

// Build converts the project to Bazel and builds the whole workspace. In
// check mode it only reports drift between generated and existing files.
func (p *Pipeline) Build(ctx context.Context, opts Options) (*Result, error) {
	record, err := p.beginRecord(opts, state.BuildKindBuild)
	if err != nil {
		return nil, err
	}

	result, err := p.build(ctx, opts)
	p.finishRecord(record, result, err)
	return result, err
}

// Run converts and builds the project, then deploys the app target to the
// booted simulator and launches it, returning the launch PID.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	record, err := p.beginRecord(opts.Options, state.BuildKindRun)
	if err != nil {
		return nil, err
	}

	result, runResult, err := p.run(ctx, opts, record)
	p.finishRecord(record, result, err)
	if err != nil {
		return nil, err
	}
	return runResult, nil
}

func (p *Pipeline) run(ctx context.Context, opts RunOptions, record *state.Build) (*Result, *RunResult, error) {
	result, err := p.build(ctx, opts.Options)
	if err != nil {
		return result, nil, err
	}

	target, err := tuist.FindAppTarget(result.Graph, opts.TargetHint)
	if err != nil {
		return result, nil, err
	}
	if names := tuist.AppTargetNames(result.Graph); len(names) > 1 && opts.TargetHint == "" {
		p.logger.Warn("graph has multiple app targets, deploying the first",
			"selected", target.RuleName, "candidates", names)
	}
	if record != nil {
		_ = p.store.RecordTarget(record.ID, target.RuleName)
	}

	if err := p.bazel.BuildTarget(ctx, opts.ProjectDir, target.RuleName); err != nil {
		return result, nil, err
	}

	if err := p.sim.Boot(ctx, opts.Simulator); err != nil {
		return result, nil, err
	}
	ipa := toolchain.IPAPath(opts.ProjectDir, target.RuleName)
	if err := p.sim.Install(ctx, ipa); err != nil {
		return result, nil, err
	}
	pid, err := p.sim.Launch(ctx, target.BundleID)
	if err != nil {
		return result, nil, err
	}

	p.logger.Info("app launched", "bundle_id", target.BundleID, "pid", pid)
	return result, &RunResult{Result: result, Target: target, PID: pid}, nil
}

func (p *Pipeline) build(ctx context.Context, opts Options) (*Result, error) {
	graph, err := p.client.FetchGraph(ctx, opts.ProjectDir)
	if err != nil {
		return nil, err
	}

	if d, err := DependencyGraph(graph); err != nil {
		p.logger.Warn("dependency graph is malformed", "error", err)
	} else if cyclic := d.Cycle(); cyclic != nil {
		p.logger.Warn("dependency cycle detected, bazel will reject these targets", "targets", cyclic)
	}

	result := &Result{Graph: graph}
	projects := graph.ProjectRecords()
	result.Projects = len(projects)
	for _, project := range projects {
		result.Targets += len(project.Targets)
	}

	files := make([]*rules.ProjectFiles, len(projects))
	var g errgroup.Group
	for i, project := range projects {
		g.Go(func() error {
			pf, err := rules.SynthesizeProject(project)
			if err != nil {
				return fmt.Errorf("failed to synthesize project %s: %w", project.Name, err)
			}
			files[i] = pf
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	artifacts := rules.WorkspaceArtifacts(opts.ProjectDir)
	for _, pf := range files {
		artifacts = append(artifacts, pf.Artifacts...)
		result.Skipped = append(result.Skipped, pf.Skipped...)
	}
	result.Artifacts = artifacts

	if len(result.Skipped) > 0 {
		p.logger.Debug("dropped resolved files outside their project tree", "count", len(result.Skipped))
	}

	if opts.CheckOnly {
		drifts, err := rules.DiffAll(artifacts)
		if err != nil {
			return nil, err
		}
		result.Drifts = drifts
		return result, nil
	}

	if err := rules.WriteAll(artifacts); err != nil {
		return nil, err
	}
	p.logger.Info("generated build files", "projects", result.Projects, "targets", result.Targets)

	snapshot, err := tuist.WriteSnapshot(opts.CacheDir, graph)
	if err != nil {
		return nil, err
	}
	result.SnapshotPath = snapshot
	p.logger.Info("saved graph snapshot", "path", snapshot)

	if err := p.bazel.BuildAll(ctx, opts.ProjectDir); err != nil {
		return result, err
	}
	return result, nil
}

// beginRecord opens an invocation history record. Check mode is read-only
// and leaves no history.
func (p *Pipeline) beginRecord(opts Options, kind state.BuildKind) (*state.Build, error) {
	if p.store == nil || opts.CheckOnly {
		return nil, nil
	}
	record, err := p.store.CreateBuild(opts.ProjectDir, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to record invocation: %w", err)
	}
	return record, nil
}

// finishRecord closes the history record. Recording is best-effort once
// the invocation itself has an outcome to report.
func (p *Pipeline) finishRecord(record *state.Build, result *Result, err error) {
	if record == nil {
		return
	}
	if result != nil {
		_ = p.store.RecordSynthesis(record.ID, result.Projects, result.Targets)
	}
	switch {
	case err == nil:
		_ = p.store.CompleteBuild(record.ID, state.BuildStatusCompleted, "")
	case errors.Is(err, context.Canceled):
		_ = p.store.CompleteBuild(record.ID, state.BuildStatusCancelled, err.Error())
	default:
		_ = p.store.CompleteBuild(record.ID, state.BuildStatusFailed, err.Error())
	}
}

// DependencyGraph flattens the tuist graph into a target dependency graph
// keyed by normalized rule name.
func DependencyGraph(g *tuist.Graph) (*dag.Graph, error) {
	d := dag.New()
	for _, project := range g.ProjectRecords() {
		for _, key := range project.SortedTargetKeys() {
			target := project.Targets[key]
			name := tuist.NormalizeName(target.Name)
			d.Add(name)
			for _, dep := range target.Dependencies {
				if dep.Target == nil {
					continue
				}
				if err := d.AddDependency(name, tuist.NormalizeName(dep.Target.Name)); err != nil {
					return nil, err
				}
			}
		}
	}
	return d, nil
}
