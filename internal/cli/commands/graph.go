package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/catalyst-labs/catalyst/internal/cli/output"
	"github.com/catalyst-labs/catalyst/internal/pipeline"
	"github.com/catalyst-labs/catalyst/internal/tuist"
)

// GraphQuerier provides read-only access to the target graph structure.
type GraphQuerier interface {
	Dependencies(string) []string
	Dependents(string) []string
	NodeCount() int
	EdgeCount() int
}

// GraphOptions holds options for the graph command.
type GraphOptions struct {
	Format string // Output format: text, json, yaml
	Cached bool
}

// NewGraphCommand creates the graph command.
func NewGraphCommand() *cobra.Command {
	opts := &GraphOptions{}

	cmd := &cobra.Command{
		Use:   "graph [project-dir]",
		Short: "Show the project dependency graph",
		Long: `Display the tuist dependency graph, grouped by build level.

Targets at level 0 have no dependencies; every target at a later level
only depends on earlier levels, so targets within one level build in
parallel.

Use --cached to read the snapshot saved by the last build instead of
invoking tuist.`,
		Example: `  # Fetch and show the graph
  catalyst graph

  # Show the graph from the last build's snapshot
  catalyst graph --cached

  # Raw graph as JSON or YAML
  catalyst graph --format json
  catalyst graph --format yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, yaml")
	cmd.Flags().BoolVar(&opts.Cached, "cached", false, "Read the saved graph snapshot instead of invoking tuist")

	return cmd
}

func runGraph(cmd *cobra.Command, args []string, opts *GraphOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	format := opts.Format
	if format == "" {
		if r.EffectiveMode() == output.ModeJSON {
			format = "json"
		} else {
			format = "text"
		}
	}
	switch format {
	case "json", "yaml", "yml", "text":
	default:
		return fmt.Errorf("invalid format %q (must be text, json, or yaml)", format)
	}

	var g *tuist.Graph
	var err error
	if opts.Cached {
		g, err = tuist.ReadSnapshot(cmdCtx.Cfg.CacheDir)
		if err != nil {
			return fmt.Errorf("no graph snapshot found, run 'catalyst build' first: %w", err)
		}
	} else {
		projectDir, derr := resolveProjectDir(args)
		if derr != nil {
			return derr
		}
		client := tuist.NewClient(cmdCtx.Runner, cmdCtx.Logger)
		g, err = client.FetchGraph(cmd.Context(), projectDir)
		if err != nil {
			return err
		}
	}

	switch format {
	case "json":
		return graphJSON(r, g)
	case "yaml", "yml":
		return graphYAML(r, g)
	default:
		return graphText(r, g)
	}
}

// graphText outputs the graph grouped by build level.
func graphText(r *output.Renderer, g *tuist.Graph) error {
	d, err := pipeline.DependencyGraph(g)
	if err != nil {
		return err
	}
	levels, err := d.Levels()
	if err != nil {
		return err
	}

	return renderGraphLevels(r, g.Name, d, levels)
}

func renderGraphLevels(r *output.Renderer, name string, graph GraphQuerier, levels [][]string) error {
	if r.EffectiveMode() == output.ModeMarkdown {
		r.Header(1, fmt.Sprintf("Dependency Graph: %s", name))
		for i, level := range levels {
			r.Header(2, fmt.Sprintf("Level %d", i))
			for _, target := range level {
				r.Printf("- %s\n", target)
				if deps := graph.Dependencies(target); len(deps) > 0 {
					r.Printf("  - depends on: %s\n", strings.Join(deps, ", "))
				}
				if used := graph.Dependents(target); len(used) > 0 {
					r.Printf("  - used by: %s\n", strings.Join(used, ", "))
				}
			}
			r.Println("")
		}
		r.Println(output.FormatKeyValue("Total Targets", fmt.Sprintf("%d", graph.NodeCount())))
		r.Println(output.FormatKeyValue("Total Dependencies", fmt.Sprintf("%d", graph.EdgeCount())))
		return nil
	}

	styles := r.Styles()
	r.Header(1, fmt.Sprintf("Dependency Graph: %s", name))

	for i, level := range levels {
		r.Println(styles.Header2.Render(fmt.Sprintf("Level %d:", i)))
		for _, target := range level {
			r.Printf("  %s\n", styles.Bold.Render(target))
			if deps := graph.Dependencies(target); len(deps) > 0 {
				r.Printf("    %s %s\n", styles.Muted.Render("depends on:"), strings.Join(deps, ", "))
			}
			if used := graph.Dependents(target); len(used) > 0 {
				r.Printf("    %s %s\n", styles.Muted.Render("used by:"), strings.Join(used, ", "))
			}
		}
		r.Println("")
	}

	r.Println(styles.Muted.Render(fmt.Sprintf("Total: %d targets, %d dependencies",
		graph.NodeCount(), graph.EdgeCount())))
	return nil
}

// graphJSON outputs the raw graph as pretty-printed JSON, matching the
// snapshot format.
func graphJSON(r *output.Renderer, g *tuist.Graph) error {
	data, err := g.Encode()
	if err != nil {
		return err
	}
	r.Println(string(data))
	return nil
}

// graphYAML outputs the graph as YAML. The graph marshals through its
// JSON form so both formats show identical structure.
func graphYAML(r *output.Renderer, g *tuist.Graph) error {
	data, err := g.Encode()
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to decode graph for yaml output: %w", err)
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode graph as yaml: %w", err)
	}
	r.Printf("%s", out)
	return nil
}
