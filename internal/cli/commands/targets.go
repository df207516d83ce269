package commands

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/catalyst-labs/catalyst/internal/cli/output"
	"github.com/catalyst-labs/catalyst/internal/tuist"
)

// NewTargetsCommand creates the targets command.
func NewTargetsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "targets [project-dir]",
		Short: "List the buildable targets in the project",
		Long: `List every target tuist knows about, with its product type, bundle
identifier, source file count, and dependencies.

Output adapts to environment:
  - Terminal: table output
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # List targets
  catalyst targets

  # List targets as JSON
  catalyst targets --output json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTargets(cmd, args)
		},
	}

	return cmd
}

// TargetRow describes one target in the targets listing.
type TargetRow struct {
	Project      string   `json:"project"`
	Target       string   `json:"target"`
	Product      string   `json:"product"`
	BundleID     string   `json:"bundle_id"`
	Files        int      `json:"files"`
	Dependencies []string `json:"dependencies,omitempty"`
}

// TargetsOutput is the JSON output of the targets command.
type TargetsOutput struct {
	Targets []TargetRow `json:"targets"`
	Total   int         `json:"total"`
}

func runTargets(cmd *cobra.Command, args []string) error {
	cmdCtx := NewCommandContext(cmd)
	projectDir, err := resolveProjectDir(args)
	if err != nil {
		return err
	}

	client := tuist.NewClient(cmdCtx.Runner, cmdCtx.Logger)
	g, err := client.FetchGraph(cmd.Context(), projectDir)
	if err != nil {
		return err
	}

	rows := buildTargetRows(g)
	r := cmdCtx.Renderer

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(TargetsOutput{Targets: rows, Total: len(rows)})
	case output.ModeMarkdown:
		return targetsMarkdown(r, g.Name, rows)
	default:
		return targetsText(r, g.Name, rows)
	}
}

// buildTargetRows flattens the graph into display rows, ordered by project
// then target name.
func buildTargetRows(g *tuist.Graph) []TargetRow {
	var rows []TargetRow
	for _, project := range g.ProjectRecords() {
		for _, key := range project.SortedTargetKeys() {
			target := project.Targets[key]

			files := 0
			for _, folder := range target.BuildableFolders {
				files += len(folder.ResolvedFiles)
			}

			var deps []string
			for _, dep := range target.Dependencies {
				if dep.Target == nil {
					continue
				}
				deps = append(deps, dep.Target.Name)
			}

			rows = append(rows, TargetRow{
				Project:      project.Name,
				Target:       target.Name,
				Product:      target.Product,
				BundleID:     target.BundleID,
				Files:        files,
				Dependencies: deps,
			})
		}
	}
	return rows
}

func targetsText(r *output.Renderer, name string, rows []TargetRow) error {
	if len(rows) == 0 {
		r.Println("No targets found.")
		return nil
	}

	r.Header(1, fmt.Sprintf("Targets: %s", name))

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Project", "Target", "Product", "Bundle ID", "Files", "Dependencies"})

	for _, row := range rows {
		t.AppendRow(table.Row{
			row.Project,
			row.Target,
			row.Product,
			row.BundleID,
			row.Files,
			strings.Join(row.Dependencies, ", "),
		})
	}
	t.Render()

	r.Printf("(%d targets)\n", len(rows))
	return nil
}

func targetsMarkdown(r *output.Renderer, name string, rows []TargetRow) error {
	r.Header(1, fmt.Sprintf("Targets: %s", name))

	if len(rows) == 0 {
		r.Println("No targets found.")
		return nil
	}

	r.Println("| Project | Target | Product | Bundle ID | Files | Dependencies |")
	r.Println("| --- | --- | --- | --- | --- | --- |")
	for _, row := range rows {
		r.Printf("| %s | %s | %s | %s | %d | %s |\n",
			row.Project, row.Target, row.Product, row.BundleID, row.Files,
			strings.Join(row.Dependencies, ", "))
	}
	r.Println("")
	r.Println(output.FormatKeyValue("Total", fmt.Sprintf("%d", len(rows))))
	return nil
}
