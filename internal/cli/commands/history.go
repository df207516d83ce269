package commands

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/catalyst-labs/catalyst/internal/cli/output"
	"github.com/catalyst-labs/catalyst/internal/state"
)

const defaultHistoryLimit = 20

// HistoryOptions holds options for the history command.
type HistoryOptions struct {
	Limit int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	opts := &HistoryOptions{}

	cmd := &cobra.Command{
		Use:   "history [project-dir]",
		Short: "Show recorded builds and simulator runs",
		Long: `List past catalyst invocations from the project's state database,
newest first, with their status, target counts, and duration.`,
		Example: `  # Show the last 20 invocations
  catalyst history

  # Show the last 5
  catalyst history --limit 5`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, args, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", defaultHistoryLimit, "Maximum number of entries to show")

	return cmd
}

// HistoryEntry is one invocation in the history listing.
type HistoryEntry struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Status    string `json:"status"`
	Target    string `json:"target,omitempty"`
	Projects  int    `json:"projects"`
	Targets   int    `json:"targets"`
	StartedAt string `json:"started_at"`
	Duration  string `json:"duration,omitempty"`
	Error     string `json:"error,omitempty"`
}

// HistoryOutput is the JSON output of the history command.
type HistoryOutput struct {
	Builds []HistoryEntry `json:"builds"`
	Total  int            `json:"total"`
}

func runHistory(cmd *cobra.Command, args []string, opts *HistoryOptions) error {
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

	builds, err := store.ListBuilds(opts.Limit)
	if err != nil {
		return fmt.Errorf("failed to list builds: %w", err)
	}

	entries := buildHistoryEntries(builds)
	r := cmdCtx.Renderer

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(HistoryOutput{Builds: entries, Total: len(entries)})
	case output.ModeMarkdown:
		return historyMarkdown(r, entries)
	default:
		return historyText(r, entries)
	}
}

func buildHistoryEntries(builds []*state.Build) []HistoryEntry {
	entries := make([]HistoryEntry, 0, len(builds))
	for _, b := range builds {
		entries = append(entries, HistoryEntry{
			ID:        shortID(b.ID),
			Kind:      string(b.Kind),
			Status:    string(b.Status),
			Target:    b.Target,
			Projects:  b.Projects,
			Targets:   b.Targets,
			StartedAt: b.StartedAt.Local().Format("2006-01-02 15:04:05"),
			Duration:  formatDuration(b.Duration()),
			Error:     b.Error,
		})
	}
	return entries
}

// shortID truncates a UUID for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// formatDuration renders an invocation duration, or "-" while it is still
// running.
func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return d.Round(time.Millisecond).String()
}

func historyText(r *output.Renderer, entries []HistoryEntry) error {
	if len(entries) == 0 {
		r.Println("No builds recorded yet.")
		return nil
	}

	r.Header(1, "Build History")

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Kind", "Status", "Target", "Projects", "Targets", "Started", "Duration"})

	for _, e := range entries {
		t.AppendRow(table.Row{e.ID, e.Kind, e.Status, e.Target, e.Projects, e.Targets, e.StartedAt, e.Duration})
	}
	t.Render()

	r.Printf("(%d entries)\n", len(entries))
	return nil
}

func historyMarkdown(r *output.Renderer, entries []HistoryEntry) error {
	r.Header(1, "Build History")

	if len(entries) == 0 {
		r.Println("No builds recorded yet.")
		return nil
	}

	r.Println("| ID | Kind | Status | Target | Projects | Targets | Started | Duration |")
	r.Println("| --- | --- | --- | --- | --- | --- | --- | --- |")
	for _, e := range entries {
		r.Printf("| %s | %s | %s | %s | %d | %d | %s | %s |\n",
			e.ID, e.Kind, e.Status, e.Target, e.Projects, e.Targets, e.StartedAt, e.Duration)
	}
	return nil
}
