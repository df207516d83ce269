// Package state persists catalyst's invocation history in SQLite. Every
// build or deployment records what ran, against which project, and how it
// ended.
package state

import "time"

// BuildKind distinguishes plain builds from simulator deployments.
type BuildKind string

const (
	BuildKindBuild BuildKind = "build"
	BuildKindRun   BuildKind = "run"
)

// BuildStatus is the lifecycle state of a recorded invocation.
type BuildStatus string

const (
	BuildStatusRunning   BuildStatus = "running"
	BuildStatusCompleted BuildStatus = "completed"
	BuildStatusFailed    BuildStatus = "failed"
	BuildStatusCancelled BuildStatus = "cancelled"
)

// Build is one recorded catalyst invocation.
type Build struct {
	ID          string
	ProjectDir  string
	Kind        BuildKind
	Status      BuildStatus
	Target      string
	Projects    int
	Targets     int
	Error       string
	StartedAt   time.Time
	CompletedAt *time.Time
}

// Duration returns how long the invocation ran, or zero if it has not
// completed.
func (b *Build) Duration() time.Duration {
	if b.CompletedAt == nil {
		return 0
	}
	return b.CompletedAt.Sub(b.StartedAt)
}
