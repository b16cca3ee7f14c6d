package provision

import (
	"fmt"
	"strings"

	"classforge/pkg/roster"
)

// Status is the final outcome of one target
type Status string

const (
	StatusCreated     Status = "Created"
	StatusUnprotected Status = "Unprotected"
	StatusFailed      Status = "Failed"
)

// Stage names the pipeline stage a failure happened in
type Stage string

const (
	StageRepoCreate    Stage = "RepoCreate"
	StageMemberAdd     Stage = "MemberAdd"
	StageBranchProtect Stage = "BranchProtect"
)

// Result records the outcome for a single roster target
type Result struct {
	Target roster.Target `json:"target"`
	Status Status        `json:"status"`
	Stage  Stage         `json:"stage,omitempty"`
	Reason string        `json:"reason,omitempty"`
}

// Line renders the result as one report line: "<repo>: Created" on
// success, "<repo>: Failed at <stage>: <reason>" otherwise.
func (r Result) Line() string {
	if r.Status == StatusFailed {
		return fmt.Sprintf("%s: Failed at %s: %s", r.Target.RepoName, r.Stage, r.Reason)
	}
	return fmt.Sprintf("%s: %s", r.Target.RepoName, r.Status)
}

// Summary aggregates the outcomes of a run
type Summary struct {
	TotalTargets int `json:"total_targets"`
	Succeeded    int `json:"succeeded"`
	Failed       int `json:"failed"`
}

// Report holds one result per roster target, in roster order
type Report struct {
	Results []Result `json:"results"`
	Summary Summary  `json:"summary"`
}

// NewReport builds a report from per-target results
func NewReport(results []Result) *Report {
	report := &Report{Results: results}
	report.Summary.TotalTargets = len(results)

	for _, result := range results {
		if result.Status == StatusFailed {
			report.Summary.Failed++
		} else {
			report.Summary.Succeeded++
		}
	}

	return report
}

// Lines renders every result in roster order
func (r *Report) Lines() []string {
	lines := make([]string, 0, len(r.Results))
	for _, result := range r.Results {
		lines = append(lines, result.Line())
	}
	return lines
}

// String renders the whole report, one line per target
func (r *Report) String() string {
	return strings.Join(r.Lines(), "\n")
}

// AllSucceeded reports whether no target failed
func (r *Report) AllSucceeded() bool {
	return r.Summary.Failed == 0
}
