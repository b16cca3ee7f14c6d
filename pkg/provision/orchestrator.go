package provision

import (
	"context"
	"errors"
	"fmt"
	"time"

	"classforge/pkg/github"
	"classforge/pkg/roster"
)

// Target states as the pipeline advances
const (
	StatePending      = "Pending"
	StateCopied       = "Copied"
	StateReady        = "Ready"
	StateMembersAdded = "MembersAdded"
	StateDone         = "Done"
	StateFailed       = "Failed"
)

// ReadinessConfig bounds the wait for GitHub to finish the background
// copy of a fork
type ReadinessConfig struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultReadinessConfig returns the default readiness polling bounds
func DefaultReadinessConfig() ReadinessConfig {
	return ReadinessConfig{
		MaxAttempts:   10,
		InitialDelay:  500 * time.Millisecond,
		MaxDelay:      10 * time.Second,
		BackoffFactor: 2.0,
	}
}

// Options configures a provisioning run
type Options struct {
	// Org is the group the new repositories are created in. It is also
	// the first component of every repository name.
	Org string

	// TemplateOwner and TemplateRepo identify the template repository
	// every target is copied from.
	TemplateOwner string
	TemplateRepo  string

	// DefaultBranch is the branch to protect when the copy does not
	// report a default branch of its own. Empty falls back to "main".
	DefaultBranch string

	// Permission granted to every member. Empty means push access.
	Permission string

	// Concurrency is the worker pool size. Zero means
	// DefaultConcurrency; values above MaxConcurrency are clamped.
	Concurrency int

	// Readiness bounds the poll for fork copies to complete.
	Readiness ReadinessConfig

	// Progress receives one line per state change when set.
	Progress func(format string, args ...interface{})
}

// provisionSteps defines the ordered state machine for one target.
// Each step moves the target to the named state or fails the target at
// its stage.
var provisionSteps = []struct {
	state string
	stage Stage
	fn    func(tc *targetContext) error
}{
	{StateCopied, StageRepoCreate, stepCopyTemplate},
	{StateReady, StageRepoCreate, stepAwaitReady},
	{StateMembersAdded, StageMemberAdd, stepAddMembers},
	{StateDone, StageBranchProtect, stepProtectBranch},
}

// targetContext carries state through the pipeline for one target
type targetContext struct {
	client github.APIClient
	opts   *Options
	target roster.Target
	state  string
	branch string
}

func (tc *targetContext) progress(format string, args ...interface{}) {
	if tc.opts.Progress != nil {
		tc.opts.Progress(format, args...)
	}
}

func (tc *targetContext) transition(state string) {
	tc.state = state
	tc.progress("%s: %s", tc.target.RepoName, state)
}

// provisionTarget walks one target through the pipeline. It always
// returns a result: success, failure at a stage, or failure because the
// run was canceled. Cancellation is only observed between stages, so a
// stage in flight finishes and no repository is left half-configured
// without a recorded outcome.
func provisionTarget(ctx context.Context, client github.APIClient, opts *Options, target roster.Target) Result {
	tc := &targetContext{
		client: client,
		opts:   opts,
		target: target,
		state:  StatePending,
	}

	for _, step := range provisionSteps {
		if ctx.Err() != nil {
			tc.transition(StateFailed)
			return Result{
				Target: target,
				Status: StatusFailed,
				Stage:  step.stage,
				Reason: "run canceled before this stage",
			}
		}

		if err := step.fn(tc); err != nil {
			tc.transition(StateFailed)
			return Result{
				Target: target,
				Status: StatusFailed,
				Stage:  step.stage,
				Reason: err.Error(),
			}
		}

		tc.transition(step.state)
	}

	return Result{Target: target, Status: StatusCreated}
}

// stepCopyTemplate asks GitHub to copy the template, history included,
// under the target name
func stepCopyTemplate(tc *targetContext) error {
	_, err := tc.client.CreateFork(tc.opts.TemplateOwner, tc.opts.TemplateRepo, github.ForkOptions{
		Organization: tc.opts.Org,
		Name:         tc.target.RepoName,
	})
	return err
}

// stepAwaitReady polls until the background copy has produced both the
// repository and its default branch. The branch appears last; adding
// protection before it exists gets a 404.
func stepAwaitReady(tc *targetContext) error {
	cfg := tc.opts.Readiness
	delay := cfg.InitialDelay

	var lastErr error
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(delay)
			delay = time.Duration(float64(delay) * cfg.BackoffFactor)
			if delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}
		}

		repo, err := tc.client.GetRepository(tc.opts.Org, tc.target.RepoName)
		if err != nil {
			if !isNotReady(err) {
				return err
			}
			lastErr = err
			continue
		}

		branch := repo.DefaultBranch
		if branch == "" {
			branch = tc.opts.DefaultBranch
		}
		if branch == "" {
			branch = "main"
		}

		if _, err := tc.client.GetBranch(tc.opts.Org, tc.target.RepoName, branch); err != nil {
			if !isNotReady(err) {
				return err
			}
			lastErr = err
			continue
		}

		tc.branch = branch
		return nil
	}

	return fmt.Errorf("repository was not ready after %d attempts: %v", cfg.MaxAttempts, lastErr)
}

// isNotReady reports whether err is the 404 the API returns while the
// background copy has not yet produced the repository or its branch.
// Any other error ends the poll immediately.
func isNotReady(err error) bool {
	var ghErr *github.GitHubError
	return errors.As(err, &ghErr) && ghErr.Type == github.ErrorTypeNotFound
}

// stepAddMembers grants every roster member access to the repository
func stepAddMembers(tc *targetContext) error {
	for _, member := range tc.target.Members {
		tc.progress("%s: adding member %s", tc.target.RepoName, member)
		if err := tc.client.AddCollaborator(tc.opts.Org, tc.target.RepoName, member, tc.opts.Permission); err != nil {
			return fmt.Errorf("member %s: %w", member, err)
		}
	}
	return nil
}

// stepProtectBranch forbids force-pushes and deletion on the default
// branch while leaving ordinary pushes open
func stepProtectBranch(tc *targetContext) error {
	return tc.client.ProtectBranch(tc.opts.Org, tc.target.RepoName, tc.branch, github.ProtectionRule{
		ForbidForcePush: true,
		ForbidDeletion:  true,
	})
}
