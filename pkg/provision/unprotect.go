package provision

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"classforge/pkg/github"
	"classforge/pkg/roster"
)

// UnprotectAll removes default-branch protection from every target's
// repository through the same bounded pool as ProvisionAll. A branch
// that was never protected counts as success, so re-runs are safe.
func (p *Provisioner) UnprotectAll(ctx context.Context, targets []roster.Target) *Report {
	results := make([]Result, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Concurrency)

	for i, target := range targets {
		g.Go(func() error {
			results[i] = unprotectTarget(gctx, p.client, &p.opts, target)
			return nil
		})
	}

	_ = g.Wait()

	return NewReport(results)
}

func unprotectTarget(ctx context.Context, client github.APIClient, opts *Options, target roster.Target) Result {
	fail := func(reason string) Result {
		return Result{
			Target: target,
			Status: StatusFailed,
			Stage:  StageBranchProtect,
			Reason: reason,
		}
	}

	if ctx.Err() != nil {
		return fail("run canceled before this stage")
	}

	// Confirm the repository exists before touching protection, so a
	// missing repo and a missing protection rule report differently.
	repo, err := client.GetRepository(opts.Org, target.RepoName)
	if err != nil {
		return fail(fmt.Sprintf("repository lookup: %v", err))
	}

	branch := repo.DefaultBranch
	if branch == "" {
		branch = opts.DefaultBranch
	}
	if branch == "" {
		branch = "main"
	}

	if err := client.RemoveBranchProtection(opts.Org, target.RepoName, branch); err != nil {
		var ghErr *github.GitHubError
		if errors.As(err, &ghErr) && ghErr.Type == github.ErrorTypeNotFound {
			// Branch was never protected. Nothing to remove.
			return Result{Target: target, Status: StatusUnprotected}
		}
		return fail(err.Error())
	}

	return Result{Target: target, Status: StatusUnprotected}
}
