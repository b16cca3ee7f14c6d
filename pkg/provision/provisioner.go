package provision

import (
	"context"

	"golang.org/x/sync/errgroup"

	"classforge/pkg/github"
	"classforge/pkg/roster"
)

const (
	// DefaultConcurrency keeps a full-course run reasonably fast
	// without hammering the API
	DefaultConcurrency = 3

	// MaxConcurrency caps the worker pool regardless of configuration
	MaxConcurrency = 8
)

// Provisioner drives a provisioning run over a set of roster targets
type Provisioner struct {
	client github.APIClient
	opts   Options
}

// New creates a provisioner, filling zero-valued options with defaults
func New(client github.APIClient, opts Options) *Provisioner {
	if opts.Permission == "" {
		opts.Permission = github.PermissionPush
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Concurrency > MaxConcurrency {
		opts.Concurrency = MaxConcurrency
	}
	if opts.Readiness.MaxAttempts <= 0 {
		opts.Readiness = DefaultReadinessConfig()
	}

	return &Provisioner{client: client, opts: opts}
}

// ProvisionAll processes every target through a bounded worker pool and
// returns one result per target, in roster order. A failed target never
// stops the others. Canceling ctx stops targets from advancing to their
// next stage; each recorded result still lands in the report.
func (p *Provisioner) ProvisionAll(ctx context.Context, targets []roster.Target) *Report {
	results := make([]Result, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Concurrency)

	for i, target := range targets {
		g.Go(func() error {
			results[i] = provisionTarget(gctx, p.client, &p.opts, target)
			return nil // one broken target never fails the run
		})
	}

	// Workers only report through the results slice.
	_ = g.Wait()

	return NewReport(results)
}
