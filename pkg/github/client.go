package github

import (
	"context"
	"fmt"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"
)

// Client implements the APIClient interface using the GitHub REST API
type Client struct {
	client  *github.Client
	ctx     context.Context
	limiter *RateLimiter
}

// NewClient creates a new GitHub API client with the provided token
func NewClient(token string) *Client {
	ctx := context.Background()
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)

	return &Client{
		client:  github.NewClient(tc),
		ctx:     ctx,
		limiter: NewRateLimiter(DefaultRateLimiterConfig()),
	}
}

// NewEnterpriseClient creates a client for a GitHub Enterprise instance
// rooted at baseURL.
func NewEnterpriseClient(token, baseURL string) (*Client, error) {
	ctx := context.Background()
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)

	ghClient, err := github.NewClient(tc).WithEnterpriseURLs(baseURL, baseURL)
	if err != nil {
		return nil, NewGitHubError(ErrorTypeValidation, fmt.Sprintf("invalid GitHub base URL %q", baseURL), err)
	}

	return &Client{
		client:  ghClient,
		ctx:     ctx,
		limiter: NewRateLimiter(DefaultRateLimiterConfig()),
	}, nil
}

// throttle blocks until the rate limiter allows another request
func (c *Client) throttle() error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(c.ctx)
}

// updateRateLimit feeds the latest rate limit headers back to the limiter
func (c *Client) updateRateLimit(resp *github.Response) {
	if c.limiter == nil || resp == nil {
		return
	}
	c.limiter.Update(resp.Rate.Remaining, resp.Rate.Reset.Time)
}

// GetRepository retrieves a repository by owner and name
func (c *Client) GetRepository(owner, name string) (*Repository, error) {
	var repo *github.Repository

	err := WithRetry(func() error {
		if err := c.throttle(); err != nil {
			return err
		}
		var resp *github.Response
		var err error
		repo, resp, err = c.client.Repositories.Get(c.ctx, owner, name)
		c.updateRateLimit(resp)
		if err != nil {
			return WrapGitHubError(err, fmt.Sprintf("repository %s/%s", owner, name))
		}
		return nil
	}, DefaultRetryConfig())

	if err != nil {
		return nil, err
	}

	return c.convertGitHubRepository(repo), nil
}

// CreateFork copies owner/repo into the namespace given by opts. GitHub
// answers 202 and finishes the copy in the background; the go-github
// client surfaces that as an AcceptedError carrying the new repository,
// which this method treats as success. Callers poll GetRepository and
// GetBranch to find out when the copy is complete.
func (c *Client) CreateFork(owner, repo string, opts ForkOptions) (*Repository, error) {
	forkOpts := &github.RepositoryCreateForkOptions{
		Organization: opts.Organization,
		Name:         opts.Name,
	}

	var fork *github.Repository

	err := WithRetry(func() error {
		if err := c.throttle(); err != nil {
			return err
		}
		created, resp, err := c.client.Repositories.CreateFork(c.ctx, owner, repo, forkOpts)
		c.updateRateLimit(resp)
		if err != nil {
			if _, accepted := err.(*github.AcceptedError); accepted {
				fork = created
				return nil
			}
			return WrapGitHubError(err, fmt.Sprintf("fork of repository %s/%s", owner, repo))
		}
		fork = created
		return nil
	}, DefaultRetryConfig())

	if err != nil {
		return nil, err
	}

	return c.convertGitHubRepository(fork), nil
}

// GetBranch retrieves a single branch of a repository
func (c *Client) GetBranch(owner, name, branch string) (*Branch, error) {
	var ghBranch *github.Branch

	err := WithRetry(func() error {
		if err := c.throttle(); err != nil {
			return err
		}
		var resp *github.Response
		var err error
		ghBranch, resp, err = c.client.Repositories.GetBranch(c.ctx, owner, name, branch, 1)
		c.updateRateLimit(resp)
		if err != nil {
			return WrapGitHubError(err, fmt.Sprintf("branch %s/%s:%s", owner, name, branch))
		}
		return nil
	}, DefaultRetryConfig())

	if err != nil {
		return nil, err
	}

	return c.convertGitHubBranch(ghBranch), nil
}

// AddCollaborator adds a collaborator to a repository
func (c *Client) AddCollaborator(owner, name, username, permission string) error {
	opts := &github.RepositoryAddCollaboratorOptions{
		Permission: permission,
	}

	return WithRetry(func() error {
		if err := c.throttle(); err != nil {
			return err
		}
		_, resp, err := c.client.Repositories.AddCollaborator(c.ctx, owner, name, username, opts)
		c.updateRateLimit(resp)
		if err != nil {
			return WrapGitHubError(err, fmt.Sprintf("collaborator %s for %s/%s", username, owner, name))
		}
		return nil
	}, DefaultRetryConfig())
}

// ProtectBranch applies protection rules to a branch
func (c *Client) ProtectBranch(owner, name, branch string, rules ProtectionRule) error {
	protection := c.buildProtectionRequest(rules)

	return WithRetry(func() error {
		if err := c.throttle(); err != nil {
			return err
		}
		_, resp, err := c.client.Repositories.UpdateBranchProtection(c.ctx, owner, name, branch, protection)
		c.updateRateLimit(resp)
		if err != nil {
			return WrapGitHubError(err, fmt.Sprintf("branch protection %s/%s:%s", owner, name, branch))
		}
		return nil
	}, DefaultRetryConfig())
}

// RemoveBranchProtection removes protection rules from a branch
func (c *Client) RemoveBranchProtection(owner, name, branch string) error {
	return WithRetry(func() error {
		if err := c.throttle(); err != nil {
			return err
		}
		resp, err := c.client.Repositories.RemoveBranchProtection(c.ctx, owner, name, branch)
		c.updateRateLimit(resp)
		if err != nil {
			return WrapGitHubError(err, fmt.Sprintf("branch protection %s/%s:%s", owner, name, branch))
		}
		return nil
	}, DefaultRetryConfig())
}

// buildProtectionRequest builds a GitHub API ProtectionRequest from our
// ProtectionRule. Status checks, reviews and push restrictions stay
// unset so members keep ordinary push access; only the history-rewriting
// operations are controlled.
func (c *Client) buildProtectionRequest(rules ProtectionRule) *github.ProtectionRequest {
	return &github.ProtectionRequest{
		EnforceAdmins:    false,
		AllowForcePushes: github.Bool(!rules.ForbidForcePush),
		AllowDeletions:   github.Bool(!rules.ForbidDeletion),
	}
}

// convertGitHubRepository converts a GitHub API repository to our internal type
func (c *Client) convertGitHubRepository(repo *github.Repository) *Repository {
	return &Repository{
		ID:            repo.GetID(),
		Name:          repo.GetName(),
		FullName:      repo.GetFullName(),
		Owner:         repo.GetOwner().GetLogin(),
		Description:   repo.GetDescription(),
		Private:       repo.GetPrivate(),
		Fork:          repo.GetFork(),
		DefaultBranch: repo.GetDefaultBranch(),
		CreatedAt:     repo.GetCreatedAt().Time,
	}
}

// convertGitHubBranch converts a GitHub API branch to our internal type
func (c *Client) convertGitHubBranch(branch *github.Branch) *Branch {
	b := &Branch{
		Name:      branch.GetName(),
		Protected: branch.GetProtected(),
	}
	if branch.Commit != nil {
		b.SHA = branch.Commit.GetSHA()
	}
	return b
}
