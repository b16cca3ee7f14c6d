package github

// APIClient defines the GitHub API operations needed to provision
// repositories. Implementations handle authentication, rate limiting,
// and retries internally.
type APIClient interface {
	// GetRepository fetches a repository by owner and name
	GetRepository(owner, name string) (*Repository, error)

	// CreateFork copies a repository, history included, into the
	// namespace given by opts. GitHub queues the copy asynchronously,
	// so the returned repository may not be ready for follow-up calls
	// yet; callers poll GetRepository and GetBranch until it is.
	CreateFork(owner, repo string, opts ForkOptions) (*Repository, error)

	// GetBranch fetches a single branch of a repository
	GetBranch(owner, name, branch string) (*Branch, error)

	// AddCollaborator grants a user access to a repository at the
	// given permission level
	AddCollaborator(owner, name, username, permission string) error

	// ProtectBranch applies protection rules to a branch
	ProtectBranch(owner, name, branch string, rules ProtectionRule) error

	// RemoveBranchProtection removes all protection from a branch
	RemoveBranchProtection(owner, name, branch string) error
}
