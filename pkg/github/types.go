package github

import "time"

// Permission levels grantable to repository collaborators. Provisioned
// members always get PermissionPush: enough to contribute, not enough to
// change protected settings.
const (
	PermissionPull  = "pull"
	PermissionPush  = "push"
	PermissionAdmin = "admin"
)

// Repository represents a GitHub repository
type Repository struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	FullName      string    `json:"full_name"`
	Owner         string    `json:"owner"`
	Description   string    `json:"description"`
	Private       bool      `json:"private"`
	Fork          bool      `json:"fork"`
	DefaultBranch string    `json:"default_branch"`
	CreatedAt     time.Time `json:"created_at"`
}

// Branch represents a repository branch
type Branch struct {
	Name      string `json:"name"`
	SHA       string `json:"sha"`
	Protected bool   `json:"protected"`
}

// ForkOptions controls where a fork is created and what it is called.
type ForkOptions struct {
	// Organization is the organization the fork lands in. Empty means
	// the authenticated user's namespace.
	Organization string `json:"organization,omitempty"`

	// Name renames the fork. Empty keeps the source repository's name.
	Name string `json:"name,omitempty"`
}

// ProtectionRule defines the branch protection settings applied to
// provisioned repositories. Normal pushes stay allowed; only the
// history-rewriting operations are locked down.
type ProtectionRule struct {
	ForbidForcePush bool `json:"forbid_force_push"`
	ForbidDeletion  bool `json:"forbid_deletion"`
}
