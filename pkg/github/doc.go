// Package github wraps the GitHub REST API operations classforge needs
// to provision student repositories: forking a template, adding
// collaborators, and protecting the default branch.
//
// The package includes:
// - APIClient interface for GitHub API operations
// - Client implementation with retries and rate limiting
// - AuthManager for token file handling and token validation
// - Structured error types for GitHub API failures
package github
