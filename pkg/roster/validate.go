package roster

import (
	"fmt"
	"regexp"
	"strings"
)

// Warning represents a non-fatal problem found while screening targets.
// Syntax problems are warnings rather than errors because the provider's
// response during member addition is the authoritative check.
type Warning struct {
	Field   string `json:"field"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

// Error implements the error interface
func (w *Warning) Error() string {
	if w.Value != "" {
		return fmt.Sprintf("warning for %s (value: %s): %s", w.Field, w.Value, w.Message)
	}
	return fmt.Sprintf("warning for %s: %s", w.Field, w.Message)
}

var (
	validUsername = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?$`)
	validRepoName = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)
)

// ValidateUsername validates an account name according to GitHub's rules
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}

	if len(username) > 39 {
		return fmt.Errorf("username must be 39 characters or less")
	}

	// GitHub username validation rules:
	// - May only contain alphanumeric characters or single hyphens
	// - Cannot begin or end with a hyphen
	// - Cannot contain consecutive hyphens
	if !validUsername.MatchString(username) {
		return fmt.Errorf("username '%s' is invalid: must contain only alphanumeric characters and single hyphens, cannot start or end with hyphen", username)
	}

	if strings.Contains(username, "--") {
		return fmt.Errorf("username '%s' is invalid: cannot contain consecutive hyphens", username)
	}

	return nil
}

// ValidateRepoName validates a computed repository name according to
// GitHub's rules
func ValidateRepoName(name string) error {
	if name == "" {
		return fmt.Errorf("repository name is required")
	}

	if len(name) > 100 {
		return fmt.Errorf("repository name must be 100 characters or less")
	}

	if !validRepoName.MatchString(name) {
		return fmt.Errorf("repository name can only contain alphanumeric characters, periods, hyphens, and underscores")
	}

	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") {
		return fmt.Errorf("repository name cannot start or end with a period")
	}

	return nil
}

// ScreenTargets collects syntax warnings for the computed targets: member
// names that cannot be valid accounts and repository names the provider
// would reject.
func ScreenTargets(targets []Target) []Warning {
	var warnings []Warning

	for _, target := range targets {
		if err := ValidateRepoName(target.RepoName); err != nil {
			warnings = append(warnings, Warning{
				Field:   fmt.Sprintf("line %d repository name", target.LineNumber),
				Value:   target.RepoName,
				Message: err.Error(),
			})
		}

		for _, member := range target.Members {
			if err := ValidateUsername(member); err != nil {
				warnings = append(warnings, Warning{
					Field:   fmt.Sprintf("line %d member", target.LineNumber),
					Value:   member,
					Message: err.Error(),
				})
			}
		}
	}

	return warnings
}
