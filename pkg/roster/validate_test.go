package roster

import (
	"strings"
	"testing"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
		errMsg   string
	}{
		{
			name:     "valid username",
			username: "jzarnett",
			wantErr:  false,
		},
		{
			name:     "valid username with hyphen",
			username: "test-user",
			wantErr:  false,
		},
		{
			name:     "valid single character",
			username: "a",
			wantErr:  false,
		},
		{
			name:     "empty username",
			username: "",
			wantErr:  true,
			errMsg:   "username cannot be empty",
		},
		{
			name:     "username too long",
			username: strings.Repeat("a", 40),
			wantErr:  true,
			errMsg:   "username must be 39 characters or less",
		},
		{
			name:     "leading hyphen",
			username: "-user",
			wantErr:  true,
			errMsg:   "cannot start or end with hyphen",
		},
		{
			name:     "trailing hyphen",
			username: "user-",
			wantErr:  true,
			errMsg:   "cannot start or end with hyphen",
		},
		{
			name:     "consecutive hyphens",
			username: "test--user",
			wantErr:  true,
			errMsg:   "cannot contain consecutive hyphens",
		},
		{
			name:     "invalid characters",
			username: "user name",
			wantErr:  true,
			errMsg:   "must contain only alphanumeric characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)

			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Expected error containing %q, got %q", tt.errMsg, err.Error())
				}
				return
			}

			if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestValidateRepoName(t *testing.T) {
	tests := []struct {
		name     string
		repoName string
		wantErr  bool
		errMsg   string
	}{
		{
			name:     "valid name",
			repoName: "ece459-1231-a1-jzarnett",
			wantErr:  false,
		},
		{
			name:     "valid name with period and underscore",
			repoName: "course_1.2-a1",
			wantErr:  false,
		},
		{
			name:     "empty name",
			repoName: "",
			wantErr:  true,
			errMsg:   "repository name is required",
		},
		{
			name:     "name too long",
			repoName: strings.Repeat("a", 101),
			wantErr:  true,
			errMsg:   "100 characters or less",
		},
		{
			name:     "invalid characters",
			repoName: "repo with spaces",
			wantErr:  true,
			errMsg:   "can only contain alphanumeric characters",
		},
		{
			name:     "leading period",
			repoName: ".repo",
			wantErr:  true,
			errMsg:   "cannot start or end with a period",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRepoName(tt.repoName)

			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Expected error containing %q, got %q", tt.errMsg, err.Error())
				}
				return
			}

			if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestScreenTargets(t *testing.T) {
	targets := []Target{
		{RepoName: "course-a1-good", Members: []string{"good"}, LineNumber: 1, Solo: true},
		{RepoName: "course-a1-g2", Members: []string{"ok", "-bad"}, LineNumber: 2, Solo: false},
	}

	warnings := ScreenTargets(targets)

	if len(warnings) != 1 {
		t.Fatalf("Expected 1 warning, got %d: %+v", len(warnings), warnings)
	}

	if warnings[0].Value != "-bad" {
		t.Errorf("Expected warning for -bad, got %s", warnings[0].Value)
	}
	if !strings.Contains(warnings[0].Field, "line 2") {
		t.Errorf("Expected warning naming line 2, got %s", warnings[0].Field)
	}
}

func TestScreenTargets_Clean(t *testing.T) {
	targets := []Target{
		{RepoName: "course-a1-abc", Members: []string{"abc"}, LineNumber: 1, Solo: true},
	}

	if warnings := ScreenTargets(targets); len(warnings) != 0 {
		t.Errorf("Expected no warnings, got %+v", warnings)
	}
}
