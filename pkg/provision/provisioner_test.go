package provision

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"classforge/pkg/github"
	"classforge/pkg/roster"
)

func soloTargets(n int) []roster.Target {
	targets := make([]roster.Target, 0, n)
	for i := 0; i < n; i++ {
		username := fmt.Sprintf("student%d", i+1)
		targets = append(targets, roster.Target{
			RepoName:   "course-a1-" + username,
			Members:    []string{username},
			LineNumber: i + 1,
			Solo:       true,
		})
	}
	return targets
}

func TestNew_FillsDefaults(t *testing.T) {
	client := &MockAPIClient{}

	p := New(client, Options{Org: "course"})

	assert.Equal(t, github.PermissionPush, p.opts.Permission)
	assert.Equal(t, DefaultConcurrency, p.opts.Concurrency)
	assert.Equal(t, DefaultReadinessConfig(), p.opts.Readiness)
}

func TestNew_ClampsConcurrency(t *testing.T) {
	tests := []struct {
		name     string
		given    int
		expected int
	}{
		{"zero uses default", 0, DefaultConcurrency},
		{"negative uses default", -2, DefaultConcurrency},
		{"in range kept", 5, 5},
		{"above cap clamped", 99, MaxConcurrency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(&MockAPIClient{}, Options{Concurrency: tt.given})
			assert.Equal(t, tt.expected, p.opts.Concurrency)
		})
	}
}

func TestProvisionAll_ResultsInRosterOrder(t *testing.T) {
	client := &MockAPIClient{}
	opts := testOptions()
	targets := soloTargets(4)

	for _, target := range targets {
		mockHappyPath(client, opts, target)
	}

	p := New(client, opts)
	report := p.ProvisionAll(context.Background(), targets)

	require.Len(t, report.Results, len(targets))
	for i, target := range targets {
		assert.Equal(t, target.RepoName, report.Results[i].Target.RepoName)
		assert.Equal(t, StatusCreated, report.Results[i].Status)
	}
	assert.True(t, report.AllSucceeded())
	assert.Equal(t, Summary{TotalTargets: 4, Succeeded: 4, Failed: 0}, report.Summary)
	client.AssertExpectations(t)
}

func TestProvisionAll_FailedTargetDoesNotStopOthers(t *testing.T) {
	client := &MockAPIClient{}
	opts := testOptions()
	targets := soloTargets(3)

	mockHappyPath(client, opts, targets[0])
	mockHappyPath(client, opts, targets[2])

	// Middle target dies adding its member.
	client.On("CreateFork", opts.TemplateOwner, opts.TemplateRepo, github.ForkOptions{
		Organization: opts.Org,
		Name:         targets[1].RepoName,
	}).Return(testRepo(targets[1].RepoName), nil).Once()
	client.On("GetRepository", opts.Org, targets[1].RepoName).
		Return(testRepo(targets[1].RepoName), nil).Once()
	client.On("GetBranch", opts.Org, targets[1].RepoName, "main").
		Return(&github.Branch{Name: "main"}, nil).Once()
	client.On("AddCollaborator", opts.Org, targets[1].RepoName, "student2", github.PermissionPush).
		Return(github.NewGitHubError(github.ErrorTypeNotFound, "User not found", nil)).Once()

	p := New(client, opts)
	report := p.ProvisionAll(context.Background(), targets)

	require.Len(t, report.Results, 3)
	assert.Equal(t, StatusCreated, report.Results[0].Status)
	assert.Equal(t, StatusFailed, report.Results[1].Status)
	assert.Equal(t, StageMemberAdd, report.Results[1].Stage)
	assert.Equal(t, StatusCreated, report.Results[2].Status)

	assert.False(t, report.AllSucceeded())
	assert.Equal(t, Summary{TotalTargets: 3, Succeeded: 2, Failed: 1}, report.Summary)
	client.AssertExpectations(t)
}

func TestProvisionAll_SerialPoolStillCompletes(t *testing.T) {
	client := &MockAPIClient{}
	opts := testOptions()
	opts.Concurrency = 1
	targets := soloTargets(3)

	for _, target := range targets {
		mockHappyPath(client, opts, target)
	}

	p := New(client, opts)
	report := p.ProvisionAll(context.Background(), targets)

	assert.True(t, report.AllSucceeded())
	assert.Equal(t, 3, report.Summary.Succeeded)
	client.AssertExpectations(t)
}

func TestProvisionAll_EmptyRoster(t *testing.T) {
	client := &MockAPIClient{}

	p := New(client, testOptions())
	report := p.ProvisionAll(context.Background(), nil)

	assert.Empty(t, report.Results)
	assert.True(t, report.AllSucceeded())
	assert.Equal(t, Summary{}, report.Summary)
	client.AssertNotCalled(t, "CreateFork", mock.Anything, mock.Anything, mock.Anything)
}

func TestProvisionAll_CanceledContext(t *testing.T) {
	client := &MockAPIClient{}
	targets := soloTargets(3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := New(client, testOptions())
	report := p.ProvisionAll(ctx, targets)

	require.Len(t, report.Results, 3)
	for _, result := range report.Results {
		assert.Equal(t, StatusFailed, result.Status)
		assert.Contains(t, result.Reason, "run canceled")
	}
	assert.Equal(t, 3, report.Summary.Failed)
	client.AssertNotCalled(t, "CreateFork", mock.Anything, mock.Anything, mock.Anything)
}
