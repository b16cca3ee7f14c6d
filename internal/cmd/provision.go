package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"classforge/pkg/config"
	"classforge/pkg/github"
	"classforge/pkg/provision"
	"classforge/pkg/roster"
)

var (
	provisionConcurrency int
	provisionVerbose     bool
)

var provisionCmd = &cobra.Command{
	Use:   "provision <designation> <group> <template-owner/repo> <roster.csv> <token-file>",
	Short: "Create one repository per roster entry from a template",
	Long: `Provision one repository per roster entry from a template repository.

Reads a comma-separated roster where each line is either a single username
(solo repository) or several usernames (group repository), computes a
repository name for every line, and then for each name:

1. Copies the template repository, history included, under the computed name
2. Waits until the copy is ready to accept configuration
3. Adds every roster member as a collaborator with push access
4. Protects the default branch against force-pushes and deletion

ARGUMENTS:

  designation   Short assignment tag used in repository names (e.g. a1)
  group         Course organization, also the repository name prefix
  template      Template repository as owner/repo (e.g. staff/assignment-template)
  roster.csv    Roster file, one entry per line
  token-file    File containing a personal access token, or - for stdin

NAMING:

  Solo entries become  {group}-{designation}-{username}
  Group entries become {group}-{designation}-g{N}, numbered in file order
  starting at g2

Targets are provisioned in parallel. A failed target never stops the others:
the run prints one line per roster entry and exits zero as long as the
inputs were valid, so the report always covers the whole roster. Re-running
after fixing a failure is safe; repositories that already exist are reused.

Examples:
  # Provision assignment a1 for the ece459-1231 course organization
  classforge provision a1 ece459-1231 staff/assignment-template roster.csv token.txt

  # Type or pipe the token instead of storing it in a file
  classforge provision a1 ece459-1231 staff/assignment-template roster.csv -

  # Slower, chattier run
  classforge provision a1 ece459-1231 staff/assignment-template roster.csv token.txt --concurrency 1 --verbose`,
	Args: cobra.ExactArgs(5),
	RunE: runProvision,
}

func init() {
	provisionCmd.Flags().IntVar(&provisionConcurrency, "concurrency", 0, "Number of targets provisioned in parallel (overrides config, capped at 8)")
	provisionCmd.Flags().BoolVarP(&provisionVerbose, "verbose", "v", false, "Print per-stage progress for every target")
}

func runProvision(_ *cobra.Command, args []string) error {
	designation, group, templateRef, rosterPath, tokenPath := args[0], args[1], args[2], args[3], args[4]

	if err := validateRunInputs(designation, group); err != nil {
		return err
	}

	templateOwner, templateRepo, err := splitTemplateRef(templateRef)
	if err != nil {
		return err
	}

	targets, err := loadTargets(designation, group, rosterPath)
	if err != nil {
		return err
	}

	for _, warning := range roster.ScreenTargets(targets) {
		fmt.Printf("⚠️  %s\n", warning.Error())
	}

	token, err := github.ReadTokenFile(tokenPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Authentication failed: %v\n\n", err)
		fmt.Fprintf(os.Stderr, "%s\n", github.GetAuthInstructions())
		return err
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load classforge config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	client, tokenInfo, err := setupClient(ctx, token, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Authentication failed: %v\n\n", err)
		fmt.Fprintf(os.Stderr, "%s\n", github.GetAuthInstructions())
		return err
	}

	fmt.Printf("✓ Authenticated as %s\n", tokenInfo.User)
	fmt.Printf("📋 Provisioning %d repositories in %s from %s/%s\n",
		len(targets), group, templateOwner, templateRepo)

	opts := provision.Options{
		Org:           group,
		TemplateOwner: templateOwner,
		TemplateRepo:  templateRepo,
		DefaultBranch: cfg.Provision.DefaultBranch,
		Concurrency:   effectiveConcurrency(cfg),
		Readiness:     readinessFromConfig(cfg),
	}
	if provisionVerbose {
		opts.Progress = func(format string, progressArgs ...interface{}) {
			fmt.Printf(format+"\n", progressArgs...)
		}
	}

	report := provision.New(client, opts).ProvisionAll(ctx, targets)

	printReport(report, "Created")
	return nil
}

// validateRunInputs rejects designation and group values that cannot
// form a valid repository name before anything else runs
func validateRunInputs(designation, group string) error {
	var validationErrors github.ValidationErrors

	if err := roster.ValidateRepoName(designation); err != nil {
		validationErrors.Add("designation", designation, err.Error())
	}
	if err := roster.ValidateRepoName(group); err != nil {
		validationErrors.Add("group", group, err.Error())
	}

	if validationErrors.HasErrors() {
		return validationErrors
	}
	return nil
}

// splitTemplateRef splits an owner/repo reference into its parts
func splitTemplateRef(ref string) (string, string, error) {
	parts := strings.Split(ref, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("template must be owner/repo, got %q", ref)
	}
	return parts[0], parts[1], nil
}

// loadTargets parses the roster file and computes the repository
// targets. Any roster problem is fatal before remote calls are made.
func loadTargets(designation, group, rosterPath string) ([]roster.Target, error) {
	f, err := os.Open(rosterPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open roster file: %w", err)
	}
	defer func() { _ = f.Close() }()

	entries, err := roster.Parse(f)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("roster file %s contains no entries", rosterPath)
	}

	return roster.BuildTargets(designation, group, entries)
}

// setupClient authenticates the token against the configured host and
// returns an API client bound to the same host
func setupClient(ctx context.Context, token string, cfg *config.Config) (*github.Client, *github.TokenInfo, error) {
	authManager := github.NewAuthManager()

	var err error
	if cfg.GitHub.BaseURL != "" {
		err = authManager.AuthenticateEnterprise(token, cfg.GitHub.BaseURL)
	} else {
		err = authManager.Authenticate(token)
	}
	if err != nil {
		return nil, nil, err
	}

	tokenInfo, err := authManager.ValidateToken(ctx)
	if err != nil {
		return nil, nil, err
	}

	var client *github.Client
	if cfg.GitHub.BaseURL != "" {
		client, err = github.NewEnterpriseClient(token, cfg.GitHub.BaseURL)
		if err != nil {
			return nil, nil, err
		}
	} else {
		client = github.NewClient(token)
	}

	return client, tokenInfo, nil
}

// effectiveConcurrency resolves the worker pool size: flag over config,
// config over the pool's own default
func effectiveConcurrency(cfg *config.Config) int {
	if provisionConcurrency > 0 {
		return provisionConcurrency
	}
	return cfg.Provision.Concurrency
}

// readinessFromConfig merges configured readiness settings over the
// defaults
func readinessFromConfig(cfg *config.Config) provision.ReadinessConfig {
	readiness := provision.DefaultReadinessConfig()

	if cfg.Provision.Readiness.MaxAttempts > 0 {
		readiness.MaxAttempts = cfg.Provision.Readiness.MaxAttempts
	}
	if d := cfg.Provision.Readiness.InitialDelay.Std(); d > 0 {
		readiness.InitialDelay = d
	}
	if d := cfg.Provision.Readiness.MaxDelay.Std(); d > 0 {
		readiness.MaxDelay = d
	}

	return readiness
}

// printReport prints one line per roster entry followed by the summary.
// succeededLabel names the success count for the command that ran.
func printReport(report *provision.Report, succeededLabel string) {
	fmt.Println()
	for _, line := range report.Lines() {
		fmt.Println(line)
	}

	fmt.Printf("\n📊 Summary:\n")
	fmt.Printf("  • Total targets: %d\n", report.Summary.TotalTargets)
	fmt.Printf("  • %s: %d\n", succeededLabel, report.Summary.Succeeded)
	fmt.Printf("  • Failed: %d\n", report.Summary.Failed)

	if !report.AllSucceeded() {
		fmt.Printf("\n⚠️  %d target(s) failed. Fix the causes and re-run; completed targets are reused.\n", report.Summary.Failed)
	}
}
