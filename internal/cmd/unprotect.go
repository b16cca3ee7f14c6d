package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"classforge/pkg/config"
	"classforge/pkg/github"
	"classforge/pkg/provision"
)

var unprotectCmd = &cobra.Command{
	Use:   "unprotect <designation> <group> <roster.csv> <token-file>",
	Short: "Remove branch protection from every roster repository",
	Long: `Remove default-branch protection from every repository a roster
provisioned, typically at end of term so students can clean up their work
or staff can archive the organization.

The repository names are recomputed from the same designation, group and
roster used to provision, so the roster file must be unchanged. A branch
that was never protected counts as success, which makes re-runs safe.

Examples:
  classforge unprotect a1 ece459-1231 roster.csv token.txt`,
	Args: cobra.ExactArgs(4),
	RunE: runUnprotect,
}

func init() {
	unprotectCmd.Flags().IntVar(&provisionConcurrency, "concurrency", 0, "Number of targets processed in parallel (overrides config, capped at 8)")
}

func runUnprotect(_ *cobra.Command, args []string) error {
	designation, group, rosterPath, tokenPath := args[0], args[1], args[2], args[3]

	if err := validateRunInputs(designation, group); err != nil {
		return err
	}

	targets, err := loadTargets(designation, group, rosterPath)
	if err != nil {
		return err
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
	fmt.Printf("📋 Removing branch protection from %d repositories in %s\n", len(targets), group)

	opts := provision.Options{
		Org:           group,
		DefaultBranch: cfg.Provision.DefaultBranch,
		Concurrency:   effectiveConcurrency(cfg),
	}

	report := provision.New(client, opts).UnprotectAll(ctx, targets)

	printReport(report, "Unprotected")
	return nil
}
