package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"classforge/pkg/roster"
)

var validateCmd = &cobra.Command{
	Use:   "validate <designation> <group> <roster.csv>",
	Short: "Check a roster and preview repository names without touching GitHub",
	Long: `Validate a roster file and preview the repository names a provision run
would create. Nothing is sent to GitHub.

VALIDATION CHECKS:

• Roster syntax: every non-blank line must yield at least one username
• Name collisions: no two lines may compute the same repository name
• Username syntax warnings: member names that cannot be valid GitHub
  accounts (the provisioning run would fail those targets at member add)
• Repository name warnings: computed names GitHub would reject

Examples:
  classforge validate a1 ece459-1231 roster.csv

  # Fix the roster until this passes, then provision
  classforge validate a1 ece459-1231 roster.csv && \
    classforge provision a1 ece459-1231 staff/assignment-template roster.csv token.txt`,
	Args: cobra.ExactArgs(3),
	RunE: runValidate,
}

func runValidate(_ *cobra.Command, args []string) error {
	designation, group, rosterPath := args[0], args[1], args[2]

	fmt.Printf("🔍 Validating roster file: %s\n", rosterPath)

	if err := validateRunInputs(designation, group); err != nil {
		return err
	}

	targets, err := loadTargets(designation, group, rosterPath)
	if err != nil {
		return err
	}

	solo := 0
	for _, target := range targets {
		if target.Solo {
			solo++
		}
	}
	fmt.Printf("✓ Roster parsed: %d entries (%d solo, %d group)\n", len(targets), solo, len(targets)-solo)

	fmt.Printf("\n📋 Repository names that would be provisioned:\n")
	for _, target := range targets {
		fmt.Printf("  • %s (%s)\n", target.RepoName, strings.Join(target.Members, ", "))
	}

	warnings := roster.ScreenTargets(targets)
	if len(warnings) > 0 {
		fmt.Printf("\n⚠️  %d warning(s):\n", len(warnings))
		for _, warning := range warnings {
			fmt.Printf("  • %s\n", warning.Error())
		}
		fmt.Printf("   Warnings do not block provisioning, but the affected targets\n")
		fmt.Printf("   are likely to fail at member add.\n")
	}

	fmt.Printf("\n✅ Roster is valid: %d repositories would be provisioned\n", len(targets))
	return nil
}
