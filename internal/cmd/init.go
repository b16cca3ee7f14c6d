package cmd

import (
	"fmt"
	"os"
	"time"

	"classforge/pkg/config"
	"classforge/pkg/provision"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize classforge configuration",
	Long:  "Create a default configuration file for classforge",
	RunE:  runInit,
}

func runInit(_ *cobra.Command, _ []string) error {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("⚠️  Configuration file already exists at: %s\n", configPath)
		fmt.Print("Do you want to overwrite it? (y/N): ")
		var response string
		_, _ = fmt.Scanln(&response) // Ignore error for user input
		if response != "y" && response != "Y" {
			fmt.Println("Configuration initialization cancelled.")
			return nil
		}
	}

	// Create default configuration
	defaultConfig := &config.Config{
		Provision: config.ProvisionConfig{
			Concurrency:   provision.DefaultConcurrency,
			DefaultBranch: "main",
			Readiness: config.ReadinessConfig{
				MaxAttempts:  10,
				InitialDelay: config.Duration(500 * time.Millisecond),
				MaxDelay:     config.Duration(10 * time.Second),
			},
		},
	}

	// Save configuration
	if err := defaultConfig.SaveConfig(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Printf("✅ Configuration file created at: %s\n", configPath)
	fmt.Println("📝 Edit the file to point at a GitHub Enterprise instance or tune the run.")

	return nil
}
