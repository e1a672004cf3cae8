package cmd

import (
	"fmt"

	"github.com/chrismacdonaldw/kattis-grind/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Create, locate and check your .kattisrc",
	Long: `Manage the .kattisrc configuration file.

The file is looked up in $KATTIS_GRIND_HOME, your home directory, the current
and parent directory, and ~/.kattis-grind, in that order. A .env file in the
current directory may set KATTIS_GRIND_HOME.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default .kattisrc",
	Long: `Write a default .kattisrc into the configuration directory
($KATTIS_GRIND_HOME or ~/.kattis-grind). An existing file is never touched.

Afterwards fill in your username and token, or replace the file with the one
from 'kattis-grind login --open'.

Example:
  kattis-grind config init`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.DefaultPath()
		if err != nil {
			return err
		}

		created, err := config.CreateDefault(path)
		if err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		if !created {
			fmt.Println(gray.Render("Configuration already exists at " + path + ", leaving it as is"))
			return nil
		}

		fmt.Println(green.Render("✓ Created " + path))
		fmt.Println(gray.Render("Fill in [user] username and token, then run 'kattis-grind config validate'"))
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print which .kattisrc is in use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.Find()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the .kattisrc for missing or invalid values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		issues := cfg.Validate()
		if len(issues) == 0 {
			fmt.Println(green.Render("✓ " + cfg.Path + " looks good"))
			return nil
		}

		fmt.Println(red.Render(fmt.Sprintf("✗ %d issue(s) in %s", len(issues), cfg.Path)))
		for i, issue := range issues {
			connector := "├─"
			if i == len(issues)-1 {
				connector = "└─"
			}
			fmt.Printf("  %s %s\n", connector, issue)
		}
		return fmt.Errorf("configuration has %d issue(s)", len(issues))
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd, configPathCmd, configValidateCmd)
}
