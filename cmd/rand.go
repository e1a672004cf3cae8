package cmd

import (
	"fmt"

	"github.com/chrismacdonaldw/kattis-grind/client"
	"github.com/chrismacdonaldw/kattis-grind/internal/kgerrors"
	"github.com/chrismacdonaldw/kattis-grind/internal/picker"
	"github.com/spf13/cobra"
)

var randCmd = &cobra.Command{
	Use:   "rand",
	Short: "Pick unseen problems at random within a difficulty band",
	Long: `Pick problems you have not seen yet, uniformly at random, from the
difficulty band in your settings (or --min/--max). Picked problems are
recorded in seen.txt right away and never picked again.

Example:
  kattis-grind rand
  kattis-grind rand --min 2 --max 3.5 --fetch
  kattis-grind rand --count 5 --id-only`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")
		fetch, _ := cmd.Flags().GetBool("fetch")
		idOnly, _ := cmd.Flags().GetBool("id-only")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		lo, hi := cfg.Settings.MinDifficulty, cfg.Settings.MaxDifficulty
		if cmd.Flags().Changed("min") {
			lo, _ = cmd.Flags().GetFloat64("min")
		}
		if cmd.Flags().Changed("max") {
			hi, _ = cmd.Flags().GetFloat64("max")
		}
		if lo > hi {
			return fmt.Errorf("%w, minimum %.1f is above maximum %.1f", kgerrors.ErrEmptyRange, lo, hi)
		}
		if count < 1 {
			count = 1
		}

		store, err := openSeen()
		if err != nil {
			return err
		}

		c := client.FromConfig(cfg)
		if !idOnly {
			fmt.Println(gray.Render(fmt.Sprintf("Reading the problem list (difficulty %.1f-%.1f)...", lo, hi)))
		}
		catalog, err := c.CatalogUpTo(cmd.Context(), hi)
		if err != nil {
			return err
		}

		picked, pickErr := picker.PickN(cmd.Context(), catalog, store, lo, hi, count, nil)
		for _, p := range picked {
			if idOnly {
				fmt.Println(p.ID)
				continue
			}
			fmt.Printf("%s %s %s\n", cyan.Render("●"), p.ID, gray.Render(fmt.Sprintf("%s (%.1f)", p.Name, p.Difficulty)))
			fmt.Println(gray.Render("  " + c.ProblemURL(p.ID)))
		}
		if pickErr != nil {
			return pickErr
		}

		if fetch {
			for _, p := range picked {
				if _, err := fetchProblem(cmd, cfg, store, p.ID); err != nil {
					return err
				}
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(randCmd)
	randCmd.Flags().Float64("min", 0, "Lowest difficulty (default from settings)")
	randCmd.Flags().Float64("max", 0, "Highest difficulty (default from settings)")
	randCmd.Flags().IntP("count", "n", 1, "How many problems to pick")
	randCmd.Flags().Bool("fetch", false, "Fetch the picked problems right away")
	randCmd.Flags().Bool("id-only", false, "Print only the problem ids")
}
