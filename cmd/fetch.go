package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/chrismacdonaldw/kattis-grind/client"
	"github.com/chrismacdonaldw/kattis-grind/internal/config"
	"github.com/chrismacdonaldw/kattis-grind/internal/language"
	"github.com/chrismacdonaldw/kattis-grind/internal/problem"
	"github.com/chrismacdonaldw/kattis-grind/internal/seen"
	"github.com/pkg/browser"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <problem-id>",
	Short: "Download a problem statement and its samples",
	Long: `Download a problem into <problems_directory>/<problem-id>/.

The statement is saved as <problem-id>.html and every sample as
sample-N.in / sample-N.ans. Boilerplate is written for the languages in your
settings from the configured templates, without touching existing files, so
fetching again is safe.

Example:
  kattis-grind fetch hello
  kattis-grind fetch twostones --open`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := strings.ToLower(strings.TrimSpace(args[0]))
		open, _ := cmd.Flags().GetBool("open")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := openSeen()
		if err != nil {
			return err
		}

		res, err := fetchProblem(cmd, cfg, store, id)
		if err != nil {
			return err
		}
		if open {
			openStatement(res)
		}
		return nil
	},
}

// fetchProblem downloads id and prints what ended up on disk.
func fetchProblem(cmd *cobra.Command, cfg *config.Config, store *seen.Store, id string) (*problem.Result, error) {
	fetcher := &problem.Fetcher{
		Source:       client.FromConfig(cfg),
		Workspace:    workspaceFor(cfg),
		Seen:         store,
		Catalog:      language.Default(),
		Languages:    cfg.Settings.Languages,
		Templates:    cfg.Templates,
		IncludeHints: cfg.Settings.IncludeHints,
	}

	fmt.Println(cyan.Render("● ") + "Fetching " + id)
	res, err := fetcher.Fetch(cmd.Context(), id)
	if err != nil {
		return nil, err
	}

	source := "statement"
	if res.FromBundle {
		source = "sample bundle"
	}
	fmt.Printf("  ├─ %s\n", res.Title)
	fmt.Printf("  ├─ %d sample(s) from the %s\n", res.Samples, source)
	for _, f := range res.Boilerplate {
		fmt.Printf("  ├─ %s\n", filepath.Base(f))
	}
	if res.Hint != nil {
		fmt.Printf("  ├─ hint: %s\n", gray.Render(res.Hint.Type))
	}
	fmt.Printf("  └─ %s\n", relative(res.Dir))
	fmt.Println(green.Render("✓ Fetched " + id))
	return res, nil
}

func openStatement(res *problem.Result) {
	abs, err := filepath.Abs(res.StatementPath)
	if err != nil {
		abs = res.StatementPath
	}
	if err := browser.OpenFile(abs); err != nil {
		log.WithError(err).Warn("could not open the statement in a browser")
	}
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().Bool("open", false, "Open the statement in your browser")
}
