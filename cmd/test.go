package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/chrismacdonaldw/kattis-grind/internal/config"
	"github.com/chrismacdonaldw/kattis-grind/internal/kgerrors"
	"github.com/chrismacdonaldw/kattis-grind/internal/language"
	"github.com/chrismacdonaldw/kattis-grind/internal/runner"
	"github.com/chrismacdonaldw/kattis-grind/ui"
	"github.com/spf13/cobra"
)

var testCmd = &cobra.Command{
	Use:   "test <file>...",
	Short: "Run your solution against the samples",
	Long: `Compile your solution if needed and run it on every sample of its problem.

The problem is taken from --problem, else from the directory the solution is
in, else from the solution's file name. Output is compared ignoring trailing
whitespace. Nothing is sent to Kattis.

Example:
  kattis-grind test kattis_problems/hello/hello.py
  kattis-grind test Main.java Helper.java --problem carrots

After the samples pass, use 'kattis-grind submit' to send your solution.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		problemID, _ := cmd.Flags().GetString("problem")
		langName, _ := cmd.Flags().GetString("language")
		seconds, _ := cmd.Flags().GetFloat64("timeout")
		showAll, _ := cmd.Flags().GetBool("all")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		timeout := cfg.Settings.TestTimeout
		if seconds > 0 {
			timeout = time.Duration(seconds * float64(time.Second))
		}

		lang, err := resolveLanguage(language.Default(), langName, args)
		if err != nil {
			return err
		}

		dir, err := workspaceFor(cfg).Locate(strings.ToLower(problemID), args[0])
		if err != nil {
			return err
		}
		if problemID == "" {
			problemID = filepath.Base(dir)
		}

		renderer := ui.NewRenderer(nil)
		renderer.ShowPassing = showAll
		report, err := runner.Run(cmd.Context(), runner.Job{
			Problem:  problemID,
			Files:    args,
			Language: lang,
			Dir:      dir,
			Timeout:  timeout,
		}, renderer)
		if err != nil {
			return err
		}

		if !report.AllPassed() {
			return fmt.Errorf("%w, %d/%d passed", kgerrors.ErrSamplesFailed, report.Passed(), len(report.Results))
		}
		fmt.Println(gray.Render(fmt.Sprintf("\nRun 'kattis-grind submit %s' to send it to Kattis", strings.Join(args, " "))))
		return nil
	},
}

func resolveLanguage(catalog *language.Catalog, name string, files []string) (*language.Language, error) {
	if name != "" {
		lang, ok := catalog.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w, unknown language '%s'", kgerrors.ErrValidation, name)
		}
		return lang, nil
	}
	lang, ok := catalog.GuessFromFiles(files)
	if !ok {
		return nil, fmt.Errorf("%w, cannot tell the language of %s", kgerrors.ErrValidation, strings.Join(files, ", "))
	}
	return lang, nil
}

func init() {
	rootCmd.AddCommand(testCmd)
	testCmd.Flags().StringP("problem", "p", "", "Problem id whose samples to use")
	testCmd.Flags().StringP("language", "l", "", "Language, when the file extension is ambiguous")
	testCmd.Flags().Float64("timeout", 0, fmt.Sprintf("Time limit per sample in seconds (default test_timeout, %gs)", config.DefaultTestTimeout.Seconds()))
	testCmd.Flags().BoolP("all", "a", false, "Show input and output of passing samples too")
}
