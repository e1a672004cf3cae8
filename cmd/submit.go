package cmd

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/chrismacdonaldw/kattis-grind/client"
	"github.com/chrismacdonaldw/kattis-grind/internal/kgerrors"
	"github.com/chrismacdonaldw/kattis-grind/internal/language"
	"github.com/chrismacdonaldw/kattis-grind/internal/submission"
	"github.com/chrismacdonaldw/kattis-grind/ui"
	"github.com/chrismacdonaldw/kattis-grind/ui/messages"
	"github.com/spf13/cobra"
)

var submitCmd = &cobra.Command{
	Use:   "submit <file>... | submit <problem-id>",
	Short: "Submit a solution to Kattis and wait for the verdict",
	Long: `Upload your solution to Kattis and follow the judging until a verdict.

Problem, language and main class are guessed from the files unless given.
With a single problem id instead of files, the solution files in that
problem's directory are submitted. Exits 0 only when the submission is
Accepted.

Example:
  kattis-grind submit kattis_problems/hello/hello.py
  kattis-grind submit hello
  kattis-grind submit Main.java Helper.java --problem carrots --force

Tip: Use 'kattis-grind test' first to check the samples locally.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		problemID, _ := cmd.Flags().GetString("problem")
		langName, _ := cmd.Flags().GetString("language")
		mainClass, _ := cmd.Flags().GetString("mainclass")
		force, _ := cmd.Flags().GetBool("force")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		catalog := language.Default()

		files, dirID, err := submission.ResolveArgs(args, workspaceFor(cfg), cfg.Settings.Languages, catalog)
		if err != nil {
			return err
		}
		if problemID == "" {
			problemID = dirID
		}

		sub, err := submission.Prepare(files, submission.Options{
			Problem:   strings.ToLower(problemID),
			Language:  langName,
			MainClass: mainClass,
			Catalog:   catalog,
		})
		if err != nil {
			return err
		}
		if err := cfg.CheckCredentials(); err != nil {
			return err
		}

		printSubmission(sub)
		if !force && !confirm(cmd.InOrStdin(), "Submit? (y/N) ") {
			fmt.Println(gray.Render("Cancelled"))
			return nil
		}

		ctx := cmd.Context()
		c := client.FromConfig(cfg)
		if err := c.Login(ctx, cfg.User.Username, cfg.User.Token); err != nil {
			return err
		}
		id, err := c.Submit(ctx, sub.Request())
		if err != nil {
			return err
		}

		renderer := ui.NewRenderer(nil)
		renderer.Send(messages.SubmittedMsg{ID: id, URL: c.SubmissionPageURL(id)})

		final, err := c.WaitForVerdict(ctx, id, func(u client.Update) {
			renderer.Send(messages.JudgeProgressMsg{
				Status: u.Status.String(),
				Final:  u.Status.Final(),
				Marks:  u.Judgement.Marks,
				Done:   u.TestcaseIndex,
				Total:  u.Judgement.Total,
			})
		})
		if err != nil {
			return err
		}

		renderer.Send(messages.VerdictMsg{
			Status:         final.Status.String(),
			Accepted:       final.Status.Accepted(),
			CPUTime:        final.Judgement.CPUTime,
			CompilerOutput: final.CompilerOutput,
		})
		if !final.Status.Accepted() {
			return fmt.Errorf("%w, %s", kgerrors.ErrRejected, final.Status)
		}
		return nil
	},
}

func printSubmission(sub *submission.Submission) {
	fmt.Println(cyan.Render("● ") + "Problem:  " + sub.Problem)
	fmt.Println("  Language: " + sub.Language.Name)
	if sub.MainClass != "" {
		fmt.Println("  Main:     " + sub.MainClass)
	}
	names := make([]string, len(sub.Files))
	for i, f := range sub.Files {
		names[i] = filepath.Base(f)
	}
	fmt.Println("  Files:    " + strings.Join(names, ", "))
}

func confirm(in io.Reader, prompt string) bool {
	fmt.Print(prompt)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		fmt.Println()
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func init() {
	rootCmd.AddCommand(submitCmd)
	submitCmd.Flags().StringP("problem", "p", "", "Problem id (default: name of the first file)")
	submitCmd.Flags().StringP("language", "l", "", "Kattis language name or alias (default: from extensions)")
	submitCmd.Flags().StringP("mainclass", "m", "", "Main class or main file (default: guessed)")
	submitCmd.Flags().BoolP("force", "f", false, "Submit without asking for confirmation")
}
