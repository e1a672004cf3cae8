// Package runner compiles a solution and checks it against the samples of
// its problem directory.
package runner

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/chrismacdonaldw/kattis-grind/internal/config"
	"github.com/chrismacdonaldw/kattis-grind/internal/kgerrors"
	"github.com/chrismacdonaldw/kattis-grind/internal/language"
	"github.com/chrismacdonaldw/kattis-grind/internal/workspace"
	"github.com/chrismacdonaldw/kattis-grind/ui/messages"
	log "github.com/sirupsen/logrus"
)

const DefaultCompileTimeout = 60 * time.Second

type Verdict int

const (
	Pass Verdict = iota
	Fail
	Timeout
	RuntimeError
)

func (v Verdict) String() string {
	switch v {
	case Pass:
		return "PASS"
	case Fail:
		return "FAIL"
	case Timeout:
		return "TIMEOUT"
	case RuntimeError:
		return "RUNTIME ERROR"
	default:
		return fmt.Sprintf("Verdict(%d)", int(v))
	}
}

// Reporter receives progress as the run goes.
type Reporter interface {
	Send(msg messages.Msg)
}

type Job struct {
	Problem  string
	Files    []string
	Language *language.Language
	// Dir holds sample-N.in / sample-N.ans.
	Dir string
	// MainClass overrides the guessed entry point.
	MainClass      string
	Timeout        time.Duration
	CompileTimeout time.Duration
}

type Result struct {
	Name     string
	Verdict  Verdict
	Input    string
	Stdout   string
	Expected string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

type Report struct {
	Results []Result
}

func (r *Report) Passed() int {
	n := 0
	for _, res := range r.Results {
		if res.Verdict == Pass {
			n++
		}
	}
	return n
}

func (r *Report) AllPassed() bool {
	return len(r.Results) > 0 && r.Passed() == len(r.Results)
}

func (r *Report) Verdicts() []Verdict {
	out := make([]Verdict, len(r.Results))
	for i, res := range r.Results {
		out[i] = res.Verdict
	}
	return out
}

// Run compiles job's files if the language needs it, then runs every sample
// in job.Dir in order. A sample that fails, times out or crashes does not
// stop the run. Errors are reserved for problems that prevent testing at
// all, such as a missing toolchain or a compile failure.
func Run(ctx context.Context, job Job, reporter Reporter) (*Report, error) {
	if job.Language == nil {
		return nil, fmt.Errorf("%w, no language given", kgerrors.ErrValidation)
	}
	if !job.Language.Runnable() {
		return nil, fmt.Errorf("%w, %s solutions cannot be run locally", kgerrors.ErrValidation, job.Language)
	}
	if job.Timeout <= 0 {
		job.Timeout = config.DefaultTestTimeout
	}
	if job.CompileTimeout <= 0 {
		job.CompileTimeout = DefaultCompileTimeout
	}

	cases, err := workspace.Samples(job.Dir)
	if err != nil {
		return nil, err
	}
	if len(cases) == 0 {
		return nil, fmt.Errorf("%w, no samples in %s", kgerrors.ErrNotFound, job.Dir)
	}

	files, err := absolute(job.Files)
	if err != nil {
		return nil, err
	}

	build, err := newBuildDir()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := build.cleanup(); err != nil {
			log.WithError(err).Warn("failed to remove build directory")
		}
	}()

	vars := language.Vars{
		Files:     files,
		Main:      job.Language.MainFile(files),
		BuildDir:  build.path,
		Binary:    build.binary(),
		MainClass: job.MainClass,
	}
	if vars.MainClass == "" {
		vars.MainClass = job.Language.GuessMainClass(files)
	}

	reporter.Send(messages.StartRunMsg{Problem: job.Problem, Language: job.Language.Name, Samples: len(cases)})

	if err := compile(ctx, job, vars, reporter); err != nil {
		return nil, err
	}

	runArgv := language.Expand(job.Language.Run, vars)
	report := &Report{}
	for i, c := range cases {
		res, err := runSample(ctx, runArgv, job, c)
		if err != nil {
			return report, err
		}
		report.Results = append(report.Results, *res)
		reporter.Send(messages.ResolveSampleMsg{
			Index:    i,
			Total:    len(cases),
			Name:     res.Name,
			Verdict:  res.Verdict.String(),
			Passed:   res.Verdict == Pass,
			TimedOut: res.Verdict == Timeout,
			Crashed:  res.Verdict == RuntimeError,
			Stdin:    res.Input,
			Stdout:   res.Stdout,
			Expected: res.Expected,
			Stderr:   res.Stderr,
			ExitCode: res.ExitCode,
			Duration: res.Duration,
		})
	}

	reporter.Send(messages.SummaryMsg{Passed: report.Passed(), Total: len(report.Results)})
	return report, nil
}

func compile(ctx context.Context, job Job, vars language.Vars, reporter Reporter) error {
	lang := job.Language
	if !lang.Compiled() {
		argv := language.Expand(lang.Run, vars)
		if err := lookPath(argv[0]); err != nil {
			return fmt.Errorf("%w, %s interpreter '%s' not found", kgerrors.ErrCompile, lang.Name, argv[0])
		}
		return nil
	}

	argv := language.Expand(lang.Compile, vars)
	if err := lookPath(argv[0]); err != nil {
		return fmt.Errorf("%w, %s compiler '%s' not found", kgerrors.ErrCompile, lang.Name, argv[0])
	}

	reporter.Send(messages.CompileMsg{Command: strings.Join(argv, " ")})
	log.WithField("argv", argv).Debug("compiling")

	res, err := execute(ctx, argv, vars.BuildDir, "", job.CompileTimeout)
	if err != nil {
		return fmt.Errorf("%w, %v", kgerrors.ErrCompile, err)
	}
	if res.TimedOut || res.ExitCode != 0 {
		output := strings.TrimRight(res.Stderr+res.Stdout, "\n")
		if res.TimedOut {
			output = fmt.Sprintf("compiler did not finish within %s", job.CompileTimeout)
		}
		reporter.Send(messages.CompileFailedMsg{Output: output})
		return fmt.Errorf("%w, %s", kgerrors.ErrCompile, firstLine(output))
	}
	return nil
}

func runSample(ctx context.Context, argv []string, job Job, c workspace.SampleCase) (*Result, error) {
	input, err := os.ReadFile(c.InputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", c.InputPath, err)
	}
	want, err := os.ReadFile(c.AnswerPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", c.AnswerPath, err)
	}

	res, err := execute(ctx, argv, job.Dir, string(input), job.Timeout)
	if err != nil {
		return nil, err
	}

	r := &Result{
		Name:     c.Name,
		Input:    string(input),
		Stdout:   res.Stdout,
		Expected: string(want),
		Stderr:   res.Stderr,
		ExitCode: res.ExitCode,
		Duration: res.Duration,
	}
	switch {
	case res.TimedOut:
		r.Verdict = Timeout
	case res.ExitCode != 0:
		r.Verdict = RuntimeError
	case Compare(res.Stdout, r.Expected):
		r.Verdict = Pass
	default:
		r.Verdict = Fail
	}
	log.WithFields(log.Fields{"sample": c.Name, "verdict": r.Verdict, "took": res.Duration}).Debug("sample done")
	return r, nil
}

func absolute(files []string) ([]string, error) {
	out := make([]string, len(files))
	for i, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, err
		}
		out[i] = abs
	}
	return out, nil
}

// lookPath accepts both bare command names and paths, such as the compiled
// binary inside the build directory.
func lookPath(name string) error {
	if strings.ContainsRune(name, filepath.Separator) {
		return nil
	}
	_, err := exec.LookPath(name)
	return err
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}
