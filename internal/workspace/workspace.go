// Package workspace lays out problem directories on disk:
//
//	<problems_dir>/<id>/<id>.html
//	<problems_dir>/<id>/sample-1.in, sample-1.ans, ...
//	<problems_dir>/<id>/<id>.cpp, <id>.py, ...
//	<problems_dir>/<id>/hint.txt
package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/chrismacdonaldw/kattis-grind/internal/extract"
	"github.com/chrismacdonaldw/kattis-grind/internal/kgerrors"
	log "github.com/sirupsen/logrus"
)

const (
	samplePrefix = "sample-"
	inputExt     = ".in"
	answerExt    = ".ans"
	hintFile     = "hint.txt"
)

type Workspace struct {
	Root string
}

func New(root string) *Workspace {
	return &Workspace{Root: root}
}

// Dir is the directory that holds problem id.
func (w *Workspace) Dir(id string) string {
	return filepath.Join(w.Root, id)
}

// SampleCase is one sample on disk.
type SampleCase struct {
	Name       string
	InputPath  string
	AnswerPath string
}

// WriteProblem writes the statement and samples of p, replacing whatever an
// earlier fetch left behind. Solution files in the directory are untouched.
func (w *Workspace) WriteProblem(p *extract.Problem) (string, error) {
	if err := validID(p.ID); err != nil {
		return "", err
	}
	dir := w.Dir(p.ID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}

	if err := removeSamples(dir); err != nil {
		return "", err
	}

	if err := os.WriteFile(filepath.Join(dir, p.ID+".html"), p.Raw, 0o644); err != nil {
		return "", fmt.Errorf("failed to write statement: %w", err)
	}

	for i, s := range p.Samples {
		base := filepath.Join(dir, samplePrefix+strconv.Itoa(i+1))
		if err := os.WriteFile(base+inputExt, []byte(s.Input), 0o644); err != nil {
			return "", fmt.Errorf("failed to write sample %d: %w", i+1, err)
		}
		if err := os.WriteFile(base+answerExt, []byte(s.Output), 0o644); err != nil {
			return "", fmt.Errorf("failed to write sample %d: %w", i+1, err)
		}
	}
	log.WithFields(log.Fields{"dir": dir, "samples": len(p.Samples)}).Debug("wrote problem")
	return dir, nil
}

// WriteHint stores hint next to the statement.
func (w *Workspace) WriteHint(id string, hint *extract.Hint) error {
	content := fmt.Sprintf("Type: %s\nHint: %s\n", hint.Type, hint.Text)
	return os.WriteFile(filepath.Join(w.Dir(id), hintFile), []byte(content), 0o644)
}

func removeSamples(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", dir, err)
	}
	var errs []error
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, samplePrefix) {
			continue
		}
		if ext := filepath.Ext(name); ext != inputExt && ext != answerExt {
			continue
		}
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			errs = append(errs, fmt.Errorf("failed to remove stale %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// Samples lists the sample pairs in dir, ordered by number. An input
// without an answer is skipped.
func Samples(dir string) ([]SampleCase, error) {
	inputs, err := filepath.Glob(filepath.Join(dir, samplePrefix+"*"+inputExt))
	if err != nil {
		return nil, err
	}

	var cases []SampleCase
	for _, in := range inputs {
		stem := strings.TrimSuffix(in, inputExt)
		ans := stem + answerExt
		if _, err := os.Stat(ans); err != nil {
			log.WithField("input", in).Warn("sample input has no answer file, skipping")
			continue
		}
		cases = append(cases, SampleCase{
			Name:       strings.TrimPrefix(filepath.Base(stem), samplePrefix),
			InputPath:  in,
			AnswerPath: ans,
		})
	}
	sort.Slice(cases, func(i, j int) bool {
		a, aErr := strconv.Atoi(cases[i].Name)
		b, bErr := strconv.Atoi(cases[j].Name)
		if aErr == nil && bErr == nil {
			return a < b
		}
		return cases[i].Name < cases[j].Name
	})
	return cases, nil
}

// Locate finds the directory holding the samples for a solution. An
// explicit problem id wins; otherwise the solution's own directory is used
// if it has samples, then <root>/<stem of solution>.
func (w *Workspace) Locate(problemID, solution string) (string, error) {
	var candidates []string
	if problemID != "" {
		candidates = append(candidates, w.Dir(problemID))
	} else {
		candidates = append(candidates, filepath.Dir(solution))
		stem := strings.TrimSuffix(filepath.Base(solution), filepath.Ext(solution))
		candidates = append(candidates, w.Dir(strings.ToLower(stem)))
	}

	for _, dir := range candidates {
		if hasSamples(dir) {
			return dir, nil
		}
	}
	return "", fmt.Errorf("%w, no samples in %s", kgerrors.ErrNotFound, strings.Join(candidates, " or "))
}

func hasSamples(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, samplePrefix+"1"+inputExt))
	return err == nil
}

func validID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("%w, '%s' is not a problem id", kgerrors.ErrValidation, id)
	}
	return nil
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
