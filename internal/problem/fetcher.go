// Package problem fetches a problem from the judge into the local
// workspace.
package problem

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/chrismacdonaldw/kattis-grind/internal/extract"
	"github.com/chrismacdonaldw/kattis-grind/internal/kgerrors"
	"github.com/chrismacdonaldw/kattis-grind/internal/language"
	"github.com/chrismacdonaldw/kattis-grind/internal/workspace"
	log "github.com/sirupsen/logrus"
)

// Source is where statements, sample bundles and hints come from.
type Source interface {
	Problem(ctx context.Context, id string) (*extract.Problem, error)
	SampleBundle(ctx context.Context, id string) ([]extract.Sample, error)
	Hint(ctx context.Context, id string) (*extract.Hint, bool, error)
}

// Recorder marks problems as seen.
type Recorder interface {
	Add(ctx context.Context, id string) (bool, error)
}

type Fetcher struct {
	Source    Source
	Workspace *workspace.Workspace
	Seen      Recorder
	Catalog   *language.Catalog
	// Languages get boilerplate from Templates.
	Languages    []string
	Templates    map[string]string
	IncludeHints bool
}

type Result struct {
	ID            string
	Title         string
	Dir           string
	StatementPath string
	Samples       int
	// FromBundle is true when samples came from samples.zip rather than the
	// statement page.
	FromBundle  bool
	Boilerplate []string
	Hint        *extract.Hint
}

// Fetch downloads problem id and writes it under the workspace. Only the
// statement is required; sample bundle, boilerplate, hints and the seen
// record are best effort and only logged when they fail.
func (f *Fetcher) Fetch(ctx context.Context, id string) (*Result, error) {
	p, err := f.Source.Problem(ctx, id)
	if err != nil {
		return nil, err
	}

	res := &Result{ID: id, Title: p.Title}
	if samples, err := f.Source.SampleBundle(ctx, id); err == nil && len(samples) > 0 {
		p.Samples = samples
		res.FromBundle = true
	} else if err != nil {
		entry := log.WithError(err).WithField("id", id)
		if errors.Is(err, kgerrors.ErrNotFound) {
			entry.Debug("no sample bundle, using samples from the statement")
		} else {
			entry.Warn("could not read sample bundle, using samples from the statement")
		}
	}
	res.Samples = len(p.Samples)

	dir, err := f.Workspace.WriteProblem(p)
	if err != nil {
		return nil, err
	}
	res.Dir = dir
	res.StatementPath = filepath.Join(dir, id+".html")

	if f.Catalog != nil {
		written, err := f.Workspace.WriteBoilerplate(id, f.Languages, f.Templates, f.Catalog)
		if err != nil {
			log.WithError(err).Warn("some boilerplate could not be written")
		}
		res.Boilerplate = written
	}

	if f.IncludeHints {
		res.Hint = f.hint(ctx, id)
	}

	if f.Seen != nil {
		if _, err := f.Seen.Add(ctx, id); err != nil {
			log.WithError(err).Warn("could not record problem as seen")
		}
	}
	return res, nil
}

func (f *Fetcher) hint(ctx context.Context, id string) *extract.Hint {
	hint, ok, err := f.Source.Hint(ctx, id)
	if err != nil {
		log.WithError(err).Warn("could not fetch hint")
		return nil
	}
	if !ok {
		log.WithField("id", id).Info("no hint available")
		return nil
	}
	if err := f.Workspace.WriteHint(id, hint); err != nil {
		log.WithError(err).Warn("could not write hint")
	}
	return hint
}
