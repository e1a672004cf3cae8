// Package submission works out what to send to the judge from the files on
// the command line.
package submission

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/chrismacdonaldw/kattis-grind/client"
	"github.com/chrismacdonaldw/kattis-grind/internal/kgerrors"
	"github.com/chrismacdonaldw/kattis-grind/internal/language"
	"github.com/chrismacdonaldw/kattis-grind/internal/workspace"
)

type Submission struct {
	Problem   string
	Language  *language.Language
	MainClass string
	Files     []string
}

// Options are explicit overrides from the command line. Empty fields are
// guessed from the files.
type Options struct {
	Problem   string
	Language  string
	MainClass string
	Catalog   *language.Catalog
}

// Prepare validates files and fills in problem, language and main class.
// It never touches the network, so bad input fails before anything is sent.
func Prepare(files []string, opts Options) (*Submission, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w, no files to submit", kgerrors.ErrValidation)
	}
	catalog := opts.Catalog
	if catalog == nil {
		catalog = language.Default()
	}

	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			return nil, fmt.Errorf("%w, cannot read %s: %v", kgerrors.ErrValidation, f, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%w, %s is a directory", kgerrors.ErrValidation, f)
		}
	}

	s := &Submission{Files: files, Problem: strings.TrimSpace(opts.Problem)}
	if s.Problem == "" {
		base := filepath.Base(files[0])
		s.Problem = strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
	}

	if opts.Language != "" {
		lang, ok := catalog.Lookup(opts.Language)
		if !ok {
			return nil, fmt.Errorf("%w, unknown language '%s'", kgerrors.ErrValidation, opts.Language)
		}
		s.Language = lang
	} else {
		lang, ok := catalog.GuessFromFiles(files)
		if !ok {
			return nil, fmt.Errorf("%w, cannot tell the language of %s", kgerrors.ErrValidation, strings.Join(files, ", "))
		}
		s.Language = lang
	}

	s.MainClass = opts.MainClass
	if s.MainClass == "" {
		s.MainClass = s.Language.GuessMainClass(files)
	}
	if s.Language.NeedsMainClass && s.MainClass == "" {
		return nil, fmt.Errorf("%w, %s needs a main class", kgerrors.ErrValidation, s.Language.Name)
	}
	return s, nil
}

// Request is the upload the judge expects for s.
func (s *Submission) Request() client.SubmitRequest {
	return client.SubmitRequest{
		Problem:   s.Problem,
		Language:  s.Language.Name,
		MainClass: s.MainClass,
		Files:     s.Files,
	}
}

// ResolveArgs turns the submit arguments into files. A single argument that
// is not a file is taken as a problem id, and the solution files in that
// problem's directory are used instead; problem is then that id.
func ResolveArgs(args []string, ws *workspace.Workspace, langs []string, catalog *language.Catalog) (files []string, problem string, err error) {
	if len(args) != 1 {
		return args, "", nil
	}
	if _, err := os.Stat(args[0]); !errors.Is(err, fs.ErrNotExist) {
		return args, "", nil
	}
	id := args[0]
	if filepath.Ext(id) != "" || strings.ContainsAny(id, `/\`) {
		return args, "", nil
	}

	files, err = ws.SolutionFiles(id, langs, catalog)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", fmt.Errorf("%w, '%s' is neither a file nor a fetched problem", kgerrors.ErrNotFound, id)
		}
		return nil, "", err
	}
	if len(files) == 0 {
		return nil, "", fmt.Errorf("%w, no solution files in %s", kgerrors.ErrNotFound, ws.Dir(id))
	}
	return files, id, nil
}
