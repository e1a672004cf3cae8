package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chrismacdonaldw/kattis-grind/internal/language"
	log "github.com/sirupsen/logrus"
)

const problemIDPlaceholder = "{{problem_id}}"

// RenderTemplate substitutes the problem id into a boilerplate template.
// Nothing else in the template is interpreted.
func RenderTemplate(template, id string) string {
	return strings.ReplaceAll(template, problemIDPlaceholder, id)
}

// WriteBoilerplate writes <id><ext> for every language in langs that has a
// template. Python gets a bare shebang when no template is configured.
// Existing files are never overwritten; written lists the files created.
func (w *Workspace) WriteBoilerplate(id string, langs []string, templates map[string]string, catalog *language.Catalog) (written []string, err error) {
	dir := w.Dir(id)
	var errs []error
	for _, name := range langs {
		lang, ok := catalog.Lookup(name)
		if !ok {
			log.WithField("language", name).Warn("unknown language in settings, no boilerplate written")
			continue
		}

		content, ok, err := templateFor(name, lang, templates)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !ok {
			continue
		}

		dest := filepath.Join(dir, id+lang.PrimaryExtension())
		present, err := exists(dest)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if present {
			log.WithField("file", dest).Debug("solution file exists, keeping it")
			continue
		}

		mode := os.FileMode(0o644)
		if lang.Executable {
			mode = 0o755
		}
		if err := os.WriteFile(dest, []byte(RenderTemplate(content, id)), mode); err != nil {
			errs = append(errs, fmt.Errorf("failed to write %s: %w", dest, err))
			continue
		}
		// WriteFile leaves the mode to the umask
		if lang.Executable {
			if err := os.Chmod(dest, mode); err != nil {
				errs = append(errs, err)
			}
		}
		written = append(written, dest)
	}
	return written, errors.Join(errs...)
}

func templateFor(name string, lang *language.Language, templates map[string]string) (string, bool, error) {
	path := templates[strings.ToLower(name)]
	if path == "" {
		for _, alias := range append([]string{lang.Name}, lang.Aliases...) {
			if p := templates[strings.ToLower(alias)]; p != "" {
				path = p
				break
			}
		}
	}
	if path == "" {
		if lang.Name == "Python 3" {
			return "#!/usr/bin/env python3\n", true, nil
		}
		return "", false, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s template: %w", lang.Name, err)
	}
	return string(data), true, nil
}

// SolutionFiles finds the solution files in the directory of id, preferring
// the languages in langs in order. Statement, samples and hints are ignored.
func (w *Workspace) SolutionFiles(id string, langs []string, catalog *language.Catalog) ([]string, error) {
	dir := w.Dir(id)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	byLang := make(map[*language.Language][]string)
	var order []*language.Language
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		lang, ok := catalog.ByExtension(e.Name())
		if !ok {
			continue
		}
		if len(byLang[lang]) == 0 {
			order = append(order, lang)
		}
		byLang[lang] = append(byLang[lang], filepath.Join(dir, e.Name()))
	}

	for _, name := range langs {
		if lang, ok := catalog.Lookup(name); ok && len(byLang[lang]) > 0 {
			return byLang[lang], nil
		}
	}
	if len(order) > 0 {
		return byLang[order[0]], nil
	}
	return nil, nil
}
