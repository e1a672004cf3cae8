package language

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

//go:embed languages.toml
var catalogTOML []byte

// Language describes how Kattis names a language and how to build and run
// it locally.
type Language struct {
	Name                string   `toml:"name"`
	Aliases             []string `toml:"aliases"`
	Extensions          []string `toml:"extensions"`
	NeedsMainClass      bool     `toml:"needs_mainclass"`
	NeedsMainFile       bool     `toml:"needs_mainfile"`
	MainClassSuffix     string   `toml:"mainclass_suffix"`
	CapitalizeMainClass bool     `toml:"capitalize_mainclass"`
	Executable          bool     `toml:"executable"`
	MainPatterns        []string `toml:"main_patterns"`
	Compile             []string `toml:"compile"`
	Run                 []string `toml:"run"`

	mainRegexps []*regexp.Regexp
}

// Vars fills the placeholders of Compile and Run.
type Vars struct {
	Files     []string
	Main      string
	BuildDir  string
	Binary    string
	MainClass string
}

type Catalog struct {
	languages []*Language
	byExt     map[string]*Language
	byName    map[string]*Language
}

type catalogFile struct {
	Languages []*Language `toml:"language"`
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the catalog embedded in the binary.
func Default() *Catalog {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Parse(catalogTOML)
	})
	if defaultErr != nil {
		panic(fmt.Sprintf("embedded language catalog is invalid: %v", defaultErr))
	}
	return defaultCatalog
}

// Parse builds a catalog from TOML with one [[language]] table per entry.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal language catalog: %w", err)
	}

	c := &Catalog{
		byExt:  make(map[string]*Language),
		byName: make(map[string]*Language),
	}
	for _, lang := range file.Languages {
		if lang.Name == "" {
			return nil, fmt.Errorf("language entry without a name")
		}
		for _, pattern := range lang.MainPatterns {
			re, err := regexp.Compile(pattern)
			if err != nil {
				return nil, fmt.Errorf("language %s: bad main pattern %q: %w", lang.Name, pattern, err)
			}
			lang.mainRegexps = append(lang.mainRegexps, re)
		}
		for _, ext := range lang.Extensions {
			c.byExt[strings.ToLower(ext)] = lang
		}
		c.byName[strings.ToLower(lang.Name)] = lang
		for _, alias := range lang.Aliases {
			c.byName[strings.ToLower(alias)] = lang
		}
		c.languages = append(c.languages, lang)
	}
	return c, nil
}

func (c *Catalog) All() []*Language {
	return c.languages
}

// Lookup finds a language by its Kattis name or one of its aliases,
// ignoring case.
func (c *Catalog) Lookup(name string) (*Language, bool) {
	lang, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	return lang, ok
}

// ByExtension maps a file path to its language. Header files map to nothing.
func (c *Catalog) ByExtension(path string) (*Language, bool) {
	ext := filepath.Ext(path)
	if ext == ".C" {
		return c.Lookup("C++")
	}
	ext = strings.ToLower(ext)
	if ext == "" || ext == ".h" {
		return nil, false
	}
	lang, ok := c.byExt[ext]
	return lang, ok
}

// GuessFromFiles picks the language whose extension is most common among
// files. Ties go to the language seen first.
func (c *Catalog) GuessFromFiles(files []string) (*Language, bool) {
	counts := make(map[*Language]int)
	var order []*Language
	for _, f := range files {
		lang, ok := c.ByExtension(f)
		if !ok {
			continue
		}
		if counts[lang] == 0 {
			order = append(order, lang)
		}
		counts[lang]++
	}

	var best *Language
	for _, lang := range order {
		if best == nil || counts[lang] > counts[best] {
			best = lang
		}
	}
	return best, best != nil
}

func (l *Language) String() string {
	return l.Name
}

// PrimaryExtension is the extension used for generated boilerplate.
func (l *Language) PrimaryExtension() string {
	if len(l.Extensions) == 0 {
		return ""
	}
	return l.Extensions[0]
}

func (l *Language) Compiled() bool {
	return len(l.Compile) > 0
}

func (l *Language) Runnable() bool {
	return len(l.Run) > 0
}

// MainFile returns the file that holds the entry point, falling back to the
// first file when no main pattern matches.
func (l *Language) MainFile(files []string) string {
	if len(files) == 0 {
		return ""
	}
	if len(files) == 1 || len(l.mainRegexps) == 0 {
		return files[0]
	}
	for _, f := range files {
		content, err := os.ReadFile(f)
		if err != nil {
			continue
		}
		for _, re := range l.mainRegexps {
			if re.Match(content) {
				return f
			}
		}
	}
	return files[0]
}

// GuessMainClass returns what Kattis expects in the mainclass field: the
// class name for JVM/.NET style languages, the main file name for
// interpreted ones and "" otherwise.
func (l *Language) GuessMainClass(files []string) string {
	main := l.MainFile(files)
	if main == "" {
		return ""
	}
	base := filepath.Base(main)
	switch {
	case l.NeedsMainClass:
		class := strings.TrimSuffix(base, filepath.Ext(base))
		if l.CapitalizeMainClass && class != "" {
			class = strings.ToUpper(class[:1]) + class[1:]
		}
		return class + l.MainClassSuffix
	case l.NeedsMainFile:
		return base
	default:
		return ""
	}
}

// Expand substitutes placeholders in an argv template.
func Expand(argv []string, v Vars) []string {
	out := make([]string, 0, len(argv)+len(v.Files))
	r := strings.NewReplacer(
		"{main}", v.Main,
		"{build}", v.BuildDir,
		"{bin}", v.Binary,
		"{mainclass}", v.MainClass,
	)
	for _, arg := range argv {
		if arg == "{files}" {
			out = append(out, v.Files...)
			continue
		}
		out = append(out, r.Replace(arg))
	}
	return out
}
