package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/chrismacdonaldw/kattis-grind/internal/kgerrors"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvHome relocates the configuration directory.
const EnvHome = "KATTIS_GRIND_HOME"

const (
	FileName     = ".kattisrc"
	SeenFileName = "seen.txt"
	dirName      = ".kattis-grind"
)

const (
	DefaultHostname          = "open.kattis.com"
	DefaultLoginURL          = "https://" + DefaultHostname + "/login"
	DefaultSubmissionURL     = "https://" + DefaultHostname + "/submit"
	DefaultProblemsDirectory = "kattis_problems"
	DefaultMinDifficulty     = 1.5
	DefaultMaxDifficulty     = 3.0
	DefaultScraperTimeout    = 10 * time.Second
	DefaultPollInterval      = time.Second
	DefaultMaxPolls          = 120
	DefaultTestTimeout       = 5 * time.Second

	placeholderUsername = "YOUR_USERNAME_HERE"
	placeholderToken    = "YOUR_TOKEN_HERE"
)

var DefaultLanguages = []string{"cpp", "python"}

type UserConfig struct {
	Username string `validate:"required,ne=YOUR_USERNAME_HERE"`
	Token    string `validate:"required,ne=YOUR_TOKEN_HERE"`
}

type KattisConfig struct {
	Hostname      string `validate:"required,hostname"`
	LoginURL      string `validate:"required,http_url"`
	SubmissionURL string `validate:"required,http_url"`
}

// BaseURL is the scheme and host every judge page lives under.
func (k KattisConfig) BaseURL() string {
	if strings.HasPrefix(k.Hostname, "http://") || strings.HasPrefix(k.Hostname, "https://") {
		return strings.TrimRight(k.Hostname, "/")
	}
	return "https://" + k.Hostname
}

type Settings struct {
	Languages         []string `validate:"min=1,dive,required"`
	MinDifficulty     float64  `validate:"gte=0,ltefield=MaxDifficulty"`
	MaxDifficulty     float64  `validate:"lte=10"`
	ProblemsDirectory string   `validate:"required"`
	IncludeHints      bool
	ScraperTimeout    time.Duration `validate:"gt=0"`
	PollInterval      time.Duration `validate:"gt=0"`
	MaxPolls          int           `validate:"gt=0"`
	TestTimeout       time.Duration `validate:"gt=0"`
}

type Config struct {
	// Path is the file the configuration was read from.
	Path      string
	User      UserConfig
	Kattis    KattisConfig
	Settings  Settings
	Templates map[string]string
}

// Init loads a .env file from the working directory, if present, so
// KATTIS_GRIND_HOME can be set per project.
func Init() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.WithError(err).Warn("could not load .env")
	}
}

// Dir returns the kattis-grind home: $KATTIS_GRIND_HOME or ~/.kattis-grind.
func Dir() (string, error) {
	if custom := os.Getenv(EnvHome); custom != "" {
		return expandHome(custom)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// DefaultPath is where 'config init' writes the file.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// SeenPath is the location of the seen-set file.
func SeenPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, SeenFileName), nil
}

// SearchPaths lists the candidate config files in priority order.
func SearchPaths() []string {
	var paths []string
	if custom := os.Getenv(EnvHome); custom != "" {
		if dir, err := expandHome(custom); err == nil {
			paths = append(paths, filepath.Join(dir, FileName))
		}
	}
	home, err := os.UserHomeDir()
	if err == nil {
		paths = append(paths, filepath.Join(home, FileName))
	}
	paths = append(paths, FileName, filepath.Join("..", FileName))
	if err == nil {
		paths = append(paths, filepath.Join(home, dirName, FileName))
	}
	return paths
}

// Find returns the first existing config file from SearchPaths.
func Find() (string, error) {
	paths := SearchPaths()
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w, searched %s", kgerrors.ErrConfigMissing, strings.Join(paths, ", "))
}

// Load finds and reads the configuration file.
func Load() (*Config, error) {
	path, err := Find()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads a .kattisrc style INI file. Missing keys fall back to
// defaults.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("ini")
	setDefaults(v)

	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w, %s", kgerrors.ErrConfigMissing, path)
		}
		return nil, fmt.Errorf("%w, %s: %v", kgerrors.ErrConfigParse, path, err)
	}

	cfg := &Config{
		Path: path,
		User: UserConfig{
			Username: v.GetString("user.username"),
			Token:    v.GetString("user.token"),
		},
		Kattis: KattisConfig{
			Hostname:      v.GetString("kattis.hostname"),
			LoginURL:      v.GetString("kattis.loginurl"),
			SubmissionURL: v.GetString("kattis.submissionurl"),
		},
		Templates: make(map[string]string),
	}

	if cfg.Settings, err = parseSettings(v); err != nil {
		return nil, fmt.Errorf("%w, %s: %v", kgerrors.ErrConfigParse, path, err)
	}

	for lang, tmpl := range v.GetStringMapString("templates") {
		expanded, err := expandHome(strings.TrimSpace(tmpl))
		if err != nil {
			return nil, err
		}
		cfg.Templates[strings.ToLower(lang)] = expanded
	}

	log.WithField("path", path).Debug("loaded configuration")
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("kattis.hostname", DefaultHostname)
	v.SetDefault("kattis.loginurl", DefaultLoginURL)
	v.SetDefault("kattis.submissionurl", DefaultSubmissionURL)
	v.SetDefault("settings.languages", strings.Join(DefaultLanguages, ", "))
	v.SetDefault("settings.difficulty", formatDifficulty(DefaultMinDifficulty, DefaultMaxDifficulty))
	v.SetDefault("settings.problems_directory", DefaultProblemsDirectory)
	v.SetDefault("settings.include_hints", "false")
	v.SetDefault("settings.scraper_timeout", seconds(DefaultScraperTimeout))
	v.SetDefault("settings.poll_interval", seconds(DefaultPollInterval))
	v.SetDefault("settings.max_polls", strconv.Itoa(DefaultMaxPolls))
	v.SetDefault("settings.test_timeout", seconds(DefaultTestTimeout))
}

func parseSettings(v *viper.Viper) (Settings, error) {
	var s Settings
	var err error

	for _, lang := range strings.Split(v.GetString("settings.languages"), ",") {
		if lang = strings.TrimSpace(lang); lang != "" {
			s.Languages = append(s.Languages, lang)
		}
	}

	s.MinDifficulty, s.MaxDifficulty, err = ParseDifficulty(v.GetString("settings.difficulty"))
	if err != nil {
		return s, err
	}

	s.ProblemsDirectory, err = expandHome(v.GetString("settings.problems_directory"))
	if err != nil {
		return s, err
	}

	s.IncludeHints, err = parseBool(v.GetString("settings.include_hints"))
	if err != nil {
		return s, fmt.Errorf("include_hints: %w", err)
	}

	if s.ScraperTimeout, err = parseSeconds(v, "settings.scraper_timeout"); err != nil {
		return s, err
	}
	if s.PollInterval, err = parseSeconds(v, "settings.poll_interval"); err != nil {
		return s, err
	}
	if s.TestTimeout, err = parseSeconds(v, "settings.test_timeout"); err != nil {
		return s, err
	}

	s.MaxPolls, err = strconv.Atoi(strings.TrimSpace(v.GetString("settings.max_polls")))
	if err != nil {
		return s, fmt.Errorf("max_polls: %w", err)
	}
	return s, nil
}

// ParseDifficulty parses a band written as "min-max".
func ParseDifficulty(s string) (float64, float64, error) {
	rawLo, rawHi, ok := strings.Cut(s, "-")
	if !ok {
		return 0, 0, fmt.Errorf("difficulty %q: expected min-max", s)
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(rawLo), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("difficulty %q: %w", s, err)
	}
	hi, err := strconv.ParseFloat(strings.TrimSpace(rawHi), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("difficulty %q: %w", s, err)
	}
	return lo, hi, nil
}

func parseSeconds(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	secs, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return time.Duration(secs * float64(time.Second)), nil
}

func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}

func formatDifficulty(lo, hi float64) string {
	return strconv.FormatFloat(lo, 'f', -1, 64) + "-" + strconv.FormatFloat(hi, 'f', -1, 64)
}

// parseBool accepts the spellings configparser does.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "yes", "true", "on":
		return true, nil
	case "0", "no", "false", "off", "":
		return false, nil
	}
	return false, fmt.Errorf("%q is not a boolean", s)
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
