package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
)

// CreateDefault writes a default configuration to path. An existing file is
// never touched; created reports whether a file was written.
func CreateDefault(path string) (created bool, err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			log.WithField("path", path).Debug("config already exists, leaving it alone")
			return false, nil
		}
		return false, fmt.Errorf("failed to create config file: %w", err)
	}

	_, writeErr := f.WriteString(DefaultContents())
	closeErr := f.Close()
	if err := errors.Join(writeErr, closeErr); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}
	return true, nil
}

// DefaultContents is the text of a freshly initialised .kattisrc.
func DefaultContents() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[user]\n")
	fmt.Fprintf(&b, "username = %s\n", placeholderUsername)
	fmt.Fprintf(&b, "token = %s\n\n", placeholderToken)

	fmt.Fprintf(&b, "[kattis]\n")
	fmt.Fprintf(&b, "hostname = %s\n", DefaultHostname)
	fmt.Fprintf(&b, "loginurl = %s\n", DefaultLoginURL)
	fmt.Fprintf(&b, "submissionurl = %s\n\n", DefaultSubmissionURL)

	fmt.Fprintf(&b, "[settings]\n")
	fmt.Fprintf(&b, "languages = %s\n", strings.Join(DefaultLanguages, ", "))
	fmt.Fprintf(&b, "difficulty = %s\n", formatDifficulty(DefaultMinDifficulty, DefaultMaxDifficulty))
	fmt.Fprintf(&b, "problems_directory = %s\n", DefaultProblemsDirectory)
	fmt.Fprintf(&b, "include_hints = false\n")
	fmt.Fprintf(&b, "scraper_timeout = %s\n", seconds(DefaultScraperTimeout))
	fmt.Fprintf(&b, "poll_interval = %s\n", seconds(DefaultPollInterval))
	fmt.Fprintf(&b, "max_polls = %d\n", DefaultMaxPolls)
	fmt.Fprintf(&b, "test_timeout = %s\n\n", seconds(DefaultTestTimeout))

	fmt.Fprintf(&b, "[templates]\n")
	fmt.Fprintf(&b, "; cpp = ~/templates/template.cpp\n")
	fmt.Fprintf(&b, "; python = ~/templates/template.py\n")
	return b.String()
}
