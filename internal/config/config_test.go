package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chrismacdonaldw/kattis-grind/internal/config"
	"github.com/chrismacdonaldw/kattis-grind/internal/kgerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), config.FileName)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[user]
username = alice
token = abc123

[kattis]
hostname = open.kattis.com
loginurl = https://open.kattis.com/login
submissionurl = https://open.kattis.com/submit

[settings]
languages = cpp, python , java
difficulty = 2.0 - 4.5
problems_directory = /tmp/problems
include_hints = yes
test_timeout = 2.5

[templates]
cpp = /tmp/template.cpp
`)

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, "alice", cfg.User.Username)
	assert.Equal(t, "abc123", cfg.User.Token)
	assert.Equal(t, "https://open.kattis.com", cfg.Kattis.BaseURL())
	assert.Equal(t, []string{"cpp", "python", "java"}, cfg.Settings.Languages)
	assert.Equal(t, 2.0, cfg.Settings.MinDifficulty)
	assert.Equal(t, 4.5, cfg.Settings.MaxDifficulty)
	assert.Equal(t, "/tmp/problems", cfg.Settings.ProblemsDirectory)
	assert.True(t, cfg.Settings.IncludeHints)
	assert.Equal(t, 2500*time.Millisecond, cfg.Settings.TestTimeout)
	assert.Equal(t, config.DefaultMaxPolls, cfg.Settings.MaxPolls)
	assert.Equal(t, map[string]string{"cpp": "/tmp/template.cpp"}, cfg.Templates)
}

func TestLoadFileDefaults(t *testing.T) {
	path := writeConfig(t, "[user]\nusername = bob\ntoken = t\n")

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, config.DefaultHostname, cfg.Kattis.Hostname)
	assert.Equal(t, config.DefaultLoginURL, cfg.Kattis.LoginURL)
	assert.Equal(t, config.DefaultLanguages, cfg.Settings.Languages)
	assert.Equal(t, config.DefaultMinDifficulty, cfg.Settings.MinDifficulty)
	assert.Equal(t, config.DefaultMaxDifficulty, cfg.Settings.MaxDifficulty)
	assert.Equal(t, config.DefaultTestTimeout, cfg.Settings.TestTimeout)
	assert.False(t, cfg.Settings.IncludeHints)
	assert.Empty(t, cfg.Templates)
}

func TestLoadFileHomeExpansion(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	path := writeConfig(t, "[settings]\nproblems_directory = ~/kattis\n")
	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "kattis"), cfg.Settings.ProblemsDirectory)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := config.LoadFile(filepath.Join(t.TempDir(), config.FileName))
	require.ErrorIs(t, err, kgerrors.ErrConfigMissing)
}

func TestLoadFileMalformed(t *testing.T) {
	for name, contents := range map[string]string{
		"difficulty": "[settings]\ndifficulty = easy\n",
		"boolean":    "[settings]\ninclude_hints = maybe\n",
		"max polls":  "[settings]\nmax_polls = many\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := config.LoadFile(writeConfig(t, contents))
			require.ErrorIs(t, err, kgerrors.ErrConfigParse)
		})
	}
}

func TestLoadSearchesKattisGrindHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	_, err := config.Load()
	require.ErrorIs(t, err, kgerrors.ErrConfigMissing)

	created, err := config.CreateDefault(filepath.Join(home, config.FileName))
	require.NoError(t, err)
	require.True(t, created)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, config.FileName), cfg.Path)
}

func TestCreateDefaultNeverOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", config.FileName)

	created, err := config.CreateDefault(path)
	require.NoError(t, err)
	assert.True(t, created)

	edited := "[user]\nusername = carol\ntoken = secret\n"
	require.NoError(t, os.WriteFile(path, []byte(edited), 0o600))

	created, err = config.CreateDefault(path)
	require.NoError(t, err)
	assert.False(t, created)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, edited, string(got))
}

func TestDefaultContentsLoads(t *testing.T) {
	cfg, err := config.LoadFile(writeConfig(t, config.DefaultContents()))
	require.NoError(t, err)

	issues := cfg.Validate()
	assert.Contains(t, issues, "username not configured")
	assert.Contains(t, issues, "token not configured")
	assert.Len(t, issues, 2)
}

func TestValidate(t *testing.T) {
	cfg, err := config.LoadFile(writeConfig(t, `
[user]
username = dave
token = x
[kattis]
loginurl = not a url
[settings]
difficulty = 5-2
[templates]
cpp = /definitely/not/here.cpp
`))
	require.NoError(t, err)

	issues := cfg.Validate()
	assert.Contains(t, issues, "invalid login URL")
	assert.Contains(t, issues, "invalid difficulty range")
	assert.Contains(t, issues, "template for cpp not found at /definitely/not/here.cpp")
}

func TestParseDifficulty(t *testing.T) {
	lo, hi, err := config.ParseDifficulty("1.5-3")
	require.NoError(t, err)
	assert.Equal(t, 1.5, lo)
	assert.Equal(t, 3.0, hi)

	_, _, err = config.ParseDifficulty("3")
	require.Error(t, err)
}

func TestCheckCredentials(t *testing.T) {
	cfg, err := config.LoadFile(writeConfig(t, config.DefaultContents()))
	require.NoError(t, err)
	err = cfg.CheckCredentials()
	require.ErrorIs(t, err, kgerrors.ErrConfigParse)
	assert.Contains(t, err.Error(), "username not configured")

	cfg.User = config.UserConfig{Username: "alice", Token: "secret"}
	require.NoError(t, cfg.CheckCredentials())
}
