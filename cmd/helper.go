package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/chrismacdonaldw/kattis-grind/internal/config"
	"github.com/chrismacdonaldw/kattis-grind/internal/kgerrors"
	"github.com/chrismacdonaldw/kattis-grind/internal/seen"
	"github.com/chrismacdonaldw/kattis-grind/internal/workspace"
)

var (
	green = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	red   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	gray  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	cyan  = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
)

// isReported is true for errors whose details the renderer already printed.
func isReported(err error) bool {
	return errors.Is(err, kgerrors.ErrSamplesFailed) || errors.Is(err, kgerrors.ErrRejected)
}

func loadConfig() (*config.Config, error) {
	return config.Load()
}

func workspaceFor(cfg *config.Config) *workspace.Workspace {
	return workspace.New(cfg.Settings.ProblemsDirectory)
}

func openSeen() (*seen.Store, error) {
	path, err := config.SeenPath()
	if err != nil {
		return nil, err
	}
	return seen.Open(path)
}

// relative shortens path for display when it lies under the working
// directory.
func relative(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	if rel, err := filepath.Rel(wd, abs); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}
