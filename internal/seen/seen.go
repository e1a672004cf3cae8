// Package seen persists the set of problem ids already handed out, one id
// per line.
package seen

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	log "github.com/sirupsen/logrus"
)

const (
	lockTimeout = 5 * time.Second
	lockRetry   = 50 * time.Millisecond
)

type Store struct {
	path  string
	ids   map[string]struct{}
	order []string
}

// Open reads the seen file at path. A missing file is an empty set; it is
// created on the first Add.
func Open(path string) (*Store, error) {
	s := &Store{path: path, ids: make(map[string]struct{})}
	if err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

func (s *Store) Len() int {
	return len(s.order)
}

// IDs returns the ids in the order they were recorded.
func (s *Store) IDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Add records id and appends it to the file immediately. Ids already present,
// including ones written by another process since Open, are not written
// again; added reports whether the file changed.
func (s *Store) Add(ctx context.Context, id string) (added bool, err error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return false, fmt.Errorf("empty problem id")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return false, fmt.Errorf("failed to create seen directory: %w", err)
	}

	lock := flock.New(s.path + ".lock")
	lockCtx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()
	locked, err := lock.TryLockContext(lockCtx, lockRetry)
	if err != nil || !locked {
		return false, fmt.Errorf("failed to lock %s: %w", s.path, err)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			log.WithError(err).Warn("failed to release seen lock")
		}
	}()

	if err := s.reload(); err != nil {
		return false, err
	}
	if s.Contains(id) {
		return false, nil
	}

	if err := s.appendLine(id); err != nil {
		return false, err
	}
	s.record(id)
	log.WithField("id", id).Debug("marked problem as seen")
	return true, nil
}

func (s *Store) appendLine(id string) error {
	f, err := os.OpenFile(s.path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open seen file: %w", err)
	}
	defer f.Close()

	line := id + "\n"
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat seen file: %w", err)
	}
	if info.Size() > 0 {
		last := make([]byte, 1)
		if _, err := f.ReadAt(last, info.Size()-1); err != nil {
			return fmt.Errorf("failed to read seen file: %w", err)
		}
		// hand-edited files may lack the final newline
		if last[0] != '\n' {
			line = "\n" + line
		}
	}

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("failed to append to seen file: %w", err)
	}
	return f.Sync()
}

func (s *Store) reload() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read seen file: %w", err)
	}

	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		if id := strings.TrimSpace(sc.Text()); id != "" {
			s.record(id)
		}
	}
	return sc.Err()
}

func (s *Store) record(id string) {
	if _, ok := s.ids[id]; ok {
		return
	}
	s.ids[id] = struct{}{}
	s.order = append(s.order, id)
}
