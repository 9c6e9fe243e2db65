// Package filesystem stores model transcripts as <model>_output.txt files
// in a directory and watches that directory for new or changed transcripts.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/leadbench/internal/core/domain"
	"github.com/custodia-labs/leadbench/internal/core/ports/driven"
	"github.com/custodia-labs/leadbench/internal/logger"
)

// Ensure Store implements the interfaces.
var (
	_ driven.TranscriptStore   = (*Store)(nil)
	_ driven.TranscriptWatcher = (*Store)(nil)
)

// Suffix is the file name suffix that marks a transcript.
const Suffix = "_output.txt"

// Store is a directory of transcript files.
type Store struct {
	dir string

	mu       sync.Mutex
	watchers []*fsnotify.Watcher
	closed   bool
}

// New creates a store over dir. The directory is created on first Write.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the transcript directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file path for a model's transcript.
func (s *Store) Path(modelID string) string {
	return filepath.Join(s.dir, modelID+Suffix)
}

// List returns the model ids with a transcript, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("transcript directory %s: %w", s.dir, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("list transcripts: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if id, ok := ModelID(e.Name()); ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// Read returns the transcript for modelID.
func (s *Store) Read(ctx context.Context, modelID string) (*domain.Transcript, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := s.Path(modelID)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("transcript %s: %w", modelID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrTranscriptRead, modelID, err)
	}

	t := &domain.Transcript{ModelID: modelID, Text: string(data), Path: path}
	if info, err := os.Stat(path); err == nil {
		t.CapturedAt = info.ModTime()
	}
	return t, nil
}

// Write stores t as <dir>/<model>_output.txt and sets t.Path.
func (s *Store) Write(ctx context.Context, t *domain.Transcript) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if t == nil || strings.TrimSpace(t.ModelID) == "" {
		return fmt.Errorf("%w: transcript needs a model id", domain.ErrInvalidInput)
	}
	if strings.ContainsAny(t.ModelID, `/\`) {
		return fmt.Errorf("%w: model id %q is not a file name", domain.ErrInvalidInput, t.ModelID)
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create transcript directory: %w", err)
	}

	path := s.Path(t.ModelID)
	if err := os.WriteFile(path, []byte(t.Text), 0644); err != nil {
		return fmt.Errorf("write transcript %s: %w", t.ModelID, err)
	}
	t.Path = path
	return nil
}

// ModelID returns the model id encoded in a transcript file name.
// Hidden files and files without the transcript suffix are rejected.
func ModelID(name string) (string, bool) {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") || !strings.HasSuffix(base, Suffix) {
		return "", false
	}
	id := strings.TrimSuffix(base, Suffix)
	if id == "" {
		return "", false
	}
	return id, true
}

// Watch emits a change for every transcript created, written, removed or
// renamed in the directory. The channel closes when ctx is cancelled or the
// store is closed.
func (s *Store) Watch(ctx context.Context) (<-chan domain.TranscriptChange, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, errors.New("transcript store is closed")
	}
	s.mu.Unlock()

	info, err := os.Stat(s.dir)
	if err != nil {
		return nil, fmt.Errorf("transcript directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, s.dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", s.dir, err)
	}

	s.mu.Lock()
	s.watchers = append(s.watchers, watcher)
	s.mu.Unlock()

	changes := make(chan domain.TranscriptChange)
	go func() {
		defer close(changes)
		defer s.removeWatcher(watcher)

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				change := s.handleFsEvent(event)
				if change == nil {
					continue
				}
				select {
				case changes <- *change:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("transcript watcher: %v", err)
			}
		}
	}()

	return changes, nil
}

// handleFsEvent maps a filesystem event to a transcript change.
// Returns nil for events that do not concern a transcript.
func (s *Store) handleFsEvent(event fsnotify.Event) *domain.TranscriptChange {
	id, ok := ModelID(event.Name)
	if !ok {
		return nil
	}

	switch {
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		return &domain.TranscriptChange{ModelID: id, Path: event.Name, Type: domain.TranscriptRemoved}
	case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
		if info, err := os.Stat(event.Name); err != nil || info.IsDir() {
			return nil
		}
		return &domain.TranscriptChange{ModelID: id, Path: event.Name, Type: domain.TranscriptWritten}
	default:
		return nil
	}
}

func (s *Store) removeWatcher(w *fsnotify.Watcher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cur := range s.watchers {
		if cur == w {
			s.watchers = append(s.watchers[:i], s.watchers[i+1:]...)
			break
		}
	}
	w.Close()
}

// Close stops all watchers. It is safe to call more than once.
func (s *Store) Close() error {
	s.mu.Lock()
	watchers := s.watchers
	s.watchers = nil
	s.closed = true
	s.mu.Unlock()

	var errs []error
	for _, w := range watchers {
		if err := w.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
