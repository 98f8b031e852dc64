package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/danieljhkim/previewdeck/internal/fsops"
)

// StateStore provides an interface for persisting dev console sessions.
type StateStore interface {
	// Load loads the preview state for the given session.
	// Returns os.ErrNotExist if the session doesn't exist.
	Load(session string) (*PreviewState, error)

	// Save saves the session state atomically.
	Save(session string, state *PreviewState) error

	// Delete deletes the session file.
	Delete(session string) error

	// List returns the names of all saved sessions.
	List() ([]string, error)
}

// FileStateStore implements StateStore using JSON files on disk.
type FileStateStore struct {
	fs          fsops.FS
	sessionsDir string
}

// NewFileStateStore creates a new FileStateStore.
func NewFileStateStore(fs fsops.FS, sessionsDir string) *FileStateStore {
	return &FileStateStore{
		fs:          fs,
		sessionsDir: sessionsDir,
	}
}

func (s *FileStateStore) path(session string) (string, error) {
	if err := s.fs.ValidateIdentifier(session); err != nil {
		return "", fmt.Errorf("invalid session name %q: %w", session, err)
	}
	return filepath.Join(s.sessionsDir, session+".json"), nil
}

// Load loads the preview state for the given session.
func (s *FileStateStore) Load(session string) (*PreviewState, error) {
	path, err := s.path(session)
	if err != nil {
		return nil, err
	}

	data, err := s.fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, os.ErrNotExist
		}
		return nil, fmt.Errorf("failed to read session state: %w", err)
	}

	var st PreviewState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session state: %w", err)
	}
	st.Normalize()

	return &st, nil
}

// Save saves the session state atomically.
func (s *FileStateStore) Save(session string, st *PreviewState) error {
	path, err := s.path(session)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session state: %w", err)
	}

	if err := s.fs.AtomicWrite(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write session state: %w", err)
	}

	return nil
}

// Delete deletes the session file.
func (s *FileStateStore) Delete(session string) error {
	path, err := s.path(session)
	if err != nil {
		return err
	}

	if err := s.fs.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete session state: %w", err)
	}

	return nil
}

// List returns the names of all saved sessions.
func (s *FileStateStore) List() ([]string, error) {
	return s.fs.ListNames(s.sessionsDir, ".json")
}
