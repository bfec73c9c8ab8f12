package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/yaremchuk/theatre-boxoffice/internal/model"
)

// FileStore keeps one JSON file per seance under a state directory.  It is
// the default provider: a box office without redis or mysql still works
// off the local disk, the same way the original tool leaned on browser
// storage.
type FileStore struct {
	dir string
}

// seanceFileName restricts seance ids used as file names to a safe
// character set so a hostile catalog entry cannot escape the state dir.
var seanceFileName = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// NewFileStore creates the state directory if needed and returns a store
// rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(seanceID string) (string, error) {
	if !seanceFileName.MatchString(seanceID) {
		return "", fmt.Errorf("invalid seance id %q", seanceID)
	}
	return filepath.Join(s.dir, seanceID+".json"), nil
}

// Load reads and decodes the seance file.  A missing file maps to
// ErrSeanceStateNotFound.
func (s *FileStore) Load(_ context.Context, seanceID string) (*SeanceState, error) {
	p, err := s.path(seanceID)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrSeanceStateNotFound
		}
		return nil, fmt.Errorf("read seance state: %w", err)
	}
	st := NewSeanceState()
	if err := json.Unmarshal(raw, st); err != nil {
		return nil, fmt.Errorf("decode seance state %s: %w", seanceID, err)
	}
	if st.SeatStatuses == nil {
		st.SeatStatuses = make(map[string]model.Place)
	}
	return st, nil
}

// Save writes the state atomically: encode to a temp file in the same
// directory, then rename over the target.  A crash mid-save leaves the
// previous state intact.
func (s *FileStore) Save(_ context.Context, seanceID string, state *SeanceState) error {
	p, err := s.path(seanceID)
	if err != nil {
		return err
	}
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode seance state: %w", err)
	}
	tmp, err := os.CreateTemp(s.dir, seanceID+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp state file: %w", err)
	}
	if err := os.Rename(tmpName, p); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace seance state: %w", err)
	}
	return nil
}
