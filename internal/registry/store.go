// Package registry persists and reads back every artifact appstack owns
// under an ecosystem root. It holds no provisioning logic.
package registry

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/railwayapp/appstack/internal/apps"
	"github.com/railwayapp/appstack/internal/filesystems"
	"github.com/rs/zerolog/log"
)

type Store struct {
	fs     filesystems.FileSystem
	root   string
	format Format
}

func NewStore(fsys filesystems.FileSystem, root string, format Format) *Store {
	return &Store{fs: fsys, root: root, format: format}
}

func (s *Store) Root() string {
	return s.root
}

func (s *Store) FileSystem() filesystems.FileSystem {
	return s.fs
}

// Read decodes the artifact at path into v using the codec for its extension.
// A missing file yields ErrNotFound, an undecodable one a *CorruptError.
func (s *Store) Read(path string, v any) error {
	data, err := s.ReadBytes(path)
	if err != nil {
		return err
	}
	c, err := codecFor(path)
	if err != nil {
		return &CorruptError{Path: path, Err: err}
	}
	if err := c.decode(data, v); err != nil {
		return &CorruptError{Path: path, Err: err}
	}
	return nil
}

// ReadBytes returns the raw content of the artifact at path.
func (s *Store) ReadBytes(path string) ([]byte, error) {
	data, err := s.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return nil, &CorruptError{Path: path, Err: err}
	}
	return data, nil
}

// Write encodes v with the codec for the extension of path and atomically
// replaces the artifact.
func (s *Store) Write(path string, v any) error {
	c, err := codecFor(path)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	data, err := c.encode(v)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return s.WriteBytes(path, data)
}

// WriteBytes atomically replaces the artifact at path with data.
func (s *Store) WriteBytes(path string, data []byte) error {
	if err := s.fs.WriteFile(path, data); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	log.Debug().Str("path", path).Int("bytes", len(data)).Msg("artifact written")
	return nil
}

// ReadPreferences reads configs/apps.<fmt>. A missing or corrupt file is
// replaced with defaults; corruption is logged as a warning first.
func (s *Store) ReadPreferences() (apps.EcosystemPreferences, error) {
	path := s.PreferencesPath()

	var prefs apps.EcosystemPreferences
	err := s.Read(path, &prefs)
	switch {
	case err == nil:
		return prefs, nil
	case errors.Is(err, ErrNotFound):
		log.Info().Str("path", path).Msg("no app preferences found, writing defaults")
	case IsCorrupt(err):
		log.Warn().Err(err).Str("path", path).Msg("app preferences are corrupt, replacing with defaults")
	default:
		return apps.EcosystemPreferences{}, err
	}

	prefs = apps.DefaultPreferences()
	if err := s.Write(path, prefs); err != nil {
		return apps.EcosystemPreferences{}, err
	}
	return prefs, nil
}
