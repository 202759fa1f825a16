package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

// KeyToolPath is the settings key holding the archiving tool's executable path.
const KeyToolPath = "ToolPath"

var ErrUnknownKey = errors.New("unknown setting key")

// Store is the key-value view over the settings file. Set only changes the
// in-memory value; Save makes it durable.
type Store struct {
	mu      sync.RWMutex
	path    string
	cfg     *Config
	written []byte // contents of the last Save, to skip our own change events
}

// OpenStore loads the settings file at path, creating it with defaults if needed.
func OpenStore(path string) (*Store, error) {
	cfg, err := LoadFrom(path)
	if err != nil {
		return nil, err
	}
	return &Store{path: path, cfg: cfg}, nil
}

// Path returns the settings file location
func (s *Store) Path() string {
	return s.path
}

// Get returns the value for key. A blank value counts as absent.
func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch key {
	case KeyToolPath:
		v := strings.TrimSpace(s.cfg.Tool.Path)
		return v, v != ""
	default:
		return "", false
	}
}

// Set updates key in memory
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch key {
	case KeyToolPath:
		s.cfg.Tool.Path = strings.TrimSpace(value)
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
}

// Save writes the current settings to disk
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := save(s.path, s.cfg)
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	s.written = data
	return nil
}

// Config returns a copy of the full configuration
func (s *Store) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return *s.cfg
}

// Reload re-reads the settings file. On error the previous values are kept.
func (s *Store) Reload() error {
	_, err := s.reload()
	return err
}

// reload reports whether the in-memory settings changed. The store's own
// writes, an empty file and content equal to memory are all ignored, so
// unsaved Set values survive them.
func (s *Store) reload() (bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return false, fmt.Errorf("failed to read config: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		// Mid-write by an editor that truncates first; the next event has the content.
		return false, nil
	}

	s.mu.RLock()
	own := bytes.Equal(data, s.written)
	s.mu.RUnlock()
	if own {
		return false, nil
	}

	cfg := defaultConfig()
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return false, fmt.Errorf("failed to decode config: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if *cfg == *s.cfg {
		return false, nil
	}
	s.cfg = cfg
	s.written = nil
	return true, nil
}
