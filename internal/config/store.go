package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"dario.cat/mergo"

	"qgxf-trainer/internal/logger"
	"qgxf-trainer/models"
)

// Store owns the persisted config record. It is safe for concurrent use:
// the exam flow saves after every answered paper while other goroutines may
// still read the connection.
type Store struct {
	path string
	log  *logger.Logger

	mu  sync.Mutex
	cfg *Config
}

// Load builds a Store backed by the file at path. Environment overrides win
// over file values, file values win over defaults. A missing file is created
// immediately with the defaults; a malformed one is ignored (and overwritten
// on the next save).
func Load(path string, log *logger.Logger) (*Store, error) {
	fileCfg, fileExists := readFile(path, log)

	envCfg := &Config{}
	if err := parseEnv(envCfg); err != nil {
		return nil, err
	}

	merged := &Config{}
	for _, layer := range []*Config{envCfg, fileCfg, defaults()} {
		if layer == nil {
			continue
		}
		if err := mergo.Merge(merged, layer); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}
	if merged.Memory == nil {
		merged.Memory = defaultMemory()
	}

	s := &Store{path: path, log: log, cfg: merged}
	if !fileExists {
		if err := s.Save(); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("could not write initial config")
		}
	}

	return s, nil
}

// readFile parses the config file; nil when absent or malformed.
func readFile(path string, log *logger.Logger) (*Config, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	cfg := &Config{}
	if err := json.Unmarshal(raw, cfg); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("malformed config file, using defaults")
		return nil, true
	}

	return cfg, true
}

// Save writes the current record to disk with 4-space indentation, matching
// the format earlier releases produced.
func (s *Store) Save() error {
	s.mu.Lock()
	raw, err := json.MarshalIndent(s.cfg, "", "    ")
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.WriteFile(s.path, raw, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Connection returns the persisted session.
func (s *Store) Connection() Connection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Connection
}

// SetConnection replaces the persisted session. Callers still need Save to
// flush it to disk.
func (s *Store) SetConnection(conn Connection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Connection = conn
}

// Memory returns a copy of the answer-memory table.
func (s *Store) Memory() map[string]models.QuestionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]models.QuestionRecord, len(s.cfg.Memory))
	for k, v := range s.cfg.Memory {
		out[k] = v
	}
	return out
}

// SetMemory replaces the answer-memory table.
func (s *Store) SetMemory(memory map[string]models.QuestionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Memory = memory
}
