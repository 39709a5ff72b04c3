package config

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/EmmaPrats/Sound-Only-Game/game/engine"
)

// DefaultLevel is the name of the embedded reference level
const DefaultLevel = "cueva"

var ErrLevelNotFound = errors.New("level not found")

//go:embed levels/*.json
var embedded embed.FS

// LevelInfo summarises a level for listings
type LevelInfo struct {
	ID          string `json:"id"` // identifier to pass to LoadLevel
	Filename    string `json:"filename"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Embedded    bool   `json:"embedded"`
}

// Manager handles level loading and caching. Levels found in the config
// directory shadow the embedded ones of the same name.
type Manager struct {
	configDir    string
	defaultLevel *engine.LevelConfig
	levels       map[string]*engine.LevelConfig
	mu           sync.RWMutex
}

// NewManager creates a level manager. An empty configDir serves only the
// embedded levels.
func NewManager(configDir string) (*Manager, error) {
	if configDir != "" {
		if _, err := os.Stat(configDir); os.IsNotExist(err) {
			return nil, fmt.Errorf("config directory does not exist: %s", configDir)
		}
	}

	m := &Manager{
		configDir: configDir,
		levels:    make(map[string]*engine.LevelConfig),
	}

	if err := m.loadDefaultLevel(); err != nil {
		return nil, fmt.Errorf("failed to load default level: %w", err)
	}

	return m, nil
}

// LoadLevel loads a level by name, from the config directory first and the
// embedded levels second
func (m *Manager) LoadLevel(name string) (*engine.LevelConfig, error) {
	name = strings.TrimSuffix(name, ".json")

	m.mu.RLock()
	if level, exists := m.levels[name]; exists {
		m.mu.RUnlock()
		return level, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	if level, exists := m.levels[name]; exists {
		return level, nil
	}

	data, err := m.readLevel(name + ".json")
	if err != nil {
		return nil, err
	}

	level, err := engine.ParseLevelConfig(data)
	if err != nil {
		return nil, fmt.Errorf("level %q: %w", name, err)
	}

	m.levels[name] = level
	return level, nil
}

func (m *Manager) readLevel(filename string) ([]byte, error) {
	if m.configDir != "" {
		data, err := os.ReadFile(filepath.Join(m.configDir, filename))
		if err == nil {
			return data, nil
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read level file: %w", err)
		}
	}

	data, err := embedded.ReadFile("levels/" + filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrLevelNotFound
		}
		return nil, fmt.Errorf("failed to read embedded level: %w", err)
	}
	return data, nil
}

// ListLevels returns every loadable level, skipping invalid files
func (m *Manager) ListLevels() ([]*LevelInfo, error) {
	names := make(map[string]bool)

	entries, err := fs.ReadDir(embedded, "levels")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded levels: %w", err)
	}
	for _, entry := range entries {
		names[entry.Name()] = true
	}

	fromDir := make(map[string]bool)
	if m.configDir != "" {
		entries, err := os.ReadDir(m.configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to read config directory: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
				continue
			}
			names[entry.Name()] = true
			fromDir[entry.Name()] = true
		}
	}

	sorted := make([]string, 0, len(names))
	for filename := range names {
		sorted = append(sorted, filename)
	}
	sort.Strings(sorted)

	var levels []*LevelInfo
	for _, filename := range sorted {
		id := strings.TrimSuffix(filename, ".json")

		level, err := m.LoadLevel(id)
		if err != nil {
			log.Printf("Skipping level %s: %v", filename, err)
			continue
		}

		levels = append(levels, &LevelInfo{
			ID:          id,
			Filename:    filename,
			Name:        level.Name,
			Description: level.Description,
			Width:       len(level.Layout[0]),
			Height:      len(level.Layout),
			Embedded:    !fromDir[filename],
		})
	}

	return levels, nil
}

// GetDefault returns the default level
func (m *Manager) GetDefault() *engine.LevelConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultLevel
}

// SetDefault sets the default level by name
func (m *Manager) SetDefault(name string) error {
	level, err := m.LoadLevel(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultLevel = level
	return nil
}

// RefreshCache drops every cached level so the next load rereads the files
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.levels = make(map[string]*engine.LevelConfig)
	m.mu.Unlock()

	return m.loadDefaultLevel()
}

func (m *Manager) loadDefaultLevel() error {
	level, err := m.LoadLevel(DefaultLevel)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.defaultLevel = level
	m.mu.Unlock()
	return nil
}
