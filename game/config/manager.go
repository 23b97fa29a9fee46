package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/wricardo/domination/game/engine"
	"github.com/wricardo/domination/game/service"
)

var (
	ErrConfigNotFound = errors.New("configuration not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// DefaultConfigName is the arena preferred as the default when present
const DefaultConfigName = "courtyard"

// Manager handles arena configuration loading and caching
type Manager struct {
	configDir     string
	defaultConfig *engine.ArenaConfig
	configs       map[string]*engine.ArenaConfig
	mu            sync.RWMutex
}

// NewManager creates a new configuration manager
func NewManager(configDir string) (*Manager, error) {
	// Ensure config directory exists
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*engine.ArenaConfig),
	}

	m.mu.Lock()
	m.loadDefaultLocked()
	m.mu.Unlock()

	return m, nil
}

// LoadConfig loads a configuration by name
func (m *Manager) LoadConfig(name string) (*engine.ArenaConfig, error) {
	name = strings.TrimSuffix(name, ".json")

	m.mu.RLock()
	// Check cache first
	if config, exists := m.configs[name]; exists {
		m.mu.RUnlock()
		return config, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadLocked(name)
}

// loadLocked reads, validates and caches one configuration. Callers hold mu.
func (m *Manager) loadLocked(name string) (*engine.ArenaConfig, error) {
	// Double-check after acquiring write lock
	if config, exists := m.configs[name]; exists {
		return config, nil
	}

	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return nil, ErrConfigNotFound
	}

	configPath := filepath.Join(m.configDir, name+".json")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config engine.ArenaConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	if err := engine.ValidateArenaConfig(&config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	m.configs[name] = &config
	return &config, nil
}

// ListConfigs returns information about all valid configurations, sorted by ID
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	names, err := m.configNames()
	if err != nil {
		return nil, err
	}

	var configs []*service.ConfigInfo
	for _, name := range names {
		config, err := m.LoadConfig(name)
		if err != nil {
			log.Warn().Err(err).Str("config", name).Msg("Skipping invalid arena config")
			continue
		}

		configs = append(configs, &service.ConfigInfo{
			Filename:    name + ".json",
			ConfigID:    name, // This is the identifier to use for match creation
			Name:        config.Name,
			Description: config.Description,
			Width:       config.Width,
			Height:      config.Height,
			Enemies:     len(config.Enemies),
		})
	}

	return configs, nil
}

func (m *Manager) configNames() ([]string, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

// GetDefault returns the default configuration
func (m *Manager) GetDefault() *engine.ArenaConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// SetDefault sets the default configuration by name
func (m *Manager) SetDefault(name string) error {
	config, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultConfig = config
	return nil
}

// RefreshCache drops cached configurations and re-resolves the default
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.configs = make(map[string]*engine.ArenaConfig)
	m.loadDefaultLocked()
}

// loadDefaultLocked picks the default arena: the preferred name, then the
// first valid file, then the built-in arena. Callers hold mu.
func (m *Manager) loadDefaultLocked() {
	if config, err := m.loadLocked(DefaultConfigName); err == nil {
		m.defaultConfig = config
		return
	}

	if names, err := m.configNames(); err == nil {
		for _, name := range names {
			if config, err := m.loadLocked(name); err == nil {
				m.defaultConfig = config
				return
			}
		}
	}

	log.Debug().Str("dir", m.configDir).Msg("No valid arena config found, using built-in default")
	m.defaultConfig = engine.DefaultArenaConfig()
}

// SaveConfig validates and writes a configuration to disk
func (m *Manager) SaveConfig(name string, config *engine.ArenaConfig) error {
	if err := engine.ValidateArenaConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	name = strings.TrimSuffix(name, ".json")
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return fmt.Errorf("%w: invalid config name %q", ErrInvalidConfig, name)
	}

	configPath := filepath.Join(m.configDir, name+".json")

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.mu.Lock()
	m.configs[name] = config
	m.mu.Unlock()

	return nil
}
