package config

import (
	"errors"
	"fmt"
	"sync"
)

// Manager holds the configuration in effect and swaps it on reload.
type Manager struct {
	config     *Config
	configFile string
	mu         sync.RWMutex
	onUpdate   func(old, new *Config)
}

// NewManager creates a manager serving cfg, reloadable from configFile.
func NewManager(cfg *Config, configFile string) *Manager {
	return &Manager{
		config:     cfg,
		configFile: configFile,
	}
}

// SetOnUpdate sets the callback run after each successful reload.
func (m *Manager) SetOnUpdate(fn func(old, new *Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onUpdate = fn
}

// Config returns the current config. Callers must not modify it.
func (m *Manager) Config() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// ConfigFile returns the config file path.
func (m *Manager) ConfigFile() string {
	return m.configFile
}

// Reload reads and validates the config file and, when it is valid,
// replaces the current config and runs the update callback. An invalid
// file leaves the current config in place.
func (m *Manager) Reload() error {
	if m.configFile == "" {
		return ErrMissingConfigFile
	}

	newConfig, err := LoadConfig(m.configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if errs := ValidateConfig(newConfig); len(errs) > 0 {
		return fmt.Errorf("validation failed: %w", errors.Join(errs...))
	}

	m.mu.Lock()
	oldConfig := m.config
	m.config = newConfig
	onUpdate := m.onUpdate
	m.mu.Unlock()

	if onUpdate != nil {
		onUpdate(oldConfig, newConfig)
	}
	return nil
}
