package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

var (
	ErrPresetNotFound = errors.New("preset not found")
	ErrInvalidPreset  = errors.New("invalid preset")
)

var presetExtensions = []string{".json", ".yaml", ".yml"}

// Manager loads rule presets from a directory and caches them
type Manager struct {
	presetDir     string
	defaultPreset *Preset
	presets       map[string]*Preset
	mu            sync.RWMutex
}

// NewManager creates a preset manager. An empty presetDir serves only the
// built-in classic preset.
func NewManager(presetDir string) (*Manager, error) {
	if presetDir != "" {
		if _, err := os.Stat(presetDir); os.IsNotExist(err) {
			return nil, fmt.Errorf("preset directory does not exist: %s", presetDir)
		}
	}

	m := &Manager{
		presetDir: presetDir,
		presets:   make(map[string]*Preset),
	}
	m.defaultPreset = m.loadDefault()
	return m, nil
}

// LoadPreset loads a preset by id (file name without extension)
func (m *Manager) LoadPreset(id string) (*Preset, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return m.GetDefault(), nil
	}

	m.mu.RLock()
	if p, ok := m.presets[id]; ok {
		m.mu.RUnlock()
		return p, nil
	}
	m.mu.RUnlock()

	p, err := m.readPreset(id)
	if err != nil {
		if errors.Is(err, ErrPresetNotFound) && id == DefaultPresetName {
			return classicPreset(), nil
		}
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if cached, ok := m.presets[id]; ok {
		return cached, nil
	}
	m.presets[id] = p
	return p, nil
}

// ListPresets describes every valid preset in the directory plus the
// built-in classic preset when no file overrides it.
func (m *Manager) ListPresets() ([]PresetInfo, error) {
	var infos []PresetInfo
	seen := make(map[string]bool)

	if m.presetDir != "" {
		entries, err := os.ReadDir(m.presetDir)
		if err != nil {
			return nil, fmt.Errorf("failed to read preset directory: %w", err)
		}
		for _, entry := range entries {
			ext := filepath.Ext(entry.Name())
			if entry.IsDir() || !slices.Contains(presetExtensions, ext) {
				continue
			}
			id := strings.ToLower(strings.TrimSuffix(entry.Name(), ext))
			if seen[id] {
				continue
			}

			p, err := m.LoadPreset(id)
			if err != nil {
				continue
			}
			seen[id] = true
			infos = append(infos, describe(id, entry.Name(), p))
		}
	}

	if !seen[DefaultPresetName] {
		infos = append(infos, describe(DefaultPresetName, "", classicPreset()))
	}

	slices.SortFunc(infos, func(a, b PresetInfo) int { return strings.Compare(a.ID, b.ID) })
	return infos, nil
}

// GetDefault returns the default preset
func (m *Manager) GetDefault() *Preset {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultPreset
}

// SetDefault makes the named preset the default
func (m *Manager) SetDefault(id string) error {
	p, err := m.LoadPreset(id)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultPreset = p
	return nil
}

// RefreshCache drops cached presets so they are re-read from disk
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	m.presets = make(map[string]*Preset)
	m.mu.Unlock()

	def := m.loadDefault()

	m.mu.Lock()
	m.defaultPreset = def
	m.mu.Unlock()
}

func (m *Manager) loadDefault() *Preset {
	p, err := m.LoadPreset(DefaultPresetName)
	if err != nil {
		return classicPreset()
	}
	return p
}

func (m *Manager) readPreset(id string) (*Preset, error) {
	if m.presetDir == "" || strings.ContainsAny(id, `/\`) {
		return nil, ErrPresetNotFound
	}

	for _, ext := range presetExtensions {
		path := filepath.Join(m.presetDir, id+ext)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read preset file: %w", err)
		}

		var p Preset
		if ext == ".json" {
			err = json.Unmarshal(data, &p)
		} else {
			err = yaml.Unmarshal(data, &p)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: failed to parse %s: %v", ErrInvalidPreset, filepath.Base(path), err)
		}

		if err := ValidatePreset(&p); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPreset, err)
		}
		return &p, nil
	}
	return nil, ErrPresetNotFound
}

func describe(id, filename string, p *Preset) PresetInfo {
	return PresetInfo{
		ID:                id,
		Filename:          filename,
		Name:              p.Name,
		Description:       p.Description,
		WinRule:           p.Options().WinRule,
		EnforceTurnLimits: p.EnforceTurnLimits,
	}
}
