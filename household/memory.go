package household

import (
	"context"
	"maps"
	"sync"
)

// MemorySettings is an in-process SettingsStore.
type MemorySettings struct {
	mu       sync.RWMutex
	settings *Settings
}

func NewMemorySettings() *MemorySettings {
	return &MemorySettings{}
}

func (m *MemorySettings) LoadSettings(_ context.Context) (Settings, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.settings == nil {
		return Settings{}, false, nil
	}
	return m.settings.clone(), true, nil
}

func (m *MemorySettings) SaveSettings(_ context.Context, s Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := s.clone()
	m.settings = &c
	return nil
}

func (m *MemorySettings) ResetSettings(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = nil
	return nil
}

func (s Settings) clone() Settings {
	return Settings{
		Policy:            s.Policy,
		StudyMultipliers:  maps.Clone(s.StudyMultipliers),
		ScreenMultipliers: maps.Clone(s.ScreenMultipliers),
	}
}
