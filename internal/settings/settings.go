package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"focustracker/internal/model"
)

const (
	appName          = "focustracker"
	settingsFileName = "settings.yaml"

	maxBreakMinutes = 120
	maxCycleLength  = 12
)

// Settings are the user's timer preferences.
type Settings struct {
	WorkMinutes       int `yaml:"work_minutes"`
	ShortBreakMinutes int `yaml:"short_break_minutes"`
	LongBreakMinutes  int `yaml:"long_break_minutes"`
	CycleLength       int `yaml:"cycle_length"`
}

func Default() Settings {
	return Settings{
		WorkMinutes:       model.DefaultWorkDurationSeconds / 60,
		ShortBreakMinutes: model.DefaultShortBreakDurationSeconds / 60,
		LongBreakMinutes:  model.DefaultLongBreakDurationSeconds / 60,
		CycleLength:       model.DefaultCycleLength,
	}
}

func (s Settings) SessionConfig() model.SessionConfig {
	return model.SessionConfig{
		WorkDurationSeconds:       s.WorkMinutes * 60,
		ShortBreakDurationSeconds: s.ShortBreakMinutes * 60,
		LongBreakDurationSeconds:  s.LongBreakMinutes * 60,
		CycleLength:               s.CycleLength,
	}
}

// DefaultPath returns settings.yaml under the user config directory.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

// Load reads preferences from path. A missing file yields defaults, and
// out-of-range values in the file are ignored field by field.
func Load(path string) (Settings, error) {
	settings := Default()

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData Settings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	apply(&settings, fileData)
	return settings, nil
}

func Save(path string, settings Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	serialized, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}

func apply(settings *Settings, fileData Settings) {
	if fileData.WorkMinutes >= model.MinWorkMinutes && fileData.WorkMinutes <= model.MaxWorkMinutes {
		settings.WorkMinutes = fileData.WorkMinutes
	}
	if fileData.ShortBreakMinutes > 0 && fileData.ShortBreakMinutes <= maxBreakMinutes {
		settings.ShortBreakMinutes = fileData.ShortBreakMinutes
	}
	if fileData.LongBreakMinutes > 0 && fileData.LongBreakMinutes <= maxBreakMinutes {
		settings.LongBreakMinutes = fileData.LongBreakMinutes
	}
	if fileData.CycleLength > 0 && fileData.CycleLength <= maxCycleLength {
		settings.CycleLength = fileData.CycleLength
	}
}
