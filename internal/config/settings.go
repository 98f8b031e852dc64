package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidSettings indicates a settings value is out of range.
var ErrInvalidSettings = errors.New("invalid settings")

// Environment overrides applied on top of the settings file.
const (
	GraceWindowEnv = "PREVIEWDECK_GRACE_WINDOW"
	UndoLimitEnv   = "PREVIEWDECK_UNDO_LIMIT"
	HTTPAddrEnv    = "PREVIEWDECK_HTTP_ADDR"
)

// Settings tunes the preview engine and the dev console.
type Settings struct {
	// GraceWindow is how long undo is offered after apply
	GraceWindow time.Duration `yaml:"grace_window"`

	// GraceTick is the countdown refresh interval (0 disables ticking)
	GraceTick time.Duration `yaml:"grace_tick"`

	// UndoLimit bounds the undo stack
	UndoLimit int `yaml:"undo_limit"`

	// RedoRefiresApplied re-sends the applied notification on redo
	RedoRefiresApplied bool `yaml:"redo_refires_applied"`

	// HTTPAddr is the listen address for `previewdeck serve`
	HTTPAddr string `yaml:"http_addr"`

	// AgentName labels batches proposed from the dev console
	AgentName string `yaml:"agent_name"`
}

// DefaultSettings returns the built-in settings.
func DefaultSettings() Settings {
	return Settings{
		GraceWindow:        5 * time.Second,
		GraceTick:          time.Second,
		UndoLimit:          20,
		RedoRefiresApplied: true,
		HTTPAddr:           "127.0.0.1:8787",
		AgentName:          "Concierge",
	}
}

// LoadSettings reads settings from path, falling back to defaults for a
// missing file or missing keys, then applies environment overrides.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &settings); err != nil {
			return Settings{}, fmt.Errorf("failed to parse settings %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return Settings{}, fmt.Errorf("failed to read settings %s: %w", path, err)
	}

	if err := settings.applyEnv(); err != nil {
		return Settings{}, err
	}
	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

func (s *Settings) applyEnv() error {
	if v := os.Getenv(GraceWindowEnv); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalidSettings, GraceWindowEnv, v, err)
		}
		s.GraceWindow = d
	}
	if v := os.Getenv(UndoLimitEnv); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalidSettings, UndoLimitEnv, v, err)
		}
		s.UndoLimit = n
	}
	if v := os.Getenv(HTTPAddrEnv); v != "" {
		s.HTTPAddr = v
	}
	return nil
}

// Validate rejects out-of-range values.
func (s Settings) Validate() error {
	if s.GraceWindow <= 0 {
		return fmt.Errorf("%w: grace_window must be positive, got %s", ErrInvalidSettings, s.GraceWindow)
	}
	if s.GraceTick < 0 {
		return fmt.Errorf("%w: grace_tick must not be negative, got %s", ErrInvalidSettings, s.GraceTick)
	}
	if s.UndoLimit <= 0 {
		return fmt.Errorf("%w: undo_limit must be positive, got %d", ErrInvalidSettings, s.UndoLimit)
	}
	return nil
}

// Save writes the settings to path as YAML.
func (s Settings) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}
