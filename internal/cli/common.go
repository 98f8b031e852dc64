package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/danieljhkim/previewdeck/internal/clock"
	"github.com/danieljhkim/previewdeck/internal/config"
	"github.com/danieljhkim/previewdeck/internal/engine"
	"github.com/danieljhkim/previewdeck/internal/factory"
	"github.com/danieljhkim/previewdeck/internal/fsops"
	"github.com/danieljhkim/previewdeck/internal/notify"
	"github.com/danieljhkim/previewdeck/internal/state"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const defaultSession = "default"

// session is one dev console session: a manager restored from the saved
// snapshot plus everything needed to write it back.
type session struct {
	name     string
	paths    *config.Paths
	settings config.Settings
	store    state.StateStore
	manager  *engine.Manager
	builder  *factory.Builder
}

// setupLogging routes the global zerolog logger to stderr at the given level.
func setupLogging(level string) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(lvl).
		With().Timestamp().Logger()
	return nil
}

// loadSettings resolves the paths and reads the settings file.
func loadSettings() (*config.Paths, config.Settings, error) {
	paths, err := config.DefaultPaths()
	if err != nil {
		return nil, config.Settings{}, fmt.Errorf("failed to get config paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, config.Settings{}, fmt.Errorf("failed to ensure directories: %w", err)
	}
	settings, err := config.LoadSettings(paths.Config)
	if err != nil {
		return nil, config.Settings{}, err
	}
	return paths, settings, nil
}

// openSession creates a manager with real implementations of all
// dependencies and restores the named session into it.
func openSession(name string) (*session, error) {
	paths, settings, err := loadSettings()
	if err != nil {
		return nil, err
	}

	clk := &clock.RealClock{}
	store := state.NewFileStateStore(fsops.NewRealFS(), paths.Sessions)

	m := engine.New(
		engine.WithClock(clk),
		engine.WithSettings(settings),
		engine.WithLogger(log.Logger),
		engine.WithNotifier(notify.Multi{notify.NewLog(log.Logger), consoleNotifier()}),
	)

	snapshot, err := store.Load(name)
	switch {
	case err == nil:
		m.Restore(snapshot)
	case errors.Is(err, os.ErrNotExist):
	default:
		m.Close()
		return nil, fmt.Errorf("failed to load session %s: %w", name, err)
	}

	return &session{
		name:     name,
		paths:    paths,
		settings: settings,
		store:    store,
		manager:  m,
		builder:  factory.NewBuilder(clk, factory.NewRandomIDs(), settings.AgentName),
	}, nil
}

// save writes the manager's state back to the session file.
func (s *session) save() error {
	if err := s.store.Save(s.name, s.manager.State()); err != nil {
		return fmt.Errorf("failed to save session %s: %w", s.name, err)
	}
	return nil
}

func (s *session) close() {
	s.manager.Close()
}

// withSession opens the current session, runs fn and saves the result when
// fn succeeds.
func withSession(fn func(s *session) error) error {
	s, err := openSession(sessionName)
	if err != nil {
		return err
	}
	defer s.close()

	if err := fn(s); err != nil {
		return err
	}
	return s.save()
}

// consoleNotifier echoes trip store notifications in human output mode.
func consoleNotifier() notify.Notifier {
	if jsonOutput {
		return notify.Funcs{}
	}
	return notify.Funcs{
		Applied: func(batchID string, actionIDs []string) {
			PrintNotice(fmt.Sprintf("trip store: applied %s (%s)", batchID, PrintCount(len(actionIDs), "action", "actions")))
		},
		Dismissed: func(batchID string) {
			PrintNotice(fmt.Sprintf("trip store: dismissed %s", batchID))
		},
		Undone: func(batchID string) {
			PrintNotice(fmt.Sprintf("trip store: undone %s", batchID))
		},
		ApplyFailed: func(batchID string, reason string) {
			PrintNotice(fmt.Sprintf("trip store: apply of %s failed: %s", batchID, reason))
		},
	}
}

// formatJSON formats a value as JSON.
func formatJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FormatError formats an error for display.
func FormatError(err error) string {
	initColors()
	return errorColor.Sprintf("Error: %v", err)
}

// outputJSON outputs a value as JSON to stdout.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
