// Package config provides the settings loader for precheckout.
package config

import (
	"os"
	"path/filepath"

	"go.trai.ch/precheckout/internal/adapters/logger"
	"go.trai.ch/precheckout/internal/core/domain"
	"go.trai.ch/precheckout/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load resolves the settings for cwd. An explicit path wins over the
// PRECHECKOUT_CONFIG variable, which wins over discovery.
func (l *Loader) Load(cwd, path string) (*domain.Settings, error) {
	if path == "" {
		path = os.Getenv(domain.SettingsEnvVar)
	}

	if path == "" {
		found, ok := findConfiguration(cwd)
		if !ok {
			l.Logger.Debug("no " + domain.SettingsFileName + " found, using defaults")
			settings := domain.DefaultSettings()
			settings.JobsDir = resolvePath(cwd, settings.JobsDir)
			return settings, nil
		}
		path = found
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(cwd, path)
	}

	return l.loadFile(path)
}

func findConfiguration(cwd string) (string, bool) {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.SettingsFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			return "", false
		}
		currentDir = parentDir
	}
}

func (l *Loader) loadFile(path string) (*domain.Settings, error) {
	file := defaultFile()
	if err := readAndUnmarshalYAML(path, &file); err != nil {
		return nil, zerr.With(err, "path", path)
	}

	settings := &domain.Settings{
		Path:           path,
		ControllerName: file.Controller.Name,
		Listen:         file.Controller.Listen,
		JobsDir:        resolvePath(filepath.Dir(path), file.JobsDir),
		Script: domain.ScriptLayout{
			TempDir:      file.Script.TempDir,
			Prefix:       file.Script.Prefix,
			Suffix:       file.Script.Suffix,
			Shell:        file.Script.Shell,
			ShellOptions: file.Script.ShellOptions,
		},
		TrackerTTL:    file.Tracker.TTL,
		SweepInterval: file.Tracker.SweepInterval,
		LogFormat:     domain.LogFormat(file.Log.Format),
		LogLevel:      file.Log.Level,
	}

	if err := validate(settings); err != nil {
		return nil, zerr.With(err, "path", path)
	}

	l.Logger.Debug("loaded settings from " + path)
	return settings, nil
}

// defaultFile returns a file pre-filled with defaults. Keys absent from the
// YAML document keep these values.
func defaultFile() SettingsFile {
	d := domain.DefaultSettings()
	return SettingsFile{
		Controller: ControllerDTO{Name: d.ControllerName, Listen: d.Listen},
		JobsDir:    d.JobsDir,
		Script: ScriptDTO{
			TempDir:      d.Script.TempDir,
			Prefix:       d.Script.Prefix,
			Suffix:       d.Script.Suffix,
			Shell:        d.Script.Shell,
			ShellOptions: d.Script.ShellOptions,
		},
		Tracker: TrackerDTO{TTL: d.TrackerTTL, SweepInterval: d.SweepInterval},
		Log:     LogDTO{Format: string(d.LogFormat), Level: d.LogLevel},
	}
}

func validate(s *domain.Settings) error {
	switch {
	case s.ControllerName == "":
		return zerr.With(zerr.Wrap(domain.ErrInvalidSettings, "controller name is empty"), "field", "controller.name")
	case s.Script.TempDir == "":
		return zerr.With(zerr.Wrap(domain.ErrInvalidSettings, "temp dir is empty"), "field", "script.temp_dir")
	case s.Script.Shell == "":
		return zerr.With(zerr.Wrap(domain.ErrInvalidSettings, "shell is empty"), "field", "script.shell")
	case s.TrackerTTL < 0:
		return zerr.With(zerr.Wrap(domain.ErrInvalidSettings, "ttl is negative"), "field", "tracker.ttl")
	case s.TrackerTTL > 0 && s.SweepInterval <= 0:
		return zerr.With(zerr.Wrap(domain.ErrInvalidSettings, "sweep interval must be positive"), "field", "tracker.sweep_interval")
	}

	switch s.LogFormat {
	case domain.LogFormatAuto, domain.LogFormatPretty, domain.LogFormatJSON:
	default:
		return zerr.With(zerr.Wrap(domain.ErrInvalidSettings, "unknown log format"), "format", string(s.LogFormat))
	}

	if _, err := logger.ParseLevel(s.LogLevel); err != nil {
		return err
	}
	return nil
}

func resolvePath(base, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is chosen by the operator
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(domain.ErrSettingsReadFailed, err.Error())
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.Wrap(domain.ErrSettingsParseFailed, parseErr.Error())
	}

	return nil
}
