package domain

import "time"

// LogFormat selects how log records are rendered.
type LogFormat string

const (
	// LogFormatAuto picks pretty output on a terminal and JSON elsewhere.
	LogFormatAuto LogFormat = "auto"
	// LogFormatPretty renders colored human readable lines.
	LogFormatPretty LogFormat = "pretty"
	// LogFormatJSON renders one JSON object per record.
	LogFormatJSON LogFormat = "json"
)

// Settings is the resolved controller configuration.
type Settings struct {
	// Path is the settings file the values were read from. Empty for defaults.
	Path string

	ControllerName string
	Listen         string
	JobsDir        string
	Script         ScriptLayout

	TrackerTTL    time.Duration
	SweepInterval time.Duration

	LogFormat LogFormat
	LogLevel  string
}

// DefaultSettings returns the settings used when no file is found.
func DefaultSettings() *Settings {
	return &Settings{
		ControllerName: DefaultControllerName,
		Listen:         DefaultControllerAddress(),
		JobsDir:        DefaultJobsDir,
		Script:         DefaultScriptLayout(),
		SweepInterval:  DefaultSweepInterval,
		LogFormat:      LogFormatAuto,
		LogLevel:       "info",
	}
}
