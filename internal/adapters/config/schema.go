package config

import "time"

// SettingsFile represents the structure of the precheckout.yaml settings file.
type SettingsFile struct {
	Controller ControllerDTO `yaml:"controller"`
	JobsDir    string        `yaml:"jobs_dir"`
	Script     ScriptDTO     `yaml:"script"`
	Tracker    TrackerDTO    `yaml:"tracker"`
	Log        LogDTO        `yaml:"log"`
}

// ControllerDTO configures the controller identity and listen address.
type ControllerDTO struct {
	Name   string `yaml:"name"`
	Listen string `yaml:"listen"`
}

// ScriptDTO configures where and how pre-checkout scripts are written and run.
type ScriptDTO struct {
	TempDir      string `yaml:"temp_dir"`
	Prefix       string `yaml:"prefix"`
	Suffix       string `yaml:"suffix"`
	Shell        string `yaml:"shell"`
	ShellOptions string `yaml:"shell_options"`
}

// TrackerDTO configures eviction of stale attempt keys.
type TrackerDTO struct {
	TTL           time.Duration `yaml:"ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// LogDTO configures log output.
type LogDTO struct {
	Format string `yaml:"format"`
	Level  string `yaml:"level"`
}
