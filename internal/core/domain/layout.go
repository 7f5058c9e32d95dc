package domain

import (
	"os"
	"path/filepath"
	"time"
)

const (
	// SettingsFileName is the name of the controller settings file.
	SettingsFileName = "precheckout.yaml"

	// SettingsEnvVar overrides settings file discovery.
	SettingsEnvVar = "PRECHECKOUT_CONFIG"

	// JobFileYAML is the YAML job configuration file inside a job directory.
	JobFileYAML = "job.yaml"

	// JobFileJSONC is the JSON-with-comments job configuration file inside a job directory.
	JobFileJSONC = "job.jsonc"

	// DefaultJobsDir is the job configuration root, relative to the settings file.
	DefaultJobsDir = "jobs"

	// DefaultControllerName is the channel identity of the controller.
	DefaultControllerName = "controller"

	// JobNameVar is the build variable carrying the full job name.
	JobNameVar = "JOB_NAME"

	// DefaultTempDir is where pre-checkout scripts are written on the agent.
	DefaultTempDir = "/tmp"

	// ScriptPrefix is the file name prefix of pre-checkout scripts.
	ScriptPrefix = "precheckout-"

	// ScriptSuffix is the file name suffix of pre-checkout scripts.
	ScriptSuffix = ".sh"

	// DefaultShell interprets pre-checkout scripts.
	DefaultShell = "/bin/sh"

	// DefaultShellOptions traces each command and stops at the first failure.
	DefaultShellOptions = "-xe"

	// DefaultSweepInterval is how often expired attempt keys are swept when a TTL is set.
	DefaultSweepInterval = time.Minute

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// SocketPerm is the permission of daemon sockets (rw-------).
	SocketPerm = 0o600
)

// DefaultControllerAddress returns the default listen address of the controller daemon.
func DefaultControllerAddress() string {
	return "unix://" + filepath.Join(os.TempDir(), "precheckout-controller.sock")
}

// DefaultAgentAddress returns the default listen address of the agent daemon.
func DefaultAgentAddress() string {
	return "unix://" + filepath.Join(os.TempDir(), "precheckout-agent.sock")
}
