package domain

import "go.trai.ch/zerr"

var (
	// ErrControllerExecution is returned when a dispatch targets the controller's own channel.
	ErrControllerExecution = zerr.New("refusing to run pre-checkout command on the controller")

	// ErrMalformedAxis is returned when the matrix axes of a job name cannot be parsed.
	ErrMalformedAxis = zerr.New("malformed matrix axis")

	// ErrChannelUnavailable is returned when no channel to the build's agent can be opened.
	ErrChannelUnavailable = zerr.New("agent channel unavailable")

	// ErrScriptCreateFailed is returned when the temporary script cannot be written on the agent.
	ErrScriptCreateFailed = zerr.New("failed to create pre-checkout script")

	// ErrLaunchFailed is returned when the script process cannot be started or its transport breaks.
	ErrLaunchFailed = zerr.New("failed to launch pre-checkout script")

	// ErrEmptyArgv is returned when a launch spec names no program.
	ErrEmptyArgv = zerr.New("launch spec has no program")

	// ErrMissingExitCode is returned when an agent stream ends without reporting an exit code.
	ErrMissingExitCode = zerr.New("agent did not report an exit code")

	// ErrSettingsReadFailed is returned when the settings file cannot be read.
	ErrSettingsReadFailed = zerr.New("failed to read settings file")

	// ErrSettingsParseFailed is returned when the settings file is not valid YAML.
	ErrSettingsParseFailed = zerr.New("failed to parse settings file")

	// ErrInvalidSettings is returned when a settings value is out of range.
	ErrInvalidSettings = zerr.New("invalid settings")

	// ErrJobReadFailed is returned when a job configuration file cannot be read.
	ErrJobReadFailed = zerr.New("failed to read job configuration")

	// ErrJobParseFailed is returned when a job configuration file cannot be decoded.
	ErrJobParseFailed = zerr.New("failed to parse job configuration")

	// ErrAmbiguousJobConfig is returned when a job directory holds both a YAML and a JSONC file.
	ErrAmbiguousJobConfig = zerr.New("job directory holds more than one configuration file")

	// ErrUnknownPropertyKind is returned when a job property entry names no kind.
	ErrUnknownPropertyKind = zerr.New("property has no kind")

	// ErrMissingProject is returned when a command needs a project name and none was given.
	ErrMissingProject = zerr.New("project name is required")

	// ErrInvalidAddress is returned for a listen or dial address that cannot be parsed.
	ErrInvalidAddress = zerr.New("invalid address")

	// ErrCommandNotExecutable is returned by validation when the command's program cannot be found.
	ErrCommandNotExecutable = zerr.New("pre-checkout command is not executable")

	// ErrInvalidEnvPair is returned for a KEY=VALUE flag without '='.
	ErrInvalidEnvPair = zerr.New("environment entry must be KEY=VALUE")

	// ErrMalformedMessage is returned when a wire message cannot be decoded.
	ErrMalformedMessage = zerr.New("malformed wire message")
)
