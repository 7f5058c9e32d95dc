package domain

import "path/filepath"

// LaunchSpec describes one process launch on an agent.
type LaunchSpec struct {
	// Argv is the program followed by its arguments.
	Argv []string
	// Dir is the working directory of the process.
	Dir string
	// Env is laid over the agent's own environment.
	Env map[string]string
}

// ScriptLayout describes where temporary scripts are written and how they run.
type ScriptLayout struct {
	TempDir      string
	Prefix       string
	Suffix       string
	Shell        string
	ShellOptions string
}

// DefaultScriptLayout returns the layout used when nothing is configured.
func DefaultScriptLayout() ScriptLayout {
	return ScriptLayout{
		TempDir:      DefaultTempDir,
		Prefix:       ScriptPrefix,
		Suffix:       ScriptSuffix,
		Shell:        DefaultShell,
		ShellOptions: DefaultShellOptions,
	}
}

// Launch builds the launch spec that runs the script at path with env.
// The process runs in the script's directory and addresses it by base name.
func (l ScriptLayout) Launch(path string, env map[string]string) LaunchSpec {
	argv := []string{l.Shell}
	if l.ShellOptions != "" {
		argv = append(argv, l.ShellOptions)
	}
	argv = append(argv, filepath.Base(path))

	return LaunchSpec{
		Argv: argv,
		Dir:  filepath.Dir(path),
		Env:  env,
	}
}
