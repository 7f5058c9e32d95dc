package domain

import "fmt"

// Console messages are part of the observable contract with build logs.

// MsgWillExecute announces the command before dispatch.
func MsgWillExecute(command string) string {
	return fmt.Sprintf("Will execute shell command '%s' (with variable replacement) before checkout starts.", command)
}

// MsgAboutToLaunch announces the launch on the target node.
func MsgAboutToLaunch(node string) string {
	return "About to launch pre-checkout script on node: " + node
}

// MsgExitCode reports the exit code of the script.
func MsgExitCode(code int) string {
	return fmt.Sprintf("Exit code from pre-checkout shell command is %d", code)
}

// MsgNotConfigured tells the operator to persist the project configuration once.
const MsgNotConfigured = "Pre-checkout shell command is not set up. Go to the project and click Save once."

// MsgMisconfiguredAxes tells the operator the matrix axes could not be read.
const MsgMisconfiguredAxes = "Pre-checkout shell command skipped: matrix axes in the job name are malformed."

// MsgRefused tells the operator the command was not run on the controller.
const MsgRefused = "Pre-checkout shell command refused: the build is assigned to the controller."
