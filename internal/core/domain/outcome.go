package domain

// Outcome reports what a pre-checkout set-up call did.
type Outcome int

const (
	// OutcomeNoExecutor means no executor could be resolved for the build.
	OutcomeNoExecutor Outcome = iota
	// OutcomeDuplicate means the attempt was already handled by an earlier call.
	OutcomeDuplicate
	// OutcomeNotConfigured means no property snapshot was available.
	OutcomeNotConfigured
	// OutcomeDisabled means the project has no enabled pre-checkout command.
	OutcomeDisabled
	// OutcomeMisconfiguredAxes means the matrix axes could not be parsed.
	OutcomeMisconfiguredAxes
	// OutcomeRefused means dispatch was refused because the target was the controller.
	OutcomeRefused
	// OutcomeFailed means the command could not be launched or its transport failed.
	OutcomeFailed
	// OutcomeExecuted means the command ran to completion. Check ExitCode.
	OutcomeExecuted
)

var outcomeNames = map[Outcome]string{
	OutcomeNoExecutor:        "no-executor",
	OutcomeDuplicate:         "duplicate",
	OutcomeNotConfigured:     "not-configured",
	OutcomeDisabled:          "disabled",
	OutcomeMisconfiguredAxes: "misconfigured-axes",
	OutcomeRefused:           "refused",
	OutcomeFailed:            "failed",
	OutcomeExecuted:          "executed",
}

// String returns the stable name of the outcome.
func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return "unknown"
}

// ParseOutcome is the inverse of Outcome.String.
func ParseOutcome(s string) (Outcome, bool) {
	for o, name := range outcomeNames {
		if name == s {
			return o, true
		}
	}
	return 0, false
}

// SetUpResult is the result of one set-up call.
type SetUpResult struct {
	Outcome Outcome
	// ExitCode is only meaningful for OutcomeExecuted.
	ExitCode int
}
