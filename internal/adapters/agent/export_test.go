package agent

// MergeEnvExported exposes mergeEnv for testing.
func MergeEnvExported(base []string, overlay map[string]string) []string {
	return mergeEnv(base, overlay)
}
