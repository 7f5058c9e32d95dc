package domain

// BuildAttemptKey identifies one logical build attempt: a project running on
// one executor slot. It is comparable and used directly as a map key.
type BuildAttemptKey struct {
	Project  string
	Executor string
}

// String returns a human readable form of the key.
func (k BuildAttemptKey) String() string {
	return k.Project + "@" + k.Executor
}

// Executor is an executor slot on a node together with the build it is running.
type Executor struct {
	Name    string
	BuildID string
}
