package ports

// EnvironmentResolver computes the variables a pre-checkout script runs with.
//
//go:generate mockgen -source=environment.go -destination=mocks/mock_environment.go -package=mocks
type EnvironmentResolver interface {
	// Resolve returns the effective environment of a build. For matrix
	// sub-configurations the axis values encoded in the job name are added.
	Resolve(buildEnv map[string]string, matrixChild bool) (map[string]string, error)
}
