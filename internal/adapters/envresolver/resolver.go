// Package envresolver computes the environment a pre-checkout script runs with.
package envresolver

import (
	"maps"
	"strings"

	"go.trai.ch/precheckout/internal/core/domain"
	"go.trai.ch/precheckout/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.EnvironmentResolver = (*Resolver)(nil)

// Resolver implements ports.EnvironmentResolver.
type Resolver struct{}

// New creates a Resolver.
func New() *Resolver {
	return &Resolver{}
}

// Resolve returns a copy of buildEnv. For matrix sub-configurations the axis
// assignments encoded after the first '/' of JOB_NAME
// ("parent/axis1=v1,axis2=v2") are added, replacing variables of the same name.
func (r *Resolver) Resolve(buildEnv map[string]string, matrixChild bool) (map[string]string, error) {
	env := make(map[string]string, len(buildEnv))
	maps.Copy(env, buildEnv)

	if !matrixChild {
		return env, nil
	}

	axes, err := ParseAxes(buildEnv[domain.JobNameVar])
	if err != nil {
		return nil, err
	}
	maps.Copy(env, axes)

	return env, nil
}

// ParseAxes extracts the axis assignments from a matrix job name.
// Only the first '=' of a segment splits, so values may contain '='.
func ParseAxes(jobName string) (map[string]string, error) {
	if jobName == "" {
		return nil, zerr.With(zerr.Wrap(domain.ErrMalformedAxis, "job name is empty"), "variable", domain.JobNameVar)
	}

	_, combination, ok := strings.Cut(jobName, "/")
	if !ok || combination == "" {
		return nil, zerr.With(zerr.Wrap(domain.ErrMalformedAxis, "job name has no axis combination"), "job_name", jobName)
	}

	axes := make(map[string]string)
	for segment := range strings.SplitSeq(combination, ",") {
		name, value, ok := strings.Cut(segment, "=")
		if !ok || name == "" {
			err := zerr.Wrap(domain.ErrMalformedAxis, "axis segment is not name=value")
			err = zerr.With(err, "segment", segment)
			return nil, zerr.With(err, "job_name", jobName)
		}
		axes[name] = value
	}

	return axes, nil
}
