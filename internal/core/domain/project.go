package domain

// Project identifies a job known to the host scheduler.
type Project struct {
	// Name is the unique job name.
	Name string
	// DisplayName is the human readable name. It falls back to Name when empty.
	DisplayName string
	// Parent is set for matrix sub-configurations and points at the matrix job.
	Parent *Project
}

// IsMatrixChild reports whether the project is a matrix sub-configuration.
func (p Project) IsMatrixChild() bool {
	return p.Parent != nil
}

// Label returns the display name, or the name when no display name is set.
func (p Project) Label() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Name
}

// AttemptName returns the project name that keys build attempts and cached
// properties. All sub-configurations of a matrix share their parent's display name.
func (p Project) AttemptName() string {
	if p.Parent != nil {
		return p.Parent.Label()
	}
	return p.Name
}

// PropertySource returns the project whose configuration applies to a build.
func (p Project) PropertySource() Project {
	if p.Parent != nil {
		return *p.Parent
	}
	return p
}
