package jobstore

// JobFile represents the structure of job.yaml and job.jsonc.
type JobFile struct {
	Properties []PropertyDTO `yaml:"properties" json:"properties"`
}

// PropertyDTO is one entry of a job's property list.
type PropertyDTO struct {
	Kind string `yaml:"kind" json:"kind"`
	// Enabled defaults to true for pre-checkout entries.
	Enabled  *bool             `yaml:"enabled" json:"enabled"`
	Command  string            `yaml:"command" json:"command"`
	Settings map[string]string `yaml:"settings" json:"settings"`
}
