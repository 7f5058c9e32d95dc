package domain

// PropertyKind tags the variant carried by a Property.
type PropertyKind string

// KindPreCheckout marks a property that carries a pre-checkout command.
const KindPreCheckout PropertyKind = "pre-checkout"

// CommandConfig is the operator-supplied pre-checkout command of a project.
type CommandConfig struct {
	Enabled bool
	Command string
}

// Property is one entry of a project's configuration collection.
// Only KindPreCheckout entries carry a Command; any other kind is opaque and
// keeps its raw settings.
type Property struct {
	Kind     PropertyKind
	Command  *CommandConfig
	Settings map[string]string
}

// PropertySnapshot is the ordered configuration collection of a project at one
// point in time. An empty snapshot means the project was never saved.
type PropertySnapshot struct {
	Properties []Property
}

// IsEmpty reports whether the snapshot carries no properties.
func (s PropertySnapshot) IsEmpty() bool {
	return len(s.Properties) == 0
}

// PreCheckout returns the first enabled pre-checkout command in the snapshot.
func (s PropertySnapshot) PreCheckout() (CommandConfig, bool) {
	for _, p := range s.Properties {
		if p.Kind != KindPreCheckout || p.Command == nil {
			continue
		}
		if p.Command.Enabled {
			return *p.Command, true
		}
	}
	return CommandConfig{}, false
}
