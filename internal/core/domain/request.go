package domain

// BuildRequest is the wire description of one pre-checkout hook invocation.
type BuildRequest struct {
	BuildID     string
	DisplayName string
	Project     Project
	// Executor is empty when the host could not name the executor slot.
	Executor        string
	OneOffExecutors []Executor
	Environment     map[string]string
	// NodeName is the display name of the node the build is assigned to.
	NodeName string
	// AgentAddress is the gRPC target of the node's agent daemon.
	// LocalAgent selects an in-process agent instead.
	AgentAddress string
}

// LocalAgent is the agent address that selects the in-process agent.
const LocalAgent = "local"
