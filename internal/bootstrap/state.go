package bootstrap

// State is the lifecycle position of an Application.
type State int

const (
	StateUninitialized State = iota
	StateWindowReady
	StateInstanceReady
	StateDiagnosticsReady
	StateRunning
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateWindowReady:
		return "window-ready"
	case StateInstanceReady:
		return "instance-ready"
	case StateDiagnosticsReady:
		return "diagnostics-ready"
	case StateRunning:
		return "running"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}
