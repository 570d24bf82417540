package connection

// State is the lifecycle position of the process-wide database connection.
type State int32

const (
	Disconnected State = iota
	Connecting
	Connected
	Failed
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// canTransition encodes the allowed edges:
// Disconnected -> Connecting, Failed -> Connecting, Connecting -> {Connected, Failed}.
func canTransition(from, to State) bool {
	switch to {
	case Connecting:
		return from == Disconnected || from == Failed
	case Connected, Failed:
		return from == Connecting
	default:
		return false
	}
}
