package player

// State is the playback state of a session. Exactly one state holds at any
// instant, and transitions only happen on the session's command loop.
type State int

const (
	StateDisconnected State = iota
	StateConnectedIdle
	StatePlaying
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnectedIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	}
	return "unknown"
}
