package pipeline

// State is the lifecycle phase of one generation invocation. Transitions are
// strictly forward; a terminal state is never left.
type State int32

const (
	StateIdle State = iota
	StateSubmitting
	StateAwaitingResult
	StateDownloading
	StateAwaitingDownload
	StateMaterializing
	StateComplete
	StateErrored
	StateCancelled
)

var stateNames = map[State]string{
	StateIdle:             "idle",
	StateSubmitting:       "submitting",
	StateAwaitingResult:   "awaiting_result",
	StateDownloading:      "downloading",
	StateAwaitingDownload: "awaiting_download",
	StateMaterializing:    "materializing",
	StateComplete:         "complete",
	StateErrored:          "errored",
	StateCancelled:        "cancelled",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether the invocation has finished in this state.
func (s State) Terminal() bool {
	return s == StateComplete || s == StateErrored || s == StateCancelled
}
