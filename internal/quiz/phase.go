package quiz

// Phase is the state of a quiz attempt.
type Phase int

const (
	PhaseLoading      Phase = iota // Waiting for questions
	PhaseReady                     // Question shown, nothing selected yet
	PhaseAnswering                 // An option is pending
	PhaseAnswerLocked              // Answer evaluated, feedback shown
	PhaseFinished                  // Past the last question
	PhaseExhausted                 // Out of hearts
	PhaseAborted                   // Loading failed or the learner left
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseAnswering:
		return "answering"
	case PhaseAnswerLocked:
		return "answer-locked"
	case PhaseFinished:
		return "finished"
	case PhaseExhausted:
		return "exhausted"
	case PhaseAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transitions are possible.
func (p Phase) Terminal() bool {
	return p == PhaseFinished || p == PhaseExhausted || p == PhaseAborted
}
