package trigger

// Outcome is the terminal state of one controller run.
type Outcome string

const (
	OutcomeGateClosed    Outcome = "gate_closed"
	OutcomeNothingToDo   Outcome = "nothing_to_do"
	OutcomeAlreadySent   Outcome = "already_sent"
	OutcomeVideoNotFound Outcome = "video_not_found"
	OutcomeNotifyFailed  Outcome = "notify_failed"
	OutcomeSent          Outcome = "sent"
)

// Outcomes lists every outcome in pipeline order.
func Outcomes() []Outcome {
	return []Outcome{
		OutcomeGateClosed,
		OutcomeNothingToDo,
		OutcomeAlreadySent,
		OutcomeVideoNotFound,
		OutcomeNotifyFailed,
		OutcomeSent,
	}
}
