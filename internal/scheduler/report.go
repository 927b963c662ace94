package scheduler

type outcome int

const (
	outcomeEmpty outcome = iota
	outcomeCartFailed
	outcomeEnrichFailed
	outcomeBelowThreshold
	outcomeDeclined
	outcomeNotified
	outcomeNotifyFailed
	outcomePanicked
)

func (o outcome) String() string {
	switch o {
	case outcomeEmpty:
		return "empty"
	case outcomeCartFailed:
		return "cart_failed"
	case outcomeEnrichFailed:
		return "enrich_failed"
	case outcomeBelowThreshold:
		return "below_threshold"
	case outcomeDeclined:
		return "declined"
	case outcomeNotified:
		return "notified"
	case outcomeNotifyFailed:
		return "notify_failed"
	case outcomePanicked:
		return "panicked"
	default:
		return "unknown"
	}
}

// Report counts what happened to each candidate during one tick.
type Report struct {
	TickID           string `json:"tick_id"`
	CandidatesFailed bool   `json:"candidates_failed,omitempty"`
	Users            int    `json:"users"`
	Empty            int    `json:"empty"`
	CartFailed       int    `json:"cart_failed"`
	EnrichFailed     int    `json:"enrich_failed"`
	BelowThreshold   int    `json:"below_threshold"`
	Declined         int    `json:"declined"`
	Notified         int    `json:"notified"`
	NotifyFailed     int    `json:"notify_failed"`
	Panicked         int    `json:"panicked"`
}

// Decided is the number of users that reached the decision engine.
func (r Report) Decided() int {
	return r.Declined + r.Notified + r.NotifyFailed
}

func (r *Report) add(o outcome) {
	r.Users++
	switch o {
	case outcomeEmpty:
		r.Empty++
	case outcomeCartFailed:
		r.CartFailed++
	case outcomeEnrichFailed:
		r.EnrichFailed++
	case outcomeBelowThreshold:
		r.BelowThreshold++
	case outcomeDeclined:
		r.Declined++
	case outcomeNotified:
		r.Notified++
	case outcomeNotifyFailed:
		r.NotifyFailed++
	case outcomePanicked:
		r.Panicked++
	}
}
