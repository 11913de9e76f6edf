package entities

// Status is the per-question visitation/answer state.
type Status string

const (
	StatusNotVisited  Status = "not-visited"  // never navigated to
	StatusNotAnswered Status = "not-answered" // seen, no accepted submission
	StatusAnswered    Status = "answered"     // feedback received for the last submission
)

func (s Status) String() string {
	return string(s)
}
