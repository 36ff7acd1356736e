package media

// Status represents the lifecycle status of a media record.
type Status string

const (
	StatusUploading  Status = "uploading"
	StatusProcessing Status = "processing"
	StatusReady      Status = "ready"
	StatusFailed     Status = "failed"
)

// ValidTransitions defines allowed status transitions.
// failed -> ready exists only for explicit updates; nothing moves a record there automatically.
var ValidTransitions = map[Status][]Status{
	StatusUploading:  {StatusProcessing, StatusReady, StatusFailed},
	StatusProcessing: {StatusReady, StatusFailed},
	StatusReady:      {StatusFailed},
	StatusFailed:     {StatusReady},
}

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	_, ok := ValidTransitions[s]
	return ok
}

// IsStale reports whether a record in this status is a sweep candidate.
func (s Status) IsStale() bool {
	return s == StatusUploading || s == StatusFailed
}

func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if a transition from current status to target status is valid.
// Same-state transitions are treated as no-ops and allowed.
func (s Status) CanTransitionTo(target Status) bool {
	if s == target {
		return s.IsValid()
	}
	for _, t := range ValidTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// StaleStatuses lists the statuses the cleanup sweep reclaims.
func StaleStatuses() []Status {
	return []Status{StatusUploading, StatusFailed}
}
