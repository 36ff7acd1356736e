package media

import "time"

// SortMode selects the ordering of a list query.
type SortMode string

const (
	SortNewest SortMode = "newest"
	SortOldest SortMode = "oldest"
	SortName   SortMode = "name"
	SortSize   SortMode = "size"
	SortKind   SortMode = "kind"
	SortUsage  SortMode = "usage"
)

var sortModes = map[SortMode]struct{}{
	SortNewest: {},
	SortOldest: {},
	SortName:   {},
	SortSize:   {},
	SortKind:   {},
	SortUsage:  {},
}

// IsValid reports whether m is a supported sort mode.
func (m SortMode) IsValid() bool {
	_, ok := sortModes[m]
	return ok
}

// ListFilter narrows a list query. Zero values mean "any".
type ListFilter struct {
	Kind       Kind
	Status     Status
	UploaderID string
	Tags       []string
	Search     string
	Sort       SortMode
	Limit      int
	Cursor     string
}

// ListResult is one page of records.
type ListResult struct {
	Items      []*Record
	NextCursor string
	HasNext    bool
	Total      int64
}

// StatsFilter narrows the aggregate query.
type StatsFilter struct {
	UploaderID string
	From       *time.Time
	To         *time.Time
}
