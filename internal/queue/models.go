package queue

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a ledger item.
type Status string

const (
	StatusPending   Status = "pending"
	StatusFetching  Status = "fetching"
	StatusFetched   Status = "fetched"
	StatusSplitting Status = "splitting"
	StatusCataloged Status = "cataloged"
	StatusFailed    Status = "failed"
)

var allStatuses = []Status{
	StatusPending,
	StatusFetching,
	StatusFetched,
	StatusSplitting,
	StatusCataloged,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

var processingStatuses = map[Status]struct{}{
	StatusFetching:  {},
	StatusSplitting: {},
}

// Item represents one URL tracked in the batch ledger.
type Item struct {
	ID           int64
	URL          string
	Status       Status
	RunID        string
	Attempts     int
	ErrorMessage string
	ParentFile   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsProcessing reports whether the status reflects an in-flight operation.
// Items left in a processing state belong to a run that stopped mid-flight.
func (i Item) IsProcessing() bool {
	_, ok := processingStatuses[i.Status]
	return ok
}

// IsTerminal reports whether the item reached an end state. Fetched counts
// as terminal only for parent-only runs, which never advance past it.
func (s Status) IsTerminal() bool {
	return s == StatusCataloged || s == StatusFailed
}

// SetFailed marks the item as failed with the given error message.
func (i *Item) SetFailed(message string) {
	i.Status = StatusFailed
	i.ErrorMessage = message
}
