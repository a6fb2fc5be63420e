package domain

import (
	"strings"
	"time"
)

// StatusName is a normalized, upper-cased lifecycle status.
type StatusName string

const (
	StatusOpen           StatusName = "OPEN"
	StatusWorkInProgress StatusName = "WORK IN PROGRESS"
	StatusInReview       StatusName = "IN REVIEW"
	StatusCompleted      StatusName = "COMPLETED"
	StatusCancelled      StatusName = "CANCELLED"
	StatusCanceled       StatusName = "CANCELED"
	StatusClosed         StatusName = "CLOSED"
)

// NormalizeStatus trims and upper-cases a raw status name.
func NormalizeStatus(raw string) StatusName {
	return StatusName(strings.ToUpper(strings.TrimSpace(raw)))
}

// StatusEvent marks the moment a ticket entered a status.
type StatusEvent struct {
	Status    StatusName `json:"status"`
	Timestamp time.Time  `json:"timestamp"`
}

// Timeline is the chronologically ordered status history of one ticket.
type Timeline []StatusEvent

// Transition is a normalized status change taken from audit history.
// FromPresent reports whether the change carried a "from" value at all; From
// is empty when that value was not a recognized status.
type Transition struct {
	From        StatusName
	FromPresent bool
	To          StatusName
	At          time.Time
	Seq         int
}
