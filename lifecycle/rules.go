// Package lifecycle holds the pure rules governing a consultation's
// state transitions, its modification window and its derived timeline.
// Nothing here touches the record store.
package lifecycle

import (
	"errors"
	"time"

	"consulthub/models"
)

// ErrModificationWindowClosed is returned when a cancel or reschedule
// is attempted less than 24 hours before the scheduled start. Handlers
// translate it into a specific user-facing message rather than a
// generic write failure.
var ErrModificationWindowClosed = errors.New("modification window closed")

// ModificationWindow is the minimum lead time before a confirmed
// consultation during which it can still be cancelled or rescheduled.
const ModificationWindow = 24 * time.Hour

var legalTransitions = map[models.ConsultationStatus][]models.ConsultationStatus{
	models.StatusPending:   {models.StatusConfirmed, models.StatusCancelled},
	models.StatusConfirmed: {models.StatusCompleted, models.StatusCancelled, models.StatusNoShow},
}

// CanTransition reports whether a status change is legal. Completed,
// cancelled and no_show are terminal.
func CanTransition(from, to models.ConsultationStatus) bool {
	for _, s := range legalTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ScheduledStart combines the consultation's date and start time in
// the given location. A zero time is returned for malformed fields.
func ScheduledStart(c models.Consultation, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", c.ConsultationDate+" "+c.StartTime, loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

// CanModify reports whether the consultation can still be cancelled or
// rescheduled: it must be confirmed and start strictly more than 24
// hours after now. One rule covers both affordances.
func CanModify(c models.Consultation, now time.Time) bool {
	if c.Status != models.StatusConfirmed {
		return false
	}
	start := ScheduledStart(c, now.Location())
	if start.IsZero() {
		return false
	}
	return start.Sub(now) > ModificationWindow
}

// Bucket is a display grouping for the consultation list.
type Bucket string

const (
	BucketUpcoming  Bucket = "upcoming"
	BucketCompleted Bucket = "completed"
	BucketCancelled Bucket = "cancelled"
	BucketAll       Bucket = "all"
)

// ParseBucket maps a tab query parameter onto a Bucket, defaulting to
// BucketUpcoming.
func ParseBucket(s string) Bucket {
	switch Bucket(s) {
	case BucketCompleted, BucketCancelled, BucketAll:
		return Bucket(s)
	default:
		return BucketUpcoming
	}
}

// Classify assigns the consultation to exactly one bucket. Past
// consultations that were neither completed nor cancelled (a pending
// booking that lapsed, a no-show) fall through to BucketAll and only
// appear on the "all" tab.
func Classify(c models.Consultation, now time.Time) Bucket {
	switch c.Status {
	case models.StatusCancelled:
		return BucketCancelled
	case models.StatusCompleted:
		return BucketCompleted
	}
	if !dateBefore(c.ConsultationDate, now) {
		return BucketUpcoming
	}
	return BucketAll
}

// Matches reports whether the consultation belongs on the given tab.
// BucketAll matches every consultation.
func Matches(c models.Consultation, b Bucket, now time.Time) bool {
	if b == BucketAll {
		return true
	}
	return Classify(c, now) == b
}

// Cancel validates and builds the partial update a cancellation writes
// to the record store. The window is checked here, against the caller's
// now, so a submission from stale UI state fails with
// ErrModificationWindowClosed before any write is attempted.
// Cancellation never deletes the row.
func Cancel(c models.Consultation, reason string, now time.Time) (map[string]any, error) {
	if !CanModify(c, now) {
		return nil, ErrModificationWindowClosed
	}
	return CancelFields(reason, now), nil
}

// CancelFields is the raw field set for a cancellation, for callers
// that have already established the transition is legal.
func CancelFields(reason string, now time.Time) map[string]any {
	return map[string]any{
		"status":              models.StatusCancelled,
		"cancelled_at":        now,
		"cancellation_reason": reason,
	}
}

// CalculateEndTime derives the HH:MM end time from a start time and a
// duration in minutes, wrapping past midnight.
func CalculateEndTime(startTime string, durationMinutes int) string {
	t, err := time.Parse("15:04", startTime)
	if err != nil {
		return ""
	}
	return t.Add(time.Duration(durationMinutes) * time.Minute).Format("15:04")
}

// dateBefore reports whether the YYYY-MM-DD date is strictly before
// today in now's location. Malformed dates count as past.
func dateBefore(date string, now time.Time) bool {
	d, err := time.ParseInLocation("2006-01-02", date, now.Location())
	if err != nil {
		return true
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return d.Before(today)
}
