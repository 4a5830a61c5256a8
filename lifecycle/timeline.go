package lifecycle

import (
	"time"

	"consulthub/models"
)

// TimelineEventKind identifies one milestone on a consultation's
// timeline.
type TimelineEventKind string

const (
	EventBookingCreated   TimelineEventKind = "booking_created"
	EventPaymentConfirmed TimelineEventKind = "payment_confirmed"
	EventConfirmed        TimelineEventKind = "confirmed"
	EventCompleted        TimelineEventKind = "completed"
	EventCancelled        TimelineEventKind = "cancelled"
	EventUpcoming         TimelineEventKind = "upcoming"
)

// TimelineEntry is one row of the reconstructed timeline. Live marks
// the pulsing "happening soon" entry, which is a present-tense marker
// rather than a historical fact.
type TimelineEntry struct {
	Kind      TimelineEventKind `json:"kind"`
	Label     string            `json:"label"`
	Timestamp *time.Time        `json:"timestamp,omitempty"`
	Detail    string            `json:"detail,omitempty"`
	Amount    int64             `json:"amount,omitempty"`
	Live      bool              `json:"live,omitempty"`
}

// Reconstruct projects a consultation's current field values into an
// ordered timeline. There is no event log behind this: the entries are
// derived, emitted in a fixed order, and the result is deterministic
// for an unchanged record. With the terminal-state transition rules a
// record can never re-enter an earlier state, so the projection cannot
// drop history it once showed.
func Reconstruct(c models.Consultation, now time.Time) []TimelineEntry {
	entries := make([]TimelineEntry, 0, 6)

	created := c.CreatedAt
	entries = append(entries, TimelineEntry{
		Kind:      EventBookingCreated,
		Label:     "Booking created",
		Timestamp: &created,
	})

	if c.PaymentStatus == models.PaymentConfirmed {
		entries = append(entries, TimelineEntry{
			Kind:   EventPaymentConfirmed,
			Label:  "Payment confirmed",
			Amount: c.PaymentAmount,
		})
	}

	if c.Status != models.StatusPending && c.Status != models.StatusCancelled {
		entries = append(entries, TimelineEntry{
			Kind:   EventConfirmed,
			Label:  "Confirmed",
			Detail: c.MeetingLink,
		})
	}

	if c.Status == models.StatusCompleted {
		entries = append(entries, TimelineEntry{
			Kind:  EventCompleted,
			Label: "Completed",
		})
	}

	if c.Status == models.StatusCancelled {
		entries = append(entries, TimelineEntry{
			Kind:      EventCancelled,
			Label:     "Cancelled",
			Timestamp: c.CancelledAt,
			Detail:    c.CancellationReason,
		})
	}

	if c.Status == models.StatusConfirmed && !dateBefore(c.ConsultationDate, now) {
		start := ScheduledStart(c, now.Location())
		entry := TimelineEntry{
			Kind:  EventUpcoming,
			Label: "Happening soon",
			Live:  true,
		}
		if !start.IsZero() {
			entry.Timestamp = &start
		}
		entries = append(entries, entry)
	}

	return entries
}
