package lifecycle

import (
	"reflect"
	"testing"
	"time"

	"consulthub/models"
)

func TestReconstruct_Deterministic(t *testing.T) {
	now := time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC)
	c := models.Consultation{
		ID:               "c-1",
		ConsultationDate: "2025-03-20",
		StartTime:        "14:00",
		Status:           models.StatusConfirmed,
		PaymentStatus:    models.PaymentConfirmed,
		PaymentAmount:    499000,
		MeetingLink:      "https://meet.example.com/abc",
		CreatedAt:        time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}

	first := Reconstruct(c, now)
	second := Reconstruct(c, now)

	if !reflect.DeepEqual(first, second) {
		t.Error("Reconstruct is not deterministic for an unchanged record")
	}
	if len(first) < 1 || len(first) > 6 {
		t.Errorf("timeline length = %d, want between 1 and 6", len(first))
	}
}

func TestReconstruct_PendingHasOnlyBookingCreated(t *testing.T) {
	now := time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC)
	c := models.Consultation{
		ConsultationDate: "2025-03-20",
		StartTime:        "14:00",
		Status:           models.StatusPending,
		CreatedAt:        time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}

	entries := Reconstruct(c, now)
	if len(entries) != 1 {
		t.Fatalf("timeline length = %d, want 1", len(entries))
	}
	if entries[0].Kind != EventBookingCreated {
		t.Errorf("entry kind = %s, want %s", entries[0].Kind, EventBookingCreated)
	}
	if entries[0].Timestamp == nil || !entries[0].Timestamp.Equal(c.CreatedAt) {
		t.Error("booking created entry should carry created_at")
	}
}

func TestReconstruct_CompletedWithPayment(t *testing.T) {
	now := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	c := models.Consultation{
		ConsultationDate: "2025-03-20",
		StartTime:        "14:00",
		Status:           models.StatusCompleted,
		PaymentStatus:    models.PaymentConfirmed,
		PaymentAmount:    900000,
		CreatedAt:        time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}

	entries := Reconstruct(c, now)
	want := []TimelineEventKind{EventBookingCreated, EventPaymentConfirmed, EventConfirmed, EventCompleted}
	if len(entries) != len(want) {
		t.Fatalf("timeline length = %d, want %d", len(entries), len(want))
	}
	for i, kind := range want {
		if entries[i].Kind != kind {
			t.Errorf("entry %d kind = %s, want %s", i, entries[i].Kind, kind)
		}
	}
	if entries[1].Amount != 900000 {
		t.Errorf("payment entry amount = %d, want 900000", entries[1].Amount)
	}
}

func TestReconstruct_Cancelled(t *testing.T) {
	now := time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC)
	cancelledAt := time.Date(2025, 3, 5, 8, 0, 0, 0, time.UTC)
	c := models.Consultation{
		ConsultationDate:   "2025-03-20",
		StartTime:          "14:00",
		Status:             models.StatusCancelled,
		CancelledAt:        &cancelledAt,
		CancellationReason: "schedule conflict",
		CreatedAt:          time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}

	entries := Reconstruct(c, now)

	var sawCancelled bool
	for _, e := range entries {
		switch e.Kind {
		case EventCancelled:
			sawCancelled = true
			if e.Detail != "schedule conflict" {
				t.Errorf("cancelled entry detail = %q", e.Detail)
			}
		case EventUpcoming:
			t.Error("cancelled consultation must never carry the upcoming marker")
		case EventConfirmed:
			t.Error("cancelled consultation must not show a confirmed entry")
		}
	}
	if !sawCancelled {
		t.Error("cancelled consultation timeline is missing the cancelled entry")
	}
}

func TestReconstruct_UpcomingMarker(t *testing.T) {
	now := time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC)
	c := models.Consultation{
		ConsultationDate: "2025-03-20",
		StartTime:        "14:00",
		Status:           models.StatusConfirmed,
		MeetingLink:      "https://meet.example.com/abc",
		CreatedAt:        time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}

	entries := Reconstruct(c, now)
	last := entries[len(entries)-1]
	if last.Kind != EventUpcoming {
		t.Fatalf("last entry kind = %s, want %s", last.Kind, EventUpcoming)
	}
	if !last.Live {
		t.Error("upcoming marker must be flagged live")
	}

	// Once the date has passed the marker disappears.
	later := time.Date(2025, 3, 21, 10, 0, 0, 0, time.UTC)
	for _, e := range Reconstruct(c, later) {
		if e.Kind == EventUpcoming {
			t.Error("past confirmed consultation still carries the upcoming marker")
		}
	}
}
