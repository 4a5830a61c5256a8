// Package schedule computes bookable time slots for a given day from
// weekly availability windows and already-booked consultations.
package schedule

import (
	"errors"
	"sort"
	"time"

	"consulthub/models"
)

var ErrInvalidDate = errors.New("invalid date")

// Window is one bookable span within a day, in minutes from midnight.
type Window struct {
	StartTime string // HH:MM
	EndTime   string // HH:MM
}

// DefaultAvailability mirrors the consultant's standard week:
// Mon-Fri 09:00-12:00 and 14:00-18:00, Sat mornings, Sun closed.
var DefaultAvailability = map[time.Weekday][]Window{
	time.Monday:    {{"09:00", "12:00"}, {"14:00", "18:00"}},
	time.Tuesday:   {{"09:00", "12:00"}, {"14:00", "18:00"}},
	time.Wednesday: {{"09:00", "12:00"}, {"14:00", "18:00"}},
	time.Thursday:  {{"09:00", "12:00"}, {"14:00", "18:00"}},
	time.Friday:    {{"09:00", "12:00"}, {"14:00", "18:00"}},
	time.Saturday:  {{"09:00", "12:00"}},
}

// Slot is one offered start time. Taken slots are still returned so
// the booking UI can render them disabled.
type Slot struct {
	Time      string `json:"time"` // HH:MM
	Available bool   `json:"available"`
}

const (
	slotStepMinutes = 30
	// Same-day bookings need at least an hour of lead time.
	sameDayLeadMinutes = 60
)

// AvailableSlots generates the slots of length durationMinutes for the
// given date. Slots overlapping a pending or confirmed consultation
// are marked unavailable; past dates yield no slots at all.
func AvailableSlots(
	date string,
	durationMinutes int,
	availability map[time.Weekday][]Window,
	existing []models.Consultation,
	now time.Time,
) ([]Slot, error) {
	day, err := time.ParseInLocation("2006-01-02", date, now.Location())
	if err != nil {
		return nil, ErrInvalidDate
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if day.Before(today) {
		return []Slot{}, nil
	}

	if availability == nil {
		availability = DefaultAvailability
	}
	windows := availability[day.Weekday()]
	if len(windows) == 0 {
		return []Slot{}, nil
	}

	isToday := day.Equal(today)
	nowMinutes := now.Hour()*60 + now.Minute()

	type span struct{ start, end int }
	booked := make([]span, 0, len(existing))
	for _, c := range existing {
		if c.Status != models.StatusPending && c.Status != models.StatusConfirmed {
			continue
		}
		s, okS := minutesOfDay(c.StartTime)
		e, okE := minutesOfDay(c.EndTime)
		if okS && okE {
			booked = append(booked, span{s, e})
		}
	}

	var slots []Slot
	for _, w := range windows {
		winStart, okS := minutesOfDay(w.StartTime)
		winEnd, okE := minutesOfDay(w.EndTime)
		if !okS || !okE {
			continue
		}

		for t := winStart; t+durationMinutes <= winEnd; t += slotStepMinutes {
			if isToday && t <= nowMinutes+sameDayLeadMinutes {
				continue
			}

			end := t + durationMinutes
			available := true
			for _, b := range booked {
				// Half-open interval overlap.
				if t < b.end && end > b.start {
					available = false
					break
				}
			}

			slots = append(slots, Slot{Time: formatMinutes(t), Available: available})
		}
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i].Time < slots[j].Time })
	return slots, nil
}

func minutesOfDay(hhmm string) (int, bool) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

func formatMinutes(m int) string {
	return time.Date(2000, 1, 1, m/60, m%60, 0, 0, time.UTC).Format("15:04")
}
