package lifecycle

import (
	"time"

	"consulthub/models"
)

// ToggleActionItemFields is the partial update for marking an action
// item done or reopening it. Re-opening clears completed_at back to
// NULL so the invariant "completed_at set iff completed" holds.
func ToggleActionItemFields(completed bool, now time.Time) map[string]any {
	if completed {
		return map[string]any{
			"status":       models.ActionCompleted,
			"completed_at": now,
		}
	}
	return map[string]any{
		"status":       models.ActionPending,
		"completed_at": nil,
	}
}

// OutstandingActionItems counts items not yet completed. The badge in
// the client UI shows this; it is recomputed on every fetch, never
// cached.
func OutstandingActionItems(items []models.ActionItem) int {
	n := 0
	for _, item := range items {
		if item.Status != models.ActionCompleted {
			n++
		}
	}
	return n
}
