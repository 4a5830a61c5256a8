package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"consulthub/models"
)

func seedActionItem(t *testing.T, db *gorm.DB, item models.ActionItem) models.ActionItem {
	t.Helper()
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("seed action item: %v", err)
	}
	return item
}

func TestListActionItems_OrderAndOutstanding(t *testing.T) {
	db := openTestDB(t)
	router := newTestRouter(models.NewRepositoryWithDB(db))

	c := seedConsultation(t, db, models.Consultation{
		ConsultationDate: "2025-06-02",
		StartTime:        "10:00",
		EndTime:          "11:00",
		DurationMinutes:  60,
		Status:           models.StatusCompleted,
	})

	later := time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)
	sooner := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	done := time.Date(2025, 6, 5, 12, 0, 0, 0, time.UTC)

	seedActionItem(t, db, models.ActionItem{ConsultationID: c.ID, Title: "no due date", Priority: models.PriorityLow, Status: models.ActionPending, AssignedTo: models.AssigneeClient})
	seedActionItem(t, db, models.ActionItem{ConsultationID: c.ID, Title: "due later", DueDate: &later, Priority: models.PriorityMedium, Status: models.ActionInProgress, AssignedTo: models.AssigneeBoth})
	seedActionItem(t, db, models.ActionItem{ConsultationID: c.ID, Title: "due sooner", DueDate: &sooner, Priority: models.PriorityHigh, Status: models.ActionCompleted, AssignedTo: models.AssigneeClient, CompletedAt: &done})

	w := doRequest(router, http.MethodGet, "/api/v1/consultations/"+c.ID+"/action-items", nil, testEmail)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		ActionItems []models.ActionItem `json:"action_items"`
		Outstanding int                 `json:"outstanding"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if len(resp.ActionItems) != 3 {
		t.Fatalf("got %d items, want 3", len(resp.ActionItems))
	}
	wantOrder := []string{"due sooner", "due later", "no due date"}
	for i, title := range wantOrder {
		if resp.ActionItems[i].Title != title {
			t.Errorf("item %d = %q, want %q", i, resp.ActionItems[i].Title, title)
		}
	}
	if resp.Outstanding != 2 {
		t.Errorf("outstanding = %d, want 2", resp.Outstanding)
	}
}

func TestToggleActionItem(t *testing.T) {
	db := openTestDB(t)
	router := newTestRouter(models.NewRepositoryWithDB(db))

	c := seedConsultation(t, db, models.Consultation{
		ConsultationDate: "2025-06-02",
		StartTime:        "10:00",
		EndTime:          "11:00",
		DurationMinutes:  60,
		Status:           models.StatusCompleted,
	})
	item := seedActionItem(t, db, models.ActionItem{
		ConsultationID: c.ID,
		Title:          "send follow-up questions",
		Priority:       models.PriorityMedium,
		Status:         models.ActionPending,
		AssignedTo:     models.AssigneeClient,
	})

	completed := true
	w := doRequest(router, http.MethodPatch, "/api/v1/action-items/"+item.ID,
		ToggleActionItemRequest{Completed: &completed}, testEmail)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var stored models.ActionItem
	if err := db.First(&stored, "id = ?", item.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Status != models.ActionCompleted {
		t.Errorf("status = %s, want completed", stored.Status)
	}
	if stored.CompletedAt == nil {
		t.Error("completed_at not set after completing")
	}

	// Toggling back reopens the task and clears the timestamp.
	completed = false
	w = doRequest(router, http.MethodPatch, "/api/v1/action-items/"+item.ID,
		ToggleActionItemRequest{Completed: &completed}, testEmail)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d", w.Code)
	}

	stored = models.ActionItem{} // gorm leaves stale pointer fields when scanning NULL into a reused struct
	if err := db.First(&stored, "id = ?", item.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Status != models.ActionPending {
		t.Errorf("status = %s, want pending", stored.Status)
	}
	if stored.CompletedAt != nil {
		t.Errorf("completed_at = %v, want cleared", stored.CompletedAt)
	}
}

func TestToggleActionItem_NotFound(t *testing.T) {
	db := openTestDB(t)
	router := newTestRouter(models.NewRepositoryWithDB(db))

	completed := true
	w := doRequest(router, http.MethodPatch, "/api/v1/action-items/"+uuid.NewString(),
		ToggleActionItemRequest{Completed: &completed}, testEmail)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestNotes_AppendAndList(t *testing.T) {
	db := openTestDB(t)
	router := newTestRouter(models.NewRepositoryWithDB(db))

	c := seedConsultation(t, db, models.Consultation{
		ConsultationDate: "2025-06-02",
		StartTime:        "10:00",
		EndTime:          "11:00",
		DurationMinutes:  60,
		Status:           models.StatusConfirmed,
	})

	w := doRequest(router, http.MethodPost, "/api/v1/consultations/"+c.ID+"/notes",
		NoteRequest{Content: "Looking forward to the session"}, testEmail)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var created models.Note
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.AuthorType != models.AuthorClient {
		t.Errorf("author_type = %s, want client by default", created.AuthorType)
	}

	w = doRequest(router, http.MethodPost, "/api/v1/consultations/"+c.ID+"/notes",
		NoteRequest{Content: "Agenda attached", AuthorType: models.AuthorConsultant}, testEmail)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d", w.Code)
	}

	w = doRequest(router, http.MethodGet, "/api/v1/consultations/"+c.ID+"/notes", nil, testEmail)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		Notes []models.Note `json:"notes"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Notes) != 2 {
		t.Fatalf("got %d notes, want 2", len(resp.Notes))
	}
	// Oldest first.
	if resp.Notes[0].Content != "Looking forward to the session" {
		t.Errorf("first note = %q, want the earliest", resp.Notes[0].Content)
	}
}

func TestNotes_EmptyContentRejected(t *testing.T) {
	db := openTestDB(t)
	router := newTestRouter(models.NewRepositoryWithDB(db))

	c := seedConsultation(t, db, models.Consultation{
		ConsultationDate: "2025-06-02",
		StartTime:        "10:00",
		EndTime:          "11:00",
		DurationMinutes:  60,
		Status:           models.StatusConfirmed,
	})

	w := doRequest(router, http.MethodPost, "/api/v1/consultations/"+c.ID+"/notes",
		NoteRequest{Content: ""}, testEmail)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestListDeliverables(t *testing.T) {
	db := openTestDB(t)
	router := newTestRouter(models.NewRepositoryWithDB(db))

	c := seedConsultation(t, db, models.Consultation{
		ConsultationDate: "2025-06-02",
		StartTime:        "10:00",
		EndTime:          "11:00",
		DurationMinutes:  60,
		Status:           models.StatusCompleted,
	})

	d := models.Deliverable{
		ID:             uuid.NewString(),
		ConsultationID: c.ID,
		Title:          "Process analysis report",
		FileURL:        "https://files.example.com/report.pdf",
		FileType:       "pdf",
		Category:       "report",
	}
	if err := db.Create(&d).Error; err != nil {
		t.Fatalf("seed deliverable: %v", err)
	}

	w := doRequest(router, http.MethodGet, "/api/v1/consultations/"+c.ID+"/deliverables", nil, testEmail)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		Deliverables []models.Deliverable `json:"deliverables"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Deliverables) != 1 || resp.Deliverables[0].Title != "Process analysis report" {
		t.Errorf("deliverables = %+v", resp.Deliverables)
	}
}

func TestCollaboration_ParentOwnership(t *testing.T) {
	db := openTestDB(t)
	router := newTestRouter(models.NewRepositoryWithDB(db))

	c := seedConsultation(t, db, models.Consultation{
		ClientEmail:      "other@example.com",
		ConsultationDate: "2025-06-02",
		StartTime:        "10:00",
		EndTime:          "11:00",
		DurationMinutes:  60,
		Status:           models.StatusConfirmed,
	})

	for _, path := range []string{
		"/api/v1/consultations/" + c.ID + "/deliverables",
		"/api/v1/consultations/" + c.ID + "/action-items",
		"/api/v1/consultations/" + c.ID + "/notes",
	} {
		w := doRequest(router, http.MethodGet, path, nil, testEmail)
		if w.Code != http.StatusNotFound {
			t.Errorf("%s: status = %d, want 404", path, w.Code)
		}
	}
}
