package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"consulthub/lifecycle"
	"consulthub/middleware"
	"consulthub/models"
	"consulthub/utils"
)

// CollaborationHandler serves the artifacts attached to one
// consultation: deliverables, action items and the note thread.
type CollaborationHandler struct {
	repo  models.Repository
	kafka utils.KafkaProducer
}

func NewCollaborationHandler(repo models.Repository, kafka utils.KafkaProducer) *CollaborationHandler {
	return &CollaborationHandler{
		repo:  repo,
		kafka: kafka,
	}
}

type ToggleActionItemRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

type NoteRequest struct {
	Content    string            `json:"content" binding:"required,min=1,max=5000"`
	AuthorType models.NoteAuthor `json:"author_type" binding:"omitempty,oneof=client consultant system"`
}

func (h *CollaborationHandler) ListDeliverables(c *gin.Context) {
	consultationID, ok := h.resolveConsultation(c)
	if !ok {
		return
	}

	deliverables, err := h.repo.ListDeliverables(consultationID)
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load deliverables"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deliverables": deliverables})
}

// ListActionItems returns the tasks due-date ascending (undated last)
// plus the outstanding count for the badge. The count is derived
// fresh on every call.
func (h *CollaborationHandler) ListActionItems(c *gin.Context) {
	consultationID, ok := h.resolveConsultation(c)
	if !ok {
		return
	}

	items, err := h.repo.ListActionItems(consultationID)
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load action items"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"action_items": items,
		"outstanding":  lifecycle.OutstandingActionItems(items),
	})
}

// ToggleActionItem flips a task between completed and pending.
// Authorization is the record store's row policy, not ours.
func (h *CollaborationHandler) ToggleActionItem(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "action item ID is required"})
		return
	}

	var req ToggleActionItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.repo.GetActionItemByID(id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "action item not found"})
			return
		}
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load action item"})
		return
	}

	now := time.Now()
	if err := h.repo.UpdateActionItem(id, lifecycle.ToggleActionItemFields(*req.Completed, now)); err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update action item"})
		return
	}

	if h.kafka != nil {
		go h.sendCollaborationEvent("action_item_toggled", map[string]interface{}{
			"id":              item.ID,
			"consultation_id": item.ConsultationID,
			"completed":       *req.Completed,
		})
	}

	c.Status(http.StatusNoContent)
}

func (h *CollaborationHandler) ListNotes(c *gin.Context) {
	consultationID, ok := h.resolveConsultation(c)
	if !ok {
		return
	}

	notes, err := h.repo.ListNotes(consultationID)
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load notes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notes": notes})
}

// AddNote appends to the discussion thread. Notes are never edited or
// deleted afterwards.
func (h *CollaborationHandler) AddNote(c *gin.Context) {
	consultationID, ok := h.resolveConsultation(c)
	if !ok {
		return
	}

	var req NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	authorType := req.AuthorType
	if authorType == "" {
		authorType = models.AuthorClient
	}

	note := &models.Note{
		ConsultationID: consultationID,
		Content:        req.Content,
		AuthorType:     authorType,
	}

	if err := h.repo.CreateNote(note); err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add note"})
		return
	}

	if h.kafka != nil {
		go h.sendCollaborationEvent("note_added", map[string]interface{}{
			"id":              note.ID,
			"consultation_id": note.ConsultationID,
			"author_type":     note.AuthorType,
		})
	}

	c.JSON(http.StatusCreated, note)
}

// resolveConsultation validates the :id parent and the caller's claim
// on it before any child collection is touched.
func (h *CollaborationHandler) resolveConsultation(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "consultation ID is required"})
		return "", false
	}

	consultation, err := h.repo.GetConsultationByID(id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "consultation not found"})
			return "", false
		}
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load consultation"})
		return "", false
	}

	if email := c.GetString(middleware.UserEmailKey); email != "" && consultation.ClientEmail != email {
		c.JSON(http.StatusNotFound, gin.H{"error": "consultation not found"})
		return "", false
	}

	return consultation.ID, true
}

func (h *CollaborationHandler) sendCollaborationEvent(eventType string, payload map[string]interface{}) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	payload["event"] = eventType
	jsonData, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal Kafka event: %v", err)
		return
	}

	if err := h.kafka.SendMessage(ctx, utils.ConsultationEventsTopic, nil, jsonData); err != nil {
		log.Printf("Failed to send Kafka message: %v", err)
	}
}

func parseInt(s string) (int, error) {
	var n int
	_, err := fmt.Sscanf(s, "%d", &n)
	return n, err
}
