package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"consulthub/lifecycle"
	"consulthub/middleware"
	"consulthub/models"
	"consulthub/monitoring"
	"consulthub/schedule"
	"consulthub/utils"
)

type ConsultationHandler struct {
	repo  models.Repository
	kafka utils.KafkaProducer
	cache utils.RedisClient
	es    utils.ElasticsearchClient
}

func NewConsultationHandler(
	repo models.Repository,
	kafka utils.KafkaProducer,
	cache utils.RedisClient,
	es utils.ElasticsearchClient,
) *ConsultationHandler {
	return &ConsultationHandler{
		repo:  repo,
		kafka: kafka,
		cache: cache,
		es:    es,
	}
}

type BookingRequest struct {
	ClientName       string `json:"client_name" binding:"required,min=2,max=100"`
	ClientEmail      string `json:"client_email" binding:"required,email"`
	ClientPhone      string `json:"client_phone" binding:"omitempty,max=20"`
	ConsultationDate string `json:"consultation_date" binding:"required"` // YYYY-MM-DD
	StartTime        string `json:"start_time" binding:"required"`        // HH:MM
	DurationMinutes  int    `json:"duration_minutes" binding:"required,min=15,max=240"`
	ConsultationType string `json:"consultation_type" binding:"omitempty,max=100"`
	Notes            string `json:"notes" binding:"omitempty,max=2000"`
}

type CancelRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=2000"`
}

// ListConsultations returns the caller's consultations for one tab
// (upcoming, completed, cancelled or all).
func (h *ConsultationHandler) ListConsultations(c *gin.Context) {
	email := c.GetString(middleware.UserEmailKey)
	bucket := lifecycle.ParseBucket(c.Query("tab"))

	consultations, err := h.repo.ListConsultationsByClientEmail(email)
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load consultations"})
		return
	}

	now := time.Now()
	filtered := make([]models.Consultation, 0, len(consultations))
	for _, consultation := range consultations {
		if lifecycle.Matches(consultation, bucket, now) {
			filtered = append(filtered, consultation)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"tab":           bucket,
		"consultations": filtered,
	})
}

// GetStats backs the overview cards: total, upcoming and completed
// counts for the caller.
func (h *ConsultationHandler) GetStats(c *gin.Context) {
	email := c.GetString(middleware.UserEmailKey)

	consultations, err := h.repo.ListConsultationsByClientEmail(email)
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load consultations"})
		return
	}

	now := time.Now()
	upcoming, completed := 0, 0
	for _, consultation := range consultations {
		switch lifecycle.Classify(consultation, now) {
		case lifecycle.BucketUpcoming:
			upcoming++
		case lifecycle.BucketCompleted:
			completed++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"total":     len(consultations),
		"upcoming":  upcoming,
		"completed": completed,
	})
}

func (h *ConsultationHandler) GetConsultation(c *gin.Context) {
	consultation, ok := h.loadOwnConsultation(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, consultation)
}

// GetTimeline reconstructs the milestone timeline from the
// consultation's current fields.
func (h *ConsultationHandler) GetTimeline(c *gin.Context) {
	consultation, ok := h.loadOwnConsultation(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"consultation_id": consultation.ID,
		"timeline":        lifecycle.Reconstruct(*consultation, time.Now()),
	})
}

// CreateConsultation books a new pending consultation. Confirmation
// and payment are driven by the consultant side.
func (h *ConsultationHandler) CreateConsultation(c *gin.Context) {
	var req BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	endTime := lifecycle.CalculateEndTime(req.StartTime, req.DurationMinutes)
	if endTime == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_time format, expected HH:MM"})
		return
	}

	consultation := &models.Consultation{
		ClientName:       req.ClientName,
		ClientEmail:      req.ClientEmail,
		ClientPhone:      req.ClientPhone,
		ConsultationDate: req.ConsultationDate,
		StartTime:        req.StartTime,
		EndTime:          endTime,
		DurationMinutes:  req.DurationMinutes,
		Status:           models.StatusPending,
		ConsultationType: req.ConsultationType,
		Notes:            req.Notes,
	}

	if err := h.repo.CreateConsultation(consultation); err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create consultation"})
		return
	}

	if h.kafka != nil {
		go h.sendConsultationEvent("consultation_created", consultation)
	}

	c.JSON(http.StatusCreated, consultation)
}

// CancelConsultation is a status update, never a delete. The 24-hour
// window is re-checked here, at submission time, so a tab left open
// past the boundary cannot cancel anyway.
func (h *ConsultationHandler) CancelConsultation(c *gin.Context) {
	consultation, ok := h.loadOwnConsultation(c)
	if !ok {
		return
	}

	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	fields, err := lifecycle.Cancel(*consultation, req.Reason, now)
	if err != nil {
		if errors.Is(err, lifecycle.ErrModificationWindowClosed) {
			monitoring.ModificationWindowRejections.Inc()
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"code":  "modification_window_closed",
				"error": "consultations can only be cancelled more than 24 hours before they start",
			})
			return
		}
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to cancel consultation"})
		return
	}

	if err := h.repo.UpdateConsultation(consultation.ID, fields); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "consultation not found"})
			return
		}
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to cancel consultation"})
		return
	}

	monitoring.ConsultationsCancelled.Inc()

	if h.kafka != nil {
		consultation.Status = models.StatusCancelled
		consultation.CancelledAt = &now
		consultation.CancellationReason = req.Reason
		go h.sendConsultationEvent("consultation_cancelled", consultation)
	}

	c.JSON(http.StatusOK, gin.H{"status": models.StatusCancelled})
}

// GetAvailability lists bookable slots for one day.
func (h *ConsultationHandler) GetAvailability(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date is required"})
		return
	}

	duration := 60
	if d := c.Query("duration"); d != "" {
		parsed, err := parseInt(d)
		if err != nil || parsed < 15 || parsed > 240 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid duration"})
			return
		}
		duration = parsed
	}

	existing, err := h.repo.ListConsultationsByDate(date, []models.ConsultationStatus{
		models.StatusPending,
		models.StatusConfirmed,
	})
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load bookings"})
		return
	}

	slots, err := schedule.AvailableSlots(date, duration, nil, existing, time.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, expected YYYY-MM-DD"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"date": date, "slots": slots})
}

// ListConsultationTypes falls back to the built-in packages when none
// are configured yet.
func (h *ConsultationHandler) ListConsultationTypes(c *gin.Context) {
	types, err := h.repo.ListConsultationTypes()
	if err != nil || len(types) == 0 {
		if err != nil {
			log.Printf("Could not fetch consultation types, using defaults: %v", err)
		}
		types = models.DefaultConsultationTypes
	}

	c.JSON(http.StatusOK, gin.H{"consultation_types": types})
}

// SearchConsultations is the admin full-text search over the
// Elasticsearch index maintained by the event consumer.
func (h *ConsultationHandler) SearchConsultations(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}
	if h.es == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search is not available"})
		return
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  q,
				"fields": []string{"client_name", "client_email", "consultation_type", "notes"},
			},
		},
	}

	results, err := h.es.SearchConsultations(c.Request.Context(), utils.ConsultationsIndex, query)
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

// loadOwnConsultation fetches the :id consultation and verifies it
// belongs to the caller. Somebody else's booking looks like a 404.
func (h *ConsultationHandler) loadOwnConsultation(c *gin.Context) (*models.Consultation, bool) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "consultation ID is required"})
		return nil, false
	}

	consultation, err := h.getConsultationCached(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "consultation not found"})
			return nil, false
		}
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load consultation"})
		return nil, false
	}

	if email := c.GetString(middleware.UserEmailKey); email != "" && consultation.ClientEmail != email {
		c.JSON(http.StatusNotFound, gin.H{"error": "consultation not found"})
		return nil, false
	}

	return consultation, true
}

// getConsultationCached is a read-through over Redis. The Kafka
// consumer rewrites the key when the record changes.
func (h *ConsultationHandler) getConsultationCached(ctx context.Context, id string) (*models.Consultation, error) {
	if h.cache != nil {
		if cached, err := h.cache.GetFromCache(ctx, utils.ConsultationCacheKey(id)); err == nil && cached != "" {
			var consultation models.Consultation
			if err := json.Unmarshal([]byte(cached), &consultation); err == nil {
				return &consultation, nil
			}
		}
	}

	consultation, err := h.repo.GetConsultationByID(id)
	if err != nil {
		return nil, err
	}

	if h.cache != nil {
		if data, err := json.Marshal(consultation); err == nil {
			if err := h.cache.SetToCache(ctx, utils.ConsultationCacheKey(id), string(data), 5*time.Minute); err != nil {
				log.Printf("Failed to cache consultation %s: %v", id, err)
			}
		}
	}

	return consultation, nil
}

func (h *ConsultationHandler) sendConsultationEvent(eventType string, consultation *models.Consultation) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	event := map[string]interface{}{
		"event": eventType,
		"data":  consultation,
	}

	jsonData, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal Kafka event: %v", err)
		return
	}

	if err := h.kafka.SendMessage(ctx, utils.ConsultationEventsTopic, []byte(consultation.ID), jsonData); err != nil {
		log.Printf("Failed to send Kafka message: %v", err)
	}
}
