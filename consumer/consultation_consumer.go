package consumer

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/segmentio/kafka-go"

	"consulthub/models"
	"consulthub/utils"
)

// ConsultationEvent is the envelope every producer in this service
// writes to the consultation_events topic. Collaboration events carry
// only ConsultationID; consultation events carry the full record.
type ConsultationEvent struct {
	Event          string               `json:"event"`
	Data           *models.Consultation `json:"data,omitempty"`
	ConsultationID string               `json:"consultation_id,omitempty"`
}

// ConsultationConsumer keeps the Redis cache and the Elasticsearch
// index in step with the record store after each mutation.
type ConsultationConsumer struct {
	cache    utils.RedisClient
	es       utils.ElasticsearchClient
	reader   *kafka.Reader
	shutdown chan struct{}
}

func NewConsultationConsumer(cache utils.RedisClient, es utils.ElasticsearchClient) *ConsultationConsumer {
	return &ConsultationConsumer{
		cache: cache,
		es:    es,
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: []string{os.Getenv("KAFKA_BROKER")},
			Topic:   utils.ConsultationEventsTopic,
			GroupID: "consulthub-group",
			MaxWait: 10 * time.Second,
		}),
		shutdown: make(chan struct{}),
	}
}

func (c *ConsultationConsumer) Start(ctx context.Context) {
	log.Println("Starting Kafka consumer...")

	go func() {
		for {
			select {
			case <-c.shutdown:
				return
			default:
				c.processMessages(ctx)
			}
		}
	}()
}

func (c *ConsultationConsumer) Stop() {
	close(c.shutdown)
	if err := c.reader.Close(); err != nil {
		log.Printf("Error closing Kafka reader: %v", err)
	}
}

func (c *ConsultationConsumer) processMessages(ctx context.Context) {
	msg, err := c.reader.ReadMessage(ctx)
	if err != nil {
		if err == context.Canceled {
			return
		}
		log.Printf("Kafka read error: %v (will retry)", err)
		time.Sleep(5 * time.Second)
		return
	}

	var event ConsultationEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Printf("Failed to unmarshal Kafka message: %v", err)
		return
	}

	switch event.Event {
	case "consultation_created", "consultation_cancelled":
		if event.Data != nil {
			c.handleConsultationChanged(ctx, *event.Data)
		}
	case "action_item_toggled", "note_added":
		// Child records are not cached, but a cached parent may embed a
		// stale updated_at. Drop it and let the next read repopulate.
		if event.ConsultationID != "" {
			c.invalidateConsultation(ctx, event.ConsultationID)
		}
	default:
		log.Printf("Unknown event type: %s", event.Event)
	}
}

func (c *ConsultationConsumer) handleConsultationChanged(ctx context.Context, consultation models.Consultation) {
	// 1. Refresh the Redis cache
	data, err := json.Marshal(consultation)
	if err != nil {
		log.Printf("Failed to marshal consultation to JSON: %v", err)
		return
	}

	cacheKey := utils.ConsultationCacheKey(consultation.ID)
	if err := c.cache.SetToCache(ctx, cacheKey, string(data), 5*time.Minute); err != nil {
		log.Printf("Failed to cache consultation: %v", err)
	}

	// 2. Index in Elasticsearch for admin search
	if c.es != nil {
		if err := c.es.IndexConsultation(ctx, utils.ConsultationsIndex, consultation.ID, consultation); err != nil {
			log.Printf("Failed to index consultation in Elasticsearch: %v", err)
		}
	}

	log.Printf("Processed consultation event for %s (status %s)", consultation.ID, consultation.Status)
}

func (c *ConsultationConsumer) invalidateConsultation(ctx context.Context, id string) {
	if err := c.cache.DeleteFromCache(ctx, utils.ConsultationCacheKey(id)); err != nil {
		log.Printf("Failed to invalidate consultation cache: %v", err)
	}
}
