package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"consulthub/consumer"
	"consulthub/handlers"
	"consulthub/middleware"
	"consulthub/models"
	"consulthub/monitoring"
	"consulthub/utils"
)

func main() {
	logger := log.New(os.Stdout, "CONSULTHUB: ", log.LstdFlags|log.Lshortfile)

	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := utils.InitSentry(dsn); err != nil {
			logger.Printf("Sentry disabled: %v", err)
		}
	}

	monitoring.Init()

	// Redis with connection retries
	var redisClient utils.RedisClient
	var err error
	maxRetries := 5
	retryDelay := 3 * time.Second

	for i := 0; i < maxRetries; i++ {
		redisClient, err = utils.NewRedisClient()
		if err == nil {
			break
		}
		logger.Printf("Attempt %d: Failed to connect to Redis: %v", i+1, err)
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}

	if err != nil {
		logger.Fatalf("Failed to initialize Redis after %d attempts: %v", maxRetries, err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Printf("Error closing Redis connection: %v", err)
		}
	}()

	repo, err := models.NewPostgresRepository()
	if err != nil {
		logger.Fatalf("Failed to initialize repository: %v", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Printf("Error closing repository: %v", err)
		}
	}()

	kafkaProducer, err := utils.NewKafkaProducer()
	if err != nil {
		logger.Printf("Kafka unavailable, events disabled: %v", err)
		kafkaProducer = nil
	} else {
		defer kafkaProducer.Close()
	}

	esClient, err := utils.NewElasticsearchClient()
	if err != nil {
		logger.Printf("Elasticsearch unavailable, search disabled: %v", err)
		esClient = nil
	}

	if kafkaProducer != nil {
		eventConsumer := consumer.NewConsultationConsumer(redisClient, esClient)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		eventConsumer.Start(ctx)
		defer eventConsumer.Stop()
	}

	consultationHandler := handlers.NewConsultationHandler(repo, kafkaProducer, redisClient, esClient)
	collaborationHandler := handlers.NewCollaborationHandler(repo, kafkaProducer)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.SentryMiddleware())
	router.Use(middleware.PrometheusMetrics())
	router.Use(middleware.ErrorHandler())

	api := router.Group("/api/v1")
	{
		api.GET("/health", func(c *gin.Context) {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := redisClient.SetToCache(ctx, "healthcheck", "ping", 10*time.Second); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "degraded",
					"details": gin.H{"redis": "unavailable"},
					"error":   err.Error(),
				})
				return
			}

			c.JSON(http.StatusOK, gin.H{
				"status":  "ok",
				"details": gin.H{"redis": "available"},
			})
		})

		api.GET("/consultation-types", consultationHandler.ListConsultationTypes)
		api.GET("/availability", consultationHandler.GetAvailability)
		api.POST("/consultations", consultationHandler.CreateConsultation)

		authed := api.Group("", middleware.RequireIdentity())
		{
			authed.GET("/consultations", consultationHandler.ListConsultations)
			authed.GET("/consultations/stats", consultationHandler.GetStats)
			authed.GET("/consultations/:id", consultationHandler.GetConsultation)
			authed.GET("/consultations/:id/timeline", consultationHandler.GetTimeline)
			authed.POST("/consultations/:id/cancel", consultationHandler.CancelConsultation)

			authed.GET("/consultations/:id/deliverables", collaborationHandler.ListDeliverables)
			authed.GET("/consultations/:id/action-items", collaborationHandler.ListActionItems)
			authed.PATCH("/action-items/:id", collaborationHandler.ToggleActionItem)
			authed.GET("/consultations/:id/notes", collaborationHandler.ListNotes)
			authed.POST("/consultations/:id/notes", collaborationHandler.AddNote)
		}

		api.GET("/admin/consultations/search", consultationHandler.SearchConsultations)
	}

	router.GET("/metrics", gin.WrapH(monitoring.Handler()))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Printf("Server is running on port %s", port)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		logger.Fatalf("Server error: %v", err)
	}
}
