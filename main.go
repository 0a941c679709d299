package main

import (
	"log"
	"net/http"
	"time"

	"review-service/internal/auth"
	"review-service/internal/cache"
	"review-service/internal/config"
	"review-service/internal/db"
	"review-service/internal/discovery"
	"review-service/internal/event"
	"review-service/internal/handlers"
	"review-service/internal/repository"
	"review-service/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	gin.SetMode(cfg.GinMode)

	db.InitMongo(cfg.MongoURI)
	defer db.Disconnect()

	// RabbitMQ event publisher
	var publisher *event.EventPublisher
	if cfg.RabbitMQURI != "" && cfg.RabbitMQExchange != "" {
		var err error
		publisher, err = event.NewEventPublisher(cfg.RabbitMQURI, cfg.RabbitMQExchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	} else {
		log.Println("RabbitMQ not configured, review events will not be published")
	}

	// Redis snapshot cache
	var resultsCache service.ResultsCache
	if cfg.RedisAddr != "" {
		rc, err := cache.NewResultsCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Printf("Redis unavailable, serving results from Mongo only: %v", err)
		} else {
			resultsCache = rc
			defer rc.Close()
		}
	}

	// Consul registration
	if cfg.ConsulAddress != "" {
		registry, err := discovery.NewServiceRegistry(cfg)
		if err != nil {
			log.Fatalf("Service discovery init failed: %v", err)
		}
		if err := registry.Register(); err != nil {
			log.Fatalf("Consul registration failed: %v", err)
		}
		defer registry.Deregister()
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.AllowedOrigins},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	database := db.Client.Database(cfg.MongoDatabase)

	sessionRepo := repository.NewSessionRepository(database)
	statusRepo := repository.NewStatusRepository(database)
	questionRepo := repository.NewQuestionRepository(database)
	resultRepo := repository.NewResultRepository(database)

	reviewService := service.NewReviewService(sessionRepo, statusRepo, questionRepo, func(sessionID string, ready bool) {
		if publisher != nil && ready {
			publisher.Publish("review.session.import_ready", gin.H{"session_id": sessionID})
		}
	})
	simulationService := service.NewSimulationService(reviewService, questionRepo, resultRepo, resultsCache, nil)
	editService := service.NewQuestionEditService(questionRepo, nil, func(err error) {
		log.Printf("question autosave failed: %v", err)
	})

	reviewHandler := handlers.NewReviewHandler(reviewService)
	simulationHandler := handlers.NewSimulationHandler(simulationService)
	questionHandler := handlers.NewQuestionHandler(editService)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": cfg.ServiceName})
	})

	publicSession := r.Group("/public/review/session")
	{
		publicSession.GET("/:id", reviewHandler.GetSession)
		publicSession.GET("/:id/results", simulationHandler.GetResults)
		publicSession.GET("/:id/analytics", simulationHandler.GetAnalytics)
	}

	protectedSession := r.Group("/protected/review/session")
	protectedSession.Use(requireAuth())
	{
		protectedSession.POST("/", func(c *gin.Context) {
			reviewHandler.CreateSession(c)
			if publisher != nil {
				publisher.Publish("review.session.created", gin.H{
					"timestamp": time.Now(),
				})
			}
		})

		protectedSession.PUT("/:id/question/:questionKey/review", func(c *gin.Context) {
			reviewHandler.ToggleReview(c)
			if publisher != nil {
				publisher.Publish("review.question.toggled", gin.H{
					"session_id":   c.Param("id"),
					"question_key": c.Param("questionKey"),
					"timestamp":    time.Now(),
				})
			}
		})

		protectedSession.PUT("/:id/question/:questionKey/issues", reviewHandler.SetIssues)

		protectedSession.POST("/:id/review-all", func(c *gin.Context) {
			reviewHandler.ReviewAll(c)
			if publisher != nil {
				publisher.Publish("review.session.all_reviewed", gin.H{
					"session_id": c.Param("id"),
					"timestamp":  time.Now(),
				})
			}
		})

		protectedSession.POST("/:id/simulate", func(c *gin.Context) {
			simulationHandler.Simulate(c)
			if publisher != nil {
				publisher.Publish("review.simulation.completed", gin.H{
					"session_id": c.Param("id"),
					"timestamp":  time.Now(),
				})
			}
		})

	}

	protectedQuestion := r.Group("/protected/review/question")
	protectedQuestion.Use(requireAuth())
	{
		protectedQuestion.PUT("/:questionId", questionHandler.EditQuestion)
		protectedQuestion.POST("/save-all", questionHandler.SaveAll)
	}

	r.Run(":" + cfg.Port)
}

// requireAuth rejects requests without a valid bearer token before
// they reach a handler. CreateSession re-reads the user itself for
// the retry path.
func requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := auth.CurrentUser(c); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Next()
	}
}
