package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"folio/internal/handlers"
	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/repositories"
	"folio/internal/services"
	"folio/internal/sessions"
	"folio/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":3000")
	viper.SetDefault("DB_DRIVER", "sqlite")
	viper.SetDefault("DB_DSN", "folio.db")
	viper.SetDefault("SESSION_STORE", "memory")
	viper.SetDefault("SESSION_TTL", "24h")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("RABBITMQ_URL", "") // empty disables event publishing
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")
	sessionTTL := viper.GetDuration("SESSION_TTL")

	// --- Database ---
	db, err := openDatabase(viper.GetString("DB_DRIVER"), viper.GetString("DB_DSN"))
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Portfolio{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- Session store ---
	sessionStore := newSessionStore(viper.GetString("SESSION_STORE"), sessionTTL)

	// --- RabbitMQ (optional) ---
	var mqClient *rabbitmq.Client
	if rabbitMQURL := viper.GetString("RABBITMQ_URL"); rabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: rabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
	}

	// --- Initialize Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	portfolioRepo := repositories.NewGORMPortfolioRepository(db)

	// --- Initialize Services ---
	authService := services.NewAuthService(userRepo, sessionStore)
	portfolioService := services.NewPortfolioService(portfolioRepo, mqClient)

	// --- Initialize Handlers ---
	authHandler := handlers.NewAuthHandler(authService, sessionTTL)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService)

	// --- Initialize Fiber App ---
	// The body cap bounds the base64 photo payload.
	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024,
	})

	// --- Middleware ---
	app.Use(logger.New()) // Request logger

	// --- API Routes ---
	api := app.Group("/api")
	authHandler.RegisterRoutes(api)

	protected := api.Group("", middleware.SessionRequired(authService))
	portfolioHandler.RegisterRoutes(protected)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Client UI ---
	app.Static("/", "./public")

	// --- Start RabbitMQ Consumer in a Goroutine ---
	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for portfolio events...")
			if consumerErr := mqClient.ConsumePortfolioEvents(rabbitmq.HandlePortfolioMessage); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}

// openDatabase opens a GORM handle for the configured driver. TranslateError
// lets the repositories detect unique constraint violations portably.
func openDatabase(driver, dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{TranslateError: true}
	switch driver {
	case "postgres":
		return gorm.Open(postgres.Open(dsn), cfg)
	default:
		return gorm.Open(sqlite.Open(dsn), cfg)
	}
}

// newSessionStore selects the session backend. Redis lets multiple instances
// share sessions; memory is the single-process default.
func newSessionStore(kind string, ttl time.Duration) sessions.Store {
	if kind == "redis" {
		client := redis.NewClient(&redis.Options{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		})
		log.Printf("Using Redis session store at %s", viper.GetString("REDIS_ADDR"))
		return sessions.NewRedisStore(client, ttl)
	}
	return sessions.NewMemoryStore(ttl)
}
