package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"atelier/internal/config"
	"atelier/internal/database"
	"atelier/internal/handlers"
	"atelier/internal/jobs"
	"atelier/internal/logging"
	"atelier/internal/middleware"
	"atelier/internal/render"
	"atelier/internal/services"
	"atelier/pkg/auth"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Initialize structured logging (JSON in production, text in dev)
	logging.Init()

	log.Println("🚀 Starting Atelier Server...")

	// Load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  No .env file found or error loading it: %v", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	// Load configuration
	cfg := config.Load()
	log.Printf("📋 Configuration loaded (Port: %s, DB: %s)", cfg.Port, cfg.MongoDB)

	if cfg.MongoURI == "" {
		log.Fatal("❌ MONGODB_URI environment variable is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("❌ JWT_SECRET environment variable is required")
	}

	log.Println("🔗 Connecting to MongoDB...")
	mongoDB, err := database.Connect(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("❌ Failed to connect to MongoDB: %v", err)
	}
	defer mongoDB.Close(context.Background())

	if err := mongoDB.Initialize(context.Background()); err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize Prometheus metrics
	services.InitMetrics()
	log.Println("✅ Prometheus metrics initialized")

	// Initialize session auth
	sessions, err := auth.NewSessionAuth(cfg.JWTSecret, cfg.SessionExpiry)
	if err != nil {
		log.Fatalf("❌ Failed to initialize session auth: %v", err)
	}

	// Initialize services
	projectService := services.NewProjectService(mongoDB)
	postService := services.NewPostService(mongoDB)
	userService := services.NewUserService(mongoDB)
	uploadService := services.NewUploadService(cfg.UploadDir, cfg.UploadBaseURL, cfg.TrustedHosts, cfg.MaxUploadSize)
	settingsService := services.NewSettingsService(cfg.SettingsFile)

	renderCache := render.NewCache(render.NewPipeline())

	// Seed the admin account on first boot
	if err := userService.EnsureAdmin(context.Background(), cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("❌ Failed to seed admin account: %v", err)
	}

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(mongoDB)
	contentHandler := handlers.NewContentHandler(projectService, postService, uploadService)
	uploadHandler := handlers.NewUploadHandler(uploadService)
	authHandler := handlers.NewAuthHandler(userService, sessions)
	pageHandler, err := handlers.NewPageHandler(projectService, postService, settingsService, renderCache, "./web/templates/*.html")
	if err != nil {
		log.Fatalf("❌ Failed to load page templates: %v", err)
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Atelier v1.0",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
		BodyLimit:    8 * 1024 * 1024, // uploads are capped at 4MB, leave headroom for multipart framing
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())

	// Prometheus metrics middleware
	prometheus := fiberprometheus.New("atelier")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)
	log.Println("📊 Prometheus metrics endpoint enabled at /metrics")

	// Load rate limiting configuration
	rateLimitConfig := middleware.LoadRateLimitConfig()
	log.Printf("🛡️  [RATE-LIMIT] Loaded config: Global=%d/min, Public=%d/min, Login=%d/15min, Upload=%d/min",
		rateLimitConfig.GlobalAPIMax,
		rateLimitConfig.PublicReadMax,
		rateLimitConfig.LoginMax,
		rateLimitConfig.UploadMax,
	)

	// CORS configuration with environment-based origins
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:5173,http://localhost:3000"
		log.Println("⚠️  ALLOWED_ORIGINS not set, using development defaults")
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: allowedOrigins != "*",
	}))

	// Global API rate limiter
	app.Use("/api", middleware.GlobalAPIRateLimiter(rateLimitConfig))

	sessionAuth := middleware.SessionAuthMiddleware(sessions)
	optionalSession := middleware.OptionalSessionMiddleware(sessions)

	// Health
	app.Get("/health", healthHandler.Health)

	// Auth
	app.Post("/api/auth/login", middleware.LoginRateLimiter(rateLimitConfig), authHandler.Login)
	app.Post("/api/auth/logout", authHandler.Logout)
	app.Get("/api/auth/me", sessionAuth, authHandler.Me)

	// Content API. Reads are public, mutations need an admin session.
	app.Get("/api/projects", contentHandler.ListProjects)
	app.Get("/api/projects/:slug", contentHandler.GetProject)
	app.Post("/api/projects", sessionAuth, contentHandler.CreateProject)
	app.Put("/api/projects/:slug", sessionAuth, contentHandler.UpdateProject)
	app.Delete("/api/projects/:slug", sessionAuth, contentHandler.DeleteProject)

	app.Get("/api/journals", optionalSession, contentHandler.ListPosts)
	app.Get("/api/journals/:slug", optionalSession, contentHandler.GetPost)
	app.Post("/api/journals", sessionAuth, contentHandler.CreatePost)
	app.Put("/api/journals/:slug", sessionAuth, contentHandler.UpdatePost)
	app.Delete("/api/journals/:slug", sessionAuth, contentHandler.DeletePost)

	app.Post("/api/editor/markdown", sessionAuth, contentHandler.ImportMarkdown)

	// Upload gateway
	uploadLimiter := middleware.UploadRateLimiter(rateLimitConfig)
	app.Post("/api/upload", sessionAuth, uploadLimiter, uploadHandler.Upload)
	app.Post("/api/upload/batch", sessionAuth, uploadLimiter, uploadHandler.UploadBatch)
	app.Delete("/api/upload/delete", sessionAuth, uploadHandler.Delete)

	// Stored files and page assets
	app.Static("/uploads", cfg.UploadDir)
	app.Static("/static", "./web/static")

	// Public pages
	publicLimiter := middleware.PublicReadRateLimiter(rateLimitConfig)
	app.Get("/", publicLimiter, pageHandler.Home)
	app.Get("/projects", publicLimiter, pageHandler.ProjectList)
	app.Get("/projects/:slug", publicLimiter, pageHandler.ProjectDetail)
	app.Get("/journal", publicLimiter, pageHandler.JournalList)
	app.Get("/journal/:slug", publicLimiter, pageHandler.JournalDetail)
	app.Get("/network", publicLimiter, pageHandler.Network)
	app.Get("/login", pageHandler.Login)
	app.Use(pageHandler.NotFound)

	// Watch the site settings file for changes
	go settingsService.Watch()

	// Schedule the orphan upload sweeper
	sweeper := jobs.NewOrphanSweeper(projectService, postService, uploadService, cfg.SweepGrace)
	scheduler, err := sweeper.Schedule(cfg.SweepInterval)
	if err != nil {
		log.Printf("⚠️  Failed to schedule orphan sweeper: %v", err)
	}

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("\n🛑 Shutting down server...")

		if scheduler != nil {
			if err := scheduler.Shutdown(); err != nil {
				log.Printf("⚠️ Error stopping scheduler: %v", err)
			}
		}

		if err := app.Shutdown(); err != nil {
			log.Printf("⚠️ Error shutting down server: %v", err)
		}
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
