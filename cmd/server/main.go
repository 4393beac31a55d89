package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"versecraft/internal/auth"
	"versecraft/internal/collab"
	"versecraft/internal/config"
	"versecraft/internal/handler"
	"versecraft/internal/langs"
	"versecraft/internal/middleware"
	"versecraft/internal/repository/postgres"
	"versecraft/internal/service"
	"versecraft/internal/service/nlp"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create JWT verifier
	jwtVerifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	storyRepo := postgres.NewStoryRepository(repoConfig)
	chapterRepo := postgres.NewChapterRepository(repoConfig)
	versionRepo := postgres.NewVersionRepository(repoConfig)
	commentRepo := postgres.NewCommentRepository(repoConfig)
	ratingRepo := postgres.NewRatingRepository(repoConfig)
	favoriteRepo := postgres.NewFavoriteRepository(repoConfig)
	promptRepo := postgres.NewPromptRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	// Language registry (version token strategy, display names)
	languages, err := langs.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to load language registry: %v", err)
	}
	logger.Info("language registry initialized", "languages", len(languages.List()))

	// NLP collaborators share one HTTP client and retry policy
	upstreamClient := &http.Client{Timeout: cfg.UpstreamTimeout}
	retryPolicy := nlp.Policy{
		MaxAttempts: cfg.UpstreamAttempts,
		Delay:       cfg.UpstreamDelay,
	}

	var generator nlp.Generator
	switch cfg.GenerationProvider {
	case "lorem":
		generator = nlp.NewLoremGenerator()
		logger.Warn("using lorem mock generator (dev only)")
	default:
		generator = nlp.NewHTTPGenerator(cfg.GenerationServiceURL, upstreamClient)
	}
	generationService := nlp.NewGenerationService(generator, retryPolicy, logger)

	grammarClient := nlp.NewHTTPGrammarClient(cfg.GrammarServiceURL, upstreamClient)
	proofreadService := nlp.NewProofreadService(grammarClient, retryPolicy, logger)

	sentimentClassifier := nlp.NewHTTPSentimentClassifier(cfg.SentimentServiceURL, upstreamClient)

	// Collaboration hub doubles as the content broadcaster for reverts
	hub := collab.NewHub(logger)

	// Create services
	storyService := service.NewStoryService(storyRepo, chapterRepo, versionRepo, txManager, logger)
	chapterService := service.NewChapterService(chapterRepo, versionRepo, storyRepo, txManager, languages, nil, hub, logger)
	engagementService := service.NewEngagementService(commentRepo, ratingRepo, favoriteRepo, storyRepo, sentimentClassifier, logger)
	promptService := service.NewPromptService(promptRepo, storyRepo, generationService, logger)

	// Create handlers
	storyHandler := handler.NewStoryHandler(storyService, logger)
	chapterHandler := handler.NewChapterHandler(chapterService, logger)
	engagementHandler := handler.NewEngagementHandler(engagementService, logger)
	promptHandler := handler.NewPromptHandler(promptService, logger)
	nlpHandler := handler.NewNLPHandler(proofreadService, logger)
	collabHandler := handler.NewCollabHandler(hub, chapterService, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", storyHandler.HealthCheck)

	// Story routes
	mux.HandleFunc("GET /api/stories", storyHandler.ListStories)
	mux.HandleFunc("POST /api/stories", storyHandler.CreateStory)
	mux.HandleFunc("GET /api/stories/{id}", storyHandler.GetStory)
	mux.HandleFunc("PATCH /api/stories/{id}", storyHandler.UpdateStory)
	mux.HandleFunc("DELETE /api/stories/{id}", storyHandler.DeleteStory)

	// Chapter routes
	mux.HandleFunc("POST /api/stories/{storyId}/chapters", chapterHandler.CreateChapter)
	mux.HandleFunc("GET /api/stories/{storyId}/chapters", chapterHandler.ListChapters)
	mux.HandleFunc("GET /api/chapters/{id}", chapterHandler.GetChapter)
	mux.HandleFunc("PATCH /api/chapters/{id}", chapterHandler.UpdateChapter)
	mux.HandleFunc("DELETE /api/chapters/{id}", chapterHandler.DeleteChapter)
	mux.HandleFunc("PUT /api/chapters/{id}/content", chapterHandler.SaveContent)

	// Version routes
	mux.HandleFunc("POST /api/chapters/{id}/versions", chapterHandler.CreateVersion)
	mux.HandleFunc("GET /api/chapters/{id}/versions", chapterHandler.ListVersions)
	mux.HandleFunc("GET /api/versions/{id}", chapterHandler.GetVersion)
	mux.HandleFunc("POST /api/chapters/{id}/revert/{versionId}", chapterHandler.Revert)

	// Collaborative editing channel
	mux.HandleFunc("GET /api/collab/chapters/{id}/ws", collabHandler.Connect)

	// Engagement routes
	mux.HandleFunc("POST /api/stories/{id}/comments", engagementHandler.CreateComment)
	mux.HandleFunc("GET /api/stories/{id}/comments", engagementHandler.ListComments)
	mux.HandleFunc("PUT /api/stories/{id}/rating", engagementHandler.SubmitRating)
	mux.HandleFunc("GET /api/stories/{id}/rating", engagementHandler.GetRatingSummary)
	mux.HandleFunc("POST /api/stories/{id}/favorite", engagementHandler.ToggleFavorite)
	mux.HandleFunc("GET /api/users/me/favorites", engagementHandler.ListFavorites)

	// Prompt routes
	mux.HandleFunc("POST /api/prompts", promptHandler.CreatePrompt)
	mux.HandleFunc("GET /api/prompts", promptHandler.ListPrompts)
	mux.HandleFunc("POST /api/prompts/{id}/messages", promptHandler.AddMessage)
	mux.HandleFunc("GET /api/prompts/{id}/messages", promptHandler.ListMessages)
	mux.HandleFunc("POST /api/prompts/{id}/generate", promptHandler.Generate)

	// NLP routes
	mux.HandleFunc("POST /api/nlp/proofread", nlpHandler.Proofread)

	// Build middleware chain
	var root http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	root = middleware.Auth(jwtVerifier)(root)
	root = middleware.Recovery(logger)(root)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disabled to allow long-lived websocket sessions
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
