package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/go-github/v68/github"
	"github.com/rs/zerolog/log"

	"github.com/chad0920kim/cheer-factory/blog/application"
	"github.com/chad0920kim/cheer-factory/blog/persistence"
	"github.com/chad0920kim/cheer-factory/internal/config"
	"github.com/chad0920kim/cheer-factory/internal/middleware"
	"github.com/chad0920kim/cheer-factory/internal/rest"
	"github.com/chad0920kim/cheer-factory/shared/db/sqlite"
	"github.com/chad0920kim/cheer-factory/shared/genai"
	gh "github.com/chad0920kim/cheer-factory/shared/github"
	"github.com/chad0920kim/cheer-factory/shared/imghost"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	database := sqlite.NewSQLiteDB(&sqlite.SQLiteConfig{Path: cfg.SQLitePath})
	if err := database.Connect(); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	ghClient := github.NewClient(nil).WithAuthToken(cfg.GithubToken)
	contentRepo := gh.NewContentRepository(ghClient, cfg.RepoOwner, cfg.RepoName, cfg.Branch)

	if cfg.GoogleAPIKey == "" {
		log.Fatal().Msg("GOOGLE_API_KEY is required")
	}
	personas, err := genai.LoadPersonas(cfg.PersonasPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.PersonasPath).Msg("Failed to load personas")
	}
	writer, err := genai.NewWriter(context.Background(), cfg.GoogleAPIKey, cfg.GenAIModel, personas)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize content writer")
	}
	defer func() {
		if err := writer.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close content writer")
		}
	}()

	index := application.NewIndexStore(contentRepo, time.Now)
	cache := application.NewListCache(cfg.CacheTTL, time.Now)
	postService := application.NewPostService(contentRepo, index, cache, writer, time.Now)

	var uploader rest.ImageUploader
	if cfg.ImageHostURL != "" {
		uploader = imghost.NewClient(cfg.ImageHostURL, cfg.ImageHostKey)
	} else {
		log.Warn().Msg("IMAGE_HOST_URL is not set, image uploads are disabled")
	}

	guestbookRepo := persistence.NewGuestbookRepository(database.DB())

	service := gin.New()
	service.Use(middleware.LoggingMiddleware())
	service.Use(gin.CustomRecovery(middleware.HandlePanics()))

	rest.NewApi(service, rest.Deps{
		Posts:         postService,
		Index:         index,
		Cache:         cache,
		Renderer:      application.NewBodyRenderer(),
		Guestbook:     guestbookRepo,
		Uploader:      uploader,
		AdminToken:    cfg.AdminToken,
		WebhookSecret: cfg.WebhookSecret,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: service,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to shutdown server")
	}

	log.Info().Msg("Server stopped")
}
