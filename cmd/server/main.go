package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kmorrow7/inkfeed/blog/application"
	"github.com/kmorrow7/inkfeed/blog/content"
	"github.com/kmorrow7/inkfeed/blog/persistence"
	"github.com/kmorrow7/inkfeed/internal/config"
	"github.com/kmorrow7/inkfeed/internal/middleware"
	"github.com/kmorrow7/inkfeed/internal/rest"
	"github.com/kmorrow7/inkfeed/shared/db/sqlite"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 5 * time.Second

func main() {
	configPath := flag.String("config", "", "path to config.toml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	database := sqlite.NewSQLiteDB(&sqlite.SQLiteConfig{Path: cfg.DBPath})
	if err := database.Connect(); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	postRepo := persistence.NewPostRepository(database.DB())
	renderer := application.NewMarkdownRenderer(cfg.SiteURL)
	loader := content.NewLoader(cfg.ContentDir, renderer, postRepo)

	if err := loader.Sync(context.Background()); err != nil {
		// A bad content file should not keep the rest of the blog down
		log.Error().Err(err).Msg("Initial content sync reported errors")
	}

	feedService := application.NewFeedService(postRepo, application.FeedConfig{
		Title:       cfg.FeedTitle,
		Description: cfg.FeedDescription,
		Language:    cfg.FeedLanguage,
	}, cfg.SiteURL)

	router := gin.New()
	router.Use(middleware.LoggingMiddleware())
	router.Use(gin.CustomRecovery(middleware.HandlePanics()))
	rest.NewApi(router, feedService, postRepo, loader)

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info().Msg("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to shutdown server")
	}

	log.Info().Msg("Server stopped")
}
