// Package main is the entry point for the Article Overload bot.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"article-overload-bot/internal/bot"
	"article-overload-bot/internal/config"
	"article-overload-bot/internal/game"
	"article-overload-bot/internal/pkg/db"
	"article-overload-bot/internal/repository"
	"article-overload-bot/internal/service"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().Msg("Configuration loaded successfully")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	dbPool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	// Run database migrations
	if err := runMigrations(ctx, dbPool); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Initialize repositories
	articleRepo := repository.NewArticleRepository(dbPool.Pool)
	sessionRepo := repository.NewSessionRepository(dbPool.Pool)

	articleCount, err := articleRepo.Count(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to count articles")
	}
	if articleCount == 0 {
		log.Warn().Msg("No articles loaded, games will fail to start. Run cmd/loader first.")
	}

	// Initialize game service
	settings := gameSettings(cfg)
	gameService := service.NewGameService(game.NewRegistry(), articleRepo, sessionRepo, settings)

	// Initialize stats service
	statsService := service.NewStatsService(sessionRepo, cfg.Scoreboard.TopN)

	log.Info().
		Int64("articles", articleCount).
		Dur("easy", settings.EasyDuration).
		Dur("medium", settings.MediumDuration).
		Dur("hard", settings.HardDuration).
		Msg("Game engine configured")

	// Create bot dependencies
	deps := &bot.Dependencies{
		Config:       cfg,
		GameService:  gameService,
		StatsService: statsService,
	}

	// Initialize bot
	telegramBot, err := bot.New(deps)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create bot")
	}

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start bot in a goroutine
	go func() {
		log.Info().Msg("Bot is starting...")
		telegramBot.Start()
	}()

	// Wait for shutdown signal
	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	// Graceful shutdown
	telegramBot.Stop()
	log.Info().Msg("Bot stopped gracefully")
}

// gameSettings maps the configuration onto the game engine's tuning knobs.
func gameSettings(cfg *config.Config) game.Settings {
	return game.Settings{
		EasyDuration:      cfg.Game.EasyDuration,
		MediumDuration:    cfg.Game.MediumDuration,
		HardDuration:      cfg.Game.HardDuration,
		GraceDuration:     cfg.Game.GraceDuration,
		CorrectPoints:     cfg.Game.CorrectPoints,
		IncorrectPoints:   cfg.Game.IncorrectPoints,
		MaxIncorrect:      cfg.Game.MaxIncorrect,
		MeterThreshold:    cfg.Game.MeterThreshold,
		MeterTickAmount:   cfg.Game.MeterTickAmount,
		MeterTickInterval: cfg.Game.MeterTickInterval,
		CorrectMeterBonus: cfg.Game.CorrectMeterBonus,
		ExtendAmount:      cfg.Game.ExtendAmount,
		CooldownAmount:    cfg.Game.CooldownAmount,
	}
}

// runMigrations executes database migrations.
func runMigrations(ctx context.Context, pool *db.Pool) error {
	log.Info().Msg("Running database migrations...")

	// Migration 1: Create articles table
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS articles (
			id BIGSERIAL PRIMARY KEY,
			url TEXT NOT NULL,
			title TEXT NOT NULL,
			author TEXT NOT NULL DEFAULT '',
			topic VARCHAR(100) NOT NULL DEFAULT '',
			size VARCHAR(20) NOT NULL DEFAULT '',
			body_text TEXT NOT NULL,
			summary TEXT NOT NULL,
			date_published TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_articles_topic ON articles(topic);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 1: articles table created")

	// Migration 2: Create sessions table
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS sessions (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL,
			score BIGINT NOT NULL DEFAULT 0,
			started_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			ended_at TIMESTAMPTZ
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_user_score ON sessions(user_id, score DESC);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 2: sessions table created")

	// Migration 3: Create article_responses table
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS article_responses (
			id BIGSERIAL PRIMARY KEY,
			article_id BIGINT NOT NULL REFERENCES articles(id) ON DELETE CASCADE,
			session_id BIGINT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			user_id BIGINT NOT NULL,
			response TEXT NOT NULL,
			is_correct BOOLEAN NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_article_responses_user ON article_responses(user_id, created_at DESC);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 3: article_responses table created")

	log.Info().Msg("All migrations completed successfully")
	return nil
}
