// Package main is the article loader for the Article Overload bot.
// It reads a JSON file of articles, validates their summary markup and
// inserts them in one transaction.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"article-overload-bot/internal/article"
	"article-overload-bot/internal/config"
	"article-overload-bot/internal/model"
	"article-overload-bot/internal/pkg/db"
	"article-overload-bot/internal/repository"
)

// articleInput is one entry of the loader's JSON file.
type articleInput struct {
	URL           string    `json:"url"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Topic         string    `json:"topic"`
	Size          string    `json:"size"`
	BodyText      string    `json:"body_text"`
	Summary       string    `json:"summary"`
	DatePublished time.Time `json:"date_published"`
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		configPath = flag.String("config", "config", "directory containing config.yaml")
		inputPath  = flag.String("input", "articles.json", "JSON file with articles to load")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	data, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *inputPath).Msg("Failed to read input file")
	}

	var inputs []articleInput
	if err := json.Unmarshal(data, &inputs); err != nil {
		log.Fatal().Err(err).Msg("Failed to parse input file")
	}
	if len(inputs) == 0 {
		log.Fatal().Msg("Input file contains no articles")
	}

	articles := make([]*model.Article, 0, len(inputs))
	for i, in := range inputs {
		a := &model.Article{
			URL:           in.URL,
			Title:         in.Title,
			Author:        in.Author,
			Topic:         in.Topic,
			Size:          in.Size,
			BodyText:      in.BodyText,
			Summary:       in.Summary,
			DatePublished: in.DatePublished,
		}

		// Reject summaries the game engine could not play.
		if _, err := article.NewHandler(a); err != nil {
			log.Fatal().Err(err).Int("index", i).Str("title", in.Title).Msg("Invalid article summary markup")
		}

		articles = append(articles, a)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dbPool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	// The loader may run before the bot's first boot.
	_, err = dbPool.Exec(ctx, `
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
		log.Fatal().Err(err).Msg("Failed to ensure articles table")
	}

	repo := repository.NewArticleRepository(dbPool.Pool)
	if err := repo.InsertBatch(ctx, articles); err != nil {
		log.Fatal().Err(err).Msg("Failed to insert articles")
	}

	total, err := repo.Count(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to count articles")
	}

	log.Info().
		Int("loaded", len(articles)).
		Int64("total", total).
		Msg("Articles loaded successfully")
}
