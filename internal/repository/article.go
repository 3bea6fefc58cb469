// Package repository provides data access layer implementations.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"article-overload-bot/internal/model"
)

// Common errors for repository operations.
var (
	ErrNoArticles      = errors.New("no articles available")
	ErrSessionNotFound = errors.New("session not found")
)

// ArticleRepository handles article and response persistence.
type ArticleRepository struct {
	pool *pgxpool.Pool
}

// NewArticleRepository creates a new ArticleRepository instance.
func NewArticleRepository(pool *pgxpool.Pool) *ArticleRepository {
	return &ArticleRepository{pool: pool}
}

const articleColumns = `id, url, title, author, topic, size, body_text, summary, date_published, created_at`

func scanArticle(row pgx.Row) (*model.Article, error) {
	var a model.Article
	err := row.Scan(
		&a.ID,
		&a.URL,
		&a.Title,
		&a.Author,
		&a.Topic,
		&a.Size,
		&a.BodyText,
		&a.Summary,
		&a.DatePublished,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetRandomArticle returns one random article. Returns ErrNoArticles when the
// store is empty.
func (r *ArticleRepository) GetRandomArticle(ctx context.Context) (*model.Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM articles
		ORDER BY random()
		LIMIT 1
	`

	a, err := scanArticle(r.pool.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoArticles
		}
		return nil, fmt.Errorf("failed to get random article: %w", err)
	}
	return a, nil
}

// GetByID returns one article by id.
func (r *ArticleRepository) GetByID(ctx context.Context, id int64) (*model.Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM articles
		WHERE id = $1
	`

	a, err := scanArticle(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoArticles
		}
		return nil, fmt.Errorf("failed to get article: %w", err)
	}
	return a, nil
}

// Insert stores one article and fills in its id.
func (r *ArticleRepository) Insert(ctx context.Context, a *model.Article) error {
	const query = `
		INSERT INTO articles (url, title, author, topic, size, body_text, summary, date_published, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		a.URL, a.Title, a.Author, a.Topic, a.Size, a.BodyText, a.Summary, a.DatePublished,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert article: %w", err)
	}
	return nil
}

// InsertBatch stores many articles in one transaction. Used by the loader.
func (r *ArticleRepository) InsertBatch(ctx context.Context, articles []*model.Article) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin batch insert: %w", err)
	}
	defer tx.Rollback(ctx)

	const query = `
		INSERT INTO articles (url, title, author, topic, size, body_text, summary, date_published, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING id, created_at
	`

	for _, a := range articles {
		err := tx.QueryRow(ctx, query,
			a.URL, a.Title, a.Author, a.Topic, a.Size, a.BodyText, a.Summary, a.DatePublished,
		).Scan(&a.ID, &a.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert article %q: %w", a.Title, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit batch insert: %w", err)
	}
	return nil
}

// Count returns the number of stored articles.
func (r *ArticleRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM articles`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}
	return count, nil
}

// RecordResponse persists one answer for telemetry and fills in its id.
func (r *ArticleRepository) RecordResponse(ctx context.Context, resp *model.ArticleResponse) error {
	const query = `
		INSERT INTO article_responses (article_id, session_id, user_id, response, is_correct, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		resp.ArticleID, resp.SessionID, resp.UserID, resp.Response, resp.IsCorrect,
	).Scan(&resp.ID, &resp.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record response: %w", err)
	}
	return nil
}
