package game

import (
	"context"

	"article-overload-bot/internal/model"
)

// ArticleProvider supplies round content and records player responses.
// Implemented by repository.ArticleRepository.
type ArticleProvider interface {
	// GetRandomArticle returns one random stored article. Implementations
	// return repository.ErrNoArticles when the backing store is empty.
	GetRandomArticle(ctx context.Context) (*model.Article, error)

	// RecordResponse persists one answer for telemetry.
	RecordResponse(ctx context.Context, resp *model.ArticleResponse) error
}

// ScoreStore opens and closes scoring sessions and reads aggregates.
// Implemented by repository.SessionRepository.
type ScoreStore interface {
	// StartSession opens a scoring session and returns its id.
	StartSession(ctx context.Context, userID int64) (int64, error)

	// EndSession closes a scoring session with the final score.
	EndSession(ctx context.Context, sessionID int64, finalScore int64) error

	// PlayerScore returns the player's best recorded score, 0 when the
	// player has no history.
	PlayerScore(ctx context.Context, userID int64) (int64, error)
}
