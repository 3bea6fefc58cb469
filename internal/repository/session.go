package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"article-overload-bot/internal/model"
)

// SessionRepository persists scoring sessions and aggregates player scores.
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new SessionRepository instance.
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// StartSession opens a scoring session for a player and returns its id.
func (r *SessionRepository) StartSession(ctx context.Context, userID int64) (int64, error) {
	const query = `
		INSERT INTO sessions (user_id, score, started_at)
		VALUES ($1, 0, NOW())
		RETURNING id
	`

	var id int64
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to start session: %w", err)
	}
	return id, nil
}

// EndSession closes a scoring session with the final score. Returns
// ErrSessionNotFound for an unknown id.
func (r *SessionRepository) EndSession(ctx context.Context, sessionID int64, finalScore int64) error {
	const query = `
		UPDATE sessions
		SET score = $2, ended_at = NOW()
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, sessionID, finalScore)
	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// PlayerScore returns a player's best session score, 0 when the player has no
// completed sessions.
func (r *SessionRepository) PlayerScore(ctx context.Context, userID int64) (int64, error) {
	const query = `
		SELECT COALESCE(MAX(score), 0)
		FROM sessions
		WHERE user_id = $1 AND ended_at IS NOT NULL
	`

	var score int64
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&score); err != nil {
		return 0, fmt.Errorf("failed to get player score: %w", err)
	}
	return score, nil
}

// GetPlayerScore returns a player's aggregated leaderboard row. Returns
// ErrSessionNotFound when the player has no completed sessions.
func (r *SessionRepository) GetPlayerScore(ctx context.Context, userID int64) (*model.Score, error) {
	const query = `
		SELECT user_id, MAX(score) AS score, MAX(started_at) AS latest_played
		FROM sessions
		WHERE user_id = $1 AND ended_at IS NOT NULL
		GROUP BY user_id
	`

	var s model.Score
	err := r.pool.QueryRow(ctx, query, userID).Scan(&s.UserID, &s.Score, &s.LatestPlayed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get player score: %w", err)
	}
	return &s, nil
}

// TopNScores returns the top N players ranked by their best session score.
func (r *SessionRepository) TopNScores(ctx context.Context, n int) ([]*model.Score, error) {
	const query = `
		SELECT user_id, MAX(score) AS score, MAX(started_at) AS latest_played
		FROM sessions
		WHERE ended_at IS NOT NULL
		GROUP BY user_id
		ORDER BY score DESC, latest_played DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, n)
	if err != nil {
		return nil, fmt.Errorf("failed to get top scores: %w", err)
	}
	defer rows.Close()

	var scores []*model.Score
	for rows.Next() {
		var s model.Score
		if err := rows.Scan(&s.UserID, &s.Score, &s.LatestPlayed); err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		scores = append(scores, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scores: %w", err)
	}
	return scores, nil
}

// TopicStats returns a player's answer accuracy per article topic. An empty
// topic returns all topics.
func (r *SessionRepository) TopicStats(ctx context.Context, userID int64, topic string) ([]*model.TopicStat, error) {
	const query = `
		SELECT a.topic,
		       COUNT(*) FILTER (WHERE ar.is_correct) AS correct,
		       COUNT(*) AS total
		FROM article_responses ar
		JOIN articles a ON a.id = ar.article_id
		WHERE ar.user_id = $1 AND ($2 = '' OR a.topic = $2)
		GROUP BY a.topic
		ORDER BY total DESC, a.topic
	`

	rows, err := r.pool.Query(ctx, query, userID, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to get topic stats: %w", err)
	}
	defer rows.Close()

	var stats []*model.TopicStat
	for rows.Next() {
		var s model.TopicStat
		if err := rows.Scan(&s.Topic, &s.Correct, &s.Total); err != nil {
			return nil, fmt.Errorf("failed to scan topic stat: %w", err)
		}
		stats = append(stats, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating topic stats: %w", err)
	}
	return stats, nil
}
