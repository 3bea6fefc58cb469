package service

import (
	"context"
	"fmt"

	"article-overload-bot/internal/model"
	"article-overload-bot/internal/repository"
)

// StatsService serves leaderboard and per-player statistics queries.
type StatsService struct {
	sessions *repository.SessionRepository
	topN     int
}

// NewStatsService creates a new StatsService instance.
func NewStatsService(sessions *repository.SessionRepository, topN int) *StatsService {
	if topN <= 0 {
		topN = 10
	}
	return &StatsService{sessions: sessions, topN: topN}
}

// Leaderboard returns the configured number of top scores.
func (s *StatsService) Leaderboard(ctx context.Context) ([]*model.Score, error) {
	scores, err := s.sessions.TopNScores(ctx, s.topN)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}
	return scores, nil
}

// PlayerScore returns one player's aggregated score row.
func (s *StatsService) PlayerScore(ctx context.Context, userID int64) (*model.Score, error) {
	return s.sessions.GetPlayerScore(ctx, userID)
}

// TopicStats returns a player's per-topic accuracy. An empty topic returns
// all topics.
func (s *StatsService) TopicStats(ctx context.Context, userID int64, topic string) ([]*model.TopicStat, error) {
	stats, err := s.sessions.TopicStats(ctx, userID, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to load topic stats: %w", err)
	}
	return stats, nil
}
