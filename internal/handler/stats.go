package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"article-overload-bot/internal/repository"
	"article-overload-bot/internal/service"
)

// StatsHandler handles leaderboard and player statistics commands.
type StatsHandler struct {
	statsService *service.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

// HandleLeaderboard handles the /leaderboard command.
// Displays the top players by best session score.
func (h *StatsHandler) HandleLeaderboard(c tele.Context) error {
	ctx := context.Background()

	scores, err := h.statsService.Leaderboard(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load leaderboard")
		return c.Reply("❌ Failed to load the leaderboard, please try again later")
	}

	msg := "📊 Article Overload leaderboard\n"
	msg += "━━━━━━━━━━━━━━━\n"

	if len(scores) == 0 {
		msg += "Nobody has played yet. Be the first with /play!\n"
	} else {
		medals := []string{"🥇", "🥈", "🥉"}
		for i, score := range scores {
			rank := fmt.Sprintf("%d.", i+1)
			if i < 3 {
				rank = medals[i]
			}

			msg += fmt.Sprintf("%s User%d: %d (last played %s)\n",
				rank, score.UserID, score.Score, score.LatestPlayed.Format("2006-01-02"))
		}
	}

	msg += "━━━━━━━━━━━━━━━"

	return c.Reply(msg)
}

// HandleMyStats handles the /mystats command.
// Displays the player's best score and per-topic accuracy. An optional
// argument filters the accuracy table to one topic.
func (h *StatsHandler) HandleMyStats(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	topic := strings.Join(c.Args(), " ")

	score, err := h.statsService.PlayerScore(ctx, sender.ID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return c.Reply("❌ You have no finished games yet. Use /play to start one.")
		}
		log.Error().Err(err).Int64("user_id", sender.ID).Msg("Failed to load player score")
		return c.Reply("❌ Failed to load your stats, please try again later")
	}

	stats, err := h.statsService.TopicStats(ctx, sender.ID, topic)
	if err != nil {
		log.Error().Err(err).Int64("user_id", sender.ID).Msg("Failed to load topic stats")
		return c.Reply("❌ Failed to load your stats, please try again later")
	}

	msg := "📈 Your stats\n"
	msg += "━━━━━━━━━━━━━━━\n"
	msg += fmt.Sprintf("💯 Best score: %d\n", score.Score)
	msg += fmt.Sprintf("🕑 Last played: %s\n", score.LatestPlayed.Format("2006-01-02"))
	msg += "━━━━━━━━━━━━━━━\n"

	if len(stats) == 0 {
		if topic != "" {
			msg += fmt.Sprintf("No answers recorded for topic %q yet.", topic)
		} else {
			msg += "No answers recorded yet."
		}
		return c.Reply(msg)
	}

	msg += "Accuracy by topic:\n"
	for _, stat := range stats {
		pct := int64(0)
		if stat.Total > 0 {
			pct = stat.Correct * 100 / stat.Total
		}
		msg += fmt.Sprintf("• %s: %d/%d (%d%%)\n", stat.Topic, stat.Correct, stat.Total, pct)
	}

	return c.Reply(msg)
}
