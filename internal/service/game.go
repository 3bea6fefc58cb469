// Package service provides business logic implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"article-overload-bot/internal/game"
)

// GameService is the facade the presentation layer talks to. It owns the
// session registry and translates player identity into session operations.
type GameService struct {
	registry *game.Registry
	articles game.ArticleProvider
	scores   game.ScoreStore
	settings game.Settings
}

// NewGameService creates a new GameService instance.
func NewGameService(
	registry *game.Registry,
	articles game.ArticleProvider,
	scores game.ScoreStore,
	settings game.Settings,
) *GameService {
	return &GameService{
		registry: registry,
		articles: articles,
		scores:   scores,
		settings: settings,
	}
}

// Settings returns the game balance the service was built with.
func (s *GameService) Settings() game.Settings {
	return s.settings
}

// StartGame creates and starts a session for a player. Fails with
// game.ErrAlreadyInGame when the player already has one; on any start failure
// the registry entry is removed again.
func (s *GameService) StartGame(ctx context.Context, player *game.Player, difficulty game.Difficulty) (*game.Session, error) {
	session := game.NewSession(player, s.articles, s.scores, s.settings)

	if err := s.registry.Register(player.ID, session); err != nil {
		return nil, err
	}

	if err := session.Start(ctx, difficulty); err != nil {
		s.registry.Unregister(player.ID)
		return nil, fmt.Errorf("failed to start game: %w", err)
	}

	return session, nil
}

// Lookup returns the player's active session.
func (s *GameService) Lookup(playerID int64) (*game.Session, bool) {
	return s.registry.Lookup(playerID)
}

// SubmitAnswer scores an answer for the player's active session. A terminal
// outcome removes the session from the registry.
func (s *GameService) SubmitAnswer(ctx context.Context, playerID int64, selection string) (*game.RoundOutcome, error) {
	session, ok := s.registry.Lookup(playerID)
	if !ok {
		return nil, game.ErrNotInGame
	}

	outcome, err := session.SubmitAnswer(ctx, selection)
	if err != nil {
		return nil, err
	}

	if outcome.Terminal {
		s.registry.Release(playerID, session)
	}
	return outcome, nil
}

// Continue starts the next round for the player's active session.
func (s *GameService) Continue(ctx context.Context, playerID int64) error {
	session, ok := s.registry.Lookup(playerID)
	if !ok {
		return game.ErrNotInGame
	}
	return session.Continue(ctx)
}

// UseAbility consumes one held ability for the player's active session.
func (s *GameService) UseAbility(playerID int64, kind game.AbilityKind) (string, error) {
	session, ok := s.registry.Lookup(playerID)
	if !ok {
		return "", game.ErrNotInGame
	}
	return session.UseAbility(kind)
}

// EndGame terminates the player's active session and removes it from the
// registry. A stale terminal entry is cleaned up and reported as not in game.
func (s *GameService) EndGame(ctx context.Context, playerID int64) (*game.Summary, error) {
	session, ok := s.registry.Lookup(playerID)
	if !ok {
		return nil, game.ErrNotInGame
	}

	summary, err := session.End(ctx)
	s.registry.Release(playerID, session)
	if err != nil {
		if errors.Is(err, game.ErrGameEnded) {
			return nil, game.ErrNotInGame
		}
		return nil, err
	}
	return summary, nil
}

// RemainingTime returns the countdown of the player's current round.
func (s *GameService) RemainingTime(playerID int64) (time.Duration, error) {
	session, ok := s.registry.Lookup(playerID)
	if !ok {
		return 0, game.ErrNotInGame
	}
	return session.RemainingTime(), nil
}

// Release removes a finished session from the registry. Called by the event
// loop when a session ends in the background (timeout).
func (s *GameService) Release(playerID int64, session *game.Session) {
	s.registry.Release(playerID, session)
}
