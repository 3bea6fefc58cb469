package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"article-overload-bot/internal/game"
	"article-overload-bot/internal/service"
)

const (
	// MessageDeleteInterval is the interval for auto-deleting bot messages (30 minutes)
	MessageDeleteInterval = 30 * time.Minute
)

// TrackedMessage represents a message to be deleted later
type TrackedMessage struct {
	ChatID    int64
	MessageID int
	SentAt    time.Time
}

// GameHandler handles the article game commands and inline callbacks.
type GameHandler struct {
	gameService     *service.GameService
	chats           sync.Map // map[int64]*tele.Chat - player's game chat, for event notifications
	trackedMessages []TrackedMessage
	messagesMu      sync.Mutex
}

// NewGameHandler creates a new GameHandler.
func NewGameHandler(gameService *service.GameService) *GameHandler {
	return &GameHandler{
		gameService:     gameService,
		trackedMessages: make([]TrackedMessage, 0),
	}
}

// StartMessageCleaner starts the background goroutine to delete old messages.
func (h *GameHandler) StartMessageCleaner(bot *tele.Bot) {
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			h.cleanOldMessages(bot)
		}
	}()
}

// cleanOldMessages deletes messages older than MessageDeleteInterval.
func (h *GameHandler) cleanOldMessages(bot *tele.Bot) {
	h.messagesMu.Lock()
	defer h.messagesMu.Unlock()

	now := time.Now()
	remaining := make([]TrackedMessage, 0)

	for _, msg := range h.trackedMessages {
		if now.Sub(msg.SentAt) >= MessageDeleteInterval {
			err := bot.Delete(&tele.Message{
				ID:   msg.MessageID,
				Chat: &tele.Chat{ID: msg.ChatID},
			})
			if err != nil {
				log.Debug().Err(err).Int("msg_id", msg.MessageID).Msg("Failed to delete old message")
			}
		} else {
			remaining = append(remaining, msg)
		}
	}

	h.trackedMessages = remaining
}

// trackMessage adds a message to the tracking list for later deletion.
func (h *GameHandler) trackMessage(chatID int64, messageID int) {
	h.messagesMu.Lock()
	defer h.messagesMu.Unlock()

	h.trackedMessages = append(h.trackedMessages, TrackedMessage{
		ChatID:    chatID,
		MessageID: messageID,
		SentAt:    time.Now(),
	})
}

// HandlePlay handles the /play command. Presents the difficulty panel or,
// when a game is already running, points the player back at it.
func (h *GameHandler) HandlePlay(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	if _, ok := h.gameService.Lookup(sender.ID); ok {
		return c.Reply("❌ You already have a game in progress. Use /end to stop it first.")
	}

	msg := "🗞 Article Overload\n"
	msg += "Read the summary and spot the statement that is NOT in the article.\n\n"
	msg += "Pick a difficulty:"

	sent, err := c.Bot().Reply(c.Message(), msg, BuildDifficultyPanel())
	if err != nil {
		return err
	}
	h.trackMessage(c.Chat().ID, sent.ID)
	return nil
}

// HandleEnd handles the /end command.
func (h *GameHandler) HandleEnd(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	summary, err := h.gameService.EndGame(ctx, sender.ID)
	if err != nil {
		if errors.Is(err, game.ErrNotInGame) {
			return c.Reply("❌ You have no game in progress. Use /play to start one.")
		}
		log.Error().Err(err).Int64("user_id", sender.ID).Msg("Failed to end game")
		return c.Reply("❌ Failed to end the game, please try again later")
	}

	return c.Reply(FormatSummaryMessage(summary))
}

// HandleTime handles the /time command.
func (h *GameHandler) HandleTime(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	remaining, err := h.gameService.RemainingTime(sender.ID)
	if err != nil {
		if errors.Is(err, game.ErrNotInGame) {
			return c.Reply("❌ You have no game in progress. Use /play to start one.")
		}
		return c.Reply("❌ No round is running right now")
	}

	return c.Reply(fmt.Sprintf("⏰ %d seconds left", int(remaining.Seconds())))
}

// HandleAbilities handles the /abilities command.
func (h *GameHandler) HandleAbilities(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	session, ok := h.gameService.Lookup(sender.ID)
	if !ok {
		return c.Reply("❌ You have no game in progress. Use /play to start one.")
	}

	player := session.PlayerSnapshot()
	return c.Reply(FormatAbilitiesMessage(player, h.gameService.Settings()))
}

// HandleGameCallback routes all inline button presses carrying the game
// callback prefix.
func (h *GameHandler) HandleGameCallback(c tele.Context) error {
	callback := c.Callback()
	sender := c.Sender()
	if callback == nil || sender == nil {
		return nil
	}

	action, param := DecodeCallback(callback.Data)
	switch action {
	case "diff":
		return h.handleDifficultyPick(c, sender, param)
	case "answer":
		return h.handleAnswerPick(c, sender, param)
	case "continue":
		return h.handleContinue(c, sender)
	case "ability":
		return h.handleAbilityUse(c, sender, param)
	case "quit":
		return h.handleQuit(c, sender)
	default:
		return c.Respond(&tele.CallbackResponse{Text: "❌ Unknown action"})
	}
}

func (h *GameHandler) handleDifficultyPick(c tele.Context, sender *tele.User, param string) error {
	ctx := context.Background()

	difficulty, err := game.ParseDifficulty(param)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "❌ Unknown difficulty"})
	}

	name := sender.Username
	if name == "" {
		name = sender.FirstName
	}
	player := game.NewPlayer(sender.ID, name, sender.FirstName, "")

	session, err := h.gameService.StartGame(ctx, player, difficulty)
	if err != nil {
		if errors.Is(err, game.ErrAlreadyInGame) {
			return c.Respond(&tele.CallbackResponse{
				Text:      "❌ You already have a game in progress",
				ShowAlert: true,
			})
		}
		log.Error().Err(err).Int64("user_id", sender.ID).Msg("Failed to start game")
		return c.Respond(&tele.CallbackResponse{
			Text:      "❌ Failed to start the game, please try again later",
			ShowAlert: true,
		})
	}

	h.chats.Store(sender.ID, c.Chat())
	go h.watchSession(c.Bot(), sender.ID, session)

	if err := h.editRoundPanel(c, session); err != nil {
		return err
	}
	return c.Respond(&tele.CallbackResponse{Text: "🍀 Good luck!"})
}

func (h *GameHandler) handleAnswerPick(c tele.Context, sender *tele.User, param string) error {
	ctx := context.Background()

	session, ok := h.gameService.Lookup(sender.ID)
	if !ok {
		return c.Respond(&tele.CallbackResponse{
			Text:      "❌ This game has ended",
			ShowAlert: true,
		})
	}

	_, options, _, ok := session.CurrentRound()
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "❌ No round is running right now"})
	}

	idx, err := strconv.Atoi(param)
	if err != nil || idx < 0 || idx >= len(options) {
		// The statement set may have shrunk since the panel was drawn.
		if refreshErr := h.editRoundPanel(c, session); refreshErr != nil {
			log.Debug().Err(refreshErr).Msg("Failed to refresh round panel")
		}
		return c.Respond(&tele.CallbackResponse{Text: "❌ That statement is gone, pick again"})
	}

	outcome, err := h.gameService.SubmitAnswer(ctx, sender.ID, options[idx])
	if err != nil {
		if errors.Is(err, game.ErrNoActiveRound) {
			return c.Respond(&tele.CallbackResponse{Text: "❌ No round is running right now"})
		}
		log.Error().Err(err).Int64("user_id", sender.ID).Msg("Failed to submit answer")
		return c.Respond(&tele.CallbackResponse{
			Text:      "❌ Failed to submit the answer, please try again",
			ShowAlert: true,
		})
	}

	msg := FormatOutcomeMessage(outcome, h.gameService.Settings())
	if outcome.Terminal {
		msg += "\n" + FormatSummaryMessage(outcome.Summary)
		if err := c.Edit(msg); err != nil {
			return err
		}
		return c.Respond(&tele.CallbackResponse{Text: "🏁 Game over"})
	}

	if err := c.Edit(msg, BuildContinuePanel()); err != nil {
		return err
	}
	if outcome.IsCorrect {
		return c.Respond(&tele.CallbackResponse{Text: "🎉 Correct!"})
	}
	return c.Respond(&tele.CallbackResponse{Text: "😢 Wrong!"})
}

func (h *GameHandler) handleContinue(c tele.Context, sender *tele.User) error {
	ctx := context.Background()

	session, ok := h.gameService.Lookup(sender.ID)
	if !ok {
		return c.Respond(&tele.CallbackResponse{
			Text:      "❌ This game has ended",
			ShowAlert: true,
		})
	}

	if err := h.gameService.Continue(ctx, sender.ID); err != nil {
		if errors.Is(err, game.ErrNoContinuePending) {
			return c.Respond(&tele.CallbackResponse{Text: "❌ Nothing to continue"})
		}
		log.Error().Err(err).Int64("user_id", sender.ID).Msg("Failed to start next round")
		return c.Respond(&tele.CallbackResponse{
			Text:      "❌ Failed to fetch the next article, try again",
			ShowAlert: true,
		})
	}

	if err := h.editRoundPanel(c, session); err != nil {
		return err
	}
	return c.Respond(&tele.CallbackResponse{Text: "📰 Next article"})
}

func (h *GameHandler) handleAbilityUse(c tele.Context, sender *tele.User, param string) error {
	session, ok := h.gameService.Lookup(sender.ID)
	if !ok {
		return c.Respond(&tele.CallbackResponse{
			Text:      "❌ This game has ended",
			ShowAlert: true,
		})
	}

	kind, ok := game.ParseAbility(param)
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "❌ Unknown ability"})
	}

	result, err := h.gameService.UseAbility(sender.ID, kind)
	if err != nil {
		if errors.Is(err, game.ErrNotInGame) {
			return c.Respond(&tele.CallbackResponse{Text: "❌ This game has ended"})
		}
		log.Error().Err(err).Int64("user_id", sender.ID).Msg("Failed to use ability")
		return c.Respond(&tele.CallbackResponse{Text: "❌ Failed to use the ability"})
	}

	// The statement set or the timer may have changed.
	if err := h.editRoundPanel(c, session); err != nil {
		log.Debug().Err(err).Msg("Failed to refresh round panel")
	}
	return c.Respond(&tele.CallbackResponse{Text: result, ShowAlert: true})
}

func (h *GameHandler) handleQuit(c tele.Context, sender *tele.User) error {
	ctx := context.Background()

	summary, err := h.gameService.EndGame(ctx, sender.ID)
	if err != nil {
		if errors.Is(err, game.ErrNotInGame) {
			return c.Respond(&tele.CallbackResponse{Text: "❌ This game has ended"})
		}
		log.Error().Err(err).Int64("user_id", sender.ID).Msg("Failed to end game")
		return c.Respond(&tele.CallbackResponse{
			Text:      "❌ Failed to end the game, please try again later",
			ShowAlert: true,
		})
	}

	if err := c.Edit(FormatSummaryMessage(summary)); err != nil {
		return err
	}
	return c.Respond(&tele.CallbackResponse{Text: "🏁 Game over"})
}

// editRoundPanel redraws the callback's message with the current round state.
func (h *GameHandler) editRoundPanel(c tele.Context, session *game.Session) error {
	summary, options, headline, ok := session.CurrentRound()
	if !ok {
		return nil
	}

	player := session.PlayerSnapshot()
	text := FormatRoundMessage(headline, summary, player, h.gameService.Settings(), session.RemainingTime())
	return c.Edit(text, BuildRoundPanel(options, player.Abilities), tele.ModeMarkdown)
}

// watchSession forwards session events to the player's chat. It runs until
// the session closes its event channel after the game ends, and releases the
// registry slot for games that end without a player command, such as a
// timeout during the grace period.
func (h *GameHandler) watchSession(bot *tele.Bot, playerID int64, session *game.Session) {
	chatVal, ok := h.chats.Load(playerID)
	if !ok {
		return
	}
	chat := chatVal.(*tele.Chat)

	for ev := range session.Events() {
		switch ev.Type {
		case game.EventGraceStarted:
			msg := fmt.Sprintf("⏰ Time's almost up! %d more seconds to answer.", int(ev.Remaining.Seconds()))
			if _, err := bot.Send(chat, msg); err != nil {
				log.Debug().Err(err).Int64("user_id", playerID).Msg("Failed to send grace warning")
			}
		case game.EventAbilityGranted:
			msg := fmt.Sprintf("✨ Ability unlocked: %s! Check the buttons under the article.", ev.Ability.DisplayName())
			if _, err := bot.Send(chat, msg); err != nil {
				log.Debug().Err(err).Int64("user_id", playerID).Msg("Failed to send ability notice")
			}
		case game.EventGameEnded:
			h.gameService.Release(playerID, session)
			h.chats.Delete(playerID)
			if ev.Summary != nil && ev.Summary.Reason == game.ReasonTimeUp {
				if _, err := bot.Send(chat, FormatSummaryMessage(ev.Summary)); err != nil {
					log.Debug().Err(err).Int64("user_id", playerID).Msg("Failed to send game summary")
				}
			}
		}
	}
}
