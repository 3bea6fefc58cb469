// Package bot provides the Telegram bot initialization and handler registration.
package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"article-overload-bot/internal/config"
	"article-overload-bot/internal/handler"
	"article-overload-bot/internal/service"
)

// Bot wraps the telebot instance with application dependencies.
type Bot struct {
	bot          *tele.Bot
	cfg          *config.Config
	gameService  *service.GameService
	statsService *service.StatsService

	// Handlers
	gameHandler  *handler.GameHandler
	statsHandler *handler.StatsHandler
}

// Dependencies holds all the dependencies needed by the bot handlers.
type Dependencies struct {
	Config       *config.Config
	GameService  *service.GameService
	StatsService *service.StatsService
}

// New creates a new Bot instance with the given dependencies.
func New(deps *Dependencies) (*Bot, error) {
	if deps.Config.Bot.Token == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	pref := tele.Settings{
		Token:  deps.Config.Bot.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	teleBot, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	b := &Bot{
		bot:          teleBot,
		cfg:          deps.Config,
		gameService:  deps.GameService,
		statsService: deps.StatsService,
	}

	// Initialize handlers
	b.gameHandler = handler.NewGameHandler(deps.GameService)
	b.statsHandler = handler.NewStatsHandler(deps.StatsService)

	// Register middleware
	b.registerMiddleware()

	// Register handlers
	b.registerHandlers()

	return b, nil
}

// registerMiddleware registers all middleware.
func (b *Bot) registerMiddleware() {
	b.bot.Use(RecoveryMiddleware())

	// Whitelist middleware - check if chat is allowed
	b.bot.Use(WhitelistMiddleware(b.cfg))

	// Logging middleware
	b.bot.Use(LoggingMiddleware())
}

// registerHandlers registers all command and callback handlers.
func (b *Bot) registerHandlers() {
	b.bot.Handle("/start", b.handleStart)
	b.bot.Handle("/help", b.handleStart)

	// Game handlers
	b.bot.Handle("/play", b.gameHandler.HandlePlay)
	b.bot.Handle("/end", b.gameHandler.HandleEnd)
	b.bot.Handle("/time", b.gameHandler.HandleTime)
	b.bot.Handle("/abilities", b.gameHandler.HandleAbilities)

	// Stats handlers
	b.bot.Handle("/leaderboard", b.statsHandler.HandleLeaderboard)
	b.bot.Handle("/mystats", b.statsHandler.HandleMyStats)

	// Generic callback handler for game buttons
	b.bot.Handle(tele.OnCallback, b.handleCallback)
}

// handleStart replies with the command overview.
func (b *Bot) handleStart(c tele.Context) error {
	msg := "🗞 Article Overload\n"
	msg += "Spot the statement that is NOT in the article before time runs out.\n"
	msg += "━━━━━━━━━━━━━━━\n"
	msg += "/play - start a game\n"
	msg += "/end - end your game\n"
	msg += "/time - seconds left in the round\n"
	msg += "/abilities - your abilities and meter\n"
	msg += "/leaderboard - top players\n"
	msg += "/mystats [topic] - your score and accuracy\n"
	return c.Reply(msg)
}

// handleCallback routes callbacks to appropriate handlers
func (b *Bot) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		return nil
	}

	data := callback.Data
	// Telebot v3 may add a \f prefix to callback data
	data = strings.TrimPrefix(data, "\f")

	if strings.HasPrefix(data, handler.CallbackPrefix) {
		return b.gameHandler.HandleGameCallback(c)
	}

	log.Debug().Str("data", data).Msg("Unroutable callback")
	return nil
}

// Start starts the bot polling.
func (b *Bot) Start() {
	log.Info().Msg("Starting bot...")

	// Start message cleaner for auto-deleting old bot messages
	b.gameHandler.StartMessageCleaner(b.bot)

	b.bot.Start()
}

// Stop stops the bot gracefully.
func (b *Bot) Stop() {
	log.Info().Msg("Stopping bot...")
	b.bot.Stop()
}

// GetBot returns the underlying telebot instance.
func (b *Bot) GetBot() *tele.Bot {
	return b.bot
}
