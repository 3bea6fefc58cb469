// Package handler provides Telegram bot command handlers.
package handler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tele "gopkg.in/telebot.v3"

	"article-overload-bot/internal/game"
)

const (
	// CallbackPrefix is the prefix for all game callback data
	CallbackPrefix = "ao_"

	// MaxOptionButtons caps how many statement buttons fit on one panel
	MaxOptionButtons = 25
)

// EncodeCallback encodes an action and parameter into callback data.
func EncodeCallback(action string, param string) string {
	if param != "" {
		return fmt.Sprintf("%s%s_%s", CallbackPrefix, action, param)
	}
	return fmt.Sprintf("%s%s", CallbackPrefix, action)
}

// DecodeCallback decodes callback data into action and parameter.
func DecodeCallback(data string) (action string, param string) {
	// Telebot v3 may add a \f prefix to callback data
	data = strings.TrimPrefix(data, "\f")
	if !strings.HasPrefix(data, CallbackPrefix) {
		return "", ""
	}

	content := strings.TrimPrefix(data, CallbackPrefix)
	parts := strings.SplitN(content, "_", 2)
	action = parts[0]
	if len(parts) > 1 {
		param = parts[1]
	}
	return action, param
}

// BuildDifficultyPanel builds the difficulty selection keyboard.
// Layout:
//   - Row 1: [🟢 Easy] [🟡 Medium] [🔴 Hard]
func BuildDifficultyPanel() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}

	row := []tele.InlineButton{
		{
			Text: "🟢 Easy",
			Data: EncodeCallback("diff", string(game.DifficultyEasy)),
		},
		{
			Text: "🟡 Medium",
			Data: EncodeCallback("diff", string(game.DifficultyMedium)),
		},
		{
			Text: "🔴 Hard",
			Data: EncodeCallback("diff", string(game.DifficultyHard)),
		},
	}

	markup.InlineKeyboard = [][]tele.InlineButton{row}
	return markup
}

// BuildRoundPanel builds the answer keyboard for an active round.
// Statement buttons come first, five per row, followed by one row per
// held ability and a final quit row. Buttons carry the option index so
// the handler can resolve the statement text at click time.
func BuildRoundPanel(options []string, abilities []game.AbilityKind) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	rows := make([][]tele.InlineButton, 0)

	count := len(options)
	if count > MaxOptionButtons {
		count = MaxOptionButtons
	}

	var row []tele.InlineButton
	for i := 0; i < count; i++ {
		row = append(row, tele.InlineButton{
			Text: strconv.Itoa(i + 1),
			Data: EncodeCallback("answer", strconv.Itoa(i)),
		})
		if len(row) == 5 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	for _, kind := range dedupeAbilities(abilities) {
		rows = append(rows, []tele.InlineButton{
			{
				Text: "✨ " + kind.DisplayName(),
				Data: EncodeCallback("ability", string(kind)),
			},
		})
	}

	rows = append(rows, []tele.InlineButton{
		{
			Text: "🛑 End game",
			Data: EncodeCallback("quit", ""),
		},
	})

	markup.InlineKeyboard = rows
	return markup
}

// BuildContinuePanel builds the between-rounds keyboard.
func BuildContinuePanel() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.InlineKeyboard = [][]tele.InlineButton{
		{
			{
				Text: "📰 Next article",
				Data: EncodeCallback("continue", ""),
			},
			{
				Text: "🛑 End game",
				Data: EncodeCallback("quit", ""),
			},
		},
	}
	return markup
}

// dedupeAbilities collapses duplicate held abilities into one button each.
func dedupeAbilities(abilities []game.AbilityKind) []game.AbilityKind {
	seen := make(map[game.AbilityKind]bool, len(abilities))
	out := make([]game.AbilityKind, 0, len(abilities))
	for _, kind := range abilities {
		if seen[kind] {
			continue
		}
		seen[kind] = true
		out = append(out, kind)
	}
	return out
}

// FormatRoundMessage formats the article panel for an active round.
func FormatRoundMessage(headline, summary string, p game.Player, st game.Settings, remaining time.Duration) string {
	msg := fmt.Sprintf("📰 %s\n", headline)
	msg += "━━━━━━━━━━━━━━━\n"
	msg += summary
	msg += "\n━━━━━━━━━━━━━━━\n"
	msg += fmt.Sprintf("💯 Score: %d | 🔥 Streak: %d | ⚡ Meter: %d%%\n", p.Score, p.AnswerStreak, p.MeterPercent(st))
	msg += fmt.Sprintf("⏰ %d seconds to spot the false statement", int(remaining.Seconds()))
	return msg
}

// FormatOutcomeMessage formats the result of one answer.
func FormatOutcomeMessage(outcome *game.RoundOutcome, st game.Settings) string {
	if outcome.IsCorrect {
		msg := fmt.Sprintf("🎉 Correct! +%d points\n", st.CorrectPoints)
		msg += fmt.Sprintf("💯 Score: %d | 🔥 Streak: %d\n", outcome.Score, outcome.Streak)
		for _, kind := range outcome.Granted {
			msg += fmt.Sprintf("✨ Ability unlocked: %s\n", kind.DisplayName())
		}
		return msg
	}

	msg := fmt.Sprintf("😢 Wrong! -%d points\n", st.IncorrectPoints)
	msg += "━━━━━━━━━━━━━━━\n"
	msg += outcome.Highlighted
	msg += "\n━━━━━━━━━━━━━━━\n"
	msg += fmt.Sprintf("💯 Score: %d\n", outcome.Score)
	return msg
}

// FormatSummaryMessage formats the end-of-game report.
func FormatSummaryMessage(summary *game.Summary) string {
	msg := "🏁 Game over"
	if summary.Reason != "" {
		msg += fmt.Sprintf(" (%s)", summary.Reason)
	}
	msg += "\n━━━━━━━━━━━━━━━\n"
	msg += fmt.Sprintf("💯 Final score: %d\n", summary.Score)
	msg += fmt.Sprintf("✅ Correct: %d | ❌ Incorrect: %d\n", summary.Correct, summary.Incorrect)
	msg += fmt.Sprintf("⏱ Played for %s", summary.Duration.Round(time.Second))
	return msg
}

// FormatAbilitiesMessage formats a player's held abilities and meter state.
func FormatAbilitiesMessage(p game.Player, st game.Settings) string {
	msg := fmt.Sprintf("⚡ Ability meter: %d%%\n", p.MeterPercent(st))
	msg += "━━━━━━━━━━━━━━━\n"
	if len(p.Abilities) == 0 {
		msg += "No abilities yet. Answer correctly to charge the meter faster."
		return msg
	}
	counts := make(map[game.AbilityKind]int)
	for _, kind := range p.Abilities {
		counts[kind]++
	}
	for _, kind := range game.Catalog {
		if n := counts[kind]; n > 0 {
			msg += fmt.Sprintf("• %s x%d\n", kind.DisplayName(), n)
		}
	}
	return msg
}
