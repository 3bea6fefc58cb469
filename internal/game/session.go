// Package game implements the per-player round loop: article selection,
// countdown timers, answer scoring, the ability meter and termination policy.
package game

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"article-overload-bot/internal/article"
	"article-overload-bot/internal/model"
)

// State is the session lifecycle state.
type State int

// Session lifecycle. Ended is terminal.
const (
	StateNotStarted State = iota
	StateInProgress
	StateEnded
)

// String implements fmt.Stringer for logging.
func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateInProgress:
		return "in_progress"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// EndReason tells why a session reached its terminal state.
type EndReason string

// Termination conditions.
const (
	ReasonManual           EndReason = "ended"
	ReasonTimeUp           EndReason = "time up"
	ReasonTooManyIncorrect EndReason = "too many incorrect"
)

// Summary is the final report of a session. Every end state is informative:
// timeouts and incorrect-limit terminations carry the same counters as a
// manual end.
type Summary struct {
	Score     int
	Correct   int
	Incorrect int
	Duration  time.Duration
	Reason    EndReason
}

// RoundOutcome reports the result of one answer submission.
type RoundOutcome struct {
	IsCorrect   bool
	Score       int
	Streak      int
	Granted     []AbilityKind // abilities granted by the correct-answer meter bonus
	Highlighted string        // reveal text, set on incorrect answers
	Terminal    bool
	Summary     *Summary // set when Terminal
}

// round owns the resources of one article cycle: the mutable selectable set,
// the countdown and the background goroutines. All of them are released in
// exactly one place (stop), on every exit path.
type round struct {
	number    int
	article   *article.Handler
	options   []string // mutated by RemoveWrongOption
	timer     *Timer
	graceUsed bool
	done      bool
	cancel    context.CancelFunc
}

// stop releases the round's timer and background goroutines. Idempotent.
func (r *round) stop() {
	r.done = true
	r.timer.Stop()
	r.cancel()
}

// Session drives one player's progression through rounds. All mutation goes
// through the session mutex; the timer watcher and the meter loop race user
// submissions for the same lock, and a finished round is marked done so the
// loser of the race is a no-op.
type Session struct {
	mu sync.Mutex

	id       uuid.UUID
	settings Settings
	articles ArticleProvider
	scores   ScoreStore
	logger   zerolog.Logger

	player     *Player
	state      State
	difficulty Difficulty

	roundDuration  time.Duration
	startTime      time.Time
	endTime        time.Time
	storeSessionID int64

	round            *round
	roundCount       int
	awaitingContinue bool

	events       chan Event
	eventsClosed bool
}

// NewSession creates a session for one player in the NotStarted state.
func NewSession(player *Player, articles ArticleProvider, scores ScoreStore, settings Settings) *Session {
	id := uuid.New()
	return &Session{
		id:       id,
		settings: settings,
		articles: articles,
		scores:   scores,
		player:   player,
		state:    StateNotStarted,
		events:   make(chan Event, 32),
		logger: log.With().
			Str("session", id.String()).
			Int64("user_id", player.ID).
			Logger(),
	}
}

// ID returns the session instance id used in logs.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Events returns the channel of background notifications. Closed after
// EventGameEnded is delivered.
func (s *Session) Events() <-chan Event {
	return s.events
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// PlayerSnapshot returns a copy of the player's current state.
func (s *Session) PlayerSnapshot() Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := *s.player
	p.Abilities = append([]AbilityKind(nil), s.player.Abilities...)
	return p
}

// Start transitions NotStarted -> InProgress: opens a scoring session, reads
// the player's all-time score, draws the first article and begins the round
// loop. Fails with ErrAlreadyStarted outside NotStarted; on any failure the
// session is left in NotStarted.
func (s *Session) Start(ctx context.Context, difficulty Difficulty) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateNotStarted {
		return ErrAlreadyStarted
	}

	duration, err := s.settings.RoundDuration(difficulty)
	if err != nil {
		return err
	}

	storeID, err := s.scores.StartSession(ctx, s.player.ID)
	if err != nil {
		return err
	}

	allTime, err := s.scores.PlayerScore(ctx, s.player.ID)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to read all-time score")
	}

	s.difficulty = difficulty
	s.roundDuration = duration
	s.storeSessionID = storeID
	s.player.AllTimeScore = allTime
	s.state = StateInProgress
	s.startTime = time.Now()

	if err := s.startRoundLocked(ctx); err != nil {
		// Leave the session startable again; the scoring session is closed
		// best-effort with a zero score.
		s.state = StateNotStarted
		s.startTime = time.Time{}
		s.storeSessionID = 0
		if endErr := s.scores.EndSession(ctx, storeID, 0); endErr != nil {
			s.logger.Warn().Err(endErr).Msg("Failed to close scoring session after aborted start")
		}
		return err
	}

	s.logger.Info().
		Str("difficulty", string(difficulty)).
		Dur("round_duration", duration).
		Msg("Game started")
	return nil
}

// startRoundLocked draws a fresh article and starts the round's timer and
// meter loop. Caller holds the lock.
func (s *Session) startRoundLocked(ctx context.Context) error {
	a, err := s.articles.GetRandomArticle(ctx)
	if err != nil {
		return err
	}

	handler, err := article.NewHandler(a)
	if err != nil {
		return err
	}

	// Background loops outlive the triggering request, so they hang off a
	// session-owned context rather than the request context.
	roundCtx, cancel := context.WithCancel(context.Background())

	s.roundCount++
	r := &round{
		number:  s.roundCount,
		article: handler,
		options: handler.Selectable(),
		timer:   NewTimer(s.roundDuration),
		cancel:  cancel,
	}
	r.timer.Start()
	s.round = r

	go s.watchTimer(roundCtx, r)
	go s.meterLoop(roundCtx)

	s.logger.Debug().
		Int("round", r.number).
		Int64("article_id", a.ID).
		Str("topic", a.Topic).
		Msg("Round started")
	return nil
}

// watchTimer sleeps until the round's countdown runs out, re-checking after
// each wake-up so ability effects that shift the deadline are honored.
func (s *Session) watchTimer(ctx context.Context, r *round) {
	for {
		if !r.timer.Active() {
			return
		}
		remaining := r.timer.Remaining()
		if remaining > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(remaining):
			}
			continue
		}
		if !s.expireRound(r) {
			return
		}
	}
}

// expireRound handles a lapsed countdown: the first lapse per round starts the
// grace sub-round, the second ends the session with "time up". Returns true
// when the watcher should keep counting.
func (s *Session) expireRound(r *round) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	// An answer may have won the race against the timer.
	if s.state != StateInProgress || s.round != r || r.done {
		return false
	}

	if !r.graceUsed {
		r.graceUsed = true
		r.timer.Reset(s.settings.GraceDuration)
		s.logger.Info().Int("round", r.number).Msg("Grace countdown started")
		s.emitLocked(Event{Type: EventGraceStarted, Remaining: s.settings.GraceDuration})
		return true
	}

	s.logger.Info().Int("round", r.number).Msg("Time up")
	s.endLocked(ReasonTimeUp)
	return false
}

// meterLoop advances the ability meter on a fixed cadence while a round is in
// flight. Cancelled with the round so an ended session cannot keep granting.
func (s *Session) meterLoop(ctx context.Context) {
	ticker := time.NewTicker(s.settings.MeterTickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			if s.state != StateInProgress {
				s.mu.Unlock()
				return
			}
			granted := s.player.AdvanceMeter(s.settings.MeterTickAmount, s.settings)
			for _, kind := range granted {
				s.logger.Info().Str("ability", string(kind)).Msg("Ability granted")
				s.emitLocked(Event{Type: EventAbilityGranted, Ability: kind})
			}
			s.mu.Unlock()
		}
	}
}

// SubmitAnswer scores one answer against the round's false statement. Fails
// with ErrNoActiveRound when no round is in flight, including while the
// continue gate is pending. A terminal outcome carries the final summary.
func (s *Session) SubmitAnswer(ctx context.Context, selection string) (*RoundOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateEnded {
		return nil, ErrGameEnded
	}
	r := s.round
	if s.state != StateInProgress || r == nil || r.done || s.awaitingContinue {
		return nil, ErrNoActiveRound
	}

	// The answer won the race: release the round's timers before scoring.
	r.stop()

	isCorrect := r.article.IsFalseStatement(selection)
	var granted []AbilityKind
	if isCorrect {
		s.player.AddCorrect(s.settings)
		granted = s.player.AdvanceMeter(s.settings.CorrectMeterBonus, s.settings)
		for _, kind := range granted {
			s.logger.Info().Str("ability", string(kind)).Msg("Ability granted")
		}
	} else {
		s.player.AddIncorrect(s.settings)
	}

	resp := &model.ArticleResponse{
		ArticleID: r.article.Article.ID,
		SessionID: s.storeSessionID,
		UserID:    s.player.ID,
		Response:  selection,
		IsCorrect: isCorrect,
	}
	if err := s.articles.RecordResponse(ctx, resp); err != nil {
		// Telemetry only; the round result stands.
		s.logger.Warn().Err(err).Msg("Failed to record response")
	}

	outcome := &RoundOutcome{
		IsCorrect: isCorrect,
		Score:     s.player.Score,
		Streak:    s.player.AnswerStreak,
		Granted:   granted,
	}
	if !isCorrect {
		outcome.Highlighted = r.article.HighlightedSummary()
	}

	s.logger.Info().
		Int("round", r.number).
		Bool("correct", isCorrect).
		Int("score", s.player.Score).
		Msg("Answer submitted")

	if s.player.Incorrect >= s.settings.MaxIncorrect {
		summary := s.endLocked(ReasonTooManyIncorrect)
		outcome.Terminal = true
		outcome.Summary = summary
		return outcome, nil
	}

	s.awaitingContinue = true
	return outcome, nil
}

// Continue closes the continue gate and starts the next round.
func (s *Session) Continue(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateEnded {
		return ErrGameEnded
	}
	if s.state != StateInProgress || !s.awaitingContinue {
		return ErrNoContinuePending
	}

	s.awaitingContinue = false
	if err := s.startRoundLocked(ctx); err != nil {
		// Keep the gate open so the player can retry or end cleanly.
		s.awaitingContinue = true
		return err
	}
	return nil
}

// UseAbility consumes one copy of kind and applies its effect. Using an
// ability that is not held is a reported rejection, never an error.
func (s *Session) UseAbility(kind AbilityKind) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateEnded {
		return "", ErrGameEnded
	}

	if !s.player.RemoveAbility(kind) {
		return "Ability not found!", nil
	}

	effect, ok := effects[kind]
	if !ok {
		return "Ability not found!", nil
	}

	result := effect(s.player, s)
	s.logger.Info().Str("ability", string(kind)).Str("result", result).Msg("Ability used")
	return result, nil
}

// End terminates the session from any non-terminal state.
func (s *Session) End(ctx context.Context) (*Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateEnded {
		return nil, ErrGameEnded
	}
	return s.endLocked(ReasonManual), nil
}

// endLocked is the single place a session reaches its terminal state: it
// cancels the round's background work, closes the scoring session and
// delivers the final event. Caller holds the lock.
func (s *Session) endLocked(reason EndReason) *Summary {
	s.state = StateEnded
	s.endTime = time.Now()
	s.awaitingContinue = false

	if s.round != nil {
		s.round.stop()
	}

	var duration time.Duration
	if !s.startTime.IsZero() {
		duration = s.endTime.Sub(s.startTime)
	}

	summary := &Summary{
		Score:     s.player.Score,
		Correct:   s.player.Correct,
		Incorrect: s.player.Incorrect,
		Duration:  duration,
		Reason:    reason,
	}

	if s.storeSessionID != 0 {
		// Best-effort: the session is terminating regardless.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.scores.EndSession(ctx, s.storeSessionID, int64(s.player.Score)); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to close scoring session")
		}
		cancel()
	}

	s.logger.Info().
		Str("reason", string(reason)).
		Int("score", summary.Score).
		Int("correct", summary.Correct).
		Int("incorrect", summary.Incorrect).
		Dur("duration", duration).
		Msg("Game ended")

	s.emitLocked(Event{Type: EventGameEnded, Summary: summary})
	if !s.eventsClosed {
		s.eventsClosed = true
		close(s.events)
	}
	return summary
}

// RemainingTime returns the current round's countdown, clamped at zero and
// zero when no round is active.
func (s *Session) RemainingTime() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.round == nil {
		return 0
	}
	return s.round.timer.Remaining()
}

// AwaitingContinue reports whether the continue gate is pending.
func (s *Session) AwaitingContinue() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.awaitingContinue
}

// CurrentRound returns the round's display content: the marked-up summary,
// the selectable options and the headline. ok is false when no round is in
// flight.
func (s *Session) CurrentRound() (summary string, options []string, headline string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateInProgress || s.round == nil || s.round.done {
		return "", nil, "", false
	}
	options = append([]string(nil), s.round.options...)
	return s.round.article.MarkedUpSummary(), options, s.round.article.Headline(), true
}

// emitLocked delivers an event without blocking. Caller holds the lock, so
// emission order matches state mutation order.
func (s *Session) emitLocked(ev Event) {
	if s.eventsClosed {
		return
	}
	select {
	case s.events <- ev:
	default:
		s.logger.Warn().Int("type", int(ev.Type)).Msg("Dropped session event")
	}
}
