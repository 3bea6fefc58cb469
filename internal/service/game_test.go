package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"article-overload-bot/internal/game"
	"article-overload-bot/internal/model"
)

const testSummary = "<the first true statement>\n[the false statement]\n<the second true statement>"

// memArticles serves a fixed article from memory.
type memArticles struct {
	mu        sync.Mutex
	err       error
	responses int
}

func (m *memArticles) GetRandomArticle(ctx context.Context) (*model.Article, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &model.Article{
		ID:      1,
		Title:   "Test Article",
		Author:  "Test Author",
		Topic:   "testing",
		Summary: testSummary,
	}, nil
}

func (m *memArticles) RecordResponse(ctx context.Context, resp *model.ArticleResponse) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses++
	return nil
}

// memScores is an in-memory score store.
type memScores struct {
	mu     sync.Mutex
	nextID int64
	finals map[int64]int64
}

func newMemScores() *memScores {
	return &memScores{finals: make(map[int64]int64)}
}

func (m *memScores) StartSession(ctx context.Context, userID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	return m.nextID, nil
}

func (m *memScores) EndSession(ctx context.Context, sessionID int64, finalScore int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finals[sessionID] = finalScore
	return nil
}

func (m *memScores) PlayerScore(ctx context.Context, userID int64) (int64, error) {
	return 0, nil
}

func testService() (*GameService, *memArticles, *memScores) {
	articles := &memArticles{}
	scores := newMemScores()
	settings := game.DefaultSettings()
	settings.MeterTickInterval = time.Hour
	return NewGameService(game.NewRegistry(), articles, scores, settings), articles, scores
}

func TestGameServiceStartAndLookup(t *testing.T) {
	svc, _, _ := testService()
	ctx := context.Background()

	session, err := svc.StartGame(ctx, game.NewPlayer(1, "tester", "Tester", ""), game.DifficultyEasy)
	if err != nil {
		t.Fatalf("StartGame returned error: %v", err)
	}
	defer svc.EndGame(ctx, 1)

	got, ok := svc.Lookup(1)
	if !ok || got != session {
		t.Error("Lookup did not return the started session")
	}

	// A second game for the same player is refused.
	_, err = svc.StartGame(ctx, game.NewPlayer(1, "tester", "Tester", ""), game.DifficultyEasy)
	if !errors.Is(err, game.ErrAlreadyInGame) {
		t.Errorf("second StartGame error = %v, want ErrAlreadyInGame", err)
	}
}

func TestGameServiceStartFailureFreesSlot(t *testing.T) {
	svc, articles, _ := testService()
	ctx := context.Background()

	articles.err = errors.New("store empty")
	if _, err := svc.StartGame(ctx, game.NewPlayer(1, "tester", "Tester", ""), game.DifficultyEasy); err == nil {
		t.Fatal("StartGame succeeded with a failing article provider")
	}
	if _, ok := svc.Lookup(1); ok {
		t.Error("failed start left a session registered")
	}

	// The slot is free for a retry.
	articles.err = nil
	if _, err := svc.StartGame(ctx, game.NewPlayer(1, "tester", "Tester", ""), game.DifficultyEasy); err != nil {
		t.Fatalf("retried StartGame returned error: %v", err)
	}
	defer svc.EndGame(ctx, 1)
}

func TestGameServiceNotInGame(t *testing.T) {
	svc, _, _ := testService()
	ctx := context.Background()

	if _, err := svc.SubmitAnswer(ctx, 1, "anything"); !errors.Is(err, game.ErrNotInGame) {
		t.Errorf("SubmitAnswer error = %v, want ErrNotInGame", err)
	}
	if err := svc.Continue(ctx, 1); !errors.Is(err, game.ErrNotInGame) {
		t.Errorf("Continue error = %v, want ErrNotInGame", err)
	}
	if _, err := svc.UseAbility(1, game.AbilityExtendTime); !errors.Is(err, game.ErrNotInGame) {
		t.Errorf("UseAbility error = %v, want ErrNotInGame", err)
	}
	if _, err := svc.EndGame(ctx, 1); !errors.Is(err, game.ErrNotInGame) {
		t.Errorf("EndGame error = %v, want ErrNotInGame", err)
	}
	if _, err := svc.RemainingTime(1); !errors.Is(err, game.ErrNotInGame) {
		t.Errorf("RemainingTime error = %v, want ErrNotInGame", err)
	}
}

func TestGameServiceTerminalAnswerReleases(t *testing.T) {
	svc, _, _ := testService()
	ctx := context.Background()

	session, err := svc.StartGame(ctx, game.NewPlayer(1, "tester", "Tester", ""), game.DifficultyEasy)
	if err != nil {
		t.Fatalf("StartGame returned error: %v", err)
	}

	maxIncorrect := svc.Settings().MaxIncorrect
	for i := 0; i < maxIncorrect; i++ {
		_, options, _, ok := session.CurrentRound()
		if !ok {
			t.Fatalf("no round in flight before answer %d", i+1)
		}
		wrong := ""
		for _, option := range options {
			if option != "the false statement" {
				wrong = option
				break
			}
		}

		outcome, err := svc.SubmitAnswer(ctx, 1, wrong)
		if err != nil {
			t.Fatalf("SubmitAnswer %d returned error: %v", i+1, err)
		}
		if i < maxIncorrect-1 {
			if err := svc.Continue(ctx, 1); err != nil {
				t.Fatalf("Continue returned error: %v", err)
			}
			continue
		}
		if !outcome.Terminal {
			t.Fatal("final incorrect answer not terminal")
		}
	}

	if _, ok := svc.Lookup(1); ok {
		t.Error("terminal session still registered")
	}
}

func TestGameServiceEndGame(t *testing.T) {
	svc, _, scores := testService()
	ctx := context.Background()

	if _, err := svc.StartGame(ctx, game.NewPlayer(1, "tester", "Tester", ""), game.DifficultyEasy); err != nil {
		t.Fatalf("StartGame returned error: %v", err)
	}

	summary, err := svc.EndGame(ctx, 1)
	if err != nil {
		t.Fatalf("EndGame returned error: %v", err)
	}
	if summary.Reason != game.ReasonManual {
		t.Errorf("Reason = %q, want %q", summary.Reason, game.ReasonManual)
	}
	if _, ok := svc.Lookup(1); ok {
		t.Error("ended session still registered")
	}
	if len(scores.finals) != 1 {
		t.Errorf("score store holds %d finals, want 1", len(scores.finals))
	}
}
