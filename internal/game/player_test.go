package game

import (
	"testing"

	"pgregory.net/rapid"
)

func TestPlayerScoring(t *testing.T) {
	st := DefaultSettings()
	p := NewPlayer(1, "tester", "Tester", "")

	p.AddCorrect(st)
	p.AddCorrect(st)
	if p.Score != 2*st.CorrectPoints {
		t.Errorf("Score = %d after two correct, want %d", p.Score, 2*st.CorrectPoints)
	}
	if p.AnswerStreak != 2 {
		t.Errorf("AnswerStreak = %d, want 2", p.AnswerStreak)
	}

	p.AddIncorrect(st)
	if p.Score != 2*st.CorrectPoints-st.IncorrectPoints {
		t.Errorf("Score = %d after one incorrect, want %d", p.Score, 2*st.CorrectPoints-st.IncorrectPoints)
	}
	if p.AnswerStreak != 0 {
		t.Errorf("AnswerStreak = %d after incorrect, want 0", p.AnswerStreak)
	}
	if p.Correct != 2 || p.Incorrect != 1 {
		t.Errorf("counters = %d/%d, want 2/1", p.Correct, p.Incorrect)
	}
}

func TestPlayerAbilityInventory(t *testing.T) {
	p := NewPlayer(1, "tester", "Tester", "")

	if p.HasAbility(AbilityExtendTime) {
		t.Error("new player holds an ability")
	}
	if p.RemoveAbility(AbilityExtendTime) {
		t.Error("RemoveAbility succeeded on an empty inventory")
	}

	p.AddAbility(AbilityExtendTime)
	p.AddAbility(AbilityExtendTime)
	p.AddAbility(AbilityReduceTime)

	if !p.RemoveAbility(AbilityExtendTime) {
		t.Fatal("RemoveAbility failed")
	}
	if !p.HasAbility(AbilityExtendTime) {
		t.Error("second copy gone after removing one")
	}
	if !p.RemoveAbility(AbilityExtendTime) {
		t.Fatal("RemoveAbility failed on second copy")
	}
	if p.HasAbility(AbilityExtendTime) {
		t.Error("removed ability still held")
	}
	if !p.HasAbility(AbilityReduceTime) {
		t.Error("unrelated ability lost")
	}
}

// TestAdvanceMeterSingleCrossingProperty tests that crossing the threshold
// once grants exactly one ability and keeps the remainder on the meter.
func TestAdvanceMeterSingleCrossingProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		st := DefaultSettings()
		st.MeterThreshold = rapid.IntRange(10, 1000).Draw(t, "threshold")

		p := NewPlayer(1, "tester", "Tester", "")
		start := rapid.IntRange(0, st.MeterThreshold-1).Draw(t, "start")
		p.Meter = start

		// A value that crosses the threshold exactly once
		value := rapid.IntRange(st.MeterThreshold-start, 2*st.MeterThreshold-start-1).Draw(t, "value")

		granted := p.AdvanceMeter(value, st)
		if len(granted) != 1 {
			t.Fatalf("granted %d abilities, want 1", len(granted))
		}
		if p.Meter != start+value-st.MeterThreshold {
			t.Errorf("Meter = %d, want %d", p.Meter, start+value-st.MeterThreshold)
		}
		if !p.HasAbility(granted[0]) {
			t.Error("granted ability not in inventory")
		}
	})
}

// TestAdvanceMeterMultiCrossingProperty tests that one oversized update grants
// one ability per full threshold it covers.
func TestAdvanceMeterMultiCrossingProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		st := DefaultSettings()
		st.MeterThreshold = rapid.IntRange(10, 100).Draw(t, "threshold")

		p := NewPlayer(1, "tester", "Tester", "")
		crossings := rapid.IntRange(0, 10).Draw(t, "crossings")
		remainder := rapid.IntRange(0, st.MeterThreshold-1).Draw(t, "remainder")

		granted := p.AdvanceMeter(crossings*st.MeterThreshold+remainder, st)
		if len(granted) != crossings {
			t.Fatalf("granted %d abilities, want %d", len(granted), crossings)
		}
		if p.Meter != remainder {
			t.Errorf("Meter = %d, want %d", p.Meter, remainder)
		}
		if len(p.Abilities) != crossings {
			t.Errorf("inventory holds %d abilities, want %d", len(p.Abilities), crossings)
		}
	})
}
