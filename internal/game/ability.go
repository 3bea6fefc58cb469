package game

import (
	"fmt"
	"math/rand"
	"strings"
)

// AbilityKind is a tagged variant from the closed ability catalog. Behavior
// lives in the effect dispatch table, not on the kind itself.
type AbilityKind string

// The ability catalog.
const (
	AbilityReduceTime        AbilityKind = "reduce_time"
	AbilityExtendTime        AbilityKind = "extend_time"
	AbilityRemoveWrongOption AbilityKind = "remove_wrong_option"
)

// Catalog lists all grantable abilities.
var Catalog = []AbilityKind{
	AbilityReduceTime,
	AbilityExtendTime,
	AbilityRemoveWrongOption,
}

// ParseAbility maps user input to an ability kind.
func ParseAbility(s string) (AbilityKind, bool) {
	kind := AbilityKind(strings.ToLower(strings.TrimSpace(s)))
	for _, a := range Catalog {
		if a == kind {
			return kind, true
		}
	}
	return "", false
}

// DisplayName returns a human-readable ability name.
func (k AbilityKind) DisplayName() string {
	switch k {
	case AbilityReduceTime:
		return "Cooldown"
	case AbilityExtendTime:
		return "Extend Timer"
	case AbilityRemoveWrongOption:
		return "Remove Option"
	default:
		return string(k)
	}
}

// RandomAbility picks uniformly from the full catalog. Already-held kinds are
// not excluded, so duplicates are possible.
func RandomAbility() AbilityKind {
	return Catalog[rand.Intn(len(Catalog))]
}

// effectFunc mutates round state for one ability use and reports the result.
// Called with the session lock held.
type effectFunc func(p *Player, s *Session) string

// effects is the dispatch table from ability kind to its effect.
var effects = map[AbilityKind]effectFunc{
	AbilityReduceTime:        applyReduceTime,
	AbilityExtendTime:        applyExtendTime,
	AbilityRemoveWrongOption: applyRemoveWrongOption,
}

func applyReduceTime(p *Player, s *Session) string {
	if s.round == nil || !s.round.timer.Reduce(s.settings.CooldownAmount) {
		return "Nothing to cool down!"
	}
	return fmt.Sprintf("Cooldown ability used! Timer reduced by %.0f seconds.",
		s.settings.CooldownAmount.Seconds())
}

func applyExtendTime(p *Player, s *Session) string {
	if s.round == nil || !s.round.timer.Extend(s.settings.ExtendAmount) {
		return "Nothing to extend!"
	}
	return fmt.Sprintf("Extend Timer ability used! Timer increased by %.0f seconds.",
		s.settings.ExtendAmount.Seconds())
}

func applyRemoveWrongOption(p *Player, s *Session) string {
	if s.round == nil {
		return "No article in play!"
	}
	options := s.round.options
	if len(options) <= 1 {
		return "No option left to remove!"
	}

	falseStatement := s.round.article.FalseStatement()

	// Re-roll until the pick is not the false statement. The false statement
	// must always stay in the selectable set.
	idx := rand.Intn(len(options))
	for options[idx] == falseStatement {
		idx = rand.Intn(len(options))
	}

	removed := options[idx]
	s.round.options = append(options[:idx], options[idx+1:]...)
	return fmt.Sprintf("Remove Option ability used! Dropped: %s", removed)
}
