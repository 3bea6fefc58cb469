package game

import "time"

// EventType tags a session event.
type EventType int

// Session events delivered to the presentation adapter. Background timers can
// change visible state without user input, so the adapter listens on the
// session's event channel to update its messages.
const (
	// EventGraceStarted fires when the primary round timer lapsed and the
	// one-shot grace countdown began.
	EventGraceStarted EventType = iota

	// EventAbilityGranted fires when the meter loop grants an ability.
	EventAbilityGranted

	// EventGameEnded fires once when the session reaches its terminal state.
	// The event channel is closed right after.
	EventGameEnded
)

// Event is one session notification.
type Event struct {
	Type      EventType
	Ability   AbilityKind   // EventAbilityGranted
	Remaining time.Duration // EventGraceStarted
	Summary   *Summary      // EventGameEnded
}
