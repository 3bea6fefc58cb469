package game

import "errors"

// Errors for the game session state machine and registry.
var (
	// ErrAlreadyStarted is returned when Start is called outside NotStarted.
	ErrAlreadyStarted = errors.New("game already started")

	// ErrGameEnded is returned for operations on a terminal session.
	ErrGameEnded = errors.New("game has ended")

	// ErrNoActiveRound is returned when an answer arrives with no round in
	// flight, including while the continue gate is pending.
	ErrNoActiveRound = errors.New("no active round")

	// ErrNoContinuePending is returned when Continue is called without a
	// pending continue gate.
	ErrNoContinuePending = errors.New("no continue pending")

	// ErrUnknownDifficulty is returned for an unrecognized difficulty name.
	ErrUnknownDifficulty = errors.New("unknown difficulty")

	// ErrAlreadyInGame is returned when a player already has an active session.
	ErrAlreadyInGame = errors.New("player already in a game")

	// ErrNotInGame is returned when a player has no active session.
	ErrNotInGame = errors.New("player not in a game")
)
