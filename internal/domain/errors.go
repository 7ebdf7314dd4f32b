package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a game code has no registered session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionStarted is returned when a player tries to join after the lobby closed.
	ErrSessionStarted = errors.New("session already started")
	// ErrSessionFull is returned when a session already holds the maximum participants.
	ErrSessionFull = errors.New("session is full")
	// ErrDuplicateName is returned when a display name collides case-insensitively.
	ErrDuplicateName = errors.New("name already taken")
	// ErrInvalidName is returned when a display name is empty after sanitizing.
	ErrInvalidName = errors.New("invalid name")
	// ErrNoParticipants is returned when the host starts a game with nobody in the lobby.
	ErrNoParticipants = errors.New("no participants in lobby")
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrParticipantNotFound is returned when an action references an unknown participant.
	ErrParticipantNotFound = errors.New("participant not found")
	// ErrWrongState is returned when a transition is requested from a state that forbids it.
	ErrWrongState = errors.New("operation not valid in current state")
	// ErrNotHost is returned when a non-host connection attempts a host-only action.
	ErrNotHost = errors.New("connection is not the host")
)
