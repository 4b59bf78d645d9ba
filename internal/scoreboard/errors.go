package scoreboard

import "errors"

var (
	// ErrInvalidInput covers malformed arguments. Nothing is mutated when it is returned.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConflict means a match for the same pair of teams is already on the board.
	ErrConflict = errors.New("duplicate match")
	// ErrNotAllowed means a team is already committed to another active match.
	ErrNotAllowed = errors.New("not allowed")
	ErrNotFound   = errors.New("match not found")
)
