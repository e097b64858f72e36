package league

import (
	"errors"
	"fmt"
)

var (
	// ErrTeamNotFound is returned when a team identifier is not part of the snapshot
	ErrTeamNotFound = errors.New("team not found")

	// ErrInsufficientData is returned when there is not enough data to run a computation
	ErrInsufficientData = errors.New("insufficient data")

	// ErrMalformedGame is returned when a game does not agree with its annotation
	ErrMalformedGame = errors.New("malformed game")
)

// LookupError describes a failed lookup in the snapshot
type LookupError struct {
	Kind string // what was looked up, such as "team"
	Key  string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Kind, e.Key, ErrTeamNotFound.Error())
}

// Unwrap allows errors.Is(err, ErrTeamNotFound)
func (e *LookupError) Unwrap() error {
	return ErrTeamNotFound
}

// Insufficient wraps ErrInsufficientData with a description of what is missing
func Insufficient(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInsufficientData, fmt.Sprintf(format, args...))
}
