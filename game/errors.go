package game

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrInsufficientPlayers = errors.New("at least 2 players are required to deal")
	ErrRoundInProgress     = errors.New("roster cannot change while a round is in progress")
	ErrNoRound             = errors.New("no round in progress")
	ErrDuplicatePlayer     = errors.New("player is already seated")
	ErrPlayerNotFound      = errors.New("player is not seated")
	ErrInsufficientChips   = errors.New("not enough chips")
	ErrTableNotFound       = errors.New("table not found")
	ErrTableFull           = errors.New("table is full")
)

// NotReadyToDealError reports that dealing was skipped because too few players are seated.
type NotReadyToDealError struct {
	Seated int
}

func (e NotReadyToDealError) Error() string {
	return fmt.Sprintf("%s: %d seated", ErrInsufficientPlayers.Error(), e.Seated)
}

func (e NotReadyToDealError) Is(target error) bool {
	return target == ErrInsufficientPlayers
}

// InvariantError is raised when the 52 card accounting of a round does not hold.
type InvariantError struct {
	Msg string
}

func (e InvariantError) Error() string {
	return e.Msg
}
