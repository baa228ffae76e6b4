package poker

import "github.com/pkg/errors"

var (
	// ErrEmptyDeck is returned when a card is drawn from a deck with no cards left.
	// Callers stop dealing; the draw is never retried.
	ErrEmptyDeck = errors.New("deck is empty")

	// ErrInvalidHandSize is returned when a hand other than five cards is evaluated.
	ErrInvalidHandSize = errors.New("hand must contain exactly 5 cards")
)
