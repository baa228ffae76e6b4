package poker

import (
	crypto_rand "crypto/rand"
	"encoding/binary"
	"math/rand"

	"github.com/pkg/errors"
)

const (
	DeckSize = 52
	HandSize = 5
)

var fullDeck = FullDeck()

// Deck holds the undealt cards of a round. Cards are always taken from the front;
// the only random step is Shuffle.
type Deck struct {
	cards []Card
}

// NewRandSource returns a generator seeded from crypto/rand. Production tables use
// one per dealer; tests pass a fixed seed instead.
func NewRandSource() *rand.Rand {
	var b [8]byte
	_, err := crypto_rand.Read(b[:])
	if err != nil {
		panic("cannot seed math/rand package with cryptographically secure random number generator")
	}
	return rand.New(rand.NewSource(int64(binary.LittleEndian.Uint64(b[:]))))
}

// NewDeck returns a full deck in canonical order.
func NewDeck() *Deck {
	deck := &Deck{}
	deck.Create()
	return deck
}

// Create resets the deck to the 52 card universe in canonical order.
func (deck *Deck) Create() *Deck {
	deck.cards = make([]Card, len(fullDeck))
	copy(deck.cards, fullDeck)
	return deck
}

// Shuffle applies a uniform random permutation to the remaining cards.
func (deck *Deck) Shuffle(randGen *rand.Rand) *Deck {
	if randGen == nil {
		randGen = NewRandSource()
	}
	randGen.Shuffle(len(deck.cards), func(i, j int) {
		deck.cards[i], deck.cards[j] = deck.cards[j], deck.cards[i]
	})
	return deck
}

// Deal removes the card at the front of the deck.
func (deck *Deck) Deal() (Card, error) {
	if len(deck.cards) == 0 {
		return Card{}, ErrEmptyDeck
	}
	c := deck.cards[0]
	deck.cards = deck.cards[1:]
	return c, nil
}

func (deck *Deck) Remaining() int {
	return len(deck.cards)
}

func (deck *Deck) Empty() bool {
	return len(deck.cards) == 0
}

// Cards returns a copy of the undealt cards, front first.
func (deck *Deck) Cards() []Card {
	cards := make([]Card, len(deck.cards))
	copy(cards, deck.cards)
	return cards
}

func (deck *Deck) Contains(card Card) bool {
	return deck.getCardLoc(card) >= 0
}

// Bytes returns the remaining cards in the one-byte card format.
func (deck *Deck) Bytes() []uint8 {
	cards := make([]byte, len(deck.cards))
	for i, card := range deck.cards {
		cards[i] = card.Byte()
	}
	return cards
}

func DeckFromBytes(cardsInByte []byte) (*Deck, error) {
	if len(cardsInByte) > DeckSize {
		return nil, errors.Errorf("deck cannot hold %d cards", len(cardsInByte))
	}
	seen := make(map[Card]bool, len(cardsInByte))
	cards := make([]Card, len(cardsInByte))
	for i, b := range cardsInByte {
		c, err := CardFromByte(b)
		if err != nil {
			return nil, err
		}
		if seen[c] {
			return nil, errors.Errorf("duplicate card %s in deck", c)
		}
		seen[c] = true
		cards[i] = c
	}
	return &Deck{cards: cards}, nil
}

func (deck *Deck) PrettyPrint() string {
	return CardsToString(deck.cards)
}

type CardsInAscii []string

// DeckFromScript builds a full deck whose front is arranged so that dealing one card
// per seat per pass hands every seat the scripted cards. The rest of the deck keeps
// canonical order.
func DeckFromScript(seatCards []CardsInAscii) (*Deck, error) {
	deck := NewDeck()
	noOfSeats := len(seatCards)
	if noOfSeats*HandSize > DeckSize {
		return nil, errors.Errorf("cannot script %d seats from one deck", noOfSeats)
	}
	placed := make(map[Card]bool, noOfSeats*HandSize)
	for i, cards := range seatCards {
		if len(cards) != HandSize {
			return nil, errors.Errorf("seat %d scripted with %d cards", i, len(cards))
		}
		for j, cardStr := range cards {
			card, err := NewCard(cardStr)
			if err != nil {
				return nil, errors.Wrapf(err, "seat %d", i)
			}
			if placed[card] {
				return nil, errors.Errorf("card %s is scripted more than once", cardStr)
			}
			placed[card] = true
			deckIndex := i + j*noOfSeats
			cardLoc := deck.getCardLoc(card)
			deck.cards[deckIndex], deck.cards[cardLoc] = deck.cards[cardLoc], deck.cards[deckIndex]
		}
	}
	return deck, nil
}

func (deck *Deck) getCardLoc(cardToLocate Card) int {
	for i, card := range deck.cards {
		if card == cardToLocate {
			return i
		}
	}
	return -1
}
