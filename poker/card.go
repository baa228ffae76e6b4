package poker

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

type Suit uint8

const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

var suits = [...]Suit{Hearts, Diamonds, Clubs, Spades}

type Rank uint8

const (
	Two Rank = iota
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

var ranks = [...]Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

var (
	strRanks = "23456789TJQKA"
	strSuits = "hdcs"
)

var prettySuits = [...]string{
	"❤", // hearts
	"♦", // diamonds
	"♣", // clubs
	"♠", // spades
}

// Strength returns the numeric strength of the rank, 2 through 14 with the ace high.
func (r Rank) Strength() int {
	return int(r) + 2
}

func (r Rank) String() string {
	if int(r) >= len(strRanks) {
		return "?"
	}
	return string(strRanks[r])
}

func (s Suit) String() string {
	if int(s) >= len(strSuits) {
		return "?"
	}
	return string(strSuits[s])
}

// Card is an immutable suit and rank pair. Two cards are equal when both match.
type Card struct {
	Suit Suit
	Rank Rank
}

func NewCard(s string) (Card, error) {
	if len(s) != 2 {
		return Card{}, errors.Errorf("invalid card %q", s)
	}
	r := strings.IndexByte(strRanks, strings.ToUpper(s[:1])[0])
	if r < 0 {
		return Card{}, errors.Errorf("invalid rank in card %q", s)
	}
	st := strings.IndexByte(strSuits, strings.ToLower(s[1:])[0])
	if st < 0 {
		return Card{}, errors.Errorf("invalid suit in card %q", s)
	}
	return Card{Suit: Suit(st), Rank: Rank(r)}, nil
}

// MustCard is NewCard for literals known to be valid.
func MustCard(s string) Card {
	c, err := NewCard(s)
	if err != nil {
		panic(err)
	}
	return c
}

func NewCards(strs ...string) ([]Card, error) {
	cards := make([]Card, 0, len(strs))
	for _, s := range strs {
		c, err := NewCard(s)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

func (c Card) Strength() int {
	return c.Rank.Strength()
}

func (c Card) Valid() bool {
	return int(c.Suit) < len(suits) && int(c.Rank) < len(ranks)
}

// Byte encodes the card in one byte.
// high 4 bits rank of the card (0000: 2 ... 1100: A), low 4 bits suit of the card
// 0000: Hearts
// 0001: Diamonds
// 0010: Clubs
// 0011: Spades
func (c Card) Byte() uint8 {
	return uint8(c.Rank)<<4 | uint8(c.Suit)
}

func CardFromByte(b uint8) (Card, error) {
	c := Card{Suit: Suit(b & 0xF), Rank: Rank(b >> 4)}
	if !c.Valid() {
		return Card{}, errors.Errorf("invalid card byte 0x%02x", b)
	}
	return c, nil
}

func (c Card) MarshalJSON() ([]byte, error) {
	return []byte("\"" + c.String() + "\""), nil
}

func (c *Card) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return errors.Errorf("invalid card json %s", string(b))
	}
	card, err := NewCard(string(b[1 : len(b)-1]))
	if err != nil {
		return err
	}
	*c = card
	return nil
}

func CardToString(c Card) string {
	if !c.Valid() {
		return "??"
	}
	return fmt.Sprintf("%s%s", c.Rank.String(), prettySuits[c.Suit])
}

func CardsToString(cards []Card) string {
	var b strings.Builder
	b.Grow(32)
	fmt.Fprintf(&b, "[")
	for _, c := range cards {
		fmt.Fprintf(&b, " %s ", CardToString(c))
	}
	fmt.Fprintf(&b, "]")
	return b.String()
}

// FullDeck returns the 52 cards in canonical order: suit-major, rank ascending.
func FullDeck() []Card {
	cards := make([]Card, 0, DeckSize)
	for _, s := range suits {
		for _, r := range ranks {
			cards = append(cards, Card{Suit: s, Rank: r})
		}
	}
	return cards
}
