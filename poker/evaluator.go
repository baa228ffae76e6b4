package poker

import (
	"fmt"
	"sort"
	"strings"
)

type Category int

const (
	HighCard Category = iota + 1
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

var categoryToString = map[Category]string{
	HighCard:      "High Card",
	OnePair:       "Pair",
	TwoPair:       "Two Pair",
	ThreeOfAKind:  "Three of a Kind",
	Straight:      "Straight",
	Flush:         "Flush",
	FullHouse:     "Full House",
	FourOfAKind:   "Four of a Kind",
	StraightFlush: "Straight Flush",
	RoyalFlush:    "Royal Flush",
}

func (c Category) String() string {
	if s, ok := categoryToString[c]; ok {
		return s
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// HandRank is the comparison key of a five card hand. Hands compare by category
// first and then by Tiebreak, element by element.
type HandRank struct {
	Category Category `json:"category"`
	Tiebreak []int    `json:"tiebreak"`
}

func (h HandRank) String() string {
	parts := make([]string, len(h.Tiebreak))
	for i, v := range h.Tiebreak {
		parts[i] = fmt.Sprint(v)
	}
	return fmt.Sprintf("%s (%s)", h.Category, strings.Join(parts, ","))
}

func (h HandRank) Beats(other HandRank) bool {
	return Compare(h, other) > 0
}

func (h HandRank) Equal(other HandRank) bool {
	return Compare(h, other) == 0
}

// Compare returns 1 when a ranks above b, -1 when b ranks above a and 0 for an exact tie.
func Compare(a, b HandRank) int {
	if a.Category != b.Category {
		if a.Category > b.Category {
			return 1
		}
		return -1
	}
	n := len(a.Tiebreak)
	if len(b.Tiebreak) < n {
		n = len(b.Tiebreak)
	}
	for i := 0; i < n; i++ {
		if a.Tiebreak[i] != b.Tiebreak[i] {
			if a.Tiebreak[i] > b.Tiebreak[i] {
				return 1
			}
			return -1
		}
	}
	switch {
	case len(a.Tiebreak) > len(b.Tiebreak):
		return 1
	case len(a.Tiebreak) < len(b.Tiebreak):
		return -1
	}
	return 0
}

type rankCount struct {
	count    int
	strength int
}

// EvaluateHand classifies exactly five cards. It has no side effects and is safe to
// call concurrently on hands that are not being modified.
//
// The wheel (A-5-4-3-2) is the lowest straight: its ace is scored as 1 in the
// tiebreak so that a six-high straight beats it.
func EvaluateHand(hand []Card) (HandRank, error) {
	if len(hand) != HandSize {
		return HandRank{}, ErrInvalidHandSize
	}

	strengths := make([]int, 0, HandSize)
	counts := make(map[int]int, HandSize)
	flush := true
	for i, c := range hand {
		s := c.Strength()
		strengths = append(strengths, s)
		counts[s]++
		if i > 0 && c.Suit != hand[0].Suit {
			flush = false
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(strengths)))

	straight := false
	if len(counts) == HandSize {
		if strengths[0]-strengths[4] == 4 {
			straight = true
		} else if strengths[0] == 14 && strengths[1] == 5 && strengths[4] == 2 {
			// wheel
			straight = true
			strengths = []int{5, 4, 3, 2, 1}
			counts = map[int]int{5: 1, 4: 1, 3: 1, 2: 1, 1: 1}
		}
	}

	profile := make([]rankCount, 0, len(counts))
	for s, n := range counts {
		profile = append(profile, rankCount{count: n, strength: s})
	}
	sort.Slice(profile, func(i, j int) bool {
		if profile[i].count != profile[j].count {
			return profile[i].count > profile[j].count
		}
		return profile[i].strength > profile[j].strength
	})

	var category Category
	switch {
	case straight && flush && strengths[0] == 14:
		category = RoyalFlush
	case straight && flush:
		category = StraightFlush
	case profile[0].count == 4:
		category = FourOfAKind
	case profile[0].count == 3 && profile[1].count == 2:
		category = FullHouse
	case flush:
		category = Flush
	case straight:
		category = Straight
	case profile[0].count == 3:
		category = ThreeOfAKind
	case profile[0].count == 2 && profile[1].count == 2:
		category = TwoPair
	case profile[0].count == 2:
		category = OnePair
	default:
		category = HighCard
	}

	tiebreak := make([]int, 0, len(profile)+HandSize)
	for _, p := range profile {
		tiebreak = append(tiebreak, p.strength)
	}
	tiebreak = append(tiebreak, strengths...)

	return HandRank{Category: category, Tiebreak: tiebreak}, nil
}

// MustEvaluate evaluates a hand whose size is already known to be five.
func MustEvaluate(hand []Card) HandRank {
	rank, err := EvaluateHand(hand)
	if err != nil {
		panic(err)
	}
	return rank
}
