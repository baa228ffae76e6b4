package simulation

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"voyager.com/dealer/game"
	"voyager.com/dealer/poker"
)

var simLogger = log.With().Str("logger_name", "simulation::deal").Logger()

// Summary counts the hand categories seen over a simulation run.
type Summary struct {
	Deals            int
	Players          int
	SplitPots        int
	WinnerCategories map[poker.Category]uint64
	PlayerCategories map[poker.Category]uint64
	StraightFlushes  []string
}

// Run deals numDeals rounds to numPlayers players at one table and takes every
// round to showdown. The same seed always produces the same summary.
func Run(numDeals int, numPlayers int, seed int64) (*Summary, error) {
	if numPlayers < 2 || numPlayers > game.MaxPlayers {
		return nil, fmt.Errorf("Number of players must be between 2 and %d", game.MaxPlayers)
	}
	dealer := game.NewDealer("simulation",
		game.WithRandSource(rand.New(rand.NewSource(seed))),
		game.WithLogger(simLogger.Level(zerolog.WarnLevel)))
	for i := 0; i < numPlayers; i++ {
		if err := dealer.AddPlayer(game.NewPlayer(uint64(i+1), fmt.Sprintf("player%d", i+1), 0)); err != nil {
			return nil, err
		}
	}

	summary := &Summary{
		Players:          numPlayers,
		WinnerCategories: make(map[poker.Category]uint64),
		PlayerCategories: make(map[poker.Category]uint64),
		StraightFlushes:  make([]string, 0),
	}
	for i := 0; i < numDeals; i++ {
		if err := dealer.StartGame(); err != nil {
			return nil, errors.Wrapf(err, "deal %d", i+1)
		}
		result, err := dealer.EndGame()
		if err != nil {
			return nil, errors.Wrapf(err, "deal %d", i+1)
		}
		summary.Deals++
		if len(result.WinningSeats) > 1 {
			summary.SplitPots++
		}
		summary.WinnerCategories[result.Seats[result.WinningSeats[0]].Rank.Category]++
		for _, seat := range result.Seats {
			summary.PlayerCategories[seat.Rank.Category]++
			if seat.Rank.Category >= poker.StraightFlush {
				summary.StraightFlushes = append(summary.StraightFlushes, poker.CardsToString(seat.Hand))
			}
		}
	}
	return summary, nil
}

// Print writes the category counts, best category first.
func (s *Summary) Print(out io.Writer) {
	fmt.Fprintf(out, "Number of players in the table: %d, Deals: %d, Split pots: %d\n",
		s.Players, s.Deals, s.SplitPots)
	categories := make([]poker.Category, 0, poker.RoyalFlush)
	for c := poker.RoyalFlush; c >= poker.HighCard; c-- {
		categories = append(categories, c)
	}

	totalHands := float64(s.Deals * s.Players)
	fmt.Fprintf(out, "%-16s %10s %10s %8s\n", "Category", "Winner", "Dealt", "Dealt%")
	for _, c := range categories {
		pct := 0.0
		if totalHands > 0 {
			pct = float64(s.PlayerCategories[c]) * 100 / totalHands
		}
		fmt.Fprintf(out, "%-16s %10d %10d %7.3f%%\n", c, s.WinnerCategories[c], s.PlayerCategories[c], pct)
	}
	for _, hand := range s.StraightFlushes {
		fmt.Fprintf(out, "%s\n", hand)
	}
}
