package game

import (
	"github.com/rs/zerolog/log"
	"voyager.com/dealer/logging"
	"voyager.com/dealer/poker"
)

var playerLogger = log.With().Str("logger_name", "game::player").Logger()

// Stats are cumulative over the life of the player. They only go up, except through ResetStats.
type Stats struct {
	GamesPlayed   uint32 `json:"gamesPlayed"`
	GamesWon      uint32 `json:"gamesWon"`
	GamesLost     uint32 `json:"gamesLost"`
	GamesFolded   uint32 `json:"gamesFolded"`
	TotalChipsWon uint32 `json:"totalChipsWon"`
}

//
// Player is a participant seated at a table. The player owns its hand; cards only
// arrive in it from the dealer's deck. A player persists across rounds and keeps its
// chip stack and statistics.
//
type Player struct {
	ID         uint64       `json:"id"`
	Name       string       `json:"name"`
	Hand       []poker.Card `json:"hand"`
	Chips      uint32       `json:"chips"`
	CurrentBet uint32       `json:"currentBet"`
	Active     bool         `json:"active"`
	Stats      Stats        `json:"stats"`
}

func NewPlayer(id uint64, name string, chips uint32) *Player {
	return &Player{
		ID:    id,
		Name:  name,
		Hand:  make([]poker.Card, 0, poker.HandSize),
		Chips: chips,
	}
}

// HandCopy returns a snapshot of the hand that is safe to evaluate while the
// player keeps being mutated.
func (p *Player) HandCopy() []poker.Card {
	cards := make([]poker.Card, len(p.Hand))
	copy(cards, p.Hand)
	return cards
}

func (p *Player) ClearHand() {
	p.Hand = p.Hand[:0]
}

func (p *Player) receive(card poker.Card) {
	p.Hand = append(p.Hand, card)
}

func (p *Player) AddChips(chips uint32) {
	p.Chips += chips
}

func (p *Player) RemoveChips(chips uint32) error {
	if chips > p.Chips {
		return ErrInsufficientChips
	}
	p.Chips -= chips
	return nil
}

func (p *Player) SetActive(active bool) {
	p.Active = active
}

// Fold takes the player out of the current showdown.
func (p *Player) Fold() {
	playerLogger.Debug().Uint64(logging.PlayerIDKey, p.ID).Msg("Player folded")
	p.Active = false
}

func (p *Player) GameWon(chips uint32) {
	p.Stats.GamesWon++
	p.Stats.TotalChipsWon += chips
	p.AddChips(chips)
	p.Stats.GamesPlayed++
}

func (p *Player) GameLost() {
	p.Stats.GamesLost++
	p.Stats.GamesPlayed++
}

func (p *Player) GameFolded() {
	p.Stats.GamesFolded++
	p.Stats.GamesPlayed++
}

func (p *Player) ResetStats() {
	p.Stats = Stats{}
}
