package game

import "voyager.com/dealer/poker"

// RoundNotifier receives round events from a dealer. Implementations must not call
// back into the dealer.
type RoundNotifier interface {
	RoundStarted(tableID string, state TableState, seats []SeatView) error
	RoundEnded(tableID string, result *RoundResult) error
}

// SeatView is what other parties may see of a seat while a round is open.
type SeatView struct {
	SeatNo   int    `json:"seatNo"`
	PlayerID uint64 `json:"playerId"`
	Name     string `json:"name"`
	Chips    uint32 `json:"chips"`
	Active   bool   `json:"active"`
	NumCards int    `json:"numCards"`
}

type SeatResult struct {
	SeatNo   int            `json:"seatNo"`
	PlayerID uint64         `json:"playerId"`
	Name     string         `json:"name"`
	Hand     []poker.Card   `json:"hand"`
	Folded   bool           `json:"folded"`
	Rank     poker.HandRank `json:"rank"`
	Winner   bool           `json:"winner"`
	Won      uint32         `json:"won"`
}

// RoundResult is the showdown of a round. Winners are listed in seat order.
type RoundResult struct {
	TableID      string       `json:"tableId"`
	Round        uint32       `json:"round"`
	Pot          uint32       `json:"pot"`
	Seats        []SeatResult `json:"seats"`
	WinningSeats []int        `json:"winningSeats"`
}

func (r *RoundResult) Winners() []uint64 {
	ids := make([]uint64, 0, len(r.WinningSeats))
	for _, seat := range r.WinningSeats {
		ids = append(ids, r.Seats[seat].PlayerID)
	}
	return ids
}

type noopNotifier struct{}

func (noopNotifier) RoundStarted(string, TableState, []SeatView) error { return nil }
func (noopNotifier) RoundEnded(string, *RoundResult) error           { return nil }
