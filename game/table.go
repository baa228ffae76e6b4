package game

// TableState is the dealer's bookkeeping for the current round. Seat indices are
// positions in the roster and are only valid for the roster of the round that
// computed them.
type TableState struct {
	Pot               uint32 `json:"pot"`
	CurrentBet        uint32 `json:"currentBet"`
	SmallBlindSeat    int    `json:"smallBlindSeat"`
	BigBlindSeat      int    `json:"bigBlindSeat"`
	LastBetSeat       int    `json:"lastBetSeat"`
	CurrentPlayerSeat int    `json:"currentPlayerSeat"`
	Round             uint32 `json:"round"`
}

// advance moves the blinds for a new round played by numPlayers players.
func (t *TableState) advance(numPlayers int) {
	t.Round++
	t.Pot = 0
	t.CurrentBet = 0
	prevBigBlind := t.BigBlindSeat
	t.SmallBlindSeat = prevBigBlind % numPlayers
	t.BigBlindSeat = (prevBigBlind + 1) % numPlayers
	t.LastBetSeat = t.BigBlindSeat
	t.CurrentPlayerSeat = (t.BigBlindSeat + 1) % numPlayers
}
