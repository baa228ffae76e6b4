package game

import (
	"github.com/pkg/errors"
	"voyager.com/dealer/poker"
)

func cardsToBytes(cards []poker.Card) []byte {
	b := make([]byte, len(cards))
	for i, c := range cards {
		b[i] = c.Byte()
	}
	return b
}

func cardsFromBytes(b []byte) ([]poker.Card, error) {
	cards := make([]poker.Card, len(b))
	for i := range b {
		c, err := poker.CardFromByte(b[i])
		if err != nil {
			return nil, err
		}
		cards[i] = c
	}
	return cards, nil
}

// Snapshot captures the table so that it can be restored by another dealer.
func (d *Dealer) Snapshot() *TableSnapshot {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.snapshot()
}

func (d *Dealer) snapshot() *TableSnapshot {
	snapshot := &TableSnapshot{
		TableID: d.tableID,
		State:   d.state,
		InRound: d.inRound(),
		Deck:    d.deck.Bytes(),
		Discard: cardsToBytes(d.discard),
		Players: make([]PlayerSnapshot, len(d.players)),
	}
	for i, p := range d.players {
		snapshot.Players[i] = PlayerSnapshot{
			ID:         p.ID,
			Name:       p.Name,
			Hand:       cardsToBytes(p.Hand),
			Chips:      p.Chips,
			CurrentBet: p.CurrentBet,
			Active:     p.Active,
			Stats:      p.Stats,
		}
	}
	return snapshot
}

// Restore replaces the table with a snapshot. A snapshot of an open round must
// account for all 52 cards exactly once.
func (d *Dealer) Restore(snapshot *TableSnapshot) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	if len(snapshot.Players) > MaxPlayers {
		return ErrTableFull
	}
	deck, err := poker.DeckFromBytes(snapshot.Deck)
	if err != nil {
		return errors.Wrap(err, "invalid deck in snapshot")
	}
	discard, err := cardsFromBytes(snapshot.Discard)
	if err != nil {
		return errors.Wrap(err, "invalid discard in snapshot")
	}

	seen := make(map[poker.Card]bool, poker.DeckSize)
	for _, c := range deck.Cards() {
		seen[c] = true
	}
	for _, c := range discard {
		if seen[c] {
			return errors.Errorf("card %s appears twice in snapshot", c)
		}
		seen[c] = true
	}
	players := make([]*Player, len(snapshot.Players))
	for i, ps := range snapshot.Players {
		hand, err := cardsFromBytes(ps.Hand)
		if err != nil {
			return errors.Wrapf(err, "invalid hand for player %d", ps.ID)
		}
		for _, c := range hand {
			if seen[c] {
				return errors.Errorf("card %s appears twice in snapshot", c)
			}
			seen[c] = true
		}
		players[i] = &Player{
			ID:         ps.ID,
			Name:       ps.Name,
			Hand:       hand,
			Chips:      ps.Chips,
			CurrentBet: ps.CurrentBet,
			Active:     ps.Active,
			Stats:      ps.Stats,
		}
	}
	if snapshot.InRound && len(seen) != poker.DeckSize {
		return InvariantError{Msg: "snapshot of an open round does not hold 52 cards"}
	}

	d.deck = deck
	d.discard = discard
	d.players = players
	d.state = snapshot.State
	if snapshot.InRound {
		d.round.SetState(RoundState__OPEN)
	} else {
		d.round.SetState(RoundState__WAITING)
	}
	d.logger.Info().Uint32("round", d.state.Round).Str("roundState", d.round.Current()).Msg("Table restored")
	return nil
}

func (d *Dealer) persist() {
	if d.tracker == nil {
		return
	}
	if err := d.tracker.Save(d.tableID, d.snapshot()); err != nil {
		d.logger.Error().Err(err).Msg("Unable to save table state")
	}
}
