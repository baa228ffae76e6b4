package game

import (
	"github.com/looplab/fsm"
)

// Round lifecycle of a table. The roster can only change while waiting.
const (
	RoundState__WAITING = "WAITING"
	RoundState__OPEN    = "OPEN"

	RoundEvent__DEAL   = "DEAL"
	RoundEvent__SETTLE = "SETTLE"
)

func (d *Dealer) newRoundFSM() *fsm.FSM {
	return fsm.NewFSM(
		RoundState__WAITING,
		fsm.Events{
			{
				Name: RoundEvent__DEAL,
				Src:  []string{RoundState__WAITING},
				Dst:  RoundState__OPEN,
			},
			{
				Name: RoundEvent__SETTLE,
				Src:  []string{RoundState__OPEN},
				Dst:  RoundState__WAITING,
			},
		},
		fsm.Callbacks{
			"enter_state": func(e *fsm.Event) {
				d.logger.Debug().Msgf("Round state %s -> %s (%s)", e.Src, e.Dst, e.Event)
			},
		},
	)
}

func (d *Dealer) inRound() bool {
	return d.round.Current() == RoundState__OPEN
}

// openRound moves the table into an open round. Dealing again while a round is
// open keeps it open.
func (d *Dealer) openRound() error {
	if d.inRound() {
		return nil
	}
	return d.round.Event(RoundEvent__DEAL)
}

func (d *Dealer) closeRound() error {
	return d.round.Event(RoundEvent__SETTLE)
}
