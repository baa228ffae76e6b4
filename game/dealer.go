package game

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/looplab/fsm"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"voyager.com/dealer/crashtest"
	"voyager.com/dealer/logging"
	"voyager.com/dealer/poker"
	"voyager.com/dealer/util"
)

// MaxPlayers is the most players a single deck can deal a full hand to.
const MaxPlayers = poker.DeckSize / poker.HandSize

var dealerLogger = log.With().Str("logger_name", "game::dealer").Logger()

// RoundRecord is the summary of a finished round kept in the dealer's history.
type RoundRecord struct {
	Round      uint32   `json:"round"`
	Players    []uint64 `json:"players"`
	Winners    []uint64 `json:"winners"`
	TotalChips uint32   `json:"totalChips"`
}

// Dealer runs five card draw rounds for one table. It is the single owner of the
// deck, the roster and the round state; every exported method takes the table lock,
// so two deals can never run against the same deck at once.
type Dealer struct {
	tableID  string
	deck     *poker.Deck
	players  []*Player
	discard  []poker.Card
	state    TableState
	round    *fsm.FSM
	ante     uint32
	history  []RoundRecord
	randGen  *rand.Rand
	tracker  PersistTableState
	notifier RoundNotifier
	logger   zerolog.Logger

	// test driver specific
	testDeckToUse *poker.Deck

	lock sync.Mutex
}

type DealerOption func(*Dealer)

// WithRandSource sets the source used to shuffle. Tests pass a fixed seed.
func WithRandSource(randGen *rand.Rand) DealerOption {
	return func(d *Dealer) {
		d.randGen = randGen
	}
}

func WithStateTracker(tracker PersistTableState) DealerOption {
	return func(d *Dealer) {
		d.tracker = tracker
	}
}

func WithNotifier(notifier RoundNotifier) DealerOption {
	return func(d *Dealer) {
		if notifier != nil {
			d.notifier = notifier
		}
	}
}

func WithAnte(ante uint32) DealerOption {
	return func(d *Dealer) {
		d.ante = ante
	}
}

func WithLogger(logger zerolog.Logger) DealerOption {
	return func(d *Dealer) {
		d.logger = logger
	}
}

func NewDealer(tableID string, opts ...DealerOption) *Dealer {
	d := &Dealer{
		tableID:  tableID,
		deck:     poker.NewDeck(),
		players:  make([]*Player, 0, MaxPlayers),
		discard:  make([]poker.Card, 0),
		notifier: noopNotifier{},
		logger:   dealerLogger,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.randGen == nil {
		d.randGen = poker.NewRandSource()
	}
	d.logger = d.logger.With().Str(logging.TableIDKey, tableID).Logger()
	d.round = d.newRoundFSM()
	return d
}

func (d *Dealer) TableID() string {
	return d.tableID
}

// AddPlayer seats a player at the next seat. The roster is frozen while a round is open.
func (d *Dealer) AddPlayer(p *Player) error {
	d.lock.Lock()
	defer d.lock.Unlock()
	if d.inRound() {
		return ErrRoundInProgress
	}
	if len(d.players) >= MaxPlayers {
		return ErrTableFull
	}
	for _, seated := range d.players {
		if seated.ID == p.ID {
			return errors.Wrapf(ErrDuplicatePlayer, "player %d", p.ID)
		}
	}
	d.players = append(d.players, p)
	d.logger.Info().
		Uint64(logging.PlayerIDKey, p.ID).
		Str(logging.PlayerNameKey, p.Name).
		Int(logging.SeatNumKey, len(d.players)-1).
		Msg("Player seated")
	return nil
}

func (d *Dealer) RemovePlayer(playerID uint64) error {
	d.lock.Lock()
	defer d.lock.Unlock()
	if d.inRound() {
		return ErrRoundInProgress
	}
	for i, p := range d.players {
		if p.ID == playerID {
			d.players = append(d.players[:i], d.players[i+1:]...)
			d.logger.Info().Uint64(logging.PlayerIDKey, playerID).Msg("Player left the table")
			return nil
		}
	}
	return errors.Wrapf(ErrPlayerNotFound, "player %d", playerID)
}

// UseDeckForNextRound makes the next deal use a copy of the given deck instead of a
// shuffled one. The deck must hold all 52 cards.
func (d *Dealer) UseDeckForNextRound(deck *poker.Deck) error {
	if deck.Remaining() != poker.DeckSize {
		return errors.Errorf("scripted deck holds %d cards", deck.Remaining())
	}
	deckCopy, err := poker.DeckFromBytes(deck.Bytes())
	if err != nil {
		return err
	}
	d.lock.Lock()
	defer d.lock.Unlock()
	d.testDeckToUse = deckCopy
	return nil
}

// CreateDeck resets the deck to the 52 cards in canonical order.
func (d *Dealer) CreateDeck() {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.deck.Create()
}

func (d *Dealer) Shuffle() {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.deck.Shuffle(d.randGen)
}

// DealCard moves one card from the deck to the player's hand.
func (d *Dealer) DealCard(p *Player) error {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.dealCard(p)
}

func (d *Dealer) dealCard(p *Player) error {
	card, err := d.deck.Deal()
	if err != nil {
		return err
	}
	p.receive(card)
	util.Metrics.CardsDealt(1)
	return nil
}

// DealInitialHand rebuilds and shuffles the deck and deals five cards to every
// seated player, one card per player per pass.
func (d *Dealer) DealInitialHand() error {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.dealInitialHand()
}

func (d *Dealer) dealInitialHand() error {
	if len(d.players) < 2 {
		util.Metrics.DealSkipped()
		d.logger.Warn().Int("seated", len(d.players)).Msg("Not enough players to deal")
		return NotReadyToDealError{Seated: len(d.players)}
	}

	// hands are dealt from a fresh deck first and only replace the table's cards
	// once every seat holds five
	var deck *poker.Deck
	if d.testDeckToUse != nil {
		deck = d.testDeckToUse
	} else {
		deck = poker.NewDeck().Shuffle(d.randGen)
	}
	if deck.Remaining() != poker.DeckSize {
		return InvariantError{Msg: fmt.Sprintf("deck to deal holds %d cards", deck.Remaining())}
	}
	hands := make([][]poker.Card, len(d.players))
	for seatNo := range hands {
		hands[seatNo] = make([]poker.Card, 0, poker.HandSize)
	}
	for pass := 0; pass < poker.HandSize; pass++ {
		for seatNo := range d.players {
			card, err := deck.Deal()
			if err != nil {
				return errors.Wrapf(err, "dealing pass %d seat %d", pass, seatNo)
			}
			hands[seatNo] = append(hands[seatNo], card)
		}
	}

	d.testDeckToUse = nil
	d.deck = deck
	d.discard = d.discard[:0]
	for seatNo, p := range d.players {
		p.ClearHand()
		for _, card := range hands[seatNo] {
			p.receive(card)
		}
	}
	util.Metrics.CardsDealt(len(d.players) * poker.HandSize)

	if err := d.checkInvariant(); err != nil {
		return err
	}
	d.logger.Debug().Int("remaining", d.deck.Remaining()).Msg("Initial hands dealt")
	return nil
}

// StartGame begins a new round: the deck is rebuilt and dealt, the blinds move and
// every seated player becomes active. Nothing changes when fewer than two players
// are seated.
func (d *Dealer) StartGame() error {
	d.lock.Lock()
	defer d.lock.Unlock()

	numPlayers := len(d.players)
	if numPlayers < 2 {
		util.Metrics.DealSkipped()
		return NotReadyToDealError{Seated: numPlayers}
	}

	if err := d.dealInitialHand(); err != nil {
		return err
	}
	d.state.advance(numPlayers)
	for _, p := range d.players {
		p.CurrentBet = 0
		p.SetActive(true)
	}
	d.collectAntes()
	if err := d.openRound(); err != nil {
		return err
	}
	crashtest.Hit(crashtest.CrashPoint_DEAL_COMPLETE)

	util.Metrics.RoundStarted()
	d.logger.Info().
		Uint32(logging.RoundKey, d.state.Round).
		Int("smallBlind", d.state.SmallBlindSeat).
		Int("bigBlind", d.state.BigBlindSeat).
		Int("nextToAct", d.state.CurrentPlayerSeat).
		Msg("Round started")

	d.persist()
	crashtest.Hit(crashtest.CrashPoint_ROUND_STARTED)
	if err := d.notifier.RoundStarted(d.tableID, d.state, d.seatViews()); err != nil {
		d.logger.Error().Err(err).Msg("Unable to notify round start")
	}
	return nil
}

func (d *Dealer) collectAntes() {
	if d.ante == 0 {
		return
	}
	for _, p := range d.players {
		paid := d.ante
		if p.Chips < paid {
			paid = p.Chips
		}
		// paid never exceeds the stack
		_ = p.RemoveChips(paid)
		p.CurrentBet = paid
		d.state.Pot += paid
	}
	d.state.CurrentBet = d.ante
}

// CheckForWinningHand returns every active player holding the best hand, in seat
// order. It changes nothing at the table.
func (d *Dealer) CheckForWinningHand() ([]*Player, error) {
	d.lock.Lock()
	defer d.lock.Unlock()
	result, err := d.showdown()
	if err != nil {
		return nil, err
	}
	winners := make([]*Player, 0, len(result.WinningSeats))
	for _, seatNo := range result.WinningSeats {
		winners = append(winners, d.players[seatNo])
	}
	return winners, nil
}

// Showdown evaluates every seat without settling the round.
func (d *Dealer) Showdown() (*RoundResult, error) {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.showdown()
}

func (d *Dealer) showdown() (*RoundResult, error) {
	result := &RoundResult{
		TableID:      d.tableID,
		Round:        d.state.Round,
		Pot:          d.state.Pot,
		Seats:        make([]SeatResult, len(d.players)),
		WinningSeats: make([]int, 0),
	}

	var best *poker.HandRank
	for seatNo, p := range d.players {
		seat := SeatResult{
			SeatNo:   seatNo,
			PlayerID: p.ID,
			Name:     p.Name,
			Hand:     p.HandCopy(),
			Folded:   !p.Active,
		}
		if p.Active {
			rank, err := poker.EvaluateHand(seat.Hand)
			if err != nil {
				return nil, errors.Wrapf(err, "seat %d holds %d cards", seatNo, len(seat.Hand))
			}
			seat.Rank = rank
			if best == nil || rank.Beats(*best) {
				best = &seat.Rank
			}
		}
		result.Seats[seatNo] = seat
	}

	if best == nil {
		return result, nil
	}
	for seatNo := range result.Seats {
		seat := &result.Seats[seatNo]
		if !seat.Folded && seat.Rank.Equal(*best) {
			seat.Winner = true
			result.WinningSeats = append(result.WinningSeats, seatNo)
		}
	}
	return result, nil
}

// EndGame settles the open round: the pot is split between the winners, every
// player's statistics are updated and the round is recorded in the history.
func (d *Dealer) EndGame() (*RoundResult, error) {
	d.lock.Lock()
	defer d.lock.Unlock()
	if !d.inRound() {
		return nil, ErrNoRound
	}
	result, err := d.showdown()
	if err != nil {
		return nil, err
	}
	crashtest.Hit(crashtest.CrashPoint_BEFORE_SETTLEMENT)

	paidOut := d.state.Pot
	if len(result.WinningSeats) == 0 {
		// everyone folded: the antes go back to the players who paid them
		for _, p := range d.players {
			p.AddChips(p.CurrentBet)
			d.state.Pot -= p.CurrentBet
		}
		paidOut = 0
		d.logger.Info().Uint32(logging.RoundKey, result.Round).Msg("Every player folded. Antes returned")
	}
	shares := util.SplitChips(d.state.Pot, len(result.WinningSeats))
	for i, seatNo := range result.WinningSeats {
		result.Seats[seatNo].Won = shares[i]
	}
	record := RoundRecord{
		Round:      d.state.Round,
		Players:    make([]uint64, 0, len(d.players)),
		Winners:    result.Winners(),
		TotalChips: paidOut,
	}
	for seatNo, p := range d.players {
		record.Players = append(record.Players, p.ID)
		seat := result.Seats[seatNo]
		switch {
		case seat.Winner:
			p.GameWon(seat.Won)
		case seat.Folded:
			p.GameFolded()
		default:
			p.GameLost()
		}
		p.CurrentBet = 0
	}
	d.history = append(d.history, record)
	d.state.Pot = 0
	d.state.CurrentBet = 0
	if err := d.closeRound(); err != nil {
		return nil, err
	}

	util.Metrics.RoundEnded()
	d.logger.Info().
		Uint32(logging.RoundKey, result.Round).
		Ints("winningSeats", result.WinningSeats).
		Uint32("pot", result.Pot).
		Msg("Round ended")

	d.persist()
	if err := d.notifier.RoundEnded(d.tableID, result); err != nil {
		d.logger.Error().Err(err).Msg("Unable to notify round end")
	}
	return result, nil
}

// Fold takes a seated player out of the showdown of the open round.
func (d *Dealer) Fold(playerID uint64) error {
	d.lock.Lock()
	defer d.lock.Unlock()
	if !d.inRound() {
		return ErrNoRound
	}
	for _, p := range d.players {
		if p.ID == playerID {
			p.Fold()
			return nil
		}
	}
	return errors.Wrapf(ErrPlayerNotFound, "player %d", playerID)
}

// CardsInPlay counts the deck, the seated hands and the discard pile.
func (d *Dealer) CardsInPlay() int {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.cardsInPlay()
}

func (d *Dealer) cardsInPlay() int {
	total := d.deck.Remaining() + len(d.discard)
	for _, p := range d.players {
		total += len(p.Hand)
	}
	return total
}

func (d *Dealer) checkInvariant() error {
	if n := d.cardsInPlay(); n != poker.DeckSize {
		return InvariantError{Msg: fmt.Sprintf("%d cards in play; expected %d", n, poker.DeckSize)}
	}
	return nil
}

func (d *Dealer) State() TableState {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.state
}

func (d *Dealer) InRound() bool {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.inRound()
}

func (d *Dealer) DeckRemaining() int {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.deck.Remaining()
}

// Players returns the roster in seat order. The players are shared with the dealer.
func (d *Dealer) Players() []*Player {
	d.lock.Lock()
	defer d.lock.Unlock()
	players := make([]*Player, len(d.players))
	copy(players, d.players)
	return players
}

func (d *Dealer) Seats() []SeatView {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.seatViews()
}

func (d *Dealer) seatViews() []SeatView {
	seats := make([]SeatView, len(d.players))
	for seatNo, p := range d.players {
		seats[seatNo] = SeatView{
			SeatNo:   seatNo,
			PlayerID: p.ID,
			Name:     p.Name,
			Chips:    p.Chips,
			Active:   p.Active,
			NumCards: len(p.Hand),
		}
	}
	return seats
}

func (d *Dealer) History() []RoundRecord {
	d.lock.Lock()
	defer d.lock.Unlock()
	history := make([]RoundRecord, len(d.history))
	copy(history, d.history)
	return history
}
