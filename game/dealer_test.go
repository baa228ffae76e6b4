package game

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"voyager.com/dealer/poker"
)

type recordingNotifier struct {
	started []TableState
	ended   []*RoundResult
}

func (r *recordingNotifier) RoundStarted(tableID string, state TableState, seats []SeatView) error {
	r.started = append(r.started, state)
	return nil
}

func (r *recordingNotifier) RoundEnded(tableID string, result *RoundResult) error {
	r.ended = append(r.ended, result)
	return nil
}

func newTestDealer(opts ...DealerOption) *Dealer {
	opts = append([]DealerOption{WithRandSource(rand.New(rand.NewSource(1)))}, opts...)
	return NewDealer("test-table", opts...)
}

func seatPlayers(t *testing.T, d *Dealer, names ...string) []*Player {
	t.Helper()
	players := make([]*Player, len(names))
	for i, name := range names {
		players[i] = NewPlayer(uint64(i+1), name, 100)
		require.NoError(t, d.AddPlayer(players[i]))
	}
	return players
}

func scriptNextRound(t *testing.T, d *Dealer, seats ...poker.CardsInAscii) {
	t.Helper()
	deck, err := poker.DeckFromScript(seats)
	require.NoError(t, err)
	require.NoError(t, d.UseDeckForNextRound(deck))
}

func playerIDs(players []*Player) []uint64 {
	ids := make([]uint64, len(players))
	for i, p := range players {
		ids[i] = p.ID
	}
	return ids
}

func TestDealCardExhaustsUnshuffledDeck(t *testing.T) {
	d := newTestDealer()
	d.CreateDeck()
	sink := NewPlayer(99, "sink", 0)

	for i := 0; i < poker.DeckSize; i++ {
		require.NoError(t, d.DealCard(sink), "card %d", i)
		assert.Equal(t, poker.DeckSize-i-1, d.DeckRemaining())
	}
	assert.Equal(t, poker.FullDeck(), sink.Hand, "unshuffled deck deals in canonical order")

	err := d.DealCard(sink)
	assert.True(t, errors.Is(err, poker.ErrEmptyDeck))
	assert.Len(t, sink.Hand, poker.DeckSize)
}

func TestDealCardKeepsCardCount(t *testing.T) {
	d := newTestDealer()
	players := seatPlayers(t, d, "alice", "bob")
	d.CreateDeck()
	d.Shuffle()
	for i := 0; i < 10; i++ {
		assert.Equal(t, poker.DeckSize, d.CardsInPlay())
		require.NoError(t, d.DealCard(players[i%2]))
		assert.Equal(t, poker.DeckSize, d.CardsInPlay())
	}
}

func TestDealInitialHandInsufficientPlayers(t *testing.T) {
	d := newTestDealer()
	err := d.DealInitialHand()
	assert.True(t, errors.Is(err, ErrInsufficientPlayers))

	players := seatPlayers(t, d, "alice")
	err = d.DealInitialHand()
	assert.True(t, errors.Is(err, ErrInsufficientPlayers))
	var notReady NotReadyToDealError
	require.True(t, errors.As(err, &notReady))
	assert.Equal(t, 1, notReady.Seated)
	assert.Empty(t, players[0].Hand)
	assert.Equal(t, poker.DeckSize, d.DeckRemaining())

	err = d.StartGame()
	assert.True(t, errors.Is(err, ErrInsufficientPlayers))
	assert.Equal(t, uint32(0), d.State().Round)
	assert.False(t, d.InRound())
}

func TestDealInitialHandIsRoundRobin(t *testing.T) {
	d := newTestDealer()
	players := seatPlayers(t, d, "alice", "bob", "carol")
	seats := []poker.CardsInAscii{
		{"2h", "2d", "5c", "9s", "Kh"},
		{"4c", "4s", "Th", "6d", "Qc"},
		{"3d", "3c", "8s", "4h", "7d"},
	}
	scriptNextRound(t, d, seats...)
	require.NoError(t, d.DealInitialHand())

	for i, p := range players {
		expected, err := poker.NewCards(seats[i]...)
		require.NoError(t, err)
		assert.Equal(t, expected, p.Hand, p.Name)
	}
	assert.Equal(t, poker.DeckSize-15, d.DeckRemaining())
}

func TestStartGame(t *testing.T) {
	d := newTestDealer()
	players := seatPlayers(t, d, "alice", "bob", "carol")
	require.NoError(t, d.StartGame())

	deck, err := poker.DeckFromBytes(d.Snapshot().Deck)
	require.NoError(t, err)
	seen := make(map[poker.Card]bool)
	for _, p := range players {
		assert.Len(t, p.Hand, poker.HandSize)
		assert.True(t, p.Active)
		for _, c := range p.Hand {
			assert.False(t, seen[c], "card %s dealt twice", c)
			assert.False(t, deck.Contains(c), "card %s is in a hand and in the deck", c)
			seen[c] = true
		}
	}
	assert.Equal(t, poker.DeckSize-15, d.DeckRemaining())
	assert.Equal(t, poker.DeckSize, d.CardsInPlay())
	assert.True(t, d.InRound())

	expected := TableState{
		SmallBlindSeat:    0,
		BigBlindSeat:      1,
		LastBetSeat:       1,
		CurrentPlayerSeat: 2,
		Round:             1,
	}
	assert.Equal(t, expected, d.State())
}

func TestBlindsRotate(t *testing.T) {
	d := newTestDealer()
	seatPlayers(t, d, "alice", "bob", "carol")

	expected := []struct {
		small, big, current int
	}{
		{small: 0, big: 1, current: 2},
		{small: 1, big: 2, current: 0},
		{small: 2, big: 0, current: 1},
		{small: 0, big: 1, current: 2},
	}
	for round, e := range expected {
		require.NoError(t, d.StartGame())
		state := d.State()
		assert.Equal(t, uint32(round+1), state.Round)
		assert.Equal(t, e.small, state.SmallBlindSeat, "round %d", round+1)
		assert.Equal(t, e.big, state.BigBlindSeat, "round %d", round+1)
		assert.Equal(t, e.big, state.LastBetSeat, "round %d", round+1)
		assert.Equal(t, e.current, state.CurrentPlayerSeat, "round %d", round+1)
		_, err := d.EndGame()
		require.NoError(t, err)
	}
}

func TestBlindsFollowRosterSize(t *testing.T) {
	d := newTestDealer()
	seatPlayers(t, d, "alice", "bob", "carol")
	require.NoError(t, d.StartGame())
	_, err := d.EndGame()
	require.NoError(t, err)
	require.NoError(t, d.StartGame())
	_, err = d.EndGame()
	require.NoError(t, err)
	// big blind is on seat 2; carol leaves
	require.NoError(t, d.RemovePlayer(3))

	require.NoError(t, d.StartGame())
	state := d.State()
	assert.Equal(t, 0, state.SmallBlindSeat)
	assert.Equal(t, 1, state.BigBlindSeat)
	assert.Equal(t, 0, state.CurrentPlayerSeat)
}

func TestRosterIsFrozenDuringRound(t *testing.T) {
	d := newTestDealer()
	seatPlayers(t, d, "alice", "bob")
	require.NoError(t, d.StartGame())

	err := d.AddPlayer(NewPlayer(10, "late", 100))
	assert.True(t, errors.Is(err, ErrRoundInProgress))
	err = d.RemovePlayer(1)
	assert.True(t, errors.Is(err, ErrRoundInProgress))

	_, err = d.EndGame()
	require.NoError(t, err)
	assert.NoError(t, d.AddPlayer(NewPlayer(10, "late", 100)))
}

func TestAddPlayerRejectsDuplicatesAndFullTable(t *testing.T) {
	d := newTestDealer()
	seatPlayers(t, d, "alice")
	err := d.AddPlayer(NewPlayer(1, "alice again", 100))
	assert.True(t, errors.Is(err, ErrDuplicatePlayer))

	for i := 2; i <= MaxPlayers; i++ {
		require.NoError(t, d.AddPlayer(NewPlayer(uint64(i), "p", 100)))
	}
	err = d.AddPlayer(NewPlayer(100, "extra", 100))
	assert.True(t, errors.Is(err, ErrTableFull))

	require.NoError(t, d.StartGame())
	assert.Equal(t, poker.DeckSize-MaxPlayers*poker.HandSize, d.DeckRemaining())
}

func TestRemoveUnknownPlayer(t *testing.T) {
	d := newTestDealer()
	err := d.RemovePlayer(7)
	assert.True(t, errors.Is(err, ErrPlayerNotFound))
}

func TestCheckForWinningHandEmptyRoster(t *testing.T) {
	d := newTestDealer()
	winners, err := d.CheckForWinningHand()
	require.NoError(t, err)
	assert.Empty(t, winners)
}

func TestCheckForWinningHandSinglePlayer(t *testing.T) {
	d := newTestDealer()
	players := seatPlayers(t, d, "alice")
	d.CreateDeck()
	d.Shuffle()
	for i := 0; i < poker.HandSize; i++ {
		require.NoError(t, d.DealCard(players[0]))
	}
	players[0].SetActive(true)

	winners, err := d.CheckForWinningHand()
	require.NoError(t, err)
	assert.Equal(t, []*Player{players[0]}, winners)
}

func TestPairOfFoursWins(t *testing.T) {
	d := newTestDealer()
	players := seatPlayers(t, d, "alice", "bob", "carol")
	scriptNextRound(t, d,
		poker.CardsInAscii{"2h", "2d", "5c", "9s", "Kh"},
		poker.CardsInAscii{"4c", "4s", "Th", "6d", "Qc"},
		poker.CardsInAscii{"3d", "3c", "8s", "4h", "7d"},
	)
	require.NoError(t, d.StartGame())

	winners, err := d.CheckForWinningHand()
	require.NoError(t, err)
	assert.Equal(t, []uint64{players[1].ID}, playerIDs(winners))

	result, err := d.Showdown()
	require.NoError(t, err)
	assert.Equal(t, poker.OnePair, result.Seats[1].Rank.Category)
	assert.Equal(t, 4, result.Seats[1].Rank.Tiebreak[0])
}

func TestExactTieReturnsAllWinners(t *testing.T) {
	d := newTestDealer()
	players := seatPlayers(t, d, "alice", "bob")
	scriptNextRound(t, d,
		poker.CardsInAscii{"2h", "2d", "5c", "9s", "Kh"},
		poker.CardsInAscii{"2s", "2c", "5h", "9d", "Ks"},
	)
	require.NoError(t, d.StartGame())

	winners, err := d.CheckForWinningHand()
	require.NoError(t, err)
	assert.Equal(t, playerIDs(players), playerIDs(winners))

	// repeated showdowns give the same order
	again, err := d.CheckForWinningHand()
	require.NoError(t, err)
	assert.Equal(t, winners, again)
}

func TestStraightFlushBeatsStraight(t *testing.T) {
	d := newTestDealer()
	players := seatPlayers(t, d, "alice", "bob")
	scriptNextRound(t, d,
		poker.CardsInAscii{"Ks", "Ts", "9s", "Js", "Qd"},
		poker.CardsInAscii{"9h", "Th", "Jh", "Qh", "Kh"},
	)
	require.NoError(t, d.StartGame())

	winners, err := d.CheckForWinningHand()
	require.NoError(t, err)
	assert.Equal(t, []uint64{players[1].ID}, playerIDs(winners))
}

func TestFoldedPlayerCannotWin(t *testing.T) {
	d := newTestDealer()
	players := seatPlayers(t, d, "alice", "bob", "carol")
	scriptNextRound(t, d,
		poker.CardsInAscii{"Ah", "Ad", "Ac", "As", "Kh"},
		poker.CardsInAscii{"4c", "4s", "Th", "6d", "Qc"},
		poker.CardsInAscii{"3d", "3c", "8s", "4h", "7d"},
	)
	require.NoError(t, d.StartGame())
	require.NoError(t, d.Fold(players[0].ID))

	winners, err := d.CheckForWinningHand()
	require.NoError(t, err)
	assert.Equal(t, []uint64{players[1].ID}, playerIDs(winners))

	assert.True(t, errors.Is(d.Fold(42), ErrPlayerNotFound))
}

func TestShowdownRejectsIncompleteHand(t *testing.T) {
	d := newTestDealer()
	players := seatPlayers(t, d, "alice", "bob")
	d.CreateDeck()
	for i := 0; i < 3; i++ {
		require.NoError(t, d.DealCard(players[0]))
	}
	players[0].SetActive(true)

	_, err := d.CheckForWinningHand()
	assert.True(t, errors.Is(err, poker.ErrInvalidHandSize))
}

func TestCheckForWinningHandDoesNotMutate(t *testing.T) {
	d := newTestDealer(WithAnte(10))
	players := seatPlayers(t, d, "alice", "bob")
	require.NoError(t, d.StartGame())
	before := d.Snapshot()

	_, err := d.CheckForWinningHand()
	require.NoError(t, err)
	assert.Equal(t, before, d.Snapshot())
	assert.Equal(t, Stats{}, players[0].Stats)
}

func TestEndGameSettlesRound(t *testing.T) {
	notifier := &recordingNotifier{}
	d := newTestDealer(WithAnte(10), WithNotifier(notifier))
	players := seatPlayers(t, d, "alice", "bob", "carol")
	scriptNextRound(t, d,
		poker.CardsInAscii{"2h", "2d", "5c", "9s", "Kh"},
		poker.CardsInAscii{"2s", "2c", "5h", "9d", "Ks"},
		poker.CardsInAscii{"4h", "6d", "8c", "Ts", "Qd"},
	)
	require.NoError(t, d.StartGame())
	assert.Equal(t, uint32(30), d.State().Pot)
	assert.Equal(t, uint32(90), players[2].Chips)

	result, err := d.EndGame()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, result.WinningSeats)
	assert.Equal(t, []uint64{1, 2}, result.Winners())
	assert.Equal(t, uint32(15), result.Seats[0].Won)
	assert.Equal(t, uint32(15), result.Seats[1].Won)

	assert.Equal(t, uint32(105), players[0].Chips)
	assert.Equal(t, uint32(105), players[1].Chips)
	assert.Equal(t, uint32(90), players[2].Chips)
	assert.Equal(t, Stats{GamesPlayed: 1, GamesWon: 1, TotalChipsWon: 15}, players[0].Stats)
	assert.Equal(t, Stats{GamesPlayed: 1, GamesLost: 1}, players[2].Stats)

	assert.False(t, d.InRound())
	assert.Equal(t, uint32(0), d.State().Pot)
	history := d.History()
	require.Len(t, history, 1)
	assert.Equal(t, RoundRecord{Round: 1, Players: []uint64{1, 2, 3}, Winners: []uint64{1, 2}, TotalChips: 30}, history[0])

	require.Len(t, notifier.started, 1)
	require.Len(t, notifier.ended, 1)
	assert.Equal(t, result, notifier.ended[0])

	_, err = d.EndGame()
	assert.True(t, errors.Is(err, ErrNoRound))
}

func TestEndGameOddPotAndFold(t *testing.T) {
	d := newTestDealer(WithAnte(5))
	players := seatPlayers(t, d, "alice", "bob", "carol")
	scriptNextRound(t, d,
		poker.CardsInAscii{"2h", "2d", "5c", "9s", "Kh"},
		poker.CardsInAscii{"2s", "2c", "5h", "9d", "Ks"},
		poker.CardsInAscii{"Ah", "Ad", "Ac", "As", "Qd"},
	)
	require.NoError(t, d.StartGame())
	require.NoError(t, d.Fold(players[2].ID))

	result, err := d.EndGame()
	require.NoError(t, err)
	assert.Equal(t, uint32(8), result.Seats[0].Won)
	assert.Equal(t, uint32(7), result.Seats[1].Won)
	assert.Equal(t, Stats{GamesPlayed: 1, GamesFolded: 1}, players[2].Stats)
}

func TestAnteLargerThanStack(t *testing.T) {
	d := newTestDealer(WithAnte(50))
	players := seatPlayers(t, d, "alice", "bob")
	require.NoError(t, players[1].RemoveChips(80))
	require.NoError(t, d.StartGame())
	assert.Equal(t, uint32(0), players[1].Chips)
	assert.Equal(t, uint32(20), players[1].CurrentBet)
	assert.Equal(t, uint32(70), d.State().Pot)
}

func TestSameSeedDealsSameHands(t *testing.T) {
	deal := func() [][]poker.Card {
		d := NewDealer("seeded", WithRandSource(rand.New(rand.NewSource(99))))
		players := seatPlayers(t, d, "alice", "bob", "carol")
		require.NoError(t, d.StartGame())
		hands := make([][]poker.Card, len(players))
		for i, p := range players {
			hands[i] = p.HandCopy()
		}
		return hands
	}
	assert.Equal(t, deal(), deal())
}

func TestConcurrentDealCard(t *testing.T) {
	d := newTestDealer()
	d.CreateDeck()
	d.Shuffle()
	sinks := make([]*Player, 8)
	var wg sync.WaitGroup
	for i := range sinks {
		sinks[i] = NewPlayer(uint64(i), "sink", 0)
		wg.Add(1)
		go func(p *Player) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				if err := d.DealCard(p); err != nil {
					return
				}
			}
		}(sinks[i])
	}
	wg.Wait()

	seen := make(map[poker.Card]bool)
	total := 0
	for _, p := range sinks {
		for _, c := range p.Hand {
			assert.False(t, seen[c], "card %s dealt twice", c)
			seen[c] = true
			total++
		}
	}
	assert.Equal(t, poker.DeckSize, total)
	assert.Equal(t, 0, d.DeckRemaining())
}

func TestSnapshotRestore(t *testing.T) {
	tracker := NewMemoryTableStateTracker()
	d := newTestDealer(WithStateTracker(tracker), WithAnte(1))
	players := seatPlayers(t, d, "alice", "bob", "carol")
	require.NoError(t, d.StartGame())

	saved, err := tracker.Load(d.TableID())
	require.NoError(t, err)
	current := d.Snapshot()
	assert.Equal(t, current.State, saved.State)
	assert.Equal(t, current.Deck, saved.Deck)
	require.Len(t, saved.Players, len(players))
	for i := range players {
		assert.Equal(t, current.Players[i].Hand, saved.Players[i].Hand)
	}

	restored := newTestDealer()
	require.NoError(t, restored.Restore(saved))
	assert.Equal(t, d.State(), restored.State())
	assert.True(t, restored.InRound())
	assert.Equal(t, poker.DeckSize, restored.CardsInPlay())
	for i, p := range restored.Players() {
		assert.Equal(t, players[i].Hand, p.Hand)
		assert.Equal(t, players[i].Chips, p.Chips)
	}

	expected, err := d.CheckForWinningHand()
	require.NoError(t, err)
	actual, err := restored.CheckForWinningHand()
	require.NoError(t, err)
	assert.Equal(t, playerIDs(expected), playerIDs(actual))
}

func TestRestoreRejectsDuplicateCards(t *testing.T) {
	d := newTestDealer()
	seatPlayers(t, d, "alice", "bob")
	require.NoError(t, d.StartGame())
	snapshot := d.Snapshot()
	snapshot.Players[1].Hand[0] = snapshot.Players[0].Hand[0]

	err := newTestDealer().Restore(snapshot)
	assert.Error(t, err)
}

func TestEndGameAllFoldedReturnsAntes(t *testing.T) {
	d := newTestDealer(WithAnte(10))
	players := seatPlayers(t, d, "alice", "bob")
	require.NoError(t, d.StartGame())
	assert.Equal(t, uint32(20), d.State().Pot)
	require.NoError(t, d.Fold(players[0].ID))
	require.NoError(t, d.Fold(players[1].ID))

	result, err := d.EndGame()
	require.NoError(t, err)
	assert.Empty(t, result.Winners())
	for _, p := range players {
		assert.Equal(t, uint32(100), p.Chips, p.Name)
		assert.Equal(t, Stats{GamesPlayed: 1, GamesFolded: 1}, p.Stats)
	}
	assert.Equal(t, uint32(0), d.State().Pot)
	require.Len(t, d.History(), 1)
	assert.Equal(t, uint32(0), d.History()[0].TotalChips)
}

func TestUseDeckForNextRoundRejectsShortDeck(t *testing.T) {
	d := newTestDealer()
	seatPlayers(t, d, "alice", "bob")
	full := poker.NewDeck().Bytes()
	short, err := poker.DeckFromBytes(full[:7])
	require.NoError(t, err)
	assert.Error(t, d.UseDeckForNextRound(short))

	require.NoError(t, d.StartGame())
	assert.Equal(t, poker.DeckSize, d.CardsInPlay())
}

func TestFailedDealChangesNothing(t *testing.T) {
	d := newTestDealer()
	players := seatPlayers(t, d, "alice", "bob")
	require.NoError(t, d.StartGame())
	_, err := d.EndGame()
	require.NoError(t, err)
	before := d.Snapshot()
	hands := [][]poker.Card{players[0].HandCopy(), players[1].HandCopy()}

	full := poker.NewDeck().Bytes()
	short, err := poker.DeckFromBytes(full[:7])
	require.NoError(t, err)
	d.testDeckToUse = short

	assert.Error(t, d.StartGame())
	assert.Equal(t, before.State, d.State())
	assert.False(t, d.InRound())
	assert.Equal(t, before.Deck, d.Snapshot().Deck)
	assert.Equal(t, hands[0], players[0].Hand)
	assert.Equal(t, hands[1], players[1].Hand)
}

func TestScriptedDeckIsCopied(t *testing.T) {
	d := newTestDealer()
	players := seatPlayers(t, d, "alice", "bob")
	deck, err := poker.DeckFromScript([]poker.CardsInAscii{
		{"2h", "2d", "5c", "9s", "Kh"},
		{"4c", "4s", "Th", "6d", "Qc"},
	})
	require.NoError(t, err)
	require.NoError(t, d.UseDeckForNextRound(deck))
	// the caller keeps using its deck
	for !deck.Empty() {
		_, err := deck.Deal()
		require.NoError(t, err)
	}

	require.NoError(t, d.StartGame())
	expected, err := poker.NewCards("2h", "2d", "5c", "9s", "Kh")
	require.NoError(t, err)
	assert.Equal(t, expected, players[0].Hand)
	assert.Equal(t, poker.DeckSize-10, d.DeckRemaining())
}
