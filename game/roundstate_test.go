package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundStateTransitions(t *testing.T) {
	d := newTestDealer()
	seatPlayers(t, d, "alice", "bob")
	assert.Equal(t, RoundState__WAITING, d.round.Current())
	assert.Error(t, d.closeRound())

	require.NoError(t, d.StartGame())
	assert.Equal(t, RoundState__OPEN, d.round.Current())

	// a redeal keeps the round open
	require.NoError(t, d.StartGame())
	assert.Equal(t, RoundState__OPEN, d.round.Current())
	assert.Equal(t, uint32(2), d.State().Round)

	_, err := d.EndGame()
	require.NoError(t, err)
	assert.Equal(t, RoundState__WAITING, d.round.Current())
	assert.False(t, d.InRound())
}

func TestRestoreSetsRoundState(t *testing.T) {
	d := newTestDealer()
	seatPlayers(t, d, "alice", "bob")
	require.NoError(t, d.StartGame())

	restored := newTestDealer()
	require.NoError(t, restored.Restore(d.Snapshot()))
	assert.Equal(t, RoundState__OPEN, restored.round.Current())

	_, err := d.EndGame()
	require.NoError(t, err)
	require.NoError(t, restored.Restore(d.Snapshot()))
	assert.Equal(t, RoundState__WAITING, restored.round.Current())
}
