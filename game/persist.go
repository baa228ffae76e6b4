package game

// PersistTableState keeps the snapshot of the open round of a table so that a
// restarted server can resume it. One key per table, overwritten every round.
type PersistTableState interface {
	Load(tableID string) (*TableSnapshot, error)
	Save(tableID string, state *TableSnapshot) error
	Remove(tableID string) error
}

type PlayerSnapshot struct {
	ID         uint64 `json:"id"`
	Name       string `json:"name"`
	Hand       []byte `json:"hand"`
	Chips      uint32 `json:"chips"`
	CurrentBet uint32 `json:"currentBet"`
	Active     bool   `json:"active"`
	Stats      Stats  `json:"stats"`
}

type TableSnapshot struct {
	TableID string           `json:"tableId"`
	State   TableState       `json:"state"`
	InRound bool             `json:"inRound"`
	Deck    []byte           `json:"deck"`
	Discard []byte           `json:"discard"`
	Players []PlayerSnapshot `json:"players"`
}
