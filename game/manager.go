package game

import (
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	cmap "github.com/orcaman/concurrent-map"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"voyager.com/dealer/logging"
	"voyager.com/dealer/util"
)

var managerLogger = log.With().Str("logger_name", "game::manager").Logger()

const resultCacheSize = 1024

// Manager keeps the dealers of all tables hosted by this server. It sits between
// every dealer and the outer notifier so that it can remember the last showdown
// of each table.
type Manager struct {
	activeTables cmap.ConcurrentMap
	lastResults  *lru.Cache
	tracker      PersistTableState
	notifier     RoundNotifier
	dealerOpts   []DealerOption
}

// NewManager creates a manager. Both tracker and notifier may be nil.
func NewManager(tracker PersistTableState, notifier RoundNotifier, opts ...DealerOption) (*Manager, error) {
	results, err := lru.New(resultCacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to initialize result cache")
	}
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &Manager{
		activeTables: cmap.New(),
		lastResults:  results,
		tracker:      tracker,
		notifier:     notifier,
		dealerOpts:   opts,
	}, nil
}

func (m *Manager) newDealer(tableID string) *Dealer {
	opts := make([]DealerOption, 0, len(m.dealerOpts)+2)
	opts = append(opts, m.dealerOpts...)
	opts = append(opts, WithNotifier(m))
	if m.tracker != nil {
		opts = append(opts, WithStateTracker(m.tracker))
	}
	return NewDealer(tableID, opts...)
}

// NewTable registers a dealer for a new table with a generated ID.
func (m *Manager) NewTable() *Dealer {
	tableID := uuid.New().String()
	dealer := m.newDealer(tableID)
	m.activeTables.Set(tableID, dealer)
	util.Metrics.SetActiveTablesCount(m.activeTables.Count())
	managerLogger.Info().Str(logging.TableIDKey, tableID).Msg("Table created")
	return dealer
}

// RestoreTable recreates a table from the snapshot saved by its previous dealer.
func (m *Manager) RestoreTable(tableID string) (*Dealer, error) {
	if m.tracker == nil {
		return nil, errors.Wrapf(ErrTableNotFound, "no state tracker for table %s", tableID)
	}
	snapshot, err := m.tracker.Load(tableID)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to load table %s", tableID)
	}
	dealer := m.newDealer(tableID)
	if err := dealer.Restore(snapshot); err != nil {
		return nil, err
	}
	m.activeTables.Set(tableID, dealer)
	util.Metrics.SetActiveTablesCount(m.activeTables.Count())
	return dealer, nil
}

func (m *Manager) Table(tableID string) (*Dealer, error) {
	v, exists := m.activeTables.Get(tableID)
	if !exists {
		return nil, errors.Wrapf(ErrTableNotFound, "table %s", tableID)
	}
	return v.(*Dealer), nil
}

func (m *Manager) RemoveTable(tableID string) error {
	if _, exists := m.activeTables.Get(tableID); !exists {
		return errors.Wrapf(ErrTableNotFound, "table %s", tableID)
	}
	m.activeTables.Remove(tableID)
	m.lastResults.Remove(tableID)
	if m.tracker != nil {
		if err := m.tracker.Remove(tableID); err != nil {
			managerLogger.Error().Err(err).Str(logging.TableIDKey, tableID).Msg("Unable to remove table state")
		}
	}
	util.Metrics.SetActiveTablesCount(m.activeTables.Count())
	return nil
}

// Tables returns the IDs of the registered tables.
func (m *Manager) Tables() []string {
	return m.activeTables.Keys()
}

// LastResult returns the most recent showdown of a table.
func (m *Manager) LastResult(tableID string) (*RoundResult, bool) {
	v, exists := m.lastResults.Get(tableID)
	if !exists {
		return nil, false
	}
	return v.(*RoundResult), true
}

func (m *Manager) RoundStarted(tableID string, state TableState, seats []SeatView) error {
	return m.notifier.RoundStarted(tableID, state, seats)
}

func (m *Manager) RoundEnded(tableID string, result *RoundResult) error {
	m.lastResults.Add(tableID, result)
	return m.notifier.RoundEnded(tableID, result)
}
