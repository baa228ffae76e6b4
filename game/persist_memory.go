package game

import (
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

type MemoryTableStateTracker struct {
	activeTables map[string][]byte
	lock         sync.Mutex
}

func NewMemoryTableStateTracker() *MemoryTableStateTracker {
	return &MemoryTableStateTracker{
		activeTables: make(map[string][]byte),
	}
}

func (m *MemoryTableStateTracker) Load(tableID string) (*TableSnapshot, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	if stateBytes, ok := m.activeTables[tableID]; ok {
		state := TableSnapshot{}
		err := jsoniter.Unmarshal(stateBytes, &state)
		if err != nil {
			return nil, err
		}
		return &state, nil
	}
	return nil, errors.Wrapf(ErrTableNotFound, "Table state for Key: %s is not found", tableID)
}

func (m *MemoryTableStateTracker) Save(tableID string, state *TableSnapshot) error {
	stateInBytes, err := jsoniter.Marshal(state)
	if err != nil {
		return err
	}
	m.lock.Lock()
	defer m.lock.Unlock()
	m.activeTables[tableID] = stateInBytes
	return nil
}

func (m *MemoryTableStateTracker) Remove(tableID string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	delete(m.activeTables, tableID)
	return nil
}
