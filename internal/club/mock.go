package club

import (
	"sync"

	"github.com/kyle-mc/pickleball-pal/internal/ledger"
)

// MockStore is a mock implementation of the ClubStore interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	AllGamesFunc      func() ([]ledger.GameRow, error)
	RecordGameFunc    func(rows []ledger.GameRow) error
	PlayerNamesFunc   func() ([]string, error)
	AddPlayerFunc     func(name string) error
	IsKnownPlayerFunc func(name string) bool
	ClearFunc         func()
	ClearDateFunc     func(date string)

	// Call records
	RecordGameCalls [][]ledger.GameRow
	AddPlayerCalls  []string
	ClearDateCalls  []string
	ClearCalls      int
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecordGameCalls = nil
	m.AddPlayerCalls = nil
	m.ClearDateCalls = nil
	m.ClearCalls = 0
}

func (m *MockStore) AllGames() ([]ledger.GameRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AllGamesFunc != nil {
		return m.AllGamesFunc()
	}
	return nil, nil
}

func (m *MockStore) RecordGame(rows []ledger.GameRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecordGameCalls = append(m.RecordGameCalls, rows)
	if m.RecordGameFunc != nil {
		return m.RecordGameFunc(rows)
	}
	return nil
}

func (m *MockStore) PlayerNames() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PlayerNamesFunc != nil {
		return m.PlayerNamesFunc()
	}
	return nil, nil
}

func (m *MockStore) AddPlayer(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AddPlayerCalls = append(m.AddPlayerCalls, name)
	if m.AddPlayerFunc != nil {
		return m.AddPlayerFunc(name)
	}
	return nil
}

func (m *MockStore) IsKnownPlayer(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.IsKnownPlayerFunc != nil {
		return m.IsKnownPlayerFunc(name)
	}
	return false
}

func (m *MockStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClearCalls++
	if m.ClearFunc != nil {
		m.ClearFunc()
	}
}

func (m *MockStore) ClearDate(date string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClearDateCalls = append(m.ClearDateCalls, date)
	if m.ClearDateFunc != nil {
		m.ClearDateFunc(date)
	}
}
