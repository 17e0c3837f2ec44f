package notifier

import (
	"sync"

	"github.com/kyle-mc/pickleball-pal/internal/ledger"
)

// MockNotifier is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type MockNotifier struct {
	mu sync.Mutex

	// Spies for method calls
	SendGameResultFunc func(rows []ledger.GameRow, dryRun bool) error
	SendStandingsFunc  func(standings []ledger.PlayerStanding, dryRun bool) error

	// Call records
	SendGameResultCalls [][]ledger.GameRow
	SendStandingsCalls  [][]ledger.PlayerStanding
}

// NewMock creates a new mock instance.
func NewMock() *MockNotifier {
	return &MockNotifier{}
}

// Reset clears all call records.
func (m *MockNotifier) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendGameResultCalls = nil
	m.SendStandingsCalls = nil
}

func (m *MockNotifier) SendGameResult(rows []ledger.GameRow, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendGameResultCalls = append(m.SendGameResultCalls, rows)
	if m.SendGameResultFunc != nil {
		return m.SendGameResultFunc(rows, dryRun)
	}
	return nil
}

func (m *MockNotifier) SendStandings(standings []ledger.PlayerStanding, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendStandingsCalls = append(m.SendStandingsCalls, standings)
	if m.SendStandingsFunc != nil {
		return m.SendStandingsFunc(standings, dryRun)
	}
	return nil
}
