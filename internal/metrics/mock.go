package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                 sync.Mutex
	gamesRecorded      int
	validationFailures int
	recordDurations    []float64
	slackNotifSent     int
	slackNotifFailed   int
	startupTime        float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		recordDurations: make([]float64, 0),
	}
}

func (m *Mock) IncGamesRecorded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gamesRecorded++
}

func (m *Mock) IncValidationFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.validationFailures++
}

func (m *Mock) ObserveRecordDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordDurations = append(m.recordDurations, duration)
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// GamesRecordedCount returns the number of times IncGamesRecorded was called.
func (m *Mock) GamesRecordedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gamesRecorded
}

// ValidationFailuresCount returns the number of times IncValidationFailures was called.
func (m *Mock) ValidationFailuresCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.validationFailures
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}
