package processor

import (
	"github.com/kyle-mc/pickleball-pal/internal/ledger"
	"github.com/kyle-mc/pickleball-pal/internal/notifier"
)

// Store defines the database operations required by the processor.
type Store interface {
	AllGames() ([]ledger.GameRow, error)
	RecordGame(rows []ledger.GameRow) error
}

// Notifier defines the notification operations required by the processor.
// This is now an alias for the main notifier interface for decoupling.
type Notifier interface {
	notifier.Notifier
}
