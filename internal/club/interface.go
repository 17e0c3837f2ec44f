package club

import "github.com/kyle-mc/pickleball-pal/internal/ledger"

// ClubStore defines the interface for the club's persisted data: the
// append-only game ledger and the player registry.
type ClubStore interface {
	// AllGames returns the full ledger snapshot, ordered by date descending
	// and game number ascending. Reads after a successful RecordGame see the
	// appended rows.
	AllGames() ([]ledger.GameRow, error)
	// RecordGame appends a game's rows in a single transaction, registering
	// any players not yet known. All-or-nothing: a failure leaves neither
	// rows nor player registrations behind.
	RecordGame(rows []ledger.GameRow) error
	PlayerNames() ([]string, error)
	// AddPlayer registers a player name. Registering an existing name
	// (case-insensitively) is treated as success.
	AddPlayer(name string) error
	IsKnownPlayer(name string) bool
	Clear()
	ClearDate(date string)
}
