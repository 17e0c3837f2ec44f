package notifier

import "github.com/kyle-mc/pickleball-pal/internal/ledger"

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// SendGameResult announces one recorded game: the four ledger rows it produced.
	SendGameResult(rows []ledger.GameRow, dryRun bool) error
	// SendStandings posts the current standings table.
	SendStandings(standings []ledger.PlayerStanding, dryRun bool) error
}
