package club

import (
	"fmt"

	"database/sql"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/kyle-mc/pickleball-pal/internal/ledger"
)

// New creates a new ClubStore.
func New(db *sql.DB) ClubStore {
	return &store{
		db: db,
	}
}

// AllGames returns every ledger row. The ordering matches what the views
// expect: newest date first, games in played order within a date.
func (s *store) AllGames() ([]ledger.GameRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT game_number, date, player, result, score, rating_before, team_rating, team_rating_diff, rating_after, rating_change
		FROM games
		ORDER BY date DESC, game_number ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer rows.Close()

	var games []ledger.GameRow
	for rows.Next() {
		var g ledger.GameRow
		err := rows.Scan(
			&g.GameNumber, &g.Date, &g.Player, &g.Result, &g.Score,
			&g.RatingBefore, &g.TeamRating, &g.TeamRatingDiff, &g.RatingAfter, &g.RatingChange,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game row: %w", err)
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

// RecordGame appends all rows of one game and registers any unknown players
// inside a single transaction, so a failure never leaves a partial game or
// an orphaned registration behind.
func (s *store) RecordGame(gameRows []ledger.GameRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for _, name := range distinctPlayers(gameRows) {
		if err := registerPlayerTx(tx, name); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to register player %q: %w", name, err)
		}
	}

	stmt, err := tx.Prepare(`
		INSERT INTO games (game_number, date, player, result, score, rating_before, team_rating, team_rating_diff, rating_after, rating_change)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, g := range gameRows {
		_, err := stmt.Exec(
			g.GameNumber, g.Date, g.Player, g.Result, g.Score,
			g.RatingBefore, g.TeamRating, g.TeamRatingDiff, g.RatingAfter, g.RatingChange,
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert game row for %q: %w", g.Player, err)
		}
	}

	return tx.Commit()
}

// PlayerNames returns all registered player names, sorted.
func (s *store) PlayerNames() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT name FROM players ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan player name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *store) AddPlayer(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := registerPlayerTx(tx, name); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to register player %q: %w", name, err)
	}
	return tx.Commit()
}

func (s *store) IsKnownPlayer(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM players WHERE name = ? COLLATE NOCASE", name).Scan(&count)
	if err != nil {
		log.Error("Failed to check player existence", "error", err, "name", name)
		return false
	}
	return count > 0
}

// Clear wipes the ledger and the player registry. Admin/test use only.
func (s *store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM games"); err != nil {
		log.Error("Failed to clear games", "error", err)
	}
	if _, err := s.db.Exec("DELETE FROM players"); err != nil {
		log.Error("Failed to clear players", "error", err)
	}
}

// ClearDate removes every game recorded on the given date.
func (s *store) ClearDate(date string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM games WHERE date = ?", date); err != nil {
		log.Error("Failed to clear games for date", "error", err, "date", date)
	}
}

// registerPlayerTx inserts a player if the name is not already taken
// (case-insensitively). Names never leave the registry.
func registerPlayerTx(tx *sql.Tx, name string) error {
	_, err := tx.Exec(`
		INSERT INTO players (id, name) VALUES (?, ?)
		ON CONFLICT(name) DO NOTHING
	`, uuid.New().String(), name)
	return err
}

func distinctPlayers(rows []ledger.GameRow) []string {
	seen := make(map[string]bool, len(rows))
	var names []string
	for _, r := range rows {
		if !seen[r.Player] {
			seen[r.Player] = true
			names = append(names, r.Player)
		}
	}
	return names
}
