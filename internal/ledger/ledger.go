// Package ledger implements the game ledger model: an append-only sequence
// of per-player game rows, the rating resolver derived from it, and the
// grouping/lookup helpers the read views are built on. Every function here
// is pure over the row snapshot it is handed; persistence belongs to the
// club store.
package ledger

import "sort"

// CurrentRating resolves a player's rating from the ledger: the RatingAfter
// of their most recent row, ordered by date descending then game number
// descending. A player with no rows resolves to DefaultRating. An unknown
// player is not an error.
func CurrentRating(player string, rows []GameRow) int {
	best := -1
	rating := DefaultRating
	for i, row := range rows {
		if row.Player != player {
			continue
		}
		if best == -1 || moreRecent(row, rows[best]) {
			best = i
			rating = row.RatingAfter
		}
	}
	return rating
}

// moreRecent reports whether a should win over b as the "latest" row.
// ISO dates compare correctly as strings.
func moreRecent(a, b GameRow) bool {
	if a.Date != b.Date {
		return a.Date > b.Date
	}
	return a.GameNumber > b.GameNumber
}

// NextGameNumber returns the game number to assign on the given date:
// one past the highest number already recorded for that date, starting at 1.
// Game numbers are scoped per date, not global.
func NextGameNumber(date string, rows []GameRow) int {
	max := 0
	for _, row := range rows {
		if row.Date == date && row.GameNumber > max {
			max = row.GameNumber
		}
	}
	return max + 1
}

// GroupByDateThenGame partitions rows by date, then by game number within
// each date. All rows are preserved; a complete game shows up as four rows
// under its number.
func GroupByDateThenGame(rows []GameRow) map[string]map[int][]GameRow {
	grouped := make(map[string]map[int][]GameRow)
	for _, row := range rows {
		byGame, ok := grouped[row.Date]
		if !ok {
			byGame = make(map[int][]GameRow)
			grouped[row.Date] = byGame
		}
		byGame[row.GameNumber] = append(byGame[row.GameNumber], row)
	}
	return grouped
}

// TeammateOf returns the partner name(s) for a row: players sharing the
// row's date, game number and result, excluding the row's own player.
// Exactly one name in a well-formed 2v2 game.
func TeammateOf(row GameRow, rows []GameRow) []string {
	var mates []string
	for _, other := range rows {
		if other.Date == row.Date && other.GameNumber == row.GameNumber &&
			other.Result == row.Result && other.Player != row.Player {
			mates = append(mates, other.Player)
		}
	}
	return mates
}

// OpponentsOf returns the opposing players for a row: rows sharing the
// date and game number but carrying the opposite result.
func OpponentsOf(row GameRow, rows []GameRow) []string {
	var opps []string
	for _, other := range rows {
		if other.Date == row.Date && other.GameNumber == row.GameNumber &&
			other.Result != row.Result {
			opps = append(opps, other.Player)
		}
	}
	return opps
}

// RatingHistorySeries builds the per-date rating series for the given
// players, restricted to dates on which at least one of them played. Dates
// ascend, and each player's last-known rating is carried forward into dates
// they sat out (seeded at DefaultRating). Forward-fill, not interpolation.
func RatingHistorySeries(players []string, rows []GameRow) []HistoryPoint {
	selected := make(map[string]bool, len(players))
	for _, p := range players {
		selected[p] = true
	}

	// Latest row per player per date wins; later games override earlier ones.
	byDate := make(map[string]map[string]GameRow)
	for _, row := range rows {
		if !selected[row.Player] {
			continue
		}
		day, ok := byDate[row.Date]
		if !ok {
			day = make(map[string]GameRow)
			byDate[row.Date] = day
		}
		if prev, ok := day[row.Player]; !ok || row.GameNumber > prev.GameNumber {
			day[row.Player] = row
		}
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	lastKnown := make(map[string]int, len(players))
	for _, p := range players {
		lastKnown[p] = DefaultRating
	}

	series := make([]HistoryPoint, 0, len(dates))
	for _, d := range dates {
		point := HistoryPoint{Date: d, Ratings: make(map[string]int, len(players))}
		for _, p := range players {
			if row, ok := byDate[d][p]; ok {
				lastKnown[p] = row.RatingAfter
			}
			point.Ratings[p] = lastKnown[p]
		}
		series = append(series, point)
	}
	return series
}

// Standings computes the standings table: one line per player seen in the
// ledger, sorted by current rating descending.
func Standings(rows []GameRow) []PlayerStanding {
	players := make(map[string]*PlayerStanding)
	var order []string
	for _, row := range rows {
		st, ok := players[row.Player]
		if !ok {
			st = &PlayerStanding{Player: row.Player}
			players[row.Player] = st
			order = append(order, row.Player)
		}
		st.GamesPlayed++
		if row.Result == ResultWinner {
			st.Wins++
		} else {
			st.Losses++
		}
	}

	standings := make([]PlayerStanding, 0, len(order))
	for _, name := range order {
		st := players[name]
		st.Rating = CurrentRating(name, rows)
		if st.GamesPlayed > 0 {
			st.WinRate = int(float64(st.Wins)/float64(st.GamesPlayed)*100 + 0.5)
		}
		standings = append(standings, *st)
	}
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Rating > standings[j].Rating
	})
	return standings
}
