package ledger

// Result marks which side of a game a row belongs to.
type Result string

const (
	ResultWinner Result = "Winner"
	ResultLoser  Result = "Loser"
)

// DefaultRating is the seed rating for any player without a recorded game.
const DefaultRating = 2000

// Rating delta constants. These are fixed domain values, not tunables.
const (
	baseDelta    = 50
	deltaDivisor = 20
	minDelta     = 25
	maxDelta     = 75
)

// GameRow is one player's record of one game. A 2v2 game produces exactly
// four rows sharing the same date and game number: two winners, two losers.
// Rows are immutable once appended to the ledger.
type GameRow struct {
	GameNumber     int    `json:"game_number"`
	Date           string `json:"date"` // ISO 8601 (YYYY-MM-DD)
	Player         string `json:"player"`
	Result         Result `json:"result"`
	Score          string `json:"score"` // display only, e.g. "11-8"
	RatingBefore   int    `json:"rating_before"`
	TeamRating     int    `json:"team_rating"`
	TeamRatingDiff int    `json:"team_rating_diff"`
	RatingAfter    int    `json:"rating_after"`
	RatingChange   int    `json:"rating_change"`
}

// GameInput is the raw form data for recording a game. Scores arrive as
// strings straight from the form and are parsed during validation.
type GameInput struct {
	Date   string    `json:"date"`
	Team1  [2]string `json:"team1"`
	Team2  [2]string `json:"team2"`
	Score1 string    `json:"score1"`
	Score2 string    `json:"score2"`
}

// Players returns all four player slots in team order.
func (in GameInput) Players() []string {
	return []string{in.Team1[0], in.Team1[1], in.Team2[0], in.Team2[1]}
}

// PlayerStanding is a player's aggregate line for the standings table.
type PlayerStanding struct {
	Player      string `json:"player"`
	Rating      int    `json:"rating"`
	Wins        int    `json:"wins"`
	Losses      int    `json:"losses"`
	GamesPlayed int    `json:"games_played"`
	WinRate     int    `json:"win_rate"` // percentage, rounded
}

// HistoryPoint is one date's rating snapshot for a set of players.
// Ratings carry forward from the player's last game, seeded at DefaultRating.
type HistoryPoint struct {
	Date    string         `json:"date"`
	Ratings map[string]int `json:"ratings"`
}

// ValidationError reports invalid game input. It is raised before any
// mutation and is always recoverable by re-prompting the user.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid game: " + e.Reason
}
