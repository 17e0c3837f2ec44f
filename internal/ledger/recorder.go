package ledger

import (
	"math"
	"strconv"
	"strings"
)

// Delta computes the rating-change magnitude for a game given team1's
// pre-game team rating minus team2's. The base swing of 50 shrinks as the
// difference grows and is clamped to [25, 75], so every game moves ratings
// by a meaningful but bounded amount.
func Delta(ratingDiff int) int {
	adjusted := int(math.Round(baseDelta - float64(ratingDiff)/deltaDivisor))
	if adjusted < minDelta {
		return minDelta
	}
	if adjusted > maxDelta {
		return maxDelta
	}
	return adjusted
}

// BuildGame validates the input and produces the four ledger rows for one
// 2v2 game, numbered with the next free game number for the input's date.
// All four RatingBefore values are resolved against the snapshot before any
// of this game's rows exist, so teammates' deltas never feed each other.
// The rows are not persisted; the caller appends them as one atomic batch.
func BuildGame(in GameInput, rows []GameRow) ([]GameRow, error) {
	for _, p := range in.Players() {
		if strings.TrimSpace(p) == "" {
			return nil, &ValidationError{Reason: "missing players"}
		}
	}

	score1, err1 := strconv.Atoi(strings.TrimSpace(in.Score1))
	score2, err2 := strconv.Atoi(strings.TrimSpace(in.Score2))
	if err1 != nil || err2 != nil {
		return nil, &ValidationError{Reason: "missing scores"}
	}
	if score1 == score2 {
		return nil, &ValidationError{Reason: "tied score"}
	}

	team1Wins := score1 > score2
	team1Rating := CurrentRating(in.Team1[0], rows) + CurrentRating(in.Team1[1], rows)
	team2Rating := CurrentRating(in.Team2[0], rows) + CurrentRating(in.Team2[1], rows)
	ratingDiff := team1Rating - team2Rating

	// The magnitude is always taken from team1's perspective, matching how
	// results have been scored historically. It does not flip for an upset.
	delta := Delta(ratingDiff)

	gameNumber := NextGameNumber(in.Date, rows)
	score := strconv.Itoa(score1) + "-" + strconv.Itoa(score2)

	build := func(player string, teamRating, teamDiff int, won bool) GameRow {
		change := delta
		result := ResultWinner
		if !won {
			change = -delta
			result = ResultLoser
		}
		before := CurrentRating(player, rows)
		return GameRow{
			GameNumber:     gameNumber,
			Date:           in.Date,
			Player:         player,
			Result:         result,
			Score:          score,
			RatingBefore:   before,
			TeamRating:     teamRating,
			TeamRatingDiff: teamDiff,
			RatingAfter:    before + change,
			RatingChange:   change,
		}
	}

	return []GameRow{
		build(in.Team1[0], team1Rating, ratingDiff, team1Wins),
		build(in.Team1[1], team1Rating, ratingDiff, team1Wins),
		build(in.Team2[0], team2Rating, -ratingDiff, !team1Wins),
		build(in.Team2[1], team2Rating, -ratingDiff, !team1Wins),
	}, nil
}
