// Package export renders the game ledger as tab-separated values, the
// format the group pastes straight into a spreadsheet. The column order is
// fixed; external sheets depend on it.
package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kyle-mc/pickleball-pal/internal/ledger"
)

// Header is the canonical TSV column order.
var Header = []string{
	"Game", "Result", "Player", "Score",
	"MMR Before", "Team MMR", "Team MMR Diff", "MMR After", "MMR Change",
	"Date",
}

// WriteTSV writes the header followed by one line per ledger row.
func WriteTSV(w io.Writer, rows []ledger.GameRow) error {
	if _, err := io.WriteString(w, strings.Join(Header, "\t")+"\n"); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range rows {
		fields := []string{
			strconv.Itoa(r.GameNumber),
			string(r.Result),
			r.Player,
			r.Score,
			strconv.Itoa(r.RatingBefore),
			strconv.Itoa(r.TeamRating),
			strconv.Itoa(r.TeamRatingDiff),
			strconv.Itoa(r.RatingAfter),
			strconv.Itoa(r.RatingChange),
			r.Date,
		}
		if _, err := io.WriteString(w, strings.Join(fields, "\t")+"\n"); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}
