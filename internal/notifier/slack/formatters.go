package slack

import (
	"fmt"
	"strings"

	"github.com/kyle-mc/pickleball-pal/internal/ledger"
	"github.com/slack-go/slack"
)

// formatGameResult creates a Slack message announcing one recorded game.
func (s *Notifier) formatGameResult(rows []ledger.GameRow) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏓 Game Recorded 🏓", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(rows) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No rows to report.", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	var winners, losers []ledger.GameRow
	for _, row := range rows {
		if row.Result == ledger.ResultWinner {
			winners = append(winners, row)
		} else {
			losers = append(losers, row)
		}
	}

	first := rows[0]
	detailsText := fmt.Sprintf("Game %d on %s — final score %s", first.GameNumber, first.Date, first.Score)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, false, false), nil, nil))

	if len(winners) > 0 {
		winnerText := fmt.Sprintf("Winners: %s 🏆", joinPlayers(winners))
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", winnerText, true, false), nil, nil))
	}
	if len(losers) > 0 {
		loserText := fmt.Sprintf("Losers: %s", joinPlayers(losers))
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", loserText, true, false), nil, nil))
	}

	var ratingFields []*slack.TextBlockObject
	for _, row := range rows {
		change := fmt.Sprintf("%+d", row.RatingChange)
		ratingText := fmt.Sprintf("%s\n%d → %d (%s)", row.Player, row.RatingBefore, row.RatingAfter, change)
		ratingFields = append(ratingFields, slack.NewTextBlockObject("plain_text", ratingText, true, false))
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "MMR changes:", true, false), ratingFields, nil))

	return slack.NewBlockMessage(blocks...)
}

// formatStandings creates a Slack message to display the standings table.
func (s *Notifier) formatStandings(standings []ledger.PlayerStanding) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏆 Standings 🏆", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(standings) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No games recorded yet. Go play some pickleball!", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	for i, st := range standings {
		rank := i + 1
		var medal string
		switch rank {
		case 1:
			medal = "🥇"
		case 2:
			medal = "🥈"
		case 3:
			medal = "🥉"
		}

		playerText := fmt.Sprintf("%d. %s %s\n> MMR: %d | Win %%: %d%% (%d/%d)",
			rank,
			medal,
			st.Player,
			st.Rating,
			st.WinRate,
			st.Wins,
			st.GamesPlayed,
		)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", playerText, true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

func joinPlayers(rows []ledger.GameRow) string {
	names := make([]string, len(rows))
	for i, row := range rows {
		names[i] = row.Player
	}
	return strings.Join(names, " & ")
}
