package processor

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/kyle-mc/pickleball-pal/internal/ledger"
	"github.com/kyle-mc/pickleball-pal/internal/metrics"
	"github.com/kyle-mc/pickleball-pal/internal/pubsub"
)

// New creates a new Processor.
func New(store Store, notifier Notifier, metrics metrics.Metrics, pubsub pubsub.PubSubClient) *Processor {
	return &Processor{
		store:    store,
		pubsub:   pubsub,
		notifier: notifier,
		metrics:  metrics,
	}
}

// RecordGame validates and appends one game to the ledger, then publishes
// the result event for async notification. All four rows land in a single
// store transaction; there is no partial write to roll back.
//
// The returned error is a *ledger.ValidationError for bad input, anything
// else means persistence failed. Callers surface the two differently.
func (p *Processor) RecordGame(in ledger.GameInput, dryRun bool) ([]ledger.GameRow, error) {
	startTime := time.Now()

	if in.Date == "" {
		// The entry form defaults to today; so do we.
		in.Date = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", in.Date); err != nil {
		p.metrics.IncValidationFailures()
		return nil, &ledger.ValidationError{Reason: "invalid date"}
	}

	snapshot, err := p.store.AllGames()
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}

	rows, err := ledger.BuildGame(in, snapshot)
	if err != nil {
		var verr *ledger.ValidationError
		if errors.As(err, &verr) {
			p.metrics.IncValidationFailures()
		}
		return nil, err
	}

	if dryRun {
		log.Info("[Dry Run] Would record game", "date", in.Date, "game_number", rows[0].GameNumber, "score", rows[0].Score)
		return rows, nil
	}

	if err := p.store.RecordGame(rows); err != nil {
		return nil, fmt.Errorf("failed to persist game: %w", err)
	}

	p.metrics.IncGamesRecorded()
	p.metrics.ObserveRecordDuration(time.Since(startTime).Seconds())
	log.Info("Game recorded", "date", in.Date, "game_number", rows[0].GameNumber, "score", rows[0].Score)

	// Notification is async and best-effort. The game is already durable;
	// a broker outage must not fail the request.
	if err := p.pubsub.SendMessage(pubsub.EventNotifyResult, rows); err != nil {
		log.Error("Failed to publish result event", "error", err, "date", in.Date, "game_number", rows[0].GameNumber)
	}

	return rows, nil
}

// NotifyResult sends the Slack announcement for a recorded game. Called from
// the Pub/Sub push endpoint.
func (p *Processor) NotifyResult(rows []ledger.GameRow, dryRun bool) {
	if len(rows) == 0 {
		log.Warn("NotifyResult called with no rows")
		return
	}
	if err := p.notifier.SendGameResult(rows, dryRun); err != nil {
		log.Error("Failed to send game result notification", "error", err, "date", rows[0].Date, "game_number", rows[0].GameNumber)
	}
}

// NotifyStandings computes the current standings and posts them.
func (p *Processor) NotifyStandings(dryRun bool) error {
	snapshot, err := p.store.AllGames()
	if err != nil {
		return fmt.Errorf("failed to read ledger: %w", err)
	}
	return p.notifier.SendStandings(ledger.Standings(snapshot), dryRun)
}
