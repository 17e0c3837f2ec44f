package processor

import (
	"github.com/kyle-mc/pickleball-pal/internal/metrics"
	"github.com/kyle-mc/pickleball-pal/internal/pubsub"
)

// Processor handles the business logic of recording games and fanning out
// the follow-up notifications.
type Processor struct {
	store    Store
	pubsub   pubsub.PubSubClient
	notifier Notifier
	metrics  metrics.Metrics
}
