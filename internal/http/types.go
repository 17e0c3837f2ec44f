package http

import (
	"net/http"

	"github.com/kyle-mc/pickleball-pal/internal/club"
	"github.com/kyle-mc/pickleball-pal/internal/config"
	"github.com/kyle-mc/pickleball-pal/internal/metrics"
	"github.com/kyle-mc/pickleball-pal/internal/notifier"
	"github.com/kyle-mc/pickleball-pal/internal/processor"
	"github.com/kyle-mc/pickleball-pal/internal/pubsub"
)

type Server struct {
	Store          club.ClubStore
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Processor      *processor.Processor
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
}
