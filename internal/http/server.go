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

func NewServer(store club.ClubStore, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier, processor *processor.Processor, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Store:          store,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Processor:      processor,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/clear", Chain(s.ClearStoreHandler(), paramsMiddleware))
	s.Router.Handle("/players", Chain(s.ListPlayersHandler(), paramsMiddleware))
	s.Router.Handle("/players/add", Chain(s.AddPlayerHandler(), paramsMiddleware))
	s.Router.Handle("/games", Chain(s.ListGamesHandler(), paramsMiddleware))
	s.Router.Handle("/games/grouped", Chain(s.GroupedGamesHandler(), paramsMiddleware))
	s.Router.Handle("/games/record", Chain(s.RecordGameHandler(), paramsMiddleware))
	s.Router.Handle("/next-game-number", Chain(s.NextGameNumberHandler(), paramsMiddleware))
	s.Router.Handle("/standings", Chain(s.StandingsHandler(), paramsMiddleware))
	s.Router.Handle("/rating", Chain(s.PlayerRatingHandler(), paramsMiddleware))
	s.Router.Handle("/ratings/history", Chain(s.RatingHistoryHandler(), paramsMiddleware))
	s.Router.Handle("/export", Chain(s.ExportHandler(), paramsMiddleware))
	s.Router.Handle("/notify-result", Chain(s.NotifyResultHandler(), paramsMiddleware))
	s.Router.Handle("/notify-standings", Chain(s.NotifyStandingsHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
