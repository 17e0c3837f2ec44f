package http

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/kyle-mc/pickleball-pal/internal/export"
	"github.com/kyle-mc/pickleball-pal/internal/ledger"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) ClearStoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := r.URL.Query().Get("date")
		if date != "" {
			log.Info("Received request to clear games for a date", "date", date)
			s.Store.ClearDate(date)
			w.WriteHeader(http.StatusOK)
			fmt.Fprintf(w, "Cleared games on %s from store!", date)
			return
		}
		log.Info("Received request to clear entire store")
		s.Store.Clear()
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Store cleared!")
	}
}

func (s *Server) ListPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names, err := s.Store.PlayerNames()
		if err != nil {
			log.Error("Failed to list players", "error", err)
			http.Error(w, "Failed to list players", http.StatusInternalServerError)
			return
		}
		writeJSON(w, names)
	}
}

func (s *Server) AddPlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		name := strings.TrimSpace(r.URL.Query().Get("name"))
		if name == "" {
			http.Error(w, "Missing 'name' parameter", http.StatusBadRequest)
			return
		}
		if err := s.Store.AddPlayer(name); err != nil {
			log.Error("Failed to add player", "error", err, "name", name)
			http.Error(w, "Failed to add player", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
		fmt.Fprintf(w, "Player %s added!", name)
	}
}

func (s *Server) ListGamesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := s.Store.AllGames()
		if err != nil {
			log.Error("Failed to list games", "error", err)
			http.Error(w, "Failed to list games", http.StatusInternalServerError)
			return
		}
		writeJSON(w, rows)
	}
}

func (s *Server) GroupedGamesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := s.Store.AllGames()
		if err != nil {
			log.Error("Failed to list games", "error", err)
			http.Error(w, "Failed to list games", http.StatusInternalServerError)
			return
		}
		writeJSON(w, ledger.GroupByDateThenGame(rows))
	}
}

func (s *Server) RecordGameHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var input ledger.GameInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			log.Error("Failed to decode game input", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		rows, err := s.Processor.RecordGame(input, isDryRunFromContext(r))
		if err != nil {
			var verr *ledger.ValidationError
			if errors.As(err, &verr) {
				// Validation failures are the user's to fix; name the field.
				http.Error(w, verr.Reason, http.StatusBadRequest)
				return
			}
			log.Error("Failed to record game", "error", err)
			http.Error(w, "Failed to save game", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(rows); err != nil {
			log.Error("Failed to encode recorded rows", "error", err)
		}
	}
}

func (s *Server) NextGameNumberHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := r.URL.Query().Get("date")
		if date == "" {
			http.Error(w, "Missing 'date' parameter", http.StatusBadRequest)
			return
		}
		rows, err := s.Store.AllGames()
		if err != nil {
			log.Error("Failed to read ledger", "error", err)
			http.Error(w, "Failed to read ledger", http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]any{
			"date":             date,
			"next_game_number": ledger.NextGameNumber(date, rows),
		})
	}
}

func (s *Server) StandingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := s.Store.AllGames()
		if err != nil {
			log.Error("Failed to read ledger", "error", err)
			http.Error(w, "Failed to read ledger", http.StatusInternalServerError)
			return
		}
		writeJSON(w, ledger.Standings(rows))
	}
}

func (s *Server) PlayerRatingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player := r.URL.Query().Get("player")
		if player == "" {
			http.Error(w, "Missing 'player' parameter", http.StatusBadRequest)
			return
		}
		rows, err := s.Store.AllGames()
		if err != nil {
			log.Error("Failed to read ledger", "error", err)
			http.Error(w, "Failed to read ledger", http.StatusInternalServerError)
			return
		}
		// An unknown player is not an error; they resolve to the seed rating.
		writeJSON(w, map[string]any{
			"player": player,
			"rating": ledger.CurrentRating(player, rows),
		})
	}
}

func (s *Server) RatingHistoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var players []string
		if raw := r.URL.Query().Get("players"); raw != "" {
			for _, p := range strings.Split(raw, ",") {
				if p = strings.TrimSpace(p); p != "" {
					players = append(players, p)
				}
			}
		} else {
			all, err := s.Store.PlayerNames()
			if err != nil {
				log.Error("Failed to list players", "error", err)
				http.Error(w, "Failed to list players", http.StatusInternalServerError)
				return
			}
			players = all
		}

		rows, err := s.Store.AllGames()
		if err != nil {
			log.Error("Failed to read ledger", "error", err)
			http.Error(w, "Failed to read ledger", http.StatusInternalServerError)
			return
		}
		writeJSON(w, ledger.RatingHistorySeries(players, rows))
	}
}

func (s *Server) ExportHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := s.Store.AllGames()
		if err != nil {
			log.Error("Failed to read ledger", "error", err)
			http.Error(w, "Failed to read ledger", http.StatusInternalServerError)
			return
		}
		filename := fmt.Sprintf("games-export-%s.tsv", time.Now().Format("2006-01-02"))
		w.Header().Set("Content-Type", "text/tab-separated-values")
		w.Header().Set("Content-Disposition", "attachment; filename="+filename)
		if err := export.WriteTSV(w, rows); err != nil {
			log.Error("Failed to write TSV export", "error", err)
		}
	}
}

// NotifyResultHandler receives the Pub/Sub push for a recorded game and
// sends the Slack announcement.
func (s *Server) NotifyResultHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawData, err := decodePushMessage(r)
		if err != nil {
			log.Error("Failed to decode push message", "error", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var rows []ledger.GameRow
		if err := s.pubsub.ProcessMessage(rawData, &rows); err != nil {
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}
		s.Processor.NotifyResult(rows, isDryRunFromContext(r))
		w.Write([]byte("OK"))
	}
}

// NotifyStandingsHandler posts the current standings to Slack.
func (s *Server) NotifyStandingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Processor.NotifyStandings(isDryRunFromContext(r)); err != nil {
			log.Error("Failed to notify standings", "error", err)
			http.Error(w, "Failed to notify standings", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}

// decodePushMessage unwraps the Pub/Sub push envelope: outer JSON with a
// base64-encoded MessagePack payload inside.
func decodePushMessage(r *http.Request) ([]byte, error) {
	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}

	var pubsubMsg struct {
		Subscription string `json:"subscription"`
		Message      struct {
			Data string `json:"data"`
		} `json:"message"`
	}
	if err := json.Unmarshal(bodyBytes, &pubsubMsg); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	rawData, err := base64.StdEncoding.DecodeString(pubsubMsg.Message.Data)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 data: %w", err)
	}
	return rawData, nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode JSON response", "error", err)
	}
}
