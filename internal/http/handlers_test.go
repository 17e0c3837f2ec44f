package http

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kyle-mc/pickleball-pal/internal/club"
	"github.com/kyle-mc/pickleball-pal/internal/config"
	"github.com/kyle-mc/pickleball-pal/internal/database"
	"github.com/kyle-mc/pickleball-pal/internal/ledger"
	"github.com/kyle-mc/pickleball-pal/internal/metrics"
	"github.com/kyle-mc/pickleball-pal/internal/notifier"
	"github.com/kyle-mc/pickleball-pal/internal/processor"
	"github.com/kyle-mc/pickleball-pal/internal/pubsub"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

// setupTestServer initializes a new server with a test database and mock clients.
func setupTestServer(t *testing.T, notif notifier.Notifier) (*Server, *pubsub.MockPubSubClient, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	clubStore := club.New(db)
	cfg := config.Config{}

	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	metricsHandler := metrics.NewMetricsHandler(reg)
	ps := pubsub.NewMock("TEST")
	proc := processor.New(clubStore, notif, metricsSvc, ps)
	server := NewServer(clubStore, metricsSvc, metricsHandler, cfg, notif, proc, ps)

	teardown := func() {
		if dbTeardown != nil {
			dbTeardown()
		}
		db.Close()
	}
	return server, ps, teardown
}

func recordGameRequest(t *testing.T, target string, input ledger.GameInput) *http.Request {
	t.Helper()
	body, err := json.Marshal(input)
	require.NoError(t, err)
	req, err := http.NewRequest("POST", target, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHealthCheckHandler(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	req, err := http.NewRequest("GET", "/health", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code, "handler returned wrong status code")
	assert.Equal(t, "OK!", rr.Body.String(), "handler returned unexpected body")
}

func TestRecordGameHandler(t *testing.T) {
	server, ps, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	input := ledger.GameInput{
		Date:   "2025-06-01",
		Team1:  [2]string{"Alice", "Bob"},
		Team2:  [2]string{"Carol", "Dave"},
		Score1: "11",
		Score2: "9",
	}

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, recordGameRequest(t, "/games/record", input))

	require.Equal(t, http.StatusCreated, rr.Code, "body: %s", rr.Body.String())
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var rows []ledger.GameRow
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rows))
	require.Len(t, rows, 4)
	assert.Equal(t, 2050, rows[0].RatingAfter)

	// The game must also be persisted and published.
	stored, err := server.Store.AllGames()
	require.NoError(t, err)
	assert.Len(t, stored, 4)
	require.Len(t, ps.SendMessageCalls, 1)
	assert.Equal(t, string(pubsub.EventNotifyResult), ps.SendMessageCalls[0].Topic)
}

func TestRecordGameHandler_DryRun(t *testing.T) {
	server, ps, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	input := ledger.GameInput{
		Date:   "2025-06-01",
		Team1:  [2]string{"Alice", "Bob"},
		Team2:  [2]string{"Carol", "Dave"},
		Score1: "11",
		Score2: "9",
	}

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, recordGameRequest(t, "/games/record?dry_run=true", input))

	require.Equal(t, http.StatusCreated, rr.Code)

	stored, err := server.Store.AllGames()
	require.NoError(t, err)
	assert.Empty(t, stored, "dry run must not persist anything")
	assert.Empty(t, ps.SendMessageCalls, "dry run must not publish anything")
}

func TestRecordGameHandler_Validation(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	input := ledger.GameInput{
		Date:   "2025-06-01",
		Team1:  [2]string{"Alice", "Bob"},
		Team2:  [2]string{"Carol", "Dave"},
		Score1: "11",
		Score2: "11",
	}

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, recordGameRequest(t, "/games/record", input))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "tied score")

	stored, err := server.Store.AllGames()
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestRecordGameHandler_InvalidJSON(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	req, err := http.NewRequest("POST", "/games/record", strings.NewReader("{not json"))
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRecordGameHandler_MethodNotAllowed(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	req, err := http.NewRequest("GET", "/games/record", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestListGamesHandler(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	input := ledger.GameInput{
		Date:   "2025-06-01",
		Team1:  [2]string{"Alice", "Bob"},
		Team2:  [2]string{"Carol", "Dave"},
		Score1: "11",
		Score2: "7",
	}
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, recordGameRequest(t, "/games/record", input))
	require.Equal(t, http.StatusCreated, rr.Code)

	req, err := http.NewRequest("GET", "/games", nil)
	require.NoError(t, err)
	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var rows []ledger.GameRow
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rows))
	assert.Len(t, rows, 4)
}

func TestGroupedGamesHandler(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	input := ledger.GameInput{
		Date:   "2025-06-01",
		Team1:  [2]string{"Alice", "Bob"},
		Team2:  [2]string{"Carol", "Dave"},
		Score1: "11",
		Score2: "7",
	}
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, recordGameRequest(t, "/games/record", input))
	require.Equal(t, http.StatusCreated, rr.Code)

	req, err := http.NewRequest("GET", "/games/grouped", nil)
	require.NoError(t, err)
	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var grouped map[string]map[string][]ledger.GameRow
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &grouped))
	require.Contains(t, grouped, "2025-06-01")
	assert.Len(t, grouped["2025-06-01"]["1"], 4)
}

func TestNextGameNumberHandler(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	req, err := http.NewRequest("GET", "/next-game-number?date=2025-06-01", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Date           string `json:"date"`
		NextGameNumber int    `json:"next_game_number"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.NextGameNumber)
}

func TestNextGameNumberHandler_MissingDate(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	req, err := http.NewRequest("GET", "/next-game-number", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestStandingsHandler(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	input := ledger.GameInput{
		Date:   "2025-06-01",
		Team1:  [2]string{"Alice", "Bob"},
		Team2:  [2]string{"Carol", "Dave"},
		Score1: "11",
		Score2: "5",
	}
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, recordGameRequest(t, "/games/record", input))
	require.Equal(t, http.StatusCreated, rr.Code)

	req, err := http.NewRequest("GET", "/standings", nil)
	require.NoError(t, err)
	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var standings []ledger.PlayerStanding
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &standings))
	require.Len(t, standings, 4)
	assert.Equal(t, 2050, standings[0].Rating)
	assert.Equal(t, 1, standings[0].Wins)
}

func TestPlayerRatingHandler(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	req, err := http.NewRequest("GET", "/rating?player=Nobody", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Player string `json:"player"`
		Rating int    `json:"rating"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, ledger.DefaultRating, resp.Rating, "unknown players get the seed rating")
}

func TestRatingHistoryHandler(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	input := ledger.GameInput{
		Date:   "2025-06-01",
		Team1:  [2]string{"Alice", "Bob"},
		Team2:  [2]string{"Carol", "Dave"},
		Score1: "11",
		Score2: "9",
	}
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, recordGameRequest(t, "/games/record", input))
	require.Equal(t, http.StatusCreated, rr.Code)

	req, err := http.NewRequest("GET", "/ratings/history?players=Alice,Carol", nil)
	require.NoError(t, err)
	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var series []ledger.HistoryPoint
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &series))
	require.Len(t, series, 1)
	assert.Equal(t, 2050, series[0].Ratings["Alice"])
	assert.Equal(t, 1950, series[0].Ratings["Carol"])
}

func TestExportHandler(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	input := ledger.GameInput{
		Date:   "2025-06-01",
		Team1:  [2]string{"Alice", "Bob"},
		Team2:  [2]string{"Carol", "Dave"},
		Score1: "11",
		Score2: "9",
	}
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, recordGameRequest(t, "/games/record", input))
	require.Equal(t, http.StatusCreated, rr.Code)

	req, err := http.NewRequest("GET", "/export", nil)
	require.NoError(t, err)
	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/tab-separated-values", rr.Header().Get("Content-Type"))

	lines := strings.Split(strings.TrimRight(rr.Body.String(), "\n"), "\n")
	require.Len(t, lines, 5, "header plus one line per player")
	assert.Equal(t, strings.Join([]string{
		"Game", "Result", "Player", "Score",
		"MMR Before", "Team MMR", "Team MMR Diff", "MMR After", "MMR Change",
		"Date",
	}, "\t"), lines[0])
}

func TestAddAndListPlayersHandler(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	req, err := http.NewRequest("POST", "/players/add?name=Alice", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	req, err = http.NewRequest("GET", "/players", nil)
	require.NoError(t, err)
	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var names []string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &names))
	assert.Equal(t, []string{"Alice"}, names)
}

func TestAddPlayerHandler_MissingName(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	req, err := http.NewRequest("POST", "/players/add", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestClearStoreHandler_ByDate(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	for _, date := range []string{"2025-06-01", "2025-06-02"} {
		input := ledger.GameInput{
			Date:   date,
			Team1:  [2]string{"Alice", "Bob"},
			Team2:  [2]string{"Carol", "Dave"},
			Score1: "11",
			Score2: "9",
		}
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, recordGameRequest(t, "/games/record", input))
		require.Equal(t, http.StatusCreated, rr.Code)
	}

	req, err := http.NewRequest("POST", "/clear?date=2025-06-01", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	stored, err := server.Store.AllGames()
	require.NoError(t, err)
	require.Len(t, stored, 4)
	for _, row := range stored {
		assert.Equal(t, "2025-06-02", row.Date)
	}
}

func TestNotifyResultHandler(t *testing.T) {
	notif := notifier.NewMock()
	server, _, teardown := setupTestServer(t, notif)
	defer teardown()

	rows := []ledger.GameRow{
		{GameNumber: 1, Date: "2025-06-01", Player: "Alice", Result: ledger.ResultWinner, Score: "11-9", RatingBefore: 2000, TeamRating: 4000, TeamRatingDiff: 0, RatingAfter: 2050, RatingChange: 50},
	}
	packed, err := msgpack.Marshal(rows)
	require.NoError(t, err)

	body := fmt.Sprintf(`{"subscription":"sub","message":{"data":"%s"}}`, base64.StdEncoding.EncodeToString(packed))
	req, err := http.NewRequest("POST", "/notify-result", strings.NewReader(body))
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, "body: %s", rr.Body.String())
	require.Len(t, notif.SendGameResultCalls, 1)
	assert.Equal(t, "Alice", notif.SendGameResultCalls[0][0].Player)
}

func TestNotifyResultHandler_BadBase64(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	body := `{"subscription":"sub","message":{"data":"not-base64!!"}}`
	req, err := http.NewRequest("POST", "/notify-result", strings.NewReader(body))
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestNotifyStandingsHandler(t *testing.T) {
	notif := notifier.NewMock()
	server, _, teardown := setupTestServer(t, notif)
	defer teardown()

	req, err := http.NewRequest("POST", "/notify-standings", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, notif.SendStandingsCalls, 1)
}
