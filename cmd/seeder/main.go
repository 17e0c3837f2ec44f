package main

import (
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/kyle-mc/pickleball-pal/internal/ledger"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := make(map[string]string)
	required := []string{"TURSO_PRIMARY_URL", "TURSO_AUTH_TOKEN"}

	for _, key := range required {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		} else {
			log.Fatalf("Error: Required environment variable %s is not set.", key)
		}
	}
	return config
}

const (
	numPlayers = 8
	numDays    = 60
	maxPerDay  = 6
	batchSize  = 100
)

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	// Connect directly to the primary database
	dbURL := fmt.Sprintf("%s?authToken=%s", cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	db, err := sql.Open("libsql", dbURL)
	if err != nil {
		log.Fatalf("Failed to open primary database: %s", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to primary database: %s", err)
	}

	log.Info("Successfully connected to the primary database.")

	gofakeit.Seed(42)
	players := make([]string, 0, numPlayers)
	for i := 0; i < numPlayers; i++ {
		players = append(players, gofakeit.FirstName()+" "+gofakeit.LastName())
	}

	for _, name := range players {
		_, err := db.Exec("INSERT INTO players (id, name) VALUES (?, ?) ON CONFLICT(name) DO NOTHING", uuid.NewString(), name)
		if err != nil {
			log.Fatalf("Failed to insert player %s: %s", name, err)
		}
	}
	log.Info("Ensured players exist.", "count", numPlayers)

	// Games are built one at a time against the accumulated ledger so the
	// ratings and game numbers chain the same way they would in production.
	var allRows []ledger.GameRow
	start := time.Now().AddDate(0, 0, -numDays)
	for day := 0; day < numDays; day++ {
		date := start.AddDate(0, 0, day).Format("2006-01-02")
		for g := 0; g < 1+rand.Intn(maxPerDay); g++ {
			perm := rand.Perm(numPlayers)
			winning := 11
			losing := rand.Intn(10)
			in := ledger.GameInput{
				Date:   date,
				Team1:  [2]string{players[perm[0]], players[perm[1]]},
				Team2:  [2]string{players[perm[2]], players[perm[3]]},
				Score1: fmt.Sprint(winning),
				Score2: fmt.Sprint(losing),
			}
			if rand.Intn(2) == 0 {
				in.Score1, in.Score2 = in.Score2, in.Score1
			}
			rows, err := ledger.BuildGame(in, allRows)
			if err != nil {
				log.Fatalf("Failed to build game: %s", err)
			}
			allRows = append(allRows, rows...)
		}
	}

	log.Info("Preparing to insert seeded games...", "rows", len(allRows), "batch_size", batchSize)
	startTime := time.Now()

	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("Failed to begin transaction: %s", err)
	}

	valueStrings := make([]string, 0, batchSize)
	valueArgs := make([]interface{}, 0, batchSize*10)

	for i, row := range allRows {
		valueStrings = append(valueStrings, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		valueArgs = append(valueArgs,
			row.GameNumber,
			row.Date,
			row.Player,
			string(row.Result),
			row.Score,
			row.RatingBefore,
			row.TeamRating,
			row.TeamRatingDiff,
			row.RatingAfter,
			row.RatingChange,
		)

		if (i+1)%batchSize == 0 || (i+1) == len(allRows) {
			stmt := fmt.Sprintf(`
				INSERT INTO games (game_number, date, player, result, score,
					rating_before, team_rating, team_rating_diff, rating_after, rating_change)
				VALUES %s;`, strings.Join(valueStrings, ","))

			_, err := tx.Exec(stmt, valueArgs...)
			if err != nil {
				tx.Rollback()
				log.Fatalf("Failed to execute batch insert: %s", err)
			}

			valueStrings = make([]string, 0, batchSize)
			valueArgs = make([]interface{}, 0, batchSize*10)
			log.Info("Inserted batch", "completed", i+1, "total", len(allRows))
		}
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit transaction: %s", err)
	}

	duration := time.Since(startTime)
	log.Info("Successfully inserted all seeded games.", "duration", duration)
}
