package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
)

var (
	recordDate   string
	recordTeam1  []string
	recordTeam2  []string
	recordScore1 string
	recordScore2 string
	historyFor   []string
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(gamesCmd)
	rootCmd.AddCommand(standingsCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(nextGameCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(recordCmd)

	recordCmd.Flags().StringVar(&recordDate, "date", "", "Game date (YYYY-MM-DD), defaults to today")
	recordCmd.Flags().StringSliceVar(&recordTeam1, "team1", nil, "Two comma-separated player names for team 1")
	recordCmd.Flags().StringSliceVar(&recordTeam2, "team2", nil, "Two comma-separated player names for team 2")
	recordCmd.Flags().StringVar(&recordScore1, "score1", "", "Points scored by team 1")
	recordCmd.Flags().StringVar(&recordScore2, "score2", "", "Points scored by team 2")
	recordCmd.MarkFlagRequired("team1")
	recordCmd.MarkFlagRequired("team2")
	recordCmd.MarkFlagRequired("score1")
	recordCmd.MarkFlagRequired("score2")

	historyCmd.Flags().StringSliceVar(&historyFor, "players", nil, "Comma-separated player names, defaults to everyone")
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "List all recorded games",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/games")
	},
}

var standingsCmd = &cobra.Command{
	Use:   "standings",
	Short: "Show the current standings by MMR",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/standings")
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List the registered players",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/players")
	},
}

var nextGameCmd = &cobra.Command{
	Use:   "next-game-number [date]",
	Short: "Show the next game number for a date",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/next-game-number?date=" + url.QueryEscape(args[0]))
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the game ledger as TSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/export")
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the MMR history series",
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/ratings/history"
		if len(historyFor) > 0 {
			q := url.Values{}
			q.Set("players", strings.Join(historyFor, ","))
			endpoint += "?" + q.Encode()
		}
		return performGetRequest(endpoint)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a doubles game result",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(recordTeam1) != 2 || len(recordTeam2) != 2 {
			return fmt.Errorf("each team needs exactly two players")
		}
		payload := map[string]any{
			"date":   recordDate,
			"team1":  recordTeam1,
			"team2":  recordTeam2,
			"score1": recordScore1,
			"score2": recordScore2,
		}
		return performPostRequest("/games/record", payload)
	},
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}

func performPostRequest(endpoint string, payload any) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
