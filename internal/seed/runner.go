package seed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okian/tci/pkg/logger"
)

// Run generates the fleet, submits it, reads back the leaderboard and
// verifies the ranking is monotone in score.
func Run(ctx context.Context, cfg *Config) error {
	log := logger.Get().Named("seed")
	stats := &Stats{StartTime: time.Now()}

	records := generateFleet(cfg.NumModels, cfg.Seed)
	stats.ModelsGenerated = len(records)
	log.Info(ctx, "generated synthetic fleet", logger.Int("models", len(records)))

	client := &http.Client{Timeout: cfg.Timeout}

	ack, err := submitRecords(ctx, client, cfg.BaseURL, records)
	if err != nil {
		return fmt.Errorf("submit records: %w", err)
	}
	stats.RecordsAccepted = ack.Accepted
	log.Info(ctx, "submitted records",
		logger.Int("accepted", ack.Accepted),
		logger.Int("rejected", ack.Rejected),
	)

	entries, err := fetchLeaderboard(ctx, client, cfg.BaseURL, cfg.TopN)
	if err != nil {
		return fmt.Errorf("fetch leaderboard: %w", err)
	}
	stats.LeaderboardEntries = len(entries)

	if err := verifyRanking(entries); err != nil {
		return fmt.Errorf("verify ranking: %w", err)
	}
	log.Info(ctx, "leaderboard ranking verified", logger.Int("entries", len(entries)))

	if cfg.Verbose {
		for _, e := range entries {
			log.Info(ctx, "entry",
				logger.Int("rank", e.Rank),
				logger.String("model", e.Model),
				logger.Float64("tci", e.TCI),
			)
		}
	}

	stats.Duration = time.Since(stats.StartTime)
	log.Info(ctx, "seed run completed",
		logger.Int("models", stats.ModelsGenerated),
		logger.Int("accepted", stats.RecordsAccepted),
		logger.String("duration", stats.Duration.String()),
	)
	return nil
}

// submitRecords posts the batch to /records.
func submitRecords(ctx context.Context, client *http.Client, baseURL string, records []Record) (*IngestAck, error) {
	body, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("marshal records: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/records", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post records: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusAccepted {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(data))
	}
	var ack IngestAck
	if err := json.Unmarshal(data, &ack); err != nil {
		return nil, fmt.Errorf("decode ack: %w", err)
	}
	return &ack, nil
}

// fetchLeaderboard reads the ranked entries back.
func fetchLeaderboard(ctx context.Context, client *http.Client, baseURL string, topN int) ([]Entry, error) {
	url := fmt.Sprintf("%s/leaderboard?limit=%d", baseURL, topN)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get leaderboard: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(data))
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode leaderboard: %w", err)
	}
	return entries, nil
}

// verifyRanking checks ranks are sequential and scores never increase
// down the board.
func verifyRanking(entries []Entry) error {
	for i, e := range entries {
		if e.Rank != i+1 {
			return fmt.Errorf("entry %d has rank %d", i, e.Rank)
		}
		if i > 0 && e.TCI > entries[i-1].TCI {
			return fmt.Errorf("rank %d score %.1f exceeds rank %d score %.1f",
				e.Rank, e.TCI, entries[i-1].Rank, entries[i-1].TCI)
		}
	}
	return nil
}
