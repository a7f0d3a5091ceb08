package simulate

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
)

// getBoard retrieves the draft board from the running service.
func getBoard(ctx context.Context, config *Config, stats *Stats) ([]BoardEntry, error) {
	log.Printf("fetching top %d of the draft board...", config.TopN)

	client := newHTTPClient(config.Timeout)
	url := fmt.Sprintf("%s/rankings?league_size=%d&limit=%d", config.BaseURL, config.LeagueSize, config.TopN)

	resp, err := client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var board []BoardEntry
	if err := json.Unmarshal(body, &board); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	stats.BoardEntries = len(board)
	log.Printf("retrieved %d board entries", len(board))

	return board, nil
}

// probePredictions requests a next-game prediction for every board entry
// concurrently, confirming the prediction path works at scale.
func probePredictions(ctx context.Context, config *Config, board []BoardEntry, stats *Stats) error {
	if len(board) == 0 {
		return nil
	}
	log.Printf("probing predictions for %d players with %d workers...", len(board), config.Workers)

	client := newHTTPClient(config.Timeout)
	date := seasonOpening().AddDate(0, 0, 200).Format("2006-01-02")

	var (
		ok     int64
		failed int64
	)

	indexChan := make(chan int, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for index := range indexChan {
				select {
				case <-ctx.Done():
					return
				default:
					entry := board[index]
					url := fmt.Sprintf("%s/players/%s/prediction?date=%s&opponent=BOS&is_home=true",
						config.BaseURL, entry.PlayerID, date)

					resp, err := client.Get(ctx, url)
					if err != nil {
						atomic.AddInt64(&failed, 1)
						continue
					}
					body, err := readResponseBody(resp)
					if err != nil || resp.StatusCode != StatusOK {
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Printf("prediction failed for %s: HTTP %d %s", entry.PlayerID, resp.StatusCode, string(body))
						}
						continue
					}
					atomic.AddInt64(&ok, 1)
				}
			}
		}()
	}

	go func() {
		defer close(indexChan)
		for i := range board {
			select {
			case <-ctx.Done():
				return
			case indexChan <- i:
			}
		}
	}()

	wg.Wait()

	stats.PredictionsOK = int(atomic.LoadInt64(&ok))
	log.Printf("prediction probe completed: %d ok, %d failed", stats.PredictionsOK, int(atomic.LoadInt64(&failed)))

	return nil
}
