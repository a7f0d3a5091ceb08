package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/hoopcast/hoopcast/internal/domain/model"
)

// MemoryStore keeps game logs in memory. Safe for concurrent use; reads
// take a shared lock so lookups stay cheap under ingest load.
type MemoryStore struct {
	mu      sync.RWMutex
	logs    map[string][]model.GameRecord // player id -> games, date ascending
	players map[string]PlayerInfo
	seen    map[string]struct{} // record ids
	games   int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		logs:    make(map[string][]model.GameRecord),
		players: make(map[string]PlayerInfo),
		seen:    make(map[string]struct{}),
	}
}

func (s *MemoryStore) Append(ctx context.Context, rec model.GameRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.seen[rec.RecordID]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateRecord, rec.RecordID)
	}
	s.seen[rec.RecordID] = struct{}{}

	log := s.logs[rec.PlayerID]
	// Records usually arrive in date order; insert in place when one
	// doesn't.
	at := sort.Search(len(log), func(i int) bool { return log[i].Date.After(rec.Date) })
	log = append(log, model.GameRecord{})
	copy(log[at+1:], log[at:])
	log[at] = rec
	s.logs[rec.PlayerID] = log

	info := s.players[rec.PlayerID]
	info.PlayerID = rec.PlayerID
	if rec.PlayerName != "" {
		info.Name = rec.PlayerName
	}
	if rec.Position != "" {
		info.Position = rec.Position
	}
	info.GameCount = len(log)
	s.players[rec.PlayerID] = info

	s.games++
	return nil
}

func (s *MemoryStore) History(ctx context.Context, playerID string) ([]model.GameRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log, ok := s.logs[playerID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, playerID)
	}
	out := make([]model.GameRecord, len(log))
	copy(out, log)
	return out, nil
}

func (s *MemoryStore) Players(ctx context.Context) ([]PlayerInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]PlayerInfo, 0, len(s.players))
	for _, info := range s.players {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out, nil
}

func (s *MemoryStore) Averages(ctx context.Context, playerID string, season int) (model.StatLine, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log, ok := s.logs[playerID]
	if !ok {
		return nil, 0, fmt.Errorf("%w: %s", ErrNotFound, playerID)
	}

	var (
		count int
		sums  = make(model.StatLine)
	)
	for _, rec := range log {
		if season > 0 && model.Season(rec.Date) != season {
			continue
		}
		count++
		sums[model.StatPoints] += rec.Points
		sums[model.StatRebounds] += rec.Rebounds
		sums[model.StatAssists] += rec.Assists
		sums[model.StatSteals] += rec.Steals
		sums[model.StatBlocks] += rec.Blocks
		sums[model.StatTurnovers] += rec.Turnovers
		sums[model.StatMinutes] += rec.Minutes
	}
	if count == 0 {
		return nil, 0, nil
	}
	for stat := range sums {
		sums[stat] /= float64(count)
	}
	return sums, count, nil
}

func (s *MemoryStore) Counts(ctx context.Context) (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players), s.games, nil
}

func (s *MemoryStore) Close() error { return nil }
