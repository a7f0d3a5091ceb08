// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	recordqueue "github.com/hoopcast/hoopcast/internal/adapters/mq/queue"
	workerpool "github.com/hoopcast/hoopcast/internal/adapters/mq/worker"
	"github.com/hoopcast/hoopcast/internal/adapters/repository"
	"github.com/hoopcast/hoopcast/internal/config"
	"github.com/hoopcast/hoopcast/internal/domain/dedupe"
	"github.com/hoopcast/hoopcast/internal/domain/draft"
	"github.com/hoopcast/hoopcast/internal/domain/features"
	"github.com/hoopcast/hoopcast/internal/domain/forecast"
	"github.com/hoopcast/hoopcast/internal/domain/model"
	"github.com/hoopcast/hoopcast/internal/domain/ranking"
	"github.com/hoopcast/hoopcast/internal/domain/scoring"
	"github.com/hoopcast/hoopcast/internal/domain/types"
	"github.com/hoopcast/hoopcast/pkg/logger"
	"github.com/hoopcast/hoopcast/pkg/metrics"
)

// Ranking stat sources accepted by Rankings.
const (
	SourceForecast = "forecast"
	SourceSeason   = "season"
)

const dateLayout = "2006-01-02"

// neutralRatings serves pool-wide forecast rankings, where no concrete
// opponent exists: every lookup resolves to the league-average rating.
// Per-matchup predictions never use it; they fail on missing opponents.
type neutralRatings struct {
	avg float64
}

func (n neutralRatings) Rating(string) (float64, bool) { return n.avg, true }

// Service implements the API dependencies for the forecasting system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store       repository.Store
	deduper     dedupe.Deduper
	recordQueue recordqueue.Queue
	workerPool  *workerpool.Pool
	builder     *features.Builder
	poolBuilder *features.Builder
	models      forecast.Set
	scorer      *scoring.Scorer
	drafter     *draft.Engine

	// Configuration
	workerCount     int
	queueSize       int
	dedupeSize      int
	storeBackend    string
	dbPath          string
	modelsDir       string
	leagueSize      int
	confidenceLevel float64
	restDayCap      int
	scoringWeights  map[string]float64
	opponentRatings map[string]float64
	rosterSlots     map[string]int

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of ingest worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the ingest queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStoreBackend selects the game log store backend and, for sqlite,
// its database path.
func WithStoreBackend(backend, dbPath string) Option {
	return func(s *Service) {
		if backend != "" {
			s.storeBackend = backend
		}
		s.dbPath = dbPath
	}
}

// WithModelsDir points the service at per-stat model artifact files.
func WithModelsDir(dir string) Option {
	return func(s *Service) {
		s.modelsDir = dir
	}
}

// WithLeagueSize sets the default league size for replacement levels.
func WithLeagueSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.leagueSize = n
		}
	}
}

// WithConfidenceLevel sets the default prediction interval level.
func WithConfidenceLevel(level float64) Option {
	return func(s *Service) {
		if level > 0 && level < 1 {
			s.confidenceLevel = level
		}
	}
}

// WithRestDayCap bounds the rest-day feature.
func WithRestDayCap(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.restDayCap = days
		}
	}
}

// WithScoringWeights overrides the fantasy point weight table.
func WithScoringWeights(weights map[string]float64) Option {
	return func(s *Service) {
		s.scoringWeights = weights
	}
}

// WithOpponentRatings sets the per-opponent strength lookup table.
func WithOpponentRatings(ratings map[string]float64) Option {
	return func(s *Service) {
		s.opponentRatings = ratings
	}
}

// WithRosterSlots sets per-position roster slot counts used to derive
// draft needs.
func WithRosterSlots(slots map[string]int) Option {
	return func(s *Service) {
		if len(slots) > 0 {
			s.rosterSlots = slots
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	defaults := config.New()
	s := &Service{
		workerCount:     runtime.NumCPU() * 2,
		queueSize:       defaults.QueueSize,
		dedupeSize:      defaults.DedupeSize,
		storeBackend:    defaults.StoreBackend,
		leagueSize:      defaults.LeagueSize,
		confidenceLevel: defaults.ConfidenceLevel,
		restDayCap:      defaults.RestDayCap,
		scoringWeights:  map[string]float64{},
		opponentRatings: map[string]float64{},
		rosterSlots:     defaults.RosterSlots,
		stopCh:          make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting forecast service...")

	switch s.storeBackend {
	case config.StoreSQLite:
		store, err := repository.NewSQLStore(s.dbPath)
		if err != nil {
			return fmt.Errorf("failed to open sqlite store: %w", err)
		}
		s.store = store
		s.logger.Info(ctx, "using sqlite store", logger.String("path", s.dbPath))
	default:
		s.store = repository.NewMemoryStore()
		s.logger.Info(ctx, "using in-memory store")
	}

	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.recordQueue = recordqueue.NewInMemoryQueue(
		recordqueue.WithCapacity(s.queueSize),
		recordqueue.WithBufferSize(s.queueSize),
	)

	s.builder = features.NewBuilder(
		features.MapRatings(s.opponentRatings),
		features.WithRestDayCap(s.restDayCap),
	)
	s.poolBuilder = features.NewBuilder(
		neutralRatings{avg: averageRating(s.opponentRatings)},
		features.WithRestDayCap(s.restDayCap),
	)

	if s.modelsDir != "" {
		models, err := forecast.LoadArtifacts(s.modelsDir)
		if err != nil {
			return fmt.Errorf("failed to load model artifacts: %w", err)
		}
		s.models = models
		s.logger.Info(ctx, "loaded model artifacts", logger.String("dir", s.modelsDir))
	} else {
		s.models = forecast.DefaultSet()
		s.logger.Info(ctx, "using built-in baseline models")
	}

	s.scorer = scoring.NewScorer(scoring.WithWeights(s.scoringWeights))
	s.drafter = draft.NewEngine()

	s.workerPool = workerpool.NewPool(s.workerCount, s.recordQueue, s.store)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "forecast service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.String("store", s.storeBackend),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping forecast service...")

	if s.workerPool != nil {
		s.workerPool.Stop()
	}

	if s.recordQueue != nil {
		_ = s.recordQueue.Close()
	}

	if s.store != nil {
		_ = s.store.Close()
	}

	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "forecast service stopped")
}

// Ingest validates a record id against the dedupe cache and submits the
// record for asynchronous storage. Returns (queued, duplicate).
func (s *Service) Ingest(ctx context.Context, rec model.GameRecord) (bool, bool) {
	if s.deduper.SeenAndRecord(ctx, rec.RecordID) {
		metrics.RecordDuplicateRecord()
		s.logger.Debug(ctx, "duplicate record detected, skipping",
			logger.String("recordID", rec.RecordID),
			logger.String("playerID", rec.PlayerID),
		)
		return false, true
	}

	if !s.recordQueue.Enqueue(ctx, rec) {
		// The id was recorded but the record never made it in; forget it
		// so a retry can succeed.
		s.deduper.Unrecord(ctx, rec.RecordID)
		return false, false
	}
	return true, false
}

// Players lists tracked players.
func (s *Service) Players(ctx context.Context) ([]types.PlayerSummary, error) {
	infos, err := s.store.Players(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]types.PlayerSummary, len(infos))
	for i, info := range infos {
		out[i] = types.PlayerSummary{
			PlayerID: info.PlayerID,
			Name:     info.Name,
			Position: info.Position,
			Games:    info.GameCount,
		}
	}
	return out, nil
}

// PlayerGames returns a player's game log in chronological order.
func (s *Service) PlayerGames(ctx context.Context, playerID string) ([]types.GameSummary, error) {
	history, err := s.store.History(ctx, playerID)
	if err != nil {
		return nil, err
	}

	out := make([]types.GameSummary, len(history))
	for i, rec := range history {
		out[i] = types.GameSummary{
			RecordID:  rec.RecordID,
			Date:      rec.Date.Format(dateLayout),
			Opponent:  rec.Opponent,
			IsHome:    rec.IsHome,
			Minutes:   rec.Minutes,
			Points:    rec.Points,
			Rebounds:  rec.Rebounds,
			Assists:   rec.Assists,
			Steals:    rec.Steals,
			Blocks:    rec.Blocks,
			Turnovers: rec.Turnovers,
			FGPct:     rec.FGPct,
			FG3Pct:    rec.FG3Pct,
			FTPct:     rec.FTPct,
		}
	}
	return out, nil
}

// Predict builds a next-game projection for one player against a concrete
// opponent. A non-positive level falls back to the configured default.
func (s *Service) Predict(ctx context.Context, playerID string, gameCtx model.GameContext, level float64) (types.Prediction, error) {
	start := time.Now()
	defer func() {
		metrics.RecordPredictionLatency(float64(time.Since(start).Milliseconds()))
	}()

	if level <= 0 {
		level = s.confidenceLevel
	}

	history, err := s.store.History(ctx, playerID)
	if err != nil {
		metrics.RecordPredictionError()
		return types.Prediction{}, err
	}

	fv, err := s.builder.Build(history, gameCtx)
	if err != nil {
		metrics.RecordPredictionError()
		return types.Prediction{}, err
	}

	forecasts, err := s.models.ForecastAll(fv)
	if err != nil {
		metrics.RecordPredictionError()
		return types.Prediction{}, err
	}

	line, err := s.projectedLine(ctx, playerID, gameCtx, forecasts)
	if err != nil {
		metrics.RecordPredictionError()
		return types.Prediction{}, err
	}

	out := types.Prediction{
		PlayerID:     playerID,
		PlayerName:   history[len(history)-1].PlayerName,
		GameDate:     gameCtx.Date.Format(dateLayout),
		Opponent:     gameCtx.Opponent,
		IsHome:       gameCtx.IsHome,
		Level:        level,
		Forecasts:    make([]types.Forecast, 0, len(forecasts)),
		FantasyScore: s.scorer.Score(line),
	}
	for _, f := range forecasts {
		ci, err := forecast.Interval(f, level)
		if err != nil {
			metrics.RecordPredictionError()
			return types.Prediction{}, err
		}
		out.Forecasts = append(out.Forecasts, types.Forecast{
			Stat:     f.Stat,
			Estimate: f.Estimate,
			Lower:    ci.Lower,
			Upper:    ci.Upper,
		})
	}

	metrics.RecordPredictionServed()
	return out, nil
}

// projectedLine combines forecast estimates with trailing averages for
// the stats no model covers, so the fantasy score reflects a full line.
func (s *Service) projectedLine(ctx context.Context, playerID string, gameCtx model.GameContext, forecasts []model.StatForecast) (model.StatLine, error) {
	line := make(model.StatLine, len(forecasts)+3)
	for _, f := range forecasts {
		line[f.Stat] = f.Estimate
	}

	avgs, n, err := s.store.Averages(ctx, playerID, model.Season(gameCtx.Date))
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// No games this season yet; fall back to the career averages.
		avgs, _, err = s.store.Averages(ctx, playerID, 0)
		if err != nil {
			return nil, err
		}
	}
	for _, stat := range []string{model.StatSteals, model.StatBlocks, model.StatTurnovers} {
		line[stat] = avgs[stat]
	}
	return line, nil
}

// Rankings builds the full draft board. Source selects the stat values
// fed to the scorer: next-game forecasts or season averages. A
// non-positive leagueSize falls back to the configured default.
func (s *Service) Rankings(ctx context.Context, leagueSize int, source string) ([]types.RankEntry, error) {
	metrics.RecordRankingRequest()

	if leagueSize <= 0 {
		leagueSize = s.leagueSize
	}
	if source == "" {
		source = SourceForecast
	}

	pool, err := s.buildPool(ctx, source)
	if err != nil {
		return nil, err
	}

	entries, err := ranking.RankPool(pool, leagueSize)
	if err != nil {
		return nil, err
	}
	return toAPIEntries(entries), nil
}

// board builds the domain-level draft board used by draft operations.
func (s *Service) board(ctx context.Context, leagueSize int) ([]model.RankEntry, error) {
	if leagueSize <= 0 {
		leagueSize = s.leagueSize
	}
	pool, err := s.buildPool(ctx, SourceForecast)
	if err != nil {
		return nil, err
	}
	return ranking.RankPool(pool, leagueSize)
}

func (s *Service) buildPool(ctx context.Context, source string) ([]model.PoolPlayer, error) {
	infos, err := s.store.Players(ctx)
	if err != nil {
		return nil, err
	}

	pool := make([]model.PoolPlayer, 0, len(infos))
	for _, info := range infos {
		score, err := s.poolScore(ctx, info.PlayerID, source)
		if err != nil {
			return nil, fmt.Errorf("ranking %s: %w", info.PlayerID, err)
		}
		pool = append(pool, model.PoolPlayer{
			PlayerID:     info.PlayerID,
			Name:         info.Name,
			Position:     info.Position,
			FantasyScore: score,
		})
	}
	return pool, nil
}

func (s *Service) poolScore(ctx context.Context, playerID, source string) (float64, error) {
	switch source {
	case SourceSeason:
		avgs, n, err := s.store.Averages(ctx, playerID, 0)
		if err != nil {
			return 0, err
		}
		if n == 0 {
			return 0, nil
		}
		return s.scorer.Score(avgs), nil

	case SourceForecast:
		history, err := s.store.History(ctx, playerID)
		if err != nil {
			return 0, err
		}
		// A synthetic next game the day after the latest record. Every
		// stored player has at least one game, so history cannot run dry.
		gameCtx := model.GameContext{
			Date: history[len(history)-1].Date.AddDate(0, 0, 1),
		}
		fv, err := s.poolBuilder.Build(history, gameCtx)
		if err != nil {
			return 0, err
		}
		forecasts, err := s.models.ForecastAll(fv)
		if err != nil {
			return 0, err
		}
		line, err := s.projectedLine(ctx, playerID, gameCtx, forecasts)
		if err != nil {
			return 0, err
		}
		return s.scorer.Score(line), nil

	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownSource, source)
	}
}

// Recommend suggests the next draft pick given the drafted set, the
// caller's team, and the league size. An explicit needs map overrides the
// roster-slot derivation.
func (s *Service) Recommend(ctx context.Context, drafted, myTeam []string, needs map[string]int, leagueSize int) (types.Recommendation, error) {
	board, err := s.board(ctx, leagueSize)
	if err != nil {
		return types.Recommendation{}, err
	}

	if needs == nil {
		needs = s.teamNeeds(board, myTeam)
	}
	rec, err := s.drafter.Recommend(board, toSet(drafted), needs)
	if err != nil {
		return types.Recommendation{}, err
	}

	metrics.RecordRecommendation()
	return types.Recommendation{
		Recommended:  toAPIEntry(rec.Recommended),
		Alternatives: toAPIEntries(rec.Alternatives),
		Reason:       rec.Reason,
	}, nil
}

// BestAvailable lists the top undrafted players on the board.
func (s *Service) BestAvailable(ctx context.Context, drafted []string, topN, leagueSize int) ([]types.RankEntry, error) {
	board, err := s.board(ctx, leagueSize)
	if err != nil {
		return nil, err
	}
	return toAPIEntries(s.drafter.BestAvailable(board, toSet(drafted), topN)), nil
}

// Scarcity summarizes the remaining value per position.
func (s *Service) Scarcity(ctx context.Context, drafted []string, leagueSize int) ([]types.PositionScarcity, error) {
	board, err := s.board(ctx, leagueSize)
	if err != nil {
		return nil, err
	}

	summary := s.drafter.Scarcity(board, toSet(drafted))
	out := make([]types.PositionScarcity, len(summary))
	for i, p := range summary {
		out[i] = types.PositionScarcity{
			Position:    p.Position,
			Remaining:   p.Remaining,
			TopValue:    p.TopValue,
			AvgTopValue: p.AvgTopValue,
			Level:       p.Level,
		}
	}
	return out, nil
}

// teamNeeds derives remaining roster slots per position from the
// configured slot counts and the caller's current team.
func (s *Service) teamNeeds(board []model.RankEntry, myTeam []string) map[string]int {
	if len(s.rosterSlots) == 0 {
		return nil
	}

	needs := make(map[string]int, len(s.rosterSlots))
	for pos, slots := range s.rosterSlots {
		needs[pos] = slots
	}

	position := make(map[string]string, len(board))
	for _, entry := range board {
		position[entry.PlayerID] = entry.Position
	}
	for _, id := range myTeam {
		if pos, ok := position[id]; ok && needs[pos] > 0 {
			needs[pos]--
		}
	}
	return needs
}

// Stats is a point-in-time snapshot of the service, served on /stats and
// fed to the gauge updaters.
type Stats struct {
	Started        bool  `json:"started"`
	Workers        int   `json:"workers"`
	QueueCapacity  int   `json:"queue_capacity"`
	QueueLength    int   `json:"queue_length"`
	DedupeCapacity int   `json:"dedupe_capacity"`
	DedupeEntries  int64 `json:"dedupe_entries"`
	TotalPlayers   int   `json:"total_players"`
	TotalGames     int   `json:"total_games"`
}

// Stats snapshots the service and refreshes the derived gauges.
func (s *Service) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{
		Started:        s.started,
		Workers:        s.workerCount,
		QueueCapacity:  s.queueSize,
		DedupeCapacity: s.dedupeSize,
	}
	if !s.started {
		return st
	}

	ctx := context.Background()
	st.QueueLength = s.recordQueue.Len(ctx)
	st.DedupeEntries = s.deduper.Size()
	if players, games, err := s.store.Counts(ctx); err == nil {
		st.TotalPlayers = players
		st.TotalGames = games
		metrics.UpdateTotalPlayers(players)
		metrics.UpdateTotalGames(games)
	}
	metrics.UpdateQueueSize(st.QueueLength)
	metrics.UpdateWorkerActiveCount(s.workerCount)

	return st
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func toAPIEntry(e model.RankEntry) types.RankEntry {
	return types.RankEntry{
		Rank:         e.Rank,
		PlayerID:     e.PlayerID,
		Name:         e.Name,
		Position:     e.Position,
		PositionRank: e.PositionRank,
		FantasyScore: e.FantasyScore,
		VOR:          e.VOR,
	}
}

func toAPIEntries(entries []model.RankEntry) []types.RankEntry {
	out := make([]types.RankEntry, len(entries))
	for i, e := range entries {
		out[i] = toAPIEntry(e)
	}
	return out
}

func averageRating(ratings map[string]float64) float64 {
	if len(ratings) == 0 {
		return 1.0
	}
	var sum float64
	for _, v := range ratings {
		sum += v
	}
	return sum / float64(len(ratings))
}
