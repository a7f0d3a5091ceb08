package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hoopcast/hoopcast/internal/domain/model"
	_ "modernc.org/sqlite"
)

// SQLStore persists game logs in a SQLite database.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore opens or creates the SQLite database at dbPath. An empty
// dbPath defaults to $TMPDIR/hoopcast/games.db.
func NewSQLStore(dbPath string) (*SQLStore, error) {
	if dbPath == "" {
		dbPath = filepath.Join(os.TempDir(), "hoopcast", "games.db")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer; WAL allows concurrent readers
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}
	s := &SQLStore{db: db}
	if err := s.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) createTables() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS games (
			record_id   TEXT PRIMARY KEY,
			player_id   TEXT NOT NULL,
			player_name TEXT,
			position    TEXT,
			game_date   INTEGER NOT NULL,
			season      INTEGER NOT NULL,
			opponent    TEXT,
			is_home     INTEGER NOT NULL,
			minutes     REAL NOT NULL,
			points      REAL NOT NULL,
			rebounds    REAL NOT NULL,
			assists     REAL NOT NULL,
			steals      REAL NOT NULL,
			blocks      REAL NOT NULL,
			turnovers   REAL NOT NULL,
			fg_pct      REAL,
			fg3_pct     REAL,
			ft_pct      REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_games_player_date ON games(player_id, game_date)`,
		`CREATE INDEX IF NOT EXISTS idx_games_season ON games(season)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLStore) Append(ctx context.Context, rec model.GameRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO games
			(record_id, player_id, player_name, position, game_date, season,
			 opponent, is_home, minutes, points, rebounds, assists, steals,
			 blocks, turnovers, fg_pct, fg3_pct, ft_pct)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		rec.RecordID, rec.PlayerID, rec.PlayerName, rec.Position,
		rec.Date.UnixNano(), model.Season(rec.Date),
		rec.Opponent, boolToInt(rec.IsHome), rec.Minutes,
		rec.Points, rec.Rebounds, rec.Assists, rec.Steals,
		rec.Blocks, rec.Turnovers, rec.FGPct, rec.FG3Pct, rec.FTPct,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return fmt.Errorf("%w: %s", ErrDuplicateRecord, rec.RecordID)
		}
		return fmt.Errorf("failed to insert game: %w", err)
	}
	return nil
}

const gameCols = `record_id, player_id, player_name, position, game_date,
	opponent, is_home, minutes, points, rebounds, assists, steals, blocks,
	turnovers, fg_pct, fg3_pct, ft_pct`

func (s *SQLStore) History(ctx context.Context, playerID string) ([]model.GameRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+gameCols+` FROM games
		WHERE player_id = ? ORDER BY game_date ASC, record_id ASC`, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer rows.Close()

	var log []model.GameRecord
	for rows.Next() {
		rec, err := scanGame(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		log = append(log, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(log) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, playerID)
	}
	return log, nil
}

func (s *SQLStore) Players(ctx context.Context) ([]PlayerInfo, error) {
	// The name and position travel on every record; the latest game wins
	// so trades and renames surface without a separate players table.
	rows, err := s.db.QueryContext(ctx, `
		SELECT g.player_id, g.player_name, g.position, c.n
		FROM games g
		JOIN (
			SELECT player_id, COUNT(*) AS n, MAX(game_date) AS latest
			FROM games GROUP BY player_id
		) c ON c.player_id = g.player_id AND c.latest = g.game_date
		GROUP BY g.player_id
		ORDER BY g.player_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	var out []PlayerInfo
	for rows.Next() {
		var info PlayerInfo
		if err := rows.Scan(&info.PlayerID, &info.Name, &info.Position, &info.GameCount); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

func (s *SQLStore) Averages(ctx context.Context, playerID string, season int) (model.StatLine, int, error) {
	query := `
		SELECT COUNT(*), AVG(points), AVG(rebounds), AVG(assists),
		       AVG(steals), AVG(blocks), AVG(turnovers), AVG(minutes)
		FROM games WHERE player_id = ?`
	args := []any{playerID}
	if season > 0 {
		query += ` AND season = ?`
		args = append(args, season)
	}

	var (
		count                              int
		pts, reb, ast, stl, blk, tov, mins sql.NullFloat64
	)
	row := s.db.QueryRowContext(ctx, query, args...)
	if err := row.Scan(&count, &pts, &reb, &ast, &stl, &blk, &tov, &mins); err != nil {
		return nil, 0, fmt.Errorf("failed to scan averages: %w", err)
	}
	if count == 0 {
		if known, err := s.playerKnown(ctx, playerID); err != nil {
			return nil, 0, err
		} else if !known {
			return nil, 0, fmt.Errorf("%w: %s", ErrNotFound, playerID)
		}
		return nil, 0, nil
	}

	return model.StatLine{
		model.StatPoints:    pts.Float64,
		model.StatRebounds:  reb.Float64,
		model.StatAssists:   ast.Float64,
		model.StatSteals:    stl.Float64,
		model.StatBlocks:    blk.Float64,
		model.StatTurnovers: tov.Float64,
		model.StatMinutes:   mins.Float64,
	}, count, nil
}

func (s *SQLStore) Counts(ctx context.Context) (int, int, error) {
	var players, games int
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT player_id), COUNT(*) FROM games`)
	if err := row.Scan(&players, &games); err != nil {
		return 0, 0, fmt.Errorf("failed to scan counts: %w", err)
	}
	return players, games, nil
}

func (s *SQLStore) playerKnown(ctx context.Context, playerID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM games WHERE player_id = ? LIMIT 1`, playerID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to probe player: %w", err)
	}
	return true, nil
}

func scanGame(scan func(...any) error) (model.GameRecord, error) {
	var (
		rec      model.GameRecord
		dateNano int64
		isHome   int
	)
	err := scan(
		&rec.RecordID, &rec.PlayerID, &rec.PlayerName, &rec.Position, &dateNano,
		&rec.Opponent, &isHome, &rec.Minutes, &rec.Points, &rec.Rebounds,
		&rec.Assists, &rec.Steals, &rec.Blocks, &rec.Turnovers,
		&rec.FGPct, &rec.FG3Pct, &rec.FTPct,
	)
	if err != nil {
		return model.GameRecord{}, err
	}
	rec.Date = time.Unix(0, dateNano).UTC()
	rec.IsHome = isHome != 0
	return rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
