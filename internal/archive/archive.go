// Package archive persists match summaries to a local SQLite database so
// record views survive the upstream's short history window.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"riftwatch/internal/matches"
)

const schema = `
CREATE TABLE IF NOT EXISTS match_summaries (
	puuid         TEXT NOT NULL,
	match_id      TEXT NOT NULL,
	product       TEXT NOT NULL DEFAULT 'lol',
	game_creation INTEGER NOT NULL,
	summary       TEXT NOT NULL,
	archived_at   INTEGER NOT NULL,
	PRIMARY KEY (puuid, match_id, product)
);
CREATE INDEX IF NOT EXISTS idx_match_summaries_recent
	ON match_summaries (puuid, product, game_creation DESC);
`

// Store is the archive handle. Safe for concurrent use; database/sql pools
// connections underneath.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed creates) the archive at path.
func Open(path string) (*Store, error) {
	if path == "" {
		path = "riftwatch.db"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping archive: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply archive schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// ArchiveSummaries upserts a batch of match summaries for a player. Existing
// rows are overwritten; summaries without a match id are skipped.
func (s *Store) ArchiveSummaries(ctx context.Context, puuid string, summaries []matches.GameSummary) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin archive tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO match_summaries (puuid, match_id, product, game_creation, summary, archived_at)
		VALUES (?, ?, 'lol', ?, ?, ?)
		ON CONFLICT (puuid, match_id, product) DO UPDATE SET
			game_creation = excluded.game_creation,
			summary       = excluded.summary,
			archived_at   = excluded.archived_at`)
	if err != nil {
		return 0, fmt.Errorf("prepare archive upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	stored := 0
	for _, summary := range summaries {
		matchID := idString(summary.MatchID)
		if matchID == "" {
			continue
		}
		payload, err := json.Marshal(summary)
		if err != nil {
			return stored, fmt.Errorf("encode summary %s: %w", matchID, err)
		}
		if _, err := stmt.ExecContext(ctx, puuid, matchID, summary.GameCreation, string(payload), now); err != nil {
			return stored, fmt.Errorf("archive summary %s: %w", matchID, err)
		}
		stored++
	}
	if err := tx.Commit(); err != nil {
		return stored, fmt.Errorf("commit archive tx: %w", err)
	}
	return stored, nil
}

// Recent returns up to limit archived summaries for a player, newest first.
func (s *Store) Recent(ctx context.Context, puuid string, limit int) ([]matches.GameSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT summary FROM match_summaries
		WHERE puuid = ? AND product = 'lol'
		ORDER BY game_creation DESC
		LIMIT ?`, puuid, limit)
	if err != nil {
		return nil, fmt.Errorf("query archive: %w", err)
	}
	defer rows.Close()

	var summaries []matches.GameSummary
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan archive row: %w", err)
		}
		var summary matches.GameSummary
		if err := json.Unmarshal([]byte(payload), &summary); err != nil {
			return nil, fmt.Errorf("decode archived summary: %w", err)
		}
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}

// Count returns the number of archived summaries for a player.
func (s *Store) Count(ctx context.Context, puuid string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM match_summaries
		WHERE puuid = ? AND product = 'lol'`, puuid).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count archive rows: %w", err)
	}
	return count, nil
}

func idString(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return fmt.Sprintf("%d", int64(id))
	case int64:
		return fmt.Sprintf("%d", id)
	default:
		return ""
	}
}
