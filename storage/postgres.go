package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/AlphaReposi/YTVV/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultListLimit = 50

const schema = `
	CREATE TABLE IF NOT EXISTS video_snapshots (
		id          uuid PRIMARY KEY,
		video_id    text NOT NULL,
		metadata    jsonb NOT NULL,
		captured_at timestamptz NOT NULL
	);
	CREATE INDEX IF NOT EXISTS video_snapshots_video_captured
		ON video_snapshots (video_id, captured_at DESC);
`

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, dbURL string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

// EnsureSchema creates the snapshot table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schema)
	return err
}

func (s *PostgresStore) SaveSnapshot(ctx context.Context, snap models.Snapshot) error {
	meta, err := json.Marshal(snap.Metadata)
	if err != nil {
		return fmt.Errorf("encode snapshot metadata: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO video_snapshots (id, video_id, metadata, captured_at) VALUES ($1, $2, $3, $4)`,
		snap.ID, snap.VideoID, meta, snap.CapturedAt,
	)
	return err
}

// ListSnapshots returns the newest snapshots of a video first.
func (s *PostgresStore) ListSnapshots(ctx context.Context, videoID string, limit int) ([]models.Snapshot, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id::text, video_id, metadata, captured_at
		FROM video_snapshots
		WHERE video_id = $1
		ORDER BY captured_at DESC
		LIMIT $2
	`, videoID, limit)
	if err != nil {
		return nil, err
	}
	snaps, err := pgx.CollectRows(rows, scanSnapshot)
	if err != nil {
		return nil, err
	}
	if snaps == nil {
		snaps = []models.Snapshot{}
	}
	return snaps, nil
}

func scanSnapshot(row pgx.CollectableRow) (models.Snapshot, error) {
	var (
		snap models.Snapshot
		meta []byte
	)
	if err := row.Scan(&snap.ID, &snap.VideoID, &meta, &snap.CapturedAt); err != nil {
		return snap, err
	}
	if err := json.Unmarshal(meta, &snap.Metadata); err != nil {
		return snap, fmt.Errorf("decode snapshot metadata: %w", err)
	}
	return snap, nil
}
