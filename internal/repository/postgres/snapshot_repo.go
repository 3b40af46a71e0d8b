package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/oldcrow/westeros/internal/model"
)

// SnapshotRepo handles persisted game state snapshots.
type SnapshotRepo struct {
	db *sql.DB
}

// NewSnapshotRepo creates a SnapshotRepo.
func NewSnapshotRepo(db *sql.DB) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

// Create inserts a snapshot of the game state after an applied action.
func (r *SnapshotRepo) Create(ctx context.Context, gameID string, seq, round int, phase string, state json.RawMessage) (*model.Snapshot, error) {
	var s model.Snapshot
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO snapshots (id, game_id, seq, round, phase, state)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, game_id, seq, round, phase, state, created_at`,
		uuid.NewString(), gameID, seq, round, phase, state,
	).Scan(&s.ID, &s.GameID, &s.Seq, &s.Round, &s.Phase, &s.State, &s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create snapshot: %w", err)
	}
	return &s, nil
}

// Latest returns the most recent snapshot for a game, or nil.
func (r *SnapshotRepo) Latest(ctx context.Context, gameID string) (*model.Snapshot, error) {
	var s model.Snapshot
	err := r.db.QueryRowContext(ctx,
		`SELECT id, game_id, seq, round, phase, state, created_at
		 FROM snapshots WHERE game_id = $1
		 ORDER BY seq DESC LIMIT 1`, gameID,
	).Scan(&s.ID, &s.GameID, &s.Seq, &s.Round, &s.Phase, &s.State, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest snapshot: %w", err)
	}
	return &s, nil
}

// ListByGame returns all snapshots for a game in order.
func (r *SnapshotRepo) ListByGame(ctx context.Context, gameID string) ([]model.Snapshot, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, game_id, seq, round, phase, state, created_at
		 FROM snapshots WHERE game_id = $1 ORDER BY seq`, gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []model.Snapshot
	for rows.Next() {
		var s model.Snapshot
		if err := rows.Scan(&s.ID, &s.GameID, &s.Seq, &s.Round, &s.Phase, &s.State, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snaps = append(snaps, s)
	}
	return snaps, rows.Err()
}
