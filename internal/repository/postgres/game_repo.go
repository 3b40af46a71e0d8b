package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/oldcrow/westeros/internal/model"
)

// GameRepo handles game and game_player database operations.
type GameRepo struct {
	db *sql.DB
}

// NewGameRepo creates a GameRepo.
func NewGameRepo(db *sql.DB) *GameRepo {
	return &GameRepo{db: db}
}

// Create inserts a new game in waiting status.
func (r *GameRepo) Create(ctx context.Context, name, creatorID string, playerCount int, turnDur string) (*model.Game, error) {
	var g model.Game
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO games (id, name, creator_id, player_count, turn_duration)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, name, creator_id, status, player_count, turn_duration, created_at`,
		uuid.NewString(), name, creatorID, playerCount, turnDur,
	).Scan(&g.ID, &g.Name, &g.CreatorID, &g.Status, &g.PlayerCount, &g.TurnDuration, &g.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}
	return &g, nil
}

// FindByID returns a game by ID with its players.
func (r *GameRepo) FindByID(ctx context.Context, id string) (*model.Game, error) {
	var g model.Game
	var winner sql.NullString
	var seed sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, creator_id, status, winner, player_count, turn_duration, seed,
		        deadline, created_at, started_at, finished_at
		 FROM games WHERE id = $1`, id,
	).Scan(&g.ID, &g.Name, &g.CreatorID, &g.Status, &winner, &g.PlayerCount, &g.TurnDuration, &seed,
		&g.Deadline, &g.CreatedAt, &g.StartedAt, &g.FinishedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find game: %w", err)
	}
	g.Winner = winner.String
	g.Seed = seed.Int64

	players, err := r.ListPlayers(ctx, id)
	if err != nil {
		return nil, err
	}
	g.Players = players
	return &g, nil
}

// ListOpen returns games in "waiting" status.
func (r *GameRepo) ListOpen(ctx context.Context) ([]model.Game, error) {
	return r.list(ctx,
		`SELECT id, name, creator_id, status, winner, player_count, turn_duration, created_at, started_at, finished_at
		 FROM games WHERE status = 'waiting' ORDER BY created_at DESC LIMIT 50`)
}

// ListByUser returns all games a user is part of (as player or creator).
func (r *GameRepo) ListByUser(ctx context.Context, userID string) ([]model.Game, error) {
	return r.list(ctx,
		`SELECT DISTINCT g.id, g.name, g.creator_id, g.status, g.winner, g.player_count, g.turn_duration,
		        g.created_at, g.started_at, g.finished_at
		 FROM games g LEFT JOIN game_players gp ON g.id = gp.game_id AND gp.user_id = $1
		 WHERE gp.user_id = $1 OR g.creator_id = $1
		 ORDER BY g.created_at DESC LIMIT 50`, userID)
}

// ListFinished returns finished games, most recent first.
func (r *GameRepo) ListFinished(ctx context.Context) ([]model.Game, error) {
	return r.list(ctx,
		`SELECT id, name, creator_id, status, winner, player_count, turn_duration, created_at, started_at, finished_at
		 FROM games WHERE status = 'finished' ORDER BY finished_at DESC LIMIT 100`)
}

// ListActive returns all active games, including their players.
func (r *GameRepo) ListActive(ctx context.Context) ([]model.Game, error) {
	games, err := r.list(ctx,
		`SELECT id, name, creator_id, status, winner, player_count, turn_duration, created_at, started_at, finished_at
		 FROM games WHERE status = 'active' ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	for i := range games {
		players, err := r.ListPlayers(ctx, games[i].ID)
		if err != nil {
			return nil, err
		}
		games[i].Players = players
	}
	return games, nil
}

// ListExpired returns active games whose planning deadline has passed.
func (r *GameRepo) ListExpired(ctx context.Context) ([]model.Game, error) {
	return r.list(ctx,
		`SELECT id, name, creator_id, status, winner, player_count, turn_duration, created_at, started_at, finished_at
		 FROM games WHERE status = 'active' AND deadline IS NOT NULL AND deadline < now()
		 ORDER BY deadline`)
}

func (r *GameRepo) list(ctx context.Context, query string, args ...any) ([]model.Game, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var games []model.Game
	for rows.Next() {
		var g model.Game
		var winner sql.NullString
		if err := rows.Scan(&g.ID, &g.Name, &g.CreatorID, &g.Status, &winner, &g.PlayerCount,
			&g.TurnDuration, &g.CreatedAt, &g.StartedAt, &g.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		g.Winner = winner.String
		games = append(games, g)
	}
	return games, rows.Err()
}

// JoinGame adds a player to a game.
func (r *GameRepo) JoinGame(ctx context.Context, gameID, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO game_players (game_id, user_id) VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`,
		gameID, userID,
	)
	if err != nil {
		return fmt.Errorf("join game: %w", err)
	}
	return nil
}

// ListPlayers returns all players in a game.
func (r *GameRepo) ListPlayers(ctx context.Context, gameID string) ([]model.GamePlayer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT game_id, user_id, house, joined_at FROM game_players WHERE game_id = $1 ORDER BY joined_at`,
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	var players []model.GamePlayer
	for rows.Next() {
		var p model.GamePlayer
		var house sql.NullString
		if err := rows.Scan(&p.GameID, &p.UserID, &house, &p.JoinedAt); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		p.House = house.String
		players = append(players, p)
	}
	return players, rows.Err()
}

// PlayerCount returns the number of players in a game.
func (r *GameRepo) PlayerCount(ctx context.Context, gameID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM game_players WHERE game_id = $1`, gameID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("player count: %w", err)
	}
	return count, nil
}

// AssignHouses stores the house assignment and RNG seed, and flips the
// game to active.
func (r *GameRepo) AssignHouses(ctx context.Context, gameID string, seed int64, assignments map[string]string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for userID, house := range assignments {
		_, err := tx.ExecContext(ctx,
			`UPDATE game_players SET house = $1 WHERE game_id = $2 AND user_id = $3`,
			house, gameID, userID,
		)
		if err != nil {
			return fmt.Errorf("assign house: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE games SET status = 'active', seed = $1, started_at = now() WHERE id = $2`, seed, gameID,
	)
	if err != nil {
		return fmt.Errorf("update game status: %w", err)
	}

	return tx.Commit()
}

// SetDeadline updates the planning deadline for an active game.
func (r *GameRepo) SetDeadline(ctx context.Context, gameID string, deadline time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE games SET deadline = $1 WHERE id = $2`, deadline, gameID)
	if err != nil {
		return fmt.Errorf("set deadline: %w", err)
	}
	return nil
}

// SetFinished marks a game as finished.
func (r *GameRepo) SetFinished(ctx context.Context, gameID, winner string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE games SET status = 'finished', winner = $1, deadline = NULL, finished_at = now() WHERE id = $2`,
		winner, gameID,
	)
	if err != nil {
		return fmt.Errorf("set finished: %w", err)
	}
	return nil
}

// Delete removes a game and all associated data (cascades to players, snapshots, messages).
func (r *GameRepo) Delete(ctx context.Context, gameID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM games WHERE id = $1`, gameID)
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	return nil
}
