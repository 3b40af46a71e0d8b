package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/oldcrow/westeros/internal/model"
)

// UserRepository defines user data operations.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByProviderID(ctx context.Context, provider, providerID string) (*model.User, error)
	Upsert(ctx context.Context, provider, providerID, displayName, avatarURL string) (*model.User, error)
	UpdateDisplayName(ctx context.Context, id, displayName string) error
}

// GameRepository defines game and seat data operations.
type GameRepository interface {
	Create(ctx context.Context, name, creatorID string, playerCount int, turnDur string) (*model.Game, error)
	FindByID(ctx context.Context, id string) (*model.Game, error)
	ListOpen(ctx context.Context) ([]model.Game, error)
	ListByUser(ctx context.Context, userID string) ([]model.Game, error)
	ListFinished(ctx context.Context) ([]model.Game, error)
	ListActive(ctx context.Context) ([]model.Game, error)
	ListExpired(ctx context.Context) ([]model.Game, error)
	JoinGame(ctx context.Context, gameID, userID string) error
	PlayerCount(ctx context.Context, gameID string) (int, error)
	AssignHouses(ctx context.Context, gameID string, seed int64, assignments map[string]string) error
	SetDeadline(ctx context.Context, gameID string, deadline time.Time) error
	SetFinished(ctx context.Context, gameID, winner string) error
	Delete(ctx context.Context, gameID string) error
}

// SnapshotRepository defines persisted game state operations.
type SnapshotRepository interface {
	Create(ctx context.Context, gameID string, seq, round int, phase string, state json.RawMessage) (*model.Snapshot, error)
	Latest(ctx context.Context, gameID string) (*model.Snapshot, error)
	ListByGame(ctx context.Context, gameID string) ([]model.Snapshot, error)
}

// MessageRepository defines message data operations.
type MessageRepository interface {
	Create(ctx context.Context, gameID, senderID, recipientID, content string, round int) (*model.Message, error)
	ListByGame(ctx context.Context, gameID, userID string) ([]model.Message, error)
}

// GameCache defines live game state operations (Redis).
type GameCache interface {
	SetGameState(ctx context.Context, gameID string, state json.RawMessage) error
	GetGameState(ctx context.Context, gameID string) (json.RawMessage, error)
	SetPlans(ctx context.Context, gameID, house string, plans json.RawMessage) error
	GetPlans(ctx context.Context, gameID, house string) (json.RawMessage, error)
	GetAllPlans(ctx context.Context, gameID string, houses []string) (map[string]json.RawMessage, error)
	MarkReady(ctx context.Context, gameID, house string) error
	UnmarkReady(ctx context.Context, gameID, house string) error
	ReadyCount(ctx context.Context, gameID string) (int64, error)
	ReadyHouses(ctx context.Context, gameID string) ([]string, error)
	SetTimer(ctx context.Context, gameID string, deadline time.Time) error
	ClearTimer(ctx context.Context, gameID string) error
	ClearPlanningData(ctx context.Context, gameID string, houses []string) error
	DeleteGameData(ctx context.Context, gameID string, houses []string) error
}
