package model

import (
	"encoding/json"
	"time"
)

// User represents a registered user.
type User struct {
	ID          string    `json:"id"`
	Provider    string    `json:"provider"`
	ProviderID  string    `json:"provider_id"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Game represents a game of thrones across Westeros.
type Game struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	CreatorID    string       `json:"creator_id"`
	Status       string       `json:"status"` // waiting, active, finished
	Winner       string       `json:"winner,omitempty"`
	PlayerCount  int          `json:"player_count"` // seats, 3-6
	TurnDuration string       `json:"turn_duration"`
	Seed         int64        `json:"seed,omitempty"`
	Deadline     *time.Time   `json:"deadline,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	StartedAt    *time.Time   `json:"started_at,omitempty"`
	FinishedAt   *time.Time   `json:"finished_at,omitempty"`
	Players      []GamePlayer `json:"players,omitempty"`
	ReadyCount   int          `json:"ready_count,omitempty"`
}

// GamePlayer represents a player's seat in a game.
type GamePlayer struct {
	GameID   string    `json:"game_id"`
	UserID   string    `json:"user_id"`
	House    string    `json:"house,omitempty"`
	JoinedAt time.Time `json:"joined_at"`
}

// Snapshot is a persisted game state, written after every applied
// action. The latest snapshot rehydrates Redis after a restart.
type Snapshot struct {
	ID        string          `json:"id"`
	GameID    string          `json:"game_id"`
	Seq       int             `json:"seq"`
	Round     int             `json:"round"`
	Phase     string          `json:"phase"`
	State     json.RawMessage `json:"state"`
	CreatedAt time.Time       `json:"created_at"`
}

// Message represents an in-game message between players.
type Message struct {
	ID          string    `json:"id"`
	GameID      string    `json:"game_id"`
	SenderID    string    `json:"sender_id"`
	RecipientID string    `json:"recipient_id,omitempty"` // empty = public broadcast
	Content     string    `json:"content"`
	Round       int       `json:"round,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
