package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/oldcrow/westeros/internal/model"
	"github.com/oldcrow/westeros/internal/repository"
	"github.com/oldcrow/westeros/pkg/westeros"
)

var (
	ErrGameNotFound   = errors.New("game not found")
	ErrGameNotWaiting = errors.New("game is not in waiting status")
	ErrGameNotActive  = errors.New("game is not active")
	ErrGameFull       = errors.New("game is full")
	ErrNotEnough      = errors.New("all seats must be filled to start")
	ErrNotCreator     = errors.New("only the creator can do this")
	ErrAlreadyJoined  = errors.New("already joined this game")
	ErrNotInGame      = errors.New("you are not in this game")
	ErrInvalidSeats   = errors.New("player count must be between 3 and 6")
)

// GameService handles game lifecycle operations.
type GameService struct {
	gameRepo repository.GameRepository
	snapRepo repository.SnapshotRepository
	cache    repository.GameCache

	planningTimeout time.Duration
	broadcaster     Broadcaster
}

// NewGameService creates a GameService.
func NewGameService(
	gameRepo repository.GameRepository,
	snapRepo repository.SnapshotRepository,
	cache repository.GameCache,
	planningTimeout time.Duration,
	broadcaster Broadcaster,
) *GameService {
	if broadcaster == nil {
		broadcaster = NoopBroadcaster{}
	}
	return &GameService{
		gameRepo:        gameRepo,
		snapRepo:        snapRepo,
		cache:           cache,
		planningTimeout: planningTimeout,
		broadcaster:     broadcaster,
	}
}

// CreateGame creates a new game in "waiting" status. The creator joins
// automatically.
func (s *GameService) CreateGame(ctx context.Context, name, creatorID string, playerCount int, turnDur string) (*model.Game, error) {
	if playerCount < 3 || playerCount > 6 {
		return nil, ErrInvalidSeats
	}
	if turnDur == "" {
		turnDur = s.planningTimeout.String()
	} else if _, err := time.ParseDuration(turnDur); err != nil {
		return nil, fmt.Errorf("invalid turn duration %q: %w", turnDur, err)
	}

	game, err := s.gameRepo.Create(ctx, name, creatorID, playerCount, turnDur)
	if err != nil {
		return nil, err
	}
	if err := s.gameRepo.JoinGame(ctx, game.ID, creatorID); err != nil {
		return nil, err
	}
	return s.gameRepo.FindByID(ctx, game.ID)
}

// JoinGame adds a player to a waiting game.
func (s *GameService) JoinGame(ctx context.Context, gameID, userID string) error {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return err
	}
	if game == nil {
		return ErrGameNotFound
	}
	if game.Status != "waiting" {
		return ErrGameNotWaiting
	}

	for _, p := range game.Players {
		if p.UserID == userID {
			return ErrAlreadyJoined
		}
	}

	count, err := s.gameRepo.PlayerCount(ctx, gameID)
	if err != nil {
		return err
	}
	if count >= game.PlayerCount {
		return ErrGameFull
	}

	return s.gameRepo.JoinGame(ctx, gameID, userID)
}

// StartGame deals houses, builds the initial board state, and opens the
// first Planning phase.
func (s *GameService) StartGame(ctx context.Context, gameID, userID string) (*model.Game, error) {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, ErrGameNotFound
	}
	if game.Status != "waiting" {
		return nil, ErrGameNotWaiting
	}
	if game.CreatorID != userID {
		return nil, ErrNotCreator
	}
	if len(game.Players) != game.PlayerCount {
		return nil, ErrNotEnough
	}

	seed := time.Now().UnixNano()
	rng := rand.New(rand.NewSource(seed))

	state, err := westeros.NewGame(len(game.Players), rng)
	if err != nil {
		return nil, fmt.Errorf("new game state: %w", err)
	}

	// Houses in play come from the engine's turn order; shuffle and
	// deal one to each seat.
	houses := append([]westeros.House(nil), state.TurnOrder...)
	rng.Shuffle(len(houses), func(i, j int) { houses[i], houses[j] = houses[j], houses[i] })
	assignments := make(map[string]string, len(game.Players))
	for i, p := range game.Players {
		assignments[p.UserID] = string(houses[i])
	}

	if err := s.gameRepo.AssignHouses(ctx, gameID, seed, assignments); err != nil {
		return nil, err
	}

	stateJSON, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("marshal initial state: %w", err)
	}
	if _, err := s.snapRepo.Create(ctx, gameID, 0, state.Round, string(state.Phase), stateJSON); err != nil {
		return nil, err
	}
	if err := s.cache.SetGameState(ctx, gameID, stateJSON); err != nil {
		return nil, fmt.Errorf("cache initial state: %w", err)
	}

	deadline := time.Now().Add(parseDuration(game.TurnDuration, s.planningTimeout))
	if err := s.gameRepo.SetDeadline(ctx, gameID, deadline); err != nil {
		return nil, err
	}
	if err := s.cache.SetTimer(ctx, gameID, deadline); err != nil {
		return nil, fmt.Errorf("set timer: %w", err)
	}

	s.broadcaster.BroadcastGameEvent(gameID, "game_started", map[string]any{
		"houses":   assignments,
		"deadline": deadline.Format(time.RFC3339),
	})

	return s.gameRepo.FindByID(ctx, gameID)
}

// GetGame returns a game by ID.
func (s *GameService) GetGame(ctx context.Context, gameID string) (*model.Game, error) {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, ErrGameNotFound
	}
	return game, nil
}

// ListGames returns open games, the user's games, or finished games.
func (s *GameService) ListGames(ctx context.Context, userID, filter string) ([]model.Game, error) {
	switch filter {
	case "my":
		return s.gameRepo.ListByUser(ctx, userID)
	case "finished":
		return s.gameRepo.ListFinished(ctx)
	default:
		return s.gameRepo.ListOpen(ctx)
	}
}

// DeleteGame removes a waiting game. Only the creator can delete.
func (s *GameService) DeleteGame(ctx context.Context, gameID, userID string) error {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return err
	}
	if game == nil {
		return ErrGameNotFound
	}
	if game.Status != "waiting" {
		return ErrGameNotWaiting
	}
	if game.CreatorID != userID {
		return ErrNotCreator
	}
	return s.gameRepo.Delete(ctx, gameID)
}

// StopGame ends an active game with no winner. Only the creator can
// stop a game.
func (s *GameService) StopGame(ctx context.Context, gameID, userID string) (*model.Game, error) {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, ErrGameNotFound
	}
	if game.Status != "active" {
		return nil, ErrGameNotActive
	}
	if game.CreatorID != userID {
		return nil, ErrNotCreator
	}
	if err := s.gameRepo.SetFinished(ctx, gameID, ""); err != nil {
		return nil, err
	}

	s.broadcaster.BroadcastGameEvent(gameID, "game_ended", map[string]any{
		"winner": "",
		"reason": "stopped",
	})
	if err := s.cache.DeleteGameData(ctx, gameID, seatedHouses(game)); err != nil {
		return nil, err
	}
	return s.gameRepo.FindByID(ctx, gameID)
}

// seatedHouses returns the houses assigned to players in this game.
func seatedHouses(game *model.Game) []string {
	var houses []string
	for _, p := range game.Players {
		if p.House != "" {
			houses = append(houses, p.House)
		}
	}
	return houses
}

// houseOf returns the house a user holds in the game, or "".
func houseOf(game *model.Game, userID string) string {
	for _, p := range game.Players {
		if p.UserID == userID {
			return p.House
		}
	}
	return ""
}

// parseDuration parses a Go duration string, falling back to def.
func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
