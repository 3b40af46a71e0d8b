package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/oldcrow/westeros/internal/model"
	"github.com/oldcrow/westeros/internal/repository"
	"github.com/oldcrow/westeros/pkg/westeros"
)

var (
	ErrNoGameState   = errors.New("no live game state")
	ErrUnknownAction = errors.New("unknown action type")
	ErrNotYourTurn   = errors.New("another house acts here")
)

// RoundService orchestrates the turn cycle: revealing planning orders,
// applying player actions through the rules engine, and managing the
// planning deadline timers.
type RoundService struct {
	gameRepo    repository.GameRepository
	snapRepo    repository.SnapshotRepository
	cache       repository.GameCache
	broadcaster Broadcaster

	// gameLocks prevents concurrent mutation of the same game. The
	// keyspace listener, the deadline poller, and player actions can
	// all fire at once.
	gameLocks sync.Map
}

// NewRoundService creates a RoundService.
func NewRoundService(
	gameRepo repository.GameRepository,
	snapRepo repository.SnapshotRepository,
	cache repository.GameCache,
	broadcaster Broadcaster,
) *RoundService {
	if broadcaster == nil {
		broadcaster = NoopBroadcaster{}
	}
	return &RoundService{
		gameRepo:    gameRepo,
		snapRepo:    snapRepo,
		cache:       cache,
		broadcaster: broadcaster,
	}
}

// gameLock returns the mutex for a given game ID.
func (s *RoundService) gameLock(gameID string) *sync.Mutex {
	v, _ := s.gameLocks.LoadOrStore(gameID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// RecoverActiveGames rehydrates Redis state for all active games from
// Postgres. Called on server startup to restore timers and game state
// lost during a restart.
func (s *RoundService) RecoverActiveGames(ctx context.Context) error {
	games, err := s.gameRepo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list active games: %w", err)
	}
	if len(games) == 0 {
		log.Info().Msg("No active games to recover")
		return nil
	}

	log.Info().Int("count", len(games)).Msg("Recovering active games after restart")

	for _, game := range games {
		snap, err := s.snapRepo.Latest(ctx, game.ID)
		if err != nil {
			log.Error().Err(err).Str("gameId", game.ID).Msg("Failed to load latest snapshot during recovery")
			continue
		}
		if snap == nil {
			log.Warn().Str("gameId", game.ID).Msg("Active game has no snapshot, skipping")
			continue
		}

		if err := s.cache.SetGameState(ctx, game.ID, snap.State); err != nil {
			log.Error().Err(err).Str("gameId", game.ID).Msg("Failed to restore game state")
			continue
		}

		if game.Deadline != nil && time.Now().Before(*game.Deadline) {
			if err := s.cache.SetTimer(ctx, game.ID, *game.Deadline); err != nil {
				log.Error().Err(err).Str("gameId", game.ID).Msg("Failed to restore timer")
			}
		}

		log.Info().Str("gameId", game.ID).Int("round", snap.Round).
			Str("phase", snap.Phase).Int("seq", snap.Seq).
			Msg("Recovered game state")
	}

	return nil
}

// RevealPlans applies every house's hidden placements and advances the
// game into the Action phase. Called when all houses are ready or the
// planning deadline expires.
func (s *RoundService) RevealPlans(ctx context.Context, gameID string) error {
	mu := s.gameLock(gameID)
	mu.Lock()
	defer mu.Unlock()

	game, gs, seq, err := s.loadGame(ctx, gameID)
	if err != nil {
		return err
	}
	if game.Status != "active" {
		log.Info().Str("gameId", gameID).Str("status", game.Status).Msg("Skipping reveal for non-active game")
		return nil
	}
	if gs.Phase != westeros.PhasePlanning {
		log.Debug().Str("gameId", gameID).Str("phase", string(gs.Phase)).Msg("Reveal requested outside planning phase")
		return nil
	}

	houses := seatedHouses(game)
	allPlans, err := s.cache.GetAllPlans(ctx, gameID, houses)
	if err != nil {
		return fmt.Errorf("get plans: %w", err)
	}

	for _, house := range houses {
		raw, ok := allPlans[house]
		if !ok {
			log.Info().Str("gameId", gameID).Str("house", house).Msg("House submitted no orders this round")
			continue
		}
		var plans []PlanInput
		if err := json.Unmarshal(raw, &plans); err != nil {
			log.Warn().Err(err).Str("gameId", gameID).Str("house", house).Msg("Invalid stored plans, skipping house")
			continue
		}
		for _, p := range plans {
			next, err := westeros.PlaceOrder(gs, p.AreaID, westeros.House(house), p.TokenIndex)
			if err != nil {
				// The board can have shifted since submission; drop
				// placements the rules no longer allow.
				log.Warn().Err(err).Str("gameId", gameID).Str("house", house).
					Str("area", p.AreaID).Msg("Dropping illegal placement at reveal")
				continue
			}
			gs = next
		}
	}

	gs, err = westeros.ResolvePhase(gs)
	if err != nil {
		return fmt.Errorf("advance to action phase: %w", err)
	}

	if err := s.cache.ClearPlanningData(ctx, gameID, houses); err != nil {
		return fmt.Errorf("clear planning data: %w", err)
	}
	if err := s.saveState(ctx, game, gs, seq, westeros.PhasePlanning); err != nil {
		return err
	}

	s.broadcaster.BroadcastGameEvent(gameID, "plans_revealed", map[string]any{
		"round": gs.Round,
	})
	return nil
}

// ResolveDeadline handles an expired planning timer.
func (s *RoundService) ResolveDeadline(ctx context.Context, gameID string) error {
	return s.RevealPlans(ctx, gameID)
}

// ApplyAction routes a player request to the rules engine and persists
// the resulting state. Rule violations come back as *westeros.RuleError
// and leave the game untouched.
func (s *RoundService) ApplyAction(ctx context.Context, gameID, userID string, req ActionRequest) (json.RawMessage, error) {
	mu := s.gameLock(gameID)
	mu.Lock()
	defer mu.Unlock()

	game, gs, seq, err := s.loadGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.Status != "active" {
		return nil, ErrGameNotActive
	}
	house := houseOf(game, userID)
	if house == "" {
		return nil, ErrNotInGame
	}
	if err := checkActor(gs, westeros.House(house), req); err != nil {
		return nil, err
	}

	// Reshuffles inside the engine draw from this source; deriving it
	// from the stored seed and the action sequence keeps replays of the
	// snapshot log deterministic.
	gs.SetRand(rand.New(rand.NewSource(game.Seed + int64(seq) + 1)))

	next, err := dispatchAction(gs, westeros.House(house), req)
	if err != nil {
		return nil, err
	}

	if err := s.saveState(ctx, game, next, seq, gs.Phase); err != nil {
		return nil, err
	}

	stateJSON, err := json.Marshal(next)
	if err != nil {
		return nil, fmt.Errorf("marshal state: %w", err)
	}
	return stateJSON, nil
}

// GameState returns the live state for a game.
func (s *RoundService) GameState(ctx context.Context, gameID string) (json.RawMessage, error) {
	stateJSON, err := s.cache.GetGameState(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if stateJSON == nil {
		snap, err := s.snapRepo.Latest(ctx, gameID)
		if err != nil || snap == nil {
			return nil, ErrNoGameState
		}
		stateJSON = snap.State
	}
	return stateJSON, nil
}

// loadGame fetches the game record and the live engine state, falling
// back to the latest snapshot when Redis is cold.
func (s *RoundService) loadGame(ctx context.Context, gameID string) (*model.Game, *westeros.GameState, int, error) {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return nil, nil, 0, err
	}
	if game == nil {
		return nil, nil, 0, ErrGameNotFound
	}

	snap, err := s.snapRepo.Latest(ctx, gameID)
	if err != nil {
		return nil, nil, 0, err
	}
	seq := 0
	var stateJSON json.RawMessage
	if snap != nil {
		seq = snap.Seq
		stateJSON = snap.State
	}

	if cached, err := s.cache.GetGameState(ctx, gameID); err == nil && cached != nil {
		stateJSON = cached
	}
	if stateJSON == nil {
		return nil, nil, 0, ErrNoGameState
	}

	var gs westeros.GameState
	if err := json.Unmarshal(stateJSON, &gs); err != nil {
		return nil, nil, 0, fmt.Errorf("unmarshal state: %w", err)
	}
	return game, &gs, seq, nil
}

// saveState persists the new state, handles game end, and opens the
// next planning window when a new round begins.
func (s *RoundService) saveState(ctx context.Context, game *model.Game, gs *westeros.GameState, prevSeq int, prevPhase westeros.Phase) error {
	stateJSON, err := json.Marshal(gs)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	if _, err := s.snapRepo.Create(ctx, game.ID, prevSeq+1, gs.Round, string(gs.Phase), stateJSON); err != nil {
		return err
	}
	if err := s.cache.SetGameState(ctx, game.ID, stateJSON); err != nil {
		return fmt.Errorf("cache state: %w", err)
	}

	if gs.Winner != westeros.NoHouse {
		log.Info().Str("gameId", game.ID).Str("winner", string(gs.Winner)).Msg("Game won")
		if err := s.gameRepo.SetFinished(ctx, game.ID, string(gs.Winner)); err != nil {
			return fmt.Errorf("set finished: %w", err)
		}
		s.broadcaster.BroadcastGameEvent(game.ID, "game_ended", map[string]any{
			"winner": string(gs.Winner),
		})
		return s.cache.DeleteGameData(ctx, game.ID, seatedHouses(game))
	}

	// A fresh planning phase opens a new submission window.
	if gs.Phase == westeros.PhasePlanning && prevPhase != westeros.PhasePlanning {
		deadline := time.Now().Add(parseDuration(game.TurnDuration, 24*time.Hour))
		if err := s.gameRepo.SetDeadline(ctx, game.ID, deadline); err != nil {
			return err
		}
		if err := s.cache.SetTimer(ctx, game.ID, deadline); err != nil {
			return fmt.Errorf("set timer: %w", err)
		}
		s.broadcaster.BroadcastGameEvent(game.ID, "phase_changed", map[string]any{
			"round":    gs.Round,
			"phase":    string(gs.Phase),
			"deadline": deadline.Format(time.RFC3339),
		})
	}

	s.broadcaster.BroadcastGameEvent(game.ID, "state_changed", map[string]any{
		"round":     gs.Round,
		"phase":     string(gs.Phase),
		"sub_phase": string(gs.ActionSubPhase),
		"seq":       prevSeq + 1,
	})
	return nil
}
