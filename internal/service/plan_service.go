package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/oldcrow/westeros/internal/repository"
	"github.com/oldcrow/westeros/pkg/westeros"
)

var (
	ErrNotPlanning = errors.New("game is not in the planning phase")
	ErrInvalidPlan = errors.New("invalid order placement")
)

// PlanInput is a single hidden order placement for the Planning phase.
type PlanInput struct {
	AreaID     string `json:"area_id"`
	TokenIndex int    `json:"token_index"`
}

// PlanSubmission is the request body for submitting placements.
type PlanSubmission struct {
	Plans []PlanInput `json:"plans"`
}

// PlanService handles hidden order placement during the Planning phase.
// Placements stay in Redis, invisible to other players, until every
// house is ready and the round reveals.
type PlanService struct {
	gameRepo repository.GameRepository
	cache    repository.GameCache
}

// NewPlanService creates a PlanService.
func NewPlanService(gameRepo repository.GameRepository, cache repository.GameCache) *PlanService {
	return &PlanService{gameRepo: gameRepo, cache: cache}
}

// SubmitPlans validates and stores a house's order placements for the
// current Planning phase, replacing any earlier submission.
func (s *PlanService) SubmitPlans(ctx context.Context, gameID, userID string, plans []PlanInput) error {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return err
	}
	if game == nil {
		return ErrGameNotFound
	}
	if game.Status != "active" {
		return ErrGameNotActive
	}
	house := houseOf(game, userID)
	if house == "" {
		return ErrNotInGame
	}

	stateJSON, err := s.cache.GetGameState(ctx, gameID)
	if err != nil || stateJSON == nil {
		return fmt.Errorf("get game state: %w", err)
	}
	var gs westeros.GameState
	if err := json.Unmarshal(stateJSON, &gs); err != nil {
		return fmt.Errorf("unmarshal state: %w", err)
	}
	if gs.Phase != westeros.PhasePlanning {
		return ErrNotPlanning
	}

	// Dry-run the placements against the live state so an illegal set
	// is rejected up front instead of silently dropped at reveal.
	trial := &gs
	for _, p := range plans {
		trial, err = westeros.PlaceOrder(trial, p.AreaID, westeros.House(house), p.TokenIndex)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPlan, err)
		}
	}

	plansJSON, err := json.Marshal(plans)
	if err != nil {
		return fmt.Errorf("marshal plans: %w", err)
	}
	return s.cache.SetPlans(ctx, gameID, house, plansJSON)
}

// MarkReady records that a house has locked in its placements. Returns
// the ready count and the number of seated houses.
func (s *PlanService) MarkReady(ctx context.Context, gameID, userID string) (int, int, error) {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return 0, 0, err
	}
	if game == nil {
		return 0, 0, ErrGameNotFound
	}
	house := houseOf(game, userID)
	if house == "" {
		return 0, 0, ErrNotInGame
	}

	if err := s.cache.MarkReady(ctx, gameID, house); err != nil {
		return 0, 0, err
	}
	count, err := s.cache.ReadyCount(ctx, gameID)
	if err != nil {
		return 0, 0, err
	}
	return int(count), len(seatedHouses(game)), nil
}

// UnmarkReady withdraws a house's ready status.
func (s *PlanService) UnmarkReady(ctx context.Context, gameID, userID string) (int, int, error) {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return 0, 0, err
	}
	if game == nil {
		return 0, 0, ErrGameNotFound
	}
	house := houseOf(game, userID)
	if house == "" {
		return 0, 0, ErrNotInGame
	}

	if err := s.cache.UnmarkReady(ctx, gameID, house); err != nil {
		return 0, 0, err
	}
	count, err := s.cache.ReadyCount(ctx, gameID)
	if err != nil {
		return 0, 0, err
	}
	return int(count), len(seatedHouses(game)), nil
}

// ReadyCount returns how many houses have marked ready.
func (s *PlanService) ReadyCount(ctx context.Context, gameID string) (int, error) {
	count, err := s.cache.ReadyCount(ctx, gameID)
	return int(count), err
}
