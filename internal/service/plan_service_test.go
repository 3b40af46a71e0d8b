package service

import (
	"context"
	"encoding/json"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oldcrow/westeros/internal/model"
	"github.com/oldcrow/westeros/pkg/westeros"
)

// newActiveGame seeds the mocks with a running three-player game: u1 is
// Stark, u2 Lannister, u3 Baratheon, with the initial board snapshotted
// and cached.
func newActiveGame(t *testing.T, repo *mockGameRepo, snaps *mockSnapRepo, cache *mockCache) (*model.Game, *westeros.GameState) {
	t.Helper()
	ctx := context.Background()

	game := &model.Game{
		ID:           "game-1",
		Name:         "g",
		CreatorID:    "u1",
		Status:       "active",
		PlayerCount:  3,
		TurnDuration: "1h",
		Seed:         42,
		CreatedAt:    time.Now(),
		Players: []model.GamePlayer{
			{GameID: "game-1", UserID: "u1", House: "stark"},
			{GameID: "game-1", UserID: "u2", House: "lannister"},
			{GameID: "game-1", UserID: "u3", House: "baratheon"},
		},
	}
	repo.add(game)

	state, err := westeros.NewGame(3, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	stateJSON, err := json.Marshal(state)
	require.NoError(t, err)
	_, err = snaps.Create(ctx, game.ID, 0, state.Round, string(state.Phase), stateJSON)
	require.NoError(t, err)
	require.NoError(t, cache.SetGameState(ctx, game.ID, stateJSON))

	return game, state
}

func cacheState(t *testing.T, cache *mockCache, gameID string, gs *westeros.GameState) {
	t.Helper()
	stateJSON, err := json.Marshal(gs)
	require.NoError(t, err)
	require.NoError(t, cache.SetGameState(context.Background(), gameID, stateJSON))
}

func TestSubmitPlans(t *testing.T) {
	repo := newMockGameRepo()
	cache := newMockCache()
	snaps := newMockSnapRepo()
	game, _ := newActiveGame(t, repo, snaps, cache)
	svc := NewPlanService(repo, cache)
	ctx := context.Background()

	plans := []PlanInput{
		{AreaID: "winterfell", TokenIndex: 0},
		{AreaID: "white-harbor", TokenIndex: 3},
	}
	require.NoError(t, svc.SubmitPlans(ctx, game.ID, "u1", plans))

	stored, err := cache.GetPlans(ctx, game.ID, "stark")
	require.NoError(t, err)
	var got []PlanInput
	require.NoError(t, json.Unmarshal(stored, &got))
	require.Equal(t, plans, got)

	// A resubmission replaces the earlier set.
	require.NoError(t, svc.SubmitPlans(ctx, game.ID, "u1", plans[:1]))
	stored, err = cache.GetPlans(ctx, game.ID, "stark")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(stored, &got))
	require.Len(t, got, 1)
}

func TestSubmitPlansRejections(t *testing.T) {
	repo := newMockGameRepo()
	cache := newMockCache()
	snaps := newMockSnapRepo()
	game, state := newActiveGame(t, repo, snaps, cache)
	svc := NewPlanService(repo, cache)
	ctx := context.Background()

	err := svc.SubmitPlans(ctx, "no-such-game", "u1", nil)
	require.ErrorIs(t, err, ErrGameNotFound)

	err = svc.SubmitPlans(ctx, game.ID, "stranger", nil)
	require.ErrorIs(t, err, ErrNotInGame)

	// Placing in an area the house does not control fails the dry run.
	err = svc.SubmitPlans(ctx, game.ID, "u1", []PlanInput{{AreaID: "lannisport", TokenIndex: 0}})
	require.ErrorIs(t, err, ErrInvalidPlan)

	// Outside the planning phase nothing may be submitted.
	next := state.Clone()
	next.Phase = westeros.PhaseAction
	cacheState(t, cache, game.ID, next)
	err = svc.SubmitPlans(ctx, game.ID, "u1", []PlanInput{{AreaID: "winterfell", TokenIndex: 0}})
	require.ErrorIs(t, err, ErrNotPlanning)

	// A finished game rejects submissions before touching state.
	require.NoError(t, repo.SetFinished(ctx, game.ID, ""))
	err = svc.SubmitPlans(ctx, game.ID, "u1", nil)
	require.ErrorIs(t, err, ErrGameNotActive)
}

func TestMarkAndUnmarkReady(t *testing.T) {
	repo := newMockGameRepo()
	cache := newMockCache()
	snaps := newMockSnapRepo()
	game, _ := newActiveGame(t, repo, snaps, cache)
	svc := NewPlanService(repo, cache)
	ctx := context.Background()

	ready, seats, err := svc.MarkReady(ctx, game.ID, "u1")
	require.NoError(t, err)
	require.Equal(t, 1, ready)
	require.Equal(t, 3, seats)

	// Marking twice keeps the count at one.
	ready, _, err = svc.MarkReady(ctx, game.ID, "u1")
	require.NoError(t, err)
	require.Equal(t, 1, ready)

	ready, _, err = svc.MarkReady(ctx, game.ID, "u2")
	require.NoError(t, err)
	require.Equal(t, 2, ready)

	ready, _, err = svc.UnmarkReady(ctx, game.ID, "u1")
	require.NoError(t, err)
	require.Equal(t, 1, ready)

	count, err := svc.ReadyCount(ctx, game.ID)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	_, _, err = svc.MarkReady(ctx, game.ID, "stranger")
	require.ErrorIs(t, err, ErrNotInGame)
	_, _, err = svc.UnmarkReady(ctx, game.ID, "stranger")
	require.ErrorIs(t, err, ErrNotInGame)
}
