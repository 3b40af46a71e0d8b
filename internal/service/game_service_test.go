package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newGameServiceFixture() (*GameService, *mockGameRepo, *mockSnapRepo, *mockCache, *recordBroadcaster) {
	repo := newMockGameRepo()
	snaps := newMockSnapRepo()
	cache := newMockCache()
	bc := &recordBroadcaster{}
	svc := NewGameService(repo, snaps, cache, 30*time.Minute, bc)
	return svc, repo, snaps, cache, bc
}

func TestCreateGame(t *testing.T) {
	svc, _, _, _, _ := newGameServiceFixture()
	ctx := context.Background()

	game, err := svc.CreateGame(ctx, "the long night", "u1", 3, "")
	require.NoError(t, err)
	require.Equal(t, "waiting", game.Status)
	require.Equal(t, "u1", game.CreatorID)
	require.Len(t, game.Players, 1, "the creator takes the first seat")
	require.Equal(t, "30m0s", game.TurnDuration, "empty duration falls back to the configured timeout")

	game, err = svc.CreateGame(ctx, "quick", "u1", 4, "2h")
	require.NoError(t, err)
	require.Equal(t, "2h", game.TurnDuration)

	_, err = svc.CreateGame(ctx, "too small", "u1", 2, "")
	require.ErrorIs(t, err, ErrInvalidSeats)
	_, err = svc.CreateGame(ctx, "too big", "u1", 7, "")
	require.ErrorIs(t, err, ErrInvalidSeats)
	_, err = svc.CreateGame(ctx, "bad duration", "u1", 3, "fortnight")
	require.Error(t, err)
}

func TestJoinGame(t *testing.T) {
	svc, repo, _, _, _ := newGameServiceFixture()
	ctx := context.Background()

	game, err := svc.CreateGame(ctx, "g", "u1", 3, "")
	require.NoError(t, err)

	require.NoError(t, svc.JoinGame(ctx, game.ID, "u2"))
	require.ErrorIs(t, svc.JoinGame(ctx, game.ID, "u2"), ErrAlreadyJoined)
	require.NoError(t, svc.JoinGame(ctx, game.ID, "u3"))
	require.ErrorIs(t, svc.JoinGame(ctx, game.ID, "u4"), ErrGameFull)

	require.ErrorIs(t, svc.JoinGame(ctx, "no-such-game", "u2"), ErrGameNotFound)

	require.NoError(t, repo.SetFinished(ctx, game.ID, ""))
	require.ErrorIs(t, svc.JoinGame(ctx, game.ID, "u5"), ErrGameNotWaiting)
}

func TestStartGame(t *testing.T) {
	svc, _, snaps, cache, bc := newGameServiceFixture()
	ctx := context.Background()

	game, err := svc.CreateGame(ctx, "g", "u1", 3, "1h")
	require.NoError(t, err)

	_, err = svc.StartGame(ctx, game.ID, "u1")
	require.ErrorIs(t, err, ErrNotEnough)

	require.NoError(t, svc.JoinGame(ctx, game.ID, "u2"))
	require.NoError(t, svc.JoinGame(ctx, game.ID, "u3"))

	_, err = svc.StartGame(ctx, game.ID, "u2")
	require.ErrorIs(t, err, ErrNotCreator)

	started, err := svc.StartGame(ctx, game.ID, "u1")
	require.NoError(t, err)
	require.Equal(t, "active", started.Status)
	require.NotZero(t, started.Seed)
	require.NotNil(t, started.Deadline)

	// Each seat holds a distinct three-player house.
	valid := map[string]bool{"stark": true, "lannister": true, "baratheon": true}
	seen := map[string]bool{}
	for _, p := range started.Players {
		require.True(t, valid[p.House], "unexpected house %q", p.House)
		require.False(t, seen[p.House], "house %q dealt twice", p.House)
		seen[p.House] = true
	}

	snap, err := snaps.Latest(ctx, game.ID)
	require.NoError(t, err)
	require.NotNil(t, snap)
	require.Equal(t, 0, snap.Seq)
	require.Equal(t, 1, snap.Round)
	require.Equal(t, "planning", snap.Phase)

	require.True(t, cache.hasState(game.ID), "live state should be cached")
	require.True(t, cache.hasTimer(game.ID), "planning timer should be set")
	require.Len(t, bc.byType("game_started"), 1)

	// A started game cannot start again.
	_, err = svc.StartGame(ctx, game.ID, "u1")
	require.ErrorIs(t, err, ErrGameNotWaiting)
}

func TestDeleteGame(t *testing.T) {
	svc, _, _, _, _ := newGameServiceFixture()
	ctx := context.Background()

	game, err := svc.CreateGame(ctx, "g", "u1", 3, "")
	require.NoError(t, err)

	require.ErrorIs(t, svc.DeleteGame(ctx, game.ID, "u2"), ErrNotCreator)
	require.NoError(t, svc.DeleteGame(ctx, game.ID, "u1"))
	require.ErrorIs(t, svc.DeleteGame(ctx, game.ID, "u1"), ErrGameNotFound)
}

func TestStopGame(t *testing.T) {
	svc, _, _, cache, bc := newGameServiceFixture()
	ctx := context.Background()

	game, err := svc.CreateGame(ctx, "g", "u1", 3, "")
	require.NoError(t, err)

	_, err = svc.StopGame(ctx, game.ID, "u1")
	require.ErrorIs(t, err, ErrGameNotActive)

	require.NoError(t, svc.JoinGame(ctx, game.ID, "u2"))
	require.NoError(t, svc.JoinGame(ctx, game.ID, "u3"))
	_, err = svc.StartGame(ctx, game.ID, "u1")
	require.NoError(t, err)

	_, err = svc.StopGame(ctx, game.ID, "u2")
	require.ErrorIs(t, err, ErrNotCreator)

	stopped, err := svc.StopGame(ctx, game.ID, "u1")
	require.NoError(t, err)
	require.Equal(t, "finished", stopped.Status)
	require.Empty(t, stopped.Winner)
	require.False(t, cache.hasState(game.ID), "live state should be purged")
	require.Len(t, bc.byType("game_ended"), 1)
}

func TestListGames(t *testing.T) {
	svc, repo, _, _, _ := newGameServiceFixture()
	ctx := context.Background()

	_, err := svc.CreateGame(ctx, "open", "u1", 3, "")
	require.NoError(t, err)
	mine, err := svc.CreateGame(ctx, "mine", "u2", 3, "")
	require.NoError(t, err)
	done, err := svc.CreateGame(ctx, "done", "u3", 3, "")
	require.NoError(t, err)
	require.NoError(t, repo.SetFinished(ctx, done.ID, "stark"))

	games, err := svc.ListGames(ctx, "u1", "")
	require.NoError(t, err)
	require.Len(t, games, 2)

	games, err = svc.ListGames(ctx, "u2", "my")
	require.NoError(t, err)
	require.Len(t, games, 1)
	require.Equal(t, mine.ID, games[0].ID)

	games, err = svc.ListGames(ctx, "u1", "finished")
	require.NoError(t, err)
	require.Len(t, games, 1)
	require.Equal(t, done.ID, games[0].ID)
}
