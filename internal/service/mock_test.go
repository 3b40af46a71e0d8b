package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oldcrow/westeros/internal/model"
)

// mockGameRepo is an in-memory GameRepository.
type mockGameRepo struct {
	mu    sync.Mutex
	games map[string]*model.Game
}

func newMockGameRepo() *mockGameRepo {
	return &mockGameRepo{games: make(map[string]*model.Game)}
}

func (r *mockGameRepo) add(g *model.Game) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.games[g.ID] = g
}

func (r *mockGameRepo) Create(_ context.Context, name, creatorID string, playerCount int, turnDur string) (*model.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g := &model.Game{
		ID:           uuid.NewString(),
		Name:         name,
		CreatorID:    creatorID,
		Status:       "waiting",
		PlayerCount:  playerCount,
		TurnDuration: turnDur,
		CreatedAt:    time.Now(),
	}
	r.games[g.ID] = g
	return copyGame(g), nil
}

func (r *mockGameRepo) FindByID(_ context.Context, id string) (*model.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.games[id]
	if !ok {
		return nil, nil
	}
	return copyGame(g), nil
}

func (r *mockGameRepo) ListOpen(_ context.Context) ([]model.Game, error) {
	return r.listByStatus("waiting"), nil
}

func (r *mockGameRepo) ListFinished(_ context.Context) ([]model.Game, error) {
	return r.listByStatus("finished"), nil
}

func (r *mockGameRepo) ListActive(_ context.Context) ([]model.Game, error) {
	return r.listByStatus("active"), nil
}

func (r *mockGameRepo) listByStatus(status string) []model.Game {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Game
	for _, g := range r.games {
		if g.Status == status {
			out = append(out, *copyGame(g))
		}
	}
	return out
}

func (r *mockGameRepo) ListByUser(_ context.Context, userID string) ([]model.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Game
	for _, g := range r.games {
		for _, p := range g.Players {
			if p.UserID == userID {
				out = append(out, *copyGame(g))
				break
			}
		}
	}
	return out, nil
}

func (r *mockGameRepo) ListExpired(_ context.Context) ([]model.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Game
	now := time.Now()
	for _, g := range r.games {
		if g.Status == "active" && g.Deadline != nil && g.Deadline.Before(now) {
			out = append(out, *copyGame(g))
		}
	}
	return out, nil
}

func (r *mockGameRepo) JoinGame(_ context.Context, gameID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g := r.games[gameID]
	g.Players = append(g.Players, model.GamePlayer{
		GameID: gameID, UserID: userID, JoinedAt: time.Now(),
	})
	return nil
}

func (r *mockGameRepo) PlayerCount(_ context.Context, gameID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.games[gameID].Players), nil
}

func (r *mockGameRepo) AssignHouses(_ context.Context, gameID string, seed int64, assignments map[string]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g := r.games[gameID]
	g.Seed = seed
	g.Status = "active"
	now := time.Now()
	g.StartedAt = &now
	for i := range g.Players {
		g.Players[i].House = assignments[g.Players[i].UserID]
	}
	return nil
}

func (r *mockGameRepo) SetDeadline(_ context.Context, gameID string, deadline time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.games[gameID].Deadline = &deadline
	return nil
}

func (r *mockGameRepo) SetFinished(_ context.Context, gameID, winner string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g := r.games[gameID]
	g.Status = "finished"
	g.Winner = winner
	now := time.Now()
	g.FinishedAt = &now
	return nil
}

func (r *mockGameRepo) Delete(_ context.Context, gameID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.games, gameID)
	return nil
}

func copyGame(g *model.Game) *model.Game {
	out := *g
	out.Players = append([]model.GamePlayer(nil), g.Players...)
	return &out
}

// mockSnapRepo is an in-memory SnapshotRepository.
type mockSnapRepo struct {
	mu    sync.Mutex
	snaps map[string][]model.Snapshot
}

func newMockSnapRepo() *mockSnapRepo {
	return &mockSnapRepo{snaps: make(map[string][]model.Snapshot)}
}

func (r *mockSnapRepo) Create(_ context.Context, gameID string, seq, round int, phase string, state json.RawMessage) (*model.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := model.Snapshot{
		ID:     uuid.NewString(),
		GameID: gameID, Seq: seq, Round: round, Phase: phase,
		State:     append(json.RawMessage(nil), state...),
		CreatedAt: time.Now(),
	}
	r.snaps[gameID] = append(r.snaps[gameID], snap)
	return &snap, nil
}

func (r *mockSnapRepo) Latest(_ context.Context, gameID string) (*model.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *model.Snapshot
	for i := range r.snaps[gameID] {
		s := &r.snaps[gameID][i]
		if latest == nil || s.Seq > latest.Seq {
			latest = s
		}
	}
	if latest == nil {
		return nil, nil
	}
	out := *latest
	return &out, nil
}

func (r *mockSnapRepo) ListByGame(_ context.Context, gameID string) ([]model.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Snapshot(nil), r.snaps[gameID]...), nil
}

// mockCache is an in-memory GameCache.
type mockCache struct {
	mu     sync.Mutex
	states map[string]json.RawMessage
	plans  map[string]map[string]json.RawMessage
	ready  map[string]map[string]bool
	timers map[string]time.Time
}

func newMockCache() *mockCache {
	return &mockCache{
		states: make(map[string]json.RawMessage),
		plans:  make(map[string]map[string]json.RawMessage),
		ready:  make(map[string]map[string]bool),
		timers: make(map[string]time.Time),
	}
}

func (c *mockCache) SetGameState(_ context.Context, gameID string, state json.RawMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.states[gameID] = append(json.RawMessage(nil), state...)
	return nil
}

func (c *mockCache) GetGameState(_ context.Context, gameID string) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.states[gameID], nil
}

func (c *mockCache) SetPlans(_ context.Context, gameID, house string, plans json.RawMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.plans[gameID] == nil {
		c.plans[gameID] = make(map[string]json.RawMessage)
	}
	c.plans[gameID][house] = append(json.RawMessage(nil), plans...)
	return nil
}

func (c *mockCache) GetPlans(_ context.Context, gameID, house string) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.plans[gameID][house], nil
}

func (c *mockCache) GetAllPlans(_ context.Context, gameID string, houses []string) (map[string]json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]json.RawMessage)
	for _, h := range houses {
		if p, ok := c.plans[gameID][h]; ok {
			out[h] = p
		}
	}
	return out, nil
}

func (c *mockCache) MarkReady(_ context.Context, gameID, house string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ready[gameID] == nil {
		c.ready[gameID] = make(map[string]bool)
	}
	c.ready[gameID][house] = true
	return nil
}

func (c *mockCache) UnmarkReady(_ context.Context, gameID, house string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.ready[gameID], house)
	return nil
}

func (c *mockCache) ReadyCount(_ context.Context, gameID string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return int64(len(c.ready[gameID])), nil
}

func (c *mockCache) ReadyHouses(_ context.Context, gameID string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []string
	for h := range c.ready[gameID] {
		out = append(out, h)
	}
	return out, nil
}

func (c *mockCache) SetTimer(_ context.Context, gameID string, deadline time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timers[gameID] = deadline
	return nil
}

func (c *mockCache) ClearTimer(_ context.Context, gameID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.timers, gameID)
	return nil
}

func (c *mockCache) ClearPlanningData(_ context.Context, gameID string, _ []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.plans, gameID)
	delete(c.ready, gameID)
	return nil
}

func (c *mockCache) DeleteGameData(_ context.Context, gameID string, _ []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.states, gameID)
	delete(c.plans, gameID)
	delete(c.ready, gameID)
	delete(c.timers, gameID)
	return nil
}

func (c *mockCache) hasState(gameID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.states[gameID] != nil
}

func (c *mockCache) hasTimer(gameID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.timers[gameID]
	return ok
}

// recordBroadcaster captures broadcast events for assertions. RevealPlans
// may fire from the timer goroutine, so access is locked.
type recordBroadcaster struct {
	mu     sync.Mutex
	events []broadcastEvent
}

type broadcastEvent struct {
	GameID string
	Type   string
	Data   any
}

func (b *recordBroadcaster) BroadcastGameEvent(gameID string, eventType string, data any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, broadcastEvent{GameID: gameID, Type: eventType, Data: data})
}

func (b *recordBroadcaster) byType(eventType string) []broadcastEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []broadcastEvent
	for _, e := range b.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}
