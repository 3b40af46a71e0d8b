package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key patterns for Redis game state.
func stateKey(gameID string) string        { return "game:" + gameID + ":state" }
func plansKey(gameID, house string) string { return "game:" + gameID + ":plans:" + house }
func readyKey(gameID string) string        { return "game:" + gameID + ":ready" }
func timerKey(gameID string) string        { return "game:" + gameID + ":timer" }

// SetGameState stores the live game state JSON.
func (c *Client) SetGameState(ctx context.Context, gameID string, state json.RawMessage) error {
	return c.rdb.Set(ctx, stateKey(gameID), []byte(state), 0).Err()
}

// GetGameState retrieves the live game state JSON.
func (c *Client) GetGameState(ctx context.Context, gameID string) (json.RawMessage, error) {
	data, err := c.rdb.Get(ctx, stateKey(gameID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get game state: %w", err)
	}
	return json.RawMessage(data), nil
}

// SetPlans stores a house's hidden order placements for the current
// Planning phase.
func (c *Client) SetPlans(ctx context.Context, gameID, house string, plans json.RawMessage) error {
	return c.rdb.Set(ctx, plansKey(gameID, house), []byte(plans), 0).Err()
}

// GetPlans retrieves a house's submitted placements.
func (c *Client) GetPlans(ctx context.Context, gameID, house string) (json.RawMessage, error) {
	data, err := c.rdb.Get(ctx, plansKey(gameID, house)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get plans: %w", err)
	}
	return json.RawMessage(data), nil
}

// GetAllPlans retrieves placements from every house that has submitted.
func (c *Client) GetAllPlans(ctx context.Context, gameID string, houses []string) (map[string]json.RawMessage, error) {
	result := make(map[string]json.RawMessage)
	for _, house := range houses {
		data, err := c.GetPlans(ctx, gameID, house)
		if err != nil {
			return nil, err
		}
		if data != nil {
			result[house] = data
		}
	}
	return result, nil
}

// MarkReady adds a house to the ready set for the game.
func (c *Client) MarkReady(ctx context.Context, gameID, house string) error {
	return c.rdb.SAdd(ctx, readyKey(gameID), house).Err()
}

// UnmarkReady removes a house from the ready set.
func (c *Client) UnmarkReady(ctx context.Context, gameID, house string) error {
	return c.rdb.SRem(ctx, readyKey(gameID), house).Err()
}

// ReadyCount returns how many houses have marked ready.
func (c *Client) ReadyCount(ctx context.Context, gameID string) (int64, error) {
	return c.rdb.SCard(ctx, readyKey(gameID)).Result()
}

// ReadyHouses returns the set of houses that have marked ready.
func (c *Client) ReadyHouses(ctx context.Context, gameID string) ([]string, error) {
	return c.rdb.SMembers(ctx, readyKey(gameID)).Result()
}

// planningGracePeriod is the extra time after the displayed deadline
// before the planning phase auto-reveals, giving players a few seconds
// of leeway.
const planningGracePeriod = 5 * time.Second

// SetTimer creates a timer key with a TTL. When the key expires,
// Redis keyspace notifications trigger the planning reveal.
func (c *Client) SetTimer(ctx context.Context, gameID string, deadline time.Time) error {
	ttl := time.Until(deadline) + planningGracePeriod
	if ttl <= 0 {
		ttl = time.Second
	}
	return c.rdb.Set(ctx, timerKey(gameID), deadline.Unix(), ttl).Err()
}

// ClearTimer removes the timer for a game.
func (c *Client) ClearTimer(ctx context.Context, gameID string) error {
	return c.rdb.Del(ctx, timerKey(gameID)).Err()
}

// ClearPlanningData removes all plans, ready status, and the timer for
// a game. Called when the planning phase reveals.
func (c *Client) ClearPlanningData(ctx context.Context, gameID string, houses []string) error {
	keys := []string{readyKey(gameID), timerKey(gameID)}
	for _, house := range houses {
		keys = append(keys, plansKey(gameID, house))
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// DeleteGameData removes all Redis data for a game (on game end).
func (c *Client) DeleteGameData(ctx context.Context, gameID string, houses []string) error {
	keys := []string{stateKey(gameID), readyKey(gameID), timerKey(gameID)}
	for _, house := range houses {
		keys = append(keys, plansKey(gameID, house))
	}
	return c.rdb.Del(ctx, keys...).Err()
}
