package westeros

import (
	"errors"
	"math/rand"
	"testing"
)

// FuzzPlanningAndMarch verifies the engine doesn't panic on arbitrary
// order placements and marches, and that every rejected call hands the
// input state back untouched.
func FuzzPlanningAndMarch(f *testing.F) {
	f.Add(int64(0))
	f.Add(int64(42))
	f.Add(int64(123456))

	f.Fuzz(func(t *testing.T, seed int64) {
		rng := rand.New(rand.NewSource(seed))
		players := 3 + rng.Intn(4)
		gs, err := NewGame(players, rng)
		if err != nil {
			t.Fatalf("new game: %v", err)
		}

		ids := gs.sortedAreaIDs()
		houses := append([]House(nil), gs.TurnOrder...)

		// Scatter random order tokens; illegal placements must bounce
		// without touching the state.
		for i := 0; i < 60; i++ {
			area := ids[rng.Intn(len(ids))]
			h := houses[rng.Intn(len(houses))]
			next, err := PlaceOrder(gs, area, h, rng.Intn(len(OrderTokens)))
			if err != nil {
				requireRejected(t, gs, next, err)
				continue
			}
			gs = next
		}

		next, err := ResolvePhase(gs)
		if err != nil {
			requireRejected(t, gs, next, err)
			return
		}
		gs = next

		// Random marches between random areas. Most are illegal; the
		// legal ones may open a combat or a pending decision, at which
		// point further marches must be refused cleanly.
		for i := 0; i < 40; i++ {
			from := ids[rng.Intn(len(ids))]
			to := ids[rng.Intn(len(ids))]
			next, err := ResolveMarch(gs, from, to, []int{rng.Intn(3)})
			if err != nil {
				requireRejected(t, gs, next, err)
				continue
			}
			gs = next
		}
	})
}

// requireRejected asserts the rejection contract: the input state comes
// back unchanged and the error is a *RuleError.
func requireRejected(t *testing.T, in, out *GameState, err error) {
	t.Helper()
	if out != in {
		t.Fatal("rejected call must return the input state")
	}
	var ruleErr *RuleError
	if !errors.As(err, &ruleErr) {
		t.Fatalf("expected *RuleError, got %T: %v", err, err)
	}
}
