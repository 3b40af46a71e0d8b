package westeros

import "testing"

func TestPlaceOrder(t *testing.T) {
	gs := newTestGame(t, 6)

	ns, err := PlaceOrder(gs, "winterfell", Stark, 1)
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	order := ns.Board["winterfell"].Order
	if order == nil {
		t.Fatal("no order placed")
	}
	if order.Type != March || order.House != Stark || order.Strength != 0 || order.TokenIndex != 1 {
		t.Errorf("order = %+v", order)
	}
	if len(ns.Houses[Stark].UsedTokens) != 1 || ns.Houses[Stark].UsedTokens[0] != 1 {
		t.Errorf("used tokens = %v, want [1]", ns.Houses[Stark].UsedTokens)
	}
	// The input state is untouched.
	if gs.Board["winterfell"].Order != nil {
		t.Error("original state gained an order")
	}
}

func TestPlaceOrderRejections(t *testing.T) {
	gs := newTestGame(t, 6)

	tests := []struct {
		name   string
		mutate func(*GameState) *GameState
		areaID string
		house  House
		token  int
	}{
		{"wrong phase", func(s *GameState) *GameState {
			c := s.Clone()
			c.Phase = PhaseAction
			return c
		}, "winterfell", Stark, 0},
		{"unknown area", nil, "essos", Stark, 0},
		{"no units there", nil, "karhold", Stark, 0},
		{"not the controller", nil, "winterfell", Lannister, 0},
		{"bad token index", nil, "winterfell", Stark, 15},
		{"negative token index", nil, "winterfell", Stark, -1},
	}
	for _, tt := range tests {
		s := gs
		if tt.mutate != nil {
			s = tt.mutate(gs)
		}
		ns, err := PlaceOrder(s, tt.areaID, tt.house, tt.token)
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
		if ns != s {
			t.Errorf("%s: rejected op should return the input state", tt.name)
		}
	}
}

func TestPlaceOrderDuplicateToken(t *testing.T) {
	gs := newTestGame(t, 6)

	ns, err := PlaceOrder(gs, "winterfell", Stark, 0)
	if err != nil {
		t.Fatalf("first placement: %v", err)
	}
	if _, err := PlaceOrder(ns, "white-harbor", Stark, 0); err == nil {
		t.Error("placing the same token twice should fail")
	}
}

func TestPlaceOrderSwap(t *testing.T) {
	gs := newTestGame(t, 6)

	ns, err := PlaceOrder(gs, "winterfell", Stark, 0)
	if err != nil {
		t.Fatalf("first placement: %v", err)
	}
	ns, err = PlaceOrder(ns, "winterfell", Stark, 3)
	if err != nil {
		t.Fatalf("swap: %v", err)
	}
	order := ns.Board["winterfell"].Order
	if order.Type != Defense || order.TokenIndex != 3 {
		t.Errorf("order after swap = %+v", order)
	}
	used := ns.Houses[Stark].UsedTokens
	if len(used) != 1 || used[0] != 3 {
		t.Errorf("used tokens after swap = %v, want [3]", used)
	}

	// The returned token is free to place elsewhere.
	if _, err := PlaceOrder(ns, "white-harbor", Stark, 0); err != nil {
		t.Errorf("reusing swapped-out token: %v", err)
	}
}

func TestPlaceOrderStarLimit(t *testing.T) {
	gs := newTestGame(t, 6)

	// Tyrell sits last on the King's Court and may place no starred orders.
	if _, err := PlaceOrder(gs, "highgarden", Tyrell, 2); err == nil {
		t.Error("tyrell should not be allowed a starred order")
	}

	// Baratheon (position 4) may place exactly one.
	ns, err := PlaceOrder(gs, "dragonstone", Baratheon, 2)
	if err != nil {
		t.Fatalf("first starred order: %v", err)
	}
	if _, err := PlaceOrder(ns, "kingswood", Baratheon, 5); err == nil {
		t.Error("baratheon should be limited to one starred order")
	}

	// Lannister holds the King's Court and may place three.
	ns = gs
	for i, placement := range []struct {
		areaID string
		token  int
	}{
		{"lannisport", 2},
		{"stoney-sept", 5},
		{"the-golden-sound", 8},
	} {
		ns, err = PlaceOrder(ns, placement.areaID, Lannister, placement.token)
		if err != nil {
			t.Fatalf("lannister starred order %d: %v", i+1, err)
		}
	}
}

func TestStarOrderLimitTable(t *testing.T) {
	tests := []struct {
		players  int
		position int
		limit    int
	}{
		{6, 1, 3},
		{6, 3, 2},
		{6, 5, 0},
		{5, 4, 1},
		{4, 2, 3},
		{3, 1, 3},
		{3, 3, 1},
		{6, 0, 0},
		{6, 7, 0},
	}
	for _, tt := range tests {
		if got := StarOrderLimit(tt.players, tt.position); got != tt.limit {
			t.Errorf("StarOrderLimit(%d, %d) = %d, want %d", tt.players, tt.position, got, tt.limit)
		}
	}
}

func TestPlaceOrderBanned(t *testing.T) {
	gs := newTestGame(t, 6)
	gs.BannedOrders = []OrderType{Raid}
	gs.BannedStarOrders = []OrderType{March}

	if _, err := PlaceOrder(gs, "winterfell", Stark, 9); err == nil {
		t.Error("raid orders are banned and should be rejected")
	}
	if _, err := PlaceOrder(gs, "winterfell", Stark, 11); err == nil {
		t.Error("the starred raid falls under the raid ban too")
	}
	if _, err := PlaceOrder(gs, "lannisport", Lannister, 2); err == nil {
		t.Error("starred march orders are banned and should be rejected")
	}
	if _, err := PlaceOrder(gs, "lannisport", Lannister, 1); err != nil {
		t.Errorf("plain march should still be legal: %v", err)
	}
}

func TestMessengerRaven(t *testing.T) {
	gs := newTestGame(t, 6)

	// Lannister holds the King's Court.
	ns, err := PlaceOrder(gs, "lannisport", Lannister, 0)
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	ns, err = UseMessengerRaven(ns, "lannisport", 12)
	if err != nil {
		t.Fatalf("raven swap: %v", err)
	}
	order := ns.Board["lannisport"].Order
	if order.Type != ConsolidatePower || order.TokenIndex != 12 {
		t.Errorf("order after raven = %+v", order)
	}
	if !ns.RavenUsed {
		t.Error("raven should be marked used")
	}
	used := ns.Houses[Lannister].UsedTokens
	if len(used) != 1 || used[0] != 12 {
		t.Errorf("used tokens after raven = %v, want [12]", used)
	}

	if _, err := UseMessengerRaven(ns, "lannisport", 0); err == nil {
		t.Error("raven should only work once per round")
	}
}

func TestMessengerRavenOnlyOwnOrders(t *testing.T) {
	gs := newTestGame(t, 6)

	ns, err := PlaceOrder(gs, "winterfell", Stark, 0)
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	// The holder is Lannister; Stark's order is out of reach.
	if _, err := UseMessengerRaven(ns, "winterfell", 12); err == nil {
		t.Error("raven should only swap the holder's own orders")
	}
}
