package westeros

import (
	"math/rand"
	"testing"
)

func newTestGame(t *testing.T, players int) *GameState {
	t.Helper()
	gs, err := NewGame(players, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("NewGame(%d): %v", players, err)
	}
	return gs
}

func TestNewGameInvalidPlayerCount(t *testing.T) {
	for _, n := range []int{0, 1, 2, 7, -1} {
		if _, err := NewGame(n, rand.New(rand.NewSource(1))); err == nil {
			t.Errorf("NewGame(%d): expected error", n)
		}
	}
}

func TestNewGameHousesByPlayerCount(t *testing.T) {
	tests := []struct {
		players int
		houses  []House
	}{
		{3, []House{Stark, Lannister, Baratheon}},
		{4, []House{Stark, Lannister, Baratheon, Greyjoy}},
		{5, []House{Stark, Lannister, Baratheon, Greyjoy, Tyrell}},
		{6, []House{Stark, Lannister, Baratheon, Greyjoy, Tyrell, Martell}},
	}
	for _, tt := range tests {
		gs := newTestGame(t, tt.players)
		if len(gs.Houses) != tt.players {
			t.Errorf("%d players: got %d houses", tt.players, len(gs.Houses))
		}
		for _, h := range tt.houses {
			if !gs.InGame(h) {
				t.Errorf("%d players: %s should be in the game", tt.players, h)
			}
		}
	}
}

func TestNewGameInitialState(t *testing.T) {
	gs := newTestGame(t, 6)

	if gs.Round != 1 {
		t.Errorf("round = %d, want 1", gs.Round)
	}
	if gs.Phase != PhasePlanning {
		t.Errorf("phase = %s, want planning", gs.Phase)
	}
	if gs.WildlingThreat != 2 {
		t.Errorf("wildling threat = %d, want 2", gs.WildlingThreat)
	}
	if gs.Winner != NoHouse {
		t.Errorf("winner = %s, want none", gs.Winner)
	}

	for h, hs := range gs.Houses {
		if hs.Power != 5 {
			t.Errorf("%s power = %d, want 5", h, hs.Power)
		}
		if len(hs.Hand) != 7 {
			t.Errorf("%s hand = %d cards, want 7", h, len(hs.Hand))
		}
		if len(hs.Discards) != 0 {
			t.Errorf("%s has %d discards at setup", h, len(hs.Discards))
		}
	}

	if len(gs.WesterosDeck1) != 10 || len(gs.WesterosDeck2) != 10 || len(gs.WesterosDeck3) != 10 {
		t.Errorf("westeros decks = %d/%d/%d cards, want 10 each",
			len(gs.WesterosDeck1), len(gs.WesterosDeck2), len(gs.WesterosDeck3))
	}
	if len(gs.Wildlings) != 9 {
		t.Errorf("wildling deck = %d cards, want 9", len(gs.Wildlings))
	}
}

func TestNewGameTurnOrder(t *testing.T) {
	gs := newTestGame(t, 6)

	want := []House{Baratheon, Lannister, Stark, Martell, Greyjoy, Tyrell}
	if len(gs.TurnOrder) != len(want) {
		t.Fatalf("turn order has %d houses, want %d", len(gs.TurnOrder), len(want))
	}
	for i, h := range want {
		if gs.TurnOrder[i] != h {
			t.Errorf("turn order[%d] = %s, want %s", i, gs.TurnOrder[i], h)
		}
	}
	if gs.CurrentHouse != Baratheon {
		t.Errorf("current house = %s, want baratheon", gs.CurrentHouse)
	}
}

func TestNewGameStartingUnits(t *testing.T) {
	gs := newTestGame(t, 6)

	tests := []struct {
		areaID string
		house  House
		units  int
	}{
		{"winterfell", Stark, 2},
		{"white-harbor", Stark, 1},
		{"the-shivering-sea", Stark, 1},
		{"lannisport", Lannister, 2},
		{"dragonstone", Baratheon, 2},
		{"shipbreaker-bay", Baratheon, 2},
		{"pyke", Greyjoy, 2},
		{"pyke-port", Greyjoy, 1},
		{"highgarden", Tyrell, 2},
		{"sunspear", Martell, 2},
	}
	for _, tt := range tests {
		as := gs.Board[tt.areaID]
		if as.Controller != tt.house {
			t.Errorf("%s controller = %s, want %s", tt.areaID, as.Controller, tt.house)
		}
		if len(as.Units) != tt.units {
			t.Errorf("%s has %d units, want %d", tt.areaID, len(as.Units), tt.units)
		}
	}
}

func TestNewGameUnitPools(t *testing.T) {
	gs := newTestGame(t, 6)

	tests := []struct {
		house House
		pool  UnitPool
	}{
		// Each pool is the full allotment minus the starting units.
		{Stark, UnitPool{Footmen: 8, Knights: 4, Ships: 5, SiegeEngines: 2}},
		{Baratheon, UnitPool{Footmen: 8, Knights: 4, Ships: 4, SiegeEngines: 2}},
		{Greyjoy, UnitPool{Footmen: 8, Knights: 4, Ships: 4, SiegeEngines: 2}},
		{Martell, UnitPool{Footmen: 8, Knights: 4, Ships: 5, SiegeEngines: 2}},
	}
	for _, tt := range tests {
		if got := gs.Houses[tt.house].Pool; got != tt.pool {
			t.Errorf("%s pool = %+v, want %+v", tt.house, got, tt.pool)
		}
	}
}

func TestNewGameHomeGarrisons(t *testing.T) {
	gs := newTestGame(t, 6)

	for _, h := range gs.TurnOrder {
		home := HomeArea(h)
		g, ok := gs.Garrisons[home]
		if !ok {
			t.Errorf("%s has no home garrison in %s", h, home)
			continue
		}
		if g.House != h || g.Strength != 2 {
			t.Errorf("%s garrison = %+v, want strength 2 for %s", home, g, h)
		}
	}
}

func TestNewGameThreePlayerBlockedRegions(t *testing.T) {
	gs := newTestGame(t, 3)

	for _, id := range []string{"pyke", "highgarden", "sunspear", "storms-end", "dornish-marches"} {
		as := gs.Board[id]
		if !as.Blocked {
			t.Errorf("%s should be blocked in a 3-player game", id)
		}
		if as.Controller != NoHouse {
			t.Errorf("%s controller = %s, want none", id, as.Controller)
		}
	}
	if gs.Board["winterfell"].Blocked {
		t.Error("winterfell should not be blocked")
	}
	if _, ok := gs.Garrisons["pyke"]; ok {
		t.Error("blocked pyke should have no garrison")
	}
}

func TestNewGameFourPlayerNeutralGarrisons(t *testing.T) {
	gs := newTestGame(t, 4)

	if g := gs.Garrisons["sunspear"]; g.House != Martell || g.Strength != 5 {
		t.Errorf("sunspear garrison = %+v, want martell strength 5", g)
	}
	if g := gs.Garrisons["oldtown"]; g.House != Tyrell || g.Strength != 3 {
		t.Errorf("oldtown garrison = %+v, want tyrell strength 3", g)
	}
	if g := gs.Garrisons["storms-end"]; g.House != Tyrell || g.Strength != 4 {
		t.Errorf("storms-end garrison = %+v, want tyrell strength 4", g)
	}
	if c := gs.Board["yronwood"].Controller; c != Martell {
		t.Errorf("yronwood controller = %s, want martell", c)
	}
}

func TestNewGameFivePlayerNeutralGarrisons(t *testing.T) {
	gs := newTestGame(t, 5)

	for _, id := range []string{"sunspear", "yronwood", "salt-shore", "the-boneway"} {
		g, ok := gs.Garrisons[id]
		if !ok || g.House != Martell {
			t.Errorf("%s garrison = %+v, want martell neutral garrison", id, g)
			continue
		}
		if c := gs.Board[id].Controller; c != Martell {
			t.Errorf("%s controller = %s, want martell", id, c)
		}
	}
	if g := gs.Garrisons["sunspear"]; g.Strength != 5 {
		t.Errorf("sunspear garrison strength = %d, want 5", g.Strength)
	}
}

func TestNewGameInfluencePositions(t *testing.T) {
	gs := newTestGame(t, 6)

	tests := []struct {
		house House
		inf   Influence
	}{
		{Baratheon, Influence{IronThrone: 1, Fiefdoms: 5, KingsCourt: 4}},
		{Lannister, Influence{IronThrone: 2, Fiefdoms: 6, KingsCourt: 1}},
		{Stark, Influence{IronThrone: 3, Fiefdoms: 4, KingsCourt: 2}},
		{Greyjoy, Influence{IronThrone: 5, Fiefdoms: 1, KingsCourt: 6}},
	}
	for _, tt := range tests {
		if got := gs.Houses[tt.house].Influence; got != tt.inf {
			t.Errorf("%s influence = %+v, want %+v", tt.house, got, tt.inf)
		}
	}
}
