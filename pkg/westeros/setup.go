package westeros

import "math/rand"

// houseSetup describes a house's starting position.
type houseSetup struct {
	homeArea      string
	initialSupply int
	minPlayers    int
	influence     Influence
	units         []startingUnit
}

type startingUnit struct {
	area string
	unit UnitType
}

var houseSetups = map[House]houseSetup{
	Stark: {
		homeArea:      "winterfell",
		initialSupply: 1,
		minPlayers:    3,
		influence:     Influence{IronThrone: 3, Fiefdoms: 4, KingsCourt: 2},
		units: []startingUnit{
			{"winterfell", Knight},
			{"winterfell", Footman},
			{"white-harbor", Footman},
			{"the-shivering-sea", Ship},
		},
	},
	Lannister: {
		homeArea:      "lannisport",
		initialSupply: 2,
		minPlayers:    3,
		influence:     Influence{IronThrone: 2, Fiefdoms: 6, KingsCourt: 1},
		units: []startingUnit{
			{"lannisport", Knight},
			{"lannisport", Footman},
			{"stoney-sept", Footman},
			{"the-golden-sound", Ship},
		},
	},
	Baratheon: {
		homeArea:      "dragonstone",
		initialSupply: 2,
		minPlayers:    3,
		influence:     Influence{IronThrone: 1, Fiefdoms: 5, KingsCourt: 4},
		units: []startingUnit{
			{"dragonstone", Knight},
			{"dragonstone", Footman},
			{"kingswood", Footman},
			{"shipbreaker-bay", Ship},
			{"shipbreaker-bay", Ship},
		},
	},
	Greyjoy: {
		homeArea:      "pyke",
		initialSupply: 2,
		minPlayers:    4,
		influence:     Influence{IronThrone: 5, Fiefdoms: 1, KingsCourt: 6},
		units: []startingUnit{
			{"pyke", Knight},
			{"pyke", Footman},
			{"pyke-port", Ship},
			{"greywater-watch", Footman},
			{"ironmans-bay", Ship},
		},
	},
	Tyrell: {
		homeArea:      "highgarden",
		initialSupply: 2,
		minPlayers:    5,
		influence:     Influence{IronThrone: 6, Fiefdoms: 2, KingsCourt: 5},
		units: []startingUnit{
			{"highgarden", Knight},
			{"highgarden", Footman},
			{"dornish-marches", Footman},
			{"redwyne-straits", Ship},
		},
	},
	Martell: {
		homeArea:      "sunspear",
		initialSupply: 2,
		minPlayers:    6,
		influence:     Influence{IronThrone: 4, Fiefdoms: 3, KingsCourt: 3},
		units: []startingUnit{
			{"sunspear", Knight},
			{"sunspear", Footman},
			{"salt-shore", Footman},
			{"sea-of-dorne", Ship},
		},
	},
}

// HomeArea returns the home area ID of a house.
func HomeArea(h House) string {
	return houseSetups[h].homeArea
}

// startingPower is each house's initial power token count.
const startingPower = 5

// NewGame builds the starting state for a 3-6 player game. The random
// source seeds the shuffled Westeros and wildling decks and is retained
// for reshuffles during play. Round 1 skips the Westeros phase and
// begins in Planning.
func NewGame(playerCount int, r *rand.Rand) (*GameState, error) {
	if playerCount < 3 || playerCount > 6 {
		return nil, ruleErr("new game", "player count must be 3-6, got %d", playerCount)
	}

	gs := &GameState{
		Round:          1,
		Phase:          PhasePlanning,
		Houses:         make(map[House]*HouseState),
		Board:          make(map[string]*AreaState),
		Garrisons:      make(map[string]Garrison),
		WildlingThreat: 2,
		ActionSubPhase: SubPhaseRaid,
		WesterosDeck1:  WesterosDeck(1),
		WesterosDeck2:  WesterosDeck(2),
		WesterosDeck3:  WesterosDeck(3),
		Wildlings:      WildlingDeck(),
		rng:            r,
	}

	shuffleWesteros(gs.WesterosDeck1, gs.rand())
	shuffleWesteros(gs.WesterosDeck2, gs.rand())
	shuffleWesteros(gs.WesterosDeck3, gs.rand())
	shuffleWildlings(gs.Wildlings, gs.rand())

	m := StandardMap()
	for id := range m.Areas {
		gs.Board[id] = &AreaState{}
	}

	for _, h := range AllHouses() {
		setup := houseSetups[h]
		if setup.minPlayers > playerCount {
			continue
		}
		hs := &HouseState{
			Influence: setup.influence,
			Supply:    setup.initialSupply,
			Power:     startingPower,
			Pool: UnitPool{
				Footmen:      poolFootmen,
				Knights:      poolKnights,
				Ships:        poolShips,
				SiegeEngines: poolSiegeEngines,
			},
			Hand: HouseDeck(h),
		}
		for _, su := range setup.units {
			as := gs.Board[su.area]
			as.Units = append(as.Units, Unit{Type: su.unit, House: h})
			as.Controller = h
			hs.Pool.Add(su.unit, -1)
		}
		gs.Houses[h] = hs
		gs.TurnOrder = append(gs.TurnOrder, h)

		strength, ok := homeGarrisons[setup.homeArea]
		if !ok {
			strength = 2
		}
		gs.Garrisons[setup.homeArea] = Garrison{House: h, Strength: strength}
	}

	gs.sortTurnOrder()
	gs.CurrentHouse = gs.TurnOrder[0]

	applyBoardVariant(gs, playerCount)

	return gs, nil
}

// applyBoardVariant adjusts the board for short-handed games: blocked
// regions at 3 players, neutral garrisons at 4 and 5.
func applyBoardVariant(gs *GameState, playerCount int) {
	switch playerCount {
	case 3:
		for _, id := range blockedRegions3P {
			as := gs.Board[id]
			as.Blocked = true
			as.Controller = NoHouse
			delete(gs.Garrisons, id)
		}
	case 4:
		for id, strength := range neutralGarrisons4P {
			owner := Tyrell
			if martellRegion[id] {
				owner = Martell
			}
			gs.Garrisons[id] = Garrison{House: owner, Strength: strength}
			gs.Board[id].Controller = owner
		}
	case 5:
		for id, strength := range neutralGarrisons5P {
			gs.Garrisons[id] = Garrison{House: Martell, Strength: strength}
			gs.Board[id].Controller = Martell
		}
	}
}

func shuffleWesteros(deck []WesterosCard, r *rand.Rand) {
	r.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
}

func shuffleWildlings(deck []WildlingCard, r *rand.Rand) {
	r.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
}
