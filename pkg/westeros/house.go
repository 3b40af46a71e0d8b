package westeros

// House represents one of the six great houses.
type House string

const (
	Stark     House = "stark"
	Lannister House = "lannister"
	Baratheon House = "baratheon"
	Greyjoy   House = "greyjoy"
	Tyrell    House = "tyrell"
	Martell   House = "martell"
	NoHouse   House = ""
)

// AllHouses returns the six great houses in rulebook order.
func AllHouses() []House {
	return []House{Stark, Lannister, Baratheon, Greyjoy, Tyrell, Martell}
}

// UnitType represents the type of a military unit.
type UnitType int

const (
	Footman UnitType = iota
	Knight
	Ship
	SiegeEngine
)

func (u UnitType) String() string {
	switch u {
	case Footman:
		return "footman"
	case Knight:
		return "knight"
	case Ship:
		return "ship"
	default:
		return "siege engine"
	}
}

// Unit represents a single unit on the board.
type Unit struct {
	Type   UnitType
	House  House
	Routed bool
}

// Track identifies one of the three influence tracks.
type Track int

const (
	IronThrone Track = iota
	Fiefdoms
	KingsCourt
)

func (t Track) String() string {
	switch t {
	case IronThrone:
		return "iron throne"
	case Fiefdoms:
		return "fiefdoms"
	default:
		return "king's court"
	}
}

// AllTracks returns the three influence tracks.
func AllTracks() []Track {
	return []Track{IronThrone, Fiefdoms, KingsCourt}
}

// Influence holds a house's 1-based position on each influence track.
// Position 1 is the top of the track.
type Influence struct {
	IronThrone int
	Fiefdoms   int
	KingsCourt int
}

// Position returns the house's position on the given track.
func (in Influence) Position(t Track) int {
	switch t {
	case IronThrone:
		return in.IronThrone
	case Fiefdoms:
		return in.Fiefdoms
	default:
		return in.KingsCourt
	}
}

// SetPosition sets the house's position on the given track.
func (in *Influence) SetPosition(t Track, pos int) {
	switch t {
	case IronThrone:
		in.IronThrone = pos
	case Fiefdoms:
		in.Fiefdoms = pos
	default:
		in.KingsCourt = pos
	}
}

// OrderType represents the type of an order token.
type OrderType string

const (
	March            OrderType = "march"
	Raid             OrderType = "raid"
	Support          OrderType = "support"
	Defense          OrderType = "defense"
	ConsolidatePower OrderType = "consolidate"
)

// Order is an order token placed on an area during the Planning phase.
type Order struct {
	Type       OrderType
	House      House
	Strength   int
	Star       bool
	TokenIndex int
}

// OrderTokenDef describes one of the 15 order tokens every house owns.
type OrderTokenDef struct {
	Type     OrderType
	Strength int
	Star     bool
}

// OrderTokens is the fixed 15-token set each house places from.
// Tokens are referenced by index.
var OrderTokens = [15]OrderTokenDef{
	{March, -1, false},
	{March, 0, false},
	{March, 1, true},
	{Defense, 1, false},
	{Defense, 1, false},
	{Defense, 2, true},
	{Support, 0, false},
	{Support, 0, false},
	{Support, 1, true},
	{Raid, 0, false},
	{Raid, 0, false},
	{Raid, 0, true},
	{ConsolidatePower, 0, false},
	{ConsolidatePower, 0, false},
	{ConsolidatePower, 0, true},
}

// starOrderLimits maps player count and King's Court position (1-based)
// to the number of starred orders a house may place.
var starOrderLimits = map[int][]int{
	3: {3, 2, 1},
	4: {3, 3, 1, 0},
	5: {3, 3, 2, 1, 0},
	6: {3, 3, 2, 1, 0, 0},
}

// StarOrderLimit returns the maximum starred orders for a house at the
// given King's Court position in a game with playerCount players.
func StarOrderLimit(playerCount, position int) int {
	limits, ok := starOrderLimits[playerCount]
	if !ok {
		limits = starOrderLimits[6]
	}
	if position < 1 || position > len(limits) {
		return 0
	}
	return limits[position-1]
}

// MusterCost returns the mustering point cost of a unit type.
// Strongholds provide 2 points, castles 1.
func MusterCost(t UnitType) int {
	switch t {
	case Knight, SiegeEngine:
		return 2
	default:
		return 1
	}
}

// Unit pool each house starts the game with.
const (
	poolFootmen      = 10
	poolKnights      = 5
	poolShips        = 6
	poolSiegeEngines = 2
)

// MaxPower is the cap on a house's available power tokens.
const MaxPower = 20

// MaxSupply is the cap on the supply track.
const MaxSupply = 6

// MaxWildlingThreat is the top of the wildling track.
const MaxWildlingThreat = 12

// VictoryCastles is the number of castles and strongholds that wins the
// game immediately.
const VictoryCastles = 7

// FinalRound is the last game round; after it the game is decided on
// tiebreakers.
const FinalRound = 10
