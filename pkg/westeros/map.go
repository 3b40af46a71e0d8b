package westeros

// AreaType classifies an area as land, sea, or port.
type AreaType int

const (
	Land AreaType = iota
	Sea
	Port
)

func (t AreaType) String() string {
	switch t {
	case Land:
		return "land"
	case Sea:
		return "sea"
	default:
		return "port"
	}
}

// Area holds the static attributes of one board area. The dynamic
// per-game contents (units, orders, controller) live on AreaState.
type Area struct {
	ID         string
	Name       string
	Type       AreaType
	Castle     bool
	Stronghold bool
	Supply     int // supply barrel icons
	Power      int // crown icons
	Adjacent   []string

	// Port-only fields.
	ConnectedLand string
	ConnectedSea  string
	MaxShips      int
}

// GameMap holds the full area and adjacency graph of the board.
type GameMap struct {
	Areas map[string]*Area
}

// Adjacent reports whether dst is directly adjacent to src.
func (m *GameMap) Adjacent(src, dst string) bool {
	a, ok := m.Areas[src]
	if !ok {
		return false
	}
	for _, id := range a.Adjacent {
		if id == dst {
			return true
		}
	}
	return false
}

// PortFor returns the ID of the port attached to the given land area,
// or "" if the area has no port.
func (m *GameMap) PortFor(landID string) string {
	for id, a := range m.Areas {
		if a.Type == Port && a.ConnectedLand == landID {
			return id
		}
	}
	return ""
}

// HasFortification reports whether the area holds a castle or stronghold.
func (a *Area) HasFortification() bool {
	return a.Castle || a.Stronghold
}

// MusterPoints returns the mustering points the area provides:
// 2 for a stronghold, 1 for a castle, 0 otherwise.
func (a *Area) MusterPoints() int {
	if a.Stronghold {
		return 2
	}
	if a.Castle {
		return 1
	}
	return 0
}

// supplyLimits maps a supply track position (0..6) to the allowed army
// sizes, largest first. An army is any group of 2+ units in one area.
var supplyLimits = [MaxSupply + 1][]int{
	{2, 2},
	{3, 2},
	{3, 2, 2},
	{3, 2, 2, 2},
	{3, 3, 2, 2},
	{4, 3, 2, 2},
	{4, 3, 2, 2, 2},
}

// SupplyLimits returns the allowed army sizes for a supply position.
func SupplyLimits(supply int) []int {
	if supply < 0 {
		supply = 0
	}
	if supply > MaxSupply {
		supply = MaxSupply
	}
	limits := make([]int, len(supplyLimits[supply]))
	copy(limits, supplyLimits[supply])
	return limits
}

// homeGarrisons gives the strength of the garrison token each house
// starts with in its home area.
var homeGarrisons = map[string]int{
	"kings-landing": 5,
	"the-eyrie":     6,
	"dragonstone":   2,
	"winterfell":    2,
	"lannisport":    2,
	"highgarden":    2,
	"sunspear":      2,
	"pyke":          2,
}

// blockedRegions3P lists areas that are impassable in a 3-player game.
var blockedRegions3P = []string{
	"pyke", "pyke-port", "highgarden", "oldtown", "oldtown-port",
	"sunspear", "sunspear-port", "salt-shore", "yronwood", "starfall",
	"three-towers", "dornish-marches", "princes-pass", "the-boneway",
	"storms-end", "storms-end-port",
}

// neutralGarrisons4P places neutral garrison tokens over the vacant
// Tyrell and Martell territory in a 4-player game.
var neutralGarrisons4P = map[string]int{
	"oldtown":        3,
	"three-towers":   3,
	"dornish-marches": 3,
	"princes-pass":   3,
	"starfall":       3,
	"yronwood":       3,
	"the-boneway":    3,
	"storms-end":     4,
	"salt-shore":     3,
	"sunspear":       5,
}

// neutralGarrisons5P places neutral garrison tokens over the vacant
// Martell territory in a 5-player game.
var neutralGarrisons5P = map[string]int{
	"three-towers": 3,
	"princes-pass": 3,
	"the-boneway":  3,
	"starfall":     3,
	"yronwood":     3,
	"salt-shore":   3,
	"sunspear":     5,
}

// martellRegion identifies the Martell-owned share of the 4-player
// neutral territory.
var martellRegion = map[string]bool{
	"sunspear":     true,
	"yronwood":     true,
	"salt-shore":   true,
	"starfall":     true,
	"the-boneway":  true,
	"princes-pass": true,
}
