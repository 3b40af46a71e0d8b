package westeros

import "sync"

var (
	stdMapOnce sync.Once
	stdMapInst *GameMap
)

// StandardMap returns the standard 59-area board: 38 land areas, 12 sea
// areas, and 9 ports. The map is built once and cached; subsequent calls
// return the same pointer. Callers must not mutate the returned map.
func StandardMap() *GameMap {
	stdMapOnce.Do(func() {
		stdMapInst = buildStandardMap()
	})
	return stdMapInst
}

func buildStandardMap() *GameMap {
	m := &GameMap{Areas: make(map[string]*Area, 58)}

	land := func(id, name string, castle, stronghold bool, supply, power int, adjacent ...string) {
		m.Areas[id] = &Area{
			ID: id, Name: name, Type: Land,
			Castle: castle, Stronghold: stronghold,
			Supply: supply, Power: power,
			Adjacent: adjacent,
		}
	}
	sea := func(id, name string, adjacent ...string) {
		m.Areas[id] = &Area{ID: id, Name: name, Type: Sea, Adjacent: adjacent}
	}
	port := func(id, name, connLand, connSea string) {
		m.Areas[id] = &Area{
			ID: id, Name: name, Type: Port,
			ConnectedLand: connLand, ConnectedSea: connSea, MaxShips: 3,
			Adjacent: []string{connLand, connSea},
		}
	}

	// =========================================================================
	// The North
	// =========================================================================
	land("castle-black", "Castle Black", false, false, 0, 1,
		"winterfell", "karhold", "bay-of-ice", "the-shivering-sea")
	land("karhold", "Karhold", false, false, 0, 1,
		"castle-black", "winterfell", "the-shivering-sea")
	land("the-stony-shore", "The Stony Shore", false, false, 1, 0,
		"winterfell", "bay-of-ice")
	land("winterfell", "Winterfell", false, true, 1, 1,
		"castle-black", "karhold", "the-stony-shore", "white-harbor", "moat-cailin",
		"bay-of-ice", "the-shivering-sea")
	land("white-harbor", "White Harbor", true, false, 0, 0,
		"winterfell", "moat-cailin", "widows-watch", "the-narrow-sea", "the-shivering-sea")
	land("widows-watch", "Widow's Watch", false, false, 1, 0,
		"white-harbor", "the-narrow-sea", "the-shivering-sea")

	// =========================================================================
	// Riverlands
	// =========================================================================
	land("moat-cailin", "Moat Cailin", true, false, 0, 0,
		"winterfell", "white-harbor", "greywater-watch", "seagard", "the-twins", "the-narrow-sea")
	land("greywater-watch", "Greywater Watch", false, false, 1, 0,
		"moat-cailin", "seagard", "flints-finger", "bay-of-ice", "ironmans-bay")
	land("flints-finger", "Flint's Finger", true, false, 0, 0,
		"greywater-watch", "bay-of-ice", "ironmans-bay", "sunset-sea")
	land("seagard", "Seagard", false, true, 1, 1,
		"moat-cailin", "greywater-watch", "the-twins", "riverrun", "ironmans-bay")
	land("the-twins", "The Twins", false, false, 0, 1,
		"moat-cailin", "seagard", "the-fingers", "the-mountains-of-the-moon", "the-narrow-sea")
	land("the-fingers", "The Fingers", false, false, 1, 0,
		"the-twins", "the-mountains-of-the-moon", "the-narrow-sea")
	land("the-mountains-of-the-moon", "The Mountains of the Moon", false, false, 1, 0,
		"the-twins", "the-fingers", "the-eyrie", "crackclaw-point", "the-narrow-sea")
	land("the-eyrie", "The Eyrie", true, false, 1, 1,
		"the-mountains-of-the-moon", "the-narrow-sea")

	// =========================================================================
	// Westerlands
	// =========================================================================
	land("riverrun", "Riverrun", false, true, 1, 1,
		"seagard", "lannisport", "stoney-sept", "harrenhal", "ironmans-bay", "the-golden-sound")
	land("lannisport", "Lannisport", false, true, 2, 0,
		"riverrun", "stoney-sept", "searoad-marches", "the-golden-sound")
	land("stoney-sept", "Stoney Sept", false, false, 0, 1,
		"riverrun", "lannisport", "harrenhal", "searoad-marches", "blackwater")
	land("searoad-marches", "Searoad Marches", false, false, 1, 0,
		"lannisport", "stoney-sept", "highgarden", "blackwater", "the-reach",
		"sunset-sea", "the-golden-sound", "west-summer-sea")

	// =========================================================================
	// Crownlands
	// =========================================================================
	land("harrenhal", "Harrenhal", true, false, 0, 1,
		"riverrun", "stoney-sept", "crackclaw-point", "kings-landing")
	land("crackclaw-point", "Crackclaw Point", true, false, 0, 0,
		"harrenhal", "kings-landing", "the-mountains-of-the-moon",
		"blackwater-bay", "shipbreaker-bay", "the-narrow-sea")
	land("kings-landing", "King's Landing", false, true, 0, 2,
		"harrenhal", "crackclaw-point", "blackwater", "kingswood", "the-reach", "blackwater-bay")
	land("blackwater", "Blackwater", false, false, 2, 0,
		"kings-landing", "stoney-sept", "searoad-marches",
		"the-reach", "kingswood", "the-boneway", "dornish-marches")

	// =========================================================================
	// The Stormlands and the Reach
	// =========================================================================
	land("kingswood", "Kingswood", false, false, 1, 1,
		"kings-landing", "blackwater", "storms-end", "the-boneway", "the-reach",
		"blackwater-bay", "shipbreaker-bay")
	land("storms-end", "Storm's End", true, false, 0, 0,
		"kingswood", "the-boneway", "east-summer-sea", "sea-of-dorne", "shipbreaker-bay")
	land("highgarden", "Highgarden", false, true, 2, 0,
		"searoad-marches", "the-reach", "dornish-marches", "oldtown", "redwyne-straits", "west-summer-sea")
	land("the-reach", "The Reach", true, false, 0, 0,
		"highgarden", "searoad-marches", "blackwater", "kings-landing",
		"kingswood", "dornish-marches", "the-boneway", "oldtown")
	land("dornish-marches", "Dornish Marches", false, false, 0, 1,
		"highgarden", "the-reach", "blackwater", "the-boneway", "princes-pass", "oldtown", "three-towers")
	land("oldtown", "Oldtown", false, true, 0, 0,
		"highgarden", "the-reach", "dornish-marches", "three-towers", "redwyne-straits")
	land("three-towers", "Three Towers", false, false, 1, 0,
		"oldtown", "dornish-marches", "princes-pass", "redwyne-straits", "west-summer-sea")

	// =========================================================================
	// Dorne
	// =========================================================================
	land("the-boneway", "The Boneway", false, false, 0, 1,
		"dornish-marches", "princes-pass", "the-reach", "kingswood", "blackwater",
		"storms-end", "yronwood", "sea-of-dorne")
	land("princes-pass", "Prince's Pass", false, false, 1, 1,
		"dornish-marches", "the-boneway", "three-towers", "starfall", "yronwood")
	land("yronwood", "Yronwood", true, false, 0, 0,
		"princes-pass", "the-boneway", "starfall", "salt-shore", "sunspear", "sea-of-dorne")
	land("starfall", "Starfall", true, false, 1, 0,
		"princes-pass", "yronwood", "salt-shore", "east-summer-sea", "west-summer-sea")
	land("salt-shore", "Salt Shore", false, false, 1, 0,
		"yronwood", "starfall", "sunspear", "east-summer-sea")
	land("sunspear", "Sunspear", false, true, 1, 1,
		"yronwood", "salt-shore", "east-summer-sea", "sea-of-dorne")

	// =========================================================================
	// Islands
	// =========================================================================
	land("pyke", "Pyke", false, true, 1, 1,
		"ironmans-bay")
	land("dragonstone", "Dragonstone", false, true, 1, 1,
		"shipbreaker-bay")
	land("the-arbor", "The Arbor", false, false, 0, 1,
		"redwyne-straits", "west-summer-sea")

	// =========================================================================
	// Seas
	// =========================================================================
	sea("bay-of-ice", "Bay of Ice",
		"castle-black", "the-stony-shore", "winterfell", "flints-finger", "greywater-watch",
		"sunset-sea")
	sea("the-shivering-sea", "The Shivering Sea",
		"castle-black", "karhold", "winterfell", "white-harbor", "widows-watch",
		"the-narrow-sea")
	sea("sunset-sea", "Sunset Sea",
		"flints-finger", "searoad-marches",
		"bay-of-ice", "ironmans-bay", "the-golden-sound", "west-summer-sea")
	sea("ironmans-bay", "Ironman's Bay",
		"pyke", "flints-finger", "greywater-watch", "seagard", "riverrun",
		"sunset-sea", "the-golden-sound")
	sea("the-golden-sound", "The Golden Sound",
		"lannisport", "riverrun", "searoad-marches",
		"ironmans-bay", "sunset-sea")
	sea("the-narrow-sea", "The Narrow Sea",
		"moat-cailin", "white-harbor", "widows-watch", "the-twins", "the-fingers",
		"the-mountains-of-the-moon", "the-eyrie", "crackclaw-point",
		"the-shivering-sea", "shipbreaker-bay")
	sea("blackwater-bay", "Blackwater Bay",
		"kings-landing", "crackclaw-point", "kingswood",
		"shipbreaker-bay")
	sea("shipbreaker-bay", "Shipbreaker Bay",
		"dragonstone", "crackclaw-point", "kingswood", "storms-end",
		"the-narrow-sea", "blackwater-bay", "east-summer-sea")
	sea("redwyne-straits", "Redwyne Straits",
		"highgarden", "oldtown", "the-arbor", "three-towers",
		"west-summer-sea")
	sea("west-summer-sea", "West Summer Sea",
		"highgarden", "searoad-marches", "three-towers", "the-arbor", "starfall",
		"sunset-sea", "redwyne-straits", "east-summer-sea")
	sea("east-summer-sea", "East Summer Sea",
		"sunspear", "salt-shore", "starfall", "storms-end",
		"west-summer-sea", "sea-of-dorne", "shipbreaker-bay")
	sea("sea-of-dorne", "Sea of Dorne",
		"sunspear", "yronwood", "storms-end", "the-boneway",
		"east-summer-sea")

	// =========================================================================
	// Ports
	// =========================================================================
	port("winterfell-port", "Winterfell Port", "winterfell", "bay-of-ice")
	port("white-harbor-port", "White Harbor Port", "white-harbor", "the-narrow-sea")
	port("pyke-port", "Pyke Port", "pyke", "ironmans-bay")
	port("lannisport-port", "Lannisport Port", "lannisport", "the-golden-sound")
	port("dragonstone-port", "Dragonstone Port", "dragonstone", "shipbreaker-bay")
	port("storms-end-port", "Storm's End Port", "storms-end", "shipbreaker-bay")
	port("highgarden-port", "Highgarden Port", "highgarden", "redwyne-straits")
	port("oldtown-port", "Oldtown Port", "oldtown", "redwyne-straits")
	port("sunspear-port", "Sunspear Port", "sunspear", "east-summer-sea")

	return m
}
