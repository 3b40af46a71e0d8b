package westeros

// HouseCard is one of the seven combat cards in a house's deck.
type HouseCard struct {
	ID             string
	Name           string
	House          House
	Strength       int
	Swords         int
	Fortifications int
}

// houseDecks holds the fixed seven-card deck of each house. Abilities
// are dispatched on card ID in the combat engine.
var houseDecks = map[House][]HouseCard{
	Stark: {
		{ID: "stark-eddard", Name: "Eddard Stark", House: Stark, Strength: 4, Swords: 2},
		{ID: "stark-robb", Name: "Robb Stark", House: Stark, Strength: 3},
		{ID: "stark-greatjon", Name: "Greatjon Umber", House: Stark, Strength: 2, Swords: 2},
		{ID: "stark-bolton", Name: "Roose Bolton", House: Stark, Strength: 2},
		{ID: "stark-blackfish", Name: "The Blackfish", House: Stark, Strength: 1},
		{ID: "stark-rodrik", Name: "Ser Rodrik Cassel", House: Stark, Strength: 1, Fortifications: 2},
		{ID: "stark-catelyn", Name: "Catelyn Stark", House: Stark, Strength: 0},
	},
	Lannister: {
		{ID: "lan-tywin", Name: "Tywin Lannister", House: Lannister, Strength: 4},
		{ID: "lan-gregor", Name: "Ser Gregor Clegane", House: Lannister, Strength: 3, Swords: 3},
		{ID: "lan-jaime", Name: "Ser Jaime Lannister", House: Lannister, Strength: 2, Swords: 1},
		{ID: "lan-hound", Name: "The Hound", House: Lannister, Strength: 2, Fortifications: 2},
		{ID: "lan-tyrion", Name: "Tyrion Lannister", House: Lannister, Strength: 1},
		{ID: "lan-kevan", Name: "Ser Kevan Lannister", House: Lannister, Strength: 1},
		{ID: "lan-cersei", Name: "Cersei Lannister", House: Lannister, Strength: 0},
	},
	Baratheon: {
		{ID: "bar-stannis", Name: "Stannis Baratheon", House: Baratheon, Strength: 4},
		{ID: "bar-renly", Name: "Renly Baratheon", House: Baratheon, Strength: 3},
		{ID: "bar-brienne", Name: "Brienne of Tarth", House: Baratheon, Strength: 2, Swords: 1, Fortifications: 1},
		{ID: "bar-davos", Name: "Ser Davos Seaworth", House: Baratheon, Strength: 2},
		{ID: "bar-melisandre", Name: "Melisandre", House: Baratheon, Strength: 1, Swords: 1},
		{ID: "bar-salladhor", Name: "Salladhor Saan", House: Baratheon, Strength: 1},
		{ID: "bar-patchface", Name: "Patchface", House: Baratheon, Strength: 0},
	},
	Greyjoy: {
		{ID: "grey-euron", Name: "Euron Crow's Eye", House: Greyjoy, Strength: 4, Swords: 1},
		{ID: "grey-victarion", Name: "Victarion Greyjoy", House: Greyjoy, Strength: 3},
		{ID: "grey-balon", Name: "Balon Greyjoy", House: Greyjoy, Strength: 2},
		{ID: "grey-theon", Name: "Theon Greyjoy", House: Greyjoy, Strength: 2},
		{ID: "grey-asha", Name: "Asha Greyjoy", House: Greyjoy, Strength: 1},
		{ID: "grey-dagmer", Name: "Dagmer Cleftjaw", House: Greyjoy, Strength: 1, Swords: 1, Fortifications: 1},
		{ID: "grey-aeron", Name: "Aeron Damphair", House: Greyjoy, Strength: 0},
	},
	Tyrell: {
		{ID: "tyr-mace", Name: "Mace Tyrell", House: Tyrell, Strength: 4},
		{ID: "tyr-loras", Name: "Ser Loras Tyrell", House: Tyrell, Strength: 3},
		{ID: "tyr-garlan", Name: "Ser Garlan Tyrell", House: Tyrell, Strength: 2, Swords: 2},
		{ID: "tyr-randyll", Name: "Randyll Tarly", House: Tyrell, Strength: 2, Swords: 2},
		{ID: "tyr-margaery", Name: "Margaery Tyrell", House: Tyrell, Strength: 1, Fortifications: 1},
		{ID: "tyr-alester", Name: "Alester Florent", House: Tyrell, Strength: 1, Fortifications: 1},
		{ID: "tyr-queen", Name: "Queen of Thorns", House: Tyrell, Strength: 0},
	},
	Martell: {
		{ID: "mar-viper", Name: "The Red Viper", House: Martell, Strength: 4, Swords: 2, Fortifications: 1},
		{ID: "mar-areo", Name: "Areo Hotah", House: Martell, Strength: 3, Fortifications: 1},
		{ID: "mar-obara", Name: "Obara Sand", House: Martell, Strength: 2, Swords: 1},
		{ID: "mar-darkstar", Name: "Darkstar", House: Martell, Strength: 2, Swords: 1},
		{ID: "mar-nymeria", Name: "Nymeria Sand", House: Martell, Strength: 1},
		{ID: "mar-arianne", Name: "Arianne Martell", House: Martell, Strength: 1},
		{ID: "mar-doran", Name: "Doran Martell", House: Martell, Strength: 0},
	},
}

// HouseDeck returns a fresh copy of a house's seven-card deck.
func HouseDeck(h House) []HouseCard {
	deck := make([]HouseCard, len(houseDecks[h]))
	copy(deck, houseDecks[h])
	return deck
}

// WesterosCard is an event card from one of the three Westeros decks.
type WesterosCard struct {
	Deck         int // 1-3
	ID           string
	Name         string
	WildlingIcon bool
}

// Westeros card names, used for dispatch during event resolution.
const (
	CardSupply         = "Supply"
	CardMustering      = "Mustering"
	CardThroneOfBlades = "A Throne of Blades"
	CardWinterIsComing = "Winter is Coming"
	CardLastDays       = "Last Days of Summer"
	CardClashOfKings   = "Clash of Kings"
	CardGameOfThrones  = "Game of Thrones"
	CardDarkWings      = "Dark Wings, Dark Words"
	CardWildlingAttack = "Wildling Attack"
	CardPutToTheSword  = "Put to the Sword"
	CardSeaOfStorms    = "Sea of Storms"
	CardRainsOfAutumn  = "Rains of Autumn"
	CardFeastForCrows  = "Feast for Crows"
	CardWebOfLies      = "Web of Lies"
	CardStormOfSwords  = "Storm of Swords"
)

var westerosDeck1 = []WesterosCard{
	{1, "w1-supply-1", CardSupply, false},
	{1, "w1-supply-2", CardSupply, false},
	{1, "w1-supply-3", CardSupply, false},
	{1, "w1-mustering-1", CardMustering, false},
	{1, "w1-mustering-2", CardMustering, false},
	{1, "w1-mustering-3", CardMustering, false},
	{1, "w1-throne-of-blades-1", CardThroneOfBlades, true},
	{1, "w1-throne-of-blades-2", CardThroneOfBlades, true},
	{1, "w1-winter-is-coming", CardWinterIsComing, false},
	{1, "w1-last-days-of-summer", CardLastDays, true},
}

var westerosDeck2 = []WesterosCard{
	{2, "w2-clash-of-kings-1", CardClashOfKings, false},
	{2, "w2-clash-of-kings-2", CardClashOfKings, false},
	{2, "w2-clash-of-kings-3", CardClashOfKings, false},
	{2, "w2-game-of-thrones-1", CardGameOfThrones, false},
	{2, "w2-game-of-thrones-2", CardGameOfThrones, false},
	{2, "w2-game-of-thrones-3", CardGameOfThrones, false},
	{2, "w2-dark-wings-1", CardDarkWings, true},
	{2, "w2-dark-wings-2", CardDarkWings, true},
	{2, "w2-winter-is-coming", CardWinterIsComing, false},
	{2, "w2-last-days-of-summer", CardLastDays, true},
}

var westerosDeck3 = []WesterosCard{
	{3, "w3-wildling-attack-1", CardWildlingAttack, false},
	{3, "w3-wildling-attack-2", CardWildlingAttack, false},
	{3, "w3-wildling-attack-3", CardWildlingAttack, false},
	{3, "w3-put-to-the-sword-1", CardPutToTheSword, true},
	{3, "w3-put-to-the-sword-2", CardPutToTheSword, true},
	{3, "w3-sea-of-storms", CardSeaOfStorms, true},
	{3, "w3-rains-of-autumn", CardRainsOfAutumn, true},
	{3, "w3-feast-for-crows", CardFeastForCrows, true},
	{3, "w3-web-of-lies", CardWebOfLies, true},
	{3, "w3-storm-of-swords", CardStormOfSwords, true},
}

// WesterosDeck returns a fresh copy of Westeros deck 1, 2, or 3.
func WesterosDeck(deck int) []WesterosCard {
	var src []WesterosCard
	switch deck {
	case 1:
		src = westerosDeck1
	case 2:
		src = westerosDeck2
	case 3:
		src = westerosDeck3
	default:
		return nil
	}
	out := make([]WesterosCard, len(src))
	copy(out, src)
	return out
}

// WildlingCard is a card from the nine-card wildling deck.
type WildlingCard struct {
	ID   string
	Name string
}

var wildlingDeck = []WildlingCard{
	{"king-beyond-wall", "A King Beyond the Wall"},
	{"crow-killers", "Crow Killers"},
	{"mammoth-riders", "Mammoth Riders"},
	{"massing-milkwater", "Massing on the Milkwater"},
	{"preemptive-raid", "Preemptive Raid"},
	{"rattleshirts-raiders", "Rattleshirt's Raiders"},
	{"silence-at-wall", "Silence at the Wall"},
	{"skinchanger-scout", "Skinchanger Scout"},
	{"horde-descends", "The Horde Descends"},
}

// WildlingDeck returns a fresh copy of the wildling deck.
func WildlingDeck() []WildlingCard {
	out := make([]WildlingCard, len(wildlingDeck))
	copy(out, wildlingDeck)
	return out
}
