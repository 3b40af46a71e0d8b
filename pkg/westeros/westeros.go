package westeros

import (
	"strconv"
	"strings"
)

// reshuffleWesterosDeck rebuilds a full Westeros deck, shuffles it, and
// returns it with the top card already drawn.
func reshuffleWesterosDeck(ns *GameState, deck int) (WesterosCard, []WesterosCard) {
	fresh := WesterosDeck(deck)
	shuffleWesteros(fresh, ns.rand())
	return fresh[0], fresh[1:]
}

// ResolveNextWesterosCard resolves the next drawn Westeros card in deck
// order. A Winter is Coming reshuffle replaces the card in place and
// waits to be resolved again.
func ResolveNextWesterosCard(gs *GameState) (*GameState, error) {
	const op = "resolve westeros card"

	if gs.Phase != PhaseWesteros {
		return gs, ruleErr(op, "not in the westeros phase")
	}
	if gs.DrawnWesterosCards == nil {
		return gs, ruleErr(op, "no westeros cards drawn")
	}
	if gs.PendingBidding != nil || gs.PendingDecision != nil ||
		len(gs.PendingMustering) > 0 || len(gs.PendingReconcile) > 0 ||
		gs.PendingGameOfThrones {
		return gs, ruleErr(op, "the previous card is still resolving")
	}

	ns := gs.Clone()

	idx := ns.WesterosIndex
	if idx >= len(ns.DrawnWesterosCards) {
		ns.DrawnWesterosCards = nil
		ns.WesterosIndex = 0
		tryAdvanceWesteros(ns)
		return ns, nil
	}

	card := ns.DrawnWesterosCards[idx]
	applyWesterosCardEffect(ns, card, idx)

	// A reshuffle swapped in a new card; resolve it on the next call.
	if ns.DrawnWesterosCards[idx].ID != card.ID {
		return ns, nil
	}

	ns.WesterosIndex = idx + 1
	if ns.WesterosIndex >= len(ns.DrawnWesterosCards) &&
		ns.PendingBidding == nil && ns.PendingDecision == nil &&
		len(ns.PendingMustering) == 0 && len(ns.PendingReconcile) == 0 &&
		!ns.PendingGameOfThrones {
		ns.DrawnWesterosCards = nil
		ns.WesterosIndex = 0
		tryAdvanceWesteros(ns)
	}
	return ns, nil
}

var bannedOrderEffects = map[string][]OrderType{
	CardSeaOfStorms:   {Raid},
	CardFeastForCrows: {ConsolidatePower},
	CardWebOfLies:     {Support},
	CardStormOfSwords: {Defense},
}

var bannedStarOrderEffects = map[string][]OrderType{
	CardRainsOfAutumn: {March},
}

func applyWesterosCardEffect(ns *GameState, card WesterosCard, deckIndex int) {
	if card.Name == CardWinterIsComing {
		newCard, rest := reshuffleWesterosDeck(ns, deckIndex+1)
		switch deckIndex {
		case 0:
			ns.WesterosDeck1 = rest
		case 1:
			ns.WesterosDeck2 = rest
		default:
			ns.WesterosDeck3 = rest
		}
		ns.DrawnWesterosCards[deckIndex] = newCard
		return
	}

	switch deckIndex {
	case 0:
		switch card.Name {
		case CardMustering:
			triggerMustering(ns)
		case CardThroneOfBlades:
			ns.PendingDecision = &Decision{
				Card:    card.Name,
				Chooser: ns.TrackHolder(IronThrone),
				Options: []DecisionOption{
					{Label: "Mustering", Action: "Mustering"},
					{Label: "Supply", Action: "Supply"},
				},
			}
		case CardSupply:
			recalculateSupply(ns)
			queueSupplyReconciliation(ns)
		}
	case 1:
		switch card.Name {
		case CardClashOfKings:
			ns.PendingBidding = &Bidding{
				Target:    BidIronThrone,
				Bids:      make(map[House]int),
				Remaining: []Track{Fiefdoms, KingsCourt},
			}
		case CardDarkWings:
			ns.PendingDecision = &Decision{
				Card:    card.Name,
				Chooser: ns.TrackHolder(KingsCourt),
				Options: []DecisionOption{
					{Label: "Clash of Kings", Action: "Clash of Kings"},
					{Label: "Game of Thrones", Action: "Game of Thrones"},
				},
			}
		case CardGameOfThrones:
			ns.PendingGameOfThrones = true
		}
	default:
		// A full threat track turns any deck III card into an attack.
		if card.Name == CardWildlingAttack || ns.WildlingThreat >= MaxWildlingThreat {
			if ns.PendingBidding == nil {
				ns.PendingBidding = &Bidding{
					Target: BidWildling,
					Bids:   make(map[House]int),
				}
			}
			return
		}
		if card.Name == CardPutToTheSword {
			ns.PendingDecision = &Decision{
				Card:    card.Name,
				Chooser: ns.TrackHolder(Fiefdoms),
				Options: []DecisionOption{
					{Label: "No Defense", Action: CardStormOfSwords},
					{Label: "No March +1", Action: CardRainsOfAutumn},
					{Label: "No Support", Action: CardWebOfLies},
					{Label: "No Consolidate Power", Action: CardFeastForCrows},
					{Label: "No Raid", Action: CardSeaOfStorms},
				},
			}
			return
		}
		ns.BannedOrders = nil
		ns.BannedStarOrders = nil
		if banned, ok := bannedOrderEffects[card.Name]; ok {
			ns.BannedOrders = banned
		}
		if banned, ok := bannedStarOrderEffects[card.Name]; ok {
			ns.BannedStarOrders = banned
		}
	}
}

// MakeDecision answers the pending event decision with one of its
// option actions.
func MakeDecision(gs *GameState, action string) (*GameState, error) {
	const op = "make decision"

	pd := gs.PendingDecision
	if pd == nil {
		return gs, ruleErr(op, "no decision pending")
	}
	valid := false
	for _, opt := range pd.Options {
		if opt.Action == action {
			valid = true
			break
		}
	}
	if !valid {
		return gs, ruleErr(op, "%q is not an option", action)
	}

	ns := gs.Clone()
	chooser := ns.PendingDecision.Chooser
	ns.PendingDecision = nil

	switch {
	case action == "Mustering":
		triggerMustering(ns)
	case action == "Supply":
		recalculateSupply(ns)
		queueSupplyReconciliation(ns)
	case action == "Clash of Kings":
		ns.PendingBidding = &Bidding{
			Target:    BidIronThrone,
			Bids:      make(map[House]int),
			Remaining: []Track{Fiefdoms, KingsCourt},
		}
	case action == "Game of Thrones":
		ns.PendingGameOfThrones = true
	case strings.HasPrefix(action, "horde-muster:"):
		parts := strings.Split(action, ":")
		points, err := strconv.Atoi(parts[2])
		if err != nil {
			return gs, ruleErr(op, "malformed option %q", action)
		}
		ns.PendingMustering = []MusterSite{{House: chooser, AreaID: parts[1], Points: points}}
	case action == "preemptive-destroy":
		destroyUnitsAuto(ns, chooser, 2)
		tryAdvanceWesteros(ns)
	case action == "preemptive-track":
		dropTwoOnBestTrack(ns, chooser)
		tryAdvanceWesteros(ns)
	case action == "Nothing":
	default:
		ns.BannedOrders = nil
		ns.BannedStarOrders = nil
		if banned, ok := bannedOrderEffects[action]; ok {
			ns.BannedOrders = banned
		}
		if banned, ok := bannedStarOrderEffects[action]; ok {
			ns.BannedStarOrders = banned
		}
	}
	return ns, nil
}

// dropTwoOnBestTrack moves the house down two positions on its best
// influence track; houses in between shift up.
func dropTwoOnBestTrack(ns *GameState, h House) {
	hs := ns.Houses[h]
	best := IronThrone
	for _, t := range []Track{Fiefdoms, KingsCourt} {
		if hs.Influence.Position(t) < hs.Influence.Position(best) {
			best = t
		}
	}
	oldPos := hs.Influence.Position(best)
	newPos := min(len(ns.Houses), oldPos+2)
	for other, os := range ns.Houses {
		if other == h {
			continue
		}
		pos := os.Influence.Position(best)
		if pos > oldPos && pos <= newPos {
			os.Influence.SetPosition(best, pos-1)
		}
	}
	hs.Influence.SetPosition(best, newPos)
	ns.sortTurnOrder()
}

// tryAdvanceWesteros moves on to Planning once nothing from the
// Westeros phase is left to resolve. Game of Thrones income resolves
// automatically on the way.
func tryAdvanceWesteros(ns *GameState) {
	if ns.Phase != PhaseWesteros {
		return
	}
	if ns.DrawnWesterosCards != nil || ns.CurrentWildlingCard != nil || ns.PendingDecision != nil {
		return
	}
	if ns.PendingGameOfThrones {
		gameOfThronesGains(ns)
		ns.PendingGameOfThrones = false
	}
	if len(ns.PendingMustering) > 0 || ns.PendingBidding != nil || len(ns.PendingReconcile) > 0 {
		return
	}
	ns.Phase = PhasePlanning
}

// AcknowledgeWesterosCards dismisses the drawn card display once all
// three cards have been resolved.
func AcknowledgeWesterosCards(gs *GameState) (*GameState, error) {
	const op = "acknowledge westeros cards"

	if gs.DrawnWesterosCards == nil {
		return gs, ruleErr(op, "no westeros cards drawn")
	}
	if gs.WesterosIndex < len(gs.DrawnWesterosCards) {
		return gs, ruleErr(op, "cards remain unresolved")
	}

	ns := gs.Clone()
	ns.DrawnWesterosCards = nil
	ns.WesterosIndex = 0
	tryAdvanceWesteros(ns)
	return ns, nil
}

// AcknowledgeWildlingCard dismisses the revealed wildling card.
func AcknowledgeWildlingCard(gs *GameState) (*GameState, error) {
	const op = "acknowledge wildling card"

	if gs.CurrentWildlingCard == nil {
		return gs, ruleErr(op, "no wildling card revealed")
	}

	ns := gs.Clone()
	ns.CurrentWildlingCard = nil
	tryAdvanceWesteros(ns)
	return ns, nil
}

func gameOfThronesGains(ns *GameState) {
	m := StandardMap()
	for _, h := range ns.TurnOrder {
		gain := 0
		for id, as := range ns.Board {
			if as.Controller == h {
				gain += m.Areas[id].Power
			}
		}
		if gain > 0 {
			hs := ns.Houses[h]
			hs.Power = min(MaxPower, hs.Power+gain)
		}
	}
}

// ResolveGameOfThrones pays out crown icon income for the pending Game
// of Thrones event.
func ResolveGameOfThrones(gs *GameState) (*GameState, error) {
	const op = "game of thrones"

	if !gs.PendingGameOfThrones {
		return gs, ruleErr(op, "no game of thrones pending")
	}

	ns := gs.Clone()
	gameOfThronesGains(ns)
	ns.PendingGameOfThrones = false
	tryAdvanceWesteros(ns)
	return ns, nil
}

// triggerMustering queues a muster site for every controlled castle and
// stronghold.
func triggerMustering(ns *GameState) {
	m := StandardMap()
	var sites []MusterSite
	for _, id := range ns.sortedAreaIDs() {
		as := ns.Board[id]
		area := m.Areas[id]
		if as.Controller != NoHouse && area.HasFortification() {
			sites = append(sites, MusterSite{
				House:  as.Controller,
				AreaID: id,
				Points: area.MusterPoints(),
			})
		}
	}
	ns.PendingMustering = sites
}

// canMusterInPort reports whether the port has room for another ship.
func canMusterInPort(gs *GameState, portID string) bool {
	area := StandardMap().Areas[portID]
	if area == nil || area.Type != Port {
		return false
	}
	ships := 0
	for _, u := range gs.Board[portID].Units {
		if u.Type == Ship {
			ships++
		}
	}
	return ships < area.MaxShips
}

// MusterUnit spends mustering points at a site to place a new unit.
// Ships go to the site's port when it has room, otherwise to an
// adjacent friendly or empty sea.
func MusterUnit(gs *GameState, areaID string, t UnitType) (*GameState, error) {
	const op = "muster"

	siteIdx := -1
	for i, site := range gs.PendingMustering {
		if site.AreaID == areaID {
			siteIdx = i
			break
		}
	}
	if siteIdx < 0 {
		return gs, ruleErr(op, "%s has no mustering points", areaID)
	}
	site := gs.PendingMustering[siteIdx]
	cost := MusterCost(t)
	if cost > site.Points {
		return gs, ruleErr(op, "%s costs %d, %s has %d points left", t, cost, areaID, site.Points)
	}
	if gs.Houses[site.House].Pool.Count(t) <= 0 {
		return gs, ruleErr(op, "%s has no %s left in the pool", site.House, t)
	}

	m := StandardMap()
	targetID := areaID
	if t == Ship {
		targetID = ""
		if portID := m.PortFor(areaID); portID != "" && canMusterInPort(gs, portID) {
			targetID = portID
		} else {
			for _, adjID := range m.Areas[areaID].Adjacent {
				adj := m.Areas[adjID]
				if adj.Type != Sea {
					continue
				}
				as := gs.Board[adjID]
				if as.Controller == NoHouse || as.Controller == site.House {
					targetID = adjID
					break
				}
			}
		}
		if targetID == "" {
			return gs, ruleErr(op, "no port or friendly sea adjacent to %s", areaID)
		}
	}

	ns := gs.Clone()
	target := ns.Board[targetID]
	target.Units = append(target.Units, Unit{Type: t, House: site.House})
	target.Controller = site.House
	ns.Houses[site.House].Pool.Add(t, -1)

	ns.PendingMustering[siteIdx].Points -= cost
	if ns.PendingMustering[siteIdx].Points <= 0 {
		ns.PendingMustering = append(ns.PendingMustering[:siteIdx], ns.PendingMustering[siteIdx+1:]...)
	}
	if len(ns.PendingMustering) == 0 {
		ns.PendingMustering = nil
		tryAdvanceWesteros(ns)
	}
	return ns, nil
}

// UpgradeFootmanToKnight spends one mustering point to promote a
// footman at the site.
func UpgradeFootmanToKnight(gs *GameState, areaID string, unitIndex int) (*GameState, error) {
	const op = "upgrade footman"

	siteIdx := -1
	for i, site := range gs.PendingMustering {
		if site.AreaID == areaID {
			siteIdx = i
			break
		}
	}
	if siteIdx < 0 {
		return gs, ruleErr(op, "%s has no mustering points", areaID)
	}
	site := gs.PendingMustering[siteIdx]
	if site.Points < 1 {
		return gs, ruleErr(op, "%s has no points left", areaID)
	}
	as := gs.Board[areaID]
	if unitIndex < 0 || unitIndex >= len(as.Units) ||
		as.Units[unitIndex].Type != Footman || as.Units[unitIndex].House != site.House {
		return gs, ruleErr(op, "no footman of %s at index %d in %s", site.House, unitIndex, areaID)
	}
	if gs.Houses[site.House].Pool.Knights <= 0 {
		return gs, ruleErr(op, "%s has no knights left in the pool", site.House)
	}

	ns := gs.Clone()
	ns.Board[areaID].Units[unitIndex].Type = Knight
	hs := ns.Houses[site.House]
	hs.Pool.Knights--
	hs.Pool.Footmen++

	ns.PendingMustering[siteIdx].Points--
	if ns.PendingMustering[siteIdx].Points <= 0 {
		ns.PendingMustering = append(ns.PendingMustering[:siteIdx], ns.PendingMustering[siteIdx+1:]...)
	}
	if len(ns.PendingMustering) == 0 {
		ns.PendingMustering = nil
		tryAdvanceWesteros(ns)
	}
	return ns, nil
}

// SkipMustering forfeits the remaining points of one muster site.
func SkipMustering(gs *GameState, areaID string) (*GameState, error) {
	const op = "skip mustering"

	found := false
	for _, site := range gs.PendingMustering {
		if site.AreaID == areaID {
			found = true
			break
		}
	}
	if !found {
		return gs, ruleErr(op, "%s has no mustering points", areaID)
	}

	ns := gs.Clone()
	kept := ns.PendingMustering[:0]
	for _, site := range ns.PendingMustering {
		if site.AreaID != areaID {
			kept = append(kept, site)
		}
	}
	ns.PendingMustering = kept
	if len(ns.PendingMustering) == 0 {
		ns.PendingMustering = nil
		tryAdvanceWesteros(ns)
	}
	return ns, nil
}

// SkipAllMustering forfeits every remaining muster site.
func SkipAllMustering(gs *GameState) (*GameState, error) {
	const op = "skip mustering"

	if len(gs.PendingMustering) == 0 {
		return gs, ruleErr(op, "no mustering pending")
	}

	ns := gs.Clone()
	ns.PendingMustering = nil
	tryAdvanceWesteros(ns)
	return ns, nil
}
