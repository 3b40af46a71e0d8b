package westeros

// cardDef looks up a card's printed values in the house's fixed deck.
func cardDef(h House, id string) HouseCard {
	for _, c := range houseDecks[h] {
		if c.ID == id {
			return c
		}
	}
	return HouseCard{}
}

// sideSupported reports whether the given combatant is receiving any
// support, own orders or a third party's declaration.
func (gs *GameState) sideSupported(cb *Combat, h House, choice SupportChoice) bool {
	if len(gs.supportAreasOf(h, cb.AreaID)) > 0 {
		return true
	}
	for _, c := range cb.SupportDecisions {
		if c == choice {
			return true
		}
	}
	return false
}

// combatUnitCount counts the attacker's committed units of a type plus
// the units of that type in the attacker's own supporting areas.
func (gs *GameState) combatUnitCount(cb *Combat, t UnitType) int {
	n := 0
	for _, u := range cb.AttackingUnits {
		if u.Type == t {
			n++
		}
	}
	for _, id := range gs.supportAreasOf(cb.Attacker, cb.AreaID) {
		for _, u := range gs.Board[id].Units {
			if u.Type == t {
				n++
			}
		}
	}
	return n
}

// zeroedShipSupport totals the ships in third-party support areas that
// declared for the opponent of the Salladhor Saan player. Baratheon
// ships are exempt.
func (gs *GameState) zeroedShipSupport(cb *Combat, salladhor House, oppChoice SupportChoice) int {
	m := StandardMap()
	total := 0
	for id, choice := range cb.SupportDecisions {
		if choice != oppChoice {
			continue
		}
		sa := gs.Board[id]
		if sa.Controller == salladhor || sa.Controller == Baratheon {
			continue
		}
		if !m.Adjacent(id, cb.AreaID) {
			continue
		}
		for _, u := range sa.Units {
			if u.Type == Ship {
				total++
			}
		}
	}
	return total
}

func removeFirstFootman(ns *GameState, units []Unit, owner House) []Unit {
	for i, u := range units {
		if u.Type == Footman {
			ns.Houses[owner].Pool.Add(Footman, 1)
			return append(units[:i], units[i+1:]...)
		}
	}
	return units
}

// resolveBattle settles the combat on ns: card abilities, final
// strengths, casualties, winner effects, and the loser's retreat.
func resolveBattle(ns *GameState) {
	cb := ns.Combat
	m := StandardMap()
	area := m.Areas[cb.AreaID]
	as := ns.Board[cb.AreaID]

	aCard := cardDef(cb.Attacker, cb.AttackerCard)
	dCard := cardDef(cb.Defender, cb.DefenderCard)

	aStr, dStr := aCard.Strength, dCard.Strength
	aSwords, dSwords := aCard.Swords, dCard.Swords
	aForts, dForts := aCard.Fortifications, dCard.Fortifications

	// Balon Greyjoy: the opposing card's printed strength is zero.
	if aCard.ID == "grey-balon" {
		dStr = 0
	}
	if dCard.ID == "grey-balon" {
		aStr = 0
	}

	// Stannis: +1 when the opponent sits higher on the Iron Throne.
	aThrone := ns.Houses[cb.Attacker].Influence.IronThrone
	dThrone := ns.Houses[cb.Defender].Influence.IronThrone
	if aCard.ID == "bar-stannis" && dThrone < aThrone {
		aStr++
	}
	if dCard.ID == "bar-stannis" && aThrone < dThrone {
		dStr++
	}

	// Davos: stronger once Stannis is in the discard pile.
	if aCard.ID == "bar-davos" && ns.Houses[cb.Attacker].DiscardedCard("bar-stannis") != nil {
		aStr++
		aSwords++
	}
	if dCard.ID == "bar-davos" && ns.Houses[cb.Defender].DiscardedCard("bar-stannis") != nil {
		dStr++
		dSwords++
	}

	// Kevan: attacking and supporting footmen count double.
	if aCard.ID == "lan-kevan" {
		aStr += ns.combatUnitCount(cb, Footman)
	}
	// Victarion: attacking and supporting ships count double.
	if aCard.ID == "grey-victarion" {
		aStr += ns.combatUnitCount(cb, Ship)
	}

	// Catelyn: the embattled area's Defense order counts twice.
	if dCard.ID == "stark-catelyn" && as.Order != nil && as.Order.Type == Defense {
		cb.DefenderStrength += as.Order.Strength
	}

	// Theon: stronger defending a fortified area.
	if dCard.ID == "grey-theon" && area.HasFortification() {
		dStr++
		dSwords++
	}

	// Asha: icon bonus when fighting unsupported.
	if aCard.ID == "grey-asha" && !ns.sideSupported(cb, cb.Attacker, SupportAttacker) {
		aSwords += 2
		aForts++
	}
	if dCard.ID == "grey-asha" && !ns.sideSupported(cb, cb.Defender, SupportDefender) {
		dSwords += 2
		dForts++
	}

	// Nymeria: a sword attacking, a fortification defending.
	if aCard.ID == "mar-nymeria" {
		aSwords++
	}
	if dCard.ID == "mar-nymeria" {
		dForts++
	}

	// Salladhor Saan: while his side is supported, non-Baratheon ships
	// supporting the enemy contribute nothing.
	if aCard.ID == "bar-salladhor" && ns.sideSupported(cb, cb.Attacker, SupportAttacker) {
		cb.DefenderStrength -= ns.zeroedShipSupport(cb, cb.Attacker, SupportDefender)
	}
	if dCard.ID == "bar-salladhor" && ns.sideSupported(cb, cb.Defender, SupportDefender) {
		cb.AttackerStrength -= ns.zeroedShipSupport(cb, cb.Defender, SupportAttacker)
	}

	finalAttacker := cb.AttackerStrength + aStr
	finalDefender := cb.DefenderStrength + dStr

	attackerWins := finalAttacker > finalDefender
	if finalAttacker == finalDefender {
		// Ties break toward the higher Fiefdoms position.
		attackerWins = ns.Houses[cb.Attacker].Influence.Fiefdoms <
			ns.Houses[cb.Defender].Influence.Fiefdoms
	}

	attackerKills := max(0, aSwords-dForts)
	defenderKills := max(0, dSwords-aForts)
	attackerImmune := aCard.ID == "stark-blackfish"
	defenderImmune := dCard.ID == "stark-blackfish"

	// Mace Tyrell: kill an opposing footman before casualties.
	if aCard.ID == "tyr-mace" {
		as.Units = removeFirstFootman(ns, as.Units, cb.Defender)
	}
	if dCard.ID == "tyr-mace" {
		cb.AttackingUnits = removeFirstFootman(ns, cb.AttackingUnits, cb.Attacker)
	}

	if attackerWins {
		resolveAttackerVictory(ns, cb, aCard, dCard, attackerKills, defenderKills, attackerImmune, defenderImmune)
	} else {
		resolveDefenderVictory(ns, cb, aCard, dCard, attackerKills, defenderKills, attackerImmune, defenderImmune)
	}
}

func resolveAttackerVictory(ns *GameState, cb *Combat, aCard, dCard HouseCard, attackerKills, defenderKills int, attackerImmune, defenderImmune bool) {
	as := ns.Board[cb.AreaID]
	oldOwner := as.Controller

	arianne := dCard.ID == "mar-arianne"

	survivors := append([]Unit(nil), as.Units...)
	if !defenderImmune {
		for i := 0; i < attackerKills && len(survivors) > 0; i++ {
			killed := survivors[len(survivors)-1]
			survivors = survivors[:len(survivors)-1]
			ns.Houses[cb.Defender].Pool.Add(killed.Type, 1)
		}
	}
	if !attackerImmune {
		for i := 0; i < defenderKills && len(cb.AttackingUnits) > 0; i++ {
			killed := cb.AttackingUnits[len(cb.AttackingUnits)-1]
			cb.AttackingUnits = cb.AttackingUnits[:len(cb.AttackingUnits)-1]
			ns.Houses[cb.Attacker].Pool.Add(killed.Type, 1)
		}
	}

	if arianne {
		// Arianne Martell: the attacker may not enter the area.
		as.Units = nil
		as.Controller = NoHouse
		origin := ns.Board[cb.FromArea]
		origin.Units = append(origin.Units, cb.AttackingUnits...)
		if origin.Controller == NoHouse {
			origin.Controller = cb.Attacker
		}
	} else {
		as.Units = append([]Unit(nil), cb.AttackingUnits...)
		as.Controller = cb.Attacker
		destroyPortShips(ns, cb.AreaID, oldOwner)
	}

	if aCard.ID == "lan-tywin" {
		hs := ns.Houses[cb.Attacker]
		hs.Power = min(MaxPower, hs.Power+2)
	}
	if aCard.ID == "bar-renly" {
		renlyUpgrade(ns, cb.Attacker, cb.AreaID)
	}
	if aCard.ID == "lan-cersei" {
		cerseiRemoveOrder(ns, cb.Defender)
	}
	if aCard.ID == "tyr-loras" && !arianne {
		// The march order follows Loras into the conquered area.
		as.Order = &Order{Type: March, House: cb.Attacker, TokenIndex: 1}
	}
	queenOfThorns(ns, cb, aCard, cb.FromArea)
	queenOfThorns(ns, cb, dCard, cb.FromArea)
	if aCard.ID == "mar-doran" {
		applyDoran(ns, cb.Defender)
	}
	if dCard.ID == "mar-doran" {
		applyDoran(ns, cb.Attacker)
	}

	discardCombatCards(ns, cb)

	// Roose Bolton: the loser recovers all discards.
	if dCard.ID == "stark-bolton" {
		hs := ns.Houses[cb.Defender]
		hs.Hand = append(hs.Hand, hs.Discards...)
		hs.Discards = nil
	}

	if aCard.ID == "bar-patchface" && len(ns.Houses[cb.Defender].Hand) > 0 {
		ns.PendingPatchface = &PatchfacePeek{Winner: cb.Attacker, Opponent: cb.Defender}
	}

	ns.Combat = nil
	ns.Phase = PhaseAction

	if len(survivors) > 0 {
		// Robb Stark: the winner picks the loser's retreat area.
		if aCard.ID == "stark-robb" {
			choices := forcedRetreatChoices(ns, cb.Defender, cb.AreaID, cb.FromArea)
			if len(choices) > 0 {
				ns.PendingForcedRetreat = &ForcedRetreat{
					Winner:    cb.Attacker,
					Retreater: cb.Defender,
					Units:     survivors,
					FromArea:  cb.AreaID,
					Choices:   choices,
				}
				checkVictory(ns)
				return
			}
		}
		initiateRetreat(ns, cb.Defender, survivors, cb.AreaID, cb.FromArea)
	}

	checkVictory(ns)
}

func resolveDefenderVictory(ns *GameState, cb *Combat, aCard, dCard HouseCard, attackerKills, defenderKills int, attackerImmune, defenderImmune bool) {
	as := ns.Board[cb.AreaID]

	if !attackerImmune {
		for i := 0; i < defenderKills && len(cb.AttackingUnits) > 0; i++ {
			killed := cb.AttackingUnits[len(cb.AttackingUnits)-1]
			cb.AttackingUnits = cb.AttackingUnits[:len(cb.AttackingUnits)-1]
			ns.Houses[cb.Attacker].Pool.Add(killed.Type, 1)
		}
	}
	if !defenderImmune {
		for i := 0; i < attackerKills && len(as.Units) > 0; i++ {
			killed := as.Units[len(as.Units)-1]
			as.Units = as.Units[:len(as.Units)-1]
			ns.Houses[cb.Defender].Pool.Add(killed.Type, 1)
		}
	}

	if dCard.ID == "lan-tywin" {
		hs := ns.Houses[cb.Defender]
		hs.Power = min(MaxPower, hs.Power+2)
	}
	if dCard.ID == "bar-renly" {
		renlyUpgrade(ns, cb.Defender, cb.AreaID)
	}
	if dCard.ID == "lan-cersei" {
		cerseiRemoveOrder(ns, cb.Attacker)
	}
	queenOfThorns(ns, cb, aCard, "")
	queenOfThorns(ns, cb, dCard, "")
	if aCard.ID == "mar-doran" {
		applyDoran(ns, cb.Defender)
	}
	if dCard.ID == "mar-doran" {
		applyDoran(ns, cb.Attacker)
	}

	discardCombatCards(ns, cb)

	if aCard.ID == "stark-bolton" {
		hs := ns.Houses[cb.Attacker]
		hs.Hand = append(hs.Hand, hs.Discards...)
		hs.Discards = nil
	}

	if dCard.ID == "bar-patchface" && len(ns.Houses[cb.Attacker].Hand) > 0 {
		ns.PendingPatchface = &PatchfacePeek{Winner: cb.Defender, Opponent: cb.Attacker}
	}

	survivors := cb.AttackingUnits
	fromArea := cb.FromArea
	attacker := cb.Attacker
	ns.Combat = nil
	ns.Phase = PhaseAction

	if len(survivors) == 0 || fromArea == "" {
		return
	}

	if dCard.ID == "stark-robb" {
		choices := forcedRetreatChoices(ns, attacker, cb.AreaID, "")
		if len(choices) > 0 {
			ns.PendingForcedRetreat = &ForcedRetreat{
				Winner:    cb.Defender,
				Retreater: attacker,
				Units:     survivors,
				FromArea:  cb.AreaID,
				Choices:   choices,
			}
			return
		}
	}

	// The beaten attacker falls back to the march origin, routed.
	origin := ns.Board[fromArea]
	for _, u := range survivors {
		u.Routed = true
		origin.Units = append(origin.Units, u)
	}
	if origin.Controller == NoHouse {
		origin.Controller = attacker
	}
}

// renlyUpgrade promotes one participating or supporting footman to a
// knight, combat area first.
func renlyUpgrade(ns *GameState, winner House, areaID string) {
	hs := ns.Houses[winner]
	if hs.Pool.Knights == 0 {
		return
	}
	as := ns.Board[areaID]
	for i := range as.Units {
		if as.Units[i].Type == Footman && as.Units[i].House == winner {
			as.Units[i].Type = Knight
			hs.Pool.Footmen++
			hs.Pool.Knights--
			return
		}
	}
	for _, id := range ns.supportAreasOf(winner, areaID) {
		sa := ns.Board[id]
		for i := range sa.Units {
			if sa.Units[i].Type == Footman && sa.Units[i].House == winner {
				sa.Units[i].Type = Knight
				hs.Pool.Footmen++
				hs.Pool.Knights--
				return
			}
		}
	}
}

// cerseiRemoveOrder removes one of the loser's remaining orders.
func cerseiRemoveOrder(ns *GameState, loser House) {
	for _, id := range ns.sortedAreaIDs() {
		as := ns.Board[id]
		if as.Order != nil && as.Order.House == loser {
			as.Order = nil
			return
		}
	}
}

// queenOfThorns removes one opposing order adjacent to the combat area.
// The march origin's order is protected.
func queenOfThorns(ns *GameState, cb *Combat, card HouseCard, exclude string) {
	if card.ID != "tyr-queen" {
		return
	}
	opponent := cb.Defender
	if card.House == cb.Defender {
		opponent = cb.Attacker
	}
	for _, adjID := range StandardMap().Areas[cb.AreaID].Adjacent {
		if adjID == exclude {
			continue
		}
		adj := ns.Board[adjID]
		if adj != nil && adj.Order != nil && adj.Order.House == opponent {
			adj.Order = nil
			return
		}
	}
}

// applyDoran drops the opponent to the bottom of their best influence
// track; everyone below shifts up one.
func applyDoran(ns *GameState, opponent House) {
	hs := ns.Houses[opponent]
	best := IronThrone
	for _, t := range []Track{Fiefdoms, KingsCourt} {
		if hs.Influence.Position(t) < hs.Influence.Position(best) {
			best = t
		}
	}
	oldPos := hs.Influence.Position(best)
	for h, other := range ns.Houses {
		if h != opponent && other.Influence.Position(best) > oldPos {
			other.Influence.SetPosition(best, other.Influence.Position(best)-1)
		}
	}
	hs.Influence.SetPosition(best, len(ns.Houses))
	ns.sortTurnOrder()
}
