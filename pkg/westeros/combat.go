package westeros

// supportStrength returns the strength an area's units contribute when
// supporting an adjacent combat. Siege engines contribute nothing.
func supportStrength(units []Unit) int {
	total := 0
	for _, u := range units {
		switch u.Type {
		case Knight:
			total += 2
		case SiegeEngine:
		default:
			total++
		}
	}
	return total
}

// supportAreasOf returns the IDs of areas holding a Support order of
// the given house that can reach the combat area. A port's support only
// reaches its connected sea.
func (gs *GameState) supportAreasOf(h House, combatAreaID string) []string {
	m := StandardMap()
	var out []string
	for _, id := range gs.sortedAreaIDs() {
		as := gs.Board[id]
		if as.Order == nil || as.Order.Type != Support || as.Controller != h {
			continue
		}
		if !m.Adjacent(id, combatAreaID) {
			continue
		}
		if a := m.Areas[id]; a.Type == Port && a.ConnectedSea != combatAreaID {
			continue
		}
		out = append(out, id)
	}
	return out
}

// initiateCombat sets up the combat state on ns (already a clone) for a
// march into a defended area. Own-house support applies automatically;
// third-party supporters must declare a side first.
func initiateCombat(ns *GameState, areaID string, attacker, defender House, attackingUnits []Unit, marchBonus int, fromID string) {
	m := StandardMap()
	target := m.Areas[areaID]
	as := ns.Board[areaID]

	attackStrength := marchBonus
	for _, u := range attackingUnits {
		attackStrength += unitStrength(u, target, true)
	}

	defendStrength := 0
	for _, u := range as.Units {
		defendStrength += unitStrength(u, target, false)
	}
	if as.Order != nil && as.Order.Type == Defense {
		defendStrength += as.Order.Strength
	}
	if g, ok := ns.Garrisons[areaID]; ok && g.House == defender {
		defendStrength += g.Strength
	}

	var thirdParty []SupportSource
	for _, id := range ns.sortedAreaIDs() {
		sa := ns.Board[id]
		if sa.Order == nil || sa.Order.Type != Support || sa.Controller == NoHouse {
			continue
		}
		if !m.Adjacent(id, areaID) {
			continue
		}
		if a := m.Areas[id]; a.Type == Port && a.ConnectedSea != areaID {
			continue
		}
		total := supportStrength(sa.Units)
		if sa.Order.Star {
			total++
		}
		switch sa.Controller {
		case attacker:
			attackStrength += total
		case defender:
			defendStrength += total
		default:
			thirdParty = append(thirdParty, SupportSource{House: sa.Controller, AreaID: id})
		}
	}

	cb := &Combat{
		Attacker:         attacker,
		Defender:         defender,
		AreaID:           areaID,
		FromArea:         fromID,
		AttackingUnits:   attackingUnits,
		DefendingUnits:   append([]Unit(nil), as.Units...),
		AttackerStrength: attackStrength,
		DefenderStrength: defendStrength,
		SupportDecisions: make(map[string]SupportChoice),
		SubPhase:         CombatCards,
	}
	if len(thirdParty) > 0 {
		cb.SubPhase = CombatSupport
		ns.PendingSupport = &SupportDeclarations{
			AreaID:    areaID,
			Attacker:  attacker,
			Defender:  defender,
			Pending:   thirdParty,
			Decisions: make(map[string]SupportChoice),
		}
	}
	ns.Combat = cb
}

// DeclareSupport records a third-party supporter's side for the combat.
// Once every pending supporter has declared, the combat moves on to
// card selection.
func DeclareSupport(gs *GameState, supportAreaID string, choice SupportChoice) (*GameState, error) {
	const op = "declare support"

	if gs.PendingSupport == nil || gs.Combat == nil {
		return gs, ruleErr(op, "no support declaration pending")
	}
	found := false
	for _, src := range gs.PendingSupport.Pending {
		if src.AreaID == supportAreaID {
			found = true
			break
		}
	}
	if !found {
		return gs, ruleErr(op, "%s is not awaiting a declaration", supportAreaID)
	}
	switch choice {
	case SupportAttacker, SupportDefender, SupportNeither:
	default:
		return gs, ruleErr(op, "unknown choice %q", choice)
	}

	ns := gs.Clone()
	ps := ns.PendingSupport
	cb := ns.Combat

	kept := ps.Pending[:0]
	for _, src := range ps.Pending {
		if src.AreaID != supportAreaID {
			kept = append(kept, src)
		}
	}
	ps.Pending = kept
	ps.Decisions[supportAreaID] = choice
	cb.SupportDecisions[supportAreaID] = choice

	if choice != SupportNeither {
		sa := ns.Board[supportAreaID]
		total := supportStrength(sa.Units)
		if sa.Order != nil && sa.Order.Star {
			total++
		}
		if choice == SupportAttacker {
			cb.AttackerStrength += total
		} else {
			cb.DefenderStrength += total
		}
	}

	if len(ps.Pending) == 0 {
		ns.PendingSupport = nil
		cb.SubPhase = CombatCards
	}
	return ns, nil
}

// SelectHouseCard commits a combatant's house card for the current
// combat. Both combatants select before ResolveCombat runs.
func SelectHouseCard(gs *GameState, h House, cardID string) (*GameState, error) {
	const op = "select house card"

	cb := gs.Combat
	if cb == nil {
		return gs, ruleErr(op, "no combat in progress")
	}
	if cb.SubPhase != CombatCards {
		return gs, ruleErr(op, "combat is not selecting cards")
	}
	if h != cb.Attacker && h != cb.Defender {
		return gs, ruleErr(op, "%s is not in this combat", h)
	}
	if gs.Houses[h].HandCard(cardID) == nil {
		return gs, ruleErr(op, "%s does not hold card %q", h, cardID)
	}

	ns := gs.Clone()
	if h == cb.Attacker {
		ns.Combat.AttackerCard = cardID
	} else {
		ns.Combat.DefenderCard = cardID
	}
	return ns, nil
}

// UseValyrianSteelBlade adds one strength to the blade holder's side of
// the current combat. Once per round.
func UseValyrianSteelBlade(gs *GameState) (*GameState, error) {
	const op = "valyrian steel blade"

	if gs.Combat == nil {
		return gs, ruleErr(op, "no combat in progress")
	}
	if gs.BladeUsed {
		return gs, ruleErr(op, "already used this round")
	}
	holder := gs.TrackHolder(Fiefdoms)

	ns := gs.Clone()
	cb := ns.Combat
	switch holder {
	case cb.Attacker:
		cb.AttackerStrength++
		cb.AttackerUsedBlade = true
	case cb.Defender:
		cb.DefenderStrength++
		cb.DefenderUsedBlade = true
	default:
		return gs, ruleErr(op, "%s is not in this combat", holder)
	}
	ns.BladeUsed = true
	return ns, nil
}

// ResolveCombat runs the combat pipeline once both cards are selected.
// It may suspend on a pre-combat interrupt (Aeron Damphair, Tyrion
// Lannister) or a post-combat one (Patchface, a forced or normal
// retreat); the matching resolver resumes it.
func ResolveCombat(gs *GameState) (*GameState, error) {
	const op = "resolve combat"

	cb := gs.Combat
	if cb == nil {
		return gs, ruleErr(op, "no combat in progress")
	}
	if cb.SubPhase == CombatSupport {
		return gs, ruleErr(op, "support declarations are outstanding")
	}
	if gs.PendingAeron != nil || gs.PendingTyrion != nil {
		return gs, ruleErr(op, "a pre-combat ability is outstanding")
	}
	if cb.AttackerCard == "" || cb.DefenderCard == "" {
		return gs, ruleErr(op, "both house cards must be selected")
	}

	ns := gs.Clone()
	runCombat(ns)
	return ns, nil
}

// runCombat advances the combat on ns (already a clone) through the
// pre-combat interrupts and, when none fire, the full resolution.
func runCombat(ns *GameState) {
	cb := ns.Combat

	if !cb.AeronResolved {
		cb.AeronResolved = true
		for _, side := range []struct {
			card  string
			house House
		}{
			{cb.AttackerCard, cb.Attacker},
			{cb.DefenderCard, cb.Defender},
		} {
			if side.card != "grey-aeron" {
				continue
			}
			hs := ns.Houses[side.house]
			if hs.Power >= 2 && len(hs.Hand) > 1 {
				ns.PendingAeron = &AeronSwap{House: side.house}
				cb.SubPhase = CombatPreCombat
				return
			}
		}
	}

	if !cb.TyrionResolved {
		cb.TyrionResolved = true
		if cb.AttackerCard == "lan-tyrion" && len(ns.Houses[cb.Defender].Hand) > 1 {
			ns.PendingTyrion = &TyrionCancel{
				TyrionHouse:     cb.Attacker,
				Opponent:        cb.Defender,
				CancelledCardID: cb.DefenderCard,
			}
			cb.SubPhase = CombatPreCombat
			return
		}
		if cb.DefenderCard == "lan-tyrion" && len(ns.Houses[cb.Attacker].Hand) > 1 {
			ns.PendingTyrion = &TyrionCancel{
				TyrionHouse:     cb.Defender,
				Opponent:        cb.Attacker,
				CancelledCardID: cb.AttackerCard,
			}
			cb.SubPhase = CombatPreCombat
			return
		}
	}

	cb.SubPhase = CombatResolution
	resolveBattle(ns)
}

// ResolveAeronSwap answers a pending Aeron Damphair interrupt. Passing
// a card ID pays two power, discards Aeron, and reveals the new card;
// an empty ID declines. Either way the combat resumes.
func ResolveAeronSwap(gs *GameState, newCardID string) (*GameState, error) {
	const op = "aeron swap"

	if gs.PendingAeron == nil || gs.Combat == nil {
		return gs, ruleErr(op, "no aeron swap pending")
	}
	h := gs.PendingAeron.House
	if newCardID != "" {
		if newCardID == "grey-aeron" {
			return gs, ruleErr(op, "cannot swap aeron for himself")
		}
		if gs.Houses[h].HandCard(newCardID) == nil {
			return gs, ruleErr(op, "%s does not hold card %q", h, newCardID)
		}
	}

	ns := gs.Clone()
	cb := ns.Combat
	if newCardID != "" {
		hs := ns.Houses[h]
		hs.Power -= 2
		moveCardToDiscards(hs, "grey-aeron")
		if h == cb.Attacker {
			cb.AttackerCard = newCardID
		} else {
			cb.DefenderCard = newCardID
		}
	}
	ns.PendingAeron = nil
	runCombat(ns)
	return ns, nil
}

// ResolveTyrionCancel answers a pending Tyrion Lannister interrupt: the
// cancelled opponent names a replacement card, or an empty ID means the
// Tyrion player declined to cancel.
func ResolveTyrionCancel(gs *GameState, newCardID string) (*GameState, error) {
	const op = "tyrion cancel"

	if gs.PendingTyrion == nil || gs.Combat == nil {
		return gs, ruleErr(op, "no tyrion cancel pending")
	}
	opponent := gs.PendingTyrion.Opponent
	if newCardID != "" {
		if newCardID == gs.PendingTyrion.CancelledCardID {
			return gs, ruleErr(op, "must choose a different card")
		}
		if gs.Houses[opponent].HandCard(newCardID) == nil {
			return gs, ruleErr(op, "%s does not hold card %q", opponent, newCardID)
		}
	}

	ns := gs.Clone()
	cb := ns.Combat
	if newCardID != "" {
		if opponent == cb.Attacker {
			cb.AttackerCard = newCardID
		} else {
			cb.DefenderCard = newCardID
		}
	}
	ns.PendingTyrion = nil
	runCombat(ns)
	return ns, nil
}

// ResolvePatchfaceDiscard answers a pending Patchface interrupt: the
// winner names a card in the opponent's hand to discard, or an empty ID
// declines.
func ResolvePatchfaceDiscard(gs *GameState, cardID string) (*GameState, error) {
	const op = "patchface discard"

	if gs.PendingPatchface == nil {
		return gs, ruleErr(op, "no patchface discard pending")
	}
	opponent := gs.PendingPatchface.Opponent
	if cardID != "" && gs.Houses[opponent].HandCard(cardID) == nil {
		return gs, ruleErr(op, "%s does not hold card %q", opponent, cardID)
	}

	ns := gs.Clone()
	if cardID != "" {
		moveCardToDiscards(ns.Houses[opponent], cardID)
	}
	ns.PendingPatchface = nil
	return ns, nil
}

func moveCardToDiscards(hs *HouseState, cardID string) {
	for i := range hs.Hand {
		if hs.Hand[i].ID == cardID {
			hs.Discards = append(hs.Discards, hs.Hand[i])
			hs.Hand = append(hs.Hand[:i], hs.Hand[i+1:]...)
			return
		}
	}
}

// discardCombatCards moves both revealed cards to their discard piles
// and refills any hand that emptied out.
func discardCombatCards(ns *GameState, cb *Combat) {
	for _, side := range []struct {
		house House
		card  string
	}{
		{cb.Attacker, cb.AttackerCard},
		{cb.Defender, cb.DefenderCard},
	} {
		hs := ns.Houses[side.house]
		moveCardToDiscards(hs, side.card)
		if len(hs.Hand) == 0 {
			hs.Hand = hs.Discards
			hs.Discards = nil
		}
	}
}
