package westeros

import "sort"

// ResolvePhase advances the top-level phase cycle: Westeros draws and
// resolves event cards, Planning hands off to the Action phase, and a
// finished Action phase cleans up and starts the next round.
func ResolvePhase(gs *GameState) (*GameState, error) {
	const op = "resolve phase"

	switch gs.Phase {
	case PhaseWesteros:
		if gs.DrawnWesterosCards != nil || gs.HasPendingInteraction() {
			return gs, ruleErr(op, "westeros events are still resolving")
		}

		ns := gs.Clone()
		if ns.Round == 1 {
			ns.Phase = PhasePlanning
			ns.BannedOrders = nil
			ns.BannedStarOrders = nil
			return ns, nil
		}
		drawWesterosCards(ns)
		return ns, nil

	case PhasePlanning:
		ns := gs.Clone()
		ns.Phase = PhaseAction
		ns.ActionSubPhase = SubPhaseRaid
		ns.ActionIndex = 0
		if idx := ns.nextWithOrder(Raid, 0); idx >= 0 {
			ns.ActionIndex = idx
			ns.CurrentHouse = ns.TurnOrder[idx]
		} else if idx := ns.nextWithOrder(March, 0); idx >= 0 {
			ns.ActionSubPhase = SubPhaseMarch
			ns.ActionIndex = idx
			ns.CurrentHouse = ns.TurnOrder[idx]
		} else {
			ns.ActionSubPhase = SubPhaseConsolidate
		}
		return ns, nil

	default: // PhaseAction
		if gs.Combat != nil || gs.HasPendingInteraction() {
			return gs, ruleErr(op, "the action phase is still resolving")
		}

		ns := gs.Clone()
		for _, as := range ns.Board {
			as.Order = nil
			for i := range as.Units {
				as.Units[i].Routed = false
			}
		}
		for _, hs := range ns.Houses {
			hs.UsedTokens = nil
		}
		ns.Phase = PhaseWesteros
		ns.Round++
		ns.BannedOrders = nil
		ns.BannedStarOrders = nil
		ns.BladeUsed = false
		ns.RavenUsed = false
		ns.ActionSubPhase = SubPhaseRaid
		ns.ActionIndex = 0
		checkVictory(ns)
		return ns, nil
	}
}

// drawWesterosCards draws the top card of each Westeros deck, advances
// the wildling threat for each wildling icon, and queues the cards for
// resolution. Empty decks reshuffle in full.
func drawWesterosCards(ns *GameState) {
	if len(ns.WesterosDeck1) == 0 {
		ns.WesterosDeck1 = WesterosDeck(1)
		shuffleWesteros(ns.WesterosDeck1, ns.rand())
	}
	if len(ns.WesterosDeck2) == 0 {
		ns.WesterosDeck2 = WesterosDeck(2)
		shuffleWesteros(ns.WesterosDeck2, ns.rand())
	}
	if len(ns.WesterosDeck3) == 0 {
		ns.WesterosDeck3 = WesterosDeck(3)
		shuffleWesteros(ns.WesterosDeck3, ns.rand())
	}

	drawn := []WesterosCard{ns.WesterosDeck1[0], ns.WesterosDeck2[0], ns.WesterosDeck3[0]}
	ns.WesterosDeck1 = ns.WesterosDeck1[1:]
	ns.WesterosDeck2 = ns.WesterosDeck2[1:]
	ns.WesterosDeck3 = ns.WesterosDeck3[1:]

	for _, card := range drawn {
		if card.WildlingIcon {
			ns.WildlingThreat = min(MaxWildlingThreat, ns.WildlingThreat+2)
		}
	}

	ns.DrawnWesterosCards = drawn
	ns.WesterosIndex = 0
}

// AdvanceActionTurn passes the action turn to the next house holding an
// order for the current sub-phase, falling through Raid, March, and
// Consolidate Power in that order.
func AdvanceActionTurn(gs *GameState) (*GameState, error) {
	const op = "advance action turn"

	if gs.Phase != PhaseAction {
		return gs, ruleErr(op, "not in the action phase")
	}
	if gs.Combat != nil || gs.HasPendingInteraction() {
		return gs, ruleErr(op, "the current action is still resolving")
	}

	subPhases := []ActionSubPhase{SubPhaseRaid, SubPhaseMarch, SubPhaseConsolidate}
	orderTypes := []OrderType{Raid, March, ConsolidatePower}
	subIdx := 0
	for i, sp := range subPhases {
		if sp == gs.ActionSubPhase {
			subIdx = i
			break
		}
	}

	ns := gs.Clone()
	start := (ns.ActionIndex + 1) % len(ns.TurnOrder)
	for subIdx < len(subPhases) {
		if idx := ns.nextWithOrder(orderTypes[subIdx], start); idx >= 0 {
			ns.ActionSubPhase = subPhases[subIdx]
			ns.ActionIndex = idx
			ns.CurrentHouse = ns.TurnOrder[idx]
			return ns, nil
		}
		subIdx++
		start = 0
	}

	ns.ActionSubPhase = SubPhaseDone
	return ns, nil
}

// checkVictory sets the winner: seven castles and strongholds win on
// the spot, and a game past the final round goes to the best-placed
// house by castles, supply, power, and Iron Throne position.
func checkVictory(ns *GameState) {
	for _, h := range ns.TurnOrder {
		if ns.CastleCount(h) >= VictoryCastles {
			ns.Winner = h
			return
		}
	}

	if ns.Round <= FinalRound {
		return
	}

	ranked := append([]House(nil), ns.TurnOrder...)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if ca, cb := ns.CastleCount(a), ns.CastleCount(b); ca != cb {
			return ca > cb
		}
		if ns.Houses[a].Supply != ns.Houses[b].Supply {
			return ns.Houses[a].Supply > ns.Houses[b].Supply
		}
		if ns.Houses[a].Power != ns.Houses[b].Power {
			return ns.Houses[a].Power > ns.Houses[b].Power
		}
		return ns.Houses[a].Influence.IronThrone < ns.Houses[b].Influence.IronThrone
	})
	ns.Winner = ranked[0]
}
