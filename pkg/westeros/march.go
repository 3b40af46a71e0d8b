package westeros

// moveValid reports whether units may move from one area to another:
// either directly adjacent, or land-to-land over an unbroken chain of
// sea areas holding the house's ships.
func (gs *GameState) moveValid(fromID, toID string, h House) bool {
	m := StandardMap()
	from, to := m.Areas[fromID], m.Areas[toID]
	if from == nil || to == nil {
		return false
	}
	if ts := gs.Board[toID]; ts != nil && ts.Blocked {
		return false
	}
	if m.Adjacent(fromID, toID) {
		return true
	}

	// Ship transport: land units only, and never out of a port.
	if from.Type != Land || to.Type != Land {
		return false
	}

	queue := []string{fromID}
	visited := map[string]bool{fromID: true}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		curArea := m.Areas[cur]
		curIsBridge := curArea.Type == Sea && gs.hasFriendlyShip(cur, h)
		for _, adjID := range curArea.Adjacent {
			if adjID == toID && curIsBridge {
				return true
			}
			if visited[adjID] {
				continue
			}
			if m.Areas[adjID].Type == Sea && gs.hasFriendlyShip(adjID, h) {
				visited[adjID] = true
				queue = append(queue, adjID)
			}
		}
	}
	return false
}

func (gs *GameState) hasFriendlyShip(areaID string, h House) bool {
	for _, u := range gs.Board[areaID].Units {
		if u.Type == Ship && u.House == h {
			return true
		}
	}
	return false
}

// unitStrength returns the combat strength of a unit marching into or
// defending the given area. Siege engines count 4 when attacking a
// fortified area and 0 otherwise.
func unitStrength(u Unit, target *Area, attacking bool) int {
	switch u.Type {
	case Knight:
		return 2
	case SiegeEngine:
		if attacking && target.HasFortification() {
			return 4
		}
		return 0
	default:
		return 1
	}
}

// ResolveMarch executes a March order, moving the units at the given
// indices of the origin's unit slice. A march into a defended area
// hands off to the combat engine; a march into an area held only by a
// garrison compares strength against it. Vacating a land area may leave
// a pending power-token decision.
func ResolveMarch(gs *GameState, fromID, toID string, unitIndices []int) (*GameState, error) {
	const op = "march"

	if gs.HasPendingInteraction() || gs.Combat != nil {
		return gs, ruleErr(op, "an interaction is pending")
	}
	m := StandardMap()
	from := gs.Board[fromID]
	if from == nil || m.Areas[toID] == nil {
		return gs, ruleErr(op, "unknown area")
	}
	if from.Order == nil || from.Order.Type != March {
		return gs, ruleErr(op, "no march order in %s", fromID)
	}
	if !gs.moveValid(fromID, toID, from.Controller) {
		return gs, ruleErr(op, "cannot move from %s to %s", fromID, toID)
	}

	target := m.Areas[toID]
	seaside := target.Type == Sea || target.Type == Port

	ns := gs.Clone()
	nf := ns.Board[fromID]
	nt := ns.Board[toID]
	h := nf.Controller

	var moving []Unit
	taken := make(map[int]bool)
	for _, idx := range unitIndices {
		if idx < 0 || idx >= len(nf.Units) || taken[idx] {
			return gs, ruleErr(op, "invalid unit selection")
		}
		u := nf.Units[idx]
		if u.Routed {
			return gs, ruleErr(op, "routed units cannot march")
		}
		if seaside != (u.Type == Ship) {
			return gs, ruleErr(op, "%s cannot enter %s", u.Type, toID)
		}
		taken[idx] = true
		moving = append(moving, u)
	}
	if len(moving) == 0 {
		return gs, ruleErr(op, "no units selected")
	}

	remaining := nf.Units[:0]
	for i, u := range nf.Units {
		if !taken[i] {
			remaining = append(remaining, u)
		}
	}
	nf.Units = append([]Unit(nil), remaining...)

	// Defended area: combat.
	if nt.Controller != NoHouse && nt.Controller != h && len(nt.Units) > 0 {
		marchBonus := nf.Order.Strength
		nf.Order = nil
		if len(nf.Units) == 0 && StandardMap().Areas[fromID].Type != Land {
			nf.Controller = NoHouse
		}
		initiateCombat(ns, toID, h, nt.Controller, moving, marchBonus, fromID)
		return ns, nil
	}

	// Garrison-only defense.
	if g, ok := ns.Garrisons[toID]; ok && nt.Controller != NoHouse && nt.Controller != h && len(nt.Units) == 0 {
		force := nf.Order.Strength
		for _, u := range moving {
			force += unitStrength(u, target, true)
		}
		nf.Order = nil
		if force > g.Strength {
			delete(ns.Garrisons, toID)
			nt.Units = append(nt.Units, moving...)
			oldOwner := nt.Controller
			nt.Controller = h
			destroyPortShips(ns, toID, oldOwner)
		} else {
			// The garrison holds; the march is spent.
			nf.Units = append(nf.Units, moving...)
			return ns, nil
		}
	} else {
		nf.Order = nil
		nt.Units = append(nt.Units, moving...)
		oldOwner := nt.Controller
		nt.Controller = h
		if oldOwner != NoHouse && oldOwner != h {
			destroyPortShips(ns, toID, oldOwner)
		}
	}

	finishVacatedArea(ns, fromID, h)
	checkVictory(ns)
	return ns, nil
}

// finishVacatedArea clears ownership of emptied sea areas and ports,
// and queues the power-token decision for emptied land. Home areas
// carry a printed token and are retained automatically.
func finishVacatedArea(gs *GameState, areaID string, h House) {
	as := gs.Board[areaID]
	if len(as.Units) > 0 {
		return
	}
	switch StandardMap().Areas[areaID].Type {
	case Sea, Port:
		as.Controller = NoHouse
	case Land:
		if HomeArea(h) == areaID {
			return
		}
		gs.PendingPowerTokenArea = areaID
	}
}

// LeavePowerToken resolves a pending power-token decision by spending
// one power to keep control of the vacated area. A house with no power
// loses the area instead.
func LeavePowerToken(gs *GameState) (*GameState, error) {
	const op = "leave power token"
	if gs.PendingPowerTokenArea == "" {
		return gs, ruleErr(op, "no power token decision pending")
	}
	ns := gs.Clone()
	as := ns.Board[ns.PendingPowerTokenArea]
	if h := as.Controller; h != NoHouse {
		if hs := ns.Houses[h]; hs.Power > 0 {
			hs.Power--
		} else {
			as.Controller = NoHouse
		}
	}
	ns.PendingPowerTokenArea = ""
	return ns, nil
}

// DeclinePowerToken resolves a pending power-token decision by giving
// up control of the vacated area.
func DeclinePowerToken(gs *GameState) (*GameState, error) {
	const op = "decline power token"
	if gs.PendingPowerTokenArea == "" {
		return gs, ruleErr(op, "no power token decision pending")
	}
	ns := gs.Clone()
	ns.Board[ns.PendingPowerTokenArea].Controller = NoHouse
	ns.PendingPowerTokenArea = ""
	return ns, nil
}

// FinishMarch removes a March order without moving, for a house that
// declines to use it.
func FinishMarch(gs *GameState, fromID string) (*GameState, error) {
	as := gs.Board[fromID]
	if as == nil {
		return gs, ruleErr("finish march", "no such area %q", fromID)
	}
	if as.Order == nil {
		return gs, nil
	}
	ns := gs.Clone()
	ns.Board[fromID].Order = nil
	return ns, nil
}

// ResolveRaid executes a Raid order against an adjacent area's order
// token. Plain raids remove Raid, Support, and Consolidate Power
// orders; starred raids also remove Defense orders. Raiding a
// Consolidate Power order steals one power. Ships in a port may only
// raid the connected sea.
func ResolveRaid(gs *GameState, fromID, toID string) (*GameState, error) {
	const op = "raid"

	m := StandardMap()
	from, to := gs.Board[fromID], gs.Board[toID]
	if from == nil || to == nil {
		return gs, ruleErr(op, "unknown area")
	}
	if from.Order == nil || from.Order.Type != Raid {
		return gs, ruleErr(op, "no raid order in %s", fromID)
	}
	if to.Order == nil {
		return gs, ruleErr(op, "no order to raid in %s", toID)
	}
	if !m.Adjacent(fromID, toID) {
		return gs, ruleErr(op, "%s is not adjacent to %s", toID, fromID)
	}
	if fa := m.Areas[fromID]; fa.Type == Port && fa.ConnectedSea != toID {
		return gs, ruleErr(op, "port raids may only target the connected sea")
	}

	switch to.Order.Type {
	case Raid, Support, ConsolidatePower:
	case Defense:
		if !from.Order.Star {
			return gs, ruleErr(op, "only a starred raid removes a defense order")
		}
	default:
		return gs, ruleErr(op, "%s orders cannot be raided", to.Order.Type)
	}

	ns := gs.Clone()
	nf, nt := ns.Board[fromID], ns.Board[toID]

	if nt.Order.Type == ConsolidatePower && nt.Controller != NoHouse && nf.Controller != NoHouse {
		victim := ns.Houses[nt.Controller]
		raider := ns.Houses[nf.Controller]
		if victim != nil && raider != nil && victim.Power > 0 {
			victim.Power--
			raider.Power = min(MaxPower, raider.Power+1)
		}
	}

	nf.Order = nil
	nt.Order = nil
	return ns, nil
}

// ResolveConsolidatePower resolves every remaining Consolidate Power
// order at once: one power plus one per crown icon in the area.
func ResolveConsolidatePower(gs *GameState) (*GameState, error) {
	m := StandardMap()
	ns := gs.Clone()
	for _, id := range ns.sortedAreaIDs() {
		as := ns.Board[id]
		if as.Order == nil || as.Order.Type != ConsolidatePower || as.Controller == NoHouse {
			continue
		}
		if hs := ns.Houses[as.Controller]; hs != nil {
			gain := 1 + m.Areas[id].Power
			hs.Power = min(MaxPower, hs.Power+gain)
		}
		as.Order = nil
	}
	return ns, nil
}

// TriggerCPStarMustering converts a starred Consolidate Power order in
// a castle or stronghold into an immediate mustering opportunity.
func TriggerCPStarMustering(gs *GameState, areaID string) (*GameState, error) {
	const op = "consolidate power mustering"

	as := gs.Board[areaID]
	area := StandardMap().Areas[areaID]
	if as == nil || area == nil {
		return gs, ruleErr(op, "no such area %q", areaID)
	}
	if as.Order == nil || as.Order.Type != ConsolidatePower || !as.Order.Star {
		return gs, ruleErr(op, "no starred consolidate power order in %s", areaID)
	}
	if as.Controller == NoHouse || !area.HasFortification() {
		return gs, ruleErr(op, "%s cannot muster", areaID)
	}

	ns := gs.Clone()
	ns.PendingMustering = []MusterSite{{
		House:  as.Controller,
		AreaID: areaID,
		Points: area.MusterPoints(),
	}}
	ns.Board[areaID].Order = nil
	return ns, nil
}

// destroyPortShips removes the previous owner's ships from the port of
// a conquered land area and hands the port to the conqueror.
func destroyPortShips(gs *GameState, landID string, oldOwner House) {
	if oldOwner == NoHouse {
		return
	}
	portID := StandardMap().PortFor(landID)
	if portID == "" {
		return
	}
	port := gs.Board[portID]
	kept := port.Units[:0]
	destroyed := 0
	for _, u := range port.Units {
		if u.House == oldOwner {
			destroyed++
		} else {
			kept = append(kept, u)
		}
	}
	port.Units = append([]Unit(nil), kept...)
	if destroyed > 0 {
		if hs := gs.Houses[oldOwner]; hs != nil {
			hs.Pool.Ships += destroyed
		}
	}
	port.Controller = gs.Board[landID].Controller
}

// MoveShipToSea slides a ship out of a port into the connected sea.
func MoveShipToSea(gs *GameState, portID string, unitIndex int) (*GameState, error) {
	const op = "move ship to sea"

	area := StandardMap().Areas[portID]
	if area == nil || area.Type != Port {
		return gs, ruleErr(op, "%q is not a port", portID)
	}
	port := gs.Board[portID]
	if unitIndex < 0 || unitIndex >= len(port.Units) || port.Units[unitIndex].Type != Ship {
		return gs, ruleErr(op, "no ship at index %d in %s", unitIndex, portID)
	}

	ns := gs.Clone()
	np := ns.Board[portID]
	ship := np.Units[unitIndex]
	np.Units = append(np.Units[:unitIndex], np.Units[unitIndex+1:]...)
	sea := ns.Board[area.ConnectedSea]
	sea.Units = append(sea.Units, ship)
	if sea.Controller == NoHouse {
		sea.Controller = ship.House
	}
	if len(np.Units) == 0 {
		np.Controller = NoHouse
	}
	return ns, nil
}
