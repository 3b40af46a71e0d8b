package westeros

// retreatDestinations lists the areas adjacent to fromID that the
// house's beaten units may retreat into: no enemies, no blocked areas,
// water only for all-ship forces, and never the area the attacker
// marched from.
func retreatDestinations(gs *GameState, h House, fromID, exclude string, units []Unit, allowSea bool) []string {
	var out []string
	for _, adjID := range StandardMap().Areas[fromID].Adjacent {
		if adjID == exclude {
			continue
		}
		adj := gs.Board[adjID]
		if adj == nil || adj.Blocked {
			continue
		}
		switch StandardMap().Areas[adjID].Type {
		case Port:
			continue
		case Sea:
			if !allowSea {
				continue
			}
			allShips := true
			for _, u := range units {
				if u.Type != Ship {
					allShips = false
					break
				}
			}
			if !allShips {
				continue
			}
		}
		if adj.Controller != NoHouse && adj.Controller != h {
			continue
		}
		out = append(out, adjID)
	}
	return out
}

// forcedRetreatChoices lists legal land destinations for a retreat
// dictated by the winner.
func forcedRetreatChoices(gs *GameState, h House, fromID, exclude string) []string {
	return retreatDestinations(gs, h, fromID, exclude, nil, false)
}

// initiateRetreat sets up the loser's retreat on ns. With no legal
// destination the units are destroyed and returned to the pool.
func initiateRetreat(ns *GameState, h House, units []Unit, fromID, exclude string) {
	choices := retreatDestinations(ns, h, fromID, exclude, units, true)
	if len(choices) == 0 || len(units) == 0 {
		hs := ns.Houses[h]
		for _, u := range units {
			hs.Pool.Add(u.Type, 1)
		}
		return
	}
	ns.PendingRetreat = &Retreat{
		House:    h,
		Units:    units,
		FromArea: fromID,
		Choices:  choices,
	}
}

// ResolveRetreat moves pending defeated units into the chosen area.
// The survivors arrive routed and stand down until the round ends.
func ResolveRetreat(gs *GameState, toAreaID string) (*GameState, error) {
	const op = "retreat"

	pr := gs.PendingRetreat
	if pr == nil {
		return gs, ruleErr(op, "no retreat pending")
	}
	legal := false
	for _, c := range pr.Choices {
		if c == toAreaID {
			legal = true
			break
		}
	}
	if !legal {
		return gs, ruleErr(op, "%s is not a legal retreat area", toAreaID)
	}

	ns := gs.Clone()
	to := ns.Board[toAreaID]
	for _, u := range ns.PendingRetreat.Units {
		u.Routed = true
		to.Units = append(to.Units, u)
	}
	to.Controller = ns.PendingRetreat.House
	ns.PendingRetreat = nil
	return ns, nil
}

// ResolveForcedRetreat executes a retreat whose destination the combat
// winner chooses for the loser.
func ResolveForcedRetreat(gs *GameState, toAreaID string) (*GameState, error) {
	const op = "forced retreat"

	pf := gs.PendingForcedRetreat
	if pf == nil {
		return gs, ruleErr(op, "no forced retreat pending")
	}
	legal := false
	for _, c := range pf.Choices {
		if c == toAreaID {
			legal = true
			break
		}
	}
	if !legal {
		return gs, ruleErr(op, "%s is not a legal retreat area", toAreaID)
	}

	ns := gs.Clone()
	to := ns.Board[toAreaID]
	for _, u := range ns.PendingForcedRetreat.Units {
		u.Routed = true
		to.Units = append(to.Units, u)
	}
	if to.Controller == NoHouse {
		to.Controller = ns.PendingForcedRetreat.Retreater
	}
	ns.PendingForcedRetreat = nil
	return ns, nil
}
