package westeros

import "sort"

// recalculateSupply resets every house's supply to the barrel icons of
// the areas it controls.
func recalculateSupply(ns *GameState) {
	m := StandardMap()
	for _, h := range ns.TurnOrder {
		icons := 0
		for id, as := range ns.Board {
			if as.Controller == h {
				icons += m.Areas[id].Supply
			}
		}
		ns.Houses[h].Supply = min(MaxSupply, icons)
	}
}

// armySizes returns the sizes of the house's armies (two or more units
// in one area), largest first.
func armySizes(gs *GameState, h House) []int {
	var armies []int
	for _, as := range gs.Board {
		if as.Controller == h && len(as.Units) >= 2 {
			armies = append(armies, len(as.Units))
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(armies)))
	return armies
}

// overSupplyLimit reports whether the house's armies exceed what its
// supply position allows.
func overSupplyLimit(gs *GameState, h House) bool {
	limits := SupplyLimits(gs.Houses[h].Supply)
	armies := armySizes(gs, h)
	if len(armies) > len(limits) {
		return true
	}
	for i, size := range armies {
		if size > limits[i] {
			return true
		}
	}
	return false
}

// supplyViolationDetails pairs each oversized army with the largest
// slot left for it. Armies with no slot at all are capped at one unit.
func supplyViolationDetails(gs *GameState, h House) []SupplyViolation {
	limits := SupplyLimits(gs.Houses[h].Supply)

	type army struct {
		areaID string
		size   int
	}
	var armies []army
	for _, id := range gs.sortedAreaIDs() {
		as := gs.Board[id]
		if as.Controller == h && len(as.Units) >= 2 {
			armies = append(armies, army{id, len(as.Units)})
		}
	}
	sort.SliceStable(armies, func(i, j int) bool { return armies[i].size > armies[j].size })

	var out []SupplyViolation
	for i, a := range armies {
		maxAllowed := 1
		if i < len(limits) {
			maxAllowed = limits[i]
		}
		if a.size > maxAllowed {
			out = append(out, SupplyViolation{AreaID: a.areaID, Size: a.size, MaxAllowed: maxAllowed})
		}
	}
	return out
}

// queueSupplyReconciliation records every house that must shrink its
// armies after a supply change.
func queueSupplyReconciliation(ns *GameState) {
	var entries []ReconcileEntry
	for _, h := range ns.TurnOrder {
		if overSupplyLimit(ns, h) {
			entries = append(entries, ReconcileEntry{
				House:      h,
				Violations: supplyViolationDetails(ns, h),
			})
		}
	}
	ns.PendingReconcile = entries
}

// ResolveReconcileArmy removes one unit from an oversized army and
// returns it to the pool. Reconciliation clears once every house is
// back within its limits.
func ResolveReconcileArmy(gs *GameState, h House, areaID string, unitIndex int) (*GameState, error) {
	const op = "reconcile army"

	if len(gs.PendingReconcile) == 0 {
		return gs, ruleErr(op, "no supply reconciliation pending")
	}
	entryFound := false
	for _, re := range gs.PendingReconcile {
		if re.House == h {
			entryFound = true
			break
		}
	}
	if !entryFound {
		return gs, ruleErr(op, "%s has no violations to reconcile", h)
	}
	as := gs.Board[areaID]
	if as == nil || as.Controller != h {
		return gs, ruleErr(op, "%s does not control %s", h, areaID)
	}
	if unitIndex < 0 || unitIndex >= len(as.Units) {
		return gs, ruleErr(op, "no unit at index %d in %s", unitIndex, areaID)
	}

	ns := gs.Clone()
	na := ns.Board[areaID]
	removed := na.Units[unitIndex]
	na.Units = append(na.Units[:unitIndex], na.Units[unitIndex+1:]...)
	ns.Houses[h].Pool.Add(removed.Type, 1)
	if len(na.Units) == 0 {
		na.Controller = NoHouse
	}

	if !overSupplyLimit(ns, h) {
		kept := ns.PendingReconcile[:0]
		for _, re := range ns.PendingReconcile {
			if re.House != h {
				kept = append(kept, re)
			}
		}
		ns.PendingReconcile = kept
	} else {
		for i := range ns.PendingReconcile {
			if ns.PendingReconcile[i].House == h {
				ns.PendingReconcile[i].Violations = supplyViolationDetails(ns, h)
			}
		}
	}

	if len(ns.PendingReconcile) == 0 {
		ns.PendingReconcile = nil
		tryAdvanceWesteros(ns)
	}
	return ns, nil
}
