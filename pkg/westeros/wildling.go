package westeros

import (
	"sort"
	"strconv"
)

// SubmitBid records a house's blind bid for the pending bidding round.
func SubmitBid(gs *GameState, h House, amount int) (*GameState, error) {
	const op = "submit bid"

	if gs.PendingBidding == nil {
		return gs, ruleErr(op, "no bidding in progress")
	}
	if !gs.InGame(h) {
		return gs, ruleErr(op, "%s is not in this game", h)
	}
	if amount < 0 || amount > gs.Houses[h].Power {
		return gs, ruleErr(op, "%s cannot bid %d with %d power", h, amount, gs.Houses[h].Power)
	}

	ns := gs.Clone()
	ns.PendingBidding.Bids[h] = amount
	return ns, nil
}

// ResolveBids settles the bidding round once every house has bid: a
// Clash of Kings track auction, or a wildling attack.
func ResolveBids(gs *GameState) (*GameState, error) {
	const op = "resolve bids"

	pb := gs.PendingBidding
	if pb == nil {
		return gs, ruleErr(op, "no bidding in progress")
	}
	for _, h := range gs.TurnOrder {
		if _, ok := pb.Bids[h]; !ok {
			return gs, ruleErr(op, "waiting for a bid from %s", h)
		}
	}

	ns := gs.Clone()
	if ns.PendingBidding.Target == BidWildling {
		resolveWildlingBids(ns)
		return ns, nil
	}
	resolveTrackBids(ns)
	return ns, nil
}

// resolveTrackBids reorders one influence track by bid, highest bid to
// position one. Ties break by current Iron Throne position.
func resolveTrackBids(ns *GameState) {
	pb := ns.PendingBidding
	track, _ := pb.Target.track()

	sorted := append([]House(nil), ns.TurnOrder...)
	sort.SliceStable(sorted, func(i, j int) bool {
		bi, bj := pb.Bids[sorted[i]], pb.Bids[sorted[j]]
		if bi != bj {
			return bi > bj
		}
		return ns.Houses[sorted[i]].Influence.IronThrone <
			ns.Houses[sorted[j]].Influence.IronThrone
	})
	for i, h := range sorted {
		ns.Houses[h].Influence.SetPosition(track, i+1)
	}
	for h, bid := range pb.Bids {
		ns.Houses[h].Power -= bid
	}

	if len(pb.Remaining) > 0 {
		next := pb.Remaining[0]
		ns.PendingBidding = &Bidding{
			Target:    bidTargetFor(next),
			Bids:      make(map[House]int),
			Remaining: pb.Remaining[1:],
		}
		return
	}

	ns.PendingBidding = nil
	ns.sortTurnOrder()
	ns.CurrentHouse = ns.TurnOrder[0]
	tryAdvanceWesteros(ns)
}

// resolveWildlingBids settles a wildling attack: total bids against the
// threat, then the top wildling card's reward or penalty.
func resolveWildlingBids(ns *GameState) {
	pb := ns.PendingBidding
	bids := make(map[House]int, len(pb.Bids))
	total := 0
	for _, h := range ns.TurnOrder {
		bids[h] = pb.Bids[h]
		total += bids[h]
		ns.Houses[h].Power -= bids[h]
	}

	// Highest bidder, ties to the better Iron Throne position.
	byHigh := append([]House(nil), ns.TurnOrder...)
	sort.SliceStable(byHigh, func(i, j int) bool {
		if bids[byHigh[i]] != bids[byHigh[j]] {
			return bids[byHigh[i]] > bids[byHigh[j]]
		}
		return ns.Houses[byHigh[i]].Influence.IronThrone <
			ns.Houses[byHigh[j]].Influence.IronThrone
	})
	// Lowest bidder, ties to the worse position.
	byLow := append([]House(nil), ns.TurnOrder...)
	sort.SliceStable(byLow, func(i, j int) bool {
		if bids[byLow[i]] != bids[byLow[j]] {
			return bids[byLow[i]] < bids[byLow[j]]
		}
		return ns.Houses[byLow[i]].Influence.IronThrone >
			ns.Houses[byLow[j]].Influence.IronThrone
	})

	if len(ns.Wildlings) == 0 {
		ns.Wildlings = WildlingDeck()
		shuffleWildlings(ns.Wildlings, ns.rand())
	}
	card := ns.Wildlings[0]
	ns.Wildlings = ns.Wildlings[1:]

	if total >= ns.WildlingThreat {
		ns.WildlingThreat = 0
		applyWildlingVictory(ns, card, byHigh[0], bids)
	} else {
		ns.WildlingThreat = min(MaxWildlingThreat, ns.WildlingThreat+2)
		applyWildlingDefeat(ns, card, byLow[0])
	}

	ns.CurrentWildlingCard = &card
	ns.PendingBidding = nil
	ns.sortTurnOrder()
}

// moveToBottomOfTrack drops the house to the last position of a track;
// everyone below shifts up.
func moveToBottomOfTrack(ns *GameState, h House, t Track) {
	oldPos := ns.Houses[h].Influence.Position(t)
	for other, os := range ns.Houses {
		if other != h && os.Influence.Position(t) > oldPos {
			os.Influence.SetPosition(t, os.Influence.Position(t)-1)
		}
	}
	ns.Houses[h].Influence.SetPosition(t, len(ns.Houses))
}

// moveToTopOfTrack lifts the house to position one of a track; everyone
// above shifts down.
func moveToTopOfTrack(ns *GameState, h House, t Track) {
	oldPos := ns.Houses[h].Influence.Position(t)
	for other, os := range ns.Houses {
		if other != h && os.Influence.Position(t) < oldPos {
			os.Influence.SetPosition(t, os.Influence.Position(t)+1)
		}
	}
	ns.Houses[h].Influence.SetPosition(t, 1)
}

func applyWildlingVictory(ns *GameState, card WildlingCard, winner House, bids map[House]int) {
	hs := ns.Houses[winner]
	switch card.ID {
	case "silence-at-wall":
	case "skinchanger-scout":
		hs.Power = min(MaxPower, hs.Power+bids[winner])
	case "rattleshirts-raiders":
		hs.Supply = min(MaxSupply, hs.Supply+1)
	case "mammoth-riders":
		if len(hs.Discards) > 0 {
			best := 0
			for i := range hs.Discards {
				if hs.Discards[i].Strength > hs.Discards[best].Strength {
					best = i
				}
			}
			retrieved := hs.Discards[best]
			hs.Discards = append(hs.Discards[:best], hs.Discards[best+1:]...)
			hs.Hand = append(hs.Hand, retrieved)
		}
	case "crow-killers":
		upgrades := 0
		for _, id := range ns.sortedAreaIDs() {
			as := ns.Board[id]
			for i := range as.Units {
				if upgrades >= 2 || hs.Pool.Knights == 0 {
					break
				}
				if as.Units[i].House == winner && as.Units[i].Type == Footman {
					as.Units[i].Type = Knight
					hs.Pool.Knights--
					hs.Pool.Footmen++
					upgrades++
				}
			}
		}
	case "massing-milkwater":
		hs.Hand = append(hs.Hand, hs.Discards...)
		hs.Discards = nil
	case "preemptive-raid":
		// The wildlings strike again at strength six.
		ns.WildlingThreat = 6
		ns.PendingBidding = &Bidding{
			Target: BidWildling,
			Bids:   make(map[House]int),
		}
	case "king-beyond-wall":
		worst := IronThrone
		for _, t := range []Track{Fiefdoms, KingsCourt} {
			if hs.Influence.Position(t) > hs.Influence.Position(worst) {
				worst = t
			}
		}
		moveToTopOfTrack(ns, winner, worst)
	case "horde-descends":
		m := StandardMap()
		var sites []MusterSite
		for _, id := range ns.sortedAreaIDs() {
			as := ns.Board[id]
			area := m.Areas[id]
			if as.Controller == winner && area.HasFortification() {
				sites = append(sites, MusterSite{House: winner, AreaID: id, Points: area.MusterPoints()})
			}
		}
		switch {
		case len(sites) == 1:
			ns.PendingMustering = sites
		case len(sites) > 1:
			// The winner picks one castle or stronghold to muster in.
			opts := make([]DecisionOption, len(sites))
			for i, site := range sites {
				opts[i] = DecisionOption{
					Label:  site.AreaID,
					Action: "horde-muster:" + site.AreaID + ":" + strconv.Itoa(site.Points),
				}
			}
			ns.PendingDecision = &Decision{
				Card:    card.Name,
				Chooser: winner,
				Options: opts,
			}
		}
	}
}

func applyWildlingDefeat(ns *GameState, card WildlingCard, loser House) {
	var others []House
	for _, h := range ns.TurnOrder {
		if h != loser {
			others = append(others, h)
		}
	}

	switch card.ID {
	case "silence-at-wall":
	case "skinchanger-scout":
		ns.Houses[loser].Power = 0
		for _, h := range others {
			hs := ns.Houses[h]
			hs.Power -= min(2, hs.Power)
		}
	case "rattleshirts-raiders":
		ns.Houses[loser].Supply = max(0, ns.Houses[loser].Supply-2)
		for _, h := range others {
			ns.Houses[h].Supply = max(0, ns.Houses[h].Supply-1)
		}
	case "mammoth-riders":
		destroyUnitsAuto(ns, loser, 3)
		for _, h := range others {
			destroyUnitsAuto(ns, h, 2)
		}
	case "crow-killers":
		replaceKnightsWithFootmen(ns, loser, -1)
		for _, h := range others {
			replaceKnightsWithFootmen(ns, h, 2)
		}
	case "massing-milkwater":
		discardHighestCards(ns.Houses[loser])
		for _, h := range others {
			discardLowestCard(ns.Houses[h])
		}
	case "preemptive-raid":
		ns.PendingDecision = &Decision{
			Card:    card.Name,
			Chooser: loser,
			Options: []DecisionOption{
				{Label: "Destroy 2 units", Action: "preemptive-destroy"},
				{Label: "Lose 2 track positions", Action: "preemptive-track"},
			},
		}
	case "king-beyond-wall":
		for _, t := range []Track{IronThrone, Fiefdoms, KingsCourt} {
			moveToBottomOfTrack(ns, loser, t)
		}
		for _, h := range others {
			hs := ns.Houses[h]
			worse := KingsCourt
			if hs.Influence.Fiefdoms > hs.Influence.KingsCourt {
				worse = Fiefdoms
			}
			moveToBottomOfTrack(ns, h, worse)
		}
	case "horde-descends":
		m := StandardMap()
		destroyed := false
		for _, id := range ns.sortedAreaIDs() {
			as := ns.Board[id]
			if as.Controller == loser && m.Areas[id].HasFortification() && len(as.Units) > 0 {
				kills := min(2, len(as.Units))
				for i := 0; i < kills; i++ {
					killed := as.Units[len(as.Units)-1]
					as.Units = as.Units[:len(as.Units)-1]
					ns.Houses[loser].Pool.Add(killed.Type, 1)
				}
				destroyed = true
				break
			}
		}
		if !destroyed {
			destroyUnitsAuto(ns, loser, 2)
		}
		for _, h := range others {
			destroyUnitsAuto(ns, h, 1)
		}
	}
}

// discardHighestCards moves all of the hand's highest-strength cards to
// the discards. Houses down to one card are spared.
func discardHighestCards(hs *HouseState) {
	if len(hs.Hand) <= 1 {
		return
	}
	maxStr := hs.Hand[0].Strength
	for _, c := range hs.Hand[1:] {
		if c.Strength > maxStr {
			maxStr = c.Strength
		}
	}
	kept := hs.Hand[:0]
	for _, c := range hs.Hand {
		if c.Strength == maxStr {
			hs.Discards = append(hs.Discards, c)
		} else {
			kept = append(kept, c)
		}
	}
	hs.Hand = kept
}

// discardLowestCard moves the hand's single lowest-strength card to the
// discards.
func discardLowestCard(hs *HouseState) {
	if len(hs.Hand) <= 1 {
		return
	}
	low := 0
	for i := range hs.Hand {
		if hs.Hand[i].Strength < hs.Hand[low].Strength {
			low = i
		}
	}
	hs.Discards = append(hs.Discards, hs.Hand[low])
	hs.Hand = append(hs.Hand[:low], hs.Hand[low+1:]...)
}

// destroyUnitsAuto removes up to count of the house's units from the
// board in area order, returning them to the pool.
func destroyUnitsAuto(ns *GameState, h House, count int) {
	remaining := count
	for _, id := range ns.sortedAreaIDs() {
		if remaining <= 0 {
			return
		}
		as := ns.Board[id]
		kept := as.Units[:0]
		for _, u := range as.Units {
			if remaining > 0 && u.House == h {
				ns.Houses[h].Pool.Add(u.Type, 1)
				remaining--
			} else {
				kept = append(kept, u)
			}
		}
		as.Units = kept
		if len(as.Units) == 0 && as.Controller == h && StandardMap().Areas[id].Type != Land {
			as.Controller = NoHouse
		}
	}
}

// replaceKnightsWithFootmen downgrades up to maxReplace of the house's
// knights (all of them when maxReplace is negative). Knights with no
// footman left in the pool are destroyed instead.
func replaceKnightsWithFootmen(ns *GameState, h House, maxReplace int) {
	if maxReplace < 0 {
		maxReplace = poolKnights
	}
	hs := ns.Houses[h]
	done := 0
	for _, id := range ns.sortedAreaIDs() {
		as := ns.Board[id]
		kept := as.Units[:0]
		for _, u := range as.Units {
			if done < maxReplace && u.House == h && u.Type == Knight {
				if hs.Pool.Footmen > 0 {
					u.Type = Footman
					hs.Pool.Knights++
					hs.Pool.Footmen--
					kept = append(kept, u)
				} else {
					hs.Pool.Knights++
				}
				done++
			} else {
				kept = append(kept, u)
			}
		}
		as.Units = kept
	}
}
