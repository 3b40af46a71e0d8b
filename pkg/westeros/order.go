package westeros

// orderBanned reports whether the given token is banned this round by a
// deck III event.
func (gs *GameState) orderBanned(def OrderTokenDef) bool {
	for _, t := range gs.BannedOrders {
		if t == def.Type {
			return true
		}
	}
	if def.Star {
		for _, t := range gs.BannedStarOrders {
			if t == def.Type {
				return true
			}
		}
	}
	return false
}

// PlaceOrder assigns one of the house's order tokens to an area during
// the Planning phase. Placing a token on an area that already holds one
// of the house's orders swaps the tokens.
func PlaceOrder(gs *GameState, areaID string, h House, tokenIndex int) (*GameState, error) {
	const op = "place order"

	if gs.Phase != PhasePlanning {
		return gs, ruleErr(op, "not in the planning phase")
	}
	as := gs.Board[areaID]
	if as == nil {
		return gs, ruleErr(op, "no such area %q", areaID)
	}
	if as.Controller != h || len(as.Units) == 0 {
		return gs, ruleErr(op, "%s has no units in %s", h, areaID)
	}
	if tokenIndex < 0 || tokenIndex >= len(OrderTokens) {
		return gs, ruleErr(op, "no such order token %d", tokenIndex)
	}
	def := OrderTokens[tokenIndex]
	if gs.orderBanned(def) {
		if def.Star && !contains(gs.BannedOrders, def.Type) {
			return gs, ruleErr(op, "%s★ orders are banned this round", def.Type)
		}
		return gs, ruleErr(op, "%s orders are banned this round", def.Type)
	}

	ns := gs.Clone()
	hs := ns.Houses[h]
	na := ns.Board[areaID]

	// Swapping an existing order returns its token first.
	if na.Order != nil && na.Order.House == h {
		hs.UsedTokens = removeInt(hs.UsedTokens, na.Order.TokenIndex)
	}

	for _, used := range hs.UsedTokens {
		if used == tokenIndex {
			return gs, ruleErr(op, "token %d already placed", tokenIndex)
		}
	}

	if def.Star {
		stars := 0
		for _, used := range hs.UsedTokens {
			if OrderTokens[used].Star {
				stars++
			}
		}
		limit := StarOrderLimit(len(gs.TurnOrder), hs.Influence.KingsCourt)
		if stars >= limit {
			return gs, ruleErr(op, "%s may place at most %d starred orders", h, limit)
		}
	}

	na.Order = &Order{
		Type:       def.Type,
		House:      h,
		Strength:   def.Strength,
		Star:       def.Star,
		TokenIndex: tokenIndex,
	}
	hs.UsedTokens = append(hs.UsedTokens, tokenIndex)
	return ns, nil
}

// UseMessengerRaven lets the King's Court dominance holder swap one of
// their own placed orders after orders are revealed. Once per round.
func UseMessengerRaven(gs *GameState, areaID string, newTokenIndex int) (*GameState, error) {
	const op = "messenger raven"

	if gs.RavenUsed {
		return gs, ruleErr(op, "already used this round")
	}
	holder := gs.TrackHolder(KingsCourt)
	as := gs.Board[areaID]
	if as == nil || as.Order == nil || as.Order.House != holder {
		return gs, ruleErr(op, "%s has no order in %s", holder, areaID)
	}

	// The swap itself reuses order placement, which handles token
	// bookkeeping and the star limit.
	swap := gs.Clone()
	swap.Phase = PhasePlanning
	ns, err := PlaceOrder(swap, areaID, holder, newTokenIndex)
	if err != nil {
		return gs, err
	}
	ns.Phase = gs.Phase
	ns.RavenUsed = true
	return ns, nil
}

func contains(types []OrderType, t OrderType) bool {
	for _, x := range types {
		if x == t {
			return true
		}
	}
	return false
}

func removeInt(s []int, v int) []int {
	out := s[:0]
	for _, x := range s {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}
