package service

import (
	"fmt"

	"github.com/oldcrow/westeros/pkg/westeros"
)

// ActionRequest is a player request against the rules engine. Type
// selects the operation; the remaining fields carry its parameters.
type ActionRequest struct {
	Type string `json:"type"`

	AreaID      string `json:"area_id,omitempty"`
	FromArea    string `json:"from_area,omitempty"`
	ToArea      string `json:"to_area,omitempty"`
	UnitIndices []int  `json:"unit_indices,omitempty"`
	UnitIndex   int    `json:"unit_index,omitempty"`
	UnitType    string `json:"unit_type,omitempty"`
	TokenIndex  int    `json:"token_index,omitempty"`
	CardID      string `json:"card_id,omitempty"`
	Choice      string `json:"choice,omitempty"`
	Amount      int    `json:"amount,omitempty"`
	Action      string `json:"action,omitempty"`
}

// checkActor verifies the caller's house is the one the requested
/// operation belongs to: the house whose turn it is for action-phase
// orders, the owner of the pending interaction for interrupts, the
// dominance-token holder for the one-shot items. Requests that only
// advance mechanical resolution (resolve_phase, resolve_combat,
// resolve_bids, acknowledgements) are open to every seated house, as
// are operations the engine already scopes to the caller's own house
// (select_card, bid, reconcile).
func checkActor(gs *westeros.GameState, h westeros.House, req ActionRequest) error {
	expect := func(owner westeros.House) error {
		if owner != westeros.NoHouse && owner != h {
			return fmt.Errorf("%w: %s", ErrNotYourTurn, owner)
		}
		return nil
	}

	switch req.Type {
	case "march", "raid", "finish_march":
		// The turn owner, moving from an area they control.
		if err := expect(gs.CurrentHouse); err != nil {
			return err
		}
		if as := gs.Board[req.FromArea]; as != nil {
			return expect(as.Controller)
		}
	case "consolidate_power", "advance_turn", "leave_power_token", "decline_power_token":
		return expect(gs.CurrentHouse)
	case "cp_muster", "move_ship_to_sea":
		if err := expect(gs.CurrentHouse); err != nil {
			return err
		}
		if as := gs.Board[req.AreaID]; as != nil {
			return expect(as.Controller)
		}
	case "use_raven":
		return expect(gs.TrackHolder(westeros.KingsCourt))
	case "use_blade":
		return expect(gs.TrackHolder(westeros.Fiefdoms))
	case "declare_support":
		if gs.PendingSupport == nil {
			return nil
		}
		for _, src := range gs.PendingSupport.Pending {
			if src.AreaID == req.AreaID {
				return expect(src.House)
			}
		}
	case "aeron_swap":
		if gs.PendingAeron != nil {
			return expect(gs.PendingAeron.House)
		}
	case "tyrion_cancel":
		if gs.PendingTyrion != nil {
			return expect(gs.PendingTyrion.Opponent)
		}
	case "patchface_discard":
		if gs.PendingPatchface != nil {
			return expect(gs.PendingPatchface.Winner)
		}
	case "retreat":
		if gs.PendingRetreat != nil {
			return expect(gs.PendingRetreat.House)
		}
	case "forced_retreat":
		if gs.PendingForcedRetreat != nil {
			return expect(gs.PendingForcedRetreat.Winner)
		}
	case "decision":
		if gs.PendingDecision != nil {
			return expect(gs.PendingDecision.Chooser)
		}
	case "muster", "upgrade_footman", "skip_muster":
		for _, site := range gs.PendingMustering {
			if site.AreaID == req.AreaID {
				return expect(site.House)
			}
		}
	case "skip_all_muster":
		// Forfeiting everything is only a single house's call.
		for _, site := range gs.PendingMustering {
			if err := expect(site.House); err != nil {
				return err
			}
		}
	}
	return nil
}

// dispatchAction maps a request onto the engine operation it names.
// The acting house comes from the caller's seat; operations that take a
// house always receive the caller's own.
func dispatchAction(gs *westeros.GameState, house westeros.House, req ActionRequest) (*westeros.GameState, error) {
	switch req.Type {
	case "use_raven":
		return westeros.UseMessengerRaven(gs, req.AreaID, req.TokenIndex)
	case "march":
		return westeros.ResolveMarch(gs, req.FromArea, req.ToArea, req.UnitIndices)
	case "leave_power_token":
		return westeros.LeavePowerToken(gs)
	case "decline_power_token":
		return westeros.DeclinePowerToken(gs)
	case "finish_march":
		return westeros.FinishMarch(gs, req.FromArea)
	case "raid":
		return westeros.ResolveRaid(gs, req.FromArea, req.ToArea)
	case "consolidate_power":
		return westeros.ResolveConsolidatePower(gs)
	case "cp_muster":
		return westeros.TriggerCPStarMustering(gs, req.AreaID)
	case "move_ship_to_sea":
		return westeros.MoveShipToSea(gs, req.AreaID, req.UnitIndex)
	case "advance_turn":
		return westeros.AdvanceActionTurn(gs)

	case "declare_support":
		return westeros.DeclareSupport(gs, req.AreaID, westeros.SupportChoice(req.Choice))
	case "select_card":
		return westeros.SelectHouseCard(gs, house, req.CardID)
	case "use_blade":
		return westeros.UseValyrianSteelBlade(gs)
	case "resolve_combat":
		return westeros.ResolveCombat(gs)
	case "aeron_swap":
		return westeros.ResolveAeronSwap(gs, req.CardID)
	case "tyrion_cancel":
		return westeros.ResolveTyrionCancel(gs, req.CardID)
	case "patchface_discard":
		return westeros.ResolvePatchfaceDiscard(gs, req.CardID)
	case "retreat":
		return westeros.ResolveRetreat(gs, req.ToArea)
	case "forced_retreat":
		return westeros.ResolveForcedRetreat(gs, req.ToArea)

	case "bid":
		return westeros.SubmitBid(gs, house, req.Amount)
	case "resolve_bids":
		return westeros.ResolveBids(gs)
	case "decision":
		return westeros.MakeDecision(gs, req.Action)
	case "next_westeros_card":
		return westeros.ResolveNextWesterosCard(gs)
	case "ack_westeros":
		return westeros.AcknowledgeWesterosCards(gs)
	case "ack_wildling":
		return westeros.AcknowledgeWildlingCard(gs)
	case "resolve_game_of_thrones":
		return westeros.ResolveGameOfThrones(gs)

	case "muster":
		t, err := parseUnitType(req.UnitType)
		if err != nil {
			return nil, err
		}
		return westeros.MusterUnit(gs, req.AreaID, t)
	case "upgrade_footman":
		return westeros.UpgradeFootmanToKnight(gs, req.AreaID, req.UnitIndex)
	case "skip_muster":
		return westeros.SkipMustering(gs, req.AreaID)
	case "skip_all_muster":
		return westeros.SkipAllMustering(gs)
	case "reconcile":
		return westeros.ResolveReconcileArmy(gs, house, req.AreaID, req.UnitIndex)

	case "resolve_phase":
		return westeros.ResolvePhase(gs)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAction, req.Type)
}

// parseUnitType converts the wire name of a unit type.
func parseUnitType(s string) (westeros.UnitType, error) {
	switch s {
	case "footman":
		return westeros.Footman, nil
	case "knight":
		return westeros.Knight, nil
	case "ship":
		return westeros.Ship, nil
	case "siege_engine", "siege engine":
		return westeros.SiegeEngine, nil
	}
	return westeros.Footman, fmt.Errorf("unknown unit type %q", s)
}
