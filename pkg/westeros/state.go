package westeros

import (
	"fmt"
	"math/rand"
	"sort"
)

// Phase represents a top-level game round phase.
type Phase string

const (
	PhaseWesteros Phase = "westeros"
	PhasePlanning Phase = "planning"
	PhaseAction   Phase = "action"
)

// ActionSubPhase tracks progress through the Action phase: raids first,
// then marches, then consolidation.
type ActionSubPhase string

const (
	SubPhaseRaid        ActionSubPhase = "raid"
	SubPhaseMarch       ActionSubPhase = "march"
	SubPhaseConsolidate ActionSubPhase = "consolidate"
	SubPhaseDone        ActionSubPhase = "done"
)

// RuleError describes why an action was rejected. The state passed to
// the rejecting operation is returned unchanged alongside it.
type RuleError struct {
	Op      string
	Message string
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func ruleErr(op, format string, args ...any) *RuleError {
	return &RuleError{Op: op, Message: fmt.Sprintf(format, args...)}
}

// Garrison is a defense token bound to an area. Neutral garrisons use
// the house of the territory they stand in for ownership checks.
type Garrison struct {
	House    House
	Strength int
}

// AreaState holds the dynamic contents of one board area.
type AreaState struct {
	Units      []Unit
	Order      *Order
	Controller House
	Blocked    bool // impassable (3-player variant)
}

// UnitPool tracks a house's off-board units available for mustering.
type UnitPool struct {
	Footmen      int
	Knights      int
	Ships        int
	SiegeEngines int
}

// Count returns the number of available units of the given type.
func (p UnitPool) Count(t UnitType) int {
	switch t {
	case Footman:
		return p.Footmen
	case Knight:
		return p.Knights
	case Ship:
		return p.Ships
	default:
		return p.SiegeEngines
	}
}

// Add adjusts the pool for the given type by n (may be negative).
func (p *UnitPool) Add(t UnitType, n int) {
	switch t {
	case Footman:
		p.Footmen += n
	case Knight:
		p.Knights += n
	case Ship:
		p.Ships += n
	default:
		p.SiegeEngines += n
	}
}

// HouseState holds everything a single house owns off the board.
type HouseState struct {
	Influence  Influence
	Supply     int
	Power      int
	Pool       UnitPool
	Hand       []HouseCard
	Discards   []HouseCard
	UsedTokens []int // indices into OrderTokens
}

// HandCard returns the card with the given ID from the house's hand,
// or nil if it is not there.
func (hs *HouseState) HandCard(id string) *HouseCard {
	for i := range hs.Hand {
		if hs.Hand[i].ID == id {
			return &hs.Hand[i]
		}
	}
	return nil
}

// DiscardedCard returns the card with the given ID from the discard
// pile, or nil.
func (hs *HouseState) DiscardedCard(id string) *HouseCard {
	for i := range hs.Discards {
		if hs.Discards[i].ID == id {
			return &hs.Discards[i]
		}
	}
	return nil
}

// SupportChoice is a third-party supporter's declared side.
type SupportChoice string

const (
	SupportAttacker SupportChoice = "attacker"
	SupportDefender SupportChoice = "defender"
	SupportNeither  SupportChoice = "neither"
)

// SupportSource identifies a third-party support order adjacent to a
// combat that has not declared a side yet.
type SupportSource struct {
	House  House
	AreaID string
}

// SupportDeclarations is pending while third-party houses with adjacent
// support orders choose a side.
type SupportDeclarations struct {
	AreaID    string
	Attacker  House
	Defender  House
	Pending   []SupportSource
	Decisions map[string]SupportChoice // support area ID -> choice
}

// TyrionCancel is pending while the opponent of a played Tyrion
// Lannister picks a replacement card.
type TyrionCancel struct {
	TyrionHouse     House
	Opponent        House
	CancelledCardID string
}

// AeronSwap is pending while a house that revealed Aeron Damphair
// decides whether to pay two power and swap him out.
type AeronSwap struct {
	House House
}

// PatchfacePeek is pending while a Patchface winner picks a card from
// the opponent's hand to discard.
type PatchfacePeek struct {
	Winner   House
	Opponent House
}

// Retreat is a pending retreat of defeated units. Choices lists the
// legal destination areas.
type Retreat struct {
	House    House
	Units    []Unit
	FromArea string
	Choices  []string
}

// ForcedRetreat is pending while a Robb Stark winner chooses the
// loser's retreat area.
type ForcedRetreat struct {
	Winner    House
	Retreater House
	Units     []Unit
	FromArea  string
	Choices   []string
}

// MusterSite is one castle or stronghold with mustering points left to
// spend.
type MusterSite struct {
	House  House
	AreaID string
	Points int
}

// BidTarget identifies what a bidding round is for.
type BidTarget string

const (
	BidIronThrone BidTarget = "iron-throne"
	BidFiefdoms   BidTarget = "fiefdoms"
	BidKingsCourt BidTarget = "kings-court"
	BidWildling   BidTarget = "wildling"
)

// trackFor maps an influence-track bid target to its track.
func (b BidTarget) track() (Track, bool) {
	switch b {
	case BidIronThrone:
		return IronThrone, true
	case BidFiefdoms:
		return Fiefdoms, true
	case BidKingsCourt:
		return KingsCourt, true
	}
	return 0, false
}

func bidTargetFor(t Track) BidTarget {
	switch t {
	case IronThrone:
		return BidIronThrone
	case Fiefdoms:
		return BidFiefdoms
	default:
		return BidKingsCourt
	}
}

// Bidding is a pending blind-bid round (Clash of Kings track or a
// wildling attack).
type Bidding struct {
	Target    BidTarget
	Bids      map[House]int
	Remaining []Track // Clash of Kings: tracks still to be bid after this one
}

// DecisionOption is one selectable outcome of a pending decision.
type DecisionOption struct {
	Label  string
	Action string
}

// Decision is a pending choice given to a single house by an event
// card.
type Decision struct {
	Card    string
	Chooser House
	Options []DecisionOption
}

// SupplyViolation is one oversized army that must shrink.
type SupplyViolation struct {
	AreaID     string
	Size       int
	MaxAllowed int
}

// ReconcileEntry tracks one house's outstanding supply violations.
type ReconcileEntry struct {
	House      House
	Violations []SupplyViolation
}

// CombatSubPhase tracks where a combat is in its pipeline.
type CombatSubPhase string

const (
	CombatSupport    CombatSubPhase = "support"
	CombatCards      CombatSubPhase = "cards"
	CombatPreCombat  CombatSubPhase = "pre-combat"
	CombatResolution CombatSubPhase = "resolution"
)

// Combat holds an in-progress battle.
type Combat struct {
	Attacker       House
	Defender       House
	AreaID         string
	FromArea       string
	AttackingUnits []Unit
	DefendingUnits []Unit
	AttackerCard   string
	DefenderCard   string

	// Accumulated non-card strength: units, march/defense bonuses,
	// garrison, support.
	AttackerStrength int
	DefenderStrength int

	AttackerUsedBlade bool
	DefenderUsedBlade bool

	SupportDecisions map[string]SupportChoice

	SubPhase       CombatSubPhase
	AeronResolved  bool
	TyrionResolved bool
}

// GameState is a complete snapshot of a game. All mutating operations
// clone the state and return the clone; on a rule violation the input
// state is returned unchanged together with a *RuleError.
type GameState struct {
	Round  int
	Phase  Phase
	Winner House

	Houses    map[House]*HouseState
	Board     map[string]*AreaState
	TurnOrder []House
	Garrisons map[string]Garrison

	CurrentHouse   House
	ActionSubPhase ActionSubPhase
	ActionIndex    int

	WildlingThreat int

	// Deck III round restrictions.
	BannedOrders     []OrderType
	BannedStarOrders []OrderType

	BladeUsed bool // Valyrian Steel Blade spent this round
	RavenUsed bool // Messenger Raven spent this round

	// Persistent shuffled decks, drawn from the front.
	WesterosDeck1 []WesterosCard
	WesterosDeck2 []WesterosCard
	WesterosDeck3 []WesterosCard
	Wildlings     []WildlingCard

	Combat *Combat

	// Pending interactions. At most one of these is active at a time,
	// except that a pending mustering queue may coexist with the drawn
	// Westeros card display.
	PendingSupport        *SupportDeclarations
	PendingTyrion         *TyrionCancel
	PendingAeron          *AeronSwap
	PendingPatchface      *PatchfacePeek
	PendingRetreat        *Retreat
	PendingForcedRetreat  *ForcedRetreat
	PendingPowerTokenArea string
	PendingMustering      []MusterSite
	PendingBidding        *Bidding
	PendingDecision       *Decision
	PendingReconcile      []ReconcileEntry
	PendingGameOfThrones  bool

	// Westeros phase card display and resolution cursor.
	DrawnWesterosCards  []WesterosCard
	WesterosIndex       int
	CurrentWildlingCard *WildlingCard

	rng *rand.Rand
}

// SetRand attaches the random source used for deck shuffles. States
// restored from a snapshot need one before the next Westeros phase.
func (gs *GameState) SetRand(r *rand.Rand) {
	gs.rng = r
}

func (gs *GameState) rand() *rand.Rand {
	if gs.rng == nil {
		gs.rng = rand.New(rand.NewSource(1))
	}
	return gs.rng
}

// HouseStateOf returns the state of the given house, or nil if it is
// not in the game.
func (gs *GameState) HouseStateOf(h House) *HouseState {
	return gs.Houses[h]
}

// AreaStateOf returns the dynamic state of an area, or nil.
func (gs *GameState) AreaStateOf(id string) *AreaState {
	return gs.Board[id]
}

// InGame reports whether the house is playing this game.
func (gs *GameState) InGame(h House) bool {
	_, ok := gs.Houses[h]
	return ok
}

// TrackHolder returns the house at position 1 of the given influence
// track (the dominance token holder).
func (gs *GameState) TrackHolder(t Track) House {
	best := gs.TurnOrder[0]
	bestPos := gs.Houses[best].Influence.Position(t)
	for _, h := range gs.TurnOrder[1:] {
		if pos := gs.Houses[h].Influence.Position(t); pos < bestPos {
			best, bestPos = h, pos
		}
	}
	return best
}

// CastleCount returns the number of castles and strongholds the house
// controls.
func (gs *GameState) CastleCount(h House) int {
	m := StandardMap()
	count := 0
	for id, as := range gs.Board {
		if as.Controller == h && m.Areas[id].HasFortification() {
			count++
		}
	}
	return count
}

// HasPendingInteraction reports whether any suspension point is
// waiting on player input.
func (gs *GameState) HasPendingInteraction() bool {
	return gs.PendingSupport != nil ||
		gs.PendingTyrion != nil ||
		gs.PendingAeron != nil ||
		gs.PendingPatchface != nil ||
		gs.PendingRetreat != nil ||
		gs.PendingForcedRetreat != nil ||
		gs.PendingPowerTokenArea != "" ||
		len(gs.PendingMustering) > 0 ||
		gs.PendingBidding != nil ||
		gs.PendingDecision != nil ||
		len(gs.PendingReconcile) > 0 ||
		gs.PendingGameOfThrones ||
		gs.CurrentWildlingCard != nil
}

// hasOrderType reports whether the house has an unresolved order of the
// given type anywhere on the board.
func (gs *GameState) hasOrderType(h House, t OrderType) bool {
	for _, as := range gs.Board {
		if as.Order != nil && as.Order.House == h && as.Order.Type == t {
			return true
		}
	}
	return false
}

// nextWithOrder returns the turn-order index of the next house at or
// after start that holds an order of the given type, or -1.
func (gs *GameState) nextWithOrder(t OrderType, start int) int {
	n := len(gs.TurnOrder)
	for i := 0; i < n; i++ {
		idx := (start + i) % n
		if gs.hasOrderType(gs.TurnOrder[idx], t) {
			return idx
		}
	}
	return -1
}

// sortTurnOrder rebuilds the turn order from Iron Throne positions.
func (gs *GameState) sortTurnOrder() {
	sort.SliceStable(gs.TurnOrder, func(i, j int) bool {
		return gs.Houses[gs.TurnOrder[i]].Influence.IronThrone <
			gs.Houses[gs.TurnOrder[j]].Influence.IronThrone
	})
}

// sortedAreaIDs returns board area IDs in lexical order. Board scans
// that pick "the first" matching area iterate in this order so results
// are deterministic.
func (gs *GameState) sortedAreaIDs() []string {
	ids := make([]string, 0, len(gs.Board))
	for id := range gs.Board {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clone returns a deep copy of the GameState. Mutations to the clone do
// not affect the original. The random source is shared.
func (gs *GameState) Clone() *GameState {
	c := &GameState{
		Round:                 gs.Round,
		Phase:                 gs.Phase,
		Winner:                gs.Winner,
		CurrentHouse:          gs.CurrentHouse,
		ActionSubPhase:        gs.ActionSubPhase,
		ActionIndex:           gs.ActionIndex,
		WildlingThreat:        gs.WildlingThreat,
		BladeUsed:             gs.BladeUsed,
		RavenUsed:             gs.RavenUsed,
		PendingPowerTokenArea: gs.PendingPowerTokenArea,
		PendingGameOfThrones:  gs.PendingGameOfThrones,
		WesterosIndex:         gs.WesterosIndex,
		rng:                   gs.rng,
	}

	c.Houses = make(map[House]*HouseState, len(gs.Houses))
	for h, hs := range gs.Houses {
		c.Houses[h] = cloneHouseState(hs)
	}
	c.Board = make(map[string]*AreaState, len(gs.Board))
	for id, as := range gs.Board {
		c.Board[id] = cloneAreaState(as)
	}
	c.TurnOrder = append([]House(nil), gs.TurnOrder...)
	c.Garrisons = make(map[string]Garrison, len(gs.Garrisons))
	for id, g := range gs.Garrisons {
		c.Garrisons[id] = g
	}

	c.BannedOrders = append([]OrderType(nil), gs.BannedOrders...)
	c.BannedStarOrders = append([]OrderType(nil), gs.BannedStarOrders...)
	c.WesterosDeck1 = append([]WesterosCard(nil), gs.WesterosDeck1...)
	c.WesterosDeck2 = append([]WesterosCard(nil), gs.WesterosDeck2...)
	c.WesterosDeck3 = append([]WesterosCard(nil), gs.WesterosDeck3...)
	c.Wildlings = append([]WildlingCard(nil), gs.Wildlings...)
	c.DrawnWesterosCards = append([]WesterosCard(nil), gs.DrawnWesterosCards...)

	if gs.Combat != nil {
		cb := *gs.Combat
		cb.AttackingUnits = append([]Unit(nil), gs.Combat.AttackingUnits...)
		cb.DefendingUnits = append([]Unit(nil), gs.Combat.DefendingUnits...)
		if gs.Combat.SupportDecisions != nil {
			cb.SupportDecisions = make(map[string]SupportChoice, len(gs.Combat.SupportDecisions))
			for k, v := range gs.Combat.SupportDecisions {
				cb.SupportDecisions[k] = v
			}
		}
		c.Combat = &cb
	}

	if gs.PendingSupport != nil {
		ps := *gs.PendingSupport
		ps.Pending = append([]SupportSource(nil), gs.PendingSupport.Pending...)
		ps.Decisions = make(map[string]SupportChoice, len(gs.PendingSupport.Decisions))
		for k, v := range gs.PendingSupport.Decisions {
			ps.Decisions[k] = v
		}
		c.PendingSupport = &ps
	}
	if gs.PendingTyrion != nil {
		pt := *gs.PendingTyrion
		c.PendingTyrion = &pt
	}
	if gs.PendingAeron != nil {
		pa := *gs.PendingAeron
		c.PendingAeron = &pa
	}
	if gs.PendingPatchface != nil {
		pp := *gs.PendingPatchface
		c.PendingPatchface = &pp
	}
	if gs.PendingRetreat != nil {
		pr := *gs.PendingRetreat
		pr.Units = append([]Unit(nil), gs.PendingRetreat.Units...)
		pr.Choices = append([]string(nil), gs.PendingRetreat.Choices...)
		c.PendingRetreat = &pr
	}
	if gs.PendingForcedRetreat != nil {
		pf := *gs.PendingForcedRetreat
		pf.Units = append([]Unit(nil), gs.PendingForcedRetreat.Units...)
		pf.Choices = append([]string(nil), gs.PendingForcedRetreat.Choices...)
		c.PendingForcedRetreat = &pf
	}
	if gs.PendingMustering != nil {
		c.PendingMustering = append([]MusterSite(nil), gs.PendingMustering...)
	}
	if gs.PendingBidding != nil {
		pb := *gs.PendingBidding
		pb.Bids = make(map[House]int, len(gs.PendingBidding.Bids))
		for h, b := range gs.PendingBidding.Bids {
			pb.Bids[h] = b
		}
		pb.Remaining = append([]Track(nil), gs.PendingBidding.Remaining...)
		c.PendingBidding = &pb
	}
	if gs.PendingDecision != nil {
		pd := *gs.PendingDecision
		pd.Options = append([]DecisionOption(nil), gs.PendingDecision.Options...)
		c.PendingDecision = &pd
	}
	if gs.PendingReconcile != nil {
		c.PendingReconcile = make([]ReconcileEntry, len(gs.PendingReconcile))
		for i, re := range gs.PendingReconcile {
			c.PendingReconcile[i] = ReconcileEntry{
				House:      re.House,
				Violations: append([]SupplyViolation(nil), re.Violations...),
			}
		}
	}
	if gs.CurrentWildlingCard != nil {
		wc := *gs.CurrentWildlingCard
		c.CurrentWildlingCard = &wc
	}

	return c
}

func cloneHouseState(hs *HouseState) *HouseState {
	c := *hs
	c.Hand = append([]HouseCard(nil), hs.Hand...)
	c.Discards = append([]HouseCard(nil), hs.Discards...)
	c.UsedTokens = append([]int(nil), hs.UsedTokens...)
	return &c
}

func cloneAreaState(as *AreaState) *AreaState {
	c := *as
	c.Units = append([]Unit(nil), as.Units...)
	if as.Order != nil {
		o := *as.Order
		c.Order = &o
	}
	return &c
}
