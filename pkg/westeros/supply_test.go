package westeros

import "testing"

func TestRecalculateSupply(t *testing.T) {
	gs := newTestGame(t, 6)

	// Hand Stark the barrel-rich Blackwater.
	gs.Board["blackwater"].Controller = Stark
	gs.Board["blackwater"].Units = []Unit{{Type: Footman, House: Stark}}

	ns := gs.Clone()
	recalculateSupply(ns)
	// Winterfell's barrel plus Blackwater's two.
	if got := ns.Houses[Stark].Supply; got != 3 {
		t.Errorf("stark supply = %d, want 3", got)
	}
	if got := ns.Houses[Lannister].Supply; got != 2 {
		t.Errorf("lannister supply = %d, want 2", got)
	}
}

func TestRecalculateSupplyCapped(t *testing.T) {
	gs := newTestGame(t, 6)
	// Give Stark far more barrels than the track can hold.
	for _, id := range []string{"blackwater", "lannisport", "highgarden", "searoad-marches"} {
		gs.Board[id].Controller = Stark
	}

	ns := gs.Clone()
	recalculateSupply(ns)
	if got := ns.Houses[Stark].Supply; got != MaxSupply {
		t.Errorf("stark supply = %d, want the cap %d", got, MaxSupply)
	}
}

func TestQueueSupplyReconciliation(t *testing.T) {
	gs := newTestGame(t, 6)

	// Nobody starts over their limits.
	ns := gs.Clone()
	queueSupplyReconciliation(ns)
	if ns.PendingReconcile != nil {
		t.Errorf("pending reconcile = %v, want none", ns.PendingReconcile)
	}

	// Stark at supply one may field one army of three and one of two.
	ns = gs.Clone()
	wf := ns.Board["winterfell"]
	wf.Units = append(wf.Units, Unit{Type: Footman, House: Stark}, Unit{Type: Footman, House: Stark})
	wh := ns.Board["white-harbor"]
	wh.Units = append(wh.Units, Unit{Type: Footman, House: Stark}, Unit{Type: Footman, House: Stark})

	queueSupplyReconciliation(ns)
	if len(ns.PendingReconcile) != 1 {
		t.Fatalf("pending reconcile = %v, want one entry", ns.PendingReconcile)
	}
	entry := ns.PendingReconcile[0]
	if entry.House != Stark {
		t.Errorf("entry house = %s, want stark", entry.House)
	}
	// Armies of four and three against limits of three and two.
	if len(entry.Violations) != 2 {
		t.Fatalf("violations = %v, want 2", entry.Violations)
	}
	if entry.Violations[0].AreaID != "winterfell" || entry.Violations[0].MaxAllowed != 3 {
		t.Errorf("violation[0] = %+v", entry.Violations[0])
	}
	if entry.Violations[1].AreaID != "white-harbor" || entry.Violations[1].MaxAllowed != 2 {
		t.Errorf("violation[1] = %+v", entry.Violations[1])
	}
}

func TestResolveReconcileArmy(t *testing.T) {
	gs := newTestGame(t, 6)
	wf := gs.Board["winterfell"]
	wf.Units = append(wf.Units, Unit{Type: Footman, House: Stark}, Unit{Type: Footman, House: Stark})
	wh := gs.Board["white-harbor"]
	wh.Units = append(wh.Units, Unit{Type: Footman, House: Stark}, Unit{Type: Footman, House: Stark})
	queueSupplyReconciliation(gs)

	// One footman off the Winterfell army of four.
	ns, err := ResolveReconcileArmy(gs, Stark, "winterfell", 2)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if got := len(ns.Board["winterfell"].Units); got != 3 {
		t.Errorf("winterfell has %d units, want 3", got)
	}
	if got := ns.Houses[Stark].Pool.Footmen; got != 9 {
		t.Errorf("footman pool = %d, want 9", got)
	}
	// Still over: two armies of three against limits of three and two.
	if len(ns.PendingReconcile) != 1 {
		t.Fatalf("pending reconcile should remain, got %v", ns.PendingReconcile)
	}

	ns, err = ResolveReconcileArmy(ns, Stark, "white-harbor", 2)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if ns.PendingReconcile != nil {
		t.Errorf("pending reconcile = %v, want cleared", ns.PendingReconcile)
	}
}

func TestResolveReconcileArmyRejections(t *testing.T) {
	gs := newTestGame(t, 6)

	if _, err := ResolveReconcileArmy(gs, Stark, "winterfell", 0); err == nil {
		t.Error("reconciling without a pending violation should fail")
	}

	wf := gs.Board["winterfell"]
	wf.Units = append(wf.Units, Unit{Type: Footman, House: Stark}, Unit{Type: Footman, House: Stark})
	queueSupplyReconciliation(gs)

	if _, err := ResolveReconcileArmy(gs, Lannister, "lannisport", 0); err == nil {
		t.Error("a house with no violations cannot reconcile")
	}
	if _, err := ResolveReconcileArmy(gs, Stark, "lannisport", 0); err == nil {
		t.Error("reconciling in another house's area should fail")
	}
	if _, err := ResolveReconcileArmy(gs, Stark, "winterfell", 9); err == nil {
		t.Error("a bad unit index should fail")
	}
}

func TestReconcileEmptiedAreaLosesControl(t *testing.T) {
	gs := newTestGame(t, 6)
	wf := gs.Board["winterfell"]
	wf.Units = append(wf.Units, Unit{Type: Footman, House: Stark}, Unit{Type: Footman, House: Stark})
	// A lone footman elsewhere may be given up instead of the army's.
	gs.Board["karhold"].Controller = Stark
	gs.Board["karhold"].Units = []Unit{{Type: Footman, House: Stark}}
	queueSupplyReconciliation(gs)
	if len(gs.PendingReconcile) != 1 {
		t.Fatalf("pending reconcile = %v, want one entry", gs.PendingReconcile)
	}

	ns, err := ResolveReconcileArmy(gs, Stark, "karhold", 0)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if got := ns.Board["karhold"].Controller; got != NoHouse {
		t.Errorf("karhold controller = %s, want none after emptying", got)
	}
	// Winterfell's four still break the limit of three.
	if len(ns.PendingReconcile) != 1 {
		t.Fatalf("pending reconcile should remain, got %v", ns.PendingReconcile)
	}

	ns, err = ResolveReconcileArmy(ns, Stark, "winterfell", 0)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if ns.PendingReconcile != nil {
		t.Errorf("pending reconcile = %v, want cleared", ns.PendingReconcile)
	}
}
