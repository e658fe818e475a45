package services

import (
	"testing"

	"bookkeeper/internal/models"
)

func findingKinds(r *AuditReport) map[string]int {
	kinds := map[string]int{}
	for _, f := range r.Findings {
		kinds[f.Kind]++
	}
	return kinds
}

func TestAuditConsistentLedger(t *testing.T) {
	env := newTestEnv(t)
	seedLedger(t, env)
	report, err := env.reconcile.Audit()
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if !report.Consistent() {
		t.Fatalf("expected no findings got %+v", report.Findings)
	}
	if report.StoredTransactions != 1 || report.ExpectedTransactions != 1 {
		t.Fatalf("unexpected counts %+v", report)
	}
}

func TestAuditFindsDivergenceAndRepairFixesIt(t *testing.T) {
	env := newTestEnv(t)
	a := env.createOrder(t,
		models.ExpenseLine{Description: "fabric", Amount: dec(200), VendorID: "v1"},
		models.ExpenseLine{Description: "print", Amount: dec(90), VendorID: "v2"},
	)
	txs, _ := env.store.VendorTransactions.GetByOrderID(a.ID)

	// Drop one, corrupt the other, and add one for an order that is gone.
	drift := txs[0]
	drift.Amount = dec(999)
	if err := env.store.VendorTransactions.ReplaceAll([]models.VendorTransaction{
		drift,
		{ID: "ghost", OrderID: "deleted-order", VendorID: "v1", Amount: dec(10), Status: models.StatusPaid},
	}); err != nil {
		t.Fatalf("seed drift: %v", err)
	}

	report, err := env.reconcile.Audit()
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	kinds := findingKinds(report)
	if kinds[FindingMissing] != 1 || kinds[FindingMismatched] != 1 || kinds[FindingOrphaned] != 1 {
		t.Fatalf("unexpected findings %+v", report.Findings)
	}

	result, err := env.reconcile.Repair()
	if err != nil {
		t.Fatalf("repair: %v", err)
	}
	if result.Transactions != 2 {
		t.Fatalf("expected 2 transactions after repair got %d", result.Transactions)
	}
	report, _ = env.reconcile.Audit()
	if !report.Consistent() {
		t.Fatalf("expected consistent ledger after repair, got %+v", report.Findings)
	}
}

func TestAuditFlagsDuplicates(t *testing.T) {
	env := newTestEnv(t)
	o := env.createOrder(t, models.ExpenseLine{Description: "fabric", Amount: dec(200), VendorID: "v1"})
	txs, _ := env.store.VendorTransactions.GetByOrderID(o.ID)
	dup := txs[0]
	dup.ID = dup.ID + "-copy"
	if err := env.store.VendorTransactions.CreateBatch([]models.VendorTransaction{dup}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	report, _ := env.reconcile.Audit()
	if findingKinds(report)[FindingDuplicate] != 1 {
		t.Fatalf("expected one duplicate finding got %+v", report.Findings)
	}
}
