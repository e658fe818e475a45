package services

import (
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"bookkeeper/internal/ledger"
	"bookkeeper/internal/logger"
	"bookkeeper/internal/models"
	"bookkeeper/internal/repository"
)

const (
	FindingMissing    = "missing"
	FindingOrphaned   = "orphaned"
	FindingMismatched = "mismatched"
	FindingDuplicate  = "duplicate"
)

// AuditFinding is one divergence between the stored vendor transactions and
// the expense lines they should mirror.
type AuditFinding struct {
	Kind          string `json:"kind"`
	OrderID       string `json:"orderId"`
	ExpenseID     string `json:"expenseId,omitempty"`
	TransactionID string `json:"transactionId,omitempty"`
	VendorID      string `json:"vendorId,omitempty"`
	Detail        string `json:"detail"`
}

type AuditReport struct {
	Orders               int            `json:"orders"`
	StoredTransactions   int            `json:"storedTransactions"`
	ExpectedTransactions int            `json:"expectedTransactions"`
	Findings             []AuditFinding `json:"findings"`
}

func (r *AuditReport) Consistent() bool {
	return len(r.Findings) == 0
}

type ReconcileService interface {
	Audit() (*AuditReport, error)
	Repair() (*RebuildResult, error)
}

type reconcileService struct {
	store *repository.Store
	sync  TransactionSynchronizer
	cache invalidator
	log   zerolog.Logger
}

func NewReconcileService(store *repository.Store, sync TransactionSynchronizer, cache MetricsCache) ReconcileService {
	log := logger.WithComponent("reconcile")
	return &reconcileService{store: store, sync: sync, cache: invalidator{cache: cache, log: log}, log: log}
}

// Audit compares the stored transactions with the projection of the current
// orders. Ids and timestamps are ignored; contents are compared per
// expense line.
func (s *reconcileService) Audit() (*AuditReport, error) {
	orders, err := s.store.Orders.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	vendors, err := s.store.Vendors.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load vendors: %w", err)
	}
	stored, err := s.store.VendorTransactions.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load vendor transactions: %w", err)
	}

	report := &AuditReport{Orders: len(orders), StoredTransactions: len(stored), Findings: []AuditFinding{}}
	index := ledger.IndexVendors(vendors)
	byOrder := make(map[string][]models.VendorTransaction)
	for _, t := range stored {
		byOrder[t.OrderID] = append(byOrder[t.OrderID], t)
	}

	known := make(map[string]bool, len(orders))
	for _, o := range orders {
		known[o.ID] = true
		// Project emits one transaction per vendor line, in line order.
		projected := s.sync.Project(o, index)
		expected := make(map[string]models.VendorTransaction, len(projected))
		j := 0
		for i, e := range o.Expenses {
			if !e.HasVendor() {
				continue
			}
			expected[lineKey(e, i)] = projected[j]
			j++
		}
		report.ExpectedTransactions += len(expected)
		report.Findings = append(report.Findings, auditOrder(o, expected, byOrder[o.ID])...)
	}

	for orderID, txs := range byOrder {
		if known[orderID] {
			continue
		}
		for _, t := range txs {
			report.Findings = append(report.Findings, AuditFinding{
				Kind:          FindingOrphaned,
				OrderID:       orderID,
				ExpenseID:     t.ExpenseKey(),
				TransactionID: t.ID,
				VendorID:      t.VendorID,
				Detail:        "order does not exist",
			})
		}
	}

	for _, f := range report.Findings {
		reconcileFindingsTotal.WithLabelValues(f.Kind).Inc()
	}
	s.log.Info().
		Int("orders", report.Orders).
		Int("stored", report.StoredTransactions).
		Int("expected", report.ExpectedTransactions).
		Int("findings", len(report.Findings)).
		Msg("Vendor transaction audit finished")
	return report, nil
}

func (s *reconcileService) Repair() (*RebuildResult, error) {
	result, err := s.sync.Rebuild()
	if err != nil {
		return nil, err
	}
	s.cache.invalidate()
	return result, nil
}

func auditOrder(o models.Order, expected map[string]models.VendorTransaction, stored []models.VendorTransaction) []AuditFinding {
	var findings []AuditFinding
	seen := make(map[string]bool, len(stored))

	for _, t := range stored {
		key := storedKey(o, t)
		want, ok := expected[key]
		if key == "" || !ok {
			findings = append(findings, AuditFinding{
				Kind:          FindingOrphaned,
				OrderID:       o.ID,
				ExpenseID:     t.ExpenseKey(),
				TransactionID: t.ID,
				VendorID:      t.VendorID,
				Detail:        "no vendor expense line matches this transaction",
			})
			continue
		}
		if seen[key] {
			findings = append(findings, AuditFinding{
				Kind:          FindingDuplicate,
				OrderID:       o.ID,
				ExpenseID:     t.ExpenseKey(),
				TransactionID: t.ID,
				VendorID:      t.VendorID,
				Detail:        "more than one transaction for the same expense line",
			})
			continue
		}
		seen[key] = true
		if detail := compareTransaction(want, t); detail != "" {
			findings = append(findings, AuditFinding{
				Kind:          FindingMismatched,
				OrderID:       o.ID,
				ExpenseID:     t.ExpenseKey(),
				TransactionID: t.ID,
				VendorID:      t.VendorID,
				Detail:        detail,
			})
		}
	}

	for key, want := range expected {
		if seen[key] {
			continue
		}
		findings = append(findings, AuditFinding{
			Kind:      FindingMissing,
			OrderID:   o.ID,
			ExpenseID: want.ExpenseKey(),
			VendorID:  want.VendorID,
			Detail:    "vendor expense line has no transaction",
		})
	}
	return findings
}

func compareTransaction(want, got models.VendorTransaction) string {
	switch {
	case want.VendorID != got.VendorID:
		return fmt.Sprintf("vendor %q, expected %q", got.VendorID, want.VendorID)
	case !want.Amount.Equal(got.Amount):
		return fmt.Sprintf("amount %s, expected %s", got.Amount, want.Amount)
	case want.Status != got.Status:
		return fmt.Sprintf("status %q, expected %q", got.Status, want.Status)
	case want.ExpenseDescription != got.ExpenseDescription:
		return fmt.Sprintf("description %q, expected %q", got.ExpenseDescription, want.ExpenseDescription)
	}
	return ""
}

func lineKey(e models.ExpenseLine, i int) string {
	if e.ID != "" {
		return string(e.ID)
	}
	return "#" + strconv.Itoa(i)
}

// storedKey finds the expense line a stored transaction claims to mirror.
// Unlinked transactions fall back to the first structurally equal line.
func storedKey(o models.Order, t models.VendorTransaction) string {
	if key := t.ExpenseKey(); key != "" {
		return key
	}
	for i, e := range o.Expenses {
		if e.HasVendor() && string(e.VendorID) == t.VendorID && e.Description == t.ExpenseDescription && e.Amount.Equal(t.Amount) {
			return lineKey(e, i)
		}
	}
	return ""
}
