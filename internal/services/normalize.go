package services

import (
	"fmt"

	"bookkeeper/internal/models"
)

// NormalizeOrder fixes the shapes older data files contain: missing line
// slices, lines without ids or sharing an id, and expense lines without a
// payment status. Replacement ids are derived from the order id and line
// position so running it twice yields the same result. The first line
// carrying an id keeps it. It reports whether anything changed.
func NormalizeOrder(o *models.Order) bool {
	changed := o.Expenses == nil || o.Payments == nil
	o.EnsureSlices()

	expenseIDs := make([]*models.FlexibleID, len(o.Expenses))
	for i := range o.Expenses {
		e := &o.Expenses[i]
		expenseIDs[i] = &e.ID
		if e.VendorPaymentStatus == "" {
			e.VendorPaymentStatus = models.StatusPaid
			changed = true
		}
	}
	if uniqueLineIDs(expenseIDs, o.ID+"-exp") {
		changed = true
	}

	paymentIDs := make([]*models.FlexibleID, len(o.Payments))
	for i := range o.Payments {
		paymentIDs[i] = &o.Payments[i].ID
	}
	if uniqueLineIDs(paymentIDs, o.ID+"-pay") {
		changed = true
	}
	return changed
}

// uniqueLineIDs gives every empty or repeated id the value <prefix>-<index>,
// suffixed further if that is already taken by another line.
func uniqueLineIDs(ids []*models.FlexibleID, prefix string) bool {
	taken := make(map[models.FlexibleID]bool, len(ids))
	for _, id := range ids {
		if *id != "" {
			taken[*id] = true
		}
	}

	changed := false
	kept := make(map[models.FlexibleID]bool, len(ids))
	for i, id := range ids {
		if *id != "" && !kept[*id] {
			kept[*id] = true
			continue
		}
		candidate := models.FlexibleID(fmt.Sprintf("%s-%d", prefix, i))
		for n := 1; taken[candidate]; n++ {
			candidate = models.FlexibleID(fmt.Sprintf("%s-%d-%d", prefix, i, n))
		}
		*id = candidate
		taken[candidate] = true
		kept[candidate] = true
		changed = true
	}
	return changed
}

// LinkLegacyTransactions gives transactions written before expense ids
// existed the id of the line they mirror, matching on vendor, description
// and amount. Each line is claimed at most once, so duplicate lines are
// paired with duplicate transactions in order. It returns the transactions
// it linked and the number it could not place.
func LinkLegacyTransactions(orders []models.Order, transactions []models.VendorTransaction) ([]models.VendorTransaction, int) {
	byID := make(map[string]*models.Order, len(orders))
	for i := range orders {
		byID[orders[i].ID] = &orders[i]
	}

	claimed := make(map[string]bool)
	for _, t := range transactions {
		if key := t.ExpenseKey(); key != "" {
			claimed[t.OrderID+"\x00"+key] = true
		}
	}

	var (
		linked     []models.VendorTransaction
		unresolved int
	)
	for _, t := range transactions {
		if t.ExpenseKey() != "" {
			continue
		}
		order, ok := byID[t.OrderID]
		if !ok {
			unresolved++
			continue
		}
		found := false
		for _, e := range order.Expenses {
			if e.ID == "" || !e.HasVendor() || claimed[order.ID+"\x00"+string(e.ID)] {
				continue
			}
			if string(e.VendorID) == t.VendorID && e.Description == t.ExpenseDescription && e.Amount.Equal(t.Amount) {
				id := string(e.ID)
				t.ExpenseID = &id
				claimed[order.ID+"\x00"+id] = true
				linked = append(linked, t)
				found = true
				break
			}
		}
		if !found {
			unresolved++
		}
	}
	return linked, unresolved
}
