package ledger

import "bookkeeper/internal/models"

// UnknownVendor is displayed for expense lines whose vendor no longer exists.
const UnknownVendor = "N/A"

// ResolveVendorName picks the name to show for an expense line: the snapshot
// taken when the vendor was assigned, else the current vendor record, else
// UnknownVendor. Vendor-less lines resolve to "".
func ResolveVendorName(e models.ExpenseLine, vendors map[string]models.Vendor) string {
	if !e.HasVendor() {
		return ""
	}
	if e.VendorName != "" {
		return e.VendorName
	}
	if v, ok := vendors[string(e.VendorID)]; ok && v.Name != "" {
		return v.Name
	}
	return UnknownVendor
}

// IndexVendors maps vendors by id.
func IndexVendors(vendors []models.Vendor) map[string]models.Vendor {
	m := make(map[string]models.Vendor, len(vendors))
	for _, v := range vendors {
		m[v.ID] = v
	}
	return m
}
