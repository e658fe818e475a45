package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"bookkeeper/internal/logger"
	"bookkeeper/internal/models"
	"bookkeeper/internal/repository"
)

// BackupVersion is written into every exported document.
const BackupVersion = "1.1.0"

// Backup is the portable snapshot of every collection.
type Backup struct {
	Orders             []models.Order             `json:"orders"`
	Expenses           []models.GeneralExpense    `json:"expenses"`
	Vendors            []models.Vendor            `json:"vendors"`
	VendorTransactions []models.VendorTransaction `json:"vendorTransactions"`
	Funds              []models.FundTransaction   `json:"funds"`
	ExportedAt         time.Time                  `json:"exportedAt"`
	Version            string                     `json:"version"`
}

// ImportCounts reports how many records of each collection were imported.
type ImportCounts struct {
	Orders             int `json:"orders"`
	Expenses           int `json:"expenses"`
	Vendors            int `json:"vendors"`
	VendorTransactions int `json:"vendorTransactions"`
	Funds              int `json:"funds"`
}

type BackupService interface {
	Snapshot() (*Backup, error)
	Export(w io.Writer) error
	ExportToFile(path string) error
	// Import replaces every collection with the content of r. Validation
	// failures return ErrInvalidBackup and leave the store untouched.
	Import(r io.Reader) (*ImportCounts, error)
	ImportFromFile(path string) (*ImportCounts, error)
	DefaultFileName(now time.Time) string
}

type backupService struct {
	store  *repository.Store
	prefix string
	now    Clock
	cache  invalidator
	log    zerolog.Logger
}

func NewBackupService(store *repository.Store, prefix string, cache MetricsCache, clock Clock) BackupService {
	if clock == nil {
		clock = systemClock
	}
	if prefix == "" {
		prefix = "bookkeeper-accounts-backup"
	}
	log := logger.WithComponent("backup")
	return &backupService{
		store:  store,
		prefix: prefix,
		now:    clock,
		cache:  invalidator{cache: cache, log: log},
		log:    log,
	}
}

func (s *backupService) Snapshot() (*Backup, error) {
	b := &Backup{ExportedAt: s.now(), Version: BackupVersion}
	var err error
	if b.Orders, err = s.store.Orders.GetAll(); err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	if b.Expenses, err = s.store.Expenses.GetAll(); err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}
	if b.Vendors, err = s.store.Vendors.GetAll(); err != nil {
		return nil, fmt.Errorf("failed to load vendors: %w", err)
	}
	if b.VendorTransactions, err = s.store.VendorTransactions.GetAll(); err != nil {
		return nil, fmt.Errorf("failed to load vendor transactions: %w", err)
	}
	if b.Funds, err = s.store.Funds.GetAll(); err != nil {
		return nil, fmt.Errorf("failed to load fund transactions: %w", err)
	}
	b.fillEmpty()
	return b, nil
}

func (s *backupService) Export(w io.Writer) error {
	b, err := s.Snapshot()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		return &BackupError{Op: "write", Err: fmt.Errorf("%w: %w", ErrBackupIO, err)}
	}
	s.log.Info().
		Int("orders", len(b.Orders)).
		Int("vendor_transactions", len(b.VendorTransactions)).
		Msg("Database exported")
	return nil
}

// ExportToFile writes the backup to a temporary file next to path and
// renames it into place, so a failed export never leaves a partial file.
func (s *backupService) ExportToFile(path string) error {
	var buf bytes.Buffer
	if err := s.Export(&buf); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return &BackupError{Op: "write", Err: fmt.Errorf("%w: %w", ErrBackupIO, err)}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return &BackupError{Op: "write", Err: fmt.Errorf("%w: %w", ErrBackupIO, err)}
	}
	return nil
}

func (s *backupService) Import(r io.Reader) (*ImportCounts, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &BackupError{Op: "read", Err: fmt.Errorf("%w: %w", ErrBackupIO, err)}
	}
	b, err := ParseBackup(data)
	if err != nil {
		return nil, &BackupError{Op: "validate", Err: err}
	}
	s.normalize(b)

	err = s.store.Transaction(func(tx *repository.Store) error {
		if err := tx.Orders.ReplaceAll(b.Orders); err != nil {
			return fmt.Errorf("failed to import orders: %w", err)
		}
		if err := tx.Expenses.ReplaceAll(b.Expenses); err != nil {
			return fmt.Errorf("failed to import expenses: %w", err)
		}
		if err := tx.Vendors.ReplaceAll(b.Vendors); err != nil {
			return fmt.Errorf("failed to import vendors: %w", err)
		}
		if err := tx.VendorTransactions.ReplaceAll(b.VendorTransactions); err != nil {
			return fmt.Errorf("failed to import vendor transactions: %w", err)
		}
		if err := tx.Funds.ReplaceAll(b.Funds); err != nil {
			return fmt.Errorf("failed to import fund transactions: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, &BackupError{Op: "import", Err: err}
	}

	counts := &ImportCounts{
		Orders:             len(b.Orders),
		Expenses:           len(b.Expenses),
		Vendors:            len(b.Vendors),
		VendorTransactions: len(b.VendorTransactions),
		Funds:              len(b.Funds),
	}
	s.cache.invalidate()
	s.log.Info().
		Int("orders", counts.Orders).
		Int("expenses", counts.Expenses).
		Int("vendors", counts.Vendors).
		Int("vendor_transactions", counts.VendorTransactions).
		Int("funds", counts.Funds).
		Str("version", b.Version).
		Msg("Database imported")
	return counts, nil
}

func (s *backupService) ImportFromFile(path string) (*ImportCounts, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &BackupError{Op: "open", Err: fmt.Errorf("%w: %w", ErrBackupIO, err)}
	}
	defer f.Close()
	return s.Import(f)
}

func (s *backupService) DefaultFileName(now time.Time) string {
	return fmt.Sprintf("%s-%s.json", s.prefix, now.Format("2006-01-02"))
}

// normalize upgrades legacy shapes in place before the data is stored.
func (s *backupService) normalize(b *Backup) {
	for i := range b.Orders {
		if b.Orders[i].ID == "" {
			b.Orders[i].ID = newID()
		}
		NormalizeOrder(&b.Orders[i])
	}
	for i := range b.Vendors {
		if b.Vendors[i].ID == "" {
			b.Vendors[i].ID = newID()
		}
		b.Vendors[i].NormalizeName()
	}
	for i := range b.Expenses {
		if b.Expenses[i].ID == "" {
			b.Expenses[i].ID = newID()
		}
	}
	for i := range b.Funds {
		if b.Funds[i].ID == "" {
			b.Funds[i].ID = newID()
		}
	}
	for i := range b.VendorTransactions {
		if b.VendorTransactions[i].ID == "" {
			b.VendorTransactions[i].ID = newID()
		}
		if b.VendorTransactions[i].Status == "" {
			b.VendorTransactions[i].Status = models.StatusPaid
		}
	}

	linked, unresolved := LinkLegacyTransactions(b.Orders, b.VendorTransactions)
	if len(linked) > 0 {
		byID := make(map[string]models.VendorTransaction, len(linked))
		for _, t := range linked {
			byID[t.ID] = t
		}
		for i, t := range b.VendorTransactions {
			if l, ok := byID[t.ID]; ok {
				b.VendorTransactions[i] = l
			}
		}
	}
	if unresolved > 0 {
		s.log.Warn().Int("count", unresolved).Msg("Legacy vendor transactions without a matching expense line")
	}
}

// ParseBackup decodes and validates a backup document. The orders field is
// required and must be an array; every other collection defaults to empty.
// Records within a collection must have distinct ids.
func ParseBackup(data []byte) (*Backup, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	if !isArray(fields["orders"]) {
		return nil, fmt.Errorf("%w: orders must be an array", ErrInvalidBackup)
	}

	b := &Backup{}
	collections := []struct {
		name string
		dst  interface{}
	}{
		{"orders", &b.Orders},
		{"expenses", &b.Expenses},
		{"vendors", &b.Vendors},
		{"vendorTransactions", &b.VendorTransactions},
		{"funds", &b.Funds},
	}
	for _, c := range collections {
		raw, ok := fields[c.name]
		if !ok || isNull(raw) {
			continue
		}
		if !isArray(raw) {
			return nil, fmt.Errorf("%w: %s must be an array", ErrInvalidBackup, c.name)
		}
		if err := json.Unmarshal(raw, c.dst); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidBackup, c.name, err)
		}
	}
	if raw, ok := fields["version"]; ok {
		_ = json.Unmarshal(raw, &b.Version)
	}
	if raw, ok := fields["exportedAt"]; ok {
		_ = json.Unmarshal(raw, &b.ExportedAt)
	}
	b.fillEmpty()

	if err := checkUnique(b); err != nil {
		return nil, err
	}
	return b, nil
}

func checkUnique(b *Backup) error {
	check := func(name string, ids []string) error {
		seen := make(map[string]bool, len(ids))
		for _, id := range ids {
			if id == "" {
				continue
			}
			if seen[id] {
				return fmt.Errorf("%w: duplicate %s id %q", ErrInvalidBackup, name, id)
			}
			seen[id] = true
		}
		return nil
	}

	ids := make([]string, 0, len(b.Orders))
	for _, o := range b.Orders {
		ids = append(ids, o.ID)
	}
	if err := check("orders", ids); err != nil {
		return err
	}
	ids = ids[:0]
	for _, e := range b.Expenses {
		ids = append(ids, e.ID)
	}
	if err := check("expenses", ids); err != nil {
		return err
	}
	ids = ids[:0]
	for _, v := range b.Vendors {
		ids = append(ids, v.ID)
	}
	if err := check("vendors", ids); err != nil {
		return err
	}
	ids = ids[:0]
	for _, t := range b.VendorTransactions {
		ids = append(ids, t.ID)
	}
	if err := check("vendorTransactions", ids); err != nil {
		return err
	}
	ids = ids[:0]
	for _, f := range b.Funds {
		ids = append(ids, f.ID)
	}
	return check("funds", ids)
}

func (b *Backup) fillEmpty() {
	if b.Orders == nil {
		b.Orders = []models.Order{}
	}
	if b.Expenses == nil {
		b.Expenses = []models.GeneralExpense{}
	}
	if b.Vendors == nil {
		b.Vendors = []models.Vendor{}
	}
	if b.VendorTransactions == nil {
		b.VendorTransactions = []models.VendorTransaction{}
	}
	if b.Funds == nil {
		b.Funds = []models.FundTransaction{}
	}
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
