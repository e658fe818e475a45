package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"bookkeeper/internal/config"
	"bookkeeper/internal/ledger"
	"bookkeeper/internal/services"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		DatabaseDriver: "sqlite",
		DatabaseURL:    filepath.Join(t.TempDir(), "ledger.db"),
		CacheTTL:       60,
		BackupPrefix:   "test-backup",
	}
}

func run(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(cfg)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestExportImportRoundTrip(t *testing.T) {
	cfg := testConfig(t)
	file := filepath.Join(t.TempDir(), "backup.json")

	out, err := run(t, cfg, "export", "--out", file)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out, file) {
		t.Fatalf("expected output to name %s got %q", file, out)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	var b services.Backup
	if err := json.Unmarshal(data, &b); err != nil {
		t.Fatalf("decode backup: %v", err)
	}
	if b.Version != services.BackupVersion || len(b.Orders) != 0 {
		t.Fatalf("unexpected backup %+v", b)
	}

	if _, err := run(t, cfg, "import", "--in", file); err == nil || !strings.Contains(err.Error(), "--yes") {
		t.Fatalf("expected import without --yes to be refused got %v", err)
	}

	out, err = run(t, cfg, "import", "--in", file, "--yes")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(out, "Database imported") {
		t.Fatalf("unexpected import output %q", out)
	}
}

func TestExportToStdout(t *testing.T) {
	out, err := run(t, testConfig(t), "export", "--out", "-")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	var b services.Backup
	if err := json.Unmarshal([]byte(out), &b); err != nil {
		t.Fatalf("decode stdout: %v", err)
	}
	if b.VendorTransactions == nil {
		t.Fatalf("expected vendorTransactions array")
	}
}

func TestImportRejectsInvalidFile(t *testing.T) {
	cfg := testConfig(t)
	file := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(file, []byte(`{"orders":{}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := run(t, cfg, "import", "--in", file, "--yes")
	if !errors.Is(err, services.ErrInvalidBackup) {
		t.Fatalf("expected ErrInvalidBackup got %v", err)
	}
}

func TestMaintenanceCommandsOnEmptyLedger(t *testing.T) {
	cfg := testConfig(t)

	out, err := run(t, cfg, "audit", "--fail-on-drift")
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	var report services.AuditReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode audit: %v", err)
	}
	if !report.Consistent() {
		t.Fatalf("expected empty ledger to be consistent: %+v", report)
	}

	cases := map[string]string{
		"summary": "cashInHand",
		"rebuild": "transactions",
		"migrate": "ordersNormalized",
	}
	for name, want := range cases {
		out, err := run(t, cfg, name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if !strings.Contains(out, want) {
			t.Fatalf("%s: expected %q in %q", name, want, out)
		}
	}
}

type countingCache struct {
	invalidated int
}

func (c *countingCache) GetDashboard(ctx context.Context) (*ledger.Dashboard, bool, error) {
	return nil, false, nil
}

func (c *countingCache) SetDashboard(ctx context.Context, d *ledger.Dashboard, ttl time.Duration) error {
	return nil
}

func (c *countingCache) InvalidateDashboard(ctx context.Context) error {
	c.invalidated++
	return nil
}

func TestWritesInvalidateDashboardCache(t *testing.T) {
	cfg := testConfig(t)
	file := filepath.Join(t.TempDir(), "backup.json")
	if _, err := run(t, cfg, "export", "--out", file); err != nil {
		t.Fatalf("export: %v", err)
	}

	for _, args := range [][]string{{"import", "--in", file, "--yes"}, {"rebuild"}} {
		cache := &countingCache{}
		a := &app{cfg: cfg, cache: cache}
		cmd := a.rootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs(args)
		if err := cmd.Execute(); err != nil {
			t.Fatalf("%s: %v", args[0], err)
		}
		if cache.invalidated == 0 {
			t.Fatalf("%s: expected dashboard cache to be invalidated", args[0])
		}
	}
}

func TestUnreachableRedisIsSkipped(t *testing.T) {
	cfg := testConfig(t)
	cfg.RedisURL = "redis://127.0.0.1:1/0"

	a := &app{cfg: cfg}
	cmd := a.rootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"rebuild"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if a.cache != nil || !a.cacheTried {
		t.Fatalf("expected cache disabled after failed connect")
	}
}
