package backup

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"inventory_tracker/internal/config"
	"inventory_tracker/internal/model"
	"inventory_tracker/internal/store"

	"go.uber.org/zap/zaptest"
)

func openTestStore(t *testing.T, dir string) *store.Store {
	t.Helper()
	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	s, err := store.Open(context.Background(), cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestExportWritesHeaderAndRows(t *testing.T) {
	dir := t.TempDir()
	s := openTestStore(t, dir)
	ctx := context.Background()
	ts := time.Date(2021, 3, 4, 0, 0, 0, 0, time.Local)
	for _, p := range []*model.Product{
		{Name: "Widget", Quantity: 3, Price: 1299, DateUpdated: ts},
		{Name: "Gadget, large", Quantity: 1, Price: 5, DateUpdated: ts.Add(90 * time.Minute)},
	} {
		if err := s.Create(ctx, p); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	path := filepath.Join(dir, "backup.csv")
	n, err := New(s, path, zaptest.NewLogger(t)).Export(ctx)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 rows, got %d", n)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	want := "product_id,product_name,product_price,product_quantity,date_updated\n" +
		"1,Widget,1299,3,2021-03-04 00:00:00\n" +
		"2,\"Gadget, large\",5,1,2021-03-04 01:30:00\n"
	if string(data) != want {
		t.Fatalf("unexpected backup:\n%s\nwant:\n%s", data, want)
	}
}

func TestExportOverwritesPreviousBackup(t *testing.T) {
	dir := t.TempDir()
	s := openTestStore(t, dir)
	path := filepath.Join(dir, "backup.csv")
	if err := os.WriteFile(path, []byte(strings.Repeat("stale line\n", 50)), 0o644); err != nil {
		t.Fatalf("seed backup: %v", err)
	}
	if _, err := New(s, path, nil).Export(context.Background()); err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	if strings.Contains(string(data), "stale") {
		t.Fatalf("expected backup to be overwritten, got:\n%s", data)
	}
}

func TestExportUnwritablePath(t *testing.T) {
	dir := t.TempDir()
	s := openTestStore(t, dir)
	_, err := New(s, filepath.Join(dir, "missing", "backup.csv"), nil).Export(context.Background())
	var storageErr *model.StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("expected StorageError, got %v", err)
	}
}
