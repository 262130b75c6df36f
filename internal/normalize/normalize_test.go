package normalize

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"inventory_tracker/internal/model"

	"go.uber.org/zap/zaptest"
)

func TestParsePrice(t *testing.T) {
	cases := map[string]int64{
		"$12.99": 1299,
		"$0.05":  5,
		"$4.10":  410,
	}
	for in, want := range cases {
		got, err := ParsePrice(in)
		if err != nil {
			t.Fatalf("ParsePrice(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ParsePrice(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestParseDateFormatsAtMidnight(t *testing.T) {
	d, err := ParseDate("3/4/2021")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if got := FormatDate(d); got != "2021-03-04 00:00:00" {
		t.Fatalf("FormatDate = %q", got)
	}
	d, err = ParseDate("12/25/2018")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if got := FormatDate(d); got != "2018-12-25 00:00:00" {
		t.Fatalf("FormatDate = %q", got)
	}
}

func TestRowErrors(t *testing.T) {
	cases := []struct {
		name  string
		raw   RawRow
		field string
	}{
		{"bad price", RawRow{Name: "A", Price: "$1x.00", Quantity: "1", DateUpdated: "1/1/2020"}, "product_price"},
		{"exponent price", RawRow{Name: "A", Price: "$1e2", Quantity: "1", DateUpdated: "1/1/2020"}, "product_price"},
		{"negative price", RawRow{Name: "A", Price: "$-5.00", Quantity: "1", DateUpdated: "1/1/2020"}, "product_price"},
		{"signed price", RawRow{Name: "A", Price: "$+3.00", Quantity: "1", DateUpdated: "1/1/2020"}, "product_price"},
		{"overflowing price", RawRow{Name: "A", Price: "$99999999999999999999.00", Quantity: "1", DateUpdated: "1/1/2020"}, "product_price"},
		{"bad date", RawRow{Name: "A", Price: "$1.00", Quantity: "1", DateUpdated: "2020-01-01"}, "date_updated"},
		{"impossible date", RawRow{Name: "A", Price: "$1.00", Quantity: "1", DateUpdated: "13/40/2020"}, "date_updated"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Row(7, tc.raw)
			var parseErr *model.ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected ParseError, got %v", err)
			}
			if parseErr.Field != tc.field || parseErr.Line != 7 {
				t.Fatalf("unexpected parse error: %+v", parseErr)
			}
		})
	}
}

const rawInventory = `product_name,product_price,product_quantity,date_updated
"Pastry - Choclate Baked",$3.19,76,12/18/2018
Bread - Multigrain,$0.05,5,3/4/2021
`

func TestFileWritesCanonicalCSV(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "inventory.csv")
	dst := filepath.Join(dir, "cleaned_inventory.csv")
	if err := os.WriteFile(src, []byte(rawInventory), 0o644); err != nil {
		t.Fatalf("write src: %v", err)
	}

	n, err := New(zaptest.NewLogger(t)).File(context.Background(), src, dst)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 rows, got %d", n)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read dst: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	want := []string{
		"product_name,product_price,product_quantity,date_updated",
		"Pastry - Choclate Baked,319,76,2018-12-18 00:00:00",
		"Bread - Multigrain,5,5,2021-03-04 00:00:00",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d:\n%s", len(want), len(lines), data)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestFileStopsOnFirstBadRow(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "inventory.csv")
	dst := filepath.Join(dir, "cleaned_inventory.csv")
	body := rawInventory + "Broken,$abc,1,1/1/2020\n"
	if err := os.WriteFile(src, []byte(body), 0o644); err != nil {
		t.Fatalf("write src: %v", err)
	}

	_, err := New(nil).File(context.Background(), src, dst)
	var parseErr *model.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if parseErr.Line != 3 {
		t.Fatalf("expected line 3, got %d", parseErr.Line)
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Fatalf("expected no output file, stat err=%v", err)
	}
}

func TestFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	_, err := New(nil).File(context.Background(), filepath.Join(dir, "nope.csv"), filepath.Join(dir, "out.csv"))
	var storageErr *model.StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("expected StorageError, got %v", err)
	}
}
