package pipeline

import (
	"testing"
	"time"
)

func ptr[T any](v T) *T {
	return &v
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string // "2006-01-02" rendering, empty = nil expected
	}{
		{"year month day", "2024-03-15", "2024-03-15"},
		{"day month year", "15-03-2024", "2024-03-15"},
		{"ambiguous prefers first layout", "2024-03-05", "2024-03-05"},
		{"invalid under both layouts", "2024-13-45", ""},
		{"day month year with bad day", "31-02-2024", ""},
		{"garbage", "fecha-desconocida", ""},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"trimmed", " 2024-03-15 ", "2024-03-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDate(tt.raw)
			if tt.want == "" {
				if got != nil {
					t.Errorf("ParseDate(%q) = %v, want nil", tt.raw, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("ParseDate(%q) = nil, want %s", tt.raw, tt.want)
			}
			if got.Format("2006-01-02") != tt.want {
				t.Errorf("ParseDate(%q) = %s, want %s", tt.raw, got.Format("2006-01-02"), tt.want)
			}
		})
	}
}

func TestDayName(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2024-03-11", "Lunes"},   // Monday
		{"2024-03-14", "Jueves"},  // Thursday
		{"2024-03-16", "Sábado"},  // Saturday
		{"2024-03-17", "Domingo"}, // Sunday
	}

	for _, tt := range tests {
		d, err := time.Parse("2006-01-02", tt.date)
		if err != nil {
			t.Fatal(err)
		}
		if got := DayName(d); got != tt.want {
			t.Errorf("DayName(%s) = %s, want %s", tt.date, got, tt.want)
		}
	}
}

func TestNormalizeDatesKeepsRows(t *testing.T) {
	txs := []Transaction{
		{RawDate: "2024-03-15"},
		{RawDate: "2024-13-45"},
		{RawDate: ""},
	}

	got := NormalizeDates(txs)
	if len(got) != len(txs) {
		t.Fatalf("row count changed: %d -> %d", len(txs), len(got))
	}
	if got[0].Date == nil {
		t.Error("valid date not parsed")
	}
	if got[1].Date != nil || got[2].Date != nil {
		t.Error("invalid dates should stay nil")
	}
	// Input slice must not be mutated
	if txs[0].Date != nil {
		t.Error("NormalizeDates mutated its input")
	}
}

func TestFillCustomers(t *testing.T) {
	txs := []Transaction{
		{CustomerID: "C0001"},
		{CustomerID: ""},
	}

	got := FillCustomers(txs)
	if got[0].CustomerID != "C0001" {
		t.Errorf("existing customer overwritten: %s", got[0].CustomerID)
	}
	if got[1].CustomerID != UnknownCustomer {
		t.Errorf("missing customer = %q, want %q", got[1].CustomerID, UnknownCustomer)
	}
}

func TestDeduplicateFirstOccurrenceWins(t *testing.T) {
	// order_id 1001 appears at positions 1, 4 and 7 with differing values;
	// only the row at position 1 may survive.
	txs := []Transaction{
		{OrderID: ptr(int64(1001)), ProductID: "P001"},
		{OrderID: ptr(int64(1002)), ProductID: "P002"},
		{OrderID: ptr(int64(1003)), ProductID: "P003"},
		{OrderID: ptr(int64(1001)), ProductID: "P004"},
		{OrderID: ptr(int64(1004)), ProductID: "P005"},
		{OrderID: ptr(int64(1005)), ProductID: "P006"},
		{OrderID: ptr(int64(1001)), ProductID: "P007"},
	}

	kept, dropped := Deduplicate(txs)

	if len(kept) != 5 {
		t.Fatalf("kept %d rows, want 5", len(kept))
	}
	if len(dropped) != 2 {
		t.Fatalf("dropped %d ids, want 2", len(dropped))
	}
	for _, id := range dropped {
		if id != 1001 {
			t.Errorf("dropped id %d, want 1001", id)
		}
	}

	// The survivor for 1001 is the first occurrence.
	for _, tx := range kept {
		if *tx.OrderID == 1001 && tx.ProductID != "P001" {
			t.Errorf("survivor for 1001 has ProductID %s, want P001", tx.ProductID)
		}
	}

	// No repeated order id remains.
	seen := make(map[int64]bool)
	for _, tx := range kept {
		if seen[*tx.OrderID] {
			t.Errorf("order id %d appears twice after dedup", *tx.OrderID)
		}
		seen[*tx.OrderID] = true
	}
}

func TestDeduplicateKeepsRowsWithoutOrderID(t *testing.T) {
	txs := []Transaction{
		{OrderID: nil, ProductID: "P001"},
		{OrderID: nil, ProductID: "P002"},
		{OrderID: ptr(int64(7)), ProductID: "P003"},
	}

	kept, dropped := Deduplicate(txs)
	if len(kept) != 3 {
		t.Errorf("kept %d rows, want 3 (rows without order id are never duplicates)", len(kept))
	}
	if len(dropped) != 0 {
		t.Errorf("dropped %d ids, want 0", len(dropped))
	}
}
