package datagen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/eantechretail/supermart-etl/internal/pipeline"
)

func testConfig(dir string) Config {
	return Config{
		Dir:                 dir,
		TransactionsFile:    "ventas_crudas.csv",
		ProductsFile:        "productos.csv",
		StoresFile:          "tiendas.csv",
		Rows:                200,
		Products:            20,
		Stores:              8,
		DuplicateRate:       0.05,
		MissingCustomerRate: 0.08,
		BadDateRate:         0.05,
		OrphanRate:          0.05,
	}
}

func TestWriteAllProducesLoadableFiles(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)

	if err := NewGeneratorWithSeed(42).WriteAll(cfg); err != nil {
		t.Fatalf("WriteAll failed: %v", err)
	}

	txs, status := pipeline.LoadTransactions(filepath.Join(dir, cfg.TransactionsFile))
	if !status.OK() {
		t.Fatalf("transactions: state = %s (%s)", status.State, status.Err)
	}
	if len(txs) != cfg.Rows {
		t.Errorf("got %d transactions, want %d", len(txs), cfg.Rows)
	}

	products, status := pipeline.LoadProducts(filepath.Join(dir, cfg.ProductsFile))
	if !status.OK() {
		t.Fatalf("products: state = %s (%s)", status.State, status.Err)
	}
	if len(products) != cfg.Products {
		t.Errorf("got %d products, want %d", len(products), cfg.Products)
	}
	for _, p := range products {
		if p.ID == "" || p.Category == "" {
			t.Fatalf("product with empty key fields: %+v", p)
		}
	}

	stores, status := pipeline.LoadStores(filepath.Join(dir, cfg.StoresFile))
	if !status.OK() {
		t.Fatalf("stores: state = %s (%s)", status.State, status.Err)
	}
	if len(stores) != cfg.Stores {
		t.Errorf("got %d stores, want %d", len(stores), cfg.Stores)
	}
	for _, s := range stores {
		if s.ID == "" || s.City == "" || s.Region == "" {
			t.Fatalf("store with empty key fields: %+v", s)
		}
	}
}

func TestWriteAllInjectsDefects(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	cfg.Rows = 500

	if err := NewGeneratorWithSeed(7).WriteAll(cfg); err != nil {
		t.Fatalf("WriteAll failed: %v", err)
	}

	txs, status := pipeline.LoadTransactions(filepath.Join(dir, cfg.TransactionsFile))
	if !status.OK() {
		t.Fatalf("transactions: state = %s (%s)", status.State, status.Err)
	}

	seen := make(map[int64]bool)
	var duplicates, missingCustomers, badDates, orphans int
	for _, tx := range txs {
		if tx.OrderID != nil {
			if seen[*tx.OrderID] {
				duplicates++
			}
			seen[*tx.OrderID] = true
		}
		if tx.CustomerID == "" {
			missingCustomers++
		}
		if pipeline.ParseDate(tx.RawDate) == nil {
			badDates++
		}
		if tx.ProductID == "P999" || tx.StoreID == "T99" {
			orphans++
		}
	}

	// At the configured rates over 500 rows every defect class shows up.
	if duplicates == 0 {
		t.Error("expected duplicated order ids")
	}
	if missingCustomers == 0 {
		t.Error("expected blank customer ids")
	}
	if badDates == 0 {
		t.Error("expected unparseable dates")
	}
	if orphans == 0 {
		t.Error("expected orphan catalog references")
	}
}

func TestWriteAllSeedReproducible(t *testing.T) {
	dirA, dirB := t.TempDir(), t.TempDir()
	cfgA, cfgB := testConfig(dirA), testConfig(dirB)

	if err := NewGeneratorWithSeed(99).WriteAll(cfgA); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if err := NewGeneratorWithSeed(99).WriteAll(cfgB); err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	for _, name := range []string{cfgA.TransactionsFile, cfgA.ProductsFile, cfgA.StoresFile} {
		a, err := os.ReadFile(filepath.Join(dirA, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		b, err := os.ReadFile(filepath.Join(dirB, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if string(a) != string(b) {
			t.Errorf("%s differs between runs with the same seed", name)
		}
	}
}
