package pipeline

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
)

func fixturePaths(t *testing.T, transactions, products, stores string) Paths {
	t.Helper()
	dir := t.TempDir()
	p := Paths{
		Transactions: filepath.Join(dir, "ventas_crudas.csv"),
		Products:     filepath.Join(dir, "productos.csv"),
		Stores:       filepath.Join(dir, "tiendas.csv"),
		OutDir:       filepath.Join(dir, "salida"),
	}
	if transactions != "" {
		writeFile(t, dir, "ventas_crudas.csv", transactions)
	}
	if products != "" {
		writeFile(t, dir, "productos.csv", products)
	}
	if stores != "" {
		writeFile(t, dir, "tiendas.csv", stores)
	}
	return p
}

func readCSVFile(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse %s: %v", path, err)
	}
	return rows
}

const (
	e2eTransactions = `order_id,producto_id,cantidad,precio_unitario,cliente_id,tienda_id,fecha
1001,P001,2,3.50,C0001,T01,2024-03-15
1001,P001,2,3.50,C0001,T01,2024-03-15
1002,P002,1,60.00,,T02,15-03-2024
1003,P999,3,8.00,C0002,T99,fecha-desconocida
`
	e2eProducts = `producto_id,nombre,categoria
P001,Leche Entera,Lácteos
P002,Vino Tinto,Licores
`
	e2eStores = `tienda_id,ciudad,region
T01,Bogotá,Cundinamarca
T02,Medellín,Antioquia
`
)

func TestRunEndToEnd(t *testing.T) {
	p := fixturePaths(t, e2eTransactions, e2eProducts, e2eStores)

	res, err := Run(p)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	for _, st := range res.Statuses {
		if !st.OK() {
			t.Errorf("source %s: state = %s (%s), want ok", st.Source, st.State, st.Err)
		}
	}

	// 4 raw rows, one exact duplicate removed.
	if len(res.Enriched) != 3 {
		t.Fatalf("enriched rows = %d, want 3", len(res.Enriched))
	}
	if len(res.DroppedOrders) != 1 || res.DroppedOrders[0] != 1001 {
		t.Errorf("dropped orders = %v, want [1001]", res.DroppedOrders)
	}

	// The blank customer was filled with the sentinel.
	var sentinel int
	for _, e := range res.Enriched {
		if e.CustomerID == UnknownCustomer {
			sentinel++
		}
	}
	if sentinel != 1 {
		t.Errorf("sentinel customers = %d, want 1", sentinel)
	}

	if res.Quality.TotalRecords != 3 || res.Quality.DuplicatesRemoved != 1 {
		t.Errorf("quality = %+v", res.Quality)
	}
	if res.Quality.ValidDates != 2 {
		t.Errorf("ValidDates = %d, want 2", res.Quality.ValidDates)
	}
	if res.Quality.MissingProduct != 1 || res.Quality.MissingStore != 1 {
		t.Errorf("orphans = %d/%d, want 1/1",
			res.Quality.MissingProduct, res.Quality.MissingStore)
	}

	if !res.HasSummary {
		t.Fatal("expected headline metrics for a non-empty dataset")
	}
	// 7.00 + 60.00 + 24.00
	if res.Summary.TotalRevenue.StringFixed(2) != "91.00" {
		t.Errorf("TotalRevenue = %s, want 91.00", res.Summary.TotalRevenue.StringFixed(2))
	}
	if res.Summary.Transactions != 3 {
		t.Errorf("Transactions = %d, want 3", res.Summary.Transactions)
	}
	if res.Summary.UniqueCustomers != 3 {
		t.Errorf("UniqueCustomers = %d, want 3", res.Summary.UniqueCustomers)
	}
	if res.Summary.TopCity != "Medellín" {
		t.Errorf("TopCity = %s, want Medellín", res.Summary.TopCity)
	}

	if len(res.Mart) != 3 {
		t.Errorf("mart groups = %d, want 3", len(res.Mart))
	}

	// All three CSV artifacts exist and parse back.
	if len(res.Files) != 3 {
		t.Fatalf("artifacts = %v, want 3 files", res.Files)
	}
	enrichedRows := readCSVFile(t, filepath.Join(p.OutDir, EnrichedFile))
	if len(enrichedRows) != 4 { // header + 3 rows
		t.Errorf("enriched artifact has %d rows, want 4", len(enrichedRows))
	}
	martRows := readCSVFile(t, filepath.Join(p.OutDir, MartFile))
	if len(martRows) != 4 {
		t.Errorf("mart artifact has %d rows, want 4", len(martRows))
	}
	summaryRows := readCSVFile(t, filepath.Join(p.OutDir, SummaryFile))
	if len(summaryRows) != 7 { // header + 6 metrics
		t.Errorf("summary artifact has %d rows, want 7", len(summaryRows))
	}
}

func TestRunMissingTransactions(t *testing.T) {
	p := fixturePaths(t, "", e2eProducts, e2eStores)

	res, err := Run(p)
	if err != nil {
		t.Fatalf("Run should degrade, not fail: %v", err)
	}

	if res.Statuses[0].State != LoadFileNotFound {
		t.Errorf("transactions state = %s, want %s", res.Statuses[0].State, LoadFileNotFound)
	}
	if len(res.Enriched) != 0 {
		t.Errorf("enriched rows = %d, want 0", len(res.Enriched))
	}
	if res.HasSummary {
		t.Error("headline metrics should be undefined for an empty dataset")
	}

	// Artifacts are still written, headers only.
	for _, name := range []string{EnrichedFile, MartFile} {
		rows := readCSVFile(t, filepath.Join(p.OutDir, name))
		if len(rows) != 1 {
			t.Errorf("%s has %d rows, want header only", name, len(rows))
		}
	}
}

func TestRunMissingCatalogs(t *testing.T) {
	p := fixturePaths(t, e2eTransactions, "", "")

	res, err := Run(p)
	if err != nil {
		t.Fatalf("Run should degrade, not fail: %v", err)
	}

	if res.Statuses[1].State != LoadFileNotFound || res.Statuses[2].State != LoadFileNotFound {
		t.Error("catalog statuses should be file_not_found")
	}

	// Every row survives the joins with nil catalog fields.
	if len(res.Enriched) != 3 {
		t.Fatalf("enriched rows = %d, want 3", len(res.Enriched))
	}
	for i, e := range res.Enriched {
		if e.Category != nil || e.City != nil || e.Region != nil {
			t.Errorf("row %d: catalog fields should be nil without catalogs", i)
		}
	}
	if res.Quality.MissingProduct != 3 || res.Quality.MissingStore != 3 {
		t.Errorf("orphans = %d/%d, want 3/3",
			res.Quality.MissingProduct, res.Quality.MissingStore)
	}
}
