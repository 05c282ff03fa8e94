//-------------------------------------------------------------------------
//
// SuperMart ETL
//
// Copyright (c) 2025 - 2026, EAN TechRetail Solutions
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/eantechretail/supermart-etl/internal/logging"
)

// Paths holds the source file locations and the output directory for one
// batch run.
type Paths struct {
	Transactions string
	Products     string
	Stores       string
	OutDir       string
}

// Result carries everything a single batch run produced. Chart and report
// rendering consume it after Run returns.
type Result struct {
	GeneratedAt time.Time

	Statuses      []LoadStatus
	Enriched      []Enriched
	DroppedOrders []int64
	Quality       QualityCounters
	Mart          []MartRow

	// Summary is only meaningful when HasSummary is true; an empty enriched
	// table leaves the headline metrics undefined.
	Summary    Summary
	HasSummary bool

	// Files lists the artifacts written so far, for the report manifest.
	Files []string

	// Catalogs held between the load and enrich stages.
	products []Product
	stores   []Store
}

// Run executes the full batch: load, clean, enrich, measure, aggregate,
// summarize, and write the three CSV artifacts. Load failures degrade to
// empty tables and are reported through statuses; a join cardinality
// violation or an artifact write failure aborts the run.
func Run(p Paths) (*Result, error) {
	res := &Result{GeneratedAt: time.Now()}

	txs := loadSources(p, res)

	cleaned, dropped := Clean(txs)
	res.DroppedOrders = dropped
	logging.Info().
		Int("rows", len(cleaned)).
		Int("duplicates_removed", len(dropped)).
		Msg("Cleaning complete")

	products, stores := res.catalogs()
	enriched, err := Enrich(cleaned, products, stores)
	if err != nil {
		return nil, fmt.Errorf("enrichment failed: %w", err)
	}
	res.Enriched = enriched

	res.Quality = MeasureQuality(enriched, len(dropped))
	ev := logging.Info()
	for _, c := range res.Quality.Items() {
		ev = ev.Int(c.Name, c.Value)
	}
	ev.Msg("Data quality")

	res.Mart = Aggregate(enriched)
	logging.Info().Int("groups", len(res.Mart)).Msg("Mart aggregated")

	summary, err := Summarize(enriched)
	switch {
	case errors.Is(err, ErrEmptyDataset):
		logging.Warn().Msg("No transactions; skipping headline metrics")
	case err != nil:
		return nil, fmt.Errorf("summary failed: %w", err)
	default:
		res.Summary = summary
		res.HasSummary = true
	}

	if err := res.writeArtifacts(p.OutDir); err != nil {
		return nil, err
	}
	return res, nil
}

// loadSources loads the three inputs, records their statuses, and stashes
// the catalogs on the result for the enrichment step.
func loadSources(p Paths, res *Result) []Transaction {
	txs, txStatus := LoadTransactions(p.Transactions)
	products, prodStatus := LoadProducts(p.Products)
	stores, storeStatus := LoadStores(p.Stores)

	res.Statuses = []LoadStatus{txStatus, prodStatus, storeStatus}
	for _, st := range res.Statuses {
		if st.OK() {
			logging.Info().
				Str("source", st.Source).
				Str("path", st.Path).
				Int("rows", st.Rows).
				Msg("Source loaded")
		} else {
			logging.Warn().
				Str("source", st.Source).
				Str("path", st.Path).
				Str("state", string(st.State)).
				Str("error", st.Err).
				Msg("Source unavailable; continuing with empty table")
		}
	}

	res.products = products
	res.stores = stores
	return txs
}

func (r *Result) catalogs() ([]Product, []Store) {
	return r.products, r.stores
}

func (r *Result) writeArtifacts(outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	for _, artifact := range []struct {
		name  string
		write func(string) error
	}{
		{EnrichedFile, func(p string) error { return WriteEnriched(p, r.Enriched) }},
		{MartFile, func(p string) error { return WriteMart(p, r.Mart) }},
		{SummaryFile, func(p string) error { return WriteSummary(p, r.Summary) }},
	} {
		path := filepath.Join(outDir, artifact.name)
		if err := artifact.write(path); err != nil {
			return err
		}
		r.Files = append(r.Files, path)
		logging.Debug().Str("path", path).Msg("Artifact written")
	}
	return nil
}
