//-------------------------------------------------------------------------
//
// SuperMart ETL
//
// Copyright (c) 2025 - 2026, EAN TechRetail Solutions
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package pipeline

// QualityCounters is the fixed set of structural validity metrics computed
// over the enriched table. The counters are observability only; they never
// alter pipeline behavior.
type QualityCounters struct {
	TotalRecords      int
	DuplicatesRemoved int
	ValidDates        int
	PositiveQuantity  int
	PositivePrice     int
	MissingProduct    int
	MissingStore      int
}

// Counter is one named quality metric.
type Counter struct {
	Name  string
	Value int
}

// MeasureQuality computes the quality counters. duplicatesRemoved comes from
// the cleaner's side output.
func MeasureQuality(rows []Enriched, duplicatesRemoved int) QualityCounters {
	q := QualityCounters{
		TotalRecords:      len(rows),
		DuplicatesRemoved: duplicatesRemoved,
	}
	for _, r := range rows {
		if r.Date != nil {
			q.ValidDates++
		}
		if r.Quantity != nil && *r.Quantity > 0 {
			q.PositiveQuantity++
		}
		if r.UnitPrice != nil && *r.UnitPrice > 0 {
			q.PositivePrice++
		}
		if r.Category == nil {
			q.MissingProduct++
		}
		if r.City == nil {
			q.MissingStore++
		}
	}
	return q
}

// Items returns the counters in their fixed reporting order. The same order
// is used for the operator log and the text report.
func (q QualityCounters) Items() []Counter {
	return []Counter{
		{"registros_totales", q.TotalRecords},
		{"duplicados_eliminados", q.DuplicatesRemoved},
		{"fechas_validas", q.ValidDates},
		{"cantidades_positivas", q.PositiveQuantity},
		{"precios_positivos", q.PositivePrice},
		{"productos_sin_match", q.MissingProduct},
		{"tiendas_sin_match", q.MissingStore},
	}
}
