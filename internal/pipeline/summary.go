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
	"strconv"

	"github.com/shopspring/decimal"
)

// ErrEmptyDataset is returned by Summarize when the enriched table has no
// rows; there is no well-defined top city or category over an empty group.
var ErrEmptyDataset = errors.New("empty dataset: no transactions to summarize")

// Summary holds the headline business metrics over the full enriched table.
type Summary struct {
	// TotalRevenue is the sum of all total amounts, rounded to 2 decimals.
	TotalRevenue decimal.Decimal

	// Transactions is the count of distinct order ids.
	Transactions int

	// AvgTicket is the mean total amount over rows with a defined total,
	// rounded to 2 decimals. Zero when no row has a defined total.
	AvgTicket decimal.Decimal

	// UniqueCustomers counts distinct customer ids; the UNKNOWN_CUSTOMER
	// sentinel counts as a single customer.
	UniqueCustomers int

	// TopCity is the city with the highest summed revenue. Ties break to the
	// city first encountered in table order.
	TopCity string

	// TopCategory is the category with the highest summed revenue, same tie
	// rule as TopCity.
	TopCategory string
}

// Metric is one named summary value, serialized into resumen_metricas.csv.
type Metric struct {
	Name  string
	Value string
}

// Summarize computes the headline metrics. An empty table yields
// ErrEmptyDataset rather than a degenerate maximum.
func Summarize(rows []Enriched) (Summary, error) {
	if len(rows) == 0 {
		return Summary{}, ErrEmptyDataset
	}

	var s Summary
	revenue := decimal.Zero
	withTotal := 0
	orders := make(map[int64]bool)
	customers := make(map[string]bool)

	for _, r := range rows {
		if r.Total != nil {
			revenue = revenue.Add(*r.Total)
			withTotal++
		}
		if r.OrderID != nil {
			orders[*r.OrderID] = true
		}
		customers[r.CustomerID] = true
	}

	s.TotalRevenue = revenue.Round(2)
	s.Transactions = len(orders)
	s.UniqueCustomers = len(customers)
	if withTotal > 0 {
		s.AvgTicket = revenue.Div(decimal.NewFromInt(int64(withTotal))).Round(2)
	}
	s.TopCity = topByRevenue(rows, func(r Enriched) *string { return r.City })
	s.TopCategory = topByRevenue(rows, func(r Enriched) *string { return r.Category })

	return s, nil
}

// Metrics returns the six metric/value pairs in reporting order.
func (s Summary) Metrics() []Metric {
	return []Metric{
		{"ingresos_totales", s.TotalRevenue.StringFixed(2)},
		{"num_transacciones", itoa(s.Transactions)},
		{"ticket_promedio", s.AvgTicket.StringFixed(2)},
		{"clientes_unicos", itoa(s.UniqueCustomers)},
		{"ciudad_top", s.TopCity},
		{"categoria_top", s.TopCategory},
	}
}

func itoa(v int) string {
	return strconv.Itoa(v)
}

// topByRevenue returns the key with the maximum summed total amount. Keys
// are accumulated in first-appearance order so ties resolve to the earliest
// key; rows with a nil key or nil total contribute nothing.
func topByRevenue(rows []Enriched, key func(Enriched) *string) string {
	sums := make(map[string]decimal.Decimal)
	var order []string

	for _, r := range rows {
		k := key(r)
		if k == nil || r.Total == nil {
			continue
		}
		if _, seen := sums[*k]; !seen {
			order = append(order, *k)
		}
		sums[*k] = sums[*k].Add(*r.Total)
	}

	var best string
	var bestSum decimal.Decimal
	found := false
	for _, k := range order {
		if !found || sums[k].GreaterThan(bestSum) {
			best = k
			bestSum = sums[k]
			found = true
		}
	}
	return best
}
