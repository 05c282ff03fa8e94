//-------------------------------------------------------------------------
//
// SuperMart ETL
//
// Copyright (c) 2025 - 2026, EAN TechRetail Solutions
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package pipeline

// Clean applies the three cleaning steps in order: date normalization,
// customer sentinel fill, and deduplication by order id. It returns the
// cleaned table and the list of dropped duplicate order ids.
func Clean(txs []Transaction) ([]Transaction, []int64) {
	cleaned := NormalizeDates(txs)
	cleaned = FillCustomers(cleaned)
	return Deduplicate(cleaned)
}

// NormalizeDates parses the raw fecha column on every row. Rows whose date
// matches no known layout keep a nil date and flow downstream; they are
// counted by the quality reporter, never dropped.
func NormalizeDates(txs []Transaction) []Transaction {
	out := make([]Transaction, len(txs))
	for i, tx := range txs {
		tx.Date = ParseDate(tx.RawDate)
		out[i] = tx
	}
	return out
}

// FillCustomers replaces missing customer ids with the UnknownCustomer
// sentinel.
func FillCustomers(txs []Transaction) []Transaction {
	out := make([]Transaction, len(txs))
	for i, tx := range txs {
		if tx.CustomerID == "" {
			tx.CustomerID = UnknownCustomer
		}
		out[i] = tx
	}
	return out
}

// Deduplicate removes every row after the first occurrence of each order id,
// scanning in input order, and returns the dropped ids for reporting. Rows
// without an order id carry no usable key and are always kept.
func Deduplicate(txs []Transaction) ([]Transaction, []int64) {
	seen := make(map[int64]bool, len(txs))
	kept := make([]Transaction, 0, len(txs))
	var dropped []int64

	for _, tx := range txs {
		if tx.OrderID == nil {
			kept = append(kept, tx)
			continue
		}
		if seen[*tx.OrderID] {
			dropped = append(dropped, *tx.OrderID)
			continue
		}
		seen[*tx.OrderID] = true
		kept = append(kept, tx)
	}
	return kept, dropped
}
