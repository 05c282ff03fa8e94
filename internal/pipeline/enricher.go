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
	"fmt"

	"github.com/shopspring/decimal"
)

// Enrich computes the derived fields and attaches catalog attributes via
// hash left-joins on producto_id and tienda_id. Left-join semantics: every
// transaction survives, unmatched catalog fields stay nil, and the row count
// never changes. A duplicate key inside a catalog violates the many-to-one
// contract and aborts the stage.
func Enrich(txs []Transaction, products []Product, stores []Store) ([]Enriched, error) {
	productIdx, err := indexProducts(products)
	if err != nil {
		return nil, err
	}
	storeIdx, err := indexStores(stores)
	if err != nil {
		return nil, err
	}

	out := make([]Enriched, 0, len(txs))
	for _, tx := range txs {
		e := Enriched{Transaction: tx}

		e.Total = totalAmount(tx.Quantity, tx.UnitPrice)
		if e.Total != nil {
			e.SizeClass = sizeClass(*e.Total)
		}

		if p, ok := productIdx[tx.ProductID]; ok {
			category := p.Category
			e.Category = &category
		}
		if s, ok := storeIdx[tx.StoreID]; ok {
			city, region := s.City, s.Region
			e.City = &city
			e.Region = &region
		}

		if tx.Date != nil {
			year := tx.Date.Year()
			month := int(tx.Date.Month())
			day := DayName(*tx.Date)
			e.Year = &year
			e.Month = &month
			e.Weekday = &day
		}

		out = append(out, e)
	}
	return out, nil
}

// totalAmount is quantity x unit price rounded to 2 decimal places.
// Rounding is half away from zero (shopspring decimal's Round), the mode
// documented for this pipeline: 2 x 10.005 = 20.01.
func totalAmount(quantity *int64, unitPrice *float64) *decimal.Decimal {
	if quantity == nil || unitPrice == nil {
		return nil
	}
	total := decimal.NewFromInt(*quantity).
		Mul(decimal.NewFromFloat(*unitPrice)).
		Round(2)
	return &total
}

// sizeClass buckets a total amount with inclusive-lower / exclusive-upper
// boundaries at 20 and 50.
func sizeClass(total decimal.Decimal) string {
	switch {
	case total.LessThan(mediumThreshold):
		return SizeLow
	case total.LessThan(highThreshold):
		return SizeMedium
	default:
		return SizeHigh
	}
}

func indexProducts(products []Product) (map[string]Product, error) {
	idx := make(map[string]Product, len(products))
	for _, p := range products {
		if _, dup := idx[p.ID]; dup {
			return nil, fmt.Errorf("product catalog: duplicate producto_id %q violates many-to-one join contract", p.ID)
		}
		idx[p.ID] = p
	}
	return idx, nil
}

func indexStores(stores []Store) (map[string]Store, error) {
	idx := make(map[string]Store, len(stores))
	for _, s := range stores {
		if _, dup := idx[s.ID]; dup {
			return nil, fmt.Errorf("store catalog: duplicate tienda_id %q violates many-to-one join contract", s.ID)
		}
		idx[s.ID] = s
	}
	return idx, nil
}
