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
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// MartRow is one row of the aggregated sales mart: the composite dimension
// key plus the three aggregates. Nil key components are valid groups (rows
// with an unparseable date or an unmatched catalog key are aggregated, not
// dropped).
type MartRow struct {
	Date     *time.Time
	Year     *int
	Month    *int
	Weekday  *string
	City     *string
	Region   *string
	Category *string

	Transactions int64
	Units        int64
	Revenue      decimal.Decimal
}

// groupKey is the comparable form of the mart dimension tuple. Nil
// components are encoded as valid=false so they group together.
type groupKey struct {
	date     string
	hasDate  bool
	city     string
	hasCity  bool
	region   string
	hasReg   bool
	category string
	hasCat   bool
}

// Aggregate groups the enriched table by (fecha, anio, mes, dia_semana,
// ciudad, region, categoria) and computes per group: transaction count, unit
// sum, and revenue sum. Year, month and weekday derive from the date, so the
// date alone determines them inside a group. Output rows are sorted by the
// group key for deterministic artifacts.
func Aggregate(rows []Enriched) []MartRow {
	groups := make(map[groupKey]*MartRow, len(rows))
	keys := make([]groupKey, 0, len(rows))

	for _, r := range rows {
		k := keyOf(r)
		g, ok := groups[k]
		if !ok {
			g = &MartRow{
				Date:     r.Date,
				Year:     r.Year,
				Month:    r.Month,
				Weekday:  r.Weekday,
				City:     r.City,
				Region:   r.Region,
				Category: r.Category,
			}
			groups[k] = g
			keys = append(keys, k)
		}

		g.Transactions++
		if r.Quantity != nil {
			g.Units += *r.Quantity
		}
		if r.Total != nil {
			g.Revenue = g.Revenue.Add(*r.Total)
		}
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })

	out := make([]MartRow, 0, len(keys))
	for _, k := range keys {
		out = append(out, *groups[k])
	}
	return out
}

func keyOf(r Enriched) groupKey {
	k := groupKey{}
	if r.Date != nil {
		k.date = r.Date.Format("2006-01-02")
		k.hasDate = true
	}
	if r.City != nil {
		k.city = *r.City
		k.hasCity = true
	}
	if r.Region != nil {
		k.region = *r.Region
		k.hasReg = true
	}
	if r.Category != nil {
		k.category = *r.Category
		k.hasCat = true
	}
	return k
}

// less orders keys field by field; absent components sort before present
// ones.
func (k groupKey) less(o groupKey) bool {
	if k.hasDate != o.hasDate {
		return !k.hasDate
	}
	if k.date != o.date {
		return k.date < o.date
	}
	if k.hasCity != o.hasCity {
		return !k.hasCity
	}
	if k.city != o.city {
		return k.city < o.city
	}
	if k.hasReg != o.hasReg {
		return !k.hasReg
	}
	if k.region != o.region {
		return k.region < o.region
	}
	if k.hasCat != o.hasCat {
		return !k.hasCat
	}
	return k.category < o.category
}
