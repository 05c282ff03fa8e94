//-------------------------------------------------------------------------
//
// SuperMart ETL
//
// Copyright (c) 2025 - 2026, EAN TechRetail Solutions
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package pipeline implements the SuperMart sales ETL pipeline: loading the
// raw sales and catalog CSVs, cleaning and enriching the transactions,
// measuring data quality, and producing the aggregated mart and headline
// summary. Stages are pure functions over typed row slices; each stage takes
// its input table and returns new tables, so the pipeline can be tested
// stage by stage.
package pipeline

import (
	"time"

	"github.com/shopspring/decimal"
)

// UnknownCustomer is the sentinel filled into missing customer ids.
const UnknownCustomer = "UNKNOWN_CUSTOMER"

// Sale-size buckets assigned from the total amount.
const (
	SizeLow    = "Low"
	SizeMedium = "Medium"
	SizeHigh   = "High"
)

// Bucket boundaries, inclusive-lower / exclusive-upper.
var (
	mediumThreshold = decimal.NewFromInt(20)
	highThreshold   = decimal.NewFromInt(50)
)

// Transaction is one raw sale line from ventas_crudas.csv.
// Pointer fields are nil when the source value is absent or unparseable.
type Transaction struct {
	OrderID    *int64
	ProductID  string
	Quantity   *int64
	UnitPrice  *float64
	CustomerID string
	StoreID    string

	// RawDate is the fecha column as read from the file.
	RawDate string

	// Date is set by the cleaner; nil when RawDate matches no known layout.
	Date *time.Time
}

// Product is one product catalog row from productos.csv.
type Product struct {
	ID       string
	Category string

	// Attrs holds any further descriptive columns, keyed by header name.
	Attrs map[string]string
}

// Store is one store catalog row from tiendas.csv.
type Store struct {
	ID     string
	City   string
	Region string
	Attrs  map[string]string
}

// Enriched is a cleaned transaction with its derived and joined fields.
// Catalog fields are nil exactly when the product/store id had no match;
// calendar fields are nil exactly when the date is nil.
type Enriched struct {
	Transaction

	// Total is quantity x unit price rounded to 2 decimals, nil when either
	// input is absent.
	Total *decimal.Decimal

	// SizeClass is one of SizeLow/SizeMedium/SizeHigh, empty when Total is nil.
	SizeClass string

	Category *string
	City     *string
	Region   *string

	Year    *int
	Month   *int
	Weekday *string
}
