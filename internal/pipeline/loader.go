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
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LoadState classifies the outcome of loading one source file.
type LoadState string

const (
	// LoadOK means the file parsed cleanly.
	LoadOK LoadState = "ok"

	// LoadFileNotFound means the file does not exist. The pipeline proceeds
	// with an empty table.
	LoadFileNotFound LoadState = "file_not_found"

	// LoadParseError means the file exists but could not be parsed under the
	// source schema. The pipeline proceeds with an empty table.
	LoadParseError LoadState = "parse_error"
)

// LoadStatus reports the outcome of loading one source. Load failures are
// statuses, not errors: each source reports independently and downstream
// stages accept empty tables.
type LoadStatus struct {
	Source string
	Path   string
	Rows   int
	State  LoadState
	Err    string
}

// OK reports whether the source loaded cleanly.
func (s LoadStatus) OK() bool {
	return s.State == LoadOK
}

// Transactions file columns.
const (
	colOrderID   = "order_id"
	colProductID = "producto_id"
	colQuantity  = "cantidad"
	colUnitPrice = "precio_unitario"
	colCustomer  = "cliente_id"
	colStoreID   = "tienda_id"
	colDate      = "fecha"
)

// LoadTransactions reads the raw sales file under its fixed column schema:
// order_id and cantidad as nullable integers, precio_unitario as a nullable
// float, fecha kept as the raw string, everything else as strings. A typed
// value that fails to parse makes the whole file a parse error.
func LoadTransactions(path string) ([]Transaction, LoadStatus) {
	status := LoadStatus{Source: "ventas", Path: path}

	header, records, st := readCSV(path, &status)
	if st != nil {
		return nil, *st
	}

	idx, err := columnIndex(header,
		colOrderID, colProductID, colQuantity, colUnitPrice, colCustomer, colStoreID, colDate)
	if err != nil {
		status.State = LoadParseError
		status.Err = err.Error()
		return nil, status
	}

	txs := make([]Transaction, 0, len(records))
	for i, rec := range records {
		tx := Transaction{
			ProductID:  strings.TrimSpace(rec[idx[colProductID]]),
			CustomerID: strings.TrimSpace(rec[idx[colCustomer]]),
			StoreID:    strings.TrimSpace(rec[idx[colStoreID]]),
			RawDate:    strings.TrimSpace(rec[idx[colDate]]),
		}

		tx.OrderID, err = parseNullInt(rec[idx[colOrderID]])
		if err != nil {
			return nil, rowParseError(status, i, colOrderID, err)
		}
		tx.Quantity, err = parseNullInt(rec[idx[colQuantity]])
		if err != nil {
			return nil, rowParseError(status, i, colQuantity, err)
		}
		tx.UnitPrice, err = parseNullFloat(rec[idx[colUnitPrice]])
		if err != nil {
			return nil, rowParseError(status, i, colUnitPrice, err)
		}

		txs = append(txs, tx)
	}

	status.State = LoadOK
	status.Rows = len(txs)
	return txs, status
}

// LoadProducts reads the product catalog. Columns beyond producto_id and
// categoria are preserved as descriptive attributes.
func LoadProducts(path string) ([]Product, LoadStatus) {
	status := LoadStatus{Source: "productos", Path: path}

	header, records, st := readCSV(path, &status)
	if st != nil {
		return nil, *st
	}

	idx, err := columnIndex(header, colProductID, "categoria")
	if err != nil {
		status.State = LoadParseError
		status.Err = err.Error()
		return nil, status
	}

	products := make([]Product, 0, len(records))
	for _, rec := range records {
		p := Product{
			ID:       strings.TrimSpace(rec[idx[colProductID]]),
			Category: strings.TrimSpace(rec[idx["categoria"]]),
			Attrs:    extraColumns(header, rec, colProductID, "categoria"),
		}
		products = append(products, p)
	}

	status.State = LoadOK
	status.Rows = len(products)
	return products, status
}

// LoadStores reads the store catalog. Columns beyond tienda_id, ciudad and
// region are preserved as descriptive attributes.
func LoadStores(path string) ([]Store, LoadStatus) {
	status := LoadStatus{Source: "tiendas", Path: path}

	header, records, st := readCSV(path, &status)
	if st != nil {
		return nil, *st
	}

	idx, err := columnIndex(header, colStoreID, "ciudad", "region")
	if err != nil {
		status.State = LoadParseError
		status.Err = err.Error()
		return nil, status
	}

	stores := make([]Store, 0, len(records))
	for _, rec := range records {
		s := Store{
			ID:     strings.TrimSpace(rec[idx[colStoreID]]),
			City:   strings.TrimSpace(rec[idx["ciudad"]]),
			Region: strings.TrimSpace(rec[idx["region"]]),
			Attrs:  extraColumns(header, rec, colStoreID, "ciudad", "region"),
		}
		stores = append(stores, s)
	}

	status.State = LoadOK
	status.Rows = len(stores)
	return stores, status
}

// readCSV reads a whole delimited file with a required header row. On any
// failure it fills the status and returns it; callers return immediately.
func readCSV(path string, status *LoadStatus) (header []string, records [][]string, failed *LoadStatus) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			status.State = LoadFileNotFound
			status.Err = fmt.Sprintf("file not found: %s", path)
		} else {
			status.State = LoadParseError
			status.Err = err.Error()
		}
		return nil, nil, status
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		status.State = LoadParseError
		status.Err = err.Error()
		return nil, nil, status
	}
	if len(rows) == 0 {
		status.State = LoadParseError
		status.Err = "missing header row"
		return nil, nil, status
	}

	header = make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}
	return header, rows[1:], nil
}

// columnIndex maps the required column names to their positions.
func columnIndex(header []string, required ...string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[h] = i
	}
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("missing required column %q", col)
		}
	}
	return idx, nil
}

// extraColumns collects the descriptive columns not consumed by the schema.
func extraColumns(header []string, rec []string, consumed ...string) map[string]string {
	skip := make(map[string]bool, len(consumed))
	for _, c := range consumed {
		skip[c] = true
	}
	var attrs map[string]string
	for i, h := range header {
		if skip[h] || i >= len(rec) {
			continue
		}
		if attrs == nil {
			attrs = make(map[string]string)
		}
		attrs[h] = strings.TrimSpace(rec[i])
	}
	return attrs
}

func parseNullInt(s string) (*int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseNullFloat(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// rowParseError builds the parse-error status for a bad typed value.
// Row numbers are 1-based and count the header row, matching what an
// operator sees in the file.
func rowParseError(status LoadStatus, rowIdx int, col string, err error) LoadStatus {
	status.State = LoadParseError
	status.Err = fmt.Sprintf("row %d, column %s: %v", rowIdx+2, col, err)
	return status
}
