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
	"time"

	"github.com/shopspring/decimal"
)

// Artifact file names, fixed under the output directory.
const (
	EnrichedFile = "ventas_transformadas.csv"
	MartFile     = "mart_ventas.csv"
	SummaryFile  = "resumen_metricas.csv"
)

var enrichedHeader = []string{
	colOrderID, colProductID, colQuantity, colUnitPrice, colCustomer, colStoreID, colDate,
	"monto_total", "categoria_venta", "anio", "mes", "dia_semana", "categoria", "ciudad", "region",
}

var martHeader = []string{
	colDate, "anio", "mes", "dia_semana", "ciudad", "region", "categoria",
	"num_transacciones", "unidades", "ingresos",
}

// WriteEnriched writes the transformed dataset. Nil values serialize as
// empty fields; the fecha column carries the normalized date.
func WriteEnriched(path string, rows []Enriched) error {
	return writeCSV(path, enrichedHeader, len(rows), func(i int) []string {
		r := rows[i]
		return []string{
			fmtNullInt(r.OrderID),
			r.ProductID,
			fmtNullInt(r.Quantity),
			fmtNullFloat(r.UnitPrice),
			r.CustomerID,
			r.StoreID,
			fmtNullDate(r.Date),
			fmtNullDec(r.Total),
			r.SizeClass,
			fmtNullIntP(r.Year),
			fmtNullIntP(r.Month),
			fmtNullStr(r.Weekday),
			fmtNullStr(r.Category),
			fmtNullStr(r.City),
			fmtNullStr(r.Region),
		}
	})
}

// WriteMart writes the aggregated data mart, one row per group key.
func WriteMart(path string, rows []MartRow) error {
	return writeCSV(path, martHeader, len(rows), func(i int) []string {
		r := rows[i]
		return []string{
			fmtNullDate(r.Date),
			fmtNullIntP(r.Year),
			fmtNullIntP(r.Month),
			fmtNullStr(r.Weekday),
			fmtNullStr(r.City),
			fmtNullStr(r.Region),
			fmtNullStr(r.Category),
			strconv.FormatInt(r.Transactions, 10),
			strconv.FormatInt(r.Units, 10),
			r.Revenue.StringFixed(2),
		}
	})
}

// WriteSummary writes the six headline metric/value pairs.
func WriteSummary(path string, s Summary) error {
	metrics := s.Metrics()
	return writeCSV(path, []string{"metrica", "valor"}, len(metrics), func(i int) []string {
		return []string{metrics[i].Name, metrics[i].Value}
	})
}

func writeCSV(path string, header []string, n int, row func(int) []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	for i := 0; i < n; i++ {
		if err := w.Write(row(i)); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func fmtNullInt(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func fmtNullIntP(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func fmtNullFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func fmtNullStr(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func fmtNullDate(v *time.Time) string {
	if v == nil {
		return ""
	}
	return v.Format("2006-01-02")
}

func fmtNullDec(v *decimal.Decimal) string {
	if v == nil {
		return ""
	}
	return v.StringFixed(2)
}
