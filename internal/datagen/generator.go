//-------------------------------------------------------------------------
//
// SuperMart ETL
//
// Copyright (c) 2025 - 2026, EAN TechRetail Solutions
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package datagen

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/eantechretail/supermart-etl/internal/logging"
)

// Reference data for the SuperMart Colombia catalogs.
var colombianStores = []struct {
	City   string
	Region string
}{
	{"Bogotá", "Cundinamarca"},
	{"Medellín", "Antioquia"},
	{"Cali", "Valle del Cauca"},
	{"Barranquilla", "Atlántico"},
	{"Cartagena", "Bolívar"},
	{"Bucaramanga", "Santander"},
	{"Pereira", "Risaralda"},
	{"Santa Marta", "Magdalena"},
	{"Ibagué", "Tolima"},
	{"Manizales", "Caldas"},
	{"Cúcuta", "Norte de Santander"},
	{"Villavicencio", "Meta"},
}

var categories = []string{
	"Lácteos", "Panadería", "Carnes", "Frutas y Verduras", "Bebidas",
	"Aseo", "Snacks", "Congelados", "Despensa", "Cuidado Personal",
}

var storeFormats = []string{"Express", "Súper", "Hiper"}

// badDates are raw fecha values that match no accepted layout.
var badDates = []string{"2024-13-45", "31-02-2024", "fecha-desconocida", "00-00-0000"}

// dateLayouts are the two layouts mixed into the raw sales file, matching
// what the pipeline accepts.
var dateLayouts = []string{"2006-01-02", "02-01-2006"}

// Config controls sample data generation. Rates are fractions in [0,1];
// they inject the defects the pipeline is built to handle so a generated
// dataset exercises every path: duplicates, missing customers, unparseable
// dates, and orphan catalog references.
type Config struct {
	Dir string

	TransactionsFile string
	ProductsFile     string
	StoresFile       string

	Rows     int
	Products int
	Stores   int

	DuplicateRate       float64
	MissingCustomerRate float64
	BadDateRate         float64
	OrphanRate          float64
}

// Generator writes the three sample input CSVs.
type Generator struct {
	faker *Faker
}

// NewGenerator creates a generator with a random seed.
func NewGenerator() *Generator {
	return &Generator{faker: NewFaker()}
}

// NewGeneratorWithSeed creates a reproducible generator.
func NewGeneratorWithSeed(seed uint64) *Generator {
	return &Generator{faker: NewFakerWithSeed(seed)}
}

// WriteAll generates the product catalog, store catalog, and raw sales file.
func (g *Generator) WriteAll(cfg Config) error {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return fmt.Errorf("create input directory: %w", err)
	}

	productIDs, err := g.writeProducts(cfg)
	if err != nil {
		return err
	}
	storeIDs, err := g.writeStores(cfg)
	if err != nil {
		return err
	}
	if err := g.writeTransactions(cfg, productIDs, storeIDs); err != nil {
		return err
	}

	logging.Info().
		Int("rows", cfg.Rows).
		Int("products", cfg.Products).
		Int("stores", cfg.Stores).
		Str("dir", cfg.Dir).
		Msg("Sample data written")
	return nil
}

func (g *Generator) writeProducts(cfg Config) ([]string, error) {
	header := []string{"producto_id", "nombre", "categoria", "marca"}
	ids := make([]string, cfg.Products)

	rows := make([][]string, cfg.Products)
	for i := range rows {
		id := fmt.Sprintf("P%03d", i+1)
		ids[i] = id
		rows[i] = []string{
			id,
			g.faker.ProductName(),
			Choose(g.faker, categories),
			g.faker.Company(),
		}
	}

	path := filepath.Join(cfg.Dir, cfg.ProductsFile)
	return ids, writeCSV(path, header, rows)
}

func (g *Generator) writeStores(cfg Config) ([]string, error) {
	header := []string{"tienda_id", "nombre", "ciudad", "region", "formato"}
	ids := make([]string, cfg.Stores)

	rows := make([][]string, cfg.Stores)
	for i := range rows {
		id := fmt.Sprintf("T%02d", i+1)
		ids[i] = id
		loc := colombianStores[i%len(colombianStores)]
		rows[i] = []string{
			id,
			"SuperMart " + loc.City,
			loc.City,
			loc.Region,
			Choose(g.faker, storeFormats),
		}
	}

	path := filepath.Join(cfg.Dir, cfg.StoresFile)
	return ids, writeCSV(path, header, rows)
}

func (g *Generator) writeTransactions(cfg Config, productIDs, storeIDs []string) error {
	header := []string{
		"order_id", "producto_id", "cantidad", "precio_unitario",
		"cliente_id", "tienda_id", "fecha",
	}

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	nextOrder := int64(1001)
	var issued []int64

	rows := make([][]string, 0, cfg.Rows)
	for i := 0; i < cfg.Rows; i++ {
		var orderID int64
		if len(issued) > 0 && g.faker.Chance(cfg.DuplicateRate) {
			orderID = Choose(g.faker, issued)
		} else {
			orderID = nextOrder
			nextOrder++
			issued = append(issued, orderID)
		}

		productID := Choose(g.faker, productIDs)
		if g.faker.Chance(cfg.OrphanRate) {
			productID = "P999"
		}
		storeID := Choose(g.faker, storeIDs)
		if g.faker.Chance(cfg.OrphanRate) {
			storeID = "T99"
		}

		customer := "C" + g.faker.Digits(4)
		if g.faker.Chance(cfg.MissingCustomerRate) {
			customer = ""
		}

		var fecha string
		if g.faker.Chance(cfg.BadDateRate) {
			fecha = Choose(g.faker, badDates)
		} else {
			d := g.faker.DateRange(start, end)
			fecha = d.Format(Choose(g.faker, dateLayouts))
		}

		quantity := g.faker.Int(1, 12)
		price := g.faker.Price(1.5, 80)

		rows = append(rows, []string{
			strconv.FormatInt(orderID, 10),
			productID,
			strconv.Itoa(quantity),
			strconv.FormatFloat(price, 'f', 2, 64),
			customer,
			storeID,
			fecha,
		})
	}

	path := filepath.Join(cfg.Dir, cfg.TransactionsFile)
	return writeCSV(path, header, rows)
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
