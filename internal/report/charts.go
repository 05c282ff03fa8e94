//-------------------------------------------------------------------------
//
// SuperMart ETL
//
// Copyright (c) 2025 - 2026, EAN TechRetail Solutions
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/eantechretail/supermart-etl/internal/logging"
	"github.com/eantechretail/supermart-etl/internal/pipeline"
)

// Chart file names, fixed under the output directory.
const (
	CityChartFile      = "ingresos_por_ciudad.png"
	CategoryChartFile  = "participacion_categoria.png"
	WeekdayChartFile   = "transacciones_por_dia.png"
	HistogramChartFile = "distribucion_montos.png"
)

const histogramBins = 10

// RenderCharts renders the four chart artifacts from the run result and
// returns the paths written. A chart with no data is skipped with a warning
// rather than failing the run.
func RenderCharts(outDir string, res *pipeline.Result) ([]string, error) {
	var files []string

	charts := []struct {
		name   string
		render func(io.Writer) error
		empty  bool
	}{
		{CityChartFile, renderCityRevenue(res), len(cityRevenue(res)) == 0},
		{CategoryChartFile, renderCategoryShare(res), len(categoryRevenue(res)) == 0},
		{WeekdayChartFile, renderWeekdayCounts(res), weekdayTotal(res) == 0},
		{HistogramChartFile, renderHistogram(res), len(definedTotals(res)) == 0},
	}

	for _, c := range charts {
		if c.empty {
			logging.Warn().Str("chart", c.name).Msg("No data; chart skipped")
			continue
		}
		path := filepath.Join(outDir, c.name)
		if err := renderToFile(path, c.render); err != nil {
			return files, err
		}
		files = append(files, path)
		logging.Debug().Str("path", path).Msg("Chart written")
	}
	return files, nil
}

func renderToFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := render(f); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	return f.Close()
}

// renderCityRevenue draws summed revenue per city as a bar chart, highest
// first.
func renderCityRevenue(res *pipeline.Result) func(io.Writer) error {
	values := sortedValues(cityRevenue(res))
	return func(w io.Writer) error {
		bar := chart.BarChart{
			Title:    "Ingresos por ciudad",
			Width:    1024,
			Height:   512,
			BarWidth: 48,
			Bars:     values,
		}
		return bar.Render(chart.PNG, w)
	}
}

// renderCategoryShare draws the revenue share per category as a pie chart.
func renderCategoryShare(res *pipeline.Result) func(io.Writer) error {
	values := sortedValues(categoryRevenue(res))
	return func(w io.Writer) error {
		pie := chart.PieChart{
			Title:  "Participación por categoría",
			Width:  720,
			Height: 720,
			Values: values,
		}
		return pie.Render(chart.PNG, w)
	}
}

// renderWeekdayCounts draws transaction counts per weekday, Monday first.
func renderWeekdayCounts(res *pipeline.Result) func(io.Writer) error {
	counts := make(map[string]int)
	for _, r := range res.Enriched {
		if r.Weekday != nil {
			counts[*r.Weekday]++
		}
	}
	var bars []chart.Value
	for _, day := range pipeline.DayNames() {
		bars = append(bars, chart.Value{Label: day, Value: float64(counts[day])})
	}
	return func(w io.Writer) error {
		bar := chart.BarChart{
			Title:    "Transacciones por día",
			Width:    1024,
			Height:   512,
			BarWidth: 64,
			Bars:     bars,
		}
		return bar.Render(chart.PNG, w)
	}
}

// renderHistogram draws the total-amount distribution as a binned bar chart.
func renderHistogram(res *pipeline.Result) func(io.Writer) error {
	totals := definedTotals(res)

	maxTotal := 0.0
	for _, t := range totals {
		if t > maxTotal {
			maxTotal = t
		}
	}
	binWidth := maxTotal / histogramBins
	if binWidth == 0 {
		binWidth = 1
	}

	counts := make([]int, histogramBins)
	for _, t := range totals {
		bin := int(t / binWidth)
		if bin >= histogramBins {
			bin = histogramBins - 1
		}
		if bin < 0 {
			bin = 0
		}
		counts[bin]++
	}

	bars := make([]chart.Value, histogramBins)
	for i, c := range counts {
		bars[i] = chart.Value{
			Label: fmt.Sprintf("%.0f-%.0f", float64(i)*binWidth, float64(i+1)*binWidth),
			Value: float64(c),
		}
	}
	return func(w io.Writer) error {
		bar := chart.BarChart{
			Title:    "Distribución de montos",
			Width:    1024,
			Height:   512,
			BarWidth: 56,
			Bars:     bars,
		}
		return bar.Render(chart.PNG, w)
	}
}

func cityRevenue(res *pipeline.Result) map[string]float64 {
	sums := make(map[string]float64)
	for _, r := range res.Enriched {
		if r.City != nil && r.Total != nil {
			sums[*r.City] += r.Total.InexactFloat64()
		}
	}
	return sums
}

func categoryRevenue(res *pipeline.Result) map[string]float64 {
	sums := make(map[string]float64)
	for _, r := range res.Enriched {
		if r.Category != nil && r.Total != nil {
			sums[*r.Category] += r.Total.InexactFloat64()
		}
	}
	return sums
}

func weekdayTotal(res *pipeline.Result) int {
	n := 0
	for _, r := range res.Enriched {
		if r.Weekday != nil {
			n++
		}
	}
	return n
}

func definedTotals(res *pipeline.Result) []float64 {
	var totals []float64
	for _, r := range res.Enriched {
		if r.Total != nil {
			totals = append(totals, r.Total.InexactFloat64())
		}
	}
	return totals
}

// sortedValues converts a sum map into chart values ordered by descending
// value, name as tie break, so renders are deterministic.
func sortedValues(sums map[string]float64) []chart.Value {
	values := make([]chart.Value, 0, len(sums))
	for name, sum := range sums {
		values = append(values, chart.Value{Label: name, Value: sum})
	}
	sort.Slice(values, func(i, j int) bool {
		if values[i].Value != values[j].Value {
			return values[i].Value > values[j].Value
		}
		return values[i].Label < values[j].Label
	})
	return values
}
