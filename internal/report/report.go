//-------------------------------------------------------------------------
//
// SuperMart ETL
//
// Copyright (c) 2025 - 2026, EAN TechRetail Solutions
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package report renders the human-readable artifacts of a batch run: the
// four charts and the terminal text report. Formatting lives entirely here;
// the pipeline package only produces data.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/eantechretail/supermart-etl/internal/pipeline"
)

// TextReportFile is the text report name under the output directory.
const TextReportFile = "reporte_etl.txt"

// WriteText writes the text report: generation timestamp, source statuses,
// headline metrics, top performers, the quality counters, and the manifest
// of every generated file (including the report itself). It returns the
// report path.
func WriteText(outDir string, res *pipeline.Result, files []string) (string, error) {
	path := filepath.Join(outDir, TextReportFile)
	manifest := append(append([]string{}, files...), path)

	var b strings.Builder
	line := strings.Repeat("=", 56)

	fmt.Fprintln(&b, line)
	fmt.Fprintln(&b, " SuperMart Colombia - Reporte ETL")
	fmt.Fprintf(&b, " Generado: %s\n", res.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintln(&b, line)
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "Estado de fuentes:")
	for _, st := range res.Statuses {
		detail := fmt.Sprintf("%d filas", st.Rows)
		if !st.OK() {
			detail = st.Err
		}
		fmt.Fprintf(&b, "  %-10s %-16s %s\n", st.Source, st.State, detail)
	}
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "Métricas principales:")
	if res.HasSummary {
		for _, m := range res.Summary.Metrics() {
			fmt.Fprintf(&b, "  %-22s %s\n", m.Name, m.Value)
		}
	} else {
		fmt.Fprintln(&b, "  sin datos")
	}
	fmt.Fprintln(&b)

	if res.HasSummary {
		fmt.Fprintln(&b, "Mejores desempeños:")
		fmt.Fprintf(&b, "  Ciudad top:    %s\n", valueOrDash(res.Summary.TopCity))
		fmt.Fprintf(&b, "  Categoría top: %s\n", valueOrDash(res.Summary.TopCategory))
		fmt.Fprintln(&b)
	}

	fmt.Fprintln(&b, "Calidad de datos:")
	for _, c := range res.Quality.Items() {
		fmt.Fprintf(&b, "  %-22s %d\n", c.Name, c.Value)
	}
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "Archivos generados:")
	for _, f := range manifest {
		fmt.Fprintf(&b, "  - %s\n", f)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

func valueOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
