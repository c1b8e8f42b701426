// Package exporter renders dashboard series as downloadable files.
//
// This package contains three main components:
//
// Table: a named grid of typed cells built from yearly points or search
// interest, written as CSV (with optional UTF-8 BOM for Excel) or XLSX.
//
// TrendChart and InterestChart: PNG line charts drawn with gonum/plot.
//
// Format: the supported download formats and their content types.
//
// Example usage:
//
//	table := exporter.TrendTable(sel, points)
//	if err := exporter.Write(w, exporter.FormatXLSX, table); err != nil {
//	    return err
//	}
//
//	err = exporter.TrendChart(w, "Infant mortality rate – Botswana", points, exporter.DefaultChartSize)
package exporter
