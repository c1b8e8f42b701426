// Package dataprocessing turns a WHO Global Health Observatory extract into
// dashboard-ready series. It consolidates reading, cleaning, aggregation,
// trend classification and narrative generation into one pipeline that is
// free of presentation concerns.
//
// # Architecture
//
// The package is organized into four stages:
//
// 1. Reader: reads CSV or XLSX files into RawRows keyed by column name
// 2. Cleaner: drops metadata and missing rows and produces Observations
// 3. Aggregator: filters by Selection and averages one value per year
// 4. Analysis: classifies the trend and renders the explanation and narrative
//
// Loader memoizes the first two stages per file path for the lifetime of the
// process.
//
// # Usage
//
//	loader := dataprocessing.NewLoader(logger)
//	ds, err := loader.Load(ctx, "data/health_indicators_bwa.csv")
//	if err != nil {
//	    return err
//	}
//
//	sel, opts, err := dataprocessing.ResolveSelection(ds.Observations, domain.Selection{})
//	points := dataprocessing.FilterAndAggregate(ds.Observations, sel)
//	summary, err := dataprocessing.Classify(points)
//
//	narrator := dataprocessing.NewNarrator("Botswana")
//	text := narrator.Narrate(sel.Indicator, summary)
//
// # Data Flow
//
//	CSV/XLSX → Reader → RawRows → Cleaner → Observations → Aggregator → YearlyPoints → Classifier → Narrator
//
// # Error Handling
//
// Source failures wrap ErrSourceUnreadable, an input without usable rows is
// ErrEmptyDataset, and a kept row whose year cannot be parsed is a *CleanError.
// An empty filter result is not an error: FilterAndAggregate returns no points
// and callers must not classify it.
package dataprocessing
