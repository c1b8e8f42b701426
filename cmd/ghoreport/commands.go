package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"ghotracker/internal/dataprocessing"
	"ghotracker/internal/exporter"
	"ghotracker/internal/services"
	"ghotracker/internal/trends"
	"ghotracker/pkg/contracts/domain"
)

// styles renders headings and warnings for the command output
type styles struct {
	heading lipgloss.Style
	label   lipgloss.Style
	warning lipgloss.Style
	info    lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		heading: r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		label:   r.NewStyle().Faint(true),
		warning: r.NewStyle().Foreground(lipgloss.Color("11")),
		info:    r.NewStyle().Foreground(lipgloss.Color("14")),
	}
}

// selectionFlags are the filter flags shared by trend, export and chart
type selectionFlags struct {
	indicator string
	breakdown string
	from      int
	to        int
}

func (f *selectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.indicator, "indicator", "", "indicator name (defaults to the first indicator)")
	cmd.Flags().StringVar(&f.breakdown, "breakdown", "", `breakdown label, e.g. "SEX – Female" (defaults to the average of all breakdowns)`)
	cmd.Flags().IntVar(&f.from, "from", 0, "first year (defaults to the first observed year)")
	cmd.Flags().IntVar(&f.to, "to", 0, "last year (defaults to the last observed year)")
}

func (f *selectionFlags) selection() domain.Selection {
	return domain.Selection{Indicator: f.indicator, Breakdown: f.breakdown, YearMin: f.from, YearMax: f.to}
}

func newIndicatorsCmd(opts *rootOptions) *cobra.Command {
	var (
		query string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "indicators",
		Short: "List the indicators of the dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd, opts)
			if err != nil {
				return err
			}

			var names []string
			if query == "" {
				names, err = rt.dashboard.Indicators(cmd.Context())
			} else {
				names, err = rt.dashboard.SearchIndicators(cmd.Context(), query, limit)
			}
			if err != nil {
				return datasetFailure(err)
			}

			out := cmd.OutOrStdout()
			for _, name := range names {
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "fuzzy filter on indicator names")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of matches for --query")
	return cmd
}

func newTrendCmd(opts *rootOptions) *cobra.Command {
	var (
		sel    selectionFlags
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Print the yearly trend, latest-year metrics and narrative for a selection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd, opts)
			if err != nil {
				return err
			}

			view, err := rt.dashboard.View(cmd.Context(), sel.selection())
			out := cmd.OutOrStdout()
			st := newStyles(out)
			switch {
			case errors.Is(err, services.ErrNoData):
				fmt.Fprintln(out, st.warning.Render("No data available for this combination of indicator, breakdown, and years."))
				return err
			case err != nil:
				return datasetFailure(err)
			}

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(view)
			}
			printView(out, st, view)
			return nil
		},
	}
	sel.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full view as JSON")
	return cmd
}

func printView(out io.Writer, st styles, view *domain.DashboardView) {
	fmt.Fprintln(out, st.heading.Render(view.Selection.Indicator+" – "+view.Country))
	fmt.Fprintf(out, "%s %s, %d–%d\n", st.label.Render("Breakdown:"), view.Selection.Breakdown, view.Selection.YearMin, view.Selection.YearMax)
	if view.Notice != "" {
		fmt.Fprintln(out, st.info.Render(view.Notice))
	}
	fmt.Fprintln(out)

	m := view.Metrics
	change := "n/a"
	if m.HasPrevious {
		change = dataprocessing.FormatChange(m.ChangeFromPrevious)
	}
	fmt.Fprintln(out, table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Latest year", "Latest value", "Change vs previous year", "Percent change vs prev.").
		Row(strconv.Itoa(m.LatestYear), strconv.FormatFloat(m.LatestValue, 'f', 2, 64), change, dataprocessing.FormatPercent(m.PercentFromPrevious)).
		String())

	rows := make([][]string, 0, len(view.Points))
	for _, p := range view.Points {
		rows = append(rows, []string{strconv.Itoa(p.Year), strconv.FormatFloat(p.Value, 'f', 2, 64)})
	}
	fmt.Fprintln(out, table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Year", "Value").
		Rows(rows...).
		String())

	fmt.Fprintln(out)
	fmt.Fprintln(out, st.heading.Render("How to read this indicator"))
	fmt.Fprintln(out, view.Category)
	fmt.Fprintln(out, view.Explanation)
	fmt.Fprintln(out)
	fmt.Fprintln(out, st.heading.Render(view.Country+" trend summary"))
	fmt.Fprintln(out, view.Narrative)
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		sel    selectionFlags
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the yearly table of a selection as CSV or XLSX",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := exporter.ParseFormat(format)
			if err != nil {
				return err
			}
			rt, err := newRuntime(cmd, opts)
			if err != nil {
				return err
			}

			return writeOutput(cmd, output, func(w io.Writer) error {
				return rt.dashboard.Export(cmd.Context(), sel.selection(), f, w)
			})
		},
	}
	sel.register(cmd)
	cmd.Flags().StringVar(&format, "format", "csv", "csv or xlsx")
	cmd.Flags().StringVarP(&output, "out", "o", "-", `output file, "-" for stdout`)
	return cmd
}

func newChartCmd(opts *rootOptions) *cobra.Command {
	var (
		sel    selectionFlags
		output string
	)
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render the trend line chart of a selection as PNG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd, opts)
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, func(w io.Writer) error {
				return rt.dashboard.TrendChart(cmd.Context(), sel.selection(), w)
			})
		},
	}
	sel.register(cmd)
	cmd.Flags().StringVarP(&output, "out", "o", "trend.png", `output file, "-" for stdout`)
	return cmd
}

// writeOutput runs write against stdout or a new file. A failed write removes the file.
func writeOutput(cmd *cobra.Command, path string, write func(w io.Writer) error) error {
	if path == "" || path == "-" {
		return datasetFailure(write(cmd.OutOrStdout()))
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return datasetFailure(err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "wrote", path)
	return nil
}

func newInterestCmd(opts *rootOptions) *cobra.Command {
	var (
		indicator string
		asJSON    bool
		format    string
		output    string
	)
	cmd := &cobra.Command{
		Use:   "interest",
		Short: "Look up Google search interest for the keyword of an indicator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd, opts)
			if err != nil {
				return err
			}

			if format != "" {
				f, err := exporter.ParseFormat(format)
				if err != nil {
					return err
				}
				return writeOutput(cmd, output, func(w io.Writer) error {
					return rt.dashboard.ExportInterest(cmd.Context(), indicator, f, w)
				})
			}

			si, err := rt.dashboard.SearchInterest(cmd.Context(), indicator)
			if err != nil {
				return datasetFailure(err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(si)
			}

			st := newStyles(out)
			fmt.Fprintf(out, "Using keyword for Google Trends: %s\n", st.heading.Render(si.Term))
			if si.Warning != "" {
				fmt.Fprintln(out, st.warning.Render(si.Warning))
			}
			if si.Empty() {
				fmt.Fprintln(out, st.info.Render(trends.NoDataText))
				return nil
			}

			rows := make([][]string, 0, len(si.Points))
			for _, p := range si.Points {
				rows = append(rows, []string{p.Date.Format("2006-01-02"), strconv.Itoa(p.Value)})
			}
			fmt.Fprintln(out, table.New().
				Border(lipgloss.NormalBorder()).
				Headers("Week", "Interest").
				Rows(rows...).
				String())
			return nil
		},
	}
	cmd.Flags().StringVar(&indicator, "indicator", "", "indicator name (defaults to the first indicator)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.Flags().StringVar(&format, "format", "", "export the weekly series as csv or xlsx instead of printing it")
	cmd.Flags().StringVarP(&output, "out", "o", "-", `output file for --format, "-" for stdout`)
	return cmd
}
