package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"salesdash/internal/cli"
	"salesdash/internal/core"
	applog "salesdash/internal/log"
	"salesdash/internal/services"
)

var (
	reportMonth  string
	reportFormat string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the combined report for a month",
	Long: `Print the combined report (transactions, statistics, price-range
histogram and category breakdown) for one month of the reference year.

Example:
  salesdash report --month 06
  salesdash report --month 12 --format json`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportMonth, "month", "", "month selector, 01-12 (required)")
	reportCmd.Flags().StringVar(&reportFormat, "format", "text", "output format: text or json")
	_ = reportCmd.MarkFlagRequired("month")
}

func runReport(cmd *cobra.Command, args []string) error {
	month, err := core.ParseMonth(reportMonth)
	if err != nil {
		return err
	}
	if reportFormat != "text" && reportFormat != "json" {
		return fmt.Errorf("invalid format %q: must be text or json", reportFormat)
	}

	cfg, logger, err := bootstrap(applog.ComponentReport)
	if err != nil {
		return err
	}

	store, err := cli.OpenBackend(cmd.Context(), logger, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	report, err := services.NewReportService(store.Repository, cfg.ReportYear).GetCombinedReport(cmd.Context(), month)
	if err != nil {
		logger.Error("Report failed", applog.FieldError, err, applog.FieldMonth, month.String())
		return err
	}

	if reportFormat == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	return writeTextReport(cmd.OutOrStdout(), month, report)
}

func writeTextReport(out io.Writer, month core.Month, report core.CombinedReport) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "=== Month %s (%s) ===\n\n", month, report.Range)
	fmt.Fprintf(tw, "Total sale amount:\t%.2f\n", report.Statistics.TotalSaleAmount)
	fmt.Fprintf(tw, "Sold items:\t%d\n", report.Statistics.TotalSoldItems)
	fmt.Fprintf(tw, "Not sold items:\t%d\n\n", report.Statistics.TotalNotSoldItems)

	fmt.Fprintln(tw, "ID\tTitle\tPrice\tCategory\tSold")
	for _, t := range report.Transactions {
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%s\t%t\n", t.ID, t.Title, t.Price, t.Category, t.Sold)
	}

	fmt.Fprintln(tw, "\nPrice range\tSold items")
	for _, label := range core.BucketLabels() {
		fmt.Fprintf(tw, "%s\t%d\n", label, report.BarChart.Count(label))
	}

	fmt.Fprintln(tw, "\nCategory\tItems")
	for _, c := range report.PieChart {
		fmt.Fprintf(tw, "%s\t%d\n", c.Category, c.Count)
	}
	return tw.Flush()
}
