package cmd

import (
	"fmt"
	"strings"

	"github.com/pyama86/breachtracker/domain/analytics"
	"github.com/pyama86/breachtracker/domain/entity"
	"github.com/pyama86/breachtracker/handler"
	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query [sample]",
	Short: "Run an audit query over the incident dataset (table `?`)",
	Long: fmt.Sprintf(`Run a named sample or ad-hoc SQL over the incident dataset.

Columns: %s

--where narrows the dataset with a CEL expression, e.g.
  --where 'severity == "CRITICAL" && !pdpc_notified'`, strings.Join(analytics.Columns, ", ")),
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, _ := cmd.Flags().GetBool("list")
		sample := analytics.SampleCoverage
		if len(args) == 1 {
			sample = args[0]
		}
		sql := mustString(cmd, "sql")
		if sql != "" && len(args) == 0 {
			sample = ""
		}
		where := mustString(cmd, "where")
		return run(cmd, func(h *handler.Handler) error {
			if list {
				return h.Samples()
			}
			return h.Query(sample, sql, where)
		})
	},
}

var reportCmd = &cobra.Command{
	Use:       "report [score|vulnerabilities|patterns|dashboard|analytics]",
	Short:     "Print a compliance report",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"score", "vulnerabilities", "patterns", "dashboard", "analytics"},
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := handler.ReportDashboard
		if len(args) == 1 {
			kind = handler.ReportKind(args[0])
		}
		return run(cmd, func(h *handler.Handler) error { return h.Report(kind) })
	},
}

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Set the stored list filters and show the filtered list",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := entity.Filters{
			Severity: strings.ToUpper(mustString(cmd, "severity")),
			Unit:     mustString(cmd, "unit"),
			Status:   strings.ToUpper(mustString(cmd, "status")),
			Search:   mustString(cmd, "search"),
		}
		return run(cmd, func(h *handler.Handler) error { return h.SetFilters(f) })
	},
}

func init() {
	queryCmd.Flags().String("sql", "", "ad-hoc SQL; `?` is the dataset")
	queryCmd.Flags().String("where", "", "CEL expression applied to rows first")
	queryCmd.Flags().Bool("list", false, "list the named samples")

	filterCmd.Flags().String("severity", entity.FilterAll, "severity or ALL")
	filterCmd.Flags().String("unit", entity.FilterAll, "business unit or ALL")
	filterCmd.Flags().String("status", entity.FilterAll, "status or ALL")
	filterCmd.Flags().String("search", "", "substring of code or description")

	rootCmd.AddCommand(queryCmd, reportCmd, filterCmd)
}
