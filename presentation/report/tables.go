package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/pyama86/breachtracker/domain/analytics"
	"github.com/pyama86/breachtracker/domain/entity"
)

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case bool:
		return yesNo(x)
	case float64:
		return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", x), "0"), ".")
	}
	return fmt.Sprint(v)
}

// Table writes a query answer as aligned columns.
func Table(w io.Writer, t *analytics.Table) error {
	if t.Len() == 0 {
		_, err := fmt.Fprintln(w, "No data returned.")
		return err
	}
	tw := newTabWriter(w)
	fmt.Fprintln(tw, strings.Join(t.Columns, "\t"))
	for _, row := range t.Rows {
		cells := make([]string, 0, len(row))
		for _, v := range row {
			cells = append(cells, cell(v))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

// Incidents writes one line per incident. Outstanding PDPC notifications are
// marked with "!".
func Incidents(w io.Writer, incidents []entity.Incident) error {
	if len(incidents) == 0 {
		_, err := fmt.Fprintln(w, "No incidents.")
		return err
	}
	tw := newTabWriter(w)
	fmt.Fprintln(tw, "\tCODE\tSEVERITY\tSTATUS\tUNIT\tDISCOVERED\tRESPONSE\tDESCRIPTION")
	for _, i := range incidents {
		mark := ""
		if i.PDPCRisk() {
			mark = "!"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			mark, i.IncidentID, i.Severity, i.Status, orDash(i.BusinessUnit),
			i.DiscoveredDate, responseTime(i.ResponseTimeHours), truncate(i.Description, 60))
	}
	return tw.Flush()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
