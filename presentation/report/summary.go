package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/pyama86/breachtracker/domain/analytics"
	"github.com/pyama86/breachtracker/domain/classification"
)

func hoursOrDash(h *float64) string {
	if h == nil {
		return "-"
	}
	return fmt.Sprintf("%.1fh", *h)
}

func signed(n int) string {
	if n > 0 {
		return fmt.Sprintf("+%d", n)
	}
	return fmt.Sprint(n)
}

func Vulnerabilities(w io.Writer, s classification.VulnerabilitySummary) error {
	tw := newTabWriter(w)
	fmt.Fprintln(tw, "CLASS\tINCIDENTS\tOPEN\tFREQUENCY\tTOP SEVERITY\tEXAMPLE")
	for _, v := range s.Items {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.1f%%\t%s\t%s\n",
			v.Label, v.Count, v.Open, v.Frequency, v.TopSeverity, orDash(v.Sample))
	}
	return tw.Flush()
}

func patternTable(w io.Writer, title string, stats []classification.PatternStat, maxValue int) {
	fmt.Fprintf(w, "%s\n", title)
	if len(stats) == 0 {
		fmt.Fprintln(w, "  No data yet.")
		return
	}
	tw := newTabWriter(w)
	for _, p := range stats {
		bar := strings.Repeat("#", max(1, p.Count*20/max(maxValue, 1)))
		fmt.Fprintf(tw, "  %s\t%d\t%s\t%s\n", p.Name, p.Count, hoursOrDash(p.AvgResponseHours), bar)
	}
	tw.Flush()
}

func Patterns(w io.Writer, p classification.Patterns) error {
	patternTable(w, "Triggers", p.Triggers, p.MaxValue)
	fmt.Fprintln(w)
	patternTable(w, "Actions", p.Actions, p.MaxValue)
	return nil
}

func UnitScores(w io.Writer, units []analytics.UnitScore) error {
	tw := newTabWriter(w)
	fmt.Fprintln(tw, "UNIT\tSCORE\tINCIDENTS\tCRITICAL\tAVG RESP\tTREND")
	for _, u := range units {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\t%s\n",
			u.Unit, u.Score, u.Incidents, u.Critical, hoursOrDash(u.AvgResponseHours), signed(u.Trend))
	}
	return tw.Flush()
}

// Dashboard writes the overview: last-30-day figures, heatmap, high-risk
// units, root causes and the monthly trend.
func Dashboard(w io.Writer, d analytics.Dashboard, heat []analytics.UnitHeat, risky []analytics.UnitRisk, pie analytics.Pie, trend []analytics.TrendPoint) error {
	fmt.Fprintln(w, "Overview (last 30 days)")
	fmt.Fprintf(w, "  Incidents: %d  Critical: %d  Avg response: %s  Resolved: %d%%  Open alerts: %d\n\n",
		d.Last30Days, d.Critical30Days, hoursOrDash(d.AvgResponseHours), d.ResolvedPercent, d.Alerts)

	fmt.Fprintln(w, "Business unit risk heatmap")
	tw := newTabWriter(w)
	for _, h := range heat {
		fmt.Fprintf(tw, "  %s\t%d incidents\t%d open\t%s\t%s\n",
			h.Unit, h.Count, h.Open, h.TopSeverity, strings.Repeat("#", h.Fill/5))
	}
	tw.Flush()

	fmt.Fprintln(w, "\nHigh-risk units (score < 70)")
	if len(risky) == 0 {
		fmt.Fprintln(w, "  None.")
	}
	for _, u := range risky {
		fmt.Fprintf(w, "  %s: %d (%d incidents, latest %s)\n", u.Unit, u.Score, u.Incidents, orDash(u.MostRecent))
	}

	fmt.Fprintf(w, "\nRoot causes (%d incidents)\n", pie.Total)
	for _, s := range pie.Slices {
		fmt.Fprintf(w, "  %s: %d (%d%%)\n", orDash(s.Label), s.Value, s.Percent)
	}

	fmt.Fprintln(w, "\nMonthly trend")
	tw = newTabWriter(w)
	fmt.Fprintln(tw, "  MONTH\tTOTAL\tCRITICAL\tHIGH\tMEDIUM\tLOW")
	for _, p := range trend {
		fmt.Fprintf(tw, "  %s\t%d\t%d\t%d\t%d\t%d\n", p.Month.Label, p.Total, p.Critical, p.High, p.Medium, p.Low)
	}
	return tw.Flush()
}
