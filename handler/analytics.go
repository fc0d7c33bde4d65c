package handler

import (
	"fmt"
	"strings"

	"github.com/pyama86/breachtracker/domain/analytics"
	"github.com/pyama86/breachtracker/domain/classification"
	"github.com/pyama86/breachtracker/presentation/report"
)

const trendMonths = 6

// Query runs a named sample or ad-hoc SQL over the incident dataset. where
// is an optional CEL expression that narrows the dataset first.
func (h *Handler) Query(sampleID, sql, where string) error {
	rows := analytics.BuildDataset(h.repository.ListIncidents())
	if strings.TrimSpace(where) != "" {
		f, err := analytics.NewRowFilter(where)
		if err != nil {
			return err
		}
		if rows, err = f.Apply(rows); err != nil {
			return err
		}
	}

	if sql == "" {
		q, ok := analytics.Sample(sampleID)
		if !ok {
			return fmt.Errorf("unknown sample %q", sampleID)
		}
		h.printf("%s\n", q.Title)
		sql = q.SQL
	}

	res := h.analytics.Run(h.ctx, sql, rows, sampleID)
	switch {
	case res.Error != "":
		h.printf("Query failed (%s); showing built-in analytics fallback.\n", res.Error)
	case res.UsedFallback:
		h.printf("SQL engine not available; showing built-in analytics fallback.\n")
	}
	return report.Table(h.out, res.Table)
}

func (h *Handler) Samples() error {
	for _, q := range analytics.SampleQueries {
		h.printf("%s\t%s\n", q.ID, q.Title)
	}
	return nil
}

type ReportKind string

const (
	ReportScore           ReportKind = "score"
	ReportVulnerabilities ReportKind = "vulnerabilities"
	ReportPatterns        ReportKind = "patterns"
	ReportDashboard       ReportKind = "dashboard"
	ReportAnalytics       ReportKind = "analytics"
)

var ReportKinds = []ReportKind{ReportScore, ReportVulnerabilities, ReportPatterns, ReportDashboard, ReportAnalytics}

func (h *Handler) Report(kind ReportKind) error {
	incidents := h.repository.ListIncidents()
	units := h.repository.ListUnits()
	now := h.now()

	switch kind {
	case ReportScore:
		h.printf("Overall compliance score: %d\n\n", classification.ComplianceScore(incidents))
		return report.UnitScores(h.out, analytics.UnitCompliance(incidents, units, now))
	case ReportVulnerabilities:
		return report.Vulnerabilities(h.out, h.classifier.SummarizeVulnerabilities(incidents))
	case ReportPatterns:
		return report.Patterns(h.out, h.classifier.AggregatePatterns(incidents))
	case ReportDashboard:
		months := analytics.RecentMonths(now, trendMonths)
		return report.Dashboard(h.out,
			analytics.BuildDashboard(incidents, now),
			analytics.UnitHeatmap(incidents, units),
			analytics.HighRiskUnits(incidents, units),
			analytics.RootCauseBreakdown(incidents, months),
			analytics.MonthlyTrend(incidents, months),
		)
	case ReportAnalytics:
		s := h.analytics.Snapshot(h.ctx, incidents)
		for _, part := range []struct {
			title string
			table *analytics.Table
		}{
			{"Coverage", s.Coverage},
			{"Throughput", s.Throughput},
			{"Audit trail", s.AuditTrail},
		} {
			h.printf("%s\n", part.title)
			if err := report.Table(h.out, part.table); err != nil {
				return err
			}
			h.printf("\n")
		}
		return nil
	}
	return fmt.Errorf("unknown report %q", kind)
}
