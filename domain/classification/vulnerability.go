package classification

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/pyama86/breachtracker/domain/entity"
)

// Rule is one entry of the ordered vulnerability classification table. A rule
// holds when the breach type is one of BreachTypes, the root cause contains
// one of RootCauseContains, or the text blob contains one of TextContains.
// Always makes the rule unconditional.
type Rule struct {
	Key               string
	Label             string
	BreachTypes       []string
	RootCauseContains []string
	TextContains      []string
	Always            bool
}

func (r Rule) Match(i *entity.Incident, blob string) bool {
	if r.Always {
		return true
	}
	if slices.Contains(r.BreachTypes, i.BreachType) {
		return true
	}
	for _, s := range r.RootCauseContains {
		if strings.Contains(i.RootCause, s) {
			return true
		}
	}
	for _, s := range r.TextContains {
		if strings.Contains(blob, s) {
			return true
		}
	}
	return false
}

// DefaultRules is evaluated top to bottom, first match wins. OTHER must stay
// last.
func DefaultRules() []Rule {
	return []Rule{
		{
			Key:               "PHISHING",
			Label:             "Phishing / Social Engineering",
			BreachTypes:       []string{"Phishing Attack"},
			RootCauseContains: []string{"Phishing"},
			TextContains:      []string{"phish", "spoof"},
		},
		{
			Key:               "MISCONFIG",
			Label:             "Access Misconfigurations & Exposure",
			BreachTypes:       []string{"Misconfiguration"},
			RootCauseContains: []string{"Misconfigured"},
			TextContains:      []string{"misconfig", "open bucket", "public access", "exposed"},
		},
		{
			Key:               "ACCESS",
			Label:             "Access Control / Credential Misuse",
			BreachTypes:       []string{"Unauthorized Access"},
			RootCauseContains: []string{"Access", "Weak Password"},
			TextContains:      []string{"unauthorized", "privilege", "credential"},
		},
		{
			Key:               "PATCH",
			Label:             "Patch & Vulnerability Management",
			BreachTypes:       []string{"System Vulnerability", "Ransomware/Malware"},
			RootCauseContains: []string{"Unpatched"},
			TextContains:      []string{"cve", "patch"},
		},
		{
			Key:               "HUMAN",
			Label:             "Human Error / Data Handling",
			BreachTypes:       []string{"Accidental Disclosure"},
			RootCauseContains: []string{"Human Error"},
			TextContains:      []string{"mis-sent", "typo", "sent to wrong"},
		},
		{
			Key:               "VENDOR",
			Label:             "Third-Party / Vendor",
			BreachTypes:       []string{"Third-Party/Vendor Breach"},
			RootCauseContains: []string{"Vendor"},
			TextContains:      []string{"vendor", "third-party"},
		},
		{Key: "OTHER", Label: "Other / Unknown", Always: true},
	}
}

// Classify returns the first matching rule, or the last rule when none
// matches.
func (e *Engine) Classify(i *entity.Incident) Rule {
	blob := i.TextBlob()
	for _, r := range e.rules {
		if r.Match(i, blob) {
			return r
		}
	}
	return e.rules[len(e.rules)-1]
}

type VulnerabilityStat struct {
	Key         string
	Label       string
	Count       int
	Open        int
	Frequency   float64
	TopSeverity entity.Severity
	Sample      string
}

type VulnerabilitySummary struct {
	Total int
	Items []VulnerabilityStat
}

func (e *Engine) SummarizeVulnerabilities(incidents []entity.Incident) VulnerabilitySummary {
	total := max(len(incidents), 1)
	items := make([]VulnerabilityStat, len(e.rules))
	index := make(map[string]int, len(e.rules))
	for n, r := range e.rules {
		items[n] = VulnerabilityStat{Key: r.Key, Label: r.Label, TopSeverity: entity.SeverityLow}
		index[r.Key] = n
	}
	for n := range incidents {
		inc := &incidents[n]
		st := &items[index[e.Classify(inc).Key]]
		st.Count++
		st.Frequency = math.Round(float64(st.Count)/float64(total)*1000) / 10
		if inc.IsOpen() {
			st.Open++
		}
		if inc.Severity.Rank() > st.TopSeverity.Rank() {
			st.TopSeverity = inc.Severity
		}
		if st.Sample == "" {
			st.Sample = fmt.Sprintf("%s (%s)", inc.IncidentID, inc.BreachType)
		}
	}
	slices.SortStableFunc(items, func(a, b VulnerabilityStat) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return b.TopSeverity.Rank() - a.TopSeverity.Rank()
	})
	return VulnerabilitySummary{Total: total, Items: items}
}
