package classification

import (
	"strings"

	"github.com/pyama86/breachtracker/domain/entity"
)

func DefaultTriggerGroups() []KeywordGroup {
	return []KeywordGroup{
		{Name: "Phishing", Keywords: []string{"phishing", "spoof", "domain", "email"}},
		{Name: "Misconfig", Keywords: []string{"misconfig", "open bucket", "public access", "exposed", "s3"}},
		{Name: "Access Control", Keywords: []string{"unauthorized", "access", "privilege", "credential"}},
		{Name: "Patch Gap", Keywords: []string{"unpatched", "vulnerability", "cve", "patch"}},
		{Name: "Human Error", Keywords: []string{"accidental", "mistake", "wrong", "mis-sent", "typo"}},
		{Name: "Vendor", Keywords: []string{"vendor", "third-party", "supplier"}},
	}
}

func DefaultActionGroups() []KeywordGroup {
	return []KeywordGroup{
		{Name: "Reset Credentials", Keywords: []string{"reset password", "reset credentials", "lock account"}},
		{Name: "Block/Filter", Keywords: []string{"block domain", "block", "filter", "blacklist"}},
		{Name: "Patch/Fix", Keywords: []string{"patch", "fixed", "update", "upgrade"}},
		{Name: "Awareness/Training", Keywords: []string{"train", "awareness", "education", "simulate"}},
		{Name: "DLP/Controls", Keywords: []string{"dlp", "rule", "control", "mfa", "2fa"}},
		{Name: "Review/Policy", Keywords: []string{"policy", "review", "procedure", "checklist"}},
	}
}

type Tags struct {
	Triggers []string
	Actions  []string
}

func (e *Engine) DeriveTags(i *entity.Incident) Tags {
	blob := i.TextBlob()
	return Tags{
		Triggers: matchGroups(blob, e.triggers),
		Actions:  matchGroups(blob, e.actions),
	}
}

func matchGroups(blob string, groups []KeywordGroup) []string {
	var matched []string
	for _, g := range groups {
		for _, k := range g.Keywords {
			if strings.Contains(blob, strings.ToLower(k)) {
				matched = append(matched, g.Name)
				break
			}
		}
	}
	return matched
}
