package entity

import "strings"

// CanonicalBusinessUnits is the built-in registry.
var CanonicalBusinessUnits = []string{
	"School of Computing",
	"School of Business",
	"School of Engineering",
	"School of Health Sciences",
	"Administration",
	"Finance",
	"Human Resources",
	"IT Services",
	"Student Services",
	"Research & Development",
}

// MergeUnits returns the ordered union of the given unit lists, skipping
// blanks and duplicates.
func MergeUnits(lists ...[]string) []string {
	seen := map[string]bool{}
	var units []string
	for _, list := range lists {
		for _, u := range list {
			if strings.TrimSpace(u) == "" || seen[u] {
				continue
			}
			seen[u] = true
			units = append(units, u)
		}
	}
	return units
}
