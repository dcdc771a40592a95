package core

import "strings"

// classifyRule maps description keywords to a coarse expense category.
// Rules are checked in order; the first match wins.
type classifyRule struct {
	keywords []string
	category string
}

var classifyRules = []classifyRule{
	{[]string{"purchase", "supply", "ingredient", "meat", "beverage"}, "Supplies"},
	{[]string{"electricity", "rent", "internet", "water"}, "Fixed Costs"},
	{[]string{"salary", "payroll", "staff payment"}, "Payroll"},
}

// ClassifyFallback is the display-only default when a transaction has no
// stored category.
const ClassifyFallback = "Other"

// Classify maps a free-text description to a coarse category by
// case-insensitive substring matching. It is a display aid for
// transactions lacking an explicit category reference; it never
// overwrites a stored category.
func Classify(description string) string {
	desc := strings.ToLower(description)
	for _, rule := range classifyRules {
		for _, kw := range rule.keywords {
			if strings.Contains(desc, kw) {
				return rule.category
			}
		}
	}
	return ClassifyFallback
}
