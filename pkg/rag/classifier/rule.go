package classifier

import (
	"context"
	"regexp"
)

// RuleClassifier evaluates regular expressions per action. Actions are tried
// in the order given to Classify, and each action's rules in their own order.
type RuleClassifier struct {
	rules map[string][]*regexp.Regexp
}

func NewRuleClassifier(rules map[string][]*regexp.Regexp) *RuleClassifier {
	return &RuleClassifier{rules: rules}
}

// DefaultRules cover the order and payment actions.
func DefaultRules() map[string][]*regexp.Regexp {
	return map[string][]*regexp.Regexp{
		"create_order": {
			regexp.MustCompile(`(?i)\bcreate_order\b`),
			regexp.MustCompile(`(?i)\b(create|place|make|submit|open)\b[\w\s]*\borders?\b`),
		},
		"cancel_order": {
			regexp.MustCompile(`(?i)\bcancel_order\b`),
			regexp.MustCompile(`(?i)\b(cancel|void|abort|revoke)\b[\w\s]*\borders?\b`),
		},
		"collect_payment": {
			regexp.MustCompile(`(?i)\bcollect_payment\b`),
			regexp.MustCompile(`(?i)\b(collect|take|charge|receive|process)\b[\w\s]*\bpayments?\b`),
		},
		"view_invoice": {
			regexp.MustCompile(`(?i)\bview_invoice\b`),
			regexp.MustCompile(`(?i)\b(view|show|see|get|display|download)\b[\w\s]*\binvoices?\b`),
		},
	}
}

func (c *RuleClassifier) Classify(ctx context.Context, query string, actions []string) string {
	for _, action := range actions {
		for _, rule := range c.rules[action] {
			if rule.MatchString(query) {
				return action
			}
		}
	}
	return ContextBased
}
