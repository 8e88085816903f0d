package services

import "slothouse/domain/entities"

// PayRule maps a class of outcomes to a payout multiplier.
type PayRule struct {
	Name       string
	Multiplier int64
	Matches    func(entities.Outcome) bool
}

// Paytable is an ordered list of pay rules. Evaluation walks the rules
// in order and the first match wins; an outcome matching no rule pays
// nothing. Static configuration, not user-mutable.
type Paytable struct {
	rules []PayRule
}

// NewPaytable creates a paytable from rules in priority order
func NewPaytable(rules ...PayRule) *Paytable {
	return &Paytable{rules: rules}
}

// Evaluate returns the win amount for an outcome at a given stake.
// All arithmetic is integer math on minor currency units; the result
// is never negative.
func (p *Paytable) Evaluate(outcome entities.Outcome, betAmount int64) int64 {
	if betAmount <= 0 {
		return 0
	}
	for _, rule := range p.rules {
		if rule.Matches(outcome) {
			return betAmount * rule.Multiplier
		}
	}
	return 0
}

// MatchedRule returns the name of the first matching rule, or "" when
// the outcome pays nothing. Used for logging and events.
func (p *Paytable) MatchedRule(outcome entities.Outcome) string {
	for _, rule := range p.rules {
		if rule.Matches(outcome) {
			return rule.Name
		}
	}
	return ""
}
