// Package worthiness decides whether a stat line is worth announcing.
//
// The decision is an ordered cascade of named rules. The first rule whose
// condition holds decides the outcome; later rules are never evaluated.
package worthiness

import (
	"time"

	"github.com/okian/sackigami/internal/domain/model"
)

// Default classifier configuration constants.
const (
	defaultSacksSuffered   = 5
	defaultSackYardsLost   = -25
	defaultSackFumbles     = 2
	defaultSackFumblesLost = 2
	defaultRareCount       = 4
	defaultStaleYears      = 15
)

// Rule names, in evaluation order.
const (
	RuleAlreadyPosted       = "already_posted"
	RuleNeverHappened       = "never_happened"
	RuleRare                = "rare"
	RuleStalePrecedent      = "stale_precedent"
	RuleSacksWithoutYardage = "sacks_without_yardage"
	RuleExtremeValue        = "extreme_value"
	RuleDefault             = "default"
)

// Thresholds holds the extreme-value limits. SackYardsLost is negative like
// the yardage it is compared with.
type Thresholds struct {
	SacksSuffered   int
	SackYardsLost   int
	SackFumbles     int
	SackFumblesLost int
}

// DefaultThresholds returns the stock thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SacksSuffered:   defaultSacksSuffered,
		SackYardsLost:   defaultSackYardsLost,
		SackFumbles:     defaultSackFumbles,
		SackFumblesLost: defaultSackFumblesLost,
	}
}

// Input is what the rules look at.
type Input struct {
	Target        model.SackStatLine
	Similar       *model.SimilarStatLines
	AlreadyPosted func(model.SackStatLine) bool
}

// Rule maps a condition to an outcome.
type Rule struct {
	Name   string
	Match  func(in Input) bool
	Result bool
}

// Verdict is the outcome of a classification and the rule that decided it.
type Verdict struct {
	Worth bool
	Rule  string
}

// Option applies a configuration option to the Classifier.
type Option func(*Classifier)

// WithThresholds sets the extreme-value thresholds.
func WithThresholds(t Thresholds) Option {
	return func(c *Classifier) {
		c.thresholds = t
	}
}

// WithRareCount sets the highest precedent count still considered rare.
func WithRareCount(n int) Option {
	return func(c *Classifier) {
		if n >= 0 {
			c.rareCount = n
		}
	}
}

// WithStaleYears sets how many seasons back a precedent counts as forgotten.
func WithStaleYears(years int) Option {
	return func(c *Classifier) {
		if years > 0 {
			c.staleYears = years
		}
	}
}

// WithClock sets the time source used to derive the current year.
func WithClock(now func() time.Time) Option {
	return func(c *Classifier) {
		if now != nil {
			c.now = now
		}
	}
}

// Classifier evaluates the announcement rule cascade.
type Classifier struct {
	thresholds Thresholds
	rareCount  int
	staleYears int
	now        func() time.Time
	rules      []Rule
}

// New creates a classifier with configuration options.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		thresholds: DefaultThresholds(),
		rareCount:  defaultRareCount,
		staleYears: defaultStaleYears,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.rules = c.buildRules()
	return c
}

// Thresholds returns the configured extreme-value thresholds.
func (c *Classifier) Thresholds() Thresholds {
	return c.thresholds
}

// Rules returns the cascade in evaluation order.
func (c *Classifier) Rules() []Rule {
	rules := make([]Rule, len(c.rules))
	copy(rules, c.rules)
	return rules
}

// Evaluate runs the cascade and reports which rule decided.
func (c *Classifier) Evaluate(target model.SackStatLine, similar *model.SimilarStatLines, alreadyPosted func(model.SackStatLine) bool) Verdict {
	in := Input{Target: target, Similar: similar, AlreadyPosted: alreadyPosted}
	for _, r := range c.rules {
		if r.Match(in) {
			return Verdict{Worth: r.Result, Rule: r.Name}
		}
	}
	return Verdict{Worth: false, Rule: RuleDefault}
}

// IsWorthAnnouncing reports whether target should be announced.
func (c *Classifier) IsWorthAnnouncing(target model.SackStatLine, similar *model.SimilarStatLines, alreadyPosted func(model.SackStatLine) bool) bool {
	return c.Evaluate(target, similar, alreadyPosted).Worth
}

func (c *Classifier) buildRules() []Rule {
	t := c.thresholds
	return []Rule{
		{
			Name: RuleAlreadyPosted,
			Match: func(in Input) bool {
				return in.AlreadyPosted != nil && in.AlreadyPosted(in.Target)
			},
			Result: false,
		},
		{
			Name:   RuleNeverHappened,
			Match:  func(in Input) bool { return in.Similar == nil },
			Result: true,
		},
		{
			Name:   RuleRare,
			Match:  func(in Input) bool { return in.Similar.Count <= c.rareCount },
			Result: true,
		},
		{
			Name: RuleStalePrecedent,
			Match: func(in Input) bool {
				return in.Similar.LastGameDay.Season <= c.now().Year()-c.staleYears
			},
			Result: true,
		},
		{
			Name: RuleSacksWithoutYardage,
			Match: func(in Input) bool {
				return in.Target.SacksSuffered >= t.SacksSuffered && in.Target.SackYardsLost == 0
			},
			Result: true,
		},
		{
			Name: RuleExtremeValue,
			Match: func(in Input) bool {
				s := in.Target
				return s.SacksSuffered >= t.SacksSuffered ||
					abs(s.SackYardsLost) >= abs(t.SackYardsLost) ||
					s.SackFumbles >= t.SackFumbles ||
					s.SackFumblesLost >= t.SackFumblesLost
			},
			Result: true,
		},
		{
			Name:   RuleDefault,
			Match:  func(Input) bool { return true },
			Result: false,
		},
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
