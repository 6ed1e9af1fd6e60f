package filter

import (
	"github.com/mcoot/chessarchive/internal/model"
)

// Predicate reports whether a game should be kept
type Predicate func(model.Game) bool

// Criteria describes a conjunction of game checks. Nil pointers and empty
// strings are not checked.
type Criteria struct {
	Rated         *bool
	HasAccuracies *bool
	DecisiveOnly  bool
	MaxRatingDiff *int
	Rules         string
	TimeClass     model.TimeClass
}

// IsZero returns true if no criterion is set
func (c Criteria) IsZero() bool {
	return c == Criteria{}
}

// Build returns a predicate that holds when every set criterion holds
func (c Criteria) Build() Predicate {
	var preds []Predicate

	if c.Rated != nil {
		want := *c.Rated
		preds = append(preds, func(g model.Game) bool { return g.Rated == want })
	}
	if c.HasAccuracies != nil {
		want := *c.HasAccuracies
		preds = append(preds, func(g model.Game) bool { return (g.Accuracies != nil) == want })
	}
	if c.DecisiveOnly {
		preds = append(preds, func(g model.Game) bool { return g.IsDecisive() })
	}
	if c.MaxRatingDiff != nil {
		limit := *c.MaxRatingDiff
		preds = append(preds, func(g model.Game) bool { return g.RatingDiff() <= limit })
	}
	if c.Rules != "" {
		rules := c.Rules
		preds = append(preds, func(g model.Game) bool { return g.Rules == rules })
	}
	if c.TimeClass != "" {
		tc := c.TimeClass
		preds = append(preds, func(g model.Game) bool { return g.TimeClass == tc })
	}

	return All(preds...)
}

// All combines predicates with AND. Nil predicates are ignored and an
// empty list matches every game.
func All(preds ...Predicate) Predicate {
	var set []Predicate
	for _, p := range preds {
		if p != nil {
			set = append(set, p)
		}
	}
	return func(g model.Game) bool {
		for _, p := range set {
			if !p(g) {
				return false
			}
		}
		return true
	}
}
