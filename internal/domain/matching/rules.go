package matching

import (
	"github.com/birdiedeals/birdie/internal/domain/catalog"
	"github.com/birdiedeals/birdie/internal/domain/model"
)

// Rule scores.
const (
	ScoreWedgeWear       = 0.90
	ScoreTopOfBagGap     = 0.85
	ScoreMidBagGap       = 0.80
	ScoreValueDriver     = 0.75
	ScoreForgivingDriver = 0.70
	ScoreGameImprovement = 0.65
	ScoreBalls           = 0.60
	ScoreApparel         = 0.50

	// HighConfidenceScore is the lowest score that makes a set high confidence.
	HighConfidenceScore = 0.80

	shortDriverCarry     = 220
	highHandicap         = 15.0
	frequentPlayerRounds = 6
)

// Input is everything a rule may inspect. It is shared read-only by every
// rule of one pass.
type Input struct {
	Profile  model.Profile
	WearRisk model.WearRisk
	Gap      model.GapResult
	Catalog  *catalog.Catalog
}

// Pick is one rule's contribution: a scored deal copy plus an optional
// reasoning fragment.
type Pick struct {
	Rule     string
	Deal     model.Deal
	Fragment string
}

// Rule decides whether to contribute a deal, given the categories already
// selected by earlier rules.
type Rule struct {
	Name  string
	Apply func(in Input, selected CategorySet) (Pick, bool)
}

// CategorySet is an immutable set of categories. With returns a new set.
type CategorySet struct {
	m map[model.Category]struct{}
}

// Has reports whether c is in the set.
func (s CategorySet) Has(c model.Category) bool {
	_, ok := s.m[c]
	return ok
}

// With returns a copy of the set that also contains c.
func (s CategorySet) With(c model.Category) CategorySet {
	if s.Has(c) {
		return s
	}
	m := make(map[model.Category]struct{}, len(s.m)+1)
	for k := range s.m {
		m[k] = struct{}{}
	}
	m[c] = struct{}{}
	return CategorySet{m: m}
}

// Len returns the number of categories in the set.
func (s CategorySet) Len() int { return len(s.m) }

// DefaultRules returns the rule cascade in evaluation order. Order matters:
// later rules consult the categories chosen by earlier ones.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "wedge_wear", Apply: wedgeWearRule},
		{Name: "top_of_bag_gap", Apply: topOfBagGapRule},
		{Name: "mid_bag_gap", Apply: midBagGapRule},
		{Name: "value_driver", Apply: valueDriverRule},
		{Name: "forgiving_driver", Apply: forgivingDriverRule},
		{Name: "balls", Apply: ballsRule},
		{Name: "game_improvement_irons", Apply: gameImprovementRule},
		{Name: "apparel", Apply: apparelRule},
	}
}

func inCategory(cats ...model.Category) func(model.Deal) bool {
	return func(d model.Deal) bool {
		for _, c := range cats {
			if d.Category == c {
				return true
			}
		}
		return false
	}
}

func inCategoryWithTag(c model.Category, tag string) func(model.Deal) bool {
	return func(d model.Deal) bool { return d.Category == c && d.HasTag(tag) }
}

func pick(in Input, pred func(model.Deal) bool, score float64, reason, fragment string) (Pick, bool) {
	d, ok := in.Catalog.First(pred)
	if !ok {
		return Pick{}, false
	}
	return Pick{Deal: d.Scored(score, reason), Fragment: fragment}, true
}

func wedgeWearRule(in Input, _ CategorySet) (Pick, bool) {
	if in.WearRisk != model.WearRiskHigh {
		return Pick{}, false
	}
	const reason = "High wedge wear risk - you play frequently"
	const fragment = "frequent play means wedge grooves wear faster"
	if in.Profile.Budget().PrefersValue() {
		if p, ok := pick(in, inCategoryWithTag(model.CategoryWedges, "value"), ScoreWedgeWear, reason, fragment); ok {
			return p, true
		}
	}
	return pick(in, inCategory(model.CategoryWedges), ScoreWedgeWear, reason, fragment)
}

func topOfBagGapRule(in Input, _ CategorySet) (Pick, bool) {
	if !in.Gap.HasGap || in.Gap.GapType != model.GapTopOfBag {
		return Pick{}, false
	}
	return pick(in, inCategory(model.CategoryHybrids, model.CategoryFairway), ScoreTopOfBagGap,
		"Detected "+in.Gap.GapDetails, "gap at the top of your bag: "+in.Gap.GapDetails)
}

func midBagGapRule(in Input, _ CategorySet) (Pick, bool) {
	if !in.Gap.HasGap || in.Gap.GapType != model.GapMidBag {
		return Pick{}, false
	}
	return pick(in, inCategory(model.CategoryIrons), ScoreMidBagGap,
		"Detected "+in.Gap.GapDetails, "mid-bag yardage gap: "+in.Gap.GapDetails)
}

func valueDriverRule(in Input, selected CategorySet) (Pick, bool) {
	if !in.Profile.Budget().PrefersValue() && !in.Profile.WantsUsed() {
		return Pick{}, false
	}
	if selected.Has(model.CategoryDriver) {
		return Pick{}, false
	}
	return pick(in, inCategoryWithTag(model.CategoryDriver, "used"), ScoreValueDriver,
		"Great value on a quality used driver", "value-first preference")
}

func forgivingDriverRule(in Input, selected CategorySet) (Pick, bool) {
	carry := in.Profile.DriverCarry
	if carry == nil || *carry >= shortDriverCarry || selected.Has(model.CategoryDriver) {
		return Pick{}, false
	}
	return pick(in, inCategoryWithTag(model.CategoryDriver, "forgiving"), ScoreForgivingDriver,
		"Forgiving driver could help with distance", "potential distance gains")
}

func ballsRule(in Input, selected CategorySet) (Pick, bool) {
	if selected.Has(model.CategoryBalls) {
		return Pick{}, false
	}
	return pick(in, inCategory(model.CategoryBalls), ScoreBalls, "Great value on premium balls", "")
}

func gameImprovementRule(in Input, selected CategorySet) (Pick, bool) {
	h := in.Profile.Handicap
	if h == nil || *h < highHandicap || selected.Has(model.CategoryIrons) {
		return Pick{}, false
	}
	return pick(in, inCategoryWithTag(model.CategoryIrons, "game-improvement"), ScoreGameImprovement,
		"Game improvement irons for your handicap level", "handicap-appropriate equipment")
}

func apparelRule(in Input, _ CategorySet) (Pick, bool) {
	if in.Profile.Rounds() < frequentPlayerRounds {
		return Pick{}, false
	}
	return pick(in, inCategory(model.CategoryApparel), ScoreApparel, "You play often - quality gear matters", "")
}
