// Package matching turns a golfer profile and the deal catalog into a
// ranked, explained list of recommendations.
package matching

import (
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/birdiedeals/birdie/internal/domain/catalog"
	"github.com/birdiedeals/birdie/internal/domain/model"
	"github.com/birdiedeals/birdie/internal/domain/risk"
)

// FallbackReasoning is used when no rule contributed a reasoning fragment.
const FallbackReasoning = "Here are some deals we think you'll like."

// Suggestion is the outcome of one matching pass.
type Suggestion struct {
	Deals      []model.Deal
	Reasoning  string
	Categories []model.Category
	Rules      []string // names of the rules that contributed, in firing order
	WearRisk   model.WearRisk
	Gap        model.GapResult
}

// Confidence returns "high" when any deal scored at or above
// HighConfidenceScore, "medium" otherwise.
func (s Suggestion) Confidence() string {
	if lo.SomeBy(s.Deals, func(d model.Deal) bool { return d.Score() >= HighConfidenceScore }) {
		return "high"
	}
	return "medium"
}

// Matcher runs a fixed rule cascade.
type Matcher struct {
	rules []Rule
}

// NewMatcher returns a matcher over rules, or DefaultRules when none are given.
func NewMatcher(rules ...Rule) *Matcher {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Matcher{rules: rules}
}

// Suggest runs the default cascade. See Matcher.Suggest.
func Suggest(p model.Profile, c *catalog.Catalog) Suggestion {
	return NewMatcher().Suggest(p, c)
}

// Suggest evaluates every rule in order, folding picks into an immutable
// category set. The catalog is only read; returned deals are copies.
func (m *Matcher) Suggest(p model.Profile, c *catalog.Catalog) Suggestion {
	wear, gap := risk.Analyze(p)
	in := Input{Profile: p, WearRisk: wear, Gap: gap, Catalog: c}

	var (
		picks    []Pick
		selected CategorySet
	)
	for _, r := range m.rules {
		pk, ok := r.Apply(in, selected)
		if !ok {
			continue
		}
		pk.Rule = r.Name
		picks = append(picks, pk)
		selected = selected.With(pk.Deal.Category)
	}

	unique := lo.UniqBy(picks, func(pk Pick) string { return pk.Deal.ID })
	slices.SortStableFunc(unique, func(a, b Pick) int {
		switch sa, sb := a.Deal.Score(), b.Deal.Score(); {
		case sa > sb:
			return -1
		case sa < sb:
			return 1
		default:
			return 0
		}
	})

	categories := lo.Uniq(lo.Map(picks, func(pk Pick, _ int) model.Category { return pk.Deal.Category }))
	slices.Sort(categories)

	return Suggestion{
		Deals:      lo.Map(unique, func(pk Pick, _ int) model.Deal { return pk.Deal }),
		Reasoning:  reasoning(p, picks),
		Categories: categories,
		Rules:      lo.Map(picks, func(pk Pick, _ int) string { return pk.Rule }),
		WearRisk:   wear,
		Gap:        gap,
	}
}

func reasoning(p model.Profile, picks []Pick) string {
	fragments := lo.FilterMap(picks, func(pk Pick, _ int) (string, bool) {
		return pk.Fragment, pk.Fragment != ""
	})

	text := FallbackReasoning
	if len(fragments) > 0 {
		text = "Personalized for you based on: " + strings.Join(fragments, ", ") + "."
	}
	if p.Handicap != nil {
		text = "Handicap " + formatHandicap(*p.Handicap) + " golfer. " + text
	}
	return text
}

// formatHandicap prints the shortest exact decimal, keeping one fractional
// digit for whole numbers: 18 -> "18.0", 12.5 -> "12.5".
func formatHandicap(h float64) string {
	s := strconv.FormatFloat(h, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
