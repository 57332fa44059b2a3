package matching

import (
	"github.com/samber/lo"

	"github.com/birdiedeals/birdie/internal/domain/model"
	"github.com/birdiedeals/birdie/internal/domain/risk"
)

// BuildProfileProperties flattens a profile into snake_cased marketing
// properties annotated with the risk scorer outputs.
//
// Booleans are emitted whenever present, false included. Other optional
// fields are emitted only when present and non-zero, so roundsPerMonth: 0
// is omitted. handicap is the exception: a scratch golfer reports 0.
func BuildProfileProperties(p model.Profile) map[string]any {
	props := make(map[string]any)

	if p.Handicap != nil {
		props["handicap"] = *p.Handicap
	}
	putInt(props, "driver_carry", p.DriverCarry)
	putInt(props, "seven_iron_carry", p.SevenIronCarry)
	putInt(props, "rounds_per_month", p.RoundsPerMonth)
	putInt(props, "months_per_year", p.MonthsPlayedPerYear)
	putString(props, "region", p.Region)
	putString(props, "age_range", p.AgeRange)
	putString(props, "dominant_hand", p.DominantHand)
	putInt(props, "years_playing", p.YearsPlaying)
	putString(props, "play_style", p.PlayStyle)
	putString(props, "budget_preference", string(p.BudgetSensitivity))
	if p.WillingToBuyUsed != nil {
		props["buy_used_preference"] = *p.WillingToBuyUsed
	}
	if len(p.PreferredBrands) > 0 {
		props["preferred_brands"] = p.PreferredBrands
	}
	if len(p.Goals) > 0 {
		props["goals"] = p.Goals
	}

	wear, gap := risk.Analyze(p)
	if wear.Known() {
		props["wedge_wear_risk"] = string(wear)
	}
	props["has_gapping_issue"] = gap.HasGap
	props["gap_type"] = nil
	if gap.HasGap {
		props["gap_type"] = string(gap.GapType)
	}

	if len(p.Clubs) > 0 {
		props["club_count"] = len(p.Clubs)
		names := lo.FilterMap(p.Clubs, func(c model.Club, _ int) (string, bool) { return c.Name, c.Name != "" })
		if len(names) > 0 {
			props["club_types"] = names
		}
	}
	return props
}

func putInt(props map[string]any, key string, v *int) {
	if v != nil && *v != 0 {
		props[key] = *v
	}
}

func putString(props map[string]any, key, v string) {
	if v != "" {
		props[key] = v
	}
}
