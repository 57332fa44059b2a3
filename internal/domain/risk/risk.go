// Package risk derives equipment risk indicators from a golfer profile.
// Every function here is pure and safe for concurrent use.
package risk

import (
	"fmt"
	"slices"

	"github.com/birdiedeals/birdie/internal/domain/model"
)

// Wear risk thresholds in rounds per month.
const (
	HighWearRounds   = 8
	MediumWearRounds = 4
)

// Gap classification thresholds in carry yards.
const (
	MaxGapYards     = 20
	TopOfBagYards   = 200
	MidBagYards     = 150
	unnamedClubName = "club"
)

// ComputeWearRisk estimates wedge wear from rounds per month. An absent
// value yields WearRiskUnknown.
func ComputeWearRisk(p model.Profile) model.WearRisk {
	if p.RoundsPerMonth == nil {
		return model.WearRiskUnknown
	}
	switch rounds := *p.RoundsPerMonth; {
	case rounds >= HighWearRounds:
		return model.WearRiskHigh
	case rounds >= MediumWearRounds:
		return model.WearRiskMedium
	default:
		return model.WearRiskLow
	}
}

type carryClub struct {
	name  string
	carry int
}

// ComputeGapping reports the first yardage gap wider than MaxGapYards,
// scanning from the longest club down. Clubs without a carry distance are
// ignored; fewer than two carry-bearing clubs yields no gap.
func ComputeGapping(p model.Profile) model.GapResult {
	clubs := make([]carryClub, 0, len(p.Clubs))
	for _, c := range p.Clubs {
		if c.CarryYards == nil {
			continue
		}
		name := c.Name
		if name == "" {
			name = unnamedClubName
		}
		clubs = append(clubs, carryClub{name: name, carry: *c.CarryYards})
	}
	if len(clubs) < 2 {
		return model.GapResult{}
	}

	slices.SortStableFunc(clubs, func(a, b carryClub) int { return b.carry - a.carry })

	for i := 0; i < len(clubs)-1; i++ {
		upper, lower := clubs[i], clubs[i+1]
		gap := upper.carry - lower.carry
		if gap <= MaxGapYards {
			continue
		}
		return model.GapResult{
			HasGap:  true,
			GapType: classify(upper.carry),
			GapDetails: fmt.Sprintf("%d yard gap between %s (%dy) and %s (%dy)",
				gap, upper.name, upper.carry, lower.name, lower.carry),
		}
	}
	return model.GapResult{}
}

func classify(longerCarry int) model.GapType {
	switch {
	case longerCarry >= TopOfBagYards:
		return model.GapTopOfBag
	case longerCarry >= MidBagYards:
		return model.GapMidBag
	default:
		return model.GapWedge
	}
}

// Analyze runs both scorers.
func Analyze(p model.Profile) (model.WearRisk, model.GapResult) {
	return ComputeWearRisk(p), ComputeGapping(p)
}
