// Package model contains domain models passed between layers.
package model

import (
	"slices"
	"strings"
)

// BudgetSensitivity expresses how price-driven a golfer is.
type BudgetSensitivity string

// Budget sensitivity values. Input is matched case-insensitively.
const (
	BudgetValueFirst       BudgetSensitivity = "value-first"
	BudgetBalanced         BudgetSensitivity = "balanced"
	BudgetPerformanceFirst BudgetSensitivity = "performance-first"
)

// PrefersValue reports whether the sensitivity mentions value. An empty
// sensitivity falls back to balanced.
func (b BudgetSensitivity) PrefersValue() bool {
	return strings.Contains(strings.ToLower(string(b)), "value")
}

// ClubUsage describes how often a club comes out of the bag.
type ClubUsage string

// Club usage values.
const (
	UsagePrimary     ClubUsage = "primary"
	UsageBackup      ClubUsage = "backup"
	UsageSituational ClubUsage = "situational"
)

// Club is a single club in the golfer's bag.
type Club struct {
	Name       string    `json:"name" validate:"required"`
	Brand      string    `json:"brand,omitempty"`
	Model      string    `json:"model,omitempty"`
	Loft       *float64  `json:"loft,omitempty" validate:"omitempty,gte=0,lte=90"`
	CarryYards *int      `json:"carryYards,omitempty" validate:"omitempty,gte=0,lte=500"`
	TotalYards *int      `json:"totalYards,omitempty" validate:"omitempty,gte=0,lte=500"`
	Usage      ClubUsage `json:"usage,omitempty" validate:"omitempty,oneof=primary backup situational"`
}

// EffectiveUsage returns the usage, defaulting to primary.
func (c Club) EffectiveUsage() ClubUsage {
	if c.Usage == "" {
		return UsagePrimary
	}
	return c.Usage
}

// Profile is a golfer's self-reported equipment profile. Pointer fields are
// optional; nil means the golfer did not report the value.
type Profile struct {
	Handicap            *float64          `json:"handicap,omitempty" validate:"omitempty,gte=-10,lte=54"`
	DriverCarry         *int              `json:"driverCarry,omitempty" validate:"omitempty,gte=0,lte=500"`
	SevenIronCarry      *int              `json:"sevenIronCarry,omitempty" validate:"omitempty,gte=0,lte=300"`
	RoundsPerMonth      *int              `json:"roundsPerMonth,omitempty" validate:"omitempty,gte=0,lte=62"`
	MonthsPlayedPerYear *int              `json:"monthsPlayedPerYear,omitempty" validate:"omitempty,gte=0,lte=12"`
	Region              string            `json:"region,omitempty"`
	BudgetSensitivity   BudgetSensitivity `json:"budgetSensitivity,omitempty" validate:"omitempty,oneof=value-first balanced performance-first"`
	WillingToBuyUsed    *bool             `json:"willingToBuyUsed,omitempty"`
	PreferredBrands     []string          `json:"preferredBrands,omitempty"`
	Clubs               []Club            `json:"clubs,omitempty" validate:"omitempty,dive"`
	PlayStyle           string            `json:"playStyle,omitempty"`
	Goals               []string          `json:"goals,omitempty"`
	AgeRange            string            `json:"ageRange,omitempty"`
	DominantHand        string            `json:"dominantHand,omitempty"`
	YearsPlaying        *int              `json:"yearsPlaying,omitempty" validate:"omitempty,gte=0"`
}

// Budget returns the budget sensitivity, defaulting to balanced.
func (p Profile) Budget() BudgetSensitivity {
	if p.BudgetSensitivity == "" {
		return BudgetBalanced
	}
	return p.BudgetSensitivity
}

// WantsUsed reports the used-equipment preference, defaulting to false.
func (p Profile) WantsUsed() bool {
	return p.WillingToBuyUsed != nil && *p.WillingToBuyUsed
}

// Rounds returns rounds per month, treating an absent value as zero.
func (p Profile) Rounds() int {
	if p.RoundsPerMonth == nil {
		return 0
	}
	return *p.RoundsPerMonth
}

// Summary is the projection of a profile returned alongside recommendations.
type Summary struct {
	Handicap            *float64           `json:"handicap"`
	DriverCarry         *int               `json:"driverCarry"`
	SevenIronCarry      *int               `json:"sevenIronCarry"`
	RoundsPerMonth      *int               `json:"roundsPerMonth"`
	MonthsPlayedPerYear *int               `json:"monthsPlayedPerYear"`
	BudgetSensitivity   *BudgetSensitivity `json:"budgetSensitivity"` // nil when not reported
	WillingToBuyUsed    *bool              `json:"willingToBuyUsed"`
	ClubCount           int                `json:"clubCount"`
}

// Summarize returns the enumerated summary fields plus the club count.
func (p Profile) Summarize() Summary {
	s := Summary{
		Handicap:            p.Handicap,
		DriverCarry:         p.DriverCarry,
		SevenIronCarry:      p.SevenIronCarry,
		RoundsPerMonth:      p.RoundsPerMonth,
		MonthsPlayedPerYear: p.MonthsPlayedPerYear,
		WillingToBuyUsed:    p.WillingToBuyUsed,
		ClubCount:           len(p.Clubs),
	}
	if p.BudgetSensitivity != "" {
		s.BudgetSensitivity = Ptr(p.BudgetSensitivity)
	}
	return s
}

// Ptr returns a pointer to v. Handy for building optional profile fields.
func Ptr[T any](v T) *T { return &v }

// Clone returns a deep copy of the profile.
func (p Profile) Clone() Profile {
	c := p
	c.Handicap = clonePtr(p.Handicap)
	c.DriverCarry = clonePtr(p.DriverCarry)
	c.SevenIronCarry = clonePtr(p.SevenIronCarry)
	c.RoundsPerMonth = clonePtr(p.RoundsPerMonth)
	c.MonthsPlayedPerYear = clonePtr(p.MonthsPlayedPerYear)
	c.WillingToBuyUsed = clonePtr(p.WillingToBuyUsed)
	c.YearsPlaying = clonePtr(p.YearsPlaying)
	c.PreferredBrands = slices.Clone(p.PreferredBrands)
	c.Goals = slices.Clone(p.Goals)
	if p.Clubs != nil {
		c.Clubs = make([]Club, len(p.Clubs))
		for i, club := range p.Clubs {
			club.Loft = clonePtr(club.Loft)
			club.CarryYards = clonePtr(club.CarryYards)
			club.TotalYards = clonePtr(club.TotalYards)
			c.Clubs[i] = club
		}
	}
	return c
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	return Ptr(*v)
}
