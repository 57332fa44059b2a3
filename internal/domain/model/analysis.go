package model

import "encoding/json"

// WearRisk estimates how urgently wedges need replacing. The zero value
// means there was not enough data to decide.
type WearRisk string

// Wear risk levels.
const (
	WearRiskUnknown WearRisk = ""
	WearRiskHigh    WearRisk = "high"
	WearRiskMedium  WearRisk = "medium"
	WearRiskLow     WearRisk = "low"
)

// Known reports whether the risk was determined.
func (w WearRisk) Known() bool { return w != WearRiskUnknown }

// MarshalJSON encodes an unknown risk as null.
func (w WearRisk) MarshalJSON() ([]byte, error) {
	if !w.Known() {
		return []byte("null"), nil
	}
	return json.Marshal(string(w))
}

// GapType classifies where in the bag a yardage gap sits.
type GapType string

// Gap types.
const (
	GapNone     GapType = ""
	GapTopOfBag GapType = "top-of-bag"
	GapMidBag   GapType = "mid-bag"
	GapWedge    GapType = "wedge-gap"
)

// GapResult is the outcome of bag gapping analysis.
type GapResult struct {
	HasGap     bool    `json:"hasGap"`
	GapType    GapType `json:"gapType"`
	GapDetails string  `json:"gapDetails"`
}

type gapResultJSON struct {
	HasGap     bool    `json:"hasGap"`
	GapType    *string `json:"gapType"`
	GapDetails *string `json:"gapDetails"`
}

// MarshalJSON encodes empty type and details as null.
func (g GapResult) MarshalJSON() ([]byte, error) {
	out := gapResultJSON{HasGap: g.HasGap}
	if g.GapType != GapNone {
		t := string(g.GapType)
		out.GapType = &t
	}
	if g.GapDetails != "" {
		out.GapDetails = &g.GapDetails
	}
	return json.Marshal(out)
}

// RiskScores groups the derived equipment risk indicators.
type RiskScores struct {
	WedgeWearRisk WearRisk `json:"wedgeWearRisk"`
}
