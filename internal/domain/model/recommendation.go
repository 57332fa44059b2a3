package model

// Recommendation is the envelope returned to a golfer asking for deals.
// GappingAnalysis is nil unless a gap was found.
type Recommendation struct {
	Deals           []Deal     `json:"deals"`
	Reasoning       string     `json:"reasoning"`
	ProfileSummary  Summary    `json:"profileSummary"`
	GappingAnalysis *GapResult `json:"gappingAnalysis"`
	RiskScores      RiskScores `json:"riskScores"`
}
