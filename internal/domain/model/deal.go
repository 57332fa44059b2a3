package model

import "slices"

// Category names a catalog section.
type Category string

// Catalog categories.
const (
	CategoryWedges      Category = "wedges"
	CategoryDriver      Category = "driver"
	CategoryBalls       Category = "balls"
	CategoryHybrids     Category = "hybrids"
	CategoryFairway     Category = "fairway"
	CategoryIrons       Category = "irons"
	CategoryPutter      Category = "putter"
	CategoryApparel     Category = "apparel"
	CategoryAccessories Category = "accessories"
)

// Deal is a purchasable catalog entry. MatchScore and MatchReason are set
// only on scored copies produced by the matcher.
type Deal struct {
	ID            string   `json:"id" koanf:"id"`
	Title         string   `json:"title" koanf:"title"`
	Brand         string   `json:"brand" koanf:"brand"`
	Category      Category `json:"category" koanf:"category"`
	Price         float64  `json:"price" koanf:"price"`
	OriginalPrice *float64 `json:"originalPrice,omitempty" koanf:"original_price"`
	Retailer      string   `json:"retailer" koanf:"retailer"`
	URL           string   `json:"url" koanf:"url"`
	ImageURL      string   `json:"imageUrl,omitempty" koanf:"image_url"`
	Tags          []string `json:"tags,omitempty" koanf:"tags"`
	ExpiresAt     string   `json:"expiresAt,omitempty" koanf:"expires_at"`

	MatchScore  *float64 `json:"matchScore,omitempty" koanf:"-"`
	MatchReason string   `json:"matchReason,omitempty" koanf:"-"`
}

// HasTag reports whether the deal carries tag.
func (d Deal) HasTag(tag string) bool {
	return slices.Contains(d.Tags, tag)
}

// Clone returns an independent copy of the deal; slices and pointers are not
// shared with the receiver.
func (d Deal) Clone() Deal {
	c := d
	c.Tags = slices.Clone(d.Tags)
	if d.OriginalPrice != nil {
		c.OriginalPrice = Ptr(*d.OriginalPrice)
	}
	if d.MatchScore != nil {
		c.MatchScore = Ptr(*d.MatchScore)
	}
	return c
}

// Scored returns an independent copy carrying the given score and reason.
func (d Deal) Scored(score float64, reason string) Deal {
	c := d.Clone()
	c.MatchScore = Ptr(score)
	c.MatchReason = reason
	return c
}

// Score returns the match score, or zero for unscored deals.
func (d Deal) Score() float64 {
	if d.MatchScore == nil {
		return 0
	}
	return *d.MatchScore
}
