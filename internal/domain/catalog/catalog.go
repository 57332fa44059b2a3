// Package catalog holds the read-only collection of purchasable deals.
//
// Catalog order is significant: matching rules pick the first deal in a
// category, so the order of entries is a priority ranking and is preserved
// exactly as supplied.
package catalog

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/birdiedeals/birdie/internal/domain/model"
)

// Catalog is an ordered, immutable set of deals. It is safe for concurrent
// use because nothing mutates it after construction.
type Catalog struct {
	deals []model.Deal
	index map[string]int
}

// New builds a catalog from deals. The input is copied; callers may reuse it.
func New(deals []model.Deal) (*Catalog, error) {
	c := &Catalog{
		deals: make([]model.Deal, 0, len(deals)),
		index: make(map[string]int, len(deals)),
	}
	for _, d := range deals {
		if d.ID == "" {
			return nil, fmt.Errorf("%w: empty id for %q", ErrInvalidDeal, d.Title)
		}
		if d.Category == "" {
			return nil, fmt.Errorf("%w: %s has no category", ErrInvalidDeal, d.ID)
		}
		if _, ok := c.index[d.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, d.ID)
		}
		c.index[d.ID] = len(c.deals)
		// Scores only live on matcher output.
		d = d.Clone()
		d.MatchScore = nil
		d.MatchReason = ""
		c.deals = append(c.deals, d)
	}
	return c, nil
}

// Len returns the number of deals.
func (c *Catalog) Len() int { return len(c.deals) }

// Deals returns independent copies of every deal in catalog order.
func (c *Catalog) Deals() []model.Deal {
	return lo.Map(c.deals, func(d model.Deal, _ int) model.Deal { return d.Clone() })
}

// ByID returns a copy of the deal with the given id.
func (c *Catalog) ByID(id string) (model.Deal, bool) {
	i, ok := c.index[id]
	if !ok {
		return model.Deal{}, false
	}
	return c.deals[i].Clone(), true
}

// ByCategory returns copies of the deals in category, in catalog order.
func (c *Catalog) ByCategory(category model.Category) []model.Deal {
	return c.filter(func(d model.Deal) bool { return d.Category == category })
}

// ByTag returns copies of the deals carrying tag, in catalog order.
func (c *Catalog) ByTag(tag string) []model.Deal {
	return c.filter(func(d model.Deal) bool { return d.HasTag(tag) })
}

// First returns a copy of the first deal matching pred.
func (c *Catalog) First(pred func(model.Deal) bool) (model.Deal, bool) {
	d, ok := lo.Find(c.deals, pred)
	if !ok {
		return model.Deal{}, false
	}
	return d.Clone(), true
}

// Categories returns the distinct categories in order of first appearance.
func (c *Catalog) Categories() []model.Category {
	return lo.Uniq(lo.Map(c.deals, func(d model.Deal, _ int) model.Category { return d.Category }))
}

func (c *Catalog) filter(pred func(model.Deal) bool) []model.Deal {
	out := lo.Filter(c.deals, func(d model.Deal, _ int) bool { return pred(d) })
	return lo.Map(out, func(d model.Deal, _ int) model.Deal { return d.Clone() })
}
