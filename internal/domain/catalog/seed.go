package catalog

import "github.com/birdiedeals/birdie/internal/domain/model"

// Default returns the built-in seed catalog.
func Default() *Catalog {
	c, err := New(seed())
	if err != nil {
		panic(err)
	}
	return c
}

func seed() []model.Deal {
	return []model.Deal{
		{
			ID:            "d1",
			Title:         "Cleveland RTX ZipCore Wedge (Last Gen)",
			Brand:         "Cleveland",
			Category:      model.CategoryWedges,
			Price:         109.99,
			OriginalPrice: model.Ptr(149.99),
			Retailer:      "GlobalGolf",
			URL:           "https://example.com/deal/wedge",
			ImageURL:      "https://images.unsplash.com/photo-1535131749006-b7f58c99034b?w=400",
			Tags:          []string{"value", "last-gen", "spin"},
		},
		{
			ID:            "d10",
			Title:         "Titleist Vokey SM9 Wedge",
			Brand:         "Titleist",
			Category:      model.CategoryWedges,
			Price:         159.99,
			OriginalPrice: model.Ptr(179.99),
			Retailer:      "Golf Galaxy",
			URL:           "https://example.com/deal/vokey",
			ImageURL:      "https://images.unsplash.com/photo-1535131749006-b7f58c99034b?w=400",
			Tags:          []string{"premium", "spin", "tour"},
		},
		{
			ID:            "d2",
			Title:         "Callaway Mavrik Driver (Used - Very Good)",
			Brand:         "Callaway",
			Category:      model.CategoryDriver,
			Price:         179.99,
			OriginalPrice: model.Ptr(399.99),
			Retailer:      "Callaway Pre-Owned",
			URL:           "https://example.com/deal/driver",
			ImageURL:      "https://images.unsplash.com/photo-1593111774240-d529f12cf4bb?w=400",
			Tags:          []string{"used", "forgiving", "value"},
		},
		{
			ID:            "d11",
			Title:         "TaylorMade Stealth 2 Driver",
			Brand:         "TaylorMade",
			Category:      model.CategoryDriver,
			Price:         449.99,
			OriginalPrice: model.Ptr(599.99),
			Retailer:      "TaylorMade",
			URL:           "https://example.com/deal/stealth2",
			ImageURL:      "https://images.unsplash.com/photo-1593111774240-d529f12cf4bb?w=400",
			Tags:          []string{"new", "distance", "premium"},
		},
		{
			ID:            "d3",
			Title:         "Titleist Pro V1 Practice Balls (Dozen)",
			Brand:         "Titleist",
			Category:      model.CategoryBalls,
			Price:         29.99,
			OriginalPrice: model.Ptr(49.99),
			Retailer:      "LostGolfBalls",
			URL:           "https://example.com/deal/balls",
			ImageURL:      "https://images.unsplash.com/photo-1587174486073-ae5e5cff23aa?w=400",
			Tags:          []string{"practice", "value"},
		},
		{
			ID:            "d12",
			Title:         "Kirkland Signature Golf Balls (2 Dozen)",
			Brand:         "Kirkland",
			Category:      model.CategoryBalls,
			Price:         27.99,
			OriginalPrice: model.Ptr(34.99),
			Retailer:      "Costco",
			URL:           "https://example.com/deal/kirkland",
			ImageURL:      "https://images.unsplash.com/photo-1587174486073-ae5e5cff23aa?w=400",
			Tags:          []string{"value", "3-piece"},
		},
		{
			ID:            "d4",
			Title:         "Ping G430 Hybrid",
			Brand:         "Ping",
			Category:      model.CategoryHybrids,
			Price:         229.99,
			OriginalPrice: model.Ptr(279.99),
			Retailer:      "Golf Galaxy",
			URL:           "https://example.com/deal/hybrid",
			ImageURL:      "https://images.unsplash.com/photo-1535131749006-b7f58c99034b?w=400",
			Tags:          []string{"forgiving", "versatile"},
		},
		{
			ID:            "d13",
			Title:         "Callaway Paradym Hybrid (Used)",
			Brand:         "Callaway",
			Category:      model.CategoryHybrids,
			Price:         149.99,
			OriginalPrice: model.Ptr(299.99),
			Retailer:      "Callaway Pre-Owned",
			URL:           "https://example.com/deal/paradym-hybrid",
			ImageURL:      "https://images.unsplash.com/photo-1535131749006-b7f58c99034b?w=400",
			Tags:          []string{"used", "value", "forgiving"},
		},
		{
			ID:            "d5",
			Title:         "Cobra LTDx 3 Wood",
			Brand:         "Cobra",
			Category:      model.CategoryFairway,
			Price:         199.99,
			OriginalPrice: model.Ptr(349.99),
			Retailer:      "Rock Bottom Golf",
			URL:           "https://example.com/deal/fairway",
			ImageURL:      "https://images.unsplash.com/photo-1593111774240-d529f12cf4bb?w=400",
			Tags:          []string{"value", "distance", "last-gen"},
		},
		{
			ID:            "d6",
			Title:         "Callaway Rogue ST Max Irons (5-PW)",
			Brand:         "Callaway",
			Category:      model.CategoryIrons,
			Price:         699.99,
			OriginalPrice: model.Ptr(999.99),
			Retailer:      "Golf Galaxy",
			URL:           "https://example.com/deal/irons",
			ImageURL:      "https://images.unsplash.com/photo-1535131749006-b7f58c99034b?w=400",
			Tags:          []string{"game-improvement", "forgiving", "distance"},
		},
		{
			ID:            "d14",
			Title:         "TaylorMade P790 Irons (Used)",
			Brand:         "TaylorMade",
			Category:      model.CategoryIrons,
			Price:         599.99,
			OriginalPrice: model.Ptr(1299.99),
			Retailer:      "2nd Swing",
			URL:           "https://example.com/deal/p790",
			ImageURL:      "https://images.unsplash.com/photo-1535131749006-b7f58c99034b?w=400",
			Tags:          []string{"used", "player", "value"},
		},
		{
			ID:            "d7",
			Title:         "Odyssey White Hot OG #1 Putter",
			Brand:         "Odyssey",
			Category:      model.CategoryPutter,
			Price:         179.99,
			OriginalPrice: model.Ptr(249.99),
			Retailer:      "Golf Galaxy",
			URL:           "https://example.com/deal/putter",
			ImageURL:      "https://images.unsplash.com/photo-1535131749006-b7f58c99034b?w=400",
			Tags:          []string{"blade", "feel", "classic"},
		},
		{
			ID:            "d15",
			Title:         "Cleveland Huntington Beach Putter",
			Brand:         "Cleveland",
			Category:      model.CategoryPutter,
			Price:         99.99,
			OriginalPrice: model.Ptr(149.99),
			Retailer:      "Amazon",
			URL:           "https://example.com/deal/hb-putter",
			ImageURL:      "https://images.unsplash.com/photo-1535131749006-b7f58c99034b?w=400",
			Tags:          []string{"value", "mallet", "forgiving"},
		},
		{
			ID:            "d8",
			Title:         "FootJoy Pro SL Golf Shoes",
			Brand:         "FootJoy",
			Category:      model.CategoryApparel,
			Price:         129.99,
			OriginalPrice: model.Ptr(169.99),
			Retailer:      "FootJoy",
			URL:           "https://example.com/deal/shoes",
			ImageURL:      "https://images.unsplash.com/photo-1560769629-975ec94e6a86?w=400",
			Tags:          []string{"shoes", "comfort", "spikeless"},
		},
		{
			ID:            "d16",
			Title:         "Under Armour Golf Polo (3-Pack)",
			Brand:         "Under Armour",
			Category:      model.CategoryApparel,
			Price:         79.99,
			OriginalPrice: model.Ptr(119.99),
			Retailer:      "UA Outlet",
			URL:           "https://example.com/deal/polos",
			ImageURL:      "https://images.unsplash.com/photo-1560769629-975ec94e6a86?w=400",
			Tags:          []string{"value", "bundle", "moisture-wicking"},
		},
		{
			ID:            "d9",
			Title:         "Bushnell Tour V5 Rangefinder",
			Brand:         "Bushnell",
			Category:      model.CategoryAccessories,
			Price:         299.99,
			OriginalPrice: model.Ptr(399.99),
			Retailer:      "Amazon",
			URL:           "https://example.com/deal/rangefinder",
			ImageURL:      "https://images.unsplash.com/photo-1591491634056-276cc0c0e20b?w=400",
			Tags:          []string{"rangefinder", "tech", "accuracy"},
		},
		{
			ID:            "d17",
			Title:         "Sun Mountain 2.5+ Stand Bag",
			Brand:         "Sun Mountain",
			Category:      model.CategoryAccessories,
			Price:         189.99,
			OriginalPrice: model.Ptr(249.99),
			Retailer:      "Golf Galaxy",
			URL:           "https://example.com/deal/bag",
			ImageURL:      "https://images.unsplash.com/photo-1591491634056-276cc0c0e20b?w=400",
			Tags:          []string{"bag", "lightweight", "stand"},
		},
	}
}
