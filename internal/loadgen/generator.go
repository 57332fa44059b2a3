package loadgen

import (
	"math/rand/v2"
	"strconv"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/birdiedeals/birdie/internal/domain/model"
)

var (
	budgets = []model.BudgetSensitivity{model.BudgetValueFirst, model.BudgetBalanced, model.BudgetPerformanceFirst}
	brands  = []string{"Titleist", "Callaway", "TaylorMade", "Ping", "Cleveland", "Mizuno"}
	regions = []string{"northeast", "southeast", "midwest", "southwest", "west"}
	usages  = []model.ClubUsage{model.UsagePrimary, model.UsagePrimary, model.UsageBackup, model.UsageSituational}
)

// generator builds plausible but varied golfer profiles. Roughly one field in
// five is left unset so the sparse-profile paths get traffic too.
type generator struct {
	rnd *rand.Rand
}

func newGenerator(seed uint64) *generator {
	return &generator{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (g *generator) golfers(n int) []Golfer {
	return lo.Times(n, func(i int) Golfer {
		id := uuid.NewString()
		return Golfer{
			ID:      id,
			Email:   "golfer-" + strconv.Itoa(i) + "@loadgen.birdie.test",
			Profile: g.profile(),
		}
	})
}

func (g *generator) profile() model.Profile {
	p := model.Profile{
		Region:            pickOne(g.rnd, regions),
		BudgetSensitivity: pickOne(g.rnd, budgets),
		PreferredBrands:   lo.Samples(brands, g.rnd.IntN(3)),
	}
	if g.present() {
		p.Handicap = model.Ptr(float64(g.rnd.IntN(360)) / 10)
	}
	if g.present() {
		p.RoundsPerMonth = model.Ptr(g.rnd.IntN(13))
	}
	if g.present() {
		p.MonthsPlayedPerYear = model.Ptr(4 + g.rnd.IntN(9))
	}
	if g.present() {
		p.WillingToBuyUsed = model.Ptr(g.rnd.IntN(2) == 0)
	}
	if g.present() {
		p.DriverCarry = model.Ptr(170 + g.rnd.IntN(130))
	}
	if g.present() {
		p.SevenIronCarry = model.Ptr(110 + g.rnd.IntN(70))
	}
	if g.present() {
		p.Clubs = g.bag()
	}
	return p
}

// bag returns a descending set of carries with an occasional big hole in it.
func (g *generator) bag() []model.Club {
	names := []string{"Driver", "3 Wood", "5 Wood", "4 Hybrid", "5 Iron", "6 Iron", "7 Iron", "8 Iron", "9 Iron", "PW", "52 Wedge", "56 Wedge"}
	carry := 200 + g.rnd.IntN(90)
	clubs := make([]model.Club, 0, len(names))
	for _, name := range names {
		if g.rnd.IntN(6) == 0 {
			continue
		}
		clubs = append(clubs, model.Club{
			Name:       name,
			Brand:      pickOne(g.rnd, brands),
			CarryYards: model.Ptr(carry),
			Usage:      pickOne(g.rnd, usages),
		})
		carry -= 8 + g.rnd.IntN(10)
		if g.rnd.IntN(8) == 0 {
			carry -= 25
		}
		if carry < 40 {
			break
		}
	}
	return clubs
}

func (g *generator) present() bool { return g.rnd.IntN(5) != 0 }

func pickOne[T any](rnd *rand.Rand, xs []T) T { return xs[rnd.IntN(len(xs))] }
