package service_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	service "github.com/birdiedeals/birdie/internal/app"
	"github.com/birdiedeals/birdie/internal/adapters/repository"
	"github.com/birdiedeals/birdie/internal/domain/catalog"
	"github.com/birdiedeals/birdie/internal/domain/model"
	"github.com/birdiedeals/birdie/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// recorder collects every notification the workers deliver.
type recorder struct {
	mu   sync.Mutex
	sent []model.Notification
}

func (r *recorder) Send(_ context.Context, n model.Notification) error { //nolint:gocritic // hugeParam: test sender
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return nil
}

func (r *recorder) labels() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.sent))
	for i, n := range r.sent {
		out[i] = n.Label()
	}
	return out
}

func (r *recorder) all() []model.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Notification(nil), r.sent...)
}

func gappedProfile() model.Profile {
	return model.Profile{
		Handicap:       model.Ptr(18.0),
		DriverCarry:    model.Ptr(210),
		RoundsPerMonth: model.Ptr(10),
		Clubs: []model.Club{
			{Name: "Driver", CarryYards: model.Ptr(240)},
			{Name: "5 Iron", CarryYards: model.Ptr(190)},
			{Name: "7 Iron", CarryYards: model.Ptr(160)},
		},
	}
}

func newStarted(opts ...service.Option) (*service.Service, *recorder) {
	rec := &recorder{}
	base := []service.Option{
		service.WithWorkerCount(1),
		service.WithQueueSize(100),
		service.WithSender(rec),
	}
	svc := service.New(append(base, opts...)...)
	So(svc.Start(context.Background()), ShouldBeNil)
	return svc, rec
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then stats are available before start", func() {
			stats := svc.GetStats(context.Background())
			So(stats["started"], ShouldBeFalse)
			So(stats["catalogDeals"], ShouldEqual, 17)
			So(stats["catalogCategories"], ShouldHaveLength, 9)
			So(stats["catalogCategories"], ShouldContain, model.CategoryWedges)
			So(stats["queueLength"], ShouldEqual, 0)
		})

		Convey("Then store-backed calls fail until started", func() {
			_, err := svc.Me(context.Background(), "u1", "a@b.c")
			So(err, ShouldEqual, service.ErrNotStarted)
		})

		Convey("Then stopping an unstarted service is a no-op", func() {
			So(svc.Stop(context.Background()), ShouldBeNil)
		})
	})

	Convey("Given a started service", t, func() {
		svc, _ := newStarted()

		Convey("Then starting again is a no-op", func() {
			So(svc.Start(context.Background()), ShouldBeNil)
			So(svc.GetStats(context.Background())["started"], ShouldBeTrue)
		})

		Convey("When stopping the service", func() {
			So(svc.Stop(context.Background()), ShouldBeNil)

			Convey("Then it should be marked as stopped", func() {
				So(svc.GetStats(context.Background())["started"], ShouldBeFalse)
			})
		})

		Reset(func() { _ = svc.Stop(context.Background()) })
	})
}

func TestService_Recommend(t *testing.T) {
	Convey("Given a started service with the default catalog", t, func() {
		svc, rec := newStarted()
		ctx := context.Background()
		u := model.User{ID: "u1", Email: "golfer@example.com", Profile: gappedProfile()}

		Convey("When recommending for a profile with a top-of-bag gap", func() {
			out := svc.Recommend(ctx, u)
			So(svc.Stop(ctx), ShouldBeNil)

			Convey("Then the envelope carries deals, summary, gap and risk", func() {
				So(len(out.Deals), ShouldBeGreaterThan, 0)
				So(out.Reasoning, ShouldStartWith, "Handicap 18.0 golfer. Personalized for you based on: ")
				So(out.ProfileSummary.ClubCount, ShouldEqual, 3)
				So(out.GappingAnalysis, ShouldNotBeNil)
				So(out.GappingAnalysis.GapType, ShouldEqual, model.GapTopOfBag)
				So(out.RiskScores.WedgeWearRisk, ShouldEqual, model.WearRiskHigh)
			})

			Convey("Then exactly one recommendation notification is delivered", func() {
				sent := rec.all()
				So(sent, ShouldHaveLength, 1)
				So(sent[0].Name, ShouldEqual, model.EventRecommendationGenerated)
				So(sent[0].UserID, ShouldEqual, "u1")
				So(sent[0].Email, ShouldEqual, "golfer@example.com")
				So(sent[0].Properties["deal_count"], ShouldEqual, len(out.Deals))
				So(sent[0].Properties["confidence"], ShouldEqual, "high")
				So(sent[0].ID, ShouldNotBeEmpty)
			})
		})

		Convey("When the envelope is encoded", func() {
			out := svc.Recommend(ctx, model.User{ID: "u2"})
			raw, err := json.Marshal(out)
			So(err, ShouldBeNil)

			var decoded map[string]any
			So(json.Unmarshal(raw, &decoded), ShouldBeNil)

			Convey("Then absent analysis fields are null", func() {
				So(decoded, ShouldContainKey, "gappingAnalysis")
				So(decoded["gappingAnalysis"], ShouldBeNil)
				risk, ok := decoded["riskScores"].(map[string]any)
				So(ok, ShouldBeTrue)
				So(risk["wedgeWearRisk"], ShouldBeNil)
			})
		})

		Reset(func() { _ = svc.Stop(ctx) })
	})

	Convey("Given a service over an empty catalog", t, func() {
		empty, err := catalog.New(nil)
		So(err, ShouldBeNil)
		svc, rec := newStarted(service.WithCatalog(empty))
		ctx := context.Background()

		Convey("When recommending", func() {
			out := svc.Recommend(ctx, model.User{ID: "u1", Profile: gappedProfile()})
			So(svc.Stop(ctx), ShouldBeNil)

			Convey("Then no deals and no notification are produced", func() {
				So(out.Deals, ShouldNotBeNil)
				So(out.Deals, ShouldBeEmpty)
				So(rec.all(), ShouldBeEmpty)
			})
		})

		Reset(func() { _ = svc.Stop(ctx) })
	})
}

func TestService_Engagement(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc, rec := newStarted(service.WithDedupeWindow(time.Hour))
		ctx := context.Background()
		u := model.User{ID: "u1", Email: "golfer@example.com"}

		Convey("When an unknown deal is viewed or clicked", func() {
			viewed := svc.TrackDealView(ctx, u, "nope")
			url, clicked := svc.TrackDealClick(ctx, u, "nope")
			So(svc.Stop(ctx), ShouldBeNil)

			Convey("Then nothing is emitted", func() {
				So(viewed, ShouldBeFalse)
				So(clicked, ShouldBeFalse)
				So(url, ShouldBeEmpty)
				So(rec.all(), ShouldBeEmpty)
			})
		})

		Convey("When the same deal is viewed twice and clicked once", func() {
			So(svc.TrackDealView(ctx, u, "d1"), ShouldBeTrue)
			So(svc.TrackDealView(ctx, u, "d1"), ShouldBeTrue)
			url, ok := svc.TrackDealClick(ctx, u, "d1")
			So(svc.Stop(ctx), ShouldBeNil)

			Convey("Then the repeat view is suppressed", func() {
				So(ok, ShouldBeTrue)
				So(url, ShouldEqual, "https://example.com/deal/wedge")
				So(rec.labels(), ShouldResemble, []string{model.EventDealViewed, model.EventDealClicked})
			})

			Convey("Then events carry deal properties and value", func() {
				sent := rec.all()
				So(sent[0].Properties["deal_id"], ShouldEqual, "d1")
				So(sent[0].Properties, ShouldNotContainKey, "retailer")
				So(sent[1].Properties, ShouldContainKey, "retailer")
				So(sent[1].Value, ShouldNotBeNil)
				price, _ := sent[1].Properties["deal_price"].(float64)
				So(*sent[1].Value, ShouldEqual, price)
			})
		})

		Reset(func() { _ = svc.Stop(ctx) })
	})
}

func TestService_Profile(t *testing.T) {
	Convey("Given a started service with a memory store", t, func() {
		store := repository.NewMemoryStore(context.Background())
		svc, rec := newStarted(service.WithStore(store))
		ctx := context.Background()

		Convey("When an unknown user asks for their record", func() {
			u, err := svc.Me(ctx, "u1", "golfer@example.com")

			Convey("Then an empty profile is returned", func() {
				So(err, ShouldBeNil)
				So(u.ID, ShouldEqual, "u1")
				So(u.Email, ShouldEqual, "golfer@example.com")
				So(u.Profile.Clubs, ShouldBeEmpty)
			})
		})

		Convey("When a profile with a gap is saved", func() {
			saved, err := svc.UpdateProfile(ctx, model.User{ID: "u1", Email: "golfer@example.com", Profile: gappedProfile()})
			So(err, ShouldBeNil)
			So(svc.Stop(ctx), ShouldBeNil)

			Convey("Then the record is persisted", func() {
				So(saved.UpdatedAt.IsZero(), ShouldBeFalse)
				got, gerr := store.Get(ctx, "u1")
				So(gerr, ShouldBeNil)
				So(got.Profile.Clubs, ShouldHaveLength, 3)
			})

			Convey("Then upsert, bag and gap notifications go out in order", func() {
				So(rec.labels(), ShouldResemble, []string{
					"Profile Upsert", model.EventBagUpdated, model.EventGapDetected,
				})
				sent := rec.all()
				So(sent[0].Properties["has_gapping_issue"], ShouldBeTrue)
				So(sent[1].Properties["club_count"], ShouldEqual, 3)
				So(sent[1].Properties["handicap"], ShouldEqual, 18.0)
				So(sent[1].Properties["budget_preference"], ShouldBeNil)
				So(sent[2].Properties["gap_type"], ShouldEqual, "top-of-bag")
			})
		})

		Convey("When a profile without a gap is saved", func() {
			_, err := svc.UpdateProfile(ctx, model.User{ID: "u2", Profile: model.Profile{
				BudgetSensitivity: model.BudgetValueFirst,
			}})
			So(err, ShouldBeNil)
			So(svc.Stop(ctx), ShouldBeNil)

			Convey("Then no gap event is sent", func() {
				So(rec.labels(), ShouldResemble, []string{"Profile Upsert", model.EventBagUpdated})
				So(rec.all()[1].Properties["budget_preference"], ShouldEqual, "value-first")
			})
		})

		Convey("When the user id is missing", func() {
			_, err := svc.UpdateProfile(ctx, model.User{})

			Convey("Then the update is rejected", func() {
				So(err, ShouldEqual, service.ErrInvalidUser)
			})
		})

		Reset(func() { _ = svc.Stop(ctx) })
	})
}

// slowUpsert delays profile upserts so a concurrent worker could overtake them.
type slowUpsert struct {
	recorder
}

func (s *slowUpsert) Send(ctx context.Context, n model.Notification) error { //nolint:gocritic // hugeParam: test sender
	if n.Kind == model.KindProfileUpsert {
		time.Sleep(50 * time.Millisecond)
	}
	return s.recorder.Send(ctx, n)
}

func TestService_ProfileOrderingAcrossWorkers(t *testing.T) {
	Convey("Given a service with several workers and a slow profile upsert", t, func() {
		ctx := context.Background()
		sink := &slowUpsert{}
		svc := service.New(
			service.WithWorkerCount(4),
			service.WithSender(sink),
			service.WithStore(repository.NewMemoryStore(ctx)),
		)
		So(svc.Start(ctx), ShouldBeNil)

		Convey("When a profile with a gap is saved", func() {
			_, err := svc.UpdateProfile(ctx, model.User{ID: "u1", Email: "golfer@example.com", Profile: gappedProfile()})
			So(err, ShouldBeNil)
			So(svc.Stop(ctx), ShouldBeNil)

			Convey("Then the upsert still lands before the bag and gap events", func() {
				So(sink.labels(), ShouldResemble, []string{
					"Profile Upsert", model.EventBagUpdated, model.EventGapDetected,
				})
				ids := map[string]bool{}
				for _, n := range sink.all() {
					So(n.ID, ShouldNotBeEmpty)
					So(n.Time.IsZero(), ShouldBeFalse)
					ids[n.ID] = true
				}
				So(ids, ShouldHaveLength, 3)
			})
		})

		Reset(func() { _ = svc.Stop(ctx) })
	})
}
