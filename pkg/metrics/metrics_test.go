package metrics

import (
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options on a fresh registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should register its collectors", func() {
				So(manager, ShouldNotBeNil)
				manager.recommendationsGenerated.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{1, 10, 100}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.recommendationsGenerated.Inc()

			Convey("Then metric names should use the namespace and subsystem", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "test_unit_recommendations_generated_total" {
						found = true
						So(f.GetMetric()[0].GetLabel()[0].GetValue(), ShouldEqual, "test")
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When empty namespace is given", func() {
			manager := NewManager(WithNamespace(""), WithPrometheusRegistry(prometheus.NewRegistry()))

			Convey("Then the default namespace is kept", func() {
				So(manager.namespace, ShouldEqual, "birdie")
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording recommendations", func() {
			before := testutil.ToFloat64(globalManager.recommendationsGenerated)
			RecordRecommendation(3, "high", 1.5)
			RecordRecommendation(1, "medium", 0.4)

			Convey("Then the counter should advance", func() {
				So(testutil.ToFloat64(globalManager.recommendationsGenerated), ShouldEqual, before+2)
			})
		})

		Convey("When recording the notification lifecycle", func() {
			before := testutil.ToFloat64(globalManager.notificationsDropped.WithLabelValues("Deal Viewed", "queue_full"))
			So(func() {
				RecordNotificationEnqueued("Deal Viewed")
				RecordNotificationDropped("Deal Viewed", "queue_full")
				RecordNotificationDelivered("Deal Viewed", 12)
				RecordNotificationFailed("Deal Viewed", "timeout", 5000)
			}, ShouldNotPanic)

			Convey("Then labelled counters should advance", func() {
				So(testutil.ToFloat64(globalManager.notificationsDropped.WithLabelValues("Deal Viewed", "queue_full")), ShouldEqual, before+1)
			})
		})

		Convey("When updating gauges", func() {
			UpdateQueueSize(7)
			UpdateQueueCapacity(100)
			UpdateQueueUtilization(0.07)
			UpdateWorkerCount(4)
			UpdateStoredProfiles(12)
			UpdateBreakerState("klaviyo", 2)

			Convey("Then they should hold the last value", func() {
				So(testutil.ToFloat64(globalManager.queueSize), ShouldEqual, 7)
				So(testutil.ToFloat64(globalManager.workerCount), ShouldEqual, 4)
				So(testutil.ToFloat64(globalManager.breakerState.WithLabelValues("klaviyo")), ShouldEqual, 2)
			})
		})

		Convey("When recording HTTP and rule metrics", func() {
			So(func() {
				RecordHTTPRequest("suggested", "GET", "200", 3)
				RecordHTTPError("suggested", "client_error")
				RecordRuleHit("wedge_wear")
				RecordGapDetected("top-of-bag")
				RecordEngagement("view")
				RecordEngagementDuplicate()
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(10)
			}, ShouldNotPanic)
		})

		Convey("When gathering the registry", func() {
			families, err := GetRegistry().Gather()

			Convey("Then every family should carry the birdie namespace", func() {
				So(err, ShouldBeNil)
				for _, f := range families {
					So(strings.HasPrefix(f.GetName(), "birdie_deals_"), ShouldBeTrue)
				}
			})
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given concurrent recorders", t, func() {
		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					RecordRuleHit("always_balls")
					UpdateQueueSize(j)
				}
			}()
		}
		wg.Wait()

		Convey("Then nothing should race or panic", func() {
			So(testutil.ToFloat64(globalManager.ruleHits.WithLabelValues("always_balls")), ShouldBeGreaterThanOrEqualTo, 1600)
		})
	})
}
