package matching

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/birdiedeals/birdie/internal/domain/model"
)

func TestBuildProfileProperties(t *testing.T) {
	Convey("Given an empty profile", t, func() {
		props := BuildProfileProperties(model.Profile{})

		Convey("Only the gap keys are present", func() {
			So(props, ShouldHaveLength, 2)
			So(props["has_gapping_issue"], ShouldEqual, false)
			v, ok := props["gap_type"]
			So(ok, ShouldBeTrue)
			So(v, ShouldBeNil)
		})
	})

	Convey("Given a boolean explicitly set to false", t, func() {
		props := BuildProfileProperties(model.Profile{WillingToBuyUsed: model.Ptr(false)})

		Convey("The false value is emitted", func() {
			v, ok := props["buy_used_preference"]
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, false)
		})
	})

	Convey("Given zero-valued non-boolean fields", t, func() {
		props := BuildProfileProperties(model.Profile{
			Handicap:       model.Ptr(0.0),
			RoundsPerMonth: model.Ptr(0),
			DriverCarry:    model.Ptr(0),
			Region:         "",
		})

		Convey("Zero counts are omitted but a scratch handicap is kept", func() {
			So(props, ShouldNotContainKey, "rounds_per_month")
			So(props, ShouldNotContainKey, "driver_carry")
			So(props, ShouldNotContainKey, "region")
			So(props["handicap"], ShouldEqual, 0.0)
		})

		Convey("Wear risk is still determined from the zero", func() {
			So(props["wedge_wear_risk"], ShouldEqual, "low")
		})
	})

	Convey("Given a full profile with a gap", t, func() {
		p := model.Profile{
			Handicap:            model.Ptr(12.5),
			DriverCarry:         model.Ptr(240),
			SevenIronCarry:      model.Ptr(150),
			RoundsPerMonth:      model.Ptr(8),
			MonthsPlayedPerYear: model.Ptr(9),
			Region:              "Northeast",
			AgeRange:            "35-44",
			DominantHand:        "right",
			YearsPlaying:        model.Ptr(10),
			PlayStyle:           "weekend",
			BudgetSensitivity:   model.BudgetBalanced,
			WillingToBuyUsed:    model.Ptr(true),
			PreferredBrands:     []string{"Titleist"},
			Goals:               []string{"break 80"},
			Clubs:               append(topOfBagClubs(), model.Club{Name: "", CarryYards: nil}),
		}
		props := BuildProfileProperties(p)

		Convey("Every field maps to its snake_cased key", func() {
			So(props["handicap"], ShouldEqual, 12.5)
			So(props["driver_carry"], ShouldEqual, 240)
			So(props["seven_iron_carry"], ShouldEqual, 150)
			So(props["rounds_per_month"], ShouldEqual, 8)
			So(props["months_per_year"], ShouldEqual, 9)
			So(props["region"], ShouldEqual, "Northeast")
			So(props["age_range"], ShouldEqual, "35-44")
			So(props["dominant_hand"], ShouldEqual, "right")
			So(props["years_playing"], ShouldEqual, 10)
			So(props["play_style"], ShouldEqual, "weekend")
			So(props["budget_preference"], ShouldEqual, "balanced")
			So(props["buy_used_preference"], ShouldEqual, true)
			So(props["preferred_brands"], ShouldResemble, []string{"Titleist"})
			So(props["goals"], ShouldResemble, []string{"break 80"})
		})

		Convey("Risk outputs are attached", func() {
			So(props["wedge_wear_risk"], ShouldEqual, "high")
			So(props["has_gapping_issue"], ShouldEqual, true)
			So(props["gap_type"], ShouldEqual, "top-of-bag")
		})

		Convey("Clubs are counted and unnamed ones are left out of the names", func() {
			So(props["club_count"], ShouldEqual, 6)
			So(props["club_types"], ShouldResemble, []string{"Driver", "3 Wood", "5 Iron", "6 Iron", "7 Iron"})
		})
	})
}
