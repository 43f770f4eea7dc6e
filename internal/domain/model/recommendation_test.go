package model

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRecommendation_Newer(t *testing.T) {
	Convey("Given two recommendations", t, func() {
		t0 := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

		Convey("When timestamps differ", func() {
			older := Recommendation{ID: 9, CreatedAt: t0}
			newer := Recommendation{ID: 1, CreatedAt: t0.Add(time.Second)}

			Convey("Then the later timestamp wins regardless of id", func() {
				So(newer.Newer(older), ShouldBeTrue)
				So(older.Newer(newer), ShouldBeFalse)
			})
		})

		Convey("When timestamps tie", func() {
			a := Recommendation{ID: 1, CreatedAt: t0}
			b := Recommendation{ID: 2, CreatedAt: t0}

			Convey("Then the higher id is newer", func() {
				So(b.Newer(a), ShouldBeTrue)
				So(a.Newer(b), ShouldBeFalse)
			})
		})
	})
}

func TestRecommendation_Clone(t *testing.T) {
	Convey("Given a recommendation", t, func() {
		orig := Recommendation{RecommendedRoles: []string{"DevOps Engineer"}}

		Convey("When the clone is mutated", func() {
			c := orig.Clone()
			c.RecommendedRoles[0] = "changed"

			Convey("Then the original is untouched", func() {
				So(orig.RecommendedRoles[0], ShouldEqual, "DevOps Engineer")
			})
		})

		Convey("Then nil slices become empty slices", func() {
			c := orig.Clone()
			So(c.MissingSkills, ShouldNotBeNil)
			So(c.MissingSkills, ShouldBeEmpty)
		})
	})
}
