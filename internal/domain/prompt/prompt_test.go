package prompt

import (
	"strings"
	"testing"

	"github.com/okian/skillsync/internal/domain/profile"
	. "github.com/smartystreets/goconvey/convey"
)

func intPtr(v int) *int { return &v }

func TestBuild(t *testing.T) {
	Convey("Given a fully specified profile", t, func() {
		p := profile.Profile{
			EducationLevel:    "Bachelor",
			CareerGoal:        "Become a platform engineer",
			Interests:         "automation",
			YearsOfExperience: intPtr(3),
			Skills:            []string{"Go", "Docker"},
		}

		Convey("When building the prompt", func() {
			out := Build(p)

			Convey("Then every field is rendered", func() {
				So(out, ShouldContainSubstring, "- Education Level: Bachelor\n")
				So(out, ShouldContainSubstring, "- Years of Experience: 3\n")
				So(out, ShouldContainSubstring, "- Career Goal: Become a platform engineer\n")
				So(out, ShouldContainSubstring, "- Interests: automation\n")
				So(out, ShouldContainSubstring, "- Current Skills: Go, Docker\n")
			})

			Convey("And the instruction block asks for the JSON keys", func() {
				So(out, ShouldStartWith, "You are a career advisor AI.")
				So(out, ShouldContainSubstring, "1. Three recommended job roles")
				So(out, ShouldContainSubstring, "3. Three recommended courses")
				So(out, ShouldContainSubstring, "4. Two project ideas")
				So(out, ShouldEndWith, "recommendedRoles (array), missingSkills (array), recommendedCourses (array), projectIdeas (array), insights (string)")
			})

			Convey("And it is deterministic", func() {
				So(Build(p), ShouldEqual, out)
			})
		})
	})

	Convey("Given an empty profile", t, func() {
		out := Build(profile.Profile{CareerGoal: "   "})

		Convey("Then placeholders are rendered", func() {
			So(out, ShouldContainSubstring, "- Education Level: Not specified\n")
			So(out, ShouldContainSubstring, "- Years of Experience: Not specified\n")
			So(out, ShouldContainSubstring, "- Career Goal: Not specified\n")
			So(out, ShouldContainSubstring, "- Interests: Not specified\n")
			So(out, ShouldContainSubstring, "- Current Skills: None specified\n")
		})
	})

	Convey("Given zero years of experience", t, func() {
		out := Build(profile.Profile{YearsOfExperience: intPtr(0)})

		Convey("Then zero is rendered, not the placeholder", func() {
			So(out, ShouldContainSubstring, "- Years of Experience: 0\n")
		})
	})
}

func TestProfileSection(t *testing.T) {
	Convey("Given a built prompt", t, func() {
		out := Build(profile.Profile{CareerGoal: "ops", Skills: []string{"docker"}})

		Convey("Then the section contains only profile lines", func() {
			section := ProfileSection(out)
			So(section, ShouldStartWith, "- Education Level:")
			So(section, ShouldContainSubstring, "- Current Skills: docker")
			So(strings.Contains(section, "career advisor"), ShouldBeFalse)
			So(strings.Contains(section, "portfolio"), ShouldBeFalse)
		})
	})

	Convey("Given free text", t, func() {
		Convey("Then it is returned unchanged", func() {
			So(ProfileSection("likes figma"), ShouldEqual, "likes figma")
		})
	})
}
