// Package prompt renders a career profile into the instruction sent to the
// recommendation classifier.
package prompt

import (
	"strconv"
	"strings"

	"github.com/okian/skillsync/internal/domain/profile"
)

const (
	notSpecified  = "Not specified"
	noneSpecified = "None specified"

	header = "You are a career advisor AI. Based on the following user profile, provide career recommendations.\n\n" +
		"User Profile:\n"

	// instructionMarker opens the fixed instruction block; everything before
	// it describes the user.
	instructionMarker = "\nPlease provide the following in a structured JSON format:\n"

	instructions = instructionMarker +
		"1. Three recommended job roles that match their profile\n" +
		"2. Key missing skills they should learn for those roles\n" +
		"3. Three recommended courses to bridge the skill gap\n" +
		"4. Two project ideas they can work on to build their portfolio\n" +
		"5. Brief career insights and advice\n\n" +
		"Format your response as a JSON object with these keys: " +
		"recommendedRoles (array), missingSkills (array), recommendedCourses (array), projectIdeas (array), insights (string)"
)

// Build renders p into the classifier prompt. Output is a pure function of p.
func Build(p profile.Profile) string {
	var b strings.Builder
	b.Grow(len(header) + len(instructions) + 256)

	b.WriteString(header)
	line(&b, "Education Level", orNotSpecified(p.EducationLevel))
	line(&b, "Years of Experience", years(p.YearsOfExperience))
	line(&b, "Career Goal", orNotSpecified(p.CareerGoal))
	line(&b, "Interests", orNotSpecified(p.Interests))

	skills := p.SkillNames()
	if len(skills) == 0 {
		line(&b, "Current Skills", noneSpecified)
	} else {
		line(&b, "Current Skills", strings.Join(skills, ", "))
	}

	b.WriteString(instructions)
	return b.String()
}

// ProfileSection returns the part of a prompt built by Build that describes
// the user, without the fixed instruction block. Prompts not built by Build
// are returned unchanged.
func ProfileSection(prompt string) string {
	if i := strings.Index(prompt, instructionMarker); i >= 0 {
		prompt = prompt[:i]
	}
	return strings.TrimPrefix(prompt, header)
}

func line(b *strings.Builder, label, value string) {
	b.WriteString("- ")
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteByte('\n')
}

func orNotSpecified(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return notSpecified
	}
	return s
}

func years(y *int) string {
	if y == nil || *y < 0 {
		return notSpecified
	}
	return strconv.Itoa(*y)
}
