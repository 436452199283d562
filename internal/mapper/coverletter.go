// internal/mapper/coverletter.go
package mapper

import (
	"fmt"
	"strings"

	"github.com/xkilldash9x/formpilot-cli/api/schemas"
)

// generateCoverLetter synthesizes the fallback letter used when the profile
// carries no custom text. Five paragraphs, interpolating the target title and
// company, years of experience, primary field of study and up to three skills.
func generateCoverLetter(p *schemas.UserProfile) string {
	title := fallback(p.Preferences.TargetTitle, "this position")
	company := fallback(p.Preferences.TargetCompany, "your company")
	study := fallback(p.PrimaryEducation().FieldOfStudy, "my field")

	experience := "several years"
	if y := p.Preferences.YearsOfExperience; y == 1 {
		experience = "a year"
	} else if y > 1 {
		experience = fmt.Sprintf("%d years", y)
	}

	skills := "a broad technical skill set"
	if len(p.Preferences.Skills) > 0 {
		top := p.Preferences.Skills
		if len(top) > 3 {
			top = top[:3]
		}
		skills = joinNaturally(top)
	}

	paragraphs := []string{
		fmt.Sprintf("Dear Hiring Manager,\n\nI am writing to express my strong interest in the %s role at %s. After reviewing the position, I believe my background makes me a strong candidate for your team.", title, company),
		fmt.Sprintf("I bring %s of professional experience, with a foundation in %s. Throughout my career I have focused on delivering reliable, well-crafted work and growing alongside the teams I serve.", experience, study),
		fmt.Sprintf("My core strengths include %s. I apply these skills with attention to detail and a habit of taking ownership of outcomes, not just tasks.", skills),
		fmt.Sprintf("What draws me to %s is the opportunity to contribute meaningfully while continuing to develop professionally. I am confident that my experience and enthusiasm would translate into immediate value for your organization.", company),
		"Thank you for considering my application. I would welcome the opportunity to discuss how I can contribute to your team.\n\nSincerely",
	}
	return strings.Join(paragraphs, "\n\n")
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}

// joinNaturally renders ["a","b","c"] as "a, b and c".
func joinNaturally(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
}
