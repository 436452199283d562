// internal/mapper/synonyms.go
package mapper

import (
	"strings"

	"github.com/xkilldash9x/formpilot-cli/api/schemas"
)

// synonymGroup maps one category of profile answer to the phrases likely to
// appear in a dropdown's visible option text.
//
// triggers identify the category from the profile's free-text value; synonyms
// are searched, case-insensitively, inside each option's displayed text. The
// first option containing any synonym wins. affirmative carries the group's
// boolean sense for checkbox renditions of the same question.
type synonymGroup struct {
	triggers    []string
	synonyms    []string
	affirmative bool
}

func (g *synonymGroup) matchOption(options []schemas.SelectOption) (string, bool) {
	for _, opt := range options {
		optText := strings.ToLower(opt.Text)
		if optText == "" {
			continue
		}
		for _, syn := range g.synonyms {
			if strings.Contains(optText, syn) {
				return opt.Value, true
			}
		}
	}
	return "", false
}

// findSynonymGroup picks the group whose triggers appear in the profile's
// answer. Group order matters: negative phrasings ("not authorized") must be
// tested before the positive substrings they contain.
func findSynonymGroup(name schemas.CanonicalName, answer string) *synonymGroup {
	groups, ok := synonymTable[name]
	if !ok {
		return nil
	}
	lowered := strings.ToLower(answer)
	for i := range groups {
		g := &groups[i]
		for _, trig := range g.triggers {
			if strings.Contains(lowered, trig) {
				return g
			}
		}
	}
	return nil
}

// synonymTable is the rule base for every enumerated field. All phrases are
// lowercase; matching lowercases both sides.
var synonymTable = map[schemas.CanonicalName][]synonymGroup{
	schemas.FieldWorkAuthorization: {
		{
			triggers:    []string{"not authorized", "not legally", "unauthorized"},
			synonyms:    []string{"not authorized", "no"},
			affirmative: false,
		},
		{
			triggers:    []string{"citizen"},
			synonyms:    []string{"citizen"},
			affirmative: true,
		},
		{
			triggers:    []string{"green card", "permanent resident", "lpr"},
			synonyms:    []string{"green card", "permanent resident", "lawful permanent resident", "lpr"},
			affirmative: true,
		},
		{
			triggers:    []string{"visa", "h1b", "h-1b", "opt", "ead", "work permit"},
			synonyms:    []string{"visa", "h1b", "h-1b", "work permit"},
			affirmative: true,
		},
		{
			triggers:    []string{"authorized", "yes", "eligible"},
			synonyms:    []string{"yes", "authorized"},
			affirmative: true,
		},
	},
	schemas.FieldSponsorship: {
		{
			triggers:    []string{"no", "not require", "don't", "do not"},
			synonyms:    []string{"no", "not require", "do not"},
			affirmative: false,
		},
		{
			triggers:    []string{"yes", "require", "need"},
			synonyms:    []string{"yes", "require"},
			affirmative: true,
		},
	},
	schemas.FieldVeteranStatus: {
		{
			triggers:    []string{"not a veteran", "not a protected", "no"},
			synonyms:    []string{"not a veteran", "not a protected veteran", "no"},
			affirmative: false,
		},
		{
			triggers:    []string{"decline", "prefer not"},
			synonyms:    []string{"decline", "prefer not", "don't wish"},
			affirmative: false,
		},
		{
			triggers:    []string{"veteran", "yes"},
			synonyms:    []string{"i am a veteran", "protected veteran", "veteran", "yes"},
			affirmative: true,
		},
	},
	schemas.FieldDisability: {
		{
			triggers:    []string{"no", "don't have", "do not have"},
			synonyms:    []string{"no, i do not", "no", "don't have"},
			affirmative: false,
		},
		{
			triggers:    []string{"decline", "prefer not"},
			synonyms:    []string{"decline", "prefer not", "don't wish"},
			affirmative: false,
		},
		{
			triggers:    []string{"yes", "have a disability"},
			synonyms:    []string{"yes, i have", "yes"},
			affirmative: true,
		},
	},
	schemas.FieldGender: {
		{
			triggers:    []string{"decline", "prefer not"},
			synonyms:    []string{"decline", "prefer not"},
			affirmative: false,
		},
		{
			triggers:    []string{"non-binary", "nonbinary", "non binary"},
			synonyms:    []string{"non-binary", "nonbinary", "non binary"},
			affirmative: true,
		},
		{
			triggers:    []string{"female", "woman"},
			synonyms:    []string{"female", "woman"},
			affirmative: true,
		},
		{
			triggers:    []string{"male", "man"},
			synonyms:    []string{"male", "man"},
			affirmative: true,
		},
	},
	schemas.FieldRace: {
		{
			triggers:    []string{"decline", "prefer not"},
			synonyms:    []string{"decline", "prefer not"},
			affirmative: false,
		},
		{
			triggers:    []string{"hispanic", "latino", "latina", "latinx"},
			synonyms:    []string{"hispanic", "latino"},
			affirmative: true,
		},
		{
			triggers:    []string{"asian"},
			synonyms:    []string{"asian"},
			affirmative: true,
		},
		{
			triggers:    []string{"black", "african"},
			synonyms:    []string{"black", "african american"},
			affirmative: true,
		},
		{
			triggers:    []string{"native american", "american indian", "alaska"},
			synonyms:    []string{"american indian", "alaska native", "native american"},
			affirmative: true,
		},
		{
			triggers:    []string{"pacific islander", "hawaiian"},
			synonyms:    []string{"pacific islander", "hawaiian"},
			affirmative: true,
		},
		{
			triggers:    []string{"two or more", "multiracial", "mixed"},
			synonyms:    []string{"two or more", "multiracial"},
			affirmative: true,
		},
		{
			triggers:    []string{"white", "caucasian"},
			synonyms:    []string{"white", "caucasian"},
			affirmative: true,
		},
	},
	schemas.FieldEducationLevel: {
		{
			triggers:    []string{"phd", "ph.d", "doctor"},
			synonyms:    []string{"doctorate", "phd", "ph.d", "doctoral"},
			affirmative: true,
		},
		{
			triggers:    []string{"master", "mba", "m.s", "ms "},
			synonyms:    []string{"master"},
			affirmative: true,
		},
		{
			triggers:    []string{"bachelor", "b.s", "b.a", "undergrad"},
			synonyms:    []string{"bachelor"},
			affirmative: true,
		},
		{
			triggers:    []string{"associate"},
			synonyms:    []string{"associate"},
			affirmative: true,
		},
		{
			triggers:    []string{"high school", "ged", "secondary"},
			synonyms:    []string{"high school", "ged", "secondary"},
			affirmative: true,
		},
	},
}
