// internal/mapper/mapper.go
// Description: Computes the concrete value for every detected field from the
// user's profile, including format conversions and fuzzy option matching.
// A nil value means "nothing to fill here"; the mapper never errors.
package mapper

import (
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/xkilldash9x/formpilot-cli/api/schemas"
)

// startDateLeadDays is the default availability window when the profile does
// not carry an explicit date.
const startDateLeadDays = 14

// Mapper turns a profile plus a classified field set into a value map.
type Mapper struct {
	logger  *zap.Logger
	printer *message.Printer
	// now is injectable so date defaults are deterministic under test.
	now func() time.Time
}

// New creates a mapper. Currency rendering follows the en-US locale.
func New(logger *zap.Logger) *Mapper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mapper{
		logger:  logger.Named("mapper"),
		printer: message.NewPrinter(language.AmericanEnglish),
		now:     time.Now,
	}
}

// Map computes a value for each field in the form. Mapping gaps (no profile
// data, no synonym match) are represented as absent entries, not errors.
func (m *Mapper) Map(p *schemas.UserProfile, form *schemas.FormDescriptor) schemas.ValueMap {
	values := make(schemas.ValueMap, len(form.Fields))
	if p == nil {
		return values
	}
	for _, name := range form.Order {
		desc := form.Field(name)
		if desc == nil {
			continue
		}
		if v := m.valueFor(p, desc); v != nil {
			values[name] = v
		}
	}
	return values
}

func (m *Mapper) valueFor(p *schemas.UserProfile, desc *schemas.FieldDescriptor) *schemas.FieldValue {
	switch desc.Name {
	case schemas.FieldFirstName:
		return text(p.Personal.FirstName)
	case schemas.FieldLastName:
		return text(p.Personal.LastName)
	case schemas.FieldFullName:
		return text(p.Personal.FullName())
	case schemas.FieldEmail:
		return text(p.Personal.Email)
	case schemas.FieldPhone:
		return text(FormatPhone(p.Personal.Phone))

	case schemas.FieldAddress:
		return text(p.Address.Street)
	case schemas.FieldCity:
		return text(p.Address.City)
	case schemas.FieldState:
		return text(p.Address.State)
	case schemas.FieldZipCode:
		return text(p.Address.ZipCode)
	case schemas.FieldCountry:
		return text(p.Address.Country)

	case schemas.FieldLinkedIn:
		return text(p.Links.LinkedIn)
	case schemas.FieldGitHub:
		return text(p.Links.GitHub)
	case schemas.FieldPortfolio:
		return text(p.Links.Portfolio)
	case schemas.FieldWebsite:
		return text(p.Links.Website)

	case schemas.FieldCurrentCompany:
		return text(p.CurrentEmployment().Company)
	case schemas.FieldCurrentTitle:
		return text(p.CurrentEmployment().Title)
	case schemas.FieldYearsOfExperience:
		if p.Preferences.YearsOfExperience <= 0 {
			return nil
		}
		return text(strconv.Itoa(p.Preferences.YearsOfExperience))

	case schemas.FieldSchool:
		return text(p.PrimaryEducation().School)
	case schemas.FieldDegree:
		return text(p.PrimaryEducation().Degree)
	case schemas.FieldFieldOfStudy:
		return text(p.PrimaryEducation().FieldOfStudy)
	case schemas.FieldGraduationYear:
		if y := p.PrimaryEducation().GraduationYear; y > 0 {
			return text(strconv.Itoa(y))
		}
		return nil

	case schemas.FieldEducationLevel, schemas.FieldWorkAuthorization,
		schemas.FieldSponsorship, schemas.FieldVeteranStatus,
		schemas.FieldDisability, schemas.FieldGender, schemas.FieldRace:
		return m.mapEnumerated(desc, profileAnswer(p, desc.Name))

	case schemas.FieldSalary:
		// An empty string, not nil: the source distinguishes "no preference"
		// from "field unknown" here.
		if p.Preferences.DesiredSalary <= 0 {
			return schemas.TextValue("")
		}
		return text(m.formatSalary(p.Preferences.DesiredSalary))

	case schemas.FieldStartDate:
		return text(m.startDate(p.Preferences.AvailableFrom))

	case schemas.FieldCoverLetter:
		if p.Preferences.CoverLetter != "" {
			return text(p.Preferences.CoverLetter)
		}
		return text(generateCoverLetter(p))
	case schemas.FieldAdditionalInfo:
		return text(p.Preferences.AdditionalInfo)
	case schemas.FieldReferral:
		return text(p.Preferences.Referral)
	case schemas.FieldHeardAbout:
		return text(p.Preferences.HeardAbout)

	case schemas.FieldResume, schemas.FieldCoverLetterFile:
		// File attachment always requires manual interaction.
		return nil
	}
	return nil
}

// profileAnswer returns the free-text profile value backing an enumerated
// field. Demographic silence yields "", which maps to nil downstream; the
// mapper never guesses a demographic default.
func profileAnswer(p *schemas.UserProfile, name schemas.CanonicalName) string {
	switch name {
	case schemas.FieldWorkAuthorization:
		return p.Eligibility.WorkAuthorization
	case schemas.FieldSponsorship:
		return p.Eligibility.RequiresSponsorship
	case schemas.FieldVeteranStatus:
		return p.Demographics.VeteranStatus
	case schemas.FieldDisability:
		return p.Demographics.Disability
	case schemas.FieldGender:
		return p.Demographics.Gender
	case schemas.FieldRace:
		return p.Demographics.Race
	case schemas.FieldEducationLevel:
		return p.PrimaryEducation().Level
	}
	return ""
}

// mapEnumerated resolves a free-text profile answer against the field's
// options through the synonym dictionary. No synonym group or no option match
// means nil. Checkbox variants get the group's boolean sense instead.
func (m *Mapper) mapEnumerated(desc *schemas.FieldDescriptor, answer string) *schemas.FieldValue {
	if answer == "" {
		return nil
	}
	group := findSynonymGroup(desc.Name, answer)
	if group == nil {
		return nil
	}
	if desc.Kind == schemas.KindCheckbox {
		if !desc.Name.IsDemographic() {
			return schemas.BoolValue(group.affirmative)
		}
		return nil
	}
	if value, ok := group.matchOption(desc.Options); ok {
		return schemas.TextValue(value)
	}
	return nil
}

func (m *Mapper) formatSalary(amount int64) string {
	// Grouped, zero decimal places: 85000 -> "$85,000".
	return m.printer.Sprintf("$%v", number.Decimal(amount, number.MaxFractionDigits(0)))
}

// startDate renders an ISO date. An unset or unparseable availability string
// falls back to the default lead window.
func (m *Mapper) startDate(available string) string {
	if available != "" {
		if t, ok := parseFlexibleDate(available); ok {
			return t.Format("2006-01-02")
		}
		m.logger.Debug("unparseable availability date, using default window",
			zap.String("value", available))
	}
	return m.now().AddDate(0, 0, startDateLeadDays).Format("2006-01-02")
}

// dateLayouts are tried in order against the profile's availability string.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"01/02/2006",
	"1/2/2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

func parseFlexibleDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// text wraps a profile string, collapsing empty to nil.
func text(s string) *schemas.FieldValue {
	if s == "" {
		return nil
	}
	return schemas.TextValue(s)
}
