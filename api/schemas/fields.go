package schemas

// -- Field Schemas --

// CanonicalName is a normalized semantic key for a form input (e.g. "email",
// "workAuthorization"), independent of the arbitrary markup any given site uses.
type CanonicalName string

const (
	FieldFirstName         CanonicalName = "firstName"
	FieldLastName          CanonicalName = "lastName"
	FieldFullName          CanonicalName = "fullName"
	FieldEmail             CanonicalName = "email"
	FieldPhone             CanonicalName = "phone"
	FieldAddress           CanonicalName = "address"
	FieldCity              CanonicalName = "city"
	FieldState             CanonicalName = "state"
	FieldZipCode           CanonicalName = "zipCode"
	FieldCountry           CanonicalName = "country"
	FieldLinkedIn          CanonicalName = "linkedin"
	FieldGitHub            CanonicalName = "github"
	FieldPortfolio         CanonicalName = "portfolio"
	FieldWebsite           CanonicalName = "website"
	FieldCurrentCompany    CanonicalName = "currentCompany"
	FieldCurrentTitle      CanonicalName = "currentTitle"
	FieldYearsOfExperience CanonicalName = "yearsOfExperience"
	FieldEducationLevel    CanonicalName = "educationLevel"
	FieldSchool            CanonicalName = "school"
	FieldDegree            CanonicalName = "degree"
	FieldFieldOfStudy      CanonicalName = "fieldOfStudy"
	FieldGraduationYear    CanonicalName = "graduationYear"
	FieldWorkAuthorization CanonicalName = "workAuthorization"
	FieldSponsorship       CanonicalName = "sponsorship"
	FieldVeteranStatus     CanonicalName = "veteranStatus"
	FieldDisability        CanonicalName = "disability"
	FieldGender            CanonicalName = "gender"
	FieldRace              CanonicalName = "race"
	FieldSalary            CanonicalName = "salary"
	FieldStartDate         CanonicalName = "startDate"
	FieldCoverLetter       CanonicalName = "coverLetter"
	FieldAdditionalInfo    CanonicalName = "additionalInfo"
	FieldResume            CanonicalName = "resume"
	FieldCoverLetterFile   CanonicalName = "coverLetterFile"
	FieldReferral          CanonicalName = "referral"
	FieldHeardAbout        CanonicalName = "heardAbout"
)

// DemographicFields are the privacy-sensitive canonical names. They are only
// filled when the profile explicitly supplies a value, and the executor can be
// told to skip them wholesale.
var DemographicFields = []CanonicalName{
	FieldVeteranStatus,
	FieldDisability,
	FieldGender,
	FieldRace,
}

// IsDemographic reports whether the canonical name is one of the
// privacy-sensitive demographic fields.
func (c CanonicalName) IsDemographic() bool {
	for _, d := range DemographicFields {
		if c == d {
			return true
		}
	}
	return false
}

// FieldKind classifies the underlying input element.
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindEmail    FieldKind = "email"
	KindTel      FieldKind = "tel"
	KindURL      FieldKind = "url"
	KindNumber   FieldKind = "number"
	KindDate     FieldKind = "date"
	KindTextarea FieldKind = "textarea"
	KindSelect   FieldKind = "select"
	KindCheckbox FieldKind = "checkbox"
	KindRadio    FieldKind = "radio"
	KindFile     FieldKind = "file"
)

// IsTextLike reports whether the kind is filled by character-wise typing.
func (k FieldKind) IsTextLike() bool {
	switch k {
	case KindText, KindEmail, KindTel, KindURL, KindNumber, KindDate:
		return true
	}
	return false
}

// SelectOption is one entry of a <select> element's option list, in document order.
type SelectOption struct {
	Value string `json:"value"`
	Text  string `json:"text"`
}

// FieldDescriptor describes one detected input inside a classified form.
//
// Ref is a non-owning handle into the live page: a generated unique XPath that
// is only valid for the lifetime of the current page view. Operations through a
// stale Ref surface as per-field errors, never as a crash.
type FieldDescriptor struct {
	Name     CanonicalName  `json:"name"`
	Ref      string         `json:"ref"`
	Kind     FieldKind      `json:"kind"`
	Required bool           `json:"required"`
	// Label is the best-effort human-readable label for the input.
	Label   string         `json:"label"`
	// Options is populated for select fields only.
	Options []SelectOption `json:"options,omitempty"`
	// GroupName is the name attribute shared by a radio group.
	GroupName string `json:"group_name,omitempty"`
}

// FormDescriptor is one classified form container. Descriptors are rebuilt on
// every detection pass and carry no cross-page identity; a navigation or
// dynamic re-render invalidates them.
type FormDescriptor struct {
	// Fields maps canonical name to the single descriptor that claimed it
	// (first structural match wins).
	Fields map[CanonicalName]*FieldDescriptor `json:"fields"`
	// Order lists canonical names in the form's declaration order. The
	// executor fills strictly in this order.
	Order []CanonicalName `json:"order"`

	Score             int    `json:"score"`
	IsApplicationForm bool   `json:"is_application_form"`
	ActionURL         string `json:"action_url,omitempty"`
	Method            string `json:"method,omitempty"`
}

// Field returns the descriptor for a canonical name, or nil.
func (f *FormDescriptor) Field(name CanonicalName) *FieldDescriptor {
	if f == nil || f.Fields == nil {
		return nil
	}
	return f.Fields[name]
}

// FieldValue is the computed value for one field. A nil *FieldValue means
// "no value available, do not fill".
type FieldValue struct {
	// Text is the value for text-like, textarea, select and radio inputs.
	Text string `json:"text,omitempty"`
	// Checked is the desired state for checkbox inputs; IsCheck distinguishes
	// a boolean value from a text value.
	Checked bool `json:"checked,omitempty"`
	IsCheck bool `json:"is_check,omitempty"`
}

// TextValue builds a string-valued FieldValue.
func TextValue(s string) *FieldValue { return &FieldValue{Text: s} }

// BoolValue builds a boolean-valued FieldValue (checkbox state).
func BoolValue(b bool) *FieldValue { return &FieldValue{Checked: b, IsCheck: true} }

// Empty reports whether the value carries nothing fillable.
func (v *FieldValue) Empty() bool {
	return v == nil || (!v.IsCheck && v.Text == "")
}

// ValueMap is the mapper's output: canonical name -> computed value.
type ValueMap map[CanonicalName]*FieldValue
