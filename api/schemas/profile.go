package schemas

// -- Profile Schemas --

// UserProfile is the canonical, read-only record supplied by the remote profile
// store. The engine borrows a snapshot per fill session and never mutates it.
type UserProfile struct {
	Personal    PersonalInfo   `json:"personal"`
	Links       ProfileLinks   `json:"links"`
	Address     ProfileAddress `json:"address"`
	Eligibility Eligibility    `json:"eligibility"`
	// Demographics are optional and privacy-sensitive. An unset field yields
	// no value during mapping, never a guessed default.
	Demographics Demographics `json:"demographics"`
	Education    []Education  `json:"education,omitempty"`
	Employment   []Employment `json:"employment,omitempty"`
	Preferences  Preferences  `json:"preferences"`
}

// PersonalInfo holds identity and contact data.
type PersonalInfo struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// FullName joins first and last name, tolerating either being empty.
func (p PersonalInfo) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// ProfileLinks holds public profile URLs.
type ProfileLinks struct {
	LinkedIn  string `json:"linkedin,omitempty"`
	GitHub    string `json:"github,omitempty"`
	Portfolio string `json:"portfolio,omitempty"`
	Website   string `json:"website,omitempty"`
}

// ProfileAddress is a postal address.
type ProfileAddress struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zip_code,omitempty"`
	Country string `json:"country,omitempty"`
}

// Eligibility holds work-authorization answers as free text, matched against
// dropdown options through the synonym dictionary.
type Eligibility struct {
	WorkAuthorization   string `json:"work_authorization,omitempty"`
	RequiresSponsorship string `json:"requires_sponsorship,omitempty"`
}

// Demographics holds optional self-identification answers. Empty string means
// the user declined to provide a value.
type Demographics struct {
	VeteranStatus string `json:"veteran_status,omitempty"`
	Disability    string `json:"disability,omitempty"`
	Gender        string `json:"gender,omitempty"`
	Race          string `json:"race,omitempty"`
}

// Education is one education record. The first entry is treated as primary.
type Education struct {
	School         string `json:"school"`
	Degree         string `json:"degree,omitempty"`
	FieldOfStudy   string `json:"field_of_study,omitempty"`
	GraduationYear int    `json:"graduation_year,omitempty"`
	Level          string `json:"level,omitempty"`
}

// Employment is one employment record, most recent first.
type Employment struct {
	Company string `json:"company"`
	Title   string `json:"title"`
	Years   int    `json:"years,omitempty"`
}

// Preferences holds application preferences and free-text answers.
type Preferences struct {
	// DesiredSalary is the annual figure in whole currency units; 0 means unset.
	DesiredSalary int64 `json:"desired_salary,omitempty"`
	// AvailableFrom is an explicit availability date in any common format.
	// When empty the mapper defaults to 14 calendar days from now.
	AvailableFrom string `json:"available_from,omitempty"`
	// YearsOfExperience is the total professional experience.
	YearsOfExperience int `json:"years_of_experience,omitempty"`
	// TargetTitle and TargetCompany describe the posting this session applies
	// to; they feed the generated cover letter.
	TargetTitle   string `json:"target_title,omitempty"`
	TargetCompany string `json:"target_company,omitempty"`
	// Skills feed the generated cover letter (up to three are used).
	Skills []string `json:"skills,omitempty"`
	// CoverLetter, when present, is used verbatim instead of the template.
	CoverLetter    string `json:"cover_letter,omitempty"`
	AdditionalInfo string `json:"additional_info,omitempty"`
	Referral       string `json:"referral,omitempty"`
	HeardAbout     string `json:"heard_about,omitempty"`
}

// PrimaryEducation returns the first education record, or a zero value.
func (p *UserProfile) PrimaryEducation() Education {
	if len(p.Education) == 0 {
		return Education{}
	}
	return p.Education[0]
}

// CurrentEmployment returns the most recent employment record, or a zero value.
func (p *UserProfile) CurrentEmployment() Employment {
	if len(p.Employment) == 0 {
		return Employment{}
	}
	return p.Employment[0]
}
