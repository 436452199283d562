// internal/catalog/catalog.go
package catalog

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/xkilldash9x/formpilot-cli/api/schemas"
)

// MatcherKind selects which part of an input element a matcher inspects.
type MatcherKind string

const (
	// MatchAttr applies the pattern to the value of each listed attribute.
	MatchAttr MatcherKind = "attr"
	// MatchType compares the input's type attribute exactly.
	MatchType MatcherKind = "type"
	// MatchLabel applies the pattern to the element's resolved label text
	// (label element, aria-label or placeholder).
	MatchLabel MatcherKind = "label"
)

// Matcher is one declarative structural pattern used to locate an element in
// unknown markup. Patterns are case-insensitive regular expressions compiled
// lazily; a malformed pattern surfaces as an error from Matches so the caller
// can skip it without aborting classification.
type Matcher struct {
	Kind    MatcherKind
	Attrs   []string
	Pattern string
}

// ElementData is the extracted view of a candidate input that matchers run
// against. The classifier builds it from the DOM snapshot.
type ElementData struct {
	Tag       string
	InputType string
	Attrs     map[string]string
	Label     string
}

var (
	regexMu    sync.Mutex
	regexCache = map[string]*regexp.Regexp{}
)

func compile(pattern string) (*regexp.Regexp, error) {
	regexMu.Lock()
	defer regexMu.Unlock()
	if re, ok := regexCache[pattern]; ok {
		return re, nil
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, err
	}
	regexCache[pattern] = re
	return re, nil
}

// Matches reports whether the matcher claims the element. A malformed pattern
// returns an error; the element is then simply not claimed by this matcher.
func (m Matcher) Matches(el ElementData) (bool, error) {
	switch m.Kind {
	case MatchType:
		return el.InputType == m.Pattern, nil
	case MatchLabel:
		re, err := compile(m.Pattern)
		if err != nil {
			return false, fmt.Errorf("catalog: bad label pattern %q: %w", m.Pattern, err)
		}
		return el.Label != "" && re.MatchString(el.Label), nil
	case MatchAttr:
		re, err := compile(m.Pattern)
		if err != nil {
			return false, fmt.Errorf("catalog: bad attr pattern %q: %w", m.Pattern, err)
		}
		for _, attr := range m.Attrs {
			if v, ok := el.Attrs[attr]; ok && v != "" && re.MatchString(v) {
				return true, nil
			}
		}
		return false, nil
	}
	return false, fmt.Errorf("catalog: unknown matcher kind %q", m.Kind)
}

// Entry binds a canonical field name to its ordered matcher list. Matchers are
// tried in order; the first visible, non-disabled match wins.
type Entry struct {
	Name     schemas.CanonicalName
	Matchers []Matcher
}

// Catalog is the immutable, process-wide table of canonical fields. Iteration
// order is the slice order and is deliberately stable: when two canonical
// names could claim the same element, the earlier entry wins.
type Catalog struct {
	entries []Entry
}

// Entries returns the ordered entry list. Callers must not mutate it.
func (c *Catalog) Entries() []Entry { return c.entries }

// Len returns the number of canonical fields in the catalog.
func (c *Catalog) Len() int { return len(c.entries) }

// New builds a catalog from explicit entries, preserving their order.
// Used by tests and by callers that re-run classification with a custom table.
func New(entries []Entry) *Catalog {
	return &Catalog{entries: entries}
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the built-in catalog, constructed once at first use.
func Default() *Catalog {
	defaultOnce.Do(func() {
		defaultCatalog = New(defaultEntries())
	})
	return defaultCatalog
}

// Matcher shorthands keep the table below readable.

func attr(pattern string, attrs ...string) Matcher {
	if len(attrs) == 0 {
		// The usual suspects, in the order sites tend to be truthful about.
		attrs = []string{"name", "id", "autocomplete", "data-field", "aria-label"}
	}
	return Matcher{Kind: MatchAttr, Attrs: attrs, Pattern: pattern}
}

func inputType(t string) Matcher {
	return Matcher{Kind: MatchType, Pattern: t}
}

func label(pattern string) Matcher {
	return Matcher{Kind: MatchLabel, Pattern: pattern}
}

// defaultEntries is the built-in table. Order is load-bearing: it decides
// which canonical name claims an ambiguous element (e.g. resume before
// coverLetterFile), so new entries go where disambiguation demands, not
// alphabetically.
func defaultEntries() []Entry {
	return []Entry{
		{schemas.FieldFirstName, []Matcher{
			attr(`first[_-]?name|fname|given[_-]?name`),
			attr(`given-name`, "autocomplete"),
			label(`first\s*name`),
		}},
		{schemas.FieldLastName, []Matcher{
			attr(`last[_-]?name|lname|surname|family[_-]?name`),
			attr(`family-name`, "autocomplete"),
			label(`last\s*name|surname`),
		}},
		{schemas.FieldFullName, []Matcher{
			attr(`full[_-]?name|your[_-]?name|applicant[_-]?name|^name$`),
			label(`full\s*name|your\s*name`),
		}},
		{schemas.FieldEmail, []Matcher{
			inputType("email"),
			attr(`e?[_-]?mail`),
			label(`e-?mail`),
		}},
		{schemas.FieldPhone, []Matcher{
			inputType("tel"),
			attr(`phone|mobile|cell`),
			label(`phone|mobile`),
		}},
		{schemas.FieldResume, []Matcher{
			attr(`resume|cv\b|curriculum`),
			label(`resume|\bcv\b|curriculum\s*vitae`),
		}},
		{schemas.FieldCoverLetterFile, []Matcher{
			attr(`cover[_-]?letter[_-]?(file|upload|attach)`),
			label(`attach.*cover\s*letter|upload.*cover\s*letter`),
		}},
		{schemas.FieldCoverLetter, []Matcher{
			attr(`cover[_-]?letter`),
			label(`cover\s*letter`),
		}},
		{schemas.FieldLinkedIn, []Matcher{
			attr(`linked[_-]?in`),
			label(`linkedin`),
		}},
		{schemas.FieldGitHub, []Matcher{
			attr(`git[_-]?hub`),
			label(`github`),
		}},
		{schemas.FieldPortfolio, []Matcher{
			attr(`portfolio`),
			label(`portfolio`),
		}},
		{schemas.FieldWebsite, []Matcher{
			attr(`website|personal[_-]?site|home[_-]?page`),
			label(`website|personal\s*site`),
		}},
		{schemas.FieldAddress, []Matcher{
			attr(`address[_-]?(line)?[_-]?1?$|street`),
			attr(`street-address|address-line1`, "autocomplete"),
			label(`street|address`),
		}},
		{schemas.FieldCity, []Matcher{
			attr(`city|town|locality`),
			label(`city|town`),
		}},
		{schemas.FieldState, []Matcher{
			attr(`state|province|region`),
			label(`state|province`),
		}},
		{schemas.FieldZipCode, []Matcher{
			attr(`zip|postal`),
			label(`zip|postal\s*code`),
		}},
		{schemas.FieldCountry, []Matcher{
			attr(`country`),
			label(`country`),
		}},
		{schemas.FieldCurrentCompany, []Matcher{
			attr(`current[_-]?(company|employer)|^company$|employer`),
			label(`current\s*(company|employer)|company\s*name`),
		}},
		{schemas.FieldCurrentTitle, []Matcher{
			attr(`current[_-]?(title|role|position)|job[_-]?title`),
			label(`current\s*(title|role|position)|job\s*title`),
		}},
		{schemas.FieldYearsOfExperience, []Matcher{
			attr(`years?[_-]?(of)?[_-]?exp|experience[_-]?years?|yoe`),
			label(`years?\s*of\s*(relevant\s*)?experience`),
		}},
		{schemas.FieldEducationLevel, []Matcher{
			attr(`education[_-]?(level)?$|highest[_-]?education|degree[_-]?level`),
			label(`(highest\s*)?(level\s*of\s*)?education\s*(level)?$|highest\s*degree`),
		}},
		{schemas.FieldSchool, []Matcher{
			attr(`school|university|college|institution`),
			label(`school|university|college`),
		}},
		{schemas.FieldDegree, []Matcher{
			attr(`degree$`),
			label(`^degree`),
		}},
		{schemas.FieldFieldOfStudy, []Matcher{
			attr(`field[_-]?of[_-]?study|major|discipline`),
			label(`field\s*of\s*study|major`),
		}},
		{schemas.FieldGraduationYear, []Matcher{
			attr(`grad(uation)?[_-]?(year|date)`),
			label(`graduation\s*(year|date)`),
		}},
		{schemas.FieldWorkAuthorization, []Matcher{
			attr(`work[_-]?auth|authoriz|legally[_-]?(able|allowed)|eligib`),
			label(`authorized\s*to\s*work|work\s*authorization|legally\s*(able|allowed|eligible)`),
		}},
		{schemas.FieldSponsorship, []Matcher{
			attr(`sponsor`),
			label(`sponsorship|require\s*.*visa`),
		}},
		{schemas.FieldSalary, []Matcher{
			attr(`salary|compensation|desired[_-]?pay|pay[_-]?expectation`),
			label(`salary|compensation\s*expectation|desired\s*pay`),
		}},
		{schemas.FieldStartDate, []Matcher{
			attr(`start[_-]?date|available|availability`),
			label(`start\s*date|available\s*to\s*start|earliest\s*start`),
		}},
		{schemas.FieldVeteranStatus, []Matcher{
			attr(`veteran`),
			label(`veteran`),
		}},
		{schemas.FieldDisability, []Matcher{
			attr(`disability|disabled`),
			label(`disability`),
		}},
		{schemas.FieldGender, []Matcher{
			attr(`gender|^sex$`),
			label(`gender`),
		}},
		{schemas.FieldRace, []Matcher{
			attr(`race|ethnicity`),
			label(`race|ethnicity`),
		}},
		{schemas.FieldReferral, []Matcher{
			attr(`referr?al|referred[_-]?by`),
			label(`referr?al|referred\s*by`),
		}},
		{schemas.FieldHeardAbout, []Matcher{
			attr(`heard[_-]?(about|of)|source$|how[_-]?did[_-]?you`),
			label(`how\s*did\s*you\s*hear`),
		}},
		{schemas.FieldAdditionalInfo, []Matcher{
			attr(`additional[_-]?info|anything[_-]?else|comments|notes`),
			label(`additional\s*information|anything\s*else`),
		}},
	}
}
