package classifier

import (
	"strings"
	"testing"

	"github.com/antchfx/htmlquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/xkilldash9x/formpilot-cli/api/schemas"
	"github.com/xkilldash9x/formpilot-cli/internal/catalog"
)

func parse(t *testing.T, markup string) *html.Node {
	t.Helper()
	doc, err := htmlquery.Parse(strings.NewReader(markup))
	require.NoError(t, err)
	return doc
}

const applyFormHTML = `
<html><body>
<form id="apply-form" action="/careers/apply" method="post">
  <label for="fn">First Name</label><input id="fn" name="first_name" required>
  <label for="ln">Last Name</label><input id="ln" name="last_name" required>
  <label for="em">Email</label><input id="em" type="email" name="email" required>
  <label for="ph">Phone</label><input id="ph" type="tel" name="phone">
  <select name="work_authorization">
    <option value="">Select one</option>
    <option value="citizen">U.S. Citizen</option>
    <option value="gc">Green Card Holder</option>
    <option value="visa">Visa Holder</option>
  </select>
</form>
</body></html>`

func TestClassifyApplicationForm(t *testing.T) {
	c := New(nil, DefaultConfig(), nil)
	forms := c.Classify(parse(t, applyFormHTML))
	require.Len(t, forms, 1)

	form := forms[0]
	// email 10 + firstName 5 + lastName 5 + phone 5 + workAuthorization 10
	assert.Equal(t, 35, form.Score)
	assert.True(t, form.IsApplicationForm)
	assert.Equal(t, "/careers/apply", form.ActionURL)
	assert.Equal(t, "post", form.Method)

	email := form.Field(schemas.FieldEmail)
	require.NotNil(t, email)
	assert.Equal(t, schemas.KindEmail, email.Kind)
	assert.True(t, email.Required)
	assert.Equal(t, "Email", email.Label)
	assert.Equal(t, `//*[@id="em"]`, email.Ref)

	auth := form.Field(schemas.FieldWorkAuthorization)
	require.NotNil(t, auth)
	assert.Equal(t, schemas.KindSelect, auth.Kind)
	require.Len(t, auth.Options, 4)
	assert.Equal(t, "gc", auth.Options[2].Value)
	assert.Equal(t, "Green Card Holder", auth.Options[2].Text)
}

func TestClassifyFieldOrderFollowsDocument(t *testing.T) {
	c := New(nil, DefaultConfig(), nil)
	forms := c.Classify(parse(t, applyFormHTML))
	require.Len(t, forms, 1)

	assert.Equal(t, []schemas.CanonicalName{
		schemas.FieldFirstName,
		schemas.FieldLastName,
		schemas.FieldEmail,
		schemas.FieldPhone,
		schemas.FieldWorkAuthorization,
	}, forms[0].Order)
}

func TestNoEmailNeverQualifies(t *testing.T) {
	// Every common and job-specific field present, but no email: rejected.
	markup := `
<html><body><form action="/apply">
  <input name="first_name"><input name="last_name"><input name="full_name">
  <input name="phone"><input name="resume" type="file">
  <input name="work_authorization"><input name="years_of_experience">
  <input name="education_level"><textarea name="cover_letter"></textarea>
</form></body></html>`

	c := New(nil, DefaultConfig(), nil)
	forms := c.Classify(parse(t, markup))
	require.Len(t, forms, 1)
	assert.Equal(t, 0, forms[0].Score)
	assert.False(t, forms[0].IsApplicationForm)
}

func TestHiddenEmailDoesNotCount(t *testing.T) {
	markup := `
<html><body><form action="/apply">
  <input type="email" name="email" style="display: none">
  <input name="first_name"><input name="phone">
</form></body></html>`

	c := New(nil, DefaultConfig(), nil)
	forms := c.Classify(parse(t, markup))
	require.Len(t, forms, 1)
	assert.Nil(t, forms[0].Field(schemas.FieldEmail))
	assert.False(t, forms[0].IsApplicationForm)
}

func TestThresholdBoundary(t *testing.T) {
	markup := `
<html><body><form action="/apply">
  <input type="email" name="email"><input name="first_name">
</form></body></html>`

	// email + one common field; tune the common weight to land exactly on
	// either side of the threshold.
	for _, tt := range []struct {
		commonWeight int
		want         bool
	}{
		{9, false}, // score 19
		{10, true}, // score 20
	} {
		cfg := Config{EmailWeight: 10, CommonWeight: tt.commonWeight, JobWeight: 10, Threshold: 20}
		forms := New(nil, cfg, nil).Classify(parse(t, markup))
		require.Len(t, forms, 1)
		assert.Equal(t, tt.want, forms[0].IsApplicationForm, "commonWeight=%d", tt.commonWeight)
	}
}

func TestCatalogOrderDisambiguation(t *testing.T) {
	// Both entries could claim the single input; the earlier one wins.
	cat := catalog.New([]catalog.Entry{
		{Name: "alpha", Matchers: []catalog.Matcher{
			{Kind: catalog.MatchAttr, Attrs: []string{"name"}, Pattern: `shared`},
		}},
		{Name: "beta", Matchers: []catalog.Matcher{
			{Kind: catalog.MatchAttr, Attrs: []string{"name"}, Pattern: `shared`},
		}},
	})
	markup := `<html><body><form action="/apply"><input name="shared_field"></form></body></html>`

	forms := New(cat, DefaultConfig(), nil).Classify(parse(t, markup))
	require.Len(t, forms, 1)
	assert.NotNil(t, forms[0].Fields["alpha"])
	assert.Nil(t, forms[0].Fields["beta"])
}

func TestMalformedMatcherIsSkipped(t *testing.T) {
	cat := catalog.New([]catalog.Entry{
		{Name: schemas.FieldEmail, Matchers: []catalog.Matcher{
			{Kind: catalog.MatchAttr, Attrs: []string{"name"}, Pattern: `([broken`},
			{Kind: catalog.MatchType, Pattern: "email"},
		}},
	})
	markup := `<html><body><form action="/apply"><input type="email" name="email"></form></body></html>`

	forms := New(cat, DefaultConfig(), nil).Classify(parse(t, markup))
	require.Len(t, forms, 1)
	assert.NotNil(t, forms[0].Field(schemas.FieldEmail), "later matcher should still run")
}

func TestFirstMatchWins(t *testing.T) {
	markup := `
<html><body><form action="/apply">
  <input type="email" name="email" id="primary">
  <input type="email" name="email_confirm" id="secondary">
</form></body></html>`

	forms := New(nil, DefaultConfig(), nil).Classify(parse(t, markup))
	require.Len(t, forms, 1)
	email := forms[0].Field(schemas.FieldEmail)
	require.NotNil(t, email)
	assert.Equal(t, `//*[@id="primary"]`, email.Ref)
}

func TestPhraseCandidateDetection(t *testing.T) {
	// No structural pattern anywhere; the container qualifies through its
	// inner text alone.
	markup := `
<html><body>
<div class="careers-box">
  <h2>Join our team</h2>
  <input type="email" name="email">
  <input name="first_name"><input name="last_name">
</div>
</body></html>`

	forms := New(nil, DefaultConfig(), nil).Classify(parse(t, markup))
	require.NotEmpty(t, forms)
	assert.NotNil(t, forms[0].Field(schemas.FieldEmail))
}

func TestClassifyIdempotent(t *testing.T) {
	c := New(nil, DefaultConfig(), nil)
	doc := parse(t, applyFormHTML)

	first := c.Classify(doc)
	second := c.Classify(doc)
	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].Order, second[0].Order)
	assert.Equal(t, first[0].Score, second[0].Score)
	assert.Equal(t, first[0].Fields, second[0].Fields)
}

func TestDisabledInputNotMatched(t *testing.T) {
	markup := `
<html><body><form action="/apply">
  <input type="email" name="email" disabled>
  <input type="email" name="contact_email" id="live">
</form></body></html>`

	forms := New(nil, DefaultConfig(), nil).Classify(parse(t, markup))
	require.Len(t, forms, 1)
	email := forms[0].Field(schemas.FieldEmail)
	require.NotNil(t, email)
	assert.Equal(t, `//*[@id="live"]`, email.Ref)
}

func TestLabelResolutionFallbacks(t *testing.T) {
	markup := `
<html><body><form action="/apply">
  <label for="a">Explicit Label</label><input id="a" name="first_name">
  <label>Wrapping Label <input name="last_name"></label>
  <input name="email" type="email" aria-label="Aria Label">
  <input name="phone" placeholder="Placeholder Label">
</form></body></html>`

	forms := New(nil, DefaultConfig(), nil).Classify(parse(t, markup))
	require.Len(t, forms, 1)
	form := forms[0]
	assert.Equal(t, "Explicit Label", form.Field(schemas.FieldFirstName).Label)
	assert.Equal(t, "Wrapping Label", form.Field(schemas.FieldLastName).Label)
	assert.Equal(t, "Aria Label", form.Field(schemas.FieldEmail).Label)
	assert.Equal(t, "Placeholder Label", form.Field(schemas.FieldPhone).Label)
}
