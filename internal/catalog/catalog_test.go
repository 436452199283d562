package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/formpilot-cli/api/schemas"
)

func TestMatcherAttr(t *testing.T) {
	m := attr(`first[_-]?name`)

	tests := []struct {
		name  string
		el    ElementData
		match bool
	}{
		{"name attribute", ElementData{Attrs: map[string]string{"name": "first_name"}}, true},
		{"id attribute", ElementData{Attrs: map[string]string{"id": "applicant-firstName"}}, true},
		{"case insensitive", ElementData{Attrs: map[string]string{"name": "FIRST-NAME"}}, true},
		{"unrelated attribute", ElementData{Attrs: map[string]string{"name": "surname"}}, false},
		{"unlisted attribute ignored", ElementData{Attrs: map[string]string{"class": "first_name"}}, false},
		{"no attributes", ElementData{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Matches(tt.el)
			require.NoError(t, err)
			assert.Equal(t, tt.match, got)
		})
	}
}

func TestMatcherType(t *testing.T) {
	m := inputType("email")

	got, err := m.Matches(ElementData{InputType: "email"})
	require.NoError(t, err)
	assert.True(t, got)

	got, err = m.Matches(ElementData{InputType: "text"})
	require.NoError(t, err)
	assert.False(t, got)
}

func TestMatcherLabel(t *testing.T) {
	m := label(`cover\s*letter`)

	got, err := m.Matches(ElementData{Label: "Upload your Cover Letter"})
	require.NoError(t, err)
	assert.True(t, got)

	// An empty label never matches, even against permissive patterns.
	got, err = m.Matches(ElementData{Label: ""})
	require.NoError(t, err)
	assert.False(t, got)
}

func TestMatcherMalformedPattern(t *testing.T) {
	m := Matcher{Kind: MatchAttr, Attrs: []string{"name"}, Pattern: `([unclosed`}

	got, err := m.Matches(ElementData{Attrs: map[string]string{"name": "x"}})
	assert.Error(t, err)
	assert.False(t, got)
}

func TestDefaultCatalogOrder(t *testing.T) {
	c := Default()
	require.NotZero(t, c.Len())

	index := make(map[schemas.CanonicalName]int, c.Len())
	for i, e := range c.Entries() {
		_, dup := index[e.Name]
		require.Falsef(t, dup, "duplicate catalog entry %s", e.Name)
		index[e.Name] = i
	}

	// Disambiguation relies on these orderings being stable: the earlier
	// entry claims an element both could match.
	assert.Less(t, index[schemas.FieldResume], index[schemas.FieldCoverLetterFile])
	assert.Less(t, index[schemas.FieldCoverLetterFile], index[schemas.FieldCoverLetter])
	assert.Less(t, index[schemas.FieldFirstName], index[schemas.FieldFullName])
}

func TestDefaultCatalogIsSingleton(t *testing.T) {
	assert.Same(t, Default(), Default())
}

func TestDefaultEntriesHaveMatchers(t *testing.T) {
	for _, e := range Default().Entries() {
		assert.NotEmptyf(t, e.Matchers, "entry %s has no matchers", e.Name)
	}
}
