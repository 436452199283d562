package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/formpilot-cli/api/schemas"
	"github.com/xkilldash9x/formpilot-cli/internal/classifier"
	"github.com/xkilldash9x/formpilot-cli/internal/executor"
	"github.com/xkilldash9x/formpilot-cli/internal/mapper"
	"github.com/xkilldash9x/formpilot-cli/internal/store"
)

const applyPageHTML = `<html><body>
<h1>Apply for Backend Engineer</h1>
<form action="/careers/apply" method="post">
	<label for="fn">First Name</label>
	<input id="fn" name="first_name" type="text" required>
	<label for="ln">Last Name</label>
	<input id="ln" name="last_name" type="text" required>
	<label for="em">Email Address</label>
	<input id="em" name="email" type="email" required>
	<label for="ph">Phone Number</label>
	<input id="ph" name="phone" type="tel">
	<label for="li">LinkedIn Profile</label>
	<input id="li" name="linkedin_url" type="url">
</form>
<form action="/login">
	<input name="email" type="email">
	<input name="password" type="password">
</form>
</body></html>`

// fakeBrowser serves a static snapshot.
type fakeBrowser struct {
	html      string
	url       string
	navigated []string
}

func (b *fakeBrowser) Navigate(ctx context.Context, url string) error {
	b.navigated = append(b.navigated, url)
	b.url = url
	return nil
}

func (b *fakeBrowser) CurrentURL(ctx context.Context) (string, error) { return b.url, nil }

func (b *fakeBrowser) Snapshot(ctx context.Context) (io.Reader, error) {
	return strings.NewReader(b.html), nil
}

// fakePage is a frictionless executor.Page; every operation succeeds.
type fakePage struct {
	values  map[string]string
	checked map[string]bool
	touched int
}

func newFakePage() *fakePage {
	return &fakePage{values: map[string]string{}, checked: map[string]bool{}}
}

func (p *fakePage) Sleep(ctx context.Context, d time.Duration) error      { return nil }
func (p *fakePage) ScrollIntoView(ctx context.Context, ref string) error  { return nil }
func (p *fakePage) Focus(ctx context.Context, ref string) error           { return nil }
func (p *fakePage) Blur(ctx context.Context, ref string) error            { return nil }
func (p *fakePage) DispatchChange(ctx context.Context, ref string) error  { return nil }

func (p *fakePage) ClearValue(ctx context.Context, ref string) error {
	p.touched++
	p.values[ref] = ""
	return nil
}

func (p *fakePage) AppendValue(ctx context.Context, ref, chunk string) error {
	p.touched++
	p.values[ref] += chunk
	return nil
}

func (p *fakePage) Value(ctx context.Context, ref string) (string, error) {
	return p.values[ref], nil
}

func (p *fakePage) SetSelectValue(ctx context.Context, ref, value string) error {
	p.touched++
	p.values[ref] = value
	return nil
}

func (p *fakePage) Checked(ctx context.Context, ref string) (bool, error) {
	return p.checked[ref], nil
}

func (p *fakePage) SetChecked(ctx context.Context, ref string, checked bool) error {
	p.touched++
	p.checked[ref] = checked
	return nil
}

func (p *fakePage) SelectRadio(ctx context.Context, ref, group, value string) error {
	p.touched++
	return nil
}

// stubProfiles counts fetches and can be forced to fail.
type stubProfiles struct {
	profile *schemas.UserProfile
	err     error
	fetches int
}

func (s *stubProfiles) Fetch(ctx context.Context) (*schemas.UserProfile, error) {
	s.fetches++
	if s.err != nil {
		return nil, s.err
	}
	return s.profile, nil
}

// captureNotifier records delivered notifications.
type captureNotifier struct {
	events []schemas.Notification
}

func (n *captureNotifier) Notify(ctx context.Context, event schemas.Notification) {
	n.events = append(n.events, event)
}

func janeProfile() *schemas.UserProfile {
	return &schemas.UserProfile{
		Personal: schemas.PersonalInfo{
			FirstName: "Jane",
			LastName:  "Doe",
			Email:     "jane@x.com",
			Phone:     "5551234567",
		},
		Links: schemas.ProfileLinks{LinkedIn: "https://linkedin.com/in/janedoe"},
	}
}

type fixture struct {
	engine   *Engine
	browser  *fakeBrowser
	page     *fakePage
	profiles *stubProfiles
	notifier *captureNotifier
	store    *store.Memory
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		browser:  &fakeBrowser{html: applyPageHTML, url: "https://jobs.example.com/apply"},
		page:     newFakePage(),
		profiles: &stubProfiles{profile: janeProfile()},
		notifier: &captureNotifier{},
		store:    store.NewMemory(),
	}
	exec := executor.New(f.page, executor.TimingConfig{ChunkSize: 10}, nil, rand.New(rand.NewSource(1)))
	f.engine = New(
		f.browser,
		classifier.New(nil, classifier.DefaultConfig(), nil),
		mapper.New(nil),
		exec,
		f.profiles,
		f.store,
		f.notifier,
		nil,
		Options{},
	)
	return f
}

func TestInitializeSelectsApplicationForm(t *testing.T) {
	f := newFixture(t)

	report, err := f.engine.Initialize(context.Background(), "https://jobs.example.com/apply")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://jobs.example.com/apply"}, f.browser.navigated)

	// The login form never crosses the threshold; only the application form
	// survives.
	assert.Equal(t, 1, report.FormsFound)
	require.NotNil(t, report.CurrentForm)
	assert.True(t, report.CurrentForm.IsApplicationForm)
	assert.Contains(t, report.CurrentForm.FieldNames, schemas.FieldEmail)
	assert.Contains(t, report.CurrentForm.FieldNames, schemas.FieldLinkedIn)
	assert.Equal(t, 3, report.CurrentForm.RequiredCount)
}

func TestStartAutoFillEndToEnd(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.Initialize(context.Background(), "https://jobs.example.com/apply")
	require.NoError(t, err)

	result, err := f.engine.StartAutoFill(context.Background(), schemas.FillOptions{})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 5, result.FilledCount)
	assert.Empty(t, result.Errors)

	// The classifier's refs are id-anchored XPaths, so the fake page's state
	// can be checked directly.
	assert.Equal(t, "Jane", f.page.values[`//*[@id="fn"]`])
	assert.Equal(t, "Doe", f.page.values[`//*[@id="ln"]`])
	assert.Equal(t, "jane@x.com", f.page.values[`//*[@id="em"]`])
	assert.Equal(t, "(555) 123-4567", f.page.values[`//*[@id="ph"]`])
	assert.Equal(t, "https://linkedin.com/in/janedoe", f.page.values[`//*[@id="li"]`])

	// Audit log and notification follow the run.
	history, err := f.engine.History(0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, result.SessionID, history[0].SessionID)
	assert.Equal(t, "jobs.example.com", history[0].Domain)
	assert.True(t, history[0].Success)

	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, "autofill-complete", f.notifier.events[0].Event)
	assert.Equal(t, 5, f.notifier.events[0].FilledCount)
}

func TestStartAutoFillMissingRequiredIsAtomic(t *testing.T) {
	f := newFixture(t)
	f.profiles.profile.Personal.Email = ""

	_, err := f.engine.Initialize(context.Background(), "")
	require.NoError(t, err)

	_, err = f.engine.StartAutoFill(context.Background(), schemas.FillOptions{})
	var missingErr *MissingFieldsError
	require.ErrorAs(t, err, &missingErr)
	require.Len(t, missingErr.Fields, 1)
	assert.Equal(t, schemas.FieldEmail, missingErr.Fields[0].Name)

	// Nothing was touched and nothing was logged.
	assert.Zero(t, f.page.touched)
	history, err := f.engine.History(0)
	require.NoError(t, err)
	assert.Empty(t, history)
	assert.Empty(t, f.notifier.events)
}

func TestStartAutoFillWithoutForm(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.StartAutoFill(context.Background(), schemas.FillOptions{})
	assert.ErrorIs(t, err, ErrNoForm)
}

func TestSelectFormOutOfRange(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.Initialize(context.Background(), "")
	require.NoError(t, err)

	assert.Error(t, f.engine.SelectForm(5))
	assert.NoError(t, f.engine.SelectForm(0))
}

func TestHistoryCapNewestFirst(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < 51; i++ {
		f.engine.appendHistory(&schemas.FillResult{
			SessionID:   fmt.Sprintf("session-%d", i),
			FilledCount: i,
			Success:     true,
		}, "https://jobs.example.com/apply", schemas.FillOptions{})
	}

	history, err := f.engine.History(0)
	require.NoError(t, err)
	require.Len(t, history, 50, "log is capped at fifty entries")
	assert.Equal(t, "session-50", history[0].SessionID, "newest entry first")
	assert.Equal(t, "session-1", history[49].SessionID, "oldest surviving entry last")

	limited, err := f.engine.History(10)
	require.NoError(t, err)
	assert.Len(t, limited, 10)

	require.NoError(t, f.engine.ClearHistory())
	history, err = f.engine.History(0)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestProfileCacheFirst(t *testing.T) {
	f := newFixture(t)

	p, err := f.engine.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Jane", p.Personal.FirstName)
	assert.Equal(t, 1, f.profiles.fetches)

	// Second resolve hits the cache.
	_, err = f.engine.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, f.profiles.fetches)

	// After invalidation the service is consulted again.
	require.NoError(t, f.engine.InvalidateProfile())
	_, err = f.engine.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, f.profiles.fetches)
}

func TestProfileStaleCacheFallback(t *testing.T) {
	f := newFixture(t)

	// Seed an expired cache entry directly.
	require.NoError(t, f.store.Put(profileCacheKey, cachedProfile{
		Profile:   janeProfile(),
		FetchedAt: time.Now().Add(-time.Hour),
	}))
	f.profiles.err = errors.New("backend down")

	p, err := f.engine.Profile(context.Background())
	require.NoError(t, err, "stale cache beats a dead backend")
	assert.Equal(t, "jane@x.com", p.Personal.Email)
	assert.Equal(t, 1, f.profiles.fetches)
}

func TestProfileErrorWithoutCache(t *testing.T) {
	f := newFixture(t)
	f.profiles.err = errors.New("backend down")

	_, err := f.engine.Profile(context.Background())
	assert.Error(t, err)
}

func TestFieldPreviewMasking(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.Initialize(context.Background(), "")
	require.NoError(t, err)

	previews, err := f.engine.FieldPreview(context.Background(), schemas.FillOptions{})
	require.NoError(t, err)
	require.Len(t, previews, 5)

	byName := map[schemas.CanonicalName]schemas.FieldPreview{}
	for _, p := range previews {
		byName[p.Name] = p
	}

	email := byName[schemas.FieldEmail]
	assert.True(t, email.WillFill)
	assert.True(t, email.Masked)
	assert.Equal(t, "jan...om", email.Value)

	phone := byName[schemas.FieldPhone]
	assert.True(t, phone.Masked)
	assert.Equal(t, "(55...67", phone.Value)

	first := byName[schemas.FieldFirstName]
	assert.False(t, first.Masked)
	assert.Equal(t, "Jane", first.Value)
}

func TestMaskValueShortValuesFullyRedacted(t *testing.T) {
	assert.Equal(t, "***", maskValue("12345"))
	assert.Equal(t, "123...67", maskValue("1234567"))
	assert.Equal(t, "555...67", maskValue("5551234567"))
}
