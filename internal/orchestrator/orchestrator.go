// internal/orchestrator/orchestrator.go
// Description: Coordinates the full auto-fill flow: snapshot and classify the
// page, resolve the profile through a persistent cache, map values, validate
// required coverage atomically, execute the fill and append the audit record.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/antchfx/htmlquery"
	"go.uber.org/zap"

	"github.com/xkilldash9x/formpilot-cli/api/schemas"
	"github.com/xkilldash9x/formpilot-cli/internal/classifier"
	"github.com/xkilldash9x/formpilot-cli/internal/executor"
	"github.com/xkilldash9x/formpilot-cli/internal/mapper"
)

// Store keys and limits for the persisted state.
const (
	profileCacheKey = "profile_cache"
	historyKey      = "fill_history"

	defaultHistoryLimit = 50
	defaultProfileTTL   = 15 * time.Minute

	// notifyEvent is the wire name listeners key on; the Success flag in the
	// payload carries the outcome.
	notifyEvent = "autofill-complete"
)

// ErrNoForm is returned by operations that need a selected form before
// Initialize found one.
var ErrNoForm = errors.New("orchestrator: no application form detected")

// MissingFieldsError reports required fields with no usable value. The fill is
// atomic with respect to this check: when it fires, nothing on the page has
// been touched.
type MissingFieldsError struct {
	Fields []schemas.MissingField
}

func (e *MissingFieldsError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = string(f.Name)
	}
	return fmt.Sprintf("orchestrator: required fields missing values: %s", strings.Join(names, ", "))
}

// Browser is the subset of the browser session the engine needs.
type Browser interface {
	Navigate(ctx context.Context, url string) error
	CurrentURL(ctx context.Context) (string, error)
	Snapshot(ctx context.Context) (io.Reader, error)
}

// Filler runs the input simulation. Satisfied by *executor.Executor.
type Filler interface {
	Fill(ctx context.Context, form *schemas.FormDescriptor, values schemas.ValueMap, opts schemas.FillOptions) (*schemas.FillResult, error)
	Stop()
	State() executor.State
}

// Options tunes engine behavior; zero values fall back to defaults.
type Options struct {
	DefaultFillOptions schemas.FillOptions
	HistoryLimit       int
	ProfileTTL         time.Duration
}

// Engine ties the pipeline together. One engine drives one browser tab.
type Engine struct {
	browser    Browser
	classifier *classifier.Classifier
	mapper     *mapper.Mapper
	filler     Filler
	profiles   schemas.ProfileService
	store      schemas.KeyValueStore
	notifier   schemas.Notifier
	logger     *zap.Logger
	opts       Options

	forms    []*schemas.FormDescriptor
	selected int
}

// cachedProfile is the persisted cache envelope.
type cachedProfile struct {
	Profile   *schemas.UserProfile `json:"profile"`
	FetchedAt time.Time            `json:"fetched_at"`
}

// New assembles an engine. Logger may be nil.
func New(
	browser Browser,
	cls *classifier.Classifier,
	mp *mapper.Mapper,
	filler Filler,
	profiles schemas.ProfileService,
	kv schemas.KeyValueStore,
	notifier schemas.Notifier,
	logger *zap.Logger,
	opts Options,
) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = defaultHistoryLimit
	}
	if opts.ProfileTTL <= 0 {
		opts.ProfileTTL = defaultProfileTTL
	}
	return &Engine{
		browser:    browser,
		classifier: cls,
		mapper:     mp,
		filler:     filler,
		profiles:   profiles,
		store:      kv,
		notifier:   notifier,
		logger:     logger.Named("orchestrator"),
		opts:       opts,
		selected:   -1,
	}
}

// Initialize optionally navigates, then snapshots and classifies the page.
// Only containers that scored as application forms are retained; the highest
// scoring one is selected.
func (e *Engine) Initialize(ctx context.Context, targetURL string) (*schemas.InitReport, error) {
	if targetURL != "" {
		if err := e.browser.Navigate(ctx, targetURL); err != nil {
			return nil, err
		}
	}
	return e.detect(ctx)
}

// Refresh re-runs detection against the current page, discarding the previous
// classification. Used after the page re-renders.
func (e *Engine) Refresh(ctx context.Context) (*schemas.InitReport, error) {
	return e.detect(ctx)
}

func (e *Engine) detect(ctx context.Context) (*schemas.InitReport, error) {
	snapshot, err := e.browser.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := htmlquery.Parse(snapshot)
	if err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}

	e.forms = nil
	e.selected = -1
	for _, form := range e.classifier.Classify(doc) {
		if form.IsApplicationForm {
			e.forms = append(e.forms, form)
		}
	}
	for i, form := range e.forms {
		if e.selected < 0 || form.Score > e.forms[e.selected].Score {
			e.selected = i
		}
	}

	report := &schemas.InitReport{FormsFound: len(e.forms)}
	if e.selected >= 0 {
		summary := e.summarize(e.selected)
		report.CurrentForm = &summary
	}
	e.logger.Info("page classified",
		zap.Int("application_forms", len(e.forms)),
		zap.Int("selected", e.selected))
	return report, nil
}

// Forms lists summaries of every detected application form.
func (e *Engine) Forms() []schemas.FormSummary {
	out := make([]schemas.FormSummary, len(e.forms))
	for i := range e.forms {
		out[i] = e.summarize(i)
	}
	return out
}

// SelectForm switches the active form by detection index.
func (e *Engine) SelectForm(index int) error {
	if index < 0 || index >= len(e.forms) {
		return fmt.Errorf("orchestrator: form index %d out of range (have %d)", index, len(e.forms))
	}
	e.selected = index
	return nil
}

func (e *Engine) summarize(index int) schemas.FormSummary {
	form := e.forms[index]
	summary := schemas.FormSummary{
		Index:             index,
		Score:             form.Score,
		IsApplicationForm: form.IsApplicationForm,
		FieldCount:        len(form.Order),
		FieldNames:        form.Order,
	}
	for _, name := range form.Order {
		if f := form.Field(name); f != nil && f.Required {
			summary.RequiredCount++
		}
	}
	return summary
}

func (e *Engine) currentForm() (*schemas.FormDescriptor, error) {
	if e.selected < 0 || e.selected >= len(e.forms) {
		return nil, ErrNoForm
	}
	return e.forms[e.selected], nil
}

// Profile resolves the user profile, cache first. A fresh cache entry skips
// the network entirely; a failed fetch falls back to a stale entry rather
// than aborting the fill.
func (e *Engine) Profile(ctx context.Context) (*schemas.UserProfile, error) {
	var cached cachedProfile
	hit, err := e.store.Get(profileCacheKey, &cached)
	if err != nil {
		e.logger.Warn("profile cache read failed", zap.Error(err))
		hit = false
	}
	if hit && cached.Profile != nil && time.Since(cached.FetchedAt) < e.opts.ProfileTTL {
		e.logger.Debug("profile served from cache")
		return cached.Profile, nil
	}

	p, err := e.profiles.Fetch(ctx)
	if err != nil {
		if hit && cached.Profile != nil {
			e.logger.Warn("profile fetch failed, using stale cache", zap.Error(err))
			return cached.Profile, nil
		}
		return nil, err
	}

	if err := e.store.Put(profileCacheKey, cachedProfile{Profile: p, FetchedAt: time.Now()}); err != nil {
		e.logger.Warn("profile cache write failed", zap.Error(err))
	}
	return p, nil
}

// InvalidateProfile drops the cached profile so the next fill refetches.
func (e *Engine) InvalidateProfile() error {
	return e.store.Delete(profileCacheKey)
}

// StartAutoFill runs the full pipeline against the selected form. When any
// required field lacks a usable value the call fails with MissingFieldsError
// before a single input is touched.
func (e *Engine) StartAutoFill(ctx context.Context, opts schemas.FillOptions) (*schemas.FillResult, error) {
	form, err := e.currentForm()
	if err != nil {
		return nil, err
	}
	profile, err := e.Profile(ctx)
	if err != nil {
		return nil, err
	}

	values := e.mapper.Map(profile, form)
	if missing := missingRequired(form, values, opts); len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}

	result, err := e.filler.Fill(ctx, form, values, opts)
	if err != nil {
		return nil, err
	}

	pageURL, urlErr := e.browser.CurrentURL(ctx)
	if urlErr != nil {
		e.logger.Debug("could not read page url for audit entry", zap.Error(urlErr))
	}
	e.appendHistory(result, pageURL, opts)
	e.notify(ctx, result, pageURL)
	return result, nil
}

// Stop forwards the cooperative stop to the running fill.
func (e *Engine) Stop() {
	e.filler.Stop()
}

// missingRequired lists required fields that would go unfilled. File inputs
// are exempt (they always need manual interaction), as are fields the options
// exclude anyway.
func missingRequired(form *schemas.FormDescriptor, values schemas.ValueMap, opts schemas.FillOptions) []schemas.MissingField {
	var missing []schemas.MissingField
	for _, name := range form.Order {
		desc := form.Field(name)
		if desc == nil || !desc.Required || desc.Kind == schemas.KindFile {
			continue
		}
		if opts.SkipDemographics && name.IsDemographic() {
			continue
		}
		if values[name].Empty() {
			missing = append(missing, schemas.MissingField{Name: name, Label: desc.Label})
		}
	}
	return missing
}

// FieldPreview reports what each field of the selected form would receive,
// without touching the page. Sensitive values arrive masked.
func (e *Engine) FieldPreview(ctx context.Context, opts schemas.FillOptions) ([]schemas.FieldPreview, error) {
	form, err := e.currentForm()
	if err != nil {
		return nil, err
	}
	profile, err := e.Profile(ctx)
	if err != nil {
		return nil, err
	}

	values := e.mapper.Map(profile, form)
	previews := make([]schemas.FieldPreview, 0, len(form.Order))
	for _, name := range form.Order {
		desc := form.Field(name)
		if desc == nil {
			continue
		}
		value := values[name]
		preview := schemas.FieldPreview{
			Name:     name,
			Label:    desc.Label,
			Required: desc.Required,
			WillFill: fillable(desc, value, opts),
		}
		if !value.Empty() {
			preview.Value, preview.Masked = previewValue(name, value)
		}
		previews = append(previews, preview)
	}
	return previews, nil
}

func fillable(desc *schemas.FieldDescriptor, value *schemas.FieldValue, opts schemas.FillOptions) bool {
	switch {
	case value.Empty():
		return false
	case opts.SkipOptional && !desc.Required:
		return false
	case opts.SkipDemographics && desc.Name.IsDemographic():
		return false
	case desc.Kind == schemas.KindFile:
		return false
	}
	return true
}

// sensitiveFields are masked in previews and logs.
var sensitiveFields = map[schemas.CanonicalName]bool{
	schemas.FieldEmail:   true,
	schemas.FieldPhone:   true,
	schemas.FieldAddress: true,
	schemas.FieldZipCode: true,
}

func previewValue(name schemas.CanonicalName, value *schemas.FieldValue) (string, bool) {
	if value.IsCheck {
		if value.Checked {
			return "checked", false
		}
		return "unchecked", false
	}
	if !sensitiveFields[name] {
		return value.Text, false
	}
	return maskValue(value.Text), true
}

// maskValue keeps the first three and last two runes. Anything shorter than
// six runes is fully redacted.
func maskValue(s string) string {
	runes := []rune(s)
	if len(runes) < 6 {
		return "***"
	}
	return string(runes[:3]) + "..." + string(runes[len(runes)-2:])
}

// appendHistory prepends the audit record and trims the log to its cap.
func (e *Engine) appendHistory(result *schemas.FillResult, pageURL string, opts schemas.FillOptions) {
	entry := schemas.FillLogEntry{
		SessionID:   result.SessionID,
		URL:         pageURL,
		Domain:      domainOf(pageURL),
		Timestamp:   time.Now(),
		Options:     opts,
		FilledCount: result.FilledCount,
		ErrorCount:  result.ErrorCount,
		Success:     result.Success,
	}

	var entries []schemas.FillLogEntry
	if _, err := e.store.Get(historyKey, &entries); err != nil {
		e.logger.Warn("history read failed", zap.Error(err))
		entries = nil
	}
	entries = append([]schemas.FillLogEntry{entry}, entries...)
	if len(entries) > e.opts.HistoryLimit {
		entries = entries[:e.opts.HistoryLimit]
	}
	if err := e.store.Put(historyKey, entries); err != nil {
		e.logger.Warn("history write failed", zap.Error(err))
	}
}

// History returns the newest-first audit log, capped at limit (<=0 means all).
func (e *Engine) History(limit int) ([]schemas.FillLogEntry, error) {
	var entries []schemas.FillLogEntry
	if _, err := e.store.Get(historyKey, &entries); err != nil {
		return nil, err
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// ClearHistory wipes the audit log.
func (e *Engine) ClearHistory() error {
	return e.store.Delete(historyKey)
}

func (e *Engine) notify(ctx context.Context, result *schemas.FillResult, pageURL string) {
	if e.notifier == nil {
		return
	}
	e.notifier.Notify(ctx, schemas.Notification{
		Event:       notifyEvent,
		URL:         pageURL,
		FilledCount: result.FilledCount,
		Success:     result.Success,
	})
}

func domainOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Hostname()
}
