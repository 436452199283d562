// internal/executor/executor.go
// Description: Performs the actual input simulation for one classified form,
// honoring skip rules and producing a fill report. One bad field never aborts
// the run; cancellation is cooperative and lands at field boundaries.
package executor

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/formpilot-cli/api/schemas"
)

// ErrFillInProgress is returned when Fill is called while another execution
// is still running on the same instance.
var ErrFillInProgress = errors.New("executor: fill already in progress")

// State is the executor lifecycle state.
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateStopped   State = "stopped"
)

// Executor simulates human-paced form input through a Page.
type Executor struct {
	page   Page
	timing TimingConfig
	logger *zap.Logger

	mu      sync.Mutex
	state   State
	stop    bool
	rng     *rand.Rand
	nowFunc func() time.Time
}

// New creates an executor. A nil rng gets a time-seeded source; tests pass a
// fixed seed for reproducible pacing.
func New(page Page, timing TimingConfig, logger *zap.Logger, rng *rand.Rand) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Executor{
		page:    page,
		timing:  timing,
		logger:  logger.Named("executor"),
		state:   StateIdle,
		rng:     rng,
		nowFunc: time.Now,
	}
}

// State returns the current lifecycle state.
func (e *Executor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Stop requests cooperative cancellation. The flag is checked before each
// field, so the run stops "soon", never mid-field, keeping whatever has been
// filled so far (no rollback).
func (e *Executor) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateRunning {
		e.stop = true
	}
}

// Fill executes the simulation over the form's fields, strictly in
// declaration order. It always returns a FillResult, even when every field
// was skipped or errored; only a concurrent Fill call is an error.
func (e *Executor) Fill(ctx context.Context, form *schemas.FormDescriptor, values schemas.ValueMap, opts schemas.FillOptions) (*schemas.FillResult, error) {
	e.mu.Lock()
	if e.state == StateRunning {
		e.mu.Unlock()
		return nil, ErrFillInProgress
	}
	e.state = StateRunning
	e.stop = false
	e.mu.Unlock()

	result := &schemas.FillResult{SessionID: uuid.NewString()}
	e.logger.Info("fill started",
		zap.String("session_id", result.SessionID),
		zap.Int("fields", len(form.Order)))

	if opts.FocusFirst {
		e.focusFirst(ctx, form, values)
	}

	for _, name := range form.Order {
		if e.stopRequested() || ctx.Err() != nil {
			result.Stopped = true
			break
		}

		desc := form.Field(name)
		value := values[name]
		if reason := skipReason(desc, value, opts); reason != "" {
			e.logger.Debug("skipping field",
				zap.String("field", string(name)),
				zap.String("reason", reason))
			continue
		}

		if err := e.fillField(ctx, desc, value); err != nil {
			result.Errors = append(result.Errors, schemas.FieldError{
				Name:    name,
				Label:   desc.Label,
				Message: err.Error(),
			})
			e.logger.Warn("field fill failed",
				zap.String("field", string(name)),
				zap.Error(err))
		} else {
			result.FilledFields = append(result.FilledFields, schemas.FilledField{
				Name:      name,
				Label:     desc.Label,
				Value:     displayValue(value),
				Timestamp: e.nowFunc(),
			})
		}

		// Inter-field pause: together with per-character jitter this is the
		// human-pacing contract, not incidental latency.
		e.pause(ctx, e.timing.FieldDelayMinMs, e.timing.FieldDelayMaxMs)
	}

	result.FilledCount = len(result.FilledFields)
	result.ErrorCount = len(result.Errors)
	result.Success = result.ErrorCount == 0

	e.mu.Lock()
	if result.Stopped {
		e.state = StateStopped
	} else {
		e.state = StateCompleted
	}
	e.mu.Unlock()

	e.logger.Info("fill finished",
		zap.String("session_id", result.SessionID),
		zap.Int("filled", result.FilledCount),
		zap.Int("errors", result.ErrorCount),
		zap.Bool("stopped", result.Stopped))
	return result, nil
}

// skipReason returns a non-empty reason when the field must be left alone.
// Skips are no-ops, not errors.
func skipReason(desc *schemas.FieldDescriptor, value *schemas.FieldValue, opts schemas.FillOptions) string {
	switch {
	case desc == nil:
		return "no descriptor"
	case value.Empty():
		return "no value"
	case opts.SkipOptional && !desc.Required:
		return "optional"
	case opts.SkipDemographics && desc.Name.IsDemographic():
		return "demographic"
	case desc.Kind == schemas.KindFile:
		return "file upload requires manual interaction"
	}
	return ""
}

// fillField runs the per-field procedure: scroll, settle, focus, simulate
// input by kind, blur. Any error is reported to the caller, which records it
// and moves on.
func (e *Executor) fillField(ctx context.Context, desc *schemas.FieldDescriptor, value *schemas.FieldValue) error {
	if err := e.page.ScrollIntoView(ctx, desc.Ref); err != nil {
		return fmt.Errorf("scroll: %w", err)
	}
	e.pause(ctx, e.timing.PreFocusDelayMs, e.timing.PreFocusDelayMs)
	if err := e.page.Focus(ctx, desc.Ref); err != nil {
		return fmt.Errorf("focus: %w", err)
	}

	var err error
	switch {
	case desc.Kind.IsTextLike():
		err = e.typeText(ctx, desc.Ref, value.Text, 1, e.timing.CharDelayMinMs, e.timing.CharDelayMaxMs)
	case desc.Kind == schemas.KindTextarea:
		err = e.typeText(ctx, desc.Ref, value.Text, e.timing.ChunkSize, e.timing.ChunkDelayMinMs, e.timing.ChunkDelayMaxMs)
	case desc.Kind == schemas.KindSelect:
		err = e.fillSelect(ctx, desc, value.Text)
	case desc.Kind == schemas.KindCheckbox:
		err = e.fillCheckbox(ctx, desc.Ref, value.Checked)
	case desc.Kind == schemas.KindRadio:
		err = e.page.SelectRadio(ctx, desc.Ref, desc.GroupName, value.Text)
	default:
		err = fmt.Errorf("unsupported field kind %q", desc.Kind)
	}
	if err != nil {
		return err
	}

	if err := e.page.Blur(ctx, desc.Ref); err != nil {
		return fmt.Errorf("blur: %w", err)
	}
	return nil
}

// typeText clears the input, then appends text in chunks of chunkSize runes
// with a randomized delay between chunks, finishing with a change event.
// chunkSize 1 gives character-wise typing for plain inputs.
func (e *Executor) typeText(ctx context.Context, ref, text string, chunkSize, minMs, maxMs int) error {
	if chunkSize < 1 {
		chunkSize = 1
	}
	if err := e.page.ClearValue(ctx, ref); err != nil {
		return fmt.Errorf("clear: %w", err)
	}

	runes := []rune(text)
	for start := 0; start < len(runes); start += chunkSize {
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		if err := e.page.AppendValue(ctx, ref, string(runes[start:end])); err != nil {
			return fmt.Errorf("type: %w", err)
		}
		e.pause(ctx, minMs, maxMs)
	}
	return e.page.DispatchChange(ctx, ref)
}

// fillSelect sets the value directly, then verifies it stuck. When the
// assignment was ignored (common when the computed value is option text, not
// an option value), it falls back to scanning options by value or
// case-insensitive text equality.
func (e *Executor) fillSelect(ctx context.Context, desc *schemas.FieldDescriptor, value string) error {
	if err := e.page.SetSelectValue(ctx, desc.Ref, value); err != nil {
		return fmt.Errorf("select: %w", err)
	}
	current, err := e.page.Value(ctx, desc.Ref)
	if err != nil {
		return fmt.Errorf("select verify: %w", err)
	}
	if current == value {
		return nil
	}

	for _, opt := range desc.Options {
		if opt.Value == value || strings.EqualFold(opt.Text, value) {
			if err := e.page.SetSelectValue(ctx, desc.Ref, opt.Value); err != nil {
				return fmt.Errorf("select fallback: %w", err)
			}
			return nil
		}
	}
	return fmt.Errorf("select: no option matched %q", value)
}

// fillCheckbox toggles only when the current state differs from the target.
func (e *Executor) fillCheckbox(ctx context.Context, ref string, want bool) error {
	current, err := e.page.Checked(ctx, ref)
	if err != nil {
		return fmt.Errorf("checkbox read: %w", err)
	}
	if current == want {
		return nil
	}
	return e.page.SetChecked(ctx, ref, want)
}

// focusFirst brings the first fillable field into view before the run starts.
// Failures here are cosmetic and ignored.
func (e *Executor) focusFirst(ctx context.Context, form *schemas.FormDescriptor, values schemas.ValueMap) {
	for _, name := range form.Order {
		desc := form.Field(name)
		if desc == nil || values[name].Empty() {
			continue
		}
		_ = e.page.ScrollIntoView(ctx, desc.Ref)
		_ = e.page.Focus(ctx, desc.Ref)
		return
	}
}

func (e *Executor) stopRequested() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stop
}

// pause sleeps for a uniformly sampled duration in [minMs, maxMs]. Zero or
// negative bounds skip the sleep entirely, which is how tests run fast.
func (e *Executor) pause(ctx context.Context, minMs, maxMs int) {
	if maxMs <= 0 {
		return
	}
	if minMs < 0 {
		minMs = 0
	}
	if maxMs < minMs {
		minMs, maxMs = maxMs, minMs
	}
	ms := minMs
	if maxMs > minMs {
		e.mu.Lock()
		ms += e.rng.Intn(maxMs - minMs + 1)
		e.mu.Unlock()
	}
	_ = e.page.Sleep(ctx, time.Duration(ms)*time.Millisecond)
}

func displayValue(v *schemas.FieldValue) string {
	if v.IsCheck {
		return strconv.FormatBool(v.Checked)
	}
	return v.Text
}
