package schemas

import "time"

// -- Fill Options --

// FillOptions controls one auto-fill execution.
type FillOptions struct {
	// SkipOptional leaves non-required fields untouched.
	SkipOptional bool `json:"skip_optional"`
	// SkipDemographics leaves the self-identification fields untouched.
	// Defaults to true in configuration.
	SkipDemographics bool `json:"skip_demographics"`
	// FocusFirst scrolls to and focuses the first field before filling begins.
	FocusFirst bool `json:"focus_first"`
}

// -- Fill Results --

// FilledField records one successfully filled input.
type FilledField struct {
	Name      CanonicalName `json:"name"`
	Label     string        `json:"label"`
	Value     string        `json:"value"`
	Timestamp time.Time     `json:"timestamp"`
}

// FieldError records one failed input. A field error never aborts the run.
type FieldError struct {
	Name    CanonicalName `json:"name"`
	Label   string        `json:"label"`
	Message string        `json:"message"`
}

// FillResult is the outcome of one execution. It is created once per fill
// session and immutable after the executor returns it.
type FillResult struct {
	SessionID    string        `json:"session_id"`
	FilledFields []FilledField `json:"filled_fields"`
	Errors       []FieldError  `json:"errors"`
	FilledCount  int           `json:"filled_count"`
	ErrorCount   int           `json:"error_count"`
	// Success is true when no per-field errors occurred. Skipped fields do
	// not count against success.
	Success bool `json:"success"`
	// Stopped is true when a cooperative stop ended the run early.
	Stopped bool `json:"stopped"`
}

// FillLogEntry is the persisted audit record derived from a FillResult.
// Entries live in a capped, most-recent-first log.
type FillLogEntry struct {
	SessionID   string      `json:"session_id"`
	URL         string      `json:"url"`
	Domain      string      `json:"domain"`
	Timestamp   time.Time   `json:"timestamp"`
	Options     FillOptions `json:"options"`
	FilledCount int         `json:"filled_count"`
	ErrorCount  int         `json:"error_count"`
	Success     bool        `json:"success"`
}

// -- Previews and Reports --

// FieldPreview describes what one field would receive, without touching the
// page. Sensitive values arrive masked.
type FieldPreview struct {
	Name     CanonicalName `json:"name"`
	Label    string        `json:"label"`
	Required bool          `json:"required"`
	// WillFill is false when no value is available or skip rules apply.
	WillFill bool   `json:"will_fill"`
	Value    string `json:"value"`
	Masked   bool   `json:"masked"`
}

// FormSummary is a compact description of one classified form.
type FormSummary struct {
	Index             int             `json:"index"`
	Score             int             `json:"score"`
	IsApplicationForm bool            `json:"is_application_form"`
	FieldCount        int             `json:"field_count"`
	RequiredCount     int             `json:"required_count"`
	FieldNames        []CanonicalName `json:"field_names"`
}

// InitReport is returned by the orchestrator's initialize step.
type InitReport struct {
	FormsFound  int          `json:"forms_found"`
	CurrentForm *FormSummary `json:"current_form,omitempty"`
}

// MissingField identifies a required field with no usable value.
type MissingField struct {
	Name  CanonicalName `json:"name"`
	Label string        `json:"label"`
}

// -- Notifications --

// Notification is the fire-and-forget outcome message sent to the host
// messaging channel after a fill session.
type Notification struct {
	Event       string `json:"event"`
	URL         string `json:"url"`
	FilledCount int    `json:"filledCount"`
	Success     bool   `json:"success"`
}
