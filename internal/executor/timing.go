// internal/executor/timing.go
package executor

// TimingConfig bounds every randomized delay in the fill simulation. The
// jitter between characters and between fields is the human-pacing mechanism;
// it is kept as an explicit configurable distribution (not hidden constants)
// so tests can inject a zero-delay configuration and still exercise the same
// code path.
type TimingConfig struct {
	// Per-character delay for text-like inputs.
	CharDelayMinMs int `mapstructure:"char_delay_min_ms" yaml:"char_delay_min_ms"`
	CharDelayMaxMs int `mapstructure:"char_delay_max_ms" yaml:"char_delay_max_ms"`

	// Textareas go in fixed-size chunks for speed.
	ChunkSize       int `mapstructure:"chunk_size" yaml:"chunk_size"`
	ChunkDelayMinMs int `mapstructure:"chunk_delay_min_ms" yaml:"chunk_delay_min_ms"`
	ChunkDelayMaxMs int `mapstructure:"chunk_delay_max_ms" yaml:"chunk_delay_max_ms"`

	// Pause between consecutive fields.
	FieldDelayMinMs int `mapstructure:"field_delay_min_ms" yaml:"field_delay_min_ms"`
	FieldDelayMaxMs int `mapstructure:"field_delay_max_ms" yaml:"field_delay_max_ms"`

	// Settle time between scrolling an element into view and focusing it.
	PreFocusDelayMs int `mapstructure:"pre_focus_delay_ms" yaml:"pre_focus_delay_ms"`
}

// DefaultTiming returns the production pacing bounds.
func DefaultTiming() TimingConfig {
	return TimingConfig{
		CharDelayMinMs:  30,
		CharDelayMaxMs:  100,
		ChunkSize:       10,
		ChunkDelayMinMs: 50,
		ChunkDelayMaxMs: 150,
		FieldDelayMinMs: 100,
		FieldDelayMaxMs: 500,
		PreFocusDelayMs: 150,
	}
}
