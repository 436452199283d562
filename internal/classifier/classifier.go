// internal/classifier/classifier.go
// Description: Scans a parsed DOM snapshot for application-form containers,
// detects which canonical fields each one carries, and scores the result.
package classifier

import (
	"strings"

	"github.com/antchfx/htmlquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/xkilldash9x/formpilot-cli/api/schemas"
	"github.com/xkilldash9x/formpilot-cli/internal/catalog"
)

// Config holds the scoring knobs. The weights and threshold are empirical
// constants with no documented derivation, so they are configurable defaults
// rather than hard-coded values.
type Config struct {
	EmailWeight  int `mapstructure:"email_weight" yaml:"email_weight"`
	CommonWeight int `mapstructure:"common_weight" yaml:"common_weight"`
	JobWeight    int `mapstructure:"job_weight" yaml:"job_weight"`
	Threshold    int `mapstructure:"threshold" yaml:"threshold"`
}

// DefaultConfig returns the tuned production weights.
func DefaultConfig() Config {
	return Config{EmailWeight: 10, CommonWeight: 5, JobWeight: 10, Threshold: 20}
}

// commonFields score CommonWeight each when present.
var commonFields = []schemas.CanonicalName{
	schemas.FieldFirstName,
	schemas.FieldLastName,
	schemas.FieldFullName,
	schemas.FieldPhone,
	schemas.FieldResume,
}

// jobFields score JobWeight each when present. Resume appears in both sets on
// purpose: a form that collects a resume is strong evidence either way.
var jobFields = []schemas.CanonicalName{
	schemas.FieldWorkAuthorization,
	schemas.FieldYearsOfExperience,
	schemas.FieldEducationLevel,
	schemas.FieldCoverLetter,
	schemas.FieldResume,
}

// applicationPhrases qualify a container as a candidate when its inner text
// mentions one of them and no structural pattern already captured it.
var applicationPhrases = []string{
	"apply",
	"application",
	"submit resume",
	"join our team",
}

// Classifier detects and scores application forms in a DOM snapshot.
type Classifier struct {
	cat    *catalog.Catalog
	cfg    Config
	logger *zap.Logger
}

// New creates a classifier over the given catalog. A nil catalog falls back to
// the built-in one.
func New(cat *catalog.Catalog, cfg Config, logger *zap.Logger) *Classifier {
	if cat == nil {
		cat = catalog.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{cat: cat, cfg: cfg, logger: logger.Named("classifier")}
}

// Classify walks the snapshot and returns one descriptor per candidate
// container, in document order. Classification is a pure function of the
// snapshot: re-running it on an unchanged page yields equal field sets.
func (c *Classifier) Classify(doc *html.Node) []*schemas.FormDescriptor {
	if doc == nil {
		return nil
	}

	labels := collectLabels(doc)
	candidates := c.findCandidates(doc)

	forms := make([]*schemas.FormDescriptor, 0, len(candidates))
	for _, container := range candidates {
		form := c.classifyContainer(container, labels)
		forms = append(forms, form)
	}

	c.logger.Debug("classification pass complete",
		zap.Int("candidates", len(candidates)),
		zap.Int("forms", len(forms)))
	return forms
}

// findCandidates returns the union of containers matching the structural
// "looks like an application form" patterns and containers whose inner text
// carries an application phrase, without double-counting.
func (c *Classifier) findCandidates(doc *html.Node) []*html.Node {
	containers := htmlquery.Find(doc, "//form | //div | //section")

	structural := make(map[*html.Node]bool)
	var candidates []*html.Node
	for _, n := range containers {
		if matchesStructuralPattern(n) {
			structural[n] = true
			candidates = append(candidates, n)
		}
	}

	for _, n := range containers {
		if structural[n] || capturedByAncestor(n, structural) {
			continue
		}
		if containsApplicationPhrase(n) && hasAnyInput(n) {
			candidates = append(candidates, n)
		}
	}
	return candidates
}

func matchesStructuralPattern(n *html.Node) bool {
	for _, key := range []string{"action", "id", "class"} {
		v := strings.ToLower(htmlquery.SelectAttr(n, key))
		if v == "" {
			continue
		}
		if strings.Contains(v, "apply") || strings.Contains(v, "application") {
			return true
		}
	}
	return false
}

func capturedByAncestor(n *html.Node, captured map[*html.Node]bool) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if captured[p] {
			return true
		}
	}
	return false
}

func containsApplicationPhrase(n *html.Node) bool {
	text := strings.ToLower(htmlquery.InnerText(n))
	for _, phrase := range applicationPhrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}

func hasAnyInput(n *html.Node) bool {
	return htmlquery.FindOne(n, ".//input | .//textarea | .//select") != nil
}

// classifyContainer runs field detection and scoring for one container.
func (c *Classifier) classifyContainer(container *html.Node, labels map[string]string) *schemas.FormDescriptor {
	inputs := extractInputs(container, labels)

	form := &schemas.FormDescriptor{
		Fields:    make(map[schemas.CanonicalName]*schemas.FieldDescriptor),
		ActionURL: htmlquery.SelectAttr(container, "action"),
		Method:    htmlquery.SelectAttr(container, "method"),
	}

	claimed := make(map[*html.Node]bool)
	type placed struct {
		name schemas.CanonicalName
		pos  int
	}
	var placements []placed

	// Catalog order decides disambiguation: the earlier canonical name claims
	// an element both could match, and at most one descriptor exists per name.
	for _, entry := range c.cat.Entries() {
		desc, pos := c.detectField(entry, inputs, claimed)
		if desc == nil {
			continue
		}
		form.Fields[entry.Name] = desc
		placements = append(placements, placed{entry.Name, pos})
	}

	// Execution order follows the form's declaration order, not catalog order.
	for i := 1; i < len(placements); i++ {
		for j := i; j > 0 && placements[j].pos < placements[j-1].pos; j-- {
			placements[j], placements[j-1] = placements[j-1], placements[j]
		}
	}
	form.Order = make([]schemas.CanonicalName, len(placements))
	for i, p := range placements {
		form.Order[i] = p.name
	}

	// Radio descriptors point at one group member; the mapper needs the whole
	// group's value/label pairs to fuzzy-match, just like select options.
	for _, desc := range form.Fields {
		if desc.Kind == schemas.KindRadio {
			desc.Options = radioGroupOptions(inputs, desc.GroupName)
		}
	}

	form.Score = c.score(form)
	form.IsApplicationForm = form.Score >= c.cfg.Threshold
	return form
}

// radioGroupOptions lists every radio in the named group as an option, using
// the resolved label as the display text (falling back to the value).
func radioGroupOptions(inputs []elementInfo, group string) []schemas.SelectOption {
	if group == "" {
		return nil
	}
	var options []schemas.SelectOption
	for i := range inputs {
		in := &inputs[i]
		if in.kind != schemas.KindRadio || in.group != group {
			continue
		}
		value := in.data.Attrs["value"]
		text := in.data.Label
		if text == "" {
			text = value
		}
		options = append(options, schemas.SelectOption{Value: value, Text: text})
	}
	return options
}

// detectField tries the entry's matchers in order against the container's
// inputs and returns the first visible, non-disabled, unclaimed match along
// with its document position. A malformed matcher is skipped for this field
// only; it never aborts classification of the container.
func (c *Classifier) detectField(entry catalog.Entry, inputs []elementInfo, claimed map[*html.Node]bool) (*schemas.FieldDescriptor, int) {
	for _, m := range entry.Matchers {
		for pos := range inputs {
			in := &inputs[pos]
			if claimed[in.node] || !in.visible || in.disabled {
				continue
			}
			ok, err := m.Matches(in.data)
			if err != nil {
				c.logger.Debug("skipping malformed matcher",
					zap.String("field", string(entry.Name)),
					zap.Error(err))
				break // next matcher; the pattern is bad for every element
			}
			if !ok {
				continue
			}

			claimed[in.node] = true
			return &schemas.FieldDescriptor{
				Name:      entry.Name,
				Ref:       elementRef(in.node),
				Kind:      in.kind,
				Required:  in.required,
				Label:     in.data.Label,
				Options:   in.options,
				GroupName: in.group,
			}, pos
		}
	}
	return nil, -1
}

// score applies the weighting. A container without an email field scores
// zero regardless of what else it carries.
func (c *Classifier) score(form *schemas.FormDescriptor) int {
	if form.Field(schemas.FieldEmail) == nil {
		return 0
	}
	score := c.cfg.EmailWeight
	for _, name := range commonFields {
		if form.Field(name) != nil {
			score += c.cfg.CommonWeight
		}
	}
	for _, name := range jobFields {
		if form.Field(name) != nil {
			score += c.cfg.JobWeight
		}
	}
	return score
}
