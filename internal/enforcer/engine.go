// Package enforcer runs the design rules over a corpus of targets, reports
// violations in discovery order, and rewrites them with a separate fix pass.
package enforcer

import (
	"fmt"
	"iter"

	"github.com/google/uuid"

	"github.com/yacobolo/uijenforce/internal/classify"
)

// State is the engine lifecycle position.
type State int

const (
	StateIdle State = iota
	StateScanning
	StateReported
	StateFixing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScanning:
		return "scanning"
	case StateReported:
		return "reported"
	case StateFixing:
		return "fixing"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Check selects rule families.
type Check uint8

const (
	CheckColors Check = 1 << iota
	CheckProperties
	CheckTransparency

	CheckAll = CheckColors | CheckProperties | CheckTransparency
)

// Option configures an Engine.
type Option func(*Engine)

// WithNotifier routes engine events to n.
func WithNotifier(n Notifier) Option {
	return func(e *Engine) {
		if n != nil {
			e.notifier = n
		}
	}
}

// WithChecks restricts the rule families evaluated by a scan.
func WithChecks(c Check) Option {
	return func(e *Engine) {
		e.checks = c
	}
}

// WithFixKinds restricts which violation kinds Fix rewrites. Others are
// reported as skipped.
func WithFixKinds(kinds ...Kind) Option {
	return func(e *Engine) {
		e.fixKinds = make(map[Kind]bool, len(kinds))
		for _, k := range kinds {
			e.fixKinds[k] = true
		}
	}
}

// WithIDGenerator replaces the violation ID source.
func WithIDGenerator(next func() string) Option {
	return func(e *Engine) {
		e.newID = next
	}
}

// Engine evaluates targets against a classifier. An Engine runs one pass at
// a time and is not safe for concurrent use.
type Engine struct {
	cls      *classify.Classifier
	checks   Check
	fixKinds map[Kind]bool
	notifier Notifier
	newID    func() string

	state   State
	ordinal int
}

// New creates an engine in the Idle state.
func New(cls *classify.Classifier, opts ...Option) *Engine {
	e := &Engine{
		cls:      cls,
		checks:   CheckAll,
		notifier: nopNotifier{},
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the lifecycle position.
func (e *Engine) State() State {
	return e.state
}

func (e *Engine) busy() bool {
	return e.state == StateScanning || e.state == StateFixing
}

// Stream evaluates corpus lazily, yielding violations in discovery order.
// Unreadable targets are yielded as *CorpusError and the walk continues.
// Stopping the iteration early ends the pass.
func (e *Engine) Stream(corpus Corpus) iter.Seq2[Violation, error] {
	return func(yield func(Violation, error) bool) {
		if e.busy() {
			yield(Violation{}, ErrBusy)
			return
		}
		e.state = StateScanning
		e.ordinal = 0
		defer func() { e.state = StateReported }()

		for t, err := range corpus {
			if err != nil {
				if !yield(Violation{}, asCorpusError(err)) {
					return
				}
				continue
			}
			if t == nil {
				continue
			}
			for _, v := range e.evaluate(t) {
				e.notifier.OnViolation(v)
				if !yield(v, nil) {
					return
				}
			}
		}
	}
}

// Scan evaluates the whole corpus and returns the report. Only a re-entrant
// call fails; unreadable targets end up in Report.Warnings.
func (e *Engine) Scan(corpus Corpus) (*Report, error) {
	if e.busy() {
		return nil, ErrBusy
	}

	report := &Report{}
	counted := func(yield func(Target, error) bool) {
		for t, err := range corpus {
			if err == nil && t != nil {
				report.Targets++
			}
			if !yield(t, err) {
				return
			}
		}
	}

	for v, err := range e.Stream(counted) {
		if err != nil {
			report.Warnings = append(report.Warnings, asCorpusError(err))
			continue
		}
		report.Violations = append(report.Violations, v)
	}
	report.scanned = true
	return report, nil
}

func (e *Engine) evaluate(t Target) []Violation {
	var out []Violation
	add := func(kind Kind, property, value, canonical, message string) {
		v := Violation{
			ID:        e.newID(),
			Kind:      kind,
			Location:  locate(t, property),
			Property:  property,
			Value:     value,
			Canonical: canonical,
			Message:   message,
			Ordinal:   e.ordinal,
			target:    t,
		}
		if c, ok := t.(Contexter); ok {
			v.Context = c.Context()
		}
		e.ordinal++
		out = append(out, v)
	}

	if e.checks&CheckColors != 0 {
		for _, prop := range classify.ColorProperties {
			value, ok := t.DeclaredValue(prop)
			if !ok {
				continue
			}
			if verdict, canonical := e.cls.CheckColor(value); verdict == classify.VerdictForbidden {
				add(KindForbiddenColor, prop, value, canonical,
					fmt.Sprintf("forbidden color %q on %s", value, prop))
			}
		}
	}

	if e.checks&CheckProperties != 0 {
		for _, prop := range e.cls.Catalog().ForbiddenProperties() {
			value, ok := t.DeclaredValue(prop)
			if !ok || !e.cls.IsForbiddenProperty(prop, value) {
				continue
			}
			add(KindForbiddenProperty, prop, value, "",
				fmt.Sprintf("forbidden property %s: %s", prop, value))
		}
	}

	if e.checks&CheckTransparency != 0 {
		if id, ok := t.(Identified); ok {
			for _, el := range id.Identities() {
				if !e.cls.RequiresTransparency(el) {
					continue
				}
				value, ok := t.DeclaredValue("background-color")
				if ok && !e.cls.IsTransparent(value) {
					add(KindNonTransparent, "background-color", value, e.cls.NormalizeColor(value),
						fmt.Sprintf("%s must have a transparent background, found %q", el, value))
				}
				break
			}
		}
	}

	return out
}

func locate(t Target, property string) Location {
	if pl, ok := t.(PropertyLocator); ok {
		return pl.LocateValue(property)
	}
	return t.Location()
}

// Fix rewrites the violations of a scanned report one at a time. A failing
// rewrite is recorded and never stops the pass. Fix does not rescan; run
// Scan again to confirm the result.
func (e *Engine) Fix(report *Report) (*FixSummary, error) {
	if e.busy() {
		return nil, ErrBusy
	}
	if !report.Scanned() {
		return nil, ErrNotScanned
	}
	e.state = StateFixing
	defer func() { e.state = StateReported }()

	summary := &FixSummary{}
	for _, v := range report.Violations {
		if e.fixKinds != nil && !e.fixKinds[v.Kind] {
			summary.Skipped = append(summary.Skipped, v)
			continue
		}
		property, value := e.rewrite(v)
		outcome := FixOutcome{Violation: v, Property: property, Value: value}

		if err := apply(v.target, property, value); err != nil {
			outcome.Err = err
			summary.Failed = append(summary.Failed, outcome)
			e.notifier.OnFixFailed(v, err)
			continue
		}
		summary.Applied = append(summary.Applied, outcome)
		e.notifier.OnFixApplied(v, value)
	}
	return summary, nil
}

// rewrite picks the replacement declaration for a violation.
func (e *Engine) rewrite(v Violation) (property, value string) {
	tokens := e.cls.Catalog().Tokens()
	switch v.Kind {
	case KindForbiddenColor:
		switch v.Property {
		case "color":
			return v.Property, tokens.MutedText
		case "border-color":
			return v.Property, tokens.Border
		default:
			return v.Property, "transparent"
		}
	case KindForbiddenProperty:
		return v.Property, "none"
	default:
		return "background-color", "transparent"
	}
}

// apply isolates one rewrite: a nil target, an error or a panic in the
// driver all become a refused mutation.
func apply(t Target, property, value string) (err error) {
	if t == nil {
		return fmt.Errorf("%w: violation has no target", ErrMutationRefused)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrMutationRefused, r)
		}
	}()
	return t.SetDeclaredValue(property, value)
}
