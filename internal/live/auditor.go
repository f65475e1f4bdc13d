// Package live keeps an element tree compliant while it changes. An
// Auditor audits the whole tree once, then re-audits the subtree behind
// every mutation notification, optionally fixing what it finds.
package live

import (
	"github.com/yacobolo/uijenforce/internal/dom"
	"github.com/yacobolo/uijenforce/internal/enforcer"
)

// Pass is the outcome of one audit. Trigger is nil for a full audit.
type Pass struct {
	Trigger *dom.Mutation
	Report  *enforcer.Report
	Fixes   *enforcer.FixSummary
	Err     error
}

// Option configures an Auditor.
type Option func(*Auditor)

// WithAutoFix makes every pass rewrite the violations it finds.
func WithAutoFix(enabled bool) Option {
	return func(a *Auditor) {
		a.autofix = enabled
	}
}

// WithPassHook calls fn after every pass.
func WithPassHook(fn func(Pass)) Option {
	return func(a *Auditor) {
		a.onPass = fn
	}
}

// Auditor audits a document as it mutates. It is not safe for concurrent
// use; drive the document and the auditor from one goroutine.
//
// Notifications that arrive while a pass runs are queued and drained after
// it, in arrival order. An element rewritten by a fix is re-audited once
// without fixing, so a fix can never trigger another fix of its own.
type Auditor struct {
	doc     *dom.Document
	engine  *enforcer.Engine
	autofix bool
	onPass  func(Pass)

	cancel   func()
	busy     bool
	draining bool
	queue    []dom.Mutation
	settling map[*dom.Element]bool

	lastReport *enforcer.Report
	lastFixes  *enforcer.FixSummary
}

// New returns an auditor for doc. It does nothing until Start.
func New(doc *dom.Document, engine *enforcer.Engine, opts ...Option) *Auditor {
	a := &Auditor{
		doc:      doc,
		engine:   engine,
		settling: make(map[*dom.Element]bool),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Start subscribes to the document and runs a full audit.
func (a *Auditor) Start() (Pass, error) {
	if a.cancel == nil {
		a.cancel = a.doc.Observe(a.handle)
	}
	return a.AuditAll()
}

// Stop unsubscribes. Queued notifications are dropped.
func (a *Auditor) Stop() {
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.queue = nil
}

// AuditAll audits every element of the document.
func (a *Auditor) AuditAll() (Pass, error) {
	if a.busy {
		return Pass{}, enforcer.ErrBusy
	}
	p := a.run(nil, dom.Targets(a.doc.Root()), a.autofix)
	a.drain()
	return p, p.Err
}

// LastReport returns the report of the most recent pass, nil before the
// first one.
func (a *Auditor) LastReport() *enforcer.Report {
	return a.lastReport
}

// LastFixes returns the fix summary of the most recent fixing pass.
func (a *Auditor) LastFixes() *enforcer.FixSummary {
	return a.lastFixes
}

func (a *Auditor) handle(m dom.Mutation) {
	a.queue = append(a.queue, m)
	if a.busy || a.draining {
		return
	}
	a.drain()
}

func (a *Auditor) drain() {
	a.draining = true
	defer func() { a.draining = false }()

	for len(a.queue) > 0 {
		m := a.queue[0]
		a.queue = a.queue[1:]
		a.audit(m)
	}
}

func (a *Auditor) audit(m dom.Mutation) {
	el := m.Target
	if el == nil || el == a.doc.Root() || !el.Connected() {
		return
	}

	fix := a.autofix
	if a.settling[el] {
		delete(a.settling, el)
		fix = false
	}

	corpus := enforcer.Targets(dom.NewTarget(el))
	if m.Kind == dom.ChildAdded {
		corpus = dom.Targets(el)
	}
	a.run(&m, corpus, fix)
}

func (a *Auditor) run(trigger *dom.Mutation, corpus enforcer.Corpus, fix bool) Pass {
	a.busy = true
	defer func() { a.busy = false }()

	p := Pass{Trigger: trigger}
	defer func() {
		if a.onPass != nil {
			a.onPass(p)
		}
	}()

	report, err := a.engine.Scan(corpus)
	if err != nil {
		p.Err = err
		return p
	}
	p.Report = report
	a.lastReport = report
	if !fix || report.Clean() {
		return p
	}

	summary, err := a.engine.Fix(report)
	if err != nil {
		p.Err = err
		return p
	}
	p.Fixes = summary
	a.lastFixes = summary
	for _, o := range summary.Applied {
		if t, ok := o.Violation.Target().(dom.Target); ok {
			a.settling[t.Element()] = true
		}
	}
	return p
}
