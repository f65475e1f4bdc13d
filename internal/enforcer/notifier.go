package enforcer

// Notifier receives engine events as they happen.
type Notifier interface {
	OnViolation(v Violation)
	OnFixApplied(v Violation, value string)
	OnFixFailed(v Violation, err error)
}

// NotifierFuncs adapts plain functions to Notifier. Nil fields are skipped.
type NotifierFuncs struct {
	Violation  func(Violation)
	FixApplied func(Violation, string)
	FixFailed  func(Violation, error)
}

func (n NotifierFuncs) OnViolation(v Violation) {
	if n.Violation != nil {
		n.Violation(v)
	}
}

func (n NotifierFuncs) OnFixApplied(v Violation, value string) {
	if n.FixApplied != nil {
		n.FixApplied(v, value)
	}
}

func (n NotifierFuncs) OnFixFailed(v Violation, err error) {
	if n.FixFailed != nil {
		n.FixFailed(v, err)
	}
}

type nopNotifier struct{}

func (nopNotifier) OnViolation(Violation)          {}
func (nopNotifier) OnFixApplied(Violation, string) {}
func (nopNotifier) OnFixFailed(Violation, error)   {}
