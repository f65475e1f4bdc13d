package enforcer

// Kind classifies a violation.
type Kind string

const (
	KindForbiddenColor    Kind = "forbidden-color"
	KindForbiddenProperty Kind = "forbidden-property"
	KindNonTransparent    Kind = "non-transparent-element"
)

// Kinds lists every violation kind in reporting order.
var Kinds = []Kind{KindForbiddenColor, KindForbiddenProperty, KindNonTransparent}

// Violation is one rule breach. Ordinal is the discovery position within
// the scan that produced it.
type Violation struct {
	ID        string   `json:"id"`
	Kind      Kind     `json:"kind"`
	Location  Location `json:"location"`
	Property  string   `json:"property"`
	Value     string   `json:"value"`
	Canonical string   `json:"canonical,omitempty"`
	Message   string   `json:"message"`
	Ordinal   int      `json:"ordinal"`
	Context   string   `json:"context,omitempty"`

	target Target
}

// Target returns the target the violation was found on.
func (v Violation) Target() Target {
	return v.target
}
