package enforcer

import (
	"errors"
	"fmt"
)

var (
	// ErrMutationRefused marks a rewrite the target declined.
	ErrMutationRefused = errors.New("mutation refused")
	// ErrBusy is returned when a pass starts while another is running.
	ErrBusy = errors.New("engine is busy with another pass")
	// ErrNotScanned is returned by Fix for a report no scan produced.
	ErrNotScanned = errors.New("report was not produced by a scan")
)

// CorpusError is a target that could not be read. It is collected as a
// warning and never counted as a violation.
type CorpusError struct {
	Source string
	Err    error
}

func (e *CorpusError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *CorpusError) Unwrap() error {
	return e.Err
}

func asCorpusError(err error) *CorpusError {
	var ce *CorpusError
	if errors.As(err, &ce) {
		return ce
	}
	return &CorpusError{Source: "corpus", Err: err}
}
