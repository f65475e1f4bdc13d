package source

import (
	"github.com/yacobolo/uijenforce/internal/enforcer"
)

// Corpus yields the lines of each file in path order. Files are loaded one
// at a time as the sequence is consumed; a file that cannot be read is
// yielded as a *enforcer.CorpusError and the walk moves on.
func Corpus(paths []string, primaryMarkers []string) enforcer.Corpus {
	return func(yield func(enforcer.Target, error) bool) {
		for _, path := range paths {
			f, err := Load(path, primaryMarkers)
			if err != nil {
				if !yield(nil, &enforcer.CorpusError{Source: path, Err: err}) {
					return
				}
				continue
			}
			for n := 1; n <= f.Lines(); n++ {
				if !yield(f.Line(n), nil) {
					return
				}
			}
		}
	}
}
