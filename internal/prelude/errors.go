package prelude

import "fmt"

// UnresolvedComplexTypeError is returned when a field has no LLVM type
// override and its complex type tag is not recognized.
type UnresolvedComplexTypeError struct {
	Tag string
}

func (e *UnresolvedComplexTypeError) Error() string {
	return fmt.Sprintf("unknown complex type %q", e.Tag)
}
