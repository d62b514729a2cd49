package prelude

import "github.com/roach88/typegen/internal/ir"

// DefaultBaseType is the name of the base object type used in entry point signatures.
const DefaultBaseType = "any"

// Resolver maps complex type tags to LLVM type fragments.
type Resolver struct {
	// BaseType names the aggregate every boxed value can be upcast to.
	BaseType string
}

// Resolve returns the LLVM fragment for tag.
//
// The mapping is closed: tags outside bool, entryPoint, and unicodeChar
// fail with *UnresolvedComplexTypeError.
func (r Resolver) Resolve(tag ir.ComplexType) (string, error) {
	switch tag {
	case ir.ComplexBool:
		return "i8", nil
	case ir.ComplexEntryPoint:
		// Every closure takes its own environment plus one boxed argument.
		base := "%" + r.BaseType + "*"
		return base + " (%closure*, " + base + ")*", nil
	case ir.ComplexUnicodeChar:
		return "i32", nil
	default:
		return "", &UnresolvedComplexTypeError{Tag: string(tag)}
	}
}

// fieldType returns the override if set, otherwise the resolved complex type.
func (r Resolver) fieldType(f ir.Field) (string, error) {
	if f.HasOverride() {
		return f.LLVMType, nil
	}
	return r.Resolve(f.ComplexType)
}
