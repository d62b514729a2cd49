package ir

import "fmt"

// Signedness records integer signedness metadata that LLVM types do not carry.
// The zero value is Unspecified.
type Signedness int

const (
	// Unspecified means the field has no signedness semantics (bool, pointer).
	Unspecified Signedness = iota
	// Signed marks a signed integer field.
	Signed
	// Unsigned marks an unsigned integer field.
	Unsigned
)

// String returns the lower-case name of the signedness.
func (s Signedness) String() string {
	switch s {
	case Unspecified:
		return "unspecified"
	case Signed:
		return "signed"
	case Unsigned:
		return "unsigned"
	default:
		return fmt.Sprintf("Signedness(%d)", int(s))
	}
}

// SignednessOf converts an optional bool into a Signedness.
// nil maps to Unspecified.
func SignednessOf(signed *bool) Signedness {
	if signed == nil {
		return Unspecified
	}
	if *signed {
		return Signed
	}
	return Unsigned
}

// ComplexType is a domain-level type tag resolved to an LLVM fragment by the
// prelude resolver.
type ComplexType string

// Recognized complex type tags.
const (
	ComplexBool        ComplexType = "bool"
	ComplexEntryPoint  ComplexType = "entryPoint"
	ComplexUnicodeChar ComplexType = "unicodeChar"
)

// Field is one member of a boxed type.
type Field struct {
	Name        string      `json:"name"`
	Signed      Signedness  `json:"signed"`
	ComplexType ComplexType `json:"complex_type,omitempty"`
	LLVMType    string      `json:"llvm_type,omitempty"` // verbatim override, wins over ComplexType
}

// HasOverride reports whether the field carries an explicit LLVM type.
func (f Field) HasOverride() bool {
	return f.LLVMType != ""
}

// BoxedType is a named aggregate runtime type.
type BoxedType struct {
	Name     string  `json:"name"`
	Inherits string  `json:"inherits,omitempty"` // supertype name, empty for none
	Fields   []Field `json:"fields"`             // declaration order is layout order
}

// HasSupertype reports whether the type embeds a supertype.
func (b BoxedType) HasSupertype() bool {
	return b.Inherits != ""
}

// Artifact is a generated file: a relative path paired with its full content.
// Writing it anywhere is the caller's job.
type Artifact struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// Hash returns the domain-separated content hash of the artifact.
func (a Artifact) Hash() string {
	return ContentHash(a.Content)
}
