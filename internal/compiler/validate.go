package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/typegen/internal/ir"
	"github.com/roach88/typegen/internal/prelude"
)

// Validation error codes (E200-E299)
const (
	ErrUndefinedSupertype = "E201" // inherits names a type not in the table
	ErrDuplicateField     = "E202" // duplicate field name within a type
	ErrInheritanceCycle   = "E203" // type is (transitively) its own supertype
	ErrUnresolvableField  = "E204" // no llvmType and no recognized complexType
	ErrEmptyName          = "E205" // empty type or field name
)

// ValidationError represents a definition validation error.
type ValidationError struct {
	Field   string   `json:"field"`
	Message string   `json:"message"`
	Code    string   `json:"code"`
	Path    []string `json:"path,omitempty"` // cycle path for E203
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a table for problems the prelude generator does not guard
// against. Returns all errors found (does not fail-fast), in table order.
func Validate(table *ir.Table) []ValidationError {
	var errs []ValidationError
	resolver := prelude.Resolver{}

	for _, bt := range table.Types() {
		// E205: type name required
		if strings.TrimSpace(bt.Name) == "" {
			errs = append(errs, ValidationError{
				Field:   "boxedType",
				Message: "type name must be non-empty",
				Code:    ErrEmptyName,
			})
		}

		// E201: supertype must exist
		if bt.HasSupertype() {
			if _, ok := table.Lookup(bt.Inherits); !ok {
				errs = append(errs, ValidationError{
					Field:   bt.Name + ".inherits",
					Message: fmt.Sprintf("supertype %q is not defined", bt.Inherits),
					Code:    ErrUndefinedSupertype,
				})
			}
		}

		seen := make(map[string]bool, len(bt.Fields))
		for i, f := range bt.Fields {
			fieldPath := fmt.Sprintf("%s.fields[%d]", bt.Name, i)

			// E205: field name required
			if strings.TrimSpace(f.Name) == "" {
				errs = append(errs, ValidationError{
					Field:   fieldPath,
					Message: "field name must be non-empty",
					Code:    ErrEmptyName,
				})
			}

			// E202: duplicate field name
			if seen[f.Name] {
				errs = append(errs, ValidationError{
					Field:   fieldPath,
					Message: fmt.Sprintf("duplicate field name: %q", f.Name),
					Code:    ErrDuplicateField,
				})
			}
			seen[f.Name] = true

			// E204: field must resolve to an LLVM type
			if !f.HasOverride() {
				if _, err := resolver.Resolve(f.ComplexType); err != nil {
					errs = append(errs, ValidationError{
						Field:   fieldPath,
						Message: fmt.Sprintf("field %q has no llvmType and %v", f.Name, err),
						Code:    ErrUnresolvableField,
					})
				}
			}
		}
	}

	// E203: inheritance cycles
	for _, cycle := range FindInheritanceCycles(table) {
		errs = append(errs, ValidationError{
			Field:   cycle[0] + ".inherits",
			Message: "inheritance cycle: " + strings.Join(cycle, " → "),
			Code:    ErrInheritanceCycle,
			Path:    cycle,
		})
	}

	return errs
}
