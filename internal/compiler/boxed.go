package compiler

import (
	"errors"
	"fmt"

	"cuelang.org/go/cue"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/typegen/internal/ir"
)

// Definition keys accepted on a boxed type and on a field.
var (
	typeKeys  = map[string]bool{"inherits": true, "fields": true}
	fieldKeys = map[string]bool{"signed": true, "complexType": true, "llvmType": true}
)

// CompileTable reads every boxedType entry of a CUE value, in declaration order.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The value should be the root of a definition instance, e.g.:
//
//	boxedType: datum: {
//		fields: typeId: {llvmType: "i8", signed: false}
//	}
//	boxedType: boolean: {
//		inherits: "datum"
//		fields: value: {complexType: "bool"}
//	}
func CompileTable(v cue.Value) (*ir.Table, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	table := &ir.Table{}

	typesVal := v.LookupPath(cue.ParsePath("boxedType"))
	if !typesVal.Exists() {
		return table, nil
	}

	iter, err := typesVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	for iter.Next() {
		bt, err := CompileBoxedType(iter.Value())
		if err != nil {
			return nil, err
		}
		if err := table.Add(bt); err != nil {
			return nil, &CompileError{Field: "boxedType", Message: err.Error(), Pos: iter.Value().Pos()}
		}
	}

	return table, nil
}

// CompileBoxedType parses one boxed type. The type name is the last label of
// the value's path.
func CompileBoxedType(v cue.Value) (ir.BoxedType, error) {
	if err := v.Err(); err != nil {
		return ir.BoxedType{}, formatCUEError(err)
	}

	bt := ir.BoxedType{}

	labels := v.Path().Selectors()
	if len(labels) > 0 {
		bt.Name = labels[len(labels)-1].String()
	}

	if err := checkKeys(v, typeKeys, bt.Name); err != nil {
		return ir.BoxedType{}, err
	}

	// Parse inherits (optional)
	inheritsVal := v.LookupPath(cue.ParsePath("inherits"))
	if inheritsVal.Exists() {
		inherits, err := inheritsVal.String()
		if err != nil {
			return ir.BoxedType{}, formatCUEError(err)
		}
		bt.Inherits = inherits
	}

	// Parse fields (optional, declaration order kept)
	fieldsVal := v.LookupPath(cue.ParsePath("fields"))
	if !fieldsVal.Exists() {
		return bt, nil
	}

	iter, err := fieldsVal.Fields()
	if err != nil {
		return ir.BoxedType{}, formatCUEError(err)
	}

	for iter.Next() {
		field, err := compileField(iter.Label(), iter.Value(), bt.Name)
		if err != nil {
			return ir.BoxedType{}, err
		}
		bt.Fields = append(bt.Fields, field)
	}

	return bt, nil
}

// compileField parses a single field definition.
func compileField(name string, v cue.Value, typeName string) (ir.Field, error) {
	field := ir.Field{Name: name}
	where := typeName + ".fields." + name

	if v.IncompleteKind() != cue.StructKind {
		return field, &CompileError{
			Field:   where,
			Message: fmt.Sprintf("field definition must be a struct, got %v", v.IncompleteKind()),
			Pos:     v.Pos(),
		}
	}

	if err := checkKeys(v, fieldKeys, where); err != nil {
		return field, err
	}

	signedVal := v.LookupPath(cue.ParsePath("signed"))
	if signedVal.Exists() {
		signed, err := signedVal.Bool()
		if err != nil {
			return field, &CompileError{Field: where + ".signed", Message: "signed must be a bool", Pos: signedVal.Pos()}
		}
		field.Signed = ir.SignednessOf(&signed)
	}

	complexVal := v.LookupPath(cue.ParsePath("complexType"))
	if complexVal.Exists() {
		complexType, err := complexVal.String()
		if err != nil {
			return field, &CompileError{Field: where + ".complexType", Message: "complexType must be a string", Pos: complexVal.Pos()}
		}
		field.ComplexType = ir.ComplexType(complexType)
	}

	llvmVal := v.LookupPath(cue.ParsePath("llvmType"))
	if llvmVal.Exists() {
		llvmType, err := llvmVal.String()
		if err != nil {
			return field, &CompileError{Field: where + ".llvmType", Message: "llvmType must be a string", Pos: llvmVal.Pos()}
		}
		field.LLVMType = llvmType
	}

	return field, nil
}

// checkKeys rejects labels outside allowed (catches typos like "llvmtype").
func checkKeys(v cue.Value, allowed map[string]bool, where string) error {
	iter, err := v.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		if !allowed[iter.Label()] {
			return &CompileError{
				Field:   where,
				Message: fmt.Sprintf("unknown key %q", iter.Label()),
				Pos:     iter.Value().Pos(),
			}
		}
	}
	return nil
}

// CompileError represents a compilation error with source position.
// CUE sources carry Pos; YAML sources carry Line.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
	Line    int
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %s", e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := cueerrors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}

// IsCompileError reports whether err is or wraps a *CompileError.
func IsCompileError(err error) bool {
	var compileErr *CompileError
	return errors.As(err, &compileErr)
}
