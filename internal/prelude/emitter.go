package prelude

import (
	"fmt"
	"strings"

	"github.com/roach88/typegen/internal/ir"
)

// DefaultGenerator is the tool name written into the banner.
const DefaultGenerator = "typegen"

// DefaultPath is where the prelude lives relative to the project root.
const DefaultPath = "compiler/src/main/resources/generated/boxedTypes.ll"

// Config controls prelude generation.
type Config struct {
	BaseType  string // base object type for entry point signatures
	Generator string // name in the "generated by" banner
	Path      string // artifact path
}

// DefaultConfig returns the configuration used when no flags are given.
func DefaultConfig() Config {
	return Config{
		BaseType:  DefaultBaseType,
		Generator: DefaultGenerator,
		Path:      DefaultPath,
	}
}

// withDefaults fills empty fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.BaseType == "" {
		c.BaseType = d.BaseType
	}
	if c.Generator == "" {
		c.Generator = d.Generator
	}
	if c.Path == "" {
		c.Path = d.Path
	}
	return c
}

// Generate renders the prelude for every type in the table, in table order.
//
// If any field cannot be resolved, no artifact is returned. The error wraps
// *UnresolvedComplexTypeError with the type and field that failed.
func Generate(table *ir.Table, cfg Config) (ir.Artifact, error) {
	cfg = cfg.withDefaults()
	resolver := Resolver{BaseType: cfg.BaseType}

	var out strings.Builder
	writeBanner(&out, cfg.Generator)

	for _, bt := range table.Types() {
		if err := writeType(&out, resolver, bt); err != nil {
			return ir.Artifact{}, err
		}
	}

	// Every block ends in a blank line; drop the last newline so the file does not.
	content := strings.TrimSuffix(out.String(), "\n")

	return ir.Artifact{Path: cfg.Path, Content: content}, nil
}

// writeBanner writes the three-line banner and a blank line.
// The border is as wide as the message line.
func writeBanner(out *strings.Builder, generator string) {
	msg := ";; This file is generated by " + generator + ". Do not edit manually. ;;"
	border := strings.Repeat(";", len(msg))

	out.WriteString(border + "\n")
	out.WriteString(msg + "\n")
	out.WriteString(border + "\n\n")
}

// writeType writes the doc comment and declaration for one boxed type.
func writeType(out *strings.Builder, resolver Resolver, bt ir.BoxedType) error {
	docs := make([]string, 0, len(bt.Fields)+1)
	irTypes := make([]string, 0, len(bt.Fields)+1)

	if bt.HasSupertype() {
		docs = append(docs, "supertype")
		irTypes = append(irTypes, "%"+bt.Inherits)
	}

	for _, f := range bt.Fields {
		llvmType, err := resolver.fieldType(f)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", bt.Name, f.Name, err)
		}
		docs = append(docs, fieldDoc(f))
		irTypes = append(irTypes, llvmType)
	}

	out.WriteString("; {" + strings.Join(docs, ", ") + "}\n")
	out.WriteString("%" + bt.Name + " = type {" + strings.Join(irTypes, ", ") + "}\n\n")
	return nil
}

// fieldDoc returns the field name with its signedness prefix.
// Only bool fields are labeled when signedness is unspecified.
func fieldDoc(f ir.Field) string {
	switch f.Signed {
	case ir.Signed:
		return "signed " + f.Name
	case ir.Unsigned:
		return "unsigned " + f.Name
	}
	if f.ComplexType == ir.ComplexBool {
		return "bool " + f.Name
	}
	return f.Name
}
