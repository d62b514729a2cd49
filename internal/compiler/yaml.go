package compiler

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/roach88/typegen/internal/ir"
)

// yamlField is the decoded form of one field definition.
type yamlField struct {
	Signed      *bool  `yaml:"signed"`
	ComplexType string `yaml:"complexType"`
	LLVMType    string `yaml:"llvmType"`
}

// CompileYAML parses a YAML definition document into a table.
//
// The document is walked as yaml.Node rather than decoded into Go maps, since
// mapping order is layout order:
//
//	boxedTypes:
//	  datum:
//	    fields:
//	      typeId: {llvmType: i8, signed: false}
//	  boolean:
//	    inherits: datum
//	    fields:
//	      value: {complexType: bool}
func CompileYAML(data []byte) (*ir.Table, error) {
	var doc yaml.Node
	table := &ir.Table{}

	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return table, nil
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(doc.Content) == 0 {
		return table, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, &CompileError{Field: "root", Message: "document must be a mapping", Line: root.Line}
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		if key.Value != "boxedTypes" {
			return nil, &CompileError{Field: "root", Message: fmt.Sprintf("unknown key %q", key.Value), Line: key.Line}
		}
		if isNull(val) {
			continue
		}
		if val.Kind != yaml.MappingNode {
			return nil, &CompileError{Field: "boxedTypes", Message: "must be a mapping", Line: val.Line}
		}

		for j := 0; j+1 < len(val.Content); j += 2 {
			nameNode, typeNode := val.Content[j], val.Content[j+1]
			bt, err := compileYAMLType(nameNode.Value, typeNode)
			if err != nil {
				return nil, err
			}
			if err := table.Add(bt); err != nil {
				return nil, &CompileError{Field: "boxedTypes", Message: err.Error(), Line: nameNode.Line}
			}
		}
	}

	return table, nil
}

// compileYAMLType parses one boxed type mapping. A null value is an empty type.
func compileYAMLType(name string, node *yaml.Node) (ir.BoxedType, error) {
	bt := ir.BoxedType{Name: name}
	if isNull(node) {
		return bt, nil
	}
	if node.Kind != yaml.MappingNode {
		return bt, &CompileError{Field: name, Message: "boxed type must be a mapping", Line: node.Line}
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		switch key.Value {
		case "inherits":
			if val.Kind != yaml.ScalarNode {
				return bt, &CompileError{Field: name + ".inherits", Message: "inherits must be a string", Line: val.Line}
			}
			bt.Inherits = val.Value
		case "fields":
			fields, err := compileYAMLFields(name, val)
			if err != nil {
				return bt, err
			}
			bt.Fields = fields
		default:
			return bt, &CompileError{Field: name, Message: fmt.Sprintf("unknown key %q", key.Value), Line: key.Line}
		}
	}

	return bt, nil
}

// compileYAMLFields parses the fields mapping in document order.
func compileYAMLFields(typeName string, node *yaml.Node) ([]ir.Field, error) {
	if isNull(node) {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, &CompileError{Field: typeName + ".fields", Message: "fields must be a mapping", Line: node.Line}
	}

	var fields []ir.Field
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		where := typeName + ".fields." + key.Value

		if val.Kind != yaml.MappingNode {
			return nil, &CompileError{Field: where, Message: "field definition must be a mapping", Line: val.Line}
		}
		for j := 0; j+1 < len(val.Content); j += 2 {
			if !fieldKeys[val.Content[j].Value] {
				return nil, &CompileError{
					Field:   where,
					Message: fmt.Sprintf("unknown key %q", val.Content[j].Value),
					Line:    val.Content[j].Line,
				}
			}
		}

		var decoded yamlField
		if err := val.Decode(&decoded); err != nil {
			return nil, &CompileError{Field: where, Message: err.Error(), Line: val.Line}
		}

		fields = append(fields, ir.Field{
			Name:        key.Value,
			Signed:      ir.SignednessOf(decoded.Signed),
			ComplexType: ir.ComplexType(decoded.ComplexType),
			LLVMType:    decoded.LLVMType,
		})
	}

	return fields, nil
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.Tag == "!!null"
}
