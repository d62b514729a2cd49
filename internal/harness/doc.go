// Package harness runs prelude generation scenarios.
//
// A scenario names a definition file, an optional generator configuration,
// and the outcome expected from loading, validating, and generating:
//
//	name: runtime_core
//	description: "Core runtime types generate with default settings"
//	definitions: ../defs/runtime.cue
//	config:
//	  base_type: any
//	  generator: typegen
//	expect:
//	  type_count: 4
//	  contains:
//	    - "%closure = type {%datum, %any* (%closure*, %any*)*, i64}"
//	  golden: true
//
// Definitions are a .cue or .yaml file, or a directory of .cue files loaded
// as one instance. Paths are resolved relative to the scenario file. With
// expect.golden the generated artifact is compared byte for byte against
// testdata/golden/<name>.golden (regenerate with -update).
//
// # Expectations
//
//   - type_count: number of boxed types in the loaded table
//   - validation: validation error codes, in reported order
//   - error: substring of the generation error; content must be empty
//   - contains: substrings of the generated content
//   - golden: compare content against the golden file
package harness
