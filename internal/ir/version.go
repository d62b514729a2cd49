package ir

// Version constants for the generator.
const (
	// GeneratorVersion is the typegen version recorded with each generation run.
	GeneratorVersion = "0.1.0"

	// PreludeFormatVersion changes whenever emitted text would change for the same table.
	PreludeFormatVersion = "1"
)
