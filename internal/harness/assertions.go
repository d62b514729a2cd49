package harness

import (
	"fmt"
	"slices"
	"strings"
)

// AssertionError is returned when an expectation fails.
type AssertionError struct {
	Type     string // Expectation that failed, e.g. "contains"
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// EvaluateExpectations checks every expectation against the result.
// Returns all failures, not just the first.
func EvaluateExpectations(result *Result, expect Expectation) []error {
	var errs []error

	if expect.TypeCount != nil && result.Table.Len() != *expect.TypeCount {
		errs = append(errs, &AssertionError{
			Type:     "type_count",
			Expected: fmt.Sprintf("%d boxed type(s)", *expect.TypeCount),
			Actual:   fmt.Sprintf("%d boxed type(s)", result.Table.Len()),
		})
	}

	if codes := result.ValidationCodes(); !slices.Equal(codes, expect.Validation) {
		errs = append(errs, &AssertionError{
			Type:     "validation",
			Expected: fmt.Sprintf("%v", expect.Validation),
			Actual:   fmt.Sprintf("%v", codes),
		})
	}

	if err := assertGenerateError(result, expect.Error); err != nil {
		errs = append(errs, err)
	}

	for _, want := range expect.Contains {
		if !strings.Contains(result.Artifact.Content, want) {
			errs = append(errs, &AssertionError{
				Type:     "contains",
				Expected: fmt.Sprintf("content containing %q", want),
				Actual:   "not found in generated content",
			})
		}
	}

	return errs
}

// assertGenerateError checks the generation outcome. An empty want means
// generation must succeed; otherwise it must fail with a matching message and
// produce no content.
func assertGenerateError(result *Result, want string) error {
	got := result.GenerateErr

	switch {
	case want == "" && got != nil:
		return &AssertionError{Type: "error", Expected: "generation to succeed", Actual: got.Error()}
	case want != "" && got == nil:
		return &AssertionError{Type: "error", Expected: fmt.Sprintf("error containing %q", want), Actual: "generation succeeded"}
	case want != "" && !strings.Contains(got.Error(), want):
		return &AssertionError{Type: "error", Expected: fmt.Sprintf("error containing %q", want), Actual: got.Error()}
	case want != "" && result.Artifact.Content != "":
		return &AssertionError{Type: "error", Expected: "no content on failure", Actual: fmt.Sprintf("%d byte(s) of content", len(result.Artifact.Content))}
	}
	return nil
}
