package predict

import (
	"fmt"
	"strings"
)

// SchemaError indicates a prediction row that does not match the input schema
// recorded with the transformer.
type SchemaError struct {
	Expected []Column
	Got      []Column
	Reason   string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema mismatch: %s (expected %s, got %s)", e.Reason, describe(e.Expected), describe(e.Got))
}

func describe(cols []Column) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = c.Name + ":" + string(c.Kind)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// UnknownCategoryError indicates a categorical value the encoder was not
// fitted on.
type UnknownCategoryError struct {
	Column string
	Value  string
	Known  []string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown category %q for %s (known: %s)", e.Value, e.Column, strings.Join(e.Known, ", "))
}

// ArtifactError indicates a transformer or model file that cannot be used.
// It is fatal at startup.
type ArtifactError struct {
	Artifact string
	Path     string
	Err      error
}

func (e *ArtifactError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s artifact: %v", e.Artifact, e.Err)
	}
	return fmt.Sprintf("%s artifact %s: %v", e.Artifact, e.Path, e.Err)
}

func (e *ArtifactError) Unwrap() error { return e.Err }

// InputError indicates a field value outside the choices offered to the user.
type InputError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}
