package rules

import (
	"fmt"

	"go.starlark.net/syntax"
)

// ValidateBuildText parses content as Starlark and returns an error if the
// generated file would not load.
func ValidateBuildText(filename, content string) error {
	if _, err := syntax.Parse(filename, content, 0); err != nil {
		return fmt.Errorf("generated %s is not valid Starlark: %w", filename, err)
	}
	return nil
}
