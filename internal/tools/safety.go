package tools

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CheckMutatingOperation rejects d when the server runs read-only and d is
// not annotated as a read-only tool.
func CheckMutatingOperation(readOnly bool, d Descriptor) error {
	if !readOnly || d.ReadOnly {
		return nil
	}

	return fmt.Errorf("%w: %s operations are not allowed in read-only mode (tool %s)",
		ErrOperationNotAllowed,
		cases.Title(language.English).String(operationVerb(d.Name())),
		d.Name(),
	)
}

// operationVerb returns the leading verb of a snake_case tool name.
func operationVerb(name string) string {
	verb, _, _ := strings.Cut(name, "_")
	return verb
}
