package templates

import (
	"strings"

	ferrors "github.com/MarcosLancellotti2225/HTMLgenerator/internal/foundation/errors"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/variables"
)

// Validate returns the mandatory tokens of category that doc lacks, in table
// order. A nil result means the document may be saved.
func Validate(doc string, category variables.Category) []string {
	var missing []string
	for _, token := range variables.Mandatory(category) {
		if !strings.Contains(doc, token) {
			missing = append(missing, token)
		}
	}
	return missing
}

// ValidationError describes missing tokens for category.
func ValidationError(category variables.Category, missing []string) error {
	return ferrors.ValidationError("template is missing mandatory variables: "+strings.Join(missing, ", ")).
		WithContext("category", string(category)).
		WithContext("missing", missing).
		Build()
}
