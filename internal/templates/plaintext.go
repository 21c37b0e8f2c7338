package templates

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// PlainText renders doc as text/plain: markup is dropped, head content is
// skipped and each non-blank line is trimmed.
func PlainText(doc string) string {
	cleaned := html.UnescapeString(plainTextSanitizer().Sanitize(doc))

	var lines []string
	for _, line := range strings.Split(cleaned, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			lines = append(lines, t)
		}
	}
	return strings.Join(lines, "\n")
}

func plainTextSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.SkipElementsContent("head", "title", "style", "script")
		textPolicy = policy
	})
	return textPolicy
}
