package templates

import (
	"encoding/json"
	"strings"
)

var escapeReplacer = strings.NewReplacer(
	`\"`, `"`,
	`\n`, "\n",
	`\t`, "\t",
	`\\`, `\`,
)

// Unescape unwraps a document pasted as the body of a JSON string literal,
// such as one copied from an API response. Input without escape sequences
// is returned unchanged.
func Unescape(doc string) string {
	if !strings.Contains(doc, `\"`) && !strings.Contains(doc, `\n`) {
		return doc
	}
	var decoded string
	if err := json.Unmarshal([]byte(`"`+doc+`"`), &decoded); err == nil {
		return decoded
	}
	return escapeReplacer.Replace(doc)
}
