package templates

import (
	"regexp"
	"strings"

	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/variables"
)

var (
	reComment       = regexp.MustCompile(`<!--[\s\S]*?-->`)
	reInterTagSpace = regexp.MustCompile(`>\s+<`)
	reWhitespaceRun = regexp.MustCompile(`\s{2,}`)
)

// Minify shrinks an HTML document with plain text rules: comments are
// removed, whitespace between tags is dropped, other whitespace runs become
// a single space and the result is trimmed. Comments that overlap a
// {{placeholder}} are kept.
func Minify(doc string) string {
	out := stripComments(doc)
	out = reInterTagSpace.ReplaceAllString(out, "><")
	out = reWhitespaceRun.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

// stripComments repeats until no removable comment is left, since removing
// one comment can expose another.
func stripComments(s string) string {
	for {
		next := stripCommentsOnce(s)
		if next == s {
			return s
		}
		s = next
	}
}

func stripCommentsOnce(s string) string {
	comments := reComment.FindAllStringIndex(s, -1)
	if len(comments) == 0 {
		return s
	}
	tokens := variables.TokenPattern.FindAllStringIndex(s, -1)

	var b strings.Builder
	last := 0
	for _, c := range comments {
		if overlapsAny(c, tokens) {
			continue
		}
		b.WriteString(s[last:c[0]])
		last = c[1]
	}
	b.WriteString(s[last:])
	return b.String()
}

func overlapsAny(span []int, others [][]int) bool {
	for _, o := range others {
		if o[0] < span[1] && span[0] < o[1] {
			return true
		}
	}
	return false
}
