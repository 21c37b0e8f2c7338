package templates

import (
	"strings"

	"golang.org/x/net/html"
)

// selector matches a single element. Selectors are combined with first
// when a rule has fallbacks.
type selector func(*html.Node) bool

func tag(name string) selector {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == name
	}
}

func (s selector) and(others ...selector) selector {
	return func(n *html.Node) bool {
		if !s(n) {
			return false
		}
		for _, o := range others {
			if !o(n) {
				return false
			}
		}
		return true
	}
}

func attrEquals(key, val string) selector {
	return func(n *html.Node) bool {
		v, ok := lookupAttr(n, key)
		return ok && v == val
	}
}

func attrContains(key, sub string) selector {
	return func(n *html.Node) bool {
		v, ok := lookupAttr(n, key)
		return ok && strings.Contains(v, sub)
	}
}

func hasAttr(key string) selector {
	return func(n *html.Node) bool {
		_, ok := lookupAttr(n, key)
		return ok
	}
}

func class(name string) selector {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && hasClass(n, name)
	}
}

func anyOf(sels ...selector) selector {
	return func(n *html.Node) bool {
		for _, s := range sels {
			if s(n) {
				return true
			}
		}
		return false
	}
}

// walk visits n and its descendants in document order. Returning false from
// visit skips the children of the current node.
func walk(n *html.Node, visit func(*html.Node) bool) {
	if !visit(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

// queryAll returns the descendants of root matching sel, in document order.
// root itself is not considered.
func queryAll(root *html.Node, sel selector) []*html.Node {
	var out []*html.Node
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		walk(c, func(n *html.Node) bool {
			if sel(n) {
				out = append(out, n)
			}
			return true
		})
	}
	return out
}

// query returns the first descendant of root matching sel.
func query(root *html.Node, sel selector) *html.Node {
	var found *html.Node
	for c := root.FirstChild; c != nil && found == nil; c = c.NextSibling {
		walk(c, func(n *html.Node) bool {
			if found != nil {
				return false
			}
			if sel(n) {
				found = n
				return false
			}
			return true
		})
	}
	return found
}

// first tries each selector in turn and returns the first hit.
func first(root *html.Node, sels ...selector) *html.Node {
	for _, s := range sels {
		if n := query(root, s); n != nil {
			return n
		}
	}
	return nil
}

func lookupAttr(n *html.Node, key string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}

func getAttr(n *html.Node, key string) string {
	v, _ := lookupAttr(n, key)
	return v
}

func hasClass(n *html.Node, name string) bool {
	return strings.Contains(" "+strings.Join(strings.Fields(getAttr(n, "class")), " ")+" ", " "+name+" ")
}

// textContent concatenates every text node below n without trimming.
func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}

	var text strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		text.WriteString(textContent(c))
	}
	return text.String()
}
