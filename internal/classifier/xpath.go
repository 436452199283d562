// internal/classifier/xpath.go
package classifier

import (
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// elementRef generates a unique XPath for a node in the snapshot, used as the
// non-owning handle into the live page. An element with an id anchors the path
// there; otherwise the path is absolute with 1-based sibling indices.
//
// The ref is only as durable as the page: after a re-render it may point at
// nothing, which the executor reports as a per-field error.
func elementRef(node *html.Node) string {
	if node == nil {
		return ""
	}

	var segments []string
	for n := node; n != nil && n.Type != html.DocumentNode; n = n.Parent {
		if n.Type != html.ElementNode {
			continue
		}
		tag := strings.ToLower(n.Data)
		if tag == "" {
			continue
		}

		// An id makes the rest of the ancestry irrelevant.
		if id := htmlquery.SelectAttr(n, "id"); id != "" {
			segments = append(segments, fmt.Sprintf(`//*[@id=%q]`, id))
			break
		}

		segments = append(segments, fmt.Sprintf("%s[%d]", tag, siblingIndex(n, tag)))
	}

	if len(segments) == 0 {
		return "/"
	}

	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}

	ref := strings.Join(segments, "/")
	if !strings.HasPrefix(ref, "//*") {
		ref = "/" + ref
	}
	return ref
}

// siblingIndex returns the 1-based position of n among preceding siblings
// sharing the same tag, as XPath indexing requires.
func siblingIndex(n *html.Node, tag string) int {
	index := 1
	for prev := n.PrevSibling; prev != nil; prev = prev.PrevSibling {
		if prev.Type == html.ElementNode && strings.ToLower(prev.Data) == tag {
			index++
		}
	}
	return index
}
