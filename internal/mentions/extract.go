// Package mentions finds the users referenced in a piece of content.
package mentions

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// mentionPattern matches @identifier tokens that do not continue a word,
// an e-mail address or another mention.
var mentionPattern = regexp.MustCompile(`(?:^|[^\w.@])@([A-Za-z0-9_-]+)`)

// Extract returns the user ids mentioned in content in order of first
// occurrence, without duplicates. Editor markup of the form
// <a class="mention" data-mention-id="ID">@handle</a> and plain @ID tokens are
// both recognised. It never fails: unparsable input yields an empty slice.
func Extract(content string) []string {
	ids := make([]string, 0)
	if strings.TrimSpace(content) == "" {
		return ids
	}

	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return ids
	}

	seen := make(map[string]struct{})
	add := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			if n.Data == "a" && hasClass(n, "mention") {
				if id, ok := attr(n, "data-mention-id"); ok {
					add(strings.TrimSpace(id))
					return
				}
			}
		case html.TextNode:
			for _, m := range mentionPattern.FindAllStringSubmatch(n.Data, -1) {
				add(m[1])
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return ids
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func hasClass(n *html.Node, class string) bool {
	v, ok := attr(n, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}
