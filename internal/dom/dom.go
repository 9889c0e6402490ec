package dom

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ErrNotFound is matched by every NotFoundError
var ErrNotFound = errors.New("node not found")

// NotFoundError reports a class (or pattern) missing from the searched subtree
type NotFoundError struct {
	Class string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s missing", e.Class)
}

// Is lets errors.Is(err, ErrNotFound) match any NotFoundError
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// FindByClass returns the first descendant of root, in depth-first pre-order,
// whose class attribute contains class. The root itself is not considered.
func FindByClass(root *goquery.Selection, class string) (*goquery.Selection, error) {
	if root == nil {
		return nil, &NotFoundError{Class: class}
	}
	for _, n := range root.Nodes {
		if found := findByClass(n, class); found != nil {
			return root.FindNodes(found), nil
		}
	}
	return nil, &NotFoundError{Class: class}
}

// Lookup is FindByClass for callers that only care whether the node exists
func Lookup(root *goquery.Selection, class string) (*goquery.Selection, bool) {
	sel, err := FindByClass(root, class)
	return sel, err == nil
}

// FindAllByClass returns every descendant carrying class, in document order
func FindAllByClass(root *goquery.Selection, class string) *goquery.Selection {
	return root.Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.HasClass(class)
	})
}

func findByClass(n *html.Node, class string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if hasClass(c, class) {
			return c
		}
		if found := findByClass(c, class); found != nil {
			return found
		}
	}
	return nil
}

func hasClass(n *html.Node, class string) bool {
	for _, token := range classTokens(n) {
		if token == class {
			return true
		}
	}
	return false
}

func classTokens(n *html.Node) []string {
	for _, attr := range n.Attr {
		if attr.Key == "class" {
			return strings.Fields(attr.Val)
		}
	}
	return nil
}

// ClassStartsWith reports whether any class token on the first node of sel
// starts with prefix. Round and column numbers are encoded as suffixes of a
// shared prefix, e.g. bracket-cell-r1.
func ClassStartsWith(prefix string, sel *goquery.Selection) bool {
	if sel == nil || len(sel.Nodes) == 0 {
		return false
	}
	for _, token := range classTokens(sel.Nodes[0]) {
		if strings.HasPrefix(token, prefix) {
			return true
		}
	}
	return false
}

// NextElement returns the next sibling that is an element, skipping text,
// whitespace and comments. The second result is false at the end of the list.
func NextElement(sel *goquery.Selection) (*goquery.Selection, bool) {
	if sel == nil || len(sel.Nodes) == 0 {
		return nil, false
	}
	for n := sel.Nodes[0].NextSibling; n != nil; n = n.NextSibling {
		if n.Type == html.ElementNode {
			return sel.Siblings().FilterNodes(n), true
		}
	}
	return nil, false
}

// Text returns the whitespace-normalized text of sel
func Text(sel *goquery.Selection) string {
	if sel == nil {
		return ""
	}
	return normalizeSpace(sel.Text())
}

// OwnText returns the concatenated text of sel's direct text children
func OwnText(sel *goquery.Selection) string {
	if sel == nil || len(sel.Nodes) == 0 {
		return ""
	}
	var b strings.Builder
	for c := sel.Nodes[0].FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return normalizeSpace(b.String())
}

// FirstText returns the first non-blank text node below sel in document order
func FirstText(sel *goquery.Selection) string {
	if sel == nil {
		return ""
	}
	for _, n := range sel.Nodes {
		if text := firstText(n); text != "" {
			return text
		}
	}
	return ""
}

func firstText(n *html.Node) string {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if text := normalizeSpace(c.Data); text != "" {
				return text
			}
		case html.ElementNode:
			if text := firstText(c); text != "" {
				return text
			}
		}
	}
	return ""
}

// normalizeSpace collapses whitespace runs; strings.Fields treats U+00A0 as space.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// IsBold reports whether sel carries an inline bold font weight
func IsBold(sel *goquery.Selection) bool {
	style, ok := sel.Attr("style")
	if !ok {
		return false
	}
	style = strings.ToLower(strings.ReplaceAll(style, " ", ""))
	return strings.Contains(style, "font-weight:bold") || strings.Contains(style, "font-weight:700")
}

// Cells returns the td and th children of a table row in source order
func Cells(row *goquery.Selection) *goquery.Selection {
	return row.ChildrenFiltered("td, th")
}
