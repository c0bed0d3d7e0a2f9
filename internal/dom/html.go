package dom

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// htmlNode adapts an element of a parsed x/net/html tree.
type htmlNode struct {
	n *html.Node
}

// Parse reads an HTML document and returns its root element.
func Parse(r io.Reader) (Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return htmlNode{n: c}, nil
		}
	}
	return nil, fmt.Errorf("parsing HTML: no root element")
}

// ParseString is Parse over a string.
func ParseString(s string) (Node, error) {
	return Parse(strings.NewReader(s))
}

func (h htmlNode) Tag() string {
	return h.n.Data
}

func (h htmlNode) Attr(name string) (string, bool) {
	for _, a := range h.n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func (h htmlNode) Parent() Node {
	p := h.n.Parent
	if p == nil || p.Type != html.ElementNode {
		return nil
	}
	return htmlNode{n: p}
}

func (h htmlNode) Children() []Node {
	var out []Node
	for c := h.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, htmlNode{n: c})
		}
	}
	return out
}

func (h htmlNode) NextSibling() Node {
	for s := h.n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return htmlNode{n: s}
		}
	}
	return nil
}

func (h htmlNode) Text() string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(h.n)
	return sb.String()
}

// Render returns the outer HTML of n when it came from Parse, and its text
// otherwise. Used for diagnostics.
func Render(n Node) string {
	h, ok := n.(htmlNode)
	if !ok {
		return n.Text()
	}
	var sb strings.Builder
	if err := html.Render(&sb, h.n); err != nil {
		return h.Text()
	}
	return sb.String()
}
