// Package dom is the read-only document tree the extractor walks. Node is
// deliberately small so that a live DOM, a parsed HTML snapshot or a test
// fixture can all provide it.
package dom

// Node is an element in a document tree.
type Node interface {
	// Tag returns the lower-case element name.
	Tag() string
	// Attr returns the value of the named attribute.
	Attr(name string) (string, bool)
	// Parent returns the parent element, or nil at the top of the tree.
	Parent() Node
	// Children returns the element children in document order.
	Children() []Node
	// NextSibling returns the next element sibling, or nil.
	NextSibling() Node
	// Text returns the concatenated text content of the subtree.
	Text() string
}

// Predicate selects nodes.
type Predicate func(Node) bool

// Tag matches elements with the given name.
func Tag(name string) Predicate {
	return func(n Node) bool { return n.Tag() == name }
}

// HasAttr matches elements carrying the named attribute.
func HasAttr(name string) Predicate {
	return func(n Node) bool {
		_, ok := n.Attr(name)
		return ok
	}
}

// And matches when every predicate matches.
func And(preds ...Predicate) Predicate {
	return func(n Node) bool {
		for _, p := range preds {
			if !p(n) {
				return false
			}
		}
		return true
	}
}

// Not inverts p.
func Not(p Predicate) Predicate {
	return func(n Node) bool { return !p(n) }
}

// ChildOf matches nodes whose parent matches p.
func ChildOf(p Predicate) Predicate {
	return func(n Node) bool {
		parent := n.Parent()
		return parent != nil && p(parent)
	}
}

// FirstChild matches nodes that are the first element child of their parent.
func FirstChild(n Node) bool {
	parent := n.Parent()
	if parent == nil {
		return false
	}
	children := parent.Children()
	return len(children) > 0 && Same(children[0], n)
}

// Contains matches nodes with at least one descendant matching p.
func Contains(p Predicate) Predicate {
	return func(n Node) bool { return Find(n, p) != nil }
}

// Same reports whether a and b are the same element. Node implementations
// must be comparable with ==.
func Same(a, b Node) bool {
	return a == b
}
