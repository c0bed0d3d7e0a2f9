package dom

// FindAll returns the descendants of root matching p in document order.
// root itself is not considered.
func FindAll(root Node, p Predicate) []Node {
	var out []Node
	walk(root, func(n Node) bool {
		if p(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Find returns the first descendant of root matching p, or nil.
func Find(root Node, p Predicate) Node {
	var found Node
	walk(root, func(n Node) bool {
		if p(n) {
			found = n
			return false
		}
		return true
	})
	return found
}

// QuerySelector returns the first descendant of root matching a descendant
// combinator chain: the node matches the last predicate and has ancestors,
// strictly inside root, matching the earlier ones in order.
func QuerySelector(root Node, chain ...Predicate) Node {
	if len(chain) == 0 {
		return nil
	}
	last := chain[len(chain)-1]
	return Find(root, func(n Node) bool {
		return last(n) && ancestorsMatch(root, n, chain[:len(chain)-1])
	})
}

func ancestorsMatch(root, n Node, chain []Predicate) bool {
	i := len(chain) - 1
	for a := n.Parent(); i >= 0 && a != nil && !Same(a, root); a = a.Parent() {
		if chain[i](a) {
			i--
		}
	}
	return i < 0
}

// walk visits the descendants of n depth-first in document order until fn
// returns false.
func walk(n Node, fn func(Node) bool) bool {
	for _, c := range n.Children() {
		if !fn(c) {
			return false
		}
		if !walk(c, fn) {
			return false
		}
	}
	return true
}
