package dom

// WalkStatus tells Walk how to continue after visiting a node.
type WalkStatus int

const (
	// WalkContinue descends into the node's children.
	WalkContinue WalkStatus = iota
	// WalkSkipChildren skips the children; the exit event still fires.
	WalkSkipChildren
	// WalkStop ends the walk immediately.
	WalkStop
)

// Walker is called once when a node is entered and once when it is exited.
type Walker func(id NodeID, entering bool) WalkStatus

type walkFrame struct {
	id   NodeID
	next int
}

// Walk visits the subtree rooted at id depth-first in document order.
// It uses an explicit stack so arbitrarily deep trees are safe. The walker
// must not mutate the tree.
func (t *Tree) Walk(id NodeID, fn Walker) {
	if !t.Valid(id) {
		return
	}
	switch fn(id, true) {
	case WalkStop:
		return
	case WalkSkipChildren:
		fn(id, false)
		return
	}

	stack := []walkFrame{{id: id}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		children := t.nodes[top.id].children
		if top.next >= len(children) {
			stack = stack[:len(stack)-1]
			if fn(top.id, false) == WalkStop {
				return
			}
			continue
		}
		child := children[top.next]
		top.next++

		switch fn(child, true) {
		case WalkStop:
			return
		case WalkSkipChildren:
			if fn(child, false) == WalkStop {
				return
			}
		default:
			stack = append(stack, walkFrame{id: child})
		}
	}
}

// Descendants returns every element below id in document order.
func (t *Tree) Descendants(id NodeID) []NodeID {
	var out []NodeID
	t.Walk(id, func(n NodeID, entering bool) WalkStatus {
		if entering && n != id {
			out = append(out, n)
		}
		return WalkContinue
	})
	return out
}

// FindAll returns the descendants of id whose tag is one of tags, in
// document order. With no tags every descendant matches.
func (t *Tree) FindAll(id NodeID, tags ...string) []NodeID {
	if len(tags) == 0 {
		return t.Descendants(id)
	}
	var out []NodeID
	t.Walk(id, func(n NodeID, entering bool) WalkStatus {
		if entering && n != id && hasTag(t.nodes[n].tag, tags) {
			out = append(out, n)
		}
		return WalkContinue
	})
	return out
}

// FindFirst returns the first descendant of id with one of the given tags,
// or None.
func (t *Tree) FindFirst(id NodeID, tags ...string) NodeID {
	found := None
	t.Walk(id, func(n NodeID, entering bool) WalkStatus {
		if entering && n != id && (len(tags) == 0 || hasTag(t.nodes[n].tag, tags)) {
			found = n
			return WalkStop
		}
		return WalkContinue
	})
	return found
}

// Matching returns the descendants of id for which match returns true.
func (t *Tree) Matching(id NodeID, match func(NodeID) bool) []NodeID {
	var out []NodeID
	t.Walk(id, func(n NodeID, entering bool) WalkStatus {
		if entering && n != id && match(n) {
			out = append(out, n)
		}
		return WalkContinue
	})
	return out
}

func hasTag(tag string, tags []string) bool {
	for _, want := range tags {
		if tag == want {
			return true
		}
	}
	return false
}
