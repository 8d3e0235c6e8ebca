// Package dom provides the mutable document tree the conversion pipeline
// operates on.
//
// Nodes live in an arena owned by the Tree and are addressed by NodeID
// handles. Each element carries its own leading text (before the first
// child) and its tail text (after the element, before the next sibling),
// so a tree holds no separate text nodes.
package dom

import (
	"strings"
)

// NodeID is a stable handle to a node inside a Tree.
type NodeID int32

// None is the null handle.
const None NodeID = -1

// Attr is a single attribute. Keys are stored lower-cased.
type Attr struct {
	Key string
	Val string
}

type node struct {
	tag      string
	attrs    []Attr
	text     string
	tail     string
	parent   NodeID
	children []NodeID
}

// Tree is an arena of nodes with exactly one root.
type Tree struct {
	nodes []node
	root  NodeID
}

// New creates a tree holding only an empty root element.
func New(rootTag string) *Tree {
	t := &Tree{}
	t.root = t.NewElement(rootTag)
	return t
}

// Root returns the root handle.
func (t *Tree) Root() NodeID {
	return t.root
}

// Len returns the number of nodes ever allocated, attached or not.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Valid reports whether id refers to a node of this tree.
func (t *Tree) Valid(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes)
}

// Body returns the first body element, or the root when there is none.
func (t *Tree) Body() NodeID {
	if b := t.FindFirst(t.root, "body"); b != None {
		return b
	}
	return t.root
}

// NewElement allocates a detached element.
func (t *Tree) NewElement(tag string, attrs ...Attr) NodeID {
	id := NodeID(len(t.nodes))
	n := node{tag: strings.ToLower(tag), parent: None}
	for _, a := range attrs {
		n.attrs = append(n.attrs, Attr{Key: strings.ToLower(a.Key), Val: a.Val})
	}
	t.nodes = append(t.nodes, n)
	return id
}

// Clone returns a deep copy that shares no mutable state with t.
func (t *Tree) Clone() *Tree {
	c := &Tree{root: t.root, nodes: make([]node, len(t.nodes))}
	for i, n := range t.nodes {
		cp := n
		cp.attrs = append([]Attr(nil), n.attrs...)
		cp.children = append([]NodeID(nil), n.children...)
		c.nodes[i] = cp
	}
	return c
}

// --- Accessors ---

// Tag returns the lower-cased tag name.
func (t *Tree) Tag(id NodeID) string {
	if !t.Valid(id) {
		return ""
	}
	return t.nodes[id].tag
}

// SetTag renames an element.
func (t *Tree) SetTag(id NodeID, tag string) {
	if t.Valid(id) {
		t.nodes[id].tag = strings.ToLower(tag)
	}
}

// Text returns the element's own leading text.
func (t *Tree) Text(id NodeID) string {
	if !t.Valid(id) {
		return ""
	}
	return t.nodes[id].text
}

// SetText replaces the element's own leading text.
func (t *Tree) SetText(id NodeID, s string) {
	if t.Valid(id) {
		t.nodes[id].text = s
	}
}

// Tail returns the text that follows the element inside its parent.
func (t *Tree) Tail(id NodeID) string {
	if !t.Valid(id) {
		return ""
	}
	return t.nodes[id].tail
}

// SetTail replaces the element's tail text. The root never has a tail.
func (t *Tree) SetTail(id NodeID, s string) {
	if t.Valid(id) && id != t.root {
		t.nodes[id].tail = s
	}
}

// Attrs returns the element's attributes in source order.
// The returned slice must not be modified.
func (t *Tree) Attrs(id NodeID) []Attr {
	if !t.Valid(id) {
		return nil
	}
	return t.nodes[id].attrs
}

// Attr looks up an attribute by case-insensitive name.
func (t *Tree) Attr(id NodeID, key string) (string, bool) {
	if !t.Valid(id) {
		return "", false
	}
	for _, a := range t.nodes[id].attrs {
		if strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets an attribute, replacing an existing one with the same name.
func (t *Tree) SetAttr(id NodeID, key, val string) {
	if !t.Valid(id) {
		return
	}
	n := &t.nodes[id]
	for i, a := range n.attrs {
		if strings.EqualFold(a.Key, key) {
			n.attrs[i].Val = val
			return
		}
	}
	n.attrs = append(n.attrs, Attr{Key: strings.ToLower(key), Val: val})
}

// RemoveAttr deletes an attribute if present.
func (t *Tree) RemoveAttr(id NodeID, key string) {
	if !t.Valid(id) {
		return
	}
	n := &t.nodes[id]
	for i, a := range n.attrs {
		if strings.EqualFold(a.Key, key) {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			return
		}
	}
}

// ClassContains reports whether the class attribute contains sub,
// compared case-insensitively.
func (t *Tree) ClassContains(id NodeID, sub string) bool {
	class, ok := t.Attr(id, "class")
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(class), strings.ToLower(sub))
}

// --- Navigation ---

// Parent returns the parent handle, or None for the root and detached nodes.
func (t *Tree) Parent(id NodeID) NodeID {
	if !t.Valid(id) {
		return None
	}
	return t.nodes[id].parent
}

// Children returns the child handles. The returned slice must not be
// modified and is only valid until the next mutation of id.
func (t *Tree) Children(id NodeID) []NodeID {
	if !t.Valid(id) {
		return nil
	}
	return t.nodes[id].children
}

// FirstChild returns the first child or None.
func (t *Tree) FirstChild(id NodeID) NodeID {
	c := t.Children(id)
	if len(c) == 0 {
		return None
	}
	return c[0]
}

// LastChild returns the last child or None.
func (t *Tree) LastChild(id NodeID) NodeID {
	c := t.Children(id)
	if len(c) == 0 {
		return None
	}
	return c[len(c)-1]
}

// Index returns the position of id among its siblings, or -1.
func (t *Tree) Index(id NodeID) int {
	p := t.Parent(id)
	if p == None {
		return -1
	}
	for i, c := range t.nodes[p].children {
		if c == id {
			return i
		}
	}
	return -1
}

// PrevSibling returns the preceding sibling or None.
func (t *Tree) PrevSibling(id NodeID) NodeID {
	i := t.Index(id)
	if i <= 0 {
		return None
	}
	return t.nodes[t.nodes[id].parent].children[i-1]
}

// NextSibling returns the following sibling or None.
func (t *Tree) NextSibling(id NodeID) NodeID {
	i := t.Index(id)
	if i < 0 {
		return None
	}
	siblings := t.nodes[t.nodes[id].parent].children
	if i+1 >= len(siblings) {
		return None
	}
	return siblings[i+1]
}

// Attached reports whether id is reachable from the root.
func (t *Tree) Attached(id NodeID) bool {
	for cur := id; t.Valid(cur); cur = t.nodes[cur].parent {
		if cur == t.root {
			return true
		}
	}
	return false
}

// IsAncestor reports whether anc is a proper ancestor of id.
func (t *Tree) IsAncestor(anc, id NodeID) bool {
	for cur := t.Parent(id); cur != None; cur = t.Parent(cur) {
		if cur == anc {
			return true
		}
	}
	return false
}

// --- Mutation ---

// AppendChild attaches child as the last child of parent, detaching it
// from any previous position first.
func (t *Tree) AppendChild(parent, child NodeID) {
	t.InsertChild(parent, child, len(t.Children(parent)))
}

// InsertChild attaches child at position index of parent's children.
// Out-of-range indexes are clamped.
func (t *Tree) InsertChild(parent, child NodeID, index int) {
	if !t.Valid(parent) || !t.Valid(child) || child == t.root || child == parent {
		return
	}
	if len(t.nodes[child].children) > 0 && t.IsAncestor(child, parent) {
		return
	}
	if t.nodes[child].parent != None {
		t.unlink(child)
	}
	p := &t.nodes[parent]
	if index < 0 {
		index = 0
	}
	if index > len(p.children) {
		index = len(p.children)
	}
	p.children = append(p.children, None)
	copy(p.children[index+1:], p.children[index:])
	p.children[index] = child
	t.nodes[child].parent = parent
}

// Detach removes id and its subtree from the tree. The tail text is kept
// in the document by moving it onto the previous sibling's tail, or the
// parent's own text. Detaching an already detached node, or the root, is
// a no-op.
func (t *Tree) Detach(id NodeID) {
	if !t.Valid(id) || id == t.root || t.nodes[id].parent == None {
		return
	}
	if tail := t.nodes[id].tail; tail != "" {
		if prev := t.PrevSibling(id); prev != None {
			t.nodes[prev].tail += tail
		} else {
			t.nodes[t.nodes[id].parent].text += tail
		}
		t.nodes[id].tail = ""
	}
	t.unlink(id)
}

// Remove detaches id. For the root it removes only the root's children
// and text, since the root itself is never removed.
func (t *Tree) Remove(id NodeID) {
	if id != t.root {
		t.Detach(id)
		return
	}
	for _, c := range t.nodes[id].children {
		t.nodes[c].parent = None
	}
	t.nodes[id].children = nil
	t.nodes[id].text = ""
}

func (t *Tree) unlink(id NodeID) {
	p := t.nodes[id].parent
	siblings := t.nodes[p].children
	for i, c := range siblings {
		if c == id {
			t.nodes[p].children = append(siblings[:i], siblings[i+1:]...)
			break
		}
	}
	t.nodes[id].parent = None
}
