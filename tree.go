package pcfg

import (
	"fmt"
	"strings"
)

// Node represents a single node in parsing tree. Terminal nodes are leaves,
// nonterminal nodes own their children
type Node struct {
	// Symbol in current node
	Symbol Symbol

	// Children nodes
	Children []*Node
}

// TaggedLeaf is a token together with the label of its parent node
type TaggedLeaf struct {
	Token string
	Label string
}

// NewLeaf creates a terminal node
func NewLeaf(token string) *Node {
	return &Node{Symbol: TerminalSymbol(token)}
}

// NewNode creates a nonterminal node over children
func NewNode(label string, children ...*Node) *Node {
	return &Node{Symbol: NonterminalSymbol(label), Children: children}
}

// IsLeaf returns whether n is a terminal node
func (n *Node) IsLeaf() bool {
	return n.Symbol.IsTerminal()
}

// IsPreterminal returns whether n rewrites directly to a single token
func (n *Node) IsPreterminal() bool {
	return len(n.Children) == 1 && n.Children[0].IsLeaf()
}

// Leaves returns the tokens under n from left to right
func (n *Node) Leaves() []string {
	leaves := []string{}
	n.walkLeaves(nil, func(leaf, _ *Node) {
		leaves = append(leaves, leaf.Symbol.Label)
	})
	return leaves
}

// Tagged returns the tokens under n, each with the label of its parent
func (n *Node) Tagged() []TaggedLeaf {
	tagged := []TaggedLeaf{}
	n.walkLeaves(nil, func(leaf, parent *Node) {
		label := ""
		if parent != nil {
			label = parent.Symbol.Label
		}
		tagged = append(tagged, TaggedLeaf{Token: leaf.Symbol.Label, Label: label})
	})
	return tagged
}

func (n *Node) walkLeaves(parent *Node, visit func(leaf, parent *Node)) {
	if n.IsLeaf() {
		visit(n, parent)
		return
	}
	for _, child := range n.Children {
		child.walkLeaves(n, visit)
	}
}

// Copy returns a deep copy of the tree rooted at n
func (n *Node) Copy() *Node {
	if n == nil {
		return nil
	}
	copied := &Node{Symbol: n.Symbol}
	if len(n.Children) > 0 {
		copied.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			copied.Children[i] = child.Copy()
		}
	}
	return copied
}

// Equal reports whether both trees have the same shape and symbols
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.Symbol != other.Symbol || len(n.Children) != len(other.Children) {
		return false
	}
	for i, child := range n.Children {
		if !child.Equal(other.Children[i]) {
			return false
		}
	}
	return true
}

// Bracketed returns the tree on a single line in treebank format
//     (S (NP (N dog)) (VP (V barks)))
func (n *Node) Bracketed() string {
	var b strings.Builder
	n.bracketed(&b)
	return b.String()
}

func (n *Node) bracketed(b *strings.Builder) {
	if n.IsLeaf() {
		b.WriteString(n.Symbol.Label)
		return
	}
	b.WriteByte('(')
	b.WriteString(n.Symbol.Label)
	for _, child := range n.Children {
		b.WriteByte(' ')
		child.bracketed(b)
	}
	b.WriteByte(')')
}

// Convert the node to string
func (n *Node) String() string {
	return n.repr(0)
}

// Repr get the string representation of the node recursively
func (n *Node) repr(level int) string {
	// Don't wrap with parentheses when it's a leaf node
	prefix := strings.Repeat(" ", level*2)
	if level != 0 {
		prefix = "\n" + prefix
	}

	if n.IsLeaf() {
		return prefix + n.Symbol.Label
	}

	// Keep preterminals on one line, like (NN dog)
	if n.IsPreterminal() {
		return fmt.Sprintf("%s(%s %s)", prefix, n.Symbol.Label, n.Children[0].Symbol.Label)
	}

	childrenReprs := []string{}
	for _, child := range n.Children {
		childrenReprs = append(childrenReprs, child.repr(level+1))
	}
	return fmt.Sprintf(
		"%s(%s %s)",
		prefix,
		n.Symbol.Label,
		strings.Join(childrenReprs, " "))
}
