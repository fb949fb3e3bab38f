package pcfg

import (
	"strings"

	"github.com/pkg/errors"
)

// DefaultMarkovOrder is the horizontal markov order used for binarization
const DefaultMarkovOrder = 2

// NormalizeOptions controls how trees are turned into binarized,
// unary-collapsed form
type NormalizeOptions struct {
	// Number of pending siblings a binarization intermediate remembers.
	// Zero or less keeps all of them
	MarkovOrder int

	// Collapse the root node with its only child too
	CollapseRoot bool

	// Collapse part-of-speech nodes into the chain above them
	CollapsePOS bool
}

// DefaultNormalizeOptions returns right-factored binarization with markov
// order 2, keeping the root and part-of-speech nodes
func DefaultNormalizeOptions() NormalizeOptions {
	return NormalizeOptions{MarkovOrder: DefaultMarkovOrder}
}

// Normalize collapses unary chains of tree and then binarizes it. tree is
// left untouched
func Normalize(tree *Node, opts NormalizeOptions) (*Node, error) {
	if err := checkLabels(tree); err != nil {
		return nil, err
	}
	return Binarize(CollapseUnary(tree, opts), opts.MarkovOrder), nil
}

// Denormalize reverses Normalize
func Denormalize(tree *Node) *Node {
	return ExpandUnary(Debinarize(tree))
}

// checkLabels rejects labels that could not be told apart from a collapsed
// chain or a binarization intermediate
func checkLabels(n *Node) error {
	if n.IsLeaf() {
		return nil
	}
	if n.Symbol.Kind != Nonterminal {
		return errors.Wrapf(ErrReservedLabel, "%s is already normalized", n.Symbol)
	}
	label := n.Symbol.Label
	if label == "" || strings.Contains(label, chainSeparator) || strings.Contains(label, syntheticOpen) {
		return errors.Wrapf(ErrReservedLabel, "label '%s'", label)
	}
	for _, child := range n.Children {
		if err := checkLabels(child); err != nil {
			return err
		}
	}
	return nil
}

// CollapseUnary merges every chain of unary nonterminal nodes into a single
// node labeled by the chain, like (S (VP (V sat) (PP ..))) into
// (S+VP (V sat) (PP ..)) when S is not the root. Part-of-speech nodes are only
// merged with opts.CollapsePOS, the root only with opts.CollapseRoot
func CollapseUnary(tree *Node, opts NormalizeOptions) *Node {
	return collapseUnary(tree, !opts.CollapseRoot, opts)
}

func collapseUnary(n *Node, keep bool, opts NormalizeOptions) *Node {
	if n.IsLeaf() {
		return &Node{Symbol: n.Symbol}
	}

	labels := []string{n.Symbol.Label}
	current := n
	if !keep {
		for len(current.Children) == 1 {
			child := current.Children[0]
			if child.IsLeaf() || (!opts.CollapsePOS && child.IsPreterminal()) {
				break
			}
			current = child
			labels = append(labels, current.Symbol.Label)
		}
	}

	collapsed := &Node{Symbol: ChainSymbol(labels)}
	if len(labels) == 1 {
		collapsed.Symbol = n.Symbol
	}
	collapsed.Children = make([]*Node, len(current.Children))
	for i, child := range current.Children {
		collapsed.Children[i] = collapseUnary(child, false, opts)
	}
	return collapsed
}

// ExpandUnary splits collapsed chains back into nested unary nodes
func ExpandUnary(tree *Node) *Node {
	if tree.IsLeaf() {
		return &Node{Symbol: tree.Symbol}
	}

	children := make([]*Node, len(tree.Children))
	for i, child := range tree.Children {
		children[i] = ExpandUnary(child)
	}

	if tree.Symbol.Kind != Nonterminal {
		return &Node{Symbol: tree.Symbol, Children: children}
	}
	chain := tree.Symbol.Chain()
	expanded := &Node{Symbol: NonterminalSymbol(chain[len(chain)-1]), Children: children}
	for i := len(chain) - 2; i >= 0; i-- {
		expanded = &Node{Symbol: NonterminalSymbol(chain[i]), Children: []*Node{expanded}}
	}
	return expanded
}

// Binarize right-factors every node with more than two children
//     A -> B C D E
// becomes
//     A -> B A|<C-D>
//     A|<C-D> -> C A|<D-E>
//     A|<D-E> -> D E
// for markovOrder 2. markovOrder <= 0 keeps every pending sibling in the label
func Binarize(tree *Node, markovOrder int) *Node {
	if tree.IsLeaf() {
		return &Node{Symbol: tree.Symbol}
	}

	children := make([]*Node, len(tree.Children))
	for i, child := range tree.Children {
		children[i] = Binarize(child, markovOrder)
	}

	top := &Node{Symbol: tree.Symbol}
	if len(children) <= 2 {
		top.Children = children
		return top
	}

	parent := tree.Symbol.Label
	current := top
	for i := 0; i < len(children)-2; i++ {
		end := len(children)
		if markovOrder > 0 && i+1+markovOrder < end {
			end = i + 1 + markovOrder
		}
		context := make([]string, 0, end-i-1)
		for _, sibling := range children[i+1 : end] {
			context = append(context, sibling.Symbol.String())
		}
		next := &Node{Symbol: SyntheticSymbol(parent, context)}
		current.Children = []*Node{children[i], next}
		current = next
	}
	current.Children = children[len(children)-2:]
	return top
}

// Debinarize splices binarization intermediates back into their parents
func Debinarize(tree *Node) *Node {
	if tree.IsLeaf() {
		return &Node{Symbol: tree.Symbol}
	}

	children := []*Node{}
	for _, child := range tree.Children {
		debinarized := Debinarize(child)
		if child.Symbol.IsSynthetic() {
			// Already flattened, its children belong to tree
			children = append(children, debinarized.Children...)
		} else {
			children = append(children, debinarized)
		}
	}
	return &Node{Symbol: tree.Symbol, Children: children}
}
