package pcfg

import (
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// InduceOptions controls grammar induction
type InduceOptions struct {
	// Label of the start symbol, DefaultStartLabel when empty
	Start string

	// How training trees are normalized before counting
	Normalize NormalizeOptions

	// Trees are already collapsed and binarized
	Prenormalized bool
}

// DefaultInduceOptions returns the options used for treebank training
func DefaultInduceOptions() InduceOptions {
	return InduceOptions{
		Start:     DefaultStartLabel,
		Normalize: DefaultNormalizeOptions(),
	}
}

// ProductionCount is a production observed Count times
type ProductionCount struct {
	Left  Symbol
	Right []Symbol
	Count int
}

// Counts accumulates production frequencies over a set of trees. Productions
// keep the order they were first seen in
type Counts struct {
	Productions []ProductionCount
	Totals      map[Symbol]int

	index map[string]int
}

// NewCounts creates an empty Counts
func NewCounts() *Counts {
	return &Counts{
		Totals: map[Symbol]int{},
		index:  map[string]int{},
	}
}

// Add counts every production of tree, one per internal node
func (c *Counts) Add(tree *Node) {
	if tree.IsLeaf() || len(tree.Children) == 0 {
		return
	}
	right := make([]Symbol, len(tree.Children))
	for i, child := range tree.Children {
		right[i] = child.Symbol
	}
	key := productionKey(tree.Symbol, right)
	if at, ok := c.index[key]; ok {
		c.Productions[at].Count++
	} else {
		c.index[key] = len(c.Productions)
		c.Productions = append(c.Productions, ProductionCount{Left: tree.Symbol, Right: right, Count: 1})
	}
	c.Totals[tree.Symbol]++

	for _, child := range tree.Children {
		c.Add(child)
	}
}

// Estimate turns the counts into maximum-likelihood probabilities,
// count(A -> X) / count(A)
func (c *Counts) Estimate() []Production {
	productions := make([]Production, len(c.Productions))
	for i, pc := range c.Productions {
		productions[i] = Production{
			Left:        pc.Left,
			Right:       pc.Right,
			Probability: float64(pc.Count) / float64(c.Totals[pc.Left]),
		}
	}
	return productions
}

// TreeProductions lists the productions of tree in pre-order, one per internal
// node, with zero probability
func TreeProductions(tree *Node) []Production {
	productions := []Production{}
	var walk func(n *Node)
	walk = func(n *Node) {
		if n.IsLeaf() || len(n.Children) == 0 {
			return
		}
		right := make([]Symbol, len(n.Children))
		for i, child := range n.Children {
			right[i] = child.Symbol
		}
		productions = append(productions, Production{Left: n.Symbol, Right: right})
		for _, child := range n.Children {
			walk(child)
		}
	}
	walk(tree)
	return productions
}

// Induce estimates a PCFG from training trees. Each tree is normalized, its
// productions counted, and the counts of every left-hand side turned into
// maximum-likelihood probabilities
func Induce(trees []*Node, opts InduceOptions) (*Grammar, error) {
	if len(trees) == 0 {
		return nil, errors.Wrap(ErrGrammarEmpty, "no training trees")
	}
	start := opts.Start
	if start == "" {
		start = DefaultStartLabel
	}

	counts := NewCounts()
	for i, tree := range trees {
		normalized := tree
		if !opts.Prenormalized {
			var err error
			if normalized, err = Normalize(tree, opts.Normalize); err != nil {
				return nil, errors.Wrapf(err, "training tree %d", i)
			}
		}
		counts.Add(normalized)
	}
	if glog.V(1) {
		glog.Infof("induce: %d trees, %d distinct productions, %d left-hand sides",
			len(trees), len(counts.Productions), len(counts.Totals))
	}

	grammar, err := NewGrammar(NonterminalSymbol(start), counts.Estimate())
	if err != nil {
		return nil, errors.Wrap(err, "induce")
	}
	return grammar, nil
}
